package postgres

import (
	"database/sql"
	"time"

	"github.com/pitchside/matchday/internal/domain/match"
)

type matchTableModel struct {
	ID             int64          `db:"id"`
	PublicID       string         `db:"public_id"`
	TeamID         string         `db:"team_id"`
	IsHost         bool           `db:"is_host"`
	ScheduledAt    time.Time      `db:"scheduled_at"`
	Status         string         `db:"status"`
	OpponentTeamID sql.NullString `db:"opponent_team_id"`
	LinkedRecordID sql.NullString `db:"linked_record_id"`
	ChallengeToken sql.NullString `db:"challenge_token"`
	TokenExpiresAt sql.NullTime   `db:"token_expires_at"`
	TeamAScore     int            `db:"team_a_score"`
	TeamBScore     int            `db:"team_b_score"`
	MinimumPlayers int            `db:"minimum_players"`
	CancelReason   sql.NullString `db:"cancel_reason"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
	DeletedAt      *time.Time     `db:"deleted_at"`
}

func matchFromRow(row matchTableModel) match.Record {
	return match.Record{
		ID:             row.PublicID,
		TeamID:         row.TeamID,
		Host:           row.IsHost,
		ScheduledAt:    row.ScheduledAt,
		Status:         row.Status,
		OpponentTeamID: nullStringValue(row.OpponentTeamID),
		LinkedRecordID: nullStringValue(row.LinkedRecordID),
		ChallengeToken: nullStringValue(row.ChallengeToken),
		TokenExpiresAt: nullTimePtr(row.TokenExpiresAt),
		TeamAScore:     row.TeamAScore,
		TeamBScore:     row.TeamBScore,
		MinimumPlayers: row.MinimumPlayers,
		CancelReason:   nullStringValue(row.CancelReason),
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
}

func matchToRow(record match.Record) matchTableModel {
	return matchTableModel{
		PublicID:       record.ID,
		TeamID:         record.TeamID,
		IsHost:         record.Host,
		ScheduledAt:    record.ScheduledAt,
		Status:         record.Status,
		OpponentTeamID: stringNull(record.OpponentTeamID),
		LinkedRecordID: stringNull(record.LinkedRecordID),
		ChallengeToken: stringNull(record.ChallengeToken),
		TokenExpiresAt: ptrNullTime(record.TokenExpiresAt),
		TeamAScore:     record.TeamAScore,
		TeamBScore:     record.TeamBScore,
		MinimumPlayers: record.MinimumPlayers,
		CancelReason:   stringNull(record.CancelReason),
		CreatedAt:      record.CreatedAt,
		UpdatedAt:      record.UpdatedAt,
	}
}
