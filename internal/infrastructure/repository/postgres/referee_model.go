package postgres

import (
	"database/sql"
	"time"

	"github.com/pitchside/matchday/internal/domain/referee"
)

type refereeTableModel struct {
	ID            int64          `db:"id"`
	MatchPublicID string         `db:"match_public_id"`
	Quarter       int            `db:"quarter"`
	RefereeUserID string         `db:"referee_user_id"`
	TeamSide      sql.NullString `db:"team_side"`
	TimerStatus   string         `db:"timer_status"`
	ElapsedSec    int            `db:"elapsed_sec"`
	LastResumedAt sql.NullTime   `db:"last_resumed_at"`
	StartedAt     sql.NullTime   `db:"started_at"`
	EndedAt       sql.NullTime   `db:"ended_at"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

func refereeFromRow(row refereeTableModel) referee.Assignment {
	return referee.Assignment{
		MatchID:        row.MatchPublicID,
		Quarter:        row.Quarter,
		RefereeUserID:  row.RefereeUserID,
		TeamSide:       nullStringValue(row.TeamSide),
		TimerStatus:    row.TimerStatus,
		ElapsedSeconds: row.ElapsedSec,
		LastResumedAt:  nullTimePtr(row.LastResumedAt),
		StartedAt:      nullTimePtr(row.StartedAt),
		EndedAt:        nullTimePtr(row.EndedAt),
	}
}

func refereeToRow(assignment referee.Assignment, now time.Time) refereeTableModel {
	return refereeTableModel{
		MatchPublicID: assignment.MatchID,
		Quarter:       assignment.Quarter,
		RefereeUserID: assignment.RefereeUserID,
		TeamSide:      stringNull(assignment.TeamSide),
		TimerStatus:   assignment.TimerStatus,
		ElapsedSec:    assignment.ElapsedSeconds,
		LastResumedAt: ptrNullTime(assignment.LastResumedAt),
		StartedAt:     ptrNullTime(assignment.StartedAt),
		EndedAt:       ptrNullTime(assignment.EndedAt),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}
