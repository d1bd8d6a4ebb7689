package postgres

import (
	"database/sql"
	"time"

	"github.com/pitchside/matchday/internal/domain/rules"
)

type rulesTableModel struct {
	ID                  int64        `db:"id"`
	MatchPublicID       string       `db:"match_public_id"`
	QuarterCount        int          `db:"quarter_count"`
	QuarterMinutes      int          `db:"quarter_minutes"`
	QuarterBreakMinutes int          `db:"quarter_break_minutes"`
	HalftimeMinutes     int          `db:"halftime_minutes"`
	PlayersPerSide      int          `db:"players_per_side"`
	OffsideEnabled      bool         `db:"offside_enabled"`
	SlidingAllowed      bool         `db:"sliding_allowed"`
	AgreedByTeamA       bool         `db:"agreed_by_team_a"`
	AgreedByTeamB       bool         `db:"agreed_by_team_b"`
	CurrentPhase        int          `db:"current_phase"`
	TimerStartedAt      sql.NullTime `db:"timer_started_at"`
	TimerElapsedSec     int          `db:"timer_elapsed_sec"`
	CreatedAt           time.Time    `db:"created_at"`
	UpdatedAt           time.Time    `db:"updated_at"`
}

func rulesFromRow(row rulesTableModel) rules.Agreement {
	return rules.Agreement{
		MatchID:             row.MatchPublicID,
		QuarterCount:        row.QuarterCount,
		QuarterMinutes:      row.QuarterMinutes,
		QuarterBreakMinutes: row.QuarterBreakMinutes,
		HalftimeMinutes:     row.HalftimeMinutes,
		PlayersPerSide:      row.PlayersPerSide,
		OffsideEnabled:      row.OffsideEnabled,
		SlidingAllowed:      row.SlidingAllowed,
		AgreedByTeamA:       row.AgreedByTeamA,
		AgreedByTeamB:       row.AgreedByTeamB,
		CurrentPhase:        row.CurrentPhase,
		TimerStartedAt:      nullTimePtr(row.TimerStartedAt),
		TimerElapsedSec:     row.TimerElapsedSec,
		CreatedAt:           row.CreatedAt,
		UpdatedAt:           row.UpdatedAt,
	}
}

func rulesToRow(agreement rules.Agreement) rulesTableModel {
	return rulesTableModel{
		MatchPublicID:       agreement.MatchID,
		QuarterCount:        agreement.QuarterCount,
		QuarterMinutes:      agreement.QuarterMinutes,
		QuarterBreakMinutes: agreement.QuarterBreakMinutes,
		HalftimeMinutes:     agreement.HalftimeMinutes,
		PlayersPerSide:      agreement.PlayersPerSide,
		OffsideEnabled:      agreement.OffsideEnabled,
		SlidingAllowed:      agreement.SlidingAllowed,
		AgreedByTeamA:       agreement.AgreedByTeamA,
		AgreedByTeamB:       agreement.AgreedByTeamB,
		CurrentPhase:        agreement.CurrentPhase,
		TimerStartedAt:      ptrNullTime(agreement.TimerStartedAt),
		TimerElapsedSec:     agreement.TimerElapsedSec,
		CreatedAt:           agreement.CreatedAt,
		UpdatedAt:           agreement.UpdatedAt,
	}
}
