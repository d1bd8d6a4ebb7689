package postgres

import (
	"database/sql"
	"time"

	"github.com/pitchside/matchday/internal/domain/ledger"
)

type goalTableModel struct {
	ID            int64          `db:"id"`
	PublicID      string         `db:"public_id"`
	MatchPublicID string         `db:"match_public_id"`
	Quarter       int            `db:"quarter"`
	Minute        int            `db:"minute"`
	Side          string         `db:"side"`
	ScorerID      string         `db:"scorer_id"`
	AssistantID   sql.NullString `db:"assistant_id"`
	OwnGoal       bool           `db:"own_goal"`
	RecordedBy    string         `db:"recorded_by"`
	RecordedAt    time.Time      `db:"recorded_at"`
}

type cardTableModel struct {
	ID            int64     `db:"id"`
	PublicID      string    `db:"public_id"`
	MatchPublicID string    `db:"match_public_id"`
	Quarter       int       `db:"quarter"`
	Minute        int       `db:"minute"`
	Side          string    `db:"side"`
	PlayerID      string    `db:"player_id"`
	CardType      string    `db:"card_type"`
	RecordedBy    string    `db:"recorded_by"`
	RecordedAt    time.Time `db:"recorded_at"`
}

type substitutionTableModel struct {
	ID            int64     `db:"id"`
	PublicID      string    `db:"public_id"`
	MatchPublicID string    `db:"match_public_id"`
	Quarter       int       `db:"quarter"`
	Minute        int       `db:"minute"`
	Side          string    `db:"side"`
	PlayerOutID   string    `db:"player_out_id"`
	PlayerInID    string    `db:"player_in_id"`
	RecordedBy    string    `db:"recorded_by"`
	RecordedAt    time.Time `db:"recorded_at"`
}

// goalTallyModel carries the one column score recomputation reads. Own goals
// are already stored under the benefiting side.
type goalTallyModel struct {
	Side string `db:"side"`
}

func goalsFromTallies(rows []goalTallyModel) []ledger.Goal {
	out := make([]ledger.Goal, 0, len(rows))
	for _, row := range rows {
		out = append(out, ledger.Goal{Side: row.Side})
	}
	return out
}

func goalFromRow(row goalTableModel) ledger.Goal {
	return ledger.Goal{
		ID:          row.PublicID,
		MatchID:     row.MatchPublicID,
		Quarter:     row.Quarter,
		Minute:      row.Minute,
		Side:        row.Side,
		ScorerID:    row.ScorerID,
		AssistantID: nullStringValue(row.AssistantID),
		OwnGoal:     row.OwnGoal,
		RecordedBy:  row.RecordedBy,
		RecordedAt:  row.RecordedAt,
	}
}

func goalToRow(goal ledger.Goal) goalTableModel {
	return goalTableModel{
		PublicID:      goal.ID,
		MatchPublicID: goal.MatchID,
		Quarter:       goal.Quarter,
		Minute:        goal.Minute,
		Side:          goal.Side,
		ScorerID:      goal.ScorerID,
		AssistantID:   stringNull(goal.AssistantID),
		OwnGoal:       goal.OwnGoal,
		RecordedBy:    goal.RecordedBy,
		RecordedAt:    goal.RecordedAt,
	}
}

func cardFromRow(row cardTableModel) ledger.Card {
	return ledger.Card{
		ID:         row.PublicID,
		MatchID:    row.MatchPublicID,
		Quarter:    row.Quarter,
		Minute:     row.Minute,
		Side:       row.Side,
		PlayerID:   row.PlayerID,
		CardType:   row.CardType,
		RecordedBy: row.RecordedBy,
		RecordedAt: row.RecordedAt,
	}
}

func cardToRow(card ledger.Card) cardTableModel {
	return cardTableModel{
		PublicID:      card.ID,
		MatchPublicID: card.MatchID,
		Quarter:       card.Quarter,
		Minute:        card.Minute,
		Side:          card.Side,
		PlayerID:      card.PlayerID,
		CardType:      card.CardType,
		RecordedBy:    card.RecordedBy,
		RecordedAt:    card.RecordedAt,
	}
}

func substitutionFromRow(row substitutionTableModel) ledger.Substitution {
	return ledger.Substitution{
		ID:          row.PublicID,
		MatchID:     row.MatchPublicID,
		Quarter:     row.Quarter,
		Minute:      row.Minute,
		Side:        row.Side,
		PlayerOutID: row.PlayerOutID,
		PlayerInID:  row.PlayerInID,
		RecordedBy:  row.RecordedBy,
		RecordedAt:  row.RecordedAt,
	}
}

func substitutionToRow(substitution ledger.Substitution) substitutionTableModel {
	return substitutionTableModel{
		PublicID:      substitution.ID,
		MatchPublicID: substitution.MatchID,
		Quarter:       substitution.Quarter,
		Minute:        substitution.Minute,
		Side:          substitution.Side,
		PlayerOutID:   substitution.PlayerOutID,
		PlayerInID:    substitution.PlayerInID,
		RecordedBy:    substitution.RecordedBy,
		RecordedAt:    substitution.RecordedAt,
	}
}
