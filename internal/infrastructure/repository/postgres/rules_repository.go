package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pitchside/matchday/internal/domain/rules"
	qb "github.com/pitchside/matchday/internal/platform/querybuilder"
)

type RulesRepository struct {
	db *sqlx.DB
}

func NewRulesRepository(db *sqlx.DB) *RulesRepository {
	return &RulesRepository{db: db}
}

func (r *RulesRepository) GetByMatch(ctx context.Context, matchID string) (rules.Agreement, bool, error) {
	query, args, err := qb.Select("*").From("match_rules").
		Where(qb.Eq("match_public_id", matchID)).
		ToSQL()
	if err != nil {
		return rules.Agreement{}, false, fmt.Errorf("build get rules query: %w", err)
	}

	var row rulesTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return rules.Agreement{}, false, nil
		}
		return rules.Agreement{}, false, fmt.Errorf("get rules: %w", err)
	}

	return rulesFromRow(row), true, nil
}

func (r *RulesRepository) Upsert(ctx context.Context, agreement rules.Agreement) error {
	const upsertQuery = `
INSERT INTO match_rules (
    match_public_id, quarter_count, quarter_minutes, quarter_break_minutes, halftime_minutes,
    players_per_side, offside_enabled, sliding_allowed, agreed_by_team_a, agreed_by_team_b,
    current_phase, timer_started_at, timer_elapsed_sec, created_at, updated_at
)
VALUES (
    :match_public_id, :quarter_count, :quarter_minutes, :quarter_break_minutes, :halftime_minutes,
    :players_per_side, :offside_enabled, :sliding_allowed, :agreed_by_team_a, :agreed_by_team_b,
    :current_phase, :timer_started_at, :timer_elapsed_sec, :created_at, :updated_at
)
ON CONFLICT (match_public_id)
DO UPDATE SET
    quarter_count = EXCLUDED.quarter_count,
    quarter_minutes = EXCLUDED.quarter_minutes,
    quarter_break_minutes = EXCLUDED.quarter_break_minutes,
    halftime_minutes = EXCLUDED.halftime_minutes,
    players_per_side = EXCLUDED.players_per_side,
    offside_enabled = EXCLUDED.offside_enabled,
    sliding_allowed = EXCLUDED.sliding_allowed,
    agreed_by_team_a = EXCLUDED.agreed_by_team_a,
    agreed_by_team_b = EXCLUDED.agreed_by_team_b,
    current_phase = EXCLUDED.current_phase,
    timer_started_at = EXCLUDED.timer_started_at,
    timer_elapsed_sec = EXCLUDED.timer_elapsed_sec,
    updated_at = EXCLUDED.updated_at`

	if _, err := r.db.NamedExecContext(ctx, upsertQuery, rulesToRow(agreement)); err != nil {
		return fmt.Errorf("upsert rules: %w", err)
	}
	return nil
}
