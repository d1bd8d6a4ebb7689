package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pitchside/matchday/internal/domain/referee"
	qb "github.com/pitchside/matchday/internal/platform/querybuilder"
)

type RefereeRepository struct {
	db *sqlx.DB
}

func NewRefereeRepository(db *sqlx.DB) *RefereeRepository {
	return &RefereeRepository{db: db}
}

const refereeUpsertQuery = `
INSERT INTO referee_assignments (
    match_public_id, quarter, referee_user_id, team_side, timer_status,
    elapsed_sec, last_resumed_at, started_at, ended_at, created_at, updated_at
)
VALUES (
    :match_public_id, :quarter, :referee_user_id, :team_side, :timer_status,
    :elapsed_sec, :last_resumed_at, :started_at, :ended_at, :created_at, :updated_at
)
ON CONFLICT (match_public_id, quarter)
DO UPDATE SET
    referee_user_id = EXCLUDED.referee_user_id,
    team_side = EXCLUDED.team_side,
    timer_status = EXCLUDED.timer_status,
    elapsed_sec = EXCLUDED.elapsed_sec,
    last_resumed_at = EXCLUDED.last_resumed_at,
    started_at = EXCLUDED.started_at,
    ended_at = EXCLUDED.ended_at,
    updated_at = EXCLUDED.updated_at`

func (r *RefereeRepository) GetByMatchAndQuarter(ctx context.Context, matchID string, quarter int) (referee.Assignment, bool, error) {
	query, args, err := qb.Select("*").From("referee_assignments").
		Where(
			qb.Eq("match_public_id", matchID),
			qb.Eq("quarter", quarter),
		).
		ToSQL()
	if err != nil {
		return referee.Assignment{}, false, fmt.Errorf("build get referee assignment query: %w", err)
	}

	var row refereeTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return referee.Assignment{}, false, nil
		}
		return referee.Assignment{}, false, fmt.Errorf("get referee assignment: %w", err)
	}

	return refereeFromRow(row), true, nil
}

func (r *RefereeRepository) ListByMatch(ctx context.Context, matchID string) ([]referee.Assignment, error) {
	query, args, err := qb.Select("*").From("referee_assignments").
		Where(qb.Eq("match_public_id", matchID)).
		OrderBy("quarter").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list referee assignments query: %w", err)
	}

	var rows []refereeTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list referee assignments: %w", err)
	}

	out := make([]referee.Assignment, 0, len(rows))
	for _, row := range rows {
		out = append(out, refereeFromRow(row))
	}
	return out, nil
}

func (r *RefereeRepository) Upsert(ctx context.Context, assignment referee.Assignment) error {
	if _, err := r.db.NamedExecContext(ctx, refereeUpsertQuery, refereeToRow(assignment, time.Now().UTC())); err != nil {
		return fmt.Errorf("upsert referee assignment: %w", err)
	}
	return nil
}

func (r *RefereeRepository) ReplaceForMatch(ctx context.Context, matchID string, assignments []referee.Assignment) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for referee replace: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const deleteQuery = `DELETE FROM referee_assignments WHERE match_public_id = $1`
	if _, err := tx.ExecContext(ctx, deleteQuery, matchID); err != nil {
		return fmt.Errorf("clear referee assignments: %w", err)
	}

	now := time.Now().UTC()
	for _, assignment := range assignments {
		if _, err := tx.NamedExecContext(ctx, refereeUpsertQuery, refereeToRow(assignment, now)); err != nil {
			return fmt.Errorf("insert referee assignment q%d: %w", assignment.Quarter, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit referee replace: %w", err)
	}
	return nil
}
