package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pitchside/matchday/internal/domain/match"
	qb "github.com/pitchside/matchday/internal/platform/querybuilder"
)

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

const matchUpsertQuery = `
INSERT INTO friendly_matches (
    public_id, team_id, is_host, scheduled_at, status,
    opponent_team_id, linked_record_id, challenge_token, token_expires_at,
    team_a_score, team_b_score, minimum_players, cancel_reason, created_at, updated_at
)
VALUES (
    :public_id, :team_id, :is_host, :scheduled_at, :status,
    :opponent_team_id, :linked_record_id, :challenge_token, :token_expires_at,
    :team_a_score, :team_b_score, :minimum_players, :cancel_reason, :created_at, :updated_at
)
ON CONFLICT (public_id)
DO UPDATE SET
    status = EXCLUDED.status,
    scheduled_at = EXCLUDED.scheduled_at,
    opponent_team_id = EXCLUDED.opponent_team_id,
    linked_record_id = EXCLUDED.linked_record_id,
    challenge_token = EXCLUDED.challenge_token,
    token_expires_at = EXCLUDED.token_expires_at,
    team_a_score = EXCLUDED.team_a_score,
    team_b_score = EXCLUDED.team_b_score,
    minimum_players = EXCLUDED.minimum_players,
    cancel_reason = EXCLUDED.cancel_reason,
    updated_at = EXCLUDED.updated_at`

func (r *MatchRepository) GetByID(ctx context.Context, recordID string) (match.Record, bool, error) {
	query, args, err := qb.Select("*").From("friendly_matches").
		Where(
			qb.Eq("public_id", recordID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return match.Record{}, false, fmt.Errorf("build get match query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Record{}, false, nil
		}
		return match.Record{}, false, fmt.Errorf("get match: %w", err)
	}

	return matchFromRow(row), true, nil
}

func (r *MatchRepository) GetByToken(ctx context.Context, token string) (match.Record, bool, error) {
	query, args, err := qb.Select("*").From("friendly_matches").
		Where(
			qb.Eq("challenge_token", token),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return match.Record{}, false, fmt.Errorf("build get match by token query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Record{}, false, nil
		}
		return match.Record{}, false, fmt.Errorf("get match by token: %w", err)
	}

	return matchFromRow(row), true, nil
}

func (r *MatchRepository) ListByTeam(ctx context.Context, teamID string) ([]match.Record, error) {
	query, args, err := qb.Select("*").From("friendly_matches").
		Where(
			qb.Eq("team_id", teamID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("scheduled_at").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list matches query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}

	out := make([]match.Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, matchFromRow(row))
	}
	return out, nil
}

func (r *MatchRepository) Create(ctx context.Context, record match.Record) error {
	if _, err := r.db.NamedExecContext(ctx, matchUpsertQuery, matchToRow(record)); err != nil {
		return fmt.Errorf("insert match: %w", err)
	}
	return nil
}

func (r *MatchRepository) Update(ctx context.Context, record match.Record) error {
	if _, err := r.db.NamedExecContext(ctx, matchUpsertQuery, matchToRow(record)); err != nil {
		return fmt.Errorf("update match: %w", err)
	}
	return nil
}

func (r *MatchRepository) CreatePair(ctx context.Context, host, mirror match.Record) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for match pair: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, record := range []match.Record{host, mirror} {
		if _, err := tx.NamedExecContext(ctx, matchUpsertQuery, matchToRow(record)); err != nil {
			return fmt.Errorf("upsert match %s: %w", record.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit match pair: %w", err)
	}
	return nil
}

func (r *MatchRepository) UpdatePair(ctx context.Context, first, second match.Record) error {
	return r.CreatePair(ctx, first, second)
}

func (r *MatchRepository) DeletePair(ctx context.Context, hostID, mirrorID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for match delete: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const deleteQuery = `
UPDATE friendly_matches
SET deleted_at = NOW(), updated_at = NOW()
WHERE public_id = $1
  AND deleted_at IS NULL`

	ids := []string{hostID}
	if mirrorID != "" {
		ids = append(ids, mirrorID)
	}
	for _, id := range ids {
		if _, err := tx.ExecContext(ctx, deleteQuery, id); err != nil {
			return fmt.Errorf("delete match %s: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit match delete: %w", err)
	}
	return nil
}

// ExpireChallenge is a compare-and-set on the status column so that exactly
// one of any number of concurrent readers performs the expiry.
func (r *MatchRepository) ExpireChallenge(ctx context.Context, recordID, reason string, now time.Time) (bool, error) {
	const expireQuery = `
UPDATE friendly_matches
SET status = $2,
    cancel_reason = $3,
    challenge_token = NULL,
    token_expires_at = NULL,
    updated_at = $4
WHERE public_id = $1
  AND status = $5
  AND deleted_at IS NULL`

	res, err := r.db.ExecContext(ctx, expireQuery, recordID, match.StatusCancelled, reason, now, match.StatusChallengeSent)
	if err != nil {
		return false, fmt.Errorf("expire challenge: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("expire challenge rows affected: %w", err)
	}
	return affected == 1, nil
}
