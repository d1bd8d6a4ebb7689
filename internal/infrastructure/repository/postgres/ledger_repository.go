package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pitchside/matchday/internal/domain/ledger"
	qb "github.com/pitchside/matchday/internal/platform/querybuilder"
)

type LedgerRepository struct {
	db *sqlx.DB
}

func NewLedgerRepository(db *sqlx.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

func (r *LedgerRepository) ListGoals(ctx context.Context, matchID string) ([]ledger.Goal, error) {
	query, args, err := qb.Select("*").From("match_goals").
		Where(qb.Eq("match_public_id", matchID)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list goals query: %w", err)
	}

	var rows []goalTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}

	out := make([]ledger.Goal, 0, len(rows))
	for _, row := range rows {
		out = append(out, goalFromRow(row))
	}
	return out, nil
}

func (r *LedgerRepository) ListCards(ctx context.Context, matchID string) ([]ledger.Card, error) {
	query, args, err := qb.Select("*").From("match_cards").
		Where(qb.Eq("match_public_id", matchID)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list cards query: %w", err)
	}

	var rows []cardTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}

	out := make([]ledger.Card, 0, len(rows))
	for _, row := range rows {
		out = append(out, cardFromRow(row))
	}
	return out, nil
}

func (r *LedgerRepository) ListSubstitutions(ctx context.Context, matchID string) ([]ledger.Substitution, error) {
	query, args, err := qb.Select("*").From("match_substitutions").
		Where(qb.Eq("match_public_id", matchID)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list substitutions query: %w", err)
	}

	var rows []substitutionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list substitutions: %w", err)
	}

	out := make([]ledger.Substitution, 0, len(rows))
	for _, row := range rows {
		out = append(out, substitutionFromRow(row))
	}
	return out, nil
}

// AppendGoal inserts the goal, recomputes the scores from every goal of the
// match, and writes the caches onto both records in one transaction. The host
// row is locked first so concurrent appends serialize and each recompute sees
// the other's insert. The mirror record stores the flipped orientation.
func (r *LedgerRepository) AppendGoal(ctx context.Context, goal ledger.Goal, hostID, mirrorID string) (ledger.Scores, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return ledger.Scores{}, fmt.Errorf("begin tx for goal append: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const lockQuery = `
SELECT id
FROM friendly_matches
WHERE public_id = $1
  AND deleted_at IS NULL
FOR UPDATE`
	var lockedID int64
	if err := tx.GetContext(ctx, &lockedID, lockQuery, hostID); err != nil {
		return ledger.Scores{}, fmt.Errorf("lock host record: %w", err)
	}

	const insertQuery = `
INSERT INTO match_goals (
    public_id, match_public_id, quarter, minute, side,
    scorer_id, assistant_id, own_goal, recorded_by, recorded_at
)
VALUES (
    :public_id, :match_public_id, :quarter, :minute, :side,
    :scorer_id, :assistant_id, :own_goal, :recorded_by, :recorded_at
)`
	if _, err := tx.NamedExecContext(ctx, insertQuery, goalToRow(goal)); err != nil {
		return ledger.Scores{}, fmt.Errorf("insert goal: %w", err)
	}

	const tallyQuery = `
SELECT side
FROM match_goals
WHERE match_public_id = $1`
	var tallies []goalTallyModel
	if err := tx.SelectContext(ctx, &tallies, tallyQuery, goal.MatchID); err != nil {
		return ledger.Scores{}, fmt.Errorf("tally goals: %w", err)
	}
	scores := ledger.Recompute(goalsFromTallies(tallies))

	const cacheQuery = `
UPDATE friendly_matches
SET team_a_score = $2, team_b_score = $3, updated_at = $4
WHERE public_id = $1
  AND deleted_at IS NULL`
	if _, err := tx.ExecContext(ctx, cacheQuery, hostID, scores.TeamA, scores.TeamB, goal.RecordedAt); err != nil {
		return ledger.Scores{}, fmt.Errorf("update host score cache: %w", err)
	}
	if mirrorID != "" {
		if _, err := tx.ExecContext(ctx, cacheQuery, mirrorID, scores.TeamB, scores.TeamA, goal.RecordedAt); err != nil {
			return ledger.Scores{}, fmt.Errorf("update mirror score cache: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return ledger.Scores{}, fmt.Errorf("commit goal append: %w", err)
	}
	return scores, nil
}

func (r *LedgerRepository) AppendCard(ctx context.Context, card ledger.Card) error {
	const insertQuery = `
INSERT INTO match_cards (
    public_id, match_public_id, quarter, minute, side,
    player_id, card_type, recorded_by, recorded_at
)
VALUES (
    :public_id, :match_public_id, :quarter, :minute, :side,
    :player_id, :card_type, :recorded_by, :recorded_at
)`
	if _, err := r.db.NamedExecContext(ctx, insertQuery, cardToRow(card)); err != nil {
		return fmt.Errorf("insert card: %w", err)
	}
	return nil
}

func (r *LedgerRepository) AppendSubstitution(ctx context.Context, substitution ledger.Substitution) error {
	const insertQuery = `
INSERT INTO match_substitutions (
    public_id, match_public_id, quarter, minute, side,
    player_out_id, player_in_id, recorded_by, recorded_at
)
VALUES (
    :public_id, :match_public_id, :quarter, :minute, :side,
    :player_out_id, :player_in_id, :recorded_by, :recorded_at
)`
	if _, err := r.db.NamedExecContext(ctx, insertQuery, substitutionToRow(substitution)); err != nil {
		return fmt.Errorf("insert substitution: %w", err)
	}
	return nil
}
