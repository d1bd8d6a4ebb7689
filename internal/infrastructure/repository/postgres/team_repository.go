package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pitchside/matchday/internal/domain/team"
	qb "github.com/pitchside/matchday/internal/platform/querybuilder"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

type teamTableModel struct {
	ID        int64      `db:"id"`
	PublicID  string     `db:"public_id"`
	Name      string     `db:"name"`
	Short     string     `db:"short_name"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

type memberTableModel struct {
	ID           int64     `db:"id"`
	TeamPublicID string    `db:"team_public_id"`
	UserID       string    `db:"user_id"`
	Name         string    `db:"name"`
	Role         string    `db:"role"`
	Attending    bool      `db:"attending"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(
			qb.Eq("public_id", teamID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build get team query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("get team: %w", err)
	}

	return team.Team{ID: row.PublicID, Name: row.Name, Short: row.Short}, true, nil
}

func (r *TeamRepository) ListMembers(ctx context.Context, teamID string) ([]team.Member, error) {
	query, args, err := qb.Select("*").From("team_members").
		Where(qb.Eq("team_public_id", teamID)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list members query: %w", err)
	}

	var rows []memberTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}

	out := make([]team.Member, 0, len(rows))
	for _, row := range rows {
		out = append(out, team.Member{
			UserID:    row.UserID,
			TeamID:    row.TeamPublicID,
			Name:      row.Name,
			Role:      row.Role,
			Attending: row.Attending,
		})
	}
	return out, nil
}

func (r *TeamRepository) GetMember(ctx context.Context, teamID, userID string) (team.Member, bool, error) {
	query, args, err := qb.Select("*").From("team_members").
		Where(
			qb.Eq("team_public_id", teamID),
			qb.Eq("user_id", userID),
		).
		ToSQL()
	if err != nil {
		return team.Member{}, false, fmt.Errorf("build get member query: %w", err)
	}

	var row memberTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Member{}, false, nil
		}
		return team.Member{}, false, fmt.Errorf("get member: %w", err)
	}

	return team.Member{
		UserID:    row.UserID,
		TeamID:    row.TeamPublicID,
		Name:      row.Name,
		Role:      row.Role,
		Attending: row.Attending,
	}, true, nil
}
