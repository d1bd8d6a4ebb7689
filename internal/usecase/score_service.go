package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pitchside/matchday/internal/domain/ledger"
	"github.com/pitchside/matchday/internal/domain/match"
	"github.com/pitchside/matchday/internal/domain/team"
	"github.com/pitchside/matchday/internal/domain/user"
	"github.com/pitchside/matchday/internal/platform/id"
)

// RecordGoalInput carries a goal as seen from the caller's record. Side is
// relative to that record: TEAM_A is always "my team" for the team whose
// record was addressed.
type RecordGoalInput struct {
	Quarter     int
	Minute      int
	Side        string
	ScorerID    string
	AssistantID string
	OwnGoal     bool
}

type RecordCardInput struct {
	Quarter  int
	Minute   int
	Side     string
	PlayerID string
	CardType string
}

type RecordSubstitutionInput struct {
	Quarter     int
	Minute      int
	Side        string
	PlayerOutID string
	PlayerInID  string
}

// ScoreService appends match events to the ledger. Entries are stored in the
// host orientation regardless of which record the caller addressed, and the
// score caches on both records are rewritten from a full recompute on every
// goal.
type ScoreService struct {
	matchRepo  match.Repository
	teamRepo   team.Repository
	ledgerRepo ledger.Repository
	idGen      id.Generator
	logger     *slog.Logger
	now        func() time.Time
}

func NewScoreService(
	matchRepo match.Repository,
	teamRepo team.Repository,
	ledgerRepo ledger.Repository,
	idGen id.Generator,
	logger *slog.Logger,
) *ScoreService {
	if logger == nil {
		logger = slog.Default()
	}

	return &ScoreService{
		matchRepo:  matchRepo,
		teamRepo:   teamRepo,
		ledgerRepo: ledgerRepo,
		idGen:      idGen,
		logger:     logger,
		now:        time.Now,
	}
}

// RecordGoal appends a goal. The repository recomputes both records' score
// caches from the full ledger inside the same transaction as the insert.
func (s *ScoreService) RecordGoal(ctx context.Context, caller user.Principal, matchID string, input RecordGoalInput) (ledger.Scores, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoreService.RecordGoal")
	defer span.End()

	record, hostID, mirrorID, err := s.loadLiveRecord(ctx, caller, matchID)
	if err != nil {
		return ledger.Scores{}, err
	}
	side, err := s.orientSide(record, input.Side)
	if err != nil {
		return ledger.Scores{}, err
	}
	if err := validateEventPosition(input.Quarter, input.Minute); err != nil {
		return ledger.Scores{}, err
	}
	if input.ScorerID == "" {
		return ledger.Scores{}, fmt.Errorf("%w: scorer id is required", ErrInvalidInput)
	}

	goalID, err := s.idGen.NewID()
	if err != nil {
		return ledger.Scores{}, fmt.Errorf("generate goal id: %w", err)
	}

	goal := ledger.Goal{
		ID:          goalID,
		MatchID:     hostID,
		Quarter:     input.Quarter,
		Minute:      input.Minute,
		Side:        side,
		ScorerID:    input.ScorerID,
		AssistantID: input.AssistantID,
		OwnGoal:     input.OwnGoal,
		RecordedBy:  caller.UserID,
		RecordedAt:  s.now().UTC(),
	}

	scores, err := s.ledgerRepo.AppendGoal(ctx, goal, hostID, mirrorID)
	if err != nil {
		return ledger.Scores{}, fmt.Errorf("append goal: %w", err)
	}

	s.logger.InfoContext(ctx, "goal recorded",
		"match_id", hostID,
		"quarter", goal.Quarter,
		"side", goal.Side,
		"team_a", scores.TeamA,
		"team_b", scores.TeamB,
	)

	return scores, nil
}

func (s *ScoreService) RecordCard(ctx context.Context, caller user.Principal, matchID string, input RecordCardInput) (ledger.Card, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoreService.RecordCard")
	defer span.End()

	record, hostID, _, err := s.loadLiveRecord(ctx, caller, matchID)
	if err != nil {
		return ledger.Card{}, err
	}
	side, err := s.orientSide(record, input.Side)
	if err != nil {
		return ledger.Card{}, err
	}
	if err := validateEventPosition(input.Quarter, input.Minute); err != nil {
		return ledger.Card{}, err
	}
	if input.PlayerID == "" {
		return ledger.Card{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}
	if input.CardType != ledger.CardYellow && input.CardType != ledger.CardRed {
		return ledger.Card{}, fmt.Errorf("%w: card type must be %s or %s", ErrInvalidInput, ledger.CardYellow, ledger.CardRed)
	}

	cardID, err := s.idGen.NewID()
	if err != nil {
		return ledger.Card{}, fmt.Errorf("generate card id: %w", err)
	}

	card := ledger.Card{
		ID:         cardID,
		MatchID:    hostID,
		Quarter:    input.Quarter,
		Minute:     input.Minute,
		Side:       side,
		PlayerID:   input.PlayerID,
		CardType:   input.CardType,
		RecordedBy: caller.UserID,
		RecordedAt: s.now().UTC(),
	}

	if err := s.ledgerRepo.AppendCard(ctx, card); err != nil {
		return ledger.Card{}, fmt.Errorf("append card: %w", err)
	}

	s.logger.InfoContext(ctx, "card recorded", "match_id", hostID, "card_type", card.CardType, "side", card.Side)
	return card, nil
}

func (s *ScoreService) RecordSubstitution(ctx context.Context, caller user.Principal, matchID string, input RecordSubstitutionInput) (ledger.Substitution, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoreService.RecordSubstitution")
	defer span.End()

	record, hostID, _, err := s.loadLiveRecord(ctx, caller, matchID)
	if err != nil {
		return ledger.Substitution{}, err
	}
	side, err := s.orientSide(record, input.Side)
	if err != nil {
		return ledger.Substitution{}, err
	}
	if err := validateEventPosition(input.Quarter, input.Minute); err != nil {
		return ledger.Substitution{}, err
	}
	if input.PlayerOutID == "" || input.PlayerInID == "" {
		return ledger.Substitution{}, fmt.Errorf("%w: both players of a substitution are required", ErrInvalidInput)
	}
	if input.PlayerOutID == input.PlayerInID {
		return ledger.Substitution{}, fmt.Errorf("%w: a player cannot replace themselves", ErrInvalidInput)
	}

	subID, err := s.idGen.NewID()
	if err != nil {
		return ledger.Substitution{}, fmt.Errorf("generate substitution id: %w", err)
	}

	substitution := ledger.Substitution{
		ID:          subID,
		MatchID:     hostID,
		Quarter:     input.Quarter,
		Minute:      input.Minute,
		Side:        side,
		PlayerOutID: input.PlayerOutID,
		PlayerInID:  input.PlayerInID,
		RecordedBy:  caller.UserID,
		RecordedAt:  s.now().UTC(),
	}

	if err := s.ledgerRepo.AppendSubstitution(ctx, substitution); err != nil {
		return ledger.Substitution{}, fmt.Errorf("append substitution: %w", err)
	}

	s.logger.InfoContext(ctx, "substitution recorded", "match_id", hostID, "side", substitution.Side)
	return substitution, nil
}

// Scores recomputes the current score pair from the ledger, oriented to the
// addressed record's perspective.
func (s *ScoreService) Scores(ctx context.Context, matchID string) (ledger.Scores, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoreService.Scores")
	defer span.End()

	record, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return ledger.Scores{}, fmt.Errorf("get match record: %w", err)
	}
	if !exists {
		return ledger.Scores{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}

	hostID := record.ID
	if !record.Host && record.LinkedRecordID != "" {
		hostID = record.LinkedRecordID
	}

	goals, err := s.ledgerRepo.ListGoals(ctx, hostID)
	if err != nil {
		return ledger.Scores{}, fmt.Errorf("list goals: %w", err)
	}

	scores := ledger.Recompute(goals)
	if !record.Host {
		scores.TeamA, scores.TeamB = scores.TeamB, scores.TeamA
	}
	return scores, nil
}

// loadLiveRecord resolves the addressed record, checks the match is
// IN_PROGRESS and the caller may record events, and returns the host and
// mirror record ids.
func (s *ScoreService) loadLiveRecord(ctx context.Context, caller user.Principal, matchID string) (match.Record, string, string, error) {
	record, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return match.Record{}, "", "", fmt.Errorf("get match record: %w", err)
	}
	if !exists {
		return match.Record{}, "", "", fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}
	if record.Status != match.StatusInProgress {
		return match.Record{}, "", "", fmt.Errorf("%w: recording requires IN_PROGRESS, match is %s", ErrStateConflict, record.Status)
	}

	if !s.canRecord(ctx, caller, record) {
		return match.Record{}, "", "", fmt.Errorf("%w: caller may not record events for this match", ErrUnauthorized)
	}

	hostID, mirrorID := record.ID, record.LinkedRecordID
	if !record.Host {
		hostID, mirrorID = record.LinkedRecordID, record.ID
	}
	if hostID == "" || mirrorID == "" {
		return match.Record{}, "", "", fmt.Errorf("%w: match is not paired", ErrStateConflict)
	}

	return record, hostID, mirrorID, nil
}

// canRecord allows team admins of either side, or attending roster members of
// either side.
func (s *ScoreService) canRecord(ctx context.Context, caller user.Principal, record match.Record) bool {
	if caller.AdminOf(record.TeamID) || caller.AdminOf(record.OpponentTeamID) {
		return true
	}
	for _, teamID := range []string{record.TeamID, record.OpponentTeamID} {
		if teamID == "" || !caller.MemberOf(teamID) {
			continue
		}
		member, exists, err := s.teamRepo.GetMember(ctx, teamID, caller.UserID)
		if err != nil {
			s.logger.WarnContext(ctx, "membership lookup failed", "team_id", teamID, "error", err)
			continue
		}
		if exists && member.Attending {
			return true
		}
	}
	return false
}

// orientSide converts the caller-relative side into the host orientation the
// ledger stores. On the mirror record the labels flip.
func (s *ScoreService) orientSide(record match.Record, side string) (string, error) {
	if !ledger.ValidSide(side) {
		return "", fmt.Errorf("%w: side must be %s or %s", ErrInvalidInput, ledger.SideTeamA, ledger.SideTeamB)
	}
	if !record.Host {
		return ledger.FlipSide(side), nil
	}
	return side, nil
}

func validateEventPosition(quarter, minute int) error {
	if quarter < 1 {
		return fmt.Errorf("%w: quarter must be positive", ErrInvalidInput)
	}
	if minute < 0 {
		return fmt.Errorf("%w: minute must not be negative", ErrInvalidInput)
	}
	return nil
}
