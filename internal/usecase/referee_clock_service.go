package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pitchside/matchday/internal/domain/match"
	"github.com/pitchside/matchday/internal/domain/referee"
	"github.com/pitchside/matchday/internal/domain/rules"
	"github.com/pitchside/matchday/internal/domain/user"
)

const (
	RefereeActionStart  = "START"
	RefereeActionPause  = "PAUSE"
	RefereeActionResume = "RESUME"
	RefereeActionEnd    = "END"
	RefereeActionAdjust = "ADJUST"
)

// AssignRefereeInput binds one referee to one quarter.
type AssignRefereeInput struct {
	Quarter       int
	RefereeUserID string
	TeamSide      string
}

// RefereeClockService manages the independent per-quarter stopwatches. Each
// clock has a single writer: the referee assigned to that quarter.
type RefereeClockService struct {
	matchRepo   match.Repository
	rulesRepo   rules.Repository
	refereeRepo referee.Repository
	logger      *slog.Logger
	now         func() time.Time
}

func NewRefereeClockService(
	matchRepo match.Repository,
	rulesRepo rules.Repository,
	refereeRepo referee.Repository,
	logger *slog.Logger,
) *RefereeClockService {
	if logger == nil {
		logger = slog.Default()
	}

	return &RefereeClockService{
		matchRepo:   matchRepo,
		rulesRepo:   rulesRepo,
		refereeRepo: refereeRepo,
		logger:      logger,
		now:         time.Now,
	}
}

// Assign replaces the quarter/referee bindings for a match. Quarters whose
// clock already left IDLE keep their existing binding.
func (s *RefereeClockService) Assign(ctx context.Context, caller user.Principal, matchID string, inputs []AssignRefereeInput) ([]referee.Assignment, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RefereeClockService.Assign")
	defer span.End()

	record, hostID, err := s.loadRecord(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !caller.AdminOf(record.TeamID) && !caller.AdminOf(record.OpponentTeamID) {
		return nil, fmt.Errorf("%w: caller must administer one of the participating teams", ErrUnauthorized)
	}
	if match.IsTerminalStatus(record.Status) {
		return nil, fmt.Errorf("%w: match is already %s", ErrStateConflict, record.Status)
	}

	agreement, exists, err := s.rulesRepo.GetByMatch(ctx, hostID)
	if err != nil {
		return nil, fmt.Errorf("get rules agreement: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: referees require an agreed rules set", ErrStateConflict)
	}

	existing, err := s.refereeRepo.ListByMatch(ctx, hostID)
	if err != nil {
		return nil, fmt.Errorf("list referee assignments: %w", err)
	}
	startedByQuarter := make(map[int]referee.Assignment, len(existing))
	for _, a := range existing {
		if a.TimerStatus != referee.TimerIdle {
			startedByQuarter[a.Quarter] = a
		}
	}

	seen := make(map[int]struct{}, len(inputs))
	assignments := make([]referee.Assignment, 0, len(inputs))
	for _, input := range inputs {
		if input.Quarter < 1 || input.Quarter > agreement.QuarterCount {
			return nil, fmt.Errorf("%w: quarter %d outside 1..%d", ErrInvalidInput, input.Quarter, agreement.QuarterCount)
		}
		if input.RefereeUserID == "" {
			return nil, fmt.Errorf("%w: referee user id is required", ErrInvalidInput)
		}
		if _, dup := seen[input.Quarter]; dup {
			return nil, fmt.Errorf("%w: duplicate assignment for quarter %d", ErrInvalidInput, input.Quarter)
		}
		seen[input.Quarter] = struct{}{}

		if started, ok := startedByQuarter[input.Quarter]; ok {
			assignments = append(assignments, started)
			continue
		}
		assignments = append(assignments, referee.Assignment{
			MatchID:       hostID,
			Quarter:       input.Quarter,
			RefereeUserID: input.RefereeUserID,
			TeamSide:      input.TeamSide,
			TimerStatus:   referee.TimerIdle,
		})
	}

	if err := s.refereeRepo.ReplaceForMatch(ctx, hostID, assignments); err != nil {
		return nil, fmt.Errorf("replace referee assignments: %w", err)
	}

	s.logger.InfoContext(ctx, "referees assigned", "match_id", hostID, "quarters", len(assignments))
	return assignments, nil
}

func (s *RefereeClockService) ListByMatch(ctx context.Context, matchID string) ([]referee.Assignment, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RefereeClockService.ListByMatch")
	defer span.End()

	_, hostID, err := s.loadRecord(ctx, matchID)
	if err != nil {
		return nil, err
	}

	assignments, err := s.refereeRepo.ListByMatch(ctx, hostID)
	if err != nil {
		return nil, fmt.Errorf("list referee assignments: %w", err)
	}

	return assignments, nil
}

// Apply executes one stopwatch command for a quarter. Only the assigned
// referee may issue commands, and only while the match is IN_PROGRESS.
func (s *RefereeClockService) Apply(ctx context.Context, caller user.Principal, matchID string, quarter int, action string, adjustSeconds int) (referee.Assignment, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RefereeClockService.Apply")
	defer span.End()

	record, hostID, err := s.loadRecord(ctx, matchID)
	if err != nil {
		return referee.Assignment{}, err
	}
	if record.Status != match.StatusInProgress {
		return referee.Assignment{}, fmt.Errorf("%w: referee clock requires IN_PROGRESS, match is %s", ErrStateConflict, record.Status)
	}

	assignment, exists, err := s.refereeRepo.GetByMatchAndQuarter(ctx, hostID, quarter)
	if err != nil {
		return referee.Assignment{}, fmt.Errorf("get referee assignment: %w", err)
	}
	if !exists {
		return referee.Assignment{}, fmt.Errorf("%w: no referee assigned to quarter %d", ErrNotFound, quarter)
	}
	if assignment.RefereeUserID != caller.UserID {
		return referee.Assignment{}, fmt.Errorf("%w: only the assigned referee controls this clock", ErrUnauthorized)
	}

	now := s.now().UTC()
	switch action {
	case RefereeActionStart:
		err = assignment.Start(now)
	case RefereeActionPause:
		err = assignment.Pause(now)
	case RefereeActionResume:
		err = assignment.Resume(now)
	case RefereeActionEnd:
		err = assignment.End(now)
	case RefereeActionAdjust:
		err = assignment.Adjust(adjustSeconds, now)
	default:
		return referee.Assignment{}, fmt.Errorf("%w: unknown referee clock action %q", ErrInvalidInput, action)
	}
	if err != nil {
		if errors.Is(err, referee.ErrInvalidTransition) {
			return referee.Assignment{}, fmt.Errorf("%w: %s not allowed while clock is %s", ErrStateConflict, action, assignment.TimerStatus)
		}
		return referee.Assignment{}, err
	}

	if err := s.refereeRepo.Upsert(ctx, assignment); err != nil {
		return referee.Assignment{}, fmt.Errorf("save referee clock: %w", err)
	}

	s.logger.InfoContext(ctx, "referee clock command applied",
		"match_id", hostID,
		"quarter", quarter,
		"action", action,
		"status", assignment.TimerStatus,
	)

	return assignment, nil
}

// loadRecord resolves the addressed record and the host record id (the key
// all per-match state is stored under).
func (s *RefereeClockService) loadRecord(ctx context.Context, matchID string) (match.Record, string, error) {
	record, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return match.Record{}, "", fmt.Errorf("get match record: %w", err)
	}
	if !exists {
		return match.Record{}, "", fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}

	hostID := record.ID
	if !record.Host && record.LinkedRecordID != "" {
		hostID = record.LinkedRecordID
	}

	return record, hostID, nil
}
