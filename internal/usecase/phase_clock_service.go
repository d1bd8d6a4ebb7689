package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pitchside/matchday/internal/domain/match"
	"github.com/pitchside/matchday/internal/domain/rules"
	"github.com/pitchside/matchday/internal/domain/user"
)

const (
	PhaseActionStart    = "START"
	PhaseActionPause    = "PAUSE"
	PhaseActionNext     = "NEXT"
	PhaseActionPrev     = "PREV"
	PhaseActionSetPhase = "SET_PHASE"
)

// PhaseClockState is the snapshot returned after every phase command.
type PhaseClockState struct {
	CurrentPhase        int
	Running             bool
	StartedAt           *time.Time
	ElapsedSeconds      int
	QuarterCount        int
	QuarterMinutes      int
	QuarterBreakMinutes int
	HalftimeMinutes     int
}

// PhaseClockService applies commands to the single authoritative match clock.
type PhaseClockService struct {
	matchRepo match.Repository
	rulesRepo rules.Repository
	logger    *slog.Logger
	now       func() time.Time
}

func NewPhaseClockService(matchRepo match.Repository, rulesRepo rules.Repository, logger *slog.Logger) *PhaseClockService {
	if logger == nil {
		logger = slog.Default()
	}

	return &PhaseClockService{
		matchRepo: matchRepo,
		rulesRepo: rulesRepo,
		logger:    logger,
		now:       time.Now,
	}
}

// Apply executes one phase command. All commands require the match to be
// IN_PROGRESS; START and PAUSE are idempotent no-ops when the clock is
// already in the requested run state.
func (s *PhaseClockService) Apply(ctx context.Context, caller user.Principal, matchID, action string, targetPhase int) (PhaseClockState, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PhaseClockService.Apply")
	defer span.End()

	agreement, err := s.loadRunningAgreement(ctx, caller, matchID)
	if err != nil {
		return PhaseClockState{}, err
	}

	now := s.now().UTC()
	switch action {
	case PhaseActionStart:
		agreement.StartTimer(now)
	case PhaseActionPause:
		agreement.PauseTimer(now)
	case PhaseActionNext:
		err = agreement.AdvancePhase(now)
	case PhaseActionPrev:
		err = agreement.RewindPhase(now)
	case PhaseActionSetPhase:
		err = agreement.SetPhase(targetPhase, now)
	default:
		return PhaseClockState{}, fmt.Errorf("%w: unknown phase action %q", ErrInvalidInput, action)
	}
	if err != nil {
		if errors.Is(err, rules.ErrTimerAtLastPhase) || errors.Is(err, rules.ErrTimerAtPreMatch) || errors.Is(err, rules.ErrPhaseOutOfRange) {
			return PhaseClockState{}, fmt.Errorf("%w: %v", ErrStateConflict, err)
		}
		return PhaseClockState{}, err
	}

	agreement.UpdatedAt = now
	if err := s.rulesRepo.Upsert(ctx, agreement); err != nil {
		return PhaseClockState{}, fmt.Errorf("save phase clock state: %w", err)
	}

	s.logger.InfoContext(ctx, "phase clock command applied",
		"match_id", agreement.MatchID,
		"action", action,
		"current_phase", agreement.CurrentPhase,
	)

	return s.stateOf(agreement, now), nil
}

// Read returns the current clock snapshot without mutating anything.
func (s *PhaseClockService) Read(ctx context.Context, matchID string) (PhaseClockState, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PhaseClockService.Read")
	defer span.End()

	hostID, err := s.hostRecordID(ctx, matchID)
	if err != nil {
		return PhaseClockState{}, err
	}

	agreement, exists, err := s.rulesRepo.GetByMatch(ctx, hostID)
	if err != nil {
		return PhaseClockState{}, fmt.Errorf("get rules agreement: %w", err)
	}
	if !exists {
		return PhaseClockState{}, fmt.Errorf("%w: no rules agreement for match=%s", ErrNotFound, matchID)
	}

	return s.stateOf(agreement, s.now().UTC()), nil
}

func (s *PhaseClockService) stateOf(agreement rules.Agreement, now time.Time) PhaseClockState {
	return PhaseClockState{
		CurrentPhase:        agreement.CurrentPhase,
		Running:             agreement.TimerRunning(),
		StartedAt:           agreement.TimerStartedAt,
		ElapsedSeconds:      agreement.ElapsedSeconds(now),
		QuarterCount:        agreement.QuarterCount,
		QuarterMinutes:      agreement.QuarterMinutes,
		QuarterBreakMinutes: agreement.QuarterBreakMinutes,
		HalftimeMinutes:     agreement.HalftimeMinutes,
	}
}

func (s *PhaseClockService) loadRunningAgreement(ctx context.Context, caller user.Principal, matchID string) (rules.Agreement, error) {
	record, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return rules.Agreement{}, fmt.Errorf("get match record: %w", err)
	}
	if !exists {
		return rules.Agreement{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}
	if !caller.AdminOf(record.TeamID) && !caller.AdminOf(record.OpponentTeamID) {
		return rules.Agreement{}, fmt.Errorf("%w: caller must administer one of the participating teams", ErrUnauthorized)
	}
	if record.Status != match.StatusInProgress {
		return rules.Agreement{}, fmt.Errorf("%w: phase clock requires IN_PROGRESS, match is %s", ErrStateConflict, record.Status)
	}

	hostID := record.ID
	if !record.Host {
		hostID = record.LinkedRecordID
	}

	agreement, exists, err := s.rulesRepo.GetByMatch(ctx, hostID)
	if err != nil {
		return rules.Agreement{}, fmt.Errorf("get rules agreement: %w", err)
	}
	if !exists {
		return rules.Agreement{}, fmt.Errorf("%w: no rules agreement for match=%s", ErrNotFound, matchID)
	}

	return agreement, nil
}

func (s *PhaseClockService) hostRecordID(ctx context.Context, matchID string) (string, error) {
	record, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return "", fmt.Errorf("get match record: %w", err)
	}
	if !exists {
		return "", fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}
	if record.Host || record.LinkedRecordID == "" {
		return record.ID, nil
	}
	return record.LinkedRecordID, nil
}
