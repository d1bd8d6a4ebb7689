package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pitchside/matchday/internal/domain/match"
	"github.com/pitchside/matchday/internal/domain/rules"
	"github.com/pitchside/matchday/internal/domain/user"
)

// UpsertRulesInput carries the negotiable match parameters.
type UpsertRulesInput struct {
	QuarterCount        int
	QuarterMinutes      int
	QuarterBreakMinutes int
	HalftimeMinutes     int
	PlayersPerSide      int
	OffsideEnabled      bool
	SlidingAllowed      bool
}

// RulesService runs the two-sided agreement protocol over match parameters.
type RulesService struct {
	matchRepo match.Repository
	rulesRepo rules.Repository
	notifier  Notifier
	logger    *slog.Logger
	now       func() time.Time
}

func NewRulesService(matchRepo match.Repository, rulesRepo rules.Repository, notifier Notifier, logger *slog.Logger) *RulesService {
	if logger == nil {
		logger = slog.Default()
	}
	if notifier == nil {
		notifier = NopNotifier{}
	}

	return &RulesService{
		matchRepo: matchRepo,
		rulesRepo: rulesRepo,
		notifier:  notifier,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *RulesService) GetByMatch(ctx context.Context, matchID string) (rules.Agreement, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RulesService.GetByMatch")
	defer span.End()

	host, _, err := s.loadPair(ctx, matchID)
	if err != nil {
		return rules.Agreement{}, err
	}

	agreement, exists, err := s.rulesRepo.GetByMatch(ctx, host.ID)
	if err != nil {
		return rules.Agreement{}, fmt.Errorf("get rules agreement: %w", err)
	}
	if !exists {
		return rules.Agreement{}, fmt.Errorf("%w: no rules agreement for match=%s", ErrNotFound, matchID)
	}

	return agreement, nil
}

// Upsert creates or edits the agreement. Any edit resets the other side's
// approval and sends both records back to RULES_PENDING: a stale
// RULES_CONFIRMED never survives a mid-negotiation change.
func (s *RulesService) Upsert(ctx context.Context, caller user.Principal, matchID string, input UpsertRulesInput) (rules.Agreement, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RulesService.Upsert")
	defer span.End()

	host, mirror, err := s.loadPair(ctx, matchID)
	if err != nil {
		return rules.Agreement{}, err
	}

	callerSide, err := sideForCaller(caller, host)
	if err != nil {
		return rules.Agreement{}, err
	}
	if !negotiableStatus(host.Status) {
		return rules.Agreement{}, fmt.Errorf("%w: rules cannot change while match is %s", ErrStateConflict, host.Status)
	}

	now := s.now().UTC()
	existing, exists, err := s.rulesRepo.GetByMatch(ctx, host.ID)
	if err != nil {
		return rules.Agreement{}, fmt.Errorf("get rules agreement: %w", err)
	}

	agreement := rules.Agreement{
		MatchID:             host.ID,
		QuarterCount:        input.QuarterCount,
		QuarterMinutes:      input.QuarterMinutes,
		QuarterBreakMinutes: input.QuarterBreakMinutes,
		HalftimeMinutes:     input.HalftimeMinutes,
		PlayersPerSide:      input.PlayersPerSide,
		OffsideEnabled:      input.OffsideEnabled,
		SlidingAllowed:      input.SlidingAllowed,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if exists {
		agreement.CreatedAt = existing.CreatedAt
		agreement.CurrentPhase = existing.CurrentPhase
		agreement.TimerStartedAt = existing.TimerStartedAt
		agreement.TimerElapsedSec = existing.TimerElapsedSec
	}
	if err := agreement.ValidateParams(); err != nil {
		return rules.Agreement{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// The editor is freshly agreed, the other side must re-agree.
	agreement.AgreedByTeamA = callerSide == sideHost
	agreement.AgreedByTeamB = callerSide == sideOpponent

	if err := s.rulesRepo.Upsert(ctx, agreement); err != nil {
		return rules.Agreement{}, fmt.Errorf("upsert rules agreement: %w", err)
	}

	host.Status = match.StatusRulesPending
	host.UpdatedAt = now
	mirror.Status = match.StatusRulesPending
	mirror.UpdatedAt = now
	if err := s.matchRepo.UpdatePair(ctx, host, mirror); err != nil {
		return rules.Agreement{}, fmt.Errorf("update match pair: %w", err)
	}

	s.logger.InfoContext(ctx, "rules proposed",
		"match_id", host.ID,
		"editor_team", caller.TeamID,
		"created", !exists,
	)
	s.notifier.Dispatch(ctx, Event{
		Type:       EventRulesProposed,
		MatchID:    host.ID,
		TeamIDs:    []string{host.TeamID, mirror.TeamID},
		OccurredAt: now,
	})

	return agreement, nil
}

// Agree records the caller side's approval; once both sides approve, both
// records cascade to RULES_CONFIRMED in one transaction.
func (s *RulesService) Agree(ctx context.Context, caller user.Principal, matchID string) (rules.Agreement, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RulesService.Agree")
	defer span.End()

	host, mirror, err := s.loadPair(ctx, matchID)
	if err != nil {
		return rules.Agreement{}, false, err
	}

	callerSide, err := sideForCaller(caller, host)
	if err != nil {
		return rules.Agreement{}, false, err
	}
	if host.Status != match.StatusRulesPending {
		return rules.Agreement{}, false, fmt.Errorf("%w: agreement requires RULES_PENDING, match is %s", ErrStateConflict, host.Status)
	}

	agreement, exists, err := s.rulesRepo.GetByMatch(ctx, host.ID)
	if err != nil {
		return rules.Agreement{}, false, fmt.Errorf("get rules agreement: %w", err)
	}
	if !exists {
		return rules.Agreement{}, false, fmt.Errorf("%w: no rules agreement for match=%s", ErrNotFound, matchID)
	}

	now := s.now().UTC()
	switch callerSide {
	case sideHost:
		agreement.AgreedByTeamA = true
	case sideOpponent:
		agreement.AgreedByTeamB = true
	}
	agreement.UpdatedAt = now

	if err := s.rulesRepo.Upsert(ctx, agreement); err != nil {
		return rules.Agreement{}, false, fmt.Errorf("upsert rules agreement: %w", err)
	}

	if !agreement.BothAgreed() {
		return agreement, false, nil
	}

	host.Status = match.StatusRulesConfirmed
	host.UpdatedAt = now
	mirror.Status = match.StatusRulesConfirmed
	mirror.UpdatedAt = now
	if err := s.matchRepo.UpdatePair(ctx, host, mirror); err != nil {
		return rules.Agreement{}, false, fmt.Errorf("update match pair: %w", err)
	}

	s.logger.InfoContext(ctx, "rules confirmed", "match_id", host.ID)
	s.notifier.Dispatch(ctx, Event{
		Type:       EventRulesConfirmed,
		MatchID:    host.ID,
		TeamIDs:    []string{host.TeamID, mirror.TeamID},
		OccurredAt: now,
	})

	return agreement, true, nil
}

const (
	sideHost     = "host"
	sideOpponent = "opponent"
)

func sideForCaller(caller user.Principal, host match.Record) (string, error) {
	if caller.AdminOf(host.TeamID) {
		return sideHost, nil
	}
	if caller.AdminOf(host.OpponentTeamID) {
		return sideOpponent, nil
	}
	return "", fmt.Errorf("%w: caller must administer one of the participating teams", ErrUnauthorized)
}

func negotiableStatus(status string) bool {
	switch status {
	case match.StatusPending, match.StatusConfirmed, match.StatusRulesPending, match.StatusRulesConfirmed:
		return true
	default:
		return false
	}
}

// loadPair resolves either side's record id to the (host, mirror) pair.
func (s *RulesService) loadPair(ctx context.Context, matchID string) (match.Record, match.Record, error) {
	record, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return match.Record{}, match.Record{}, fmt.Errorf("get match record: %w", err)
	}
	if !exists {
		return match.Record{}, match.Record{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}
	if record.LinkedRecordID == "" {
		return match.Record{}, match.Record{}, fmt.Errorf("%w: match has no opponent yet", ErrStateConflict)
	}

	linked, exists, err := s.matchRepo.GetByID(ctx, record.LinkedRecordID)
	if err != nil {
		return match.Record{}, match.Record{}, fmt.Errorf("get linked record: %w", err)
	}
	if !exists {
		return match.Record{}, match.Record{}, fmt.Errorf("%w: linked record %s is missing", ErrNotFound, record.LinkedRecordID)
	}

	if record.Host {
		return record, linked, nil
	}
	return linked, record, nil
}
