package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pitchside/matchday/internal/domain/ledger"
	"github.com/pitchside/matchday/internal/domain/match"
	"github.com/pitchside/matchday/internal/domain/referee"
	"github.com/pitchside/matchday/internal/domain/rules"
	"github.com/pitchside/matchday/internal/domain/team"
	"github.com/pitchside/matchday/internal/domain/user"
	"github.com/pitchside/matchday/internal/platform/cache"
	"github.com/sourcegraph/conc"
)

// ChallengeSnapshot is the read model served on the token-gated surface.
type ChallengeSnapshot struct {
	Match         match.Record
	HostTeam      team.Team
	HostRoster    []team.Member
	OpponentTeam  *team.Team
	Rules         *rules.Agreement
	Referees      []referee.Assignment
	Goals         []ledger.Goal
	Cards         []ledger.Card
	Substitutions []ledger.Substitution
	Scores        ledger.Scores
	CanRecord     bool
	CanEnd        bool
}

// ChallengeService serves the unauthenticated challenge surface: token
// resolution with lazy expiration plus the composed read snapshot.
type ChallengeService struct {
	matchRepo   match.Repository
	teamRepo    team.Repository
	rulesRepo   rules.Repository
	refereeRepo referee.Repository
	ledgerRepo  ledger.Repository
	rosters     *cache.Store
	notifier    Notifier
	logger      *slog.Logger
	now         func() time.Time
}

func NewChallengeService(
	matchRepo match.Repository,
	teamRepo team.Repository,
	rulesRepo rules.Repository,
	refereeRepo referee.Repository,
	ledgerRepo ledger.Repository,
	rosters *cache.Store,
	notifier Notifier,
	logger *slog.Logger,
) *ChallengeService {
	if logger == nil {
		logger = slog.Default()
	}
	if notifier == nil {
		notifier = NopNotifier{}
	}

	return &ChallengeService{
		matchRepo:   matchRepo,
		teamRepo:    teamRepo,
		rulesRepo:   rulesRepo,
		refereeRepo: refereeRepo,
		ledgerRepo:  ledgerRepo,
		rosters:     rosters,
		notifier:    notifier,
		logger:      logger,
		now:         time.Now,
	}
}

// Resolve looks up a challenge token without requiring a session. An expired
// token cancels the match exactly once and reports the expiry; later calls
// observe the cancelled record as an unknown token.
func (s *ChallengeService) Resolve(ctx context.Context, token string, caller *user.Principal) (ChallengeSnapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ChallengeService.Resolve")
	defer span.End()

	token = strings.TrimSpace(token)
	if token == "" {
		return ChallengeSnapshot{}, fmt.Errorf("%w: challenge token is required", ErrInvalidInput)
	}

	record, exists, err := s.matchRepo.GetByToken(ctx, token)
	if err != nil {
		return ChallengeSnapshot{}, fmt.Errorf("get match by token: %w", err)
	}
	if !exists {
		return ChallengeSnapshot{}, fmt.Errorf("%w: unknown challenge token", ErrNotFound)
	}

	now := s.now().UTC()
	if record.Status == match.StatusChallengeSent && record.TokenExpiresAt != nil && now.After(*record.TokenExpiresAt) {
		expired, err := s.matchRepo.ExpireChallenge(ctx, record.ID, "challenge expired", now)
		if err != nil {
			return ChallengeSnapshot{}, fmt.Errorf("expire challenge: %w", err)
		}
		if expired {
			s.logger.InfoContext(ctx, "challenge lazily expired", "match_id", record.ID)
			s.notifier.Dispatch(ctx, Event{
				Type:       EventChallengeExpired,
				MatchID:    record.ID,
				TeamIDs:    []string{record.TeamID},
				OccurredAt: now,
			})
		}
		return ChallengeSnapshot{}, fmt.Errorf("%w: token expired at %s", ErrExpired, record.TokenExpiresAt.Format(time.RFC3339))
	}
	if !record.TokenLive(now) {
		return ChallengeSnapshot{}, fmt.Errorf("%w: unknown challenge token", ErrNotFound)
	}

	snapshot, err := s.buildSnapshot(ctx, record)
	if err != nil {
		return ChallengeSnapshot{}, err
	}

	if caller != nil {
		snapshot.CanRecord, snapshot.CanEnd = s.derivePermissions(ctx, *caller, record)
	}

	return snapshot, nil
}

func (s *ChallengeService) buildSnapshot(ctx context.Context, record match.Record) (ChallengeSnapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ChallengeService.buildSnapshot")
	defer span.End()

	snapshot := ChallengeSnapshot{Match: record}

	var hostTeam team.Team
	var hostTeamExists bool
	var hostErr error
	var roster []team.Member
	var rosterErr error
	var opponent team.Team
	var opponentExists bool
	var opponentErr error
	var agreement rules.Agreement
	var agreementExists bool
	var agreementErr error
	var assignments []referee.Assignment
	var assignmentsErr error
	var goals []ledger.Goal
	var goalsErr error
	var cards []ledger.Card
	var cardsErr error
	var substitutions []ledger.Substitution
	var substitutionsErr error

	var wg conc.WaitGroup
	wg.Go(func() {
		hostTeam, hostTeamExists, hostErr = s.teamRepo.GetByID(ctx, record.TeamID)
	})
	wg.Go(func() {
		roster, rosterErr = s.loadRoster(ctx, record.TeamID)
	})
	if record.OpponentTeamID != "" {
		wg.Go(func() {
			opponent, opponentExists, opponentErr = s.teamRepo.GetByID(ctx, record.OpponentTeamID)
		})
	}
	wg.Go(func() {
		agreement, agreementExists, agreementErr = s.rulesRepo.GetByMatch(ctx, record.ID)
	})
	wg.Go(func() {
		assignments, assignmentsErr = s.refereeRepo.ListByMatch(ctx, record.ID)
	})
	wg.Go(func() {
		goals, goalsErr = s.ledgerRepo.ListGoals(ctx, record.ID)
	})
	wg.Go(func() {
		cards, cardsErr = s.ledgerRepo.ListCards(ctx, record.ID)
	})
	wg.Go(func() {
		substitutions, substitutionsErr = s.ledgerRepo.ListSubstitutions(ctx, record.ID)
	})
	wg.Wait()

	for _, err := range []error{hostErr, rosterErr, opponentErr, agreementErr, assignmentsErr, goalsErr, cardsErr, substitutionsErr} {
		if err != nil {
			return ChallengeSnapshot{}, fmt.Errorf("assemble challenge snapshot: %w", err)
		}
	}
	if !hostTeamExists {
		return ChallengeSnapshot{}, fmt.Errorf("%w: team=%s", ErrNotFound, record.TeamID)
	}

	snapshot.HostTeam = hostTeam
	snapshot.HostRoster = roster
	if opponentExists {
		snapshot.OpponentTeam = &opponent
	}
	if agreementExists {
		snapshot.Rules = &agreement
	}
	snapshot.Referees = assignments
	snapshot.Goals = goals
	snapshot.Cards = cards
	snapshot.Substitutions = substitutions
	snapshot.Scores = ledger.Recompute(goals)

	return snapshot, nil
}

func (s *ChallengeService) loadRoster(ctx context.Context, teamID string) ([]team.Member, error) {
	if s.rosters == nil {
		return s.teamRepo.ListMembers(ctx, teamID)
	}

	value, err := s.rosters.GetOrLoad(ctx, "roster:"+teamID, func(ctx context.Context) (any, error) {
		return s.teamRepo.ListMembers(ctx, teamID)
	})
	if err != nil {
		return nil, err
	}

	members, ok := value.([]team.Member)
	if !ok {
		return s.teamRepo.ListMembers(ctx, teamID)
	}
	return members, nil
}

// derivePermissions computes the two capability flags from the caller's
// relation to either side: attending members and admins may record, only
// admins may end.
func (s *ChallengeService) derivePermissions(ctx context.Context, caller user.Principal, record match.Record) (canRecord, canEnd bool) {
	sides := []string{record.TeamID}
	if record.OpponentTeamID != "" {
		sides = append(sides, record.OpponentTeamID)
	}

	for _, teamID := range sides {
		if caller.AdminOf(teamID) {
			return true, true
		}
		if !caller.MemberOf(teamID) {
			continue
		}
		member, exists, err := s.teamRepo.GetMember(ctx, teamID, caller.UserID)
		if err != nil {
			s.logger.WarnContext(ctx, "membership lookup failed", "team_id", teamID, "user_id", caller.UserID, "error", err)
			continue
		}
		if exists && member.Attending {
			canRecord = true
		}
	}

	return canRecord, canEnd
}
