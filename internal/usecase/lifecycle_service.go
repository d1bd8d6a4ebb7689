package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pitchside/matchday/internal/domain/match"
	"github.com/pitchside/matchday/internal/domain/team"
	"github.com/pitchside/matchday/internal/domain/user"
	idgen "github.com/pitchside/matchday/internal/platform/id"
)

const defaultChallengeTTL = 30 * 24 * time.Hour

// LifecycleService drives the negotiation state machine across the host and
// mirror records of a pairing.
type LifecycleService struct {
	matchRepo    match.Repository
	teamRepo     team.Repository
	idGen        idgen.Generator
	notifier     Notifier
	logger       *slog.Logger
	challengeTTL time.Duration
	now          func() time.Time
}

func NewLifecycleService(
	matchRepo match.Repository,
	teamRepo team.Repository,
	idGen idgen.Generator,
	notifier Notifier,
	logger *slog.Logger,
	challengeTTL time.Duration,
) *LifecycleService {
	if logger == nil {
		logger = slog.Default()
	}
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if challengeTTL <= 0 {
		challengeTTL = defaultChallengeTTL
	}

	return &LifecycleService{
		matchRepo:    matchRepo,
		teamRepo:     teamRepo,
		idGen:        idGen,
		notifier:     notifier,
		logger:       logger,
		challengeTTL: challengeTTL,
		now:          time.Now,
	}
}

func (s *LifecycleService) GetRecord(ctx context.Context, recordID string) (match.Record, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LifecycleService.GetRecord")
	defer span.End()

	record, exists, err := s.matchRepo.GetByID(ctx, strings.TrimSpace(recordID))
	if err != nil {
		return match.Record{}, fmt.Errorf("get match record: %w", err)
	}
	if !exists {
		return match.Record{}, fmt.Errorf("%w: match=%s", ErrNotFound, recordID)
	}

	return record, nil
}

func (s *LifecycleService) ListByTeam(ctx context.Context, teamID string) ([]match.Record, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LifecycleService.ListByTeam")
	defer span.End()

	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return nil, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}

	records, err := s.matchRepo.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("list match records: %w", err)
	}

	return records, nil
}

// GenerateChallenge issues the bearer token that lets an unauthenticated
// opponent inspect and accept the match slot.
func (s *LifecycleService) GenerateChallenge(ctx context.Context, caller user.Principal, matchID string, deadline *time.Time) (match.Record, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LifecycleService.GenerateChallenge")
	defer span.End()

	record, err := s.GetRecord(ctx, matchID)
	if err != nil {
		return match.Record{}, err
	}
	if !caller.AdminOf(record.TeamID) {
		return match.Record{}, fmt.Errorf("%w: caller must administer the owning team", ErrUnauthorized)
	}
	if record.Status != match.StatusDraft {
		return match.Record{}, fmt.Errorf("%w: challenge requires DRAFT, match is %s", ErrStateConflict, record.Status)
	}

	if record.MinimumPlayers > 0 {
		members, err := s.teamRepo.ListMembers(ctx, record.TeamID)
		if err != nil {
			return match.Record{}, fmt.Errorf("list team members: %w", err)
		}
		if attending := team.CountAttending(members); attending < record.MinimumPlayers {
			return match.Record{}, fmt.Errorf("%w: %d attending, %d required", ErrInsufficientPlayers, attending, record.MinimumPlayers)
		}
	}

	now := s.now().UTC()
	expiresAt := now.Add(s.challengeTTL)
	if deadline != nil {
		if !deadline.After(now) {
			return match.Record{}, fmt.Errorf("%w: challenge deadline must be in the future", ErrInvalidInput)
		}
		expiresAt = deadline.UTC()
	}

	token, err := s.idGen.NewID()
	if err != nil {
		return match.Record{}, fmt.Errorf("generate challenge token: %w", err)
	}

	record.Status = match.StatusChallengeSent
	record.ChallengeToken = token
	record.TokenExpiresAt = &expiresAt
	record.UpdatedAt = now

	if err := s.matchRepo.Update(ctx, record); err != nil {
		return match.Record{}, fmt.Errorf("update match record: %w", err)
	}

	s.logger.InfoContext(ctx, "challenge generated",
		"match_id", record.ID,
		"team_id", record.TeamID,
		"expires_at", expiresAt,
	)
	s.notifier.Dispatch(ctx, Event{
		Type:       EventChallengeSent,
		MatchID:    record.ID,
		TeamIDs:    []string{record.TeamID},
		OccurredAt: now,
	})

	return record, nil
}

// RevokeChallenge withdraws an outstanding challenge and returns the record
// to DRAFT.
func (s *LifecycleService) RevokeChallenge(ctx context.Context, caller user.Principal, matchID string) (match.Record, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LifecycleService.RevokeChallenge")
	defer span.End()

	record, err := s.GetRecord(ctx, matchID)
	if err != nil {
		return match.Record{}, err
	}
	if !caller.AdminOf(record.TeamID) {
		return match.Record{}, fmt.Errorf("%w: caller must administer the owning team", ErrUnauthorized)
	}
	if record.Status != match.StatusChallengeSent {
		return match.Record{}, fmt.Errorf("%w: no outstanding challenge, match is %s", ErrStateConflict, record.Status)
	}

	record.Status = match.StatusDraft
	record.ChallengeToken = ""
	record.TokenExpiresAt = nil
	record.UpdatedAt = s.now().UTC()

	if err := s.matchRepo.Update(ctx, record); err != nil {
		return match.Record{}, fmt.Errorf("update match record: %w", err)
	}

	return record, nil
}

// AcceptChallenge redeems a live token: it creates the mirror record for the
// accepting team and links both records as CONFIRMED in one transaction.
func (s *LifecycleService) AcceptChallenge(ctx context.Context, caller user.Principal, token string) (match.Record, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LifecycleService.AcceptChallenge")
	defer span.End()

	if !caller.IsAdmin() {
		return match.Record{}, fmt.Errorf("%w: accepting a challenge requires a team admin", ErrUnauthorized)
	}

	host, err := s.resolveToken(ctx, token)
	if err != nil {
		return match.Record{}, err
	}
	if caller.TeamID == host.TeamID {
		return match.Record{}, fmt.Errorf("%w: a team cannot accept its own challenge", ErrStateConflict)
	}
	if _, exists, err := s.teamRepo.GetByID(ctx, caller.TeamID); err != nil {
		return match.Record{}, fmt.Errorf("get accepting team: %w", err)
	} else if !exists {
		return match.Record{}, fmt.Errorf("%w: team=%s", ErrNotFound, caller.TeamID)
	}

	mirrorID, err := s.idGen.NewID()
	if err != nil {
		return match.Record{}, fmt.Errorf("generate mirror record id: %w", err)
	}

	now := s.now().UTC()
	mirror := match.Record{
		ID:             mirrorID,
		TeamID:         caller.TeamID,
		Host:           false,
		ScheduledAt:    host.ScheduledAt,
		Status:         match.StatusConfirmed,
		OpponentTeamID: host.TeamID,
		LinkedRecordID: host.ID,
		MinimumPlayers: host.MinimumPlayers,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	host.Status = match.StatusConfirmed
	host.OpponentTeamID = caller.TeamID
	host.LinkedRecordID = mirror.ID
	host.ChallengeToken = ""
	host.TokenExpiresAt = nil
	host.UpdatedAt = now

	if err := s.matchRepo.CreatePair(ctx, host, mirror); err != nil {
		return match.Record{}, fmt.Errorf("create match pair: %w", err)
	}

	s.logger.InfoContext(ctx, "challenge accepted",
		"match_id", host.ID,
		"mirror_id", mirror.ID,
		"host_team", host.TeamID,
		"opponent_team", mirror.TeamID,
	)
	s.notifier.Dispatch(ctx, Event{
		Type:       EventMatchConfirmed,
		MatchID:    host.ID,
		TeamIDs:    []string{host.TeamID, mirror.TeamID},
		OccurredAt: now,
	})

	return host, nil
}

// PairDirect links the host record with a known opponent without a token.
// The pair starts PENDING: the opponent's admin still confirms via
// AcceptPairing.
func (s *LifecycleService) PairDirect(ctx context.Context, caller user.Principal, hostMatchID, opponentTeamID string) (match.Record, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LifecycleService.PairDirect")
	defer span.End()

	opponentTeamID = strings.TrimSpace(opponentTeamID)
	if opponentTeamID == "" {
		return match.Record{}, fmt.Errorf("%w: opponent team id is required", ErrInvalidInput)
	}

	host, err := s.GetRecord(ctx, hostMatchID)
	if err != nil {
		return match.Record{}, err
	}
	if !caller.AdminOf(host.TeamID) {
		return match.Record{}, fmt.Errorf("%w: caller must administer the owning team", ErrUnauthorized)
	}
	if host.Status != match.StatusDraft {
		return match.Record{}, fmt.Errorf("%w: pairing requires DRAFT, match is %s", ErrStateConflict, host.Status)
	}
	if opponentTeamID == host.TeamID {
		return match.Record{}, fmt.Errorf("%w: a team cannot be paired against itself", ErrInvalidInput)
	}
	if _, exists, err := s.teamRepo.GetByID(ctx, opponentTeamID); err != nil {
		return match.Record{}, fmt.Errorf("get opponent team: %w", err)
	} else if !exists {
		return match.Record{}, fmt.Errorf("%w: team=%s", ErrNotFound, opponentTeamID)
	}

	mirrorID, err := s.idGen.NewID()
	if err != nil {
		return match.Record{}, fmt.Errorf("generate mirror record id: %w", err)
	}

	now := s.now().UTC()
	mirror := match.Record{
		ID:             mirrorID,
		TeamID:         opponentTeamID,
		Host:           false,
		ScheduledAt:    host.ScheduledAt,
		Status:         match.StatusPending,
		OpponentTeamID: host.TeamID,
		LinkedRecordID: host.ID,
		MinimumPlayers: host.MinimumPlayers,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	host.Status = match.StatusPending
	host.OpponentTeamID = opponentTeamID
	host.LinkedRecordID = mirror.ID
	host.UpdatedAt = now

	if err := s.matchRepo.CreatePair(ctx, host, mirror); err != nil {
		return match.Record{}, fmt.Errorf("create match pair: %w", err)
	}

	s.notifier.Dispatch(ctx, Event{
		Type:       EventMatchPaired,
		MatchID:    host.ID,
		TeamIDs:    []string{host.TeamID, opponentTeamID},
		OccurredAt: now,
	})

	return host, nil
}

// AcceptPairing is the opponent-side confirmation of a direct pairing.
func (s *LifecycleService) AcceptPairing(ctx context.Context, caller user.Principal, matchID string) (match.Record, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LifecycleService.AcceptPairing")
	defer span.End()

	record, linked, err := s.loadPair(ctx, matchID)
	if err != nil {
		return match.Record{}, err
	}
	if record.Status != match.StatusPending {
		return match.Record{}, fmt.Errorf("%w: pairing is %s, not PENDING", ErrStateConflict, record.Status)
	}

	host, mirror := orientPair(record, linked)
	if !caller.AdminOf(mirror.TeamID) {
		return match.Record{}, fmt.Errorf("%w: only the invited team's admin can confirm the pairing", ErrUnauthorized)
	}

	now := s.now().UTC()
	host.Status = match.StatusConfirmed
	mirror.Status = match.StatusConfirmed
	host.UpdatedAt = now
	mirror.UpdatedAt = now

	if err := s.matchRepo.UpdatePair(ctx, host, mirror); err != nil {
		return match.Record{}, fmt.Errorf("update match pair: %w", err)
	}

	s.notifier.Dispatch(ctx, Event{
		Type:       EventMatchConfirmed,
		MatchID:    host.ID,
		TeamIDs:    []string{host.TeamID, mirror.TeamID},
		OccurredAt: now,
	})

	return host, nil
}

// Start moves the pairing to IN_PROGRESS. Only allowed on the scheduled day.
func (s *LifecycleService) Start(ctx context.Context, caller user.Principal, matchID string) (match.Record, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LifecycleService.Start")
	defer span.End()

	record, linked, err := s.loadPair(ctx, matchID)
	if err != nil {
		return match.Record{}, err
	}
	if err := s.authorizeParticipantAdmin(caller, record, linked); err != nil {
		return match.Record{}, err
	}
	if !match.CanStart(record.Status) {
		return match.Record{}, fmt.Errorf("%w: start requires CONFIRMED or RULES_CONFIRMED, match is %s", ErrStateConflict, record.Status)
	}

	now := s.now().UTC()
	if !record.SameDay(now) {
		return match.Record{}, fmt.Errorf("%w: match can only start on its scheduled day", ErrStateConflict)
	}

	record.Status = match.StatusInProgress
	record.UpdatedAt = now
	if linked != nil {
		linked.Status = match.StatusInProgress
		linked.UpdatedAt = now
		if err := s.matchRepo.UpdatePair(ctx, record, *linked); err != nil {
			return match.Record{}, fmt.Errorf("update match pair: %w", err)
		}
	} else {
		if err := s.matchRepo.Update(ctx, record); err != nil {
			return match.Record{}, fmt.Errorf("update match record: %w", err)
		}
	}

	s.notifier.Dispatch(ctx, Event{
		Type:       EventMatchStarted,
		MatchID:    record.ID,
		TeamIDs:    pairTeamIDs(record, linked),
		OccurredAt: now,
	})

	return record, nil
}

// Complete finishes an in-progress match. Terminal.
func (s *LifecycleService) Complete(ctx context.Context, caller user.Principal, matchID string) (match.Record, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LifecycleService.Complete")
	defer span.End()

	record, linked, err := s.loadPair(ctx, matchID)
	if err != nil {
		return match.Record{}, err
	}
	if err := s.authorizeParticipantAdmin(caller, record, linked); err != nil {
		return match.Record{}, err
	}
	if record.Status != match.StatusInProgress {
		return match.Record{}, fmt.Errorf("%w: complete requires IN_PROGRESS, match is %s", ErrStateConflict, record.Status)
	}

	now := s.now().UTC()
	record.Status = match.StatusCompleted
	record.UpdatedAt = now
	if linked != nil {
		linked.Status = match.StatusCompleted
		linked.UpdatedAt = now
		if err := s.matchRepo.UpdatePair(ctx, record, *linked); err != nil {
			return match.Record{}, fmt.Errorf("update match pair: %w", err)
		}
	} else {
		if err := s.matchRepo.Update(ctx, record); err != nil {
			return match.Record{}, fmt.Errorf("update match record: %w", err)
		}
	}

	s.notifier.Dispatch(ctx, Event{
		Type:       EventMatchCompleted,
		MatchID:    record.ID,
		TeamIDs:    pairTeamIDs(record, linked),
		OccurredAt: now,
	})

	return record, nil
}

// Cancel moves both records to CANCELLED, propagating the reason. Reachable
// from any non-terminal state.
func (s *LifecycleService) Cancel(ctx context.Context, caller user.Principal, matchID, reason string) (match.Record, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LifecycleService.Cancel")
	defer span.End()

	record, linked, err := s.loadPair(ctx, matchID)
	if err != nil {
		return match.Record{}, err
	}
	if err := s.authorizeParticipantAdmin(caller, record, linked); err != nil {
		return match.Record{}, err
	}
	if !match.CanCancel(record.Status) {
		return match.Record{}, fmt.Errorf("%w: match is already %s", ErrStateConflict, record.Status)
	}

	now := s.now().UTC()
	reason = strings.TrimSpace(reason)
	record.Status = match.StatusCancelled
	record.CancelReason = reason
	record.ChallengeToken = ""
	record.TokenExpiresAt = nil
	record.UpdatedAt = now
	if linked != nil {
		linked.Status = match.StatusCancelled
		linked.CancelReason = reason
		linked.UpdatedAt = now
		if err := s.matchRepo.UpdatePair(ctx, record, *linked); err != nil {
			return match.Record{}, fmt.Errorf("update match pair: %w", err)
		}
	} else {
		if err := s.matchRepo.Update(ctx, record); err != nil {
			return match.Record{}, fmt.Errorf("update match record: %w", err)
		}
	}

	s.logger.InfoContext(ctx, "match cancelled", "match_id", record.ID, "reason", reason)
	s.notifier.Dispatch(ctx, Event{
		Type:       EventMatchCancelled,
		MatchID:    record.ID,
		TeamIDs:    pairTeamIDs(record, linked),
		OccurredAt: now,
		Payload:    map[string]any{"reason": reason},
	})

	return record, nil
}

// ConvertToRegular takes the host slot out of match mode entirely, deleting
// the mirror with it. Only allowed while the pairing is still cancellable.
func (s *LifecycleService) ConvertToRegular(ctx context.Context, caller user.Principal, matchID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.LifecycleService.ConvertToRegular")
	defer span.End()

	record, linked, err := s.loadPair(ctx, matchID)
	if err != nil {
		return err
	}

	host, mirror := orientPair(record, linked)
	if !caller.AdminOf(host.TeamID) {
		return fmt.Errorf("%w: caller must administer the host team", ErrUnauthorized)
	}
	if !match.CanCancel(host.Status) {
		return fmt.Errorf("%w: match is already %s", ErrStateConflict, host.Status)
	}

	mirrorID := ""
	if linked != nil {
		mirrorID = mirror.ID
	}
	if err := s.matchRepo.DeletePair(ctx, host.ID, mirrorID); err != nil {
		return fmt.Errorf("delete match pair: %w", err)
	}

	s.logger.InfoContext(ctx, "match converted to regular slot", "match_id", host.ID, "mirror_id", mirrorID)
	return nil
}

// resolveToken finds the host record for a token, applying lazy expiration.
func (s *LifecycleService) resolveToken(ctx context.Context, token string) (match.Record, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return match.Record{}, fmt.Errorf("%w: challenge token is required", ErrInvalidInput)
	}

	record, exists, err := s.matchRepo.GetByToken(ctx, token)
	if err != nil {
		return match.Record{}, fmt.Errorf("get match by token: %w", err)
	}
	if !exists {
		return match.Record{}, fmt.Errorf("%w: unknown challenge token", ErrNotFound)
	}

	now := s.now().UTC()
	if record.Status == match.StatusChallengeSent && record.TokenExpiresAt != nil && now.After(*record.TokenExpiresAt) {
		expired, err := s.matchRepo.ExpireChallenge(ctx, record.ID, "challenge expired", now)
		if err != nil {
			return match.Record{}, fmt.Errorf("expire challenge: %w", err)
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
		return match.Record{}, fmt.Errorf("%w: token expired at %s", ErrExpired, record.TokenExpiresAt.Format(time.RFC3339))
	}
	if !record.TokenLive(now) {
		return match.Record{}, fmt.Errorf("%w: unknown challenge token", ErrNotFound)
	}

	return record, nil
}

func (s *LifecycleService) loadPair(ctx context.Context, matchID string) (match.Record, *match.Record, error) {
	record, err := s.GetRecord(ctx, matchID)
	if err != nil {
		return match.Record{}, nil, err
	}
	if record.LinkedRecordID == "" {
		return record, nil, nil
	}

	linked, exists, err := s.matchRepo.GetByID(ctx, record.LinkedRecordID)
	if err != nil {
		return match.Record{}, nil, fmt.Errorf("get linked record: %w", err)
	}
	if !exists {
		return match.Record{}, nil, fmt.Errorf("%w: linked record %s is missing", ErrNotFound, record.LinkedRecordID)
	}

	return record, &linked, nil
}

func (s *LifecycleService) authorizeParticipantAdmin(caller user.Principal, record match.Record, linked *match.Record) error {
	if caller.AdminOf(record.TeamID) {
		return nil
	}
	if linked != nil && caller.AdminOf(linked.TeamID) {
		return nil
	}
	return fmt.Errorf("%w: caller must administer one of the participating teams", ErrUnauthorized)
}

// orientPair returns (host, mirror) regardless of which side the caller
// addressed. When the pairing has no mirror yet, the second value is the
// zero record.
func orientPair(record match.Record, linked *match.Record) (match.Record, match.Record) {
	if record.Host {
		if linked != nil {
			return record, *linked
		}
		return record, match.Record{}
	}
	if linked != nil {
		return *linked, record
	}
	return match.Record{}, record
}

func pairTeamIDs(record match.Record, linked *match.Record) []string {
	ids := []string{record.TeamID}
	if linked != nil {
		ids = append(ids, linked.TeamID)
	}
	return ids
}
