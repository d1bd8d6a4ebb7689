package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/pitchside/matchday/internal/domain/match"
	"github.com/pitchside/matchday/internal/infrastructure/repository/memory"
	"github.com/pitchside/matchday/internal/platform/cache"
)

type capturingNotifier struct {
	mu     sync.Mutex
	events []Event
}

func (n *capturingNotifier) Dispatch(_ context.Context, event Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *capturingNotifier) count(eventType string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	total := 0
	for _, e := range n.events {
		if e.Type == eventType {
			total++
		}
	}
	return total
}

func newChallengeFixture(t *testing.T, now time.Time, notifier Notifier) (*ChallengeService, *memory.MatchRepository) {
	t.Helper()

	matchRepo := memory.NewMatchRepository()
	teamRepo := memory.NewTeamRepository(memory.SeedTeams(), memory.SeedMembers())
	rulesRepo := memory.NewRulesRepository()
	refereeRepo := memory.NewRefereeRepository()
	ledgerRepo := memory.NewLedgerRepository(matchRepo)
	rosters := cache.NewStore(time.Minute)

	svc := NewChallengeService(matchRepo, teamRepo, rulesRepo, refereeRepo, ledgerRepo, rosters, notifier, nil)
	svc.now = func() time.Time { return now }

	return svc, matchRepo
}

func seedChallenge(t *testing.T, repo *memory.MatchRepository, now time.Time, expiresAt time.Time) match.Record {
	t.Helper()

	record := match.Record{
		ID:             "match-1",
		TeamID:         memory.TeamIDGarudaFC,
		Host:           true,
		ScheduledAt:    now.Add(48 * time.Hour),
		Status:         match.StatusChallengeSent,
		ChallengeToken: "tok-abc123",
		TokenExpiresAt: &expiresAt,
		MinimumPlayers: 5,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := repo.Create(t.Context(), record); err != nil {
		t.Fatalf("seed challenge: %v", err)
	}
	return record
}

func TestChallengeService_Resolve_Snapshot(t *testing.T) {
	now := time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)
	svc, matchRepo := newChallengeFixture(t, now, NopNotifier{})
	seedChallenge(t, matchRepo, now, now.Add(time.Hour))

	snapshot, err := svc.Resolve(t.Context(), "tok-abc123", nil)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	if snapshot.HostTeam.ID != memory.TeamIDGarudaFC {
		t.Fatalf("unexpected host team: %s", snapshot.HostTeam.ID)
	}
	if len(snapshot.HostRoster) != 6 {
		t.Fatalf("unexpected roster size: %d", len(snapshot.HostRoster))
	}
	if snapshot.OpponentTeam != nil || snapshot.Rules != nil {
		t.Fatal("expected no opponent or rules before acceptance")
	}
	if snapshot.Scores.TeamA != 0 || snapshot.Scores.TeamB != 0 {
		t.Fatalf("unexpected scores: %+v", snapshot.Scores)
	}
	// Anonymous viewer gets no capabilities.
	if snapshot.CanRecord || snapshot.CanEnd {
		t.Fatal("anonymous caller should have no permissions")
	}
}

func TestChallengeService_Resolve_Permissions(t *testing.T) {
	now := time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)
	svc, matchRepo := newChallengeFixture(t, now, NopNotifier{})
	seedChallenge(t, matchRepo, now, now.Add(time.Hour))

	admin := garudaAdmin
	snapshot, err := svc.Resolve(t.Context(), "tok-abc123", &admin)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if !snapshot.CanRecord || !snapshot.CanEnd {
		t.Fatalf("admin should record and end: %+v", snapshot)
	}

	attending := garudaSub
	snapshot, err = svc.Resolve(t.Context(), "tok-abc123", &attending)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if !snapshot.CanRecord || snapshot.CanEnd {
		t.Fatalf("attending member records but cannot end: %+v", snapshot)
	}
}

func TestChallengeService_Resolve_ExpiredExactlyOnce(t *testing.T) {
	now := time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)
	notifier := &capturingNotifier{}
	svc, matchRepo := newChallengeFixture(t, now, notifier)
	seedChallenge(t, matchRepo, now, now.Add(-time.Minute))

	// Two concurrent-ish reads of the same stale token.
	if _, err := svc.Resolve(t.Context(), "tok-abc123", nil); !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
	if _, err := svc.Resolve(t.Context(), "tok-abc123", nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after expiry, got %v", err)
	}

	if got := notifier.count(EventChallengeExpired); got != 1 {
		t.Fatalf("expected exactly one expiry event, got %d", got)
	}

	record, _, err := matchRepo.GetByID(t.Context(), "match-1")
	if err != nil {
		t.Fatalf("get record: %v", err)
	}
	if record.Status != match.StatusCancelled {
		t.Fatalf("expected CANCELLED, got %s", record.Status)
	}
}

func TestChallengeService_Resolve_UnknownToken(t *testing.T) {
	now := time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)
	svc, _ := newChallengeFixture(t, now, NopNotifier{})

	if _, err := svc.Resolve(t.Context(), "tok-missing", nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
