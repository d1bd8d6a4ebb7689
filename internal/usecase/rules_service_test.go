package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/pitchside/matchday/internal/domain/match"
	"github.com/pitchside/matchday/internal/infrastructure/repository/memory"
)

// seedConfirmedPair inserts a linked host/mirror pair in the given status and
// returns (hostID, mirrorID).
func seedConfirmedPair(t *testing.T, repo *memory.MatchRepository, now time.Time, status string) (string, string) {
	t.Helper()

	host := match.Record{
		ID:             "match-host",
		TeamID:         memory.TeamIDGarudaFC,
		Host:           true,
		ScheduledAt:    now,
		Status:         status,
		OpponentTeamID: memory.TeamIDRajawaliSC,
		LinkedRecordID: "match-mirror",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	mirror := match.Record{
		ID:             "match-mirror",
		TeamID:         memory.TeamIDRajawaliSC,
		Host:           false,
		ScheduledAt:    now,
		Status:         status,
		OpponentTeamID: memory.TeamIDGarudaFC,
		LinkedRecordID: "match-host",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := repo.CreatePair(t.Context(), host, mirror); err != nil {
		t.Fatalf("seed pair: %v", err)
	}

	return host.ID, mirror.ID
}

func defaultRulesInput() UpsertRulesInput {
	return UpsertRulesInput{
		QuarterCount:        4,
		QuarterMinutes:      10,
		QuarterBreakMinutes: 2,
		HalftimeMinutes:     5,
		PlayersPerSide:      7,
		OffsideEnabled:      true,
		SlidingAllowed:      false,
	}
}

func TestRulesService_Upsert_SetsRulesPending(t *testing.T) {
	now := time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)
	matchRepo := memory.NewMatchRepository()
	rulesRepo := memory.NewRulesRepository()
	hostID, mirrorID := seedConfirmedPair(t, matchRepo, now, match.StatusConfirmed)

	svc := NewRulesService(matchRepo, rulesRepo, NopNotifier{}, nil)
	svc.now = func() time.Time { return now }

	agreement, err := svc.Upsert(t.Context(), garudaAdmin, hostID, defaultRulesInput())
	if err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	if !agreement.AgreedByTeamA || agreement.AgreedByTeamB {
		t.Fatalf("expected only the editor agreed: %+v", agreement)
	}
	for _, id := range []string{hostID, mirrorID} {
		record, _, err := matchRepo.GetByID(t.Context(), id)
		if err != nil {
			t.Fatalf("get record: %v", err)
		}
		if record.Status != match.StatusRulesPending {
			t.Fatalf("record %s not RULES_PENDING: %s", id, record.Status)
		}
	}
}

func TestRulesService_Upsert_FromMirrorSide(t *testing.T) {
	now := time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)
	matchRepo := memory.NewMatchRepository()
	rulesRepo := memory.NewRulesRepository()
	_, mirrorID := seedConfirmedPair(t, matchRepo, now, match.StatusConfirmed)

	svc := NewRulesService(matchRepo, rulesRepo, NopNotifier{}, nil)
	svc.now = func() time.Time { return now }

	// The opponent's admin edits through their own record id.
	agreement, err := svc.Upsert(t.Context(), rajaAdmin, mirrorID, defaultRulesInput())
	if err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if agreement.AgreedByTeamA || !agreement.AgreedByTeamB {
		t.Fatalf("expected only the opponent side agreed: %+v", agreement)
	}
	if agreement.MatchID != "match-host" {
		t.Fatalf("agreement not keyed by host record: %s", agreement.MatchID)
	}
}

func TestRulesService_Agree_CascadesWhenBothSidesApprove(t *testing.T) {
	now := time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)
	matchRepo := memory.NewMatchRepository()
	rulesRepo := memory.NewRulesRepository()
	hostID, mirrorID := seedConfirmedPair(t, matchRepo, now, match.StatusConfirmed)

	svc := NewRulesService(matchRepo, rulesRepo, NopNotifier{}, nil)
	svc.now = func() time.Time { return now }

	if _, err := svc.Upsert(t.Context(), garudaAdmin, hostID, defaultRulesInput()); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	agreement, both, err := svc.Agree(t.Context(), rajaAdmin, mirrorID)
	if err != nil {
		t.Fatalf("agree failed: %v", err)
	}
	if !both || !agreement.BothAgreed() {
		t.Fatalf("expected both agreed: both=%v %+v", both, agreement)
	}

	for _, id := range []string{hostID, mirrorID} {
		record, _, err := matchRepo.GetByID(t.Context(), id)
		if err != nil {
			t.Fatalf("get record: %v", err)
		}
		if record.Status != match.StatusRulesConfirmed {
			t.Fatalf("record %s not RULES_CONFIRMED: %s", id, record.Status)
		}
	}
}

func TestRulesService_Edit_ResetsOtherSidesApproval(t *testing.T) {
	now := time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)
	matchRepo := memory.NewMatchRepository()
	rulesRepo := memory.NewRulesRepository()
	hostID, mirrorID := seedConfirmedPair(t, matchRepo, now, match.StatusConfirmed)

	svc := NewRulesService(matchRepo, rulesRepo, NopNotifier{}, nil)
	svc.now = func() time.Time { return now }

	if _, err := svc.Upsert(t.Context(), garudaAdmin, hostID, defaultRulesInput()); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if _, _, err := svc.Agree(t.Context(), rajaAdmin, mirrorID); err != nil {
		t.Fatalf("agree failed: %v", err)
	}

	// Post-confirmation edit reopens the negotiation.
	input := defaultRulesInput()
	input.QuarterMinutes = 12
	agreement, err := svc.Upsert(t.Context(), rajaAdmin, mirrorID, input)
	if err != nil {
		t.Fatalf("edit failed: %v", err)
	}
	if agreement.AgreedByTeamA || !agreement.AgreedByTeamB {
		t.Fatalf("expected host approval reset: %+v", agreement)
	}

	record, _, err := matchRepo.GetByID(t.Context(), hostID)
	if err != nil {
		t.Fatalf("get host: %v", err)
	}
	if record.Status != match.StatusRulesPending {
		t.Fatalf("expected RULES_PENDING after edit, got %s", record.Status)
	}
}

func TestRulesService_Agree_Idempotent(t *testing.T) {
	now := time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)
	matchRepo := memory.NewMatchRepository()
	rulesRepo := memory.NewRulesRepository()
	hostID, _ := seedConfirmedPair(t, matchRepo, now, match.StatusConfirmed)

	svc := NewRulesService(matchRepo, rulesRepo, NopNotifier{}, nil)
	svc.now = func() time.Time { return now }

	if _, err := svc.Upsert(t.Context(), garudaAdmin, hostID, defaultRulesInput()); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	// The editor re-agreeing changes nothing and does not confirm.
	agreement, both, err := svc.Agree(t.Context(), garudaAdmin, hostID)
	if err != nil {
		t.Fatalf("agree failed: %v", err)
	}
	if both || agreement.AgreedByTeamB {
		t.Fatalf("unexpected confirmation: both=%v %+v", both, agreement)
	}
}

func TestRulesService_Upsert_InvalidParams(t *testing.T) {
	now := time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)
	matchRepo := memory.NewMatchRepository()
	rulesRepo := memory.NewRulesRepository()
	hostID, _ := seedConfirmedPair(t, matchRepo, now, match.StatusConfirmed)

	svc := NewRulesService(matchRepo, rulesRepo, NopNotifier{}, nil)
	svc.now = func() time.Time { return now }

	input := defaultRulesInput()
	input.QuarterCount = 0
	if _, err := svc.Upsert(t.Context(), garudaAdmin, hostID, input); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestRulesService_Upsert_BlockedInProgress(t *testing.T) {
	now := time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)
	matchRepo := memory.NewMatchRepository()
	rulesRepo := memory.NewRulesRepository()
	hostID, _ := seedConfirmedPair(t, matchRepo, now, match.StatusInProgress)

	svc := NewRulesService(matchRepo, rulesRepo, NopNotifier{}, nil)
	svc.now = func() time.Time { return now }

	if _, err := svc.Upsert(t.Context(), garudaAdmin, hostID, defaultRulesInput()); !errors.Is(err, ErrStateConflict) {
		t.Fatalf("expected ErrStateConflict, got %v", err)
	}
}
