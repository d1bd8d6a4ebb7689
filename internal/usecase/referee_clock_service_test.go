package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/pitchside/matchday/internal/domain/match"
	"github.com/pitchside/matchday/internal/domain/referee"
	"github.com/pitchside/matchday/internal/domain/rules"
	"github.com/pitchside/matchday/internal/domain/user"
	"github.com/pitchside/matchday/internal/infrastructure/repository/memory"
)

var quarterReferee = user.Principal{UserID: "usr-rajawali-01", TeamID: memory.TeamIDRajawaliSC, Role: user.RoleMember}

func newRefereeClockFixture(t *testing.T, now time.Time) (*RefereeClockService, *memory.RefereeRepository) {
	t.Helper()

	matchRepo := memory.NewMatchRepository()
	rulesRepo := memory.NewRulesRepository()
	refereeRepo := memory.NewRefereeRepository()
	hostID, _ := seedConfirmedPair(t, matchRepo, now, match.StatusInProgress)

	agreement := rules.Agreement{
		MatchID:             hostID,
		QuarterCount:        4,
		QuarterMinutes:      10,
		QuarterBreakMinutes: 2,
		HalftimeMinutes:     5,
		PlayersPerSide:      7,
		AgreedByTeamA:       true,
		AgreedByTeamB:       true,
	}
	if err := rulesRepo.Upsert(t.Context(), agreement); err != nil {
		t.Fatalf("seed agreement: %v", err)
	}

	svc := NewRefereeClockService(matchRepo, rulesRepo, refereeRepo, nil)
	svc.now = func() time.Time { return now }

	if _, err := svc.Assign(t.Context(), garudaAdmin, "match-host", []AssignRefereeInput{
		{Quarter: 1, RefereeUserID: quarterReferee.UserID, TeamSide: "TEAM_B"},
		{Quarter: 2, RefereeUserID: "usr-garuda-01", TeamSide: "TEAM_A"},
	}); err != nil {
		t.Fatalf("assign referees: %v", err)
	}

	return svc, refereeRepo
}

func TestRefereeClockService_StopwatchLifecycle(t *testing.T) {
	now := time.Date(2026, time.March, 14, 15, 0, 0, 0, time.UTC)
	svc, _ := newRefereeClockFixture(t, now)

	a, err := svc.Apply(t.Context(), quarterReferee, "match-host", 1, RefereeActionStart, 0)
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if a.TimerStatus != referee.TimerRunning {
		t.Fatalf("unexpected status: %s", a.TimerStatus)
	}

	// Run 5s, pause, resume, run 3s more, then adjust by +10.
	svc.now = func() time.Time { return now.Add(5 * time.Second) }
	if _, err := svc.Apply(t.Context(), quarterReferee, "match-host", 1, RefereeActionPause, 0); err != nil {
		t.Fatalf("pause failed: %v", err)
	}

	svc.now = func() time.Time { return now.Add(20 * time.Second) }
	if _, err := svc.Apply(t.Context(), quarterReferee, "match-host", 1, RefereeActionResume, 0); err != nil {
		t.Fatalf("resume failed: %v", err)
	}

	svc.now = func() time.Time { return now.Add(23 * time.Second) }
	a, err = svc.Apply(t.Context(), quarterReferee, "match-host", 1, RefereeActionAdjust, 10)
	if err != nil {
		t.Fatalf("adjust failed: %v", err)
	}
	if got := a.CurrentElapsed(now.Add(23 * time.Second)); got != 18 {
		t.Fatalf("expected 18s after adjust, got %d", got)
	}

	a, err = svc.Apply(t.Context(), quarterReferee, "match-host", 1, RefereeActionEnd, 0)
	if err != nil {
		t.Fatalf("end failed: %v", err)
	}
	if a.TimerStatus != referee.TimerEnded || a.ElapsedSeconds != 18 {
		t.Fatalf("unexpected final state: status=%s elapsed=%d", a.TimerStatus, a.ElapsedSeconds)
	}

	// Ended clocks accept nothing further.
	if _, err := svc.Apply(t.Context(), quarterReferee, "match-host", 1, RefereeActionStart, 0); !errors.Is(err, ErrStateConflict) {
		t.Fatalf("expected ErrStateConflict after end, got %v", err)
	}
}

func TestRefereeClockService_AdjustClampsAtZero(t *testing.T) {
	now := time.Date(2026, time.March, 14, 15, 0, 0, 0, time.UTC)
	svc, _ := newRefereeClockFixture(t, now)

	if _, err := svc.Apply(t.Context(), quarterReferee, "match-host", 1, RefereeActionStart, 0); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	svc.now = func() time.Time { return now.Add(4 * time.Second) }
	a, err := svc.Apply(t.Context(), quarterReferee, "match-host", 1, RefereeActionAdjust, -60)
	if err != nil {
		t.Fatalf("adjust failed: %v", err)
	}
	if got := a.CurrentElapsed(now.Add(4 * time.Second)); got != 0 {
		t.Fatalf("expected clamp to zero, got %d", got)
	}
}

func TestRefereeClockService_SingleWriter(t *testing.T) {
	now := time.Date(2026, time.March, 14, 15, 0, 0, 0, time.UTC)
	svc, _ := newRefereeClockFixture(t, now)

	// Even a team admin cannot drive another referee's quarter clock.
	if _, err := svc.Apply(t.Context(), garudaAdmin, "match-host", 1, RefereeActionStart, 0); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	// No assignment for quarter 3 at all.
	if _, err := svc.Apply(t.Context(), quarterReferee, "match-host", 3, RefereeActionStart, 0); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRefereeClockService_Assign_ValidatesQuarterRange(t *testing.T) {
	now := time.Date(2026, time.March, 14, 15, 0, 0, 0, time.UTC)
	svc, _ := newRefereeClockFixture(t, now)

	_, err := svc.Assign(t.Context(), garudaAdmin, "match-host", []AssignRefereeInput{
		{Quarter: 5, RefereeUserID: "usr-garuda-02"},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestRefereeClockService_Assign_KeepsStartedClocks(t *testing.T) {
	now := time.Date(2026, time.March, 14, 15, 0, 0, 0, time.UTC)
	svc, refereeRepo := newRefereeClockFixture(t, now)

	if _, err := svc.Apply(t.Context(), quarterReferee, "match-host", 1, RefereeActionStart, 0); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	// Reassignment attempts do not steal a quarter whose clock already ran.
	if _, err := svc.Assign(t.Context(), garudaAdmin, "match-host", []AssignRefereeInput{
		{Quarter: 1, RefereeUserID: "usr-garuda-02"},
	}); err != nil {
		t.Fatalf("assign failed: %v", err)
	}

	a, exists, err := refereeRepo.GetByMatchAndQuarter(t.Context(), "match-host", 1)
	if err != nil || !exists {
		t.Fatalf("assignment missing: exists=%v err=%v", exists, err)
	}
	if a.RefereeUserID != quarterReferee.UserID || a.TimerStatus != referee.TimerRunning {
		t.Fatalf("started clock was replaced: %+v", a)
	}
}
