package referee

import (
	"errors"
	"testing"
	"time"
)

func TestAssignment_SegmentSum(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 5, 9, 16, 0, 0, 0, time.UTC)
	a := Assignment{MatchID: "m-1", Quarter: 1, TimerStatus: TimerIdle}

	if err := a.Start(base); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := a.Pause(base.Add(120 * time.Second)); err != nil {
		t.Fatalf("pause: %v", err)
	}
	if err := a.Resume(base.Add(200 * time.Second)); err != nil {
		t.Fatalf("resume: %v", err)
	}
	if err := a.Pause(base.Add(260 * time.Second)); err != nil {
		t.Fatalf("second pause: %v", err)
	}
	if err := a.Resume(base.Add(300 * time.Second)); err != nil {
		t.Fatalf("second resume: %v", err)
	}
	if err := a.End(base.Add(330 * time.Second)); err != nil {
		t.Fatalf("end: %v", err)
	}

	// Running intervals: 120 + 60 + 30.
	if a.ElapsedSeconds != 210 {
		t.Fatalf("expected 210s elapsed, got %d", a.ElapsedSeconds)
	}
	if a.TimerStatus != TimerEnded {
		t.Fatalf("expected ENDED, got %s", a.TimerStatus)
	}
	if a.EndedAt == nil || !a.EndedAt.Equal(base.Add(330*time.Second)) {
		t.Fatalf("unexpected ended at: %v", a.EndedAt)
	}
	if a.LastResumedAt != nil {
		t.Fatal("expected last resumed cleared at end")
	}
}

func TestAssignment_AdjustComposesWithEnd(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 5, 9, 16, 0, 0, 0, time.UTC)

	withAdjust := Assignment{MatchID: "m-1", Quarter: 2, TimerStatus: TimerIdle}
	if err := withAdjust.Start(base); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := withAdjust.Adjust(10, base.Add(40*time.Second)); err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if err := withAdjust.End(base.Add(60 * time.Second)); err != nil {
		t.Fatalf("end: %v", err)
	}

	plain := Assignment{MatchID: "m-1", Quarter: 2, TimerStatus: TimerIdle}
	if err := plain.Start(base); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := plain.End(base.Add(60 * time.Second)); err != nil {
		t.Fatalf("end: %v", err)
	}

	if withAdjust.ElapsedSeconds != plain.ElapsedSeconds+10 {
		t.Fatalf("adjust then end diverged: %d vs %d+10", withAdjust.ElapsedSeconds, plain.ElapsedSeconds)
	}
}

func TestAssignment_AdjustClampsAtZero(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 5, 9, 16, 0, 0, 0, time.UTC)
	a := Assignment{MatchID: "m-1", Quarter: 3, TimerStatus: TimerIdle}
	if err := a.Start(base); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := a.Pause(base.Add(5 * time.Second)); err != nil {
		t.Fatalf("pause: %v", err)
	}
	if err := a.Adjust(-30, base.Add(6*time.Second)); err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if a.ElapsedSeconds != 0 {
		t.Fatalf("expected clamp at 0, got %d", a.ElapsedSeconds)
	}
}

func TestAssignment_StopwatchScenario(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 5, 9, 16, 0, 0, 0, time.UTC)
	a := Assignment{MatchID: "m-1", Quarter: 1, TimerStatus: TimerIdle}

	if err := a.Start(base); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := a.Pause(base.Add(5 * time.Second)); err != nil {
		t.Fatalf("pause: %v", err)
	}
	if a.ElapsedSeconds != 5 {
		t.Fatalf("expected 5s after pause, got %d", a.ElapsedSeconds)
	}
	if err := a.Resume(base.Add(10 * time.Second)); err != nil {
		t.Fatalf("resume: %v", err)
	}
	if err := a.Adjust(10, base.Add(13*time.Second)); err != nil {
		t.Fatalf("adjust: %v", err)
	}
	// 5s first segment + 3s since resume + 10s adjustment.
	if a.ElapsedSeconds != 18 {
		t.Fatalf("expected 18s after adjust, got %d", a.ElapsedSeconds)
	}
	before := a.ElapsedSeconds
	if err := a.End(base.Add(13 * time.Second)); err != nil {
		t.Fatalf("end: %v", err)
	}
	if a.ElapsedSeconds != before {
		t.Fatalf("end must not change elapsed, got %d vs %d", a.ElapsedSeconds, before)
	}
	if a.TimerStatus != TimerEnded {
		t.Fatalf("expected ENDED, got %s", a.TimerStatus)
	}
}

func TestAssignment_InvalidTransitions(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 5, 9, 16, 0, 0, 0, time.UTC)

	a := Assignment{TimerStatus: TimerIdle}
	if err := a.Pause(base); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("pause from IDLE: expected ErrInvalidTransition, got %v", err)
	}
	if err := a.Resume(base); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("resume from IDLE: expected ErrInvalidTransition, got %v", err)
	}
	if err := a.End(base); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("end from IDLE: expected ErrInvalidTransition, got %v", err)
	}
	if err := a.Adjust(5, base); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("adjust from IDLE: expected ErrInvalidTransition, got %v", err)
	}

	if err := a.Start(base); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := a.Start(base); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("double start: expected ErrInvalidTransition, got %v", err)
	}
	if err := a.End(base.Add(time.Second)); err != nil {
		t.Fatalf("end: %v", err)
	}
	if err := a.Adjust(1, base.Add(2*time.Second)); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("adjust after END: expected ErrInvalidTransition, got %v", err)
	}
}
