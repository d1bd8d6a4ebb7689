package referee

import (
	"errors"
	"time"
)

const (
	TimerIdle    = "IDLE"
	TimerRunning = "RUNNING"
	TimerPaused  = "PAUSED"
	TimerEnded   = "ENDED"
)

var ErrInvalidTransition = errors.New("invalid referee clock transition")

// Assignment binds one referee to one quarter and carries that quarter's
// stopwatch. ElapsedSeconds accumulates completed running segments; while
// RUNNING, LastResumedAt anchors the open segment so elapsed time is derived
// on read without a ticking process.
type Assignment struct {
	MatchID        string
	Quarter        int
	RefereeUserID  string
	TeamSide       string
	TimerStatus    string
	ElapsedSeconds int
	LastResumedAt  *time.Time
	StartedAt      *time.Time
	EndedAt        *time.Time
}

// CurrentElapsed derives total elapsed seconds including any open segment.
func (a Assignment) CurrentElapsed(now time.Time) int {
	elapsed := a.ElapsedSeconds
	if a.TimerStatus == TimerRunning && a.LastResumedAt != nil {
		elapsed += int(now.Sub(*a.LastResumedAt) / time.Second)
	}
	return elapsed
}

// Start begins the stopwatch from IDLE.
func (a *Assignment) Start(now time.Time) error {
	if a.TimerStatus != TimerIdle {
		return ErrInvalidTransition
	}
	started := now
	resumed := now
	a.TimerStatus = TimerRunning
	a.StartedAt = &started
	a.LastResumedAt = &resumed
	a.ElapsedSeconds = 0
	return nil
}

// Pause folds the open segment into ElapsedSeconds.
func (a *Assignment) Pause(now time.Time) error {
	if a.TimerStatus != TimerRunning {
		return ErrInvalidTransition
	}
	a.foldSegment(now)
	a.LastResumedAt = nil
	a.TimerStatus = TimerPaused
	return nil
}

// Resume reopens a paused stopwatch.
func (a *Assignment) Resume(now time.Time) error {
	if a.TimerStatus != TimerPaused {
		return ErrInvalidTransition
	}
	resumed := now
	a.LastResumedAt = &resumed
	a.TimerStatus = TimerRunning
	return nil
}

// End closes the stopwatch from RUNNING or PAUSED. Terminal.
func (a *Assignment) End(now time.Time) error {
	switch a.TimerStatus {
	case TimerRunning:
		a.foldSegment(now)
	case TimerPaused:
	default:
		return ErrInvalidTransition
	}
	ended := now
	a.TimerStatus = TimerEnded
	a.LastResumedAt = nil
	a.EndedAt = &ended
	return nil
}

// Adjust applies a manual correction. While RUNNING the open segment is
// folded in first and the anchor restarts at now, so the delta composes with
// wall-clock time instead of being overwritten by the next fold. The result
// is clamped at zero.
func (a *Assignment) Adjust(delta int, now time.Time) error {
	switch a.TimerStatus {
	case TimerRunning:
		a.foldSegment(now)
		resumed := now
		a.LastResumedAt = &resumed
	case TimerPaused:
	default:
		return ErrInvalidTransition
	}
	a.ElapsedSeconds += delta
	if a.ElapsedSeconds < 0 {
		a.ElapsedSeconds = 0
	}
	return nil
}

func (a *Assignment) foldSegment(now time.Time) {
	if a.LastResumedAt != nil {
		a.ElapsedSeconds += int(now.Sub(*a.LastResumedAt) / time.Second)
	}
}
