package rules

import (
	"errors"
	"time"
)

const (
	PhaseQuarter  = "QUARTER"
	PhaseBreak    = "BREAK"
	PhaseHalftime = "HALFTIME"
)

var (
	ErrInvalidParams    = errors.New("invalid rules parameters")
	ErrPhaseOutOfRange  = errors.New("phase index out of range")
	ErrTimerAtLastPhase = errors.New("already at the last phase")
	ErrTimerAtPreMatch  = errors.New("already at pre-match")
)

// Agreement holds the negotiated match parameters for one pairing, keyed by
// the host record id. It also carries the phase clock anchor: CurrentPhase is
// an index into [0, len(phases)] where 0 means pre-match, TimerStartedAt is
// non-nil exactly while the clock is running, and TimerElapsedSec accumulates
// completed running segments of the current phase.
type Agreement struct {
	MatchID             string
	QuarterCount        int
	QuarterMinutes      int
	QuarterBreakMinutes int
	HalftimeMinutes     int
	PlayersPerSide      int
	OffsideEnabled      bool
	SlidingAllowed      bool
	AgreedByTeamA       bool
	AgreedByTeamB       bool
	CurrentPhase        int
	TimerStartedAt      *time.Time
	TimerElapsedSec     int
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Phase is one segment of the match schedule.
type Phase struct {
	Type            string
	DurationSeconds int
}

// BuildPhases expands the agreed parameters into the ordered phase sequence:
// each quarter, followed by halftime after the mid-point quarter, followed by
// a break after every quarter except the last.
func BuildPhases(quarterCount, quarterMinutes, quarterBreakMinutes, halftimeMinutes int) []Phase {
	if quarterCount <= 0 {
		return nil
	}

	mid := quarterCount / 2
	phases := make([]Phase, 0, 2*quarterCount)
	for i := 1; i <= quarterCount; i++ {
		phases = append(phases, Phase{Type: PhaseQuarter, DurationSeconds: quarterMinutes * 60})
		if i == mid {
			phases = append(phases, Phase{Type: PhaseHalftime, DurationSeconds: halftimeMinutes * 60})
		}
		if i < quarterCount {
			phases = append(phases, Phase{Type: PhaseBreak, DurationSeconds: quarterBreakMinutes * 60})
		}
	}

	return phases
}

func (a Agreement) Phases() []Phase {
	return BuildPhases(a.QuarterCount, a.QuarterMinutes, a.QuarterBreakMinutes, a.HalftimeMinutes)
}

func (a Agreement) BothAgreed() bool {
	return a.AgreedByTeamA && a.AgreedByTeamB
}

func (a Agreement) TimerRunning() bool {
	return a.TimerStartedAt != nil
}

// ElapsedSeconds derives the current phase elapsed time from the stored
// anchor, so no ticking process is needed.
func (a Agreement) ElapsedSeconds(now time.Time) int {
	elapsed := a.TimerElapsedSec
	if a.TimerStartedAt != nil {
		elapsed += int(now.Sub(*a.TimerStartedAt) / time.Second)
	}
	return elapsed
}

// StartTimer resumes the phase clock in place. No-op while already running.
func (a *Agreement) StartTimer(now time.Time) {
	if a.TimerStartedAt != nil {
		return
	}
	started := now
	a.TimerStartedAt = &started
}

// PauseTimer folds the in-progress segment into TimerElapsedSec. No-op while
// already stopped.
func (a *Agreement) PauseTimer(now time.Time) {
	if a.TimerStartedAt == nil {
		return
	}
	a.TimerElapsedSec += int(now.Sub(*a.TimerStartedAt) / time.Second)
	a.TimerStartedAt = nil
}

// AdvancePhase moves to the next phase and auto-starts it.
func (a *Agreement) AdvancePhase(now time.Time) error {
	if a.CurrentPhase >= len(a.Phases()) {
		return ErrTimerAtLastPhase
	}
	a.resetAt(a.CurrentPhase+1, now)
	return nil
}

// RewindPhase moves to the previous phase and auto-starts it.
func (a *Agreement) RewindPhase(now time.Time) error {
	if a.CurrentPhase <= 0 {
		return ErrTimerAtPreMatch
	}
	a.resetAt(a.CurrentPhase-1, now)
	return nil
}

// SetPhase jumps to phase n in [1, len(phases)] and auto-starts it.
func (a *Agreement) SetPhase(n int, now time.Time) error {
	if n < 1 || n > len(a.Phases()) {
		return ErrPhaseOutOfRange
	}
	a.resetAt(n, now)
	return nil
}

func (a *Agreement) resetAt(phase int, now time.Time) {
	started := now
	a.CurrentPhase = phase
	a.TimerElapsedSec = 0
	a.TimerStartedAt = &started
}

// ValidateParams checks the negotiable parameters on upsert.
func (a Agreement) ValidateParams() error {
	if a.QuarterCount < 1 || a.QuarterCount > 8 {
		return ErrInvalidParams
	}
	if a.QuarterMinutes < 1 || a.QuarterBreakMinutes < 0 || a.HalftimeMinutes < 0 {
		return ErrInvalidParams
	}
	if a.PlayersPerSide < 1 {
		return ErrInvalidParams
	}
	return nil
}
