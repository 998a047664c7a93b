package logic

import "time"

// IndicatorState is the state of the activity indicator.
type IndicatorState int

const (
	IndicatorIdle IndicatorState = iota
	IndicatorPulsing
)

func (s IndicatorState) String() string {
	if s == IndicatorPulsing {
		return "PULSING"
	}
	return "IDLE"
}

// Indicator turns "something changed this cycle" into a visible pulse.
// A change while already pulsing only pushes the expiry out.
type Indicator struct {
	pulse  time.Duration
	state  IndicatorState
	expiry time.Time
}

// NewIndicator creates an idle indicator with the given pulse length.
func NewIndicator(pulse time.Duration) *Indicator {
	return &Indicator{pulse: pulse}
}

// Update advances the state machine for one cycle. It returns whether the
// indicator should be lit and whether that differs from the previous cycle.
func (ind *Indicator) Update(changed bool, now time.Time) (lit, toggled bool) {
	if changed {
		ind.expiry = now.Add(ind.pulse)
		if ind.state == IndicatorIdle {
			ind.state = IndicatorPulsing
			return true, true
		}
		return true, false
	}

	if ind.state == IndicatorPulsing && now.After(ind.expiry) {
		ind.state = IndicatorIdle
		return false, true
	}
	return ind.state == IndicatorPulsing, false
}

// State returns the current indicator state.
func (ind *Indicator) State() IndicatorState {
	return ind.state
}
