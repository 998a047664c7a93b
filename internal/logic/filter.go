package logic

import "time"

// NoiseFilter suppresses short active pulses on a single pin.
//
// Every inactive sample pushes the hold deadline to now+hold. An active sample
// is reported as inactive until the deadline has passed, so activation is only
// trusted after it has been seen continuously for longer than the hold window.
// Deactivation passes through immediately.
type NoiseFilter struct {
	hold      time.Duration
	holdUntil time.Time
}

// NewNoiseFilter creates a filter that behaves as if an inactive sample was
// taken at start.
func NewNoiseFilter(hold time.Duration, start time.Time) NoiseFilter {
	return NoiseFilter{
		hold:      hold,
		holdUntil: start.Add(hold),
	}
}

// Filter returns the debounced level for a raw sample taken at now.
func (f *NoiseFilter) Filter(raw Level, now time.Time) Level {
	if !raw.Active() {
		f.holdUntil = now.Add(f.hold)
		return High
	}
	if now.Before(f.holdUntil) {
		return High
	}
	return Low
}

// HoldUntil returns the current hold deadline.
func (f *NoiseFilter) HoldUntil() time.Time {
	return f.holdUntil
}
