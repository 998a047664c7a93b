package logic

import (
	"errors"
	"fmt"
	"time"
)

// ErrSampleCount is returned when an Input does not cover every pin.
var ErrSampleCount = errors.New("sample count does not match pin count")

type pinState struct {
	filter NoiseFilter
	level  Level
}

type groupState struct {
	level Level
}

// Detector tracks per-pin and per-group levels and detects transitions.
// It is owned by the sampling loop and is not safe for concurrent use.
type Detector struct {
	layout        Layout
	pins          []pinState
	groups        []groupState
	startTime     time.Time
	eventCounts   EventCounts
	lastHeartbeat time.Time
}

// NewDetector creates a detector for the given layout. Every pin and group
// starts inactive, and that initial state is never reported.
// The startTime seeds the noise filters and is used for heartbeat uptime.
func NewDetector(layout Layout, hold time.Duration, startTime time.Time) (*Detector, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	if hold < 0 {
		return nil, fmt.Errorf("hold duration %v is negative", hold)
	}

	d := &Detector{
		layout:        layout,
		pins:          make([]pinState, layout.Pins),
		groups:        make([]groupState, layout.Groups()),
		startTime:     startTime,
		lastHeartbeat: startTime,
	}
	for i := range d.pins {
		d.pins[i] = pinState{filter: NewNoiseFilter(hold, startTime), level: High}
	}
	for i := range d.groups {
		d.groups[i].level = High
	}
	return d, nil
}

// Process runs one sampling cycle and returns the transitions it produced.
func (d *Detector) Process(input Input) (Cycle, error) {
	if len(input.Raw) != len(d.pins) {
		return Cycle{}, fmt.Errorf("%w: got %d, want %d", ErrSampleCount, len(input.Raw), len(d.pins))
	}

	var cycle Cycle

	for i := range d.pins {
		p := &d.pins[i]
		level := p.filter.Filter(input.Raw[i], input.Time)
		if level == p.level {
			continue
		}
		p.level = level
		cycle.AnyChanged = true
		cycle.Events = append(cycle.Events, Event{
			Timestamp: input.Time,
			Kind:      SourcePin,
			Index:     i,
			Level:     level,
		})
	}

	for g := range d.groups {
		level := d.groupLevel(g)
		if level == d.groups[g].level {
			continue
		}
		d.groups[g].level = level
		cycle.Events = append(cycle.Events, Event{
			Timestamp: input.Time,
			Kind:      SourceGroup,
			Index:     g,
			Level:     level,
		})
	}

	d.count(cycle.Events)
	return cycle, nil
}

// groupLevel is Low when any member pin is active. Encoded levels are never
// ORed directly: High|Low is High, which would mean "all active".
func (d *Detector) groupLevel(g int) Level {
	first, end := d.layout.Members(g)
	for _, p := range d.pins[first:end] {
		if p.level.Active() {
			return Low
		}
	}
	return High
}

func (d *Detector) count(events []Event) {
	for _, e := range events {
		switch {
		case e.Kind == SourcePin && e.Level.Active():
			d.eventCounts.PinActive++
		case e.Kind == SourcePin:
			d.eventCounts.PinInactive++
		case e.Level.Active():
			d.eventCounts.GroupActive++
		default:
			d.eventCounts.GroupInactive++
		}
	}
}

// Layout returns the detector's pin partition.
func (d *Detector) Layout() Layout {
	return d.layout
}

// PinLevels returns a copy of the current debounced pin levels.
func (d *Detector) PinLevels() []Level {
	out := make([]Level, len(d.pins))
	for i, p := range d.pins {
		out[i] = p.level
	}
	return out
}

// GroupLevels returns a copy of the last reported group levels.
func (d *Detector) GroupLevels() []Level {
	out := make([]Level, len(d.groups))
	for i, g := range d.groups {
		out[i] = g.level
	}
	return out
}

// EventCountsSnapshot returns a copy of the transition counters.
func (d *Detector) EventCountsSnapshot() EventCounts {
	return d.eventCounts
}

// CheckHeartbeat returns heartbeat data if the interval has elapsed since the
// last heartbeat (or startup). Returns nil if the interval has not elapsed,
// or if interval is <= 0 (disabled).
func (d *Detector) CheckHeartbeat(now time.Time, interval time.Duration) *HeartbeatData {
	if interval <= 0 {
		return nil
	}

	if now.Sub(d.lastHeartbeat) < interval {
		return nil
	}

	d.lastHeartbeat = now
	return &HeartbeatData{
		Timestamp: now,
		Uptime:    now.Sub(d.startTime),
		Counts:    d.eventCounts,
	}
}
