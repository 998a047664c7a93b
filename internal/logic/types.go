// Package logic contains the pure sampling logic for PIR sensor reporting:
// noise filtering, pin and group transition detection, and the activity
// indicator state machine.
// This package has NO external dependencies (no GPIO, MQTT, OS, or time.Sleep).
// Time is always injectable via time.Time parameters.
package logic

import (
	"strconv"
	"time"
)

// Level is the raw encoded electrical level of a line.
// Inputs are wired with pull-ups, so High means inactive and Low means active.
type Level uint8

const (
	Low  Level = 0
	High Level = 1
)

// Active reports whether the level means the sensor is triggered.
func (l Level) Active() bool {
	return l == Low
}

func (l Level) String() string {
	if l == High {
		return "HIGH"
	}
	return "LOW"
}

// LevelFor converts a logical active flag back to its encoded level.
func LevelFor(active bool) Level {
	if active {
		return Low
	}
	return High
}

// LevelFromRaw converts a raw line value (0 or non-zero) to a Level.
func LevelFromRaw(high bool) Level {
	if high {
		return High
	}
	return Low
}

// SourceKind says whether an event came from a single pin or a group.
type SourceKind string

const (
	SourcePin   SourceKind = "pin"
	SourceGroup SourceKind = "group"
)

// Event is a transition to be published.
type Event struct {
	Timestamp time.Time
	Kind      SourceKind
	Index     int // zero-based pin or group index
	Level     Level
}

// Source returns the short source name: "p1".."pN" for pins and "g1".."gN"
// for groups, counted from 1.
func (e Event) Source() string {
	prefix := "p"
	if e.Kind == SourceGroup {
		prefix = "g"
	}
	return prefix + strconv.Itoa(e.Index+1)
}

// Input is one sample of every configured pin, in pin index order.
type Input struct {
	Raw  []Level
	Time time.Time
}

// Cycle is the result of processing one Input.
type Cycle struct {
	// Events holds pin events by index, then group events by index.
	Events []Event
	// AnyChanged is true when at least one pin changed this cycle.
	AnyChanged bool
}

// EventCounts tracks the number of each transition direction since startup.
type EventCounts struct {
	PinActive     int
	PinInactive   int
	GroupActive   int
	GroupInactive int
}

// HeartbeatData contains information for a heartbeat event.
type HeartbeatData struct {
	Timestamp time.Time
	Uptime    time.Duration
	Counts    EventCounts
}
