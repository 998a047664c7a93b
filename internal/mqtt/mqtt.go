// Package mqtt provides MQTT publishing with abstraction for testing.
package mqtt

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sweeney/pir-sensor/internal/logic"
)

var (
	// ErrNotConnected is returned when a message is dropped because the
	// broker connection is not open.
	ErrNotConnected = errors.New("mqtt: not connected")

	// ErrInvalidDevice is returned for device names that cannot be used as a
	// topic level.
	ErrInvalidDevice = errors.New("invalid device name")
)

// DefaultDevice is the topic prefix used when none is configured.
const DefaultDevice = "sensor"

// Publisher publishes messages to MQTT.
type Publisher interface {
	// Publish hands one message to the broker connection without waiting
	// for delivery. Returns an error if the message was dropped; callers
	// log it and carry on.
	Publish(topic string, payload []byte) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// ValidateDevice checks that name can be used as a single topic level.
func ValidateDevice(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty", ErrInvalidDevice)
	}
	if strings.ContainsAny(name, "+#/") {
		return fmt.Errorf("%w: %q contains a topic separator or wildcard", ErrInvalidDevice, name)
	}
	return nil
}

// Topic returns the address for an event: {device}/p{n} for pins and
// {device}/g{n} for groups, with n counted from 1.
func Topic(device string, e logic.Event) string {
	return device + "/" + e.Source()
}

// TopicSystem returns the topic for system lifecycle events.
func TopicSystem(device string) string {
	return device + "/system"
}

// FormatPayload encodes a level exactly as read from the line:
// "1" for HIGH (inactive) and "0" for LOW (active).
func FormatPayload(l logic.Level) []byte {
	if l == logic.High {
		return []byte("1")
	}
	return []byte("0")
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown, heartbeat).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "HEARTBEAT"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// SystemPayload represents the MQTT message payload for system events.
// Used for simple events (LWT) that don't carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp,omitempty"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	inner := SystemPayloadInner{
		Event:  event.Event,
		Reason: event.Reason,
	}
	if !event.Timestamp.IsZero() {
		inner.Timestamp = event.Timestamp.UTC().Format(time.RFC3339)
	}
	return json.Marshal(SystemPayload{System: inner})
}
