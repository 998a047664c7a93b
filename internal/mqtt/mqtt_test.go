package mqtt

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sweeney/pir-sensor/internal/logic"
)

func TestTopic(t *testing.T) {
	tests := []struct {
		kind  logic.SourceKind
		index int
		want  string
	}{
		{logic.SourcePin, 0, "sensor/p1"},
		{logic.SourcePin, 2, "sensor/p3"},
		{logic.SourcePin, 3, "sensor/p4"},
		{logic.SourceGroup, 0, "sensor/g1"},
		{logic.SourceGroup, 1, "sensor/g2"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := Topic("sensor", logic.Event{Kind: tt.kind, Index: tt.index})
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTopicSystem(t *testing.T) {
	if got := TopicSystem("hallway"); got != "hallway/system" {
		t.Errorf("unexpected system topic: got %s, want hallway/system", got)
	}
}

func TestFormatPayloadPreservesPolarity(t *testing.T) {
	if got := string(FormatPayload(logic.High)); got != "1" {
		t.Errorf("HIGH: got %q, want \"1\"", got)
	}
	if got := string(FormatPayload(logic.Low)); got != "0" {
		t.Errorf("LOW: got %q, want \"0\"", got)
	}
}

func TestValidateDevice(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"sensor", false},
		{"sensor-1A2B3C", false},
		{"", true},
		{"a/b", true},
		{"all+", true},
		{"#", true},
	}
	for _, tt := range tests {
		err := ValidateDevice(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("%q: err=%v, wantErr=%v", tt.name, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrInvalidDevice) {
			t.Errorf("%q: expected ErrInvalidDevice, got %v", tt.name, err)
		}
	}
}

func TestFormatSystemPayloadExactJSON(t *testing.T) {
	event := SystemEvent{
		Timestamp: time.Date(2026, 2, 3, 10, 30, 45, 0, time.UTC),
		Event:     "SHUTDOWN",
		Reason:    "SIGTERM",
	}

	payload, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := `{"system":{"timestamp":"2026-02-03T10:30:45Z","event":"SHUTDOWN","reason":"SIGTERM"}}`
	if string(payload) != expected {
		t.Errorf("unexpected payload:\ngot:  %s\nwant: %s", string(payload), expected)
	}
}

func TestFormatSystemPayloadOmitsEmpty(t *testing.T) {
	payload, err := FormatSystemPayload(SystemEvent{Event: "OFFLINE"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(payload) != offlinePayload {
		t.Errorf("unexpected payload:\ngot:  %s\nwant: %s", payload, offlinePayload)
	}

	var parsed map[string]map[string]interface{}
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if _, exists := parsed["system"]["reason"]; exists {
		t.Error("reason field should be omitted when empty")
	}
}

func TestFormatSystemPayloadRaw(t *testing.T) {
	raw := []byte(`{"status":{"event":"STARTUP"}}`)
	payload, err := FormatSystemPayload(SystemEvent{Event: "STARTUP", RawPayload: raw})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(payload) != string(raw) {
		t.Errorf("expected raw payload passthrough, got %s", payload)
	}
}

func TestFakePublisher(t *testing.T) {
	f := NewFakePublisher()

	if err := f.Publish("sensor/p1", []byte("0")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(f.Messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(f.Messages))
	}
	if f.Messages[0].Topic != "sensor/p1" || string(f.Messages[0].Payload) != "0" {
		t.Errorf("unexpected message: %+v", f.Messages[0])
	}
}

func TestFakePublisherError(t *testing.T) {
	f := NewFakePublisher()
	f.PublishError = errors.New("simulated error")

	if err := f.Publish("sensor/p1", []byte("0")); err == nil {
		t.Error("expected error")
	}
	if len(f.Messages) != 0 {
		t.Errorf("expected no messages recorded on error, got %d", len(f.Messages))
	}
}

func TestFakePublisherPublishSystem(t *testing.T) {
	f := NewFakePublisher()

	err := f.PublishSystem(SystemEvent{Timestamp: time.Now(), Event: "SHUTDOWN", Reason: "SIGTERM"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.SystemEvents) != 1 {
		t.Fatalf("expected 1 system event, got %d", len(f.SystemEvents))
	}
	if f.SystemEvents[0].Reason != "SIGTERM" {
		t.Errorf("unexpected reason: %s", f.SystemEvents[0].Reason)
	}
	if len(f.SystemPayloads) != 1 {
		t.Fatalf("expected 1 system payload, got %d", len(f.SystemPayloads))
	}
}

func TestFakePublisherReset(t *testing.T) {
	f := NewFakePublisher()

	f.Publish("sensor/p1", []byte("0"))
	f.PublishSystem(SystemEvent{Event: "SHUTDOWN"})
	f.Close()
	f.Connected = true
	f.PublishError = errors.New("error")

	f.Reset()

	if len(f.Messages) != 0 || len(f.SystemEvents) != 0 || len(f.SystemPayloads) != 0 {
		t.Error("recorded messages should be cleared")
	}
	if f.Closed || f.Connected {
		t.Error("flags should be reset")
	}
	if f.PublishError != nil {
		t.Error("error should be cleared")
	}
}
