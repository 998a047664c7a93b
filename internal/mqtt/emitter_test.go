package mqtt

import (
	"errors"
	"testing"
	"time"

	"github.com/sweeney/pir-sensor/internal/logic"
)

func TestEmitterAddressesAndPayloads(t *testing.T) {
	pub := NewFakePublisher()
	e := NewEmitter("sensor", pub)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	dropped := e.Emit([]logic.Event{
		{Timestamp: now, Kind: logic.SourcePin, Index: 2, Level: logic.Low},
		{Timestamp: now, Kind: logic.SourceGroup, Index: 0, Level: logic.Low},
		{Timestamp: now, Kind: logic.SourcePin, Index: 0, Level: logic.High},
	})
	if dropped != 0 {
		t.Errorf("expected 0 dropped, got %d", dropped)
	}

	want := []Message{
		{Topic: "sensor/p3", Payload: []byte("0")},
		{Topic: "sensor/g1", Payload: []byte("0")},
		{Topic: "sensor/p1", Payload: []byte("1")},
	}
	if len(pub.Messages) != len(want) {
		t.Fatalf("expected %d messages, got %d", len(want), len(pub.Messages))
	}
	for i, w := range want {
		got := pub.Messages[i]
		if got.Topic != w.Topic || string(got.Payload) != string(w.Payload) {
			t.Errorf("message %d: got %s=%s, want %s=%s", i, got.Topic, got.Payload, w.Topic, w.Payload)
		}
	}
}

func TestEmitterDropsOnPublishError(t *testing.T) {
	pub := NewFakePublisher()
	pub.PublishError = ErrNotConnected
	e := NewEmitter("sensor", pub)

	dropped := e.Emit([]logic.Event{
		{Kind: logic.SourcePin, Index: 0, Level: logic.Low},
		{Kind: logic.SourceGroup, Index: 0, Level: logic.Low},
	})
	if dropped != 2 {
		t.Errorf("expected 2 dropped, got %d", dropped)
	}
	if len(pub.Messages) != 0 {
		t.Errorf("expected no messages, got %d", len(pub.Messages))
	}
}

func TestEmitterContinuesAfterFailure(t *testing.T) {
	pub := &flakyPublisher{FakePublisher: NewFakePublisher(), failOn: 0}
	e := NewEmitter("sensor", pub)

	dropped := e.Emit([]logic.Event{
		{Kind: logic.SourcePin, Index: 0, Level: logic.Low},
		{Kind: logic.SourcePin, Index: 1, Level: logic.Low},
	})
	if dropped != 1 {
		t.Errorf("expected 1 dropped, got %d", dropped)
	}
	if len(pub.Messages) != 1 || pub.Messages[0].Topic != "sensor/p2" {
		t.Errorf("expected second message to be published, got %+v", pub.Messages)
	}
}

func TestEmitterNoEvents(t *testing.T) {
	pub := NewFakePublisher()
	if dropped := NewEmitter("sensor", pub).Emit(nil); dropped != 0 {
		t.Errorf("expected 0 dropped, got %d", dropped)
	}
	if len(pub.Messages) != 0 {
		t.Errorf("expected no messages, got %d", len(pub.Messages))
	}
}

// flakyPublisher fails the publish call with index failOn.
type flakyPublisher struct {
	*FakePublisher
	calls  int
	failOn int
}

func (p *flakyPublisher) Publish(topic string, payload []byte) error {
	i := p.calls
	p.calls++
	if i == p.failOn {
		return errors.New("broker hiccup")
	}
	return p.FakePublisher.Publish(topic, payload)
}
