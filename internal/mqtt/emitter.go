package mqtt

import (
	"log"

	"github.com/sweeney/pir-sensor/internal/logic"
)

// Emitter turns transition events into addressed messages and hands them to
// a Publisher. Delivery is best effort: one attempt, no retry, no waiting.
type Emitter struct {
	device string
	pub    Publisher
}

// NewEmitter creates an Emitter publishing under the given device name.
func NewEmitter(device string, pub Publisher) *Emitter {
	return &Emitter{device: device, pub: pub}
}

// Emit publishes events in order and returns how many were dropped.
func (e *Emitter) Emit(events []logic.Event) (dropped int) {
	for _, ev := range events {
		topic := Topic(e.device, ev)
		log.Printf("event: %s %s", topic, ev.Level)
		if err := e.pub.Publish(topic, FormatPayload(ev.Level)); err != nil {
			log.Printf("publish %s: %v", topic, err)
			dropped++
		}
	}
	return dropped
}
