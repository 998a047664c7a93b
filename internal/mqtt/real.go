package mqtt

import (
	"fmt"
	"log"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// offlinePayload is the last will published by the broker if we drop off.
const offlinePayload = `{"system":{"event":"OFFLINE"}}`

// RealPublisher publishes to an actual MQTT broker.
type RealPublisher struct {
	client      paho.Client
	topicSystem string
}

// NewRealPublisher creates a publisher for the given broker and starts
// connecting in the background. Reconnection is handled by the client;
// messages published while disconnected are dropped.
func NewRealPublisher(broker, device, clientID string) *RealPublisher {
	topicSystem := TopicSystem(device)

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5*time.Second).
		SetMaxReconnectInterval(10*time.Second).
		SetWill(topicSystem, offlinePayload, 1, true).
		SetOnConnectHandler(func(paho.Client) {
			log.Printf("mqtt: connected to %s", broker)
		}).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			log.Printf("mqtt: connection lost: %v", err)
		}).
		SetReconnectingHandler(func(paho.Client, *paho.ClientOptions) {
			log.Printf("mqtt: reconnecting")
		})

	client := paho.NewClient(opts)
	client.Connect()

	return &RealPublisher{
		client:      client,
		topicSystem: topicSystem,
	}
}

// Publish hands the message to the client without waiting for the broker.
// QoS 0 (at-most-once), not retained.
func (p *RealPublisher) Publish(topic string, payload []byte) error {
	if !p.client.IsConnectionOpen() {
		return ErrNotConnected
	}

	token := p.client.Publish(topic, 0, false, payload)
	select {
	case <-token.Done():
		if err := token.Error(); err != nil {
			return fmt.Errorf("publish: %w", err)
		}
	default:
	}
	return nil
}

// PublishSystem sends a system lifecycle event to the MQTT broker.
// System events run between sampling cycles, so waiting here is bounded
// and does not stall a cycle.
func (p *RealPublisher) PublishSystem(event SystemEvent) error {
	if !p.client.IsConnectionOpen() {
		return ErrNotConnected
	}

	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}

	// QoS 1 (at-least-once) for lifecycle events - we want to ensure delivery
	token := p.client.Publish(p.topicSystem, 1, event.Retained, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish system timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish system: %w", err)
	}

	return nil
}

// IsConnected reports whether the broker connection is currently open.
func (p *RealPublisher) IsConnected() bool {
	return p.client.IsConnectionOpen()
}

// Close disconnects from the broker.
func (p *RealPublisher) Close() error {
	p.client.Disconnect(1000) // 1 second timeout
	return nil
}
