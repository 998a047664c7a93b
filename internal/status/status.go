// Package status provides a thread-safe status tracker for the pir-sensor daemon.
// It is written by the sampling loop and read by HTTP handlers and heartbeats.
package status

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/VictoriaMetrics/metrics"

	"github.com/sweeney/pir-sensor/internal/logic"
)

// NetworkInfo contains network state as reported by pi-helper.
type NetworkInfo struct {
	Type       string
	IP         string
	Status     string
	Gateway    string
	WifiStatus string
	SSID       string
}

// Config contains daemon configuration for display.
type Config struct {
	Device      string
	Pins        []int // BCM line offsets, in pin index order
	GroupSize   int
	PollMs      int64
	HoldMs      int64
	PulseMs     int64
	HeartbeatMs int64
	Broker      string
	HTTPAddr    string
	GPIOBackend string
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	Pins          []logic.Level
	Groups        []logic.Level
	Indicator     logic.IndicatorState
	Counts        logic.EventCounts
	Recent        []logic.Event
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Network       *NetworkInfo
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu      sync.RWMutex
	snap    Snapshot
	history *history

	metrics        *metrics.Set
	cycles         *metrics.Counter
	readErrors     *metrics.Counter
	publishDropped *metrics.Counter
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	t := &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
		history: newHistory(DefaultHistory),
		metrics: metrics.NewSet(),
	}

	t.cycles = t.metrics.NewCounter("pir_cycles_total")
	t.readErrors = t.metrics.NewCounter("pir_gpio_read_errors_total")
	t.publishDropped = t.metrics.NewCounter("pir_publish_dropped_total")
	t.metrics.NewGauge("pir_mqtt_connected", func() float64 {
		t.mu.RLock()
		defer t.mu.RUnlock()
		if t.snap.MQTTConnected {
			return 1
		}
		return 0
	})
	t.metrics.NewGauge("pir_indicator_lit", func() float64 {
		t.mu.RLock()
		defer t.mu.RUnlock()
		if t.snap.Indicator == logic.IndicatorPulsing {
			return 1
		}
		return 0
	})
	return t
}

// Update sets pin and group levels, indicator state, and event counts.
// Called from runLoop on every cycle.
func (t *Tracker) Update(pins, groups []logic.Level, indicator logic.IndicatorState, counts logic.EventCounts) {
	pins = append([]logic.Level(nil), pins...)
	groups = append([]logic.Level(nil), groups...)

	t.mu.Lock()
	t.snap.Pins = pins
	t.snap.Groups = groups
	t.snap.Indicator = indicator
	t.snap.Counts = counts
	t.mu.Unlock()

	t.cycles.Inc()
}

// Record adds emitted transitions to the recent history and metrics.
func (t *Tracker) Record(events []logic.Event) {
	if len(events) == 0 {
		return
	}

	t.mu.Lock()
	for _, e := range events {
		t.history.push(e)
	}
	t.mu.Unlock()

	for _, e := range events {
		level := "inactive"
		if e.Level.Active() {
			level = "active"
		}
		t.metrics.GetOrCreateCounter(fmt.Sprintf(`pir_transitions_total{source=%q,level=%q}`, e.Source(), level)).Inc()
	}
}

// ReadFailed counts a GPIO read error.
func (t *Tracker) ReadFailed() {
	t.readErrors.Inc()
}

// Dropped counts messages the publisher did not accept.
func (t *Tracker) Dropped(n int) {
	if n > 0 {
		t.publishDropped.Add(n)
	}
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// SetNetwork sets the network info.
func (t *Tracker) SetNetwork(info *NetworkInfo) {
	t.mu.Lock()
	t.snap.Network = info
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	s.Pins = append([]logic.Level(nil), t.snap.Pins...)
	s.Groups = append([]logic.Level(nil), t.snap.Groups...)
	s.Recent = t.history.list()
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}

// WritePrometheus writes the daemon metrics in Prometheus text format.
func (t *Tracker) WritePrometheus(w io.Writer) {
	t.metrics.WritePrometheus(w)
}
