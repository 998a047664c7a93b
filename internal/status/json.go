package status

import (
	"encoding/json"
	"time"

	"github.com/sweeney/pir-sensor/internal/logic"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string           `json:"event,omitempty"`
	Reason        string           `json:"reason,omitempty"`
	Device        string           `json:"device"`
	Pins          []PinJSON        `json:"pins"`
	Groups        []GroupJSON      `json:"groups"`
	Indicator     string           `json:"indicator"`
	UptimeSeconds int64            `json:"uptime_seconds"`
	StartTime     string           `json:"start_time"`
	Timestamp     string           `json:"timestamp"`
	MQTT          MQTTStatus       `json:"mqtt"`
	Counts        CountsJSON       `json:"event_counts"`
	Recent        []TransitionJSON `json:"recent,omitempty"`
	Network       *NetworkJSON     `json:"network,omitempty"`
	Config        ConfigJSON       `json:"config"`
}

// PinJSON is the debounced state of one input.
type PinJSON struct {
	Pin    int    `json:"pin"`  // 1-based, as in the topic
	Line   int    `json:"line"` // BCM offset
	Level  string `json:"level"`
	Active bool   `json:"active"`
}

// GroupJSON is the last reported state of one group.
type GroupJSON struct {
	Group  int    `json:"group"` // 1-based, as in the topic
	Pins   []int  `json:"pins"`  // 1-based members
	Level  string `json:"level"`
	Active bool   `json:"active"`
}

// TransitionJSON is one entry of the recent transition history.
type TransitionJSON struct {
	Timestamp string `json:"timestamp"`
	Source    string `json:"source"`
	Level     string `json:"level"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of event counts.
type CountsJSON struct {
	PinActive     int `json:"pin_active"`
	PinInactive   int `json:"pin_inactive"`
	GroupActive   int `json:"group_active"`
	GroupInactive int `json:"group_inactive"`
}

// NetworkJSON is the JSON representation of network info.
type NetworkJSON struct {
	Type       string `json:"type"`
	IP         string `json:"ip"`
	Status     string `json:"status"`
	Gateway    string `json:"gateway"`
	WifiStatus string `json:"wifi_status"`
	SSID       string `json:"ssid"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	Pins        []int  `json:"pins"`
	GroupSize   int    `json:"group_size"`
	PollMs      int64  `json:"poll_ms"`
	HoldMs      int64  `json:"hold_ms"`
	PulseMs     int64  `json:"pulse_ms"`
	HeartbeatMs int64  `json:"heartbeat_ms"`
	Broker      string `json:"broker"`
	HTTPAddr    string `json:"http_addr"`
	GPIOBackend string `json:"gpio_backend"`
}

func buildInner(snap Snapshot) StatusInner {
	inner := StatusInner{
		Device:        snap.Config.Device,
		Pins:          make([]PinJSON, len(snap.Pins)),
		Groups:        make([]GroupJSON, len(snap.Groups)),
		Indicator:     snap.Indicator.String(),
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			PinActive:     snap.Counts.PinActive,
			PinInactive:   snap.Counts.PinInactive,
			GroupActive:   snap.Counts.GroupActive,
			GroupInactive: snap.Counts.GroupInactive,
		},
		Config: ConfigJSON{
			Pins:        snap.Config.Pins,
			GroupSize:   snap.Config.GroupSize,
			PollMs:      snap.Config.PollMs,
			HoldMs:      snap.Config.HoldMs,
			PulseMs:     snap.Config.PulseMs,
			HeartbeatMs: snap.Config.HeartbeatMs,
			Broker:      snap.Config.Broker,
			HTTPAddr:    snap.Config.HTTPAddr,
			GPIOBackend: snap.Config.GPIOBackend,
		},
	}

	for i, l := range snap.Pins {
		line := -1
		if i < len(snap.Config.Pins) {
			line = snap.Config.Pins[i]
		}
		inner.Pins[i] = PinJSON{Pin: i + 1, Line: line, Level: l.String(), Active: l.Active()}
	}

	layout := logic.Layout{Pins: len(snap.Pins), GroupSize: snap.Config.GroupSize}
	for g, l := range snap.Groups {
		first, end := layout.Members(g)
		members := make([]int, 0, end-first)
		for p := first; p < end; p++ {
			members = append(members, p+1)
		}
		inner.Groups[g] = GroupJSON{Group: g + 1, Pins: members, Level: l.String(), Active: l.Active()}
	}

	for _, e := range snap.Recent {
		inner.Recent = append(inner.Recent, TransitionJSON{
			Timestamp: e.Timestamp.UTC().Format(time.RFC3339Nano),
			Source:    e.Source(),
			Level:     e.Level.String(),
		})
	}

	return inner
}

func buildNetwork(snap Snapshot, inner *StatusInner) {
	if snap.Network != nil {
		inner.Network = &NetworkJSON{
			Type:       snap.Network.Type,
			IP:         snap.Network.IP,
			Status:     snap.Network.Status,
			Gateway:    snap.Network.Gateway,
			WifiStatus: snap.Network.WifiStatus,
			SSID:       snap.Network.SSID,
		}
	}
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	inner := buildInner(snap)
	buildNetwork(snap, &inner)

	data, _ := json.MarshalIndent(StatusJSON{Status: inner}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
// The recent transition history is left out to keep the message small.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	snap.Recent = nil
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason
	buildNetwork(snap, &inner)

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
