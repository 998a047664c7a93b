// Command pir-sensor samples PIR motion sensors on GPIO inputs and publishes
// pin and group state changes to MQTT.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sweeney/pir-sensor/internal/gpio"
	"github.com/sweeney/pir-sensor/internal/logic"
	"github.com/sweeney/pir-sensor/internal/mqtt"
	"github.com/sweeney/pir-sensor/internal/status"
	"github.com/sweeney/pir-sensor/internal/web"
)

// Config is the daemon configuration. Everything is fixed at startup.
type Config struct {
	Pins         []int
	GroupSize    int
	Device       string
	Hold         time.Duration
	Pulse        time.Duration
	Poll         time.Duration
	Heartbeat    time.Duration
	Broker       string
	HTTPAddr     string
	LED          int
	LEDActiveLow bool
	Backend      string
	Chip         string
	PrintState   bool
}

func main() {
	cfg := &Config{}
	if err := newRootCmd(cfg).Execute(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func newRootCmd(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "pir-sensor",
		Short:         "Publish debounced PIR sensor transitions to MQTT",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(*cobra.Command, []string) error {
			return run(*cfg)
		},
	}

	f := cmd.Flags()
	f.IntSliceVar(&cfg.Pins, "pins", gpio.DefaultPins, "BCM pin numbers of the sensor inputs, in report order")
	f.IntVar(&cfg.GroupSize, "group-size", 2, "Number of consecutive pins per group")
	f.StringVar(&cfg.Device, "device", mqtt.DefaultDevice, "Device name used as the topic prefix")
	f.DurationVar(&cfg.Hold, "hold", 5*time.Second, "Time an input must stay active after its last inactive sample")
	f.DurationVar(&cfg.Pulse, "pulse", 10*time.Millisecond, "Activity LED pulse length")
	f.DurationVar(&cfg.Poll, "poll", 10*time.Millisecond, "GPIO polling interval")
	f.DurationVar(&cfg.Heartbeat, "heartbeat", 15*time.Minute, "Heartbeat interval (0 to disable)")
	f.StringVar(&cfg.Broker, "broker", "tcp://10.81.95.165:1883", "MQTT broker address")
	f.StringVar(&cfg.HTTPAddr, "http", ":80", "HTTP status address (empty to disable)")
	f.IntVar(&cfg.LED, "led", -1, "BCM pin number of the activity LED (-1 to disable)")
	f.BoolVar(&cfg.LEDActiveLow, "led-active-low", true, "Drive the LED pin low to light it")
	f.StringVar(&cfg.Backend, "gpio-backend", string(gpio.BackendCdev), `GPIO access method ("cdev" or "rpio")`)
	f.StringVar(&cfg.Chip, "chip", gpio.DefaultChip, "GPIO chip for the cdev backend")
	f.BoolVar(&cfg.PrintState, "print-state", false, "Print current input levels and exit")

	return cmd
}

// Layout returns the pin partition described by cfg.
func (c Config) Layout() logic.Layout {
	return logic.Layout{Pins: len(c.Pins), GroupSize: c.GroupSize}
}

// Validate rejects configurations the sampling loop cannot run with.
func (c Config) Validate() error {
	if err := c.Layout().Validate(); err != nil {
		return err
	}
	if err := mqtt.ValidateDevice(c.Device); err != nil {
		return err
	}
	if _, err := gpio.ParseBackend(c.Backend); err != nil {
		return err
	}
	if c.Poll <= 0 {
		return fmt.Errorf("poll interval must be positive, got %v", c.Poll)
	}
	if c.Hold < 0 || c.Pulse < 0 {
		return fmt.Errorf("hold and pulse must not be negative (hold=%v pulse=%v)", c.Hold, c.Pulse)
	}
	seen := make(map[int]bool, len(c.Pins))
	for _, p := range c.Pins {
		if seen[p] {
			return fmt.Errorf("pin %d listed twice", p)
		}
		if p == c.LED {
			return fmt.Errorf("pin %d is both an input and the LED", p)
		}
		seen[p] = true
	}
	return nil
}

func run(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	backend, _ := gpio.ParseBackend(cfg.Backend)

	// Initialize GPIO
	gpioReader, err := gpio.NewReader(backend, cfg.Chip, cfg.Pins)
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer gpioReader.Close()

	// Print state mode
	if cfg.PrintState {
		raw, err := gpioReader.Read()
		if err != nil {
			return fmt.Errorf("read gpio: %w", err)
		}
		for i, high := range raw {
			l := logic.LevelFromRaw(high)
			fmt.Printf("p%d (line %d): %s %s\n", i+1, cfg.Pins[i], l, activeString(l))
		}
		return nil
	}

	var led gpio.Output
	if cfg.LED >= 0 {
		led, err = gpio.NewOutput(backend, cfg.Chip, cfg.LED, cfg.LEDActiveLow)
		if err != nil {
			return fmt.Errorf("init led: %w", err)
		}
		defer led.Close()
	}

	// Initialize MQTT
	publisher := mqtt.NewRealPublisher(cfg.Broker, cfg.Device, clientID(cfg.Device))
	defer publisher.Close()

	// Initialize status tracker (before STARTUP so snapshot is available)
	tracker := status.NewTracker(time.Now(), statusConfig(cfg))
	if net := readNetworkInfo(); net != nil {
		tracker.SetNetwork(net)
	}

	// Start HTTP status server
	if cfg.HTTPAddr != "" {
		srv := web.New(cfg.HTTPAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", cfg.HTTPAddr)
	}

	log.Printf("started: device=%s pins=%v group-size=%d hold=%v pulse=%v poll=%v broker=%s heartbeat=%v",
		cfg.Device, cfg.Pins, cfg.GroupSize, cfg.Hold, cfg.Pulse, cfg.Poll, cfg.Broker, cfg.Heartbeat)

	ticker := time.NewTicker(cfg.Poll)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(cfg, gpioReader, led, publisher, publisher, tracker, time.Now, ticker.C, sigCh)
}

func runLoop(cfg Config, gpioReader gpio.Reader, led gpio.Output, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	startTime := now()
	detector, err := logic.NewDetector(cfg.Layout(), cfg.Hold, startTime)
	if err != nil {
		return fmt.Errorf("init detector: %w", err)
	}
	indicator := logic.NewIndicator(cfg.Pulse)
	emitter := mqtt.NewEmitter(cfg.Device, publisher)
	levels := make([]logic.Level, len(cfg.Pins))

	publishStatus(publisher, mqttStatus, tracker, mqtt.SystemEvent{
		Timestamp: startTime,
		Event:     "STARTUP",
		Retained:  true,
	})

	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			publishStatus(publisher, mqttStatus, tracker, mqtt.SystemEvent{
				Timestamp: now(),
				Event:     "SHUTDOWN",
				Reason:    signalName,
				Retained:  true,
			})
			return nil

		case <-tick:
			t := now()
			raw, err := gpioReader.Read()
			if err != nil {
				log.Printf("gpio read error: %v", err)
				tracker.ReadFailed()
				continue
			}
			if len(raw) != len(levels) {
				levels = make([]logic.Level, len(raw))
			}
			for i, high := range raw {
				levels[i] = logic.LevelFromRaw(high)
			}

			cycle, err := detector.Process(logic.Input{Raw: levels, Time: t})
			if err != nil {
				log.Printf("process sample: %v", err)
				tracker.ReadFailed()
				continue
			}

			tracker.Dropped(emitter.Emit(cycle.Events))
			tracker.Record(cycle.Events)

			if lit, toggled := indicator.Update(cycle.AnyChanged, t); toggled && led != nil {
				if err := led.Set(lit); err != nil {
					log.Printf("led error: %v", err)
				}
			}

			tracker.Update(detector.PinLevels(), detector.GroupLevels(), indicator.State(), detector.EventCountsSnapshot())
			if mqttStatus != nil {
				tracker.SetMQTTConnected(mqttStatus.IsConnected())
			}

			// Check for heartbeat
			if hbData := detector.CheckHeartbeat(t, cfg.Heartbeat); hbData != nil {
				log.Printf("heartbeat: uptime=%v pin_active=%d pin_inactive=%d group_active=%d group_inactive=%d",
					hbData.Uptime, hbData.Counts.PinActive, hbData.Counts.PinInactive, hbData.Counts.GroupActive, hbData.Counts.GroupInactive)

				// Refresh network info for heartbeat
				if net := readNetworkInfo(); net != nil {
					tracker.SetNetwork(net)
				}
				publishStatus(publisher, mqttStatus, tracker, mqtt.SystemEvent{
					Timestamp: hbData.Timestamp,
					Event:     "HEARTBEAT",
				})
			}
		}
	}
}

// publishStatus attaches a full status snapshot to event and publishes it.
func publishStatus(publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, event mqtt.SystemEvent) {
	if mqttStatus != nil {
		tracker.SetMQTTConnected(mqttStatus.IsConnected())
	}
	event.RawPayload = status.FormatStatusEvent(tracker.Snapshot(), event.Event, event.Reason)
	if err := publisher.PublishSystem(event); err != nil {
		log.Printf("failed to publish %s event: %v", event.Event, err)
		return
	}
	log.Printf("published %s event", event.Event)
}

func statusConfig(cfg Config) status.Config {
	return status.Config{
		Device:      cfg.Device,
		Pins:        cfg.Pins,
		GroupSize:   cfg.GroupSize,
		PollMs:      cfg.Poll.Milliseconds(),
		HoldMs:      cfg.Hold.Milliseconds(),
		PulseMs:     cfg.Pulse.Milliseconds(),
		HeartbeatMs: cfg.Heartbeat.Milliseconds(),
		Broker:      cfg.Broker,
		HTTPAddr:    cfg.HTTPAddr,
		GPIOBackend: cfg.Backend,
	}
}

// clientID makes the MQTT client ID unique per host, e.g. "sensor-pi4".
func clientID(device string) string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		return device
	}
	return device + "-" + host
}

// pi-helper env var names (written to /run/pi-helper.env).
const (
	envNetworkType       = "NETWORK_TYPE"
	envNetworkIP         = "NETWORK_IP"
	envNetworkStatus     = "NETWORK_STATUS"
	envNetworkGateway    = "NETWORK_GATEWAY"
	envNetworkWifiStatus = "NETWORK_WIFI_STATUS"
	envNetworkWifiSSID   = "NETWORK_WIFI_SSID"
)

func readNetworkInfo() *status.NetworkInfo {
	s := os.Getenv(envNetworkStatus)
	if s == "" {
		return nil
	}
	return &status.NetworkInfo{
		Type:       os.Getenv(envNetworkType),
		IP:         os.Getenv(envNetworkIP),
		Status:     s,
		Gateway:    os.Getenv(envNetworkGateway),
		WifiStatus: os.Getenv(envNetworkWifiStatus),
		SSID:       os.Getenv(envNetworkWifiSSID),
	}
}

func activeString(l logic.Level) string {
	if l.Active() {
		return "active"
	}
	return "inactive"
}
