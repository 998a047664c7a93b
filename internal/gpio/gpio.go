// Package gpio provides GPIO input reading and indicator output with hardware
// abstraction. Two Linux backends are available: the GPIO character device
// (go-gpiocdev) and memory-mapped registers (go-rpio).
// The fake implementations allow testing without hardware.
package gpio

import "fmt"

// Reader reads raw GPIO input levels.
type Reader interface {
	// Read returns one raw level per configured line, in configuration order.
	// true means the line is electrically high. No inversion or debouncing
	// is applied.
	Read() ([]bool, error)

	// Close releases GPIO resources.
	Close() error
}

// Output drives a single indicator line.
type Output interface {
	// Set lights (true) or clears (false) the indicator.
	Set(on bool) error

	// Close releases GPIO resources.
	Close() error
}

// Backend selects the GPIO access method.
type Backend string

const (
	BackendCdev Backend = "cdev"
	BackendRpio Backend = "rpio"
)

// DefaultChip is the GPIO character device used by the cdev backend.
const DefaultChip = "gpiochip0"

// DefaultPins are the BCM input lines for the four PIR sensors.
var DefaultPins = []int{5, 6, 13, 19}

// ParseBackend validates a backend name.
func ParseBackend(s string) (Backend, error) {
	switch b := Backend(s); b {
	case BackendCdev, BackendRpio:
		return b, nil
	}
	return "", fmt.Errorf("unknown gpio backend %q (want %q or %q)", s, BackendCdev, BackendRpio)
}

// NewReader opens the given input lines with pull-ups enabled.
func NewReader(backend Backend, chip string, pins []int) (Reader, error) {
	if len(pins) == 0 {
		return nil, fmt.Errorf("no input pins configured")
	}
	return openReader(backend, chip, pins)
}

// NewOutput opens pin as an indicator output, initially cleared.
// With activeLow the line is driven low to light the indicator.
func NewOutput(backend Backend, chip string, pin int, activeLow bool) (Output, error) {
	return openOutput(backend, chip, pin, activeLow)
}
