//go:build linux

package gpio

import (
	"fmt"
	"sync"

	"github.com/stianeikeland/go-rpio/v4"
)

// go-rpio maps the GPIO registers process-wide; reader and output share it.
var (
	rpioMu   sync.Mutex
	rpioRefs int
)

func rpioOpen() error {
	rpioMu.Lock()
	defer rpioMu.Unlock()
	if rpioRefs == 0 {
		if err := rpio.Open(); err != nil {
			return fmt.Errorf("open rpio: %w", err)
		}
	}
	rpioRefs++
	return nil
}

func rpioRelease() error {
	rpioMu.Lock()
	defer rpioMu.Unlock()
	if rpioRefs == 0 {
		return nil
	}
	rpioRefs--
	if rpioRefs == 0 {
		return rpio.Close()
	}
	return nil
}

// RpioReader reads GPIO through /dev/gpiomem register access.
type RpioReader struct {
	pins []rpio.Pin
}

// NewRpioReader configures the given BCM pins as inputs with pull-ups.
func NewRpioReader(bcm []int) (*RpioReader, error) {
	if err := rpioOpen(); err != nil {
		return nil, err
	}

	pins := make([]rpio.Pin, len(bcm))
	for i, n := range bcm {
		p := rpio.Pin(n)
		p.Input()
		p.PullUp()
		pins[i] = p
	}
	return &RpioReader{pins: pins}, nil
}

// Read returns the raw levels of all configured pins.
func (r *RpioReader) Read() ([]bool, error) {
	out := make([]bool, len(r.pins))
	for i, p := range r.pins {
		out[i] = p.Read() == rpio.High
	}
	return out, nil
}

// Close releases the register mapping once nothing else uses it.
func (r *RpioReader) Close() error {
	return rpioRelease()
}

// RpioOutput drives an indicator LED through register access.
type RpioOutput struct {
	pin       rpio.Pin
	activeLow bool
}

// NewRpioOutput configures pin as an output, initially cleared.
func NewRpioOutput(bcm int, activeLow bool) (*RpioOutput, error) {
	if err := rpioOpen(); err != nil {
		return nil, err
	}

	o := &RpioOutput{pin: rpio.Pin(bcm), activeLow: activeLow}
	o.pin.Output()
	o.write(false)
	return o, nil
}

// Set lights or clears the LED.
func (o *RpioOutput) Set(on bool) error {
	o.write(on)
	return nil
}

func (o *RpioOutput) write(on bool) {
	if on != o.activeLow {
		o.pin.Write(rpio.High)
	} else {
		o.pin.Write(rpio.Low)
	}
}

// Close clears the LED and releases the register mapping.
func (o *RpioOutput) Close() error {
	o.write(false)
	return rpioRelease()
}
