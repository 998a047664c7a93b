//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

const consumer = "pir-sensor"

// CdevReader reads GPIO from actual hardware using Linux GPIO character device.
type CdevReader struct {
	chip  *gpiocdev.Chip
	lines *gpiocdev.Lines
	vals  []int
}

// NewCdevReader requests the given offsets on chip as inputs with pull-ups.
// PIR outputs are open-collector, so an idle sensor reads high.
func NewCdevReader(chipName string, offsets []int) (*CdevReader, error) {
	chip, err := gpiocdev.NewChip(chipName, gpiocdev.WithConsumer(consumer))
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	lines, err := chip.RequestLines(offsets, gpiocdev.AsInput, gpiocdev.WithPullUp)
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request pins %v: %w", offsets, err)
	}

	return &CdevReader{
		chip:  chip,
		lines: lines,
		vals:  make([]int, len(offsets)),
	}, nil
}

// Read returns the raw levels of all requested lines.
func (r *CdevReader) Read() ([]bool, error) {
	if err := r.lines.Values(r.vals); err != nil {
		return nil, fmt.Errorf("read pins: %w", err)
	}
	out := make([]bool, len(r.vals))
	for i, v := range r.vals {
		out[i] = v != 0
	}
	return out, nil
}

// Close releases GPIO resources.
// Pull-ups are left enabled so idle sensors keep a defined level.
func (r *CdevReader) Close() error {
	var errs []error

	if r.lines != nil {
		if err := r.lines.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close pins: %w", err))
		}
	}
	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

// CdevOutput drives an indicator LED through the GPIO character device.
type CdevOutput struct {
	chip *gpiocdev.Chip
	line *gpiocdev.Line
}

// NewCdevOutput requests offset as an output, initially cleared.
func NewCdevOutput(chipName string, offset int, activeLow bool) (*CdevOutput, error) {
	chip, err := gpiocdev.NewChip(chipName, gpiocdev.WithConsumer(consumer))
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	opts := []gpiocdev.LineReqOption{gpiocdev.AsOutput(0)}
	if activeLow {
		opts = append(opts, gpiocdev.AsActiveLow)
	}
	line, err := chip.RequestLine(offset, opts...)
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request led pin %d: %w", offset, err)
	}

	return &CdevOutput{chip: chip, line: line}, nil
}

// Set lights or clears the LED. Polarity is handled by the line config.
func (o *CdevOutput) Set(on bool) error {
	v := 0
	if on {
		v = 1
	}
	if err := o.line.SetValue(v); err != nil {
		return fmt.Errorf("set led: %w", err)
	}
	return nil
}

// Close clears the LED and releases GPIO resources.
func (o *CdevOutput) Close() error {
	var errs []error

	if o.line != nil {
		if err := o.line.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("clear led: %w", err))
		}
		if err := o.line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close led pin: %w", err))
		}
	}
	if o.chip != nil {
		if err := o.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
