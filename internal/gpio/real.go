//go:build linux

package gpio

import "fmt"

func openReader(backend Backend, chip string, pins []int) (Reader, error) {
	switch backend {
	case BackendCdev:
		return NewCdevReader(chip, pins)
	case BackendRpio:
		return NewRpioReader(pins)
	}
	return nil, fmt.Errorf("unknown gpio backend %q", backend)
}

func openOutput(backend Backend, chip string, pin int, activeLow bool) (Output, error) {
	switch backend {
	case BackendCdev:
		return NewCdevOutput(chip, pin, activeLow)
	case BackendRpio:
		return NewRpioOutput(pin, activeLow)
	}
	return nil, fmt.Errorf("unknown gpio backend %q", backend)
}
