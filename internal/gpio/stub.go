//go:build !linux

package gpio

import "errors"

var errUnsupported = errors.New("gpio: not supported on this platform (requires Linux)")

func openReader(Backend, string, []int) (Reader, error) {
	return nil, errUnsupported
}

func openOutput(Backend, string, int, bool) (Output, error) {
	return nil, errUnsupported
}
