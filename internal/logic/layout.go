package logic

import (
	"errors"
	"fmt"
)

// ErrInvalidLayout is returned when pins cannot be partitioned into groups.
var ErrInvalidLayout = errors.New("invalid pin layout")

// Layout is the fixed pin-to-group partition. Group g owns pins
// [g*GroupSize, (g+1)*GroupSize).
type Layout struct {
	Pins      int
	GroupSize int
}

// Validate checks that the groups evenly cover the pin set.
func (l Layout) Validate() error {
	if l.Pins <= 0 {
		return fmt.Errorf("%w: pin count %d", ErrInvalidLayout, l.Pins)
	}
	if l.GroupSize <= 0 {
		return fmt.Errorf("%w: group size %d", ErrInvalidLayout, l.GroupSize)
	}
	if l.Pins%l.GroupSize != 0 {
		return fmt.Errorf("%w: %d pins do not divide into groups of %d", ErrInvalidLayout, l.Pins, l.GroupSize)
	}
	return nil
}

// Groups returns the number of groups.
func (l Layout) Groups() int {
	if l.GroupSize <= 0 {
		return 0
	}
	return l.Pins / l.GroupSize
}

// Members returns the half-open pin range owned by group g.
func (l Layout) Members(g int) (first, end int) {
	first = g * l.GroupSize
	return first, first + l.GroupSize
}
