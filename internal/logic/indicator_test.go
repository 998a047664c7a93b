package logic

import (
	"testing"
	"time"
)

func TestIndicatorStartsIdle(t *testing.T) {
	ind := NewIndicator(10 * time.Millisecond)
	if ind.State() != IndicatorIdle {
		t.Errorf("expected IDLE, got %s", ind.State())
	}

	lit, toggled := ind.Update(false, t0)
	if lit || toggled {
		t.Errorf("expected (false, false) with no change, got (%v, %v)", lit, toggled)
	}
}

func TestIndicatorSinglePulse(t *testing.T) {
	ind := NewIndicator(10 * time.Millisecond)

	lit, toggled := ind.Update(true, t0)
	if !lit || !toggled {
		t.Fatalf("change: expected (true, true), got (%v, %v)", lit, toggled)
	}
	if ind.State() != IndicatorPulsing {
		t.Errorf("expected PULSING, got %s", ind.State())
	}

	// Still within the pulse, including the expiry instant itself.
	for _, ms := range []int{1, 5, 10} {
		lit, toggled = ind.Update(false, t0.Add(time.Duration(ms)*time.Millisecond))
		if !lit || toggled {
			t.Errorf("t+%dms: expected (true, false), got (%v, %v)", ms, lit, toggled)
		}
	}

	lit, toggled = ind.Update(false, t0.Add(11*time.Millisecond))
	if lit || !toggled {
		t.Errorf("after expiry: expected (false, true), got (%v, %v)", lit, toggled)
	}
	if ind.State() != IndicatorIdle {
		t.Errorf("expected IDLE, got %s", ind.State())
	}

	lit, toggled = ind.Update(false, t0.Add(time.Second))
	if lit || toggled {
		t.Errorf("idle: expected (false, false), got (%v, %v)", lit, toggled)
	}
}

func TestIndicatorBurstIsOnePulse(t *testing.T) {
	ind := NewIndicator(10 * time.Millisecond)

	changes := map[int]bool{0: true, 5: true, 12: true}
	toggles := 0
	var offAt int
	for ms := 0; ms <= 30; ms++ {
		lit, toggled := ind.Update(changes[ms], t0.Add(time.Duration(ms)*time.Millisecond))
		if toggled {
			toggles++
			if !lit {
				offAt = ms
			}
		}
	}

	if toggles != 2 {
		t.Errorf("expected 2 toggles (on, off), got %d", toggles)
	}
	// Last change at 12ms re-arms expiry to 22ms; first cycle after is 23ms.
	if offAt != 23 {
		t.Errorf("expected indicator off at 23ms, got %dms", offAt)
	}
}

func TestIndicatorStateString(t *testing.T) {
	if IndicatorIdle.String() != "IDLE" || IndicatorPulsing.String() != "PULSING" {
		t.Errorf("unexpected strings: %s %s", IndicatorIdle, IndicatorPulsing)
	}
}
