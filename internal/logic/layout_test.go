package logic

import (
	"errors"
	"testing"
)

func TestLayoutValidate(t *testing.T) {
	tests := []struct {
		name    string
		layout  Layout
		wantErr bool
	}{
		{"pairs", Layout{Pins: 4, GroupSize: 2}, false},
		{"single group", Layout{Pins: 3, GroupSize: 3}, false},
		{"one per group", Layout{Pins: 2, GroupSize: 1}, false},
		{"uneven", Layout{Pins: 5, GroupSize: 2}, true},
		{"no pins", Layout{Pins: 0, GroupSize: 2}, true},
		{"zero group size", Layout{Pins: 4, GroupSize: 0}, true},
		{"negative group size", Layout{Pins: 4, GroupSize: -2}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.layout.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if !errors.Is(err, ErrInvalidLayout) {
					t.Errorf("expected ErrInvalidLayout, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestLayoutMembers(t *testing.T) {
	l := Layout{Pins: 6, GroupSize: 2}
	if l.Groups() != 3 {
		t.Fatalf("expected 3 groups, got %d", l.Groups())
	}

	want := [][2]int{{0, 2}, {2, 4}, {4, 6}}
	for g, w := range want {
		first, end := l.Members(g)
		if first != w[0] || end != w[1] {
			t.Errorf("group %d: got [%d,%d), want [%d,%d)", g, first, end, w[0], w[1])
		}
	}
}

func TestLayoutGroupsInvalid(t *testing.T) {
	if n := (Layout{Pins: 4}).Groups(); n != 0 {
		t.Errorf("expected 0 groups for zero group size, got %d", n)
	}
}
