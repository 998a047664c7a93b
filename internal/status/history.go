package status

import "github.com/sweeney/pir-sensor/internal/logic"

// DefaultHistory is the number of recent transitions kept for the status page.
const DefaultHistory = 32

// history is a fixed-capacity FIFO of recent transitions; the oldest entry is
// overwritten when full. Not safe for concurrent use; caller must synchronize.
type history struct {
	buf      []logic.Event
	capacity int
	head     int // next write position
	count    int
}

func newHistory(capacity int) *history {
	if capacity <= 0 {
		capacity = DefaultHistory
	}
	return &history{
		buf:      make([]logic.Event, capacity),
		capacity: capacity,
	}
}

func (h *history) push(e logic.Event) {
	h.buf[h.head] = e
	h.head = (h.head + 1) % h.capacity
	if h.count < h.capacity {
		h.count++
	}
}

// list returns the retained transitions, oldest first.
func (h *history) list() []logic.Event {
	if h.count == 0 {
		return nil
	}

	result := make([]logic.Event, h.count)
	// Oldest item is at (head - count) mod capacity
	start := (h.head - h.count + h.capacity) % h.capacity
	for i := 0; i < h.count; i++ {
		result[i] = h.buf[(start+i)%h.capacity]
	}
	return result
}

func (h *history) len() int {
	return h.count
}
