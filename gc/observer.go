package gc

import "log"

// EventKind distinguishes the four events an Observer can see, per
// spec.md section 4.2.
type EventKind uint8

const (
	EventStart EventKind = iota
	EventEnd
	EventAllocation
	EventDeallocation
)

func (k EventKind) String() string {
	switch k {
	case EventStart:
		return "start"
	case EventEnd:
		return "end"
	case EventAllocation:
		return "alloc"
	case EventDeallocation:
		return "dealloc"
	default:
		return "unknown"
	}
}

// Event is one notification in the stream spec.md section 6 specifies:
// Start/End bracket a collection pass, Allocation/Deallocation name the
// Handle involved.
type Event struct {
	Kind   EventKind
	Handle Handle
}

// Observer consumes the GC's event stream. Implementations are invoked
// while the GC holds its table lock (spec.md section 4.2) and so must not
// block or call back into the GC; all of the observers in this package
// satisfy that by construction.
type Observer interface {
	Event(e Event)
}

// NopObserver discards every event. It is the default when no Observer is
// supplied to New.
type NopObserver struct{}

func (NopObserver) Event(Event) {}

// LogObserver writes one line per event to a *log.Logger, the same plain
// logging idiom internal/core and internal/gocore use throughout the
// teacher tree (see SPEC_FULL.md section 7 for why no structured logging
// library is used here).
type LogObserver struct {
	Logger *log.Logger
}

func (o LogObserver) Event(e Event) {
	logger := o.Logger
	if logger == nil {
		logger = log.Default()
	}
	switch e.Kind {
	case EventStart, EventEnd:
		logger.Printf("gc: %s", e.Kind)
	default:
		logger.Printf("gc: %s handle=%#x", e.Kind, uintptr(e.Handle))
	}
}

// RecordingObserver accumulates every event it sees, in order. It exists
// for tests that need to assert on the exact event sequence spec.md
// section 4.1.2 specifies (Start; one Deallocation per freed object in
// sweep order; End), the way gocore_test.go builds disposable fixtures
// instead of reaching for a mocking framework.
type RecordingObserver struct {
	Events []Event
}

func (o *RecordingObserver) Event(e Event) {
	o.Events = append(o.Events, e)
}
