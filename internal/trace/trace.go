// Package trace records what override dispatch did and in what order.
//
// Every Resolve call gets a token and stamps its events with monotonic
// sequence numbers from a logical clock, so a trace totally orders
// discovery, selection, declines, and the final outcome. Traces are purely
// observational: recording never changes dispatch behavior, and the nop
// recorder makes the cost of the facility zero on the fast path.
//
// Canonical JSON serialization (MarshalCanonical) gives traces a stable
// byte form for golden-file comparison.
package trace

import "sync"

// EventKind identifies a dispatch trace event.
type EventKind string

const (
	// KindCandidate records discovery of an override-capable operand.
	KindCandidate EventKind = "candidate"

	// KindNormalized records construction of the normalized call.
	KindNormalized EventKind = "normalized"

	// KindSelected records that a candidate won a selection round.
	KindSelected EventKind = "selected"

	// KindDeclined records a cooperative decline from a candidate.
	KindDeclined EventKind = "declined"

	// KindAccepted records the final, non-declining override result.
	KindAccepted EventKind = "accepted"

	// KindFailed records an error from hook lookup or invocation.
	KindFailed EventKind = "failed"

	// KindExhausted records that every candidate declined.
	KindExhausted EventKind = "exhausted"
)

// Event is one step of one dispatch call.
type Event struct {
	// Seq is the logical clock stamp. Strictly increasing per recorder.
	Seq int64 `json:"seq"`

	// Token correlates all events of a single Resolve call.
	Token string `json:"token"`

	// Kind is the event kind.
	Kind EventKind `json:"kind"`

	// UFunc is the display name of the operation being dispatched.
	UFunc string `json:"ufunc"`

	// Method is the ufunc method name ("__call__", "reduce", ...).
	Method string `json:"method"`

	// Position is the operand's index in the original argument list.
	// -1 when the event is not about a specific operand.
	Position int `json:"position"`

	// Class is the operand's class name. Empty when not operand-specific.
	Class string `json:"class,omitempty"`

	// Detail carries event-specific text (error messages, out shapes).
	Detail string `json:"detail,omitempty"`
}

// Recorder receives dispatch events.
//
// Implementations must be safe for use from the goroutine running Resolve;
// the dispatcher itself is synchronous and never records concurrently
// within one call.
type Recorder interface {
	Record(ev Event)
}

// Nop discards all events. The default recorder.
type Nop struct{}

// Record implements Recorder.
func (Nop) Record(Event) {}

// Memory retains events in arrival order.
//
// Thread-safety: safe for concurrent use; the harness and tests read
// events back after dispatch completes.
type Memory struct {
	mu     sync.Mutex
	events []Event
}

// NewMemory creates an empty in-memory recorder.
func NewMemory() *Memory {
	return &Memory{}
}

// Record implements Recorder.
func (m *Memory) Record(ev Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, ev)
}

// Events returns a copy of all recorded events in order.
func (m *Memory) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out
}

// Reset discards recorded events.
func (m *Memory) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = nil
}
