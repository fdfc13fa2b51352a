// Package history implements a bounded undo/redo history over any state
// type.
//
// State is an immutable triple of past, present and future. Transitions are
// pure functions returning a new triple; Manager serialises them for callers
// that share one history.
package history

import "sync"

// DefaultMaxHistory bounds the number of undo steps kept.
const DefaultMaxHistory = 50

// State is one immutable snapshot of the history. Past is ordered oldest
// first; Future is ordered next-redo first.
type State[T any] struct {
	Past    []T
	Present T
	Future  []T
}

// New returns a history with present as its only state.
func New[T any](present T) State[T] {
	return State[T]{Present: present}
}

// CanUndo reports whether Undo would change the state.
func (s State[T]) CanUndo() bool { return len(s.Past) > 0 }

// CanRedo reports whether Redo would change the state.
func (s State[T]) CanRedo() bool { return len(s.Future) > 0 }

// Set commits next as the new present. The old present joins the past, the
// oldest entries beyond maxHistory are dropped and the future is cleared.
// A non-positive maxHistory uses DefaultMaxHistory.
func (s State[T]) Set(next T, maxHistory int) State[T] {
	if maxHistory <= 0 {
		maxHistory = DefaultMaxHistory
	}
	past := make([]T, 0, min(len(s.Past)+1, maxHistory))
	past = append(past, s.Past...)
	past = append(past, s.Present)
	if len(past) > maxHistory {
		past = past[len(past)-maxHistory:]
	}
	return State[T]{Past: past, Present: next}
}

// Update is Set with the next state computed from the present.
func (s State[T]) Update(updater func(T) T, maxHistory int) State[T] {
	return s.Set(updater(s.Present), maxHistory)
}

// Undo moves the latest past state into the present. It is a no-op when
// there is nothing to undo.
func (s State[T]) Undo() State[T] {
	if !s.CanUndo() {
		return s
	}
	n := len(s.Past)
	future := make([]T, 0, len(s.Future)+1)
	future = append(future, s.Present)
	future = append(future, s.Future...)
	return State[T]{
		Past:    append([]T(nil), s.Past[:n-1]...),
		Present: s.Past[n-1],
		Future:  future,
	}
}

// Redo moves the next future state into the present. It is a no-op when
// there is nothing to redo.
func (s State[T]) Redo() State[T] {
	if !s.CanRedo() {
		return s
	}
	past := make([]T, 0, len(s.Past)+1)
	past = append(past, s.Past...)
	past = append(past, s.Present)
	return State[T]{
		Past:    past,
		Present: s.Future[0],
		Future:  append([]T(nil), s.Future[1:]...),
	}
}

// Replace overwrites the present without recording it.
func (s State[T]) Replace(present T) State[T] {
	return State[T]{Past: s.Past, Present: present, Future: s.Future}
}

// Reset clears both stacks and keeps the present.
func (s State[T]) Reset() State[T] {
	return State[T]{Present: s.Present}
}

// Manager applies transitions atomically to a shared State.
type Manager[T any] struct {
	mu         sync.RWMutex
	state      State[T]
	maxHistory int
	onChange   func(State[T])
}

// Option configures a Manager.
type Option[T any] func(*Manager[T])

// WithMaxHistory bounds the number of undo steps.
func WithMaxHistory[T any](n int) Option[T] {
	return func(m *Manager[T]) {
		if n > 0 {
			m.maxHistory = n
		}
	}
}

// WithOnChange registers a callback invoked after every transition that
// changed the state. It runs outside the lock.
func WithOnChange[T any](fn func(State[T])) Option[T] {
	return func(m *Manager[T]) {
		m.onChange = fn
	}
}

// NewManager creates a manager whose present is initial.
func NewManager[T any](initial T, opts ...Option[T]) *Manager[T] {
	m := &Manager[T]{state: New(initial), maxHistory: DefaultMaxHistory}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// MaxHistory returns the configured bound.
func (m *Manager[T]) MaxHistory() int {
	return m.maxHistory
}

// Snapshot returns the current triple.
func (m *Manager[T]) Snapshot() State[T] {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Present returns the current state.
func (m *Manager[T]) Present() T {
	return m.Snapshot().Present
}

// CanUndo reports whether there is a past state.
func (m *Manager[T]) CanUndo() bool {
	return m.Snapshot().CanUndo()
}

// CanRedo reports whether there is a future state.
func (m *Manager[T]) CanRedo() bool {
	return m.Snapshot().CanRedo()
}

// SetState commits the result of updater applied to the present.
func (m *Manager[T]) SetState(updater func(T) T) T {
	return m.apply(true, func(s State[T]) State[T] {
		return s.Update(updater, m.maxHistory)
	})
}

// Undo steps back. It reports whether anything changed.
func (m *Manager[T]) Undo() bool {
	changed := false
	m.apply(false, func(s State[T]) State[T] {
		changed = s.CanUndo()
		return s.Undo()
	})
	if changed {
		m.notify()
	}
	return changed
}

// Redo steps forward. It reports whether anything changed.
func (m *Manager[T]) Redo() bool {
	changed := false
	m.apply(false, func(s State[T]) State[T] {
		changed = s.CanRedo()
		return s.Redo()
	})
	if changed {
		m.notify()
	}
	return changed
}

// ReplaceState overwrites the present without making it undoable.
func (m *Manager[T]) ReplaceState(present T) {
	m.apply(true, func(s State[T]) State[T] {
		return s.Replace(present)
	})
}

// ResetHistory clears both stacks, keeping the present.
func (m *Manager[T]) ResetHistory() {
	m.apply(true, func(s State[T]) State[T] {
		return s.Reset()
	})
}

func (m *Manager[T]) apply(notify bool, transition func(State[T]) State[T]) T {
	m.mu.Lock()
	m.state = transition(m.state)
	present := m.state.Present
	m.mu.Unlock()

	if notify {
		m.notify()
	}
	return present
}

func (m *Manager[T]) notify() {
	if m.onChange != nil {
		m.onChange(m.Snapshot())
	}
}
