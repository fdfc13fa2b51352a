package history

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func inc(n int) int { return n + 1 }

func TestSetClearsFuture(t *testing.T) {
	s := New(0).Set(1, 10).Set(2, 10).Undo()
	require.True(t, s.CanRedo())

	s = s.Set(5, 10)
	assert.False(t, s.CanRedo())
	assert.Equal(t, []int{0, 1}, s.Past)
	assert.Equal(t, 5, s.Present)
}

func TestUndoRedoOrdering(t *testing.T) {
	s := New("a").Set("b", 10).Set("c", 10).Set("d", 10)

	s = s.Undo().Undo()
	assert.Equal(t, "b", s.Present)
	assert.Equal(t, []string{"a"}, s.Past)
	assert.Equal(t, []string{"c", "d"}, s.Future)

	s = s.Redo()
	assert.Equal(t, "c", s.Present)
	assert.Equal(t, []string{"d"}, s.Future)
}

func TestUnderflowIsNoOp(t *testing.T) {
	s := New(1)
	assert.Equal(t, s, s.Undo())
	assert.Equal(t, s, s.Redo())

	s = s.Set(2, 10)
	assert.Equal(t, s, s.Redo(), "redo with empty future is idempotent")
}

func TestBound(t *testing.T) {
	s := New(0)
	for i := 1; i <= 8; i++ {
		s = s.Set(i, 3)
		assert.LessOrEqual(t, len(s.Past), 3)
	}
	assert.Equal(t, []int{5, 6, 7}, s.Past)

	for s.CanUndo() {
		s = s.Undo()
	}
	assert.Equal(t, 5, s.Present, "states older than the bound are gone")
}

func TestDefaultBound(t *testing.T) {
	s := New(0)
	for i := 1; i <= DefaultMaxHistory+10; i++ {
		s = s.Set(i, 0)
	}
	assert.Len(t, s.Past, DefaultMaxHistory)
}

func TestReplaceAndReset(t *testing.T) {
	s := New(0).Set(1, 10).Set(2, 10).Undo()

	replaced := s.Replace(99)
	assert.Equal(t, 99, replaced.Present)
	assert.Equal(t, s.Past, replaced.Past)
	assert.Equal(t, s.Future, replaced.Future)

	reset := replaced.Reset()
	assert.Equal(t, 99, reset.Present)
	assert.False(t, reset.CanUndo())
	assert.False(t, reset.CanRedo())
}

func TestTransitionsDoNotMutate(t *testing.T) {
	base := New(0).Set(1, 10).Set(2, 10)
	pastBefore := append([]int(nil), base.Past...)

	_ = base.Undo()
	_ = base.Set(3, 10)
	_ = base.Undo().Redo()

	assert.Equal(t, pastBefore, base.Past)
	assert.Equal(t, 2, base.Present)
}

func TestManager(t *testing.T) {
	var changes int
	m := NewManager(0, WithMaxHistory[int](5), WithOnChange(func(State[int]) { changes++ }))
	assert.Equal(t, 5, m.MaxHistory())

	assert.Equal(t, 1, m.SetState(inc))
	assert.Equal(t, 2, m.SetState(inc))
	assert.True(t, m.CanUndo())
	assert.False(t, m.CanRedo())

	assert.True(t, m.Undo())
	assert.Equal(t, 1, m.Present())
	assert.True(t, m.CanRedo())

	assert.True(t, m.Redo())
	assert.False(t, m.Redo())
	assert.Equal(t, 2, m.Present())

	m.ReplaceState(10)
	assert.Equal(t, 10, m.Present())
	assert.True(t, m.CanUndo(), "replace keeps the stacks")

	m.ResetHistory()
	assert.False(t, m.CanUndo())
	assert.False(t, m.Undo())
	assert.Equal(t, 10, m.Present())

	assert.Equal(t, 6, changes)
}

func TestManagerConcurrentSetState(t *testing.T) {
	m := NewManager(0, WithMaxHistory[int](1000))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.SetState(inc)
		}()
	}
	wg.Wait()

	snap := m.Snapshot()
	assert.Equal(t, 50, snap.Present)
	assert.Len(t, snap.Past, 50)
	for i, v := range snap.Past {
		assert.Equal(t, i, v, "every transition saw the previous present")
	}
}
