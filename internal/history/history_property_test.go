//go:build property

package history

import (
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestHistoryProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(1234)
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("undo n times then redo n times restores the latest state", prop.ForAll(
		func(values []int) bool {
			s := New(-1)
			for _, v := range values {
				s = s.Set(v, len(values)+1)
				if s.CanRedo() {
					return false
				}
			}
			latest := s.Present

			for range values {
				s = s.Undo()
			}
			if s.CanUndo() || s.Present != -1 {
				return false
			}
			for range values {
				s = s.Redo()
			}
			return s.Present == latest && !s.CanRedo()
		},
		gen.SliceOf(gen.Int()),
	))

	properties.Property("undo then redo is identity", prop.ForAll(
		func(values []int) bool {
			s := New(0)
			for _, v := range values {
				s = s.Set(v, DefaultMaxHistory)
			}
			if !s.CanUndo() {
				return true
			}
			return reflect.DeepEqual(s.Undo().Redo(), s)
		},
		gen.SliceOfN(10, gen.IntRange(-100, 100)),
	))

	properties.Property("past never exceeds the bound", prop.ForAll(
		func(values []int, bound int) bool {
			s := New(0)
			for _, v := range values {
				s = s.Set(v, bound)
				if len(s.Past) > bound {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Int()),
		gen.IntRange(1, 20),
	))

	properties.Property("discarded states cannot be reached by undo", prop.ForAll(
		func(count int, bound int) bool {
			s := New(0)
			for i := 1; i <= count; i++ {
				s = s.Set(i, bound)
			}
			for s.CanUndo() {
				s = s.Undo()
			}
			oldest := 0
			if count > bound {
				oldest = count - bound
			}
			return s.Present == oldest
		},
		gen.IntRange(0, 120),
		gen.IntRange(1, 60),
	))

	properties.TestingRun(t)
}
