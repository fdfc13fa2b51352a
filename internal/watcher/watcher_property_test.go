//go:build property

package watcher

import (
	"fmt"
	"sort"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestCoalesceProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(9876)
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	toEvents := func(ids []int) []ChangeEvent {
		events := make([]ChangeEvent, len(ids))
		for i, id := range ids {
			events[i] = ChangeEvent{Path: fmt.Sprintf("f%d.json", id%5), Size: int64(i)}
		}
		return events
	}

	properties.Property("one event per path, sorted", prop.ForAll(
		func(ids []int) bool {
			out := Coalesce(toEvents(ids))
			seen := map[string]bool{}
			for _, ev := range out {
				if seen[ev.Path] {
					return false
				}
				seen[ev.Path] = true
			}
			return sort.SliceIsSorted(out, func(i, j int) bool { return out[i].Path < out[j].Path })
		},
		gen.SliceOf(gen.IntRange(0, 100)),
	))

	properties.Property("the last event per path wins", prop.ForAll(
		func(ids []int) bool {
			events := toEvents(ids)
			last := map[string]int64{}
			for _, ev := range events {
				last[ev.Path] = ev.Size
			}
			out := Coalesce(events)
			if len(out) != len(last) {
				return false
			}
			for _, ev := range out {
				if last[ev.Path] != ev.Size {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 100)),
	))

	properties.TestingRun(t)
}
