//go:build property

package canvas

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/conneroisu/docket/internal/geometry"
)

func TestDragProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(4242)
	parameters.MinSuccessfulTests = 300

	properties := gopter.NewProperties(parameters)
	page := geometry.A4

	properties.Property("moves are deterministic", prop.ForAll(
		func(x, y float64) bool {
			e := NewEngine(DefaultConfig(), geometry.NewViewport(geometry.Point{}, 1))
			_ = e.StartDrag("c", geometry.Point{}, geometry.Point{})
			a, _ := e.Move(geometry.Point{X: x, Y: y})
			b, _ := e.Move(geometry.Point{X: x, Y: y})
			return a == b
		},
		gen.Float64Range(-2000, 2000),
		gen.Float64Range(-2000, 2000),
	))

	properties.Property("snapped origins are grid multiples inside the clamp range", prop.ForAll(
		func(x, y float64) bool {
			e := NewEngine(DefaultConfig(), geometry.NewViewport(geometry.Point{}, 1))
			p := e.Place(geometry.Point{X: x, Y: y})
			onGrid := func(v float64) bool {
				return math.Abs(v/5-math.Round(v/5)) < 1e-9
			}
			return onGrid(p.X) && onGrid(p.Y) &&
				p.X >= 0 && p.X <= page.Width-geometry.ClampInsetX &&
				p.Y >= 0 && p.Y <= page.Height-geometry.ClampInsetY
		},
		gen.Float64Range(-500, 500),
		gen.Float64Range(-500, 500),
	))

	properties.TestingRun(t)
}
