package engine

import (
	"github.com/daryltucker/relevance-tuner/internal/config"
	"github.com/daryltucker/relevance-tuner/internal/model"
)

// Grid is the cartesian product of candidate knob values.
type Grid struct {
	axes []config.Axis
}

// NewGrid builds a grid from axes listed outermost first.
func NewGrid(axes []config.Axis) Grid {
	return Grid{axes: axes}
}

// Names returns the axis names in enumeration order.
func (g Grid) Names() []string {
	names := make([]string, len(g.axes))
	for i, a := range g.axes {
		names[i] = a.Name
	}
	return names
}

// Size returns the number of cells.
func (g Grid) Size() int {
	if len(g.axes) == 0 {
		return 0
	}
	n := 1
	for _, a := range g.axes {
		n *= len(a.Values)
	}
	return n
}

// Cells enumerates every parameter set. The first axis varies slowest and
// the last axis fastest, exactly like nested loops written in axis order.
// Best-result ties go to the earliest cell in this order.
func (g Grid) Cells() []model.ParameterSet {
	size := g.Size()
	if size == 0 {
		return nil
	}

	cells := make([]model.ParameterSet, 0, size)
	pos := make([]int, len(g.axes))
	for {
		ps := make(model.ParameterSet, len(g.axes))
		for i, a := range g.axes {
			ps[i] = model.Param{Name: a.Name, Value: a.Values[pos[i]]}
		}
		cells = append(cells, ps)

		// Odometer increment from the innermost axis.
		i := len(pos) - 1
		for ; i >= 0; i-- {
			pos[i]++
			if pos[i] < len(g.axes[i].Values) {
				break
			}
			pos[i] = 0
		}
		if i < 0 {
			return cells
		}
	}
}
