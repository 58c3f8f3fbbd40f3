package engine

import (
	"testing"

	"github.com/daryltucker/relevance-tuner/internal/config"
	"github.com/daryltucker/relevance-tuner/internal/model"
)

func TestGrid_CellsOrder(t *testing.T) {
	g := NewGrid([]config.Axis{
		{Name: "w_title", Values: []float64{1, 5}},
		{Name: "k1", Values: []float64{1.2, 2}},
		{Name: "b", Values: []float64{0.4, 0.75, 1}},
	})

	if g.Size() != 12 {
		t.Fatalf("Size() = %d, want 12", g.Size())
	}

	cells := g.Cells()
	if len(cells) != 12 {
		t.Fatalf("len(Cells()) = %d, want 12", len(cells))
	}

	// Nested loops: w_title outermost, b innermost.
	i := 0
	for _, w := range []float64{1, 5} {
		for _, k1 := range []float64{1.2, 2} {
			for _, b := range []float64{0.4, 0.75, 1} {
				want := model.ParameterSet{{Name: "w_title", Value: w}, {Name: "k1", Value: k1}, {Name: "b", Value: b}}
				if cells[i].String() != want.String() {
					t.Errorf("cell %d = %s, want %s", i, cells[i], want)
				}
				i++
			}
		}
	}

	names := g.Names()
	if len(names) != 3 || names[0] != "w_title" || names[2] != "b" {
		t.Errorf("Names() = %v", names)
	}
}

func TestGrid_Degenerate(t *testing.T) {
	if cells := NewGrid(nil).Cells(); cells != nil {
		t.Errorf("empty grid Cells() = %v, want nil", cells)
	}

	g := NewGrid([]config.Axis{{Name: "k1", Values: []float64{1}}, {Name: "b", Values: nil}})
	if g.Size() != 0 || g.Cells() != nil {
		t.Errorf("axis without values should yield no cells, got %d", g.Size())
	}

	single := NewGrid([]config.Axis{{Name: "k1", Values: []float64{1.5}}}).Cells()
	if len(single) != 1 || single[0][0].Value != 1.5 {
		t.Errorf("single cell grid = %v", single)
	}
}
