package charts

import (
	"fmt"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"

	"sharkdash/pkg/contracts/domain"
)

// pivotGrid adapts a fatality pivot to plotter.GridXYZ: columns are sexes,
// rows are fatality flags, missing pairs are NaN.
type pivotGrid struct {
	pivot *domain.FatalityPivot
}

func (g pivotGrid) Dims() (c, r int) {
	return len(g.pivot.Sex), len(g.pivot.Fatality)
}

func (g pivotGrid) Z(c, r int) float64 {
	if cell := g.pivot.Cells[r][c]; cell != nil {
		return *cell
	}
	return math.NaN()
}

func (g pivotGrid) X(c int) float64 { return float64(c) }

func (g pivotGrid) Y(r int) float64 { return float64(r) }

func fatalityChart(report *domain.PageReport) (*plot.Plot, error) {
	p := newPlot("Average victim age by sex and fatality", "Sex", "Fatal")

	pivot := report.Fatality
	if pivot == nil || pivot.Empty() {
		return placeholder("No victims with sex, fatality and age"), nil
	}

	grid := pivotGrid{pivot: pivot}
	heat := plotter.NewHeatMap(grid, palette.Heat(12, 1))
	heat.Min, heat.Max = pivot.Min, pivot.Max
	if heat.Max <= heat.Min {
		heat.Max = heat.Min + 1
	}
	p.Add(heat)

	var (
		xys    []plotter.XY
		labels []string
	)
	cols, rows := grid.Dims()
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			z := grid.Z(c, r)
			if math.IsNaN(z) {
				continue
			}
			xys = append(xys, plotter.XY{X: grid.X(c), Y: grid.Y(r)})
			labels = append(labels, fmt.Sprintf("%.1f", z))
		}
	}
	if len(xys) > 0 {
		values, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
		if err != nil {
			return nil, err
		}
		p.Add(values)
	}

	p.NominalX(pivot.Sex...)
	p.NominalY(pivot.Fatality...)
	return p, nil
}
