package charts

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	apierrors "sharkdash/internal/errors"
	"sharkdash/internal/incidents"
	"sharkdash/pkg/contracts/domain"
)

// Format is the image format every chart is encoded in
const Format = "png"

// ContentType is the media type of rendered charts
const ContentType = "image/png"

// Size is the canvas of a chart
type Size struct {
	Width  vg.Length
	Height vg.Length
}

// DefaultSize fits a dashboard card
var DefaultSize = Size{Width: 8 * vg.Inch, Height: 4.5 * vg.Inch}

var (
	barColor  = color.RGBA{R: 70, G: 130, B: 180, A: 255}
	lineColor = color.RGBA{R: 0, G: 100, B: 0, A: 255}
)

type builder func(report *domain.PageReport) (*plot.Plot, error)

var builders = map[string]builder{
	incidents.TableYearlyCounts:  yearlyChart,
	incidents.TableAgeByType:     typeChart,
	incidents.TableSpeciesCounts: speciesChart,
	incidents.TableAgeBySex:      sexChart,
	incidents.TableFatality:      fatalityChart,
	incidents.TableHourCounts:    hourChart,
}

// Names returns the charts a report's page can draw, in page order
func Names(report *domain.PageReport) []string {
	page, ok := incidents.LookupPage(report.Page)
	if !ok {
		return nil
	}
	return append([]string(nil), page.Aggregations...)
}

// Render draws the named chart of a report as PNG into w. An empty report
// draws a placeholder carrying the report notice.
func Render(w io.Writer, report *domain.PageReport, name string, size Size) error {
	build, ok := builders[name]
	if !ok {
		return apierrors.NewNotFoundError(fmt.Sprintf("chart %s", name))
	}

	var (
		p   *plot.Plot
		err error
	)
	if report.Empty() {
		p = placeholder(report.Notice)
	} else {
		p, err = build(report)
		if err != nil {
			return apierrors.NewRenderError(name, err)
		}
	}

	wt, err := p.WriterTo(size.Width, size.Height, Format)
	if err != nil {
		return apierrors.NewRenderError(name, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return apierrors.NewRenderError(name, err)
	}
	return nil
}

// SaveAll writes every chart of a report to dir as <page>_<chart>.png and
// returns the written paths.
func SaveAll(dir string, report *domain.PageReport, size Size) ([]string, error) {
	var paths []string
	for _, name := range Names(report) {
		path := filepath.Join(dir, fmt.Sprintf("%s_%s.%s", report.Page, name, Format))
		f, err := os.Create(path)
		if err != nil {
			return paths, apierrors.NewRenderError(name, err)
		}
		err = Render(f, report, name, size)
		if cerr := f.Close(); err == nil && cerr != nil {
			err = apierrors.NewRenderError(name, cerr)
		}
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func newPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	return p
}

func placeholder(notice string) *plot.Plot {
	p := newPlot(notice, "", "")
	p.HideAxes()
	return p
}

// barPlot draws one bar per label with its value printed above it
func barPlot(p *plot.Plot, labels []string, values plotter.Values, format func(float64) string) (*plot.Plot, error) {
	bars, err := plotter.NewBarChart(values, vg.Points(24))
	if err != nil {
		return nil, err
	}
	bars.Color = barColor
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalX(labels...)

	maxValue := 0.0
	for _, v := range values {
		maxValue = math.Max(maxValue, v)
	}
	p.Y.Min = 0
	p.Y.Max = maxValue * 1.15
	if p.Y.Max == 0 {
		p.Y.Max = 1
	}

	xys := make([]plotter.XY, len(values))
	text := make([]string, len(values))
	for i, v := range values {
		xys[i] = plotter.XY{X: float64(i), Y: v + maxValue*0.02}
		text[i] = format(v)
	}
	labelsPlot, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: text})
	if err != nil {
		return nil, err
	}
	for i := range labelsPlot.TextStyle {
		labelsPlot.TextStyle[i].XAlign = draw.XCenter
	}
	p.Add(labelsPlot)
	return p, nil
}

func countLabel(v float64) string { return strconv.Itoa(int(v)) }

func ageLabel(v float64) string { return strconv.FormatFloat(v, 'f', 1, 64) }

func yearlyChart(report *domain.PageReport) (*plot.Plot, error) {
	p := newPlot("Shark attacks per year", "Year", "Attacks")

	points := make(plotter.XYs, len(report.YearlyCounts))
	for i, yc := range report.YearlyCounts {
		points[i].X = float64(yc.Year)
		points[i].Y = float64(yc.Count)
	}

	line, scatter, err := plotter.NewLinePoints(points)
	if err != nil {
		return nil, err
	}
	line.Color = lineColor
	line.Width = vg.Points(2)
	scatter.GlyphStyle.Color = lineColor
	scatter.GlyphStyle.Shape = draw.CircleGlyph{}

	p.Add(plotter.NewGrid(), line, scatter)
	p.X.Tick.Marker = yearTicks{}
	p.Y.Min = 0
	return p, nil
}

func typeChart(report *domain.PageReport) (*plot.Plot, error) {
	p := newPlot("Average victim age by attack type", "Attack type", "Mean age")

	labels := make([]string, len(report.AgeByType))
	values := make(plotter.Values, len(report.AgeByType))
	for i, ta := range report.AgeByType {
		labels[i] = ta.Type
		values[i] = ta.MeanAge
	}
	return barPlot(p, labels, values, ageLabel)
}

func speciesChart(report *domain.PageReport) (*plot.Plot, error) {
	p := newPlot("Attacks by species", "Species", "Attacks")

	labels := make([]string, len(report.SpeciesCounts))
	values := make(plotter.Values, len(report.SpeciesCounts))
	for i, sc := range report.SpeciesCounts {
		labels[i] = sc.Species
		values[i] = float64(sc.Count)
	}
	return barPlot(p, labels, values, countLabel)
}

// sexChart shows each sex's share of the summed mean ages, the values the
// dashboard's pie slices are sized by.
func sexChart(report *domain.PageReport) (*plot.Plot, error) {
	p := newPlot("Share of average victim age by sex", "Sex", "Share (%)")

	labels := make([]string, len(report.AgeBySex))
	values := make(plotter.Values, len(report.AgeBySex))
	for i, sa := range report.AgeBySex {
		labels[i] = fmt.Sprintf("%s (%.1f)", sa.Sex, sa.MeanAge)
		values[i] = sa.Share * 100
	}
	return barPlot(p, labels, values, func(v float64) string {
		return strconv.FormatFloat(v, 'f', 1, 64) + "%"
	})
}

func hourChart(report *domain.PageReport) (*plot.Plot, error) {
	p := newPlot("Distinct victims by hour of day", "Hour", "Distinct victims")

	labels := make([]string, len(report.HourCounts))
	values := make(plotter.Values, len(report.HourCounts))
	for i, hc := range report.HourCounts {
		labels[i] = fmt.Sprintf("%02dh", hc.Hour)
		values[i] = float64(hc.DistinctCount)
	}
	return barPlot(p, labels, values, countLabel)
}

// yearTicks labels only whole years
type yearTicks struct{}

func (yearTicks) Ticks(min, max float64) []plot.Tick {
	var ticks []plot.Tick
	for y := math.Ceil(min); y <= max; y++ {
		ticks = append(ticks, plot.Tick{Value: y, Label: strconv.Itoa(int(y))})
	}
	return ticks
}
