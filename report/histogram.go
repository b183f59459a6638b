package report

import (
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	agroErrors "github.com/fasalmitra/agroadvisor/pkg/errors"
	"github.com/fasalmitra/agroadvisor/yieldgap"
)

const histogramBins = 20

// WriteYieldHistogram renders the slice's yield distribution to a PNG at
// path, with vertical lines marking the user's yield and the average and
// top-10% benchmarks.
func WriteYieldHistogram(viz *yieldgap.VisualizationData, title, path string) (err error) {
	defer agroErrors.Recover(&err, "report.WriteYieldHistogram")

	if len(viz.YieldDistribution) == 0 {
		return agroErrors.NewModelError("report.WriteYieldHistogram", "empty distribution", agroErrors.ErrEmptyData)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Yield (quintal/ha)"
	p.Y.Label.Text = "Records"

	values := make(plotter.Values, len(viz.YieldDistribution))
	copy(values, viz.YieldDistribution)

	hist, err := plotter.NewHist(values, histogramBins)
	if err != nil {
		return agroErrors.Wrap(err, "report.WriteYieldHistogram")
	}
	hist.FillColor = color.RGBA{R: 120, G: 180, B: 120, A: 255}
	p.Add(hist)

	maxCount := histMaxHeight(hist)

	markers := []struct {
		x     float64
		label string
		c     color.RGBA
	}{
		{viz.UserYield, "you", color.RGBA{R: 200, G: 60, B: 60, A: 255}},
		{viz.Markers.Average, "average", color.RGBA{R: 60, G: 60, B: 200, A: 255}},
		{viz.Markers.Top10, "top 10%", color.RGBA{R: 200, G: 150, B: 40, A: 255}},
	}
	for _, m := range markers {
		line, lineErr := plotter.NewLine(plotter.XYs{
			{X: m.x, Y: 0},
			{X: m.x, Y: maxCount},
		})
		if lineErr != nil {
			return agroErrors.Wrap(lineErr, "report.WriteYieldHistogram")
		}
		line.Color = m.c
		line.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add(m.label, line)
	}

	p.Add(plotter.NewGrid())
	p.Legend.Top = true

	if err := p.Save(8*vg.Inch, 6*vg.Inch, path); err != nil {
		return agroErrors.Wrap(err, "report.WriteYieldHistogram")
	}
	return nil
}

// histMaxHeight returns the tallest bin so marker lines span the full plot.
func histMaxHeight(h *plotter.Histogram) float64 {
	max := 1.0
	for _, bin := range h.Bins {
		if bin.Weight > max {
			max = bin.Weight
		}
	}
	return max
}
