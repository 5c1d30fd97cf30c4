package export

import (
	"io"
	"os"
	"path/filepath"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/bioproc/chosim/internal/ferment"
)

// Series palette, matplotlib tab10 order like the usual process plots.
var (
	vcdColor   = drawing.Color{R: 31, G: 119, B: 180, A: 255}  // blue
	tcdColor   = drawing.Color{R: 127, G: 127, B: 127, A: 255} // gray
	viaColor   = drawing.Color{R: 44, G: 160, B: 44, A: 255}   // green
	glcColor   = drawing.Color{R: 255, G: 127, B: 14, A: 255}  // orange
	titerColor = drawing.Color{R: 148, G: 103, B: 189, A: 255} // purple
)

// paddedMax returns a fixed axis ceiling above every sample, so flat series
// (a crashed or empty culture) never produce a zero-height range.
func paddedMax(series ...[]float64) float64 {
	m := 0.0
	for _, s := range series {
		for _, v := range s {
			if v > m {
				m = v
			}
		}
	}
	if m <= 0 {
		return 1
	}
	return m * 1.05
}

// WriteGrowthChart renders VCD and TCD against the left axis and viability
// in percent against the right.
func WriteGrowthChart(w io.Writer, tr *ferment.Trajectory) error {
	times := tr.Times()
	vcd := tr.VCDSeries()
	tcd := tr.TCDSeries()

	graph := chart.Chart{
		Title:  "Cell growth and viability",
		Width:  900,
		Height: 420,
		XAxis: chart.XAxis{
			Name:  "time (h)",
			Range: &chart.ContinuousRange{Min: 0, Max: paddedMax(times)},
		},
		YAxis: chart.YAxis{
			Name:  "cells (1e6/mL)",
			Range: &chart.ContinuousRange{Min: 0, Max: paddedMax(vcd, tcd)},
		},
		YAxisSecondary: chart.YAxis{
			Name:  "viability (%)",
			Range: &chart.ContinuousRange{Min: 0, Max: 105},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "VCD",
				XValues: times,
				YValues: vcd,
				Style:   chart.Style{StrokeColor: vcdColor, StrokeWidth: 2.0},
			},
			chart.ContinuousSeries{
				Name:    "TCD",
				XValues: times,
				YValues: tcd,
				Style: chart.Style{
					StrokeColor:     tcdColor,
					StrokeWidth:     2.0,
					StrokeDashArray: []float64{5.0, 5.0},
				},
			},
			chart.ContinuousSeries{
				Name:    "viability",
				YAxis:   chart.YAxisSecondary,
				XValues: times,
				YValues: tr.ViabilitySeries(),
				Style:   chart.Style{StrokeColor: viaColor, StrokeWidth: 2.0},
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	return graph.Render(chart.PNG, w)
}

// WriteSubstrateChart renders glucose against the left axis with VCD on the
// right for visual phase alignment.
func WriteSubstrateChart(w io.Writer, tr *ferment.Trajectory) error {
	times := tr.Times()
	glc := tr.GlucoseSeries()
	vcd := tr.VCDSeries()

	graph := chart.Chart{
		Title:  "Glucose and cell density",
		Width:  900,
		Height: 420,
		XAxis: chart.XAxis{
			Name:  "time (h)",
			Range: &chart.ContinuousRange{Min: 0, Max: paddedMax(times)},
		},
		YAxis: chart.YAxis{
			Name:  "glucose (g/L)",
			Range: &chart.ContinuousRange{Min: 0, Max: paddedMax(glc)},
		},
		YAxisSecondary: chart.YAxis{
			Name:  "VCD (1e6/mL)",
			Range: &chart.ContinuousRange{Min: 0, Max: paddedMax(vcd)},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "glucose",
				XValues: times,
				YValues: glc,
				Style:   chart.Style{StrokeColor: glcColor, StrokeWidth: 2.0},
			},
			chart.ContinuousSeries{
				Name:    "VCD",
				YAxis:   chart.YAxisSecondary,
				XValues: times,
				YValues: vcd,
				Style:   chart.Style{StrokeColor: vcdColor, StrokeWidth: 2.0},
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	return graph.Render(chart.PNG, w)
}

// WriteTiterChart renders the accumulated antibody titer.
func WriteTiterChart(w io.Writer, tr *ferment.Trajectory) error {
	times := tr.Times()
	titer := tr.TiterSeries()

	graph := chart.Chart{
		Title:  "Antibody titer",
		Width:  900,
		Height: 420,
		XAxis: chart.XAxis{
			Name:  "time (h)",
			Range: &chart.ContinuousRange{Min: 0, Max: paddedMax(times)},
		},
		YAxis: chart.YAxis{
			Name:  "titer (ug/mL)",
			Range: &chart.ContinuousRange{Min: 0, Max: paddedMax(titer)},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "titer",
				XValues: times,
				YValues: titer,
				Style:   chart.Style{StrokeColor: titerColor, StrokeWidth: 2.0},
			},
		},
	}

	return graph.Render(chart.PNG, w)
}

// SaveCharts writes the three standard report charts into dir, creating it
// if needed, and returns the written paths.
func SaveCharts(dir string, tr *ferment.Trajectory) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	charts := []struct {
		name   string
		render func(io.Writer, *ferment.Trajectory) error
	}{
		{"growth.png", WriteGrowthChart},
		{"substrate.png", WriteSubstrateChart},
		{"titer.png", WriteTiterChart},
	}

	paths := make([]string, 0, len(charts))
	for _, c := range charts {
		path := filepath.Join(dir, c.name)
		f, err := os.Create(path)
		if err != nil {
			return paths, err
		}
		if err := c.render(f, tr); err != nil {
			f.Close()
			return paths, err
		}
		if err := f.Close(); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}

	return paths, nil
}
