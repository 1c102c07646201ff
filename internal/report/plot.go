package report

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/lightbox-data/shutter.report/internal/analysis"
)

// RenderTimelinePNG writes a static brightness timeline to timeline.png in
// outputDir: brightness over time, the threshold as a horizontal line, and
// one shaded polygon per detected event.
func RenderTimelinePNG(outputDir string, values []float64, result *analysis.Result, recordingFPS float64) (string, error) {
	p := plot.New()
	p.Title.Text = "Brightness Timeline with Detected Shutter Events"
	p.X.Label.Text = "Time (seconds)"
	p.Y.Label.Text = "Brightness"

	maxBrightness := 0.0
	pts := make(plotter.XYs, len(values))
	for i, v := range values {
		pts[i] = plotter.XY{X: float64(i) / recordingFPS, Y: v}
		if v > maxBrightness {
			maxBrightness = v
		}
	}

	// Shade events behind the brightness line.
	for i := range result.Events {
		e := &result.Events[i]
		start := float64(e.StartFrame) / recordingFPS
		end := float64(e.EndFrame+1) / recordingFPS
		box := plotter.XYs{
			{X: start, Y: 0}, {X: end, Y: 0},
			{X: end, Y: maxBrightness}, {X: start, Y: maxBrightness},
		}
		poly, err := plotter.NewPolygon(box)
		if err != nil {
			return "", fmt.Errorf("event %d: %w", i+1, err)
		}
		poly.Color = color.NRGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 0x50}
		poly.LineStyle.Width = 0
		p.Add(poly)
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return "", fmt.Errorf("brightness line: %w", err)
	}
	line.Width = vg.Points(1)
	line.Color = color.NRGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}
	p.Add(line)
	p.Legend.Add("brightness", line)

	if len(values) > 0 {
		thresholdPts := plotter.XYs{
			{X: 0, Y: result.Model.Threshold},
			{X: float64(len(values)-1) / recordingFPS, Y: result.Model.Threshold},
		}
		thresholdLine, err := plotter.NewLine(thresholdPts)
		if err != nil {
			return "", fmt.Errorf("threshold line: %w", err)
		}
		thresholdLine.Width = vg.Points(1)
		thresholdLine.Color = color.NRGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff}
		thresholdLine.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
		p.Add(thresholdLine)
		p.Legend.Add(fmt.Sprintf("threshold (%.1f)", result.Model.Threshold), thresholdLine)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output dir: %w", err)
	}
	path := filepath.Join(outputDir, "timeline.png")
	if err := p.Save(14*vg.Inch, 5*vg.Inch, path); err != nil {
		return "", fmt.Errorf("failed to save plot: %w", err)
	}
	return path, nil
}
