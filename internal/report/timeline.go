package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/lightbox-data/shutter.report/internal/analysis"
)

// RenderTimelineHTML writes an interactive brightness timeline chart to
// timeline.html in outputDir: the per-frame brightness, a constant
// threshold line, and the frames inside detected events as a separate
// series so they stand out.
func RenderTimelineHTML(outputDir string, values []float64, result *analysis.Result, recordingFPS float64) (string, error) {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Brightness Timeline",
			Width:     "1400px",
			Height:    "500px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Brightness Timeline with Detected Shutter Events",
			Subtitle: fmt.Sprintf("frames=%d events=%d threshold=%.2f fps=%.1f", len(values), len(result.Events), result.Model.Threshold, recordingFPS),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Frame"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Brightness"}),
	)

	x := make([]string, len(values))
	brightness := make([]opts.LineData, len(values))
	threshold := make([]opts.LineData, len(values))
	for i, v := range values {
		x[i] = strconv.Itoa(i)
		brightness[i] = opts.LineData{Value: v}
		threshold[i] = opts.LineData{Value: result.Model.Threshold}
	}

	// Event frames carry their value; all other frames are nil so the
	// series renders as disjoint bright segments over the base line.
	eventFrames := make([]opts.LineData, len(values))
	for i := range eventFrames {
		eventFrames[i] = opts.LineData{Value: nil}
	}
	for i := range result.Events {
		e := &result.Events[i]
		for f := e.StartFrame; f <= e.EndFrame && f < len(values); f++ {
			eventFrames[f] = opts.LineData{Value: values[f]}
		}
	}

	line.SetXAxis(x).
		AddSeries("brightness", brightness, charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(false)})).
		AddSeries("threshold", threshold, charts.WithItemStyleOpts(opts.ItemStyle{Color: "#d62728"})).
		AddSeries("events", eventFrames, charts.WithItemStyleOpts(opts.ItemStyle{Color: "#2ca02c"}))

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output dir: %w", err)
	}
	path := filepath.Join(outputDir, "timeline.html")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create timeline file: %w", err)
	}
	defer f.Close()

	if err := line.Render(f); err != nil {
		return "", fmt.Errorf("failed to render chart: %w", err)
	}
	return path, nil
}
