// Command shutter-report analyzes a recorded brightness series and reports
// the measured shutter speeds.
//
// The input is a CSV of per-frame brightness values (one value per row, or
// frame,brightness) produced by whatever extracted frames from the test
// video. Output goes to the terminal and, with -out, to a markdown report
// plus HTML and PNG timeline charts.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/lightbox-data/shutter.report/internal/analysis"
	"github.com/lightbox-data/shutter.report/internal/config"
	"github.com/lightbox-data/shutter.report/internal/report"
	"github.com/lightbox-data/shutter.report/internal/seriesio"
	"github.com/lightbox-data/shutter.report/internal/speed"
	"github.com/lightbox-data/shutter.report/internal/version"
)

func main() {
	var (
		seriesPath   = flag.String("series", "", "path to brightness series CSV (required)")
		recordingFPS = flag.Float64("fps", 240, "recording frame rate")
		method       = flag.String("method", analysis.MethodMargin, "threshold method: "+analysis.GetValidMethodsString())
		events       = flag.Int("events", 0, "expected number of events (required for zscore/cluster)")
		expected     = flag.String("expected", "", "comma-separated expected speeds to compare, e.g. '1/500, 1/250'")
		configPath   = flag.String("config", "", "optional tuning config JSON")
		outDir       = flag.String("out", "", "output directory for report artifacts (default outputs/<series-stem>)")
		showVersion  = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}
	if *seriesPath == "" {
		flag.Usage()
		os.Exit(2)
	}
	if !analysis.IsValidMethod(*method) {
		log.Fatalf("invalid method %q (valid: %s)", *method, analysis.GetValidMethodsString())
	}
	if (*method == analysis.MethodZScore || *method == analysis.MethodCluster) && *events <= 0 {
		log.Fatalf("-events is required when using the %s method", *method)
	}

	cfg := config.EmptyTuningConfig()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadTuningConfig(*configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
	}

	values, err := seriesio.ReadSeries(*seriesPath)
	if err != nil {
		log.Fatalf("read series: %v", err)
	}
	fmt.Printf("Analyzing %s: %d frames @ %.1f fps (%.1f seconds), method %s\n",
		filepath.Base(*seriesPath), len(values), *recordingFPS,
		float64(len(values))/(*recordingFPS), *method)

	result, err := analysis.Analyze(values, *method, analysis.ThresholdOptions{
		BaselinePercentile: cfg.GetBaselinePercentile(),
		MarginFactor:       cfg.GetMarginFactor(),
		ExpectedEvents:     *events,
		PlateauFraction:    cfg.GetPlateauFraction(),
		MinPlateauFrames:   cfg.GetMinPlateauFrames(),
	})
	if err != nil {
		log.Fatalf("analyze: %v", err)
	}

	fmt.Printf("Found %d shutter events (baseline %.2f, threshold %.2f)\n\n",
		len(result.Events), result.Model.Baseline, result.Model.Threshold)
	if len(result.Events) == 0 {
		fmt.Println("No shutter events detected. Try adjusting detection parameters.")
		return
	}

	expectedSpeeds := speed.SplitSpeeds(*expected)

	printResults(result, *recordingFPS, expectedSpeeds)

	dir := *outDir
	if dir == "" {
		stem := strings.TrimSuffix(filepath.Base(*seriesPath), filepath.Ext(*seriesPath))
		dir = filepath.Join("outputs", stem)
	}

	comparisons := speed.GroupEvents(result.Events, expectedSpeeds, *recordingFPS)
	md := report.GenerateMarkdown(filepath.Base(*seriesPath), result, *recordingFPS, comparisons)
	mdPath, err := report.SaveMarkdown(dir, md)
	if err != nil {
		log.Fatalf("save report: %v", err)
	}
	fmt.Printf("\nResults saved to: %s\n", mdPath)

	htmlPath, err := report.RenderTimelineHTML(dir, values, result, *recordingFPS)
	if err != nil {
		log.Fatalf("render timeline: %v", err)
	}
	fmt.Printf("Timeline saved to: %s\n", htmlPath)

	pngPath, err := report.RenderTimelinePNG(dir, values, result, *recordingFPS)
	if err != nil {
		log.Fatalf("render timeline plot: %v", err)
	}
	fmt.Printf("Timeline plot saved to: %s\n", pngPath)
}

func printResults(result *analysis.Result, recordingFPS float64, expectedSpeeds []string) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	if len(expectedSpeeds) > 0 {
		fmt.Fprintln(w, "Event\tFrames\tWeighted\tMeasured\tExpected\tVariation")
		for i, c := range speed.GroupEvents(result.Events, expectedSpeeds, recordingFPS) {
			variation := "unknown"
			if c.Result.DeviationKnown {
				variation = fmt.Sprintf("%+.1f%%", c.Result.DeviationPercent)
			}
			fmt.Fprintf(w, "%d\t%d\t%.2f\t%s\t%s\t%s\n",
				i+1, c.Event.DurationFrames(), c.Event.WeightedDurationFrames(),
				speed.FormatSpeed(c.Result.MeasuredSeconds), c.Result.ExpectedSpeed, variation)
		}
		return
	}

	fmt.Fprintln(w, "Event\tFrames\tWeighted\tMeasured")
	for i := range result.Events {
		e := &result.Events[i]
		r := speed.Measure(e, recordingFPS, 0)
		fmt.Fprintf(w, "%d\t%d\t%.2f\t%s\n",
			i+1, e.DurationFrames(), e.WeightedDurationFrames(), speed.FormatSpeed(r.MeasuredSeconds))
	}
}
