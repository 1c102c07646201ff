// Package report renders batch analysis results: a markdown summary, an
// interactive HTML brightness timeline and a PNG timeline plot.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lightbox-data/shutter.report/internal/analysis"
	"github.com/lightbox-data/shutter.report/internal/speed"
)

// variationToHex maps a deviation percentage onto a green-yellow-red
// gradient hex colour, capped at 25%.
func variationToHex(variationPercent float64) string {
	abs := variationPercent
	if abs < 0 {
		abs = -abs
	}
	if abs > 25 {
		abs = 25
	}
	ratio := abs / 25.0

	var r, g int
	if ratio < 0.5 {
		r = int(255 * ratio * 2)
		g = 255
	} else {
		r = 255
		g = int(255 * (1 - (ratio-0.5)*2))
	}
	return fmt.Sprintf("#%02x%02x00", r, g)
}

// GenerateMarkdown renders the analysis results as a markdown report: a
// detected-events table and, when comparisons are present, an
// expected-vs-measured table with colour-coded deviations.
func GenerateMarkdown(sourceName string, result *analysis.Result, recordingFPS float64, comparisons []speed.Comparison) string {
	var b strings.Builder

	b.WriteString("# Shutter Speed Analysis Results\n\n")
	fmt.Fprintf(&b, "**Source:** %s\n", sourceName)
	fmt.Fprintf(&b, "**Date:** %s\n", time.Now().Format("2006-01-02"))
	fmt.Fprintf(&b, "**Recording FPS:** %.2f\n", recordingFPS)
	fmt.Fprintf(&b, "**Baseline:** %.2f  **Threshold:** %.2f\n", result.Model.Baseline, result.Model.Threshold)

	b.WriteString("\n## Detected Events\n\n")
	b.WriteString("| Event | Start Frame | End Frame | Duration | Weighted | Measured Speed |\n")
	b.WriteString("|-------|-------------|-----------|----------|----------|----------------|\n")

	for i := range result.Events {
		e := &result.Events[i]
		r := speed.Measure(e, recordingFPS, 0)
		note := ""
		if e.Unterminated {
			note = " (unterminated)"
		}
		fmt.Fprintf(&b, "| %d | %d | %d | %d | %.2f | %s%s |\n",
			i+1, e.StartFrame, e.EndFrame, e.DurationFrames(),
			e.WeightedDurationFrames(), speed.FormatSpeed(r.MeasuredSeconds), note)
	}

	if len(comparisons) > 0 {
		b.WriteString("\n## Comparison with Expected\n\n")
		b.WriteString("| Event | Expected | Measured | Variation |\n")
		b.WriteString("|-------|----------|----------|-----------|\n")

		for i, c := range comparisons {
			variation := "unknown"
			if c.Result.DeviationKnown {
				sign := ""
				if c.Result.DeviationPercent > 0 {
					sign = "+"
				}
				variation = fmt.Sprintf(`<span style="color: %s">%s%.1f%%</span>`,
					variationToHex(c.Result.DeviationPercent), sign, c.Result.DeviationPercent)
			}
			fmt.Fprintf(&b, "| %d | %s | %s | %s |\n",
				i+1, c.Result.ExpectedSpeed, speed.FormatSpeed(c.Result.MeasuredSeconds), variation)
		}
	}

	return b.String()
}

// SaveMarkdown writes the markdown report to results.md in outputDir,
// creating the directory if needed.
func SaveMarkdown(outputDir, content string) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output dir: %w", err)
	}
	path := filepath.Join(outputDir, "results.md")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}
