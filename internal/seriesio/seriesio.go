// Package seriesio reads and writes per-frame brightness series as CSV.
// This is caller-side glue for the CLIs; the analysis core itself consumes
// plain float slices and performs no I/O.
package seriesio

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// ReadSeries loads a brightness series from a CSV file. Each record is
// either a single brightness value or a frame_index,brightness pair; a
// header row is skipped if the first field does not parse as a number.
// Values are returned in file order, which must be frame order.
func ReadSeries(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open series file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read series file: %w", err)
	}

	var values []float64
	for i, rec := range records {
		if len(rec) == 0 {
			continue
		}
		field := rec[len(rec)-1] // brightness is always the last field
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			if i == 0 {
				continue // header row
			}
			return nil, fmt.Errorf("line %d: invalid brightness %q: %w", i+1, field, err)
		}
		values = append(values, v)
	}
	return values, nil
}

// WriteSeries saves a brightness series as frame_index,brightness CSV with
// a header row, the format ReadSeries accepts.
func WriteSeries(path string, values []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create series file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"frame", "brightness"}); err != nil {
		return err
	}
	for i, v := range values {
		rec := []string{strconv.Itoa(i), strconv.FormatFloat(v, 'f', -1, 64)}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to write series file: %w", err)
	}
	return nil
}
