// Package writer serializes the final result list to CSV.
package writer

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-scripts/placescout/internal/types"
)

// CSVWriter writes ranked results under a fixed output directory.
type CSVWriter struct {
	outputDir string
}

// New creates the output directory if needed and returns a CSVWriter.
func New(outputDir string) (*CSVWriter, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	return &CSVWriter{outputDir: outputDir}, nil
}

var header = []string{
	"name", "category", "rating", "review_count",
	"budget", "business_hours", "address", "review_snippet", "url",
}

// Write saves results to filename inside the output directory, in ranked
// order.
func (w *CSVWriter) Write(filename string, results []types.MergedResult) (string, error) {
	path := filepath.Join(w.outputDir, filename)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating output file: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(header); err != nil {
		return "", fmt.Errorf("writing header: %w", err)
	}
	for _, r := range results {
		row := []string{
			r.Name,
			r.Category,
			strconv.FormatFloat(r.Rating, 'f', 1, 64),
			strconv.Itoa(r.ReviewCount),
			r.BudgetText,
			r.BusinessHoursText,
			r.Address,
			r.ReviewSnippet,
			r.URL,
		}
		if err := cw.Write(row); err != nil {
			return "", fmt.Errorf("writing row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", fmt.Errorf("flushing output: %w", err)
	}
	return path, nil
}
