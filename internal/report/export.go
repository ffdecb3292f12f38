package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"expense-tracker/internal/log"
)

// Default export file names inside the reports directory.
const (
	CategorySummaryFile = "category_summary.csv"
	MonthlySummaryFile  = "monthly_summary.csv"
)

// ExportCategorySummary writes the category summary as CSV and returns the
// written path. An empty path selects the default file in the reports directory.
func (s *Service) ExportCategorySummary(ctx context.Context, path string) (string, error) {
	summary, err := s.CategorySummary(ctx)
	if err != nil {
		return "", err
	}

	records := [][]string{{"category", "total_amount"}}
	for _, c := range summary {
		records = append(records, []string{c.Category, formatAmount(c.Total)})
	}
	return s.writeCSV(ctx, path, CategorySummaryFile, records)
}

// ExportMonthlySummary writes the monthly summary as CSV and returns the
// written path. An empty path selects the default file in the reports directory.
func (s *Service) ExportMonthlySummary(ctx context.Context, path string) (string, error) {
	summary, err := s.MonthlySummary(ctx)
	if err != nil {
		return "", err
	}

	records := [][]string{{"year", "month", "total_amount"}}
	for _, m := range summary {
		records = append(records, []string{
			strconv.Itoa(m.Year),
			strconv.Itoa(m.Month),
			formatAmount(m.Total),
		})
	}
	return s.writeCSV(ctx, path, MonthlySummaryFile, records)
}

func (s *Service) writeCSV(ctx context.Context, path, defaultName string, records [][]string) (string, error) {
	if path == "" {
		if err := os.MkdirAll(s.reportsDir, 0755); err != nil {
			return "", fmt.Errorf("create reports directory: %w", err)
		}
		path = filepath.Join(s.reportsDir, defaultName)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}

	s.logger.InfoContext(ctx, "Report exported", log.FieldOperation, log.OpExport, log.FieldPath, path, "rows", len(records)-1)
	return path, nil
}

// formatAmount writes the shortest exact form of v, always with a decimal
// part: 15 becomes "15.0", 100.5 stays "100.5".
func formatAmount(v float64) string {
	out := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(out, ".") {
		out += ".0"
	}
	return out
}
