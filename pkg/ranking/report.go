package ranking

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/gocarina/gocsv"
)

const (
	blockRule   = "========================"
	sectionRule = "------------------------"
)

// Print writes the results as human readable text blocks
func Print(w io.Writer, results []Result) error {
	for _, result := range results {
		maxLength := 0
		for _, p := range result.Predictions {
			if n := utf8.RuneCountInString(p.Feature); n > maxLength {
				maxLength = n
			}
		}

		lines := []string{
			blockRule,
			"Label: " + result.Label,
			"Features: " + strings.Join(result.Features, ", "),
			sectionRule,
			"Predicted Features:",
			sectionRule,
		}
		for _, p := range result.Predictions {
			padding := strings.Repeat(" ", maxLength-utf8.RuneCountInString(p.Feature))
			lines = append(lines, fmt.Sprintf("%s%s: %.7f - %.2f%%", p.Feature, padding, p.Score, p.Percentage))
		}
		lines = append(lines, blockRule, "")

		if _, err := fmt.Fprintln(w, strings.Join(lines, "\n")); err != nil {
			return err
		}
	}
	return nil
}

type reportRow struct {
	Label      string  `csv:"label"`
	Rank       int     `csv:"rank"`
	Feature    string  `csv:"feature"`
	Score      float64 `csv:"score"`
	Percentage float64 `csv:"percentage"`
}

// WriteCSV writes one row per ranked prediction
func WriteCSV(w io.Writer, results []Result) error {
	rows := make([]*reportRow, 0, len(results))
	for _, result := range results {
		for i, p := range result.Predictions {
			rows = append(rows, &reportRow{
				Label:      result.Label,
				Rank:       i + 1,
				Feature:    p.Feature,
				Score:      p.Score,
				Percentage: p.Percentage,
			})
		}
	}
	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("error writing report: %w", err)
	}
	return nil
}
