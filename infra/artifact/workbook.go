package artifact

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/radhian/booking-reconciliation/entity"
	"github.com/radhian/booking-reconciliation/utils"
	"github.com/xuri/excelize/v2"
)

const (
	sheetSummary  = "Summary"
	sheetMatches  = "Matches"
	sheetMissing  = "Missing"
	sheetReview   = "PR Review"
	sheetAccuracy = "Parser Accuracy"
	sheetActions  = "Recommendations"
)

// writeWorkbook renders the report as a spreadsheet for reviewers who do not read JSON.
func writeWorkbook(out io.Writer, report entity.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return err
	}
	for _, name := range []string{sheetMatches, sheetMissing, sheetReview, sheetAccuracy, sheetActions} {
		if _, err := f.NewSheet(name); err != nil {
			return err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	sheets := map[string][][]interface{}{
		sheetSummary:  summaryRows(report),
		sheetMatches:  matchRows(report.Matches),
		sheetMissing:  missingRows(report.MissingInSystem),
		sheetReview:   reviewRows(report.PRReview),
		sheetAccuracy: accuracyRows(report.ParserAnalysis),
		sheetActions:  recommendationRows(report.ParserAnalysis.Recommendations),
	}
	for sheet, rows := range sheets {
		if err := setRows(f, sheet, rows); err != nil {
			return fmt.Errorf("sheet %s: %w", sheet, err)
		}
		if err := f.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
			return err
		}
	}

	_, err = f.WriteTo(out)
	return err
}

func setRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		r := row
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			return err
		}
	}
	return nil
}

func summaryRows(report entity.Report) [][]interface{} {
	s := report.Summary
	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Run ID", report.Metadata.RunID},
		{"Generated At", report.Metadata.GeneratedAt.Format("2006-01-02 15:04:05")},
		{"Input File", report.Metadata.InputFile},
	}
	if !report.Metadata.DateRange.IsZero() {
		rows = append(rows, []interface{}{"Date Range",
			utils.DateKey(report.Metadata.DateRange.Start) + " to " + utils.DateKey(report.Metadata.DateRange.End)})
	}
	return append(rows,
		[]interface{}{"External Records", s.TotalExternal},
		[]interface{}{"Internal Records", s.TotalInternal},
		[]interface{}{"Internal Confirmed", s.InternalConfirmed},
		[]interface{}{"Internal Cancelled", s.InternalCancelled},
		[]interface{}{"Perfect", s.Perfect},
		[]interface{}{"Partial", s.Partial},
		[]interface{}{"Missing", s.Missing},
		[]interface{}{"Ambiguous", s.Ambiguous},
		[]interface{}{"Orphans", s.Orphans},
		[]interface{}{"Match Rate (%)", round2(s.MatchRate)},
	)
}

func matchRows(matches []entity.MatchResult) [][]interface{} {
	rows := [][]interface{}{{"Status", "External Ref", "Internal ID", "Internal Ref", "Source", "Confidence", "Discrepancies", "Note"}}
	for _, m := range matches {
		var extRef, inRef, source string
		var inID interface{}
		if m.External != nil {
			extRef = m.External.BookingRef
			source = string(m.External.Source)
		}
		if m.Internal != nil {
			inID = m.Internal.ID
			inRef = m.Internal.BookingRef
			if source == "" {
				source = string(m.Internal.Source)
			}
		}
		diffs := make([]string, 0, len(m.Discrepancies))
		for _, d := range m.Discrepancies {
			diffs = append(diffs, fmt.Sprintf("%s [%s]: %q vs %q", d.Field, d.Severity, d.ExternalValue, d.InternalValue))
		}
		rows = append(rows, []interface{}{string(m.Status), extRef, inID, inRef, source, round2(m.Confidence), strings.Join(diffs, "\n"), m.Note})
	}
	return rows
}

func missingRows(missing []entity.MissingBooking) [][]interface{} {
	rows := [][]interface{}{{"Booking Ref", "Customer", "Tour Date", "Tour", "Source", "Confidence", "Note"}}
	for _, m := range missing {
		rows = append(rows, []interface{}{
			m.External.BookingRef,
			m.External.CustomerName,
			utils.DateKey(m.External.TourDate),
			m.External.TourName,
			string(m.External.Source),
			round2(m.Confidence),
			m.Note,
		})
	}
	return rows
}

func reviewRows(items []entity.PRReviewItem) [][]interface{} {
	rows := [][]interface{}{{"Type", "Priority", "Booking ID", "Related ID", "Score", "Reasons"}}
	for _, it := range items {
		var id, related interface{}
		switch {
		case it.Booking != nil:
			id = it.Booking.ID
		case it.Cancelled != nil:
			id = it.Cancelled.ID
			if it.Rebooked != nil {
				related = it.Rebooked.ID
			}
		}
		rows = append(rows, []interface{}{string(it.Type), string(it.Priority), id, related, round2(it.Score), strings.Join(it.Reasons, "; ")})
	}
	return rows
}

func accuracyRows(analysis entity.ParserAnalysis) [][]interface{} {
	rows := [][]interface{}{{"Scope", "Name", "Total", "Mismatches / Partial", "Accuracy (%)", "Details"}}
	for _, s := range analysis.SourceAccuracy {
		rows = append(rows, []interface{}{"source", string(s.Source), s.TotalMatched, s.Partial, round2(s.Accuracy), strings.Join(s.CommonIssues, "; ")})
	}
	for _, fa := range analysis.FieldAccuracy {
		examples := make([]string, 0, len(fa.TopDiscrepancies))
		for _, d := range fa.TopDiscrepancies {
			examples = append(examples, fmt.Sprintf("%q vs %q x%d", d.ExternalValue, d.InternalValue, d.Count))
		}
		rows = append(rows, []interface{}{"field", fa.Field, fa.TotalCompared, fa.Mismatches, round2(fa.Accuracy), strings.Join(examples, "; ")})
	}
	return rows
}

func recommendationRows(recs []entity.Recommendation) [][]interface{} {
	rows := [][]interface{}{{"Priority", "Category", "Title", "Affected", "Description", "Actions"}}
	for _, r := range recs {
		rows = append(rows, []interface{}{string(r.Priority), r.Category, r.Title, r.AffectedCount, r.Description, strings.Join(r.Actions, "\n")})
	}
	return rows
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
