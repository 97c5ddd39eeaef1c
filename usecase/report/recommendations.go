package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/radhian/booking-reconciliation/consts"
	"github.com/radhian/booking-reconciliation/entity"
)

const (
	categoryParser = "parser"
	categoryData   = "data_quality"
	categoryField  = "field_extraction"
)

var priceRemediation = []string{
	"Look up the price through the platform API when the email omits it",
	"Map each tour to a rate card and fill the price from it",
	"Flag the booking for manual price entry during review",
}

// recommendations are sorted by priority, then by affected count descending.
func (b *builder) recommendations(analysis entity.ParserAnalysis, internal []entity.InternalBookingRecord) []entity.Recommendation {
	recs := make([]entity.Recommendation, 0)

	for _, src := range analysis.SourceAccuracy {
		if src.Accuracy >= consts.SourceAccuracyThreshold {
			continue
		}
		issues := "no recurring issue recorded"
		if len(src.CommonIssues) > 0 {
			issues = strings.Join(src.CommonIssues, "; ")
		}
		recs = append(recs, entity.Recommendation{
			Priority: entity.SeverityHigh,
			Category: categoryParser,
			Title:    fmt.Sprintf("Improve the %s email parser", src.Source),
			Description: fmt.Sprintf("Parser accuracy for %s is %.1f%% over %d matched bookings. Common issues: %s.",
				src.Source, src.Accuracy, src.TotalMatched, issues),
			AffectedCount: src.Partial,
			Actions: []string{
				fmt.Sprintf("Review recent %s confirmation emails against the parsed bookings", src.Source),
				"Add the failing emails to the parser regression fixtures",
			},
		})
	}

	zeroPrice := 0
	for _, r := range internal {
		if r.Source == b.cfg.PriceNotExtractedChannel && r.Status.IsConfirmedLike() && r.TotalPrice.IsZero() {
			zeroPrice++
		}
	}
	if zeroPrice > 0 {
		recs = append(recs, entity.Recommendation{
			Priority: entity.SeverityHigh,
			Category: categoryData,
			Title:    fmt.Sprintf("Prices are not extracted for %s bookings", b.cfg.PriceNotExtractedChannel),
			Description: fmt.Sprintf("%d confirmed %s bookings are stored with a total price of 0.",
				zeroPrice, b.cfg.PriceNotExtractedChannel),
			AffectedCount: zeroPrice,
			Actions:       append([]string{}, priceRemediation...),
		})
	}

	for _, fa := range analysis.FieldAccuracy {
		if fa.Accuracy >= consts.FieldAccuracyThreshold || fa.Mismatches <= consts.FieldMinMismatches {
			continue
		}
		priority := entity.SeverityMedium
		if fa.Accuracy < consts.FieldAccuracyCritical {
			priority = entity.SeverityHigh
		}

		examples := make([]string, 0, len(fa.TopDiscrepancies))
		for _, d := range fa.TopDiscrepancies {
			examples = append(examples, fmt.Sprintf("%q vs %q (%d)", d.ExternalValue, d.InternalValue, d.Count))
		}
		recs = append(recs, entity.Recommendation{
			Priority: priority,
			Category: categoryField,
			Title:    fmt.Sprintf("Low extraction accuracy for %s", fa.Field),
			Description: fmt.Sprintf("%s matches in %.1f%% of %d pairs (%d mismatches). Examples: %s.",
				fa.Field, fa.Accuracy, fa.TotalCompared, fa.Mismatches, strings.Join(examples, ", ")),
			AffectedCount: fa.Mismatches,
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Priority.Rank() != recs[j].Priority.Rank() {
			return recs[i].Priority.Rank() > recs[j].Priority.Rank()
		}
		return recs[i].AffectedCount > recs[j].AffectedCount
	})
	return recs
}
