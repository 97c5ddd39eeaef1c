package report

import (
	"time"

	"github.com/labstack/gommon/log"
	"github.com/radhian/booking-reconciliation/consts"
	"github.com/radhian/booking-reconciliation/entity"
	"github.com/radhian/booking-reconciliation/utils"
)

type Config struct {
	// PriceNotExtractedChannel is the channel whose parser is known to leave prices at zero.
	PriceNotExtractedChannel entity.Channel
	RebookingWindowDays      int
	Similarity               utils.Similarity
	Now                      func() time.Time
}

func DefaultConfig() Config {
	return Config{
		PriceNotExtractedChannel: entity.Channel(consts.DefaultPriceNotExtracted),
		RebookingWindowDays:      consts.DefaultRebookingWindow,
		Similarity:               utils.DiceCoefficient,
		Now:                      time.Now,
	}
}

type Builder interface {
	Build(
		external []entity.ExternalBookingRecord,
		internal []entity.InternalBookingRecord,
		matches []entity.MatchResult,
		cancelled []entity.InternalBookingRecord,
		meta entity.ReportMetadata,
	) entity.Report
}

type builder struct {
	cfg Config
}

func NewBuilder(cfg Config) Builder {
	def := DefaultConfig()
	if cfg.PriceNotExtractedChannel == "" {
		cfg.PriceNotExtractedChannel = def.PriceNotExtractedChannel
	}
	if cfg.RebookingWindowDays <= 0 {
		cfg.RebookingWindowDays = def.RebookingWindowDays
	}
	if cfg.Similarity == nil {
		cfg.Similarity = def.Similarity
	}
	if cfg.Now == nil {
		cfg.Now = def.Now
	}
	return &builder{cfg: cfg}
}

// Build derives the full report. None of the inputs are modified.
func (b *builder) Build(
	external []entity.ExternalBookingRecord,
	internal []entity.InternalBookingRecord,
	matches []entity.MatchResult,
	cancelled []entity.InternalBookingRecord,
	meta entity.ReportMetadata,
) entity.Report {
	if meta.GeneratedAt.IsZero() {
		meta.GeneratedAt = b.cfg.Now()
	}

	orphans := findOrphans(internal, matches, cancelled)
	rebookings := b.findRebookings(internal, cancelled)

	allMatches := make([]entity.MatchResult, 0, len(matches)+len(orphans))
	allMatches = append(allMatches, matches...)
	for i := range orphans {
		o := orphans[i]
		allMatches = append(allMatches, entity.MatchResult{
			Status:        entity.MatchStatusOrphaned,
			Internal:      &o,
			Discrepancies: []entity.Discrepancy{},
			Note:          "confirmed in system but absent from the external ledger",
		})
	}

	report := entity.Report{
		Metadata:        meta,
		Summary:         summarize(external, internal, matches, cancelled, len(orphans)),
		Matches:         allMatches,
		MissingInSystem: missingBookings(matches),
		Cancelled:       append([]entity.InternalBookingRecord{}, cancelled...),
		PRReview:        buildPRReview(orphans, rebookings),
		ParserAnalysis: entity.ParserAnalysis{
			SourceAccuracy: sourceAccuracy(matches),
			FieldAccuracy:  fieldAccuracy(matches),
		},
	}
	report.ParserAnalysis.Recommendations = b.recommendations(report.ParserAnalysis, internal)

	log.Infof("[ReportBuilder] Report built: match rate %.1f%%, %d missing, %d orphans, %d rebooking candidates, %d recommendations",
		report.Summary.MatchRate, report.Summary.Missing, report.Summary.Orphans, len(rebookings),
		len(report.ParserAnalysis.Recommendations))

	return report
}

func summarize(
	external []entity.ExternalBookingRecord,
	internal []entity.InternalBookingRecord,
	matches []entity.MatchResult,
	cancelled []entity.InternalBookingRecord,
	orphans int,
) entity.ReportSummary {
	s := entity.ReportSummary{
		TotalExternal:     len(external),
		TotalInternal:     len(internal),
		InternalCancelled: len(cancelled),
		Orphans:           orphans,
	}
	for _, r := range internal {
		if r.Status.IsConfirmedLike() {
			s.InternalConfirmed++
		}
	}
	for _, m := range matches {
		switch m.Status {
		case entity.MatchStatusPerfect:
			s.Perfect++
		case entity.MatchStatusPartial:
			s.Partial++
		case entity.MatchStatusMissing:
			s.Missing++
		case entity.MatchStatusAmbiguous:
			s.Ambiguous++
		}
	}
	if s.TotalExternal > 0 {
		s.MatchRate = float64(s.Perfect+s.Partial) / float64(s.TotalExternal) * 100
	}
	return s
}
