package report

import (
	"fmt"
	"testing"
	"time"

	"github.com/radhian/booking-reconciliation/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	day0      = time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	fixedTime = time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
)

func newTestBuilder() *builder {
	cfg := DefaultConfig()
	cfg.Now = func() time.Time { return fixedTime }
	return NewBuilder(cfg).(*builder)
}

func confirmed(id int64, name, email, tour string, created time.Time) entity.InternalBookingRecord {
	return entity.InternalBookingRecord{
		ID:            id,
		BookingRef:    fmt.Sprintf("REF-%d", id),
		CustomerName:  name,
		CustomerEmail: email,
		TourName:      tour,
		TourDate:      created.AddDate(0, 0, 7),
		TotalPrice:    decimal.NewFromInt(100),
		Source:        entity.ChannelGetYourGuide,
		Status:        entity.BookingStatusConfirmed,
		CreatedAt:     created,
		UpdatedAt:     created,
	}
}

func cancelledAt(id int64, name, email, tour string, at time.Time) entity.InternalBookingRecord {
	r := confirmed(id, name, email, tour, at.AddDate(0, 0, -5))
	r.Status = entity.BookingStatusCancelled
	r.UpdatedAt = at
	return r
}

func matched(status entity.MatchStatus, in *entity.InternalBookingRecord, src entity.Channel, diffs ...entity.Discrepancy) entity.MatchResult {
	if diffs == nil {
		diffs = []entity.Discrepancy{}
	}
	return entity.MatchResult{
		Status:        status,
		External:      &entity.ExternalBookingRecord{BookingRef: "X", Source: src},
		Internal:      in,
		Confidence:    1,
		Discrepancies: diffs,
	}
}

func TestBuildSummaryAndOrphans(t *testing.T) {
	a := confirmed(1, "Ann Lee", "ann@mail.com", "Ubud Tour", day0)
	bRec := confirmed(2, "Ben Ho", "ben@mail.com", "Ubud Tour", day0)
	orphan := confirmed(3, "Cid Moe", "cid@mail.com", "Temple Walk", day0)
	orphan.Email = &entity.EmailMeta{Subject: "Booking confirmed"}
	pending := confirmed(4, "Dee", "", "Temple Walk", day0)
	pending.Status = entity.BookingStatusPending
	cancel := cancelledAt(5, "Eve", "eve@mail.com", "Rice Fields", day0)

	internal := []entity.InternalBookingRecord{a, bRec, orphan, pending, cancel}
	external := make([]entity.ExternalBookingRecord, 5)
	matches := []entity.MatchResult{
		matched(entity.MatchStatusPerfect, &a, entity.ChannelGetYourGuide),
		matched(entity.MatchStatusPartial, &bRec, entity.ChannelGetYourGuide,
			entity.Discrepancy{Field: entity.FieldTourName, ExternalValue: "Ubud", InternalValue: "Ubud Tour", Severity: entity.SeverityMedium}),
		{Status: entity.MatchStatusMissing, External: &entity.ExternalBookingRecord{BookingRef: "M", Source: entity.ChannelKlook}, Note: "no candidates (different date or source)", Discrepancies: []entity.Discrepancy{}},
		{Status: entity.MatchStatusAmbiguous, External: &entity.ExternalBookingRecord{BookingRef: "N"}, Confidence: 0.82, Discrepancies: []entity.Discrepancy{}},
		{Status: entity.MatchStatusMissing, External: &entity.ExternalBookingRecord{BookingRef: "O", Source: entity.ChannelTripAdvisor}, Discrepancies: []entity.Discrepancy{}},
	}

	rep := newTestBuilder().Build(external, internal, matches, []entity.InternalBookingRecord{cancel}, entity.ReportMetadata{RunID: "run-1"})

	s := rep.Summary
	assert.Equal(t, 5, s.TotalExternal)
	assert.Equal(t, 5, s.TotalInternal)
	assert.Equal(t, 3, s.InternalConfirmed)
	assert.Equal(t, 1, s.InternalCancelled)
	assert.Equal(t, 1, s.Perfect)
	assert.Equal(t, 1, s.Partial)
	assert.Equal(t, 2, s.Missing)
	assert.Equal(t, 1, s.Ambiguous)
	assert.Equal(t, 1, s.Orphans)
	assert.InDelta(t, 40.0, s.MatchRate, 1e-9)

	assert.Equal(t, "run-1", rep.Metadata.RunID)
	assert.Equal(t, fixedTime, rep.Metadata.GeneratedAt)

	require.Len(t, rep.Matches, 6)
	last := rep.Matches[5]
	assert.Equal(t, entity.MatchStatusOrphaned, last.Status)
	assert.Nil(t, last.External)
	assert.Equal(t, int64(3), last.Internal.ID)
	assert.Len(t, matches, 5, "input matches must not grow")

	require.Len(t, rep.PRReview, 1)
	item := rep.PRReview[0]
	assert.Equal(t, entity.PRReviewOrphan, item.Type)
	assert.Equal(t, int64(3), item.Booking.ID)
	assert.Contains(t, item.Reasons, `created from email "Booking confirmed"`)

	require.Len(t, rep.MissingInSystem, 2)
	klook := rep.MissingInSystem[0]
	assert.Equal(t, "M", klook.External.BookingRef)
	assert.Equal(t, "no candidates (different date or source)", klook.Note)
	assert.Len(t, klook.Reasons, len(genericMissingReasons)+1)
	assert.Contains(t, klook.Reasons, channelMissingReasons[entity.ChannelKlook])
	assert.Len(t, rep.MissingInSystem[1].Reasons, len(genericMissingReasons))

	require.Len(t, rep.Cancelled, 1)
	assert.Equal(t, int64(5), rep.Cancelled[0].ID)
}

func TestBuildEmptyInput(t *testing.T) {
	rep := newTestBuilder().Build(nil, nil, nil, nil, entity.ReportMetadata{})

	assert.Equal(t, 0.0, rep.Summary.MatchRate)
	assert.Empty(t, rep.Matches)
	assert.Empty(t, rep.PRReview)
	assert.Empty(t, rep.ParserAnalysis.SourceAccuracy)
	assert.Empty(t, rep.ParserAnalysis.FieldAccuracy)
	assert.Empty(t, rep.ParserAnalysis.Recommendations)
}

func TestRebookingDetection(t *testing.T) {
	b := newTestBuilder()

	t.Run("same email and similar tour within window", func(t *testing.T) {
		cancel := cancelledAt(1, "Sarah Connor", "sarah@mail.com", "Ubud Tour", day0)
		rebooked := confirmed(2, "Sarah Connor", "Sarah@Mail.com ", "Ubud Tour Day", day0.AddDate(0, 0, 10))

		got := b.findRebookings([]entity.InternalBookingRecord{cancel, rebooked}, []entity.InternalBookingRecord{cancel})
		require.Len(t, got, 1)
		assert.Equal(t, int64(1), got[0].cancelled.ID)
		assert.Equal(t, int64(2), got[0].rebooked.ID)
		assert.GreaterOrEqual(t, len(got[0].reasons), 2)
		assert.Greater(t, got[0].score, 0.7)
		assert.LessOrEqual(t, got[0].score, 1.0)
		assert.Equal(t, "same customer email (sarah@mail.com)", got[0].reasons[0])
	})

	t.Run("window bounds", func(t *testing.T) {
		cancel := cancelledAt(1, "Sarah Connor", "sarah@mail.com", "Ubud Tour", day0)
		onEdge := confirmed(2, "Sarah Connor", "sarah@mail.com", "Ubud Tour", day0.AddDate(0, 0, 30))
		tooLate := confirmed(3, "Sarah Connor", "sarah@mail.com", "Ubud Tour", day0.AddDate(0, 0, 31))
		before := confirmed(4, "Sarah Connor", "sarah@mail.com", "Ubud Tour", day0.Add(-time.Hour))

		got := b.findRebookings([]entity.InternalBookingRecord{before, tooLate, onEdge}, []entity.InternalBookingRecord{cancel})
		require.Len(t, got, 1)
		assert.Equal(t, int64(2), got[0].rebooked.ID)
	})

	t.Run("single signal is not enough", func(t *testing.T) {
		cancel := cancelledAt(1, "Sarah Connor", "sarah@mail.com", "Ubud Tour", day0)
		other := confirmed(2, "Tom Hardy", "sarah@mail.com", "Mount Batur Sunrise", day0.AddDate(0, 0, 2))

		got := b.findRebookings([]entity.InternalBookingRecord{other}, []entity.InternalBookingRecord{cancel})
		assert.Empty(t, got)
	})

	t.Run("name and tour without email stay below score", func(t *testing.T) {
		cancel := cancelledAt(1, "Sarah Connor", "sarah@mail.com", "Ubud Tour", day0)
		other := confirmed(2, "Sarah Connor", "s.connor@mail.com", "Ubud Tour", day0.AddDate(0, 0, 2))

		got := b.findRebookings([]entity.InternalBookingRecord{other}, []entity.InternalBookingRecord{cancel})
		assert.Empty(t, got)
	})

	t.Run("placeholder emails never link", func(t *testing.T) {
		cancel := cancelledAt(1, "Sarah Connor", "noreply@airbnb.com", "Ubud Tour", day0)
		other := confirmed(2, "Sarah Connor", "noreply@airbnb.com", "Ubud Tour", day0.AddDate(0, 0, 2))

		got := b.findRebookings([]entity.InternalBookingRecord{other}, []entity.InternalBookingRecord{cancel})
		assert.Empty(t, got)
	})

	t.Run("confirmed booking joins one pair", func(t *testing.T) {
		first := cancelledAt(1, "Sarah Connor", "sarah@mail.com", "Ubud Tour", day0)
		second := cancelledAt(2, "Sarah Connor", "sarah@mail.com", "Ubud Tour", day0.AddDate(0, 0, 1))
		rebooked := confirmed(3, "Sarah Connor", "sarah@mail.com", "Ubud Tour", day0.AddDate(0, 0, 3))

		got := b.findRebookings([]entity.InternalBookingRecord{rebooked}, []entity.InternalBookingRecord{first, second})
		require.Len(t, got, 1)
		assert.Equal(t, int64(1), got[0].cancelled.ID)
	})
}

func TestBuildListsRebookingFirst(t *testing.T) {
	cancel := cancelledAt(1, "Sarah Connor", "sarah@mail.com", "Ubud Tour", day0)
	rebooked := confirmed(2, "Sarah Connor", "sarah@mail.com", "Ubud Tour", day0.AddDate(0, 0, 10))
	internal := []entity.InternalBookingRecord{cancel, rebooked}

	rep := newTestBuilder().Build(nil, internal, nil, []entity.InternalBookingRecord{cancel}, entity.ReportMetadata{})

	require.Len(t, rep.PRReview, 2)
	assert.Equal(t, entity.PRReviewRebooking, rep.PRReview[0].Type)
	assert.Equal(t, entity.SeverityHigh, rep.PRReview[0].Priority)
	assert.Equal(t, int64(1), rep.PRReview[0].Cancelled.ID)
	assert.Equal(t, int64(2), rep.PRReview[0].Rebooked.ID)
	assert.Len(t, rep.PRReview[0].Reasons, 3)
	assert.Equal(t, entity.PRReviewOrphan, rep.PRReview[1].Type)
}

func TestParserAnalysis(t *testing.T) {
	var internal []entity.InternalBookingRecord
	var matches []entity.MatchResult

	for i := 0; i < 10; i++ {
		in := confirmed(int64(i+1), "Guest", "", "Tour", day0)
		internal = append(internal, in)
		if i < 3 {
			matches = append(matches, matched(entity.MatchStatusPerfect, &in, entity.ChannelGetYourGuide))
			continue
		}
		diffs := []entity.Discrepancy{
			{Field: entity.FieldTotalPrice, ExternalValue: "100", InternalValue: "90", Severity: entity.SeverityHigh},
		}
		if i%2 == 0 {
			diffs[0].InternalValue = "0"
			diffs[0].Note = "price not extracted (internal price is 0)"
			diffs = append(diffs, entity.Discrepancy{Field: entity.FieldCurrency, ExternalValue: "USD", InternalValue: "IDR", Severity: entity.SeverityMedium})
		}
		matches = append(matches, matched(entity.MatchStatusPartial, &in, entity.ChannelGetYourGuide, diffs...))
	}

	airbnb := confirmed(99, "Host Guest", "", "Cooking Class", day0)
	airbnb.Source = entity.ChannelAirbnb
	airbnb.TotalPrice = decimal.Zero
	internal = append(internal, airbnb)

	klookIn := confirmed(50, "K", "", "Tour", day0)
	matches = append(matches, matched(entity.MatchStatusPerfect, &klookIn, entity.ChannelKlook))

	rep := newTestBuilder().Build(nil, internal, matches, nil, entity.ReportMetadata{})
	analysis := rep.ParserAnalysis

	require.Len(t, analysis.SourceAccuracy, 2)
	gyg := analysis.SourceAccuracy[0]
	assert.Equal(t, entity.ChannelGetYourGuide, gyg.Source)
	assert.Equal(t, 10, gyg.TotalMatched)
	assert.Equal(t, 3, gyg.Perfect)
	assert.Equal(t, 7, gyg.Partial)
	assert.InDelta(t, 65.0, gyg.Accuracy, 1e-9)
	assert.Equal(t, []string{"totalPrice mismatch", "price not extracted (internal price is 0)", "currency mismatch"}, gyg.CommonIssues)
	assert.Equal(t, entity.ChannelKlook, analysis.SourceAccuracy[1].Source)
	assert.InDelta(t, 100.0, analysis.SourceAccuracy[1].Accuracy, 1e-9)

	require.Len(t, analysis.FieldAccuracy, len(entity.TrackedFields))
	byField := map[string]entity.FieldAccuracy{}
	for _, fa := range analysis.FieldAccuracy {
		byField[fa.Field] = fa
	}
	price := byField[entity.FieldTotalPrice]
	assert.Equal(t, 11, price.TotalCompared)
	assert.Equal(t, 7, price.Mismatches)
	assert.InDelta(t, 4.0/11*100, price.Accuracy, 1e-9)
	require.Len(t, price.TopDiscrepancies, 2)
	assert.Equal(t, entity.DiscrepancyCount{ExternalValue: "100", InternalValue: "90", Count: 4}, price.TopDiscrepancies[0])
	assert.Equal(t, 3, price.TopDiscrepancies[1].Count)
	assert.InDelta(t, 100.0, byField[entity.FieldCustomerName].Accuracy, 1e-9)
	assert.Equal(t, 3, byField[entity.FieldCurrency].Mismatches)

	recs := analysis.Recommendations
	require.Len(t, recs, 3)
	assert.Equal(t, categoryParser, recs[0].Category)
	assert.Equal(t, 7, recs[0].AffectedCount)
	assert.Contains(t, recs[0].Description, "price not extracted")
	assert.Equal(t, categoryField, recs[1].Category)
	assert.Equal(t, 7, recs[1].AffectedCount)
	assert.Equal(t, categoryData, recs[2].Category)
	assert.Equal(t, 1, recs[2].AffectedCount)
	assert.Equal(t, priceRemediation, recs[2].Actions)
	for _, r := range recs {
		assert.Equal(t, entity.SeverityHigh, r.Priority)
	}
}

func TestFieldRecommendationSeverity(t *testing.T) {
	var matches []entity.MatchResult
	for i := 0; i < 40; i++ {
		in := confirmed(int64(i+1), "Guest", "", "Tour", day0)
		if i < 7 {
			matches = append(matches, matched(entity.MatchStatusPartial, &in, entity.ChannelViator,
				entity.Discrepancy{Field: entity.FieldPhoneNumber, ExternalValue: "1", InternalValue: "2", Severity: entity.SeverityLow}))
			continue
		}
		matches = append(matches, matched(entity.MatchStatusPerfect, &in, entity.ChannelViator))
	}

	rep := newTestBuilder().Build(nil, nil, matches, nil, entity.ReportMetadata{})
	assert.Empty(t, rep.ParserAnalysis.Recommendations, "82.5 percent accuracy stays above the field threshold")

	for i := 7; i < 12; i++ {
		matches[i].Status = entity.MatchStatusPartial
		matches[i].Discrepancies = []entity.Discrepancy{{Field: entity.FieldPhoneNumber, ExternalValue: "1", InternalValue: "2", Severity: entity.SeverityLow}}
	}
	rep = newTestBuilder().Build(nil, nil, matches, nil, entity.ReportMetadata{})
	require.Len(t, rep.ParserAnalysis.Recommendations, 1)
	rec := rep.ParserAnalysis.Recommendations[0]
	assert.Equal(t, entity.SeverityMedium, rec.Priority)
	assert.Equal(t, 12, rec.AffectedCount)
	assert.Contains(t, rec.Description, `"1" vs "2" (12)`)
}
