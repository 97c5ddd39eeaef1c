package matching

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/radhian/booking-reconciliation/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tourDay = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func externalRecord() entity.ExternalBookingRecord {
	return entity.ExternalBookingRecord{
		BookingRef:    "GYG-1001",
		CustomerName:  "John Doe",
		TourDate:      tourDay,
		TourName:      "Ubud Tour",
		TotalPrice:    decimal.NewFromInt(100),
		Currency:      "USD",
		Source:        entity.ChannelGetYourGuide,
		NumberOfAdult: 2,
	}
}

func internalRecord(id int64) entity.InternalBookingRecord {
	return entity.InternalBookingRecord{
		ID:            id,
		BookingRef:    "gyg1001",
		CustomerName:  "john  doe",
		TourDate:      tourDay.Add(9 * time.Hour),
		TourName:      "Ubud Tour",
		TotalPrice:    decimal.NewFromInt(100),
		Currency:      "usd",
		Source:        entity.ChannelGetYourGuide,
		NumberOfAdult: 2,
		Status:        entity.BookingStatusConfirmed,
	}
}

func TestMatchPerfect(t *testing.T) {
	results := NewEngine(DefaultEngineConfig()).Match(
		[]entity.ExternalBookingRecord{externalRecord()},
		[]entity.InternalBookingRecord{internalRecord(1)},
	)

	require.Len(t, results, 1)
	res := results[0]
	assert.Equal(t, entity.MatchStatusPerfect, res.Status)
	assert.Equal(t, 1.0, res.Confidence)
	assert.Empty(t, res.Discrepancies)
	require.NotNil(t, res.Internal)
	assert.Equal(t, int64(1), res.Internal.ID)
}

func TestMatchPriceNotExtracted(t *testing.T) {
	in := internalRecord(1)
	in.TotalPrice = decimal.Zero

	results := NewEngine(DefaultEngineConfig()).Match(
		[]entity.ExternalBookingRecord{externalRecord()},
		[]entity.InternalBookingRecord{in},
	)

	res := results[0]
	assert.Equal(t, entity.MatchStatusPartial, res.Status)
	require.Len(t, res.Discrepancies, 1)
	d := res.Discrepancies[0]
	assert.Equal(t, entity.FieldTotalPrice, d.Field)
	assert.Equal(t, entity.SeverityLow, d.Severity)
	assert.Contains(t, d.Note, "price not extracted")
	assert.Equal(t, "100", d.ExternalValue)
	assert.Equal(t, "0", d.InternalValue)
	assert.InDelta(t, 0.9, res.Confidence, 1e-9)
}

func TestMatchAmbiguous(t *testing.T) {
	scores := map[string]float64{
		"maria garcia|maria garcie": 0.64,
		"maria garcia|m garcia":     0.48,
	}
	sim := func(a, b string) float64 {
		if a == b {
			return 1
		}
		return scores[a+"|"+b]
	}

	ext := externalRecord()
	ext.BookingRef = "GYG-2000"
	ext.CustomerName = "Maria Garcia"

	first := internalRecord(1)
	first.BookingRef = ""
	first.CustomerName = "Maria Garcie"
	second := internalRecord(2)
	second.BookingRef = ""
	second.CustomerName = "M Garcia"

	cfg := DefaultEngineConfig()
	cfg.Similarity = sim
	results := NewEngine(cfg).Match(
		[]entity.ExternalBookingRecord{ext},
		[]entity.InternalBookingRecord{second, first},
	)

	res := results[0]
	assert.Equal(t, entity.MatchStatusAmbiguous, res.Status)
	assert.InDelta(t, 0.82, res.Confidence, 1e-9)
	assert.Nil(t, res.Internal)
	assert.Empty(t, res.Discrepancies)
	assert.Equal(t, "ambiguous: top candidates scored 82% and 74%", res.Note)
}

func TestMatchClearLeaderIsNotAmbiguous(t *testing.T) {
	ext := externalRecord()
	ext.BookingRef = "GYG-3000"

	same := internalRecord(1)
	same.BookingRef = ""
	other := internalRecord(2)
	other.BookingRef = ""
	other.CustomerName = "John Smith"

	results := NewEngine(DefaultEngineConfig()).Match(
		[]entity.ExternalBookingRecord{ext},
		[]entity.InternalBookingRecord{other, same},
	)

	res := results[0]
	assert.NotEqual(t, entity.MatchStatusAmbiguous, res.Status)
	require.NotNil(t, res.Internal)
	assert.Equal(t, int64(1), res.Internal.ID)
	assert.Contains(t, res.Note, "fuzzy match (100% confident)")
}

func TestMatchAmbiguityRule(t *testing.T) {
	tests := []struct {
		name          string
		best, second  float64
		wantAmbiguous bool
	}{
		{"close leader above accept", 0.82, 0.74, true},
		{"both below accept", 0.78, 0.72, true},
		{"runner-up below threshold", 0.90, 0.69, false},
		{"leader clears margin", 1.0, 0.714, false},
		{"leader just past margin", 0.86, 0.70, false},
	}

	e := NewEngine(DefaultEngineConfig()).(*engine)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantAmbiguous, e.ambiguous(tt.best, tt.second))
		})
	}
}

func TestMatchMissingWithoutCandidates(t *testing.T) {
	ext := externalRecord()
	ext.BookingRef = "GYG-9999"
	ext.TourDate = tourDay.AddDate(0, 0, 9)

	otherChannel := internalRecord(2)
	otherChannel.BookingRef = "V-1"
	otherChannel.TourDate = ext.TourDate
	otherChannel.Source = entity.ChannelViator

	results := NewEngine(DefaultEngineConfig()).Match(
		[]entity.ExternalBookingRecord{ext},
		[]entity.InternalBookingRecord{internalRecord(1), otherChannel},
	)

	res := results[0]
	assert.Equal(t, entity.MatchStatusMissing, res.Status)
	assert.Equal(t, 0.0, res.Confidence)
	assert.Equal(t, noCandidatesNote, res.Note)
	assert.Nil(t, res.Internal)
}

func TestMatchMissingBelowThreshold(t *testing.T) {
	ext := externalRecord()
	ext.BookingRef = "GYG-5555"

	in := internalRecord(1)
	in.BookingRef = "GYG-7777"
	in.CustomerName = "Priya Raman"
	in.TourName = "Sunrise Trek"

	res := NewEngine(DefaultEngineConfig()).Match(
		[]entity.ExternalBookingRecord{ext},
		[]entity.InternalBookingRecord{in},
	)[0]

	assert.Equal(t, entity.MatchStatusMissing, res.Status)
	assert.Less(t, res.Confidence, 0.8)
	assert.True(t, strings.HasPrefix(res.Note, "best match only "), res.Note)
}

func TestMatchFuzzyAccept(t *testing.T) {
	ext := externalRecord()
	in := internalRecord(1)
	in.BookingRef = ""

	res := NewEngine(DefaultEngineConfig()).Match(
		[]entity.ExternalBookingRecord{ext},
		[]entity.InternalBookingRecord{in},
	)[0]

	assert.Equal(t, entity.MatchStatusPartial, res.Status)
	assert.Equal(t, "fuzzy match (100% confident)", res.Note)
	require.Len(t, res.Discrepancies, 1)
	assert.Equal(t, entity.FieldBookingRef, res.Discrepancies[0].Field)
	assert.Equal(t, entity.SeverityHigh, res.Discrepancies[0].Severity)
	assert.Equal(t, "booking reference not extracted", res.Discrepancies[0].Note)
}

func TestMatchExactPrecedence(t *testing.T) {
	ext := externalRecord()

	weakByRef := internalRecord(1)
	weakByRef.CustomerName = "Someone Else"
	weakByRef.TourName = "Different Tour"

	strongFuzzy := internalRecord(2)
	strongFuzzy.BookingRef = ""

	res := NewEngine(DefaultEngineConfig()).Match(
		[]entity.ExternalBookingRecord{ext},
		[]entity.InternalBookingRecord{strongFuzzy, weakByRef},
	)[0]

	require.NotNil(t, res.Internal)
	assert.Equal(t, int64(1), res.Internal.ID)
	assert.Equal(t, entity.MatchStatusPartial, res.Status)
	assert.Empty(t, res.Note)
}

func TestMatchCancelledByReference(t *testing.T) {
	in := internalRecord(1)
	in.Status = entity.BookingStatusCancelled

	res := NewEngine(DefaultEngineConfig()).Match(
		[]entity.ExternalBookingRecord{externalRecord()},
		[]entity.InternalBookingRecord{in},
	)[0]

	assert.Equal(t, entity.MatchStatusCancelled, res.Status)
	require.NotNil(t, res.Internal)
	assert.Equal(t, int64(1), res.Internal.ID)
}

func TestMatchClaimsEachInternalOnce(t *testing.T) {
	external := []entity.ExternalBookingRecord{externalRecord(), externalRecord(), externalRecord()}
	internal := []entity.InternalBookingRecord{internalRecord(1), internalRecord(2)}

	results := NewEngine(DefaultEngineConfig()).Match(external, internal)
	require.Len(t, results, len(external))

	seen := map[int64]bool{}
	for _, res := range results {
		if res.Internal == nil {
			continue
		}
		assert.False(t, seen[res.Internal.ID], "internal %d claimed twice", res.Internal.ID)
		seen[res.Internal.ID] = true
	}
	assert.Equal(t, int64(1), results[0].Internal.ID)
	assert.Equal(t, int64(2), results[1].Internal.ID)
	assert.Equal(t, entity.MatchStatusMissing, results[2].Status)
	assert.Equal(t, noCandidatesNote, results[2].Note)
}

func TestMatchPropertiesOnMixedInput(t *testing.T) {
	var external []entity.ExternalBookingRecord
	var internal []entity.InternalBookingRecord
	names := []string{"John Doe", "Doe, John", "Ana Lima", "Kenji Sato", "kenji sato", "Lee"}
	for i, name := range names {
		ext := externalRecord()
		ext.BookingRef = fmt.Sprintf("GYG-%d", 100+i%3)
		ext.CustomerName = name
		ext.TourDate = tourDay.AddDate(0, 0, i%2)
		external = append(external, ext)

		in := internalRecord(int64(i + 1))
		in.BookingRef = fmt.Sprintf("gyg%d", 101+i%4)
		in.CustomerName = names[len(names)-1-i]
		in.TourDate = tourDay.AddDate(0, 0, i%3)
		in.NumberOfChild = i % 2
		internal = append(internal, in)
	}

	eng := NewEngine(DefaultEngineConfig())
	first := eng.Match(external, internal)
	second := eng.Match(external, internal)

	require.Len(t, first, len(external))
	assert.Equal(t, first, second)

	claimed := map[int64]int{}
	for _, res := range first {
		assert.GreaterOrEqual(t, res.Confidence, 0.0)
		assert.LessOrEqual(t, res.Confidence, 1.0)
		if res.Status.IsMatched() {
			assert.Equal(t, res.Status == entity.MatchStatusPerfect, len(res.Discrepancies) == 0)
		}
		if res.Internal != nil {
			claimed[res.Internal.ID]++
		}
	}
	for id, n := range claimed {
		assert.Equal(t, 1, n, "internal %d", id)
	}
	assert.Equal(t, "Doe, John", external[1].CustomerName, "inputs must not be modified")
}

func TestScoreIsBounded(t *testing.T) {
	e := NewEngine(EngineConfig{Similarity: func(a, b string) float64 { return 7 }}).(*engine)
	ext := externalRecord()
	in := internalRecord(1)
	assert.Equal(t, 1.0, e.score(&ext, &in))

	e = NewEngine(EngineConfig{Similarity: func(a, b string) float64 { return -3 }}).(*engine)
	in.BookingRef = "other"
	assert.InDelta(t, 0.2, e.score(&ext, &in), 1e-9)
}
