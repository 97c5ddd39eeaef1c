package entity

import "time"

type Report struct {
	Metadata        ReportMetadata          `json:"metadata"`
	Summary         ReportSummary           `json:"summary"`
	Matches         []MatchResult           `json:"matches"`
	MissingInSystem []MissingBooking        `json:"missing_in_system"`
	Cancelled       []InternalBookingRecord `json:"cancelled_bookings"`
	PRReview        []PRReviewItem          `json:"pr_review"`
	ParserAnalysis  ParserAnalysis          `json:"parser_analysis"`
}

type ReportMetadata struct {
	RunID       string      `json:"run_id"`
	GeneratedAt time.Time   `json:"generated_at"`
	InputFile   string      `json:"input_file,omitempty"`
	DateRange   DateRange   `json:"date_range"`
	IngestStats IngestStats `json:"ingest_stats"`
	// InternalStats describes the whole internal set loaded for the run, every status included.
	InternalStats InternalStats `json:"internal_stats"`
}

type InternalStats struct {
	Total     int                   `json:"total"`
	ByStatus  map[BookingStatus]int `json:"by_status"`
	ByChannel map[Channel]int       `json:"by_channel"`
}

type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (r DateRange) IsZero() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

// IngestStats counts rows read and dropped by an ingestor.
type IngestStats struct {
	RowsRead           int `json:"rows_read"`
	RowsAccepted       int `json:"rows_accepted"`
	DroppedMissingData int `json:"dropped_missing_required"`
	DroppedBadDate     int `json:"dropped_bad_date"`
	DroppedShortRow    int `json:"dropped_short_row"`
}

type ReportSummary struct {
	TotalExternal     int     `json:"total_external"`
	TotalInternal     int     `json:"total_internal"`
	InternalConfirmed int     `json:"internal_confirmed"`
	InternalCancelled int     `json:"internal_cancelled"`
	Perfect           int     `json:"perfect"`
	Partial           int     `json:"partial"`
	Missing           int     `json:"missing"`
	Ambiguous         int     `json:"ambiguous"`
	Orphans           int     `json:"orphans"`
	MatchRate         float64 `json:"match_rate"`
}

type MissingBooking struct {
	External   ExternalBookingRecord `json:"external"`
	Confidence float64               `json:"confidence"`
	Note       string                `json:"note,omitempty"`
	Reasons    []string              `json:"possible_reasons"`
}

type PRReviewType string

const (
	PRReviewOrphan    PRReviewType = "orphan"
	PRReviewRebooking PRReviewType = "rebooking"
)

// PRReviewItem is one entry of the manual review list.
type PRReviewItem struct {
	Type      PRReviewType           `json:"type"`
	Priority  Severity               `json:"priority"`
	Booking   *InternalBookingRecord `json:"booking,omitempty"`
	Cancelled *InternalBookingRecord `json:"cancelled_booking,omitempty"`
	Rebooked  *InternalBookingRecord `json:"rebooked_booking,omitempty"`
	Score     float64                `json:"score,omitempty"`
	Reasons   []string               `json:"reasons"`
}

type PRReviewFile struct {
	GeneratedAt time.Time      `json:"generated_at"`
	TotalItems  int            `json:"total_items"`
	Items       []PRReviewItem `json:"items"`
}

type ParserAnalysis struct {
	SourceAccuracy  []SourceAccuracy `json:"source_accuracy"`
	FieldAccuracy   []FieldAccuracy  `json:"field_accuracy"`
	Recommendations []Recommendation `json:"recommendations"`
}

type SourceAccuracy struct {
	Source       Channel  `json:"source"`
	TotalMatched int      `json:"total_matched"`
	Perfect      int      `json:"perfect"`
	Partial      int      `json:"partial"`
	Accuracy     float64  `json:"accuracy"`
	CommonIssues []string `json:"common_issues"`
}

type FieldAccuracy struct {
	Field            string             `json:"field"`
	TotalCompared    int                `json:"total_compared"`
	Mismatches       int                `json:"mismatches"`
	Accuracy         float64            `json:"accuracy"`
	TopDiscrepancies []DiscrepancyCount `json:"top_discrepancies"`
}

type DiscrepancyCount struct {
	ExternalValue string `json:"external_value"`
	InternalValue string `json:"internal_value"`
	Count         int    `json:"count"`
}

type Recommendation struct {
	Priority      Severity `json:"priority"`
	Category      string   `json:"category"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	AffectedCount int      `json:"affected_count"`
	Actions       []string `json:"actions,omitempty"`
}
