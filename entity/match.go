package entity

// MatchStatus classifies the outcome for one external record.
type MatchStatus string

const (
	MatchStatusPerfect   MatchStatus = "perfect"
	MatchStatusPartial   MatchStatus = "partial"
	MatchStatusMissing   MatchStatus = "missing"
	MatchStatusAmbiguous MatchStatus = "ambiguous"
	MatchStatusCancelled MatchStatus = "cancelled"
	MatchStatusOrphaned  MatchStatus = "orphaned"
)

// IsMatched reports whether the status pairs an external record with an internal one.
func (s MatchStatus) IsMatched() bool {
	return s == MatchStatusPerfect || s == MatchStatusPartial
}

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Rank orders severities and recommendation priorities, high first.
func (s Severity) Rank() int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	}
	return 0
}

// Compared fields, in comparison order.
const (
	FieldBookingRef    = "bookingRef"
	FieldCustomerName  = "customerName"
	FieldCustomerEmail = "customerEmail"
	FieldPhoneNumber   = "phoneNumber"
	FieldTourDate      = "tourDate"
	FieldTourName      = "tourName"
	FieldTotalPrice    = "totalPrice"
	FieldCurrency      = "currency"
	FieldNumberOfAdult = "numberOfAdult"
	FieldNumberOfChild = "numberOfChild"
)

var TrackedFields = []string{
	FieldBookingRef,
	FieldCustomerName,
	FieldCustomerEmail,
	FieldPhoneNumber,
	FieldTourDate,
	FieldTourName,
	FieldTotalPrice,
	FieldCurrency,
	FieldNumberOfAdult,
	FieldNumberOfChild,
}

type Discrepancy struct {
	Field         string   `json:"field"`
	ExternalValue string   `json:"external_value"`
	InternalValue string   `json:"internal_value"`
	Severity      Severity `json:"severity"`
	Note          string   `json:"note,omitempty"`
}

type MatchResult struct {
	Status        MatchStatus            `json:"status"`
	External      *ExternalBookingRecord `json:"external,omitempty"`
	Internal      *InternalBookingRecord `json:"internal,omitempty"`
	Confidence    float64                `json:"confidence"`
	Discrepancies []Discrepancy          `json:"discrepancies"`
	Note          string                 `json:"note,omitempty"`
}
