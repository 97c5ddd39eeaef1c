package consts

import "time"

const (
	// Reconciliation type booking ledger vs parsed emails
	ReconciliationTypeBookingLedger = 1

	// Reconciliation run status codes
	StatusInit     = 1
	StatusRunning  = 2
	StatusFinished = 3
	StatusFailed   = 4

	// Artifact kinds recorded per run
	ArtifactExternalDump = 1
	ArtifactReport       = 2
	ArtifactPRReview     = 3
	ArtifactWorkbook     = 4

	// Default config
	DefaultInputPath         = "bookings.xlsx"
	DefaultOutputDir         = "reconciliation-output"
	DefaultCurrency          = "IDR"
	DefaultPhoneRegion       = "ID"
	DefaultRebookingWindow   = 30
	DefaultOperator          = "system"
	DefaultPort              = "8080"
	DefaultSimilarity        = "dice"
	DefaultPriceNotExtracted = "airbnb"
)

const DefaultScheduleInterval = 24 * time.Hour

// RunStatusByName maps the names accepted by the run listing filter to status codes.
var RunStatusByName = map[string]int{
	"init":     StatusInit,
	"running":  StatusRunning,
	"finished": StatusFinished,
	"failed":   StatusFailed,
}

// Match engine thresholds
const (
	MatchAcceptThreshold    = 0.80
	MatchAmbiguousThreshold = 0.70
	MatchAmbiguityMargin    = 0.15

	WeightBookingRef   = 0.4
	WeightCustomerName = 0.3
	WeightTourDate     = 0.2
	WeightTourName     = 0.1

	NameMismatchThreshold     = 0.90
	NameHighSeverityThreshold = 0.70
	TourMismatchThreshold     = 0.70

	PriceTolerancePercent = 0.01
	PriceToleranceMinimum = 1

	ConfidencePenaltyPerDiscrepancy = 0.1
)

// Report builder thresholds
const (
	RebookingMinScore       = 0.7
	RebookingMinSignals     = 2
	RebookingEmailScore     = 0.5
	RebookingNameThreshold  = 0.8
	RebookingNameWeight     = 0.3
	RebookingTourThreshold  = 0.7
	RebookingTourWeight     = 0.2
	SourceAccuracyThreshold = 70.0
	FieldAccuracyThreshold  = 80.0
	FieldAccuracyCritical   = 60.0
	FieldMinMismatches      = 5
	MaxCommonIssues         = 5
	MaxTopDiscrepancies     = 5
)

// Output artifact file names
const (
	ExternalDumpFile = "external_records.json"
	ReportFile       = "reconciliation_report.json"
	PRReviewFile     = "pr_review.json"
	WorkbookFile     = "reconciliation_report.xlsx"
)
