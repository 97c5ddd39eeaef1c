package matching

import (
	"strconv"
	"strings"
	"time"

	"github.com/radhian/booking-reconciliation/consts"
	"github.com/radhian/booking-reconciliation/entity"
	"github.com/radhian/booking-reconciliation/utils"
	"github.com/shopspring/decimal"
)

const priceNotExtractedNote = "price not extracted (internal price is 0)"

var (
	priceTolerancePercent = decimal.NewFromFloat(consts.PriceTolerancePercent)
	priceToleranceMinimum = decimal.NewFromInt(consts.PriceToleranceMinimum)
)

// compare builds the result for a claimed pair.
func (e *engine) compare(ext *entity.ExternalBookingRecord, in *entity.InternalBookingRecord, note string) entity.MatchResult {
	diffs := e.discrepancies(ext, in)

	status := entity.MatchStatusPerfect
	if len(diffs) > 0 {
		status = entity.MatchStatusPartial
	}

	return entity.MatchResult{
		Status:        status,
		External:      ext,
		Internal:      in,
		Confidence:    utils.Clamp01(1 - consts.ConfidencePenaltyPerDiscrepancy*float64(len(diffs))),
		Discrepancies: diffs,
		Note:          note,
	}
}

func (e *engine) discrepancies(ext *entity.ExternalBookingRecord, in *entity.InternalBookingRecord) []entity.Discrepancy {
	diffs := make([]entity.Discrepancy, 0)
	add := func(field, extVal, inVal string, sev entity.Severity, note string) {
		diffs = append(diffs, entity.Discrepancy{
			Field:         field,
			ExternalValue: extVal,
			InternalValue: inVal,
			Severity:      sev,
			Note:          note,
		})
	}

	if utils.NormalizeRef(ext.BookingRef) != utils.NormalizeRef(in.BookingRef) {
		note := ""
		if strings.TrimSpace(in.BookingRef) == "" {
			note = "booking reference not extracted"
		}
		add(entity.FieldBookingRef, ext.BookingRef, in.BookingRef, entity.SeverityHigh, note)
	}

	if sim := e.similarity(utils.NormalizeName(ext.CustomerName), utils.NormalizeName(in.CustomerName)); sim < consts.NameMismatchThreshold {
		sev := entity.SeverityMedium
		if sim < consts.NameHighSeverityThreshold {
			sev = entity.SeverityHigh
		}
		add(entity.FieldCustomerName, ext.CustomerName, in.CustomerName, sev, nameDiagnostic(ext.CustomerName, in.CustomerName))
	}

	if ext.CustomerEmail != "" && in.CustomerEmail != "" && !utils.IsPlaceholderEmail(in.CustomerEmail) &&
		utils.NormalizeEmail(ext.CustomerEmail) != utils.NormalizeEmail(in.CustomerEmail) {
		add(entity.FieldCustomerEmail, ext.CustomerEmail, in.CustomerEmail, entity.SeverityMedium, "")
	}

	if ext.PhoneNumber != "" && in.PhoneNumber != "" {
		extPhone, inPhone := e.cfg.NormalizePhone(ext.PhoneNumber), e.cfg.NormalizePhone(in.PhoneNumber)
		if extPhone != "" && inPhone != "" && extPhone != inPhone {
			add(entity.FieldPhoneNumber, ext.PhoneNumber, in.PhoneNumber, entity.SeverityLow, "")
		}
	}

	if !utils.SameDate(ext.TourDate, in.TourDate) {
		add(entity.FieldTourDate, dateValue(ext.TourDate), dateValue(in.TourDate), entity.SeverityHigh, "")
	}

	if e.similarity(ext.TourName, in.TourName) < consts.TourMismatchThreshold {
		add(entity.FieldTourName, ext.TourName, in.TourName, entity.SeverityMedium, "")
	}

	if priceDiffers(ext.TotalPrice, in.TotalPrice) {
		if in.TotalPrice.IsZero() {
			add(entity.FieldTotalPrice, ext.TotalPrice.String(), in.TotalPrice.String(), entity.SeverityLow, priceNotExtractedNote)
		} else {
			add(entity.FieldTotalPrice, ext.TotalPrice.String(), in.TotalPrice.String(), entity.SeverityHigh, "")
		}
	}

	if !strings.EqualFold(strings.TrimSpace(ext.Currency), strings.TrimSpace(in.Currency)) {
		add(entity.FieldCurrency, ext.Currency, in.Currency, entity.SeverityMedium, "")
	}

	if ext.NumberOfAdult != in.NumberOfAdult {
		add(entity.FieldNumberOfAdult, strconv.Itoa(ext.NumberOfAdult), strconv.Itoa(in.NumberOfAdult), entity.SeverityHigh, "")
	}

	// zero children means unspecified
	if ext.NumberOfChild != 0 && in.NumberOfChild != 0 && ext.NumberOfChild != in.NumberOfChild {
		add(entity.FieldNumberOfChild, strconv.Itoa(ext.NumberOfChild), strconv.Itoa(in.NumberOfChild), entity.SeverityMedium, "")
	}

	return diffs
}

// priceDiffers applies a tolerance of max(1% of the external price, one unit).
func priceDiffers(ext, in decimal.Decimal) bool {
	tolerance := decimal.Max(ext.Abs().Mul(priceTolerancePercent), priceToleranceMinimum)
	return ext.Sub(in).Abs().GreaterThan(tolerance)
}

func dateValue(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return utils.DateKey(t)
}

// nameDiagnostic recognizes name shapes typically produced by a parser defect.
func nameDiagnostic(external, internal string) string {
	ext := utils.NormalizeName(external)
	in := utils.CollapseSpaces(strings.ToLower(strings.TrimSpace(internal)))

	switch {
	case in == "":
		return "customer name not extracted"
	case strings.Contains(in, "@"):
		return "email address captured as customer name"
	case strings.Contains(in, ","):
		return `name stored as "Last, First"`
	case reversedTokens(ext, in):
		return "first and last name reversed"
	case ext != in && strings.HasPrefix(ext, in):
		return "customer name truncated"
	}
	return ""
}

func reversedTokens(a, b string) bool {
	ta, tb := strings.Fields(a), strings.Fields(b)
	if len(ta) < 2 || len(ta) != len(tb) {
		return false
	}
	for i := range ta {
		if ta[i] != tb[len(tb)-1-i] {
			return false
		}
	}
	return true
}
