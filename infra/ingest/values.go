package ingest

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Spreadsheet serial day 0. Using 1899-12-30 absorbs both the 1-based count and the
// phantom 1900-02-29 of the classic spreadsheet calendar.
var serialEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// 9999-12-31
const maxSerialDay = 2958465

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02",
	"20060102",
	"Jan 2, 2006",
	"January 2, 2006",
	"Mon, Jan 2, 2006",
	"Monday, January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
	"02-Jan-2006",
	"02-Jan-06",
	"Mon, 2 Jan 2006",
}

var serialDatePattern = regexp.MustCompile(`^\d+(\.\d+)?$`)

var numericDatePattern = regexp.MustCompile(`^(\d{1,2})[/\-.](\d{1,2})[/\-.](\d{2,4})(?:[ T].*)?$`)

// parseDate tries, in order: native time values, spreadsheet serial days, ISO and other
// named layouts, then DD/MM/YYYY falling back to MM/DD/YYYY.
func parseDate(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, !x.IsZero()
	case float64:
		return fromSerial(x)
	case int:
		return fromSerial(float64(x))
	case string:
		return parseDateString(x)
	}
	return time.Time{}, false
}

func parseDateString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	if serialDatePattern.MatchString(s) {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			if t, ok := fromSerial(f); ok {
				return t, true
			}
		}
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	m := numericDatePattern.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}
	first, _ := strconv.Atoi(m[1])
	second, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	if len(m[3]) == 2 {
		year += 2000
	} else if len(m[3]) == 3 {
		return time.Time{}, false
	}

	if t, ok := civilDate(year, second, first); ok {
		return t, true
	}
	return civilDate(year, first, second)
}

// civilDate builds a date only when day and month survive normalization unchanged.
func civilDate(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, false
	}
	return t, true
}

func fromSerial(f float64) (time.Time, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 1 || f > maxSerialDay {
		return time.Time{}, false
	}
	days := int(f)
	frac := f - float64(days)
	t := serialEpoch.AddDate(0, 0, days)
	if frac > 0 {
		t = t.Add(time.Duration(frac * float64(24*time.Hour)).Round(time.Second))
	}
	return t, true
}

// parseAmount strips currency symbols and separators. A single separator followed by exactly
// three digits is read as a thousands separator ("150.000" IDR, "1,250" USD).
func parseAmount(s string) (decimal.Decimal, bool) {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' || r == '-' {
			b.WriteRune(r)
		}
	}
	c := strings.Trim(b.String(), ".,")
	if c == "" || c == "-" {
		return decimal.Zero, false
	}

	lastDot, lastComma := strings.LastIndex(c, "."), strings.LastIndex(c, ",")
	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			c = strings.ReplaceAll(c, ".", "")
			c = strings.Replace(c, ",", ".", 1)
		} else {
			c = strings.ReplaceAll(c, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(c, ",") == 1 && len(c)-lastComma-1 != 3 {
			c = strings.Replace(c, ",", ".", 1)
		} else {
			c = strings.ReplaceAll(c, ",", "")
		}
	case lastDot >= 0:
		if strings.Count(c, ".") > 1 || len(c)-lastDot-1 == 3 {
			c = strings.ReplaceAll(c, ".", "")
		}
	}

	d, err := decimal.NewFromString(c)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// parseCount reads a head count such as "2", "2.0" or "2 adults".
func parseCount(s string) (int, bool) {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && ((s[end] >= '0' && s[end] <= '9') || s[end] == '.') {
		end++
	}
	if end == 0 {
		return 0, false
	}
	d, err := decimal.NewFromString(strings.TrimSuffix(s[:end], "."))
	if err != nil || d.IsNegative() {
		return 0, false
	}
	return int(d.IntPart()), true
}

var currencySymbols = []struct {
	symbol   string
	currency string
}{
	{"rp", "IDR"},
	{"idr", "IDR"},
	{"us$", "USD"},
	{"au$", "AUD"},
	{"s$", "SGD"},
	{"usd", "USD"},
	{"$", "USD"},
	{"€", "EUR"},
	{"eur", "EUR"},
	{"£", "GBP"},
	{"aud", "AUD"},
	{"sgd", "SGD"},
}

// detectCurrency infers a currency code from the symbols around a price.
func detectCurrency(price string) string {
	p := strings.ToLower(price)
	for _, c := range currencySymbols {
		if strings.Contains(p, c.symbol) {
			return c.currency
		}
	}
	return ""
}
