package ingest

import (
	"strconv"
	"strings"
	"unicode"
)

const (
	colBookingRef    = "bookingRef"
	colCustomerName  = "customerName"
	colFirstName     = "firstName"
	colLastName      = "lastName"
	colCustomerEmail = "customerEmail"
	colPhoneNumber   = "phoneNumber"
	colTourDate      = "tourDate"
	colTourName      = "tourName"
	colTotalPrice    = "totalPrice"
	colCurrency      = "currency"
	colSource        = "source"
	colNumberOfAdult = "numberOfAdult"
	colNumberOfChild = "numberOfChild"
	colMeetingPoint  = "meetingPoint"
	colNote          = "note"
)

// columnAliases lists acceptable header names per field, most specific first.
// The legacy back-office export headers are included.
var columnAliases = map[string][]string{
	colBookingRef: {
		"booking ref", "booking reference", "bookingref", "booking id", "booking no", "booking number",
		"confirmation code", "confirmation number", "reference", "ref", "order id", "kode booking",
	},
	colCustomerName: {
		"customer name", "guest name", "lead traveler", "lead traveller", "traveler name", "traveller name",
		"full name", "customer", "guest", "name", "nama",
	},
	colFirstName: {"first name", "firstname", "given name"},
	colLastName:  {"last name", "lastname", "surname", "family name"},
	colCustomerEmail: {
		"customer email", "guest email", "email address", "email", "e mail",
	},
	colPhoneNumber: {
		"phone number", "customer phone", "phone", "mobile", "whatsapp", "contact number", "telephone", "tel",
	},
	colTourDate: {
		"tour date", "activity date", "travel date", "service date", "trip date", "date", "tanggal",
	},
	colTourName: {
		"tour name", "product name", "activity name", "tour", "product", "activity", "package", "option",
	},
	colTotalPrice: {
		"total price", "total amount", "net price", "price", "total", "amount", "gross", "harga",
	},
	colCurrency: {"currency", "curr", "ccy"},
	colSource: {
		"source", "booking source", "sales channel", "channel", "platform", "ota",
	},
	colNumberOfAdult: {
		"number of adults", "adults", "adult", "pax adult", "no of adult", "pax",
	},
	colNumberOfChild: {
		"number of children", "children", "child", "kids", "pax child", "no of child",
	},
	colMeetingPoint: {
		"meeting point", "pickup location", "pickup point", "pickup", "pick up", "hotel",
	},
	colNote: {"note", "notes", "remarks", "special requests", "comments", "comment"},
}

// headerIndex maps normalized header names to their column position.
type headerIndex struct {
	names     []string
	positions map[string]int
}

func newHeaderIndex(header []string) headerIndex {
	h := headerIndex{
		names:     make([]string, len(header)),
		positions: make(map[string]int, len(header)),
	}
	for i, name := range header {
		h.names[i] = strings.TrimSpace(name)
		key := normalizeHeader(name)
		if key == "" {
			continue
		}
		if _, exists := h.positions[key]; !exists {
			h.positions[key] = i
		}
	}
	return h
}

// columns returns the positions of every alias of field present in the header, in alias order.
func (h headerIndex) columns(field string) []int {
	var out []int
	for _, alias := range columnAliases[field] {
		if pos, ok := h.positions[normalizeHeader(alias)]; ok {
			out = append(out, pos)
		}
	}
	return out
}

func (h headerIndex) has(field string) bool {
	return len(h.columns(field)) > 0
}

// value resolves field to the first non-empty cell among its aliases.
func (h headerIndex) value(field string, cells []string) (string, int) {
	for _, pos := range h.columns(field) {
		if pos < len(cells) {
			if v := strings.TrimSpace(cells[pos]); v != "" {
				return v, pos
			}
		}
	}
	return "", -1
}

// raw keeps the original row keyed by its header for audit.
func (h headerIndex) raw(cells []string) map[string]string {
	out := make(map[string]string, len(cells))
	for i, v := range cells {
		key := ""
		if i < len(h.names) {
			key = h.names[i]
		}
		if key == "" {
			key = "column_" + strconv.Itoa(i+1)
		}
		out[key] = v
	}
	return out
}

func normalizeHeader(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '_' || r == '-' || r == '.' || unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
