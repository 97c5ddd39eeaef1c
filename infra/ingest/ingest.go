// Package ingest turns external ledger exports into canonical booking records.
package ingest

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
	"github.com/radhian/booking-reconciliation/consts"
	"github.com/radhian/booking-reconciliation/entity"
	"github.com/radhian/booking-reconciliation/utils"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported input format")
	ErrNoHeader          = errors.New("input has no usable header row")
)

const (
	FormatXLSX      = "xlsx"
	FormatLegacyTSV = "tsv"
	FormatCSV       = "csv"
)

// Ingestor reads one export file into canonical records. Row problems are logged and
// counted; only a file that cannot be read at all yields an error.
type Ingestor interface {
	Ingest(path string) ([]entity.ExternalBookingRecord, entity.IngestStats, error)
}

type Options struct {
	Sheet           string
	Format          string
	DefaultCurrency string
}

func (o Options) currency() string {
	if o.DefaultCurrency == "" {
		return consts.DefaultCurrency
	}
	return strings.ToUpper(o.DefaultCurrency)
}

// ForPath picks an ingestor from the format hint, or from the file extension.
func ForPath(path string, opts Options) (Ingestor, error) {
	format := strings.ToLower(opts.Format)
	if format == "" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".xlsx", ".xlsm", ".xltx":
			format = FormatXLSX
		case ".tsv", ".txt":
			format = FormatLegacyTSV
		case ".csv":
			format = FormatCSV
		}
	}

	switch format {
	case FormatXLSX:
		return NewXLSXIngestor(opts), nil
	case FormatLegacyTSV:
		return NewLegacyTSVIngestor(opts), nil
	case FormatCSV:
		return NewCSVIngestor(opts), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

var validate = validator.New()

// tableParser converts header-driven rows into records.
type tableParser struct {
	tag      string
	opts     Options
	header   headerIndex
	checkLen bool
	stats    entity.IngestStats
}

func newTableParser(tag string, header []string, opts Options, checkLen bool) (*tableParser, error) {
	h := newHeaderIndex(header)
	var missing []string
	if !h.has(colBookingRef) {
		missing = append(missing, colBookingRef)
	}
	if !h.has(colCustomerName) && !h.has(colFirstName) {
		missing = append(missing, colCustomerName)
	}
	if !h.has(colTourDate) {
		missing = append(missing, colTourDate)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing columns %s", ErrNoHeader, strings.Join(missing, ", "))
	}
	return &tableParser{tag: tag, opts: opts, header: h, checkLen: checkLen}, nil
}

// requiredWidth is the number of cells a row needs to reach every required column.
func (p *tableParser) requiredWidth() int {
	width := 0
	for _, field := range []string{colBookingRef, colCustomerName, colTourDate} {
		cols := p.header.columns(field)
		if len(cols) == 0 {
			continue
		}
		first := cols[0]
		for _, c := range cols {
			if c < first {
				first = c
			}
		}
		if first+1 > width {
			width = first + 1
		}
	}
	return width
}

func (p *tableParser) parseRows(rows [][]string, firstRowNumber int) []entity.ExternalBookingRecord {
	records := make([]entity.ExternalBookingRecord, 0, len(rows))
	width := p.requiredWidth()

	for i, cells := range rows {
		rowNumber := firstRowNumber + i
		if isBlank(cells) {
			continue
		}
		p.stats.RowsRead++

		if p.checkLen && len(cells) < width {
			log.Warnf("[%s] Skipping row %d: short row (%d cells, need %d)", p.tag, rowNumber, len(cells), width)
			p.stats.DroppedShortRow++
			continue
		}

		record, ok := p.parseRow(rowNumber, cells)
		if !ok {
			continue
		}
		records = append(records, record)
		p.stats.RowsAccepted++
	}

	log.Infof("[%s] Parsed %d bookings from %d rows (dropped: %d missing required, %d bad date, %d short)",
		p.tag, p.stats.RowsAccepted, p.stats.RowsRead,
		p.stats.DroppedMissingData, p.stats.DroppedBadDate, p.stats.DroppedShortRow)
	return records
}

func (p *tableParser) parseRow(rowNumber int, cells []string) (entity.ExternalBookingRecord, bool) {
	value := func(field string) string {
		v, _ := p.header.value(field, cells)
		return v
	}

	name := value(colCustomerName)
	if name == "" {
		name = utils.CollapseSpaces(value(colFirstName) + " " + value(colLastName))
	}

	record := entity.ExternalBookingRecord{
		BookingRef:    value(colBookingRef),
		CustomerName:  name,
		CustomerEmail: value(colCustomerEmail),
		PhoneNumber:   value(colPhoneNumber),
		TourName:      value(colTourName),
		Source:        utils.ClassifyChannel(value(colSource)),
		MeetingPoint:  value(colMeetingPoint),
		Note:          value(colNote),
		NumberOfAdult: 1,
		RowNumber:     rowNumber,
		RawRow:        p.header.raw(cells),
	}

	if err := validate.Struct(record); err != nil {
		log.Warnf("[%s] Skipping row %d: missing booking reference or customer name", p.tag, rowNumber)
		p.stats.DroppedMissingData++
		return record, false
	}

	rawDate := value(colTourDate)
	tourDate, ok := parseDate(rawDate)
	if !ok {
		log.Warnf("[%s] Skipping row %d (%s): invalid tour date %q", p.tag, rowNumber, record.BookingRef, rawDate)
		p.stats.DroppedBadDate++
		return record, false
	}
	record.TourDate = tourDate

	rawPrice := value(colTotalPrice)
	if price, ok := parseAmount(rawPrice); ok {
		record.TotalPrice = price
	}

	record.Currency = strings.ToUpper(value(colCurrency))
	if record.Currency == "" {
		record.Currency = detectCurrency(rawPrice)
	}
	if record.Currency == "" {
		record.Currency = p.opts.currency()
	}

	if adults, ok := parseCount(value(colNumberOfAdult)); ok {
		record.NumberOfAdult = adults
	}
	if children, ok := parseCount(value(colNumberOfChild)); ok {
		record.NumberOfChild = children
	}

	return record, true
}

// headerRow returns the index of the first non-blank row.
func headerRow(rows [][]string) int {
	for i, r := range rows {
		if !isBlank(r) {
			return i
		}
	}
	return -1
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
