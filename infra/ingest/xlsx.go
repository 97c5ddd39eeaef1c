package ingest

import (
	"fmt"

	"github.com/labstack/gommon/log"
	"github.com/radhian/booking-reconciliation/entity"
	"github.com/xuri/excelize/v2"
)

// XLSXIngestor reads a workbook sheet whose first non-blank row is the header.
type XLSXIngestor struct {
	opts Options
}

func NewXLSXIngestor(opts Options) *XLSXIngestor {
	return &XLSXIngestor{opts: opts}
}

func (x *XLSXIngestor) Ingest(path string) ([]entity.ExternalBookingRecord, entity.IngestStats, error) {
	log.Infof("[XLSXIngestor] Reading workbook: %s", path)

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, entity.IngestStats{}, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer f.Close()

	sheet := x.opts.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, entity.IngestStats{}, fmt.Errorf("%w: workbook %s has no sheets", ErrNoHeader, path)
		}
		sheet = sheets[0]
	}

	// Raw values keep date cells as serial day numbers instead of locale-formatted text.
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, entity.IngestStats{}, fmt.Errorf("unable to read sheet %q: %w", sheet, err)
	}

	h := headerRow(rows)
	if h < 0 {
		return nil, entity.IngestStats{}, fmt.Errorf("%w: sheet %q is empty", ErrNoHeader, sheet)
	}

	parser, err := newTableParser("XLSXIngestor", rows[h], x.opts, false)
	if err != nil {
		return nil, entity.IngestStats{}, err
	}

	// spreadsheet rows are 1-based
	records := parser.parseRows(rows[h+1:], h+2)
	return records, parser.stats, nil
}
