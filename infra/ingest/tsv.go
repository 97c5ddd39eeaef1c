package ingest

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/labstack/gommon/log"
	"github.com/radhian/booking-reconciliation/entity"
)

// Legacy back-office export: a title line and a blank line precede the header row.
const legacyPreambleLines = 2

type LegacyTSVIngestor struct {
	opts Options
}

func NewLegacyTSVIngestor(opts Options) *LegacyTSVIngestor {
	return &LegacyTSVIngestor{opts: opts}
}

func (l *LegacyTSVIngestor) Ingest(path string) ([]entity.ExternalBookingRecord, entity.IngestStats, error) {
	log.Infof("[LegacyTSVIngestor] Reading export: %s", path)

	file, err := os.Open(path)
	if err != nil {
		return nil, entity.IngestStats{}, fmt.Errorf("failed to open export %s: %w", path, err)
	}
	defer file.Close()

	br := bufio.NewReader(file)
	for i := 0; i < legacyPreambleLines; i++ {
		line, err := br.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, entity.IngestStats{}, fmt.Errorf("failed to read preamble of %s: %w", path, err)
		}
		line = strings.TrimPrefix(line, utf8BOM)
		if i == 0 {
			log.Debugf("[LegacyTSVIngestor] Export title: %s", strings.TrimSpace(line))
		}
		if i == legacyPreambleLines-1 && strings.TrimSpace(line) != "" {
			return nil, entity.IngestStats{}, fmt.Errorf("%w: %s lacks the blank line after the title", ErrNoHeader, path)
		}
	}

	return readDelimited(br, '\t', "LegacyTSVIngestor", l.opts, legacyPreambleLines+1)
}

const utf8BOM = "\uFEFF"

// skipBOM drops a leading UTF-8 byte order mark written by spreadsheet exports.
func skipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if b, err := br.Peek(3); err == nil && string(b) == utf8BOM {
		br.Discard(3)
	}
	return br
}

// readDelimited parses a header row followed by data rows. headerLine is the 1-based line of the header.
func readDelimited(r io.Reader, comma rune, tag string, opts Options, headerLine int) ([]entity.ExternalBookingRecord, entity.IngestStats, error) {
	reader := csv.NewReader(r)
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, entity.IngestStats{}, fmt.Errorf("failed to read %s rows: %w", tag, err)
	}
	if len(rows) == 0 {
		return nil, entity.IngestStats{}, fmt.Errorf("%w: no header row", ErrNoHeader)
	}

	parser, err := newTableParser(tag, rows[0], opts, true)
	if err != nil {
		return nil, entity.IngestStats{}, err
	}

	records := parser.parseRows(rows[1:], headerLine+1)
	return records, parser.stats, nil
}
