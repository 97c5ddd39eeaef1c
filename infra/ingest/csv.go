package ingest

import (
	"fmt"
	"os"

	"github.com/labstack/gommon/log"
	"github.com/radhian/booking-reconciliation/entity"
)

// CSVIngestor reads a comma-separated export with the header on the first line.
type CSVIngestor struct {
	opts Options
}

func NewCSVIngestor(opts Options) *CSVIngestor {
	return &CSVIngestor{opts: opts}
}

func (c *CSVIngestor) Ingest(path string) ([]entity.ExternalBookingRecord, entity.IngestStats, error) {
	log.Infof("[CSVIngestor] Reading file: %s", path)

	file, err := os.Open(path)
	if err != nil {
		return nil, entity.IngestStats{}, fmt.Errorf("failed to open csv %s: %w", path, err)
	}
	defer file.Close()

	return readDelimited(skipBOM(file), ',', "CSVIngestor", c.opts, 1)
}
