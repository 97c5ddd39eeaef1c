package artifact

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/labstack/gommon/log"
	"github.com/radhian/booking-reconciliation/consts"
	"github.com/radhian/booking-reconciliation/entity"
)

// Artifact is one file written for a run.
type Artifact struct {
	Kind     int64  `json:"kind"`
	FileName string `json:"file_name"`
	Path     string `json:"path"`
}

type Writer interface {
	// WriteAll stages every file before moving any into place, so a failure leaves no
	// partial set behind.
	WriteAll(outputDir string, external []entity.ExternalBookingRecord, report entity.Report) ([]Artifact, error)
}

type writer struct{}

func NewWriter() Writer {
	return &writer{}
}

type stagedFile struct {
	artifact Artifact
	tempPath string
}

func (w *writer) WriteAll(outputDir string, external []entity.ExternalBookingRecord, report entity.Report) ([]Artifact, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
	}

	if external == nil {
		external = []entity.ExternalBookingRecord{}
	}

	type job struct {
		kind  int64
		name  string
		write func(io.Writer) error
	}
	jobs := []job{
		{consts.ArtifactExternalDump, consts.ExternalDumpFile, jsonWriter(external)},
		{consts.ArtifactReport, consts.ReportFile, jsonWriter(report)},
	}
	if len(report.PRReview) > 0 {
		jobs = append(jobs, job{consts.ArtifactPRReview, consts.PRReviewFile, jsonWriter(entity.PRReviewFile{
			GeneratedAt: report.Metadata.GeneratedAt,
			TotalItems:  len(report.PRReview),
			Items:       report.PRReview,
		})})
	}
	jobs = append(jobs, job{consts.ArtifactWorkbook, consts.WorkbookFile, func(out io.Writer) error {
		return writeWorkbook(out, report)
	}})

	staged := make([]stagedFile, 0, len(jobs))
	cleanup := func() {
		for _, s := range staged {
			os.Remove(s.tempPath)
		}
	}

	for _, j := range jobs {
		tmp, err := stage(outputDir, j.name, j.write)
		if err != nil {
			cleanup()
			return nil, fmt.Errorf("failed to write %s: %w", j.name, err)
		}
		staged = append(staged, stagedFile{
			artifact: Artifact{Kind: j.kind, FileName: j.name, Path: filepath.Join(outputDir, j.name)},
			tempPath: tmp,
		})
	}

	artifacts := make([]Artifact, 0, len(staged))
	for i, s := range staged {
		if err := os.Rename(s.tempPath, s.artifact.Path); err != nil {
			for _, rest := range staged[i:] {
				os.Remove(rest.tempPath)
			}
			return artifacts, fmt.Errorf("failed to move %s into place: %w", s.artifact.FileName, err)
		}
		artifacts = append(artifacts, s.artifact)
		log.Infof("[ArtifactWriter] Wrote %s", s.artifact.Path)
	}

	// a review file from an earlier run must not sit next to this run's report
	if len(report.PRReview) == 0 {
		stale := filepath.Join(outputDir, consts.PRReviewFile)
		if err := os.Remove(stale); err != nil && !os.IsNotExist(err) {
			return artifacts, fmt.Errorf("failed to remove stale %s: %w", consts.PRReviewFile, err)
		}
	}

	return artifacts, nil
}

// stage writes a temp file next to its final name and returns the temp path.
func stage(dir, name string, write func(io.Writer) error) (string, error) {
	f, err := os.CreateTemp(dir, "."+name+"-*")
	if err != nil {
		return "", err
	}

	if err := write(f); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

func jsonWriter(v interface{}) func(io.Writer) error {
	return func(out io.Writer) error {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
}
