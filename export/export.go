// Package export materializes filtered query results into downloadable
// files, grouped by campaign, and records one audit row per generated file.
package export

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"collections-backend/models"
	"collections-backend/store"
)

// Kind selects what gets exported.
type Kind string

const (
	KindCampaign Kind = "campaign" // payment records
	KindDispute  Kind = "dispute"  // fully approved disputes
)

// Format selects the file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

var (
	ErrUnknownKind   = errors.New("export: unknown export kind")
	ErrUnknownFormat = errors.New("export: unknown export format")
)

// Engine runs exports end to end: query, file write, audit row. The file is
// written first; if the audit row cannot be committed the file is removed so
// no orphan ever exists on either side.
type Engine struct {
	store *store.Store
	dir   string
	log   *slog.Logger
	now   func() time.Time
}

func NewEngine(st *store.Store, dir string, log *slog.Logger) *Engine {
	return &Engine{store: st, dir: dir, log: log, now: time.Now}
}

// Request carries one export invocation.
type Request struct {
	Kind           Kind
	Format         Format
	Campaign       string // only meaningful for KindCampaign
	StartDate      *time.Time
	EndDate        *time.Time
	IncludeHeaders bool
	RequestedBy    string
}

// Result describes a completed export.
type Result struct {
	Filename    string `json:"filename"`
	Path        string `json:"-"`
	RecordCount int    `json:"record_count"`
}

// Run executes the export and appends its ExportHistory row.
func (e *Engine) Run(req Request) (Result, error) {
	if req.Format != FormatCSV && req.Format != FormatXLSX {
		return Result{}, ErrUnknownFormat
	}

	var (
		data  []byte
		count int
		err   error
	)
	switch req.Kind {
	case KindCampaign:
		var records []models.PaymentRecord
		records, err = e.store.PaymentsForExport(req.Campaign, req.StartDate, req.EndDate)
		if err != nil {
			return Result{}, err
		}
		count = len(records)
		if req.Format == FormatXLSX {
			data, err = BuildPaymentWorkbook(records, req.IncludeHeaders)
		} else {
			data, err = BuildPaymentCSV(records, req.IncludeHeaders)
		}
	case KindDispute:
		var disputes []models.Dispute
		disputes, err = e.store.ApprovedDisputesForExport(req.StartDate, req.EndDate)
		if err != nil {
			return Result{}, err
		}
		count = len(disputes)
		if req.Format == FormatXLSX {
			data, err = BuildDisputeWorkbook(disputes, req.IncludeHeaders)
		} else {
			data, err = BuildDisputeCSV(disputes, req.IncludeHeaders)
		}
	default:
		return Result{}, ErrUnknownKind
	}
	if err != nil {
		return Result{}, err
	}

	filename := e.filename(req)
	path := filepath.Join(e.dir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return Result{}, fmt.Errorf("export: write %s: %w", filename, err)
	}

	history := models.ExportHistory{
		ExportType:  string(req.Kind),
		Campaign:    req.Campaign,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		RecordCount: count,
		Filename:    filename,
		CreatedBy:   req.RequestedBy,
	}
	if req.Kind != KindCampaign {
		history.Campaign = ""
	}
	if err := e.store.AddExportHistory(&history); err != nil {
		os.Remove(path)
		return Result{}, err
	}

	e.log.Info("export completed",
		"kind", req.Kind,
		"format", req.Format,
		"filename", filename,
		"rows", count,
		"requested_by", req.RequestedBy,
	)

	return Result{Filename: filename, Path: path, RecordCount: count}, nil
}

// filename encodes the kind and requested campaign plus a timestamp suffix
// so concurrent exports never collide and operators can audit files by name.
func (e *Engine) filename(req Request) string {
	ts := e.now().Format("20060102150405")
	if req.Kind == KindDispute {
		return fmt.Sprintf("validated_disputes_%s.%s", ts, req.Format)
	}
	campaign := req.Campaign
	if campaign == "" {
		campaign = "all"
	}
	return fmt.Sprintf("%s_records_%s.%s", sanitizeFileToken(campaign), ts, req.Format)
}

func sanitizeFileToken(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			out = append(out, r)
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}
