package handlers

import (
	"errors"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"

	"collections-backend/export"
	"collections-backend/middleware"
	"collections-backend/storage"
	"collections-backend/store"
)

type exportInput struct {
	ExportType     string `json:"export_type" binding:"required"`
	Format         string `json:"format"`
	Campaign       string `json:"campaign"`
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date"`
	IncludeHeaders *bool  `json:"include_headers"`
}

// RunExport generates an export file, records its audit row and returns the
// file as a download.
func (h *Handler) RunExport(c *gin.Context) {
	var input exportInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "export_type is required")
		return
	}

	startDate, err := h.parseDate(input.StartDate)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	endDate, err := h.parseDate(input.EndDate)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	format := export.Format(input.Format)
	if input.Format == "" {
		format = export.FormatXLSX
	}

	includeHeaders := true
	if input.IncludeHeaders != nil {
		includeHeaders = *input.IncludeHeaders
	}

	req := export.Request{
		Kind:           export.Kind(input.ExportType),
		Format:         format,
		Campaign:       input.Campaign,
		StartDate:      startDate,
		EndDate:        endDate,
		IncludeHeaders: includeHeaders,
		RequestedBy:    middleware.Username(c),
	}

	result, err := h.engine.Run(req)
	if err != nil {
		switch {
		case errors.Is(err, export.ErrUnknownKind):
			badRequest(c, "export_type must be campaign or dispute")
		case errors.Is(err, export.ErrUnknownFormat):
			badRequest(c, "format must be csv or xlsx")
		default:
			serverError(c, h.log, "run export", err)
		}
		return
	}

	c.Header("X-Record-Count", strconv.Itoa(result.RecordCount))
	c.FileAttachment(result.Path, result.Filename)
}

// ExportHistoryList returns the recent export audit rows.
func (h *Handler) ExportHistoryList(c *gin.Context) {
	history, err := h.store.RecentExports(10)
	if err != nil {
		serverError(c, h.log, "export history", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": history})
}

// DownloadExport re-serves a previously generated file by its recorded
// filename. The filename is checked for traversal before anything else, and
// only filenames present in the export history are ever served.
func (h *Handler) DownloadExport(c *gin.Context) {
	filename := c.Param("filename")

	path, err := storage.SafeJoin(h.cfg.ExportDir, filename)
	if err != nil {
		badRequest(c, "invalid filename")
		return
	}

	record, err := h.store.GetExportByFilename(filename)
	if err != nil {
		if errors.Is(err, store.ErrExportNotFound) {
			notFound(c, "no export recorded under that filename")
			return
		}
		serverError(c, h.log, "download export", err)
		return
	}

	if _, err := os.Stat(path); err != nil {
		notFound(c, "export file no longer exists on disk")
		return
	}

	c.FileAttachment(path, record.Filename)
}
