// Package handlers exposes the HTTP surfaces: authentication, payment
// entry/search, the two dispute review stages, and exports. Role gating is
// applied by route-group middleware before any handler here runs; handlers
// only translate between HTTP and the store/workflow/export layers.
package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"collections-backend/config"
	"collections-backend/export"
	"collections-backend/store"
)

type Handler struct {
	cfg    config.Config
	log    *slog.Logger
	store  *store.Store
	engine *export.Engine
}

func New(cfg config.Config, log *slog.Logger, st *store.Store, engine *export.Engine) *Handler {
	return &Handler{cfg: cfg, log: log, store: st, engine: engine}
}

// idParam parses a numeric path parameter.
func idParam(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return uint(id), nil
}

const dateLayout = "2006-01-02"

// parseDate interprets a query date value. In lenient mode a malformed
// value drops the predicate; in strict mode it is a validation error.
func (h *Handler) parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		if h.cfg.StrictFilters {
			return nil, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
		}
		return nil, nil
	}
	return &t, nil
}

// parseAmount interprets a query amount value with the same leniency rules.
func (h *Handler) parseAmount(value string) (*float64, error) {
	if value == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		if h.cfg.StrictFilters {
			return nil, fmt.Errorf("invalid amount %q", value)
		}
		return nil, nil
	}
	return &f, nil
}

func pageQuery(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

func notFound(c *gin.Context, msg string) {
	c.JSON(http.StatusNotFound, gin.H{"error": msg})
}

func serverError(c *gin.Context, log *slog.Logger, op string, err error) {
	log.Error(op, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": op + " failed"})
}
