// Package store is the data access layer. Handlers never touch gorm
// directly; every query and multi-step mutation lives here so the
// transactional units are explicit.
package store

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrRecordNotFound  = errors.New("store: payment record not found")
	ErrDisputeNotFound = errors.New("store: dispute not found")
	ErrExportNotFound  = errors.New("store: export not found")
	// ErrRecordDisputed signals a delete refused because disputes still
	// reference the record.
	ErrRecordDisputed = errors.New("store: record is referenced by disputes")
)

type Store struct {
	db       *gorm.DB
	pageSize int
}

func New(db *gorm.DB, pageSize int) *Store {
	if pageSize <= 0 {
		pageSize = 20
	}
	return &Store{db: db, pageSize: pageSize}
}

// Pagination describes one page of a result set.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalRows  int64 `json:"total_rows"`
	TotalPages int   `json:"total_pages"`
}

func (s *Store) paginate(total int64, page int) Pagination {
	pages := int((total + int64(s.pageSize) - 1) / int64(s.pageSize))
	return Pagination{Page: page, PageSize: s.pageSize, TotalRows: total, TotalPages: pages}
}
