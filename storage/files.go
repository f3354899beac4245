// Package storage handles the on-disk side of proof uploads and export
// downloads: generated filenames, extension whitelisting, and traversal-safe
// path resolution.
package storage

import (
	"errors"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var (
	// ErrUnsupportedFileType signals an upload outside the image/PDF whitelist.
	ErrUnsupportedFileType = errors.New("storage: unsupported file type")
	// ErrUnsafeFilename signals a filename containing path separators or
	// traversal sequences.
	ErrUnsafeFilename = errors.New("storage: unsafe filename")
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".pdf":  true,
}

// AllowedFile reports whether the filename carries a permitted extension.
func AllowedFile(filename string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// ProofFilename builds a collision-resistant stored name for an upload:
// uuid hex prefix plus the sanitized original base name.
func ProofFilename(original string) string {
	base := sanitizeBase(filepath.Base(original))
	return fmt.Sprintf("%s_%s", strings.ReplaceAll(uuid.NewString(), "-", ""), base)
}

func sanitizeBase(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "file"
	}
	return b.String()
}

// SaveProofs writes each uploaded file into dir under a generated name and
// returns the stored filenames. On any failure the files written so far are
// removed, so the caller never has to clean up a partial batch.
func SaveProofs(c *gin.Context, files []*multipart.FileHeader, dir string, maxBytes int64) ([]string, error) {
	var saved []string
	cleanup := func() {
		for _, name := range saved {
			os.Remove(filepath.Join(dir, name))
		}
	}

	for _, fh := range files {
		if !AllowedFile(fh.Filename) {
			cleanup()
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedFileType, fh.Filename)
		}
		if maxBytes > 0 && fh.Size > maxBytes {
			cleanup()
			return nil, fmt.Errorf("storage: %s exceeds upload size limit", fh.Filename)
		}

		name := ProofFilename(fh.Filename)
		if err := c.SaveUploadedFile(fh, filepath.Join(dir, name)); err != nil {
			cleanup()
			return nil, fmt.Errorf("storage: save %s: %w", fh.Filename, err)
		}
		saved = append(saved, name)
	}

	return saved, nil
}

// Remove deletes stored files from dir, ignoring ones already gone. Used to
// undo an upload batch when the database transaction fails.
func Remove(dir string, names []string) {
	for _, name := range names {
		os.Remove(filepath.Join(dir, name))
	}
}

// SafeJoin resolves filename inside dir, rejecting anything with a path
// separator or a ".." sequence regardless of whether the target exists.
func SafeJoin(dir, filename string) (string, error) {
	if filename == "" ||
		strings.Contains(filename, "..") ||
		strings.ContainsAny(filename, `/\`) ||
		filename != filepath.Base(filename) {
		return "", ErrUnsafeFilename
	}
	return filepath.Join(dir, filename), nil
}
