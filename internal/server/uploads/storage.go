// Package uploads stores user-supplied files (profile pictures) on local
// disk or in an S3-compatible bucket.
package uploads

import (
	"context"
	"io"
	"path"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Storage saves and serves uploaded objects by key.
type Storage interface {
	Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	// URL returns an address a browser can fetch the object from.
	URL(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]+`)

// SecureFilename reduces a client-supplied filename to a safe base name:
// directories are stripped, runs of anything outside [A-Za-z0-9_.-] become
// one underscore and leading dots or underscores are dropped. The result
// may be empty.
func SecureFilename(name string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	name = path.Base(name)
	if name == "." || name == "/" {
		return ""
	}
	name = unsafeChars.ReplaceAllString(name, "_")
	return strings.TrimLeft(name, "._")
}

// NewKey returns a collision-free storage key for an uploaded file.
func NewKey(filename string) string {
	safe := SecureFilename(filename)
	if safe == "" {
		safe = "upload"
	}
	return uuid.NewString() + "_" + safe
}
