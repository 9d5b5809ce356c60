package uploads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/bookstore/internal/filex"
)

var errBadKey = errors.New("uploads: invalid key")

// LocalStorage writes objects into a directory and serves them under
// urlPrefix (the HTTP layer mounts the directory there).
type LocalStorage struct {
	dir       string
	urlPrefix string
}

func NewLocalStorage(dir, urlPrefix string) (*LocalStorage, error) {
	abs, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, err
	}
	return &LocalStorage{dir: abs, urlPrefix: strings.TrimRight(urlPrefix, "/") + "/"}, nil
}

// Dir is the absolute directory objects are written to.
func (l *LocalStorage) Dir() string {
	return l.dir
}

func (l *LocalStorage) Save(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	if !validKey(key) {
		return errBadKey
	}
	if _, err := filex.WriteFile(l.dir, key, r); err != nil {
		return fmt.Errorf("uploads: save %s: %w", key, err)
	}
	return nil
}

func (l *LocalStorage) URL(_ context.Context, key string) (string, error) {
	if !validKey(key) {
		return "", errBadKey
	}
	return l.urlPrefix + key, nil
}

func (l *LocalStorage) Delete(_ context.Context, key string) error {
	if !validKey(key) {
		return errBadKey
	}
	err := os.Remove(filepath.Join(l.dir, key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("uploads: delete %s: %w", key, err)
	}
	return nil
}

// validKey rejects keys that could escape the upload directory.
func validKey(key string) bool {
	return key != "" && SecureFilename(key) == key
}
