// Package attachments stores uploaded file bytes on disk under generated
// names. Entries are written once and never deleted.
package attachments

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned by Resolve when no attachment exists under the
// given name.
var ErrNotFound = errors.New("attachment not found")

type Store struct {
	dir string
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create attachment directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Put writes the bytes under a generated name and returns that name. The
// name keeps the original extension; the uuid component keeps two uploads
// landing on the same millisecond from colliding.
func (s *Store) Put(r io.Reader, originalName string) (string, error) {
	ext := filepath.Ext(originalName)
	name := fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), uuid.New().String(), ext)

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create attachment file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		return "", fmt.Errorf("failed to write attachment: %w", err)
	}
	return name, nil
}

// Resolve returns the on-disk path of a stored attachment for serving.
// Names that try to escape the storage directory resolve to nothing.
func (s *Store) Resolve(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", ErrNotFound
	}
	path := filepath.Join(s.dir, name)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to stat attachment: %w", err)
	}
	return path, nil
}
