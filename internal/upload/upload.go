// Package upload stores multipart image files on the local
// filesystem and builds the absolute URLs they are served under.
package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// fileTypes maps the accepted image content types to the extension
// stored files get.  Anything else is rejected.
var fileTypes = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpeg",
	"image/jpg":  "jpg",
}

// ErrInvalidType is returned when an uploaded file is not one of the
// accepted image content types.
var ErrInvalidType = errors.New("invalid image type")

// Store saves uploaded images under a base directory.
type Store struct{ dir string }

// NewStore creates the base directory if needed and returns a Store.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{dir: dir}, nil
}

// Dir returns the base directory, for static-route registration.
func (s *Store) Dir() string { return s.dir }

// Save writes one multipart file to disk and returns the stored file
// name.  The name keeps the sanitized original base name and gains a
// uuid suffix so concurrent uploads of the same file never collide.
func (s *Store) Save(fh *multipart.FileHeader) (string, error) {
	ext, ok := fileTypes[fh.Header.Get("Content-Type")]
	if !ok {
		return "", ErrInvalidType
	}
	base := strings.ReplaceAll(fh.Filename, " ", "-")
	base = filepath.Base(base)
	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}
	name := fmt.Sprintf("%s-%s.%s", base, uuid.NewString(), ext)

	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return name, nil
}

// URL builds the absolute URL a stored file is served under, using
// the request's scheme and host.
func (s *Store) URL(c echo.Context, name string) string {
	return fmt.Sprintf("%s://%s/public/uploads/%s", c.Scheme(), c.Request().Host, name)
}
