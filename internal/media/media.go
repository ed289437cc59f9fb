// Package media stores uploaded post images on local disk.
package media

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"

	"github.com/google/uuid"
)

// MaxImageSize is the largest accepted upload in bytes.
const MaxImageSize = 5 << 20

var (
	ErrUnsupportedType = errors.New("upload a valid image: gif, png, jpeg or webp")
	ErrTooLarge        = errors.New("image is larger than 5 MB")
)

// Sniffed content types and the extension files are saved with.
var extensions = map[string]string{
	"image/gif":  ".gif",
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
}

// Store saves images below root. Saved names are relative to root and
// use forward slashes, so they double as URL paths under /media/.
type Store struct {
	root string
}

// NewStore creates the upload directory if needed.
func NewStore(root string) (*Store, error) {
	if err := os.MkdirAll(filepath.Join(root, "posts"), 0755); err != nil {
		return nil, fmt.Errorf("failed to create media directory: %w", err)
	}
	return &Store{root: root}, nil
}

// Root returns the directory served at /media/.
func (s *Store) Root() string {
	return s.root
}

// SaveImage validates r as an image and writes it to posts/<uuid><ext>.
// It returns the stored relative name.
func (s *Store) SaveImage(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImageSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	if len(data) > MaxImageSize {
		return "", ErrTooLarge
	}

	ext, ok := extensions[http.DetectContentType(data)]
	if !ok {
		return "", ErrUnsupportedType
	}

	name := path.Join("posts", uuid.NewString()+ext)
	dst := filepath.Join(s.root, filepath.FromSlash(name))
	if err := os.WriteFile(dst, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	return name, nil
}

// Remove deletes a stored image. A missing file is not an error.
func (s *Store) Remove(name string) error {
	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(path.Clean("/" + name))))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Handler serves stored files. Directories are reported as missing so the
// upload tree is never listed.
func (s *Store) Handler() http.Handler {
	return http.FileServer(filesOnly{http.Dir(s.root)})
}

type filesOnly struct {
	http.FileSystem
}

func (f filesOnly) Open(name string) (http.File, error) {
	file, err := f.FileSystem.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}
	if info.IsDir() {
		file.Close()
		return nil, fs.ErrNotExist
	}
	return file, nil
}
