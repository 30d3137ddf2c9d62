package uploads

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// MaxUploadSize caps a single image upload.
const MaxUploadSize = 50 * 1024 * 1024 // 50MB

// ErrInvalidFileType is returned when the upload fails the image allow-list.
var ErrInvalidFileType = errors.New("images only (jpg, jpeg, png)")

// ErrFileTooLarge is returned when the upload exceeds MaxUploadSize.
var ErrFileTooLarge = fmt.Errorf("file too large (max %dMB)", MaxUploadSize/(1024*1024))

var (
	allowedExtensions = map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
	}

	allowedImageTypes = map[string]bool{
		"image/jpeg": true,
		"image/jpg":  true,
		"image/png":  true,
	}
)

// Store writes uploaded images into a content directory and derives the
// public path they are served under.
type Store struct {
	dir          string
	publicPrefix string
}

// NewStore creates the content directory if needed. publicPrefix is the URL
// prefix the directory is served under, e.g. "/uploads".
func NewStore(dir, publicPrefix string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{dir: dir, publicPrefix: strings.TrimSuffix(publicPrefix, "/")}, nil
}

// Dir returns the content directory the store writes into.
func (s *Store) Dir() string {
	return s.dir
}

// Validate checks the upload against the image allow-list. Both the file
// extension and the declared content type must pass; a spoofed content type
// or a mismatched extension each independently indicate a non-image upload.
func (s *Store) Validate(fh *multipart.FileHeader) error {
	if fh.Size > MaxUploadSize {
		return ErrFileTooLarge
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedExtensions[ext] {
		return ErrInvalidFileType
	}
	if !allowedImageTypes[fh.Header.Get("Content-Type")] {
		return ErrInvalidFileType
	}
	return nil
}

// Save validates the upload, writes it under a generated unique name and
// returns the public path ("/uploads/image-<number><ext>"). The generated
// name never derives from the client filename, so concurrent uploads cannot
// overwrite each other.
func (s *Store) Save(fh *multipart.FileHeader) (string, error) {
	if err := s.Validate(fh); err != nil {
		return "", err
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	name, dst, err := s.createUnique(ext)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		// Half-written files are useless to serve.
		os.Remove(filepath.Join(s.dir, name))
		return "", fmt.Errorf("write upload: %w", err)
	}

	zap.L().Info("Image stored",
		zap.String("file", name),
		zap.Int64("size", fh.Size),
	)
	return s.publicPrefix + "/" + name, nil
}

// createUnique opens a fresh file named image-<number><ext>. O_EXCL makes
// the uniqueness check and the create a single step, so racing uploads that
// land on the same number both get their own file on retry.
func (s *Store) createUnique(ext string) (string, *os.File, error) {
	for attempt := 0; attempt < 10; attempt++ {
		n := time.Now().UnixNano()
		if attempt > 0 {
			n += rand.Int63n(1_000_000)
		}
		name := fmt.Sprintf("image-%d%s", n, ext)
		f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return name, f, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", nil, fmt.Errorf("create upload file: %w", err)
		}
	}
	return "", nil, errors.New("could not generate a unique upload filename")
}
