package uploads

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/nexflow/nexflow-server/internal/orders"
)

// Upload constraints for order attachments.
const (
	MaxFiles    = 5
	MaxFileSize = 4 << 20 // 4 MiB
)

var allowedExtensions = map[string]struct{}{
	".csv":  {},
	".json": {},
	".pdf":  {},
	".png":  {},
	".jpg":  {},
	".jpeg": {},
}

var (
	ErrTooManyFiles    = errors.New("too many files")
	ErrFileTooLarge    = fmt.Errorf("file exceeds %d bytes", MaxFileSize)
	ErrDisallowedType  = errors.New("invalid file type")
	errMissingOriginal = errors.New("missing original filename")
)

// Saver writes uploaded attachments under Dir with generated filenames
// and returns the metadata kept on the order record.
type Saver struct {
	Dir string
}

// NewSaver ensures the uploads dir exists.
func NewSaver(dir string) (*Saver, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &Saver{Dir: dir}, nil
}

// SaveAll validates and stores every file of a multipart submission.
// Any rejected file fails the whole request, matching the upload-stage
// filter on the original form.
func (s *Saver) SaveAll(files []*multipart.FileHeader) ([]orders.AttachedFile, error) {
	if len(files) > MaxFiles {
		return nil, ErrTooManyFiles
	}
	out := make([]orders.AttachedFile, 0, len(files))
	for _, fh := range files {
		meta, err := s.save(fh)
		if err != nil {
			return nil, fmt.Errorf("save %q: %w", fh.Filename, err)
		}
		out = append(out, meta)
	}
	return out, nil
}

func (s *Saver) save(fh *multipart.FileHeader) (orders.AttachedFile, error) {
	var meta orders.AttachedFile

	if fh.Filename == "" {
		return meta, errMissingOriginal
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if _, ok := allowedExtensions[ext]; !ok {
		return meta, ErrDisallowedType
	}
	if fh.Size > MaxFileSize {
		return meta, ErrFileTooLarge
	}

	src, err := fh.Open()
	if err != nil {
		return meta, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	stored := uuid.NewString() + ext
	path := filepath.Join(s.Dir, stored)
	dst, err := os.Create(path)
	if err != nil {
		return meta, fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	n, err := io.Copy(dst, io.LimitReader(src, MaxFileSize+1))
	if err != nil {
		return meta, fmt.Errorf("write file: %w", err)
	}
	if n > MaxFileSize {
		os.Remove(path)
		return meta, ErrFileTooLarge
	}

	return orders.AttachedFile{
		OriginalName: fh.Filename,
		Filename:     stored,
		Path:         path,
		Size:         n,
		Mimetype:     fh.Header.Get("Content-Type"),
	}, nil
}
