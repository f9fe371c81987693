package filestorage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/yigit/campusdesk/internal/pkg/apperrors"
)

// MaxUploadSize is the largest accepted upload, in bytes
const MaxUploadSize = 5 << 20

// Default key folders
const (
	FolderInstitutions      = "institutions"
	FolderStudentPhotos     = "students/photos"
	FolderStudentSignatures = "students/signatures"
	FolderCourses           = "courses"
)

// FileStorage defines the interface for file storage operations
type FileStorage interface {
	// Store saves data under key and returns the public URL of the object
	Store(ctx context.Context, data []byte, contentType, key string) (string, error)

	// Delete removes the object behind a URL previously returned by Store
	Delete(ctx context.Context, url string) error
}

// Upload is an uploaded file held in memory
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Key returns the storage key of the upload inside folder.
func (u *Upload) Key(folder string) string {
	return path.Join(folder, SanitizeFilename(u.Filename))
}

// Validate checks that the upload is a non-empty image no larger than
// MaxUploadSize. The content type is sniffed from the bytes, not trusted
// from the client.
func (u *Upload) Validate() error {
	if len(u.Data) == 0 {
		return fmt.Errorf("file is empty")
	}
	if len(u.Data) > MaxUploadSize {
		return fmt.Errorf("file exceeds the %d MB limit", MaxUploadSize>>20)
	}
	if !strings.HasPrefix(u.ContentType, "image/") {
		return fmt.Errorf("only image files are allowed")
	}
	return nil
}

// FromFileHeader reads a multipart file into memory. A nil header returns nil.
func FromFileHeader(fh *multipart.FileHeader) (*Upload, error) {
	if fh == nil {
		return nil, nil
	}
	if fh.Size > MaxUploadSize {
		return nil, fmt.Errorf("file exceeds the %d MB limit", MaxUploadSize>>20)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}

	return &Upload{
		Filename:    fh.Filename,
		ContentType: DetectContentType(data),
		Data:        data,
	}, nil
}

// DetectContentType sniffs the MIME type of data.
func DetectContentType(data []byte) string {
	mt := mimetype.Detect(data).String()
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = mt[:i]
	}
	return mt
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SanitizeFilename keeps the base name and replaces anything outside
// [A-Za-z0-9._-] with a dash.
func SanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.Trim(unsafeChars.ReplaceAllString(name, "-"), "-.")
	if name == "" {
		return "file"
	}
	return name
}

func storageError(message string, err error) error {
	return apperrors.NewStorageError(message, err)
}
