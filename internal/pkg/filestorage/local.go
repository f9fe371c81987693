package filestorage

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/yigit/campusdesk/internal/pkg/logger"
)

// PublicPrefix is the URL path the local upload directory is served under
const PublicPrefix = "/uploads"

// LocalStorage handles saving files to the local filesystem.
type LocalStorage struct {
	basePath string // The root directory where files will be stored
	baseURL  string // Public base URL of the API, without PublicPrefix
}

// NewLocalStorage creates a new LocalStorage instance.
// basePath is the required directory path on the server.
// baseURL is optional; if empty, returned URLs are root-relative.
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}, nil
}

// BasePath is the directory served under PublicPrefix.
func (ls *LocalStorage) BasePath() string {
	return ls.basePath
}

// Store writes data under key's folder with a random file name that keeps the
// original extension.
func (ls *LocalStorage) Store(ctx context.Context, data []byte, _ string, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", storageError("store canceled", err)
	}

	folder := path.Dir(path.Clean("/" + key))
	uniqueFilename := uuid.New().String() + strings.ToLower(path.Ext(key))
	relPath := strings.TrimPrefix(path.Join(folder, uniqueFilename), "/")

	dstPath := filepath.Join(ls.basePath, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(dstPath), 0o755); err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create subdirectory")
		return "", storageError("failed to create subdirectory", err)
	}

	if err := os.WriteFile(dstPath, data, 0o644); err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to write uploaded file")
		_ = os.Remove(dstPath)
		return "", storageError("failed to save file", err)
	}

	accessiblePath := ls.baseURL + PublicPrefix + "/" + relPath
	logger.Debug().Str("key", key).Str("accessible_path", accessiblePath).Msg("File saved successfully")
	return accessiblePath, nil
}

// Delete removes a file previously returned by Store. Missing files are not
// an error.
func (ls *LocalStorage) Delete(_ context.Context, fileURL string) error {
	physicalPath, err := ls.GetFullPath(fileURL)
	if err != nil {
		return storageError("invalid file path", err)
	}

	if err := os.Remove(physicalPath); err != nil {
		if os.IsNotExist(err) {
			logger.Warn().Str("path", physicalPath).Msg("File to delete does not exist")
			return nil
		}
		logger.Error().Err(err).Str("path", physicalPath).Msg("Failed to delete file")
		return storageError("failed to delete file", err)
	}

	logger.Debug().Str("path", physicalPath).Msg("File deleted successfully")
	return nil
}

// GetFullPath maps a public URL back to its location under basePath. Paths
// escaping basePath are rejected.
func (ls *LocalStorage) GetFullPath(fileURL string) (string, error) {
	p := fileURL
	if u, err := url.Parse(fileURL); err == nil {
		p = u.Path
	}

	idx := strings.Index(p, PublicPrefix+"/")
	if idx < 0 {
		return "", fmt.Errorf("%q is not a local upload", fileURL)
	}
	rel := path.Clean("/" + p[idx+len(PublicPrefix)+1:])
	if rel == "/" {
		return "", fmt.Errorf("%q names no file", fileURL)
	}

	return filepath.Join(ls.basePath, filepath.FromSlash(strings.TrimPrefix(rel, "/"))), nil
}
