package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/campusdesk/internal/pkg/apperrors"
	"github.com/yigit/campusdesk/internal/pkg/filestorage"
)

const cleanupTimeout = 10 * time.Second

// checkUpload records a validation failure for a missing or unacceptable file
func checkUpload(verr *apperrors.ValidationError, field string, u *filestorage.Upload, required bool) {
	if u == nil {
		if required {
			verr.Add(field, "file is required")
		}
		return
	}
	if err := u.Validate(); err != nil {
		verr.Add(field, err.Error())
	}
}

// assetBatch tracks the files stored by one request so they can be removed
// if the request fails.
type assetBatch struct {
	storage filestorage.FileStorage
	logger  zerolog.Logger
	urls    []string
}

func newAssetBatch(storage filestorage.FileStorage, logger zerolog.Logger) *assetBatch {
	return &assetBatch{storage: storage, logger: logger}
}

// store saves u under folder. A nil upload stores nothing and returns "".
func (b *assetBatch) store(ctx context.Context, u *filestorage.Upload, folder string) (string, error) {
	if u == nil {
		return "", nil
	}
	url, err := b.storage.Store(ctx, u.Data, u.ContentType, u.Key(folder))
	if err != nil {
		if !errors.Is(err, apperrors.ErrStorage) {
			err = apperrors.NewStorageError("failed to store file", err)
		}
		return "", err
	}
	b.urls = append(b.urls, url)
	return url, nil
}

// discard deletes everything stored so far. Failures are logged only.
func (b *assetBatch) discard() {
	removeFiles(b.storage, b.logger, b.urls...)
	b.urls = nil
}

// removeFiles deletes stored files on a best-effort basis
func removeFiles(storage filestorage.FileStorage, logger zerolog.Logger, urls ...string) {
	ctx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
	defer cancel()

	for _, url := range urls {
		if url == "" {
			continue
		}
		if err := storage.Delete(ctx, url); err != nil {
			logger.Warn().Err(err).Str("url", url).Msg("Failed to remove stored file")
		}
	}
}
