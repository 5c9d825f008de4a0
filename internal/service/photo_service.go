package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"tastebook/api/internal/media/sniffer"
	"tastebook/api/internal/models"
	"tastebook/api/internal/storage"
)

const maxPhotoBytes = 10 << 20

var (
	ErrPhotoTooLarge     = errors.New("photo exceeds size limit")
	ErrPhotoTypeMismatch = errors.New("photo content type mismatch")
)

type PhotoService struct {
	store storage.PhotoStore
	log   zerolog.Logger
}

func NewPhotoService(store storage.PhotoStore, log zerolog.Logger) *PhotoService {
	return &PhotoService{store: store, log: log}
}

// Attach stores a new photo for the recipe and returns its public URL
// and storage key. Naming is <recipeID>_<unixTimestamp>.<ext>.
func (s *PhotoService) Attach(ctx context.Context, recipe models.Recipe, file multipart.File, header *multipart.FileHeader) (string, string, error) {
	if file == nil || header == nil {
		return "", "", errors.New("invalid file payload")
	}
	if header.Size > maxPhotoBytes {
		return "", "", ErrPhotoTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(file, maxPhotoBytes+1))
	if err != nil {
		return "", "", fmt.Errorf("read photo: %w", err)
	}
	if len(data) > maxPhotoBytes {
		return "", "", ErrPhotoTooLarge
	}

	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	result, err := sniffer.DetectHead(head)
	if err != nil {
		return "", "", fmt.Errorf("detect type: %w", err)
	}

	declared := sniffer.MimeTypeFromHTTP(http.Header(header.Header))
	if declared != "" && declared != result.MIME {
		return "", "", fmt.Errorf("%w: declared %s, actual %s", ErrPhotoTypeMismatch, declared, result.MIME)
	}

	name := fmt.Sprintf("%s_%d.%s", recipe.ID, time.Now().Unix(), result.Ext())
	key, err := s.store.Put(ctx, name, data, result.MIME)
	if err != nil {
		return "", "", fmt.Errorf("store photo: %w", err)
	}

	// any previous photo stays put here; the caller disposes of it once
	// the recipe row points at the new key
	return s.store.PublicURL(key), key, nil
}

// Remove deletes a stored photo, best-effort.
func (s *PhotoService) Remove(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.store.Remove(ctx, key); err != nil {
		s.log.Warn().Err(err).Str("photo_key", key).Msg("photo removal failed")
	}
}
