package service

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jeboro/jeboro-api/internal/dto"
	appErrors "github.com/jeboro/jeboro-api/pkg/errors"
	"github.com/jeboro/jeboro-api/pkg/storage"
)

// UploadServiceConfig bounds accepted files.
type UploadServiceConfig struct {
	MaxFileSizeBytes int64
	AllowedMIMEs     []string
}

// UploadService stores informant evidence files and mints signed download
// URLs. The local store stands in for the object-storage collaborator.
type UploadService struct {
	store  *storage.LocalStorage
	signer *storage.SignedURLSigner
	logger *zap.Logger
	config UploadServiceConfig
}

// NewUploadService constructs an UploadService instance.
func NewUploadService(store *storage.LocalStorage, signer *storage.SignedURLSigner, logger *zap.Logger, config UploadServiceConfig) *UploadService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UploadService{store: store, signer: signer, logger: logger, config: config}
}

// Store validates and persists an uploaded file, returning its key and a
// signed URL.
func (s *UploadService) Store(header *multipart.FileHeader, uploaderID string) (*dto.UploadResponse, error) {
	if header == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no file uploaded")
	}
	if s.config.MaxFileSizeBytes > 0 && header.Size > s.config.MaxFileSizeBytes {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("file exceeds %d bytes", s.config.MaxFileSizeBytes))
	}
	if contentType := header.Header.Get("Content-Type"); !s.mimeAllowed(contentType) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("file type %s not accepted", contentType))
	}

	file, err := header.Open()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read upload")
	}
	defer file.Close() //nolint:errcheck

	uploadID := uuid.NewString()
	key := filepath.Join("uploads", fmt.Sprintf("%s_%s", uploadID, sanitizeFilename(header.Filename)))
	if _, err := s.store.SaveStream(key, file); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store upload")
	}

	token, expiresAt, err := s.signer.Generate(uploadID, key)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign upload url")
	}

	s.logger.Info("file uploaded", zap.String("key", key), zap.String("uploader_id", uploaderID), zap.Int64("size", header.Size))

	return &dto.UploadResponse{
		Key:       key,
		URL:       "/api/v1/uploads/" + token,
		ExpiresAt: expiresAt,
	}, nil
}

// Resolve exchanges a signed token for an open file handle.
func (s *UploadService) Resolve(token string) (*os.File, error) {
	_, key, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid download token")
	}
	file, err := s.store.Open(key)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "file not found")
	}
	return file, nil
}

func (s *UploadService) mimeAllowed(contentType string) bool {
	if len(s.config.AllowedMIMEs) == 0 {
		return true
	}
	for _, allowed := range s.config.AllowedMIMEs {
		if strings.EqualFold(strings.TrimSpace(allowed), contentType) {
			return true
		}
	}
	return false
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}
