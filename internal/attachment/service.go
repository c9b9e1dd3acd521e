package attachment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mesa-desk/mesa/internal/auth"
	"github.com/mesa-desk/mesa/internal/model"
)

const maxFileSize = 25 << 20 // 25 MiB

// Service stores attachment files and their metadata rows. The blob store
// holds the bytes; the database row ties them to a request.
type Service struct {
	db    *gorm.DB
	store BlobStore
}

func NewService(db *gorm.DB, store BlobStore) *Service {
	return &Service{db: db, store: store}
}

// Upload stores the file content and records an attachment on the request.
// The storage key is derived from a fresh UUID so file names never collide.
func (s *Service) Upload(ctx context.Context, actor *auth.Actor, requestID uint, fileName string, content io.Reader, size int64, contentType string) (*model.Attachment, error) {
	if fileName == "" {
		return nil, fmt.Errorf("%w: file name is required", model.ErrValidation)
	}
	if size <= 0 || size > maxFileSize {
		return nil, fmt.Errorf("%w: file size must be between 1 byte and %d bytes", model.ErrValidation, maxFileSize)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if err := s.requestExists(ctx, requestID); err != nil {
		return nil, err
	}

	key := uuid.NewString() + filepath.Ext(fileName)
	if err := s.store.Put(ctx, key, content, contentType); err != nil {
		return nil, fmt.Errorf("failed to store attachment: %w", err)
	}

	att := model.Attachment{
		RequestID:   requestID,
		FileName:    fileName,
		Key:         key,
		ContentType: contentType,
		FileSize:    size,
	}
	att.CreatedBy = actor.UserName

	if err := s.db.WithContext(ctx).Create(&att).Error; err != nil {
		if removeErr := s.store.Remove(ctx, key); removeErr != nil {
			slog.Warn("failed to clean up orphaned blob", "key", key, "error", removeErr)
		}
		return nil, fmt.Errorf("failed to record attachment: %w", err)
	}

	slog.Info("attachment uploaded",
		"attachment_id", att.ID,
		"request_id", requestID,
		"size", size,
	)
	return &att, nil
}

// List returns the attachments of a request.
func (s *Service) List(ctx context.Context, requestID uint) ([]model.Attachment, error) {
	if err := s.requestExists(ctx, requestID); err != nil {
		return nil, err
	}

	var attachments []model.Attachment
	err := s.db.WithContext(ctx).Scopes(model.Active).
		Where("request_id = ?", requestID).
		Order("created_at ASC").
		Find(&attachments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list attachments: %w", err)
	}
	return attachments, nil
}

// Download streams an attachment's content. The caller owns the reader.
func (s *Service) Download(ctx context.Context, attachmentID uint) (*model.Attachment, io.ReadCloser, string, error) {
	att, err := s.find(ctx, attachmentID)
	if err != nil {
		return nil, nil, "", err
	}

	reader, contentType, err := s.store.Open(ctx, att.Key)
	if err != nil {
		return nil, nil, "", fmt.Errorf("failed to open attachment: %w", err)
	}
	if contentType == "application/octet-stream" && att.ContentType != "" {
		contentType = att.ContentType
	}
	return att, reader, contentType, nil
}

// Delete soft-deletes the metadata row and removes the blob. A blob removal
// failure is logged, not surfaced; the row is already retired.
func (s *Service) Delete(ctx context.Context, actor *auth.Actor, attachmentID uint) error {
	att, err := s.find(ctx, attachmentID)
	if err != nil {
		return err
	}

	updates := map[string]any{
		"is_deleted": true,
		"updated_at": time.Now().UTC(),
		"updated_by": actor.UserName,
	}
	if err := s.db.WithContext(ctx).Model(&model.Attachment{}).Where("id = ?", att.ID).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to delete attachment: %w", err)
	}

	if err := s.store.Remove(ctx, att.Key); err != nil {
		slog.Warn("failed to remove attachment blob", "key", att.Key, "error", err)
	}

	slog.Info("attachment deleted", "attachment_id", att.ID, "user_id", actor.UserID)
	return nil
}

func (s *Service) find(ctx context.Context, attachmentID uint) (*model.Attachment, error) {
	var att model.Attachment
	err := s.db.WithContext(ctx).Scopes(model.Active).Where("id = ?", attachmentID).First(&att).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: attachment %d not found", model.ErrNotFound, attachmentID)
		}
		return nil, fmt.Errorf("failed to look up attachment: %w", err)
	}
	return &att, nil
}

func (s *Service) requestExists(ctx context.Context, requestID uint) error {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Request{}).
		Where("id = ? AND is_deleted = ?", requestID, false).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("failed to look up request: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("%w: request %d not found", model.ErrNotFound, requestID)
	}
	return nil
}
