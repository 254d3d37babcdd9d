package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/zephyrixtech/test-inventory-sub001/internal/auth"
	"github.com/zephyrixtech/test-inventory-sub001/internal/domain"
	"github.com/zephyrixtech/test-inventory-sub001/internal/mapper"
	"github.com/zephyrixtech/test-inventory-sub001/internal/repository"
	"github.com/zephyrixtech/test-inventory-sub001/internal/storage"
)

// DocumentService manages file attachments on purchase orders
type DocumentService struct {
	documentRepo *repository.DocumentRepository
	orderRepo    *repository.PurchaseOrderRepository
	store        storage.Storage
	logger       *zap.Logger
}

func NewDocumentService(
	documentRepo *repository.DocumentRepository,
	orderRepo *repository.PurchaseOrderRepository,
	store storage.Storage,
	logger *zap.Logger,
) *DocumentService {
	return &DocumentService{
		documentRepo: documentRepo,
		orderRepo:    orderRepo,
		store:        store,
		logger:       logger,
	}
}

// Upload stores a file and attaches it to a purchase order
func (s *DocumentService) Upload(ctx context.Context, orderID uuid.UUID, filename, contentType string, data io.Reader) (*domain.DocumentDTO, error) {
	uc, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	if _, err := s.orderRepo.GetByID(ctx, orderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to load purchase order: %w", err)
	}

	storagePath, size, err := s.store.Upload(ctx, filename, contentType, data)
	if err != nil {
		return nil, fmt.Errorf("failed to store attachment: %w", err)
	}

	document := &domain.Document{
		Filename:        filename,
		ContentType:     contentType,
		Size:            size,
		StoragePath:     storagePath,
		PurchaseOrderID: &orderID,
		UploadedBy:      uc.UserID,
	}
	if err := s.documentRepo.Create(ctx, document); err != nil {
		if delErr := s.store.Delete(ctx, storagePath); delErr != nil {
			s.logger.Warn("failed to clean up orphaned attachment",
				zap.String("storagePath", storagePath), zap.Error(delErr))
		}
		return nil, fmt.Errorf("failed to record attachment: %w", err)
	}
	return mapper.ToDocumentDTO(document), nil
}

// Download opens an attachment for streaming to the client
func (s *DocumentService) Download(ctx context.Context, id uuid.UUID) (*domain.Document, io.ReadCloser, error) {
	document, err := s.documentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("failed to load attachment: %w", err)
	}

	reader, err := s.store.Download(ctx, document.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open attachment: %w", err)
	}
	return document, reader, nil
}

func (s *DocumentService) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*domain.DocumentDTO, error) {
	documents, err := s.documentRepo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attachments: %w", err)
	}
	dtos := make([]*domain.DocumentDTO, len(documents))
	for i := range documents {
		dtos[i] = mapper.ToDocumentDTO(&documents[i])
	}
	return dtos, nil
}

func (s *DocumentService) Delete(ctx context.Context, id uuid.UUID) error {
	document, err := s.documentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to load attachment: %w", err)
	}

	if err := s.documentRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete attachment: %w", err)
	}
	if err := s.store.Delete(ctx, document.StoragePath); err != nil {
		s.logger.Warn("failed to delete stored attachment",
			zap.String("storagePath", document.StoragePath), zap.Error(err))
	}
	return nil
}
