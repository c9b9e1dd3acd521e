package request

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mesa-desk/mesa/internal/model"
	"github.com/mesa-desk/mesa/utils"
)

// Get loads a request with its full detail: requester, assignee, active steps
// in trail order, comments, data items and attachments.
func (s *Service) Get(ctx context.Context, requestID uint) (*model.Request, error) {
	var req model.Request
	err := s.db.WithContext(ctx).Scopes(model.Active).
		Preload("Requester").
		Preload("AssignedTo").
		Preload("Steps", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_deleted = ?", false).Order("step_order ASC, id ASC")
		}).
		Preload("Steps.AssignedTo").
		Preload("Steps.Role").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_deleted = ?", false).Order("created_at ASC")
		}).
		Preload("Comments.User").
		Preload("Data", "is_deleted = ?", false).
		Preload("Attachments", "is_deleted = ?", false).
		Where("id = ?", requestID).
		First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: request %d not found", model.ErrNotFound, requestID)
		}
		return nil, fmt.Errorf("failed to load request: %w", err)
	}
	return &req, nil
}

// List returns a page of requests matching the filter, newest first.
func (s *Service) List(ctx context.Context, filter *RequestFilter) (*utils.PagedResult[model.Request], error) {
	pageNumber, pageSize := utils.GetPaginationParams(filter.PageNumber, filter.PageSize)

	query := s.db.WithContext(ctx).Model(&model.Request{}).Scopes(model.Active)

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("priority = ?", *filter.Priority)
	}
	if filter.Category != nil && *filter.Category != "" {
		query = query.Where("category = ?", *filter.Category)
	}
	if filter.RequesterID != nil {
		query = query.Where("requester_id = ?", *filter.RequesterID)
	}
	if filter.AssignedToID != nil {
		query = query.Where("assigned_to_id = ?", *filter.AssignedToID)
	}
	if filter.StartDate != nil {
		query = query.Where("created_at >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("created_at <= ?", *filter.EndDate)
	}
	if filter.SearchTerm != nil && *filter.SearchTerm != "" {
		pattern := "%" + *filter.SearchTerm + "%"
		query = query.Where("description ILIKE ? OR category ILIKE ? OR sub_category ILIKE ?", pattern, pattern, pattern)
	}

	var totalCount int64
	if err := query.Count(&totalCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count requests: %w", err)
	}

	var requests []model.Request
	err := query.
		Preload("Requester").
		Preload("AssignedTo").
		Order("created_at DESC").
		Offset(utils.Offset(pageNumber, pageSize)).
		Limit(pageSize).
		Find(&requests).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}

	result := utils.NewPagedResult(requests, totalCount, pageNumber, pageSize)
	return &result, nil
}
