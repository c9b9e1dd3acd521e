package request

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/mesa-desk/mesa/internal/auth"
	"github.com/mesa-desk/mesa/internal/model"
)

// Service owns the request lifecycle: creation, status transitions, assignment
// and comments. Every mutation appends to the request's step trail and runs in
// a single transaction.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Create opens a new request on behalf of the acting user. The request starts
// as Pending with one completed bookkeeping step recording its creation.
func (s *Service) Create(ctx context.Context, actor *auth.Actor, in *CreateRequestInput) (*model.Request, error) {
	now := time.Now().UTC()
	priority, err := in.Validate(now)
	if err != nil {
		return nil, err
	}

	var requester model.User
	err = s.db.WithContext(ctx).Scopes(model.Active).
		Where("id = ? AND is_active = ?", actor.UserID, true).
		First(&requester).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: requester %d not found", model.ErrNotFound, actor.UserID)
		}
		return nil, fmt.Errorf("failed to look up requester: %w", err)
	}

	req := model.Request{
		Description: in.Description,
		Status:      model.RequestStatusPending,
		Priority:    priority,
		Category:    in.Category,
		SubCategory: in.SubCategory,
		RequesterID: requester.ID,
		DueDate:     in.DueDate,
	}
	req.CreatedBy = actor.UserName

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&req).Error; err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}

		for _, item := range in.RequestData {
			data := model.RequestData{
				RequestID: req.ID,
				Name:      item.Name,
				Value:     item.Value,
				DataType:  item.DataType,
			}
			data.CreatedBy = actor.UserName
			if err := tx.Create(&data).Error; err != nil {
				return fmt.Errorf("failed to create request data: %w", err)
			}
		}

		completedAt := time.Now().UTC()
		initial := model.RequestStep{
			RequestID:   req.ID,
			StepName:    model.InitialStepName,
			StepType:    model.StepTypeInitial,
			Order:       1,
			Status:      model.StepStatusCompleted,
			CompletedAt: &completedAt,
		}
		initial.CreatedBy = actor.UserName
		if err := tx.Create(&initial).Error; err != nil {
			return fmt.Errorf("failed to create initial step: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("request created",
		"request_id", req.ID,
		"priority", req.Priority,
		"requester_id", requester.ID,
	)
	return &req, nil
}

// UpdateStatus moves a request to the given status. Any transition is allowed;
// setting Completed again simply refreshes the completion timestamp. The
// transition is recorded as a completed step, with an optional visible comment.
func (s *Service) UpdateStatus(ctx context.Context, actor *auth.Actor, requestID uint, in *UpdateStatusInput) (*model.Request, error) {
	newStatus, err := model.ParseRequestStatus(in.NewStatus)
	if err != nil {
		return nil, err
	}

	req, err := s.findRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{
			"status":     newStatus,
			"updated_at": now,
			"updated_by": actor.UserName,
		}
		if newStatus == model.RequestStatusCompleted {
			updates["completed_at"] = now
		}
		if err := tx.Model(&model.Request{}).Where("id = ?", req.ID).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update request status: %w", err)
		}

		order, err := s.nextStepOrder(tx, req.ID)
		if err != nil {
			return err
		}
		step := model.RequestStep{
			RequestID:    req.ID,
			StepName:     fmt.Sprintf("Status changed to %s", newStatus),
			StepType:     model.StepTypeStatusChange,
			Order:        order,
			Status:       model.StepStatusCompleted,
			AssignedToID: &actor.UserID,
			CompletedAt:  &now,
			Notes:        in.Comment,
		}
		step.CreatedBy = actor.UserName
		if err := tx.Create(&step).Error; err != nil {
			return fmt.Errorf("failed to create status step: %w", err)
		}

		if in.Comment != nil && *in.Comment != "" {
			comment := model.Comment{
				RequestID:  req.ID,
				UserID:     actor.UserID,
				Content:    fmt.Sprintf("Status changed to %s: %s", newStatus, *in.Comment),
				IsInternal: false,
			}
			comment.CreatedBy = actor.UserName
			if err := tx.Create(&comment).Error; err != nil {
				return fmt.Errorf("failed to create status comment: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	req.Status = newStatus
	req.UpdatedAt = now
	req.UpdatedBy = actor.UserName
	if newStatus == model.RequestStatusCompleted {
		req.CompletedAt = &now
	}

	slog.Info("request status updated",
		"request_id", req.ID,
		"status", newStatus,
		"user_id", actor.UserID,
	)
	return req, nil
}

// Assign hands a request to a user. A Pending request moves to InProgress on
// first assignment; any later status is left alone. The assignment is recorded
// as a completed step, with an optional visible comment.
func (s *Service) Assign(ctx context.Context, actor *auth.Actor, requestID uint, in *AssignRequestInput) (*model.Request, error) {
	req, err := s.findRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	var assignee model.User
	err = s.db.WithContext(ctx).Scopes(model.Active).
		Where("id = ?", in.AssignedToID).
		First(&assignee).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %d not found", model.ErrNotFound, in.AssignedToID)
		}
		return nil, fmt.Errorf("failed to look up assignee: %w", err)
	}

	now := time.Now().UTC()
	newStatus := req.Status
	if req.Status == model.RequestStatusPending {
		newStatus = model.RequestStatusInProgress
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{
			"assigned_to_id": assignee.ID,
			"status":         newStatus,
			"updated_at":     now,
			"updated_by":     actor.UserName,
		}
		if err := tx.Model(&model.Request{}).Where("id = ?", req.ID).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to assign request: %w", err)
		}

		order, err := s.nextStepOrder(tx, req.ID)
		if err != nil {
			return err
		}
		step := model.RequestStep{
			RequestID:    req.ID,
			StepName:     fmt.Sprintf("Assigned to %s", assignee.Name),
			StepType:     model.StepTypeAssignment,
			Order:        order,
			Status:       model.StepStatusCompleted,
			AssignedToID: &assignee.ID,
			CompletedAt:  &now,
			Notes:        in.Comment,
		}
		step.CreatedBy = actor.UserName
		if err := tx.Create(&step).Error; err != nil {
			return fmt.Errorf("failed to create assignment step: %w", err)
		}

		if in.Comment != nil && *in.Comment != "" {
			comment := model.Comment{
				RequestID:  req.ID,
				UserID:     actor.UserID,
				Content:    fmt.Sprintf("Request assigned to %s: %s", assignee.Name, *in.Comment),
				IsInternal: false,
			}
			comment.CreatedBy = actor.UserName
			if err := tx.Create(&comment).Error; err != nil {
				return fmt.Errorf("failed to create assignment comment: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	req.AssignedToID = &assignee.ID
	req.Status = newStatus
	req.UpdatedAt = now
	req.UpdatedBy = actor.UserName

	slog.Info("request assigned",
		"request_id", req.ID,
		"assigned_to_id", assignee.ID,
		"status", newStatus,
	)
	return req, nil
}

// AddComment appends a remark to a request on behalf of the acting user.
func (s *Service) AddComment(ctx context.Context, actor *auth.Actor, requestID uint, in *AddCommentInput) (*model.Comment, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	req, err := s.findRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	var user model.User
	err = s.db.WithContext(ctx).Scopes(model.Active).
		Where("id = ?", actor.UserID).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %d not found", model.ErrNotFound, actor.UserID)
		}
		return nil, fmt.Errorf("failed to look up comment author: %w", err)
	}

	comment := model.Comment{
		RequestID:  req.ID,
		UserID:     user.ID,
		Content:    in.Content,
		IsInternal: in.IsInternal,
	}
	comment.CreatedBy = actor.UserName
	if err := s.db.WithContext(ctx).Create(&comment).Error; err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	comment.User = user

	slog.Info("comment added", "request_id", req.ID, "comment_id", comment.ID, "internal", comment.IsInternal)
	return &comment, nil
}

// Delete soft-deletes a request. Owned rows stay in place behind the
// soft-delete scope.
func (s *Service) Delete(ctx context.Context, actor *auth.Actor, requestID uint) error {
	req, err := s.findRequest(ctx, requestID)
	if err != nil {
		return err
	}

	updates := map[string]any{
		"is_deleted": true,
		"updated_at": time.Now().UTC(),
		"updated_by": actor.UserName,
	}
	if err := s.db.WithContext(ctx).Model(&model.Request{}).Where("id = ?", req.ID).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to delete request: %w", err)
	}

	slog.Info("request deleted", "request_id", req.ID, "user_id", actor.UserID)
	return nil
}

// findRequest loads a request by id within the soft-delete scope.
func (s *Service) findRequest(ctx context.Context, requestID uint) (*model.Request, error) {
	var req model.Request
	err := s.db.WithContext(ctx).Scopes(model.Active).Where("id = ?", requestID).First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: request %d not found", model.ErrNotFound, requestID)
		}
		return nil, fmt.Errorf("failed to look up request: %w", err)
	}
	return &req, nil
}

// nextStepOrder returns one past the number of active steps. Soft-deleted
// steps do not count, so the trail restarts from the top after a workflow
// replaces it.
func (s *Service) nextStepOrder(tx *gorm.DB, requestID uint) (int, error) {
	var count int64
	err := tx.Model(&model.RequestStep{}).
		Where("request_id = ? AND is_deleted = ?", requestID, false).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count request steps: %w", err)
	}
	return int(count) + 1, nil
}
