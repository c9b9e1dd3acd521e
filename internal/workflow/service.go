package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/mesa-desk/mesa/internal/auth"
	"github.com/mesa-desk/mesa/internal/model"
	"github.com/mesa-desk/mesa/utils"
)

// Service manages workflow templates and applies them to requests. Applying a
// workflow atomically replaces the request's active step trail with a fresh
// copy of the template's steps.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// StepInput is one ordered template step in a workflow definition.
type StepInput struct {
	StepName string `json:"stepName"`
	StepType string `json:"stepType"`
	Order    int    `json:"order"`
	RoleID   *uint  `json:"roleId,omitempty"`
}

// CreateWorkflowInput defines a new workflow template with its steps.
type CreateWorkflowInput struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
	Steps       []StepInput `json:"steps"`
}

// Validate enforces the template rules: a name, at least one step, and every
// step named with a positive order.
func (in *CreateWorkflowInput) Validate() error {
	var problems []string

	if strings.TrimSpace(in.Name) == "" {
		problems = append(problems, "name is required")
	} else if len(in.Name) > 100 {
		problems = append(problems, "name must not exceed 100 characters")
	}

	if len(in.Steps) == 0 {
		problems = append(problems, "at least one step is required")
	}
	for i, step := range in.Steps {
		if strings.TrimSpace(step.StepName) == "" {
			problems = append(problems, fmt.Sprintf("steps[%d]: stepName is required", i))
		}
		if step.Order < 1 {
			problems = append(problems, fmt.Sprintf("steps[%d]: order must be positive", i))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", model.ErrValidation, strings.Join(problems, "; "))
	}
	return nil
}

// Create persists a workflow template with its ordered steps. Workflow names
// are unique among non-deleted workflows.
func (s *Service) Create(ctx context.Context, actor *auth.Actor, in *CreateWorkflowInput) (*model.Workflow, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var existing int64
	err := s.db.WithContext(ctx).Model(&model.Workflow{}).
		Where("name = ? AND is_deleted = ?", in.Name, false).
		Count(&existing).Error
	if err != nil {
		return nil, fmt.Errorf("failed to check workflow name: %w", err)
	}
	if existing > 0 {
		return nil, fmt.Errorf("%w: workflow %q already exists", model.ErrConflict, in.Name)
	}

	wf := model.Workflow{
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		IsActive:    true,
	}
	wf.CreatedBy = actor.UserName

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&wf).Error; err != nil {
			return fmt.Errorf("failed to create workflow: %w", err)
		}
		for _, step := range in.Steps {
			ws := model.WorkflowStep{
				WorkflowID: wf.ID,
				StepName:   step.StepName,
				StepType:   step.StepType,
				Order:      step.Order,
				RoleID:     step.RoleID,
			}
			ws.CreatedBy = actor.UserName
			if err := tx.Create(&ws).Error; err != nil {
				return fmt.Errorf("failed to create workflow step: %w", err)
			}
			wf.Steps = append(wf.Steps, ws)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("workflow created", "workflow_id", wf.ID, "name", wf.Name, "steps", len(wf.Steps))
	return &wf, nil
}

// Get loads a workflow template with its steps in template order.
func (s *Service) Get(ctx context.Context, workflowID uint) (*model.Workflow, error) {
	var wf model.Workflow
	err := s.db.WithContext(ctx).Scopes(model.Active).
		Preload("Steps", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_deleted = ?", false).Order("step_order ASC")
		}).
		Preload("Steps.Role").
		Where("id = ?", workflowID).
		First(&wf).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: workflow %d not found", model.ErrNotFound, workflowID)
		}
		return nil, fmt.Errorf("failed to load workflow: %w", err)
	}
	return &wf, nil
}

// List returns a page of workflow templates, optionally limited to a category
// or to active templates only.
func (s *Service) List(ctx context.Context, category *string, activeOnly bool, pageNumber, pageSize *int) (*utils.PagedResult[model.Workflow], error) {
	page, size := utils.GetPaginationParams(pageNumber, pageSize)

	query := s.db.WithContext(ctx).Model(&model.Workflow{}).Scopes(model.Active)
	if category != nil && *category != "" {
		query = query.Where("category = ?", *category)
	}
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var totalCount int64
	if err := query.Count(&totalCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count workflows: %w", err)
	}

	var workflows []model.Workflow
	err := query.
		Preload("Steps", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_deleted = ?", false).Order("step_order ASC")
		}).
		Order("name ASC").
		Offset(utils.Offset(page, size)).
		Limit(size).
		Find(&workflows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list workflows: %w", err)
	}

	result := utils.NewPagedResult(workflows, totalCount, page, size)
	return &result, nil
}

// Delete soft-deletes a workflow template. Requests that already copied its
// steps are unaffected.
func (s *Service) Delete(ctx context.Context, actor *auth.Actor, workflowID uint) error {
	wf, err := s.Get(ctx, workflowID)
	if err != nil {
		return err
	}

	updates := map[string]any{
		"is_deleted": true,
		"updated_at": time.Now().UTC(),
		"updated_by": actor.UserName,
	}
	if err := s.db.WithContext(ctx).Model(&model.Workflow{}).Where("id = ?", wf.ID).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to delete workflow: %w", err)
	}

	slog.Info("workflow deleted", "workflow_id", wf.ID, "user_id", actor.UserID)
	return nil
}

// Apply replaces the request's active steps with a copy of the workflow's
// template steps. The old steps are soft-deleted, one fresh Pending step is
// created per template step, a Pending request moves to InProgress, and an
// internal comment records the application. All of it happens in one
// transaction; on any failure the request is left untouched.
func (s *Service) Apply(ctx context.Context, actor *auth.Actor, requestID, workflowID uint) (*model.Request, error) {
	var req model.Request
	err := s.db.WithContext(ctx).Scopes(model.Active).Where("id = ?", requestID).First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: request %d not found", model.ErrNotFound, requestID)
		}
		return nil, fmt.Errorf("failed to look up request: %w", err)
	}

	wf, err := s.Get(ctx, workflowID)
	if err != nil {
		return nil, err
	}
	if !wf.IsActive {
		return nil, fmt.Errorf("%w: workflow %q is not active", model.ErrValidation, wf.Name)
	}

	templateSteps := make([]model.WorkflowStep, len(wf.Steps))
	copy(templateSteps, wf.Steps)
	sort.SliceStable(templateSteps, func(i, j int) bool {
		return templateSteps[i].Order < templateSteps[j].Order
	})

	now := time.Now().UTC()
	newStatus := req.Status
	if req.Status == model.RequestStatusPending {
		newStatus = model.RequestStatusInProgress
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&model.RequestStep{}).
			Where("request_id = ? AND is_deleted = ?", req.ID, false).
			Updates(map[string]any{
				"is_deleted": true,
				"updated_at": now,
				"updated_by": actor.UserName,
			}).Error
		if err != nil {
			return fmt.Errorf("failed to retire existing steps: %w", err)
		}

		for _, template := range templateSteps {
			step := model.RequestStep{
				RequestID: req.ID,
				StepName:  template.StepName,
				StepType:  template.StepType,
				Order:     template.Order,
				Status:    model.StepStatusPending,
				RoleID:    template.RoleID,
			}
			step.CreatedBy = actor.UserName
			if err := tx.Create(&step).Error; err != nil {
				return fmt.Errorf("failed to create step from template: %w", err)
			}
		}

		if newStatus != req.Status {
			err := tx.Model(&model.Request{}).Where("id = ?", req.ID).
				Updates(map[string]any{
					"status":     newStatus,
					"updated_at": now,
					"updated_by": actor.UserName,
				}).Error
			if err != nil {
				return fmt.Errorf("failed to update request status: %w", err)
			}
		}

		comment := model.Comment{
			RequestID:  req.ID,
			UserID:     actor.UserID,
			Content:    fmt.Sprintf("Applied workflow: %s", wf.Name),
			IsInternal: true,
		}
		comment.CreatedBy = actor.UserName
		if err := tx.Create(&comment).Error; err != nil {
			return fmt.Errorf("failed to create workflow comment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	req.Status = newStatus

	slog.Info("workflow applied",
		"request_id", req.ID,
		"workflow_id", wf.ID,
		"steps", len(templateSteps),
		"user_id", actor.UserID,
	)
	return &req, nil
}
