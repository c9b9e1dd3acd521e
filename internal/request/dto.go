package request

import (
	"fmt"
	"strings"
	"time"

	"github.com/mesa-desk/mesa/internal/model"
)

const maxDescriptionLength = 2000
const maxCommentLength = 2000

// RequestDataInput is one free-form name/value item submitted with a request.
type RequestDataInput struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	DataType *string `json:"dataType,omitempty"`
}

// CreateRequestInput carries everything needed to open a new request.
type CreateRequestInput struct {
	Description string             `json:"description"`
	Priority    string             `json:"priority"`
	Category    *string            `json:"category,omitempty"`
	SubCategory *string            `json:"subCategory,omitempty"`
	DueDate     *time.Time         `json:"dueDate,omitempty"`
	RequestData []RequestDataInput `json:"requestData,omitempty"`
}

// Validate checks the input against the same rules the API has always
// enforced; all violations are reported together.
func (in *CreateRequestInput) Validate(now time.Time) (model.RequestPriority, error) {
	var problems []string

	if strings.TrimSpace(in.Description) == "" {
		problems = append(problems, "description is required")
	} else if len(in.Description) > maxDescriptionLength {
		problems = append(problems, fmt.Sprintf("description must not exceed %d characters", maxDescriptionLength))
	}

	priority, err := model.ParseRequestPriority(in.Priority)
	if err != nil {
		problems = append(problems, fmt.Sprintf("invalid priority %q", in.Priority))
	}

	if in.Category != nil && len(*in.Category) > 100 {
		problems = append(problems, "category must not exceed 100 characters")
	}
	if in.SubCategory != nil && len(*in.SubCategory) > 100 {
		problems = append(problems, "subCategory must not exceed 100 characters")
	}

	if in.DueDate != nil && !in.DueDate.After(now) {
		problems = append(problems, "due date must be in the future")
	}

	for i, item := range in.RequestData {
		if strings.TrimSpace(item.Name) == "" {
			problems = append(problems, fmt.Sprintf("requestData[%d]: name is required", i))
		} else if len(item.Name) > 100 {
			problems = append(problems, fmt.Sprintf("requestData[%d]: name must not exceed 100 characters", i))
		}
		if strings.TrimSpace(item.Value) == "" {
			problems = append(problems, fmt.Sprintf("requestData[%d]: value is required", i))
		} else if len(item.Value) > 500 {
			problems = append(problems, fmt.Sprintf("requestData[%d]: value must not exceed 500 characters", i))
		}
		if item.DataType != nil && len(*item.DataType) > 50 {
			problems = append(problems, fmt.Sprintf("requestData[%d]: dataType must not exceed 50 characters", i))
		}
	}

	if len(problems) > 0 {
		return "", fmt.Errorf("%w: %s", model.ErrValidation, strings.Join(problems, "; "))
	}
	return priority, nil
}

// UpdateStatusInput carries a status transition and an optional remark.
type UpdateStatusInput struct {
	NewStatus string  `json:"newStatus"`
	Comment   *string `json:"comment,omitempty"`
}

// AssignRequestInput carries an assignment and an optional remark.
type AssignRequestInput struct {
	AssignedToID uint    `json:"assignedToId"`
	Comment      *string `json:"comment,omitempty"`
}

// AddCommentInput carries a new comment for a request.
type AddCommentInput struct {
	Content    string `json:"content"`
	IsInternal bool   `json:"isInternal"`
}

// Validate enforces comment content rules.
func (in *AddCommentInput) Validate() error {
	if strings.TrimSpace(in.Content) == "" {
		return fmt.Errorf("%w: content is required", model.ErrValidation)
	}
	if len(in.Content) > maxCommentLength {
		return fmt.Errorf("%w: content must not exceed %d characters", model.ErrValidation, maxCommentLength)
	}
	return nil
}

// RequestFilter narrows and paginates request listings.
type RequestFilter struct {
	Status       *model.RequestStatus
	Priority     *model.RequestPriority
	Category     *string
	RequesterID  *uint
	AssignedToID *uint
	StartDate    *time.Time
	EndDate      *time.Time
	SearchTerm   *string
	PageNumber   *int
	PageSize     *int
}
