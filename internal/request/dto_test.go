package request

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mesa-desk/mesa/internal/model"
)

func strPtr(s string) *string { return &s }

func TestCreateRequestInput_Validate(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(24 * time.Hour)
	past := now.Add(-time.Minute)

	tests := []struct {
		name    string
		input   CreateRequestInput
		wantErr string
	}{
		{
			name:  "valid minimal",
			input: CreateRequestInput{Description: "Printer jam", Priority: "MEDIUM"},
		},
		{
			name: "valid with data and due date",
			input: CreateRequestInput{
				Description: "Printer jam",
				Priority:    "HIGH",
				DueDate:     &future,
				RequestData: []RequestDataInput{{Name: "floor", Value: "3"}},
			},
		},
		{
			name:    "empty description",
			input:   CreateRequestInput{Description: "  ", Priority: "LOW"},
			wantErr: "description is required",
		},
		{
			name:    "description too long",
			input:   CreateRequestInput{Description: strings.Repeat("x", 2001), Priority: "LOW"},
			wantErr: "must not exceed 2000",
		},
		{
			name:    "unknown priority",
			input:   CreateRequestInput{Description: "Printer jam", Priority: "URGENT"},
			wantErr: "invalid priority",
		},
		{
			name:    "due date in the past",
			input:   CreateRequestInput{Description: "Printer jam", Priority: "LOW", DueDate: &past},
			wantErr: "due date must be in the future",
		},
		{
			name:    "due date exactly now",
			input:   CreateRequestInput{Description: "Printer jam", Priority: "LOW", DueDate: &now},
			wantErr: "due date must be in the future",
		},
		{
			name: "data item without name",
			input: CreateRequestInput{
				Description: "Printer jam",
				Priority:    "LOW",
				RequestData: []RequestDataInput{{Name: "", Value: "3"}},
			},
			wantErr: "requestData[0]: name is required",
		},
		{
			name: "data item value too long",
			input: CreateRequestInput{
				Description: "Printer jam",
				Priority:    "LOW",
				RequestData: []RequestDataInput{{Name: "floor", Value: strings.Repeat("x", 501)}},
			},
			wantErr: "requestData[0]: value must not exceed 500",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			priority, err := tt.input.Validate(now)
			if tt.wantErr != "" {
				assert.ErrorIs(t, err, model.ErrValidation)
				assert.Contains(t, err.Error(), tt.wantErr)
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, priority)
			}
		})
	}
}

func TestCreateRequestInput_Validate_ReportsAllProblems(t *testing.T) {
	input := CreateRequestInput{
		Description: "",
		Priority:    "URGENT",
		Category:    strPtr(strings.Repeat("c", 101)),
	}

	_, err := input.Validate(time.Now().UTC())

	assert.ErrorIs(t, err, model.ErrValidation)
	assert.Contains(t, err.Error(), "description is required")
	assert.Contains(t, err.Error(), "invalid priority")
	assert.Contains(t, err.Error(), "category must not exceed 100")
}

func TestAddCommentInput_Validate(t *testing.T) {
	assert.NoError(t, (&AddCommentInput{Content: "looks good"}).Validate())
	assert.ErrorIs(t, (&AddCommentInput{Content: ""}).Validate(), model.ErrValidation)
	assert.ErrorIs(t, (&AddCommentInput{Content: strings.Repeat("x", 2001)}).Validate(), model.ErrValidation)
}
