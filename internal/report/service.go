package report

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/mesa-desk/mesa/internal/model"
)

// Service builds request activity reports.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Filter narrows the report window.
type Filter struct {
	StartDate    *time.Time
	EndDate      *time.Time
	Status       *model.RequestStatus
	Priority     *model.RequestPriority
	Category     *string
	AssignedToID *uint
}

// Summary holds the report-level aggregates.
type Summary struct {
	TotalRequests        int64            `json:"totalRequests"`
	CompletedRequests    int64            `json:"completedRequests"`
	AvgResolutionHours   float64          `json:"avgResolutionHours"`
	ByStatus             map[string]int64 `json:"byStatus"`
	ByPriority           map[string]int64 `json:"byPriority"`
}

// Report is the full report payload: the matched requests plus their summary.
type Report struct {
	GeneratedAt time.Time       `json:"generatedAt"`
	Filter      FilterEcho      `json:"filter"`
	Summary     Summary         `json:"summary"`
	Requests    []model.Request `json:"requests"`
}

// FilterEcho repeats the applied filter in the payload so exported documents
// are self-describing.
type FilterEcho struct {
	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`
	Status    *string    `json:"status,omitempty"`
	Priority  *string    `json:"priority,omitempty"`
	Category  *string    `json:"category,omitempty"`
}

// Build loads every request matching the filter and computes the summary.
// Average resolution is measured from creation to completion over the
// completed subset only.
func (s *Service) Build(ctx context.Context, filter *Filter) (*Report, error) {
	query := s.db.WithContext(ctx).Model(&model.Request{}).Scopes(model.Active)

	if filter.StartDate != nil {
		query = query.Where("created_at >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("created_at <= ?", *filter.EndDate)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("priority = ?", *filter.Priority)
	}
	if filter.Category != nil && *filter.Category != "" {
		query = query.Where("category = ?", *filter.Category)
	}
	if filter.AssignedToID != nil {
		query = query.Where("assigned_to_id = ?", *filter.AssignedToID)
	}

	var requests []model.Request
	err := query.
		Preload("Requester").
		Preload("AssignedTo").
		Order("created_at ASC").
		Find(&requests).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load report requests: %w", err)
	}

	report := Report{
		GeneratedAt: time.Now().UTC(),
		Summary:     Summarize(requests),
		Requests:    requests,
	}
	report.Filter = FilterEcho{
		StartDate: filter.StartDate,
		EndDate:   filter.EndDate,
	}
	if filter.Status != nil {
		v := string(*filter.Status)
		report.Filter.Status = &v
	}
	if filter.Priority != nil {
		v := string(*filter.Priority)
		report.Filter.Priority = &v
	}
	if filter.Category != nil {
		report.Filter.Category = filter.Category
	}
	return &report, nil
}

// Summarize computes the aggregates over an already-loaded request set.
func Summarize(requests []model.Request) Summary {
	summary := Summary{
		TotalRequests: int64(len(requests)),
		ByStatus:      make(map[string]int64),
		ByPriority:    make(map[string]int64),
	}

	var resolutionTotal time.Duration
	for _, req := range requests {
		summary.ByStatus[string(req.Status)]++
		summary.ByPriority[string(req.Priority)]++
		if req.Status == model.RequestStatusCompleted && req.CompletedAt != nil {
			summary.CompletedRequests++
			resolutionTotal += req.CompletedAt.Sub(req.CreatedAt)
		}
	}

	if summary.CompletedRequests > 0 {
		summary.AvgResolutionHours = resolutionTotal.Hours() / float64(summary.CompletedRequests)
	}
	return summary
}
