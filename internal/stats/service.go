package stats

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/mesa-desk/mesa/internal/model"
)

// Service computes dashboard aggregates over the request store.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Dashboard is the aggregate snapshot served to the landing page.
type Dashboard struct {
	TotalRequests      int64            `json:"totalRequests"`
	OpenRequests       int64            `json:"openRequests"`
	OverdueRequests    int64            `json:"overdueRequests"`
	CompletedThisMonth int64            `json:"completedThisMonth"`
	ByStatus           map[string]int64 `json:"byStatus"`
	ByPriority         map[string]int64 `json:"byPriority"`
	ByCategory         map[string]int64 `json:"byCategory"`
	RecentRequests     []model.Request  `json:"recentRequests"`
}

type bucketRow struct {
	Bucket string
	Total  int64
}

// Dashboard assembles the snapshot. Open means Pending, InProgress or OnHold;
// overdue means open with a due date in the past.
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	openStatuses := []model.RequestStatus{
		model.RequestStatusPending,
		model.RequestStatusInProgress,
		model.RequestStatusOnHold,
	}

	dash := Dashboard{
		ByStatus:   make(map[string]int64),
		ByPriority: make(map[string]int64),
		ByCategory: make(map[string]int64),
	}

	base := func() *gorm.DB {
		return s.db.WithContext(ctx).Model(&model.Request{}).Scopes(model.Active)
	}

	if err := base().Count(&dash.TotalRequests).Error; err != nil {
		return nil, fmt.Errorf("failed to count requests: %w", err)
	}
	if err := base().Where("status IN ?", openStatuses).Count(&dash.OpenRequests).Error; err != nil {
		return nil, fmt.Errorf("failed to count open requests: %w", err)
	}
	err := base().
		Where("status IN ?", openStatuses).
		Where("due_date IS NOT NULL AND due_date < ?", now).
		Count(&dash.OverdueRequests).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count overdue requests: %w", err)
	}
	err = base().
		Where("status = ? AND completed_at >= ?", model.RequestStatusCompleted, monthStart).
		Count(&dash.CompletedThisMonth).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count completed requests: %w", err)
	}

	var statusRows []bucketRow
	err = base().Select("status AS bucket, COUNT(*) AS total").Group("status").Scan(&statusRows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to group by status: %w", err)
	}
	for _, row := range statusRows {
		dash.ByStatus[row.Bucket] = row.Total
	}

	var priorityRows []bucketRow
	err = base().Select("priority AS bucket, COUNT(*) AS total").Group("priority").Scan(&priorityRows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to group by priority: %w", err)
	}
	for _, row := range priorityRows {
		dash.ByPriority[row.Bucket] = row.Total
	}

	var categoryRows []bucketRow
	err = base().
		Select("COALESCE(category, 'Uncategorized') AS bucket, COUNT(*) AS total").
		Group("category").
		Scan(&categoryRows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to group by category: %w", err)
	}
	for _, row := range categoryRows {
		dash.ByCategory[row.Bucket] = row.Total
	}

	err = s.db.WithContext(ctx).Scopes(model.Active).
		Preload("Requester").
		Preload("AssignedTo").
		Order("created_at DESC").
		Limit(10).
		Find(&dash.RecentRequests).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load recent requests: %w", err)
	}

	return &dash, nil
}
