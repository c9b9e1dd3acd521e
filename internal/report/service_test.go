package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mesa-desk/mesa/internal/model"
)

func makeRequest(status model.RequestStatus, priority model.RequestPriority, created time.Time, completed *time.Time) model.Request {
	req := model.Request{
		Description: "test",
		Status:      status,
		Priority:    priority,
		CompletedAt: completed,
	}
	req.CreatedAt = created
	return req
}

func TestSummarize(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	twoHoursLater := base.Add(2 * time.Hour)
	sixHoursLater := base.Add(6 * time.Hour)

	requests := []model.Request{
		makeRequest(model.RequestStatusCompleted, model.RequestPriorityHigh, base, &twoHoursLater),
		makeRequest(model.RequestStatusCompleted, model.RequestPriorityLow, base, &sixHoursLater),
		makeRequest(model.RequestStatusPending, model.RequestPriorityHigh, base, nil),
		makeRequest(model.RequestStatusOnHold, model.RequestPriorityMedium, base, nil),
	}

	summary := Summarize(requests)

	assert.Equal(t, int64(4), summary.TotalRequests)
	assert.Equal(t, int64(2), summary.CompletedRequests)
	// (2h + 6h) / 2 completed
	assert.InDelta(t, 4.0, summary.AvgResolutionHours, 0.001)
	assert.Equal(t, int64(2), summary.ByStatus["COMPLETED"])
	assert.Equal(t, int64(1), summary.ByStatus["PENDING"])
	assert.Equal(t, int64(2), summary.ByPriority["HIGH"])
}

func TestSummarize_Empty(t *testing.T) {
	summary := Summarize(nil)

	assert.Equal(t, int64(0), summary.TotalRequests)
	assert.Equal(t, int64(0), summary.CompletedRequests)
	assert.Equal(t, 0.0, summary.AvgResolutionHours)
}

func TestSummarize_IgnoresCompletedWithoutTimestamp(t *testing.T) {
	base := time.Now().UTC()
	requests := []model.Request{
		makeRequest(model.RequestStatusCompleted, model.RequestPriorityLow, base, nil),
	}

	summary := Summarize(requests)

	assert.Equal(t, int64(0), summary.CompletedRequests)
	assert.Equal(t, 0.0, summary.AvgResolutionHours)
}

func TestRenderHTML(t *testing.T) {
	completed := time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC)
	req := makeRequest(model.RequestStatusCompleted, model.RequestPriorityHigh, completed.Add(-3*time.Hour), &completed)
	req.ID = 7
	req.Description = "Replace <broken> monitor"
	req.Requester = model.User{Name: "Alice"}

	report := &Report{
		GeneratedAt: completed,
		Summary:     Summarize([]model.Request{req}),
		Requests:    []model.Request{req},
	}

	doc, err := RenderHTML(report)
	assert.NoError(t, err)

	html := string(doc)
	assert.Contains(t, html, "Requests Report")
	assert.Contains(t, html, "Alice")
	// Description must be escaped.
	assert.Contains(t, html, "Replace &lt;broken&gt; monitor")
	assert.False(t, strings.Contains(html, "Replace <broken> monitor"))
}

func TestRenderExcel(t *testing.T) {
	completed := time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC)
	req := makeRequest(model.RequestStatusCompleted, model.RequestPriorityHigh, completed.Add(-3*time.Hour), &completed)
	req.ID = 7
	req.Requester = model.User{Name: "Alice"}

	report := &Report{
		GeneratedAt: completed,
		Summary:     Summarize([]model.Request{req}),
		Requests:    []model.Request{req},
	}

	doc, err := RenderExcel(report)
	assert.NoError(t, err)
	assert.NotEmpty(t, doc)
	// XLSX files are zip archives.
	assert.Equal(t, byte('P'), doc[0])
	assert.Equal(t, byte('K'), doc[1])
}
