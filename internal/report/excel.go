package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Requests"

// RenderExcel produces the spreadsheet export: a summary block followed by
// one row per request.
func RenderExcel(report *Report) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	rows := [][]any{
		{"Requests Report"},
		{"Generated at", report.GeneratedAt.Format("2006-01-02 15:04 UTC")},
		{"Total requests", report.Summary.TotalRequests},
		{"Completed", report.Summary.CompletedRequests},
		{"Avg resolution hours", report.Summary.AvgResolutionHours},
		{},
		{"ID", "Description", "Status", "Priority", "Category", "Requester", "Assigned To", "Created", "Completed"},
	}
	for _, req := range report.Requests {
		category := ""
		if req.Category != nil {
			category = *req.Category
		}
		assignedTo := ""
		if req.AssignedTo != nil {
			assignedTo = req.AssignedTo.Name
		}
		completed := ""
		if req.CompletedAt != nil {
			completed = req.CompletedAt.Format("2006-01-02")
		}
		rows = append(rows, []any{
			req.ID,
			req.Description,
			string(req.Status),
			string(req.Priority),
			category,
			req.Requester.Name,
			assignedTo,
			req.CreatedAt.Format("2006-01-02"),
			completed,
		})
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, fmt.Errorf("failed to compute cell name: %w", err)
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}
