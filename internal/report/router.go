package report

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mesa-desk/mesa/internal/model"
	"github.com/mesa-desk/mesa/utils"
)

// RegisterRoutes mounts the report endpoints on the given group.
func RegisterRoutes(rg *gin.RouterGroup, svc *Service) {
	reports := rg.Group("/reports")
	{
		reports.GET("/requests", jsonHandler(svc))
		reports.GET("/requests/html", htmlHandler(svc))
		reports.GET("/requests/excel", excelHandler(svc))
	}
}

func jsonHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter, err := parseFilter(c)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		report, err := svc.Build(c.Request.Context(), filter)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, report)
	}
}

func htmlHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter, err := parseFilter(c)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		report, err := svc.Build(c.Request.Context(), filter)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		doc, err := RenderHTML(report)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", doc)
	}
}

func excelHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter, err := parseFilter(c)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		report, err := svc.Build(c.Request.Context(), filter)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		doc, err := RenderExcel(report)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		filename := fmt.Sprintf("requests-report-%s.xlsx", report.GeneratedAt.Format("20060102-150405"))
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", doc)
	}
}

func parseFilter(c *gin.Context) (*Filter, error) {
	filter := Filter{}

	if raw := c.Query("startDate"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid query parameter %q", model.ErrValidation, "startDate")
		}
		filter.StartDate = &t
	}
	if raw := c.Query("endDate"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid query parameter %q", model.ErrValidation, "endDate")
		}
		filter.EndDate = &t
	}
	if raw := c.Query("status"); raw != "" {
		status, err := model.ParseRequestStatus(raw)
		if err != nil {
			return nil, err
		}
		filter.Status = &status
	}
	if raw := c.Query("priority"); raw != "" {
		priority, err := model.ParseRequestPriority(raw)
		if err != nil {
			return nil, err
		}
		filter.Priority = &priority
	}
	if raw := c.Query("category"); raw != "" {
		filter.Category = &raw
	}
	if raw := c.Query("assignedToId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid query parameter %q", model.ErrValidation, "assignedToId")
		}
		v := uint(id)
		filter.AssignedToID = &v
	}

	return &filter, nil
}
