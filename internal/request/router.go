package request

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mesa-desk/mesa/internal/auth"
	"github.com/mesa-desk/mesa/internal/model"
	"github.com/mesa-desk/mesa/internal/report"
	"github.com/mesa-desk/mesa/utils"
)

// RegisterRoutes mounts the request endpoints on the given group.
func RegisterRoutes(rg *gin.RouterGroup, svc *Service) {
	requests := rg.Group("/requests")
	{
		requests.POST("", createHandler(svc))
		requests.GET("", listHandler(svc))
		requests.GET("/:id", getHandler(svc))
		requests.GET("/:id/print", printHandler(svc))
		requests.PUT("/:id/status", updateStatusHandler(svc))
		requests.PUT("/:id/assign", assignHandler(svc))
		requests.POST("/:id/comments", addCommentHandler(svc))
		requests.DELETE("/:id", deleteHandler(svc))
	}
}

func createHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := auth.CurrentActor(c)
		if err != nil {
			utils.RespondError(c, err)
			return
		}

		var in CreateRequestInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation_failed", "message": "invalid request body"})
			return
		}

		req, err := svc.Create(c.Request.Context(), actor, &in)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, req)
	}
}

func getHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		req, err := svc.Get(c.Request.Context(), id)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, req)
	}
}

func printHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		req, err := svc.Get(c.Request.Context(), id)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		doc, err := report.RenderRequestHTML(req)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", doc)
	}
}

func listHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter, err := parseFilter(c)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		page, err := svc.List(c.Request.Context(), filter)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

func updateStatusHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := auth.CurrentActor(c)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		id, ok := pathID(c)
		if !ok {
			return
		}

		var in UpdateStatusInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation_failed", "message": "invalid request body"})
			return
		}

		req, err := svc.UpdateStatus(c.Request.Context(), actor, id, &in)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, req)
	}
}

func assignHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := auth.CurrentActor(c)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		id, ok := pathID(c)
		if !ok {
			return
		}

		var in AssignRequestInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation_failed", "message": "invalid request body"})
			return
		}

		req, err := svc.Assign(c.Request.Context(), actor, id, &in)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, req)
	}
}

func addCommentHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := auth.CurrentActor(c)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		id, ok := pathID(c)
		if !ok {
			return
		}

		var in AddCommentInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation_failed", "message": "invalid request body"})
			return
		}

		comment, err := svc.AddComment(c.Request.Context(), actor, id, &in)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, comment)
	}
}

func deleteHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := auth.CurrentActor(c)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		id, ok := pathID(c)
		if !ok {
			return
		}
		if err := svc.Delete(c.Request.Context(), actor, id); err != nil {
			utils.RespondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// pathID parses the :id path parameter, writing a 400 response on failure.
func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_failed", "message": "invalid request id"})
		return 0, false
	}
	return uint(id), true
}

// parseFilter reads the listing filter from query parameters.
func parseFilter(c *gin.Context) (*RequestFilter, error) {
	filter := RequestFilter{}

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
	if raw := c.Query("requesterId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return nil, invalidQueryParam("requesterId")
		}
		v := uint(id)
		filter.RequesterID = &v
	}
	if raw := c.Query("assignedToId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return nil, invalidQueryParam("assignedToId")
		}
		v := uint(id)
		filter.AssignedToID = &v
	}
	if raw := c.Query("startDate"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, invalidQueryParam("startDate")
		}
		filter.StartDate = &t
	}
	if raw := c.Query("endDate"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, invalidQueryParam("endDate")
		}
		filter.EndDate = &t
	}
	if raw := c.Query("search"); raw != "" {
		filter.SearchTerm = &raw
	}
	if raw := c.Query("pageNumber"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, invalidQueryParam("pageNumber")
		}
		filter.PageNumber = &n
	}
	if raw := c.Query("pageSize"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, invalidQueryParam("pageSize")
		}
		filter.PageSize = &n
	}

	return &filter, nil
}

func invalidQueryParam(name string) error {
	return fmt.Errorf("%w: invalid query parameter %q", model.ErrValidation, name)
}
