package workflow

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mesa-desk/mesa/internal/auth"
	"github.com/mesa-desk/mesa/utils"
)

// RegisterRoutes mounts the workflow endpoints on the given group.
func RegisterRoutes(rg *gin.RouterGroup, svc *Service) {
	workflows := rg.Group("/workflows")
	{
		workflows.POST("", createHandler(svc))
		workflows.GET("", listHandler(svc))
		workflows.GET("/:id", getHandler(svc))
		workflows.DELETE("/:id", deleteHandler(svc))
		workflows.POST("/:id/apply/:requestId", applyHandler(svc))
	}
}

func createHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := auth.CurrentActor(c)
		if err != nil {
			utils.RespondError(c, err)
			return
		}

		var in CreateWorkflowInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation_failed", "message": "invalid request body"})
			return
		}

		wf, err := svc.Create(c.Request.Context(), actor, &in)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, wf)
	}
}

func getHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		wf, err := svc.Get(c.Request.Context(), id)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, wf)
	}
}

func listHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var category *string
		if raw := c.Query("category"); raw != "" {
			category = &raw
		}
		activeOnly := c.Query("activeOnly") == "true"

		var pageNumber, pageSize *int
		if raw := c.Query("pageNumber"); raw != "" {
			if n, err := strconv.Atoi(raw); err == nil {
				pageNumber = &n
			}
		}
		if raw := c.Query("pageSize"); raw != "" {
			if n, err := strconv.Atoi(raw); err == nil {
				pageSize = &n
			}
		}

		page, err := svc.List(c.Request.Context(), category, activeOnly, pageNumber, pageSize)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

func deleteHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := auth.CurrentActor(c)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		id, ok := pathID(c, "id")
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

func applyHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := auth.CurrentActor(c)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		workflowID, ok := pathID(c, "id")
		if !ok {
			return
		}
		requestID, ok := pathID(c, "requestId")
		if !ok {
			return
		}

		req, err := svc.Apply(c.Request.Context(), actor, requestID, workflowID)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, req)
	}
}

func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_failed", "message": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}
