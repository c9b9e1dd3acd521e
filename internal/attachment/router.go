package attachment

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mesa-desk/mesa/internal/auth"
	"github.com/mesa-desk/mesa/utils"
)

// RegisterRoutes mounts the attachment endpoints on the given group.
func RegisterRoutes(rg *gin.RouterGroup, svc *Service) {
	rg.POST("/requests/:id/attachments", uploadHandler(svc))
	rg.GET("/requests/:id/attachments", listHandler(svc))
	attachments := rg.Group("/attachments")
	{
		attachments.GET("/:id/download", downloadHandler(svc))
		attachments.DELETE("/:id", deleteHandler(svc))
	}
}

func uploadHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := auth.CurrentActor(c)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		requestID, ok := pathID(c)
		if !ok {
			return
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation_failed", "message": "multipart field \"file\" is required"})
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			utils.RespondError(c, fmt.Errorf("failed to open uploaded file: %w", err))
			return
		}
		defer file.Close()

		att, err := svc.Upload(
			c.Request.Context(),
			actor,
			requestID,
			fileHeader.Filename,
			file,
			fileHeader.Size,
			fileHeader.Header.Get("Content-Type"),
		)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, att)
	}
}

func listHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID, ok := pathID(c)
		if !ok {
			return
		}
		attachments, err := svc.List(c.Request.Context(), requestID)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, attachments)
	}
}

func downloadHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}

		att, reader, contentType, err := svc.Download(c.Request.Context(), id)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		defer reader.Close()

		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", att.FileName))
		c.DataFromReader(http.StatusOK, att.FileSize, contentType, reader, nil)
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

func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_failed", "message": "invalid id"})
		return 0, false
	}
	return uint(id), true
}
