package user

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mesa-desk/mesa/internal/auth"
	"github.com/mesa-desk/mesa/utils"
)

// RegisterRoutes mounts the user and role endpoints on the given group.
func RegisterRoutes(rg *gin.RouterGroup, svc *Service) {
	users := rg.Group("/users")
	{
		users.POST("", createHandler(svc))
		users.GET("", listHandler(svc))
		users.GET("/:id", getHandler(svc))
		users.PUT("/:id", updateHandler(svc))
		users.DELETE("/:id", deleteHandler(svc))
		users.POST("/change-password", changePasswordHandler(svc))
	}
	roles := rg.Group("/roles")
	{
		roles.GET("", listRolesHandler(svc))
		roles.GET("/:id", getRoleHandler(svc))
	}
}

func createHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := auth.CurrentActor(c)
		if err != nil {
			utils.RespondError(c, err)
			return
		}

		var in CreateUserInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation_failed", "message": "invalid request body"})
			return
		}

		user, err := svc.Create(c.Request.Context(), actor, &in)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, user)
	}
}

func getHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := resolveUserID(c)
		if !ok {
			return
		}
		user, err := svc.Get(c.Request.Context(), id)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// resolveUserID reads the :id parameter. The literal "me" resolves to the
// acting user, so GET /users/me returns the caller's own profile.
func resolveUserID(c *gin.Context) (uint, bool) {
	if c.Param("id") == "me" {
		actor, err := auth.CurrentActor(c)
		if err != nil {
			utils.RespondError(c, err)
			return 0, false
		}
		return actor.UserID, true
	}
	return pathID(c)
}

func listHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var search *string
		if raw := c.Query("search"); raw != "" {
			search = &raw
		}
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

		page, err := svc.List(c.Request.Context(), search, pageNumber, pageSize)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

func updateHandler(svc *Service) gin.HandlerFunc {
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

		var in UpdateUserInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation_failed", "message": "invalid request body"})
			return
		}

		user, err := svc.Update(c.Request.Context(), actor, id, &in)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, user)
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

func changePasswordHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := auth.CurrentActor(c)
		if err != nil {
			utils.RespondError(c, err)
			return
		}

		var in ChangePasswordInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation_failed", "message": "invalid request body"})
			return
		}

		if err := svc.ChangePassword(c.Request.Context(), actor, &in); err != nil {
			utils.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "password updated"})
	}
}

func listRolesHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		roles, err := svc.ListRoles(c.Request.Context())
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, roles)
	}
}

func getRoleHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		role, err := svc.GetRole(c.Request.Context(), id)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, role)
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
