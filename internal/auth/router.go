package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mesa-desk/mesa/utils"
)

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// RegisterPublicRoutes mounts the endpoints reachable without a token.
func RegisterPublicRoutes(rg *gin.RouterGroup, svc *AuthService) {
	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/login", loginHandler(svc))
		authGroup.POST("/refresh", refreshHandler(svc))
	}
}

// RegisterProtectedRoutes mounts the endpoints that require a valid token.
func RegisterProtectedRoutes(rg *gin.RouterGroup, svc *AuthService) {
	rg.POST("/auth/logout", logoutHandler(svc))
}

func loginHandler(svc *AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in loginRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation_failed", "message": "invalid request body"})
			return
		}

		result, err := svc.Login(c.Request.Context(), in.Login, in.Password)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func refreshHandler(svc *AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in refreshRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation_failed", "message": "invalid request body"})
			return
		}

		result, err := svc.Refresh(c.Request.Context(), in.RefreshToken)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func logoutHandler(svc *AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := CurrentActor(c)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		if err := svc.Logout(c.Request.Context(), actor.UserID); err != nil {
			utils.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "logged out"})
	}
}
