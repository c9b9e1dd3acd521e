package stats

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mesa-desk/mesa/utils"
)

// RegisterRoutes mounts the dashboard endpoint on the given group.
func RegisterRoutes(rg *gin.RouterGroup, svc *Service) {
	rg.GET("/stats/dashboard", dashboardHandler(svc))
}

func dashboardHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		dash, err := svc.Dashboard(c.Request.Context())
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, dash)
	}
}
