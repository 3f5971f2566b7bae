package reasoning

import (
	"github.com/gin-gonic/gin"

	"github.com/movelab/onomatopoeia-api/api/types"
)

// RegisterRoutes registers reasoning pass routes
func RegisterRoutes(group *gin.RouterGroup, deps *types.Dependencies) {
	group.POST("", Save(deps))
	group.POST("/enter", Enter(deps))
	group.POST("/logout", Logout(deps))
	group.GET("/segments", Segments(deps))
	group.GET("/progress", Progress(deps))
}
