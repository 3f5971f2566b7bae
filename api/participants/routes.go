package participants

import (
	"github.com/gin-gonic/gin"

	"github.com/movelab/onomatopoeia-api/api/types"
)

// RegisterRoutes registers participant routes
func RegisterRoutes(group *gin.RouterGroup, deps *types.Dependencies) {
	group.POST("", Create(deps))
	group.POST("/lookup", Lookup(deps))
}
