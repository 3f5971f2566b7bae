package tutorial

import (
	"github.com/gin-gonic/gin"

	"github.com/movelab/onomatopoeia-api/api/types"
)

// RegisterRoutes registers tutorial walkthrough routes
func RegisterRoutes(group *gin.RouterGroup, deps *types.Dependencies) {
	group.POST("", Start(deps))
	group.POST("/:id/step", Step(deps))
}
