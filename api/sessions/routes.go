package sessions

import (
	"github.com/gin-gonic/gin"

	"github.com/movelab/onomatopoeia-api/api/types"
)

// RegisterRoutes registers annotation session routes. saveSizeLimit caps the
// save body, which may carry an inline base64 clip far over the default limit.
func RegisterRoutes(group *gin.RouterGroup, deps *types.Dependencies, saveSizeLimit gin.HandlerFunc) {
	group.POST("", Create(deps))
	group.GET("/:id", State(deps))
	group.POST("/:id/select", Select(deps))
	group.POST("/:id/answer", Answer(deps))
	group.POST("/:id/capture", Capture(deps))
	group.POST("/:id/save", saveSizeLimit, Save(deps))
	group.POST("/:id/advance", Advance(deps))
	group.POST("/:id/logout", Logout(deps))
}
