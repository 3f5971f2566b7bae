// Package files exposes the fallback video listing the clients use when the
// catalog sheet is unavailable.
package files

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/movelab/onomatopoeia-api/api/types"
)

// Get handles fallback video listing requests
// @Summary      List video files
// @Description  Lists the stimulus video filenames in the Drive folder
// @Tags         files
// @Produce      json
// @Success      200 {array} string "Filenames"
// @Failure      500 {object} types.ErrorResponse "Listing failed"
// @Router       /fetch-files [get]
func Get(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		if deps.VideoLister == nil {
			types.SendInternalError(c, "Video listing is not configured")
			return
		}

		names, err := deps.VideoLister.ListVideoFiles(c.Request.Context())
		if err != nil {
			if deps.Log != nil {
				deps.Log.Error("video listing failed", "error", err)
			}
			types.SendInternalError(c, "Failed to list video files")
			return
		}
		if names == nil {
			names = []string{}
		}

		c.JSON(http.StatusOK, names)
	}
}

// RegisterRoutes registers the fallback listing route
func RegisterRoutes(engine *gin.Engine, deps *types.Dependencies) {
	engine.GET("/fetch-files", Get(deps))
}
