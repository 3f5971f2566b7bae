package videos

import (
	"github.com/gin-gonic/gin"

	"github.com/movelab/onomatopoeia-api/api/types"
)

// Get lists the stimulus video catalog
// @Summary      Video catalog
// @Description  Returns the ordered stimulus video list
// @Tags         videos
// @Produce      json
// @Success      200 {object} types.VideosResponse "Catalog"
// @Failure      500 {object} types.ErrorResponse "Catalog unavailable"
// @Router       /api/v1/videos [get]
func Get(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		videos, err := deps.Catalog.List(c.Request.Context())
		if err != nil {
			if deps.Log != nil {
				deps.Log.Error("catalog listing failed", "error", err)
			}
			types.SendInternalError(c, "Failed to list videos")
			return
		}

		types.SendSuccess(c, types.VideosResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK},
			Videos:       videos,
			Count:        len(videos),
		})
	}
}
