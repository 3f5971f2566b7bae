// Package audioupload receives recorded voice clips and stores them on Drive.
package audioupload

import (
	"github.com/gin-gonic/gin"

	"github.com/movelab/onomatopoeia-api/api/types"
	audioservice "github.com/movelab/onomatopoeia-api/internal/services/audio"
)

// Post handles audio upload requests
// @Summary      Upload a voice clip
// @Description  Decodes a base64 webm clip and stores it under the participant's Drive folder
// @Tags         audio
// @Accept       json
// @Produce      json
// @Param        request body audioservice.UploadInput true "Clip payload"
// @Success      200 {object} types.UploadResponse "Stored filename"
// @Failure      400 {object} types.ErrorResponse "Invalid request"
// @Failure      413 {object} types.ErrorResponse "Clip exceeds the size limit"
// @Failure      500 {object} types.ErrorResponse "Storage failed"
// @Router       /upload-audio [post]
func Post(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req audioservice.UploadInput
		if !types.BindJSONOrError(c, &req) {
			return
		}

		fileName, err := deps.Audio.Upload(c.Request.Context(), req)
		if err != nil {
			if deps.Log != nil {
				deps.Log.Error("audio upload failed", "error", err, "participant", req.ParticipantID)
			}
			types.SendServiceError(c, err, "Failed to store audio")
			return
		}

		types.SendSuccess(c, types.UploadResponse{Success: true, FileName: fileName})
	}
}

// RegisterRoutes registers the audio upload route with its own body cap.
func RegisterRoutes(engine *gin.Engine, deps *types.Dependencies, sizeLimit gin.HandlerFunc) {
	engine.POST("/upload-audio", sizeLimit, Post(deps))
}
