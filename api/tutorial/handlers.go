package tutorial

import (
	"github.com/gin-gonic/gin"

	"github.com/movelab/onomatopoeia-api/api/types"
	tutorialservice "github.com/movelab/onomatopoeia-api/internal/services/tutorial"
)

// Start begins a walkthrough
// @Summary      Start the tutorial
// @Description  Starts a scripted walkthrough of the annotation wizard against demo data
// @Tags         tutorial
// @Produce      json
// @Success      201 {object} tutorialservice.Progress "Walkthrough state"
// @Failure      500 {object} types.ErrorResponse "Start failed"
// @Router       /api/v1/tutorial [post]
func Start(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		progress, err := deps.Tutorial.Start(c.Request.Context())
		if err != nil {
			if deps.Log != nil {
				deps.Log.Error("tutorial start failed", "error", err)
			}
			types.SendInternalError(c, "Failed to start tutorial")
			return
		}
		types.SendCreated(c, progress)
	}
}

// Step executes the next scripted action
// @Summary      Run a tutorial step
// @Description  Executes the next scripted step; out-of-order steps are rejected
// @Tags         tutorial
// @Accept       json
// @Produce      json
// @Param        id path string true "Walkthrough ID"
// @Param        request body tutorialservice.StepInput true "Step and parameters"
// @Success      200 {object} tutorialservice.Progress "Walkthrough state"
// @Failure      404 {object} types.ErrorResponse "Unknown walkthrough"
// @Failure      409 {object} types.ErrorResponse "Step out of order"
// @Router       /api/v1/tutorial/{id}/step [post]
func Step(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input tutorialservice.StepInput
		if !types.BindJSONOrError(c, &input) {
			return
		}

		progress, err := deps.Tutorial.Do(c.Request.Context(), c.Param("id"), input)
		if err != nil {
			types.SendServiceError(c, err, "Failed to run tutorial step")
			return
		}
		types.SendSuccess(c, progress)
	}
}
