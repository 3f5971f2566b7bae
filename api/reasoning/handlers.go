package reasoning

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/movelab/onomatopoeia-api/api/types"
	"github.com/movelab/onomatopoeia-api/internal/models"
	reasoningservice "github.com/movelab/onomatopoeia-api/internal/services/reasoning"
)

// EnterRequest carries the login email, with an optional locale switch.
type EnterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Language string `json:"language"`
}

// EnterResponse pairs the participant with the header label the page shows,
// which for this pass is the email rather than the name.
type EnterResponse struct {
	types.BaseResponse
	Participant *models.Participant `json:"participant"`
	DisplayName string              `json:"displayName"`
}

// LogoutRequest carries the participant id for hand-off cleanup.
type LogoutRequest struct {
	ParticipantID int `json:"participantId" binding:"required"`
}

// SaveRequest pairs the participant with the row match key and text.
type SaveRequest struct {
	ParticipantID int     `json:"participantId" binding:"required"`
	RowID         string  `json:"rowId"`
	Video         string  `json:"video"`
	Onomatopoeia  string  `json:"onomatopoeia"`
	StartTime     float64 `json:"startTime"`
	EndTime       float64 `json:"endTime"`
	Reasoning     string  `json:"reasoning" binding:"required"`
}

// Enter opens the reasoning pass for a participant
// @Summary      Enter the reasoning pass
// @Description  Looks the participant up by email; entry requires a completed annotation pass
// @Tags         reasoning
// @Accept       json
// @Produce      json
// @Param        request body EnterRequest true "Login email"
// @Success      200 {object} EnterResponse "Participant"
// @Failure      400 {object} types.ErrorResponse "Invalid request"
// @Failure      404 {object} types.ErrorResponse "Unknown participant"
// @Failure      409 {object} types.ErrorResponse "Survey not completed"
// @Router       /api/v1/reasoning/enter [post]
func Enter(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req EnterRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}

		participant, _, err := deps.ReasoningPage.Enter(c.Request.Context(), req.Email)
		if err != nil {
			types.SendServiceError(c, err, "Failed to enter reasoning pass")
			return
		}
		if req.Language != "" {
			deps.ReasoningPage.SetLanguage(req.Language)
		}

		types.SendSuccess(c, EnterResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK},
			Participant:  participant,
			DisplayName:  deps.ReasoningPage.DisplayName(participant),
		})
	}
}

// Logout clears the participant's hand-off state
// @Summary      Leave the reasoning pass
// @Tags         reasoning
// @Accept       json
// @Produce      json
// @Param        request body LogoutRequest true "Participant id"
// @Success      200 {object} types.BaseResponse "Logged out"
// @Failure      400 {object} types.ErrorResponse "Invalid request"
// @Router       /api/v1/reasoning/logout [post]
func Logout(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LogoutRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}

		if err := deps.ReasoningPage.Logout(c.Request.Context(), "", req.ParticipantID); err != nil {
			types.SendServiceError(c, err, "Failed to log out")
			return
		}

		types.SendSuccess(c, types.BaseResponse{Status: types.StatusOK, Message: "logged out"})
	}
}

// Segments lists a video's annotations awaiting reasoning
// @Summary      Reasoning segments
// @Description  Lists the participant's real annotations for a video, flagged done when they already carry reasoning
// @Tags         reasoning
// @Produce      json
// @Param        participantId query int true "Participant ID"
// @Param        video query string true "Video name"
// @Success      200 {object} types.SegmentsResponse "Segments"
// @Failure      400 {object} types.ErrorResponse "Invalid parameters"
// @Failure      409 {object} types.ErrorResponse "Survey not completed"
// @Router       /api/v1/reasoning/segments [get]
func Segments(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		participantID, ok := queryParticipantID(c)
		if !ok {
			return
		}
		video := c.Query("video")
		if video == "" {
			types.SendBadRequest(c, "video is required")
			return
		}

		segments, err := deps.Reasoning.Segments(c.Request.Context(), participantID, video)
		if err != nil {
			types.SendServiceError(c, err, "Failed to load segments")
			return
		}

		types.SendSuccess(c, types.SegmentsResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK},
			Video:        video,
			Segments:     segments,
		})
	}
}

// Save stores reasoning text for one annotation
// @Summary      Save reasoning
// @Description  Updates the matched sheet row's reasoning cell
// @Tags         reasoning
// @Accept       json
// @Produce      json
// @Param        request body SaveRequest true "Row key and text"
// @Success      200 {object} types.BaseResponse "Saved"
// @Failure      400 {object} types.ErrorResponse "Text too short"
// @Failure      409 {object} types.ErrorResponse "Survey not completed"
// @Router       /api/v1/reasoning [post]
func Save(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SaveRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}

		err := deps.Reasoning.Save(c.Request.Context(), req.ParticipantID, reasoningservice.SaveRequest{
			RowID:        req.RowID,
			Video:        req.Video,
			Onomatopoeia: req.Onomatopoeia,
			StartTime:    req.StartTime,
			EndTime:      req.EndTime,
			Reasoning:    req.Reasoning,
		})
		if err != nil {
			types.SendServiceError(c, err, "Failed to save reasoning")
			return
		}

		types.SendSuccess(c, types.BaseResponse{Status: types.StatusOK, Message: "reasoning saved"})
	}
}

// Progress reports the completed/total reasoning counter
// @Summary      Reasoning progress
// @Tags         reasoning
// @Produce      json
// @Param        participantId query int true "Participant ID"
// @Success      200 {object} types.ProgressResponse "Progress"
// @Failure      400 {object} types.ErrorResponse "Invalid parameters"
// @Failure      409 {object} types.ErrorResponse "Survey not completed"
// @Router       /api/v1/reasoning/progress [get]
func Progress(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		participantID, ok := queryParticipantID(c)
		if !ok {
			return
		}

		progress, err := deps.Reasoning.Progress(c.Request.Context(), participantID)
		if err != nil {
			types.SendServiceError(c, err, "Failed to compute progress")
			return
		}

		types.SendSuccess(c, types.ProgressResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK},
			Progress:     progress,
		})
	}
}

func queryParticipantID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Query("participantId"))
	if err != nil || id <= 0 {
		types.SendBadRequest(c, "Invalid participantId")
		return 0, false
	}
	return id, true
}
