package sessions

import (
	"github.com/gin-gonic/gin"

	"github.com/movelab/onomatopoeia-api/api/types"
	"github.com/movelab/onomatopoeia-api/internal/services/session"
)

// CreateRequest identifies the participant starting an annotation pass.
type CreateRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// SelectRequest names the catalog video to jump to.
type SelectRequest struct {
	Video string `json:"video" binding:"required"`
}

// AnswerRequest carries the yes/no decision.
type AnswerRequest struct {
	Answer string `json:"answer" binding:"required,oneof=yes no"`
}

// CaptureRequest records one playback position.
type CaptureRequest struct {
	Point    string  `json:"point" binding:"required,oneof=start end"`
	Position float64 `json:"position"`
}

// LogoutRequest carries the participant id for hand-off cleanup.
type LogoutRequest struct {
	ParticipantID int `json:"participantId" binding:"required"`
}

// Create starts an annotation session
// @Summary      Start a session
// @Description  Resolves the participant by email and starts the annotation pass on the first video
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        request body CreateRequest true "Participant email"
// @Success      201 {object} types.SessionCreatedResponse "New session"
// @Failure      400 {object} types.ErrorResponse "Invalid request"
// @Failure      404 {object} types.ErrorResponse "Unknown participant"
// @Router       /api/v1/sessions [post]
func Create(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}

		participant, snap, err := deps.Survey.Enter(c.Request.Context(), req.Email)
		if err != nil {
			types.SendServiceError(c, err, "Failed to start session")
			return
		}

		types.SendCreated(c, types.SessionCreatedResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK},
			Participant:  participant,
			Session:      snap,
		})
	}
}

// State returns the current session snapshot
// @Summary      Session state
// @Tags         sessions
// @Produce      json
// @Param        id path string true "Session ID"
// @Success      200 {object} types.SessionResponse "Snapshot"
// @Failure      404 {object} types.ErrorResponse "Unknown session"
// @Router       /api/v1/sessions/{id} [get]
func State(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap, err := deps.Sessions.State(c.Request.Context(), c.Param("id"))
		if err != nil {
			types.SendServiceError(c, err, "Failed to read session")
			return
		}
		sendSnapshot(c, snap)
	}
}

// Select jumps to a catalog video
// @Summary      Select a video
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        id path string true "Session ID"
// @Param        request body SelectRequest true "Video name"
// @Success      200 {object} types.SessionResponse "Snapshot"
// @Failure      400 {object} types.ErrorResponse "Unknown video"
// @Failure      404 {object} types.ErrorResponse "Unknown session"
// @Router       /api/v1/sessions/{id}/select [post]
func Select(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SelectRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}

		snap, err := deps.Sessions.Select(c.Request.Context(), c.Param("id"), req.Video)
		if err != nil {
			types.SendServiceError(c, err, "Failed to select video")
			return
		}
		sendSnapshot(c, snap)
	}
}

// Answer records the yes/no decision
// @Summary      Answer yes or no
// @Description  "no" writes the no-onomatopoeia row and advances; "yes" opens the input form
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        id path string true "Session ID"
// @Param        request body AnswerRequest true "Decision"
// @Success      200 {object} types.SessionResponse "Snapshot"
// @Failure      404 {object} types.ErrorResponse "Unknown session"
// @Failure      409 {object} types.ErrorResponse "Not awaiting an answer"
// @Router       /api/v1/sessions/{id}/answer [post]
func Answer(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AnswerRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}

		var snap *session.Snapshot
		var err error
		if req.Answer == "yes" {
			snap, err = deps.Sessions.AnswerYes(c.Request.Context(), c.Param("id"))
		} else {
			snap, err = deps.Sessions.AnswerNo(c.Request.Context(), c.Param("id"))
		}
		if err != nil {
			types.SendServiceError(c, err, "Failed to record answer")
			return
		}
		sendSnapshot(c, snap)
	}
}

// Capture records a playback position
// @Summary      Capture a time
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        id path string true "Session ID"
// @Param        request body CaptureRequest true "Which point and where"
// @Success      200 {object} types.SessionResponse "Snapshot"
// @Failure      404 {object} types.ErrorResponse "Unknown session"
// @Failure      409 {object} types.ErrorResponse "Input form not open"
// @Router       /api/v1/sessions/{id}/capture [post]
func Capture(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CaptureRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}

		var snap *session.Snapshot
		var err error
		if req.Point == "start" {
			snap, err = deps.Sessions.CaptureStart(c.Request.Context(), c.Param("id"), req.Position)
		} else {
			snap, err = deps.Sessions.CaptureEnd(c.Request.Context(), c.Param("id"), req.Position)
		}
		if err != nil {
			types.SendServiceError(c, err, "Failed to capture time")
			return
		}
		sendSnapshot(c, snap)
	}
}

// Save persists the annotation
// @Summary      Save an annotation
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        id path string true "Session ID"
// @Param        request body session.SaveInput true "Annotation form"
// @Success      200 {object} types.SessionResponse "Snapshot"
// @Failure      400 {object} types.ErrorResponse "Validation failed"
// @Failure      404 {object} types.ErrorResponse "Unknown session"
// @Router       /api/v1/sessions/{id}/save [post]
func Save(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input session.SaveInput
		if !types.BindJSONOrError(c, &input) {
			return
		}

		snap, err := deps.Sessions.Save(c.Request.Context(), c.Param("id"), input)
		if err != nil {
			types.SendServiceError(c, err, "Failed to save annotation")
			return
		}
		sendSnapshot(c, snap)
	}
}

// Advance moves to the next video
// @Summary      Advance the session
// @Tags         sessions
// @Produce      json
// @Param        id path string true "Session ID"
// @Success      200 {object} types.SessionResponse "Snapshot"
// @Failure      404 {object} types.ErrorResponse "Unknown session"
// @Router       /api/v1/sessions/{id}/advance [post]
func Advance(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap, err := deps.Sessions.Advance(c.Request.Context(), c.Param("id"))
		if err != nil {
			types.SendServiceError(c, err, "Failed to advance session")
			return
		}
		sendSnapshot(c, snap)
	}
}

// Logout ends the session and clears hand-off state
// @Summary      Log out
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        id path string true "Session ID"
// @Param        request body LogoutRequest true "Participant id"
// @Success      200 {object} types.BaseResponse "Logged out"
// @Failure      404 {object} types.ErrorResponse "Unknown session"
// @Router       /api/v1/sessions/{id}/logout [post]
func Logout(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LogoutRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}

		if err := deps.Survey.Logout(c.Request.Context(), c.Param("id"), req.ParticipantID); err != nil {
			types.SendServiceError(c, err, "Failed to log out")
			return
		}

		types.SendSuccess(c, types.BaseResponse{Status: types.StatusOK, Message: "logged out"})
	}
}

func sendSnapshot(c *gin.Context, snap *session.Snapshot) {
	types.SendSuccess(c, types.SessionResponse{
		BaseResponse: types.BaseResponse{Status: types.StatusOK},
		Session:      snap,
	})
}
