package participants

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/movelab/onomatopoeia-api/api/types"
	participantstore "github.com/movelab/onomatopoeia-api/internal/services/participants"
)

// LookupRequest carries the login email.
type LookupRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// Lookup finds a participant by email
// @Summary      Look up a participant
// @Description  Finds the participant row matching the email
// @Tags         participants
// @Accept       json
// @Produce      json
// @Param        request body LookupRequest true "Login email"
// @Success      200 {object} types.ParticipantResponse "Participant"
// @Failure      400 {object} types.ErrorResponse "Invalid request"
// @Failure      404 {object} types.ErrorResponse "No participant with that email"
// @Router       /api/v1/participants/lookup [post]
func Lookup(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LookupRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}

		participant, err := deps.Participants.Lookup(c.Request.Context(), req.Email)
		if errors.Is(err, participantstore.ErrNotFound) {
			types.SendNotFound(c, "Participant not found")
			return
		}
		if err != nil {
			if deps.Log != nil {
				deps.Log.Error("participant lookup failed", "error", err)
			}
			types.SendInternalError(c, "Failed to look up participant")
			return
		}

		types.SendSuccess(c, types.ParticipantResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK},
			Participant:  participant,
		})
	}
}

// Create registers a new participant
// @Summary      Register a participant
// @Description  Appends a participant row with the next free id
// @Tags         participants
// @Accept       json
// @Produce      json
// @Param        request body participantstore.RegistrationFields true "Signup fields"
// @Success      201 {object} types.ParticipantResponse "Created participant"
// @Failure      400 {object} types.ErrorResponse "Invalid request"
// @Failure      500 {object} types.ErrorResponse "Sheet write failed"
// @Router       /api/v1/participants [post]
func Create(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var fields participantstore.RegistrationFields
		if !types.BindJSONOrError(c, &fields) {
			return
		}
		if fields.Email == "" {
			types.SendBadRequest(c, "email is required")
			return
		}

		participant, err := deps.Participants.Create(c.Request.Context(), fields)
		if err != nil {
			if deps.Log != nil {
				deps.Log.Error("participant create failed", "error", err)
			}
			types.SendInternalError(c, "Failed to register participant")
			return
		}

		types.SendCreated(c, types.ParticipantResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK},
			Participant:  participant,
		})
	}
}
