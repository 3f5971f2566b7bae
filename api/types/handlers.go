package types

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/movelab/onomatopoeia-api/internal/services/audio"
	"github.com/movelab/onomatopoeia-api/internal/services/participants"
	"github.com/movelab/onomatopoeia-api/internal/services/reasoning"
	"github.com/movelab/onomatopoeia-api/internal/services/session"
	"github.com/movelab/onomatopoeia-api/internal/services/tutorial"
)

// Handler utility functions to reduce duplication across handlers

// BindJSONOrError attempts to bind JSON request body to target struct
// Returns false and sends error response if binding fails
func BindJSONOrError(c *gin.Context, target interface{}) bool {
	if err := c.ShouldBindJSON(target); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Status:  StatusError,
			Error:   "Invalid request body",
			Details: err.Error(),
		})
		return false
	}
	return true
}

// SendBadRequest sends a standardized bad request response
func SendBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Status: StatusError, Error: message})
}

// SendNotFound sends a standardized not found response
func SendNotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Status: StatusError, Error: message})
}

// SendConflict sends a standardized conflict response
func SendConflict(c *gin.Context, message string) {
	c.JSON(http.StatusConflict, ErrorResponse{Status: StatusError, Error: message})
}

// SendInternalError sends a standardized internal server error response
func SendInternalError(c *gin.Context, message string) {
	c.JSON(http.StatusInternalServerError, ErrorResponse{Status: StatusError, Error: message})
}

// SendSuccess sends a standardized success response with data
func SendSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// SendCreated sends a standardized created response with data
func SendCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// SendServiceError maps domain errors onto HTTP status codes. Unrecognized
// errors become a 500 with the given fallback message.
func SendServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, session.ErrValidation),
		errors.Is(err, reasoning.ErrTooShort),
		errors.Is(err, audio.ErrBadPayload):
		SendBadRequest(c, err.Error())
	case errors.Is(err, session.ErrSessionNotFound),
		errors.Is(err, participants.ErrNotFound),
		errors.Is(err, tutorial.ErrWalkthroughNotFound):
		SendNotFound(c, err.Error())
	case errors.Is(err, session.ErrInvalidTransition),
		errors.Is(err, session.ErrSurveyNotCompleted),
		errors.Is(err, tutorial.ErrWrongStep):
		SendConflict(c, err.Error())
	case errors.Is(err, audio.ErrTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Status: StatusError, Error: err.Error()})
	default:
		SendInternalError(c, fallback)
	}
}
