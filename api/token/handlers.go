// Package token exposes the access-token exchange the browser clients use to
// talk to the Sheets API directly.
package token

import (
	"github.com/gin-gonic/gin"

	"github.com/movelab/onomatopoeia-api/api/types"
	"github.com/movelab/onomatopoeia-api/internal/googleauth"
)

// Request identifies the spreadsheet the caller wants a token for. Neither
// field selects credentials; they are required for parity with the original
// function's contract and for audit logging.
type Request struct {
	SpreadsheetID string `json:"spreadsheetId" binding:"required"`
	SheetName     string `json:"sheetName" binding:"required"`
}

// Post handles token exchange requests
// @Summary      Mint a Sheets access token
// @Description  Exchanges the server's service-account credentials for a short-lived spreadsheet access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body Request true "Target spreadsheet"
// @Success      200 {object} types.TokenResponse "Access token"
// @Failure      400 {object} types.ErrorResponse "Invalid request"
// @Failure      500 {object} types.ErrorResponse "Token exchange failed"
// @Router       /get-access-token [post]
func Post(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req Request
		if !types.BindJSONOrError(c, &req) {
			return
		}

		if deps.TokenMinter == nil {
			types.SendInternalError(c, "Token minting is not configured")
			return
		}

		if deps.Log != nil {
			deps.Log.Debug("minting access token",
				"spreadsheet", req.SpreadsheetID, "sheet", req.SheetName)
		}

		accessToken, err := deps.TokenMinter.Mint(c.Request.Context(), googleauth.ScopeSpreadsheets)
		if err != nil {
			if deps.Log != nil {
				deps.Log.Error("token exchange failed", "error", err)
			}
			types.SendInternalError(c, "Failed to obtain access token")
			return
		}

		types.SendSuccess(c, types.TokenResponse{AccessToken: accessToken})
	}
}

// RegisterRoutes registers the token exchange route
func RegisterRoutes(engine *gin.Engine, deps *types.Dependencies) {
	engine.POST("/get-access-token", Post(deps))
}
