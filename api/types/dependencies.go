package types

import (
	"context"

	"github.com/movelab/onomatopoeia-api/internal/database"
	"github.com/movelab/onomatopoeia-api/internal/logger"
	"github.com/movelab/onomatopoeia-api/internal/services/audio"
	"github.com/movelab/onomatopoeia-api/internal/services/catalog"
	"github.com/movelab/onomatopoeia-api/internal/services/handoff"
	"github.com/movelab/onomatopoeia-api/internal/services/participants"
	"github.com/movelab/onomatopoeia-api/internal/services/reasoning"
	"github.com/movelab/onomatopoeia-api/internal/services/session"
	"github.com/movelab/onomatopoeia-api/internal/services/tutorial"
	"github.com/movelab/onomatopoeia-api/internal/sheets"
)

// TokenMinter exchanges service-account credentials for a short-lived access
// token.
type TokenMinter interface {
	Mint(ctx context.Context, scopes ...string) (string, error)
}

// Dependencies holds all the dependencies needed by handlers
type Dependencies struct {
	DB           *database.DB
	Log          *logger.Logger
	Gateway      sheets.Gateway
	Participants participants.Service
	Catalog      catalog.Service
	Sessions     session.Service
	Survey       *session.Controller
	// ReasoningPage gates entry to the reasoning pass and clears hand-off
	// state on logout.
	ReasoningPage *session.Controller
	Reasoning     reasoning.Service
	Tutorial     tutorial.Service
	Audio        audio.Service
	Handoff      handoff.Service
	TokenMinter  TokenMinter
	VideoLister  catalog.Lister
}
