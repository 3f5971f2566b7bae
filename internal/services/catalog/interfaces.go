package catalog

import (
	"context"

	"github.com/movelab/onomatopoeia-api/internal/models"
)

// Lister names the Drive fallback used when the video sheet is empty or
// unreadable.
type Lister interface {
	ListVideoFiles(ctx context.Context) ([]string, error)
}

// Service defines the stimulus video catalog.
type Service interface {
	// List returns the catalog in presentation order. Both sources failing
	// yields an empty catalog, not an error.
	List(ctx context.Context) ([]models.Video, error)
}
