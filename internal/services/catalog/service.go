package catalog

import (
	"context"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/movelab/onomatopoeia-api/internal/logger"
	"github.com/movelab/onomatopoeia-api/internal/models"
	"github.com/movelab/onomatopoeia-api/internal/sheets"
)

// ServiceImpl builds the catalog from the video sheet, falling back to the
// Drive folder listing when the sheet is empty or unreadable.
type ServiceImpl struct {
	gateway   sheets.Gateway
	fallback  Lister
	log       *logger.Logger
	sheetName string
	extension string
	collator  *collate.Collator
}

// Config holds catalog settings.
type Config struct {
	SheetName string
	Extension string
	Locale    string
}

// NewService creates a catalog over the video sheet with an optional Drive
// fallback (nil disables it).
func NewService(gateway sheets.Gateway, fallback Lister, log *logger.Logger, cfg Config) *ServiceImpl {
	if cfg.SheetName == "" {
		cfg.SheetName = "SelectedVideos"
	}
	if cfg.Extension == "" {
		cfg.Extension = ".mp4"
	}
	if log == nil {
		log = logger.NewNop()
	}

	tag, err := language.Parse(cfg.Locale)
	if err != nil {
		tag = language.Und
	}

	return &ServiceImpl{
		gateway:   gateway,
		fallback:  fallback,
		log:       log,
		sheetName: cfg.SheetName,
		extension: cfg.Extension,
		// Numeric puts "video2" before "video10".
		collator: collate.New(tag, collate.Numeric),
	}
}

// List returns the catalog in natural-alphabetical order. The sheet is the
// primary source; the Drive listing covers sheet outages. Both failing is not
// an error, just an empty catalog.
func (s *ServiceImpl) List(ctx context.Context) ([]models.Video, error) {
	names, err := s.fromSheet(ctx)
	if err != nil || len(names) == 0 {
		if err != nil {
			s.log.Warn("video sheet unavailable, trying drive fallback", "error", err)
		}
		names = s.fromDrive(ctx)
	}

	s.collator.SortStrings(names)

	videos := make([]models.Video, 0, len(names))
	for _, name := range names {
		videos = append(videos, models.Video{Name: name})
	}
	return videos, nil
}

// fromSheet reads the first column of the video sheet, skipping the header
// row and blank cells.
func (s *ServiceImpl) fromSheet(ctx context.Context) ([]string, error) {
	rows, err := s.gateway.GetRows(ctx, s.sheetName)
	if err != nil {
		return nil, err
	}

	var names []string
	for i, row := range rows {
		if i == 0 || len(row) == 0 {
			continue
		}
		name := strings.TrimSpace(row[0])
		if name == "" {
			continue
		}
		names = append(names, s.withExtension(name))
	}
	return names, nil
}

func (s *ServiceImpl) fromDrive(ctx context.Context) []string {
	if s.fallback == nil {
		return nil
	}

	listed, err := s.fallback.ListVideoFiles(ctx)
	if err != nil {
		s.log.Warn("drive video listing failed, catalog is empty", "error", err)
		return nil
	}

	var names []string
	for _, name := range listed {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		names = append(names, s.withExtension(name))
	}
	return names
}

func (s *ServiceImpl) withExtension(name string) string {
	if strings.HasSuffix(strings.ToLower(name), s.extension) {
		return name
	}
	return name + s.extension
}
