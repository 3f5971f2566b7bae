package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/movelab/onomatopoeia-api/api"
	"github.com/movelab/onomatopoeia-api/api/types"
	"github.com/movelab/onomatopoeia-api/internal/database"
	"github.com/movelab/onomatopoeia-api/internal/gdrive"
	"github.com/movelab/onomatopoeia-api/internal/googleauth"
	"github.com/movelab/onomatopoeia-api/internal/logger"
	"github.com/movelab/onomatopoeia-api/internal/services/audio"
	"github.com/movelab/onomatopoeia-api/internal/services/catalog"
	"github.com/movelab/onomatopoeia-api/internal/services/handoff"
	"github.com/movelab/onomatopoeia-api/internal/services/participants"
	"github.com/movelab/onomatopoeia-api/internal/services/reasoning"
	"github.com/movelab/onomatopoeia-api/internal/services/session"
	"github.com/movelab/onomatopoeia-api/internal/services/tutorial"
	"github.com/movelab/onomatopoeia-api/internal/sheets"
	"github.com/movelab/onomatopoeia-api/pkg/config"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the survey API server",
	Long: `Start the HTTP API server that drives the onomatopoeia survey.

The server reads and appends annotation rows in the study spreadsheet,
uploads voice recordings to Drive, and mirrors each participant's progress
into a local sqlite database so the reasoning pass can pick up where the
survey pass finished.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.GetConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer log.Sync()

	db, err := database.Initialize(cfg.Database.Path, cfg.Database.Verbose)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}

	deps, err := buildDependencies(cmd.Context(), cfg, log, db)
	if err != nil {
		return err
	}

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := api.NewServer(address)
	server.SetDependencies(deps)

	if err := server.Initialize(); err != nil {
		return fmt.Errorf("initializing server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", "address", address)
		errCh <- server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		log.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info("server stopped")
	return nil
}

// buildDependencies wires the service graph from configuration. The Drive
// client and the local minter are both best-effort: the survey degrades to
// text-only annotations without Drive, and token minting is skipped when a
// remote token endpoint is configured instead.
func buildDependencies(ctx context.Context, cfg *config.Config, log *logger.Logger, db *database.DB) (*types.Dependencies, error) {
	deps := &types.Dependencies{DB: db, Log: log}

	var tokens sheets.TokenSource
	if cfg.Google.TokenEndpoint != "" {
		tokens = sheets.NewRemoteTokenSource(sheets.TokenSourceConfig{
			Endpoint:      cfg.Google.TokenEndpoint,
			SpreadsheetID: cfg.Google.SpreadsheetID,
			SheetName:     cfg.Google.OnomatopoeiaSheet,
			Timeout:       cfg.Google.TokenTimeout,
			CacheTTL:      cfg.Google.TokenCacheTTL,
		})
	} else {
		creds, err := googleauth.LoadCredentials(cfg.Google.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("loading Google credentials: %w", err)
		}
		minter, err := googleauth.NewMinter(creds)
		if err != nil {
			return nil, fmt.Errorf("creating token minter: %w", err)
		}
		deps.TokenMinter = minter
		tokens = googleauth.NewCachingSource(minter, cfg.Google.TokenCacheTTL, googleauth.ScopeSpreadsheets)
	}

	drive, err := gdrive.NewClient(ctx, cfg.Google.DriveAudioFolder, cfg.Google.DriveVideoFolder, gdrive.ClientOptionsFromEnv()...)
	if err != nil {
		log.Warn("Drive unavailable, audio upload and video fallback disabled", "error", err)
		drive = nil
	}

	var uploader sheets.AudioUploader
	var lister catalog.Lister
	if drive != nil {
		uploader = drive
		lister = drive
	}

	gateway := sheets.NewClient(sheets.ClientConfig{
		BaseURL:       cfg.Google.SheetsBaseURL,
		SpreadsheetID: cfg.Google.SpreadsheetID,
	}, tokens, uploader)
	deps.Gateway = gateway
	deps.VideoLister = lister

	deps.Participants = participants.NewService(gateway, participants.Config{
		SheetName:            cfg.Google.ParticipantSheet,
		CaseInsensitiveEmail: cfg.Participants.CaseInsensitiveEmail,
	})

	deps.Catalog = catalog.NewService(gateway, lister, log, catalog.Config{
		SheetName: cfg.Google.VideoSheet,
		Extension: cfg.Catalog.Extension,
		Locale:    cfg.Catalog.Locale,
	})

	deps.Audio = audio.NewService(gateway, cfg.Audio.MaxBytes)
	deps.Handoff = handoff.NewService(db)

	machine := session.NewMachine(gateway, gateway, deps.Catalog, deps.Handoff, log, session.Config{
		SheetName:     cfg.Google.OnomatopoeiaSheet,
		MaxAudioBytes: cfg.Audio.MaxBytes,
	})
	deps.Sessions = machine
	deps.Survey = session.NewController(&session.SurveyPage{Machine: machine, Log: log}, deps.Participants, machine, log)
	deps.ReasoningPage = session.NewController(&session.ReasoningPage{Handoff: deps.Handoff, Log: log}, deps.Participants, machine, log)

	deps.Reasoning = reasoning.NewService(gateway, deps.Handoff, log, reasoning.Config{
		SheetName: cfg.Google.OnomatopoeiaSheet,
	})
	deps.Tutorial = tutorial.NewService(log)

	return deps, nil
}
