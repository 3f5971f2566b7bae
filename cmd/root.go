package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/movelab/onomatopoeia-api/pkg/config"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "onomatopoeia-api",
	Short: "Onomatopoeia survey API server",
	Long: `Onomatopoeia Survey API - backend for the movement onomatopoeia study

Participants watch short movement videos and annotate the sound-words they
associate with them, optionally with a voice recording, then justify each
annotation in a second pass. This server drives the annotation wizard,
persists rows to the study's Google Sheet, stores audio on Drive, and keeps
the between-pass hand-off state in a local sqlite database.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// NewRootCmd returns the root command (exported for testing)
func NewRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	cobra.OnInitialize(loadConfig)

	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("json-logs", false, "enable JSON formatted logs")
}

// loadConfig loads the configuration when a command needs it
func loadConfig() {
	cmd, _, _ := rootCmd.Find(os.Args[1:])
	if cmd != nil && (cmd.Name() == "version" || cmd.Name() == "help") {
		return
	}

	if err := config.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing config: %v\n", err)
		os.Exit(1)
	}

	applyLogFlags()
}

// applyLogFlags lets the command-line log flags override the configured
// logging settings.
func applyLogFlags() {
	flags := rootCmd.PersistentFlags()
	if level, err := flags.GetString("log-level"); err == nil && level != "" {
		viper.Set("logging.level", level)
	}
	if jsonLogs, err := flags.GetBool("json-logs"); err == nil && jsonLogs {
		viper.Set("logging.format", "json")
	}
}
