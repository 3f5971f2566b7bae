package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func TestRootCommand(t *testing.T) {
	tests := []struct {
		name           string
		args           []string
		wantErr        bool
		expectedOutput string
	}{
		{
			name:           "root command without args shows help",
			args:           []string{},
			wantErr:        false,
			expectedOutput: "Onomatopoeia Survey API",
		},
		{
			name:           "root command with --help",
			args:           []string{"--help"},
			wantErr:        false,
			expectedOutput: "Available Commands:",
		},
		{
			name:           "root command with invalid flag",
			args:           []string{"--invalid-flag"},
			wantErr:        true,
			expectedOutput: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewRootCmd()
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetErr(buf)
			cmd.SetArgs(tt.args)

			err := cmd.Execute()
			if (err != nil) != tt.wantErr {
				t.Errorf("Execute() error = %v, wantErr %v", err, tt.wantErr)
			}

			if tt.expectedOutput != "" && !strings.Contains(buf.String(), tt.expectedOutput) {
				t.Errorf("Expected output to contain %q, got %q", tt.expectedOutput, buf.String())
			}
		})
	}
}

func TestLogFlags(t *testing.T) {
	cmd := NewRootCmd()

	logFlag := cmd.PersistentFlags().Lookup("log-level")
	if logFlag == nil {
		t.Error("Expected log-level flag to be registered")
	}

	jsonFlag := cmd.PersistentFlags().Lookup("json-logs")
	if jsonFlag == nil {
		t.Error("Expected json-logs flag to be registered")
	}
}

func TestLogFlagsOverrideConfig(t *testing.T) {
	cmd := NewRootCmd()
	if err := cmd.PersistentFlags().Set("log-level", "debug"); err != nil {
		t.Fatalf("Failed to set log-level flag: %v", err)
	}
	if err := cmd.PersistentFlags().Set("json-logs", "true"); err != nil {
		t.Fatalf("Failed to set json-logs flag: %v", err)
	}
	defer func() {
		_ = cmd.PersistentFlags().Set("log-level", "")
		_ = cmd.PersistentFlags().Set("json-logs", "false")
	}()

	applyLogFlags()

	if got := viper.GetString("logging.level"); got != "debug" {
		t.Errorf("Expected logging.level to be 'debug', got %q", got)
	}
	if got := viper.GetString("logging.format"); got != "json" {
		t.Errorf("Expected logging.format to be 'json', got %q", got)
	}
}
