package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"distbuild/internal/config"
	"distbuild/internal/generator"
	"distbuild/internal/nvr"

	"github.com/spf13/cobra"
)

func TestSetVersion(t *testing.T) {
	testVersion := "1.2.3-test"
	SetVersion(testVersion)

	if GetVersion() != testVersion {
		t.Errorf("Expected version to be %s, got %s", testVersion, GetVersion())
	}
}

func TestRootCommand(t *testing.T) {
	if rootCmd.Use != "distbuild" {
		t.Errorf("Expected Use to be 'distbuild', got %s", rootCmd.Use)
	}

	if rootCmd.Short == "" {
		t.Error("Expected Short description to be set")
	}

	if rootCmd.Long == "" {
		t.Error("Expected Long description to be set")
	}

	if !rootCmd.SilenceUsage {
		t.Error("Expected SilenceUsage to be true")
	}

	for _, name := range []string{"config-path", "log-level", "log-format"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("Expected persistent flag --%s", name)
		}
	}
}

func TestVersionTemplate(t *testing.T) {
	testCmd := &cobra.Command{
		Use:     "test",
		Version: "1.0.0",
	}
	testCmd.SetVersionTemplate(`{{printf "distbuild version %s\n" .Version}}`)

	var buf bytes.Buffer
	testCmd.SetOut(&buf)
	testCmd.SetArgs([]string{"--version"})
	if err := testCmd.Execute(); err != nil {
		t.Fatalf("Error executing version command: %v", err)
	}

	expected := "distbuild version 1.0.0\n"
	if buf.String() != expected {
		t.Errorf("Expected version output %q, got %q", expected, buf.String())
	}
}

func TestSubcommands(t *testing.T) {
	expectedCommands := []string{"version", "generate", "reconstruct", "parse", "validate", "plan", "render"}
	foundCommands := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		foundCommands[cmd.Name()] = true
	}

	for _, expected := range expectedCommands {
		if !foundCommands[expected] {
			t.Errorf("Expected subcommand %s to be registered", expected)
		}
	}
}

func TestGetExitCode(t *testing.T) {
	problems := config.NewConfigurationErrorCollection()
	problems.AddError(config.KindProjects, "engine", "", config.ErrorTypeValidation, "unknown product")

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"general", errors.New("boom"), ExitCodeError},
		{"parse", &nvr.ParseError{Kind: nvr.MalformedNVR, Identifier: "x"}, ExitCodeParse},
		{"wrapped parse", fmt.Errorf("parse: %w", &nvr.ParseError{Kind: nvr.UnknownPackageName}), ExitCodeParse},
		{"management", &generator.ManagementError{Kind: generator.DuplicateJob}, ExitCodeInvalid},
		{"invariant violation", &generator.ManagementError{Kind: generator.SettingPlatformError}, ExitCodeInternal},
		{"wrapped invariant violation", fmt.Errorf("generate: %w", &generator.ManagementError{Kind: generator.ResettingPlatformError}), ExitCodeInternal},
		{"validation", config.FormatValidationError("project", "engine", config.ValidationErrors{{Field: "product", Message: "unknown product"}}), ExitCodeInvalid},
		{"problems", problems, ExitCodeInvalid},
		{"diagnostic", &DiagnosticError{Diagnostic: "no jobs"}, ExitCodeInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := getExitCode(tt.err); got != tt.want {
				t.Errorf("getExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestFatalError(t *testing.T) {
	fatal := &generator.ManagementError{Kind: generator.SettingPlatformError, Project: "engine"}
	got, ok := fatalError(fmt.Errorf("generate: %w", fatal))
	if !ok || got != fatal {
		t.Errorf("fatalError did not find the invariant violation, got %v", got)
	}

	if _, ok := fatalError(&generator.ManagementError{Kind: generator.UnknownPlatform}); ok {
		t.Error("UnknownPlatform is a configuration mistake, not an invariant violation")
	}
	if _, ok := fatalError(errors.New("boom")); ok {
		t.Error("plain errors are not invariant violations")
	}
}
