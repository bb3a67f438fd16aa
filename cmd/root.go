package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"distbuild/internal/catalog"
	"distbuild/internal/config"
	"distbuild/internal/formatting"
	"distbuild/internal/generator"
	"distbuild/internal/nvr"
	"distbuild/pkg/logging"

	"github.com/spf13/cobra"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeInvalid indicates invalid configuration, a generation failure
	// or jobs that do not describe one project.
	ExitCodeInvalid = 2
	// ExitCodeParse indicates an identifier that could not be parsed.
	ExitCodeParse = 3
	// ExitCodeInternal indicates a generator invariant violation: a
	// configuration tree validation should have rejected.
	ExitCodeInternal = 4
)

var (
	rootConfigPath string
	rootLogLevel   string
	rootLogFormat  string

	// appConfig is loaded before every subcommand runs.
	appConfig = config.GetDefaultConfig()
)

// rootCmd represents the base command for the distbuild application.
var rootCmd = &cobra.Command{
	Use:   "distbuild",
	Short: "Generate and inspect build distribution jobs",
	Long: `distbuild turns project configurations into the pull, build and test
jobs of the build distribution service, reads job sets back into project
configurations and parses build and archive identifiers.`,
	SilenceUsage:      true,
	PersistentPreRunE: initialize,
}

// SetVersion sets the version for the root command.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute runs the root command and exits with a code matching the error.
// This function is called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "distbuild version %s\n" .Version}}`)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		if fatal, ok := fatalError(err); ok {
			logging.Error("CLI", fatal, "Internal error: generator invariant violated for project %s", fatal.Project)
		}
		os.Exit(getExitCode(err))
	}
}

// fatalError returns the management error in err's chain when it reports
// an invariant violation rather than a configuration mistake.
func fatalError(err error) (*generator.ManagementError, bool) {
	var managementErr *generator.ManagementError
	if errors.As(err, &managementErr) && managementErr.Fatal() {
		return managementErr, true
	}
	return nil, false
}

// getExitCode determines the appropriate exit code based on the error type.
func getExitCode(err error) int {
	var parseErr *nvr.ParseError
	if errors.As(err, &parseErr) {
		return ExitCodeParse
	}

	if _, ok := fatalError(err); ok {
		return ExitCodeInternal
	}

	var managementErr *generator.ManagementError
	if errors.As(err, &managementErr) {
		return ExitCodeInvalid
	}

	var validationErrs config.ValidationErrors
	if errors.As(err, &validationErrs) {
		return ExitCodeInvalid
	}

	var problems *config.ConfigurationErrorCollection
	if errors.As(err, &problems) {
		return ExitCodeInvalid
	}

	var diagnostic *DiagnosticError
	if errors.As(err, &diagnostic) {
		return ExitCodeInvalid
	}

	return ExitCodeError
}

// DiagnosticError carries the reverse parser's diagnostic text.
type DiagnosticError struct {
	Diagnostic string
}

func (e *DiagnosticError) Error() string {
	return "jobs do not describe one project:\n" + e.Diagnostic
}

// initialize resolves the configuration directory, loads config.yaml and
// sets up logging.
func initialize(cmd *cobra.Command, _ []string) error {
	if rootConfigPath == "" {
		dir, err := config.GetUserConfigDir()
		if err != nil {
			return err
		}
		rootConfigPath = dir
	}

	cfg, err := config.LoadConfig(rootConfigPath)
	if err != nil {
		return err
	}
	if rootLogLevel != "" {
		cfg.LogLevel = rootLogLevel
	}
	if rootLogFormat != "" {
		cfg.LogFormat = rootLogFormat
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	switch cfg.LogFormat {
	case "json":
		logging.InitJSON(level, cmd.ErrOrStderr())
	case "text", "":
		logging.InitForCLI(level, cmd.ErrOrStderr())
	default:
		return fmt.Errorf("unsupported log format %q (supported: text, json)", cfg.LogFormat)
	}

	appConfig = cfg
	logging.Debug("CLI", "Using configuration directory %s", rootConfigPath)
	return nil
}

// loadCatalog reads the store below the configuration directory. Skipped
// documents are logged as one summary grouped by kind.
func loadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	c, err := catalog.Load(ctx, config.NewStorageWithPath(rootConfigPath))
	if err != nil {
		return nil, err
	}
	if c.Problems.HasErrors() {
		logging.Warn("CLI", "Skipped invalid documents. %s", c.Problems.GetSummary())
	}
	return c, nil
}

// newFormatter returns the formatter for the --output flag value, or the
// configured default when the flag is empty.
func newFormatter(output string, quiet bool) (formatting.Formatter, error) {
	if output == "" {
		output = appConfig.Output
	}
	format, err := formatting.ParseFormat(output)
	if err != nil {
		return nil, err
	}
	options := formatting.Options{Format: format, Quiet: quiet}
	if isTerminal(os.Stdout) {
		options.Color = true
		options.MaxCellWidth = terminalCellWidth
	}
	return formatting.New(options), nil
}

// terminalCellWidth limits table cells on interactive terminals; piped
// output keeps full values.
const terminalCellWidth = 96

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootConfigPath, "config-path", "", "Configuration directory (default is $HOME/.config/distbuild)")
	rootCmd.PersistentFlags().StringVar(&rootLogLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config.yaml)")
	rootCmd.PersistentFlags().StringVar(&rootLogFormat, "log-format", "", "Log format: text or json (overrides config.yaml)")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newGenerateCmd())
	rootCmd.AddCommand(newReconstructCmd())
	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newValidateCmd())
	rootCmd.AddCommand(newPlanCmd())
	rootCmd.AddCommand(newRenderCmd())
}
