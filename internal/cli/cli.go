package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/vk/schematic/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("schematic", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
Schematic - boots model-driven applications declared in an HTML page.

Usage:
  schematic [options] PAGE

Arguments:
  PAGE
    Path to the HTML page whose data-schematic elements are booted.
    The rendered page is written to standard output.

Options:
`)
		flagSet.PrintDefaults()
	}

	manifestFlag := flagSet.String("manifest", "", "Path to the manifest file or directory.")
	mFlag := flagSet.String("m", "", "Path to the manifest file or directory (shorthand).")
	hashFlag := flagSet.String("hash", "", "Initial location hash, with or without the leading '#'.")
	serveFlag := flagSet.String("serve-models", "", "Directory of <name>.json models to serve while booting.")
	portFlag := flagSet.Int("port", 0, "Port for the model server. 0 picks a free port.")
	followFlag := flagSet.Bool("follow", false, "Keep following navigation events until interrupted.")
	timeoutFlag := flagSet.Duration("timeout", 10*time.Second, "Timeout for model requests.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	if flagSet.NArg() == 0 {
		slog.Debug("No page provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}
	if flagSet.NArg() > 1 {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("expected a single PAGE argument, got %d", flagSet.NArg())}
	}

	manifest := *manifestFlag
	if manifest == "" {
		manifest = *mFlag
	}
	if manifest == "" {
		return nil, false, &ExitError{Code: 2, Message: "missing manifest: use --manifest or -m"}
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		ManifestPath: manifest,
		PagePath:     flagSet.Arg(0),
		Hash:         *hashFlag,
		ServeModels:  *serveFlag,
		Port:         *portFlag,
		Follow:       *followFlag,
		Timeout:      *timeoutFlag,
		LogFormat:    logFormat,
		LogLevel:     logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
