package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/exposing/internal/app"
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

// listFlag collects a flag that may be repeated or comma-separated.
type listFlag []string

func (l *listFlag) String() string { return strings.Join(*l, ",") }

func (l *listFlag) Set(v string) error {
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			*l = append(*l, part)
		}
	}
	return nil
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("exposing", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
exposing - Host for binary component modules.

Usage:
  exposing [options] [MANIFEST_PATH...]

Arguments:
  MANIFEST_PATH
    A .hcl or .toml manifest, or a directory containing manifests.

Options:
`)
		flagSet.PrintDefaults()
	}

	var manifests, searchPaths listFlag
	flagSet.Var(&manifests, "manifest", "Path to a manifest file or directory. May be repeated.")
	flagSet.Var(&manifests, "m", "Path to a manifest file or directory (shorthand).")
	flagSet.Var(&searchPaths, "search-path", "Directory searched for modules loaded by name. May be repeated.")
	listFlagValue := flagSet.Bool("list", false, "List loaded libraries, their components and interfaces.")
	createFlag := flagSet.String("create", "", "Instantiate a component by qualified name or interface id.")
	guidOfFlag := flagSet.String("guid-of", "", "Print the identifier of a type expression, e.g. 'vector<string>'.")
	healthPortFlag := flagSet.Int("healthcheck-port", 0, "Port for the diagnostics HTTP server. 0 is disabled.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	manifests = append(manifests, flagSet.Args()...)
	slog.Debug("Manifest paths determined.", "paths", []string(manifests))

	if len(manifests) == 0 && !*listFlagValue && *createFlag == "" && *guidOfFlag == "" && *healthPortFlag == 0 {
		slog.Debug("Nothing to do, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
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
		ManifestPaths:   manifests,
		SearchPaths:     searchPaths,
		List:            *listFlagValue,
		Create:          *createFlag,
		GUIDOf:          *guidOfFlag,
		HealthcheckPort: *healthPortFlag,
		LogFormat:       logFormat,
		LogLevel:        logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
