package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/symcreep/internal/app"
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

// stringList is a repeatable string flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ", ") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("symcreep", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
symcreep - replays, renders and evaluates fitted symbolic regression models.

Usage:
  symcreep [options] [CONFIG_PATH...]

Arguments:
  CONFIG_PATH
    Path to a single .hcl file or a directory containing .hcl files.

Options:
`)
		flagSet.PrintDefaults()
	}

	var configs, targets, inputs, datasets stringList
	flagSet.Var(&configs, "config", "Path to a configuration file or directory. Repeatable.")
	flagSet.Var(&configs, "c", "Path to a configuration file or directory (shorthand).")
	modelFlag := flagSet.String("model", "", "Name of the model to use. Optional when only one is defined.")
	mFlag := flagSet.String("m", "", "Name of the model to use (shorthand).")
	flagSet.Var(&targets, "target", "Symbol to render or evaluate. Repeatable.")
	flagSet.Var(&targets, "t", "Symbol to render or evaluate (shorthand).")
	flagSet.Var(&inputs, "input", "Input assignment such as 'x1 = [1, 2, 4]'. Repeatable.")
	flagSet.Var(&inputs, "i", "Input assignment (shorthand).")
	flagSet.Var(&datasets, "dataset", "Dataset to fit and predict with. Repeatable; all by default.")
	renderFlag := flagSet.Bool("render", false, "Print the LaTeX equations even when evaluating or predicting.")
	predictFlag := flagSet.Bool("predict", false, "Print predicted curves for the datasets.")
	errorsFlag := flagSet.Bool("errors", false, "Print the mean fit errors over the datasets.")
	strictFlag := flagSet.Bool("strict", false, "Fail on NaN or infinite intermediate values.")
	sigFigsFlag := flagSet.Int("sig-figs", -1, "Significant figures for displayed numbers. Negative keeps the model's setting.")
	saveFitFlag := flagSet.String("save-fit", "", "Write the replayed fit to this HCL file.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "warn", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	paths := append([]string(configs), flagSet.Args()...)
	if len(paths) == 0 {
		slog.Debug("No configuration path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	modelName := *modelFlag
	if modelName == "" {
		modelName = *mFlag
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
		ConfigPaths: paths,
		Model:       modelName,
		Targets:     targets,
		Inputs:      inputs,
		Datasets:    datasets,
		Render:      *renderFlag,
		Predict:     *predictFlag,
		Errors:      *errorsFlag,
		Strict:      *strictFlag,
		SigFigs:     *sigFigsFlag,
		SaveFit:     *saveFitFlag,
		LogFormat:   logFormat,
		LogLevel:    logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
