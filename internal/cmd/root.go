package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/harrison/tscombine/internal/config"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// Exit statuses returned by ExitCode.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// UsageError reports a malformed command line: an unknown flag, a bad flag value
// or more than one path argument.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string {
	return e.Err.Error()
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

// ExitCode maps an error returned by the root command to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		return ExitUsage
	}
	return ExitError
}

// pathArgs accepts at most one positional argument, the directory to scan.
func pathArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.MaximumNArgs(1)(cmd, args); err != nil {
		return &UsageError{Err: err}
	}
	return nil
}

// NewRootCommand creates and returns the root cobra command for tscombine
func NewRootCommand() *cobra.Command {
	var (
		output     string
		configPath string
		logLevel   string
		dryRun     bool
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "tscombine [path]",
		Short: "Combine all TypeScript files under a directory into a single file",
		Long: `tscombine walks a directory tree, collects every .ts and .tsx file and
concatenates them into one output file. Each file is preceded by a header
naming its path relative to the scanned directory.

Build, dependency and cache directories (node_modules, dist, build, .next,
out, coverage, .turbo, .cache, __pycache__, .git) are never entered.

Settings can also be read from a .tscombine.yaml file in the scanned
directory, or from the file given with --config. Flags take precedence.

Exit code: 0 on success (including when no files match), 1 when the path
does not exist or the run fails, 2 on a usage error`,
		Args:    pathArgs,
		Version: Version,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := combineOptions{
				Path:       ".",
				ConfigPath: configPath,
				DryRun:     dryRun,
				Verbose:    verbose,
			}
			if len(args) == 1 {
				opts.Path = args[0]
			}
			if cmd.Flags().Changed("output") {
				opts.Output = &output
			}
			if cmd.Flags().Changed("log-level") {
				opts.LogLevel = &logLevel
			}
			return runCombine(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &UsageError{Err: err}
	})

	cmd.Flags().StringVarP(&output, "output", "o", config.DefaultOutput, "Output filename, relative to the current directory")
	cmd.Flags().StringVar(&configPath, "config", "", "Path to a YAML config file (default: <path>/"+config.FileName+")")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level for diagnostics on stderr (trace, debug, info, warn, error)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "List the files that would be combined without writing the output")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show per-file progress while combining")

	return cmd
}
