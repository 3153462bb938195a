package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/harrison/tscombine/internal/combiner"
	"github.com/harrison/tscombine/internal/config"
	"github.com/harrison/tscombine/internal/display"
	"github.com/harrison/tscombine/internal/filelock"
	"github.com/harrison/tscombine/internal/fileutil"
	"github.com/harrison/tscombine/internal/logger"
)

// ErrRootNotFound is matched by the error returned when the scan root does not exist.
var ErrRootNotFound = errors.New("root path does not exist")

// RootNotFoundError reports a scan root that does not exist.
type RootNotFoundError struct {
	Path string
}

func (e *RootNotFoundError) Error() string {
	return fmt.Sprintf("Path '%s' does not exist", e.Path)
}

// Is makes errors.Is(err, ErrRootNotFound) hold.
func (e *RootNotFoundError) Is(target error) bool {
	return target == ErrRootNotFound
}

// combineOptions holds the parsed command line. Nil pointers mean the flag was not given.
type combineOptions struct {
	Path       string
	ConfigPath string
	Output     *string
	LogLevel   *string
	DryRun     bool
	Verbose    bool
}

// runCombine performs one scan and, unless nothing matched or DryRun is set, one write.
// Report lines go to out; diagnostics and warnings go to errOut.
func runCombine(opts combineOptions, out, errOut io.Writer) error {
	root, err := filepath.Abs(opts.Path)
	if err != nil {
		return fmt.Errorf("failed to resolve path %s: %w", opts.Path, err)
	}

	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return &RootNotFoundError{Path: root}
		}
		return fmt.Errorf("failed to access path: %w", err)
	}

	cfg, source, err := loadConfig(opts, root, info.IsDir())
	if err != nil {
		return err
	}

	log := logger.NewConsoleLogger(errOut, cfg.LogLevel)
	if source != "" {
		log.LogInfo(fmt.Sprintf("Using configuration from %s", source))
	}

	outputPath, err := filepath.Abs(cfg.Output)
	if err != nil {
		return fmt.Errorf("failed to resolve output path %s: %w", cfg.Output, err)
	}

	kind := describeFiles(cfg.Extensions)
	log.LogDebug(fmt.Sprintf("Extensions: %s", strings.Join(cfg.Extensions, ", ")))
	log.LogDebug(fmt.Sprintf("Skipping directories: %s", strings.Join(cfg.SkipDirs, ", ")))
	log.LogDebug(fmt.Sprintf("Output: %s", outputPath))

	fmt.Fprintf(out, "Searching for %s in: %s\n", kind, root)

	var files []string
	if info.IsDir() {
		scanOpts := fileutil.ScanOptions{
			Suffixes:     cfg.Extensions,
			ExcludeDirs:  cfg.SkipDirs,
			ExcludeFiles: []string{outputPath, filelock.LockPath(outputPath)},
			OnExcludeFile: func(path string) {
				log.LogDebug(fmt.Sprintf("Not collecting %s: it is the output of this run", path))
			},
		}
		if log.Enabled("trace") {
			scanOpts.OnSkipDir = func(path string) {
				log.LogTrace(fmt.Sprintf("Skipping %s", path))
			}
		}
		result, err := fileutil.ScanDirectory(root, scanOpts)
		if err != nil {
			return err
		}
		files = result.Files
	} else {
		// A plain file has no entries to walk.
		log.LogDebug(fmt.Sprintf("%s is not a directory", root))
	}

	if len(files) == 0 {
		fmt.Fprintf(out, "No %s found\n", kind)
		return nil
	}

	fmt.Fprintf(out, "Found %d %s\n", len(files), kind)

	if opts.DryRun {
		for _, rel := range fileutil.RelativePaths(root, files) {
			fmt.Fprintln(out, rel)
		}
		return nil
	}

	combineOpts := []combiner.Option{combiner.WithLogger(log)}
	var progress *display.ProgressIndicator
	if opts.Verbose {
		progress = display.NewProgressIndicator(out, len(files))
		progress.Start()
		combineOpts = append(combineOpts, combiner.WithProgress(progress.Step))
	}

	start := time.Now()
	summary, err := combiner.WriteFile(outputPath, root, files, combineOpts...)
	if err != nil {
		return err
	}
	if progress != nil {
		progress.Complete()
	}

	fmt.Fprintf(out, "Combined into: %s\n", outputPath)
	log.LogRunComplete(summary.Written, len(summary.Failed), outputPath, time.Since(start))

	if len(summary.Failed) > 0 {
		display.WarnUnreadableFiles(summary.Failed).Display(errOut)
	}

	return nil
}

// loadConfig reads the explicit --config file, or .tscombine.yaml from the root
// directory, then applies flag overrides and validates the result.
// source is the file the settings came from, or "" when only defaults applied.
func loadConfig(opts combineOptions, root string, rootIsDir bool) (cfg *config.Config, source string, err error) {
	switch {
	case opts.ConfigPath != "":
		if _, statErr := os.Stat(opts.ConfigPath); statErr != nil {
			return nil, "", fmt.Errorf("failed to access config file: %w", statErr)
		}
		source = opts.ConfigPath
		cfg, err = config.LoadConfig(opts.ConfigPath)
	case rootIsDir:
		candidate := filepath.Join(root, config.FileName)
		if _, statErr := os.Stat(candidate); statErr == nil {
			source = candidate
		}
		cfg, err = config.LoadConfigFromDir(root)
	default:
		cfg = config.DefaultConfig()
	}
	if err != nil {
		return nil, "", err
	}

	cfg.MergeWithFlags(opts.Output, opts.LogLevel)

	if err := cfg.Validate(); err != nil {
		return nil, "", fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, source, nil
}

// describeFiles names the files being collected in report lines.
func describeFiles(extensions []string) string {
	if reflect.DeepEqual(extensions, fileutil.DefaultSuffixes()) {
		return "TypeScript files"
	}
	return fmt.Sprintf("files (%s)", strings.Join(extensions, ", "))
}
