// Package combiner writes discovered source files into a single text stream.
//
// Each file becomes one block:
//
//	\n
//	================================================================================\n
//	// FILE: <relative/path>\n
//	================================================================================\n
//	\n
//	<content>\n
//
// A file that cannot be read or decoded as UTF-8 gets an inline
// "// ERROR reading file: ..." line in place of its content, and the
// remaining files are still written.
package combiner

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/harrison/tscombine/internal/filelock"
)

// DelimiterWidth is the number of marker characters in a delimiter line.
const DelimiterWidth = 80

// Delimiter is the line written above and below each file header.
var Delimiter = strings.Repeat("=", DelimiterWidth)

const (
	headerPrefix = "// FILE: "
	errorPrefix  = "// ERROR reading file: "
)

// ErrInvalidUTF8 is reported when a file's content is not valid UTF-8.
var ErrInvalidUTF8 = errors.New("invalid UTF-8")

// Logger receives per-file diagnostics. *logger.ConsoleLogger satisfies it.
type Logger interface {
	LogDebug(message string)
	LogWarn(message string)
}

// FileResult is the outcome of reading one source file.
type FileResult struct {
	// Path is the absolute path of the file
	Path string
	// RelPath is the slash-separated path relative to the scan root
	RelPath string
	// Content is the decoded text with line endings normalised to "\n"
	Content string
	// Err is set when the file could not be read or decoded
	Err error
}

// OK reports whether the file was read successfully.
func (r FileResult) OK() bool {
	return r.Err == nil
}

// Summary describes a completed combine pass.
type Summary struct {
	// Written is the number of file blocks written
	Written int
	// Failed lists the relative paths of files replaced by an error line
	Failed []string
}

// Option customises a combine pass.
type Option func(*options)

type options struct {
	progress func(relPath string)
	logger   Logger
}

// WithProgress registers fn to be called before each file block is written.
func WithProgress(fn func(relPath string)) Option {
	return func(o *options) {
		o.progress = fn
	}
}

// WithLogger routes per-file diagnostics to l.
func WithLogger(l Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// RelativePath returns path relative to root with forward slashes.
func RelativePath(root, path string) (string, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", fmt.Errorf("failed to compute relative path of %s: %w", path, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %s is not under %s", path, root)
	}
	return filepath.ToSlash(rel), nil
}

// ReadSource reads path as UTF-8 text. Read and decode failures are recorded in
// the result; an error is returned only when path is not under root.
func ReadSource(root, path string) (FileResult, error) {
	rel, err := RelativePath(root, path)
	if err != nil {
		return FileResult{}, err
	}

	result := FileResult{Path: path, RelPath: rel}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Err = err
		return result, nil
	}

	if offset := invalidUTF8Offset(data); offset >= 0 {
		result.Err = fmt.Errorf("%w: invalid byte 0x%02x at position %d", ErrInvalidUTF8, data[offset], offset)
		return result, nil
	}

	result.Content = normalizeNewlines(string(data))
	return result, nil
}

// Combine writes one block per file to w, in the order given.
func Combine(w io.Writer, root string, files []string, opts ...Option) (*Summary, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	summary := &Summary{Failed: make([]string, 0)}

	for _, path := range files {
		result, err := ReadSource(root, path)
		if err != nil {
			return summary, err
		}

		if o.progress != nil {
			o.progress(result.RelPath)
		}

		if err := writeBlock(w, result); err != nil {
			return summary, fmt.Errorf("failed to write %s: %w", result.RelPath, err)
		}
		summary.Written++

		if !result.OK() {
			summary.Failed = append(summary.Failed, result.RelPath)
			if o.logger != nil {
				o.logger.LogWarn(fmt.Sprintf("Could not read %s: %v", result.RelPath, result.Err))
			}
			continue
		}
		if o.logger != nil {
			o.logger.LogDebug(fmt.Sprintf("Added %s (%d bytes)", result.RelPath, len(result.Content)))
		}
	}

	return summary, nil
}

// WriteFile creates or truncates outputPath and writes the combined stream into it.
// The output lock and file handle are held for the whole pass.
func WriteFile(outputPath, root string, files []string, opts ...Option) (summary *Summary, err error) {
	lock, err := filelock.AcquireOutput(outputPath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if releaseErr := lock.Release(); releaseErr != nil && err == nil {
			err = releaseErr
		}
	}()

	f, err := os.Create(outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close output file: %w", closeErr)
		}
	}()

	bw := bufio.NewWriter(f)
	summary, err = Combine(bw, root, files, opts...)
	if flushErr := bw.Flush(); flushErr != nil && err == nil {
		err = fmt.Errorf("failed to write output file: %w", flushErr)
	}
	return summary, err
}

func writeBlock(w io.Writer, r FileResult) error {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(Delimiter)
	b.WriteString("\n")
	b.WriteString(headerPrefix)
	b.WriteString(r.RelPath)
	b.WriteString("\n")
	b.WriteString(Delimiter)
	b.WriteString("\n\n")

	if r.OK() {
		b.WriteString(r.Content)
		b.WriteString("\n")
	} else {
		b.WriteString(errorPrefix)
		b.WriteString(r.Err.Error())
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// invalidUTF8Offset returns the byte offset of the first invalid sequence, or -1.
func invalidUTF8Offset(data []byte) int {
	if utf8.Valid(data) {
		return -1
	}
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return -1
}

// normalizeNewlines converts "\r\n" and lone "\r" to "\n".
func normalizeNewlines(s string) string {
	if !strings.Contains(s, "\r") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
