package display

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// ProgressIndicator manages per-file progress display while combining
type ProgressIndicator struct {
	writer     io.Writer
	totalFiles int
	current    int
}

// NewProgressIndicator creates a new progress indicator
func NewProgressIndicator(w io.Writer, total int) *ProgressIndicator {
	return &ProgressIndicator{
		writer:     w,
		totalFiles: total,
		current:    0,
	}
}

// Start displays the header message
func (p *ProgressIndicator) Start() {
	fmt.Fprintf(p.writer, "Combining files:\n")
}

// Step displays progress for the current file: [N/Total] relative/path (cyan)
func (p *ProgressIndicator) Step(relPath string) {
	p.current++
	colorFor(p.writer, color.FgCyan).Fprintf(p.writer, "  [%d/%d] %s\n", p.current, p.totalFiles, relPath)
}

// Complete displays a success line with a green checkmark
func (p *ProgressIndicator) Complete() {
	fmt.Fprintf(p.writer, "%s Combined %d files\n", colorFor(p.writer, color.FgGreen).Sprint("✓"), p.current)
}
