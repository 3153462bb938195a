package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Warning represents a user-facing warning message
type Warning struct {
	Title      string   // Main warning title
	Message    string   // Detailed explanation (optional)
	Files      []string // Related files (optional)
	Suggestion string   // Action to take (optional)
}

// Display shows a formatted warning in yellow
func (w Warning) Display(out io.Writer) {
	var b strings.Builder

	b.WriteString("⚠️  Warning: ")
	b.WriteString(w.Title)
	b.WriteString("\n")

	if w.Message != "" {
		b.WriteString("    ")
		b.WriteString(w.Message)
		b.WriteString("\n")
	}

	if len(w.Files) > 0 {
		b.WriteString("    ")
		if len(w.Files) == 1 {
			b.WriteString("Affected file:\n")
		} else {
			b.WriteString("Affected files:\n")
		}

		for i, file := range w.Files {
			b.WriteString(fmt.Sprintf("      %d. %s\n", i+1, file))
		}
	}

	if w.Suggestion != "" {
		b.WriteString("    Suggestion:\n")
		b.WriteString("    ")
		b.WriteString(w.Suggestion)
		b.WriteString("\n")
	}

	colorFor(out, color.FgYellow).Fprint(out, b.String())
}

// WarnUnreadableFiles creates the warning shown when some files were replaced by an error line
func WarnUnreadableFiles(files []string) Warning {
	noun := "files"
	if len(files) == 1 {
		noun = "file"
	}
	return Warning{
		Title:      fmt.Sprintf("%d %s could not be read", len(files), noun),
		Message:    "Their content was replaced by an \"// ERROR reading file\" line in the output",
		Files:      files,
		Suggestion: "Check file permissions and make sure the files are UTF-8 encoded",
	}
}
