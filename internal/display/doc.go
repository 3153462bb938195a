// Package display provides the terminal output used while combining files.
//
// # Progress Indicators
//
//	progress := display.NewProgressIndicator(os.Stdout, len(files))
//	progress.Start()
//	for _, rel := range rels {
//	    progress.Step(rel)
//	}
//	progress.Complete()
//
// # Warning Messages
//
//	display.WarnUnreadableFiles(failed).Display(os.Stderr)
//
// Colors come from github.com/fatih/color and are dropped when the writer being
// printed to is not a terminal or NO_COLOR is set.
package display
