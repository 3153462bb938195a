package main

import (
	"fmt"
	"os"

	"github.com/harrison/tscombine/internal/cmd"
)

func main() {
	rootCmd := cmd.NewRootCommand()

	if err := rootCmd.Execute(); err != nil {
		code := cmd.ExitCode(err)
		if code == cmd.ExitUsage {
			fmt.Fprintf(os.Stderr, "Usage: %s\n", rootCmd.UseLine())
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(code)
	}
}
