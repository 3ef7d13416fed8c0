package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"kokugo/internal/logger"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "kokugo",
	Short: "kokugo - structure extraction for Japanese entrance-exam papers",
	Long: `kokugo analyses OCR text of 国語 middle-school entrance-exam papers and
produces a structured record of each paper: its sections (大問), the
bibliographic source of each reading passage, the enumerated questions, and
each question's response format.

Input is plain UTF-8 text, typically produced by the ocr subcommand or any
other OCR pipeline. Output is stable JSON on stdout; warnings go to stderr.`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("kokugo - use --help to see available commands.")
	},
}

// Execute runs the root command.
func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
