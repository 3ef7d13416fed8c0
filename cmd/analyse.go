package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"kokugo/internal/analyzer"
	"kokugo/internal/config"
	"kokugo/internal/loader"
	"kokugo/internal/logger"
)

var analyseCmd = &cobra.Command{
	Use:   "analyse [text-file]",
	Short: "Analyse one exam paper's OCR text",
	Long: `Analyse the structure of one 国語 exam paper from its OCR text file.

The resulting record is written to stdout as JSON; structure warnings are
echoed to stderr. The exit code is non-zero when the input cannot be read or
the analysis fails; warnings alone never fail the run.

A kokugo.yaml file next to the input may supply school and year hints that
override detection.`,
	Example: `  # Analyse one paper
  kokugo analyse papers/opengate/2024.txt

  # Pretty-print the record
  kokugo analyse papers/opengate/2024.txt --pretty`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyse,
}

func init() {
	rootCmd.AddCommand(analyseCmd)

	analyseCmd.Flags().Bool("pretty", false, "Indent the JSON output")
	analyseCmd.Flags().Bool("no-hints", false, "Ignore kokugo.yaml hint files")
}

func runAnalyse(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("analyse")

	pretty, _ := cmd.Flags().GetBool("pretty")
	noHints, _ := cmd.Flags().GetBool("no-hints")
	path := args[0]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log.Info().
		Str("file", path).
		Bool("pretty", pretty).
		Msg("Starting analysis")

	ld := newLoader(cfg, path)
	loaded, err := ld.Load(path)
	if err != nil {
		log.Error().Err(err).Str("file", path).Msg("Failed to load input")
		return fmt.Errorf("failed to load input: %w", err)
	}

	meta, err := ld.LoadHints(loaded.Path)
	if err != nil && !noHints {
		return fmt.Errorf("failed to load hints: %w", err)
	}
	if noHints {
		meta.School, meta.Year = "", 0
	}

	a := analyzer.New(analyzer.Options{
		MinInputRunes: cfg.MinInputChars,
		DevMode:       cfg.DevMode,
	})
	record, err := a.Analyze(loaded.Text, meta)
	if err != nil {
		log.Error().Err(err).Str("file", path).Msg("Analysis failed")
		return err
	}

	for _, w := range record.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}

	var out []byte
	if pretty {
		out, err = json.MarshalIndent(record, "", "  ")
	} else {
		out, err = json.Marshal(record)
	}
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}
	fmt.Println(string(out))

	log.Info().
		Int("sections", len(record.Sections)).
		Int("warnings", len(record.Warnings)).
		Msg("Analysis written")
	return nil
}

// newLoader builds the loader's approved directory set: the configured
// directories when present, otherwise the input's own directory. Naming a
// file on the command line approves its directory and nothing else.
func newLoader(cfg *config.Config, inputPath string) *loader.Loader {
	roots := cfg.AllowedDirs
	if len(roots) == 0 {
		roots = []string{filepath.Dir(inputPath)}
	}
	return loader.New(roots)
}
