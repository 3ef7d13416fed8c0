package cmd

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"kokugo/internal/analyzer"
	"kokugo/internal/config"
	"kokugo/internal/loader"
	"kokugo/internal/logger"
	"kokugo/internal/store"
)

var batchCmd = &cobra.Command{
	Use:   "batch [directory]",
	Short: "Analyse every text file under a directory and persist the results",
	Long: `Walk a directory tree of exam text files (the recommended layout is one
directory per school with per-year .txt files), analyse each paper, and
persist the records to the local SQLite database.

Files whose content hash is already stored are skipped unless --force is
given. Per-file failures are logged and the run continues.`,
	Example: `  # Analyse a whole archive
  kokugo batch ~/exams

  # Re-analyse everything
  kokugo batch ~/exams --force`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().Bool("force", false, "Re-analyse files already in the store")
}

func runBatch(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("batch")
	ctx := context.Background()

	force, _ := cmd.Flags().GetBool("force")
	dir := args[0]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	db, err := store.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer db.Close()

	ld := loader.New([]string{dir})
	a := analyzer.New(analyzer.Options{
		MinInputRunes: cfg.MinInputChars,
		DevMode:       cfg.DevMode,
	})

	analysed, skipped, failed := 0, 0, 0
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".txt") {
			return nil
		}

		loaded, err := ld.Load(path)
		if err != nil {
			log.Warn().Err(err).Str("file", path).Msg("Skipping unreadable file")
			failed++
			return nil
		}

		if !force {
			if existing, err := db.GetByHash(ctx, loaded.ContentHash); err == nil && existing != nil {
				log.Debug().Str("file", path).Msg("Already analysed, skipping")
				skipped++
				return nil
			}
		}

		meta, err := ld.LoadHints(loaded.Path)
		if err != nil {
			log.Warn().Err(err).Str("file", path).Msg("Ignoring bad hints file")
		}

		record, err := a.Analyze(loaded.Text, meta)
		if err != nil {
			log.Warn().Err(err).Str("file", path).Msg("Analysis failed")
			failed++
			return nil
		}

		id, err := db.Put(ctx, loaded.Path, loaded.ContentHash, record)
		if err != nil {
			log.Error().Err(err).Str("file", path).Msg("Failed to persist record")
			failed++
			return nil
		}

		log.Info().
			Str("file", path).
			Str("id", id).
			Int("sections", len(record.Sections)).
			Int("warnings", len(record.Warnings)).
			Msg("Paper analysed")
		analysed++
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk failed: %w", err)
	}

	fmt.Printf("analysed %d, skipped %d, failed %d\n", analysed, skipped, failed)
	if analysed == 0 && failed > 0 {
		return fmt.Errorf("no files analysed (%d failures)", failed)
	}
	return nil
}
