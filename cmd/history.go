package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"kokugo/internal/config"
	"kokugo/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history [school]",
	Short: "List stored analyses, newest first",
	Example: `  # All stored analyses
  kokugo history

  # One school's papers
  kokugo history 開成中学校 --limit 10`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().Int("limit", 50, "Maximum number of entries to list")
}

func runHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	school := ""
	if len(args) == 1 {
		school = args[0]
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	db, err := store.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer db.Close()

	entries, err := db.List(context.Background(), school, limit)
	if err != nil {
		return fmt.Errorf("failed to list analyses: %w", err)
	}
	if len(entries) == 0 {
		fmt.Println("no analyses stored")
		return nil
	}

	for _, e := range entries {
		year := "----"
		if e.Year > 0 {
			year = fmt.Sprintf("%d", e.Year)
		}
		fmt.Printf("%s  %s  %-20s  %d sections, %d questions, %d chars  %s\n",
			e.ID, year, e.School,
			len(e.Record.Sections), e.Record.TotalQuestions, e.Record.TotalCharacters,
			e.Path)
	}
	return nil
}
