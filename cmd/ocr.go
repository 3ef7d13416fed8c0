package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"kokugo/internal/logger"
	"kokugo/internal/ocr"
)

var ocrCmd = &cobra.Command{
	Use:   "ocr [pdf-file]",
	Short: "Extract exam text from a scanned PDF using Google Cloud Vision",
	Long: `Run OCR on a scanned exam PDF and write the extracted text to stdout or a
file. The output is the expected input of the analyse command.

Required environment variables:
  GOOGLE_APPLICATION_CREDENTIALS - Path to service account JSON file, OR
  GOOGLE_CREDENTIALS - Inline JSON credentials string`,
	Example: `  # OCR a paper and analyse it
  kokugo ocr paper.pdf -o paper.txt
  kokugo analyse paper.txt`,
	Args: cobra.ExactArgs(1),
	RunE: runOCR,
}

func init() {
	rootCmd.AddCommand(ocrCmd)

	ocrCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	ocrCmd.Flags().Int("timeout", 300, "Processing timeout in seconds")
}

func runOCR(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("ocr")

	outputPath, _ := cmd.Flags().GetString("output")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")
	pdfPath := args[0]

	log.Info().
		Str("file", pdfPath).
		Str("output", outputPath).
		Int("timeout", timeoutSecs).
		Msg("Starting OCR")

	ctx, cancel := contextWithTimeout(timeoutSecs, log)
	defer cancel()

	service, err := ocr.NewGoogleVisionService(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create OCR service")
		return err
	}
	defer service.Close()

	pdfFile, err := os.Open(pdfPath)
	if err != nil {
		return fmt.Errorf("failed to open PDF file: %w", err)
	}
	defer pdfFile.Close()

	result, err := service.ScanPDFWithMetadata(ctx, pdfFile)
	if err != nil {
		log.Error().Err(err).Str("file", pdfPath).Msg("OCR failed")
		return err
	}

	log.Info().
		Int("pages", result.PageCount).
		Float32("confidence", result.Confidence).
		Dur("duration", result.ProcessingDuration).
		Msg("OCR complete")

	if outputPath == "" {
		fmt.Println(result.Text)
		return nil
	}
	if err := os.WriteFile(outputPath, []byte(result.Text), 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// contextWithTimeout builds the OCR context: a timeout plus SIGINT/SIGTERM
// cancellation so a stuck API call can be abandoned cleanly.
func contextWithTimeout(timeoutSecs int, log zerolog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSecs)*time.Second)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigCh:
			log.Warn().Str("signal", sig.String()).Msg("Interrupted, cancelling")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
