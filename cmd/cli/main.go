package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"docugen/adapters/pdf"
	"docugen/adapters/spreadsheet"
	"docugen/adapters/word"
	"docugen/app"
	"docugen/domain/docs"
	"docugen/internal/config"
	"docugen/internal/logo"
	"docugen/internal/output"
	"docugen/internal/watch"
	"docugen/ports"

	"github.com/spf13/cobra"
)

const version = "1.2.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "docugen-cli",
		Short: "DocuGen CLI for generating employee documents from rosters",
	}

	rootCmd.AddCommand(
		newGenerateCmd(),
		newSampleCmd(),
		newWatchCmd(),
		newVersionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newGenerateCmd() *cobra.Command {
	var formatStr string
	var logoPath string
	var outputDir string
	var brandingPath string

	cmd := &cobra.Command{
		Use:   "generate [roster-file]",
		Short: "Generate one document per roster row",
		Long: `Generate personalized PDF and/or Word documents from a roster file.

The roster is an Excel workbook (.xlsx) or CSV with the columns Name, Email,
Company Name, Position and Joining Date.

Example: docugen-cli generate team.xlsx --format pdf --logo logo.png --output ./out`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), args[0], formatStr, logoPath, outputDir, brandingPath)
		},
	}

	cmd.Flags().StringVar(&formatStr, "format", "both", "Output format: both|pdf|word")
	cmd.Flags().StringVar(&logoPath, "logo", "", "Company logo image stamped on every document")
	cmd.Flags().StringVar(&outputDir, "output", "output", "Directory for generated documents")
	cmd.Flags().StringVar(&brandingPath, "branding", "", "YAML file overriding document text and logo sizes")

	return cmd
}

func newSampleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sample [path]",
		Short: "Write a sample roster workbook",
		Long: `Write a small sample roster workbook to try the generator with.

Example: docugen-cli sample sample_data.xlsx`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "sample_data.xlsx"
			if len(args) == 1 {
				path = args[0]
			}
			if err := spreadsheet.WriteSampleWorkbook(path); err != nil {
				return err
			}
			fmt.Printf("✅ Sample roster written to %s\n", path)
			return nil
		},
	}
	return cmd
}

func newWatchCmd() *cobra.Command {
	var formatStr string
	var logoPath string
	var outputDir string
	var brandingPath string

	cmd := &cobra.Command{
		Use:   "watch [roster-dir]",
		Short: "Regenerate documents whenever a roster in a directory changes",
		Long: `Watch a directory and rerun generation when a roster file changes.

New or modified .xlsx and .csv files trigger a batch once writes settle.
Stop with Ctrl+C.

Example: docugen-cli watch ./rosters --format pdf --output ./out`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd.Context(), args[0], formatStr, logoPath, outputDir, brandingPath)
		},
	}

	cmd.Flags().StringVar(&formatStr, "format", "both", "Output format: both|pdf|word")
	cmd.Flags().StringVar(&logoPath, "logo", "", "Company logo image stamped on every document")
	cmd.Flags().StringVar(&outputDir, "output", "output", "Directory for generated documents")
	cmd.Flags().StringVar(&brandingPath, "branding", "", "YAML file overriding document text and logo sizes")

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the DocuGen version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("docugen %s\n", version)
		},
	}
}

func newService(outputDir, brandingPath string) (*app.GenerationService, error) {
	layout, err := config.LoadLayout(brandingPath)
	if err != nil {
		return nil, err
	}
	store, err := output.NewStore(outputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare output directory: %w", err)
	}
	return app.NewGenerationService(
		[]ports.DocumentRenderer{pdf.NewRenderer(), word.NewRenderer()},
		store, nil, layout), nil
}

func stageLogo(logoPath string) (*docs.Logo, error) {
	if logoPath == "" {
		return nil, nil
	}
	return logo.StageFile(logoPath, filepath.Join(os.TempDir(), "docugen"))
}

func runGenerate(ctx context.Context, rosterPath, formatStr, logoPath, outputDir, brandingPath string) error {
	format, err := docs.ParseFormat(formatStr)
	if err != nil {
		return err
	}

	service, err := newService(outputDir, brandingPath)
	if err != nil {
		return err
	}

	batchLogo, err := stageLogo(logoPath)
	if err != nil {
		return err
	}
	if batchLogo != nil {
		defer logo.Discard(batchLogo)
	}

	fmt.Printf("🔄 Generating %s documents from %s...\n", format, rosterPath)

	result, err := service.Run(ctx, app.GenerationRequest{
		RosterPath: rosterPath,
		SourceName: filepath.Base(rosterPath),
		Format:     format,
		Logo:       batchLogo,
	})
	if err != nil {
		return err
	}

	printResult(result)
	return nil
}

func runWatch(ctx context.Context, dir, formatStr, logoPath, outputDir, brandingPath string) error {
	format, err := docs.ParseFormat(formatStr)
	if err != nil {
		return err
	}

	service, err := newService(outputDir, brandingPath)
	if err != nil {
		return err
	}

	batchLogo, err := stageLogo(logoPath)
	if err != nil {
		return err
	}
	if batchLogo != nil {
		defer logo.Discard(batchLogo)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	watcher, err := watch.NewRosterWatcher(dir, func(ctx context.Context, path string) {
		fmt.Printf("🔄 Roster changed: %s\n", filepath.Base(path))
		result, err := service.Run(ctx, app.GenerationRequest{
			RosterPath: path,
			SourceName: filepath.Base(path),
			Format:     format,
			Logo:       batchLogo,
		})
		if err != nil {
			fmt.Printf("❌ Generation failed: %v\n", err)
			return
		}
		fmt.Printf("✅ %d documents generated from %s\n", len(result.Files), filepath.Base(path))
	})
	if err != nil {
		return err
	}

	if err := watcher.Start(ctx); err != nil {
		return err
	}
	defer watcher.Stop()

	fmt.Printf("👀 Watching %s for roster changes (Ctrl+C to stop)...\n", dir)
	<-ctx.Done()
	fmt.Println("\nStopping watcher...")
	return nil
}

func printResult(result *app.GenerationResult) {
	fmt.Printf("\n=== GENERATION RESULTS ===\n")
	fmt.Printf("Rows: %d\n", result.TotalRows)
	fmt.Printf("Documents: %d\n", len(result.Files))
	fmt.Printf("Runtime: %.2f ms\n", result.DurationMS)

	for i, f := range result.Files {
		fmt.Printf("%d. %s (%d bytes)\n", i+1, f.Path, f.Size)
	}

	if len(result.RowErrors) > 0 {
		fmt.Printf("\n⚠️  SKIPPED ROWS:\n")
		for _, rowErr := range result.RowErrors {
			fmt.Printf("• Row %d: %s\n", rowErr.Row, rowErr.Message)
		}
	}

	if result.Summary != nil {
		s := result.Summary
		fmt.Printf("\n=== BATCH SUMMARY ===\n")
		fmt.Printf("Employees: %d\n", s.TotalEmployees)
		for _, c := range s.Companies {
			fmt.Printf("• %s: %d\n", c.Company, c.Count)
		}
		if s.DatedEmployees > 0 {
			fmt.Printf("Mean Tenure: %.0f days\n", s.TenureMeanDays)
			fmt.Printf("Median Tenure: %.0f days\n", s.TenureMedianDays)
			fmt.Printf("Joining Range: %s to %s\n", s.EarliestJoin, s.LatestJoin)
			fmt.Printf("Hiring Trend: %+.1f hires/month\n", s.MonthlyHireTrend)
		}
	}

	fmt.Printf("\n✅ GENERATION COMPLETED\n")
}
