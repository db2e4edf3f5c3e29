package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"clinicterm/internal/logging"
	"clinicterm/internal/render"
)

var (
	exportOutput      string
	exportConcurrency int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export an HTML report of all patients and their visits",
	Long: `Fetches every patient and their visit history from the backend and
writes a standalone HTML report. Visit lists are fetched concurrently,
bounded by --concurrency.`,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	output := exportOutput
	if output == "" {
		output = cfg.Export.OutputPath
	}
	concurrency := exportConcurrency
	if concurrency <= 0 {
		concurrency = cfg.Export.Concurrency
	}
	if concurrency <= 0 {
		concurrency = 4
	}

	start := time.Now()
	patients, err := backend.ListPatients(cmd.Context())
	if err != nil {
		return err
	}
	logging.Export("exporting %d patient(s) with concurrency %d", len(patients), concurrency)

	rows := make([]render.PatientVisits, len(patients))
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(concurrency)
	for i, p := range patients {
		i, p := i, p
		g.Go(func() error {
			visits, err := backend.ListVisits(ctx, p.ID)
			if err != nil {
				return fmt.Errorf("patient %d: %w", p.ID, err)
			}
			rows[i] = render.PatientVisits{Patient: p, Visits: visits}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	html := render.HTMLReport(rows, time.Now())
	if err := os.WriteFile(output, []byte(html), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	logging.Export("report written to %s in %s", output, time.Since(start).Round(time.Millisecond))
	fmt.Printf("Report for %d patient(s) written to %s\n", len(patients), output)
	return nil
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default from config)")
	exportCmd.Flags().IntVar(&exportConcurrency, "concurrency", 0, "parallel visit fetches (default from config)")
	rootCmd.AddCommand(exportCmd)
}
