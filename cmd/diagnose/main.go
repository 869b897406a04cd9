package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"mfgcli/internal/exporter"
	"mfgcli/internal/services"
)

type stringList []string

func (s *stringList) String() string {
	return strings.Join(*s, ",")
}

func (s *stringList) Set(value string) error {
	*s = append(*s, value)
	return nil
}

func main() {
	var inputs stringList
	flag.Var(&inputs, "in", "input data file, CSV or XLSX (repeatable)")
	mappingPath := flag.String("mapping", "", "role-to-column mapping YAML file")
	outputDir := flag.String("out", "data/reports", "output directory for CSV reports")
	format := flag.String("format", "text", "output format: text or csv")
	workers := flag.Int("workers", 4, "maximum files diagnosed concurrently")
	flag.Parse()

	if len(inputs) == 0 {
		fmt.Fprintln(os.Stderr, "at least one -in file is required")
		flag.Usage()
		os.Exit(2)
	}
	if *format != "text" && *format != "csv" {
		fmt.Fprintf(os.Stderr, "unknown format %q, use text or csv\n", *format)
		os.Exit(2)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	svc := services.NewDiagnosisService(logger)

	var (
		stdout sync.Mutex
		exp    *exporter.ReportExporter
	)
	if *format == "csv" {
		if err := os.MkdirAll(*outputDir, 0755); err != nil {
			slog.Error("Failed to create output directory", "error", err)
			os.Exit(1)
		}
		exp = exporter.NewReportExporter(*outputDir)
	}

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(*workers)

	for _, input := range inputs {
		g.Go(func() error {
			report, err := svc.DiagnoseFile(ctx, input, *mappingPath)
			if err != nil {
				return fmt.Errorf("%s: %w", input, err)
			}

			if *format == "csv" {
				stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
				if err := exp.ExportReport(report, stem); err != nil {
					return fmt.Errorf("%s: %w", input, err)
				}
				return nil
			}

			stdout.Lock()
			defer stdout.Unlock()
			fmt.Printf("=== %s ===\n%s\n", input, report.Summary())
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		slog.Error("Diagnosis failed", "error", err)
		os.Exit(1)
	}
}
