package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"tabscout/adapters/excel"
	"tabscout/domain/profile"
	"tabscout/internal"
	"tabscout/internal/dataset"
	"tabscout/internal/profiling"
	"tabscout/internal/report"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tabscout",
		Short:         "Profile delimited text and spreadsheet files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newProfileCmd(),
		newExportCmd(),
	)
	return rootCmd
}

func newProfileCmd() *cobra.Command {
	var format string
	cfg := profiling.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "profile [file]",
		Short: "Detect the dialect, column types and statistics of a file",
		Long: `Profile a CSV, TSV, PSV, TXT or XLSX file and print the result.

Example: tabscout profile orders.csv --format markdown --sample-window 5000`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := profileFile(cmd.Context(), args[0], cfg)
			if err != nil {
				return err
			}
			return writeProfile(cmd.OutOrStdout(), p, format)
		},
	}

	cmd.Flags().StringVar(&format, "format", "json", "Output format: json or markdown")
	cmd.Flags().IntVar(&cfg.SampleWindow, "sample-window", cfg.SampleWindow, "Leading data rows used for type inference and statistics")
	cmd.Flags().IntVar(&cfg.PreviewRows, "preview-rows", cfg.PreviewRows, "Leading data rows kept in the preview")
	cmd.Flags().IntVar(&cfg.Workers, "workers", cfg.Workers, "Maximum columns profiled concurrently")

	return cmd
}

func newExportCmd() *cobra.Command {
	var format string
	var out string
	cfg := profiling.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Write the preview rows of a file as CSV or XLSX",
		Long: `Profile a file and export its preview rows.

Example: tabscout export orders.tsv --format xlsx --out preview.xlsx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := profileFile(cmd.Context(), args[0], cfg)
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			switch format {
			case "csv":
				buf.WriteString(dataset.ExportPreviewCSV(p))
			case "xlsx":
				if out == "" {
					return fmt.Errorf("--out is required for xlsx export")
				}
				if err := excel.WritePreview(&buf, p); err != nil {
					return err
				}
			default:
				return fmt.Errorf("unknown export format %q (use csv or xlsx)", format)
			}

			if out == "" {
				_, err = cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}
			if err := os.WriteFile(out, buf.Bytes(), 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d preview rows to %s\n", len(p.Preview), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "csv", "Export format: csv or xlsx")
	cmd.Flags().StringVar(&out, "out", "", "Output path (stdout when empty, csv only)")
	cmd.Flags().IntVar(&cfg.PreviewRows, "preview-rows", cfg.PreviewRows, "Leading data rows kept in the preview")

	return cmd
}

func profileFile(ctx context.Context, path string, cfg profiling.Config) (*profile.DatasetProfile, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	text, err := dataset.ToText(path, raw)
	if err != nil {
		return nil, err
	}

	logger := internal.NewDefaultLogger().Component("CLI")
	return profiling.NewProfiler(cfg, logger).Profile(ctx, text, path)
}

func writeProfile(w io.Writer, p *profile.DatasetProfile, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	case "markdown", "md":
		_, err := io.WriteString(w, report.Markdown(p))
		return err
	default:
		return fmt.Errorf("unknown output format %q (use json or markdown)", format)
	}
}
