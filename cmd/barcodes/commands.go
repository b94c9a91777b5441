package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/JonMunkholm/barcodesheet/internal/config"
	"github.com/JonMunkholm/barcodesheet/internal/core"
	"github.com/JonMunkholm/barcodesheet/internal/logging"
	"github.com/JonMunkholm/barcodesheet/internal/sheet"
	"github.com/JonMunkholm/barcodesheet/internal/symbol"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:   "barcodes",
		Short: "Turn spreadsheets of serial numbers into CODE39 barcode sheets",
		Long: `barcodes reads the first sheet of an .xlsx or .xls workbook, derives two
CODE39 codes and a description from every row with at least five cells, and
lays them out two per row on A4 pages.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			slog.SetDefault(logging.New(cmd.ErrOrStderr(), logLevel, "text"))
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level: debug, info, warn, error")

	root.AddCommand(newPDFCmd(), newRecordsCmd(), newPreviewCmd())
	return root
}

func newPDFCmd() *cobra.Command {
	var (
		outputPath string
		scale      int
	)

	cmd := &cobra.Command{
		Use:   "pdf INPUT",
		Short: "Export the barcodes of a spreadsheet as a PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if outputPath == "" {
				outputPath = cfg.Export.Filename
			}
			if scale <= 0 {
				scale = cfg.Symbol.RasterScale
			}

			summary, err := exportPDF(cmd.Context(), args[0], outputPath, core.SymbolOptions(cfg), scale)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s: %d records, %d pages, %d images omitted\n",
				outputPath, summary.Records, summary.Pages, summary.ImagesOmitted)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: barcodes.pdf)")
	cmd.Flags().IntVar(&scale, "scale", 0, "Raster scale of embedded images (default: 2)")
	return cmd
}

func newRecordsCmd() *cobra.Command {
	var pretty bool

	cmd := &cobra.Command{
		Use:   "records INPUT",
		Short: "Print the records derived from a spreadsheet as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := readRecords(args[0])
			if err != nil {
				return err
			}

			var data []byte
			if pretty {
				data, err = json.MarshalIndent(records, "", "  ")
			} else {
				data, err = json.Marshal(records)
			}
			if err != nil {
				return fmt.Errorf("serialization failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	return cmd
}

func newPreviewCmd() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "preview CODE",
		Short: "Render one code as SVG or PNG",
		Long: `preview renders a single CODE39 symbol. The format follows the extension
of --output (.svg or .png); without --output the SVG is written to stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := strings.TrimSpace(args[0])
			s, err := symbol.Render(code, core.SymbolOptions(config.Default()))
			if err != nil {
				return err
			}

			if outputPath == "" {
				_, err := cmd.OutOrStdout().Write(s.SVG())
				return err
			}
			return writePreview(cmd.Context(), s, outputPath)
		},
	}
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file (.svg or .png)")
	return cmd
}

func readRecords(path string) ([]sheet.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return sheet.Read(filepath.Base(path), f)
}

// exportPDF reads input and writes the barcode sheet to output. The output
// file is removed when the export fails.
func exportPDF(ctx context.Context, input, output string, opts symbol.Options, scale int) (core.ExportSummary, error) {
	records, err := readRecords(input)
	if err != nil {
		return core.ExportSummary{}, err
	}
	if len(records) == 0 {
		return core.ExportSummary{}, core.ErrNoRecords
	}

	ws := core.NewWorkspace(1, filepath.Base(input), records, opts)
	if n := ws.MissingHandles(); n > 0 {
		slog.Warn("some codes cannot be encoded as CODE39 and will be omitted", "count", n)
	}

	f, err := os.Create(output)
	if err != nil {
		return core.ExportSummary{}, err
	}

	exporter := core.NewExporter(core.ExporterConfig{RasterScale: scale})
	summary, err := exporter.ExportWorkspace(ctx, ws, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(output)
		return summary, err
	}
	return summary, nil
}

func writePreview(ctx context.Context, s *symbol.Symbol, path string) error {
	var (
		data []byte
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".svg":
		data = s.SVG()
	case ".png":
		data, err = symbol.Rasterize(ctx, s, symbol.RasterOptions{})
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported preview format %q (use .svg or .png)", ext)
	}
	return os.WriteFile(path, data, 0644)
}
