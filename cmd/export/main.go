// Package main provides a CLI that runs the same load-filter-aggregate
// pipeline as the web server and writes the result to a file or stdout.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"bbb-dashboard/internal/services"
	"bbb-dashboard/internal/workbook"
)

var (
	startDate  string
	endDate    string
	region     string
	product    string
	customer   string
	outputPath string
	format     string
)

func main() {
	godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "export [workbook.xlsx]",
		Short: "Export the bookings/billings/backlog summary",
		Long: `export reads a summary workbook, applies the date window and
dimension filters, and writes the summary table as CSV or the full
dashboard envelope as JSON.`,
		Args: cobra.ExactArgs(1),
		RunE: run,
	}

	rootCmd.Flags().StringVar(&startDate, "start", "", "Inclusive start date (e.g. 2024-01-01)")
	rootCmd.Flags().StringVar(&endDate, "end", "", "Inclusive end date")
	rootCmd.Flags().StringVar(&region, "region", "", "Filter by region")
	rootCmd.Flags().StringVar(&product, "product", "", "Filter by product")
	rootCmd.Flags().StringVar(&customer, "customer", "", "Filter by customer")
	rootCmd.Flags().StringVarP(&outputPath, "out", "o", "", "Output file path (default: stdout)")
	rootCmd.Flags().StringVar(&format, "format", "csv", "Output format: csv or json")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", inputPath)
	}

	window := services.DateWindow{}
	if startDate != "" {
		if window.Start = workbook.CoerceDate(startDate); window.Start == nil {
			return fmt.Errorf("invalid start date: %s", startDate)
		}
	}
	if endDate != "" {
		if window.End = workbook.CoerceDate(endDate); window.End == nil {
			return fmt.Errorf("invalid end date: %s", endDate)
		}
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	ds, err := workbook.Load(context.Background(), inputPath, logger)
	if err != nil {
		return fmt.Errorf("load workbook: %w", err)
	}

	report := services.BuildReport(ds, window)

	var out []byte
	switch format {
	case "csv":
		rows := services.TableView(report.TableRows, services.TableFilter{
			Region:   region,
			Product:  product,
			Customer: customer,
		})
		out = []byte(services.ExportCSV(rows))
	case "json":
		out, err = json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal report: %w", err)
		}
	default:
		return fmt.Errorf("invalid format: %s (must be csv or json)", format)
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, out, 0644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		return nil
	}

	fmt.Println(string(out))
	return nil
}
