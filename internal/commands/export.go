package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/amcjunkshop/scrapledger/internal/config"
	"github.com/amcjunkshop/scrapledger/internal/report"
	"github.com/amcjunkshop/scrapledger/internal/repository/mongodb"
)

func newExportCommand(envFile *string) *cobra.Command {
	var (
		start    string
		end      string
		material string
		sortKey  string
		dir      string
		format   string
		out      string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export filtered report rows to a CSV or XLSX file",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := report.Filter{DateStart: start, DateEnd: end, Material: material}
			sort := report.SortState{Key: report.ParseSortKey(sortKey), Ascending: dir == "asc"}
			return runExport(*envFile, filter, sort, format, out)
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "inclusive start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "inclusive end date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&material, "material", "", "case-insensitive material substring")
	cmd.Flags().StringVar(&sortKey, "sort", "timestamp", "sort column (date|material|weight|deduction|price|result|timestamp)")
	cmd.Flags().StringVar(&dir, "dir", "desc", "sort direction (asc|desc)")
	cmd.Flags().StringVar(&format, "format", "csv", "output format (csv|xlsx)")
	cmd.Flags().StringVar(&out, "out", "", "output file (default: generated name in the working directory)")

	return cmd
}

func runExport(envFile string, filter report.Filter, sort report.SortState, format, out string) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repo, err := mongodb.New(ctx, cfg.MongoDB.URI, cfg.MongoDB.DBName, nil)
	if err != nil {
		return fmt.Errorf("initializing mongodb repository: %w", err)
	}
	defer func() { _ = repo.Close(context.Background()) }()

	recs, err := repo.ListRecords(ctx)
	if err != nil {
		return err
	}

	rows := report.Sort(report.Apply(report.Flatten(recs), filter), sort)

	var data []byte
	switch format {
	case "csv":
		data = report.CSV(rows)
	case "xlsx":
		data, err = report.XLSX(rows)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("format must be csv or xlsx, got %q", format)
	}

	if out == "" {
		out = report.Filename(format, time.Now())
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}

	fmt.Printf("Exported %d rows to %s\n", len(rows), out)
	return nil
}
