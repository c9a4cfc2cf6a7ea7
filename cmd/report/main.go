package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"sharkdash/internal/charts"
	"sharkdash/internal/config"
	"sharkdash/internal/exporter"
	"sharkdash/internal/incidents"
	"sharkdash/internal/infrastructure"
	"sharkdash/internal/services"
	"sharkdash/pkg/contracts"
	"sharkdash/pkg/contracts/domain"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

const allPages = "all"

type options struct {
	source  string
	format  string
	sheet   string
	page    string
	year    string
	out     string
	charts  bool
	version bool
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", slog.String("error", err.Error()))
		os.Exit(exitError)
	}

	logger := infrastructure.NewLogger(os.Stderr, cfg.Logging.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, cfg, os.Args[1:], os.Stdout, logger))
}

func parseFlags(cfg *config.Config, args []string, stderr io.Writer) (options, error) {
	paths, err := config.GetPaths()
	if err != nil {
		return options{}, err
	}

	var opts options
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.source, "source", cfg.Data.Source, "incident dataset (.csv, .xlsx or .xls)")
	fs.StringVar(&opts.format, "format", cfg.Data.Format, "source format override: csv, xlsx or xls")
	fs.StringVar(&opts.sheet, "sheet", cfg.Data.Sheet, "worksheet to read from a workbook source")
	fs.StringVar(&opts.page, "page", allPages, "page to build: home, species, demographics or all")
	fs.StringVar(&opts.year, "year", incidents.AllYearsLabel, "year selection: all or YYYY")
	fs.StringVar(&opts.out, "out", paths.ReportsDir, "output directory for workbooks, tables and charts")
	fs.BoolVar(&opts.charts, "charts", true, "render PNG charts")
	fs.BoolVar(&opts.version, "version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	return opts, nil
}

// run builds the requested pages and returns the process exit code
func run(ctx context.Context, cfg *config.Config, args []string, stdout io.Writer, logger *slog.Logger) int {
	opts, err := parseFlags(cfg, args, os.Stderr)
	if err != nil {
		return exitUsage
	}
	if opts.version {
		fmt.Fprintln(stdout, contracts.GetFullVersionString())
		return exitOK
	}

	sel, err := incidents.ParseYearSelection(opts.year)
	if err != nil {
		logger.Error("Invalid year selection", slog.String("year", opts.year), slog.String("error", err.Error()))
		return exitUsage
	}

	var pages []domain.PageID
	if opts.page == allPages {
		for _, p := range incidents.Pages() {
			pages = append(pages, p.ID)
		}
	} else {
		page, ok := incidents.LookupPage(domain.PageID(opts.page))
		if !ok {
			logger.Error("Unknown page", slog.String("page", opts.page))
			return exitUsage
		}
		pages = []domain.PageID{page.ID}
	}

	if err := config.EnsureDir(opts.out); err != nil {
		logger.Error("Failed to create output directory", slog.String("error", err.Error()))
		return exitError
	}

	dataCfg := cfg.Data
	dataCfg.Source = opts.source
	dataCfg.Format = opts.format
	dataCfg.Sheet = opts.sheet
	service := services.NewDashboardService(dataCfg, nil, logger)

	reports, pageErrs, err := buildPages(ctx, service, pages, sel)
	if err != nil {
		logger.Error("Report generation aborted",
			slog.String("source", opts.source),
			slog.String("error", err.Error()))
		return exitError
	}

	for _, id := range pages {
		if err := pageErrs[id]; err != nil {
			logger.Warn("Page skipped",
				slog.String("page", string(id)),
				slog.String("error", err.Error()))
		}
	}

	csvWriter := exporter.NewCSVWriter(opts.out, logger)
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")

	for _, report := range reports {
		if err := enc.Encode(report); err != nil {
			logger.Error("Failed to print report", slog.String("error", err.Error()))
			return exitError
		}

		files, err := writeReport(opts, csvWriter, report)
		if err != nil {
			logger.Error("Failed to write report files",
				slog.String("page", string(report.Page)),
				slog.String("error", err.Error()))
			return exitError
		}

		logger.Info("Page report written",
			slog.String("page", string(report.Page)),
			slog.String("year", report.Selection),
			slog.String("status", string(report.Status)),
			slog.Int("rows", report.RowCount),
			slog.Any("files", files))
	}

	if len(reports) == 0 {
		logger.Error("No page could be built", slog.Int("pages", len(pages)))
		return exitError
	}
	return exitOK
}

// buildPages builds every page from one load of the source. Per-page failures
// are returned in the map; a load failure is returned as the error.
func buildPages(ctx context.Context, service *services.DashboardService, pages []domain.PageID, sel incidents.YearSelection) ([]*domain.PageReport, map[domain.PageID]error, error) {
	if len(pages) > 1 {
		return service.BuildAll(ctx, sel)
	}

	report, err := service.Page(ctx, pages[0], sel)
	switch {
	case err == nil:
		return []*domain.PageReport{report}, nil, nil
	case errors.Is(err, incidents.ErrMissingColumns):
		return nil, map[domain.PageID]error{pages[0]: err}, nil
	default:
		return nil, nil, err
	}
}

func writeReport(opts options, csvWriter *exporter.CSVWriter, report *domain.PageReport) ([]string, error) {
	var files []string

	workbook := filepath.Join(opts.out, fmt.Sprintf("%s.xlsx", report.Page))
	if err := exporter.SaveWorkbook(workbook, report); err != nil {
		return files, err
	}
	files = append(files, workbook)

	for _, table := range exporter.Tables(report) {
		path, err := csvWriter.WriteTableFile(string(report.Page), table)
		if err != nil {
			return files, err
		}
		files = append(files, path)
	}

	if opts.charts {
		paths, err := charts.SaveAll(opts.out, report, charts.DefaultSize)
		files = append(files, paths...)
		if err != nil {
			return files, err
		}
	}
	return files, nil
}
