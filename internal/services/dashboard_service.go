package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"sharkdash/internal/config"
	"sharkdash/internal/incidents"
	"sharkdash/internal/infrastructure"
	"sharkdash/pkg/contracts/domain"
)

// Page build outcomes recorded in metrics
const (
	OutcomeOK              = "ok"
	OutcomeEmpty           = "empty"
	OutcomeMissingColumns  = "missing_columns"
	OutcomeDataUnavailable = "data_unavailable"
	OutcomeCancelled       = "cancelled"
)

// DashboardService recomputes page reports from the configured source on every
// call. It holds no table between calls.
type DashboardService struct {
	source  string
	opts    incidents.LoadOptions
	metrics *infrastructure.DashboardMetrics
	tracer  trace.Tracer
	logger  *slog.Logger
}

// NewDashboardService creates a dashboard service reading cfg.Source.
// metrics may be nil.
func NewDashboardService(cfg config.DataConfig, metrics *infrastructure.DashboardMetrics, logger *slog.Logger) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "dashboard_service"))

	logger.Info("DashboardService initialized",
		slog.String("source", cfg.Source),
		slog.String("format", cfg.Format))

	return &DashboardService{
		source: cfg.Source,
		opts: incidents.LoadOptions{
			Format: cfg.Format,
			Sheet:  cfg.Sheet,
			Comma:  cfg.Comma(),
		},
		metrics: metrics,
		tracer:  otel.Tracer(infrastructure.ServiceName + ".dashboard"),
		logger:  logger,
	}
}

// Source returns the dataset path the service reads
func (s *DashboardService) Source() string {
	return s.source
}

// Pages lists the dashboard pages in navigation order
func (s *DashboardService) Pages(ctx context.Context) []domain.PageInfo {
	specs := incidents.Pages()
	infos := make([]domain.PageInfo, 0, len(specs))
	for _, p := range specs {
		infos = append(infos, p.Info())
	}
	return infos
}

// LoadTable reads and normalizes the source
func (s *DashboardService) LoadTable(ctx context.Context) (*incidents.Table, incidents.LoadStats, error) {
	ctx, span := s.tracer.Start(ctx, "dashboard.load")
	defer span.End()

	start := time.Now()
	table, stats, err := incidents.Load(ctx, s.source, s.opts)
	duration := time.Since(start)

	s.metrics.RecordSourceLoad(ctx, stats.Format, stats.Rows, stats.SkippedRows, duration, err)

	if err != nil {
		infrastructure.RecordError(ctx, err)
		s.logger.ErrorContext(ctx, "dataset load failed",
			slog.String("source", s.source),
			slog.String("error", err.Error()))
		return nil, stats, err
	}

	span.SetAttributes(
		attribute.String("source.format", stats.Format),
		attribute.Int("source.rows", stats.Rows),
		attribute.Int("source.skipped_rows", stats.SkippedRows),
	)
	s.logger.DebugContext(ctx, "dataset loaded",
		slog.String("format", stats.Format),
		slog.Int("rows", stats.Rows),
		slog.Int("skipped_rows", stats.SkippedRows),
		slog.Duration("duration", duration))
	if stats.SkippedRows > 0 {
		s.logger.WarnContext(ctx, "malformed rows skipped",
			slog.Int("skipped_rows", stats.SkippedRows))
	}
	return table, stats, nil
}

// Page loads the source and builds one page for the selection
func (s *DashboardService) Page(ctx context.Context, id domain.PageID, sel incidents.YearSelection) (*domain.PageReport, error) {
	page, ok := incidents.LookupPage(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPageNotFound, id)
	}

	table, _, err := s.LoadTable(ctx)
	if err != nil {
		s.metrics.RecordPageBuild(ctx, string(id), outcomeOf(err), 0)
		return nil, err
	}
	return s.build(ctx, table, page, sel)
}

// BuildAll loads the source once and builds every page for the selection.
// A page whose columns are missing is reported in errs and skipped; a load
// failure aborts the whole run.
func (s *DashboardService) BuildAll(ctx context.Context, sel incidents.YearSelection) ([]*domain.PageReport, map[domain.PageID]error, error) {
	table, _, err := s.LoadTable(ctx)
	if err != nil {
		return nil, nil, err
	}

	var reports []*domain.PageReport
	errs := make(map[domain.PageID]error)
	for _, page := range incidents.Pages() {
		if err := ctx.Err(); err != nil {
			return reports, errs, err
		}
		report, err := s.build(ctx, table, page, sel)
		if err != nil {
			errs[page.ID] = err
			continue
		}
		reports = append(reports, report)
	}
	return reports, errs, nil
}

// Years returns the year options of a page: "all" followed by every year of
// the page window present in the data.
func (s *DashboardService) Years(ctx context.Context, id domain.PageID) ([]string, error) {
	page, ok := incidents.LookupPage(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPageNotFound, id)
	}

	table, _, err := s.LoadTable(ctx)
	if err != nil {
		return nil, err
	}
	if err := incidents.ValidateColumns(table, page); err != nil {
		return nil, err
	}
	return incidents.YearOptions(table.Window(page.Window)), nil
}

func (s *DashboardService) build(ctx context.Context, table *incidents.Table, page incidents.PageSpec, sel incidents.YearSelection) (*domain.PageReport, error) {
	ctx, span := s.tracer.Start(ctx, "dashboard.build_page",
		trace.WithAttributes(
			attribute.String("page", string(page.ID)),
			attribute.String("selection", sel.String()),
		))
	defer span.End()

	start := time.Now()
	report, err := incidents.BuildPage(table, page, sel)
	duration := time.Since(start)

	if err != nil {
		s.metrics.RecordPageBuild(ctx, string(page.ID), outcomeOf(err), duration)
		s.logger.WarnContext(ctx, "page build failed",
			slog.String("page", string(page.ID)),
			slog.String("error", err.Error()))
		return nil, err
	}

	outcome := OutcomeOK
	if report.Empty() {
		outcome = OutcomeEmpty
	}
	s.metrics.RecordPageBuild(ctx, string(page.ID), outcome, duration)
	s.logger.DebugContext(ctx, "page built",
		slog.String("page", string(page.ID)),
		slog.String("selection", sel.String()),
		slog.String("outcome", outcome),
		slog.Int("rows", report.RowCount))
	return report, nil
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, incidents.ErrMissingColumns):
		return OutcomeMissingColumns
	case errors.Is(err, incidents.ErrDataUnavailable):
		return OutcomeDataUnavailable
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return OutcomeCancelled
	default:
		return "error"
	}
}
