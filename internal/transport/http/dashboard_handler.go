package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"sharkdash/internal/charts"
	apierrors "sharkdash/internal/errors"
	"sharkdash/internal/exporter"
	"sharkdash/internal/incidents"
	"sharkdash/internal/middleware"
	"sharkdash/internal/services"
	"sharkdash/pkg/contracts/domain"
)

type pageCtxKey struct{}

// DashboardHandler serves the dashboard pages, their charts and exports
type DashboardHandler struct {
	service      DashboardServiceInterface
	validator    *middleware.QueryValidator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDashboardHandler creates a new dashboard handler with RFC 7807 error handling
func NewDashboardHandler(service DashboardServiceInterface, validator *middleware.QueryValidator, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DashboardHandler {
	return &DashboardHandler{
		service:      service,
		validator:    validator,
		logger:       logger.With(slog.String("component", "dashboard_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the page routes, mounted under /api/pages
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.ListPages)

	r.Route("/{page}", func(r chi.Router) {
		r.Use(h.PageCtx)
		r.Get("/", h.GetPage)
		r.Get("/years", h.GetYears)
		r.Get("/charts/{chart}.png", h.GetChart)
		r.Get("/export.xlsx", h.ExportWorkbook)
		r.Get("/tables/{table}.csv", h.ExportTable)
	})

	return r
}

// PageCtx resolves the page parameter and stores its definition in the context
func (h *DashboardHandler) PageCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, ok := incidents.LookupPage(domain.PageID(chi.URLParam(r, "page")))
		if !ok {
			h.errorHandler.HandleError(w, r, apierrors.NotFoundError("page"))
			return
		}
		ctx := context.WithValue(r.Context(), pageCtxKey{}, page)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func pageFromContext(ctx context.Context) incidents.PageSpec {
	page, _ := ctx.Value(pageCtxKey{}).(incidents.PageSpec)
	return page
}

// ListPages handles GET /api/pages
func (h *DashboardHandler) ListPages(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.Pages(r.Context()))
}

// GetPage handles GET /api/pages/{page}?year=
func (h *DashboardHandler) GetPage(w http.ResponseWriter, r *http.Request) {
	report, ok := h.report(w, r)
	if !ok {
		return
	}
	render.JSON(w, r, report)
}

// GetYears handles GET /api/pages/{page}/years
func (h *DashboardHandler) GetYears(w http.ResponseWriter, r *http.Request) {
	page := pageFromContext(r.Context())

	years, err := h.service.Years(r.Context(), page.ID)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	render.JSON(w, r, years)
}

// GetChart handles GET /api/pages/{page}/charts/{chart}.png
func (h *DashboardHandler) GetChart(w http.ResponseWriter, r *http.Request) {
	page := pageFromContext(r.Context())
	name := chi.URLParam(r, "chart")
	if !page.HasTable(name) {
		h.errorHandler.HandleError(w, r, apierrors.NotFoundError("chart"))
		return
	}

	report, ok := h.report(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := charts.Render(&buf, report, name, charts.DefaultSize); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", charts.ContentType)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// ExportWorkbook handles GET /api/pages/{page}/export.xlsx
func (h *DashboardHandler) ExportWorkbook(w http.ResponseWriter, r *http.Request) {
	report, ok := h.report(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := exporter.WriteWorkbook(&buf, report); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.NewExportError("workbook export failed", err))
		return
	}

	h.logger.InfoContext(r.Context(), "workbook exported",
		slog.String("page", string(report.Page)),
		slog.String("year", report.Selection),
		slog.Int("bytes", buf.Len()),
		slog.String("request_id", middleware.GetRequestID(r.Context())),
	)

	filename := fmt.Sprintf("%s_%s.xlsx", report.Page, report.Selection)
	w.Header().Set("Content-Type", exporter.WorkbookContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// ExportTable handles GET /api/pages/{page}/tables/{table}.csv
func (h *DashboardHandler) ExportTable(w http.ResponseWriter, r *http.Request) {
	page := pageFromContext(r.Context())
	name := chi.URLParam(r, "table")
	if err := h.validator.ValidateTable(name); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	if !page.HasTable(name) {
		h.errorHandler.HandleError(w, r, apierrors.NotFoundError("table"))
		return
	}

	report, ok := h.report(w, r)
	if !ok {
		return
	}

	table, ok := exporter.TableByName(report, name)
	if !ok {
		h.errorHandler.HandleError(w, r, apierrors.NotFoundError("table"))
		return
	}

	var buf bytes.Buffer
	if err := exporter.WriteTable(&buf, table, exporter.WriteOptions{BOMPrefix: true}); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.NewExportError("table export failed", err))
		return
	}

	filename := fmt.Sprintf("%s_%s_%s.csv", report.Page, name, report.Selection)
	w.Header().Set("Content-Type", exporter.CSVContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// report validates the year query and builds the page report. It writes the
// problem response itself and reports false when the request cannot proceed.
func (h *DashboardHandler) report(w http.ResponseWriter, r *http.Request) (*domain.PageReport, bool) {
	page := pageFromContext(r.Context())

	sel, err := h.validator.ParsePageQuery(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return nil, false
	}

	report, err := h.service.Page(r.Context(), page.ID, sel)
	if err != nil {
		h.handleServiceError(w, r, err)
		return nil, false
	}
	return report, true
}

func (h *DashboardHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, services.ErrPageNotFound) {
		err = apierrors.NotFoundError("page")
	}
	h.errorHandler.HandleError(w, r, err)
}
