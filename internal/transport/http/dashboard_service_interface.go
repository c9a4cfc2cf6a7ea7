package http

import (
	"context"

	"sharkdash/internal/incidents"
	"sharkdash/pkg/contracts/domain"
)

// DashboardServiceInterface defines the page operations the HTTP layer needs
type DashboardServiceInterface interface {
	Pages(ctx context.Context) []domain.PageInfo
	Page(ctx context.Context, id domain.PageID, sel incidents.YearSelection) (*domain.PageReport, error)
	Years(ctx context.Context, id domain.PageID) ([]string, error)
}
