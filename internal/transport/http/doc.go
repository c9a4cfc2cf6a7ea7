// Package http implements the HTTP handlers of the dashboard service.
// Handlers are a thin layer between chi routing and the services: they parse
// and validate the request, call a service and format the response.
//
// # Routes
//
//	GET /api/pages                                  page catalogue
//	GET /api/pages/{page}?year=all|YYYY             page report as JSON
//	GET /api/pages/{page}/years                     year selector options
//	GET /api/pages/{page}/charts/{chart}.png        one chart of the page
//	GET /api/pages/{page}/export.xlsx               workbook of every table
//	GET /api/pages/{page}/tables/{table}.csv        one table as CSV
//	GET /api/health, /api/health/ready, /api/health/live, /api/version
//
// # Error Handling
//
// Every failure is written as RFC 7807 Problem Details through
// errors.ErrorHandler:
//
//	{
//	    "type": "/errors/data/missing-columns",
//	    "title": "Missing Columns",
//	    "status": 422,
//	    "detail": "The dataset lacks columns required by this page: [time]",
//	    "instance": "/api/pages/demographics",
//	    "missing_columns": ["time"],
//	    "trace_id": "..."
//	}
//
// A year with no matching incidents is not an error. The report comes back
// with status "empty" and a notice, and charts draw a placeholder.
//
// # Testing
//
// Handlers are tested with httptest against a testify mock of
// DashboardServiceInterface.
package http
