// Package services sits between the HTTP handlers and the incident pipeline.
//
// DashboardService loads the configured dataset on every call, builds the
// requested page reports and records load and build metrics. It keeps no
// table between calls, so concurrent requests never share state.
//
// HealthService answers the health, readiness and liveness probes; readiness
// depends on the dataset being readable.
//
// Errors from the pipeline are returned wrapped but unchanged in kind
// (incidents.ErrDataUnavailable, incidents.ErrMissingColumns) so handlers can
// map them to problem responses. ErrPageNotFound marks an unknown page id.
package services
