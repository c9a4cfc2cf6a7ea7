// Package app wires the dashboard service together and manages its lifecycle.
//
// # Initialization Flow
//
//	1. Load configuration from defaults, YAML file and environment
//	2. Initialize logging and OpenTelemetry
//	3. Create the dashboard and health services
//	4. Build the chi router with middleware and handlers
//	5. Start the HTTP server
//
// # Usage
//
//	application, err := app.NewApplication()
//	if err != nil {
//	    return err
//	}
//	return application.Run(ctx)
//
// # Graceful Shutdown
//
// Run returns when its context is cancelled or on SIGINT/SIGTERM. In-flight
// requests finish within the configured shutdown timeout and telemetry is
// flushed. Errors are returned to the caller; the package never calls os.Exit.
package app
