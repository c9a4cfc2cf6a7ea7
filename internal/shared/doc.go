// Package shared holds helpers used across the dashboard packages that belong
// to no single layer.
//
// The testutil subpackage provides a buffered slog handler for asserting on
// log output and CSV fixtures of the incident dataset:
//
//	func TestSomething(t *testing.T) {
//	    logger, logs := testutil.NewTestLogger(t)
//	    path := testutil.WriteIncidentCSV(t)
//	    ...
//	    testutil.AssertLogContains(t, logs, slog.LevelInfo, "dataset loaded")
//	}
package shared
