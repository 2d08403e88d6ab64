// Package testutil holds helpers shared by the package tests: log capture,
// fixture files and small DOM queries.
package testutil
