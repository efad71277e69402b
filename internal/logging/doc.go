// Package logging constructs slog loggers for bookferry.
//
// Two output formats are supported: a compact console format for
// interactive use and JSON for log aggregation. Component loggers carry
// a standard component attribute so migration runs can be filtered by
// subsystem.
package logging
