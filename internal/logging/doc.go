// Package logging provides structured logging helpers built on log/slog.
//
// It defines the canonical attribute keys used across the codebase and
// redaction helpers for identifiers that must not appear verbatim in
// shared log sinks (CI logs, hosted log aggregation): Telegram chat ids
// and calendar addresses.
package logging
