// Package diag defines the diagnostic model shared by the analyzer host, the
// manager synthesis plugin and the CLI.
//
// Diagnostic is the central record: Severity, a compact numeric Code with a
// stable string form (see codes.go), a short Message, the Primary span of the
// offending call or declaration, and optional Notes.
//
// Producers emit through a Reporter (BagReporter, DedupReporter) so they stay
// decoupled from storage and rendering. Rendering lives in internal/report.
package diag
