// Package diag defines the core diagnostic model shared by all pipeline phases.
//
// # Purpose
//
//   - Provide deterministic, serialisable data structures that capture findings
//     produced by the surface linter, HIR builder and middle-end passes.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to concrete storage or formatting layers.
//   - Turn raw errors from any stage into a rich Report with category, source
//     window, note and help text (see report.go).
//
// # Scope
//
// Package diag does not perform any formatting, IO, or CLI integration.
// Rendering responsibilities live in internal/diagfmt; orchestration lives
// in the driver layer.
//
// # Data model
//
// Diagnostic is the span-based record attached to a specific place in a
// file. It carries:
//
//   - Severity – tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code – compact numeric identifier (see codes.go) with stable string form.
//   - Message – human oriented text; keep it short and actionable.
//   - Primary span – the canonical source.Span pointing to the issue.
//   - Notes – optional secondary spans/messages for additional context.
//   - Fixes – optional Fix records describing how to address the problem.
//   - Suggestion – optional remediation hint used by the surface linter.
//
// Report is the failure-path record: when a stage errors out, FromError
// categorizes the message, recovers a location, extracts a 3-line source
// window and attaches catalog note/help text. Its QualityScore measures
// how actionable the record is.
//
// # Emitting diagnostics
//
// Phases should use a diag.Reporter to decouple emission from storage.
// A phase constructs a ReportBuilder via NewReportBuilder (or the helper
// functions ReportError/ReportWarning/ReportInfo) and chains WithNote /
// WithFix / WithSuggestion before calling Emit. When no extra metadata is
// needed, call Reporter.Report(...) directly. diag.BagReporter aggregates
// diagnostics into a Bag, which supports sorting, deduplication and merge.
//
// Keep the data model deterministic: any new fields should avoid side
// effects so the CLI and tooling can safely serialise diagnostics for
// caching and testing.
package diag
