// Package diag defines the diagnostic model shared by all lint stages.
//
// # Purpose
//
//   - Provide deterministic data structures that capture findings produced
//     by the template lexer, parser, tag matcher, structure analyzer and
//     quality scanner.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to concrete storage or formatting layers.
//
// # Scope
//
// Package diag does not perform any formatting, IO or CLI integration.
// Conversion into the public result model lives in internal/lint, rendering
// in internal/diagfmt.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity – info, warning or error; only errors fail a document.
//   - Code – compact numeric identifier (see codes.go) with stable string form.
//     Code ranges map onto the lint kinds: LEX/SYN are syntax errors, TAG are
//     matching and nesting findings, QLT are quality warnings, DOC are
//     document-level failures.
//   - Message – human oriented text; keep it short and actionable.
//   - Primary span – byte range inside the extracted document text.
//   - Notes – optional secondary spans, e.g. where a block was opened.
//   - TagName / Suggestion – tag the finding is about and how to fix it.
//
// # Emitting diagnostics
//
// Stages use a diag.Reporter. The parser constructs a ReportBuilder via
// ReportError/ReportWarning and chains WithNote / WithSuggestion before
// calling Emit. diag.BagReporter aggregates diagnostics into a Bag that keeps
// insertion order; stage order is part of the lint result contract, so the
// linter never sorts the bag.
package diag
