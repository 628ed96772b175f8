// Package trace is the structured logging layer of doclint.
//
// A CLI command, an HTTP request and every lint stage run inside a span;
// spans nest through the context:
//
//	ctx, span := trace.Start(ctx, trace.ScopeStage, "tag_match")
//	defer span.End("")
//
// Events go to a StreamTracer (text or NDJSON, right away), a RingTracer
// (last N events, dumped when the command exits) or both. The level picks
// the finest scope that is kept: phase keeps commands and stages, detail
// adds files, debug adds tags.
//
//	doclint lint --trace=- --trace-level=detail ./templates
package trace
