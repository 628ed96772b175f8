package lint

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"doclint/internal/diag"
	"doclint/internal/observ"
	"doclint/internal/pipeline"
	"doclint/internal/source"
	"doclint/internal/tags"
	"doclint/internal/trace"
)

// TextExtractor turns a document container into ordered lines of text.
type TextExtractor interface {
	Extract(ctx context.Context, name string, raw []byte) ([]string, error)
}

// Linter runs the lint stages over document text. It holds only read-only
// state and may be shared between goroutines.
type Linter struct {
	cfg     Config
	scanner *tags.Scanner
	sink    pipeline.ProgressSink
}

// New validates cfg and compiles the tag scanner.
func New(cfg Config) (*Linter, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("lint config: %w", err)
	}
	sc, err := tags.NewScanner(cfg.Delims, cfg.Vocab, cfg.Prefixes)
	if err != nil {
		return nil, fmt.Errorf("lint config: %w", err)
	}
	return &Linter{cfg: cfg, scanner: sc}, nil
}

// WithProgress returns a copy of the linter that reports stage events to sink.
func (l *Linter) WithProgress(sink pipeline.ProgressSink) *Linter {
	cp := *l
	cp.sink = sink
	return &cp
}

// Config returns the configuration the linter was built with.
func (l *Linter) Config() Config { return l.cfg }

// Scanner returns the compiled tag scanner.
func (l *Linter) Scanner() *tags.Scanner { return l.scanner }

// run is the per-invocation state: timing, tracing and progress.
type run struct {
	name   string
	start  time.Time
	tracer trace.Tracer
	span   *trace.Span
	timer  *observ.Timer
	sink   pipeline.ProgressSink
}

func (l *Linter) newRun(ctx context.Context, name string) *run {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeFile, "lint", trace.CurrentSpan(ctx).SpanID)
	span.WithExtra("file", name)
	return &run{
		name:   name,
		start:  time.Now(),
		tracer: tracer,
		span:   span,
		timer:  observ.NewTimer(),
		sink:   l.sink,
	}
}

// stage times fn as one pipeline stage; fn returns a short note for the trace.
func (r *run) stage(stage pipeline.Stage, fn func() string) {
	pipeline.Emit(r.sink, r.name, stage, pipeline.StatusWorking, nil, 0)
	sp := trace.Begin(r.tracer, trace.ScopeStage, string(stage), r.span.ID())
	idx := r.timer.Begin(string(stage))
	note := fn()
	r.timer.End(idx, note)
	elapsed := sp.End(note)
	pipeline.Emit(r.sink, r.name, stage, pipeline.StatusDone, nil, elapsed)
}

func (r *run) skip(stage pipeline.Stage) {
	pipeline.Emit(r.sink, r.name, stage, pipeline.StatusSkipped, nil, 0)
}

func (r *run) fail(stage pipeline.Stage, err error) {
	pipeline.Emit(r.sink, r.name, stage, pipeline.StatusError, err, 0)
}

func (r *run) elapsedMS() float64 {
	return float64(time.Since(r.start)) / float64(time.Millisecond)
}

func (r *run) finish(res *Result) {
	res.Timings = r.timer.Report()
	r.span.WithExtra("errors", strconv.Itoa(len(res.Errors))).
		WithExtra("warnings", strconv.Itoa(len(res.Warnings)))
	r.span.End("")
}

// recoverInto turns a panic anywhere in the run into a one-error result.
func (r *run) recoverInto(res *Result) {
	v := recover()
	if v == nil {
		return
	}
	*res = failedResult(fmt.Sprintf("Unexpected error during linting: %v", v),
		"Please check the document format and try again", r.elapsedMS())
	r.fail(pipeline.StageAssemble, fmt.Errorf("panic: %v", v))
	r.finish(res)
}

// Lint checks already extracted text. It never fails: problems with the
// input are reported inside the result.
func (l *Linter) Lint(ctx context.Context, name string, lines []string, opts Options) (res Result) {
	r := l.newRun(ctx, name)
	defer r.recoverInto(&res)
	res = l.lintLines(r, lines, opts)
	r.finish(&res)
	return res
}

// LintDocument extracts the text of raw with ex and lints it. An extraction
// failure yields a one-error result.
func (l *Linter) LintDocument(ctx context.Context, name string, raw []byte, ex TextExtractor, opts Options) (res Result) {
	r := l.newRun(ctx, name)
	defer r.recoverInto(&res)

	var (
		lines []string
		err   error
	)
	r.stage(pipeline.StageExtract, func() string {
		lines, err = ex.Extract(ctx, name, raw)
		if err != nil {
			return "failed"
		}
		return strconv.Itoa(len(lines)) + " lines"
	})
	if err != nil {
		r.fail(pipeline.StageExtract, err)
		res = failedResult(err.Error(), "Check document format and content", r.elapsedMS())
		r.finish(&res)
		return res
	}
	res = l.lintLines(r, lines, opts)
	r.finish(&res)
	return res
}

func (l *Linter) lintLines(r *run, lines []string, opts Options) Result {
	text := strings.Join(lines, "\n")
	lines = strings.Split(text, "\n")

	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual(r.name, []byte(text)))
	loc := locator{file: file}

	bag := diag.NewBag(0)
	rep := &diag.CountingReporter{Next: diag.BagReporter{Bag: bag}}

	blank := strings.TrimSpace(text) == ""
	if blank {
		diag.ReportError(rep, diag.DocEmpty, source.At(file.ID, 0), "No template content found in document").
			WithSuggestion("Ensure the document contains Jinja2 template syntax").
			Emit()
	}

	occs := l.scanner.ScanText(lines)

	syntaxFailed := false
	r.stage(pipeline.StageSyntax, func() string {
		before := rep.Errors
		_, syntaxFailed = checkSyntax(file, lines, &l.cfg, rep)
		return strconv.Itoa(rep.Errors-before) + " errors"
	})

	switch {
	case syntaxFailed, !opts.CheckTagMatching:
		r.skip(pipeline.StageTagMatch)
	default:
		r.stage(pipeline.StageTagMatch, func() string {
			before := rep.Errors
			matchTags(occs, l.cfg.Vocab, loc, rep)
			return strconv.Itoa(rep.Errors-before) + " errors"
		})
	}

	switch {
	case syntaxFailed, !opts.CheckNestedStructure:
		r.skip(pipeline.StageStructure)
	default:
		r.stage(pipeline.StageStructure, func() string {
			before := rep.Errors
			checkStructure(occs, l.cfg.Vocab, l.cfg.MaxDepth, loc, rep)
			return strconv.Itoa(rep.Errors-before) + " errors"
		})
	}

	r.stage(pipeline.StageQuality, func() string {
		checkQuality(file, lines, occs, &l.cfg, opts, loc, rep)
		return strconv.Itoa(rep.Warnings) + " warnings"
	})

	var score float64
	r.stage(pipeline.StageScore, func() string {
		score = completeness(text, rep.Errors, rep.Warnings, len(occs))
		return strconv.FormatFloat(score, 'f', 1, 64)
	})

	var res Result
	r.stage(pipeline.StageAssemble, func() string {
		errs, warns := converter{file: file}.convert(bag.Items())
		res = Result{
			Success:  succeeded(bag, opts),
			Errors:   errs,
			Warnings: warns,
		}
		pv := preview(text, l.cfg.PreviewLen)
		res.Preview = &pv
		if opts.Verbose {
			res.Content = &text
		}
		res.Summary = newSummary(errs, warns, textStats{
			size:  utf8.RuneCountInString(text),
			lines: len(lines),
			tags:  len(occs),
			score: &score,
		}, r.elapsedMS())
		return ""
	})
	return res
}
