package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hashicorp/go-retryablehttp"

	"doclint/internal/trace"
)

const (
	// DefaultTimeout bounds a whole conversion including retries.
	DefaultTimeout = 60 * time.Second
	// markdownRoute is Gotenberg's Chromium markdown conversion endpoint.
	markdownRoute = "/forms/chromium/convert/markdown"
	// maxPDFSize guards against a misbehaving upstream.
	maxPDFSize = 256 << 20
	// errorBodyPreview is how much of a failed response body goes into details.
	errorBodyPreview = 500
)

var pdfMagic = []byte("%PDF")

// indexHTML wraps the markdown file; Gotenberg renders it with toHTML.
const indexHTML = `<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>Template lint report</title>
<style>
body { font-family: sans-serif; font-size: 11pt; margin: 2em; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #ccc; padding: 4px 6px; vertical-align: top; }
code, pre { font-family: monospace; font-size: 9pt; }
pre { white-space: pre-wrap; }
.page-break { page-break-after: always; }
</style>
</head>
<body>
{{ toHTML "report.md" }}
</body>
</html>
`

// Config configures the Gotenberg client.
type Config struct {
	URL      string        // base URL, e.g. http://gotenberg:3000
	Timeout  time.Duration // 0 -> DefaultTimeout
	RetryMax int           // retries after the first attempt
	// HTTPClient overrides the transport; nil uses a pooled client.
	HTTPClient *http.Client
}

// Gotenberg converts markdown reports to PDF through a Gotenberg service.
// It is safe for concurrent use.
type Gotenberg struct {
	base    string
	timeout time.Duration
	client  *retryablehttp.Client
}

// NewGotenberg builds a client. An empty URL is allowed; every conversion
// then fails with ErrNotConfigured.
func NewGotenberg(cfg Config) *Gotenberg {
	c := retryablehttp.NewClient()
	c.Logger = nil
	c.RetryMax = max(cfg.RetryMax, 0)
	c.RetryWaitMin = 200 * time.Millisecond
	c.RetryWaitMax = 2 * time.Second
	// последний ответ нужен целиком, чтобы разобрать статус
	c.ErrorHandler = retryablehttp.PassthroughErrorHandler
	c.RequestLogHook = func(_ retryablehttp.Logger, req *http.Request, attempt int) {
		if attempt == 0 {
			return
		}
		trace.Note(req.Context(), trace.ScopeStage, "gotenberg", fmt.Sprintf("retry %d", attempt))
	}
	if cfg.HTTPClient != nil {
		c.HTTPClient = cfg.HTTPClient
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Gotenberg{
		base:    strings.TrimRight(strings.TrimSpace(cfg.URL), "/"),
		timeout: timeout,
		client:  c,
	}
}

// Configured reports whether a service URL is set.
func (g *Gotenberg) Configured() bool { return g != nil && g.base != "" }

// MarkdownToPDF renders markdown into a PDF document.
func (g *Gotenberg) MarkdownToPDF(ctx context.Context, markdown []byte) ([]byte, error) {
	if !g.Configured() {
		return nil, &Error{
			Type:    ErrNotConfigured,
			Message: "Gotenberg service URL not configured",
			Details: map[string]any{"env_var": "GOTENBERG_API_URL"},
		}
	}
	endpoint := g.base + markdownRoute

	ctx, span := trace.Start(ctx, trace.ScopeStage, "gotenberg")

	body, contentType, err := markdownForm(markdown)
	if err != nil {
		span.End("error")
		return nil, fmt.Errorf("build gotenberg form: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		span.End("error")
		return nil, fmt.Errorf("build gotenberg request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := g.client.Do(req)
	if err != nil {
		span.End("error")
		return nil, g.transportError(endpoint, err)
	}
	defer resp.Body.Close()

	pdf, err := io.ReadAll(io.LimitReader(resp.Body, maxPDFSize))
	if err != nil {
		span.End("error")
		return nil, g.transportError(endpoint, err)
	}
	if resp.StatusCode != http.StatusOK {
		span.WithExtra("status", fmt.Sprint(resp.StatusCode)).End("error")
		return nil, &Error{
			Type:    ErrConversionFailed,
			Message: statusMessage(resp.StatusCode),
			Details: map[string]any{
				"gotenberg_url": endpoint,
				"status_code":   resp.StatusCode,
				"response_text": clip(pdf, errorBodyPreview),
			},
		}
	}
	if len(pdf) == 0 {
		span.End("empty")
		return nil, &Error{
			Type:    ErrEmptyResponse,
			Message: "Gotenberg returned empty response",
			Details: map[string]any{"gotenberg_url": endpoint},
		}
	}
	if !bytes.HasPrefix(pdf, pdfMagic) {
		span.End("invalid")
		return nil, &Error{
			Type:    ErrInvalidResponse,
			Message: "Gotenberg response is not a valid PDF",
			Details: map[string]any{
				"gotenberg_url": endpoint,
				"content_type":  resp.Header.Get("Content-Type"),
				"content_start": clip(pdf, 100),
			},
		}
	}
	span.WithExtra("size", humanize.Bytes(uint64(len(pdf)))).End("ok")
	return pdf, nil
}

func (g *Gotenberg) transportError(endpoint string, err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &Error{
			Type:    ErrTimeout,
			Message: fmt.Sprintf("Gotenberg request timed out (%s)", g.timeout),
			Details: map[string]any{
				"timeout_seconds": g.timeout.Seconds(),
				"suggestion":      "Try with a smaller document or check Gotenberg service health",
			},
			Err: err,
		}
	}
	return &Error{
		Type:    ErrConnection,
		Message: "Cannot connect to Gotenberg service",
		Details: map[string]any{
			"gotenberg_url":    endpoint,
			"connection_error": err.Error(),
			"suggestion":       "Check if Gotenberg service is running and accessible",
		},
		Err: err,
	}
}

// markdownForm builds the multipart body Gotenberg expects: index.html plus
// the markdown file it references.
func markdownForm(markdown []byte) ([]byte, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	parts := []struct {
		name string
		data []byte
	}{
		{"index.html", []byte(indexHTML)},
		{"report.md", markdown},
	}
	for _, p := range parts {
		w, err := mw.CreateFormFile("files", p.name)
		if err != nil {
			return nil, "", err
		}
		if _, err := w.Write(p.data); err != nil {
			return nil, "", err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), mw.FormDataContentType(), nil
}

func clip(b []byte, n int) string {
	if len(b) > n {
		b = b[:n]
	}
	return strings.ToValidUTF8(string(b), "")
}
