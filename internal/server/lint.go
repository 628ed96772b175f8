package server

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"

	"doclint/internal/diagfmt"
	"doclint/internal/driver"
	"doclint/internal/lint"
	"doclint/internal/render"
)

// multipartSlack is room for form boundaries and the options field on top
// of the document itself.
const multipartSlack = 1 << 20

func (s *Server) lintTemplate(c *gin.Context) {
	started := time.Now()
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.MaxUpload+multipartSlack)

	fh, err := c.FormFile("document")
	if err != nil {
		s.rejectUpload(c, err)
		return
	}
	if !strings.EqualFold(filepath.Ext(fh.Filename), ".docx") {
		abortError(c, http.StatusBadRequest, codeInvalidFileType,
			"Only .docx files are supported", map[string]any{"filename": fh.Filename})
		return
	}
	if fh.Size == 0 {
		abortError(c, http.StatusBadRequest, codeEmptyFile,
			"Uploaded file is empty", map[string]any{"filename": fh.Filename})
		return
	}
	if fh.Size > s.cfg.MaxUpload {
		s.tooLarge(c, fh.Size)
		return
	}

	opts, err := lint.ParseOptions([]byte(c.PostForm("options")))
	if err != nil {
		rejectOptions(c, err)
		return
	}

	raw, err := readUpload(fh)
	if err != nil {
		abortError(c, http.StatusInternalServerError, codeReadError,
			"Failed to read uploaded file", map[string]any{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	fr := s.runner.LintBytes(ctx, fh.Filename, raw, driver.Options{Lint: opts})
	s.observe(opts.ResponseFormat, fr.Result, started)

	if opts.ResponseFormat == lint.FormatJSON {
		c.JSON(http.StatusOK, fr.Result)
		return
	}

	if s.renderer == nil {
		abortError(c, http.StatusServiceUnavailable, string(render.ErrNotConfigured),
			"Gotenberg service URL not configured", map[string]any{"env_var": "GOTENBERG_API_URL"})
		return
	}
	report := diagfmt.RenderMarkdown(diagfmt.Document{Path: fh.Filename, Lines: fr.Lines, Result: fr.Result}, diagfmt.MarkdownOpts{})
	pdf, err := s.renderer.MarkdownToPDF(ctx, report)
	if err != nil {
		var re *render.Error
		if errors.As(err, &re) {
			abortError(c, re.HTTPStatus(), string(re.Type), re.Message, re.Details)
			return
		}
		abortError(c, http.StatusInternalServerError, codePDFConversion,
			fmt.Sprintf("PDF conversion error: %v", err), nil)
		return
	}

	stem := strings.TrimSuffix(filepath.Base(fh.Filename), filepath.Ext(fh.Filename))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", stem+"_lint_report.pdf"))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func (s *Server) rejectUpload(c *gin.Context, err error) {
	var tooBig *http.MaxBytesError
	switch {
	case errors.As(err, &tooBig):
		s.tooLarge(c, -1)
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		abortError(c, http.StatusUnprocessableEntity, codeMissingFile,
			"No document uploaded; send a .docx file in the 'document' form field", nil)
	default:
		abortError(c, http.StatusBadRequest, codeInvalidRequest,
			"Malformed multipart request", map[string]any{"error": err.Error()})
	}
}

func (s *Server) tooLarge(c *gin.Context, size int64) {
	details := map[string]any{"max_size": humanize.Bytes(uint64(s.cfg.MaxUpload))}
	if size >= 0 {
		details["file_size"] = humanize.Bytes(uint64(size))
	}
	abortError(c, http.StatusRequestEntityTooLarge, codeFileTooLarge,
		"File exceeds the maximum upload size of "+humanize.Bytes(uint64(s.cfg.MaxUpload)), details)
}

func rejectOptions(c *gin.Context, err error) {
	var oerr *lint.OptionsError
	switch {
	case errors.As(err, &oerr):
		problems := make([]string, len(oerr.Problems))
		for i, p := range oerr.Problems {
			problems[i] = p.String()
		}
		abortError(c, http.StatusBadRequest, codeInvalidOptions,
			"Invalid lint options", map[string]any{"problems": problems})
	case errors.Is(err, lint.ErrMalformedOptions):
		abortError(c, http.StatusBadRequest, codeInvalidJSON,
			"Options must be a valid JSON object", map[string]any{"error": err.Error()})
	default:
		abortError(c, http.StatusBadRequest, codeInvalidOptions, err.Error(), nil)
	}
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func (s *Server) observe(format lint.ResponseFormat, res lint.Result, started time.Time) {
	outcome := "passed"
	if !res.Success {
		outcome = "failed"
	}
	s.metrics.requests.WithLabelValues(string(format), outcome).Inc()
	s.metrics.durations.WithLabelValues(string(format)).Observe(time.Since(started).Seconds())
	for _, e := range res.Errors {
		s.metrics.findings.WithLabelValues("error", string(e.Kind)).Inc()
	}
	for _, w := range res.Warnings {
		s.metrics.findings.WithLabelValues("warning", string(w.Kind)).Inc()
	}
}
