package server

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doclint/internal/driver"
	"doclint/internal/lint"
	"doclint/internal/render"
)

type fakeRenderer struct {
	markdown []byte
	pdf      []byte
	err      error
}

func (f *fakeRenderer) MarkdownToPDF(_ context.Context, md []byte) ([]byte, error) {
	f.markdown = md
	return f.pdf, f.err
}

func newTestServer(t *testing.T, r PDFRenderer, cfg Config) *Server {
	t.Helper()
	l, err := lint.New(lint.DefaultConfig())
	require.NoError(t, err)
	return New(driver.NewRunner(l, nil), r, cfg)
}

func docxWithBody(t *testing.T, paragraphs ...string) []byte {
	t.Helper()
	var body strings.Builder
	body.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, p := range paragraphs {
		body.WriteString("<w:p><w:r><w:t>" + p + "</w:t></w:r></w:p>")
	}
	body.WriteString("</w:body></w:document>")

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range map[string]string{
		"word/document.xml":            body.String(),
		"word/_rels/document.xml.rels": `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"/>`,
	} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = io.WriteString(w, content)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

type upload struct {
	filename string
	data     []byte
	options  string
	noFile   bool
}

func post(t *testing.T, s *Server, up upload) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if !up.noFile {
		fw, err := mw.CreateFormFile("document", up.filename)
		require.NoError(t, err)
		_, err = fw.Write(up.data)
		require.NoError(t, err)
	}
	if up.options != "" {
		require.NoError(t, mw.WriteField("options", up.options))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/lint-docx-template", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorBody {
	t.Helper()
	var body ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "error", body.Status)
	return body
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil, Config{})
	for _, path := range []string{"/", "/health-check"} {
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"Service is healthy !"}`, rec.Body.String())
	}
}

func TestUploadValidation(t *testing.T) {
	s := newTestServer(t, nil, Config{MaxUpload: 64})
	tests := []struct {
		name   string
		up     upload
		status int
		code   string
	}{
		{"missing file", upload{noFile: true, options: `{}`}, http.StatusUnprocessableEntity, codeMissingFile},
		{"wrong type", upload{filename: "notes.txt", data: []byte("x")}, http.StatusBadRequest, codeInvalidFileType},
		{"empty", upload{filename: "a.docx"}, http.StatusBadRequest, codeEmptyFile},
		{"too large", upload{filename: "a.docx", data: bytes.Repeat([]byte("x"), 65)}, http.StatusRequestEntityTooLarge, codeFileTooLarge},
		{"bad json", upload{filename: "a.docx", data: []byte("x"), options: `{"verbose":`}, http.StatusBadRequest, codeInvalidJSON},
		{"bad values", upload{filename: "a.docx", data: []byte("x"), options: `{"max_line_length":0}`}, http.StatusBadRequest, codeInvalidOptions},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, s, tt.up)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Equal(t, tt.code, decodeError(t, rec).ErrorType)
		})
	}
}

func TestNotMultipart(t *testing.T) {
	s := newTestServer(t, nil, Config{})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/lint-docx-template", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, codeMissingFile, decodeError(t, rec).ErrorType)
}

func TestInvalidOptionsDetails(t *testing.T) {
	s := newTestServer(t, nil, Config{})
	rec := post(t, s, upload{filename: "a.docx", data: []byte("x"), options: `{"response_format":"html"}`})
	body := decodeError(t, rec)
	problems, ok := body.Details["problems"].([]any)
	require.True(t, ok)
	require.Len(t, problems, 1)
	assert.Contains(t, problems[0], "response_format must be one of [pdf json]")
}

func TestLintJSON(t *testing.T) {
	s := newTestServer(t, nil, Config{})
	rec := post(t, s, upload{
		filename: "invoice.docx",
		data:     docxWithBody(t, "{%p if vip %}", "Dear {{ name }}", "{%p endif %}"),
		options:  `{"response_format":"json","verbose":true}`,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res lint.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.True(t, res.Success)
	assert.Equal(t, 3, res.Summary.LinesCount)
	require.NotNil(t, res.Content)
	assert.Equal(t, "{%p if vip %}\nDear {{ name }}\n{%p endif %}", *res.Content)

	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.requests.WithLabelValues("json", "passed")))
}

func TestLintJSONCorruptDocument(t *testing.T) {
	s := newTestServer(t, nil, Config{})
	rec := post(t, s, upload{filename: "broken.docx", data: []byte("not a zip"), options: `{"response_format":"json"}`})
	require.Equal(t, http.StatusOK, rec.Code)

	var res lint.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.False(t, res.Success)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, lint.KindDocument, res.Errors[0].Kind)
	assert.Equal(t, "Check document format and content", res.Errors[0].Suggestion)
}

func TestLintPDF(t *testing.T) {
	fr := &fakeRenderer{pdf: []byte("%PDF-1.7")}
	s := newTestServer(t, fr, Config{})
	rec := post(t, s, upload{filename: "Invoice Template.docx", data: docxWithBody(t, "{% if a %}")})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="Invoice Template_lint_report.pdf"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-1.7", rec.Body.String())

	md := string(fr.markdown)
	assert.Contains(t, md, "# 📋 DocX Jinja Template Linting Report")
	assert.Contains(t, md, "**unclosed_tag**")
}

func TestLintPDFRenderFailure(t *testing.T) {
	fr := &fakeRenderer{err: &render.Error{Type: render.ErrTimeout, Message: "Gotenberg request timed out (1m0s)"}}
	s := newTestServer(t, fr, Config{})
	rec := post(t, s, upload{filename: "a.docx", data: docxWithBody(t, "x")})

	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, string(render.ErrTimeout), body.ErrorType)
}

func TestLintPDFWithoutRenderer(t *testing.T) {
	s := newTestServer(t, nil, Config{})
	rec := post(t, s, upload{filename: "a.docx", data: docxWithBody(t, "x")})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, string(render.ErrNotConfigured), decodeError(t, rec).ErrorType)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, nil, Config{})
	post(t, s, upload{filename: "a.docx", data: docxWithBody(t, "{% endif %}"), options: `{"response_format":"json"}`})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `doclint_lint_requests_total{format="json",outcome="failed"} 1`)
	assert.Contains(t, rec.Body.String(), `doclint_findings_total{kind="mismatched_tag",severity="error"} 1`)
}
