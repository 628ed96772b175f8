package render

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderError(t *testing.T, err error) *Error {
	t.Helper()
	var re *Error
	require.True(t, errors.As(err, &re), "want *render.Error, got %v", err)
	return re
}

func TestNotConfigured(t *testing.T) {
	g := NewGotenberg(Config{})
	assert.False(t, g.Configured())

	_, err := g.MarkdownToPDF(context.Background(), []byte("# x"))
	re := renderError(t, err)
	assert.Equal(t, ErrNotConfigured, re.Type)
	assert.Equal(t, http.StatusServiceUnavailable, re.HTTPStatus())
}

func TestMarkdownToPDF(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, markdownRoute, r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		files := r.MultipartForm.File["files"]
		require.Len(t, files, 2)
		assert.Equal(t, "index.html", files[0].Filename)
		assert.Equal(t, "report.md", files[1].Filename)

		f, err := files[1].Open()
		require.NoError(t, err)
		md, _ := io.ReadAll(f)
		assert.Equal(t, "# Report", string(md))

		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.7 fake"))
	}))
	defer srv.Close()

	g := NewGotenberg(Config{URL: srv.URL + "/"})
	pdf, err := g.MarkdownToPDF(context.Background(), []byte("# Report"))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7 fake", string(pdf))
}

func TestUpstreamFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		typ     ErrorType
		message string
	}{
		{"unprocessable", http.StatusUnprocessableEntity, "bad markdown", ErrConversionFailed, "Gotenberg could not process the document (unprocessable entity)"},
		{"teapot", http.StatusTeapot, "", ErrConversionFailed, "Gotenberg conversion failed with status 418"},
		{"empty", http.StatusOK, "", ErrEmptyResponse, "Gotenberg returned empty response"},
		{"not pdf", http.StatusOK, "<html>oops</html>", ErrInvalidResponse, "Gotenberg response is not a valid PDF"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			g := NewGotenberg(Config{URL: srv.URL})
			_, err := g.MarkdownToPDF(context.Background(), []byte("x"))
			re := renderError(t, err)
			assert.Equal(t, tt.typ, re.Type)
			assert.Equal(t, tt.message, re.Message)
			assert.Equal(t, http.StatusBadGateway, re.HTTPStatus())
		})
	}
}

func TestRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("%PDF-1.4"))
	}))
	defer srv.Close()

	g := NewGotenberg(Config{URL: srv.URL, RetryMax: 2})
	g.client.RetryWaitMin = time.Millisecond
	g.client.RetryWaitMax = time.Millisecond
	_, err := g.MarkdownToPDF(context.Background(), []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	g := NewGotenberg(Config{URL: srv.URL, Timeout: 50 * time.Millisecond})
	_, err := g.MarkdownToPDF(context.Background(), []byte("x"))
	re := renderError(t, err)
	assert.Equal(t, ErrTimeout, re.Type)
	assert.Equal(t, http.StatusGatewayTimeout, re.HTTPStatus())
}

func TestConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	g := NewGotenberg(Config{URL: url})
	_, err := g.MarkdownToPDF(context.Background(), []byte("x"))
	re := renderError(t, err)
	assert.Equal(t, ErrConnection, re.Type)
	assert.Contains(t, re.Error(), "Cannot connect to Gotenberg service")
	assert.NotNil(t, re.Unwrap())
}
