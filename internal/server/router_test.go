package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/doesmyresumematch/internal/api"
	"github.com/spigell/doesmyresumematch/internal/pdf"
	"github.com/spigell/doesmyresumematch/internal/report"
)

type fakeExporter struct {
	doc   *report.Document
	err   error
	panic bool
	ids   []string
}

func (f *fakeExporter) Export(_ context.Context, id string) (*report.Document, error) {
	if f.panic {
		panic("exporter exploded")
	}
	f.ids = append(f.ids, id)
	return f.doc, f.err
}

func okExporter() *fakeExporter {
	return &fakeExporter{doc: &report.Document{
		Filename:    report.Filename("r1"),
		ContentType: report.ContentType,
		Data:        []byte("%PDF-1.7 body"),
	}}
}

func newTestRouter(t *testing.T, deps RouterDeps) http.Handler {
	t.Helper()
	r, err := NewRouter(deps)
	require.NoError(t, err)
	return r
}

func do(h http.Handler, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)
	return resp
}

func TestSnapshotReturnsDocument(t *testing.T) {
	exporter := okExporter()
	h := newTestRouter(t, RouterDeps{Exporter: exporter})

	resp := do(h, http.MethodGet, "/api/snapshot/r1")

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "application/pdf", resp.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=doesmyresumematch-r1.pdf", resp.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-1.7 body", resp.Body.String())
	assert.NotEmpty(t, resp.Header().Get(RequestIDHeader))
	assert.Equal(t, []string{"r1"}, exporter.ids)
}

func TestSnapshotUpstreamFailure(t *testing.T) {
	h := newTestRouter(t, RouterDeps{Exporter: &fakeExporter{err: report.ErrSnapshotUnavailable}})

	resp := do(h, http.MethodGet, "/api/snapshot/r1")
	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Empty(t, resp.Header().Get("Content-Disposition"))
}

func TestSnapshotEndToEndUpstreamFailure(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/snapshot/r1", r.URL.Path)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer upstream.Close()

	converter := &countingConverter{}
	exporter := report.NewExporter(api.New(nil, upstream.URL, time.Second), converter, nil)
	h := newTestRouter(t, RouterDeps{Exporter: exporter})

	resp := do(h, http.MethodGet, "/api/snapshot/r1")
	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Zero(t, converter.calls, "no document is produced")
}

type countingConverter struct {
	calls int
}

func (c *countingConverter) ConvertHTMLToPDF(context.Context, string, ...pdf.Option) ([]byte, error) {
	c.calls++
	return []byte("%PDF"), nil
}

func TestSnapshotRejectsOtherMethods(t *testing.T) {
	exporter := okExporter()
	h := newTestRouter(t, RouterDeps{Exporter: exporter})

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		resp := do(h, method, "/api/snapshot/r1")
		assert.Equal(t, http.StatusMethodNotAllowed, resp.Code, method)
	}
	assert.Empty(t, exporter.ids)
}

func TestSnapshotBasePath(t *testing.T) {
	h := newTestRouter(t, RouterDeps{Exporter: okExporter(), BasePath: "/app/"})

	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/app/api/snapshot/r1").Code)
	assert.Equal(t, http.StatusNotFound, do(h, http.MethodGet, "/api/snapshot/r1").Code)
	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/healthz").Code)
}

func TestNormalizeBasePath(t *testing.T) {
	tests := map[string]string{
		"":        "",
		"/":       "",
		"app":     "/app",
		"/app/":   "/app",
		" /a/b/ ": "/a/b",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeBasePath(in), "input %q", in)
	}
}

func TestRecoveryReturns500(t *testing.T) {
	h := newTestRouter(t, RouterDeps{Exporter: &fakeExporter{panic: true}})

	resp := do(h, http.MethodGet, "/api/snapshot/r1")
	assert.Equal(t, http.StatusInternalServerError, resp.Code)
}

func TestRequestIDIsPropagated(t *testing.T) {
	h := newTestRouter(t, RouterDeps{Exporter: okExporter()})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)

	assert.Equal(t, "req-42", resp.Header().Get(RequestIDHeader))
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	h := newTestRouter(t, RouterDeps{Exporter: okExporter(), Registry: reg})

	do(h, http.MethodGet, "/api/snapshot/r1")
	do(h, http.MethodGet, "/api/snapshot/r2")

	resp := do(h, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, resp.Code)

	body := resp.Body.String()
	assert.Contains(t, body, `http_requests_total{method="GET",path="/api/snapshot/:id",status="200"} 2`)
	assert.Contains(t, body, "http_request_duration_seconds")
	assert.False(t, strings.Contains(body, `path="/metrics"`), "metrics scrapes are not counted")
}

func TestCORSPreflight(t *testing.T) {
	h := newTestRouter(t, RouterDeps{Exporter: okExporter(), CORSOrigins: []string{"http://localhost:3000"}})

	req := httptest.NewRequest(http.MethodOptions, "/api/snapshot/r1", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusNoContent, resp.Code)
	assert.Equal(t, "http://localhost:3000", resp.Header().Get("Access-Control-Allow-Origin"))
}

func TestNewRouterRejectsDuplicateRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewRouter(RouterDeps{Exporter: okExporter(), Registry: reg})
	require.NoError(t, err)

	_, err = NewRouter(RouterDeps{Exporter: okExporter(), Registry: reg})
	var already prometheus.AlreadyRegisteredError
	assert.True(t, errors.As(err, &already))
}
