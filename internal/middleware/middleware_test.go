package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/portfolio/internal/logger"
	"github.com/Zachkp/portfolio/internal/metrics"
	"github.com/Zachkp/portfolio/internal/middleware"
)

type entry struct {
	level  string
	msg    string
	fields []logger.Field
}

type recordingLogger struct {
	mu      sync.Mutex
	entries []entry
}

func (r *recordingLogger) add(level, msg string, fields []logger.Field) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry{level: level, msg: msg, fields: fields})
}

func (r *recordingLogger) Debug(msg string, f ...logger.Field) { r.add("debug", msg, f) }
func (r *recordingLogger) Info(msg string, f ...logger.Field)  { r.add("info", msg, f) }
func (r *recordingLogger) Warn(msg string, f ...logger.Field)  { r.add("warn", msg, f) }
func (r *recordingLogger) Error(msg string, f ...logger.Field) { r.add("error", msg, f) }
func (r *recordingLogger) Fatal(msg string, f ...logger.Field) { r.add("fatal", msg, f) }
func (r *recordingLogger) With(...logger.Field) logger.Logger  { return r }
func (r *recordingLogger) Sync() error                         { return nil }

func (e entry) field(key string) (logger.Field, bool) {
	for _, f := range e.fields {
		if f.Key == key {
			return f, true
		}
	}
	return logger.Field{}, false
}

func newRouter(log logger.Logger, m *metrics.Metrics) *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(log, m), middleware.Recovery(log))
	r.GET("/ok", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(middleware.RequestIDKey))
	})
	r.GET("/fail", func(c *gin.Context) {
		_ = c.Error(errors.New("something broke"))
		c.Status(http.StatusInternalServerError)
	})
	r.GET("/panic", func(*gin.Context) {
		panic("boom")
	})
	return r
}

func TestRequestID_Generated(t *testing.T) {
	t.Parallel()

	r := newRouter(logger.NewNop(), nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", http.NoBody))

	id := w.Header().Get(middleware.RequestIDHeader)
	require.NotEmpty(t, id)
	assert.Equal(t, id, w.Body.String())
}

func TestRequestID_PreservedAndBounded(t *testing.T) {
	t.Parallel()

	r := newRouter(logger.NewNop(), nil)

	req := httptest.NewRequest(http.MethodGet, "/ok", http.NoBody)
	req.Header.Set(middleware.RequestIDHeader, "upstream-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "upstream-123", w.Header().Get(middleware.RequestIDHeader))

	oversized := strings.Repeat("x", 200)
	req = httptest.NewRequest(http.MethodGet, "/ok", http.NoBody)
	req.Header.Set(middleware.RequestIDHeader, oversized)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEqual(t, oversized, w.Header().Get(middleware.RequestIDHeader))
}

func TestLogger_OneEntryPerRequest(t *testing.T) {
	t.Parallel()

	log := &recordingLogger{}
	m := metrics.New()
	r := newRouter(log, m)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok?x=1", http.NoBody))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/fail", http.NoBody))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", http.NoBody))

	require.Len(t, log.entries, 3)

	assert.Equal(t, "info", log.entries[0].level)
	q, ok := log.entries[0].field("query")
	require.True(t, ok)
	assert.Equal(t, "x=1", q.String)

	assert.Equal(t, "error", log.entries[1].level)
	_, ok = log.entries[1].field("errors")
	assert.True(t, ok)

	assert.InDelta(t, 1, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "/ok", "200")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "/fail", "500")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "unmatched", "404")), 0)
}

func TestRecovery(t *testing.T) {
	t.Parallel()

	log := &recordingLogger{}
	r := newRouter(log, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", http.NoBody))

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var msgs []string
	for _, e := range log.entries {
		msgs = append(msgs, e.msg)
	}
	assert.Contains(t, msgs, "Panic recovered")
}
