package telemetry

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newManualProvider() (*sdkmetric.MeterProvider, *sdkmetric.ManualReader) {
	reader := sdkmetric.NewManualReader()
	return sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)), reader
}

// counterByAttr sums the data points of the int64 counter name, keyed by the
// value of attribute key.
func counterByAttr(t *testing.T, reader *sdkmetric.ManualReader, name, key string) map[string]int64 {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "%s is not an int64 sum", name)
			for _, dp := range sum.DataPoints {
				v, _ := dp.Attributes.Value(attribute.Key(key))
				out[v.AsString()] += dp.Value
			}
		}
	}
	return out
}

func TestServerMetrics_Middleware(t *testing.T) {
	mp, reader := newManualProvider()
	m, err := NewServerMetricsWithProvider(mp)
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/log/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	})
	r.Get("/boom", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/log/7", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "short and stout", rec.Body.String())

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/log/8", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, map[string]int64{"/log/{id}": 2, "/boom": 1},
		counterByAttr(t, reader, "http.server.request.count", AttrHTTPRoute))
	assert.Equal(t, map[string]int64{"500": 1},
		counterByAttr(t, reader, "http.server.error.count", AttrHTTPStatusCode))
}

func TestDatabaseMetrics_RecordQuery(t *testing.T) {
	mp, reader := newManualProvider()
	m, err := NewDatabaseMetricsWithProvider(mp)
	require.NoError(t, err)

	ctx := m.BeforeQuery(context.Background(), &bun.QueryEvent{})
	assert.NotNil(t, ctx)

	m.RecordQuery(ctx, "SELECT", 1.5, nil)
	m.RecordQuery(ctx, "SELECT", 1.5, sql.ErrNoRows)
	m.RecordQuery(ctx, "INSERT", 2.5, errors.New("boom"))

	assert.Equal(t, map[string]int64{"SELECT": 2, "INSERT": 1},
		counterByAttr(t, reader, "db.query.count", AttrDBOperation))
	assert.Equal(t, map[string]int64{"INSERT": 1},
		counterByAttr(t, reader, "db.query.error.count", AttrDBOperation))
}

func TestAuthMetrics_RecordAuth(t *testing.T) {
	mp, reader := newManualProvider()
	m, err := NewAuthMetricsWithProvider(mp)
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordAuth(ctx, "student", "ok", 0.4)
	m.RecordAuth(ctx, "student", "wrong_role", 0.2)
	m.RecordAuth(ctx, "admin", "unknown_subject", 0.3)
	m.RecordAuth(ctx, "admin", "unknown_subject", 0.3)

	assert.Equal(t, map[string]int64{"ok": 1, "wrong_role": 1, "unknown_subject": 2},
		counterByAttr(t, reader, "auth.attempt.count", AttrAuthOutcome))
	assert.Equal(t, map[string]int64{"wrong_role": 1, "unknown_subject": 2},
		counterByAttr(t, reader, "auth.failure.count", AttrAuthOutcome))
	assert.Equal(t, map[string]int64{"student": 1, "admin": 2},
		counterByAttr(t, reader, "auth.failure.count", AttrAuthRole))
}
