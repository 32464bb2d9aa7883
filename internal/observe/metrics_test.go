package observe

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestMetrics(t *testing.T) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := NewMetrics(mp)
	require.NoError(t, err)
	return m, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

func sumWhere(t *testing.T, m *metricdata.Metrics, key, value string) int64 {
	t.Helper()
	require.NotNil(t, m)
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is not an int64 sum", m.Name)
	var total int64
	for _, dp := range sum.DataPoints {
		if v, ok := dp.Attributes.Value(attribute.Key(key)); ok && v.AsString() == value {
			total += dp.Value
		}
	}
	return total
}

func TestRecordCalculation(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordCalculation(ctx, "damage", "formula", "")
	m.RecordCalculation(ctx, "damage", "formula", "")
	m.RecordCalculation(ctx, "fuse", "formula", "self_fusion")

	rm := collect(t, reader)
	calcs := findMetric(rm, "plantcalc.calculations")
	assert.Equal(t, int64(2), sumWhere(t, calcs, "status", "ok"))
	assert.Equal(t, int64(1), sumWhere(t, calcs, "status", "error"))

	errs := findMetric(rm, "plantcalc.errors")
	assert.Equal(t, int64(1), sumWhere(t, errs, "kind", "self_fusion"))
}

func TestRecordTableLoad(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordTableLoad(ctx, 10*time.Millisecond, nil)
	m.RecordTableLoad(ctx, time.Millisecond, errors.New("boom"))
	m.RecordTableLoad(ctx, time.Millisecond, context.Canceled)

	rm := collect(t, reader)
	loads := findMetric(rm, "plantcalc.table.loads")
	assert.Equal(t, int64(1), sumWhere(t, loads, "status", "ok"))
	assert.Equal(t, int64(1), sumWhere(t, loads, "status", "error"))
	assert.Equal(t, int64(1), sumWhere(t, loads, "status", "canceled"))

	hist := findMetric(rm, "plantcalc.table.load.duration")
	require.NotNil(t, hist)
	data, ok := hist.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	var count uint64
	for _, dp := range data.DataPoints {
		count += dp.Count
	}
	assert.Equal(t, uint64(3), count)
}

func TestMiddleware(t *testing.T) {
	m, reader := newTestMetrics(t)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/plants/{plant}/variants", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	h := Middleware(m, mux)

	for _, path := range []string{"/api/v1/plants/Cactus/variants", "/api/v1/plants/Mango/variants", "/nope"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	rm := collect(t, reader)
	hist := findMetric(rm, "plantcalc.http.request.duration")
	require.NotNil(t, hist)
	data, ok := hist.Data.(metricdata.Histogram[float64])
	require.True(t, ok)

	counts := make(map[string]uint64)
	for _, dp := range data.DataPoints {
		route, _ := dp.Attributes.Value("route")
		counts[route.AsString()] += dp.Count
	}
	assert.Equal(t, map[string]uint64{
		"GET /api/v1/plants/{plant}/variants": 2,
		"unmatched":                           1,
	}, counts)
}

func TestDiscard(t *testing.T) {
	t.Parallel()

	m := Discard()
	m.RecordCalculation(context.Background(), "damage", "table", "not_found")
	m.RecordTableLoad(context.Background(), time.Second, nil)
}
