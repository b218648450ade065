package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Apurer/go-gin-cart-server/internal/domains/cart/adapters/memory"
	cartapp "github.com/Apurer/go-gin-cart-server/internal/domains/cart/application"
	cartdomain "github.com/Apurer/go-gin-cart-server/internal/domains/cart/domain"
	cartports "github.com/Apurer/go-gin-cart-server/internal/domains/cart/ports"
)

type harness struct {
	svc     cartports.Service
	spans   *tracetest.SpanRecorder
	reader  *sdkmetric.ManualReader
	logs    *bytes.Buffer
	catalog *memory.Catalog
}

func newHarness(t *testing.T) harness {
	t.Helper()
	ctx := context.Background()
	catalog, err := memory.NewSeededCatalog()
	require.NoError(t, err)

	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	logs := &bytes.Buffer{}

	core := cartapp.NewService(ctx, catalog, memory.NewSnapshotStore())
	svc := New(core,
		WithTracer(tp.Tracer(tracerName)),
		WithMeter(mp.Meter(tracerName)),
		WithLogger(slog.New(slog.NewJSONHandler(logs, nil))),
	)
	return harness{svc: svc, spans: spans, reader: reader, logs: logs, catalog: catalog}
}

func (h harness) counter(t *testing.T, name string) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, h.reader.Collect(context.Background(), &rm))
	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}
	return total
}

func TestService_AddRecordsSpanAndCommit(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	require.NoError(t, h.svc.Add(ctx, 1))
	require.NoError(t, h.svc.UpdateAmount(ctx, cartports.UpdateAmountInput{ProductID: 1, Amount: 2}))

	ended := h.spans.Ended()
	require.Len(t, ended, 2)
	assert.Equal(t, "CartService.Add", ended[0].Name())
	assert.Equal(t, "CartService.UpdateAmount", ended[1].Name())
	assert.Equal(t, int64(2), h.counter(t, "cart.service.commits"))
	assert.Equal(t, 2, h.svc.Cart(ctx).AmountOf(1))
	assert.Contains(t, h.logs.String(), "cart committed")
}

func TestService_StockRejectionIsCountedAndLoggedAsWarning(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	require.NoError(t, h.catalog.SetStock(4, 1))

	require.NoError(t, h.svc.Add(ctx, 4))
	err := h.svc.Add(ctx, 4)
	require.Error(t, err)

	notice, ok := cartapp.NoticeOf(err)
	require.True(t, ok)
	assert.Equal(t, "requested quantity exceeds stock", notice.Message)
	assert.Equal(t, int64(1), h.counter(t, "cart.service.notices"))
	assert.Contains(t, h.logs.String(), `"level":"WARN"`)
	assert.Contains(t, h.logs.String(), `"rejection":"stock_exceeded"`)
}

func TestService_RemoveMissingEntryMarksSpanAsError(t *testing.T) {
	h := newHarness(t)

	err := h.svc.Remove(context.Background(), 99)
	require.Error(t, err)

	ended := h.spans.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "Error", ended[0].Status().Code.String())
	assert.Contains(t, h.logs.String(), `"rejection":"entry_not_found"`)
}

func TestService_NonPositiveAmountIsNoop(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.svc.UpdateAmount(context.Background(), cartports.UpdateAmountInput{ProductID: 1, Amount: 0}))
	assert.Zero(t, h.counter(t, "cart.service.commits"))
	assert.Zero(t, h.svc.Cart(context.Background()).Len())
}

func TestService_ConcurrentCommitsLogTheirOwnSnapshot(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	const n = 8
	for id := int64(101); id <= 100+n; id++ {
		require.NoError(t, h.catalog.PutProduct(cartdomain.Product{ID: id, Title: "Shoe", Price: 10, Image: "shoe.png"}))
		require.NoError(t, h.catalog.SetStock(id, 1))
	}

	var wg sync.WaitGroup
	for id := int64(101); id <= 100+n; id++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			assert.NoError(t, h.svc.Add(ctx, id))
		}(id)
	}
	wg.Wait()

	sizes := map[float64]bool{}
	dec := json.NewDecoder(bytes.NewReader(h.logs.Bytes()))
	for dec.More() {
		var record map[string]any
		require.NoError(t, dec.Decode(&record))
		if record["msg"] != "cart committed" {
			continue
		}
		sizes[record["cart.entries"].(float64)] = true
		assert.Equal(t, float64(1), record["product.amount"])
	}
	assert.Len(t, sizes, n)
	assert.Equal(t, int64(n), h.counter(t, "cart.service.commits"))
}
