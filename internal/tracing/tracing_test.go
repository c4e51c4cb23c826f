package tracing

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

type collector struct {
	mu    sync.Mutex
	paths []string
}

func (c *collector) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c.mu.Lock()
	c.paths = append(c.paths, r.URL.Path)
	c.mu.Unlock()
	w.WriteHeader(http.StatusOK)
}

func (c *collector) hits() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.paths...)
}

func restoreGlobalProvider(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })
}

func TestInitExportsToEndpointURL(t *testing.T) {
	restoreGlobalProvider(t)
	col := &collector{}
	srv := httptest.NewServer(col)
	defer srv.Close()
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", srv.URL)
	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", "")

	ctx := context.Background()
	p := Init(ctx, "opsalert-test", slog.New(slog.DiscardHandler))
	require.NotNil(t, p.tp)

	_, span := otel.Tracer("opsalert/test").Start(ctx, "unit")
	span.End()

	require.NoError(t, p.ForceFlush(ctx))
	assert.Equal(t, []string{"/v1/traces"}, col.hits())
	require.NoError(t, p.Shutdown(ctx))
}

func TestInitDisabledWithoutEndpoint(t *testing.T) {
	restoreGlobalProvider(t)
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")

	p := Init(context.Background(), "opsalert-test", slog.New(slog.DiscardHandler))
	assert.Nil(t, p.tp)
	assert.NoError(t, p.ForceFlush(context.Background()))
	assert.NoError(t, p.Shutdown(context.Background()))

	var nilProvider *Provider
	assert.NoError(t, nilProvider.ForceFlush(context.Background()))
}
