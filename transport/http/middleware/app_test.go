package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/mock/gomock"

	"salon/config"
	cacheMocks "salon/shared/cache/mocks"
	"salon/transport/http/middleware"
)

func TestTracing_OneSpanPerRequest(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	t.Cleanup(func() {
		_ = provider.Shutdown(t.Context())
	})

	cfg := &config.Config{}
	cfg.App.Name = "shear-bliss"

	app := middleware.NewAppMiddleware(cfg, cacheMocks.NewMockRedisCache(gomock.NewController(t)))

	mux := chi.NewRouter()
	mux.Use(app.Tracing)
	mux.Get("/v1/services/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	handler := otelhttp.NewHandler(mux, "salon", otelhttp.WithTracerProvider(provider))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/services/svc-1", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	spans := recorder.Ended()
	require.Len(t, spans, 1)

	span := spans[0]
	assert.Equal(t, "GET /v1/services/{id}", span.Name())

	attributes := map[attribute.Key]string{}
	for _, kv := range span.Attributes() {
		attributes[kv.Key] = kv.Value.Emit()
	}

	assert.Equal(t, "shear-bliss", attributes["app.name"])
	assert.Equal(t, "/v1/services/{id}", attributes["http.route"])
	assert.Equal(t, "/v1/services/svc-1", attributes["http.path"])
}
