package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"github.com/Zenuu19/Skill-Swap-Platform/pkg/logger"
)

// logOnce serves req through RequestLogger and returns the single JSON line
// the handler logged via the context logger.
func logOnce(t *testing.T, req *http.Request) map[string]any {
	t.Helper()

	var buf bytes.Buffer
	h := RequestLogger(logger.NewWithWriter("skillswap", "info", &buf))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger.FromContext(r.Context()).Info("swap accepted")
			w.WriteHeader(http.StatusNoContent)
		}),
	)
	h.ServeHTTP(httptest.NewRecorder(), req)

	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out), "log output: %s", buf.String())
	return out
}

func TestRequestLogger_EnrichesContextLogger(t *testing.T) {
	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	withSpan := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	tests := []struct {
		name string
		ctx  context.Context
		want map[string]any
		omit []string
	}{
		{
			name: "bare request",
			ctx:  context.Background(),
			want: map[string]any{"service": "skillswap", "msg": "swap accepted"},
			omit: []string{"user_id", "correlation_id", "trace_id"},
		},
		{
			name: "correlation id",
			ctx:  logger.WithCorrelationID(context.Background(), "corr-123"),
			want: map[string]any{"correlation_id": "corr-123"},
		},
		{
			name: "authenticated caller",
			ctx:  WithClaims(context.Background(), &Claims{UserID: "requester-1", Role: "user"}),
			want: map[string]any{"user_id": "requester-1"},
		},
		{
			name: "active span",
			ctx:  withSpan,
			want: map[string]any{"trace_id": traceID.String(), "span_id": spanID.String()},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/swaps/x/accept", nil).WithContext(tt.ctx)
			out := logOnce(t, req)

			for k, v := range tt.want {
				assert.Equal(t, v, out[k], k)
			}
			for _, k := range tt.omit {
				assert.NotContains(t, out, k)
			}
		})
	}
}

func TestRequestLogger_FullChainCarriesCallerAndCorrelation(t *testing.T) {
	var buf bytes.Buffer
	base := logger.NewWithWriter("skillswap", "info", &bytes.Buffer{})
	handlerLogs := logger.NewWithWriter("skillswap", "info", &buf)

	r := chi.NewRouter()
	r.Use(RequestLogging(base))
	r.Use(RequestLogger(handlerLogs))
	r.With(Auth(func(string) (*Claims, error) {
		return &Claims{UserID: "requestee-2", Role: "user"}, nil
	})).Post("/api/v1/swaps/{id}/accept", func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context()).Info("swap accepted")
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/swaps/s-1/accept", nil)
	req.Header.Set(CorrelationHeader, "corr-chain")
	req.Header.Set("Authorization", "Bearer t")
	r.ServeHTTP(httptest.NewRecorder(), req)

	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "corr-chain", out["correlation_id"])
	assert.Equal(t, "requestee-2", out["user_id"])
}
