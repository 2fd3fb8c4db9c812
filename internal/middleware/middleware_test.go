package middleware

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/studentbook/internal/auth"
)

type ping struct{}

// echoUser is a handler that reports the username it was called with.
func echoUser(seen *string) connect.UnaryFunc {
	return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		*seen = GetUsername(ctx)
		return connect.NewResponse(&ping{}), nil
	}
}

func requestWith(header string) *connect.Request[ping] {
	req := connect.NewRequest(&ping{})
	if header != "" {
		req.Header().Set("Authorization", header)
	}
	return req
}

func TestRequireAuth(t *testing.T) {
	jwtManager := auth.NewJWTManager("secret", time.Hour)
	token, err := jwtManager.Generate("alice")
	require.NoError(t, err)

	var seen string
	handler := RequireAuth(jwtManager)(echoUser(&seen))

	_, err = handler(context.Background(), requestWith("Bearer "+token))
	require.NoError(t, err)
	assert.Equal(t, "alice", seen)

	for _, header := range []string{"", "Bearer", "Basic abc", "Bearer not-a-token"} {
		_, err := handler(context.Background(), requestWith(header))
		assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err), "header %q", header)
	}
}

func TestOptionalAuth(t *testing.T) {
	jwtManager := auth.NewJWTManager("secret", time.Hour)
	token, err := jwtManager.Generate("alice")
	require.NoError(t, err)

	var seen string
	handler := OptionalAuth(jwtManager)(echoUser(&seen))

	_, err = handler(context.Background(), requestWith(""))
	require.NoError(t, err)
	assert.Empty(t, seen)

	_, err = handler(context.Background(), requestWith("Bearer garbage"))
	require.NoError(t, err)
	assert.Empty(t, seen)

	_, err = handler(context.Background(), requestWith("Bearer "+token))
	require.NoError(t, err)
	assert.Equal(t, "alice", seen)
}

func TestMetrics_CountsByCode(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)

	ok := metrics.Interceptor()(func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		return connect.NewResponse(&ping{}), nil
	})
	failing := metrics.Interceptor()(func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		return nil, connect.NewError(connect.CodeNotFound, errors.New("Student not found"))
	})

	ctx := context.Background()
	_, _ = ok(ctx, requestWith(""))
	_, _ = ok(ctx, requestWith(""))
	_, _ = failing(ctx, requestWith(""))

	// Requests built outside a handler carry an empty procedure.
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.requests.WithLabelValues("", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.requests.WithLabelValues("", connect.CodeNotFound.String())))
	assert.Equal(t, 1, testutil.CollectAndCount(metrics.duration))
}

func TestLoggingInterceptor_PassesThrough(t *testing.T) {
	want := connect.NewError(connect.CodeInvalidArgument, errors.New("Name is mandatory"))
	handler := LoggingInterceptor()(func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		return nil, want
	})

	_, err := handler(WithUsername(context.Background(), "alice"), requestWith(""))
	assert.Same(t, want, err)
}

func TestRPCLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelWarn, rpcLogLevel(connect.NewError(connect.CodeInvalidArgument, errors.New("Name is mandatory"))))
	assert.Equal(t, slog.LevelWarn, rpcLogLevel(connect.NewError(connect.CodeNotFound, errors.New("Student not found"))))
	assert.Equal(t, slog.LevelError, rpcLogLevel(connect.NewError(connect.CodeInternal, errors.New("Failed to add student"))))
	assert.Equal(t, slog.LevelError, rpcLogLevel(errors.New("plain error")))
}
