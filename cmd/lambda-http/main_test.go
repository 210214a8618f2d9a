package main

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-matcher/internal/shared/storage/db"
)

func TestHandlerServesHealth(t *testing.T) {
	t.Setenv("ENV", "dev")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("LOCAL_STORE_DIR", t.TempDir())
	initOnce, initErr, ginLambda = sync.Once{}, nil, nil

	resp, err := handler(context.Background(), events.APIGatewayV2HTTPRequest{
		RawPath: "/api/v1/health",
		RequestContext: events.APIGatewayV2HTTPRequestContext{
			HTTP: events.APIGatewayV2HTTPRequestContextHTTPDescription{Method: http.MethodGet, Path: "/api/v1/health"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Body, `"ok":true`)
}

func TestLambdaPoolIsSmall(t *testing.T) {
	assert.LessOrEqual(t, db.DefaultLambdaOptions().MaxOpenConns, db.DefaultServerOptions().MaxOpenConns)
}

func TestHandlerReportsBootstrapFailure(t *testing.T) {
	t.Setenv("ENV", "prod")
	t.Setenv("DATABASE_URL", "")
	initOnce, initErr, ginLambda = sync.Once{}, nil, nil
	t.Cleanup(func() { initOnce, initErr, ginLambda = sync.Once{}, nil, nil })

	resp, err := handler(context.Background(), events.APIGatewayV2HTTPRequest{RawPath: "/api/v1/health"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.JSONEq(t, `{"error":{"code":"service_unavailable","message":"Service is starting or misconfigured, please retry"}}`, resp.Body)
}
