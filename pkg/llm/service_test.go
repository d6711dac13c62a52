package llm

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opsmith/pkg/configuration"
	"opsmith/pkg/logging"
	"opsmith/pkg/router"
)

type fakeClient struct {
	responses map[string]string // model -> response
	errors    map[string]error  // model -> error
	calls     []string
}

func (f *fakeClient) Infer(_ context.Context, prompt string, profile configuration.ModelProfile) (string, error) {
	f.calls = append(f.calls, profile.Name)
	if err := f.errors[profile.Name]; err != nil {
		return "", err
	}
	return f.responses[profile.Name], nil
}

func newTestService(client Client) (*Service, *router.Telemetry) {
	telemetry := router.NewTelemetry()
	svc := NewService(client, configuration.NewConfig(), telemetry, logging.NewNopLogger())
	return svc, telemetry
}

func TestGenerateSuccess(t *testing.T) {
	client := &fakeClient{responses: map[string]string{"code": "package main"}}
	svc, telemetry := newTestService(client)

	text, err := svc.Generate(context.Background(), "write hello world", "code")
	require.NoError(t, err)
	assert.Equal(t, "package main", text)

	stats := telemetry.Snapshot()["code"]
	assert.Equal(t, 1, stats.SuccessfulRequests)
}

func TestGenerateUnknownProfile(t *testing.T) {
	svc, _ := newTestService(&fakeClient{})

	_, err := svc.Generate(context.Background(), "prompt", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown model profile")
}

func TestGenerateModelNotFoundRetriesFallbackOnce(t *testing.T) {
	client := &fakeClient{
		responses: map[string]string{"fallback": "answer"},
		errors:    map[string]error{"code": fmt.Errorf(`model "qwen3-coder:30b" not found`)},
	}
	svc, telemetry := newTestService(client)

	text, err := svc.Generate(context.Background(), "prompt", "code")
	require.NoError(t, err)
	assert.Equal(t, "answer", text)
	assert.Equal(t, []string{"code", "fallback"}, client.calls)

	assert.Equal(t, 0, telemetry.Snapshot()["code"].SuccessfulRequests)
	assert.Equal(t, 1, telemetry.Snapshot()["fallback"].SuccessfulRequests)
}

func TestGenerateFallbackFailureSurfaces(t *testing.T) {
	client := &fakeClient{
		errors: map[string]error{
			"code":     fmt.Errorf("model not found"),
			"fallback": fmt.Errorf("model not found"),
		},
	}
	svc, _ := newTestService(client)

	_, err := svc.Generate(context.Background(), "prompt", "code")
	require.Error(t, err)
	// Exactly one fallback attempt; no retry loop.
	assert.Equal(t, []string{"code", "fallback"}, client.calls)
}

func TestGenerateOtherErrorsPropagateWithoutRetry(t *testing.T) {
	client := &fakeClient{
		errors: map[string]error{"code": fmt.Errorf("connection refused")},
	}
	svc, telemetry := newTestService(client)

	_, err := svc.Generate(context.Background(), "prompt", "code")
	require.Error(t, err)
	assert.Equal(t, []string{"code"}, client.calls)
	assert.Equal(t, router.HealthUnavailable, telemetry.Health("code"))
}

func TestEstimateTokens(t *testing.T) {
	assert.Equal(t, 1, EstimateTokens(""))
	assert.Equal(t, 26, EstimateTokens(string(make([]byte, 100))))
}
