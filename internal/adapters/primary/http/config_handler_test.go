package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpAdapter "github.com/lorrc/cw-dashboard/internal/adapters/primary/http"
	"github.com/lorrc/cw-dashboard/internal/config"
)

func configCheck(t *testing.T, cfg *config.Config) httpAdapter.ConfigCheckResponse {
	t.Helper()

	handler := httpAdapter.NewConfigHandler(cfg)
	rec := httptest.NewRecorder()
	handler.HandleConfigCheck(rec, httptest.NewRequest(http.MethodGet, "/api/config-check", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body httpAdapter.ConfigCheckResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestConfigHandler_HandleConfigCheck(t *testing.T) {
	t.Run("fully configured", func(t *testing.T) {
		cfg := &config.Config{
			Upstream: config.UpstreamConfig{
				Site:       "eu.myconnectwise.net",
				Company:    "acme",
				PublicKey:  "pub",
				PrivateKey: "priv",
				ClientID:   "client-123",
				Proxy:      "http://proxy.internal:3128",
				VerifySSL:  true,
			},
		}

		body := configCheck(t, cfg)

		assert.True(t, body.Configured)
		assert.Equal(t, "eu.myconnectwise.net", body.Site)
		assert.Equal(t, "acme", body.Company)
		assert.True(t, body.HasPublicKey)
		assert.True(t, body.HasPrivateKey)
		assert.True(t, body.HasClientID)
		assert.Equal(t, "http://proxy.internal:3128", body.Proxy)
		assert.True(t, body.SSLVerify)
	})

	t.Run("missing credentials reported without leaking values", func(t *testing.T) {
		cfg := &config.Config{
			Upstream: config.UpstreamConfig{
				Site:      "na.myconnectwise.net",
				PublicKey: "pub",
			},
		}

		body := configCheck(t, cfg)

		assert.False(t, body.Configured)
		assert.Equal(t, "(not set)", body.Company)
		assert.True(t, body.HasPublicKey)
		assert.False(t, body.HasPrivateKey)
		assert.False(t, body.HasClientID)
		assert.Equal(t, "none", body.Proxy)
	})
}

func TestHealthHandler_Readiness(t *testing.T) {
	t.Run("unconfigured upstream is not ready", func(t *testing.T) {
		cfg := &config.Config{}
		handler := httpAdapter.NewHealthHandler(cfg, "test")

		rec := httptest.NewRecorder()
		handler.HandleReadiness(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("configured upstream is ready", func(t *testing.T) {
		cfg := &config.Config{
			Upstream: config.UpstreamConfig{
				Company:    "acme",
				PublicKey:  "pub",
				PrivateKey: "priv",
				ClientID:   "client-123",
			},
		}
		handler := httpAdapter.NewHealthHandler(cfg, "test")

		rec := httptest.NewRecorder()
		handler.HandleReadiness(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("liveness always healthy", func(t *testing.T) {
		handler := httpAdapter.NewHealthHandler(nil, "test")

		rec := httptest.NewRecorder()
		handler.HandleLiveness(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
