package http

import (
	"net/http"

	"github.com/lorrc/cw-dashboard/internal/config"
)

// ConfigHandler reports whether the upstream credentials are present
// without ever echoing a secret value.
type ConfigHandler struct {
	cfg *config.Config
}

// NewConfigHandler creates a new config-check handler
func NewConfigHandler(cfg *config.Config) *ConfigHandler {
	return &ConfigHandler{cfg: cfg}
}

// ConfigCheckResponse is the /api/config-check payload.
type ConfigCheckResponse struct {
	Configured    bool   `json:"configured"`
	Site          string `json:"site"`
	Company       string `json:"company"`
	HasPublicKey  bool   `json:"hasPublicKey"`
	HasPrivateKey bool   `json:"hasPrivateKey"`
	HasClientID   bool   `json:"hasClientId"`
	Proxy         string `json:"proxy"`
	SSLVerify     bool   `json:"sslVerify"`
}

// HandleConfigCheck serves GET /api/config-check
func (h *ConfigHandler) HandleConfigCheck(w http.ResponseWriter, r *http.Request) {
	up := h.cfg.Upstream

	company := up.Company
	if company == "" {
		company = "(not set)"
	}
	proxy := up.Proxy
	if proxy == "" {
		proxy = "none"
	}

	WriteJSON(w, http.StatusOK, ConfigCheckResponse{
		Configured:    h.cfg.Configured(),
		Site:          up.Site,
		Company:       company,
		HasPublicKey:  up.PublicKey != "",
		HasPrivateKey: up.PrivateKey != "",
		HasClientID:   up.ClientID != "",
		Proxy:         proxy,
		SSLVerify:     up.VerifySSL,
	})
}
