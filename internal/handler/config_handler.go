package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/schoolgate/visitdesk-backend/internal/model"
	"github.com/schoolgate/visitdesk-backend/internal/response"
	"github.com/schoolgate/visitdesk-backend/internal/service"
	"github.com/schoolgate/visitdesk-backend/internal/validator"
)

type ConfigHandler struct {
	configService *service.ConfigService
}

func NewConfigHandler(configService *service.ConfigService) *ConfigHandler {
	return &ConfigHandler{configService: configService}
}

// GetConfig godoc
// GET /api/config
// Always 200: a never-written store yields a zero-value document so the
// admin form can seed defaults. The sender secret is redacted.
func (h *ConfigHandler) GetConfig(c *gin.Context) {
	cfg, err := h.configService.GetRedacted(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, cfg)
}

// ReplaceConfig godoc
// POST /api/config
// Whole-document replace, no schema validation beyond JSON shape. The
// admin owns the consequences of degenerate data.
func (h *ConfigHandler) ReplaceConfig(c *gin.Context) {
	var doc model.KioskConfig
	if fields := validator.Bind(c, &doc); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrInvalidPayload, fields)
		return
	}

	if err := h.configService.Replace(c.Request.Context(), doc); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"ok": true})
}

// GetWifiQR godoc
// GET /api/config/wifi-qr
// Returns the WIFI: payload string; the kiosk renders the QR image itself.
func (h *ConfigHandler) GetWifiQR(c *gin.Context) {
	cfg, err := h.configService.Get(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"payload": cfg.Wifi.QRPayload()})
}
