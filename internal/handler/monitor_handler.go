package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/schoolgate/visitdesk-backend/internal/config"
	"github.com/schoolgate/visitdesk-backend/internal/middleware"
	"github.com/schoolgate/visitdesk-backend/internal/model"
	ws "github.com/schoolgate/visitdesk-backend/internal/websocket"
)

const keepAliveInterval = 30 * time.Second

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allowedOrigins slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// MonitorHandler streams live check-in events to the admin panel.
type MonitorHandler struct {
	rdb      *redis.Client
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

func NewMonitorHandler(rdb *redis.Client, log zerolog.Logger, allowedOrigins []string) *MonitorHandler {
	return &MonitorHandler{
		rdb:      rdb,
		log:      log.With().Str("component", "monitor_handler").Logger(),
		upgrader: buildUpgrader(allowedOrigins),
	}
}

// CheckinStream godoc
// WS /ws/admin/checkins?token=...
// Upgrades to WebSocket and forwards check-in events published by the
// submission pipeline. Events are transient; no history is replayed.
func (h *MonitorHandler) CheckinStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	sub := h.rdb.Subscribe(c.Request.Context(), config.CacheKey.CheckinChannel())
	defer sub.Close()

	wsLog := h.log.With().Str("admin", claims.Username).Logger()
	wsLog.Info().Msg("Monitor connected")

	// Reader loop exists only to notice the client going away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	events := sub.Channel()
	for {
		select {
		case <-done:
			wsLog.Debug().Msg("Monitor disconnected")
			return
		case msg, ok := <-events:
			if !ok {
				ws.WriteError(conn, "check-in feed closed")
				return
			}
			var event model.CheckinEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				wsLog.Warn().Err(err).Msg("Malformed check-in event")
				continue
			}
			if err := ws.WriteTyped(conn, ws.CheckinResponse{Event: ws.EventCheckin, Checkin: event}); err != nil {
				wsLog.Debug().Err(err).Msg("Monitor write failed")
				return
			}
		case <-keepAlive.C:
			if err := ws.WriteTyped(conn, ws.PingResponse{Event: ws.EventPing}); err != nil {
				return
			}
		}
	}
}
