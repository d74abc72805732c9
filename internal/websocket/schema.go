package websocket

import "github.com/schoolgate/visitdesk-backend/internal/model"

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError   Event = "error"
	EventCheckin Event = "checkin"
	EventPing    Event = "ping"
)

// CheckinResponse pushes one check-in event to the admin monitor.
type CheckinResponse struct {
	Event   Event              `json:"event"`
	Checkin model.CheckinEvent `json:"checkin"`
}

// PingResponse keeps idle monitor connections alive.
type PingResponse struct {
	Event Event `json:"event"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}
