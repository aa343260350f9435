package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/mirelio/api-console/internal/analytics"
)

const (
	metricsPushInterval = 5 * time.Second
	pingInterval        = 30 * time.Second
	writeWait           = 10 * time.Second
)

// LiveHandler streams dashboard metrics over a websocket so the
// console header updates without polling.
type LiveHandler struct {
	projector *analytics.Projector
	upgrader  websocket.Upgrader
}

func NewLiveHandler(projector *analytics.Projector) *LiveHandler {
	return &LiveHandler{
		projector: projector,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Metrics upgrades the connection and pushes a metrics snapshot every
// few seconds until the client goes away.
// GET /api/v1/live/metrics
func (h *LiveHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	log.Info().Str("remote", conn.RemoteAddr().String()).Msg("live metrics client connected")

	// Drain incoming frames so close and pong messages are processed.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	push := time.NewTicker(metricsPushInterval)
	defer push.Stop()
	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	// First snapshot goes out immediately.
	if err := h.writeMetrics(conn); err != nil {
		return
	}

	for {
		select {
		case <-done:
			log.Info().Str("remote", conn.RemoteAddr().String()).Msg("live metrics client disconnected")
			return
		case <-r.Context().Done():
			return
		case <-push.C:
			if err := h.writeMetrics(conn); err != nil {
				return
			}
		case <-ping.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *LiveHandler) writeMetrics(conn *websocket.Conn) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(h.projector.Metrics())
}
