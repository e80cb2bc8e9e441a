package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/testgen/internal/api"
)

// checkOrigin accepts requests without an Origin header, same-host pages and
// pages served from localhost or 127.0.0.1 on any port. With allowAll set
// every origin is accepted.
func (d *Dashboard) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || d.allowAll {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	if u.Host == r.Host {
		return true
	}
	switch u.Hostname() {
	case "localhost", "127.0.0.1":
		return true
	}
	return false
}

// liveRequest is the incoming WebSocket message format.
type liveRequest struct {
	Type string `json:"type"` // "stats" or "recent"
}

// liveMessage is the outgoing WebSocket message format.
type liveMessage struct {
	Type   string         `json:"type"` // "stats", "recent" or "error"
	Stats  *statsResponse `json:"stats,omitempty"`
	Recent []recentItem   `json:"recent,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// handleWebSocket answers refresh requests and pushes statistics on a timer
// until the client goes away.
func (d *Dashboard) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{CheckOrigin: d.checkOrigin}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		d.logger.Warn("dashboard", "websocket upgrade failed", map[string]interface{}{"error": err.Error()})
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	requests := make(chan liveRequest)
	go func() {
		defer cancel()
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					d.logger.Warn("dashboard", "websocket read failed", map[string]interface{}{"error": err.Error()})
				}
				return
			}
			var req liveRequest
			if err := json.Unmarshal(msg, &req); err != nil {
				req = liveRequest{}
			}
			select {
			case requests <- req:
			case <-ctx.Done():
				return
			}
		}
	}()

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	// Writes happen on this goroutine only.
	for {
		var msg liveMessage
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			msg = d.liveStats(ctx)
		case req := <-requests:
			switch req.Type {
			case "stats":
				msg = d.liveStats(ctx)
			case "recent":
				msg = d.liveRecent(ctx)
			default:
				msg = liveMessage{Type: "error", Error: "unknown message type: " + req.Type}
			}
		}
		if err := conn.WriteJSON(msg); err != nil {
			d.logger.Warn("dashboard", "websocket write failed", map[string]interface{}{"error": err.Error()})
			return
		}
	}
}

func (d *Dashboard) liveStats(ctx context.Context) liveMessage {
	stats, err := d.stats(ctx)
	if err != nil {
		return liveMessage{Type: "error", Error: api.Message(err)}
	}
	return liveMessage{Type: "stats", Stats: stats}
}

func (d *Dashboard) liveRecent(ctx context.Context) liveMessage {
	items, err := d.recent(ctx)
	if err != nil {
		return liveMessage{Type: "error", Error: api.Message(err)}
	}
	return liveMessage{Type: "recent", Recent: items}
}
