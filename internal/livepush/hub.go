package livepush

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"hidden-market/internal/clientstate"
	model "hidden-market/internal/models"
	"hidden-market/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingPeriod   = 54 * time.Second
	tickInterval = time.Second
	sendBuffer   = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Frame is one push to the page. Change frames tell it which collection
// moved; countdown frames carry the open listing's label.
type Frame struct {
	Type          string                 `json:"type"`
	Kind          model.ChangeKind       `json:"kind,omitempty"`
	Op            model.ChangeOp         `json:"op,omitempty"`
	ListingID     string                 `json:"listing_id,omitempty"`
	Countdown     *clientstate.Countdown `json:"countdown,omitempty"`
	Notifications int                    `json:"notifications,omitempty"`
}

type conn struct {
	ws   *websocket.Conn
	send chan []byte
}

// Hub keeps the open sockets of every session
type Hub struct {
	mu    sync.Mutex
	conns map[string]map[*conn]struct{}
	// unread reports the notification count of a session for change frames
	unread func(sessionID string) int
}

// NewHub creates an empty hub. unread may be nil.
func NewHub(unread func(sessionID string) int) *Hub {
	return &Hub{conns: make(map[string]map[*conn]struct{}), unread: unread}
}

// Notify pushes a change frame to every socket of sessionID. Sockets that
// cannot keep up are closed.
func (h *Hub) Notify(sessionID string, ev model.ChangeEvent) {
	frame := Frame{Type: "change", Kind: ev.Kind, Op: ev.Op}
	switch {
	case ev.Listing != nil:
		frame.ListingID = ev.Listing.ID
	case ev.Bid != nil:
		frame.ListingID = ev.Bid.ListingID
	case ev.Kind == model.KindListings:
		frame.ListingID = ev.OldID
	}
	if h.unread != nil {
		frame.Notifications = h.unread(sessionID)
	}
	h.broadcast(sessionID, frame)
}

func (h *Hub) broadcast(sessionID string, frame Frame) {
	data, err := json.Marshal(frame)
	if err != nil {
		utils.Error("livepush: encode frame", map[string]any{"error": err.Error()})
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.conns[sessionID] {
		select {
		case c.send <- data:
		default:
			utils.Warn("livepush: send buffer full, removing socket", map[string]any{"session_id": sessionID})
			h.removeLocked(sessionID, c)
		}
	}
}

// Connections reports how many sockets sessionID has open
func (h *Hub) Connections(sessionID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns[sessionID])
}

func (h *Hub) add(sessionID string, c *conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conns[sessionID] == nil {
		h.conns[sessionID] = make(map[*conn]struct{})
	}
	h.conns[sessionID][c] = struct{}{}
}

func (h *Hub) remove(sessionID string, c *conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(sessionID, c)
}

func (h *Hub) removeLocked(sessionID string, c *conn) {
	set, ok := h.conns[sessionID]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	close(c.send)
	if len(set) == 0 {
		delete(h.conns, sessionID)
	}
}

// Serve upgrades the request and streams frames for the session until the
// socket closes
func (h *Hub) Serve(gc *gin.Context, sessionID string, client *clientstate.Client) {
	ws, err := upgrader.Upgrade(gc.Writer, gc.Request, nil)
	if err != nil {
		utils.Warn("livepush: websocket upgrade", map[string]any{"error": err.Error()})
		return
	}

	c := &conn{ws: ws, send: make(chan []byte, sendBuffer)}
	h.add(sessionID, c)

	ctx, cancel := context.WithCancel(context.Background())
	go h.writePump(ctx, sessionID, c, client)
	h.readPump(sessionID, c)
	cancel()
}

// readPump only drains control frames; the page never sends data
func (h *Hub) readPump(sessionID string, c *conn) {
	defer func() {
		h.remove(sessionID, c)
		c.ws.Close()
	}()

	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.ws.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				utils.Warn("livepush: websocket error", map[string]any{"session_id": sessionID, "error": err.Error()})
			}
			return
		}
	}
}

func (h *Hub) writePump(ctx context.Context, sessionID string, c *conn, client *clientstate.Client) {
	ping := time.NewTicker(pingPeriod)
	check := time.NewTicker(tickInterval)
	defer func() {
		ping.Stop()
		check.Stop()
		c.ws.Close()
	}()

	var (
		watchKey    string
		watchID     string
		countdowns  <-chan clientstate.Countdown
		stopWatcher context.CancelFunc = func() {}
	)
	defer func() { stopWatcher() }()

	write := func(data []byte) bool {
		c.ws.SetWriteDeadline(time.Now().Add(writeWait))
		return c.ws.WriteMessage(websocket.TextMessage, data) == nil
	}

	for {
		select {
		case <-ctx.Done():
			return
		case data, ok := <-c.send:
			if !ok {
				c.ws.SetWriteDeadline(time.Now().Add(writeWait))
				c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if !write(data) {
				return
			}
		case <-check.C:
			// follow the detail the session has open
			detail, open := client.Detail()
			key := ""
			if open {
				key = detail.ID + "|" + string(detail.Status) + "|" + detail.EndTime.String()
			}
			if key == watchKey {
				continue
			}
			stopWatcher()
			watchKey, watchID, countdowns, stopWatcher = key, detail.ID, nil, func() {}
			if open {
				wctx, wcancel := context.WithCancel(ctx)
				countdowns = clientstate.WatchCountdown(wctx, detail.EndTime, detail.Status, tickInterval, client.Now)
				stopWatcher = wcancel
			}
		case cd, ok := <-countdowns:
			if !ok {
				countdowns = nil
				continue
			}
			data, err := json.Marshal(Frame{Type: "countdown", ListingID: watchID, Countdown: &cd})
			if err != nil {
				continue
			}
			if !write(data) {
				return
			}
		case <-ping.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
