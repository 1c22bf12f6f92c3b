// internal/handlers/match_ws.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/jason-s-yu/halo/internal/middleware"
	"github.com/jason-s-yu/halo/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	wsSubprotocol = "halo-matchmaking"
	wsOutBuffer   = 8
	wsPingEvery   = 30 * time.Second
	wsWriteWait   = 5 * time.Second

	defaultSessionCheck = 15 * time.Second
)

// wsEvent is one message pushed to a matchmaking socket.
type wsEvent struct {
	Type   string               `json:"type"`
	Match  *models.PendingMatch `json:"match,omitempty"`
	Ticket *models.QueueTicket  `json:"ticket,omitempty"`
}

type wsClient struct {
	playerID int64
	out      chan wsEvent
	// closed when the hub drops a client that stopped reading
	kicked chan struct{}
	once   sync.Once
}

func (c *wsClient) kick() {
	c.once.Do(func() { close(c.kicked) })
}

// MatchHub fans match-found events out to connected players. It implements
// matchmaking.Emitter.
type MatchHub struct {
	mu      sync.RWMutex
	clients map[int64]map[*wsClient]struct{}
	logger  logrus.FieldLogger
}

func NewMatchHub(logger logrus.FieldLogger) *MatchHub {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &MatchHub{clients: map[int64]map[*wsClient]struct{}{}, logger: logger}
}

// MatchFound queues the event for every socket of every player in the match.
// It never blocks: a client whose buffer is full is disconnected.
func (h *MatchHub) MatchFound(_ context.Context, pm models.PendingMatch) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, id := range pm.PlayerIDs {
		for c := range h.clients[id] {
			match := pm
			select {
			case c.out <- wsEvent{Type: "match_found", Match: &match}:
			default:
				h.logger.WithField("player_id", id).Warn("matchmaking socket too slow, dropping")
				c.kick()
			}
		}
	}
}

// Connected reports how many sockets a player has open.
func (h *MatchHub) Connected(playerID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[playerID])
}

func (h *MatchHub) add(c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.playerID]
	if !ok {
		set = map[*wsClient]struct{}{}
		h.clients[c.playerID] = set
	}
	set[c] = struct{}{}
}

func (h *MatchHub) remove(c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.clients[c.playerID]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.playerID)
		}
	}
}

// GET /halo/matchmaking/ws
func (a *API) matchmakingSocket(w http.ResponseWriter, r *http.Request) {
	acct, _ := middleware.AccountFromContext(r.Context())
	token := middleware.TokenFromRequest(r)
	remoteAddr := r.RemoteAddr

	// the socket outlives the server's request timeouts
	rc := http.NewResponseController(w)
	_ = rc.SetReadDeadline(time.Time{})
	_ = rc.SetWriteDeadline(time.Time{})

	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		Subprotocols:   []string{wsSubprotocol},
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		a.Logger.WithError(err).Warn("websocket accept error")
		return
	}
	defer c.Close(websocket.StatusInternalError, "handler finished")

	client := &wsClient{
		playerID: acct.PlayerID,
		out:      make(chan wsEvent, wsOutBuffer),
		kicked:   make(chan struct{}),
	}
	a.Hub.add(client)
	defer a.Hub.remove(client)
	middleware.LogWebSocketConnect(a.Logger, remoteAddr, acct.PlayerID)

	// the client only listens; CloseRead cancels ctx when it goes away
	ctx := c.CloseRead(r.Context())

	if ticket, err := a.Queue.Status(acct.PlayerID); err == nil {
		client.out <- wsEvent{Type: "queue_status", Ticket: &ticket}
	}

	every := a.SessionCheck
	if every <= 0 {
		every = defaultSessionCheck
	}
	session := func() error {
		_, err := a.Auth.Validate(token)
		return err
	}

	err = writePump(ctx, c, client, every, session)
	middleware.LogWebSocketDisconnect(a.Logger, remoteAddr, acct.PlayerID, err)
}

// writePump forwards events until the client disconnects, is kicked or its
// session stops validating.
func writePump(ctx context.Context, c *websocket.Conn, client *wsClient, sessionEvery time.Duration, session func() error) error {
	ticker := time.NewTicker(wsPingEvery)
	defer ticker.Stop()
	sessionTicker := time.NewTicker(sessionEvery)
	defer sessionTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-client.kicked:
			c.Close(SlowConsumerError, "too many pending events")
			return nil

		case <-sessionTicker.C:
			if err := session(); err != nil {
				c.Close(SessionEndedError, "session ended")
				return err
			}

		case ev := <-client.out:
			data, err := json.Marshal(ev)
			if err != nil {
				return err
			}
			writeCtx, cancel := context.WithTimeout(ctx, wsWriteWait)
			err = c.Write(writeCtx, websocket.MessageText, data)
			cancel()
			if err != nil {
				return err
			}

		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, wsWriteWait)
			err := c.Ping(pingCtx)
			cancel()
			if err != nil {
				return err
			}
		}
	}
}
