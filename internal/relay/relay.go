package relay

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/koreroai/server/assessments"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// TODO: Implement proper origin checking
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Relay accepts client connections and runs one coordinator per
// session. Each session is fully independent; the relay only tracks
// membership so active sessions can be counted and inspected.
type Relay struct {
	catalogue *assessments.Catalogue
	deps      Dependencies

	mu       sync.RWMutex
	sessions map[string]*Coordinator

	logger *zap.Logger
}

// New creates a relay serving the catalogue's assessment kinds.
func New(catalogue *assessments.Catalogue, deps Dependencies, logger *zap.Logger) *Relay {
	if deps.MetadataWait <= 0 {
		deps.MetadataWait = 5 * time.Second
	}
	return &Relay{
		catalogue: catalogue,
		deps:      deps,
		sessions:  make(map[string]*Coordinator),
		logger:    logger,
	}
}

// ActiveSessions reports how many sessions are currently live.
func (r *Relay) ActiveSessions() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// HandleWebSocket upgrades the request and starts a session of the
// given assessment kind. An unknown kind is rejected after the upgrade
// with a policy violation close so the client sees the reason.
func (r *Relay) HandleWebSocket(c echo.Context, kind string) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		r.logger.Error("WebSocket upgrade failed", zap.Error(err))
		return err
	}

	config, ok := r.catalogue.Lookup(kind)
	if !ok {
		r.logger.Warn("Rejecting unknown assessment kind",
			zap.String("kind", kind),
			zap.Strings("valid_kinds", r.catalogue.Kinds()))
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "Invalid assessment type"),
			time.Now().Add(time.Second))
		conn.Close()
		return nil
	}

	r.logger.Info("Connection accepted", zap.String("kind", kind))

	coordinator := NewCoordinator(conn, config, r.deps, r.logger, r.remove)

	r.mu.Lock()
	r.sessions[coordinator.Session().ID] = coordinator
	r.mu.Unlock()

	go coordinator.Run()
	return nil
}

func (r *Relay) remove(c *Coordinator) {
	r.mu.Lock()
	delete(r.sessions, c.Session().ID)
	r.mu.Unlock()
	r.logger.Info("Session removed", zap.String("session_id", c.Session().ID))
}
