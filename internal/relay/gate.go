package relay

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// HandshakeGate holds back the opening conversational turn until both
// the upstream session is configured and the client's metadata has
// settled (arrived or timed out). The release callback runs exactly
// once for the life of the gate.
type HandshakeGate struct {
	mu sync.Mutex

	upstreamReady   bool
	metadataSettled bool
	released        bool

	timer   *time.Timer
	release func()
	logger  *zap.Logger
}

// NewHandshakeGate arms the metadata wait timer immediately.
func NewHandshakeGate(wait time.Duration, release func(), logger *zap.Logger) *HandshakeGate {
	g := &HandshakeGate{
		release: release,
		logger:  logger,
	}
	g.timer = time.AfterFunc(wait, func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		if g.metadataSettled {
			return
		}
		g.logger.Warn("Metadata wait elapsed, proceeding without client metadata")
		g.metadataSettled = true
		g.tryRelease()
	})
	return g
}

// MarkUpstreamReady records that the upstream session acknowledged its
// configuration.
func (g *HandshakeGate) MarkUpstreamReady() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.upstreamReady = true
	g.tryRelease()
}

// MarkMetadataSettled records that client metadata arrived. Metadata
// arriving after the wait elapsed is absorbed without a second release.
func (g *HandshakeGate) MarkMetadataSettled() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.metadataSettled = true
	g.timer.Stop()
	g.tryRelease()
}

// tryRelease must be called with mu held.
func (g *HandshakeGate) tryRelease() {
	if g.released || !g.upstreamReady || !g.metadataSettled {
		return
	}
	g.released = true
	g.release()
}

// Stop disarms the timer. Used on session teardown so a pending wait
// cannot fire against a dead session.
func (g *HandshakeGate) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.timer.Stop()
}
