package audio

import (
	"encoding/base64"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/koreroai/server/domain/entities"
)

// Assembler accumulates streamed base64 audio chunks per role and turns
// each completed utterance into a finished clip. One assembler belongs to
// one session; Append and Flush may be called from the two pump
// goroutines concurrently.
type Assembler struct {
	mu      sync.Mutex
	pending map[entities.Role][]byte
	clips   []entities.AudioClip
	logger  *zap.Logger
}

// NewAssembler creates an empty assembler.
func NewAssembler(logger *zap.Logger) *Assembler {
	return &Assembler{
		pending: make(map[entities.Role][]byte),
		logger:  logger,
	}
}

// Append decodes one base64 chunk and concatenates it onto the role's
// pending buffer, preserving byte order. A chunk that fails to decode is
// logged and skipped; the session continues.
func (a *Assembler) Append(role entities.Role, b64 string) {
	chunk, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		a.logger.Error("Failed to decode audio chunk, skipping",
			zap.String("role", string(role)),
			zap.Error(err))
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.pending[role] = append(a.pending[role], chunk...)

	a.logger.Debug("Accumulated audio chunk",
		zap.String("role", string(role)),
		zap.Int("chunk_bytes", len(chunk)),
		zap.Int("total_bytes", len(a.pending[role])))
}

// Flush moves the role's accumulated buffer into the completed-clips list
// and clears it. Flushing an empty buffer is a no-op.
func (a *Assembler) Flush(role entities.Role) {
	a.mu.Lock()
	defer a.mu.Unlock()

	buf := a.pending[role]
	if len(buf) == 0 {
		a.logger.Warn("Empty audio buffer on flush", zap.String("role", string(role)))
		return
	}

	a.clips = append(a.clips, entities.AudioClip{
		Role:       role,
		PCM:        buf,
		CapturedAt: time.Now(),
	})
	delete(a.pending, role)

	a.logger.Debug("Committed audio clip",
		zap.String("role", string(role)),
		zap.Int("clip_bytes", len(buf)),
		zap.Int("total_clips", len(a.clips)))
}

// Clips returns the finished clips in completion order.
func (a *Assembler) Clips() []entities.AudioClip {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]entities.AudioClip, len(a.clips))
	copy(out, a.clips)
	return out
}

// PendingBytes reports the size of the role's in-progress buffer.
func (a *Assembler) PendingBytes(role entities.Role) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.pending[role])
}
