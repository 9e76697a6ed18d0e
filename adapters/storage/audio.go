package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/koreroai/server/domain/entities"
	"github.com/koreroai/server/domain/repositories"
	"github.com/koreroai/server/internal/audio"
)

const mirrorTimeout = 2 * time.Minute

// AudioStore writes each finished clip as a WAV file. Local writes are
// synchronous so artifacts survive a crash right after close; the
// object-storage mirror is asynchronous and best-effort.
type AudioStore struct {
	dir    string
	mirror repositories.ObjectStore
	logger *zap.Logger
}

// NewAudioStore creates the audio artifact store. mirror may be nil to
// disable remote uploads.
func NewAudioStore(dir string, mirror repositories.ObjectStore, logger *zap.Logger) *AudioStore {
	return &AudioStore{dir: dir, mirror: mirror, logger: logger}
}

// ObjectKey is the deterministic storage key for one clip.
func ObjectKey(sessionID string, role entities.Role, capturedAt time.Time) string {
	return fmt.Sprintf("recordings/%s_%s_%d.wav", sessionID, role, capturedAt.UnixMilli())
}

// Save encodes and writes every clip of the session. A clip that fails
// to write locally is logged and skipped; the rest still get saved.
func (s *AudioStore) Save(ctx context.Context, session *entities.Session, clips []entities.AudioClip) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create audio directory: %w", err)
	}

	var failed int
	for _, clip := range clips {
		wav := audio.EncodeWAV(clip.PCM, audio.DefaultSampleRate)
		key := ObjectKey(session.ID, clip.Role, clip.CapturedAt)
		path := filepath.Join(s.dir, filepath.Base(key))

		if err := os.WriteFile(path, wav, 0o644); err != nil {
			s.logger.Error("Failed to write audio file",
				zap.String("path", path),
				zap.Error(err))
			failed++
			continue
		}
		s.logger.Info("Saved audio clip",
			zap.String("path", path),
			zap.Int("bytes", len(wav)))

		if s.mirror != nil {
			go s.upload(key, wav)
		}
	}

	if failed > 0 {
		return fmt.Errorf("failed to write %d of %d audio clips", failed, len(clips))
	}
	return nil
}

func (s *AudioStore) upload(key string, wav []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), mirrorTimeout)
	defer cancel()

	if err := s.mirror.Put(ctx, key, wav, "audio/wav"); err != nil {
		s.logger.Error("Failed to mirror audio clip", zap.String("key", key), zap.Error(err))
		return
	}
	s.logger.Info("Mirrored audio clip", zap.String("key", key))
}
