package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/koreroai/server/domain/entities"
)

type recordingStore struct {
	mu   sync.Mutex
	keys []string
}

func (r *recordingStore) Put(ctx context.Context, key string, body []byte, contentType string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys = append(r.keys, key)
	return nil
}

func TestObjectKey_Deterministic(t *testing.T) {
	at := time.UnixMilli(1700000000000)

	key := ObjectKey("abc-123", entities.RoleUser, at)
	want := "recordings/abc-123_user_1700000000000.wav"
	if key != want {
		t.Errorf("Expected key %s, got %s", want, key)
	}

	if again := ObjectKey("abc-123", entities.RoleUser, at); again != key {
		t.Error("Expected identical inputs to produce identical keys")
	}
}

func TestAudioStore_WritesWAVFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewAudioStore(dir, nil, zap.NewNop())

	session := entities.NewSession("dtl")
	clips := []entities.AudioClip{
		{Role: entities.RoleUser, PCM: []byte{1, 2, 3, 4}, CapturedAt: time.UnixMilli(1000)},
		{Role: entities.RoleAssistant, PCM: []byte{5, 6}, CapturedAt: time.UnixMilli(2000)},
	}

	if err := store.Save(context.Background(), session, clips); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to read audio dir: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 audio files, got %d", len(entries))
	}

	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	if err != nil {
		t.Fatalf("Failed to read audio file: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("RIFF")) {
		t.Error("Expected WAV file to start with RIFF header")
	}
}

func TestAudioStore_MirrorsEveryClip(t *testing.T) {
	dir := t.TempDir()
	mirror := &recordingStore{}
	store := NewAudioStore(dir, mirror, zap.NewNop())

	session := entities.NewSession("dtl")
	clips := []entities.AudioClip{
		{Role: entities.RoleUser, PCM: []byte{1, 2}, CapturedAt: time.UnixMilli(1000)},
		{Role: entities.RoleAssistant, PCM: []byte{3, 4}, CapturedAt: time.UnixMilli(2000)},
	}

	if err := store.Save(context.Background(), session, clips); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		mirror.mu.Lock()
		uploaded := len(mirror.keys)
		mirror.mu.Unlock()
		if uploaded == 2 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("Expected 2 mirrored clips, got %d", uploaded)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestAudioStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "recordings")
	store := NewAudioStore(dir, nil, zap.NewNop())

	session := entities.NewSession("dtl")
	err := store.Save(context.Background(), session, []entities.AudioClip{
		{Role: entities.RoleUser, PCM: []byte{1, 2}, CapturedAt: time.Now()},
	})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if _, err := os.Stat(dir); err != nil {
		t.Errorf("Expected audio directory to exist: %v", err)
	}
}
