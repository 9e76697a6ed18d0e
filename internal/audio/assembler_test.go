package audio

import (
	"bytes"
	"encoding/base64"
	"testing"

	"go.uber.org/zap"

	"github.com/koreroai/server/domain/entities"
)

func b64(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

func TestAssemblerAppendFlush(t *testing.T) {
	a := NewAssembler(zap.NewNop())

	chunks := [][]byte{
		{0x01, 0x02},
		{0x03, 0x04, 0x05, 0x06},
		{0x07, 0x08},
	}
	total := 0
	for _, c := range chunks {
		a.Append(entities.RoleAssistant, b64(c))
		total += len(c)
	}

	a.Flush(entities.RoleAssistant)

	clips := a.Clips()
	if len(clips) != 1 {
		t.Fatalf("Expected exactly 1 clip, got %d", len(clips))
	}
	if clips[0].Role != entities.RoleAssistant {
		t.Errorf("Expected assistant clip, got %s", clips[0].Role)
	}
	if len(clips[0].PCM) != total {
		t.Errorf("Expected clip length %d, got %d", total, len(clips[0].PCM))
	}

	want := bytes.Join(chunks, nil)
	if !bytes.Equal(clips[0].PCM, want) {
		t.Error("Clip bytes should preserve chunk concatenation order")
	}

	if a.PendingBytes(entities.RoleAssistant) != 0 {
		t.Error("Pending buffer should be cleared after flush")
	}
}

func TestAssemblerFlushEmptyIsNoop(t *testing.T) {
	a := NewAssembler(zap.NewNop())

	a.Flush(entities.RoleUser)
	a.Flush(entities.RoleUser)

	if got := len(a.Clips()); got != 0 {
		t.Errorf("Expected no clips from empty flushes, got %d", got)
	}
}

func TestAssemblerSkipsUndecodableChunk(t *testing.T) {
	a := NewAssembler(zap.NewNop())

	a.Append(entities.RoleUser, b64([]byte{0x01, 0x02}))
	a.Append(entities.RoleUser, "!!!not base64!!!")
	a.Append(entities.RoleUser, b64([]byte{0x03, 0x04}))
	a.Flush(entities.RoleUser)

	clips := a.Clips()
	if len(clips) != 1 {
		t.Fatalf("Expected 1 clip, got %d", len(clips))
	}
	if !bytes.Equal(clips[0].PCM, []byte{0x01, 0x02, 0x03, 0x04}) {
		t.Errorf("Expected bad chunk skipped, got %v", clips[0].PCM)
	}
}

func TestAssemblerRolesAreIndependent(t *testing.T) {
	a := NewAssembler(zap.NewNop())

	a.Append(entities.RoleUser, b64([]byte{0x01, 0x01}))
	a.Append(entities.RoleAssistant, b64([]byte{0x02, 0x02}))
	a.Flush(entities.RoleUser)

	if a.PendingBytes(entities.RoleAssistant) != 2 {
		t.Error("Flushing one role must not clear the other role's buffer")
	}

	a.Flush(entities.RoleAssistant)
	clips := a.Clips()
	if len(clips) != 2 {
		t.Fatalf("Expected 2 clips, got %d", len(clips))
	}
	if clips[0].Role != entities.RoleUser || clips[1].Role != entities.RoleAssistant {
		t.Error("Clips should be recorded in flush order")
	}
}
