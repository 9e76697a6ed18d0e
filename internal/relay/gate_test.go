package relay

import (
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestHandshakeGate_ReleasesOnceBothConditionsMet(t *testing.T) {
	var releases int32
	gate := NewHandshakeGate(time.Minute, func() {
		atomic.AddInt32(&releases, 1)
	}, zap.NewNop())
	defer gate.Stop()

	gate.MarkUpstreamReady()
	if n := atomic.LoadInt32(&releases); n != 0 {
		t.Fatalf("Expected no release with only upstream ready, got %d", n)
	}

	gate.MarkMetadataSettled()
	if n := atomic.LoadInt32(&releases); n != 1 {
		t.Fatalf("Expected exactly one release, got %d", n)
	}

	// Repeated signals must not release again
	gate.MarkUpstreamReady()
	gate.MarkMetadataSettled()
	if n := atomic.LoadInt32(&releases); n != 1 {
		t.Errorf("Expected release to stay at 1, got %d", n)
	}
}

func TestHandshakeGate_MetadataFirstWaitsForUpstream(t *testing.T) {
	var releases int32
	gate := NewHandshakeGate(time.Minute, func() {
		atomic.AddInt32(&releases, 1)
	}, zap.NewNop())
	defer gate.Stop()

	gate.MarkMetadataSettled()
	if n := atomic.LoadInt32(&releases); n != 0 {
		t.Fatalf("Expected no release before upstream ready, got %d", n)
	}

	gate.MarkUpstreamReady()
	if n := atomic.LoadInt32(&releases); n != 1 {
		t.Errorf("Expected one release, got %d", n)
	}
}

func TestHandshakeGate_TimeoutSettlesMetadata(t *testing.T) {
	released := make(chan struct{})
	gate := NewHandshakeGate(20*time.Millisecond, func() {
		close(released)
	}, zap.NewNop())
	defer gate.Stop()

	gate.MarkUpstreamReady()

	select {
	case <-released:
	case <-time.After(time.Second):
		t.Fatal("Gate did not release after metadata wait elapsed")
	}
}

func TestHandshakeGate_LateMetadataDoesNotReleaseAgain(t *testing.T) {
	var releases int32
	gate := NewHandshakeGate(10*time.Millisecond, func() {
		atomic.AddInt32(&releases, 1)
	}, zap.NewNop())
	defer gate.Stop()

	gate.MarkUpstreamReady()

	deadline := time.Now().Add(time.Second)
	for atomic.LoadInt32(&releases) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("Gate did not release on timeout")
		}
		time.Sleep(time.Millisecond)
	}

	// Metadata arriving after the timeout is absorbed
	gate.MarkMetadataSettled()
	if n := atomic.LoadInt32(&releases); n != 1 {
		t.Errorf("Expected release to stay at 1 after late metadata, got %d", n)
	}
}

func TestHandshakeGate_StopDisarmsTimer(t *testing.T) {
	var releases int32
	gate := NewHandshakeGate(100*time.Millisecond, func() {
		atomic.AddInt32(&releases, 1)
	}, zap.NewNop())

	gate.MarkUpstreamReady()
	gate.Stop()

	time.Sleep(200 * time.Millisecond)
	if n := atomic.LoadInt32(&releases); n != 0 {
		t.Errorf("Expected no release after Stop, got %d", n)
	}
}
