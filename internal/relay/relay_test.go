package relay

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/koreroai/server/assessments"
	"github.com/koreroai/server/internal/upstream"
)

// fakeUpstream scripts the realtime endpoint side of a session: it
// acknowledges the configuration, waits for the opening turn and then
// streams a short scripted conversation.
func fakeUpstream(t testing.TB) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		// First message must be the session configuration
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		env, err := upstream.ParseEnvelope(msg)
		if err != nil || env.Type != upstream.EventSessionUpdate {
			t.Errorf("Expected session.update first, got %s", msg)
			return
		}

		conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"session.updated"}`))

		// Wait for the opening turn, tolerating the tool registration
		sawItem, sawResponse := false, false
		for !sawItem || !sawResponse {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			env, err := upstream.ParseEnvelope(msg)
			if err != nil {
				continue
			}
			switch env.Type {
			case upstream.EventConversationItemCreate:
				if !strings.Contains(string(msg), "Kia ora!") {
					t.Errorf("Expected opening turn to carry the greeting, got %s", msg)
				}
				sawItem = true
			case upstream.EventResponseCreate:
				sawResponse = true
			case upstream.EventSessionUpdate:
				// tool registration
			default:
				t.Errorf("Unexpected event before opening turn: %s", env.Type)
			}
		}

		chunk := base64.StdEncoding.EncodeToString([]byte{1, 2, 3, 4})
		script := []string{
			`{"type":"response.audio.delta","delta":"` + chunk + `"}`,
			`{"type":"response.audio.done"}`,
			`{"type":"response.audio_transcript.done","transcript":"Kia ora, welcome"}`,
			`{"type":"conversation.item.input_audio_transcription.completed","transcript":"Hello"}`,
		}
		for _, raw := range script {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(raw)); err != nil {
				return
			}
		}

		// Hold the connection open until the relay closes it
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
}

func newTestRelay(t testing.TB, upstreamURL string) (*Relay, *fakeGrader, *fakeTranscripts) {
	t.Helper()

	grader := &fakeGrader{}
	transcripts := &fakeTranscripts{}

	r := New(assessments.NewCatalogue(), Dependencies{
		Upstream: upstream.Config{
			URL:    upstreamURL,
			APIKey: "sk-test",
			Model:  "test-model",
		},
		MetadataWait: time.Minute,
		Transcripts:  transcripts,
		Grader:       grader,
	}, zap.NewNop())

	return r, grader, transcripts
}

func serveRelay(t testing.TB, r *Relay) *httptest.Server {
	t.Helper()

	e := echo.New()
	e.GET("/ws/:kind", func(c echo.Context) error {
		return r.HandleWebSocket(c, c.Param("kind"))
	})

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return srv
}

func TestRelay_RejectsUnknownKind(t *testing.T) {
	r, _, _ := newTestRelay(t, "ws://127.0.0.1:1/unused")
	srv := serveRelay(t, r)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/unknown-kind"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, _, err = conn.ReadMessage()
	if err == nil {
		t.Fatal("Expected connection to be closed")
	}
	if !websocket.IsCloseError(err, websocket.ClosePolicyViolation) {
		t.Errorf("Expected policy violation close, got %v", err)
	}

	if n := r.ActiveSessions(); n != 0 {
		t.Errorf("Expected no active sessions, got %d", n)
	}
}

func TestRelay_EndToEndSession(t *testing.T) {
	up := fakeUpstream(t)
	defer up.Close()

	r, grader, transcripts := newTestRelay(t, "ws"+strings.TrimPrefix(up.URL, "http"))
	srv := serveRelay(t, r)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/dtl"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}

	// Metadata may arrive before the upstream link is up; the relay
	// must queue and process it.
	userdata, _ := json.Marshal(map[string]any{
		"event_id": "userdata.set",
		"userdata": map[string]any{
			"student_id":   "s-42",
			"student_name": "Mia",
			"location":     "Wellington",
		},
	})
	if err := conn.WriteMessage(websocket.TextMessage, userdata); err != nil {
		t.Fatalf("Failed to send metadata: %v", err)
	}

	want := []string{
		"response.audio.delta",
		"response.audio.done",
		"response.audio_transcript.done",
		"conversation.item.input_audio_transcription.completed",
	}
	conn.SetReadDeadline(time.Now().Add(10 * time.Second))
	for _, expected := range want {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("Failed reading while waiting for %s: %v", expected, err)
		}
		env, err := upstream.ParseEnvelope(msg)
		if err != nil {
			t.Fatalf("Received malformed event: %v", err)
		}
		if env.Type != expected {
			t.Fatalf("Expected %s, got %s", expected, env.Type)
		}
	}

	conn.Close()

	deadline := time.Now().Add(5 * time.Second)
	for r.ActiveSessions() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("Session did not finalize after client close")
		}
		time.Sleep(10 * time.Millisecond)
	}

	if len(transcripts.created) != 1 {
		t.Fatalf("Expected 1 saved transcript, got %d", len(transcripts.created))
	}
	saved := transcripts.created[0]
	if saved.Metadata == nil || saved.Metadata.StudentID != "s-42" {
		t.Errorf("Expected saved session to carry metadata, got %+v", saved.Metadata)
	}
	if len(saved.Transcript) != 2 {
		t.Errorf("Expected 2 transcript entries, got %d", len(saved.Transcript))
	}
	if grader.transcriptCalls != 1 {
		t.Errorf("Expected fallback assessment to run once, got %d", grader.transcriptCalls)
	}
}
