package entities

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Role identifies which side of the conversation produced a transcript
// entry or an audio clip.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// TranscriptEntry is a single completed utterance in a session transcript.
type TranscriptEntry struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// AudioClip is a finished, flush-terminated accumulation of one role's
// audio for one utterance. PCM is raw mono 16-bit little-endian samples.
type AudioClip struct {
	Role       Role
	PCM        []byte
	CapturedAt time.Time
}

// Metadata is the participant payload the client supplies once per
// session via the userdata.set control event.
type Metadata struct {
	StudentID   string         `json:"student_id"`
	StudentName string         `json:"student_name"`
	Location    string         `json:"location"`
	DeviceInfo  map[string]any `json:"device_info"`
	IsDemoMode  bool           `json:"is_demo_mode"`
}

// Session holds the state of one relayed assessment conversation. It is
// created when a client connection is accepted and discarded after
// finalization; only the owning coordinator mutates it.
type Session struct {
	ID        string
	Kind      string
	CreatedAt time.Time

	Metadata   *Metadata
	Transcript []TranscriptEntry

	// ToolAssessmentTriggered records that the scoring tool call was
	// observed in the upstream stream, which suppresses the fallback
	// assessment on close.
	ToolAssessmentTriggered bool

	// IsDemo suppresses all durable persistence for this session.
	IsDemo bool
}

// NewSession creates session state for an accepted connection.
func NewSession(kind string) *Session {
	return &Session{
		ID:        uuid.NewString(),
		Kind:      kind,
		CreatedAt: time.Now(),
	}
}

// SetMetadata records the participant payload. Demo mode is latched: once
// a session is flagged as a demo run it stays one.
func (s *Session) SetMetadata(md *Metadata) {
	s.Metadata = md
	if md != nil && md.IsDemoMode {
		s.IsDemo = true
	}
}

// AppendTranscript adds one completed utterance, preserving arrival order.
func (s *Session) AppendTranscript(role Role, content string) {
	s.Transcript = append(s.Transcript, TranscriptEntry{Role: role, Content: content})
}

// Validate checks the invariants a session must hold before persistence.
func (s *Session) Validate() error {
	if s.ID == "" {
		return errors.New("session id is required")
	}
	if s.Kind == "" {
		return errors.New("assessment kind is required")
	}
	return nil
}
