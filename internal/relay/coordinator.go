// Package relay bridges one client websocket to one upstream realtime
// AI websocket per session, filtering protocol traffic in both
// directions and producing the session's durable artifacts on close.
package relay

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/koreroai/server/assessments"
	"github.com/koreroai/server/domain/entities"
	"github.com/koreroai/server/domain/repositories"
	"github.com/koreroai/server/internal/audio"
	"github.com/koreroai/server/internal/upstream"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512 * 1024 // 512KB for audio chunks

	dialTimeout     = 15 * time.Second
	finalizeTimeout = 30 * time.Second
)

// State is the lifecycle position of one session.
type State string

const (
	StateAccepted           State = "ACCEPTED"
	StateUpstreamConnecting State = "UPSTREAM_CONNECTING"
	StateUpstreamConnected  State = "UPSTREAM_CONNECTED"
	StateConfiguring        State = "CONFIGURING"
	StateActive             State = "ACTIVE"
	StateClosing            State = "CLOSING"
	StateClosed             State = "CLOSED"
)

type WriteData struct {
	// Type is the websocket message type.
	// Expect websocket.TextMessage or websocket.BinaryMessage
	Type    int
	Payload []byte
}

// AudioSaver persists the finished audio clips of one session.
type AudioSaver interface {
	Save(ctx context.Context, session *entities.Session, clips []entities.AudioClip) error
}

// Dependencies is everything a coordinator needs beyond the two sockets.
// Persistence collaborators are nil-tolerant; a nil collaborator turns
// that finalization step into a logged skip.
type Dependencies struct {
	Upstream     upstream.Config
	MetadataWait time.Duration
	SaveAudio    bool

	Transcripts repositories.TranscriptRepository
	Grader      repositories.Grader
	Audio       AudioSaver
}

// Coordinator owns one relayed session end to end: the client pumps,
// the upstream link, the handshake gate, audio assembly, and close-time
// finalization.
type Coordinator struct {
	session   *entities.Session
	config    *assessments.Config
	deps      Dependencies
	conn      *websocket.Conn
	send      chan WriteData
	assembler *audio.Assembler
	gate      *HandshakeGate
	logger    *zap.Logger

	stateMu sync.Mutex
	state   State

	// queueMu guards the pre-upstream message queue and the upstream
	// client pointer. Messages received before the upstream link is
	// writable are queued and drained in arrival order.
	queueMu      sync.Mutex
	queue        [][]byte
	upstreamOpen bool
	up           *upstream.Client

	// sessionMu guards session fields written by the pump goroutines
	// and read during finalization.
	sessionMu sync.Mutex

	done      chan struct{}
	closeOnce sync.Once
	onClose   func(*Coordinator)
}

// NewCoordinator creates the session state for one accepted client
// connection. onClose fires once after finalization completes.
func NewCoordinator(conn *websocket.Conn, config *assessments.Config, deps Dependencies, logger *zap.Logger, onClose func(*Coordinator)) *Coordinator {
	session := entities.NewSession(config.Kind)
	logger = logger.With(zap.String("session_id", session.ID), zap.String("kind", config.Kind))

	c := &Coordinator{
		session:   session,
		config:    config,
		deps:      deps,
		conn:      conn,
		send:      make(chan WriteData, 256),
		assembler: audio.NewAssembler(logger),
		logger:    logger,
		state:     StateAccepted,
		done:      make(chan struct{}),
		onClose:   onClose,
	}
	c.gate = NewHandshakeGate(deps.MetadataWait, c.sendOpeningTurn, logger)
	return c
}

// Session exposes the session state, used by tests and the owning relay.
func (c *Coordinator) Session() *entities.Session {
	return c.session
}

// State reports the current lifecycle position.
func (c *Coordinator) State() State {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	return c.state
}

func (c *Coordinator) setState(s State) {
	c.stateMu.Lock()
	c.state = s
	c.stateMu.Unlock()
	c.logger.Debug("Session state changed", zap.String("state", string(s)))
}

// Run starts the client pumps, dials upstream, configures the session
// and drains any messages queued while connecting. It returns once the
// upstream link is live; the pumps keep the session running after that.
func (c *Coordinator) Run() {
	go c.writePump()
	go c.readPump()

	c.setState(StateUpstreamConnecting)
	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()

	up, err := upstream.Dial(ctx, c.deps.Upstream, c.logger)
	if err != nil {
		c.logger.Error("Failed to connect upstream", zap.Error(err))
		c.sendRelayError("upstream_unavailable", "Failed to connect to the assessment service")
		c.shutdown()
		return
	}

	c.queueMu.Lock()
	c.up = up
	c.queueMu.Unlock()

	c.setState(StateUpstreamConnected)
	up.Start(c.handleUpstreamEvent, c.handleUpstreamClose)

	c.setState(StateConfiguring)
	if err := up.SendEvent(map[string]any{
		"type":    upstream.EventSessionUpdate,
		"session": c.config.SessionPayload(),
	}); err != nil {
		c.logger.Error("Failed to send session configuration", zap.Error(err))
		c.shutdown()
		return
	}

	c.drainQueue()
}

// drainQueue replays queued client messages in arrival order, then
// flips the session into pass-through mode. Pass-through is only
// enabled once the queue is observed empty, so a message arriving
// mid-drain lands behind the queue and cannot overtake it.
func (c *Coordinator) drainQueue() {
	var drained int
	for {
		c.queueMu.Lock()
		if len(c.queue) == 0 {
			c.upstreamOpen = true
			c.queueMu.Unlock()
			break
		}
		raw := c.queue[0]
		c.queue = c.queue[1:]
		c.queueMu.Unlock()

		c.processClientEvent(raw)
		drained++
	}
	if drained > 0 {
		c.logger.Info("Drained queued client messages", zap.Int("count", drained))
	}
}

func (c *Coordinator) upstreamClient() *upstream.Client {
	c.queueMu.Lock()
	defer c.queueMu.Unlock()
	return c.up
}

// readPump pumps messages from the client connection toward upstream.
func (c *Coordinator) readPump() {
	defer func() {
		c.shutdown()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Error("WebSocket error", zap.Error(err))
			}
			break
		}

		c.queueMu.Lock()
		if !c.upstreamOpen {
			c.queue = append(c.queue, message)
			c.queueMu.Unlock()
			continue
		}
		c.queueMu.Unlock()

		c.processClientEvent(message)
	}
}

// writePump pumps outbound messages to the client connection.
func (c *Coordinator) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(message.Type, message.Payload); err != nil {
				c.logger.Error("Failed to write message", zap.Error(err))
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			// Flush anything still buffered, the final error event
			// in particular, before the close frame.
			for {
				select {
				case message := <-c.send:
					c.conn.SetWriteDeadline(time.Now().Add(writeWait))
					if err := c.conn.WriteMessage(message.Type, message.Payload); err != nil {
						return
					}
				default:
					c.conn.SetWriteDeadline(time.Now().Add(writeWait))
					c.conn.WriteMessage(websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
					return
				}
			}
		}
	}
}

// enqueueSend hands a payload to the write pump without blocking the
// caller. A full buffer drops the message with a warning.
func (c *Coordinator) enqueueSend(payload []byte) {
	select {
	case c.send <- WriteData{Type: websocket.TextMessage, Payload: payload}:
	case <-c.done:
	default:
		c.logger.Warn("Client send buffer full, dropping message")
	}
}

func (c *Coordinator) sendRelayError(errType, message string) {
	payload, err := json.Marshal(map[string]any{
		"event_id": "relay_error",
		"type":     "error",
		"error": map[string]any{
			"type":    errType,
			"message": message,
		},
	})
	if err != nil {
		return
	}
	c.enqueueSend(payload)
}

// processClientEvent applies the client-to-upstream rules to one
// message: intercept the metadata control event, block session.update,
// accumulate outgoing audio, and forward the rest verbatim.
func (c *Coordinator) processClientEvent(raw []byte) {
	env, err := upstream.ParseEnvelope(raw)
	if err != nil {
		c.logger.Error("Failed to parse client event", zap.Error(err))
		return
	}

	if env.EventID == "userdata.set" {
		c.handleMetadata(raw)
		return
	}

	if env.Type == upstream.EventSessionUpdate {
		c.logger.Info("Blocked client session.update")
		return
	}

	// The recording captures participant audio even when the
	// upstream leg is down or the forward fails.
	switch env.Type {
	case upstream.EventInputAudioAppend:
		if env.Audio != "" {
			c.assembler.Append(entities.RoleUser, env.Audio)
		}
	case upstream.EventInputAudioCommit:
		c.assembler.Flush(entities.RoleUser)
	}

	up := c.upstreamClient()
	if up == nil {
		return
	}
	c.logger.Debug("Relaying client event upstream", zap.String("type", env.Type))
	if err := up.SendRaw(raw); err != nil {
		c.logger.Error("Failed to relay client event", zap.String("type", env.Type), zap.Error(err))
	}
}

/// handleMetadata consumes the userdata.set control event: it never
// reaches upstream. The scoring tool is registered only once metadata
// identifies the participant.
func (c *Coordinator) handleMetadata(raw []byte) {
	var payload struct {
		Userdata entities.Metadata `json:"userdata"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		c.logger.Error("Failed to parse participant metadata", zap.Error(err))
		return
	}

	c.sessionMu.Lock()
	c.session.SetMetadata(&payload.Userdata)
	isDemo := c.session.IsDemo
	c.sessionMu.Unlock()

	c.logger.Info("Participant metadata received",
		zap.String("student_id", payload.Userdata.StudentID),
		zap.String("location", payload.Userdata.Location),
		zap.Bool("demo_mode", isDemo))

	if up := c.upstreamClient(); up != nil {
		if err := up.SendEvent(map[string]any{
			"type": upstream.EventSessionUpdate,
			"session": map[string]any{
				"tools": []any{c.config.ToolDefinition()},
			},
		}); err != nil {
			c.logger.Error("Failed to register scoring tool", zap.Error(err))
		}
	}

	c.gate.MarkMetadataSettled()
}

// handleUpstreamEvent applies the upstream-to-client rules to one
// event: tool-call machinery and session events are held back, audio
// and transcript payloads are captured, everything else is forwarded
// verbatim in arrival order.
func (c *Coordinator) handleUpstreamEvent(env upstream.Envelope) {
	t := env.Type

	if strings.HasPrefix(t, upstream.PrefixFunctionCallArguments) {
		c.logger.Debug("Skipping function call event", zap.String("type", t))
		return
	}

	if strings.HasPrefix(t, upstream.PrefixResponseOutputItem) && env.Item != nil {
		switch env.Item.Type {
		case upstream.ItemTypeFunctionCall:
			if t == upstream.EventResponseOutputItemDone {
				go c.executeToolCall(*env.Item)
			}
			return
		case upstream.ItemTypeFunctionCallOutput:
			return
		}
	}

	if strings.HasPrefix(t, upstream.PrefixConversationItem) && env.Item != nil {
		switch env.Item.Type {
		case upstream.ItemTypeFunctionCall:
			if env.Item.Name == "assess_answers" {
				c.sessionMu.Lock()
				c.session.ToolAssessmentTriggered = true
				c.sessionMu.Unlock()
			}
			return
		case upstream.ItemTypeFunctionCallOutput:
			return
		}
	}

	if strings.HasPrefix(t, upstream.PrefixSession) {
		if t == upstream.EventSessionUpdated {
			c.logger.Info("Upstream session configured")
			c.gate.MarkUpstreamReady()
		}
		return
	}

	switch t {
	case upstream.EventResponseAudioDelta:
		if env.Delta != "" {
			c.assembler.Append(entities.RoleAssistant, env.Delta)
		}
	case upstream.EventResponseAudioDone:
		c.assembler.Flush(entities.RoleAssistant)
	case upstream.EventInputTranscriptionCompleted:
		c.sessionMu.Lock()
		c.session.AppendTranscript(entities.RoleUser, env.Transcript)
		c.sessionMu.Unlock()
	case upstream.EventResponseTranscriptDone:
		c.sessionMu.Lock()
		c.session.AppendTranscript(entities.RoleAssistant, env.Transcript)
		c.sessionMu.Unlock()
	}

	c.enqueueSend(env.Raw)
}

// handleUpstreamClose fires once when the upstream link drops. The
// client is told before being closed so it can surface the failure.
func (c *Coordinator) handleUpstreamClose(err error) {
	if c.State() == StateClosing || c.State() == StateClosed {
		return
	}
	if err != nil {
		c.logger.Error("Upstream connection lost", zap.Error(err))
	} else {
		c.logger.Info("Connection closed by upstream")
	}
	c.sendRelayError("connection_closed", "Connection closed by upstream")
	c.shutdown()
}

// sendOpeningTurn releases the first conversational turn and marks the
// session active. Invoked exactly once by the handshake gate.
func (c *Coordinator) sendOpeningTurn() {
	c.setState(StateActive)

	up := c.upstreamClient()
	if up == nil {
		return
	}
	c.logger.Info("Sending opening turn")

	if err := up.SendEvent(map[string]any{
		"type": upstream.EventConversationItemCreate,
		"item": map[string]any{
			"type": "message",
			"role": "user",
			"content": []map[string]any{
				{"type": "input_text", "text": "Kia ora!"},
			},
		},
	}); err != nil {
		c.logger.Error("Failed to send opening message", zap.Error(err))
		return
	}
	if err := up.SendEvent(map[string]any{"type": upstream.EventResponseCreate}); err != nil {
		c.logger.Error("Failed to request opening response", zap.Error(err))
	}
}

// executeToolCall runs the assess_answers scoring call and reports the
// outcome back upstream so the agent can deliver feedback.
func (c *Coordinator) executeToolCall(item upstream.Item) {
	if item.Name != "assess_answers" {
		c.logger.Warn("Ignoring unknown tool call", zap.String("name", item.Name))
		return
	}

	// The grader runs off the upstream read loop, so it gets a copy
	// of the session taken under the lock rather than the live one.
	c.sessionMu.Lock()
	c.session.ToolAssessmentTriggered = true
	snapshot := *c.session
	c.sessionMu.Unlock()

	var answers map[string]string
	if err := json.Unmarshal([]byte(item.Arguments), &answers); err != nil {
		c.logger.Error("Failed to parse tool call arguments", zap.Error(err))
		c.sendToolOutput(item.CallID, `{"error":"invalid arguments"}`)
		return
	}

	output := `{"ok":true}`
	if c.deps.Grader == nil {
		c.logger.Warn("No grader configured, acknowledging tool call without scoring")
	} else {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		result, err := c.deps.Grader.AssessAnswers(ctx, &snapshot, answers)
		if err != nil {
			c.logger.Error("Scoring failed", zap.Error(err))
			output = `{"error":"assessment failed"}`
		} else if encoded, err := json.Marshal(result); err == nil {
			output = string(encoded)
		}
	}

	c.sendToolOutput(item.CallID, output)
}

func (c *Coordinator) sendToolOutput(callID, output string) {
	up := c.upstreamClient()
	if up == nil {
		return
	}
	if err := up.SendEvent(map[string]any{
		"type": upstream.EventConversationItemCreate,
		"item": map[string]any{
			"type":    upstream.ItemTypeFunctionCallOutput,
			"call_id": callID,
			"output":  output,
		},
	}); err != nil {
		c.logger.Error("Failed to send tool output", zap.Error(err))
		return
	}
	if err := up.SendEvent(map[string]any{"type": upstream.EventResponseCreate}); err != nil {
		c.logger.Error("Failed to request response after tool output", zap.Error(err))
	}
}

// shutdown tears the session down exactly once: gate disarmed, upstream
// closed, client connection released, artifacts finalized. The close
// signal goes out before finalization; persistence must not hold the
// peer's socket open.
func (c *Coordinator) shutdown() {
	c.closeOnce.Do(func() {
		c.setState(StateClosing)
		c.gate.Stop()

		if up := c.upstreamClient(); up != nil {
			up.Close()
		}

		close(c.done)

		c.finalize()
		c.setState(StateClosed)

		if c.onClose != nil {
			c.onClose(c)
		}
	})
}

// finalize produces the session's durable artifacts. Each step is
// isolated: a failure is logged and the remaining steps still run. Demo
// sessions skip persistence entirely.
func (c *Coordinator) finalize() {
	c.sessionMu.Lock()
	isDemo := c.session.IsDemo
	assessed := c.session.ToolAssessmentTriggered
	hasMetadata := c.session.Metadata != nil
	transcript := make([]entities.TranscriptEntry, len(c.session.Transcript))
	copy(transcript, c.session.Transcript)
	c.sessionMu.Unlock()

	clips := c.assembler.Clips()
	c.logger.Info("Session closed",
		zap.Int("transcript_entries", len(transcript)),
		zap.Int("audio_clips", len(clips)),
		zap.Bool("demo_mode", isDemo))

	if isDemo {
		c.logger.Info("Demo mode active, skipping all data saving")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), finalizeTimeout)
	defer cancel()

	if !assessed && c.deps.Grader != nil && len(transcript) > 0 {
		if _, err := c.deps.Grader.AssessTranscript(ctx, c.session, transcript); err != nil {
			c.logger.Error("Fallback assessment failed", zap.Error(err))
		}
	}

	if !hasMetadata {
		c.logger.Warn("No participant metadata available, skipping transcript save")
	} else if c.deps.Transcripts != nil {
		if err := c.deps.Transcripts.Create(ctx, c.session); err != nil {
			c.logger.Error("Failed to save transcript", zap.Error(err))
		}
	}

	if len(clips) == 0 {
		c.logger.Warn("No audio collected during session")
	} else if !c.deps.SaveAudio {
		c.logger.Info("Audio saving disabled, skipping audio persistence")
	} else if c.deps.Audio != nil {
		if err := c.deps.Audio.Save(ctx, c.session, clips); err != nil {
			c.logger.Error("Failed to save session audio", zap.Error(err))
		}
	}
}
