// Package upstream maintains the outbound realtime connection to the
// conversational-AI endpoint. The relay trusts the vendor wire format
// and only decodes the event-type discriminators and payload fields it
// needs for buffering, filtering and gating decisions.
package upstream

import (
	"encoding/json"
	"fmt"
)

// Event types the relay inspects. Anything else passes through opaque.
const (
	EventSessionUpdated                = "session.updated"
	EventResponseAudioDelta            = "response.audio.delta"
	EventResponseAudioDone             = "response.audio.done"
	EventInputTranscriptionCompleted   = "conversation.item.input_audio_transcription.completed"
	EventResponseTranscriptDone        = "response.audio_transcript.done"
	EventError                         = "error"
	EventSessionUpdate                 = "session.update"
	EventInputAudioAppend              = "input_audio_buffer.append"
	EventInputAudioCommit              = "input_audio_buffer.commit"
	EventConversationItemCreate        = "conversation.item.create"
	EventResponseCreate                = "response.create"
	EventResponseOutputItemDone        = "response.output_item.done"
	PrefixFunctionCallArguments        = "response.function_call_arguments"
	PrefixResponseOutputItem           = "response.output_item"
	PrefixConversationItem             = "conversation.item"
	PrefixSession                      = "session"
	ItemTypeFunctionCall               = "function_call"
	ItemTypeFunctionCallOutput         = "function_call_output"
)

// Item is the embedded conversation/output item of an event, decoded
// only far enough to recognise tool-call machinery.
type Item struct {
	ID        string `json:"id,omitempty"`
	Type      string `json:"type,omitempty"`
	Name      string `json:"name,omitempty"`
	CallID    string `json:"call_id,omitempty"`
	Arguments string `json:"arguments,omitempty"`
}

// ErrorDetail carries the error body of an upstream error event.
type ErrorDetail struct {
	Type    string `json:"type,omitempty"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// Envelope is a partially decoded protocol event. Raw holds the exact
// bytes received so pass-through forwarding stays verbatim.
type Envelope struct {
	Type       string       `json:"type"`
	EventID    string       `json:"event_id,omitempty"`
	Delta      string       `json:"delta,omitempty"`
	Audio      string       `json:"audio,omitempty"`
	Transcript string       `json:"transcript,omitempty"`
	Item       *Item        `json:"item,omitempty"`
	Error      *ErrorDetail `json:"error,omitempty"`

	Raw []byte `json:"-"`
}

// ParseEnvelope decodes the inspected fields of a wire event, keeping
// the raw bytes attached.
func ParseEnvelope(raw []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Envelope{}, fmt.Errorf("failed to parse event: %w", err)
	}
	if env.Type == "" {
		return Envelope{}, fmt.Errorf("event missing type field")
	}
	env.Raw = raw
	return env, nil
}
