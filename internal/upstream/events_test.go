package upstream

import (
	"testing"
)

func TestParseEnvelope_KeepsRawBytes(t *testing.T) {
	raw := `{"type":"response.text.delta","delta":"hi","vendor_extra":true}`

	env, err := ParseEnvelope([]byte(raw))
	if err != nil {
		t.Fatalf("ParseEnvelope failed: %v", err)
	}
	if env.Type != "response.text.delta" {
		t.Errorf("Expected type response.text.delta, got %s", env.Type)
	}
	if env.Delta != "hi" {
		t.Errorf("Expected delta hi, got %s", env.Delta)
	}
	if string(env.Raw) != raw {
		t.Errorf("Expected raw bytes preserved, got %s", env.Raw)
	}
}

func TestParseEnvelope_DecodesItem(t *testing.T) {
	raw := `{"type":"response.output_item.done","item":{"type":"function_call","name":"assess_answers","call_id":"call_1","arguments":"{\"answerQ1\":\"yes\"}"}}`

	env, err := ParseEnvelope([]byte(raw))
	if err != nil {
		t.Fatalf("ParseEnvelope failed: %v", err)
	}
	if env.Item == nil {
		t.Fatal("Expected item to be decoded")
	}
	if env.Item.Type != ItemTypeFunctionCall {
		t.Errorf("Expected function_call item, got %s", env.Item.Type)
	}
	if env.Item.Name != "assess_answers" {
		t.Errorf("Expected assess_answers, got %s", env.Item.Name)
	}
	if env.Item.CallID != "call_1" {
		t.Errorf("Expected call_1, got %s", env.Item.CallID)
	}
}

func TestParseEnvelope_RejectsMalformed(t *testing.T) {
	if _, err := ParseEnvelope([]byte(`not json`)); err == nil {
		t.Error("Expected error for malformed JSON")
	}
	if _, err := ParseEnvelope([]byte(`{"delta":"no type"}`)); err == nil {
		t.Error("Expected error for event without type")
	}
}
