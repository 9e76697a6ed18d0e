package assessments

import (
	"strings"
	"testing"
)

func TestCatalogueLookup(t *testing.T) {
	c := NewCatalogue()

	for _, kind := range []string{"dtl", "fruition", "fruition-checklist"} {
		cfg, ok := c.Lookup(kind)
		if !ok {
			t.Errorf("Expected kind %q to be registered", kind)
			continue
		}
		if cfg.Kind != kind {
			t.Errorf("Expected config kind %q, got %q", kind, cfg.Kind)
		}
		if len(cfg.Questions) == 0 {
			t.Errorf("Kind %q has no questions", kind)
		}
	}

	if _, ok := c.Lookup("unknown"); ok {
		t.Error("Unknown kind should not resolve")
	}
}

func TestInstructionsContainAllQuestions(t *testing.T) {
	c := NewCatalogue()
	cfg, _ := c.Lookup("dtl")

	instructions := cfg.Instructions()
	if !strings.Contains(instructions, cfg.Preamble) {
		t.Error("Instructions should embed the preamble")
	}
	for _, q := range cfg.Questions {
		if !strings.Contains(instructions, q.Text) {
			t.Errorf("Instructions missing question %s", q.ID)
		}
	}
	for _, q := range cfg.Questions {
		if !strings.Contains(instructions, q.Guidance) {
			t.Errorf("Instructions missing guidance for question %s", q.ID)
		}
	}
}

func TestToolDefinitionCoversAllQuestions(t *testing.T) {
	c := NewCatalogue()
	cfg, _ := c.Lookup("dtl")

	def := cfg.ToolDefinition()
	if def["name"] != "assess_answers" {
		t.Errorf("Expected tool name assess_answers, got %v", def["name"])
	}

	params := def["parameters"].(map[string]any)
	properties := params["properties"].(map[string]any)
	required := params["required"].([]string)

	if len(properties) != len(cfg.Questions) {
		t.Errorf("Expected %d parameters, got %d", len(cfg.Questions), len(properties))
	}
	if len(required) != len(cfg.Questions) {
		t.Errorf("Expected %d required parameters, got %d", len(cfg.Questions), len(required))
	}
	for _, q := range cfg.Questions {
		if _, ok := properties[q.AnswerKey()]; !ok {
			t.Errorf("Missing tool parameter %s", q.AnswerKey())
		}
	}
}

func TestAnswerKey(t *testing.T) {
	q := Question{ID: "q1b"}
	if got := q.AnswerKey(); got != "answerQ1B" {
		t.Errorf("Expected answerQ1B, got %s", got)
	}
}

func TestSessionPayload(t *testing.T) {
	c := NewCatalogue()
	cfg, _ := c.Lookup("fruition")

	payload := cfg.SessionPayload()
	if payload["voice"] != "shimmer" {
		t.Errorf("Expected voice shimmer, got %v", payload["voice"])
	}
	if payload["tool_choice"] != "auto" {
		t.Errorf("Expected tool_choice auto, got %v", payload["tool_choice"])
	}
	if payload["instructions"] == "" {
		t.Error("Session payload should carry instructions")
	}
}
