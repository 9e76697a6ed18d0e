// Package grading scores collected assessment answers with Gemini,
// using semantic search over course materials as grounding context.
package grading

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/koreroai/server/assessments"
	"github.com/koreroai/server/domain/entities"
	"github.com/koreroai/server/domain/repositories"
)

const (
	gradingModel   = "gemini-2.0-flash"
	embeddingModel = "text-embedding-004"
)

// Gemini implements the grader on the Gemini API. Materials and results
// repositories may be nil; grading then runs without grounding context
// and without persistence.
type Gemini struct {
	client    *genai.Client
	catalogue *assessments.Catalogue
	materials repositories.MaterialRepository
	results   repositories.AssessmentRepository
	logger    *zap.Logger
}

// NewGemini creates a Gemini-backed grader.
func NewGemini(ctx context.Context, apiKey string, catalogue *assessments.Catalogue, materials repositories.MaterialRepository, results repositories.AssessmentRepository, logger *zap.Logger) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Gemini{
		client:    client,
		catalogue: catalogue,
		materials: materials,
		results:   results,
		logger:    logger,
	}, nil
}

func resultSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"questions": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"questionId": {Type: genai.TypeString},
						"grade":      {Type: genai.TypeString, Enum: []string{entities.GradeNotYetCompetent, entities.GradeCompetent}},
						"feedback":   {Type: genai.TypeString},
						"confidence": {Type: genai.TypeNumber},
					},
					Required: []string{"questionId", "grade", "feedback", "confidence"},
				},
			},
		},
		Required: []string{"questions"},
	}
}

// AssessAnswers grades one set of collected answers. answers is keyed
// by tool parameter name, e.g. "answerQ1".
func (g *Gemini) AssessAnswers(ctx context.Context, session *entities.Session, answers map[string]string) (*entities.AssessmentResult, error) {
	cfg, ok := g.catalogue.Lookup(session.Kind)
	if !ok {
		return nil, fmt.Errorf("unknown assessment kind %q", session.Kind)
	}

	var prompt strings.Builder
	prompt.WriteString(cfg.GradingPrompt())
	prompt.WriteString("\n\nThe student's answers are:\n")

	byQuestion := make(map[string]string, len(cfg.Questions))
	for _, q := range cfg.Questions {
		answer := answers[q.AnswerKey()]
		byQuestion[q.ID] = answer
		fmt.Fprintf(&prompt, "%s: %s\n", q.ID, answer)

		materials := g.searchMaterials(ctx, q)
		if len(materials) > 0 {
			fmt.Fprintf(&prompt, "Relevant course materials for %s:\n", q.ID)
			for _, m := range materials {
				fmt.Fprintf(&prompt, "- [%s] %s\n", m.Title, m.Content)
			}
		}
	}

	resp, err := g.client.Models.GenerateContent(ctx, gradingModel,
		[]*genai.Content{genai.NewContentFromText(prompt.String(), genai.RoleUser)},
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   resultSchema(),
		})
	if err != nil {
		return nil, fmt.Errorf("grading request failed: %w", err)
	}

	var result entities.AssessmentResult
	if err := json.Unmarshal([]byte(resp.Text()), &result); err != nil {
		return nil, fmt.Errorf("failed to parse grading response: %w", err)
	}

	g.logger.Info("Assessment graded",
		zap.String("session_id", session.ID),
		zap.String("course_id", cfg.CourseID),
		zap.Int("questions", len(result.Questions)))

	if g.results != nil && !session.IsDemo {
		if err := g.results.Create(ctx, cfg.CourseID, session, byQuestion, &result); err != nil {
			g.logger.Error("Failed to save assessment results", zap.Error(err))
		}
	}

	return &result, nil
}

// AssessTranscript extracts the student's answers from a raw transcript
// and grades them. Used when the live scoring tool call never fired.
func (g *Gemini) AssessTranscript(ctx context.Context, session *entities.Session, transcript []entities.TranscriptEntry) (*entities.AssessmentResult, error) {
	cfg, ok := g.catalogue.Lookup(session.Kind)
	if !ok {
		return nil, fmt.Errorf("unknown assessment kind %q", session.Kind)
	}

	answers, err := g.extractAnswers(ctx, cfg, transcript)
	if err != nil {
		return nil, err
	}

	g.logger.Info("Extracted answers from transcript",
		zap.String("session_id", session.ID),
		zap.Int("answers", len(answers)))

	return g.AssessAnswers(ctx, session, answers)
}

func (g *Gemini) extractAnswers(ctx context.Context, cfg *assessments.Config, transcript []entities.TranscriptEntry) (map[string]string, error) {
	encoded, err := json.Marshal(transcript)
	if err != nil {
		return nil, fmt.Errorf("failed to encode transcript: %w", err)
	}

	var prompt strings.Builder
	prompt.WriteString("You are given the transcript of an oral assessment. Extract the student's final answer to each of the following questions. If a question was not answered, use an empty string.\n\nThe questions are:\n")
	properties := make(map[string]*genai.Schema, len(cfg.Questions))
	required := make([]string, 0, len(cfg.Questions))
	for _, q := range cfg.Questions {
		fmt.Fprintf(&prompt, "%s (%s): %s\n", q.ID, q.AnswerKey(), q.Text)
		properties[q.AnswerKey()] = &genai.Schema{Type: genai.TypeString}
		required = append(required, q.AnswerKey())
	}
	prompt.WriteString("\nThe transcript is:\n")
	prompt.Write(encoded)

	resp, err := g.client.Models.GenerateContent(ctx, gradingModel,
		[]*genai.Content{genai.NewContentFromText(prompt.String(), genai.RoleUser)},
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema: &genai.Schema{
				Type:       genai.TypeObject,
				Properties: properties,
				Required:   required,
			},
		})
	if err != nil {
		return nil, fmt.Errorf("answer extraction failed: %w", err)
	}

	var answers map[string]string
	if err := json.Unmarshal([]byte(resp.Text()), &answers); err != nil {
		return nil, fmt.Errorf("failed to parse extracted answers: %w", err)
	}
	return answers, nil
}

// searchMaterials finds the course material chunks nearest to the
// question's search query. Search failures degrade to ungrounded
// grading rather than failing the assessment.
func (g *Gemini) searchMaterials(ctx context.Context, q assessments.Question) []*entities.Material {
	if g.materials == nil || q.SearchQuery == "" {
		return nil
	}

	embedding, err := g.embed(ctx, q.SearchQuery)
	if err != nil {
		g.logger.Error("Failed to embed search query",
			zap.String("question_id", q.ID),
			zap.Error(err))
		return nil
	}

	materials, err := g.materials.Search(ctx, embedding, q.SearchModule, q.SearchLimit)
	if err != nil {
		g.logger.Error("Material search failed",
			zap.String("question_id", q.ID),
			zap.Error(err))
		return nil
	}
	return materials
}

func (g *Gemini) embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := g.client.Models.EmbedContent(ctx, embeddingModel,
		[]*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}, nil)
	if err != nil {
		return nil, err
	}
	if len(resp.Embeddings) == 0 {
		return nil, fmt.Errorf("empty embedding response")
	}
	return resp.Embeddings[0].Values, nil
}
