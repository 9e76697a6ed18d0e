package repositories

import (
	"context"

	"github.com/koreroai/server/domain/entities"
)

// Grader turns collected answers into a per-question grade+feedback
// structure. AssessTranscript re-derives the same structure from a raw
// transcript when the live scoring tool call never fired.
type Grader interface {
	AssessAnswers(ctx context.Context, session *entities.Session, answers map[string]string) (*entities.AssessmentResult, error)
	AssessTranscript(ctx context.Context, session *entities.Session, transcript []entities.TranscriptEntry) (*entities.AssessmentResult, error)
}
