package repositories

import (
	"context"

	"github.com/koreroai/server/domain/entities"
)

// TranscriptRepository persists one transcript row per session.
type TranscriptRepository interface {
	Create(ctx context.Context, session *entities.Session) error
}

// AssessmentRepository persists graded answers, one row per question.
type AssessmentRepository interface {
	Create(ctx context.Context, courseID string, session *entities.Session, answers map[string]string, result *entities.AssessmentResult) error
}

// MaterialRepository stores course material chunks and finds the ones
// nearest to a query embedding, optionally scoped to a module.
type MaterialRepository interface {
	Create(ctx context.Context, material *entities.Material, embedding []float32) error
	Search(ctx context.Context, embedding []float32, module string, limit int) ([]*entities.Material, error)
}

// ObjectStore mirrors finished artifacts to remote object storage.
type ObjectStore interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
}
