package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/koreroai/server/domain/entities"
	"github.com/koreroai/server/domain/repositories"
)

type assessmentRepository struct {
	db *gorm.DB
}

// NewAssessmentRepository creates the assessment persistence adapter.
func NewAssessmentRepository(db *gorm.DB) repositories.AssessmentRepository {
	return &assessmentRepository{db: db}
}

func (r *assessmentRepository) Create(ctx context.Context, courseID string, session *entities.Session, answers map[string]string, result *entities.AssessmentResult) error {
	userID := "none"
	userName := "none"
	if session.Metadata != nil {
		userID = orDefault(session.Metadata.StudentID, "none")
		userName = orDefault(session.Metadata.StudentName, "none")
	}

	rows := make([]*Assessment, 0, len(result.Questions))
	for _, q := range result.Questions {
		rows = append(rows, &Assessment{
			CourseID:   courseID,
			UserID:     userID,
			UserName:   userName,
			SessionID:  session.ID,
			QuestionID: q.QuestionID,
			Answer:     answers[q.QuestionID],
			Grade:      q.Grade,
			Feedback:   q.Feedback,
			Confidence: q.Confidence,
		})
	}
	if len(rows) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).Create(rows).Error
}
