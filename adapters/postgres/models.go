package postgres

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

// Transcript is one saved session transcript row.
type Transcript struct {
	ID             uint           `gorm:"primaryKey"`
	SessionID      string         `gorm:"type:uuid;index;not null"`
	UserID         string         `gorm:"not null"`
	StudentName    string         `gorm:"not null"`
	Location       string         `gorm:"not null"`
	TranscriptData datatypes.JSON `gorm:"not null"`
	DeviceInfo     datatypes.JSON
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}

func (Transcript) TableName() string {
	return "transcript"
}

// Assessment is one graded answer, one row per question per session.
type Assessment struct {
	ID         uint   `gorm:"primaryKey"`
	CourseID   string `gorm:"index;not null"`
	UserID     string `gorm:"index;not null"`
	UserName   string
	SessionID  string `gorm:"type:uuid;index;not null"`
	QuestionID string `gorm:"not null"`
	Answer     string `gorm:"type:text"`
	Grade      string `gorm:"not null"`
	Feedback   string `gorm:"type:text"`
	Confidence float64
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (Assessment) TableName() string {
	return "assessment"
}

// Material is one course material chunk with its embedding.
type Material struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title     string          `gorm:"not null"`
	Content   string          `gorm:"type:text;not null"`
	Module    string          `gorm:"index"`
	Type      string
	Embedding pgvector.Vector `gorm:"type:vector(768)"` // Gemini text-embedding-004 uses 768 dimensions
	CreatedAt time.Time       `gorm:"autoCreateTime"`
}

func (Material) TableName() string {
	return "material"
}
