package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/koreroai/server/domain/entities"
	"github.com/koreroai/server/domain/repositories"
)

type transcriptRepository struct {
	db *gorm.DB
}

// NewTranscriptRepository creates the transcript persistence adapter.
func NewTranscriptRepository(db *gorm.DB) repositories.TranscriptRepository {
	return &transcriptRepository{db: db}
}

func (r *transcriptRepository) Create(ctx context.Context, session *entities.Session) error {
	if err := session.Validate(); err != nil {
		return err
	}
	if session.Metadata == nil {
		return fmt.Errorf("session %s has no participant metadata", session.ID)
	}

	transcriptData, err := json.Marshal(session.Transcript)
	if err != nil {
		return fmt.Errorf("failed to encode transcript: %w", err)
	}
	deviceInfo, err := json.Marshal(session.Metadata.DeviceInfo)
	if err != nil {
		return fmt.Errorf("failed to encode device info: %w", err)
	}

	row := &Transcript{
		SessionID:      session.ID,
		UserID:         orDefault(session.Metadata.StudentID, "none"),
		StudentName:    orDefault(session.Metadata.StudentName, "none"),
		Location:       orDefault(session.Metadata.Location, "not specified"),
		TranscriptData: datatypes.JSON(transcriptData),
		DeviceInfo:     datatypes.JSON(deviceInfo),
	}

	return r.db.WithContext(ctx).Create(row).Error
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
