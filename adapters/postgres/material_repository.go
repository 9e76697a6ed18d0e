package postgres

import (
	"context"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"github.com/koreroai/server/domain/entities"
	"github.com/koreroai/server/domain/repositories"
)

type materialRepository struct {
	db *gorm.DB
}

// NewMaterialRepository creates the course material adapter.
func NewMaterialRepository(db *gorm.DB) repositories.MaterialRepository {
	return &materialRepository{db: db}
}

func (r *materialRepository) Create(ctx context.Context, material *entities.Material, embedding []float32) error {
	row := &Material{
		Title:     material.Title,
		Content:   material.Content,
		Module:    material.Module,
		Type:      material.Type,
		Embedding: pgvector.NewVector(embedding),
	}
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *materialRepository) Search(ctx context.Context, embedding []float32, module string, limit int) ([]*entities.Material, error) {
	if limit <= 0 {
		limit = 5
	}

	query := r.db.WithContext(ctx).Model(&Material{})
	if module != "" {
		query = query.Where("module = ?", module)
	}

	var rows []*Material
	// pgvector cosine distance: embedding <=> query vector
	err := query.
		Order(gorm.Expr("embedding <=> ?", pgvector.NewVector(embedding))).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	materials := make([]*entities.Material, len(rows))
	for i, row := range rows {
		materials[i] = &entities.Material{
			Title:   row.Title,
			Content: row.Content,
			Module:  row.Module,
			Type:    row.Type,
		}
	}
	return materials, nil
}
