// Package adapters provides repository implementations for the resumeanalysis feature.
package adapters

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"resume_optimizer/internal/feature/resumeanalysis/domain/entity"
	"resume_optimizer/internal/feature/resumeanalysis/usecase"
)

// analysisGorm is a GORM implementation of the HistoryRepository interface.
type analysisGorm struct {
	db *gorm.DB
}

// Compile-time check to ensure analysisGorm implements HistoryRepository.
var _ usecase.HistoryRepository = (*analysisGorm)(nil)

// NewAnalysisGorm creates a new instance of analysisGorm.
func NewAnalysisGorm(db *gorm.DB) *analysisGorm {
	return &analysisGorm{db: db}
}

// Save persists a finished analysis.
func (r *analysisGorm) Save(ctx context.Context, record *entity.AnalysisRecord) error {
	model, err := AnalysisModelFromEntity(record)
	if err != nil {
		return fmt.Errorf("failed to encode analysis: %w", err)
	}
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByID retrieves an analysis by its ID.
func (r *analysisGorm) FindByID(ctx context.Context, id string) (*entity.AnalysisRecord, error) {
	var model AnalysisModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrRecordNotFound
		}
		return nil, err
	}
	return model.ToEntity()
}

// ListRecent returns up to limit analyses, newest first.
func (r *analysisGorm) ListRecent(ctx context.Context, limit int) ([]entity.AnalysisRecord, error) {
	var models []AnalysisModel
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, err
	}

	records := make([]entity.AnalysisRecord, 0, len(models))
	for i := range models {
		rec, err := models[i].ToEntity()
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, nil
}
