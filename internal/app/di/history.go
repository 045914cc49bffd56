package di

import (
	"gorm.io/gorm"

	"resume_optimizer/internal/feature/resumeanalysis/adapters"
	"resume_optimizer/internal/feature/resumeanalysis/usecase"
)

// NewHistoryRepository creates a HistoryRepository implementation.
// If no database is configured it returns nil, which disables history.
func NewHistoryRepository(db *gorm.DB) usecase.HistoryRepository {
	if db == nil {
		return nil
	}
	return adapters.NewAnalysisGorm(db)
}
