package adapters

import (
	"encoding/json"
	"fmt"
	"time"

	"resume_optimizer/internal/feature/resumeanalysis/domain/entity"
)

// AnalysisModel is the GORM model for the analyses table.
// List fields are stored as JSON arrays in text columns so the table works on SQLite and PostgreSQL alike.
type AnalysisModel struct {
	ID               string    `gorm:"primaryKey;size:36"`
	CreatedAt        time.Time `gorm:"index;not null"`
	ResumeName       string    `gorm:"type:text"`
	Provider         string    `gorm:"size:32"`
	MatchPercentage  string    `gorm:"type:text"`
	GapAnalysis      string    `gorm:"type:text"`
	MissingKeywords  string    `gorm:"type:text"`
	RewrittenSummary string    `gorm:"type:text"`
}

// TableName returns the table name for GORM.
func (AnalysisModel) TableName() string {
	return "analyses"
}

// ToEntity converts the GORM model to a domain entity.
func (m *AnalysisModel) ToEntity() (*entity.AnalysisRecord, error) {
	gaps, err := decodeList(m.GapAnalysis)
	if err != nil {
		return nil, fmt.Errorf("failed to decode gap_analysis of %s: %w", m.ID, err)
	}
	keywords, err := decodeList(m.MissingKeywords)
	if err != nil {
		return nil, fmt.Errorf("failed to decode missing_keywords of %s: %w", m.ID, err)
	}
	return &entity.AnalysisRecord{
		ID:         m.ID,
		CreatedAt:  m.CreatedAt,
		ResumeName: m.ResumeName,
		Model:      m.Provider,
		Result: entity.AnalysisResult{
			MatchPercentage:  m.MatchPercentage,
			GapAnalysis:      gaps,
			MissingKeywords:  keywords,
			RewrittenSummary: m.RewrittenSummary,
		},
	}, nil
}

// AnalysisModelFromEntity converts a domain entity to a GORM model.
func AnalysisModelFromEntity(r *entity.AnalysisRecord) (*AnalysisModel, error) {
	gaps, err := encodeList(r.Result.GapAnalysis)
	if err != nil {
		return nil, err
	}
	keywords, err := encodeList(r.Result.MissingKeywords)
	if err != nil {
		return nil, err
	}
	return &AnalysisModel{
		ID:               r.ID,
		CreatedAt:        r.CreatedAt,
		ResumeName:       r.ResumeName,
		Provider:         r.Model,
		MatchPercentage:  r.Result.MatchPercentage,
		GapAnalysis:      gaps,
		MissingKeywords:  keywords,
		RewrittenSummary: r.Result.RewrittenSummary,
	}, nil
}

func encodeList(items []string) (string, error) {
	if items == nil {
		items = []string{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeList(s string) ([]string, error) {
	out := []string{}
	if s == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, err
	}
	return out, nil
}
