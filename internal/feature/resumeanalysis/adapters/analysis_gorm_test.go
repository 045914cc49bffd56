package adapters

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"

	"resume_optimizer/internal/feature/resumeanalysis/domain/entity"
	"resume_optimizer/internal/feature/resumeanalysis/usecase"
)

// setupAnalysisTestDB prepares an in-memory SQLite database for analysis testing.
func setupAnalysisTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to initialize test database")

	err = db.AutoMigrate(&AnalysisModel{})
	require.NoError(t, err, "failed to migrate table")

	return db
}

// newRecord creates an analysis record for testing.
func newRecord(id string, createdAt time.Time) *entity.AnalysisRecord {
	return &entity.AnalysisRecord{
		ID:         id,
		CreatedAt:  createdAt,
		ResumeName: "resume.docx",
		Model:      "gemini",
		Result: entity.AnalysisResult{
			MatchPercentage:  "78%",
			GapAnalysis:      []string{"No cloud experience", "Short tenure"},
			MissingKeywords:  []string{"AWS"},
			RewrittenSummary: "Go engineer focused on APIs.",
		},
	}
}

func TestNewAnalysisGorm(t *testing.T) {
	db := setupAnalysisTestDB(t)

	repo := NewAnalysisGorm(db)

	assert.NotNil(t, repo, "repository is nil")
	assert.NotNil(t, repo.db, "database connection is nil")
}

func TestAnalysisGorm_SaveAndFindByID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		id          string
		setupFunc   func(t *testing.T, repo *analysisGorm)
		wantErr     bool
		expectedErr error
	}{
		{
			name: "success: round trip",
			id:   "11111111-1111-1111-1111-111111111111",
			setupFunc: func(t *testing.T, repo *analysisGorm) {
				err := repo.Save(context.Background(), newRecord("11111111-1111-1111-1111-111111111111", time.Now()))
				require.NoError(t, err)
			},
		},
		{
			name:        "failure: record not found",
			id:          "nonexistent-id",
			wantErr:     true,
			expectedErr: usecase.ErrRecordNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := NewAnalysisGorm(setupAnalysisTestDB(t))
			if tt.setupFunc != nil {
				tt.setupFunc(t, repo)
			}

			found, err := repo.FindByID(context.Background(), tt.id)

			if tt.wantErr {
				assert.Nil(t, found)
				assert.ErrorIs(t, err, tt.expectedErr)
				return
			}
			require.NoError(t, err)
			want := newRecord(tt.id, found.CreatedAt)
			assert.Equal(t, want.Result, found.Result)
			assert.Equal(t, want.ResumeName, found.ResumeName)
			assert.Equal(t, want.Model, found.Model)
		})
	}
}

func TestAnalysisGorm_Save_DuplicateID(t *testing.T) {
	t.Parallel()

	repo := NewAnalysisGorm(setupAnalysisTestDB(t))
	require.NoError(t, repo.Save(context.Background(), newRecord("dup", time.Now())))

	err := repo.Save(context.Background(), newRecord("dup", time.Now()))

	assert.Error(t, err)
}

func TestAnalysisGorm_Save_EmptyLists(t *testing.T) {
	t.Parallel()

	repo := NewAnalysisGorm(setupAnalysisTestDB(t))
	rec := newRecord("empty-lists", time.Now())
	rec.Result.GapAnalysis = nil
	rec.Result.MissingKeywords = nil
	require.NoError(t, repo.Save(context.Background(), rec))

	found, err := repo.FindByID(context.Background(), "empty-lists")

	require.NoError(t, err)
	assert.Equal(t, []string{}, found.Result.GapAnalysis)
	assert.Equal(t, []string{}, found.Result.MissingKeywords)
}

func TestAnalysisGorm_ListRecent(t *testing.T) {
	t.Parallel()

	db := setupAnalysisTestDB(t)
	repo := NewAnalysisGorm(db)

	now := time.Now()
	require.NoError(t, repo.Save(context.Background(), newRecord("oldest", now.Add(-2*time.Hour))))
	require.NoError(t, repo.Save(context.Background(), newRecord("newest", now)))
	require.NoError(t, repo.Save(context.Background(), newRecord("middle", now.Add(-1*time.Hour))))

	records, err := repo.ListRecent(context.Background(), 2)

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "newest", records[0].ID)
	assert.Equal(t, "middle", records[1].ID)
}

func TestAnalysisGorm_FindByID_CorruptRow(t *testing.T) {
	t.Parallel()

	db := setupAnalysisTestDB(t)
	repo := NewAnalysisGorm(db)
	require.NoError(t, db.Create(&AnalysisModel{ID: "corrupt", CreatedAt: time.Now(), GapAnalysis: "not-json"}).Error)

	found, err := repo.FindByID(context.Background(), "corrupt")

	assert.Nil(t, found)
	assert.Error(t, err)
}

// TestAnalysisModel_FreeTextColumns はモデル由来・ユーザー由来の文字列カラムがPostgreSQLでvarchar制限を受けないことを検証します。
func TestAnalysisModel_FreeTextColumns(t *testing.T) {
	t.Parallel()

	s, err := schema.Parse(&AnalysisModel{}, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)

	for _, name := range []string{"ResumeName", "MatchPercentage", "GapAnalysis", "MissingKeywords", "RewrittenSummary"} {
		field := s.LookUpField(name)
		require.NotNil(t, field, name)
		assert.Equal(t, schema.DataType("text"), field.DataType, name)
		assert.Zero(t, field.Size, name)
	}
}

func TestAnalysisGorm_Save_LongValues(t *testing.T) {
	t.Parallel()

	repo := NewAnalysisGorm(setupAnalysisTestDB(t))
	rec := newRecord("long-values", time.Now())
	rec.ResumeName = strings.Repeat("r", 300) + ".docx"
	rec.Result.MatchPercentage = "Approximately 78%, " + strings.Repeat("strong backend overlap ", 10)
	require.NoError(t, repo.Save(context.Background(), rec))

	found, err := repo.FindByID(context.Background(), "long-values")

	require.NoError(t, err)
	assert.Equal(t, rec.ResumeName, found.ResumeName)
	assert.Equal(t, rec.Result.MatchPercentage, found.Result.MatchPercentage)
}
