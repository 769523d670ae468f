package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/edulytics/grade-analytics-api/internal/models"
	appErrors "github.com/edulytics/grade-analytics-api/pkg/errors"
)

type mockGradeRepo struct {
	stored      []models.StoredGrade
	subjects    []string
	insertCalls int
	bulkCalls   int
	listErr     error
}

func (m *mockGradeRepo) List(_ context.Context, _ models.GradeHistoryFilter) ([]models.StoredGrade, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.stored, nil
}

func (m *mockGradeRepo) Insert(_ context.Context, grade *models.StoredGrade) error {
	m.insertCalls++
	m.stored = append(m.stored, *grade)
	return nil
}

func (m *mockGradeRepo) BulkInsert(_ context.Context, grades []models.StoredGrade) error {
	m.bulkCalls++
	m.stored = append(m.stored, grades...)
	return nil
}

func (m *mockGradeRepo) ListSubjects(_ context.Context, _ string) ([]string, error) {
	return m.subjects, nil
}

func TestGradeServiceAdd(t *testing.T) {
	repo := &mockGradeRepo{}
	cacheRepo := &stubCacheRepo{}
	cacheSvc := NewCacheService(cacheRepo, nil, time.Minute, zap.NewNop(), true)
	svc := NewGradeService(repo, cacheSvc, zap.NewNop())

	require.NoError(t, cacheSvc.Set(context.Background(), "analytics:average:abc", 7.0, time.Minute))

	grade := models.StoredGrade{StudentID: "student-1", Subject: "math", Value: 7.5}
	require.NoError(t, svc.Add(context.Background(), &grade))

	assert.Equal(t, 1, repo.insertCalls)
	assert.InDelta(t, 1.0, grade.Weight, 1e-9)

	// A write drops cached analytics results.
	var out float64
	hit, err := cacheSvc.Get(context.Background(), "analytics:average:abc", &out)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestGradeServiceAddRejectsOutOfRange(t *testing.T) {
	repo := &mockGradeRepo{}
	svc := NewGradeService(repo, nil, zap.NewNop())

	err := svc.Add(context.Background(), &models.StoredGrade{Value: 0.5})
	assert.ErrorIs(t, err, appErrors.ErrGradeOutOfRange)
	assert.Zero(t, repo.insertCalls)
}

func TestGradeServiceBulkAdd(t *testing.T) {
	repo := &mockGradeRepo{}
	svc := NewGradeService(repo, nil, zap.NewNop())

	grades := []models.StoredGrade{
		{StudentID: "student-1", Subject: "math", Value: 7.5, Weight: 2},
		{StudentID: "student-1", Subject: "english", Value: 6},
	}
	require.NoError(t, svc.BulkAdd(context.Background(), grades))

	assert.Equal(t, 1, repo.bulkCalls)
	assert.InDelta(t, 2.0, grades[0].Weight, 1e-9)
	assert.InDelta(t, 1.0, grades[1].Weight, 1e-9)
}

func TestGradeServiceBulkAddRejectsFirstInvalid(t *testing.T) {
	repo := &mockGradeRepo{}
	svc := NewGradeService(repo, nil, zap.NewNop())

	err := svc.BulkAdd(context.Background(), []models.StoredGrade{
		{Value: 7},
		{Value: 11},
	})
	assert.ErrorIs(t, err, appErrors.ErrGradeOutOfRange)
	assert.Zero(t, repo.bulkCalls)
}

func TestGradeServiceRecords(t *testing.T) {
	recordedAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	repo := &mockGradeRepo{stored: []models.StoredGrade{
		{StudentID: "student-1", Subject: "math", Value: 7.5, Weight: 2, RecordedAt: recordedAt},
		{StudentID: "student-1", Subject: "math", Value: 4, Weight: 1, RecordedAt: recordedAt.Add(time.Hour)},
	}}
	svc := NewGradeService(repo, nil, zap.NewNop())

	records, err := svc.Records(context.Background(), models.GradeHistoryFilter{StudentID: "student-1"})
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.InDelta(t, 7.5, records[0].Value, 1e-9)
	assert.True(t, records[0].IsPassing)
	assert.False(t, records[1].IsPassing)
	assert.Equal(t, recordedAt.UnixMilli(), records[0].Timestamp)
}

func TestGradeServiceSubjects(t *testing.T) {
	repo := &mockGradeRepo{subjects: []string{"english", "math"}}
	svc := NewGradeService(repo, nil, zap.NewNop())

	subjects, err := svc.Subjects(context.Background(), "student-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"english", "math"}, subjects)
}
