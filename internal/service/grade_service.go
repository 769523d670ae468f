package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/edulytics/grade-analytics-api/internal/engine"
	"github.com/edulytics/grade-analytics-api/internal/models"
)

// GradeHistoryRepository describes the persistence layer required by GradeService.
type GradeHistoryRepository interface {
	List(ctx context.Context, filter models.GradeHistoryFilter) ([]models.StoredGrade, error)
	Insert(ctx context.Context, grade *models.StoredGrade) error
	BulkInsert(ctx context.Context, grades []models.StoredGrade) error
	ListSubjects(ctx context.Context, studentID string) ([]string, error)
}

// GradeService manages the grade history that feeds the analytics engine.
type GradeService struct {
	repo   GradeHistoryRepository
	cache  *CacheService
	logger *zap.Logger
}

// NewGradeService constructs a grade service.
func NewGradeService(repo GradeHistoryRepository, cache *CacheService, logger *zap.Logger) *GradeService {
	return &GradeService{repo: repo, cache: cache, logger: logger}
}

// Add validates and stores a single grade entry.
func (s *GradeService) Add(ctx context.Context, grade *models.StoredGrade) error {
	if err := engine.ValidateGradeValue(grade.Value); err != nil {
		return err
	}
	if grade.Weight <= 0 {
		grade.Weight = 1
	}
	if err := s.repo.Insert(ctx, grade); err != nil {
		return err
	}
	s.invalidateAnalytics(ctx)
	return nil
}

// BulkAdd validates and stores multiple grade entries in one transaction.
func (s *GradeService) BulkAdd(ctx context.Context, grades []models.StoredGrade) error {
	for i := range grades {
		if err := engine.ValidateGradeValue(grades[i].Value); err != nil {
			return err
		}
		if grades[i].Weight <= 0 {
			grades[i].Weight = 1
		}
	}
	if err := s.repo.BulkInsert(ctx, grades); err != nil {
		return err
	}
	s.invalidateAnalytics(ctx)
	return nil
}

// History returns stored grade entries matching the filter, oldest first.
func (s *GradeService) History(ctx context.Context, filter models.GradeHistoryFilter) ([]models.StoredGrade, error) {
	return s.repo.List(ctx, filter)
}

// Records returns the engine's view of a student's grade history.
func (s *GradeService) Records(ctx context.Context, filter models.GradeHistoryFilter) ([]models.GradeRecord, error) {
	stored, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	records := make([]models.GradeRecord, len(stored))
	for i, grade := range stored {
		records[i] = grade.Record()
	}
	return records, nil
}

// Subjects returns the distinct subjects on record for a student.
func (s *GradeService) Subjects(ctx context.Context, studentID string) ([]string, error) {
	return s.repo.ListSubjects(ctx, studentID)
}

// invalidateAnalytics drops cached analytics results after a write.
func (s *GradeService) invalidateAnalytics(ctx context.Context) {
	if s.cache == nil {
		return
	}
	start := time.Now()
	if err := s.cache.Invalidate(ctx, "analytics:*"); err != nil && s.logger != nil {
		s.logger.Warn("invalidate analytics cache",
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
	}
}
