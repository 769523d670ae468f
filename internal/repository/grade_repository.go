package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/edulytics/grade-analytics-api/internal/models"
)

// GradeRepository handles grade history persistence.
type GradeRepository struct {
	db *sqlx.DB
}

// NewGradeRepository creates a new grade repository.
func NewGradeRepository(db *sqlx.DB) *GradeRepository {
	return &GradeRepository{db: db}
}

// List returns grade history entries matching the filter, oldest first.
func (r *GradeRepository) List(ctx context.Context, filter models.GradeHistoryFilter) ([]models.StoredGrade, error) {
	query := `SELECT id, student_id, subject, description, grade_value, weight, recorded_at, created_at
        FROM grade_records
        WHERE student_id = $1`
	args := []interface{}{filter.StudentID}
	if filter.Subject != "" {
		query += fmt.Sprintf(" AND LOWER(subject) = LOWER($%d)", len(args)+1)
		args = append(args, filter.Subject)
	}
	if filter.From != nil {
		query += fmt.Sprintf(" AND recorded_at >= $%d", len(args)+1)
		args = append(args, *filter.From)
	}
	if filter.To != nil {
		query += fmt.Sprintf(" AND recorded_at <= $%d", len(args)+1)
		args = append(args, *filter.To)
	}
	query += " ORDER BY recorded_at ASC"
	var grades []models.StoredGrade
	if err := r.db.SelectContext(ctx, &grades, query, args...); err != nil {
		return nil, fmt.Errorf("list grade records: %w", err)
	}
	return grades, nil
}

// Insert stores a single grade history entry.
func (r *GradeRepository) Insert(ctx context.Context, grade *models.StoredGrade) error {
	if grade.ID == "" {
		grade.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if grade.CreatedAt.IsZero() {
		grade.CreatedAt = now
	}
	if grade.RecordedAt.IsZero() {
		grade.RecordedAt = now
	}
	const query = `INSERT INTO grade_records (id, student_id, subject, description, grade_value, weight, recorded_at, created_at)
        VALUES (:id, :student_id, :subject, :description, :grade_value, :weight, :recorded_at, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, grade); err != nil {
		return fmt.Errorf("insert grade record: %w", err)
	}
	return nil
}

// BulkInsert stores multiple grade history entries in a transaction.
func (r *GradeRepository) BulkInsert(ctx context.Context, grades []models.StoredGrade) error {
	if len(grades) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	for i := range grades {
		if grades[i].ID == "" {
			grades[i].ID = uuid.NewString()
		}
		if grades[i].CreatedAt.IsZero() {
			grades[i].CreatedAt = now
		}
		if grades[i].RecordedAt.IsZero() {
			grades[i].RecordedAt = now
		}
		const query = `INSERT INTO grade_records (id, student_id, subject, description, grade_value, weight, recorded_at, created_at)
                VALUES (:id, :student_id, :subject, :description, :grade_value, :weight, :recorded_at, :created_at)`
		if _, err := tx.NamedExecContext(ctx, query, grades[i]); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("bulk insert grade record: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit grade records: %w", err)
	}
	return nil
}

// ListSubjects returns the distinct subjects on record for a student.
func (r *GradeRepository) ListSubjects(ctx context.Context, studentID string) ([]string, error) {
	const query = `SELECT DISTINCT LOWER(subject) FROM grade_records WHERE student_id = $1 ORDER BY 1`
	var subjects []string
	if err := r.db.SelectContext(ctx, &subjects, query, studentID); err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	return subjects, nil
}
