package postgres

import (
	"context"

	"github.com/campusworks/quiz-attempt-service/internal/models"
	"github.com/campusworks/quiz-attempt-service/internal/repositories"
	"gorm.io/gorm"
)

type AnswerSheetPostgreSQL struct {
	db *gorm.DB
}

func NewAnswerSheetPostgreSQL(db *gorm.DB) repositories.AnswerSheetRepository {
	return &AnswerSheetPostgreSQL{db: db}
}

func (r *AnswerSheetPostgreSQL) Create(ctx context.Context, sheet *models.AnswerSheet) error {
	return r.db.WithContext(ctx).Create(sheet).Error
}

func (r *AnswerSheetPostgreSQL) GetByID(ctx context.Context, id uint) (*models.AnswerSheet, error) {
	var sheet models.AnswerSheet
	if err := r.db.WithContext(ctx).First(&sheet, id).Error; err != nil {
		return nil, err
	}
	return &sheet, nil
}

func (r *AnswerSheetPostgreSQL) GetByIDWithSlots(ctx context.Context, id uint) (*models.AnswerSheet, error) {
	var sheet models.AnswerSheet
	if err := r.db.WithContext(ctx).
		Preload("Slots.SelectedOptions").
		First(&sheet, id).Error; err != nil {
		return nil, err
	}
	return &sheet, nil
}

func (r *AnswerSheetPostgreSQL) GetByStudentAndQuiz(ctx context.Context, studentID string, quizID uint) (*models.AnswerSheet, error) {
	var sheet models.AnswerSheet
	if err := r.db.WithContext(ctx).
		Where("student_id = ? AND quiz_id = ?", studentID, quizID).
		First(&sheet).Error; err != nil {
		return nil, err
	}
	return &sheet, nil
}

func (r *AnswerSheetPostgreSQL) ListByQuiz(ctx context.Context, quizID uint) ([]*models.AnswerSheet, error) {
	var sheets []*models.AnswerSheet
	if err := r.db.WithContext(ctx).
		Where("quiz_id = ?", quizID).
		Order("created_at").
		Find(&sheets).Error; err != nil {
		return nil, err
	}
	return sheets, nil
}

func (r *AnswerSheetPostgreSQL) Update(ctx context.Context, sheet *models.AnswerSheet) error {
	return r.db.WithContext(ctx).Save(sheet).Error
}
