package postgres

import (
	"context"

	"github.com/campusworks/quiz-attempt-service/internal/models"
	"github.com/campusworks/quiz-attempt-service/internal/repositories"
	"gorm.io/gorm"
)

type AnswerSlotPostgreSQL struct {
	db *gorm.DB
}

func NewAnswerSlotPostgreSQL(db *gorm.DB) repositories.AnswerSlotRepository {
	return &AnswerSlotPostgreSQL{db: db}
}

// Create inserts the slot and its selected-option rows in one statement
// batch; gorm cascades the children through the association. The unique
// index on (answer_sheet_id, question_id) rejects a second answer for the
// same question.
func (r *AnswerSlotPostgreSQL) Create(ctx context.Context, slot *models.AnswerSlot) error {
	return r.db.WithContext(ctx).Create(slot).Error
}

func (r *AnswerSlotPostgreSQL) GetByID(ctx context.Context, id uint) (*models.AnswerSlot, error) {
	var slot models.AnswerSlot
	if err := r.db.WithContext(ctx).
		Preload("SelectedOptions").
		First(&slot, id).Error; err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *AnswerSlotPostgreSQL) GetBySheet(ctx context.Context, sheetID uint) ([]*models.AnswerSlot, error) {
	var slots []*models.AnswerSlot
	if err := r.db.WithContext(ctx).
		Where("answer_sheet_id = ?", sheetID).
		Preload("SelectedOptions").
		Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *AnswerSlotPostgreSQL) AnsweredQuestionIDs(ctx context.Context, sheetID uint) ([]uint, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).
		Model(&models.AnswerSlot{}).
		Where("answer_sheet_id = ?", sheetID).
		Pluck("question_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *AnswerSlotPostgreSQL) UpdatePoints(ctx context.Context, id uint, points float64) error {
	return r.db.WithContext(ctx).
		Model(&models.AnswerSlot{}).
		Where("id = ?", id).
		Update("points_awarded", points).Error
}

func (r *AnswerSlotPostgreSQL) SumPoints(ctx context.Context, sheetID uint) (float64, error) {
	var total *float64
	if err := r.db.WithContext(ctx).
		Model(&models.AnswerSlot{}).
		Where("answer_sheet_id = ?", sheetID).
		Select("SUM(points_awarded)").
		Scan(&total).Error; err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}
