package postgres

import (
	"context"

	"github.com/campusworks/quiz-attempt-service/internal/models"
	"github.com/campusworks/quiz-attempt-service/internal/repositories"
	"gorm.io/gorm"
)

type QuizSettingPostgreSQL struct {
	db *gorm.DB
}

func NewQuizSettingPostgreSQL(db *gorm.DB) repositories.QuizSettingRepository {
	return &QuizSettingPostgreSQL{db: db}
}

func (r *QuizSettingPostgreSQL) Create(ctx context.Context, setting *models.QuizSetting) error {
	return r.db.WithContext(ctx).Create(setting).Error
}

func (r *QuizSettingPostgreSQL) GetByID(ctx context.Context, id uint) (*models.QuizSetting, error) {
	var setting models.QuizSetting
	if err := r.db.WithContext(ctx).First(&setting, id).Error; err != nil {
		return nil, err
	}
	return &setting, nil
}

func (r *QuizSettingPostgreSQL) GetByQuizAndKey(ctx context.Context, quizID uint, quizKey string) (*models.QuizSetting, error) {
	var setting models.QuizSetting
	if err := r.db.WithContext(ctx).
		Where("quiz_id = ? AND quiz_key = ?", quizID, quizKey).
		First(&setting).Error; err != nil {
		return nil, err
	}
	return &setting, nil
}

func (r *QuizSettingPostgreSQL) ListByQuiz(ctx context.Context, quizID uint) ([]*models.QuizSetting, error) {
	var settings []*models.QuizSetting
	if err := r.db.WithContext(ctx).
		Where("quiz_id = ?", quizID).
		Order("created_at").
		Find(&settings).Error; err != nil {
		return nil, err
	}
	return settings, nil
}

func (r *QuizSettingPostgreSQL) Update(ctx context.Context, setting *models.QuizSetting) error {
	return r.db.WithContext(ctx).Save(setting).Error
}

func (r *QuizSettingPostgreSQL) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.QuizSetting{}, id).Error
}
