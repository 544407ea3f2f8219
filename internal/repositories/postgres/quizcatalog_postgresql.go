package postgres

import (
	"context"

	"github.com/campusworks/quiz-attempt-service/internal/models"
	"github.com/campusworks/quiz-attempt-service/internal/repositories"
	"gorm.io/gorm"
)

// QuizCatalogPostgreSQL reads the quiz-authoring tables. Nothing here
// writes: attempt state lives in the answer_sheet tables only.
type QuizCatalogPostgreSQL struct {
	db *gorm.DB
}

func NewQuizCatalogPostgreSQL(db *gorm.DB) repositories.QuizCatalogRepository {
	return &QuizCatalogPostgreSQL{db: db}
}

func (r *QuizCatalogPostgreSQL) GetQuizWithQuestions(ctx context.Context, quizID uint) (*models.Quiz, error) {
	var quiz models.Quiz
	if err := r.db.WithContext(ctx).
		Preload("Questions.Question.Options").
		First(&quiz, quizID).Error; err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *QuizCatalogPostgreSQL) GetQuestion(ctx context.Context, questionID uint) (*models.Question, error) {
	var question models.Question
	if err := r.db.WithContext(ctx).
		Preload("Options").
		First(&question, questionID).Error; err != nil {
		return nil, err
	}
	return &question, nil
}
