package postgres

import (
	"context"

	"github.com/campusworks/quiz-attempt-service/internal/repositories"
	"gorm.io/gorm"
)

type postgresRepository struct {
	db *gorm.DB

	quizSetting repositories.QuizSettingRepository
	quizCatalog repositories.QuizCatalogRepository
	answerSheet repositories.AnswerSheetRepository
	answerSlot  repositories.AnswerSlotRepository
}

func NewRepository(db *gorm.DB) repositories.Repository {
	return &postgresRepository{
		db:          db,
		quizSetting: NewQuizSettingPostgreSQL(db),
		quizCatalog: NewQuizCatalogPostgreSQL(db),
		answerSheet: NewAnswerSheetPostgreSQL(db),
		answerSlot:  NewAnswerSlotPostgreSQL(db),
	}
}

func (r *postgresRepository) QuizSetting() repositories.QuizSettingRepository {
	return r.quizSetting
}

func (r *postgresRepository) QuizCatalog() repositories.QuizCatalogRepository {
	return r.quizCatalog
}

func (r *postgresRepository) AnswerSheet() repositories.AnswerSheetRepository {
	return r.answerSheet
}

func (r *postgresRepository) AnswerSlot() repositories.AnswerSlotRepository {
	return r.answerSlot
}

func (r *postgresRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}

func (r *postgresRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *postgresRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
