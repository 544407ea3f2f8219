package repositories

import (
	"context"

	"github.com/campusworks/quiz-attempt-service/internal/models"
)

// Repository aggregates the per-entity repositories behind one handle so
// services receive a single injected dependency instead of a process-wide
// session.
type Repository interface {
	QuizSetting() QuizSettingRepository
	QuizCatalog() QuizCatalogRepository
	AnswerSheet() AnswerSheetRepository
	AnswerSlot() AnswerSlotRepository

	// WithTransaction runs fn against a repository bound to a single
	// database transaction; any error rolls the whole transaction back.
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	Ping(ctx context.Context) error
	Close() error
}

// QuizSettingRepository manages quiz keys and their activation windows.
type QuizSettingRepository interface {
	Create(ctx context.Context, setting *models.QuizSetting) error
	GetByID(ctx context.Context, id uint) (*models.QuizSetting, error)
	GetByQuizAndKey(ctx context.Context, quizID uint, quizKey string) (*models.QuizSetting, error)
	ListByQuiz(ctx context.Context, quizID uint) ([]*models.QuizSetting, error)
	Update(ctx context.Context, setting *models.QuizSetting) error
	Delete(ctx context.Context, id uint) error
}

// QuizCatalogRepository is the read-only view onto the quiz-authoring
// service's tables: quiz definitions, their questions and options.
type QuizCatalogRepository interface {
	GetQuizWithQuestions(ctx context.Context, quizID uint) (*models.Quiz, error)
	GetQuestion(ctx context.Context, questionID uint) (*models.Question, error)
}

// AnswerSheetRepository manages attempt aggregates.
type AnswerSheetRepository interface {
	Create(ctx context.Context, sheet *models.AnswerSheet) error
	GetByID(ctx context.Context, id uint) (*models.AnswerSheet, error)
	GetByIDWithSlots(ctx context.Context, id uint) (*models.AnswerSheet, error)
	GetByStudentAndQuiz(ctx context.Context, studentID string, quizID uint) (*models.AnswerSheet, error)
	ListByQuiz(ctx context.Context, quizID uint) ([]*models.AnswerSheet, error)
	Update(ctx context.Context, sheet *models.AnswerSheet) error
}

// AnswerSlotRepository manages per-question answers inside a sheet.
type AnswerSlotRepository interface {
	// Create persists the slot together with its selected-option child
	// rows. A duplicate (answer_sheet_id, question_id) pair fails with an
	// error satisfying IsDuplicateKeyError.
	Create(ctx context.Context, slot *models.AnswerSlot) error
	GetByID(ctx context.Context, id uint) (*models.AnswerSlot, error)
	GetBySheet(ctx context.Context, sheetID uint) ([]*models.AnswerSlot, error)
	AnsweredQuestionIDs(ctx context.Context, sheetID uint) ([]uint, error)
	UpdatePoints(ctx context.Context, id uint, points float64) error
	SumPoints(ctx context.Context, sheetID uint) (float64, error)
}
