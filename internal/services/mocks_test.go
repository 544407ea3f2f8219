package services

import (
	"context"
	"time"

	"github.com/campusworks/quiz-attempt-service/internal/cache"
	"github.com/campusworks/quiz-attempt-service/internal/models"
	"github.com/campusworks/quiz-attempt-service/internal/repositories"
	"github.com/stretchr/testify/mock"
)

// MockRepository is a mock implementation of repositories.Repository.
// WithTransaction runs the callback against the same mock, which is
// enough for services that only need transactional grouping.
type MockRepository struct {
	mock.Mock

	quizSetting *MockQuizSettingRepository
	quizCatalog *MockQuizCatalogRepository
	answerSheet *MockAnswerSheetRepository
	answerSlot  *MockAnswerSlotRepository
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		quizSetting: new(MockQuizSettingRepository),
		quizCatalog: new(MockQuizCatalogRepository),
		answerSheet: new(MockAnswerSheetRepository),
		answerSlot:  new(MockAnswerSlotRepository),
	}
}

func (m *MockRepository) QuizSetting() repositories.QuizSettingRepository { return m.quizSetting }
func (m *MockRepository) QuizCatalog() repositories.QuizCatalogRepository { return m.quizCatalog }
func (m *MockRepository) AnswerSheet() repositories.AnswerSheetRepository { return m.answerSheet }
func (m *MockRepository) AnswerSlot() repositories.AnswerSlotRepository   { return m.answerSlot }

func (m *MockRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}

func (m *MockRepository) Ping(ctx context.Context) error { return nil }
func (m *MockRepository) Close() error                   { return nil }

// MockQuizSettingRepository is a mock implementation of QuizSettingRepository
type MockQuizSettingRepository struct {
	mock.Mock
}

func (m *MockQuizSettingRepository) Create(ctx context.Context, setting *models.QuizSetting) error {
	args := m.Called(ctx, setting)
	return args.Error(0)
}

func (m *MockQuizSettingRepository) GetByID(ctx context.Context, id uint) (*models.QuizSetting, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.QuizSetting), args.Error(1)
}

func (m *MockQuizSettingRepository) GetByQuizAndKey(ctx context.Context, quizID uint, quizKey string) (*models.QuizSetting, error) {
	args := m.Called(ctx, quizID, quizKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.QuizSetting), args.Error(1)
}

func (m *MockQuizSettingRepository) ListByQuiz(ctx context.Context, quizID uint) ([]*models.QuizSetting, error) {
	args := m.Called(ctx, quizID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.QuizSetting), args.Error(1)
}

func (m *MockQuizSettingRepository) Update(ctx context.Context, setting *models.QuizSetting) error {
	args := m.Called(ctx, setting)
	return args.Error(0)
}

func (m *MockQuizSettingRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockQuizCatalogRepository is a mock implementation of QuizCatalogRepository
type MockQuizCatalogRepository struct {
	mock.Mock
}

func (m *MockQuizCatalogRepository) GetQuizWithQuestions(ctx context.Context, quizID uint) (*models.Quiz, error) {
	args := m.Called(ctx, quizID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Quiz), args.Error(1)
}

func (m *MockQuizCatalogRepository) GetQuestion(ctx context.Context, questionID uint) (*models.Question, error) {
	args := m.Called(ctx, questionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Question), args.Error(1)
}

// MockAnswerSheetRepository is a mock implementation of AnswerSheetRepository
type MockAnswerSheetRepository struct {
	mock.Mock
}

func (m *MockAnswerSheetRepository) Create(ctx context.Context, sheet *models.AnswerSheet) error {
	args := m.Called(ctx, sheet)
	return args.Error(0)
}

func (m *MockAnswerSheetRepository) GetByID(ctx context.Context, id uint) (*models.AnswerSheet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AnswerSheet), args.Error(1)
}

func (m *MockAnswerSheetRepository) GetByIDWithSlots(ctx context.Context, id uint) (*models.AnswerSheet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AnswerSheet), args.Error(1)
}

func (m *MockAnswerSheetRepository) GetByStudentAndQuiz(ctx context.Context, studentID string, quizID uint) (*models.AnswerSheet, error) {
	args := m.Called(ctx, studentID, quizID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AnswerSheet), args.Error(1)
}

func (m *MockAnswerSheetRepository) ListByQuiz(ctx context.Context, quizID uint) ([]*models.AnswerSheet, error) {
	args := m.Called(ctx, quizID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AnswerSheet), args.Error(1)
}

func (m *MockAnswerSheetRepository) Update(ctx context.Context, sheet *models.AnswerSheet) error {
	args := m.Called(ctx, sheet)
	return args.Error(0)
}

// MockAnswerSlotRepository is a mock implementation of AnswerSlotRepository
type MockAnswerSlotRepository struct {
	mock.Mock
}

func (m *MockAnswerSlotRepository) Create(ctx context.Context, slot *models.AnswerSlot) error {
	args := m.Called(ctx, slot)
	return args.Error(0)
}

func (m *MockAnswerSlotRepository) GetByID(ctx context.Context, id uint) (*models.AnswerSlot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AnswerSlot), args.Error(1)
}

func (m *MockAnswerSlotRepository) GetBySheet(ctx context.Context, sheetID uint) ([]*models.AnswerSlot, error) {
	args := m.Called(ctx, sheetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AnswerSlot), args.Error(1)
}

func (m *MockAnswerSlotRepository) AnsweredQuestionIDs(ctx context.Context, sheetID uint) ([]uint, error) {
	args := m.Called(ctx, sheetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint), args.Error(1)
}

func (m *MockAnswerSlotRepository) UpdatePoints(ctx context.Context, id uint, points float64) error {
	args := m.Called(ctx, id, points)
	return args.Error(0)
}

func (m *MockAnswerSlotRepository) SumPoints(ctx context.Context, sheetID uint) (float64, error) {
	args := m.Called(ctx, sheetID)
	return args.Get(0).(float64), args.Error(1)
}

// nopCache misses on every read and swallows writes, so cached code
// paths always hit the repository in tests.
type nopCache struct{}

func (nopCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}

func (nopCache) Get(ctx context.Context, key string, dest interface{}) error {
	return cache.ErrCacheMiss
}

func (nopCache) Delete(ctx context.Context, key string) error {
	return nil
}

func (nopCache) DeletePattern(ctx context.Context, pattern string) error {
	return nil
}
