package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/campusworks/quiz-attempt-service/internal/cache"
	"github.com/campusworks/quiz-attempt-service/internal/models"
	"github.com/campusworks/quiz-attempt-service/internal/repositories"
)

const quizCatalogCacheTTL = 5 * time.Minute

// RuntimeQuizService turns a stored quiz definition into the per-attempt
// view a student receives: questions in the attempt's shuffled order, with
// the grading key stripped.
type RuntimeQuizService interface {
	// GetQuiz loads a quiz with questions and options, through the cache.
	GetQuiz(ctx context.Context, quizID uint) (*models.Quiz, error)

	// ShuffledQuestionIDs draws a fresh random order over the quiz's
	// question ids. Called once per attempt; the result is persisted on
	// the answer sheet.
	ShuffledQuestionIDs(quiz *models.Quiz) []uint

	// TotalPoints sums the raw points of every question in the quiz.
	TotalPoints(quiz *models.Quiz) int

	// Assemble builds the student view for the sheet: only questions not
	// yet answered, in the sheet's persisted order.
	Assemble(sheet *models.AnswerSheet, quiz *models.Quiz, setting *models.QuizSetting, answeredQuestionIDs []uint) (*RuntimeQuizGenerated, error)
}

type runtimeQuizService struct {
	repo   repositories.Repository
	cache  cache.CacheService
	logger *slog.Logger
	rng    *rand.Rand
}

func NewRuntimeQuizService(repo repositories.Repository, cacheService cache.CacheService, logger *slog.Logger) RuntimeQuizService {
	return &runtimeQuizService{
		repo:   repo,
		cache:  cacheService,
		logger: logger,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func quizCatalogCacheKey(quizID uint) string {
	return fmt.Sprintf("quiz:catalog:%d", quizID)
}

func (s *runtimeQuizService) GetQuiz(ctx context.Context, quizID uint) (*models.Quiz, error) {
	key := quizCatalogCacheKey(quizID)

	var cached models.Quiz
	err := s.cache.Get(ctx, key, &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		// A broken cache degrades to a database read.
		s.logger.Warn("Quiz catalog cache read failed", "quiz_id", quizID, "error", err)
	}

	quiz, err := s.repo.QuizCatalog().GetQuizWithQuestions(ctx, quizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}

	if err := s.cache.Set(ctx, key, quiz, quizCatalogCacheTTL); err != nil {
		s.logger.Warn("Quiz catalog cache write failed", "quiz_id", quizID, "error", err)
	}

	return quiz, nil
}

func (s *runtimeQuizService) ShuffledQuestionIDs(quiz *models.Quiz) []uint {
	ids := make([]uint, len(quiz.Questions))
	for i, qq := range quiz.Questions {
		ids[i] = qq.QuestionID
	}
	s.rng.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})
	return ids
}

func (s *runtimeQuizService) TotalPoints(quiz *models.Quiz) int {
	total := 0
	for _, qq := range quiz.Questions {
		total += qq.Question.Points
	}
	return total
}

func (s *runtimeQuizService) Assemble(sheet *models.AnswerSheet, quiz *models.Quiz, setting *models.QuizSetting, answeredQuestionIDs []uint) (*RuntimeQuizGenerated, error) {
	order, err := sheet.QuestionOrderIDs()
	if err != nil {
		return nil, fmt.Errorf("failed to decode question order: %w", err)
	}

	questionsByID := make(map[uint]*models.Question, len(quiz.Questions))
	for i := range quiz.Questions {
		questionsByID[quiz.Questions[i].QuestionID] = &quiz.Questions[i].Question
	}

	answered := make(map[uint]struct{}, len(answeredQuestionIDs))
	for _, id := range answeredQuestionIDs {
		answered[id] = struct{}{}
	}

	views := make([]QuestionView, 0, len(order))
	for _, id := range order {
		if _, done := answered[id]; done {
			continue
		}
		question, ok := questionsByID[id]
		if !ok {
			// Question removed from the quiz after the attempt started;
			// the snapshot order may reference it, skip it.
			s.logger.Warn("Question in attempt order missing from quiz",
				"answer_sheet_id", sheet.ID,
				"question_id", id)
			continue
		}
		views = append(views, newQuestionView(question))
	}

	return &RuntimeQuizGenerated{
		AnswerSheetID: sheet.ID,
		QuizTitle:     quiz.Title,
		CourseID:      quiz.CourseID,
		Instructions:  setting.Instructions,
		StudentID:     sheet.StudentID,
		QuizID:        sheet.QuizID,
		QuizKey:       sheet.QuizKey,
		TimeLimit:     int64(sheet.TimeLimit / time.Second),
		TimeStart:     sheet.TimeStart,
		TotalPoints:   sheet.TotalPoints,
		QuizQuestions: views,
	}, nil
}

// newQuestionView copies the student-visible fields of a question. The
// option view has no correctness field, so the key cannot leak through
// serialization.
func newQuestionView(question *models.Question) QuestionView {
	options := make([]OptionView, len(question.Options))
	for i, opt := range question.Options {
		options[i] = OptionView{
			ID:   opt.ID,
			Text: opt.Text,
		}
	}
	return QuestionView{
		ID:      question.ID,
		Text:    question.Text,
		Points:  question.Points,
		Type:    question.Type,
		Options: options,
	}
}
