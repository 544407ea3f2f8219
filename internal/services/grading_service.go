package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/campusworks/quiz-attempt-service/internal/events"
	"github.com/campusworks/quiz-attempt-service/internal/models"
	"github.com/campusworks/quiz-attempt-service/internal/repositories"
)

// GradingService scores answer slots against the question's correct
// option set.
//
// Single select is all-or-nothing: the one selection either is the
// correct option (full raw points) or it is not (zero). Multi select
// earns partial credit proportional to the share of correct options
// found, rounded to two decimals; wrong picks are not penalized, but a
// selection with no correct option at all scores zero.
type GradingService interface {
	// GradeSlot computes the score without touching storage.
	GradeSlot(question *models.Question, selectedOptionIDs []uint) float64

	// GradeSlotByID loads the slot and its question, computes the score
	// and persists it on the slot.
	GradeSlotByID(ctx context.Context, slotID uint) (float64, error)
}

type gradingService struct {
	repo      repositories.Repository
	runtime   RuntimeQuizService
	publisher events.EventPublisher
	logger    *slog.Logger
}

func NewGradingService(repo repositories.Repository, runtime RuntimeQuizService, publisher events.EventPublisher, logger *slog.Logger) GradingService {
	return &gradingService{
		repo:      repo,
		runtime:   runtime,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *gradingService) GradeSlot(question *models.Question, selectedOptionIDs []uint) float64 {
	correct := question.CorrectOptionIDs()
	if len(correct) == 0 || len(selectedOptionIDs) == 0 {
		return 0
	}

	correctSet := make(map[uint]struct{}, len(correct))
	for _, id := range correct {
		correctSet[id] = struct{}{}
	}

	switch question.Type {
	case models.SingleSelect:
		if len(selectedOptionIDs) != 1 {
			return 0
		}
		if _, ok := correctSet[selectedOptionIDs[0]]; ok {
			return float64(question.Points)
		}
		return 0

	case models.MultiSelect:
		matched := 0
		for _, id := range selectedOptionIDs {
			if _, ok := correctSet[id]; ok {
				matched++
			}
		}
		if matched == 0 {
			return 0
		}
		score := float64(matched) / float64(len(correct)) * float64(question.Points)
		return math.Round(score*100) / 100

	default:
		return 0
	}
}

func (s *gradingService) GradeSlotByID(ctx context.Context, slotID uint) (float64, error) {
	slot, err := s.repo.AnswerSlot().GetByID(ctx, slotID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return 0, ErrAnswerSlotNotFound
		}
		return 0, fmt.Errorf("failed to get answer slot: %w", err)
	}

	question, err := s.repo.QuizCatalog().GetQuestion(ctx, slot.QuestionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return 0, ErrQuestionNotFound
		}
		return 0, fmt.Errorf("failed to get question: %w", err)
	}

	score := s.GradeSlot(question, slot.SelectedOptionIDs())

	if err := s.repo.AnswerSlot().UpdatePoints(ctx, slot.ID, score); err != nil {
		return 0, fmt.Errorf("failed to persist slot score: %w", err)
	}

	s.logger.Debug("Answer slot graded",
		"answer_slot_id", slot.ID,
		"answer_sheet_id", slot.AnswerSheetID,
		"points_awarded", score)

	sheet, err := s.repo.AnswerSheet().GetByID(ctx, slot.AnswerSheetID)
	if err == nil {
		event := events.NewGradingCompletedEvent(sheet.ID, sheet.StudentID, sheet.QuizID, slot.ID, score)
		if err := s.publisher.PublishAttemptEvent(ctx, event); err != nil {
			s.logger.Warn("Failed to publish grading event", "answer_slot_id", slot.ID, "error", err)
		}
	}

	return score, nil
}
