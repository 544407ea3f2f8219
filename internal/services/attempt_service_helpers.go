package services

import (
	"context"
	"fmt"
	"time"

	"github.com/campusworks/quiz-attempt-service/internal/events"
	"github.com/campusworks/quiz-attempt-service/internal/models"
	"github.com/campusworks/quiz-attempt-service/internal/repositories"
)

// resume serves an existing sheet back to its owner. Completed and
// expired sheets cannot be re-entered; an expired one is completed on
// the spot before the rejection.
func (s *attemptService) resume(ctx context.Context, sheet *models.AnswerSheet, setting *models.QuizSetting, now time.Time) (*RuntimeQuizGenerated, error) {
	if err := s.ensureActive(ctx, sheet, now); err != nil {
		return nil, err
	}

	quiz, err := s.runtime.GetQuiz(ctx, sheet.QuizID)
	if err != nil {
		return nil, err
	}

	answered, err := s.repo.AnswerSlot().AnsweredQuestionIDs(ctx, sheet.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list answered questions: %w", err)
	}

	s.logger.Info("Resuming quiz attempt",
		"answer_sheet_id", sheet.ID,
		"answered", len(answered))

	return s.runtime.Assemble(sheet, quiz, setting, answered)
}

// getOwnedSheet loads the sheet and verifies the caller owns it.
func (s *attemptService) getOwnedSheet(ctx context.Context, sheetID uint, studentID, action string) (*models.AnswerSheet, error) {
	sheet, err := s.repo.AnswerSheet().GetByID(ctx, sheetID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAnswerSheetNotFound
		}
		return nil, fmt.Errorf("failed to get answer sheet: %w", err)
	}

	if sheet.StudentID != studentID {
		return nil, NewPermissionError(studentID, sheetID, "answer_sheet", action, "not owned by student")
	}

	return sheet, nil
}

// ensureActive rejects writes to a sheet that is no longer open. An
// in-progress sheet past its deadline is completed here, so expiry
// needs no background timer.
func (s *attemptService) ensureActive(ctx context.Context, sheet *models.AnswerSheet, now time.Time) error {
	if sheet.Status == models.AttemptCompleted {
		return ErrAttemptAlreadyCompleted
	}

	if sheet.IsExpired(now) {
		if err := s.finalize(ctx, sheet, now); err != nil {
			return err
		}
		return ErrAttemptAlreadyCompleted
	}

	return nil
}

// finalize completes the sheet in a single transaction: re-grades every
// slot still at zero points, sums the awarded points into the attempt
// score and stamps the finish time. Safe to call more than once; the
// finish time is written only on the first call.
func (s *attemptService) finalize(ctx context.Context, sheet *models.AnswerSheet, now time.Time) error {
	quiz, err := s.runtime.GetQuiz(ctx, sheet.QuizID)
	if err != nil {
		return err
	}

	questionsByID := make(map[uint]*models.Question, len(quiz.Questions))
	for i := range quiz.Questions {
		questionsByID[quiz.Questions[i].QuestionID] = &quiz.Questions[i].Question
	}

	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		slots, err := tx.AnswerSlot().GetBySheet(ctx, sheet.ID)
		if err != nil {
			return fmt.Errorf("failed to get answer slots: %w", err)
		}

		// Re-grading a zero-point slot is idempotent: a genuinely wrong
		// answer stays at zero, a slot missed by the asynchronous worker
		// gets its score.
		for _, slot := range slots {
			if slot.PointsAwarded != 0 {
				continue
			}
			question, ok := questionsByID[slot.QuestionID]
			if !ok {
				continue
			}
			score := s.grading.GradeSlot(question, slot.SelectedOptionIDs())
			if score == 0 {
				continue
			}
			if err := tx.AnswerSlot().UpdatePoints(ctx, slot.ID, score); err != nil {
				return fmt.Errorf("failed to persist slot score: %w", err)
			}
		}

		total, err := tx.AnswerSlot().SumPoints(ctx, sheet.ID)
		if err != nil {
			return fmt.Errorf("failed to sum points: %w", err)
		}

		status := models.AttemptCompleted
		patch := models.AnswerSheetPatch{
			Status:       &status,
			TimeFinish:   &now,
			AttemptScore: &total,
		}
		patch.Apply(sheet)

		if err := tx.AnswerSheet().Update(ctx, sheet); err != nil {
			return fmt.Errorf("failed to update answer sheet: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Answer sheet completed",
		"answer_sheet_id", sheet.ID,
		"attempt_score", *sheet.AttemptScore)

	return nil
}

// publishEvent fires the event off the request path; a publish failure
// is logged and otherwise ignored.
func (s *attemptService) publishEvent(event *events.AttemptEvent) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.publisher.PublishAttemptEvent(ctx, event); err != nil {
			s.logger.Warn("Failed to publish attempt event",
				"event_type", event.Type,
				"error", err)
		}
	}()
}

func findQuestion(quiz *models.Quiz, questionID uint) *models.Question {
	for i := range quiz.Questions {
		if quiz.Questions[i].QuestionID == questionID {
			return &quiz.Questions[i].Question
		}
	}
	return nil
}

// validateSelectedOptions checks every selected id against the
// question's own options and rejects duplicate selections.
func validateSelectedOptions(question *models.Question, selectedOptionIDs []uint) error {
	known := make(map[uint]struct{}, len(question.Options))
	for _, opt := range question.Options {
		known[opt.ID] = struct{}{}
	}

	seen := make(map[uint]struct{}, len(selectedOptionIDs))
	for _, id := range selectedOptionIDs {
		if _, ok := known[id]; !ok {
			return NewValidationError("selected_option_ids", "option does not belong to question", id)
		}
		if _, dup := seen[id]; dup {
			return NewValidationError("selected_option_ids", "duplicate option selection", id)
		}
		seen[id] = struct{}{}
	}

	return nil
}

func buildSlotOptions(selectedOptionIDs []uint) []models.AnswerSlotOption {
	options := make([]models.AnswerSlotOption, len(selectedOptionIDs))
	for i, id := range selectedOptionIDs {
		options[i] = models.AnswerSlotOption{OptionID: id}
	}
	return options
}

func newAttemptResult(sheet *models.AnswerSheet) *AttemptResult {
	score := 0.0
	if sheet.AttemptScore != nil {
		score = *sheet.AttemptScore
	}
	return &AttemptResult{
		AnswerSheetID: sheet.ID,
		StudentID:     sheet.StudentID,
		QuizID:        sheet.QuizID,
		Status:        sheet.Status,
		AttemptScore:  score,
		TotalPoints:   sheet.TotalPoints,
		TimeStart:     sheet.TimeStart,
		TimeFinish:    sheet.TimeFinish,
	}
}
