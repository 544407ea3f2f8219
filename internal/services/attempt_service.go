package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/campusworks/quiz-attempt-service/internal/events"
	"github.com/campusworks/quiz-attempt-service/internal/models"
	"github.com/campusworks/quiz-attempt-service/internal/repositories"
	"github.com/campusworks/quiz-attempt-service/internal/utils"
)

// AttemptService drives the attempt lifecycle: starting or resuming a
// sheet, recording answers exactly once per question, and closing the
// attempt with a final score.
type AttemptService interface {
	Start(ctx context.Context, req *StartAttemptRequest, studentID string) (*RuntimeQuizGenerated, error)
	SubmitAnswer(ctx context.Context, sheetID uint, req *SubmitAnswerRequest, studentID string) (*AnswerSlotResponse, error)
	Finish(ctx context.Context, sheetID uint, studentID string) (*AttemptResult, error)
	GetByID(ctx context.Context, sheetID uint, studentID string) (*AttemptDetail, error)
	TimeRemaining(ctx context.Context, sheetID uint, studentID string) (*TimeRemainingResponse, error)
}

type attemptService struct {
	repo       repositories.Repository
	settings   QuizSettingService
	runtime    RuntimeQuizService
	grading    GradingService
	dispatcher *GradingDispatcher
	publisher  events.EventPublisher
	logger     *slog.Logger
	validator  *utils.Validator
}

func NewAttemptService(
	repo repositories.Repository,
	settings QuizSettingService,
	runtime RuntimeQuizService,
	grading GradingService,
	dispatcher *GradingDispatcher,
	publisher events.EventPublisher,
	logger *slog.Logger,
	validator *utils.Validator,
) AttemptService {
	return &attemptService{
		repo:       repo,
		settings:   settings,
		runtime:    runtime,
		grading:    grading,
		dispatcher: dispatcher,
		publisher:  publisher,
		logger:     logger,
		validator:  validator,
	}
}

// ===== CORE ATTEMPT OPERATIONS =====

// Start validates the quiz key, then either creates the student's sheet
// for the quiz or resumes the existing one. A student holds at most one
// sheet per quiz; a resumed sheet serves only the questions not yet
// answered, in the order fixed at creation.
func (s *attemptService) Start(ctx context.Context, req *StartAttemptRequest, studentID string) (*RuntimeQuizGenerated, error) {
	s.logger.Info("Starting quiz attempt",
		"quiz_id", req.QuizID,
		"student_id", studentID)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	now := time.Now()

	setting, err := s.settings.ValidateKey(ctx, req.QuizID, req.QuizKey, now)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.AnswerSheet().GetByStudentAndQuiz(ctx, studentID, req.QuizID)
	if err == nil {
		return s.resume(ctx, existing, setting, now)
	}
	if !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to look up answer sheet: %w", err)
	}

	quiz, err := s.runtime.GetQuiz(ctx, req.QuizID)
	if err != nil {
		return nil, err
	}
	if len(quiz.Questions) == 0 {
		return nil, ErrQuizHasNoQuestions
	}

	sheet := &models.AnswerSheet{
		StudentID:   studentID,
		QuizID:      req.QuizID,
		QuizKey:     setting.QuizKey,
		TimeLimit:   setting.TimeLimit,
		TotalPoints: s.runtime.TotalPoints(quiz),
		TimeStart:   now,
		Status:      models.AttemptInProgress,
	}
	if err := sheet.SetQuestionOrder(s.runtime.ShuffledQuestionIDs(quiz)); err != nil {
		return nil, fmt.Errorf("failed to encode question order: %w", err)
	}

	if err := s.repo.AnswerSheet().Create(ctx, sheet); err != nil {
		if repositories.IsDuplicateKeyError(err) {
			// Two concurrent starts raced; the other one won, resume its
			// sheet.
			existing, lookupErr := s.repo.AnswerSheet().GetByStudentAndQuiz(ctx, studentID, req.QuizID)
			if lookupErr != nil {
				return nil, fmt.Errorf("failed to look up answer sheet after race: %w", lookupErr)
			}
			return s.resume(ctx, existing, setting, now)
		}
		return nil, fmt.Errorf("failed to create answer sheet: %w", err)
	}

	s.logger.Info("Quiz attempt started",
		"answer_sheet_id", sheet.ID,
		"quiz_id", req.QuizID,
		"student_id", studentID)

	s.publishEvent(events.NewAttemptStartedEvent(sheet.ID, studentID, req.QuizID, sheet.TotalPoints))

	return s.runtime.Assemble(sheet, quiz, setting, nil)
}

// SubmitAnswer records one answer for one question of an active sheet.
// The slot's unique constraint makes the write exactly-once; grading
// happens asynchronously after the answer is durable.
func (s *attemptService) SubmitAnswer(ctx context.Context, sheetID uint, req *SubmitAnswerRequest, studentID string) (*AnswerSlotResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	now := time.Now()

	sheet, err := s.getOwnedSheet(ctx, sheetID, studentID, "answer")
	if err != nil {
		return nil, err
	}
	if err := s.ensureActive(ctx, sheet, now); err != nil {
		return nil, err
	}

	quiz, err := s.runtime.GetQuiz(ctx, sheet.QuizID)
	if err != nil {
		return nil, err
	}

	question := findQuestion(quiz, req.QuestionID)
	if question == nil {
		return nil, ErrQuestionNotInQuiz
	}
	if question.Type == models.SingleSelect && len(req.SelectedOptionIDs) != 1 {
		return nil, ErrSingleSelectManyOptions
	}
	if err := validateSelectedOptions(question, req.SelectedOptionIDs); err != nil {
		return nil, err
	}

	slot := &models.AnswerSlot{
		AnswerSheetID:   sheet.ID,
		QuestionID:      question.ID,
		QuestionType:    question.Type,
		SelectedOptions: buildSlotOptions(req.SelectedOptionIDs),
	}

	if err := s.repo.AnswerSlot().Create(ctx, slot); err != nil {
		if repositories.IsDuplicateKeyError(err) {
			return nil, ErrQuestionAlreadyAnswered
		}
		return nil, fmt.Errorf("failed to create answer slot: %w", err)
	}

	s.logger.Info("Answer recorded",
		"answer_sheet_id", sheet.ID,
		"question_id", question.ID,
		"answer_slot_id", slot.ID)

	s.publishEvent(events.NewAnswerSavedEvent(sheet.ID, studentID, sheet.QuizID, question.ID, slot.ID))
	s.dispatcher.Enqueue(slot.ID)

	resp := newAnswerSlotResponse(slot)
	return &resp, nil
}

// Finish closes the sheet and fixes its score. Slots still at zero
// points are re-graded first, covering grading jobs that were dropped
// or failed, then the score is the sum of points awarded. Finishing an
// already-completed sheet returns the stored result unchanged.
func (s *attemptService) Finish(ctx context.Context, sheetID uint, studentID string) (*AttemptResult, error) {
	now := time.Now()

	sheet, err := s.getOwnedSheet(ctx, sheetID, studentID, "finish")
	if err != nil {
		return nil, err
	}

	if sheet.Status == models.AttemptCompleted && sheet.AttemptScore != nil {
		return newAttemptResult(sheet), nil
	}

	if err := s.finalize(ctx, sheet, now); err != nil {
		return nil, err
	}

	s.logger.Info("Quiz attempt finished",
		"answer_sheet_id", sheet.ID,
		"student_id", studentID,
		"attempt_score", *sheet.AttemptScore)

	s.publishEvent(events.NewAttemptFinishedEvent(sheet.ID, studentID, sheet.QuizID, *sheet.AttemptScore))

	return newAttemptResult(sheet), nil
}

// GetByID returns the sheet with its recorded answers. Reading an
// expired sheet completes it first, so clients never observe an
// in-progress attempt past its deadline.
func (s *attemptService) GetByID(ctx context.Context, sheetID uint, studentID string) (*AttemptDetail, error) {
	now := time.Now()

	sheet, err := s.repo.AnswerSheet().GetByIDWithSlots(ctx, sheetID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAnswerSheetNotFound
		}
		return nil, fmt.Errorf("failed to get answer sheet: %w", err)
	}
	if sheet.StudentID != studentID {
		return nil, NewPermissionError(studentID, sheetID, "answer_sheet", "read", "not owned by student")
	}

	if sheet.Status == models.AttemptInProgress && sheet.IsExpired(now) {
		if err := s.finalize(ctx, sheet, now); err != nil {
			return nil, err
		}
		// Finalization re-grades zero-point slots; reload them.
		sheet, err = s.repo.AnswerSheet().GetByIDWithSlots(ctx, sheetID)
		if err != nil {
			return nil, fmt.Errorf("failed to reload answer sheet: %w", err)
		}
	}

	detail := &AttemptDetail{
		AnswerSheetID: sheet.ID,
		StudentID:     sheet.StudentID,
		QuizID:        sheet.QuizID,
		Status:        sheet.Status,
		TimeStart:     sheet.TimeStart,
		TimeFinish:    sheet.TimeFinish,
		TimeLimit:     int64(sheet.TimeLimit / time.Second),
		TotalPoints:   sheet.TotalPoints,
		AttemptScore:  sheet.AttemptScore,
		Slots:         make([]AnswerSlotResponse, 0, len(sheet.Slots)),
	}
	for i := range sheet.Slots {
		detail.Slots = append(detail.Slots, newAnswerSlotResponse(&sheet.Slots[i]))
	}

	return detail, nil
}

// TimeRemaining reports how long the sheet stays open. A completed or
// expired sheet reports zero.
func (s *attemptService) TimeRemaining(ctx context.Context, sheetID uint, studentID string) (*TimeRemainingResponse, error) {
	now := time.Now()

	sheet, err := s.getOwnedSheet(ctx, sheetID, studentID, "read")
	if err != nil {
		return nil, err
	}

	if sheet.Status == models.AttemptInProgress && sheet.IsExpired(now) {
		if err := s.finalize(ctx, sheet, now); err != nil {
			return nil, err
		}
	}

	remaining := int64(0)
	if sheet.Status == models.AttemptInProgress {
		remaining = int64(sheet.Deadline().Sub(now) / time.Second)
		if remaining < 0 {
			remaining = 0
		}
	}

	return &TimeRemainingResponse{
		AnswerSheetID:    sheet.ID,
		Status:           sheet.Status,
		Deadline:         sheet.Deadline(),
		RemainingSeconds: remaining,
	}, nil
}
