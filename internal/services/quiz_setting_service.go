package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/campusworks/quiz-attempt-service/internal/models"
	"github.com/campusworks/quiz-attempt-service/internal/repositories"
	"github.com/campusworks/quiz-attempt-service/internal/utils"
)

// QuizSettingService manages quiz keys and decides whether an attempt may
// start against a given (quiz, key) pair at a given moment.
type QuizSettingService interface {
	Create(ctx context.Context, req *CreateQuizSettingRequest) (*models.QuizSetting, error)
	GetByID(ctx context.Context, id uint) (*models.QuizSetting, error)
	ListByQuiz(ctx context.Context, quizID uint) ([]*models.QuizSetting, error)
	Update(ctx context.Context, id uint, req *UpdateQuizSettingRequest) (*models.QuizSetting, error)
	Delete(ctx context.Context, id uint) error

	// ValidateKey returns the setting matching (quizID, quizKey) when the
	// key exists and its activation window admits now.
	ValidateKey(ctx context.Context, quizID uint, quizKey string, now time.Time) (*models.QuizSetting, error)
}

type quizSettingService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *utils.Validator
}

func NewQuizSettingService(repo repositories.Repository, logger *slog.Logger, validator *utils.Validator) QuizSettingService {
	return &quizSettingService{
		repo:      repo,
		logger:    logger,
		validator: validator,
	}
}

func (s *quizSettingService) Create(ctx context.Context, req *CreateQuizSettingRequest) (*models.QuizSetting, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if req.StartTime != nil && req.EndTime != nil && !req.EndTime.After(*req.StartTime) {
		return nil, NewValidationError("end_time", "must be after start_time", req.EndTime)
	}

	setting := &models.QuizSetting{
		QuizID:       req.QuizID,
		QuizKey:      req.QuizKey,
		Instructions: req.Instructions,
		TimeLimit:    time.Duration(req.TimeLimitSeconds) * time.Second,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
	}

	if err := s.repo.QuizSetting().Create(ctx, setting); err != nil {
		if repositories.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateQuizKey
		}
		return nil, fmt.Errorf("failed to create quiz setting: %w", err)
	}

	s.logger.Info("Quiz setting created",
		"setting_id", setting.ID,
		"quiz_id", setting.QuizID)

	return setting, nil
}

func (s *quizSettingService) GetByID(ctx context.Context, id uint) (*models.QuizSetting, error) {
	setting, err := s.repo.QuizSetting().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizSettingNotFound
		}
		return nil, fmt.Errorf("failed to get quiz setting: %w", err)
	}
	return setting, nil
}

func (s *quizSettingService) ListByQuiz(ctx context.Context, quizID uint) ([]*models.QuizSetting, error) {
	settings, err := s.repo.QuizSetting().ListByQuiz(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to list quiz settings: %w", err)
	}
	return settings, nil
}

func (s *quizSettingService) Update(ctx context.Context, id uint, req *UpdateQuizSettingRequest) (*models.QuizSetting, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	setting, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	patch := models.QuizSettingPatch{
		Instructions: req.Instructions,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
	}
	if req.TimeLimitSeconds != nil {
		limit := time.Duration(*req.TimeLimitSeconds) * time.Second
		patch.TimeLimit = &limit
	}
	patch.Apply(setting)

	if setting.StartTime != nil && setting.EndTime != nil && !setting.EndTime.After(*setting.StartTime) {
		return nil, NewValidationError("end_time", "must be after start_time", setting.EndTime)
	}

	if err := s.repo.QuizSetting().Update(ctx, setting); err != nil {
		return nil, fmt.Errorf("failed to update quiz setting: %w", err)
	}

	s.logger.Info("Quiz setting updated", "setting_id", setting.ID)
	return setting, nil
}

func (s *quizSettingService) Delete(ctx context.Context, id uint) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.QuizSetting().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete quiz setting: %w", err)
	}
	s.logger.Info("Quiz setting deleted", "setting_id", id)
	return nil
}

func (s *quizSettingService) ValidateKey(ctx context.Context, quizID uint, quizKey string, now time.Time) (*models.QuizSetting, error) {
	setting, err := s.repo.QuizSetting().GetByQuizAndKey(ctx, quizID, quizKey)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrInvalidQuizKey
		}
		return nil, fmt.Errorf("failed to look up quiz key: %w", err)
	}

	if !setting.IsActiveAt(now) {
		return nil, ErrQuizNotActive
	}

	return setting, nil
}
