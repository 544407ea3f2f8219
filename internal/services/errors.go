package services

import (
	"errors"
	"fmt"

	apperrors "github.com/campusworks/quiz-attempt-service/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrForbidden        = errors.New("forbidden - insufficient permissions")
	ErrValidationFailed = errors.New("validation failed")
	ErrInternalError    = errors.New("internal server error")
	ErrConflict         = errors.New("resource conflict")

	// Quiz setting / key errors
	ErrQuizSettingNotFound = errors.New("quiz setting not found")
	ErrInvalidQuizKey      = errors.New("invalid quiz key for this quiz")
	ErrQuizNotActive       = errors.New("quiz is not active at this time")
	ErrDuplicateQuizKey    = errors.New("quiz key already exists for this quiz")

	// Quiz catalog errors
	ErrQuizNotFound        = errors.New("quiz not found")
	ErrQuestionNotFound    = errors.New("question not found")
	ErrQuestionNotInQuiz   = errors.New("question does not belong to this quiz")
	ErrQuestionNotGradable = errors.New("question type cannot be graded")
	ErrQuizHasNoQuestions  = errors.New("quiz has no questions")

	// Attempt errors
	ErrAnswerSheetNotFound     = errors.New("answer sheet not found")
	ErrAttemptAccessDenied     = errors.New("access denied to answer sheet")
	ErrAttemptAlreadyCompleted = errors.New("attempt is already completed")
	ErrAttemptNotCompleted     = errors.New("attempt is not completed yet")

	// Answer errors
	ErrQuestionAlreadyAnswered = errors.New("question already answered in this attempt")
	ErrSingleSelectManyOptions = errors.New("single select question accepts exactly one option")

	// Grading errors
	ErrAnswerSlotNotFound = errors.New("answer slot not found")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

type BusinessRuleError struct {
	Rule    string                 `json:"rule"`
	Message string                 `json:"message"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (bre *BusinessRuleError) Error() string {
	return fmt.Sprintf("business rule violation (%s): %s", bre.Rule, bre.Message)
}

type PermissionError struct {
	StudentID  string `json:"student_id"`
	ResourceID uint   `json:"resource_id"`
	Resource   string `json:"resource"`
	Action     string `json:"action"`
	Reason     string `json:"reason"`
}

func (pe *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: student %s cannot %s %s %d - %s",
		pe.StudentID, pe.Action, pe.Resource, pe.ResourceID, pe.Reason)
}

// ===== ERROR HELPERS =====

// NewValidationError creates a new validation error using the shared type
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

func NewBusinessRuleError(rule, message string, context map[string]interface{}) *BusinessRuleError {
	return &BusinessRuleError{
		Rule:    rule,
		Message: message,
		Context: context,
	}
}

func NewPermissionError(studentID string, resourceID uint, resource, action, reason string) *PermissionError {
	return &PermissionError{
		StudentID:  studentID,
		ResourceID: resourceID,
		Resource:   resource,
		Action:     action,
		Reason:     reason,
	}
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrQuizSettingNotFound) ||
		errors.Is(err, ErrQuizNotFound) ||
		errors.Is(err, ErrQuestionNotFound) ||
		errors.Is(err, ErrAnswerSheetNotFound) ||
		errors.Is(err, ErrAnswerSlotNotFound)
}

// IsForbidden checks if error represents a "forbidden" condition
func IsForbidden(err error) bool {
	if errors.Is(err, ErrForbidden) || errors.Is(err, ErrAttemptAccessDenied) {
		return true
	}
	var pe *PermissionError
	return errors.As(err, &pe)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) {
		return true
	}
	var ve apperrors.ValidationErrors
	return errors.As(err, &ve)
}

// IsBusinessRule checks if error represents a business rule violation
func IsBusinessRule(err error) bool {
	var bre *BusinessRuleError
	return errors.As(err, &bre)
}

// IsConflict checks if error represents a resource conflict
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrDuplicateQuizKey) ||
		errors.Is(err, ErrQuestionAlreadyAnswered) ||
		errors.Is(err, ErrAttemptAlreadyCompleted)
}
