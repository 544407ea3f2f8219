package services

import (
	"time"

	"github.com/campusworks/quiz-attempt-service/internal/models"
)

// ===== REQUESTS =====

type StartAttemptRequest struct {
	QuizID  uint   `json:"quiz_id" validate:"required"`
	QuizKey string `json:"quiz_key" validate:"required,min=1,max=160"`
}

type SubmitAnswerRequest struct {
	QuestionID        uint   `json:"question_id" validate:"required"`
	SelectedOptionIDs []uint `json:"selected_option_ids" validate:"required,min=1,dive,required"`
}

type ValidateQuizKeyRequest struct {
	QuizID  uint   `json:"quiz_id" validate:"required"`
	QuizKey string `json:"quiz_key" validate:"required,min=1,max=160"`
}

type CreateQuizSettingRequest struct {
	QuizID           uint       `json:"quiz_id" validate:"required"`
	QuizKey          string     `json:"quiz_key" validate:"required,min=1,max=160"`
	Instructions     string     `json:"instructions" validate:"max=2000"`
	TimeLimitSeconds int64      `json:"time_limit_seconds" validate:"required,min=60,max=14400"`
	StartTime        *time.Time `json:"start_time"`
	EndTime          *time.Time `json:"end_time"`
}

type UpdateQuizSettingRequest struct {
	Instructions     *string    `json:"instructions" validate:"omitempty,max=2000"`
	TimeLimitSeconds *int64     `json:"time_limit_seconds" validate:"omitempty,min=60,max=14400"`
	StartTime        *time.Time `json:"start_time"`
	EndTime          *time.Time `json:"end_time"`
}

// ===== STUDENT-FACING QUIZ VIEW =====

// RuntimeQuizGenerated is the attempt view served to a student: the sheet
// header plus the questions still open for answering, in the sheet's
// persisted order. Option views carry no correctness marker, so the
// grading key never reaches the wire.
type RuntimeQuizGenerated struct {
	AnswerSheetID uint           `json:"answer_sheet_id"`
	QuizTitle     string         `json:"quiz_title"`
	CourseID      uint           `json:"course_id"`
	Instructions  string         `json:"instructions"`
	StudentID     string         `json:"student_id"`
	QuizID        uint           `json:"quiz_id"`
	QuizKey       string         `json:"quiz_key"`
	TimeLimit     int64          `json:"time_limit_seconds"`
	TimeStart     time.Time      `json:"time_start"`
	TotalPoints   int            `json:"total_points"`
	QuizQuestions []QuestionView `json:"quiz_questions"`
}

type QuestionView struct {
	ID      uint                `json:"id"`
	Text    string              `json:"text"`
	Points  int                 `json:"points"`
	Type    models.QuestionType `json:"type"`
	Options []OptionView        `json:"options"`
}

type OptionView struct {
	ID   uint   `json:"id"`
	Text string `json:"text"`
}

// ===== RESPONSES =====

type AnswerSlotResponse struct {
	ID                uint                `json:"id"`
	AnswerSheetID     uint                `json:"answer_sheet_id"`
	QuestionID        uint                `json:"question_id"`
	QuestionType      models.QuestionType `json:"question_type"`
	SelectedOptionIDs []uint              `json:"selected_option_ids"`
	CreatedAt         time.Time           `json:"created_at"`
}

type AttemptResult struct {
	AnswerSheetID uint                 `json:"answer_sheet_id"`
	StudentID     string               `json:"student_id"`
	QuizID        uint                 `json:"quiz_id"`
	Status        models.AttemptStatus `json:"status"`
	AttemptScore  float64              `json:"attempt_score"`
	TotalPoints   int                  `json:"total_points"`
	TimeStart     time.Time            `json:"time_start"`
	TimeFinish    *time.Time           `json:"time_finish"`
}

type AttemptDetail struct {
	AnswerSheetID uint                 `json:"answer_sheet_id"`
	StudentID     string               `json:"student_id"`
	QuizID        uint                 `json:"quiz_id"`
	Status        models.AttemptStatus `json:"status"`
	TimeStart     time.Time            `json:"time_start"`
	TimeFinish    *time.Time           `json:"time_finish"`
	TimeLimit     int64                `json:"time_limit_seconds"`
	TotalPoints   int                  `json:"total_points"`
	AttemptScore  *float64             `json:"attempt_score"`
	Slots         []AnswerSlotResponse `json:"slots"`
}

type TimeRemainingResponse struct {
	AnswerSheetID    uint                 `json:"answer_sheet_id"`
	Status           models.AttemptStatus `json:"status"`
	Deadline         time.Time            `json:"deadline"`
	RemainingSeconds int64                `json:"remaining_seconds"`
}

func newAnswerSlotResponse(slot *models.AnswerSlot) AnswerSlotResponse {
	return AnswerSlotResponse{
		ID:                slot.ID,
		AnswerSheetID:     slot.AnswerSheetID,
		QuestionID:        slot.QuestionID,
		QuestionType:      slot.QuestionType,
		SelectedOptionIDs: slot.SelectedOptionIDs(),
		CreatedAt:         slot.CreatedAt,
	}
}
