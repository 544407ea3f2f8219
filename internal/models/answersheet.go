package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

type AttemptStatus string

const (
	AttemptToDo       AttemptStatus = "to_do"
	AttemptInProgress AttemptStatus = "in_progress"
	AttemptCompleted  AttemptStatus = "completed"
)

// AnswerSheet is one student's single timed run through one quiz.
// One sheet per (student_id, quiz_id), enforced by a unique index.
type AnswerSheet struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	StudentID string `json:"student_id" gorm:"not null;size:255;uniqueIndex:ux_answer_sheets_student_quiz"`
	QuizID    uint   `json:"quiz_id" gorm:"not null;uniqueIndex:ux_answer_sheets_student_quiz"`
	QuizKey   string `json:"quiz_key" gorm:"size:160"`

	// Snapshots taken from the quiz setting / quiz definition at creation
	// time. Later edits to either never affect a running attempt.
	TimeLimit   time.Duration `json:"time_limit" gorm:"not null"`
	TotalPoints int           `json:"total_points" gorm:"not null"`

	TimeStart  time.Time     `json:"time_start" gorm:"not null"`
	TimeFinish *time.Time    `json:"time_finish"`
	Status     AttemptStatus `json:"status" gorm:"default:in_progress;index"`

	AttemptScore *float64 `json:"attempt_score"`

	// Question ids in the shuffled order served to the student, fixed at
	// creation so resume views keep the same ordering.
	QuestionOrder datatypes.JSON `json:"question_order" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Slots []AnswerSlot `json:"slots,omitempty" gorm:"foreignKey:AnswerSheetID"`
}

func (AnswerSheet) TableName() string {
	return "answer_sheets"
}

// Deadline is the instant the attempt's own time limit runs out.
func (s *AnswerSheet) Deadline() time.Time {
	return s.TimeStart.Add(s.TimeLimit)
}

func (s *AnswerSheet) IsExpired(now time.Time) bool {
	return now.After(s.Deadline())
}

func (s *AnswerSheet) SetQuestionOrder(questionIDs []uint) error {
	raw, err := json.Marshal(questionIDs)
	if err != nil {
		return err
	}
	s.QuestionOrder = datatypes.JSON(raw)
	return nil
}

func (s *AnswerSheet) QuestionOrderIDs() ([]uint, error) {
	if len(s.QuestionOrder) == 0 {
		return nil, nil
	}
	var ids []uint
	if err := json.Unmarshal(s.QuestionOrder, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// AnswerSheetPatch is an explicit, typed partial update for an answer
// sheet. Fields left nil are untouched.
type AnswerSheetPatch struct {
	Status       *AttemptStatus `json:"status"`
	TimeFinish   *time.Time     `json:"time_finish"`
	AttemptScore *float64       `json:"attempt_score"`
}

// Apply copies the set fields onto the sheet. TimeFinish is written at
// most once: a sheet that already carries a finish time keeps it.
func (p AnswerSheetPatch) Apply(sheet *AnswerSheet) {
	if p.Status != nil {
		sheet.Status = *p.Status
	}
	if p.TimeFinish != nil && sheet.TimeFinish == nil {
		sheet.TimeFinish = p.TimeFinish
	}
	if p.AttemptScore != nil {
		sheet.AttemptScore = p.AttemptScore
	}
}
