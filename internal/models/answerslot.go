package models

import "time"

type QuestionType string

const (
	SingleSelect QuestionType = "single_select"
	MultiSelect  QuestionType = "multi_select"
)

// AnswerSlot is one student's answer to one question within an attempt.
// A question is answered exactly once per sheet; the unique index on
// (answer_sheet_id, question_id) closes the concurrent double-submit race
// that an application-level existence check alone would leave open.
type AnswerSlot struct {
	ID            uint `json:"id" gorm:"primaryKey"`
	AnswerSheetID uint `json:"answer_sheet_id" gorm:"not null;uniqueIndex:ux_answer_slots_sheet_question"`
	QuestionID    uint `json:"question_id" gorm:"not null;uniqueIndex:ux_answer_slots_sheet_question"`

	// Copied from the question at creation, not re-derived on grading.
	QuestionType QuestionType `json:"question_type" gorm:"not null;size:20"`

	PointsAwarded float64 `json:"points_awarded" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	SelectedOptions []AnswerSlotOption `json:"selected_options" gorm:"foreignKey:AnswerSlotID"`
}

func (AnswerSlot) TableName() string {
	return "answer_slots"
}

// SelectedOptionIDs flattens the child rows into a plain id list.
func (s *AnswerSlot) SelectedOptionIDs() []uint {
	ids := make([]uint, len(s.SelectedOptions))
	for i, opt := range s.SelectedOptions {
		ids[i] = opt.OptionID
	}
	return ids
}

// AnswerSlotOption records a single option the student selected.
type AnswerSlotOption struct {
	ID           uint `json:"id" gorm:"primaryKey"`
	AnswerSlotID uint `json:"answer_slot_id" gorm:"not null;index"`
	OptionID     uint `json:"option_id" gorm:"not null"`

	CreatedAt time.Time `json:"created_at"`
}

func (AnswerSlotOption) TableName() string {
	return "answer_slot_options"
}
