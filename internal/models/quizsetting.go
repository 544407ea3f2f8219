package models

import "time"

// QuizSetting gates attempts on a quiz with a shared key and an optional
// activation window. A quiz may carry several settings (re-issued keys),
// but a (quiz_id, quiz_key) pair exists at most once.
type QuizSetting struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	QuizID  uint   `json:"quiz_id" gorm:"not null;uniqueIndex:ux_quiz_settings_quiz_key" validate:"required"`
	QuizKey string `json:"quiz_key" gorm:"not null;size:160;uniqueIndex:ux_quiz_settings_quiz_key" validate:"required,min=1,max=160"`

	Instructions string        `json:"instructions" gorm:"type:text"`
	TimeLimit    time.Duration `json:"time_limit" gorm:"not null" validate:"required,min=1"`

	// When both bounds are set the key only works inside the window;
	// a missing bound means always active.
	StartTime *time.Time `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (QuizSetting) TableName() string {
	return "quiz_settings"
}

// IsActiveAt reports whether the setting's window admits now.
func (qs *QuizSetting) IsActiveAt(now time.Time) bool {
	if qs.StartTime == nil || qs.EndTime == nil {
		return true
	}
	return !now.Before(*qs.StartTime) && !now.After(*qs.EndTime)
}

// QuizSettingPatch is an explicit, typed partial update for a quiz
// setting. Fields left nil are untouched.
type QuizSettingPatch struct {
	Instructions *string        `json:"instructions"`
	TimeLimit    *time.Duration `json:"time_limit"`
	StartTime    *time.Time     `json:"start_time"`
	EndTime      *time.Time     `json:"end_time"`
}

func (p QuizSettingPatch) Apply(setting *QuizSetting) {
	if p.Instructions != nil {
		setting.Instructions = *p.Instructions
	}
	if p.TimeLimit != nil {
		setting.TimeLimit = *p.TimeLimit
	}
	if p.StartTime != nil {
		setting.StartTime = p.StartTime
	}
	if p.EndTime != nil {
		setting.EndTime = p.EndTime
	}
}
