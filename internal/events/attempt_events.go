package events

import (
	"time"

	"github.com/ThreeDotsLabs/watermill"
)

type AttemptEventType string

const (
	AttemptStarted   AttemptEventType = "attempt.started"
	AnswerSaved      AttemptEventType = "attempt.answer_saved"
	GradingCompleted AttemptEventType = "attempt.grading_completed"
	AttemptFinished  AttemptEventType = "attempt.finished"
)

// AttemptEvent is the envelope published for every attempt lifecycle
// transition. Downstream consumers (notifications, analytics) key off
// Type; Data carries the event-specific fields.
type AttemptEvent struct {
	ID        string           `json:"id"`
	Type      AttemptEventType `json:"type"`
	Source    string           `json:"source"`
	Version   string           `json:"version"`
	Timestamp time.Time        `json:"timestamp"`

	AnswerSheetID uint   `json:"answer_sheet_id"`
	StudentID     string `json:"student_id"`
	QuizID        uint   `json:"quiz_id"`

	Data map[string]interface{} `json:"data,omitempty"`
}

const eventSource = "quiz-attempt-service"

func newAttemptEvent(eventType AttemptEventType, sheetID uint, studentID string, quizID uint, data map[string]interface{}) *AttemptEvent {
	return &AttemptEvent{
		ID:            watermill.NewUUID(),
		Type:          eventType,
		Source:        eventSource,
		Version:       "1.0",
		Timestamp:     time.Now().UTC(),
		AnswerSheetID: sheetID,
		StudentID:     studentID,
		QuizID:        quizID,
		Data:          data,
	}
}

// NewAttemptStartedEvent marks the creation of a new answer sheet.
func NewAttemptStartedEvent(sheetID uint, studentID string, quizID uint, totalPoints int) *AttemptEvent {
	return newAttemptEvent(AttemptStarted, sheetID, studentID, quizID, map[string]interface{}{
		"total_points": totalPoints,
	})
}

// NewAnswerSavedEvent marks a persisted (not yet graded) answer slot.
func NewAnswerSavedEvent(sheetID uint, studentID string, quizID, questionID, slotID uint) *AttemptEvent {
	return newAttemptEvent(AnswerSaved, sheetID, studentID, quizID, map[string]interface{}{
		"question_id":    questionID,
		"answer_slot_id": slotID,
	})
}

// NewGradingCompletedEvent marks a slot whose score has been written.
func NewGradingCompletedEvent(sheetID uint, studentID string, quizID, slotID uint, pointsAwarded float64) *AttemptEvent {
	return newAttemptEvent(GradingCompleted, sheetID, studentID, quizID, map[string]interface{}{
		"answer_slot_id": slotID,
		"points_awarded": pointsAwarded,
	})
}

// NewAttemptFinishedEvent marks a completed sheet with its final score.
func NewAttemptFinishedEvent(sheetID uint, studentID string, quizID uint, attemptScore float64) *AttemptEvent {
	return newAttemptEvent(AttemptFinished, sheetID, studentID, quizID, map[string]interface{}{
		"attempt_score": attemptScore,
	})
}
