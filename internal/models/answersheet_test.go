package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAnswerSheetDeadline(t *testing.T) {
	start := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	sheet := &AnswerSheet{
		TimeStart: start,
		TimeLimit: 30 * time.Minute,
	}

	assert.Equal(t, start.Add(30*time.Minute), sheet.Deadline())
	assert.False(t, sheet.IsExpired(start.Add(29*time.Minute)))
	assert.True(t, sheet.IsExpired(start.Add(31*time.Minute)))
}

func TestQuestionOrderRoundTrip(t *testing.T) {
	sheet := &AnswerSheet{}
	assert.NoError(t, sheet.SetQuestionOrder([]uint{3, 1, 2}))

	ids, err := sheet.QuestionOrderIDs()
	assert.NoError(t, err)
	assert.Equal(t, []uint{3, 1, 2}, ids)
}

func TestQuestionOrderEmpty(t *testing.T) {
	sheet := &AnswerSheet{}
	ids, err := sheet.QuestionOrderIDs()
	assert.NoError(t, err)
	assert.Nil(t, ids)
}

func TestAnswerSheetPatch_FinishTimeWrittenOnce(t *testing.T) {
	first := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)
	second := first.Add(10 * time.Minute)
	status := AttemptCompleted
	score := 7.5

	sheet := &AnswerSheet{Status: AttemptInProgress}

	patch := AnswerSheetPatch{Status: &status, TimeFinish: &first, AttemptScore: &score}
	patch.Apply(sheet)
	assert.Equal(t, AttemptCompleted, sheet.Status)
	assert.Equal(t, &first, sheet.TimeFinish)

	// A later finalization pass must not move the finish time.
	again := AnswerSheetPatch{TimeFinish: &second}
	again.Apply(sheet)
	assert.Equal(t, &first, sheet.TimeFinish)
}

func TestCorrectOptionIDs(t *testing.T) {
	question := &Question{
		Options: []MCQOption{
			{ID: 1, IsCorrect: true},
			{ID: 2, IsCorrect: false},
			{ID: 3, IsCorrect: true},
		},
	}
	assert.Equal(t, []uint{1, 3}, question.CorrectOptionIDs())
}
