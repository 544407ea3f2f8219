package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/campusworks/quiz-attempt-service/internal/events"
	"github.com/campusworks/quiz-attempt-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func multiSelectQuestion(points int) *models.Question {
	return &models.Question{
		ID:     1,
		Text:   "Which protocols run over UDP?",
		Points: points,
		Type:   models.MultiSelect,
		Options: []models.MCQOption{
			{ID: 11, QuestionID: 1, Text: "DNS", IsCorrect: true},
			{ID: 12, QuestionID: 1, Text: "HTTP", IsCorrect: false},
			{ID: 13, QuestionID: 1, Text: "DHCP", IsCorrect: true},
			{ID: 14, QuestionID: 1, Text: "SMTP", IsCorrect: false},
		},
	}
}

func singleSelectQuestion(points int) *models.Question {
	return &models.Question{
		ID:     2,
		Text:   "Which layer does TCP belong to?",
		Points: points,
		Type:   models.SingleSelect,
		Options: []models.MCQOption{
			{ID: 21, QuestionID: 2, Text: "Network", IsCorrect: false},
			{ID: 22, QuestionID: 2, Text: "Transport", IsCorrect: true},
			{ID: 23, QuestionID: 2, Text: "Session", IsCorrect: false},
		},
	}
}

func newTestGradingService(repo *MockRepository, publisher events.EventPublisher) GradingService {
	logger := testLogger()
	runtime := NewRuntimeQuizService(repo, nopCache{}, logger)
	return NewGradingService(repo, runtime, publisher, logger)
}

func TestGradeSlot_MultiSelect(t *testing.T) {
	grading := newTestGradingService(NewMockRepository(), events.NewMockEventPublisher(testLogger()))
	question := multiSelectQuestion(10)

	tests := []struct {
		name     string
		selected []uint
		want     float64
	}{
		{"one of two correct", []uint{11}, 5.0},
		{"all correct", []uint{11, 13}, 10.0},
		{"all correct plus a wrong pick", []uint{11, 13, 12}, 10.0},
		{"only wrong picks", []uint{12}, 0.0},
		{"several wrong picks", []uint{12, 14}, 0.0},
		{"nothing selected", nil, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, grading.GradeSlot(question, tt.selected))
		})
	}
}

func TestGradeSlot_MultiSelectRounding(t *testing.T) {
	grading := newTestGradingService(NewMockRepository(), events.NewMockEventPublisher(testLogger()))

	question := &models.Question{
		ID:     3,
		Points: 7,
		Type:   models.MultiSelect,
		Options: []models.MCQOption{
			{ID: 31, IsCorrect: true},
			{ID: 32, IsCorrect: true},
			{ID: 33, IsCorrect: true},
			{ID: 34, IsCorrect: false},
		},
	}

	// 2 of 3 correct options found: 2/3 * 7 = 4.666..., rounded to 4.67
	assert.Equal(t, 4.67, grading.GradeSlot(question, []uint{31, 32}))
}

func TestGradeSlot_SingleSelect(t *testing.T) {
	grading := newTestGradingService(NewMockRepository(), events.NewMockEventPublisher(testLogger()))
	question := singleSelectQuestion(5)

	tests := []struct {
		name     string
		selected []uint
		want     float64
	}{
		{"correct option", []uint{22}, 5.0},
		{"wrong option", []uint{21}, 0.0},
		{"two options never score", []uint{21, 22}, 0.0},
		{"nothing selected", nil, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, grading.GradeSlot(question, tt.selected))
		})
	}
}

func TestGradeSlot_NoCorrectOptions(t *testing.T) {
	grading := newTestGradingService(NewMockRepository(), events.NewMockEventPublisher(testLogger()))

	// A broken question without a key never awards points.
	question := &models.Question{
		ID:     4,
		Points: 5,
		Type:   models.MultiSelect,
		Options: []models.MCQOption{
			{ID: 41, IsCorrect: false},
			{ID: 42, IsCorrect: false},
		},
	}

	assert.Equal(t, 0.0, grading.GradeSlot(question, []uint{41}))
}

func TestGradeSlot_Idempotent(t *testing.T) {
	grading := newTestGradingService(NewMockRepository(), events.NewMockEventPublisher(testLogger()))
	question := multiSelectQuestion(10)

	first := grading.GradeSlot(question, []uint{11, 13})
	second := grading.GradeSlot(question, []uint{11, 13})
	assert.Equal(t, first, second)
}

func TestGradeSlotByID_PersistsScore(t *testing.T) {
	repo := NewMockRepository()
	publisher := events.NewMockEventPublisher(testLogger())
	grading := newTestGradingService(repo, publisher)

	question := multiSelectQuestion(10)
	slot := &models.AnswerSlot{
		ID:            42,
		AnswerSheetID: 7,
		QuestionID:    question.ID,
		QuestionType:  models.MultiSelect,
		SelectedOptions: []models.AnswerSlotOption{
			{AnswerSlotID: 42, OptionID: 11},
		},
	}
	sheet := &models.AnswerSheet{ID: 7, StudentID: "s-100", QuizID: 10}

	repo.answerSlot.On("GetByID", mock.Anything, uint(42)).Return(slot, nil)
	repo.quizCatalog.On("GetQuestion", mock.Anything, question.ID).Return(question, nil)
	repo.answerSlot.On("UpdatePoints", mock.Anything, uint(42), 5.0).Return(nil)
	repo.answerSheet.On("GetByID", mock.Anything, uint(7)).Return(sheet, nil)

	score, err := grading.GradeSlotByID(context.Background(), 42)

	assert.NoError(t, err)
	assert.Equal(t, 5.0, score)
	repo.answerSlot.AssertExpectations(t)

	published := publisher.PublishedEvents()
	if assert.Len(t, published, 1) {
		assert.Equal(t, events.GradingCompleted, published[0].Type)
		assert.Equal(t, uint(7), published[0].AnswerSheetID)
		assert.Equal(t, 5.0, published[0].Data["points_awarded"])
	}
}
