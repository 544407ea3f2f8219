package services

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/campusworks/quiz-attempt-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newTestRuntimeService(repo *MockRepository) RuntimeQuizService {
	return NewRuntimeQuizService(repo, nopCache{}, testLogger())
}

func TestTotalPoints(t *testing.T) {
	runtime := newTestRuntimeService(NewMockRepository())
	assert.Equal(t, 15, runtime.TotalPoints(testQuizFixture()))
}

func TestShuffledQuestionIDs_Permutation(t *testing.T) {
	runtime := newTestRuntimeService(NewMockRepository())
	quiz := &models.Quiz{
		Questions: []models.QuizQuestion{
			{QuestionID: 1}, {QuestionID: 2}, {QuestionID: 3}, {QuestionID: 4}, {QuestionID: 5},
		},
	}

	ids := runtime.ShuffledQuestionIDs(quiz)

	sorted := append([]uint(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	assert.Equal(t, []uint{1, 2, 3, 4, 5}, sorted)
}

func TestAssemble_FollowsPersistedOrder(t *testing.T) {
	runtime := newTestRuntimeService(NewMockRepository())
	quiz := testQuizFixture()
	setting := testSettingFixture()
	sheet := testSheetFixture(models.AttemptInProgress, time.Now())

	got, err := runtime.Assemble(sheet, quiz, setting, nil)

	assert.NoError(t, err)
	if assert.Len(t, got.QuizQuestions, 2) {
		// Order [2, 1] was fixed when the sheet was created.
		assert.Equal(t, uint(2), got.QuizQuestions[0].ID)
		assert.Equal(t, uint(1), got.QuizQuestions[1].ID)
	}
	assert.Equal(t, "No calculators.", got.Instructions)
}

func TestAssemble_FiltersAnsweredQuestions(t *testing.T) {
	runtime := newTestRuntimeService(NewMockRepository())
	quiz := testQuizFixture()
	setting := testSettingFixture()
	sheet := testSheetFixture(models.AttemptInProgress, time.Now())

	got, err := runtime.Assemble(sheet, quiz, setting, []uint{2})

	assert.NoError(t, err)
	if assert.Len(t, got.QuizQuestions, 1) {
		assert.Equal(t, uint(1), got.QuizQuestions[0].ID)
	}
}

func TestAssemble_SkipsQuestionsRemovedFromQuiz(t *testing.T) {
	runtime := newTestRuntimeService(NewMockRepository())
	quiz := testQuizFixture()
	setting := testSettingFixture()
	sheet := testSheetFixture(models.AttemptInProgress, time.Now())
	// The persisted order references a question the quiz no longer has.
	_ = sheet.SetQuestionOrder([]uint{2, 99, 1})

	got, err := runtime.Assemble(sheet, quiz, setting, nil)

	assert.NoError(t, err)
	assert.Len(t, got.QuizQuestions, 2)
}

func TestGetQuiz_FallsThroughToRepository(t *testing.T) {
	repo := NewMockRepository()
	runtime := newTestRuntimeService(repo)
	quiz := testQuizFixture()

	repo.quizCatalog.On("GetQuizWithQuestions", mock.Anything, uint(10)).Return(quiz, nil)

	got, err := runtime.GetQuiz(context.Background(), 10)

	assert.NoError(t, err)
	assert.Equal(t, "Networks Midterm", got.Title)
}
