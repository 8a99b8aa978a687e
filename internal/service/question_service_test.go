package service

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/studyprep-go-api/internal/dto"
	"github.com/noah-isme/studyprep-go-api/internal/models"
	"github.com/noah-isme/studyprep-go-api/internal/repository"
)

func newQuestionService(t *testing.T) (QuestionService, *gorm.DB, *miniredis.Miniredis) {
	t.Helper()

	mini, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mini.Close)

	db := newTestDB(t)
	svc := NewQuestionService(
		repository.NewQuestionRepository(db),
		redis.NewClient(&redis.Options{Addr: mini.Addr()}),
		time.Minute,
		validator.New(validator.WithRequiredStructEnabled()),
		zerolog.Nop(),
	)

	return svc, db, mini
}

func TestGetQuestionsServesCachedPage(t *testing.T) {
	svc, db, _ := newQuestionService(t)
	ctx := context.Background()

	seedQuestion(t, db, "Math", "4")

	first, err := svc.GetQuestions(ctx, dto.QuestionFilter{Subject: "Math"})
	require.NoError(t, err)
	require.Len(t, first.Items, 1)
	require.EqualValues(t, 1, first.Total)

	// A direct write bypasses invalidation, so the snapshot must win.
	seedQuestion(t, db, "Math", "9")

	second, err := svc.GetQuestions(ctx, dto.QuestionFilter{Subject: "Math"})
	require.NoError(t, err)
	require.Len(t, second.Items, 1)
	require.EqualValues(t, 1, second.Total)
}

func TestCreateQuestionInvalidatesPageCache(t *testing.T) {
	svc, db, _ := newQuestionService(t)
	ctx := context.Background()

	seedQuestion(t, db, "Math", "4")

	first, err := svc.GetQuestions(ctx, dto.QuestionFilter{Subject: "Math"})
	require.NoError(t, err)
	require.EqualValues(t, 1, first.Total)

	_, err = svc.CreateQuestion(ctx, dto.QuestionCreateRequest{
		Subject: "Math",
		Type:    models.QuestionTypeFillBlank,
		Content: "2+2?",
		Answer:  "4",
	})
	require.NoError(t, err)

	second, err := svc.GetQuestions(ctx, dto.QuestionFilter{Subject: "Math"})
	require.NoError(t, err)
	require.EqualValues(t, 2, second.Total)
}

func TestGetQuestionsSurvivesCacheOutage(t *testing.T) {
	svc, db, mini := newQuestionService(t)
	ctx := context.Background()

	seedQuestion(t, db, "Math", "4")
	mini.Close()

	page, err := svc.GetQuestions(ctx, dto.QuestionFilter{Subject: "Math"})
	require.NoError(t, err)
	require.EqualValues(t, 1, page.Total)
}

func TestGetQuestionNotFound(t *testing.T) {
	svc, _, _ := newQuestionService(t)

	_, err := svc.GetQuestion(context.Background(), 1234)
	require.ErrorIs(t, err, ErrQuestionNotFound)
}

func TestDeleteQuestionInvalidatesPageCache(t *testing.T) {
	svc, db, _ := newQuestionService(t)
	ctx := context.Background()

	kept := seedQuestion(t, db, "Math", "4")
	doomed := seedQuestion(t, db, "Math", "9")

	first, err := svc.GetQuestions(ctx, dto.QuestionFilter{Subject: "Math"})
	require.NoError(t, err)
	require.EqualValues(t, 2, first.Total)

	require.NoError(t, svc.DeleteQuestion(ctx, doomed.ID))

	second, err := svc.GetQuestions(ctx, dto.QuestionFilter{Subject: "Math"})
	require.NoError(t, err)
	require.EqualValues(t, 1, second.Total)
	require.Equal(t, kept.ID, second.Items[0].ID)

	_, err = svc.GetQuestion(ctx, doomed.ID)
	require.ErrorIs(t, err, ErrQuestionNotFound)
}

func TestDeleteQuestionNotFound(t *testing.T) {
	svc, _, _ := newQuestionService(t)

	require.ErrorIs(t, svc.DeleteQuestion(context.Background(), 4321), ErrQuestionNotFound)
}
