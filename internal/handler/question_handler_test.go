package handler_test

import (
	"fmt"
	"io"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/studyprep-go-api/internal/config"
	"github.com/noah-isme/studyprep-go-api/internal/dto"
	"github.com/noah-isme/studyprep-go-api/internal/handler"
	"github.com/noah-isme/studyprep-go-api/internal/models"
	"github.com/noah-isme/studyprep-go-api/internal/repository"
	"github.com/noah-isme/studyprep-go-api/internal/router"
	"github.com/noah-isme/studyprep-go-api/internal/service"
)

func setupQuestionApp(t *testing.T, role string) *fiber.App {
	t.Helper()

	mini, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mini.Close)

	db := newHandlerDB(t)
	validate := validator.New(validator.WithRequiredStructEnabled())
	logger := zerolog.New(io.Discard)

	questionService := service.NewQuestionService(
		repository.NewQuestionRepository(db),
		redis.NewClient(&redis.Options{Addr: mini.Addr()}),
		time.Minute,
		validate,
		logger,
	)

	app := fiber.New()
	router.Register(app, config.Config{AppName: "Test"}, router.Dependencies{
		QuestionHandler: handler.NewQuestionHandler(questionService, logger),
		JWTMiddleware:   authAs(1, role),
	})

	return app
}

func TestQuestionHandlerAdminCanCreate(t *testing.T) {
	app := setupQuestionApp(t, models.RoleAdmin)

	resp := doJSON(t, app, "POST", "/api/v1/questions", dto.QuestionCreateRequest{
		Subject: "Math",
		Type:    models.QuestionTypeSingleChoice,
		Content: "2 + 2 = ?",
		OptionA: "3",
		OptionB: "4",
		Answer:  "B",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var created dto.QuestionResponse
	decodeData(t, resp, &created)
	require.NotZero(t, created.ID)

	resp = doJSON(t, app, "GET", fmt.Sprintf("/api/v1/questions/%d", created.ID), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestQuestionHandlerUserCannotCreate(t *testing.T) {
	app := setupQuestionApp(t, models.RoleUser)

	resp := doJSON(t, app, "POST", "/api/v1/questions", dto.QuestionCreateRequest{
		Subject: "Math",
		Type:    models.QuestionTypeSingleChoice,
		Content: "2 + 2 = ?",
		Answer:  "B",
	})
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestQuestionHandlerListIsOpenToUsers(t *testing.T) {
	app := setupQuestionApp(t, models.RoleUser)

	resp := doJSON(t, app, "GET", "/api/v1/questions?subject=Math", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestHealthEndpoint(t *testing.T) {
	app := fiber.New()
	router.Register(app, config.Config{AppName: "StudyPrep", AppEnv: "test"}, router.Dependencies{})

	resp := doJSON(t, app, "GET", "/api/v1/health", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "StudyPrep", resp.Header.Get("X-Application"))

	var health handler.HealthResponse
	decodeData(t, resp, &health)
	require.Equal(t, "ok", health.Status)
	require.Equal(t, "StudyPrep", health.Service)
}
