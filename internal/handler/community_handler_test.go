package handler_test

import (
	"io"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
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

func setupCommunityApp(t *testing.T) *fiber.App {
	t.Helper()

	db := newHandlerDB(t)
	validate := validator.New(validator.WithRequiredStructEnabled())
	logger := zerolog.New(io.Discard)

	communityService := service.NewCommunityService(
		repository.NewCommunityRepository(db),
		repository.NewCheckInRepository(db),
		validate,
		logger,
	)

	app := fiber.New()
	router.Register(app, config.Config{AppName: "Test"}, router.Dependencies{
		CommunityHandler: handler.NewCommunityHandler(communityService, logger),
		JWTMiddleware:    authAs(7, models.RoleUser),
	})

	return app
}

func TestCommunityHandlerPostLifecycle(t *testing.T) {
	app := setupCommunityApp(t)

	resp := doJSON(t, app, "POST", "/api/v1/community/posts", dto.PostCreateRequest{
		Title:    "Week one recap",
		Content:  "Finished two chapters",
		Category: models.PostCategoryExperience,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var created dto.PostResponse
	decodeData(t, resp, &created)
	require.EqualValues(t, 7, created.UserID)

	resp = doJSON(t, app, "POST", "/api/v1/community/comments", dto.CommentCreateRequest{
		PostID:  created.ID,
		Content: "keep it up",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, "GET", "/api/v1/community/posts?category=EXPERIENCE", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var page dto.PostPageResponse
	decodeData(t, resp, &page)
	require.Len(t, page.Items, 1)
	require.Equal(t, 1, page.Items[0].CommentCount)
}

func TestCommunityHandlerCommentOnMissingPost(t *testing.T) {
	app := setupCommunityApp(t)

	resp := doJSON(t, app, "POST", "/api/v1/community/comments", dto.CommentCreateRequest{
		PostID:  999,
		Content: "into the void",
	})
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestCommunityHandlerDuplicateCheckInConflicts(t *testing.T) {
	app := setupCommunityApp(t)

	resp := doJSON(t, app, "POST", "/api/v1/community/check-ins", dto.CheckInRequest{
		CheckInDate: "2026-04-01",
		StudyHours:  3,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, "POST", "/api/v1/community/check-ins", dto.CheckInRequest{
		CheckInDate: "2026-04-01",
	})
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestCommunityHandlerCheckInDefaultsToToday(t *testing.T) {
	app := setupCommunityApp(t)

	// Empty body means today's date.
	resp := doJSON(t, app, "POST", "/api/v1/community/check-ins", nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, "GET", "/api/v1/community/check-ins/streak", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var streak dto.StreakResponse
	decodeData(t, resp, &streak)
	require.Equal(t, 1, streak.ContinuousDays)
}
