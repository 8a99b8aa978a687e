package handler_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/studyprep-go-api/internal/config"
	"github.com/noah-isme/studyprep-go-api/internal/dto"
	"github.com/noah-isme/studyprep-go-api/internal/handler"
	"github.com/noah-isme/studyprep-go-api/internal/middleware"
	"github.com/noah-isme/studyprep-go-api/internal/models"
	"github.com/noah-isme/studyprep-go-api/internal/repository"
	"github.com/noah-isme/studyprep-go-api/internal/router"
	"github.com/noah-isme/studyprep-go-api/internal/service"
)

const adminTestSecret = "admin-handler-test-secret"

// setupAdminApp wires the console routes behind the real JWT and role
// middleware so the tests exercise the whole authentication chain.
func setupAdminApp(t *testing.T) (*fiber.App, service.AdminService) {
	t.Helper()

	mini, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mini.Close)

	db := newHandlerDB(t)
	validate := validator.New(validator.WithRequiredStructEnabled())
	logger := zerolog.New(io.Discard)
	cache := redis.NewClient(&redis.Options{Addr: mini.Addr()})

	userRepo := repository.NewUserRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	communityRepo := repository.NewCommunityRepository(db)

	adminService := service.NewAdminService(
		userRepo,
		questionRepo,
		repository.NewResourceRepository(db),
		communityRepo,
		repository.NewCheckInRepository(db),
		cache,
		time.Minute,
		adminTestSecret,
		time.Hour,
		validate,
		logger,
	)
	questionService := service.NewQuestionService(questionRepo, cache, time.Minute, validate, logger)
	communityService := service.NewCommunityService(communityRepo, repository.NewCheckInRepository(db), validate, logger)

	app := fiber.New()
	router.Register(app, config.Config{AppName: "Test"}, router.Dependencies{
		AdminHandler:  handler.NewAdminHandler(adminService, questionService, communityService, logger),
		JWTMiddleware: middleware.JWTProtected(adminTestSecret),
	})

	return app, adminService
}

func adminToken(t *testing.T, app *fiber.App, svc service.AdminService) string {
	t.Helper()

	require.NoError(t, svc.EnsureAdmin(context.Background(), "root", "sturdy-pass"))

	resp := doJSON(t, app, http.MethodPost, "/api/v1/admin/login", dto.AdminLoginRequest{
		Username: "root",
		Password: "sturdy-pass",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var login dto.LoginResponse
	decodeData(t, resp, &login)
	require.NotEmpty(t, login.Token)

	return login.Token
}

func doAuthorized(t *testing.T, app *fiber.App, method, path, token string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)

	return resp
}

func TestAdminLoginGrantsConsoleAccess(t *testing.T) {
	app, svc := setupAdminApp(t)
	token := adminToken(t, app, svc)

	resp := doAuthorized(t, app, http.MethodGet, "/api/v1/admin/statistics", token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var stats dto.AdminStatisticsResponse
	decodeData(t, resp, &stats)
	require.EqualValues(t, 1, stats.TotalUsers)
}

func TestAdminLoginRejectsWrongPassword(t *testing.T) {
	app, svc := setupAdminApp(t)
	require.NoError(t, svc.EnsureAdmin(context.Background(), "root", "sturdy-pass"))

	resp := doJSON(t, app, http.MethodPost, "/api/v1/admin/login", dto.AdminLoginRequest{
		Username: "root",
		Password: "guess",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestConsoleRequiresAdminRole(t *testing.T) {
	app, _ := setupAdminApp(t)

	// A valid token holding the USER role must be turned away.
	claims := jwt.MapClaims{
		"sub":  "7",
		"role": models.RoleUser,
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
	userToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(adminTestSecret))
	require.NoError(t, err)

	resp := doAuthorized(t, app, http.MethodGet, "/api/v1/admin/statistics", userToken)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestConsoleRequiresToken(t *testing.T) {
	app, _ := setupAdminApp(t)

	resp := doAuthorized(t, app, http.MethodGet, "/api/v1/admin/statistics", "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAdminManagesAccounts(t *testing.T) {
	app, svc := setupAdminApp(t)
	token := adminToken(t, app, svc)

	db := newHandlerDB(t)
	user := models.User{OpenID: "open-managed", NickName: "Ada"}
	require.NoError(t, db.Create(&user).Error)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/users?nick_name=Ada", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var page dto.UserPageResponse
	decodeData(t, resp, &page)
	require.EqualValues(t, 1, page.Total)
	require.Equal(t, "Ada", page.Items[0].NickName)

	resp = doAuthorized(t, app, http.MethodDelete, "/api/v1/admin/users/9999", token)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAdminDeletesQuestion(t *testing.T) {
	app, svc := setupAdminApp(t)
	token := adminToken(t, app, svc)

	db := newHandlerDB(t)
	question := models.Question{Subject: "math", Type: models.QuestionTypeFillBlank, Content: "1+1=?", Answer: "2"}
	require.NoError(t, db.Create(&question).Error)

	resp := doAuthorized(t, app, http.MethodDelete, "/api/v1/admin/questions/1", token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var count int64
	require.NoError(t, db.Model(&models.Question{}).Count(&count).Error)
	require.EqualValues(t, 0, count)
}
