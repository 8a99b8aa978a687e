package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/studyprep-go-api/internal/dto"
	"github.com/noah-isme/studyprep-go-api/internal/models"
	"github.com/noah-isme/studyprep-go-api/internal/repository"
)

type stubExchanger struct {
	openID string
	err    error
}

func (s stubExchanger) ExchangeCode(_ context.Context, _ string) (string, error) {
	return s.openID, s.err
}

const testJWTSecret = "user-service-test-secret"

func newUserService(t *testing.T, sessions SessionExchanger) (UserService, *gorm.DB) {
	t.Helper()

	mini, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mini.Close)

	db := newTestDB(t)
	svc := NewUserService(
		repository.NewUserRepository(db),
		sessions,
		redis.NewClient(&redis.Options{Addr: mini.Addr()}),
		time.Minute,
		testJWTSecret,
		time.Hour,
		validator.New(validator.WithRequiredStructEnabled()),
		zerolog.Nop(),
	)

	return svc, db
}

func TestLoginCreatesAccountOnFirstSight(t *testing.T) {
	svc, db := newUserService(t, stubExchanger{openID: "open-abc"})
	ctx := context.Background()

	result, err := svc.Login(ctx, dto.WechatLoginRequest{Code: "code-1", NickName: "Ada"})
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)
	require.Equal(t, "Ada", result.User.NickName)
	require.Equal(t, models.RoleUser, result.User.Role)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	require.EqualValues(t, 1, count)

	// Logging in again resolves the same account instead of minting another.
	again, err := svc.Login(ctx, dto.WechatLoginRequest{Code: "code-2"})
	require.NoError(t, err)
	require.Equal(t, result.User.ID, again.User.ID)

	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestLoginDefaultsNickName(t *testing.T) {
	svc, _ := newUserService(t, stubExchanger{openID: "open-anon"})

	result, err := svc.Login(context.Background(), dto.WechatLoginRequest{Code: "code"})
	require.NoError(t, err)
	require.Equal(t, "Study Buddy", result.User.NickName)
}

func TestLoginTokenCarriesSubjectAndRole(t *testing.T) {
	svc, _ := newUserService(t, stubExchanger{openID: "open-token"})

	result, err := svc.Login(context.Background(), dto.WechatLoginRequest{Code: "code"})
	require.NoError(t, err)

	parsed, err := jwt.Parse(result.Token, func(token *jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	require.Equal(t, fmt.Sprintf("%d", result.User.ID), claims["sub"])
	require.Equal(t, models.RoleUser, claims["role"])
}

func TestLoginExchangeFailure(t *testing.T) {
	svc, _ := newUserService(t, stubExchanger{err: errors.New("code expired")})

	_, err := svc.Login(context.Background(), dto.WechatLoginRequest{Code: "stale"})
	require.ErrorIs(t, err, ErrLoginFailed)
}

func TestUpdateProfilePatchesOnlyProvidedFields(t *testing.T) {
	svc, _ := newUserService(t, stubExchanger{openID: "open-profile"})
	ctx := context.Background()

	result, err := svc.Login(ctx, dto.WechatLoginRequest{Code: "code", NickName: "Ada"})
	require.NoError(t, err)

	university := "Tsinghua"
	updated, err := svc.UpdateProfile(ctx, result.User.ID, dto.UserUpdateRequest{TargetUniversity: &university})
	require.NoError(t, err)
	require.Equal(t, university, updated.TargetUniversity)
	require.Equal(t, "Ada", updated.NickName)

	profile, err := svc.GetProfile(ctx, result.User.ID)
	require.NoError(t, err)
	require.Equal(t, university, profile.TargetUniversity)
}

func TestUpdateStudyStatsIncrementsAndRefreshesProfile(t *testing.T) {
	svc, _ := newUserService(t, stubExchanger{openID: "open-stats"})
	ctx := context.Background()

	result, err := svc.Login(ctx, dto.WechatLoginRequest{Code: "code"})
	require.NoError(t, err)

	// Prime the profile cache so the increment has something to invalidate.
	_, err = svc.GetProfile(ctx, result.User.ID)
	require.NoError(t, err)

	hours, completed, correct := 2, 10, 7
	require.NoError(t, svc.UpdateStudyStats(ctx, result.User.ID, dto.StudyStatsUpdateRequest{
		StudyHours:         &hours,
		CompletedQuestions: &completed,
		CorrectQuestions:   &correct,
	}))
	require.NoError(t, svc.UpdateStudyStats(ctx, result.User.ID, dto.StudyStatsUpdateRequest{
		StudyHours: &hours,
	}))

	profile, err := svc.GetProfile(ctx, result.User.ID)
	require.NoError(t, err)
	require.Equal(t, 4, profile.StudyHours)
	require.Equal(t, 10, profile.CompletedQuestions)
	require.Equal(t, 7, profile.CorrectQuestions)
}

func TestGetProfileNotFound(t *testing.T) {
	svc, _ := newUserService(t, stubExchanger{openID: "open-x"})

	_, err := svc.GetProfile(context.Background(), 9999)
	require.ErrorIs(t, err, ErrUserNotFound)
}
