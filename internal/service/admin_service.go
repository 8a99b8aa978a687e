package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/noah-isme/studyprep-go-api/internal/dto"
	"github.com/noah-isme/studyprep-go-api/internal/models"
	"github.com/noah-isme/studyprep-go-api/internal/repository"
)

// ErrAdminLoginFailed indicates the console credentials could not be verified.
// Unknown usernames, wrong passwords, disabled accounts and non-admin roles
// all collapse into this error so responses never reveal which check failed.
var ErrAdminLoginFailed = errors.New("admin login failed")

const adminStatisticsCacheKey = "admin:statistics"

// AdminService backs the management console: credential login, platform
// statistics and account administration.
type AdminService interface {
	Login(ctx context.Context, payload dto.AdminLoginRequest) (dto.LoginResponse, error)
	GetStatistics(ctx context.Context) (dto.AdminStatisticsResponse, error)
	ListUsers(ctx context.Context, filter dto.AdminUserFilter) (dto.UserPageResponse, error)
	UpdateUser(ctx context.Context, userID uint, payload dto.AdminUserUpdateRequest) (dto.UserResponse, error)
	DeleteUser(ctx context.Context, userID uint) error
	EnsureAdmin(ctx context.Context, username, password string) error
}

type adminService struct {
	users     repository.UserRepository
	questions repository.QuestionRepository
	resources repository.ResourceRepository
	posts     repository.CommunityRepository
	checkIns  repository.CheckInRepository
	cache     *redis.Client
	cacheTTL  time.Duration
	jwtSecret string
	tokenTTL  time.Duration
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewAdminService constructs an AdminService instance.
func NewAdminService(
	users repository.UserRepository,
	questions repository.QuestionRepository,
	resources repository.ResourceRepository,
	posts repository.CommunityRepository,
	checkIns repository.CheckInRepository,
	cache *redis.Client,
	cacheTTL time.Duration,
	jwtSecret string,
	tokenTTL time.Duration,
	validate *validator.Validate,
	logger zerolog.Logger,
) AdminService {
	return &adminService{
		users:     users,
		questions: questions,
		resources: resources,
		posts:     posts,
		checkIns:  checkIns,
		cache:     cache,
		cacheTTL:  cacheTTL,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		validator: validate,
		logger:    logger.With().Str("component", "admin_service").Logger(),
		now:       time.Now,
	}
}

// Login verifies console credentials and returns a signed bearer token
// carrying the ADMIN role.
func (s *adminService) Login(ctx context.Context, payload dto.AdminLoginRequest) (dto.LoginResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.LoginResponse{}, err
	}

	user, err := s.users.GetByUsername(ctx, payload.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn().Str("username", payload.Username).Msg("admin login with unknown username")
			return dto.LoginResponse{}, ErrAdminLoginFailed
		}
		return dto.LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(payload.Password)); err != nil {
		s.logger.Warn().Uint("user_id", user.ID).Msg("admin login with wrong password")
		return dto.LoginResponse{}, ErrAdminLoginFailed
	}
	if !user.Enabled {
		s.logger.Warn().Uint("user_id", user.ID).Msg("admin login on disabled account")
		return dto.LoginResponse{}, ErrAdminLoginFailed
	}
	if user.Role != models.RoleAdmin {
		s.logger.Warn().Uint("user_id", user.ID).Msg("admin login on non-admin account")
		return dto.LoginResponse{}, ErrAdminLoginFailed
	}

	token, err := signAccessToken(s.jwtSecret, s.tokenTTL, s.now(), user)
	if err != nil {
		return dto.LoginResponse{}, err
	}

	s.logger.Info().Uint("user_id", user.ID).Msg("admin logged in")

	return dto.LoginResponse{Token: token, User: dto.NewUserResponse(user)}, nil
}

// GetStatistics serves the dashboard row counts, snapshotting them in redis.
// Cache faults degrade to the database and are only logged.
func (s *adminService) GetStatistics(ctx context.Context) (dto.AdminStatisticsResponse, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, adminStatisticsCacheKey).Result(); err == nil {
			var response dto.AdminStatisticsResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read statistics cache")
		}
	}

	var response dto.AdminStatisticsResponse
	var err error
	if response.TotalUsers, err = s.users.Count(ctx); err != nil {
		return dto.AdminStatisticsResponse{}, err
	}
	if response.TotalQuestions, err = s.questions.Count(ctx); err != nil {
		return dto.AdminStatisticsResponse{}, err
	}
	if response.TotalResources, err = s.resources.Count(ctx); err != nil {
		return dto.AdminStatisticsResponse{}, err
	}
	if response.TotalPosts, err = s.posts.CountPosts(ctx); err != nil {
		return dto.AdminStatisticsResponse{}, err
	}
	if response.TotalCheckIns, err = s.checkIns.Count(ctx); err != nil {
		return dto.AdminStatisticsResponse{}, err
	}

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, adminStatisticsCacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store statistics cache")
			}
		}
	}

	return response, nil
}

func (s *adminService) ListUsers(ctx context.Context, filter dto.AdminUserFilter) (dto.UserPageResponse, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 10
	}
	if err := s.validator.Struct(filter); err != nil {
		return dto.UserPageResponse{}, err
	}

	users, total, err := s.users.ListPage(ctx, repository.UserFilter{
		Username: filter.Username,
		NickName: filter.NickName,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	})
	if err != nil {
		return dto.UserPageResponse{}, err
	}

	return dto.UserPageResponse{
		Items:    dto.NewUserResponseSlice(users),
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

func (s *adminService) UpdateUser(ctx context.Context, userID uint, payload dto.AdminUserUpdateRequest) (dto.UserResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, ErrUserNotFound
		}
		return dto.UserResponse{}, err
	}

	if payload.NickName != nil {
		user.NickName = *payload.NickName
	}
	if payload.Phone != nil {
		user.Phone = *payload.Phone
	}
	if payload.Email != nil {
		user.Email = *payload.Email
	}
	if payload.TargetUniversity != nil {
		user.TargetUniversity = *payload.TargetUniversity
	}
	if payload.TargetMajor != nil {
		user.TargetMajor = *payload.TargetMajor
	}
	if payload.ExamYear != nil {
		user.ExamYear = *payload.ExamYear
	}
	if payload.Role != nil {
		user.Role = *payload.Role
	}
	if payload.Enabled != nil {
		user.Enabled = *payload.Enabled
	}

	if err := s.users.Update(ctx, &user); err != nil {
		return dto.UserResponse{}, err
	}

	s.invalidateProfile(ctx, userID)
	s.logger.Info().Uint("user_id", userID).Msg("account updated by admin")

	return dto.NewUserResponse(user), nil
}

func (s *adminService) DeleteUser(ctx context.Context, userID uint) error {
	if err := s.users.Delete(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	s.invalidateProfile(ctx, userID)
	s.logger.Info().Uint("user_id", userID).Msg("account deleted by admin")

	return nil
}

// EnsureAdmin creates the console account on first boot, or refreshes its
// password hash, role and enabled flag on subsequent boots so the configured
// credentials always work.
func (s *adminService) EnsureAdmin(ctx context.Context, username, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		user = models.User{
			// Credential accounts never log in through the mini-program, but
			// open_id is unique and not null, so they get a synthetic one.
			OpenID:   "admin:" + username,
			Username: &username,
			Password: string(hash),
			NickName: "Administrator",
			Role:     models.RoleAdmin,
			Enabled:  true,
		}
		if err := s.users.Create(ctx, &user); err != nil {
			return err
		}

		s.logger.Info().Uint("user_id", user.ID).Str("username", username).Msg("admin account created")
		return nil
	}

	user.Password = string(hash)
	user.Role = models.RoleAdmin
	user.Enabled = true
	if err := s.users.Update(ctx, &user); err != nil {
		return err
	}

	s.logger.Info().Uint("user_id", user.ID).Str("username", username).Msg("admin account refreshed")

	return nil
}

func (s *adminService) invalidateProfile(ctx context.Context, userID uint) {
	if s.cache == nil {
		return
	}

	if err := s.cache.Del(ctx, fmt.Sprintf("%s%d", profileCachePrefix, userID)).Err(); err != nil {
		s.logger.Warn().Err(err).Uint("user_id", userID).Msg("failed to invalidate profile cache")
	}
}
