package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/studyprep-go-api/internal/dto"
	"github.com/noah-isme/studyprep-go-api/internal/models"
	"github.com/noah-isme/studyprep-go-api/internal/repository"
)

var (
	// ErrUserNotFound indicates the account does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrLoginFailed indicates the login code could not be exchanged for a session.
	ErrLoginFailed = errors.New("wechat login failed")
)

const profileCachePrefix = "user:profile:"

// SessionExchanger swaps a mini-program login code for a stable open id.
type SessionExchanger interface {
	ExchangeCode(ctx context.Context, code string) (string, error)
}

// UserService manages accounts, mini-program login and rolling study stats.
type UserService interface {
	Login(ctx context.Context, payload dto.WechatLoginRequest) (dto.LoginResponse, error)
	GetProfile(ctx context.Context, userID uint) (dto.UserResponse, error)
	UpdateProfile(ctx context.Context, userID uint, payload dto.UserUpdateRequest) (dto.UserResponse, error)
	UpdateStudyStats(ctx context.Context, userID uint, payload dto.StudyStatsUpdateRequest) error
}

type userService struct {
	users     repository.UserRepository
	sessions  SessionExchanger
	cache     *redis.Client
	cacheTTL  time.Duration
	jwtSecret string
	tokenTTL  time.Duration
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewUserService constructs a UserService instance.
func NewUserService(
	users repository.UserRepository,
	sessions SessionExchanger,
	cache *redis.Client,
	cacheTTL time.Duration,
	jwtSecret string,
	tokenTTL time.Duration,
	validate *validator.Validate,
	logger zerolog.Logger,
) UserService {
	return &userService{
		users:     users,
		sessions:  sessions,
		cache:     cache,
		cacheTTL:  cacheTTL,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		validator: validate,
		logger:    logger.With().Str("component", "user_service").Logger(),
		now:       time.Now,
	}
}

// Login exchanges the mini-program code for an open id, creating the account
// on first sight, and returns a signed bearer token.
func (s *userService) Login(ctx context.Context, payload dto.WechatLoginRequest) (dto.LoginResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.LoginResponse{}, err
	}

	openID, err := s.sessions.ExchangeCode(ctx, payload.Code)
	if err != nil {
		s.logger.Warn().Err(err).Msg("code exchange failed")
		return dto.LoginResponse{}, ErrLoginFailed
	}

	user, err := s.users.GetByOpenID(ctx, openID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.LoginResponse{}, err
		}

		user = models.User{
			OpenID:    openID,
			NickName:  payload.NickName,
			AvatarURL: payload.AvatarURL,
			Gender:    payload.Gender,
			Role:      models.RoleUser,
			Enabled:   true,
		}
		if user.NickName == "" {
			user.NickName = "Study Buddy"
		}
		if createErr := s.users.Create(ctx, &user); createErr != nil {
			// A concurrent first login may have won the insert.
			if errors.Is(createErr, gorm.ErrDuplicatedKey) {
				user, err = s.users.GetByOpenID(ctx, openID)
				if err != nil {
					return dto.LoginResponse{}, err
				}
			} else {
				return dto.LoginResponse{}, createErr
			}
		} else {
			s.logger.Info().Uint("user_id", user.ID).Msg("account created")
		}
	}

	token, err := s.issueToken(user)
	if err != nil {
		return dto.LoginResponse{}, err
	}

	return dto.LoginResponse{Token: token, User: dto.NewUserResponse(user)}, nil
}

func (s *userService) issueToken(user models.User) (string, error) {
	return signAccessToken(s.jwtSecret, s.tokenTTL, s.now(), user)
}

// signAccessToken mints an HS256 bearer token carrying the account id and role.
func signAccessToken(secret string, ttl time.Duration, now time.Time, user models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":  fmt.Sprintf("%d", user.ID),
		"role": user.Role,
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

func (s *userService) GetProfile(ctx context.Context, userID uint) (dto.UserResponse, error) {
	cacheKey := fmt.Sprintf("%s%d", profileCachePrefix, userID)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var response dto.UserResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read profile cache")
		}
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, ErrUserNotFound
		}
		return dto.UserResponse{}, err
	}

	response := dto.NewUserResponse(user)

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store profile cache")
			}
		}
	}

	return response, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID uint, payload dto.UserUpdateRequest) (dto.UserResponse, error) {
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

	if err := s.users.Update(ctx, &user); err != nil {
		return dto.UserResponse{}, err
	}

	s.invalidateProfile(ctx, userID)

	return dto.NewUserResponse(user), nil
}

func (s *userService) UpdateStudyStats(ctx context.Context, userID uint, payload dto.StudyStatsUpdateRequest) error {
	if err := s.validator.Struct(payload); err != nil {
		return err
	}

	studyHours := 0
	if payload.StudyHours != nil {
		studyHours = *payload.StudyHours
	}
	completed := 0
	if payload.CompletedQuestions != nil {
		completed = *payload.CompletedQuestions
	}
	correct := 0
	if payload.CorrectQuestions != nil {
		correct = *payload.CorrectQuestions
	}

	if err := s.users.IncrementStudyStats(ctx, userID, studyHours, completed, correct); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	s.invalidateProfile(ctx, userID)

	return nil
}

func (s *userService) invalidateProfile(ctx context.Context, userID uint) {
	if s.cache == nil {
		return
	}

	if err := s.cache.Del(ctx, fmt.Sprintf("%s%d", profileCachePrefix, userID)).Err(); err != nil {
		s.logger.Warn().Err(err).Uint("user_id", userID).Msg("failed to invalidate profile cache")
	}
}

// wechatSessionExchanger resolves login codes against the WeChat jscode2session
// endpoint.
type wechatSessionExchanger struct {
	appID     string
	appSecret string
	endpoint  string
	client    *http.Client
}

// NewWechatSessionExchanger builds a SessionExchanger backed by the WeChat API.
func NewWechatSessionExchanger(appID, appSecret string) SessionExchanger {
	return &wechatSessionExchanger{
		appID:     appID,
		appSecret: appSecret,
		endpoint:  "https://api.weixin.qq.com/sns/jscode2session",
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

type wechatSessionResponse struct {
	OpenID  string `json:"openid"`
	ErrCode int    `json:"errcode"`
	ErrMsg  string `json:"errmsg"`
}

func (e *wechatSessionExchanger) ExchangeCode(ctx context.Context, code string) (string, error) {
	values := url.Values{}
	values.Set("appid", e.appID)
	values.Set("secret", e.appSecret)
	values.Set("js_code", code)
	values.Set("grant_type", "authorization_code")

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, e.endpoint+"?"+values.Encode(), nil)
	if err != nil {
		return "", err
	}

	response, err := e.client.Do(request)
	if err != nil {
		return "", err
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return "", fmt.Errorf("session endpoint returned status %d", response.StatusCode)
	}

	var session wechatSessionResponse
	if err := json.NewDecoder(response.Body).Decode(&session); err != nil {
		return "", err
	}
	if session.ErrCode != 0 {
		return "", fmt.Errorf("session endpoint error %d: %s", session.ErrCode, session.ErrMsg)
	}
	if session.OpenID == "" {
		return "", errors.New("session endpoint returned empty openid")
	}

	return session.OpenID, nil
}
