package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/studyprep-go-api/internal/dto"
	"github.com/noah-isme/studyprep-go-api/internal/models"
	"github.com/noah-isme/studyprep-go-api/internal/repository"
)

var (
	// ErrPostNotFound indicates a community post could not be found.
	ErrPostNotFound = errors.New("community post not found")
	// ErrCheckInAlreadyExists indicates a check-in for the day already exists.
	ErrCheckInAlreadyExists = errors.New("already checked in for this date")
)

// CommunityService covers posts, comments and daily study check-ins.
type CommunityService interface {
	CreatePost(ctx context.Context, userID uint, payload dto.PostCreateRequest) (dto.PostResponse, error)
	GetPosts(ctx context.Context, category string, page, pageSize int) (dto.PostPageResponse, error)
	GetMyPosts(ctx context.Context, userID uint, page, pageSize int) (dto.PostPageResponse, error)
	GetPinnedPosts(ctx context.Context) ([]dto.PostResponse, error)
	GetPostDetail(ctx context.Context, id uint) (dto.PostResponse, error)
	LikePost(ctx context.Context, id uint) error
	DeletePost(ctx context.Context, id uint) error
	AddComment(ctx context.Context, userID uint, payload dto.CommentCreateRequest) (dto.CommentResponse, error)
	GetComments(ctx context.Context, postID uint) ([]dto.CommentResponse, error)
	CheckIn(ctx context.Context, userID uint, payload dto.CheckInRequest) (dto.CheckInResponse, error)
	GetCheckInRecords(ctx context.Context, userID uint) ([]dto.CheckInResponse, error)
	GetContinuousCheckInDays(ctx context.Context, userID uint) (int, error)
}

type communityService struct {
	posts     repository.CommunityRepository
	checkIns  repository.CheckInRepository
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
	now       func() time.Time
}

// NewCommunityService constructs a CommunityService instance.
func NewCommunityService(posts repository.CommunityRepository, checkIns repository.CheckInRepository, validate *validator.Validate, logger zerolog.Logger) CommunityService {
	policy := bluemonday.UGCPolicy()
	policy.AllowElements("br")

	return &communityService{
		posts:     posts,
		checkIns:  checkIns,
		validator: validate,
		sanitizer: policy,
		logger:    logger.With().Str("component", "community_service").Logger(),
		now:       time.Now,
	}
}

func (s *communityService) CreatePost(ctx context.Context, userID uint, payload dto.PostCreateRequest) (dto.PostResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.PostResponse{}, err
	}

	post := models.CommunityPost{
		UserID:    userID,
		Title:     s.sanitizer.Sanitize(payload.Title),
		Content:   s.sanitizer.Sanitize(payload.Content),
		Category:  payload.Category,
		Images:    payload.Images,
		Published: true,
	}

	if err := s.posts.CreatePost(ctx, &post); err != nil {
		return dto.PostResponse{}, err
	}

	s.logger.Info().Uint("post_id", post.ID).Uint("user_id", userID).Str("category", post.Category).Msg("post created")

	return dto.NewPostResponse(post), nil
}

func (s *communityService) GetPosts(ctx context.Context, category string, page, pageSize int) (dto.PostPageResponse, error) {
	posts, total, err := s.posts.ListPosts(ctx, repository.PostFilter{
		Category: category,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return dto.PostPageResponse{}, err
	}

	return dto.PostPageResponse{
		Items:    dto.NewPostResponseSlice(posts),
		Total:    total,
		Page:     normalizePage(page),
		PageSize: normalizePageSize(pageSize),
	}, nil
}

func (s *communityService) GetMyPosts(ctx context.Context, userID uint, page, pageSize int) (dto.PostPageResponse, error) {
	posts, total, err := s.posts.ListUserPosts(ctx, userID, page, pageSize)
	if err != nil {
		return dto.PostPageResponse{}, err
	}

	return dto.PostPageResponse{
		Items:    dto.NewPostResponseSlice(posts),
		Total:    total,
		Page:     normalizePage(page),
		PageSize: normalizePageSize(pageSize),
	}, nil
}

func (s *communityService) GetPinnedPosts(ctx context.Context) ([]dto.PostResponse, error) {
	posts, err := s.posts.ListPinnedPosts(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewPostResponseSlice(posts), nil
}

// GetPostDetail returns the post and bumps its view counter atomically in the
// store rather than via read-modify-write.
func (s *communityService) GetPostDetail(ctx context.Context, id uint) (dto.PostResponse, error) {
	post, err := s.posts.GetPost(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.PostResponse{}, ErrPostNotFound
		}
		return dto.PostResponse{}, err
	}

	if err := s.posts.IncrementViewCount(ctx, id); err != nil {
		s.logger.Warn().Err(err).Uint("post_id", id).Msg("failed to bump view count")
	} else {
		post.ViewCount++
	}

	return dto.NewPostResponse(post), nil
}

func (s *communityService) LikePost(ctx context.Context, id uint) error {
	if err := s.posts.IncrementLikeCount(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPostNotFound
		}
		return err
	}

	return nil
}

func (s *communityService) DeletePost(ctx context.Context, id uint) error {
	if err := s.posts.DeletePost(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPostNotFound
		}
		return err
	}

	s.logger.Info().Uint("post_id", id).Msg("post deleted")

	return nil
}

// AddComment creates the comment and bumps the post's comment counter inside
// one transaction.
func (s *communityService) AddComment(ctx context.Context, userID uint, payload dto.CommentCreateRequest) (dto.CommentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CommentResponse{}, err
	}

	comment := models.PostComment{
		PostID:   payload.PostID,
		UserID:   userID,
		Content:  s.sanitizer.Sanitize(payload.Content),
		ParentID: payload.ParentID,
	}

	err := s.posts.InTransaction(ctx, func(repo repository.CommunityRepository) error {
		if err := repo.IncrementCommentCount(ctx, payload.PostID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPostNotFound
			}
			return err
		}

		return repo.CreateComment(ctx, &comment)
	})
	if err != nil {
		return dto.CommentResponse{}, err
	}

	return dto.NewCommentResponse(comment), nil
}

func (s *communityService) GetComments(ctx context.Context, postID uint) ([]dto.CommentResponse, error) {
	comments, err := s.posts.ListComments(ctx, postID)
	if err != nil {
		return nil, err
	}

	return dto.NewCommentResponseSlice(comments), nil
}

// CheckIn logs one study day. The unique (user, date) index is the actual
// guard; a concurrent duplicate surfaces as the driver's duplicate-key error
// and is translated here.
func (s *communityService) CheckIn(ctx context.Context, userID uint, payload dto.CheckInRequest) (dto.CheckInResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CheckInResponse{}, err
	}

	date := dateOnly(s.now())
	if payload.CheckInDate != "" {
		parsed, err := time.Parse(dto.DateLayout, payload.CheckInDate)
		if err != nil {
			return dto.CheckInResponse{}, fmt.Errorf("invalid check-in date: %w", err)
		}
		date = dateOnly(parsed)
	}

	checkIn := models.StudyCheckIn{
		UserID:      userID,
		CheckInDate: date,
		StudyHours:  payload.StudyHours,
		Note:        payload.Note,
		Images:      payload.Images,
	}

	if err := s.checkIns.Create(ctx, &checkIn); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.CheckInResponse{}, ErrCheckInAlreadyExists
		}
		return dto.CheckInResponse{}, err
	}

	s.logger.Info().Uint("user_id", userID).Time("date", date).Msg("study check-in recorded")

	return dto.NewCheckInResponse(checkIn), nil
}

func (s *communityService) GetCheckInRecords(ctx context.Context, userID uint) ([]dto.CheckInResponse, error) {
	checkIns, err := s.checkIns.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return dto.NewCheckInResponseSlice(checkIns), nil
}

// GetContinuousCheckInDays walks the date-descending records starting from
// today. The walk anchors strictly at today: without a check-in today the
// streak is 0 no matter how long yesterday's run was.
func (s *communityService) GetContinuousCheckInDays(ctx context.Context, userID uint) (int, error) {
	records, err := s.checkIns.ListByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, nil
	}

	streak := 0
	expected := dateOnly(s.now())
	for _, record := range records {
		if !sameDate(record.CheckInDate, expected) {
			break
		}
		streak++
		expected = expected.AddDate(0, 0, -1)
	}

	return streak, nil
}

func sameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

func normalizePage(page int) int {
	if page <= 0 {
		return 1
	}
	return page
}

func normalizePageSize(pageSize int) int {
	if pageSize <= 0 {
		return 10
	}
	return pageSize
}
