package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/studyprep-go-api/internal/models"
)

// PostFilter describes pagination options for post listings. Page is 1-based.
type PostFilter struct {
	Category string
	Page     int
	PageSize int
}

// CommunityRepository defines persistence operations for posts and comments.
type CommunityRepository interface {
	InTransaction(ctx context.Context, fn func(CommunityRepository) error) error
	CreatePost(ctx context.Context, post *models.CommunityPost) error
	GetPost(ctx context.Context, id uint) (models.CommunityPost, error)
	ListPosts(ctx context.Context, filter PostFilter) ([]models.CommunityPost, int64, error)
	ListUserPosts(ctx context.Context, userID uint, page, pageSize int) ([]models.CommunityPost, int64, error)
	ListPinnedPosts(ctx context.Context) ([]models.CommunityPost, error)
	DeletePost(ctx context.Context, id uint) error
	IncrementViewCount(ctx context.Context, id uint) error
	IncrementLikeCount(ctx context.Context, id uint) error
	IncrementCommentCount(ctx context.Context, id uint) error
	CreateComment(ctx context.Context, comment *models.PostComment) error
	ListComments(ctx context.Context, postID uint) ([]models.PostComment, error)
	CountPosts(ctx context.Context) (int64, error)
}

type communityRepository struct {
	db *gorm.DB
}

// NewCommunityRepository instantiates a GORM-backed repository.
func NewCommunityRepository(db *gorm.DB) CommunityRepository {
	return &communityRepository{db: db}
}

// InTransaction runs fn against a repository bound to a single transaction.
func (r *communityRepository) InTransaction(ctx context.Context, fn func(CommunityRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&communityRepository{db: tx})
	})
}

func (r *communityRepository) CreatePost(ctx context.Context, post *models.CommunityPost) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *communityRepository) GetPost(ctx context.Context, id uint) (models.CommunityPost, error) {
	var post models.CommunityPost
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		return models.CommunityPost{}, err
	}

	return post, nil
}

func (r *communityRepository) ListPosts(ctx context.Context, filter PostFilter) ([]models.CommunityPost, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.CommunityPost{}).
		Where("published = ?", true)

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page <= 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 10
	}

	var posts []models.CommunityPost
	if err := query.
		Order("pinned DESC, created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&posts).Error; err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}

func (r *communityRepository) ListUserPosts(ctx context.Context, userID uint, page, pageSize int) ([]models.CommunityPost, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.CommunityPost{}).
		Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}

	var posts []models.CommunityPost
	if err := query.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&posts).Error; err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}

func (r *communityRepository) ListPinnedPosts(ctx context.Context) ([]models.CommunityPost, error) {
	var posts []models.CommunityPost
	if err := r.db.WithContext(ctx).
		Where("pinned = ? AND published = ?", true, true).
		Order("created_at DESC").
		Find(&posts).Error; err != nil {
		return nil, err
	}

	return posts, nil
}

func (r *communityRepository) DeletePost(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.CommunityPost{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *communityRepository) IncrementViewCount(ctx context.Context, id uint) error {
	return r.incrementPostCounter(ctx, id, "view_count")
}

func (r *communityRepository) IncrementLikeCount(ctx context.Context, id uint) error {
	return r.incrementPostCounter(ctx, id, "like_count")
}

func (r *communityRepository) IncrementCommentCount(ctx context.Context, id uint) error {
	return r.incrementPostCounter(ctx, id, "comment_count")
}

// incrementPostCounter performs a column-relative bump so concurrent likes,
// views and comments never lose updates.
func (r *communityRepository) incrementPostCounter(ctx context.Context, id uint, column string) error {
	result := r.db.WithContext(ctx).
		Model(&models.CommunityPost{}).
		Where("id = ?", id).
		Update(column, gorm.Expr(column+" + ?", 1))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *communityRepository) CreateComment(ctx context.Context, comment *models.PostComment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *communityRepository) ListComments(ctx context.Context, postID uint) ([]models.PostComment, error) {
	var comments []models.PostComment
	if err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at DESC").
		Find(&comments).Error; err != nil {
		return nil, err
	}

	return comments, nil
}

func (r *communityRepository) CountPosts(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.CommunityPost{}).Count(&total).Error; err != nil {
		return 0, err
	}

	return total, nil
}
