package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/studyprep-go-api/internal/models"
)

// ResourceFilter describes pagination and narrowing options for resource
// listings. Page is 1-based.
type ResourceFilter struct {
	Subject       string
	Type          string
	Title         string
	PublishedOnly bool
	Page          int
	PageSize      int
}

// ResourceRepository defines persistence operations for learning resources.
type ResourceRepository interface {
	Create(ctx context.Context, resource *models.LearningResource) error
	GetByID(ctx context.Context, id uint) (models.LearningResource, error)
	Update(ctx context.Context, resource *models.LearningResource) error
	Delete(ctx context.Context, id uint) error
	ListPage(ctx context.Context, filter ResourceFilter) ([]models.LearningResource, int64, error)
	ListByChapter(ctx context.Context, subject, chapter string) ([]models.LearningResource, error)
	IncrementViewCount(ctx context.Context, id uint) error
	IncrementDownloadCount(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
}

type resourceRepository struct {
	db *gorm.DB
}

// NewResourceRepository instantiates a GORM-backed repository.
func NewResourceRepository(db *gorm.DB) ResourceRepository {
	return &resourceRepository{db: db}
}

func (r *resourceRepository) Create(ctx context.Context, resource *models.LearningResource) error {
	return r.db.WithContext(ctx).Create(resource).Error
}

func (r *resourceRepository) GetByID(ctx context.Context, id uint) (models.LearningResource, error) {
	var resource models.LearningResource
	if err := r.db.WithContext(ctx).First(&resource, id).Error; err != nil {
		return models.LearningResource{}, err
	}

	return resource, nil
}

func (r *resourceRepository) Update(ctx context.Context, resource *models.LearningResource) error {
	return r.db.WithContext(ctx).Save(resource).Error
}

func (r *resourceRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.LearningResource{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *resourceRepository) ListPage(ctx context.Context, filter ResourceFilter) ([]models.LearningResource, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.LearningResource{})

	if filter.PublishedOnly {
		query = query.Where("published = ?", true)
	}
	if filter.Subject != "" {
		query = query.Where("subject = ?", filter.Subject)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Title != "" {
		query = query.Where("title LIKE ?", "%"+filter.Title+"%")
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

	var resources []models.LearningResource
	if err := query.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&resources).Error; err != nil {
		return nil, 0, err
	}

	return resources, total, nil
}

func (r *resourceRepository) ListByChapter(ctx context.Context, subject, chapter string) ([]models.LearningResource, error) {
	var resources []models.LearningResource
	if err := r.db.WithContext(ctx).
		Where("subject = ? AND chapter = ?", subject, chapter).
		Order("created_at DESC").
		Find(&resources).Error; err != nil {
		return nil, err
	}

	return resources, nil
}

func (r *resourceRepository) IncrementViewCount(ctx context.Context, id uint) error {
	return r.incrementCounter(ctx, id, "view_count")
}

func (r *resourceRepository) IncrementDownloadCount(ctx context.Context, id uint) error {
	return r.incrementCounter(ctx, id, "download_count")
}

func (r *resourceRepository) incrementCounter(ctx context.Context, id uint, column string) error {
	result := r.db.WithContext(ctx).
		Model(&models.LearningResource{}).
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

func (r *resourceRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.LearningResource{}).Count(&total).Error; err != nil {
		return 0, err
	}

	return total, nil
}
