package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/studyprep-go-api/internal/models"
)

// UserFilter describes pagination and narrowing options for account
// listings. Page is 1-based and translated to an offset internally.
type UserFilter struct {
	Username string
	NickName string
	Page     int
	PageSize int
}

// UserRepository defines persistence operations for accounts.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (models.User, error)
	GetByOpenID(ctx context.Context, openID string) (models.User, error)
	GetByUsername(ctx context.Context, username string) (models.User, error)
	ListPage(ctx context.Context, filter UserFilter) ([]models.User, int64, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
	IncrementStudyStats(ctx context.Context, id uint, studyHours, completedQuestions, correctQuestions int) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository instantiates a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return models.User{}, err
	}

	return user, nil
}

func (r *userRepository) GetByOpenID(ctx context.Context, openID string) (models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).
		Where("open_id = ?", openID).
		First(&user).Error; err != nil {
		return models.User{}, err
	}

	return user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).
		Where("username = ?", username).
		First(&user).Error; err != nil {
		return models.User{}, err
	}

	return user, nil
}

func (r *userRepository) ListPage(ctx context.Context, filter UserFilter) ([]models.User, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.User{})

	if filter.Username != "" {
		query = query.Where("username LIKE ?", "%"+filter.Username+"%")
	}
	if filter.NickName != "" {
		query = query.Where("nick_name LIKE ?", "%"+filter.NickName+"%")
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

	var users []models.User
	if err := query.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.User{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return 0, err
	}

	return total, nil
}

// IncrementStudyStats bumps the rolling study counters with column-relative
// updates so concurrent progress events never lose increments.
func (r *userRepository) IncrementStudyStats(ctx context.Context, id uint, studyHours, completedQuestions, correctQuestions int) error {
	updates := map[string]interface{}{}
	if studyHours > 0 {
		updates["study_hours"] = gorm.Expr("study_hours + ?", studyHours)
	}
	if completedQuestions > 0 {
		updates["completed_questions"] = gorm.Expr("completed_questions + ?", completedQuestions)
	}
	if correctQuestions > 0 {
		updates["correct_questions"] = gorm.Expr("correct_questions + ?", correctQuestions)
	}
	if len(updates) == 0 {
		return nil
	}

	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
