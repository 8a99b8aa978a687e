package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/noah-isme/studyprep-go-api/internal/models"
)

// StudyPlanRepository defines persistence operations for plans and their items.
type StudyPlanRepository interface {
	InTransaction(ctx context.Context, fn func(StudyPlanRepository) error) error
	CreatePlan(ctx context.Context, plan *models.StudyPlan) error
	GetPlan(ctx context.Context, id uint) (models.StudyPlan, error)
	ListPlans(ctx context.Context, userID uint) ([]models.StudyPlan, error)
	ListPlansByStatus(ctx context.Context, userID uint, status string) ([]models.StudyPlan, error)
	UpdatePlan(ctx context.Context, plan *models.StudyPlan) error
	CreateItems(ctx context.Context, items []models.StudyPlanItem) error
	GetItem(ctx context.Context, id uint) (models.StudyPlanItem, error)
	ListItems(ctx context.Context, planID uint) ([]models.StudyPlanItem, error)
	ListItemsByDate(ctx context.Context, planID uint, date time.Time) ([]models.StudyPlanItem, error)
	UpdateItem(ctx context.Context, item *models.StudyPlanItem) error
	CountItems(ctx context.Context, planID uint) (int64, error)
	CountCompletedItems(ctx context.Context, planID uint) (int64, error)
}

type studyPlanRepository struct {
	db *gorm.DB
}

// NewStudyPlanRepository instantiates a GORM-backed repository.
func NewStudyPlanRepository(db *gorm.DB) StudyPlanRepository {
	return &studyPlanRepository{db: db}
}

// InTransaction runs fn against a repository bound to a single transaction, so
// item completion and the progress recompute commit as one unit.
func (r *studyPlanRepository) InTransaction(ctx context.Context, fn func(StudyPlanRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&studyPlanRepository{db: tx})
	})
}

func (r *studyPlanRepository) CreatePlan(ctx context.Context, plan *models.StudyPlan) error {
	return r.db.WithContext(ctx).Create(plan).Error
}

func (r *studyPlanRepository) GetPlan(ctx context.Context, id uint) (models.StudyPlan, error) {
	var plan models.StudyPlan
	if err := r.db.WithContext(ctx).First(&plan, id).Error; err != nil {
		return models.StudyPlan{}, err
	}

	return plan, nil
}

func (r *studyPlanRepository) ListPlans(ctx context.Context, userID uint) ([]models.StudyPlan, error) {
	var plans []models.StudyPlan
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&plans).Error; err != nil {
		return nil, err
	}

	return plans, nil
}

func (r *studyPlanRepository) ListPlansByStatus(ctx context.Context, userID uint, status string) ([]models.StudyPlan, error) {
	var plans []models.StudyPlan
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, status).
		Order("created_at DESC").
		Find(&plans).Error; err != nil {
		return nil, err
	}

	return plans, nil
}

func (r *studyPlanRepository) UpdatePlan(ctx context.Context, plan *models.StudyPlan) error {
	return r.db.WithContext(ctx).Save(plan).Error
}

func (r *studyPlanRepository) CreateItems(ctx context.Context, items []models.StudyPlanItem) error {
	if len(items) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *studyPlanRepository) GetItem(ctx context.Context, id uint) (models.StudyPlanItem, error) {
	var item models.StudyPlanItem
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return models.StudyPlanItem{}, err
	}

	return item, nil
}

func (r *studyPlanRepository) ListItems(ctx context.Context, planID uint) ([]models.StudyPlanItem, error) {
	var items []models.StudyPlanItem
	if err := r.db.WithContext(ctx).
		Where("plan_id = ?", planID).
		Order("plan_date ASC, id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}

	return items, nil
}

func (r *studyPlanRepository) ListItemsByDate(ctx context.Context, planID uint, date time.Time) ([]models.StudyPlanItem, error) {
	var items []models.StudyPlanItem
	if err := r.db.WithContext(ctx).
		Where("plan_id = ? AND plan_date = ?", planID, date).
		Order("id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}

	return items, nil
}

func (r *studyPlanRepository) UpdateItem(ctx context.Context, item *models.StudyPlanItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *studyPlanRepository) CountItems(ctx context.Context, planID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.StudyPlanItem{}).
		Where("plan_id = ?", planID).
		Count(&count).Error

	return count, err
}

func (r *studyPlanRepository) CountCompletedItems(ctx context.Context, planID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.StudyPlanItem{}).
		Where("plan_id = ? AND completed = ?", planID, true).
		Count(&count).Error

	return count, err
}
