package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/noah-isme/studyprep-go-api/internal/models"
)

// CheckInRepository defines persistence operations for daily study check-ins.
type CheckInRepository interface {
	Create(ctx context.Context, checkIn *models.StudyCheckIn) error
	GetByUserAndDate(ctx context.Context, userID uint, date time.Time) (models.StudyCheckIn, error)
	ListByUser(ctx context.Context, userID uint) ([]models.StudyCheckIn, error)
	Count(ctx context.Context) (int64, error)
}

type checkInRepository struct {
	db *gorm.DB
}

// NewCheckInRepository instantiates a GORM-backed repository.
func NewCheckInRepository(db *gorm.DB) CheckInRepository {
	return &checkInRepository{db: db}
}

// Create inserts the check-in, relying on the (user_id, check_in_date) unique
// index to reject a second row for the same day. Callers translate the
// driver's duplicate-key error.
func (r *checkInRepository) Create(ctx context.Context, checkIn *models.StudyCheckIn) error {
	return r.db.WithContext(ctx).Create(checkIn).Error
}

func (r *checkInRepository) GetByUserAndDate(ctx context.Context, userID uint, date time.Time) (models.StudyCheckIn, error) {
	var checkIn models.StudyCheckIn
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND check_in_date = ?", userID, date).
		First(&checkIn).Error; err != nil {
		return models.StudyCheckIn{}, err
	}

	return checkIn, nil
}

func (r *checkInRepository) ListByUser(ctx context.Context, userID uint) ([]models.StudyCheckIn, error) {
	var checkIns []models.StudyCheckIn
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("check_in_date DESC").
		Find(&checkIns).Error; err != nil {
		return nil, err
	}

	return checkIns, nil
}

func (r *checkInRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.StudyCheckIn{}).Count(&total).Error; err != nil {
		return 0, err
	}

	return total, nil
}
