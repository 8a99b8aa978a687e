package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/studyprep-go-api/internal/models"
)

// AnswerRecordRepository defines persistence operations for the append-only
// submission log.
type AnswerRecordRepository interface {
	Create(ctx context.Context, record *models.AnswerRecord) error
	ListByUser(ctx context.Context, userID uint) ([]models.AnswerRecord, error)
	CountByUser(ctx context.Context, userID uint, correctOnly bool) (int64, error)
}

type answerRecordRepository struct {
	db *gorm.DB
}

// NewAnswerRecordRepository instantiates a GORM-backed repository.
func NewAnswerRecordRepository(db *gorm.DB) AnswerRecordRepository {
	return &answerRecordRepository{db: db}
}

func (r *answerRecordRepository) Create(ctx context.Context, record *models.AnswerRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *answerRecordRepository) ListByUser(ctx context.Context, userID uint) ([]models.AnswerRecord, error) {
	var records []models.AnswerRecord
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}

func (r *answerRecordRepository) CountByUser(ctx context.Context, userID uint, correctOnly bool) (int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.AnswerRecord{}).
		Where("user_id = ?", userID)
	if correctOnly {
		query = query.Where("is_correct = ?", true)
	}

	var count int64
	err := query.Count(&count).Error

	return count, err
}
