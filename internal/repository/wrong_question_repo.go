package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/studyprep-go-api/internal/models"
)

// WrongQuestionRepository defines persistence operations for the per-user
// wrong-question ledger.
type WrongQuestionRepository interface {
	Upsert(ctx context.Context, userID, questionID uint, reviewedAt time.Time) error
	GetByUserAndQuestion(ctx context.Context, userID, questionID uint) (models.WrongQuestion, error)
	ListByUser(ctx context.Context, userID uint) ([]models.WrongQuestion, error)
	ListByUserAndMastered(ctx context.Context, userID uint, mastered bool) ([]models.WrongQuestion, error)
	MarkMastered(ctx context.Context, userID, questionID uint) error
}

type wrongQuestionRepository struct {
	db *gorm.DB
}

// NewWrongQuestionRepository instantiates a GORM-backed repository.
func NewWrongQuestionRepository(db *gorm.DB) WrongQuestionRepository {
	return &wrongQuestionRepository{db: db}
}

// Upsert inserts the first miss with wrong_count = 1 or increments the existing
// row. The ON CONFLICT path rides on the (user_id, question_id) unique index,
// so two concurrent misses can never create a second row.
func (r *wrongQuestionRepository) Upsert(ctx context.Context, userID, questionID uint, reviewedAt time.Time) error {
	entry := models.WrongQuestion{
		UserID:         userID,
		QuestionID:     questionID,
		WrongCount:     1,
		Mastered:       false,
		LastReviewTime: &reviewedAt,
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "question_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"wrong_count":      gorm.Expr("wrong_count + ?", 1),
				"last_review_time": reviewedAt,
			}),
		}).
		Create(&entry).Error
}

func (r *wrongQuestionRepository) GetByUserAndQuestion(ctx context.Context, userID, questionID uint) (models.WrongQuestion, error) {
	var entry models.WrongQuestion
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND question_id = ?", userID, questionID).
		First(&entry).Error; err != nil {
		return models.WrongQuestion{}, err
	}

	return entry, nil
}

func (r *wrongQuestionRepository) ListByUser(ctx context.Context, userID uint) ([]models.WrongQuestion, error) {
	var entries []models.WrongQuestion
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&entries).Error; err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *wrongQuestionRepository) ListByUserAndMastered(ctx context.Context, userID uint, mastered bool) ([]models.WrongQuestion, error) {
	var entries []models.WrongQuestion
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND mastered = ?", userID, mastered).
		Find(&entries).Error; err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *wrongQuestionRepository) MarkMastered(ctx context.Context, userID, questionID uint) error {
	result := r.db.WithContext(ctx).
		Model(&models.WrongQuestion{}).
		Where("user_id = ? AND question_id = ?", userID, questionID).
		Update("mastered", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
