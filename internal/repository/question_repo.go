package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/studyprep-go-api/internal/models"
)

// QuestionFilter describes pagination and narrowing options for bank listings.
// Page is 1-based and translated to an offset internally.
type QuestionFilter struct {
	Subject  string
	Chapter  string
	Type     string
	Year     string
	Content  string
	Page     int
	PageSize int
}

// QuestionRepository defines persistence operations for the question bank.
type QuestionRepository interface {
	Create(ctx context.Context, question *models.Question) error
	GetByID(ctx context.Context, id uint) (models.Question, error)
	GetByIDs(ctx context.Context, ids []uint) ([]models.Question, error)
	ListPage(ctx context.Context, filter QuestionFilter) ([]models.Question, int64, error)
	ListBySubject(ctx context.Context, subject string, limit int) ([]models.Question, error)
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
	IncrementCounters(ctx context.Context, id uint, correct bool) error
}

type questionRepository struct {
	db *gorm.DB
}

// NewQuestionRepository instantiates a GORM-backed repository.
func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) Create(ctx context.Context, question *models.Question) error {
	return r.db.WithContext(ctx).Create(question).Error
}

func (r *questionRepository) GetByID(ctx context.Context, id uint) (models.Question, error) {
	var question models.Question
	if err := r.db.WithContext(ctx).First(&question, id).Error; err != nil {
		return models.Question{}, err
	}

	return question, nil
}

func (r *questionRepository) GetByIDs(ctx context.Context, ids []uint) ([]models.Question, error) {
	if len(ids) == 0 {
		return []models.Question{}, nil
	}

	var questions []models.Question
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&questions).Error; err != nil {
		return nil, err
	}

	return questions, nil
}

func (r *questionRepository) ListPage(ctx context.Context, filter QuestionFilter) ([]models.Question, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Question{})

	if filter.Year != "" {
		query = query.Where("year = ?", filter.Year)
	}
	if filter.Subject != "" {
		query = query.Where("subject = ?", filter.Subject)
	}
	if filter.Chapter != "" {
		query = query.Where("chapter = ?", filter.Chapter)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Content != "" {
		query = query.Where("content LIKE ?", "%"+filter.Content+"%")
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

	var questions []models.Question
	if err := query.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&questions).Error; err != nil {
		return nil, 0, err
	}

	return questions, total, nil
}

func (r *questionRepository) ListBySubject(ctx context.Context, subject string, limit int) ([]models.Question, error) {
	if limit <= 0 {
		return []models.Question{}, nil
	}

	var questions []models.Question
	if err := r.db.WithContext(ctx).
		Where("subject = ?", subject).
		Order("created_at DESC").
		Limit(limit).
		Find(&questions).Error; err != nil {
		return nil, err
	}

	return questions, nil
}

func (r *questionRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Question{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *questionRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Question{}).Count(&total).Error; err != nil {
		return 0, err
	}

	return total, nil
}

// IncrementCounters bumps the global answer tally, and the correct tally when
// the submission was right, as a column-relative update so concurrent
// submissions never lose increments.
func (r *questionRepository) IncrementCounters(ctx context.Context, id uint, correct bool) error {
	updates := map[string]interface{}{
		"answer_count": gorm.Expr("answer_count + ?", 1),
	}
	if correct {
		updates["correct_count"] = gorm.Expr("correct_count + ?", 1)
	}

	result := r.db.WithContext(ctx).
		Model(&models.Question{}).
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
