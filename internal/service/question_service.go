package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/studyprep-go-api/internal/dto"
	"github.com/noah-isme/studyprep-go-api/internal/models"
	"github.com/noah-isme/studyprep-go-api/internal/repository"
)

const questionPageCachePrefix = "questions:page:"

// QuestionService manages the question bank with a read-through page cache.
type QuestionService interface {
	CreateQuestion(ctx context.Context, payload dto.QuestionCreateRequest) (dto.QuestionResponse, error)
	GetQuestion(ctx context.Context, id uint) (dto.QuestionResponse, error)
	GetQuestions(ctx context.Context, filter dto.QuestionFilter) (dto.QuestionPageResponse, error)
	DeleteQuestion(ctx context.Context, id uint) error
}

type questionService struct {
	questions repository.QuestionRepository
	cache     *redis.Client
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewQuestionService constructs a QuestionService instance.
func NewQuestionService(questions repository.QuestionRepository, cache *redis.Client, ttl time.Duration, validate *validator.Validate, logger zerolog.Logger) QuestionService {
	return &questionService{
		questions: questions,
		cache:     cache,
		cacheTTL:  ttl,
		validator: validate,
		logger:    logger.With().Str("component", "question_service").Logger(),
	}
}

func (s *questionService) CreateQuestion(ctx context.Context, payload dto.QuestionCreateRequest) (dto.QuestionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.QuestionResponse{}, err
	}

	question := models.Question{
		Subject:        payload.Subject,
		Chapter:        payload.Chapter,
		KnowledgePoint: payload.KnowledgePoint,
		Type:           payload.Type,
		Difficulty:     payload.Difficulty,
		Content:        payload.Content,
		OptionA:        payload.OptionA,
		OptionB:        payload.OptionB,
		OptionC:        payload.OptionC,
		OptionD:        payload.OptionD,
		Answer:         payload.Answer,
		Analysis:       payload.Analysis,
		Year:           payload.Year,
	}

	if err := s.questions.Create(ctx, &question); err != nil {
		return dto.QuestionResponse{}, err
	}

	s.invalidatePageCache(ctx)
	s.logger.Info().Uint("question_id", question.ID).Str("subject", question.Subject).Msg("question created")

	return dto.NewQuestionResponse(question), nil
}

func (s *questionService) GetQuestion(ctx context.Context, id uint) (dto.QuestionResponse, error) {
	question, err := s.questions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.QuestionResponse{}, ErrQuestionNotFound
		}
		return dto.QuestionResponse{}, err
	}

	return dto.NewQuestionResponse(question), nil
}

// GetQuestions serves paged bank listings, snapshotting each page in redis.
// Cache faults degrade to the database and are only logged.
func (s *questionService) GetQuestions(ctx context.Context, filter dto.QuestionFilter) (dto.QuestionPageResponse, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 10
	}
	if err := s.validator.Struct(filter); err != nil {
		return dto.QuestionPageResponse{}, err
	}

	cacheKey := fmt.Sprintf("%s%s_%s_%s_%s_%d_%d",
		questionPageCachePrefix,
		filter.Subject, filter.Chapter, filter.Type, filter.Year,
		filter.Page, filter.PageSize,
	)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var response dto.QuestionPageResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read question page cache")
		}
	}

	questions, total, err := s.questions.ListPage(ctx, repository.QuestionFilter{
		Subject:  filter.Subject,
		Chapter:  filter.Chapter,
		Type:     filter.Type,
		Year:     filter.Year,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	})
	if err != nil {
		return dto.QuestionPageResponse{}, err
	}

	response := dto.QuestionPageResponse{
		Items:    dto.NewQuestionResponseSlice(questions),
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store question page cache")
			}
		}
	}

	return response, nil
}

func (s *questionService) DeleteQuestion(ctx context.Context, id uint) error {
	if err := s.questions.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrQuestionNotFound
		}
		return err
	}

	s.invalidatePageCache(ctx)
	s.logger.Info().Uint("question_id", id).Msg("question deleted")

	return nil
}

// invalidatePageCache drops every cached page after a bank mutation.
func (s *questionService) invalidatePageCache(ctx context.Context) {
	if s.cache == nil {
		return
	}

	iter := s.cache.Scan(ctx, 0, questionPageCachePrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.cache.Del(ctx, iter.Val()).Err(); err != nil {
			s.logger.Warn().Err(err).Str("key", iter.Val()).Msg("failed to invalidate question page cache")
		}
	}
	if err := iter.Err(); err != nil {
		s.logger.Warn().Err(err).Msg("question page cache scan failed")
	}
}
