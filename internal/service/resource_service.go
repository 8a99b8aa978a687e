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

// ErrResourceNotFound indicates a learning resource could not be found.
var ErrResourceNotFound = errors.New("learning resource not found")

const resourceCachePrefix = "resource:"

// ResourceService manages learning materials with cached detail reads.
type ResourceService interface {
	CreateResource(ctx context.Context, uploaderID uint, payload dto.ResourceCreateRequest) (dto.ResourceResponse, error)
	UpdateResource(ctx context.Context, id uint, payload dto.ResourceUpdateRequest) (dto.ResourceResponse, error)
	DeleteResource(ctx context.Context, id uint) error
	GetResource(ctx context.Context, id uint) (dto.ResourceResponse, error)
	GetResources(ctx context.Context, filter dto.ResourceFilter) (dto.ResourcePageResponse, error)
	GetResourcesByChapter(ctx context.Context, subject, chapter string) ([]dto.ResourceResponse, error)
	PublishResource(ctx context.Context, id uint) error
}

type resourceService struct {
	resources repository.ResourceRepository
	cache     *redis.Client
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewResourceService constructs a ResourceService instance.
func NewResourceService(resources repository.ResourceRepository, cache *redis.Client, ttl time.Duration, validate *validator.Validate, logger zerolog.Logger) ResourceService {
	return &resourceService{
		resources: resources,
		cache:     cache,
		cacheTTL:  ttl,
		validator: validate,
		logger:    logger.With().Str("component", "resource_service").Logger(),
	}
}

func (s *resourceService) CreateResource(ctx context.Context, uploaderID uint, payload dto.ResourceCreateRequest) (dto.ResourceResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ResourceResponse{}, err
	}

	resource := models.LearningResource{
		Title:       payload.Title,
		Description: payload.Description,
		Type:        payload.Type,
		Subject:     payload.Subject,
		Chapter:     payload.Chapter,
		Section:     payload.Section,
		FileURL:     payload.FileURL,
		CoverURL:    payload.CoverURL,
		Duration:    payload.Duration,
		FileSize:    payload.FileSize,
		UploaderID:  uploaderID,
	}

	if err := s.resources.Create(ctx, &resource); err != nil {
		return dto.ResourceResponse{}, err
	}

	s.logger.Info().Uint("resource_id", resource.ID).Str("type", resource.Type).Msg("resource created")

	return dto.NewResourceResponse(resource), nil
}

func (s *resourceService) UpdateResource(ctx context.Context, id uint, payload dto.ResourceUpdateRequest) (dto.ResourceResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ResourceResponse{}, err
	}

	resource, err := s.resources.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ResourceResponse{}, ErrResourceNotFound
		}
		return dto.ResourceResponse{}, err
	}

	if payload.Title != nil {
		resource.Title = *payload.Title
	}
	if payload.Description != nil {
		resource.Description = *payload.Description
	}
	if payload.Subject != nil {
		resource.Subject = *payload.Subject
	}
	if payload.Chapter != nil {
		resource.Chapter = *payload.Chapter
	}
	if payload.Section != nil {
		resource.Section = *payload.Section
	}
	if payload.FileURL != nil {
		resource.FileURL = *payload.FileURL
	}
	if payload.CoverURL != nil {
		resource.CoverURL = *payload.CoverURL
	}
	if payload.Published != nil {
		resource.Published = *payload.Published
	}

	if err := s.resources.Update(ctx, &resource); err != nil {
		return dto.ResourceResponse{}, err
	}

	s.invalidate(ctx, id)

	return dto.NewResourceResponse(resource), nil
}

func (s *resourceService) DeleteResource(ctx context.Context, id uint) error {
	if err := s.resources.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrResourceNotFound
		}
		return err
	}

	s.invalidate(ctx, id)
	s.logger.Info().Uint("resource_id", id).Msg("resource deleted")

	return nil
}

// GetResource serves the detail from cache when fresh; the view counter is
// always bumped in the store so the tally survives cached reads.
func (s *resourceService) GetResource(ctx context.Context, id uint) (dto.ResourceResponse, error) {
	cacheKey := fmt.Sprintf("%s%d", resourceCachePrefix, id)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var response dto.ResourceResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				if err := s.resources.IncrementViewCount(ctx, id); err != nil {
					s.logger.Warn().Err(err).Uint("resource_id", id).Msg("failed to bump view count")
				}
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read resource cache")
		}
	}

	resource, err := s.resources.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ResourceResponse{}, ErrResourceNotFound
		}
		return dto.ResourceResponse{}, err
	}

	if err := s.resources.IncrementViewCount(ctx, id); err != nil {
		s.logger.Warn().Err(err).Uint("resource_id", id).Msg("failed to bump view count")
	} else {
		resource.ViewCount++
	}

	response := dto.NewResourceResponse(resource)

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store resource cache")
			}
		}
	}

	return response, nil
}

func (s *resourceService) GetResources(ctx context.Context, filter dto.ResourceFilter) (dto.ResourcePageResponse, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 10
	}
	if err := s.validator.Struct(filter); err != nil {
		return dto.ResourcePageResponse{}, err
	}

	resources, total, err := s.resources.ListPage(ctx, repository.ResourceFilter{
		Subject:       filter.Subject,
		Type:          filter.Type,
		PublishedOnly: true,
		Page:          filter.Page,
		PageSize:      filter.PageSize,
	})
	if err != nil {
		return dto.ResourcePageResponse{}, err
	}

	return dto.ResourcePageResponse{
		Items:    dto.NewResourceResponseSlice(resources),
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

func (s *resourceService) GetResourcesByChapter(ctx context.Context, subject, chapter string) ([]dto.ResourceResponse, error) {
	resources, err := s.resources.ListByChapter(ctx, subject, chapter)
	if err != nil {
		return nil, err
	}

	return dto.NewResourceResponseSlice(resources), nil
}

func (s *resourceService) PublishResource(ctx context.Context, id uint) error {
	resource, err := s.resources.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrResourceNotFound
		}
		return err
	}

	resource.Published = true
	if err := s.resources.Update(ctx, &resource); err != nil {
		return err
	}

	s.invalidate(ctx, id)
	s.logger.Info().Uint("resource_id", id).Msg("resource published")

	return nil
}

func (s *resourceService) invalidate(ctx context.Context, id uint) {
	if s.cache == nil {
		return
	}

	if err := s.cache.Del(ctx, fmt.Sprintf("%s%d", resourceCachePrefix, id)).Err(); err != nil {
		s.logger.Warn().Err(err).Uint("resource_id", id).Msg("failed to invalidate resource cache")
	}
}
