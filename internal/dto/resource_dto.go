package dto

import (
	"time"

	"github.com/noah-isme/studyprep-go-api/internal/models"
)

// ResourceCreateRequest describes the payload for registering a learning resource.
type ResourceCreateRequest struct {
	Title       string `json:"title" validate:"required,min=2"`
	Description string `json:"description"`
	Type        string `json:"type" validate:"required,oneof=VIDEO DOCUMENT QUESTION_BANK"`
	Subject     string `json:"subject" validate:"required"`
	Chapter     string `json:"chapter"`
	Section     string `json:"section"`
	FileURL     string `json:"file_url" validate:"omitempty,url"`
	CoverURL    string `json:"cover_url" validate:"omitempty,url"`
	Duration    int    `json:"duration" validate:"gte=0"`
	FileSize    int64  `json:"file_size" validate:"gte=0"`
}

// ResourceUpdateRequest describes a partial update to a learning resource.
type ResourceUpdateRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=2"`
	Description *string `json:"description"`
	Subject     *string `json:"subject"`
	Chapter     *string `json:"chapter"`
	Section     *string `json:"section"`
	FileURL     *string `json:"file_url" validate:"omitempty,url"`
	CoverURL    *string `json:"cover_url" validate:"omitempty,url"`
	Published   *bool   `json:"published"`
}

// ResourceFilter narrows paged resource listings. Pages are 1-based.
type ResourceFilter struct {
	Subject  string `validate:"omitempty"`
	Type     string `validate:"omitempty"`
	Page     int    `validate:"gte=1"`
	PageSize int    `validate:"gte=1,lte=100"`
}

// ResourceResponse is the serialized representation of a learning resource.
type ResourceResponse struct {
	ID            uint      `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Type          string    `json:"type"`
	Subject       string    `json:"subject"`
	Chapter       string    `json:"chapter"`
	Section       string    `json:"section"`
	FileURL       string    `json:"file_url"`
	CoverURL      string    `json:"cover_url"`
	Duration      int       `json:"duration"`
	FileSize      int64     `json:"file_size"`
	ViewCount     int       `json:"view_count"`
	DownloadCount int       `json:"download_count"`
	Published     bool      `json:"published"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewResourceResponse converts a model into a DTO.
func NewResourceResponse(model models.LearningResource) ResourceResponse {
	return ResourceResponse{
		ID:            model.ID,
		Title:         model.Title,
		Description:   model.Description,
		Type:          model.Type,
		Subject:       model.Subject,
		Chapter:       model.Chapter,
		Section:       model.Section,
		FileURL:       model.FileURL,
		CoverURL:      model.CoverURL,
		Duration:      model.Duration,
		FileSize:      model.FileSize,
		ViewCount:     model.ViewCount,
		DownloadCount: model.DownloadCount,
		Published:     model.Published,
		CreatedAt:     model.CreatedAt,
	}
}

// NewResourceResponseSlice converts a slice of models into DTOs.
func NewResourceResponseSlice(resources []models.LearningResource) []ResourceResponse {
	responses := make([]ResourceResponse, 0, len(resources))
	for _, resource := range resources {
		responses = append(responses, NewResourceResponse(resource))
	}

	return responses
}

// ResourcePageResponse wraps a page of resources with paging metadata.
type ResourcePageResponse struct {
	Items    []ResourceResponse `json:"items"`
	Total    int64              `json:"total"`
	Page     int                `json:"page"`
	PageSize int                `json:"page_size"`
}
