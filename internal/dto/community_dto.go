package dto

import (
	"time"

	"github.com/noah-isme/studyprep-go-api/internal/models"
)

// PostCreateRequest describes the payload for creating a community post.
type PostCreateRequest struct {
	Title    string   `json:"title" validate:"required,min=2,max=255"`
	Content  string   `json:"content" validate:"required"`
	Category string   `json:"category" validate:"required,oneof=NEWS EXPERIENCE DISCUSSION CHECK_IN"`
	Images   []string `json:"images" validate:"omitempty,dive,url"`
}

// PostResponse is the serialized representation of a community post.
type PostResponse struct {
	ID           uint      `json:"id"`
	UserID       uint      `json:"user_id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	Category     string    `json:"category"`
	Images       []string  `json:"images"`
	ViewCount    int       `json:"view_count"`
	LikeCount    int       `json:"like_count"`
	CommentCount int       `json:"comment_count"`
	Pinned       bool      `json:"pinned"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewPostResponse converts a model into a DTO.
func NewPostResponse(model models.CommunityPost) PostResponse {
	return PostResponse{
		ID:           model.ID,
		UserID:       model.UserID,
		Title:        model.Title,
		Content:      model.Content,
		Category:     model.Category,
		Images:       model.Images,
		ViewCount:    model.ViewCount,
		LikeCount:    model.LikeCount,
		CommentCount: model.CommentCount,
		Pinned:       model.Pinned,
		CreatedAt:    model.CreatedAt,
	}
}

// NewPostResponseSlice converts a slice of models into DTOs.
func NewPostResponseSlice(posts []models.CommunityPost) []PostResponse {
	responses := make([]PostResponse, 0, len(posts))
	for _, post := range posts {
		responses = append(responses, NewPostResponse(post))
	}

	return responses
}

// PostPageResponse wraps a page of posts with paging metadata.
type PostPageResponse struct {
	Items    []PostResponse `json:"items"`
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}

// CommentCreateRequest adds a comment to a post.
type CommentCreateRequest struct {
	PostID   uint   `json:"post_id" validate:"required"`
	Content  string `json:"content" validate:"required"`
	ParentID *uint  `json:"parent_id"`
}

// CommentResponse is the serialized representation of a post comment.
type CommentResponse struct {
	ID        uint      `json:"id"`
	PostID    uint      `json:"post_id"`
	UserID    uint      `json:"user_id"`
	Content   string    `json:"content"`
	ParentID  *uint     `json:"parent_id"`
	LikeCount int       `json:"like_count"`
	CreatedAt time.Time `json:"created_at"`
}

// NewCommentResponse converts a model into a DTO.
func NewCommentResponse(model models.PostComment) CommentResponse {
	return CommentResponse{
		ID:        model.ID,
		PostID:    model.PostID,
		UserID:    model.UserID,
		Content:   model.Content,
		ParentID:  model.ParentID,
		LikeCount: model.LikeCount,
		CreatedAt: model.CreatedAt,
	}
}

// NewCommentResponseSlice converts a slice of models into DTOs.
func NewCommentResponseSlice(comments []models.PostComment) []CommentResponse {
	responses := make([]CommentResponse, 0, len(comments))
	for _, comment := range comments {
		responses = append(responses, NewCommentResponse(comment))
	}

	return responses
}

// CheckInRequest logs a study day. The date defaults to today when omitted.
type CheckInRequest struct {
	CheckInDate string   `json:"check_in_date" validate:"omitempty,datetime=2006-01-02"`
	StudyHours  int      `json:"study_hours" validate:"gte=0,lte=24"`
	Note        string   `json:"note"`
	Images      []string `json:"images" validate:"omitempty,dive,url"`
}

// CheckInResponse is the serialized representation of a study check-in.
type CheckInResponse struct {
	ID          uint      `json:"id"`
	UserID      uint      `json:"user_id"`
	CheckInDate time.Time `json:"check_in_date"`
	StudyHours  int       `json:"study_hours"`
	Note        string    `json:"note"`
	Images      []string  `json:"images"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewCheckInResponse converts a model into a DTO.
func NewCheckInResponse(model models.StudyCheckIn) CheckInResponse {
	return CheckInResponse{
		ID:          model.ID,
		UserID:      model.UserID,
		CheckInDate: model.CheckInDate,
		StudyHours:  model.StudyHours,
		Note:        model.Note,
		Images:      model.Images,
		CreatedAt:   model.CreatedAt,
	}
}

// NewCheckInResponseSlice converts a slice of models into DTOs.
func NewCheckInResponseSlice(checkIns []models.StudyCheckIn) []CheckInResponse {
	responses := make([]CheckInResponse, 0, len(checkIns))
	for _, checkIn := range checkIns {
		responses = append(responses, NewCheckInResponse(checkIn))
	}

	return responses
}

// StreakResponse reports the consecutive check-in day count ending today.
type StreakResponse struct {
	ContinuousDays int `json:"continuous_days"`
}
