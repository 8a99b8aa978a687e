package dto

import (
	"time"

	"github.com/noah-isme/studyprep-go-api/internal/models"
)

// WechatLoginRequest carries the mini-program login code and optional profile hints.
type WechatLoginRequest struct {
	Code      string `json:"code" validate:"required"`
	NickName  string `json:"nick_name"`
	AvatarURL string `json:"avatar_url" validate:"omitempty,url"`
	Gender    string `json:"gender"`
}

// LoginResponse returns the issued token along with the resolved account.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// UserUpdateRequest describes a partial profile update.
type UserUpdateRequest struct {
	NickName         *string `json:"nick_name"`
	Phone            *string `json:"phone"`
	Email            *string `json:"email" validate:"omitempty,email"`
	TargetUniversity *string `json:"target_university"`
	TargetMajor      *string `json:"target_major"`
	ExamYear         *string `json:"exam_year"`
}

// StudyStatsUpdateRequest increments the rolling study counters on a profile.
type StudyStatsUpdateRequest struct {
	StudyHours         *int `json:"study_hours" validate:"omitempty,gte=0"`
	CompletedQuestions *int `json:"completed_questions" validate:"omitempty,gte=0"`
	CorrectQuestions   *int `json:"correct_questions" validate:"omitempty,gte=0"`
}

// UserResponse is the serialized representation of an account.
type UserResponse struct {
	ID                 uint      `json:"id"`
	Username           string    `json:"username,omitempty"`
	NickName           string    `json:"nick_name"`
	AvatarURL          string    `json:"avatar_url"`
	Gender             string    `json:"gender"`
	Phone              string    `json:"phone"`
	Email              string    `json:"email"`
	TargetUniversity   string    `json:"target_university"`
	TargetMajor        string    `json:"target_major"`
	ExamYear           string    `json:"exam_year"`
	StudyDays          int       `json:"study_days"`
	StudyHours         int       `json:"study_hours"`
	CompletedQuestions int       `json:"completed_questions"`
	CorrectQuestions   int       `json:"correct_questions"`
	Role               string    `json:"role"`
	CreatedAt          time.Time `json:"created_at"`
}

// NewUserResponse converts a model into a DTO.
func NewUserResponse(model models.User) UserResponse {
	username := ""
	if model.Username != nil {
		username = *model.Username
	}

	return UserResponse{
		ID:                 model.ID,
		Username:           username,
		NickName:           model.NickName,
		AvatarURL:          model.AvatarURL,
		Gender:             model.Gender,
		Phone:              model.Phone,
		Email:              model.Email,
		TargetUniversity:   model.TargetUniversity,
		TargetMajor:        model.TargetMajor,
		ExamYear:           model.ExamYear,
		StudyDays:          model.StudyDays,
		StudyHours:         model.StudyHours,
		CompletedQuestions: model.CompletedQuestions,
		CorrectQuestions:   model.CorrectQuestions,
		Role:               model.Role,
		CreatedAt:          model.CreatedAt,
	}
}

// NewUserResponseSlice converts a slice of models into DTOs.
func NewUserResponseSlice(users []models.User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, NewUserResponse(user))
	}

	return responses
}
