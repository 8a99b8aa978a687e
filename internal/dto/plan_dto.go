package dto

import (
	"time"

	"github.com/noah-isme/studyprep-go-api/internal/models"
)

// DateLayout is the calendar-date format accepted by plan and check-in payloads.
const DateLayout = "2006-01-02"

// PlanCreateRequest describes the payload for creating a study plan by hand.
type PlanCreateRequest struct {
	Title            string `json:"title" validate:"required,min=2"`
	Description      string `json:"description"`
	TargetUniversity string `json:"target_university"`
	TargetMajor      string `json:"target_major"`
	StartDate        string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate          string `json:"end_date" validate:"required,datetime=2006-01-02"`
}

// RecommendPlanRequest asks for a generated plan ending at the exam date.
type RecommendPlanRequest struct {
	TargetUniversity string `json:"target_university" validate:"required"`
	TargetMajor      string `json:"target_major" validate:"required"`
	ExamDate         string `json:"exam_date" validate:"required,datetime=2006-01-02"`
}

// PlanStatusUpdateRequest changes the lifecycle state of a plan.
type PlanStatusUpdateRequest struct {
	Status string `json:"status" validate:"required,oneof=ACTIVE COMPLETED PAUSED"`
}

// CompletePlanItemRequest marks a scheduled item as done.
type CompletePlanItemRequest struct {
	ActualHours int `json:"actual_hours" validate:"gte=0,lte=24"`
}

// PlanResponse is the serialized representation of a study plan.
type PlanResponse struct {
	ID               uint      `json:"id"`
	UserID           uint      `json:"user_id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	TargetUniversity string    `json:"target_university"`
	TargetMajor      string    `json:"target_major"`
	StartDate        time.Time `json:"start_date"`
	EndDate          time.Time `json:"end_date"`
	TotalDays        int       `json:"total_days"`
	CompletedDays    int       `json:"completed_days"`
	Progress         int       `json:"progress"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// NewPlanResponse converts a model into a DTO.
func NewPlanResponse(model models.StudyPlan) PlanResponse {
	return PlanResponse{
		ID:               model.ID,
		UserID:           model.UserID,
		Title:            model.Title,
		Description:      model.Description,
		TargetUniversity: model.TargetUniversity,
		TargetMajor:      model.TargetMajor,
		StartDate:        model.StartDate,
		EndDate:          model.EndDate,
		TotalDays:        model.TotalDays,
		CompletedDays:    model.CompletedDays,
		Progress:         model.Progress,
		Status:           model.Status,
		CreatedAt:        model.CreatedAt,
		UpdatedAt:        model.UpdatedAt,
	}
}

// NewPlanResponseSlice converts a slice of models into DTOs.
func NewPlanResponseSlice(plans []models.StudyPlan) []PlanResponse {
	responses := make([]PlanResponse, 0, len(plans))
	for _, plan := range plans {
		responses = append(responses, NewPlanResponse(plan))
	}

	return responses
}

// PlanItemResponse is the serialized representation of a scheduled study unit.
type PlanItemResponse struct {
	ID             uint       `json:"id"`
	PlanID         uint       `json:"plan_id"`
	Subject        string     `json:"subject"`
	Chapter        string     `json:"chapter"`
	Section        string     `json:"section"`
	PlanDate       time.Time  `json:"plan_date"`
	EstimatedHours int        `json:"estimated_hours"`
	ActualHours    int        `json:"actual_hours"`
	Content        string     `json:"content"`
	Completed      bool       `json:"completed"`
	CompletedTime  *time.Time `json:"completed_time"`
}

// NewPlanItemResponse converts a model into a DTO.
func NewPlanItemResponse(model models.StudyPlanItem) PlanItemResponse {
	return PlanItemResponse{
		ID:             model.ID,
		PlanID:         model.PlanID,
		Subject:        model.Subject,
		Chapter:        model.Chapter,
		Section:        model.Section,
		PlanDate:       model.PlanDate,
		EstimatedHours: model.EstimatedHours,
		ActualHours:    model.ActualHours,
		Content:        model.Content,
		Completed:      model.Completed,
		CompletedTime:  model.CompletedTime,
	}
}

// NewPlanItemResponseSlice converts a slice of models into DTOs.
func NewPlanItemResponseSlice(items []models.StudyPlanItem) []PlanItemResponse {
	responses := make([]PlanItemResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, NewPlanItemResponse(item))
	}

	return responses
}
