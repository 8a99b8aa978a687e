package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/studyprep-go-api/internal/dto"
	"github.com/noah-isme/studyprep-go-api/internal/models"
	"github.com/noah-isme/studyprep-go-api/internal/repository"
)

var (
	// ErrPlanNotFound indicates a study plan could not be found.
	ErrPlanNotFound = errors.New("study plan not found")
	// ErrPlanItemNotFound indicates a plan item could not be found.
	ErrPlanItemNotFound = errors.New("study plan item not found")
	// ErrInvalidDateRange indicates the plan end date precedes the start date.
	ErrInvalidDateRange = errors.New("plan end date must not be before start date")
)

// planSubjects is the fixed daily rotation every generated day schedules.
var planSubjects = []string{"Politics", "English", "Math", "Major Course"}

const (
	// maxGeneratedDays caps item generation regardless of the plan length.
	maxGeneratedDays = 30
	// chapterCyclePeriod makes chapter labels wrap every ten days.
	chapterCyclePeriod = 10
	// defaultEstimatedHours is the per-item study estimate.
	defaultEstimatedHours = 2
)

// StudyPlanService generates study calendars and tracks completion progress.
type StudyPlanService interface {
	CreatePlan(ctx context.Context, userID uint, payload dto.PlanCreateRequest) (dto.PlanResponse, error)
	GenerateRecommendedPlan(ctx context.Context, userID uint, payload dto.RecommendPlanRequest) (dto.PlanResponse, error)
	GetUserPlans(ctx context.Context, userID uint) ([]dto.PlanResponse, error)
	GetActivePlans(ctx context.Context, userID uint) ([]dto.PlanResponse, error)
	GetPlanDetail(ctx context.Context, planID uint) (dto.PlanResponse, error)
	UpdatePlanStatus(ctx context.Context, planID uint, payload dto.PlanStatusUpdateRequest) error
	GetPlanItems(ctx context.Context, planID uint) ([]dto.PlanItemResponse, error)
	GetTodayPlanItems(ctx context.Context, planID uint) ([]dto.PlanItemResponse, error)
	CompletePlanItem(ctx context.Context, itemID uint, payload dto.CompletePlanItemRequest) (dto.PlanItemResponse, error)
}

type studyPlanService struct {
	plans     repository.StudyPlanRepository
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewStudyPlanService constructs a StudyPlanService instance.
func NewStudyPlanService(plans repository.StudyPlanRepository, validate *validator.Validate, logger zerolog.Logger) StudyPlanService {
	return &studyPlanService{
		plans:     plans,
		validator: validate,
		logger:    logger.With().Str("component", "study_plan_service").Logger(),
		now:       time.Now,
	}
}

func (s *studyPlanService) CreatePlan(ctx context.Context, userID uint, payload dto.PlanCreateRequest) (dto.PlanResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.PlanResponse{}, err
	}

	start, err := time.Parse(dto.DateLayout, payload.StartDate)
	if err != nil {
		return dto.PlanResponse{}, fmt.Errorf("invalid start date: %w", err)
	}
	end, err := time.Parse(dto.DateLayout, payload.EndDate)
	if err != nil {
		return dto.PlanResponse{}, fmt.Errorf("invalid end date: %w", err)
	}

	plan := models.StudyPlan{
		UserID:           userID,
		Title:            payload.Title,
		Description:      payload.Description,
		TargetUniversity: payload.TargetUniversity,
		TargetMajor:      payload.TargetMajor,
		StartDate:        dateOnly(start),
		EndDate:          dateOnly(end),
		Status:           models.PlanStatusActive,
	}

	if err := s.generatePlan(ctx, &plan); err != nil {
		return dto.PlanResponse{}, err
	}

	s.logger.Info().Uint("plan_id", plan.ID).Uint("user_id", userID).Msg("study plan created")

	return dto.NewPlanResponse(plan), nil
}

func (s *studyPlanService) GenerateRecommendedPlan(ctx context.Context, userID uint, payload dto.RecommendPlanRequest) (dto.PlanResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.PlanResponse{}, err
	}

	examDate, err := time.Parse(dto.DateLayout, payload.ExamDate)
	if err != nil {
		return dto.PlanResponse{}, fmt.Errorf("invalid exam date: %w", err)
	}

	plan := models.StudyPlan{
		UserID:           userID,
		Title:            "Exam Prep Plan - " + payload.TargetUniversity,
		Description:      fmt.Sprintf("Personalized study plan for the %s program", payload.TargetMajor),
		TargetUniversity: payload.TargetUniversity,
		TargetMajor:      payload.TargetMajor,
		StartDate:        dateOnly(s.now()),
		EndDate:          dateOnly(examDate),
		Status:           models.PlanStatusActive,
	}

	if err := s.generatePlan(ctx, &plan); err != nil {
		return dto.PlanResponse{}, err
	}

	s.logger.Info().
		Uint("plan_id", plan.ID).
		Uint("user_id", userID).
		Int("total_days", plan.TotalDays).
		Msg("recommended plan generated")

	return dto.NewPlanResponse(plan), nil
}

// generatePlan derives the inclusive day count, persists the plan and inserts
// the generated calendar in one transaction.
func (s *studyPlanService) generatePlan(ctx context.Context, plan *models.StudyPlan) error {
	if plan.EndDate.Before(plan.StartDate) {
		return ErrInvalidDateRange
	}

	plan.TotalDays = inclusiveDays(plan.StartDate, plan.EndDate)

	return s.plans.InTransaction(ctx, func(repo repository.StudyPlanRepository) error {
		if err := repo.CreatePlan(ctx, plan); err != nil {
			return err
		}

		return repo.CreateItems(ctx, buildPlanItems(plan.ID, plan.StartDate, plan.TotalDays))
	})
}

// buildPlanItems emits one item per subject per day in (day, subject) order.
// Generation stops after thirty days even for longer plans; the remainder of
// the calendar is left unscheduled on purpose.
func buildPlanItems(planID uint, start time.Time, totalDays int) []models.StudyPlanItem {
	days := totalDays
	if days > maxGeneratedDays {
		days = maxGeneratedDays
	}

	items := make([]models.StudyPlanItem, 0, days*len(planSubjects))
	for i := 0; i < days; i++ {
		chapter := fmt.Sprintf("Chapter %d", (i%chapterCyclePeriod)+1)
		planDate := start.AddDate(0, 0, i)

		for _, subject := range planSubjects {
			items = append(items, models.StudyPlanItem{
				PlanID:         planID,
				Subject:        subject,
				Chapter:        chapter,
				PlanDate:       planDate,
				EstimatedHours: defaultEstimatedHours,
				Content:        subject + " study session",
				Completed:      false,
			})
		}
	}

	return items
}

func (s *studyPlanService) GetUserPlans(ctx context.Context, userID uint) ([]dto.PlanResponse, error) {
	plans, err := s.plans.ListPlans(ctx, userID)
	if err != nil {
		return nil, err
	}

	return dto.NewPlanResponseSlice(plans), nil
}

func (s *studyPlanService) GetActivePlans(ctx context.Context, userID uint) ([]dto.PlanResponse, error) {
	plans, err := s.plans.ListPlansByStatus(ctx, userID, models.PlanStatusActive)
	if err != nil {
		return nil, err
	}

	return dto.NewPlanResponseSlice(plans), nil
}

func (s *studyPlanService) GetPlanDetail(ctx context.Context, planID uint) (dto.PlanResponse, error) {
	plan, err := s.plans.GetPlan(ctx, planID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.PlanResponse{}, ErrPlanNotFound
		}
		return dto.PlanResponse{}, err
	}

	return dto.NewPlanResponse(plan), nil
}

func (s *studyPlanService) UpdatePlanStatus(ctx context.Context, planID uint, payload dto.PlanStatusUpdateRequest) error {
	if err := s.validator.Struct(payload); err != nil {
		return err
	}

	plan, err := s.plans.GetPlan(ctx, planID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPlanNotFound
		}
		return err
	}

	plan.Status = payload.Status
	if err := s.plans.UpdatePlan(ctx, &plan); err != nil {
		return err
	}

	s.logger.Info().Uint("plan_id", planID).Str("status", payload.Status).Msg("plan status updated")

	return nil
}

func (s *studyPlanService) GetPlanItems(ctx context.Context, planID uint) ([]dto.PlanItemResponse, error) {
	items, err := s.plans.ListItems(ctx, planID)
	if err != nil {
		return nil, err
	}

	return dto.NewPlanItemResponseSlice(items), nil
}

func (s *studyPlanService) GetTodayPlanItems(ctx context.Context, planID uint) ([]dto.PlanItemResponse, error) {
	items, err := s.plans.ListItemsByDate(ctx, planID, dateOnly(s.now()))
	if err != nil {
		return nil, err
	}

	return dto.NewPlanItemResponseSlice(items), nil
}

// CompletePlanItem flags the item done and recomputes the owning plan's
// progress within one transaction. The completed flag is a plain boolean, so
// repeating the call cannot double count.
func (s *studyPlanService) CompletePlanItem(ctx context.Context, itemID uint, payload dto.CompletePlanItemRequest) (dto.PlanItemResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.PlanItemResponse{}, err
	}

	var completed models.StudyPlanItem
	err := s.plans.InTransaction(ctx, func(repo repository.StudyPlanRepository) error {
		item, err := repo.GetItem(ctx, itemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPlanItemNotFound
			}
			return err
		}

		now := s.now()
		item.Completed = true
		item.CompletedTime = &now
		item.ActualHours = payload.ActualHours
		if err := repo.UpdateItem(ctx, &item); err != nil {
			return err
		}

		completed = item

		return s.recomputeProgress(ctx, repo, item.PlanID)
	})
	if err != nil {
		return dto.PlanItemResponse{}, err
	}

	s.logger.Info().Uint("item_id", itemID).Uint("plan_id", completed.PlanID).Msg("plan item completed")

	return dto.NewPlanItemResponse(completed), nil
}

// recomputeProgress derives progress from the plan's own items. The divisor is
// deliberately scoped to the plan, not the whole item table.
func (s *studyPlanService) recomputeProgress(ctx context.Context, repo repository.StudyPlanRepository, planID uint) error {
	plan, err := repo.GetPlan(ctx, planID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPlanNotFound
		}
		return err
	}

	totalItems, err := repo.CountItems(ctx, planID)
	if err != nil {
		return err
	}
	completedItems, err := repo.CountCompletedItems(ctx, planID)
	if err != nil {
		return err
	}

	if totalItems > 0 {
		progress := int(completedItems * 100 / totalItems)
		if progress > 100 {
			progress = 100
		}
		if progress < 0 {
			progress = 0
		}
		plan.Progress = progress
		plan.CompletedDays = int(completedItems)

		return repo.UpdatePlan(ctx, &plan)
	}

	return nil
}

// inclusiveDays counts calendar days between two dates, both ends included.
func inclusiveDays(start, end time.Time) int {
	return int(dateOnly(end).Sub(dateOnly(start))/(24*time.Hour)) + 1
}

// dateOnly truncates a timestamp to its UTC calendar date.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
