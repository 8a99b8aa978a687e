package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/studyprep-go-api/internal/dto"
	"github.com/noah-isme/studyprep-go-api/internal/models"
	"github.com/noah-isme/studyprep-go-api/internal/repository"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.StudyPlan{},
		&models.StudyPlanItem{},
		&models.Question{},
		&models.AnswerRecord{},
		&models.WrongQuestion{},
		&models.CommunityPost{},
		&models.PostComment{},
		&models.StudyCheckIn{},
		&models.LearningResource{},
	))

	return db
}

func newPlanService(t *testing.T) (StudyPlanService, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)
	repo := repository.NewStudyPlanRepository(db)
	svc := NewStudyPlanService(repo, validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop())

	return svc, db
}

func TestCreatePlanGeneratesDailyItems(t *testing.T) {
	svc, db := newPlanService(t)
	ctx := context.Background()

	plan, err := svc.CreatePlan(ctx, 1, dto.PlanCreateRequest{
		Title:     "Winter sprint",
		StartDate: "2026-01-01",
		EndDate:   "2026-01-05",
	})
	require.NoError(t, err)
	require.Equal(t, 5, plan.TotalDays)
	require.Equal(t, models.PlanStatusActive, plan.Status)

	var items []models.StudyPlanItem
	require.NoError(t, db.Where("plan_id = ?", plan.ID).Order("id ASC").Find(&items).Error)
	require.Len(t, items, 20)

	// Four subjects per day, day-major order.
	require.Equal(t, "Politics", items[0].Subject)
	require.Equal(t, "English", items[1].Subject)
	require.Equal(t, "Math", items[2].Subject)
	require.Equal(t, "Major Course", items[3].Subject)
	require.Equal(t, "Politics", items[4].Subject)

	require.Equal(t, "Chapter 1", items[0].Chapter)
	require.Equal(t, "Chapter 2", items[4].Chapter)
	require.Equal(t, 2, items[0].EstimatedHours)
	require.Equal(t, "Politics study session", items[0].Content)
	require.False(t, items[0].Completed)

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	require.Equal(t, start, items[0].PlanDate)
	require.Equal(t, start.AddDate(0, 0, 1), items[4].PlanDate)
}

func TestCreatePlanRejectsInvertedRange(t *testing.T) {
	svc, _ := newPlanService(t)

	_, err := svc.CreatePlan(context.Background(), 1, dto.PlanCreateRequest{
		Title:     "Backwards",
		StartDate: "2026-03-10",
		EndDate:   "2026-03-01",
	})
	require.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestGenerationCapsAtThirtyDays(t *testing.T) {
	svc, db := newPlanService(t)

	plan, err := svc.CreatePlan(context.Background(), 1, dto.PlanCreateRequest{
		Title:     "Long haul",
		StartDate: "2026-01-01",
		EndDate:   "2026-02-14",
	})
	require.NoError(t, err)
	require.Equal(t, 45, plan.TotalDays)

	var count int64
	require.NoError(t, db.Model(&models.StudyPlanItem{}).Where("plan_id = ?", plan.ID).Count(&count).Error)
	require.EqualValues(t, 30*4, count)

	// Chapter labels wrap every ten days.
	var items []models.StudyPlanItem
	require.NoError(t, db.Where("plan_id = ?", plan.ID).Order("id ASC").Find(&items).Error)
	require.Equal(t, "Chapter 10", items[9*4].Chapter)
	require.Equal(t, "Chapter 1", items[10*4].Chapter)
}

func TestGenerateRecommendedPlanStartsToday(t *testing.T) {
	svc, db := newPlanService(t)
	inner := svc.(*studyPlanService)
	inner.now = func() time.Time { return time.Date(2026, 6, 1, 15, 30, 0, 0, time.UTC) }

	plan, err := svc.GenerateRecommendedPlan(context.Background(), 7, dto.RecommendPlanRequest{
		TargetUniversity: "Tsinghua",
		TargetMajor:      "Computer Science",
		ExamDate:         "2026-06-10",
	})
	require.NoError(t, err)
	require.Equal(t, "Exam Prep Plan - Tsinghua", plan.Title)
	require.Equal(t, 10, plan.TotalDays)
	require.Equal(t, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), plan.StartDate)

	var count int64
	require.NoError(t, db.Model(&models.StudyPlanItem{}).Where("plan_id = ?", plan.ID).Count(&count).Error)
	require.EqualValues(t, 40, count)
}

func TestCompletePlanItemRecomputesProgress(t *testing.T) {
	svc, db := newPlanService(t)
	ctx := context.Background()

	plan, err := svc.CreatePlan(ctx, 1, dto.PlanCreateRequest{
		Title:     "Two days",
		StartDate: "2026-01-01",
		EndDate:   "2026-01-02",
	})
	require.NoError(t, err)

	var first models.StudyPlanItem
	require.NoError(t, db.Where("plan_id = ?", plan.ID).Order("id ASC").First(&first).Error)

	item, err := svc.CompletePlanItem(ctx, first.ID, dto.CompletePlanItemRequest{ActualHours: 3})
	require.NoError(t, err)
	require.True(t, item.Completed)
	require.NotNil(t, item.CompletedTime)
	require.Equal(t, 3, item.ActualHours)

	detail, err := svc.GetPlanDetail(ctx, plan.ID)
	require.NoError(t, err)
	require.Equal(t, 12, detail.Progress) // 1 of 8 items
	require.Equal(t, 1, detail.CompletedDays)

	// Completing the same item again must not double count.
	_, err = svc.CompletePlanItem(ctx, first.ID, dto.CompletePlanItemRequest{})
	require.NoError(t, err)

	detail, err = svc.GetPlanDetail(ctx, plan.ID)
	require.NoError(t, err)
	require.Equal(t, 12, detail.Progress)
	require.Equal(t, 1, detail.CompletedDays)
}

func TestProgressScopedToOwnPlan(t *testing.T) {
	svc, db := newPlanService(t)
	ctx := context.Background()

	small, err := svc.CreatePlan(ctx, 1, dto.PlanCreateRequest{
		Title:     "Small",
		StartDate: "2026-01-01",
		EndDate:   "2026-01-01",
	})
	require.NoError(t, err)

	_, err = svc.CreatePlan(ctx, 1, dto.PlanCreateRequest{
		Title:     "Big",
		StartDate: "2026-01-01",
		EndDate:   "2026-01-30",
	})
	require.NoError(t, err)

	var items []models.StudyPlanItem
	require.NoError(t, db.Where("plan_id = ?", small.ID).Order("id ASC").Find(&items).Error)
	require.Len(t, items, 4)

	for _, item := range items {
		_, err := svc.CompletePlanItem(ctx, item.ID, dto.CompletePlanItemRequest{})
		require.NoError(t, err)
	}

	detail, err := svc.GetPlanDetail(ctx, small.ID)
	require.NoError(t, err)
	require.Equal(t, 100, detail.Progress)
}

func TestUpdatePlanStatus(t *testing.T) {
	svc, _ := newPlanService(t)
	ctx := context.Background()

	plan, err := svc.CreatePlan(ctx, 1, dto.PlanCreateRequest{
		Title:     "Pause me",
		StartDate: "2026-01-01",
		EndDate:   "2026-01-03",
	})
	require.NoError(t, err)

	require.NoError(t, svc.UpdatePlanStatus(ctx, plan.ID, dto.PlanStatusUpdateRequest{Status: models.PlanStatusPaused}))

	detail, err := svc.GetPlanDetail(ctx, plan.ID)
	require.NoError(t, err)
	require.Equal(t, models.PlanStatusPaused, detail.Status)

	err = svc.UpdatePlanStatus(ctx, 9999, dto.PlanStatusUpdateRequest{Status: models.PlanStatusActive})
	require.ErrorIs(t, err, ErrPlanNotFound)
}

func TestGetTodayPlanItems(t *testing.T) {
	svc, _ := newPlanService(t)
	inner := svc.(*studyPlanService)
	inner.now = func() time.Time { return time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC) }

	plan, err := svc.CreatePlan(context.Background(), 1, dto.PlanCreateRequest{
		Title:     "Three days",
		StartDate: "2026-01-01",
		EndDate:   "2026-01-03",
	})
	require.NoError(t, err)

	items, err := svc.GetTodayPlanItems(context.Background(), plan.ID)
	require.NoError(t, err)
	require.Len(t, items, 4)
	for _, item := range items {
		require.Equal(t, time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC), item.PlanDate)
	}
}
