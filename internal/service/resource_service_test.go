package service

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/studyprep-go-api/internal/dto"
	"github.com/noah-isme/studyprep-go-api/internal/models"
	"github.com/noah-isme/studyprep-go-api/internal/repository"
)

func newResourceService(t *testing.T) (ResourceService, *gorm.DB, *miniredis.Miniredis) {
	t.Helper()

	mini, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mini.Close)

	db := newTestDB(t)
	svc := NewResourceService(
		repository.NewResourceRepository(db),
		redis.NewClient(&redis.Options{Addr: mini.Addr()}),
		time.Minute,
		validator.New(validator.WithRequiredStructEnabled()),
		zerolog.Nop(),
	)

	return svc, db, mini
}

func seedResource(t *testing.T, svc ResourceService, title, subject string) dto.ResourceResponse {
	t.Helper()

	resource, err := svc.CreateResource(context.Background(), 1, dto.ResourceCreateRequest{
		Title:   title,
		Type:    models.ResourceTypeDocument,
		Subject: subject,
	})
	require.NoError(t, err)

	return resource
}

func TestGetResourceCountsViewsAcrossCacheHits(t *testing.T) {
	svc, db, _ := newResourceService(t)
	ctx := context.Background()

	created := seedResource(t, svc, "Linear algebra notes", "Math")

	first, err := svc.GetResource(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, 1, first.ViewCount)

	// Second read is served from cache, but the store still tallies the view.
	_, err = svc.GetResource(ctx, created.ID)
	require.NoError(t, err)

	var stored models.LearningResource
	require.NoError(t, db.First(&stored, created.ID).Error)
	require.Equal(t, 2, stored.ViewCount)
}

func TestUpdateResourceInvalidatesCache(t *testing.T) {
	svc, _, _ := newResourceService(t)
	ctx := context.Background()

	created := seedResource(t, svc, "Old title here", "English")

	_, err := svc.GetResource(ctx, created.ID)
	require.NoError(t, err)

	title := "Revised title"
	_, err = svc.UpdateResource(ctx, created.ID, dto.ResourceUpdateRequest{Title: &title})
	require.NoError(t, err)

	fetched, err := svc.GetResource(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, title, fetched.Title)
}

func TestGetResourcesListsPublishedOnly(t *testing.T) {
	svc, _, _ := newResourceService(t)
	ctx := context.Background()

	draft := seedResource(t, svc, "Draft material", "Politics")
	published := seedResource(t, svc, "Published material", "Politics")
	require.NoError(t, svc.PublishResource(ctx, published.ID))

	page, err := svc.GetResources(ctx, dto.ResourceFilter{Subject: "Politics"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.Equal(t, published.ID, page.Items[0].ID)
	require.True(t, page.Items[0].Published)
	require.NotEqual(t, draft.ID, page.Items[0].ID)
}

func TestGetResourcesByChapter(t *testing.T) {
	svc, _, _ := newResourceService(t)
	ctx := context.Background()

	match, err := svc.CreateResource(ctx, 1, dto.ResourceCreateRequest{
		Title:   "Chapter walkthrough",
		Type:    models.ResourceTypeVideo,
		Subject: "Math",
		Chapter: "Chapter 3",
	})
	require.NoError(t, err)
	_, err = svc.CreateResource(ctx, 1, dto.ResourceCreateRequest{
		Title:   "Other chapter",
		Type:    models.ResourceTypeVideo,
		Subject: "Math",
		Chapter: "Chapter 4",
	})
	require.NoError(t, err)

	resources, err := svc.GetResourcesByChapter(ctx, "Math", "Chapter 3")
	require.NoError(t, err)
	require.Len(t, resources, 1)
	require.Equal(t, match.ID, resources[0].ID)
}

func TestDeleteResource(t *testing.T) {
	svc, _, _ := newResourceService(t)
	ctx := context.Background()

	created := seedResource(t, svc, "Short lived notes", "English")
	require.NoError(t, svc.DeleteResource(ctx, created.ID))

	_, err := svc.GetResource(ctx, created.ID)
	require.ErrorIs(t, err, ErrResourceNotFound)

	require.ErrorIs(t, svc.DeleteResource(ctx, created.ID), ErrResourceNotFound)
}

func TestGetResourceSurvivesCacheOutage(t *testing.T) {
	svc, _, mini := newResourceService(t)
	ctx := context.Background()

	created := seedResource(t, svc, "Resilient notes", "Math")
	mini.Close()

	fetched, err := svc.GetResource(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created.ID, fetched.ID)
}
