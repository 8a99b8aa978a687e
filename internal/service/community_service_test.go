package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/studyprep-go-api/internal/dto"
	"github.com/noah-isme/studyprep-go-api/internal/models"
	"github.com/noah-isme/studyprep-go-api/internal/repository"
)

func newCommunityService(t *testing.T) (CommunityService, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)
	svc := NewCommunityService(
		repository.NewCommunityRepository(db),
		repository.NewCheckInRepository(db),
		validator.New(validator.WithRequiredStructEnabled()),
		zerolog.Nop(),
	)

	return svc, db
}

func TestCreatePostSanitizesMarkup(t *testing.T) {
	svc, _ := newCommunityService(t)

	post, err := svc.CreatePost(context.Background(), 1, dto.PostCreateRequest{
		Title:    "Study notes <script>alert(1)</script>",
		Content:  "Day one<br><script>alert(2)</script>done",
		Category: models.PostCategoryExperience,
	})
	require.NoError(t, err)
	require.NotContains(t, post.Title, "<script>")
	require.NotContains(t, post.Content, "<script>")
	require.Contains(t, post.Content, "<br>")
}

func TestAddCommentBumpsCounter(t *testing.T) {
	svc, _ := newCommunityService(t)
	ctx := context.Background()

	post, err := svc.CreatePost(ctx, 1, dto.PostCreateRequest{
		Title:    "First post",
		Content:  "hello",
		Category: models.PostCategoryDiscussion,
	})
	require.NoError(t, err)

	comment, err := svc.AddComment(ctx, 2, dto.CommentCreateRequest{
		PostID:  post.ID,
		Content: "welcome",
	})
	require.NoError(t, err)
	require.Equal(t, post.ID, comment.PostID)

	detail, err := svc.GetPostDetail(ctx, post.ID)
	require.NoError(t, err)
	require.Equal(t, 1, detail.CommentCount)
	require.Equal(t, 1, detail.ViewCount)

	_, err = svc.AddComment(ctx, 2, dto.CommentCreateRequest{PostID: 9999, Content: "nope"})
	require.ErrorIs(t, err, ErrPostNotFound)
}

func TestCheckInRejectsDuplicateDay(t *testing.T) {
	svc, _ := newCommunityService(t)
	ctx := context.Background()

	first, err := svc.CheckIn(ctx, 1, dto.CheckInRequest{CheckInDate: "2026-02-01", StudyHours: 4})
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), first.CheckInDate)

	_, err = svc.CheckIn(ctx, 1, dto.CheckInRequest{CheckInDate: "2026-02-01"})
	require.ErrorIs(t, err, ErrCheckInAlreadyExists)

	// Same day for another user is fine.
	_, err = svc.CheckIn(ctx, 2, dto.CheckInRequest{CheckInDate: "2026-02-01"})
	require.NoError(t, err)
}

func TestStreakCountsBackFromToday(t *testing.T) {
	svc, _ := newCommunityService(t)
	ctx := context.Background()
	inner := svc.(*communityService)
	inner.now = func() time.Time { return time.Date(2026, 2, 10, 20, 0, 0, 0, time.UTC) }

	for _, day := range []string{"2026-02-08", "2026-02-09", "2026-02-10"} {
		_, err := svc.CheckIn(ctx, 1, dto.CheckInRequest{CheckInDate: day})
		require.NoError(t, err)
	}
	// A gap before the run must not count.
	_, err := svc.CheckIn(ctx, 1, dto.CheckInRequest{CheckInDate: "2026-02-05"})
	require.NoError(t, err)

	streak, err := svc.GetContinuousCheckInDays(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 3, streak)
}

func TestStreakIsZeroWithoutTodayCheckIn(t *testing.T) {
	svc, _ := newCommunityService(t)
	ctx := context.Background()
	inner := svc.(*communityService)
	inner.now = func() time.Time { return time.Date(2026, 2, 11, 8, 0, 0, 0, time.UTC) }

	for _, day := range []string{"2026-02-09", "2026-02-10"} {
		_, err := svc.CheckIn(ctx, 1, dto.CheckInRequest{CheckInDate: day})
		require.NoError(t, err)
	}

	streak, err := svc.GetContinuousCheckInDays(ctx, 1)
	require.NoError(t, err)
	require.Zero(t, streak)
}

func TestStreakEmptyHistory(t *testing.T) {
	svc, _ := newCommunityService(t)

	streak, err := svc.GetContinuousCheckInDays(context.Background(), 1)
	require.NoError(t, err)
	require.Zero(t, streak)
}

func TestPinnedPostsLeadListing(t *testing.T) {
	svc, db := newCommunityService(t)
	ctx := context.Background()

	older, err := svc.CreatePost(ctx, 1, dto.PostCreateRequest{
		Title:    "Older pinned",
		Content:  "a",
		Category: models.PostCategoryNews,
	})
	require.NoError(t, err)
	_, err = svc.CreatePost(ctx, 1, dto.PostCreateRequest{
		Title:    "Newer plain",
		Content:  "b",
		Category: models.PostCategoryNews,
	})
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.CommunityPost{}).Where("id = ?", older.ID).Update("pinned", true).Error)

	page, err := svc.GetPosts(ctx, models.PostCategoryNews, 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	require.Equal(t, older.ID, page.Items[0].ID)

	pinned, err := svc.GetPinnedPosts(ctx)
	require.NoError(t, err)
	require.Len(t, pinned, 1)
}

func TestDeletePostNotFound(t *testing.T) {
	svc, _ := newCommunityService(t)

	require.ErrorIs(t, svc.DeletePost(context.Background(), 404), ErrPostNotFound)
}
