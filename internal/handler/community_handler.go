package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/studyprep-go-api/internal/dto"
	"github.com/noah-isme/studyprep-go-api/internal/service"
	"github.com/noah-isme/studyprep-go-api/internal/utils"
)

// CommunityHandler exposes post, comment and check-in endpoints.
type CommunityHandler struct {
	service service.CommunityService
	logger  zerolog.Logger
}

// NewCommunityHandler constructs a community handler.
func NewCommunityHandler(service service.CommunityService, logger zerolog.Logger) *CommunityHandler {
	return &CommunityHandler{
		service: service,
		logger:  logger.With().Str("component", "community_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *CommunityHandler) Register(router fiber.Router) {
	router.Post("/posts", h.createPost)
	router.Get("/posts", h.listPosts)
	router.Get("/posts/mine", h.listMyPosts)
	router.Get("/posts/pinned", h.listPinnedPosts)
	router.Get("/posts/:id", h.postDetail)
	router.Post("/posts/:id/like", h.likePost)
	router.Delete("/posts/:id", h.deletePost)
	router.Get("/posts/:id/comments", h.listComments)
	router.Post("/comments", h.addComment)
	router.Post("/check-ins", h.checkIn)
	router.Get("/check-ins", h.listCheckIns)
	router.Get("/check-ins/streak", h.streak)
}

func (h *CommunityHandler) createPost(c *fiber.Ctx) error {
	var payload dto.PostCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	post, err := h.service.CreatePost(c.Context(), userIDFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "post created", post)
}

func (h *CommunityHandler) listPosts(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	pageSize, err := parseQueryInt(c, "page_size")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page size")
	}

	result, err := h.service.GetPosts(c.Context(), c.Query("category"), page, pageSize)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "posts retrieved", result)
}

func (h *CommunityHandler) listMyPosts(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	pageSize, err := parseQueryInt(c, "page_size")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page size")
	}

	result, err := h.service.GetMyPosts(c.Context(), userIDFromContext(c), page, pageSize)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "posts retrieved", result)
}

func (h *CommunityHandler) listPinnedPosts(c *fiber.Ctx) error {
	posts, err := h.service.GetPinnedPosts(c.Context())
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "pinned posts retrieved", posts)
}

func (h *CommunityHandler) postDetail(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid post id")
	}

	post, err := h.service.GetPostDetail(c.Context(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "post retrieved", post)
}

func (h *CommunityHandler) likePost(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid post id")
	}

	if err := h.service.LikePost(c.Context(), id); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "post liked", nil)
}

func (h *CommunityHandler) deletePost(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid post id")
	}

	if err := h.service.DeletePost(c.Context(), id); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "post deleted", nil)
}

func (h *CommunityHandler) listComments(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid post id")
	}

	comments, err := h.service.GetComments(c.Context(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "comments retrieved", comments)
}

func (h *CommunityHandler) addComment(c *fiber.Ctx) error {
	var payload dto.CommentCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	comment, err := h.service.AddComment(c.Context(), userIDFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "comment added", comment)
}

func (h *CommunityHandler) checkIn(c *fiber.Ctx) error {
	payload := dto.CheckInRequest{}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&payload); err != nil {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
		}
	}

	checkIn, err := h.service.CheckIn(c.Context(), userIDFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "checked in", checkIn)
}

func (h *CommunityHandler) listCheckIns(c *fiber.Ctx) error {
	records, err := h.service.GetCheckInRecords(c.Context(), userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "check-in records retrieved", records)
}

func (h *CommunityHandler) streak(c *fiber.Ctx) error {
	days, err := h.service.GetContinuousCheckInDays(c.Context(), userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "streak retrieved", dto.StreakResponse{ContinuousDays: days})
}

func (h *CommunityHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrPostNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "post not found")
	case errors.Is(err, service.ErrCheckInAlreadyExists):
		return utils.SendError(c, fiber.StatusConflict, "already checked in for this date")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
