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

// AdminHandler exposes the management console endpoints.
type AdminHandler struct {
	admin     service.AdminService
	questions service.QuestionService
	posts     service.CommunityService
	logger    zerolog.Logger
}

// NewAdminHandler constructs an admin handler.
func NewAdminHandler(admin service.AdminService, questions service.QuestionService, posts service.CommunityService, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		admin:     admin,
		questions: questions,
		posts:     posts,
		logger:    logger.With().Str("component", "admin_handler").Logger(),
	}
}

// RegisterPublic attaches the credential routes that run before authentication.
func (h *AdminHandler) RegisterPublic(router fiber.Router) {
	router.Post("/login", h.login)
	router.Post("/logout", h.logout)
}

// Register attaches the protected console routes to the provided router group.
func (h *AdminHandler) Register(router fiber.Router) {
	router.Get("/statistics", h.statistics)
	router.Get("/users", h.listUsers)
	router.Put("/users/:id", h.updateUser)
	router.Delete("/users/:id", h.deleteUser)
	router.Delete("/questions/:id", h.deleteQuestion)
	router.Delete("/posts/:id", h.deletePost)
}

func (h *AdminHandler) login(c *fiber.Ctx) error {
	var payload dto.AdminLoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.admin.Login(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "login successful", result)
}

// logout exists for client symmetry. Tokens are stateless, so there is
// nothing to revoke server-side.
func (h *AdminHandler) logout(c *fiber.Ctx) error {
	return utils.SendSuccess(c, "logout successful", nil)
}

func (h *AdminHandler) statistics(c *fiber.Ctx) error {
	result, err := h.admin.GetStatistics(c.Context())
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "statistics retrieved", result)
}

func (h *AdminHandler) listUsers(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	pageSize, err := parseQueryInt(c, "page_size")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page size")
	}

	filter := dto.AdminUserFilter{
		Username: c.Query("username"),
		NickName: c.Query("nick_name"),
		Page:     page,
		PageSize: pageSize,
	}

	result, err := h.admin.ListUsers(c.Context(), filter)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "users retrieved", result)
}

func (h *AdminHandler) updateUser(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid user id")
	}

	var payload dto.AdminUserUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	user, err := h.admin.UpdateUser(c.Context(), id, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "user updated", user)
}

func (h *AdminHandler) deleteUser(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid user id")
	}

	if err := h.admin.DeleteUser(c.Context(), id); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "user deleted", nil)
}

func (h *AdminHandler) deleteQuestion(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid question id")
	}

	if err := h.questions.DeleteQuestion(c.Context(), id); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "question deleted", nil)
}

func (h *AdminHandler) deletePost(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid post id")
	}

	if err := h.posts.DeletePost(c.Context(), id); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "post deleted", nil)
}

func (h *AdminHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrAdminLoginFailed):
		return utils.SendError(c, fiber.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, service.ErrUserNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "user not found")
	case errors.Is(err, service.ErrQuestionNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "question not found")
	case errors.Is(err, service.ErrPostNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "post not found")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
