package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/studyprep-go-api/internal/dto"
	"github.com/noah-isme/studyprep-go-api/internal/middleware"
	"github.com/noah-isme/studyprep-go-api/internal/service"
	"github.com/noah-isme/studyprep-go-api/internal/utils"
)

// ResourceHandler exposes learning resource endpoints.
type ResourceHandler struct {
	service service.ResourceService
	logger  zerolog.Logger
}

// NewResourceHandler constructs a resource handler.
func NewResourceHandler(service service.ResourceService, logger zerolog.Logger) *ResourceHandler {
	return &ResourceHandler{
		service: service,
		logger:  logger.With().Str("component", "resource_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *ResourceHandler) Register(router fiber.Router) {
	admin := middleware.RequireRole("admin")
	router.Post("", admin, h.create)
	router.Get("", h.list)
	router.Get("/chapter", h.listByChapter)
	router.Get("/:id", h.detail)
	router.Put("/:id", admin, h.update)
	router.Delete("/:id", admin, h.delete)
	router.Post("/:id/publish", admin, h.publish)
}

func (h *ResourceHandler) create(c *fiber.Ctx) error {
	var payload dto.ResourceCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	resource, err := h.service.CreateResource(c.Context(), userIDFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "resource created", resource)
}

func (h *ResourceHandler) list(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	pageSize, err := parseQueryInt(c, "page_size")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page size")
	}

	filter := dto.ResourceFilter{
		Subject:  c.Query("subject"),
		Type:     c.Query("type"),
		Page:     page,
		PageSize: pageSize,
	}

	result, err := h.service.GetResources(c.Context(), filter)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "resources retrieved", result)
}

func (h *ResourceHandler) listByChapter(c *fiber.Ctx) error {
	subject := c.Query("subject")
	chapter := c.Query("chapter")
	if subject == "" || chapter == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "subject and chapter are required")
	}

	resources, err := h.service.GetResourcesByChapter(c.Context(), subject, chapter)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "resources retrieved", resources)
}

func (h *ResourceHandler) detail(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid resource id")
	}

	resource, err := h.service.GetResource(c.Context(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "resource retrieved", resource)
}

func (h *ResourceHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid resource id")
	}

	var payload dto.ResourceUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	resource, err := h.service.UpdateResource(c.Context(), id, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "resource updated", resource)
}

func (h *ResourceHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid resource id")
	}

	if err := h.service.DeleteResource(c.Context(), id); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "resource deleted", nil)
}

func (h *ResourceHandler) publish(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid resource id")
	}

	if err := h.service.PublishResource(c.Context(), id); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "resource published", nil)
}

func (h *ResourceHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrResourceNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "resource not found")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
