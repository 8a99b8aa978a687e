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

// PlanHandler exposes study plan endpoints.
type PlanHandler struct {
	service service.StudyPlanService
	logger  zerolog.Logger
}

// NewPlanHandler constructs a plan handler.
func NewPlanHandler(service service.StudyPlanService, logger zerolog.Logger) *PlanHandler {
	return &PlanHandler{
		service: service,
		logger:  logger.With().Str("component", "plan_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *PlanHandler) Register(router fiber.Router) {
	router.Post("", h.create)
	router.Post("/recommend", h.recommend)
	router.Get("", h.list)
	router.Get("/active", h.listActive)
	router.Get("/:id", h.detail)
	router.Put("/:id/status", h.updateStatus)
	router.Get("/:id/items", h.listItems)
	router.Get("/:id/items/today", h.listTodayItems)
	router.Put("/items/:itemId/complete", h.completeItem)
}

func (h *PlanHandler) create(c *fiber.Ctx) error {
	var payload dto.PlanCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	plan, err := h.service.CreatePlan(c.Context(), userIDFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "plan created", plan)
}

func (h *PlanHandler) recommend(c *fiber.Ctx) error {
	var payload dto.RecommendPlanRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	plan, err := h.service.GenerateRecommendedPlan(c.Context(), userIDFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "recommended plan generated", plan)
}

func (h *PlanHandler) list(c *fiber.Ctx) error {
	plans, err := h.service.GetUserPlans(c.Context(), userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "plans retrieved", plans)
}

func (h *PlanHandler) listActive(c *fiber.Ctx) error {
	plans, err := h.service.GetActivePlans(c.Context(), userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "active plans retrieved", plans)
}

func (h *PlanHandler) detail(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid plan id")
	}

	plan, err := h.service.GetPlanDetail(c.Context(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "plan retrieved", plan)
}

func (h *PlanHandler) updateStatus(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid plan id")
	}

	var payload dto.PlanStatusUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.service.UpdatePlanStatus(c.Context(), id, payload); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "plan status updated", nil)
}

func (h *PlanHandler) listItems(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid plan id")
	}

	items, err := h.service.GetPlanItems(c.Context(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "plan items retrieved", items)
}

func (h *PlanHandler) listTodayItems(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid plan id")
	}

	items, err := h.service.GetTodayPlanItems(c.Context(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "today's plan items retrieved", items)
}

func (h *PlanHandler) completeItem(c *fiber.Ctx) error {
	itemID, err := parseUintParam(c, "itemId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid item id")
	}

	payload := dto.CompletePlanItemRequest{}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&payload); err != nil {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
		}
	}

	item, err := h.service.CompletePlanItem(c.Context(), itemID, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "plan item completed", item)
}

func (h *PlanHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrPlanNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "plan not found")
	case errors.Is(err, service.ErrPlanItemNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "plan item not found")
	case errors.Is(err, service.ErrInvalidDateRange):
		return utils.SendError(c, fiber.StatusBadRequest, "end date must not be before start date")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
