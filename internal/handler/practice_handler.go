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

// PracticeHandler exposes answer submission and wrong question endpoints.
type PracticeHandler struct {
	service service.PracticeService
	logger  zerolog.Logger
}

// NewPracticeHandler constructs a practice handler.
func NewPracticeHandler(service service.PracticeService, logger zerolog.Logger) *PracticeHandler {
	return &PracticeHandler{
		service: service,
		logger:  logger.With().Str("component", "practice_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *PracticeHandler) Register(router fiber.Router) {
	router.Post("/submit", h.submit)
	router.Get("/wrong-questions", h.listWrong)
	router.Put("/wrong-questions/:questionId/mastered", h.markMastered)
	router.Get("/smart", h.smartSet)
}

func (h *PracticeHandler) submit(c *fiber.Ctx) error {
	var payload dto.SubmitAnswerRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.SubmitAnswer(c.Context(), userIDFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "answer submitted", result)
}

func (h *PracticeHandler) listWrong(c *fiber.Ctx) error {
	var mastered *bool
	switch c.Query("mastered") {
	case "true":
		value := true
		mastered = &value
	case "false":
		value := false
		mastered = &value
	case "":
	default:
		return utils.SendError(c, fiber.StatusBadRequest, "invalid mastered filter")
	}

	entries, err := h.service.GetWrongQuestions(c.Context(), userIDFromContext(c), mastered)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "wrong questions retrieved", entries)
}

func (h *PracticeHandler) markMastered(c *fiber.Ctx) error {
	questionID, err := parseUintParam(c, "questionId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid question id")
	}

	if err := h.service.MarkMastered(c.Context(), userIDFromContext(c), questionID); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "question marked as mastered", nil)
}

func (h *PracticeHandler) smartSet(c *fiber.Ctx) error {
	subject := c.Query("subject")
	if subject == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "subject is required")
	}

	count, err := parseQueryInt(c, "count")
	if err != nil || count < 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid count")
	}
	if count == 0 {
		count = 10
	}

	questions, err := h.service.GetSmartPracticeQuestions(c.Context(), userIDFromContext(c), subject, count)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "practice set generated", questions)
}

func (h *PracticeHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrQuestionNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "question not found")
	case errors.Is(err, service.ErrWrongQuestionNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "wrong question entry not found")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
