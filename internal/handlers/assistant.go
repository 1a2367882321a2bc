package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/studyhub/internal/assistant"
	"github.com/localnerve/studyhub/internal/middleware"
	"github.com/localnerve/studyhub/internal/utils"
)

// AssistantHandler executes assistant actions
type AssistantHandler struct {
	Dispatcher *assistant.Dispatcher
}

// ExecuteAction handles POST /api/assistant/actions
// @Summary Execute an assistant action
// @Description Runs one of ADD_STUDY_SUBJECT, ADD_STUDY_CHAPTER, DELETE_STUDY_CHAPTER, TOGGLE_STUDY_PART or APPLY_STUDY_PRESETS.
// @Description Lookups that match nothing succeed with outcome "no-op".
// @Tags Assistant
// @Accept json
// @Produce json
// @Security BearerAuth
// @Security CookieAuth
// @Param body body assistant.Request true "Action"
// @Success 200 {object} assistant.Result
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /assistant/actions [post]
func (h *AssistantHandler) ExecuteAction(c *fiber.Ctx) error {
	var req assistant.Request
	if err := parseBody(c, &req); err != nil {
		return serviceError(c, err, "assistantAction")
	}
	result, err := h.Dispatcher.Execute(c.UserContext(), middleware.OwnerID(c), req)
	if err != nil {
		return serviceError(c, err, "assistantAction")
	}
	return utils.SuccessResponse(c, result, fiber.StatusOK)
}
