package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/studyhub/internal/middleware"
	"github.com/localnerve/studyhub/internal/models"
	"github.com/localnerve/studyhub/internal/services"
	"github.com/localnerve/studyhub/internal/types"
	"github.com/localnerve/studyhub/internal/utils"
)

// CreatePresetRequest is the body of POST /study/subjects/:id/presets
type CreatePresetRequest struct {
	Name             string            `json:"name" validate:"required,max=255"`
	EstimatedMinutes *types.FlexUint64 `json:"estimatedMinutes" swaggertype:"integer"`
	ParentID         *string           `json:"parentId" validate:"omitempty,max=36"`
	PresetType       string            `json:"presetType" validate:"omitempty,oneof=chapter part"`
}

// ApplyPresetsRequest is the body of POST /study/chapters/:id/presets.
// targetPartId is empty for the chapter root, "all-parts" for every top-level part, or a part id.
type ApplyPresetsRequest struct {
	PresetIDs    types.FlexList[string] `json:"presetIds" validate:"required,min=1" swaggertype:"array,string"`
	TargetPartID string                 `json:"targetPartId" validate:"omitempty,max=36"`
}

// PartsResponse lists the parts an operation created
type PartsResponse struct {
	Created []models.Part `json:"created"`
	Count   int           `json:"count"`
}

// PresetsResponse lists presets
type PresetsResponse struct {
	Presets []models.Preset `json:"presets"`
	Count   int             `json:"count"`
}

func partsResponse(parts []models.Part) PartsResponse {
	if parts == nil {
		parts = []models.Part{}
	}
	return PartsResponse{Created: parts, Count: len(parts)}
}

func presetsResponse(presets []models.Preset) PresetsResponse {
	if presets == nil {
		presets = []models.Preset{}
	}
	return PresetsResponse{Presets: presets, Count: len(presets)}
}

// ListPresets handles GET /api/study/subjects/:id/presets
// @Summary List the presets of a subject
// @Tags Presets
// @Produce json
// @Security BearerAuth
// @Security CookieAuth
// @Param id path string true "Subject ID"
// @Success 200 {object} PresetsResponse
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /study/subjects/{id}/presets [get]
func (h *StudyHandler) ListPresets(c *fiber.Ctx) error {
	presets, err := h.Study.ListPresets(c.UserContext(), middleware.OwnerID(c), c.Params("id"))
	if err != nil {
		return serviceError(c, err, "listPresets")
	}
	return utils.SuccessResponse(c, presetsResponse(presets), fiber.StatusOK)
}

// CreatePreset handles POST /api/study/subjects/:id/presets
// @Summary Create a preset
// @Description presetType defaults to chapter. A parent must belong to the same subject.
// @Tags Presets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Security CookieAuth
// @Param id path string true "Subject ID"
// @Param body body CreatePresetRequest true "Preset"
// @Success 201 {object} models.Preset
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 422 {object} utils.ErrorResponseStruct
// @Router /study/subjects/{id}/presets [post]
func (h *StudyHandler) CreatePreset(c *fiber.Ctx) error {
	var req CreatePresetRequest
	if err := parseBody(c, &req); err != nil {
		return serviceError(c, err, "createPreset")
	}
	preset, err := h.Study.CreatePreset(c.UserContext(), middleware.OwnerID(c), c.Params("id"), services.NewPreset{
		Name:             req.Name,
		EstimatedMinutes: req.EstimatedMinutes.IntPtr(),
		ParentID:         req.ParentID,
		PresetType:       models.PresetType(req.PresetType),
	})
	if err != nil {
		return serviceError(c, err, "createPreset")
	}
	return utils.SuccessResponse(c, preset, fiber.StatusCreated)
}

// ImportPresets handles POST /api/study/subjects/:id/presets/import
// @Summary Import a YAML preset library
// @Description Merges a preset tree into the subject by name. An empty body imports the starter library.
// @Tags Presets
// @Accept plain
// @Produce json
// @Security BearerAuth
// @Security CookieAuth
// @Param id path string true "Subject ID"
// @Param body body string false "YAML preset library"
// @Success 201 {object} PresetsResponse
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /study/subjects/{id}/presets/import [post]
func (h *StudyHandler) ImportPresets(c *fiber.Ctx) error {
	created, err := h.Study.ImportPresets(c.UserContext(), middleware.OwnerID(c), c.Params("id"), c.Body())
	if err != nil {
		return serviceError(c, err, "importPresets")
	}
	return utils.SuccessResponse(c, presetsResponse(created), fiber.StatusCreated)
}

// ApplyChapterTemplates handles POST /api/study/subjects/:id/presets/apply
// @Summary Apply chapter presets to every chapter
// @Description Plants the subject's chapter presets into each of its chapters. Existing parts are kept.
// @Tags Presets
// @Produce json
// @Security BearerAuth
// @Security CookieAuth
// @Param id path string true "Subject ID"
// @Success 200 {object} PartsResponse
// @Router /study/subjects/{id}/presets/apply [post]
func (h *StudyHandler) ApplyChapterTemplates(c *fiber.Ctx) error {
	created, err := h.Study.ApplyChapterTemplates(c.UserContext(), middleware.OwnerID(c), c.Params("id"))
	if err != nil {
		return serviceError(c, err, "applyChapterTemplates")
	}
	return utils.SuccessResponse(c, partsResponse(created), fiber.StatusOK)
}

// DeletePreset handles DELETE /api/study/presets/:id
// @Summary Delete a preset
// @Description Deletes the preset and every preset nested below it
// @Tags Presets
// @Produce json
// @Security BearerAuth
// @Security CookieAuth
// @Param id path string true "Preset ID"
// @Success 200 {object} utils.DeletedResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /study/presets/{id} [delete]
func (h *StudyHandler) DeletePreset(c *fiber.Ctx) error {
	deleted, err := h.Study.DeletePreset(c.UserContext(), middleware.OwnerID(c), c.Params("id"))
	if err != nil {
		return serviceError(c, err, "deletePreset")
	}
	return utils.DeletedResponse(c, deleted)
}

// ApplyPresets handles POST /api/study/chapters/:id/presets
// @Summary Apply presets to a chapter
// @Description Without targetPartId the selection and its ancestors are planted at the chapter root.
// @Description "all-parts" plants the selection under every top-level part; a part id plants it under that part.
// @Tags Presets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Security CookieAuth
// @Param id path string true "Chapter ID"
// @Param body body ApplyPresetsRequest true "Selection"
// @Success 200 {object} PartsResponse
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /study/chapters/{id}/presets [post]
func (h *StudyHandler) ApplyPresets(c *fiber.Ctx) error {
	var req ApplyPresetsRequest
	if err := parseBody(c, &req); err != nil {
		return serviceError(c, err, "applyPresets")
	}
	created, err := h.Study.ApplyPresets(c.UserContext(), middleware.OwnerID(c), c.Params("id"), req.PresetIDs.Slice(), req.TargetPartID)
	if err != nil {
		return serviceError(c, err, "applyPresets")
	}
	return utils.SuccessResponse(c, partsResponse(created), fiber.StatusOK)
}
