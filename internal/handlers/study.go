// study.go
//
// HTTP handlers for subjects, chapters and parts
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of studyhub.
// studyhub is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// studyhub is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with studyhub.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/studyhub/internal/middleware"
	"github.com/localnerve/studyhub/internal/models"
	"github.com/localnerve/studyhub/internal/services"
	"github.com/localnerve/studyhub/internal/study"
	"github.com/localnerve/studyhub/internal/types"
	"github.com/localnerve/studyhub/internal/utils"
)

// StudyHandler handles the study hierarchy routes
type StudyHandler struct {
	Study *services.StudyService
}

// NameRequest is the body of create and rename requests
type NameRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

// CreatePartRequest is the body of POST /study/chapters/:id/parts
type CreatePartRequest struct {
	Name             string            `json:"name" validate:"required,max=255"`
	EstimatedMinutes *types.FlexUint64 `json:"estimatedMinutes" swaggertype:"integer"`
	ScheduledDate    *string           `json:"scheduledDate" validate:"omitempty,datetime=2006-01-02"`
	ScheduledTime    *string           `json:"scheduledTime" validate:"omitempty,datetime=15:04"`
	ParentID         *string           `json:"parentId" validate:"omitempty,max=36"`
}

// UpdatePartRequest is the body of PATCH /study/parts/:id. Absent fields are unchanged;
// an empty string clears an optional field.
type UpdatePartRequest struct {
	Name             *string           `json:"name" validate:"omitempty,max=255"`
	EstimatedMinutes *types.FlexUint64 `json:"estimatedMinutes" swaggertype:"integer"`
	ScheduledDate    *string           `json:"scheduledDate" validate:"omitempty,datetime=2006-01-02"`
	ScheduledTime    *string           `json:"scheduledTime" validate:"omitempty,datetime=15:04"`
	Notes            *string           `json:"notes" validate:"omitempty,max=10000"`
}

// CreateChapterResponse is the new chapter and the parts auto-populated into it
type CreateChapterResponse struct {
	Chapter *models.Chapter `json:"chapter"`
	Created []models.Part   `json:"created"`
}

// ChapterTreeResponse is a chapter with its parts nested under their parents
type ChapterTreeResponse struct {
	Chapter *models.Chapter   `json:"chapter"`
	Parts   []*study.PartNode `json:"parts"`
}

// GetOverview handles GET /api/study/overview
// @Summary Get the study overview
// @Description Every subject, chapter, part and preset of the caller with progress and stats
// @Tags Study
// @Produce json
// @Security BearerAuth
// @Security CookieAuth
// @Success 200 {object} services.Overview
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /study/overview [get]
func (h *StudyHandler) GetOverview(c *fiber.Ctx) error {
	ov, err := h.Study.Overview(c.UserContext(), middleware.OwnerID(c))
	if err != nil {
		return serviceError(c, err, "getOverview")
	}
	return utils.SuccessResponse(c, ov, fiber.StatusOK)
}

// CreateSubject handles POST /api/study/subjects
// @Summary Create a subject
// @Tags Study
// @Accept json
// @Produce json
// @Security BearerAuth
// @Security CookieAuth
// @Param body body NameRequest true "Subject"
// @Success 201 {object} models.Subject
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /study/subjects [post]
func (h *StudyHandler) CreateSubject(c *fiber.Ctx) error {
	var req NameRequest
	if err := parseBody(c, &req); err != nil {
		return serviceError(c, err, "createSubject")
	}
	subject, err := h.Study.CreateSubject(c.UserContext(), middleware.OwnerID(c), req.Name)
	if err != nil {
		return serviceError(c, err, "createSubject")
	}
	return utils.SuccessResponse(c, subject, fiber.StatusCreated)
}

// RenameSubject handles PATCH /api/study/subjects/:id
// @Summary Rename a subject
// @Tags Study
// @Accept json
// @Produce json
// @Security BearerAuth
// @Security CookieAuth
// @Param id path string true "Subject ID"
// @Param body body NameRequest true "New name"
// @Success 200 {object} models.Subject
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /study/subjects/{id} [patch]
func (h *StudyHandler) RenameSubject(c *fiber.Ctx) error {
	var req NameRequest
	if err := parseBody(c, &req); err != nil {
		return serviceError(c, err, "renameSubject")
	}
	subject, err := h.Study.RenameSubject(c.UserContext(), middleware.OwnerID(c), c.Params("id"), req.Name)
	if err != nil {
		return serviceError(c, err, "renameSubject")
	}
	return utils.SuccessResponse(c, subject, fiber.StatusOK)
}

// DeleteSubject handles DELETE /api/study/subjects/:id
// @Summary Delete a subject
// @Description Deletes the subject with its chapters, parts and presets
// @Tags Study
// @Produce json
// @Security BearerAuth
// @Security CookieAuth
// @Param id path string true "Subject ID"
// @Success 200 {object} utils.DeletedResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /study/subjects/{id} [delete]
func (h *StudyHandler) DeleteSubject(c *fiber.Ctx) error {
	if err := h.Study.DeleteSubject(c.UserContext(), middleware.OwnerID(c), c.Params("id")); err != nil {
		return serviceError(c, err, "deleteSubject")
	}
	return utils.DeletedResponse(c, 1)
}

// CreateChapter handles POST /api/study/subjects/:id/chapters
// @Summary Create a chapter
// @Description Creates a chapter and plants the subject's chapter presets into it
// @Tags Study
// @Accept json
// @Produce json
// @Security BearerAuth
// @Security CookieAuth
// @Param id path string true "Subject ID"
// @Param body body NameRequest true "Chapter"
// @Success 201 {object} CreateChapterResponse
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /study/subjects/{id}/chapters [post]
func (h *StudyHandler) CreateChapter(c *fiber.Ctx) error {
	var req NameRequest
	if err := parseBody(c, &req); err != nil {
		return serviceError(c, err, "createChapter")
	}
	chapter, created, err := h.Study.CreateChapter(c.UserContext(), middleware.OwnerID(c), c.Params("id"), req.Name)
	if err != nil {
		return serviceError(c, err, "createChapter")
	}
	if created == nil {
		created = []models.Part{}
	}
	return utils.SuccessResponse(c, CreateChapterResponse{Chapter: chapter, Created: created}, fiber.StatusCreated)
}

// GetChapterTree handles GET /api/study/chapters/:id
// @Summary Get a chapter tree
// @Tags Study
// @Produce json
// @Security BearerAuth
// @Security CookieAuth
// @Param id path string true "Chapter ID"
// @Success 200 {object} ChapterTreeResponse
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /study/chapters/{id} [get]
func (h *StudyHandler) GetChapterTree(c *fiber.Ctx) error {
	chapter, tree, err := h.Study.ChapterTree(c.UserContext(), middleware.OwnerID(c), c.Params("id"))
	if err != nil {
		return serviceError(c, err, "getChapterTree")
	}
	if tree == nil {
		tree = []*study.PartNode{}
	}
	return utils.SuccessResponse(c, ChapterTreeResponse{Chapter: chapter, Parts: tree}, fiber.StatusOK)
}

// RenameChapter handles PATCH /api/study/chapters/:id
// @Summary Rename a chapter
// @Tags Study
// @Accept json
// @Produce json
// @Security BearerAuth
// @Security CookieAuth
// @Param id path string true "Chapter ID"
// @Param body body NameRequest true "New name"
// @Success 200 {object} models.Chapter
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /study/chapters/{id} [patch]
func (h *StudyHandler) RenameChapter(c *fiber.Ctx) error {
	var req NameRequest
	if err := parseBody(c, &req); err != nil {
		return serviceError(c, err, "renameChapter")
	}
	chapter, err := h.Study.RenameChapter(c.UserContext(), middleware.OwnerID(c), c.Params("id"), req.Name)
	if err != nil {
		return serviceError(c, err, "renameChapter")
	}
	return utils.SuccessResponse(c, chapter, fiber.StatusOK)
}

// DeleteChapter handles DELETE /api/study/chapters/:id
// @Summary Delete a chapter
// @Description Deletes the chapter and all of its parts
// @Tags Study
// @Produce json
// @Security BearerAuth
// @Security CookieAuth
// @Param id path string true "Chapter ID"
// @Success 200 {object} utils.DeletedResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /study/chapters/{id} [delete]
func (h *StudyHandler) DeleteChapter(c *fiber.Ctx) error {
	if err := h.Study.DeleteChapter(c.UserContext(), middleware.OwnerID(c), c.Params("id")); err != nil {
		return serviceError(c, err, "deleteChapter")
	}
	return utils.DeletedResponse(c, 1)
}

// CreatePart handles POST /api/study/chapters/:id/parts
// @Summary Create a part
// @Tags Study
// @Accept json
// @Produce json
// @Security BearerAuth
// @Security CookieAuth
// @Param id path string true "Chapter ID"
// @Param body body CreatePartRequest true "Part"
// @Success 201 {object} models.Part
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 422 {object} utils.ErrorResponseStruct
// @Router /study/chapters/{id}/parts [post]
func (h *StudyHandler) CreatePart(c *fiber.Ctx) error {
	var req CreatePartRequest
	if err := parseBody(c, &req); err != nil {
		return serviceError(c, err, "createPart")
	}
	part, err := h.Study.CreatePart(c.UserContext(), middleware.OwnerID(c), c.Params("id"), services.NewPart{
		Name:             req.Name,
		EstimatedMinutes: req.EstimatedMinutes.IntPtr(),
		ScheduledDate:    req.ScheduledDate,
		ScheduledTime:    req.ScheduledTime,
		ParentID:         req.ParentID,
	})
	if err != nil {
		return serviceError(c, err, "createPart")
	}
	return utils.SuccessResponse(c, part, fiber.StatusCreated)
}

// UpdatePart handles PATCH /api/study/parts/:id
// @Summary Update a part
// @Description Updates only the supplied fields. An empty string clears scheduledDate, scheduledTime or notes.
// @Tags Study
// @Accept json
// @Produce json
// @Security BearerAuth
// @Security CookieAuth
// @Param id path string true "Part ID"
// @Param body body UpdatePartRequest true "Fields to change"
// @Success 200 {object} models.Part
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /study/parts/{id} [patch]
func (h *StudyHandler) UpdatePart(c *fiber.Ctx) error {
	var req UpdatePartRequest
	if err := parseBody(c, &req); err != nil {
		return serviceError(c, err, "updatePart")
	}
	part, err := h.Study.UpdatePart(c.UserContext(), middleware.OwnerID(c), c.Params("id"), services.PartUpdate{
		Name:             req.Name,
		EstimatedMinutes: req.EstimatedMinutes.IntPtr(),
		ScheduledDate:    req.ScheduledDate,
		ScheduledTime:    req.ScheduledTime,
		Notes:            req.Notes,
	})
	if err != nil {
		return serviceError(c, err, "updatePart")
	}
	return utils.SuccessResponse(c, part, fiber.StatusOK)
}

// TogglePart handles POST /api/study/parts/:id/toggle
// @Summary Advance a part's status
// @Description not-started -> in-progress -> completed -> not-started
// @Tags Study
// @Produce json
// @Security BearerAuth
// @Security CookieAuth
// @Param id path string true "Part ID"
// @Success 200 {object} models.Part
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /study/parts/{id}/toggle [post]
func (h *StudyHandler) TogglePart(c *fiber.Ctx) error {
	part, err := h.Study.TogglePart(c.UserContext(), middleware.OwnerID(c), c.Params("id"))
	if err != nil {
		return serviceError(c, err, "togglePart")
	}
	return utils.SuccessResponse(c, part, fiber.StatusOK)
}

// DeletePart handles DELETE /api/study/parts/:id
// @Summary Delete a part
// @Description Deletes the part and every part nested below it
// @Tags Study
// @Produce json
// @Security BearerAuth
// @Security CookieAuth
// @Param id path string true "Part ID"
// @Success 200 {object} utils.DeletedResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /study/parts/{id} [delete]
func (h *StudyHandler) DeletePart(c *fiber.Ctx) error {
	deleted, err := h.Study.DeletePart(c.UserContext(), middleware.OwnerID(c), c.Params("id"))
	if err != nil {
		return serviceError(c, err, "deletePart")
	}
	return utils.DeletedResponse(c, deleted)
}
