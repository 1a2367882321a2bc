// study_service.go
//
// A study planner data service: subjects, chapters, parts and preset templates
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

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/localnerve/studyhub/internal/cache"
	"github.com/localnerve/studyhub/internal/logger"
	"github.com/localnerve/studyhub/internal/models"
	"github.com/localnerve/studyhub/internal/observability"
	"github.com/localnerve/studyhub/internal/study"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
)

// subjectPalette is the number of subject colors cycled through on creation
const subjectPalette = 7

// DefaultPartMinutes is the estimate given to parts created without one
const DefaultPartMinutes = 30

// StudyService orchestrates the study hierarchy over gorm.
// Every call takes the owner id explicitly; records of other owners read as not found.
type StudyService struct {
	DB      *gorm.DB
	Log     *logger.Logger
	Cache   cache.Cache
	Metrics *observability.Metrics

	now   func() time.Time
	newID func() string
}

// NewStudyService creates a StudyService. Nil collaborators fall back to no-op versions.
func NewStudyService(db *gorm.DB, log *logger.Logger, c cache.Cache, m *observability.Metrics) *StudyService {
	if log == nil {
		log = logger.Nop()
	}
	if c == nil {
		c = cache.Noop{}
	}
	if m == nil {
		m = observability.NewMetrics(nil)
	}
	return &StudyService{
		DB:      db,
		Log:     log.With("service", "StudyService"),
		Cache:   c,
		Metrics: m,
		now:     func() time.Time { return time.Now().UTC() },
		newID:   uuid.NewString,
	}
}

// partWriter inserts materialized parts through gorm
type partWriter struct {
	db *gorm.DB
}

func (w partWriter) InsertPart(ctx context.Context, p *models.Part) error {
	return w.db.WithContext(ctx).Create(p).Error
}

func (s *StudyService) engine(db *gorm.DB) *study.Engine {
	return study.NewEngine(partWriter{db: db}, study.WithClock(s.now), study.WithIDs(s.newID))
}

// invalidate drops the owner's cached overview. Cache failures are logged, never returned.
func (s *StudyService) invalidate(ctx context.Context, ownerID string) {
	if err := s.Cache.Delete(ctx, cache.OverviewKey(ownerID)); err != nil {
		s.Log.Warn("overview cache invalidation failed", "owner", ownerID, "error", err)
	}
}

func notFound(what, id string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %s: %w", what, id, ErrNotFound)
	}
	return err
}

func (s *StudyService) findSubject(ctx context.Context, db *gorm.DB, ownerID, id string) (*models.Subject, error) {
	var subject models.Subject
	if err := db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).First(&subject).Error; err != nil {
		return nil, notFound("subject", id, err)
	}
	return &subject, nil
}

func (s *StudyService) findChapter(ctx context.Context, db *gorm.DB, ownerID, id string) (*models.Chapter, error) {
	var chapter models.Chapter
	if err := db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).First(&chapter).Error; err != nil {
		return nil, notFound("chapter", id, err)
	}
	return &chapter, nil
}

func (s *StudyService) findPart(ctx context.Context, db *gorm.DB, ownerID, id string) (*models.Part, error) {
	var part models.Part
	if err := db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).First(&part).Error; err != nil {
		return nil, notFound("part", id, err)
	}
	return &part, nil
}

// chapterParts returns the parts of a chapter in (sort_order, created_at) order
func chapterParts(ctx context.Context, db *gorm.DB, chapterID string) ([]models.Part, error) {
	var parts []models.Part
	err := db.WithContext(ctx).
		Where("chapter_id = ?", chapterID).
		Order("sort_order ASC").Order("created_at ASC").
		Find(&parts).Error
	return parts, err
}

// subjectPresets returns the presets of a subject in creation order
func subjectPresets(ctx context.Context, db *gorm.DB, subjectID string) ([]models.Preset, error) {
	var presets []models.Preset
	err := db.WithContext(ctx).
		Where("subject_id = ?", subjectID).
		Order("created_at ASC").Order("id ASC").
		Find(&presets).Error
	return presets, err
}

// CreateSubject creates a subject. Its color cycles through the palette by subject count.
func (s *StudyService) CreateSubject(ctx context.Context, ownerID, name string) (subject *models.Subject, err error) {
	if err = requireOwner(ownerID); err != nil {
		return nil, err
	}
	ctx, span := observability.StartSpan(ctx, "study.CreateSubject", ownerID)
	defer func() { observability.EndSpan(span, err) }()

	if name, err = cleanName(name); err != nil {
		return nil, err
	}

	var count int64
	if err = s.DB.WithContext(ctx).Model(&models.Subject{}).Where("owner_id = ?", ownerID).Count(&count).Error; err != nil {
		return nil, err
	}

	subject = &models.Subject{
		ID:         s.newID(),
		OwnerID:    ownerID,
		Name:       name,
		ColorIndex: int(count % subjectPalette),
		CreatedAt:  s.now(),
	}
	if err = s.DB.WithContext(ctx).Create(subject).Error; err != nil {
		return nil, err
	}

	s.invalidate(ctx, ownerID)
	s.Log.Info("subject created", "owner", ownerID, "subject_id", subject.ID)
	return subject, nil
}

// RenameSubject changes a subject's name
func (s *StudyService) RenameSubject(ctx context.Context, ownerID, subjectID, name string) (subject *models.Subject, err error) {
	if err = requireOwner(ownerID); err != nil {
		return nil, err
	}
	ctx, span := observability.StartSpan(ctx, "study.RenameSubject", ownerID)
	defer func() { observability.EndSpan(span, err) }()

	if name, err = cleanName(name); err != nil {
		return nil, err
	}
	if subject, err = s.findSubject(ctx, s.DB, ownerID, subjectID); err != nil {
		return nil, err
	}
	if err = s.DB.WithContext(ctx).Model(subject).Update("name", name).Error; err != nil {
		return nil, err
	}
	subject.Name = name

	s.invalidate(ctx, ownerID)
	return subject, nil
}

// DeleteSubject deletes a subject with its presets, chapters and every part of those chapters.
// Deletes run parts first, then chapters, presets and the subject, inside one transaction.
func (s *StudyService) DeleteSubject(ctx context.Context, ownerID, subjectID string) (err error) {
	if err = requireOwner(ownerID); err != nil {
		return err
	}
	ctx, span := observability.StartSpan(ctx, "study.DeleteSubject", ownerID)
	defer func() { observability.EndSpan(span, err) }()

	var parts, chapters int64
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.findSubject(ctx, tx, ownerID, subjectID); err != nil {
			return err
		}

		var chapterIDs []string
		if err := tx.Model(&models.Chapter{}).Where("subject_id = ?", subjectID).Pluck("id", &chapterIDs).Error; err != nil {
			return err
		}

		if len(chapterIDs) > 0 {
			res := tx.Where("chapter_id IN ?", chapterIDs).Delete(&models.Part{})
			if res.Error != nil {
				return res.Error
			}
			parts = res.RowsAffected
		}

		res := tx.Where("subject_id = ?", subjectID).Delete(&models.Chapter{})
		if res.Error != nil {
			return res.Error
		}
		chapters = res.RowsAffected

		if err := tx.Where("subject_id = ?", subjectID).Delete(&models.Preset{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", subjectID).Delete(&models.Subject{}).Error
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, ownerID)
	s.Log.Info("subject deleted", "owner", ownerID, "subject_id", subjectID, "chapters", chapters, "parts", parts)
	return nil
}

// CreateChapter appends a chapter to a subject and plants the subject's chapter templates in it.
// The created parts are returned alongside the chapter.
func (s *StudyService) CreateChapter(ctx context.Context, ownerID, subjectID, name string) (chapter *models.Chapter, created []models.Part, err error) {
	if err = requireOwner(ownerID); err != nil {
		return nil, nil, err
	}
	ctx, span := observability.StartSpan(ctx, "study.CreateChapter", ownerID, attribute.String("study.subject", subjectID))
	defer func() { observability.EndSpan(span, err) }()

	if name, err = cleanName(name); err != nil {
		return nil, nil, err
	}
	if _, err = s.findSubject(ctx, s.DB, ownerID, subjectID); err != nil {
		return nil, nil, err
	}

	var count int64
	if err = s.DB.WithContext(ctx).Model(&models.Chapter{}).Where("subject_id = ?", subjectID).Count(&count).Error; err != nil {
		return nil, nil, err
	}

	chapter = &models.Chapter{
		ID:        s.newID(),
		OwnerID:   ownerID,
		SubjectID: subjectID,
		Name:      name,
		SortOrder: int(count),
		CreatedAt: s.now(),
	}
	if err = s.DB.WithContext(ctx).Create(chapter).Error; err != nil {
		return nil, nil, err
	}
	s.invalidate(ctx, ownerID)

	presets, err := subjectPresets(ctx, s.DB, subjectID)
	if err != nil {
		return chapter, nil, err
	}
	created, err = s.engine(s.DB).Populate(ctx, ownerID, *chapter, nil, presets)
	s.record(observability.ModeAutoPopulate, created)
	if err != nil {
		return chapter, created, err
	}

	s.Log.Info("chapter created", "owner", ownerID, "chapter_id", chapter.ID, "created", len(created))
	return chapter, created, nil
}

// RenameChapter changes a chapter's name
func (s *StudyService) RenameChapter(ctx context.Context, ownerID, chapterID, name string) (chapter *models.Chapter, err error) {
	if err = requireOwner(ownerID); err != nil {
		return nil, err
	}
	ctx, span := observability.StartSpan(ctx, "study.RenameChapter", ownerID)
	defer func() { observability.EndSpan(span, err) }()

	if name, err = cleanName(name); err != nil {
		return nil, err
	}
	if chapter, err = s.findChapter(ctx, s.DB, ownerID, chapterID); err != nil {
		return nil, err
	}
	if err = s.DB.WithContext(ctx).Model(chapter).Update("name", name).Error; err != nil {
		return nil, err
	}
	chapter.Name = name

	s.invalidate(ctx, ownerID)
	return chapter, nil
}

// DeleteChapter deletes a chapter and all of its parts
func (s *StudyService) DeleteChapter(ctx context.Context, ownerID, chapterID string) (err error) {
	if err = requireOwner(ownerID); err != nil {
		return err
	}
	ctx, span := observability.StartSpan(ctx, "study.DeleteChapter", ownerID)
	defer func() { observability.EndSpan(span, err) }()

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.findChapter(ctx, tx, ownerID, chapterID); err != nil {
			return err
		}
		if err := tx.Where("chapter_id = ?", chapterID).Delete(&models.Part{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", chapterID).Delete(&models.Chapter{}).Error
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, ownerID)
	return nil
}

// NewPart holds the fields of a part created directly
type NewPart struct {
	Name             string
	EstimatedMinutes *int
	ScheduledDate    *string
	ScheduledTime    *string
	ParentID         *string
}

// CreatePart appends a part to a chapter. A parent, when given, must be a part of the same chapter.
func (s *StudyService) CreatePart(ctx context.Context, ownerID, chapterID string, in NewPart) (part *models.Part, err error) {
	if err = requireOwner(ownerID); err != nil {
		return nil, err
	}
	ctx, span := observability.StartSpan(ctx, "study.CreatePart", ownerID)
	defer func() { observability.EndSpan(span, err) }()

	name, err := cleanName(in.Name)
	if err != nil {
		return nil, err
	}
	minutes := DefaultPartMinutes
	if in.EstimatedMinutes != nil {
		if *in.EstimatedMinutes < 0 {
			return nil, fmt.Errorf("%w: estimated minutes must not be negative", ErrInvalidInput)
		}
		minutes = *in.EstimatedMinutes
	}

	if _, err = s.findChapter(ctx, s.DB, ownerID, chapterID); err != nil {
		return nil, err
	}
	parts, err := chapterParts(ctx, s.DB, chapterID)
	if err != nil {
		return nil, err
	}

	var parentID *string
	if in.ParentID != nil && *in.ParentID != "" {
		if !containsPart(parts, *in.ParentID) {
			return nil, fmt.Errorf("part %s is not in chapter %s: %w", *in.ParentID, chapterID, ErrInvalidParent)
		}
		parentID = in.ParentID
	}

	part = &models.Part{
		ID:               s.newID(),
		OwnerID:          ownerID,
		ChapterID:        chapterID,
		ParentID:         parentID,
		Name:             name,
		Status:           models.StatusNotStarted,
		EstimatedMinutes: minutes,
		ScheduledDate:    emptyToNil(in.ScheduledDate),
		ScheduledTime:    emptyToNil(in.ScheduledTime),
		SortOrder:        len(parts),
		CreatedAt:        s.now(),
	}
	if err = s.DB.WithContext(ctx).Create(part).Error; err != nil {
		return nil, err
	}

	s.invalidate(ctx, ownerID)
	return part, nil
}

// PartUpdate lists the part fields to change. Nil fields are left alone; an empty
// string clears an optional text field.
type PartUpdate struct {
	Name             *string
	EstimatedMinutes *int
	ScheduledDate    *string
	ScheduledTime    *string
	Notes            *string
}

// UpdatePart changes only the supplied fields. An empty update returns the part unchanged.
func (s *StudyService) UpdatePart(ctx context.Context, ownerID, partID string, in PartUpdate) (part *models.Part, err error) {
	if err = requireOwner(ownerID); err != nil {
		return nil, err
	}
	ctx, span := observability.StartSpan(ctx, "study.UpdatePart", ownerID)
	defer func() { observability.EndSpan(span, err) }()

	updates := map[string]interface{}{}
	if in.Name != nil {
		name, err := cleanName(*in.Name)
		if err != nil {
			return nil, err
		}
		updates["name"] = name
	}
	if in.EstimatedMinutes != nil {
		if *in.EstimatedMinutes < 0 {
			return nil, fmt.Errorf("%w: estimated minutes must not be negative", ErrInvalidInput)
		}
		updates["estimated_minutes"] = *in.EstimatedMinutes
	}
	if in.ScheduledDate != nil {
		updates["scheduled_date"] = emptyToNil(in.ScheduledDate)
	}
	if in.ScheduledTime != nil {
		updates["scheduled_time"] = emptyToNil(in.ScheduledTime)
	}
	if in.Notes != nil {
		updates["notes"] = emptyToNil(in.Notes)
	}

	if part, err = s.findPart(ctx, s.DB, ownerID, partID); err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return part, nil
	}

	if err = s.DB.WithContext(ctx).Model(&models.Part{}).Where("id = ?", partID).Updates(updates).Error; err != nil {
		return nil, err
	}
	if part, err = s.findPart(ctx, s.DB, ownerID, partID); err != nil {
		return nil, err
	}

	s.invalidate(ctx, ownerID)
	return part, nil
}

// TogglePart advances a part around the status cycle
func (s *StudyService) TogglePart(ctx context.Context, ownerID, partID string) (part *models.Part, err error) {
	if err = requireOwner(ownerID); err != nil {
		return nil, err
	}
	ctx, span := observability.StartSpan(ctx, "study.TogglePart", ownerID)
	defer func() { observability.EndSpan(span, err) }()

	if part, err = s.findPart(ctx, s.DB, ownerID, partID); err != nil {
		return nil, err
	}

	status := study.Toggle(part, s.now())
	err = s.DB.WithContext(ctx).Model(part).
		Select("status", "completed_at").
		Updates(map[string]interface{}{"status": part.Status, "completed_at": part.CompletedAt}).Error
	if err != nil {
		return nil, err
	}

	s.Metrics.StatusToggles.WithLabelValues(string(status)).Inc()
	s.invalidate(ctx, ownerID)
	return part, nil
}

// DeletePart deletes a part and every part nested below it. It returns the number of parts deleted.
func (s *StudyService) DeletePart(ctx context.Context, ownerID, partID string) (deleted int64, err error) {
	if err = requireOwner(ownerID); err != nil {
		return 0, err
	}
	ctx, span := observability.StartSpan(ctx, "study.DeletePart", ownerID)
	defer func() { observability.EndSpan(span, err) }()

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		part, err := s.findPart(ctx, tx, ownerID, partID)
		if err != nil {
			return err
		}
		parts, err := chapterParts(ctx, tx, part.ChapterID)
		if err != nil {
			return err
		}

		ids := append(study.Descendants(parts, partID), partID)
		res := tx.Where("id IN ?", ids).Delete(&models.Part{})
		deleted = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return 0, err
	}

	s.invalidate(ctx, ownerID)
	return deleted, nil
}

// record counts one preset application and the parts it created
func (s *StudyService) record(mode string, created []models.Part) {
	s.Metrics.PresetApplications.WithLabelValues(mode).Inc()
	s.Metrics.PartsMaterialized.Add(float64(len(created)))
}

func containsPart(parts []models.Part, id string) bool {
	for _, p := range parts {
		if p.ID == id {
			return true
		}
	}
	return false
}

func emptyToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
