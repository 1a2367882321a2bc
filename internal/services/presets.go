package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/localnerve/studyhub/data"
	"github.com/localnerve/studyhub/internal/models"
	"github.com/localnerve/studyhub/internal/observability"
	"github.com/localnerve/studyhub/internal/study"
	"go.opentelemetry.io/otel/attribute"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// NewPreset holds the fields of a preset created directly
type NewPreset struct {
	Name             string
	EstimatedMinutes *int
	ParentID         *string
	PresetType       models.PresetType
}

// PresetSpec is one node of an imported preset library
type PresetSpec struct {
	Name     string            `yaml:"name"`
	Minutes  *int              `yaml:"minutes"`
	Type     models.PresetType `yaml:"type"`
	Children []PresetSpec      `yaml:"children"`
}

// PresetLibrary is the YAML document accepted by ImportPresets
type PresetLibrary struct {
	Presets []PresetSpec `yaml:"presets"`
}

// ParsePresetLibrary decodes a YAML preset library. An empty document yields the embedded starter library.
func ParsePresetLibrary(doc []byte) (*PresetLibrary, error) {
	if len(bytes.TrimSpace(doc)) == 0 {
		doc = data.StarterPresets
	}
	var lib PresetLibrary
	if err := yaml.Unmarshal(doc, &lib); err != nil {
		return nil, fmt.Errorf("%w: preset library: %v", ErrInvalidInput, err)
	}
	if err := validateSpecs(lib.Presets); err != nil {
		return nil, err
	}
	return &lib, nil
}

func validateSpecs(specs []PresetSpec) error {
	for _, spec := range specs {
		if _, err := cleanName(spec.Name); err != nil {
			return err
		}
		if err := validPresetType(spec.Type); err != nil {
			return err
		}
		if spec.Minutes != nil && *spec.Minutes < 0 {
			return fmt.Errorf("%w: preset %q has negative minutes", ErrInvalidInput, spec.Name)
		}
		if err := validateSpecs(spec.Children); err != nil {
			return err
		}
	}
	return nil
}

func validPresetType(t models.PresetType) error {
	switch t {
	case "", models.PresetChapter, models.PresetPart:
		return nil
	}
	return fmt.Errorf("%w: unknown preset type %q", ErrInvalidInput, t)
}

func (s *StudyService) findPreset(ctx context.Context, db *gorm.DB, ownerID, id string) (*models.Preset, error) {
	var preset models.Preset
	if err := db.WithContext(ctx).Where("id = ?", id).First(&preset).Error; err != nil {
		return nil, notFound("preset", id, err)
	}
	if _, err := s.findSubject(ctx, db, ownerID, preset.SubjectID); err != nil {
		return nil, fmt.Errorf("preset %s: %w", id, ErrNotFound)
	}
	return &preset, nil
}

// ListPresets returns the presets of a subject in creation order
func (s *StudyService) ListPresets(ctx context.Context, ownerID, subjectID string) ([]models.Preset, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	if _, err := s.findSubject(ctx, s.DB, ownerID, subjectID); err != nil {
		return nil, err
	}
	return subjectPresets(ctx, s.DB, subjectID)
}

// CreatePreset adds a preset to a subject. The type defaults to chapter; a parent must belong to the same subject.
func (s *StudyService) CreatePreset(ctx context.Context, ownerID, subjectID string, in NewPreset) (preset *models.Preset, err error) {
	if err = requireOwner(ownerID); err != nil {
		return nil, err
	}
	ctx, span := observability.StartSpan(ctx, "study.CreatePreset", ownerID)
	defer func() { observability.EndSpan(span, err) }()

	name, err := cleanName(in.Name)
	if err != nil {
		return nil, err
	}
	if err = validPresetType(in.PresetType); err != nil {
		return nil, err
	}
	kind := in.PresetType
	if kind == "" {
		kind = models.PresetChapter
	}
	minutes := DefaultPartMinutes
	if in.EstimatedMinutes != nil {
		if *in.EstimatedMinutes < 0 {
			return nil, fmt.Errorf("%w: estimated minutes must not be negative", ErrInvalidInput)
		}
		minutes = *in.EstimatedMinutes
	}

	if _, err = s.findSubject(ctx, s.DB, ownerID, subjectID); err != nil {
		return nil, err
	}

	var parentID *string
	if in.ParentID != nil && *in.ParentID != "" {
		var parent models.Preset
		err = s.DB.WithContext(ctx).Where("id = ? AND subject_id = ?", *in.ParentID, subjectID).First(&parent).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("preset %s is not in subject %s: %w", *in.ParentID, subjectID, ErrInvalidParent)
		}
		if err != nil {
			return nil, err
		}
		parentID = &parent.ID
	}

	preset = &models.Preset{
		ID:               s.newID(),
		SubjectID:        subjectID,
		ParentID:         parentID,
		Name:             name,
		EstimatedMinutes: minutes,
		PresetType:       kind,
		CreatedAt:        s.now(),
	}
	if err = s.DB.WithContext(ctx).Create(preset).Error; err != nil {
		return nil, err
	}

	s.invalidate(ctx, ownerID)
	return preset, nil
}

// DeletePreset deletes a preset and every preset nested below it. Parts already
// created from them are left alone. It returns the number of presets deleted.
func (s *StudyService) DeletePreset(ctx context.Context, ownerID, presetID string) (deleted int64, err error) {
	if err = requireOwner(ownerID); err != nil {
		return 0, err
	}
	ctx, span := observability.StartSpan(ctx, "study.DeletePreset", ownerID)
	defer func() { observability.EndSpan(span, err) }()

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		preset, err := s.findPreset(ctx, tx, ownerID, presetID)
		if err != nil {
			return err
		}
		presets, err := subjectPresets(ctx, tx, preset.SubjectID)
		if err != nil {
			return err
		}

		ids := append(study.PresetDescendants(presets, presetID), presetID)
		res := tx.Where("id IN ?", ids).Delete(&models.Preset{})
		deleted = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return 0, err
	}

	s.invalidate(ctx, ownerID)
	return deleted, nil
}

// ApplyPresets plants the selected presets into a chapter. targetPartID selects the mode:
// empty for the chapter root with ancestor closure, study.AllParts for every top-level
// part, or a part id to transplant the exact selection under that part.
//
// A chapter or target part that does not exist is a silent no-op. Parts created before a
// write error are kept and returned with the error.
func (s *StudyService) ApplyPresets(ctx context.Context, ownerID, chapterID string, presetIDs []string, targetPartID string) (created []models.Part, err error) {
	if err = requireOwner(ownerID); err != nil {
		return nil, err
	}
	ctx, span := observability.StartSpan(ctx, "study.ApplyPresets", ownerID,
		attribute.String("study.chapter", chapterID),
		attribute.String("study.target", targetPartID),
		attribute.Int("study.presets", len(presetIDs)),
	)
	defer func() { observability.EndSpan(span, err) }()

	chapter, err := s.findChapter(ctx, s.DB, ownerID, chapterID)
	if errors.Is(err, ErrNotFound) {
		s.Log.Debug("preset application skipped, chapter missing", "owner", ownerID, "chapter_id", chapterID)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	presets, err := subjectPresets(ctx, s.DB, chapter.SubjectID)
	if err != nil {
		return nil, err
	}
	parts, err := chapterParts(ctx, s.DB, chapterID)
	if err != nil {
		return nil, err
	}

	created, err = s.engine(s.DB).Apply(ctx, ownerID, chapterID, parts, presets, presetIDs, targetPartID)
	s.record(applyMode(targetPartID), created)
	if len(created) > 0 {
		s.invalidate(ctx, ownerID)
	}
	if err != nil {
		return created, err
	}

	s.Log.Info("presets applied", "owner", ownerID, "chapter_id", chapterID, "mode", applyMode(targetPartID), "created", len(created))
	return created, nil
}

// ApplyChapterTemplates re-runs auto-populate against every chapter of a subject.
// Chapters that already hold the templates are left unchanged. A missing subject is a no-op.
func (s *StudyService) ApplyChapterTemplates(ctx context.Context, ownerID, subjectID string) (created []models.Part, err error) {
	if err = requireOwner(ownerID); err != nil {
		return nil, err
	}
	ctx, span := observability.StartSpan(ctx, "study.ApplyChapterTemplates", ownerID, attribute.String("study.subject", subjectID))
	defer func() { observability.EndSpan(span, err) }()

	var chapters []models.Chapter
	err = s.DB.WithContext(ctx).
		Where("subject_id = ? AND owner_id = ?", subjectID, ownerID).
		Order("sort_order ASC").Order("created_at ASC").
		Find(&chapters).Error
	if err != nil || len(chapters) == 0 {
		return nil, err
	}

	presets, err := subjectPresets(ctx, s.DB, subjectID)
	if err != nil {
		return nil, err
	}

	engine := s.engine(s.DB)
	defer func() {
		if len(created) > 0 {
			s.invalidate(ctx, ownerID)
		}
	}()
	for _, chapter := range chapters {
		parts, err := chapterParts(ctx, s.DB, chapter.ID)
		if err != nil {
			return created, err
		}
		made, err := engine.Populate(ctx, ownerID, chapter, parts, presets)
		s.record(observability.ModeAutoPopulate, made)
		created = append(created, made...)
		if err != nil {
			return created, err
		}
	}

	s.Log.Info("chapter templates applied", "owner", ownerID, "subject_id", subjectID, "chapters", len(chapters), "created", len(created))
	return created, nil
}

// ImportPresets merges a YAML preset library into a subject. A node whose name already
// exists under the same parent is reused, so importing a library twice creates nothing
// the second time. Children without a type inherit their parent's.
func (s *StudyService) ImportPresets(ctx context.Context, ownerID, subjectID string, doc []byte) (created []models.Preset, err error) {
	if err = requireOwner(ownerID); err != nil {
		return nil, err
	}
	ctx, span := observability.StartSpan(ctx, "study.ImportPresets", ownerID, attribute.String("study.subject", subjectID))
	defer func() { observability.EndSpan(span, err) }()

	lib, err := ParsePresetLibrary(doc)
	if err != nil {
		return nil, err
	}
	if _, err = s.findSubject(ctx, s.DB, ownerID, subjectID); err != nil {
		return nil, err
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := subjectPresets(ctx, tx, subjectID)
		if err != nil {
			return err
		}
		byParent := make(map[string][]models.Preset)
		for _, p := range existing {
			byParent[presetParent(p)] = append(byParent[presetParent(p)], p)
		}

		base := s.now()
		var walk func(specs []PresetSpec, parentID string, inherited models.PresetType) error
		walk = func(specs []PresetSpec, parentID string, inherited models.PresetType) error {
			for _, spec := range specs {
				kind := spec.Type
				if kind == "" {
					kind = inherited
				}

				preset, found := findPresetByName(byParent[parentID], spec.Name)
				if !found {
					minutes := DefaultPartMinutes
					if spec.Minutes != nil {
						minutes = *spec.Minutes
					}
					preset = models.Preset{
						ID:               s.newID(),
						SubjectID:        subjectID,
						ParentID:         anchor(parentID),
						Name:             spec.Name,
						EstimatedMinutes: minutes,
						PresetType:       kind,
						// distinct timestamps keep (created_at, id) ordering equal to document order
						CreatedAt: base.Add(time.Duration(len(created)) * time.Millisecond),
					}
					if err := tx.Create(&preset).Error; err != nil {
						return err
					}
					byParent[parentID] = append(byParent[parentID], preset)
					created = append(created, preset)
				}

				if err := walk(spec.Children, preset.ID, kind); err != nil {
					return err
				}
			}
			return nil
		}
		return walk(lib.Presets, "", models.PresetChapter)
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, ownerID)
	s.Log.Info("presets imported", "owner", ownerID, "subject_id", subjectID, "created", len(created))
	return created, nil
}

func applyMode(targetPartID string) string {
	switch targetPartID {
	case "":
		return observability.ModeAncestors
	case study.AllParts:
		return observability.ModeAllParts
	}
	return observability.ModeSubtree
}

func presetParent(p models.Preset) string {
	if p.ParentID == nil {
		return ""
	}
	return *p.ParentID
}

func findPresetByName(presets []models.Preset, name string) (models.Preset, bool) {
	for _, p := range presets {
		if p.Name == name {
			return p, true
		}
	}
	return models.Preset{}, false
}

func anchor(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}
