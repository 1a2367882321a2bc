package study

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/localnerve/studyhub/internal/models"
)

// AllParts is the target sentinel that plants a preset selection under every top-level part of a chapter.
const AllParts = "all-parts"

// PartWriter persists a newly materialized part
type PartWriter interface {
	InsertPart(ctx context.Context, part *models.Part) error
}

// Engine expands preset trees into concrete parts under an anchor.
//
// Materialization is idempotent per (name, anchor): a preset whose name
// already exists among the parts directly under the anchor is reused, not
// recreated. Two presets sharing a name under one anchor therefore map to
// the same part, and renaming a preset makes it unrecognisable to parts
// created from it earlier.
type Engine struct {
	writer PartWriter
	now    func() time.Time
	newID  func() string
}

// Option customizes an Engine
type Option func(*Engine)

// WithClock sets the time source used for created_at
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithIDs sets the id generator for new parts
func WithIDs(newID func() string) Option {
	return func(e *Engine) { e.newID = newID }
}

// NewEngine creates an Engine writing through w
func NewEngine(w PartWriter, opts ...Option) *Engine {
	e := &Engine{
		writer: w,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// EnsureParts plants presetsToApply under anchorPartID ("" for the chapter root).
//
// Roots of the selection are presets whose parent is nil or outside the
// selection; children are only looked up inside the selection, never in the
// full preset table. existing holds the chapter's current parts in
// (sort_order, created_at) order. Existing parts are never modified. The
// parts created by this call are returned in creation order.
func (e *Engine) EnsureParts(ctx context.Context, ownerID, chapterID string, existing []models.Part, presetsToApply []models.Preset, anchorPartID string) ([]models.Part, error) {
	presets := dedupePresets(presetsToApply)
	if len(presets) == 0 {
		return nil, nil
	}

	inSet := make(map[string]bool, len(presets))
	for _, p := range presets {
		inSet[p.ID] = true
	}

	// parent_id -> children, restricted to the selection
	var roots []models.Preset
	children := make(map[string][]models.Preset)
	for _, p := range presets {
		if p.ParentID == nil || !inSet[*p.ParentID] {
			roots = append(roots, p)
			continue
		}
		children[*p.ParentID] = append(children[*p.ParentID], p)
	}

	// anchor ("" = chapter root) -> parts directly under it
	byAnchor := make(map[string][]models.Part)
	for _, p := range existing {
		if p.ChapterID != chapterID {
			continue
		}
		byAnchor[anchorOf(p)] = append(byAnchor[anchorOf(p)], p)
	}

	var created []models.Part
	var plant func(level []models.Preset, anchor string) error
	plant = func(level []models.Preset, anchor string) error {
		for _, preset := range level {
			if err := ctx.Err(); err != nil {
				return err
			}

			part, found := findByName(byAnchor[anchor], preset.Name)
			if !found {
				part = models.Part{
					ID:               e.newID(),
					OwnerID:          ownerID,
					ChapterID:        chapterID,
					ParentID:         anchorPtr(anchor),
					Name:             preset.Name,
					Status:           models.StatusNotStarted,
					EstimatedMinutes: preset.EstimatedMinutes,
					SortOrder:        len(byAnchor[anchor]),
					CreatedAt:        e.now(),
				}
				if err := e.writer.InsertPart(ctx, &part); err != nil {
					return err
				}
				byAnchor[anchor] = append(byAnchor[anchor], part)
				created = append(created, part)
			}

			if kids := children[preset.ID]; len(kids) > 0 {
				if err := plant(kids, part.ID); err != nil {
					return err
				}
			}
		}
		return nil
	}

	if err := plant(roots, anchorPartID); err != nil {
		return created, err
	}
	return created, nil
}

// Populate plants every chapter template of the subject at the root of a chapter
func (e *Engine) Populate(ctx context.Context, ownerID string, chapter models.Chapter, existing []models.Part, presets []models.Preset) ([]models.Part, error) {
	return e.EnsureParts(ctx, ownerID, chapter.ID, existing, ChapterTemplates(presets, chapter.SubjectID), "")
}

// Apply plants the selected presets into a chapter according to targetPartID:
//
//   - "" expands the selection with all of its ancestors and plants it at the chapter root
//   - AllParts plants the exact selection under every top-level part of the chapter
//   - any other value plants the exact selection under that part
//
// A target part that is not one of the chapter's parts is a silent no-op.
func (e *Engine) Apply(ctx context.Context, ownerID, chapterID string, parts []models.Part, all []models.Preset, presetIDs []string, targetPartID string) ([]models.Part, error) {
	switch targetPartID {
	case "":
		return e.EnsureParts(ctx, ownerID, chapterID, parts, ExpandAncestors(all, presetIDs), "")

	case AllParts:
		selected := SelectPresets(all, presetIDs)
		working := append([]models.Part(nil), parts...)
		var created []models.Part
		for _, top := range TopLevelParts(parts, chapterID) {
			made, err := e.EnsureParts(ctx, ownerID, chapterID, working, selected, top.ID)
			created = append(created, made...)
			if err != nil {
				return created, err
			}
			working = append(working, made...)
		}
		return created, nil

	default:
		if !hasPart(parts, chapterID, targetPartID) {
			return nil, nil
		}
		return e.EnsureParts(ctx, ownerID, chapterID, parts, SelectPresets(all, presetIDs), targetPartID)
	}
}

// ChapterTemplates returns the chapter-type presets of a subject in input order
func ChapterTemplates(presets []models.Preset, subjectID string) []models.Preset {
	var out []models.Preset
	for _, p := range presets {
		if p.SubjectID == subjectID && p.Type() == models.PresetChapter {
			out = append(out, p)
		}
	}
	return out
}

// SelectPresets returns the presets whose id is in ids, in the order of all.
// Unknown ids are ignored.
func SelectPresets(all []models.Preset, ids []string) []models.Preset {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []models.Preset
	for _, p := range all {
		if want[p.ID] {
			out = append(out, p)
		}
	}
	return out
}

// ExpandAncestors returns the selected presets together with every
// transitive parent, in the order of all. It repeats until a pass adds no
// new id, so it runs at most once per level of the preset tree.
func ExpandAncestors(all []models.Preset, ids []string) []models.Preset {
	byID := make(map[string]models.Preset, len(all))
	for _, p := range all {
		byID[p.ID] = p
	}

	selected := make(map[string]bool, len(ids))
	frontier := make([]string, 0, len(ids))
	for _, id := range ids {
		if !selected[id] {
			selected[id] = true
			frontier = append(frontier, id)
		}
	}

	for len(frontier) > 0 {
		var next []string
		for _, id := range frontier {
			p, ok := byID[id]
			if !ok || p.ParentID == nil || selected[*p.ParentID] {
				continue
			}
			selected[*p.ParentID] = true
			next = append(next, *p.ParentID)
		}
		frontier = next
	}

	var out []models.Preset
	for _, p := range all {
		if selected[p.ID] {
			out = append(out, p)
		}
	}
	return out
}

// TopLevelParts returns the parts of a chapter that have no parent
func TopLevelParts(parts []models.Part, chapterID string) []models.Part {
	var out []models.Part
	for _, p := range parts {
		if p.ChapterID == chapterID && p.ParentID == nil {
			out = append(out, p)
		}
	}
	return out
}

// PresetDescendants returns the ids of every preset below rootID, deepest first
func PresetDescendants(presets []models.Preset, rootID string) []string {
	edges := make([]edge, len(presets))
	for i, p := range presets {
		edges[i] = edge{id: p.ID, parent: p.ParentID}
	}
	return subtree(edges, rootID)
}

func dedupePresets(presets []models.Preset) []models.Preset {
	seen := make(map[string]bool, len(presets))
	out := make([]models.Preset, 0, len(presets))
	for _, p := range presets {
		if seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		out = append(out, p)
	}
	return out
}

func findByName(parts []models.Part, name string) (models.Part, bool) {
	for _, p := range parts {
		if p.Name == name {
			return p, true
		}
	}
	return models.Part{}, false
}

func hasPart(parts []models.Part, chapterID, id string) bool {
	for _, p := range parts {
		if p.ID == id && p.ChapterID == chapterID {
			return true
		}
	}
	return false
}

func anchorOf(p models.Part) string {
	if p.ParentID == nil {
		return ""
	}
	return *p.ParentID
}

func anchorPtr(anchor string) *string {
	if anchor == "" {
		return nil
	}
	a := anchor
	return &a
}
