package study

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/localnerve/studyhub/internal/models"
)

// memWriter records inserted parts in memory
type memWriter struct {
	parts   []models.Part
	failAt  int
	inserts int
}

func (w *memWriter) InsertPart(_ context.Context, p *models.Part) error {
	w.inserts++
	if w.failAt > 0 && w.inserts == w.failAt {
		return errors.New("insert failed")
	}
	w.parts = append(w.parts, *p)
	return nil
}

func newTestEngine(w *memWriter) *Engine {
	n := 0
	return NewEngine(w,
		WithIDs(func() string {
			n++
			return fmt.Sprintf("part-%d", n)
		}),
		WithClock(func() time.Time {
			return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		}),
	)
}

func ptr(s string) *string {
	return &s
}

func preset(id, subject, name string, parent *string, minutes int, kind models.PresetType) models.Preset {
	return models.Preset{ID: id, SubjectID: subject, Name: name, ParentID: parent, EstimatedMinutes: minutes, PresetType: kind}
}

func findPart(t *testing.T, parts []models.Part, name string) models.Part {
	t.Helper()
	for _, p := range parts {
		if p.Name == name {
			return p
		}
	}
	t.Fatalf("part %q not found in %d parts", name, len(parts))
	return models.Part{}
}

func parentOf(p models.Part) string {
	if p.ParentID == nil {
		return ""
	}
	return *p.ParentID
}

// chain returns root -> child -> grandchild presets of subject S1
func chain(kind models.PresetType) []models.Preset {
	return []models.Preset{
		preset("root", "S1", "Root", nil, 10, kind),
		preset("child", "S1", "Child", ptr("root"), 20, kind),
		preset("grandchild", "S1", "Grandchild", ptr("child"), 30, kind),
	}
}

func TestPopulatePhysicsWaves(t *testing.T) {
	w := &memWriter{}
	e := newTestEngine(w)
	presets := []models.Preset{
		preset("theory", "S1", "Theory", nil, 45, models.PresetChapter),
		preset("problems", "S1", "Problems", ptr("theory"), 60, models.PresetChapter),
		preset("extra", "S1", "Extra", nil, 5, models.PresetPart),
		preset("other", "S2", "Other subject", nil, 5, models.PresetChapter),
	}
	waves := models.Chapter{ID: "waves", SubjectID: "S1", Name: "Waves"}

	created, err := e.Populate(context.Background(), "owner", waves, nil, presets)
	if err != nil {
		t.Fatalf("Populate: %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("Expected 2 parts, got %d", len(created))
	}

	theory := findPart(t, created, "Theory")
	problems := findPart(t, created, "Problems")
	if theory.ParentID != nil {
		t.Errorf("Theory should be a chapter root, got parent %q", *theory.ParentID)
	}
	if parentOf(problems) != theory.ID {
		t.Errorf("Problems parent = %q, want %q", parentOf(problems), theory.ID)
	}
	for _, p := range created {
		if p.Status != models.StatusNotStarted {
			t.Errorf("%s status = %s", p.Name, p.Status)
		}
		if p.ChapterID != "waves" || p.OwnerID != "owner" {
			t.Errorf("%s anchored to chapter %q owner %q", p.Name, p.ChapterID, p.OwnerID)
		}
	}
	if theory.EstimatedMinutes != 45 || problems.EstimatedMinutes != 60 {
		t.Errorf("estimated minutes not copied: %d, %d", theory.EstimatedMinutes, problems.EstimatedMinutes)
	}

	h := Index(nil, []models.Chapter{waves}, w.parts)
	if got := h.ChapterProgress["waves"]; got != 0 {
		t.Errorf("chapter progress = %d, want 0", got)
	}

	// Complete Theory, then confirm it again: progress stays at 50
	parts := append([]models.Part(nil), w.parts...)
	for i := range parts {
		if parts[i].Name == "Theory" {
			Toggle(&parts[i], time.Now())
			Toggle(&parts[i], time.Now())
		}
	}
	for i := 0; i < 2; i++ {
		h = Index(nil, []models.Chapter{waves}, parts)
		if got := h.ChapterProgress["waves"]; got != 50 {
			t.Errorf("chapter progress = %d, want 50", got)
		}
	}
}

func TestEnsurePartsIsIdempotent(t *testing.T) {
	w := &memWriter{}
	e := newTestEngine(w)
	ctx := context.Background()
	presets := chain(models.PresetPart)

	first, err := e.EnsureParts(ctx, "owner", "C1", nil, presets, "")
	if err != nil {
		t.Fatalf("first EnsureParts: %v", err)
	}
	if len(first) != 3 {
		t.Fatalf("Expected 3 parts on first run, got %d", len(first))
	}

	second, err := e.EnsureParts(ctx, "owner", "C1", w.parts, presets, "")
	if err != nil {
		t.Fatalf("second EnsureParts: %v", err)
	}
	if len(second) != 0 {
		t.Errorf("Expected no new parts on second run, got %d", len(second))
	}
	if len(w.parts) != 3 {
		t.Errorf("Expected 3 stored parts, got %d", len(w.parts))
	}
}

func TestEnsurePartsFillsMissingChildren(t *testing.T) {
	w := &memWriter{}
	e := newTestEngine(w)
	existing := []models.Part{
		{ID: "p-root", ChapterID: "C1", Name: "Root", SortOrder: 0},
		{ID: "p-other", ChapterID: "C1", Name: "Other", SortOrder: 1},
	}

	created, err := e.EnsureParts(context.Background(), "owner", "C1", existing, chain(models.PresetPart), "")
	if err != nil {
		t.Fatalf("EnsureParts: %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("Expected Child and Grandchild only, got %d parts", len(created))
	}
	child := findPart(t, created, "Child")
	if parentOf(child) != "p-root" {
		t.Errorf("Child should attach to the existing Root part, got %q", parentOf(child))
	}
	if child.SortOrder != 0 {
		t.Errorf("Child sort order = %d, want 0", child.SortOrder)
	}
}

func TestEnsurePartsSortOrderCountsSiblings(t *testing.T) {
	w := &memWriter{}
	e := newTestEngine(w)
	existing := []models.Part{
		{ID: "a", ChapterID: "C1", Name: "A"},
		{ID: "b", ChapterID: "C1", Name: "B"},
		{ID: "a1", ChapterID: "C1", Name: "A1", ParentID: ptr("a")},
		{ID: "x", ChapterID: "C2", Name: "Elsewhere"},
	}
	presets := []models.Preset{
		preset("p1", "S1", "First", nil, 5, models.PresetPart),
		preset("p2", "S1", "Second", nil, 5, models.PresetPart),
	}

	created, err := e.EnsureParts(context.Background(), "owner", "C1", existing, presets, "")
	if err != nil {
		t.Fatalf("EnsureParts: %v", err)
	}
	if got := findPart(t, created, "First").SortOrder; got != 2 {
		t.Errorf("First sort order = %d, want 2", got)
	}
	if got := findPart(t, created, "Second").SortOrder; got != 3 {
		t.Errorf("Second sort order = %d, want 3", got)
	}
}

func TestEnsurePartsSameNameSharesPart(t *testing.T) {
	w := &memWriter{}
	e := newTestEngine(w)
	presets := []models.Preset{
		preset("a", "S1", "Review", nil, 5, models.PresetPart),
		preset("b", "S1", "Review", nil, 50, models.PresetPart),
	}

	created, err := e.EnsureParts(context.Background(), "owner", "C1", nil, presets, "")
	if err != nil {
		t.Fatalf("EnsureParts: %v", err)
	}
	if len(created) != 1 {
		t.Fatalf("Expected presets with the same name to share one part, got %d", len(created))
	}
	if created[0].EstimatedMinutes != 5 {
		t.Errorf("Expected the first preset to win, got %d minutes", created[0].EstimatedMinutes)
	}
}

func TestEnsurePartsIgnoresUnselectedChildren(t *testing.T) {
	w := &memWriter{}
	e := newTestEngine(w)
	all := append(chain(models.PresetPart), preset("sibling", "S1", "Sibling", ptr("root"), 5, models.PresetPart))

	created, err := e.EnsureParts(context.Background(), "owner", "C1", nil, SelectPresets(all, []string{"root", "child"}), "")
	if err != nil {
		t.Fatalf("EnsureParts: %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("Expected Root and Child only, got %d", len(created))
	}
	for _, p := range created {
		if p.Name == "Sibling" || p.Name == "Grandchild" {
			t.Errorf("unselected preset %q was materialized", p.Name)
		}
	}
}

func TestEnsurePartsStopsOnWriteError(t *testing.T) {
	w := &memWriter{failAt: 2}
	e := newTestEngine(w)

	created, err := e.EnsureParts(context.Background(), "owner", "C1", nil, chain(models.PresetPart), "")
	if err == nil {
		t.Fatal("Expected the write error to propagate")
	}
	if len(created) != 1 || len(w.parts) != 1 {
		t.Errorf("Expected the first insert to stand, got created=%d stored=%d", len(created), len(w.parts))
	}
}

func TestApplyChapterModeExpandsAncestors(t *testing.T) {
	w := &memWriter{}
	e := newTestEngine(w)

	created, err := e.Apply(context.Background(), "owner", "C1", nil, chain(models.PresetPart), []string{"grandchild"}, "")
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(created) != 3 {
		t.Fatalf("Expected root, child and grandchild, got %d parts", len(created))
	}
	root := findPart(t, created, "Root")
	child := findPart(t, created, "Child")
	grandchild := findPart(t, created, "Grandchild")
	if root.ParentID != nil || parentOf(child) != root.ID || parentOf(grandchild) != child.ID {
		t.Errorf("Expected chain Root -> Child -> Grandchild, got parents %q %q %q",
			parentOf(root), parentOf(child), parentOf(grandchild))
	}
}

func TestApplyToPartTransplantsSubtree(t *testing.T) {
	w := &memWriter{}
	e := newTestEngine(w)
	existing := []models.Part{{ID: "X", ChapterID: "C1", Name: "Existing"}}

	created, err := e.Apply(context.Background(), "owner", "C1", existing, chain(models.PresetPart), []string{"grandchild"}, "X")
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(created) != 1 {
		t.Fatalf("Expected only the grandchild part, got %d", len(created))
	}
	if created[0].Name != "Grandchild" || parentOf(created[0]) != "X" {
		t.Errorf("Expected Grandchild under X, got %q under %q", created[0].Name, parentOf(created[0]))
	}
}

func TestApplyToMissingPartIsNoop(t *testing.T) {
	w := &memWriter{}
	e := newTestEngine(w)
	existing := []models.Part{{ID: "X", ChapterID: "C2", Name: "Other chapter"}}

	created, err := e.Apply(context.Background(), "owner", "C1", existing, chain(models.PresetPart), []string{"root"}, "X")
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(created) != 0 || w.inserts != 0 {
		t.Errorf("Expected no writes for a foreign anchor, got %d", w.inserts)
	}
}

func TestApplyAllPartsPlantsUnderEveryTopLevelPart(t *testing.T) {
	w := &memWriter{}
	e := newTestEngine(w)
	existing := []models.Part{
		{ID: "t1", ChapterID: "C1", Name: "Lecture 1"},
		{ID: "t2", ChapterID: "C1", Name: "Lecture 2"},
		{ID: "n1", ChapterID: "C1", Name: "Nested", ParentID: ptr("t1")},
	}
	presets := chain(models.PresetPart)

	created, err := e.Apply(context.Background(), "owner", "C1", existing, presets, []string{"child", "grandchild"}, AllParts)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(created) != 4 {
		t.Fatalf("Expected Child+Grandchild under both lectures, got %d", len(created))
	}
	anchors := map[string]int{}
	for _, p := range created {
		if p.Name == "Child" {
			anchors[parentOf(p)]++
		}
		if p.Name == "Root" {
			t.Error("ancestor Root must not be created in all-parts mode")
		}
	}
	if anchors["t1"] != 1 || anchors["t2"] != 1 || anchors["n1"] != 0 {
		t.Errorf("unexpected Child anchors: %v", anchors)
	}

	again, err := e.Apply(context.Background(), "owner", "C1", append(existing, w.parts...), presets, []string{"child", "grandchild"}, AllParts)
	if err != nil {
		t.Fatalf("second Apply: %v", err)
	}
	if len(again) != 0 {
		t.Errorf("Expected all-parts application to be idempotent, got %d new parts", len(again))
	}
}

func TestExpandAncestors(t *testing.T) {
	all := append(chain(models.PresetPart),
		preset("lonely", "S1", "Lonely", nil, 1, models.PresetPart),
		preset("dangling", "S1", "Dangling", ptr("gone"), 1, models.PresetPart),
	)

	tests := []struct {
		name string
		ids  []string
		want []string
	}{
		{"leaf pulls whole chain", []string{"grandchild"}, []string{"root", "child", "grandchild"}},
		{"root stays alone", []string{"root"}, []string{"root"}},
		{"unknown ids ignored", []string{"nope"}, nil},
		{"dangling parent keeps node", []string{"dangling"}, []string{"dangling"}},
		{"duplicates collapse", []string{"child", "child", "lonely"}, []string{"root", "child", "lonely"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExpandAncestors(all, tt.ids)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d presets, want %d", len(got), len(tt.want))
			}
			for i, p := range got {
				if p.ID != tt.want[i] {
					t.Errorf("position %d = %q, want %q", i, p.ID, tt.want[i])
				}
			}
		})
	}
}

func TestChapterTemplatesTreatsUntypedAsChapter(t *testing.T) {
	presets := []models.Preset{
		preset("a", "S1", "A", nil, 1, ""),
		preset("b", "S1", "B", nil, 1, models.PresetPart),
		preset("c", "S1", "C", nil, 1, models.PresetChapter),
		preset("d", "S2", "D", nil, 1, models.PresetChapter),
	}
	got := ChapterTemplates(presets, "S1")
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "c" {
		t.Errorf("unexpected chapter templates: %+v", got)
	}
}

func TestPresetDescendants(t *testing.T) {
	all := append(chain(models.PresetPart), preset("side", "S1", "Side", ptr("root"), 1, models.PresetPart))
	got := PresetDescendants(all, "root")
	if len(got) != 3 {
		t.Fatalf("Expected 3 descendants, got %v", got)
	}
	if got[0] != "grandchild" {
		t.Errorf("Expected deepest descendant first, got %v", got)
	}
}
