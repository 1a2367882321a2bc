package services

import (
	"context"
	"errors"
	"testing"

	"github.com/localnerve/studyhub/internal/models"
	"github.com/localnerve/studyhub/internal/study"
	"github.com/localnerve/studyhub/internal/testutil"
	"gorm.io/gorm"
)

type presetFixture struct {
	subject                 models.Subject
	chapter                 models.Chapter
	root, child, grandchild models.Preset
}

// seedPresetChain seeds Review > Flashcards > Hard cards as part presets, so none are auto-applied
func seedPresetChain(t *testing.T, db *gorm.DB) presetFixture {
	t.Helper()
	var f presetFixture
	f.subject = testutil.SeedSubject(t, db, owner, "Physics")
	f.chapter = testutil.SeedChapter(t, db, f.subject, "Waves", 0)
	f.root = testutil.SeedPreset(t, db, f.subject, "Review", 25, models.PresetPart, nil)
	f.child = testutil.SeedPreset(t, db, f.subject, "Flashcards", 15, models.PresetPart, &f.root)
	f.grandchild = testutil.SeedPreset(t, db, f.subject, "Hard cards", 10, models.PresetPart, &f.child)
	return f
}

func loadParts(t *testing.T, db *gorm.DB, chapterID string) map[string]models.Part {
	t.Helper()
	var parts []models.Part
	if err := db.Where("chapter_id = ?", chapterID).Find(&parts).Error; err != nil {
		t.Fatalf("load parts: %v", err)
	}
	byName := make(map[string]models.Part, len(parts))
	for _, p := range parts {
		byName[p.Name] = p
	}
	return byName
}

func parentIs(p models.Part, parentID string) bool {
	if parentID == "" {
		return p.ParentID == nil
	}
	return p.ParentID != nil && *p.ParentID == parentID
}

func TestApplyPresetsToChapterExpandsAncestors(t *testing.T) {
	svc, db := newTestService(t)
	f := seedPresetChain(t, db)

	created, err := svc.ApplyPresets(context.Background(), owner, f.chapter.ID, []string{f.grandchild.ID}, "")
	if err != nil {
		t.Fatalf("ApplyPresets: %v", err)
	}
	if len(created) != 3 {
		t.Fatalf("Expected the whole ancestor chain, got %d parts", len(created))
	}

	parts := loadParts(t, db, f.chapter.ID)
	review, flash, hard := parts["Review"], parts["Flashcards"], parts["Hard cards"]
	if !parentIs(review, "") || !parentIs(flash, review.ID) || !parentIs(hard, flash.ID) {
		t.Errorf("chain not nested: %+v", parts)
	}

	again, err := svc.ApplyPresets(context.Background(), owner, f.chapter.ID, []string{f.grandchild.ID}, "")
	if err != nil {
		t.Fatalf("ApplyPresets rerun: %v", err)
	}
	if len(again) != 0 {
		t.Errorf("Expected rerun to create nothing, created %d", len(again))
	}
	if n := testutil.CountRows(t, db, &models.Part{}, "chapter_id = ?", f.chapter.ID); n != 3 {
		t.Errorf("chapter holds %d parts, want 3", n)
	}
}

func TestApplyPresetsToPartTransplantsSelection(t *testing.T) {
	svc, db := newTestService(t)
	f := seedPresetChain(t, db)
	target := testutil.SeedPart(t, db, f.chapter, "Lecture 1", nil, 0)

	created, err := svc.ApplyPresets(context.Background(), owner, f.chapter.ID, []string{f.grandchild.ID}, target.ID)
	if err != nil {
		t.Fatalf("ApplyPresets: %v", err)
	}
	if len(created) != 1 {
		t.Fatalf("Expected only the selected preset, got %d parts", len(created))
	}
	if created[0].Name != "Hard cards" || !parentIs(created[0], target.ID) {
		t.Errorf("unexpected part: %+v", created[0])
	}
	if got := testutil.CountRows(t, db, &models.Part{}, "name = ?", "Review"); got != 0 {
		t.Error("ancestors must not be created when targeting a part")
	}
}

func TestApplyPresetsToAllParts(t *testing.T) {
	svc, db := newTestService(t)
	f := seedPresetChain(t, db)
	first := testutil.SeedPart(t, db, f.chapter, "Lecture 1", nil, 0)
	second := testutil.SeedPart(t, db, f.chapter, "Lecture 2", nil, 1)

	created, err := svc.ApplyPresets(context.Background(), owner, f.chapter.ID, []string{f.child.ID, f.grandchild.ID}, study.AllParts)
	if err != nil {
		t.Fatalf("ApplyPresets: %v", err)
	}
	if len(created) != 4 {
		t.Fatalf("Expected two parts under each lecture, got %d", len(created))
	}

	for _, lecture := range []models.Part{first, second} {
		var under []models.Part
		db.Where("parent_id = ?", lecture.ID).Find(&under)
		if len(under) != 1 || under[0].Name != "Flashcards" {
			t.Fatalf("unexpected children of %s: %+v", lecture.Name, under)
		}
		var nested []models.Part
		db.Where("parent_id = ?", under[0].ID).Find(&nested)
		if len(nested) != 1 || nested[0].Name != "Hard cards" {
			t.Errorf("unexpected grandchildren of %s: %+v", lecture.Name, nested)
		}
	}
}

func TestApplyPresetsMissingTargetsAreNoops(t *testing.T) {
	svc, db := newTestService(t)
	f := seedPresetChain(t, db)
	ctx := context.Background()

	cases := []struct {
		name      string
		ownerID   string
		chapterID string
		target    string
	}{
		{"missing chapter", owner, "missing", ""},
		{"foreign chapter", "intruder", f.chapter.ID, ""},
		{"missing part", owner, f.chapter.ID, "missing"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			created, err := svc.ApplyPresets(ctx, tc.ownerID, tc.chapterID, []string{f.root.ID}, tc.target)
			if err != nil || len(created) != 0 {
				t.Errorf("Expected silent no-op, got %d parts and %v", len(created), err)
			}
		})
	}
	if n := testutil.CountRows(t, db, &models.Part{}, "1 = 1"); n != 0 {
		t.Errorf("%d parts written", n)
	}
}

func TestCreatePreset(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	physics := testutil.SeedSubject(t, db, owner, "Physics")
	maths := testutil.SeedSubject(t, db, owner, "Maths")
	foreign := testutil.SeedPreset(t, db, maths, "Proofs", 30, models.PresetChapter, nil)

	theory, err := svc.CreatePreset(ctx, owner, physics.ID, NewPreset{Name: "Theory"})
	if err != nil {
		t.Fatalf("CreatePreset: %v", err)
	}
	if theory.Type() != models.PresetChapter || theory.EstimatedMinutes != DefaultPartMinutes {
		t.Errorf("unexpected defaults: %+v", theory)
	}

	if _, err := svc.CreatePreset(ctx, owner, physics.ID, NewPreset{Name: "Bad", ParentID: &foreign.ID}); !errors.Is(err, ErrInvalidParent) {
		t.Errorf("Expected ErrInvalidParent, got %v", err)
	}
	if _, err := svc.CreatePreset(ctx, owner, physics.ID, NewPreset{Name: "Bad", PresetType: "weekly"}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for an unknown type, got %v", err)
	}
	if _, err := svc.CreatePreset(ctx, "intruder", physics.ID, NewPreset{Name: "Mine"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for another owner's subject, got %v", err)
	}

	listed, err := svc.ListPresets(ctx, owner, physics.ID)
	if err != nil {
		t.Fatalf("ListPresets: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != theory.ID {
		t.Errorf("unexpected presets: %+v", listed)
	}
}

func TestDeletePresetRemovesSubtree(t *testing.T) {
	svc, db := newTestService(t)
	f := seedPresetChain(t, db)
	sibling := testutil.SeedPreset(t, db, f.subject, "Summary", 20, models.PresetChapter, nil)

	deleted, err := svc.DeletePreset(context.Background(), owner, f.root.ID)
	if err != nil {
		t.Fatalf("DeletePreset: %v", err)
	}
	if deleted != 3 {
		t.Errorf("deleted = %d, want 3", deleted)
	}
	if n := testutil.CountRows(t, db, &models.Preset{}, "subject_id = ?", f.subject.ID); n != 1 {
		t.Errorf("%d presets left, want 1", n)
	}
	if n := testutil.CountRows(t, db, &models.Preset{}, "id = ?", sibling.ID); n != 1 {
		t.Error("sibling preset was deleted")
	}

	if _, err := svc.DeletePreset(context.Background(), "intruder", sibling.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for another owner, got %v", err)
	}
}

func TestImportStarterLibrary(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	subject := testutil.SeedSubject(t, db, owner, "Physics")

	created, err := svc.ImportPresets(ctx, owner, subject.ID, nil)
	if err != nil {
		t.Fatalf("ImportPresets: %v", err)
	}
	if len(created) != 7 {
		t.Fatalf("Expected 7 starter presets, got %d", len(created))
	}
	byName := make(map[string]models.Preset)
	for _, p := range created {
		byName[p.Name] = p
	}
	if byName["Flashcards"].Type() != models.PresetPart {
		t.Error("Flashcards should inherit the part type from Review")
	}
	if byName["Problems"].ParentID == nil || *byName["Problems"].ParentID != byName["Theory"].ID {
		t.Error("Problems should be nested under Theory")
	}

	listed, err := svc.ListPresets(ctx, owner, subject.ID)
	if err != nil {
		t.Fatalf("ListPresets: %v", err)
	}
	for i, p := range listed {
		if p.ID != created[i].ID {
			t.Fatalf("preset %d = %s, want %s in document order", i, p.Name, created[i].Name)
		}
	}

	again, err := svc.ImportPresets(ctx, owner, subject.ID, nil)
	if err != nil {
		t.Fatalf("ImportPresets rerun: %v", err)
	}
	if len(again) != 0 {
		t.Errorf("Expected rerun to create nothing, created %d", len(again))
	}
}

func TestImportPresetsRejectsBadDocuments(t *testing.T) {
	svc, db := newTestService(t)
	subject := testutil.SeedSubject(t, db, owner, "Physics")

	docs := map[string]string{
		"syntax":       "presets: [",
		"missing name": "presets:\n  - minutes: 10\n",
		"bad type":     "presets:\n  - name: Theory\n    type: weekly\n",
	}
	for name, doc := range docs {
		if _, err := svc.ImportPresets(context.Background(), owner, subject.ID, []byte(doc)); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("%s: expected ErrInvalidInput, got %v", name, err)
		}
	}
	if n := testutil.CountRows(t, db, &models.Preset{}, "1 = 1"); n != 0 {
		t.Errorf("%d presets written", n)
	}
}

func TestApplyChapterTemplatesBackfillsChapters(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	subject := testutil.SeedSubject(t, db, owner, "Physics")
	waves := testutil.SeedChapter(t, db, subject, "Waves", 0)
	optics := testutil.SeedChapter(t, db, subject, "Optics", 1)

	if _, err := svc.ImportPresets(ctx, owner, subject.ID, nil); err != nil {
		t.Fatalf("ImportPresets: %v", err)
	}

	created, err := svc.ApplyChapterTemplates(ctx, owner, subject.ID)
	if err != nil {
		t.Fatalf("ApplyChapterTemplates: %v", err)
	}
	// Theory, Worked examples, Problems and Summary notes in each chapter
	if len(created) != 8 {
		t.Fatalf("created %d parts, want 8", len(created))
	}
	for _, chapter := range []models.Chapter{waves, optics} {
		parts := loadParts(t, db, chapter.ID)
		if _, ok := parts["Review"]; ok {
			t.Errorf("%s received a part template", chapter.Name)
		}
		if !parentIs(parts["Problems"], parts["Theory"].ID) {
			t.Errorf("%s: Problems not under Theory", chapter.Name)
		}
	}

	again, err := svc.ApplyChapterTemplates(ctx, owner, subject.ID)
	if err != nil || len(again) != 0 {
		t.Errorf("Expected rerun to be a no-op, got %d parts and %v", len(again), err)
	}

	none, err := svc.ApplyChapterTemplates(ctx, owner, "missing")
	if err != nil || len(none) != 0 {
		t.Errorf("Expected missing subject to be a no-op, got %d parts and %v", len(none), err)
	}
}
