package assistant

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/localnerve/studyhub/internal/logger"
	"github.com/localnerve/studyhub/internal/models"
	"github.com/localnerve/studyhub/internal/observability"
	"github.com/localnerve/studyhub/internal/services"
	"github.com/localnerve/studyhub/internal/testutil"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"gorm.io/gorm"
)

const owner = "owner-1"

func newTestDispatcher(t *testing.T) (*Dispatcher, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	svc := services.NewStudyService(db, logger.Nop(), nil, observability.NewMetrics(nil))
	return NewDispatcher(svc), db
}

func lastAction(t *testing.T, db *gorm.DB) models.AssistantAction {
	t.Helper()
	var row models.AssistantAction
	if err := db.Order("created_at DESC").First(&row).Error; err != nil {
		t.Fatalf("Failed to load action log: %v", err)
	}
	return row
}

func TestAddChapterDefaultsToGeneral(t *testing.T) {
	d, db := newTestDispatcher(t)

	res, err := d.Execute(context.Background(), owner, Request{
		Action: "add_study_chapter",
		Data:   map[string]interface{}{"chapter_name": "Essay planning"},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Action != ActionAddChapter || res.Outcome != models.OutcomeApplied {
		t.Errorf("unexpected result: %+v", res)
	}
	if res.Subject == nil || res.Subject.Name != DefaultSubject {
		t.Fatalf("Expected the %s subject, got %+v", DefaultSubject, res.Subject)
	}

	row := lastAction(t, db)
	if row.Action != ActionAddChapter || row.Outcome != models.OutcomeApplied || row.OwnerID != owner {
		t.Errorf("unexpected log row: %+v", row)
	}
	if string(row.Payload.JSON) != `{"chapter_name":"Essay planning"}` {
		t.Errorf("payload = %s", row.Payload.JSON)
	}
}

func TestAddChapterFindsSubjectCaseInsensitively(t *testing.T) {
	d, db := newTestDispatcher(t)
	physics := testutil.SeedSubject(t, db, owner, "Physics")
	testutil.SeedPreset(t, db, physics, "Theory", 45, models.PresetChapter, nil)

	res, err := d.Execute(context.Background(), owner, Request{
		Action: ActionAddChapter,
		Data:   map[string]interface{}{"subject": "physics", "chapter_name": "Waves"},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Subject.ID != physics.ID {
		t.Errorf("Expected existing subject %s, got %s", physics.ID, res.Subject.ID)
	}
	if len(res.Created) != 1 || res.Created[0].Name != "Theory" {
		t.Errorf("Expected auto-populated Theory part, got %+v", res.Created)
	}
	if n := testutil.CountRows(t, db, &models.Subject{}, "owner_id = ?", owner); n != 1 {
		t.Errorf("%d subjects, want 1", n)
	}
}

func TestAddSubjectIsIdempotentByName(t *testing.T) {
	d, db := newTestDispatcher(t)
	ctx := context.Background()

	first, err := d.Execute(ctx, owner, Request{Action: ActionAddSubject, Data: map[string]interface{}{"subject": "Chemistry"}})
	if err != nil || first.Outcome != models.OutcomeApplied {
		t.Fatalf("first add = %+v, %v", first, err)
	}
	second, err := d.Execute(ctx, owner, Request{Action: ActionAddSubject, Data: map[string]interface{}{"name": "chemistry "}})
	if err != nil || second.Outcome != models.OutcomeNoop {
		t.Fatalf("second add = %+v, %v", second, err)
	}
	if n := testutil.CountRows(t, db, &models.Subject{}, "1 = 1"); n != 1 {
		t.Errorf("%d subjects, want 1", n)
	}
}

func TestDeleteChapterMatching(t *testing.T) {
	d, db := newTestDispatcher(t)
	ctx := context.Background()
	physics := testutil.SeedSubject(t, db, owner, "Physics")
	waves := testutil.SeedChapter(t, db, physics, "Waves and Sound", 0)
	optics := testutil.SeedChapter(t, db, physics, "Optics", 1)
	testutil.SeedPart(t, db, waves, "Theory", nil, 0)

	res, err := d.Execute(ctx, owner, Request{Action: ActionDeleteChapter, Data: map[string]interface{}{"chapter_name": "SOUND"}})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Outcome != models.OutcomeApplied || res.Chapter.ID != waves.ID {
		t.Errorf("unexpected result: %+v", res)
	}
	if n := testutil.CountRows(t, db, &models.Part{}, "chapter_id = ?", waves.ID); n != 0 {
		t.Errorf("%d parts survived the chapter", n)
	}

	res, err = d.Execute(ctx, owner, Request{Action: ActionDeleteChapter, Data: map[string]interface{}{"chapter_name": "thermodynamics"}})
	if err != nil || res.Outcome != models.OutcomeNoop {
		t.Errorf("Expected silent no-op, got %+v, %v", res, err)
	}

	res, err = d.Execute(ctx, owner, Request{Action: ActionDeleteChapter, Data: map[string]interface{}{"id": optics.ID}})
	if err != nil || res.Outcome != models.OutcomeApplied {
		t.Errorf("delete by id = %+v, %v", res, err)
	}
}

func TestDeleteChapterRequiresSearchTerm(t *testing.T) {
	d, db := newTestDispatcher(t)
	physics := testutil.SeedSubject(t, db, owner, "Physics")
	testutil.SeedChapter(t, db, physics, "Waves", 0)

	_, err := d.Execute(context.Background(), owner, Request{Action: ActionDeleteChapter})
	if !errors.Is(err, services.ErrInvalidInput) {
		t.Fatalf("Expected ErrInvalidInput, got %v", err)
	}
	if n := testutil.CountRows(t, db, &models.Chapter{}, "1 = 1"); n != 1 {
		t.Error("an empty search term must not delete anything")
	}
	row := lastAction(t, db)
	if row.Outcome != models.OutcomeFailed || row.Error == "" {
		t.Errorf("Expected a failed log row, got %+v", row)
	}
	if got := promtest.ToFloat64(d.Study.Metrics.AssistantActions.WithLabelValues(ActionDeleteChapter, models.OutcomeFailed)); got != 1 {
		t.Errorf("failed actions = %v, want 1", got)
	}
}

func TestTogglePartBySubstring(t *testing.T) {
	d, db := newTestDispatcher(t)
	ctx := context.Background()
	physics := testutil.SeedSubject(t, db, owner, "Physics")
	waves := testutil.SeedChapter(t, db, physics, "Waves", 0)
	optics := testutil.SeedChapter(t, db, physics, "Optics", 1)
	testutil.SeedPart(t, db, waves, "Theory", nil, 0)
	lensTheory := testutil.SeedPart(t, db, optics, "Lens theory", nil, 0)

	res, err := d.Execute(ctx, owner, Request{Action: ActionTogglePart, Data: map[string]interface{}{"part_name": "theory", "chapter_name": "optics"}})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Part == nil || res.Part.ID != lensTheory.ID || res.Part.Status != models.StatusInProgress {
		t.Errorf("unexpected part: %+v", res.Part)
	}

	res, err = d.Execute(ctx, owner, Request{Action: ActionTogglePart, Data: map[string]interface{}{"part_name": "flashcards"}})
	if err != nil || res.Outcome != models.OutcomeNoop {
		t.Errorf("Expected silent no-op, got %+v, %v", res, err)
	}
}

func TestApplyPresetsByName(t *testing.T) {
	d, db := newTestDispatcher(t)
	physics := testutil.SeedSubject(t, db, owner, "Physics")
	waves := testutil.SeedChapter(t, db, physics, "Waves", 0)
	testutil.SeedPart(t, db, waves, "Lecture 1", nil, 0)
	testutil.SeedPart(t, db, waves, "Lecture 2", nil, 1)
	testutil.SeedPreset(t, db, physics, "Flashcards", 15, models.PresetPart, nil)

	res, err := d.Execute(context.Background(), owner, Request{
		Action: ActionApplyPresets,
		Data: map[string]interface{}{
			"chapter_name": "waves",
			"presets":      []interface{}{"flashcards"},
			"target":       "all",
		},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Outcome != models.OutcomeApplied || len(res.Created) != 2 {
		t.Errorf("Expected a Flashcards part under each lecture, got %+v", res)
	}

	res, err = d.Execute(context.Background(), owner, Request{
		Action: ActionApplyPresets,
		Data:   map[string]interface{}{"chapter_name": "waves", "presets": "Mind maps"},
	})
	if err != nil || res.Outcome != models.OutcomeNoop {
		t.Errorf("Expected no-op for unknown presets, got %+v, %v", res, err)
	}
}

func TestExecuteRejects(t *testing.T) {
	d, _ := newTestDispatcher(t)

	if _, err := d.Execute(context.Background(), "", Request{Action: ActionAddSubject}); !errors.Is(err, services.ErrNotAuthenticated) {
		t.Errorf("Expected ErrNotAuthenticated, got %v", err)
	}
	if _, err := d.Execute(context.Background(), owner, Request{Action: "ADD_HABIT"}); !errors.Is(err, services.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for an unknown action, got %v", err)
	}
}

func TestDataHelpers(t *testing.T) {
	data := map[string]interface{}{
		"empty":   "  ",
		"title":   " Waves ",
		"count":   float64(3),
		"presets": []interface{}{"a", 1.0, " b "},
		"csv":     "x, ,y",
	}
	if got := text(data, "missing", "empty", "title"); got != "Waves" {
		t.Errorf("text = %q", got)
	}
	if got := text(data, "count"); got != "3" {
		t.Errorf("text(count) = %q", got)
	}
	if got := list(data, "presets"); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("list(presets) = %v", got)
	}
	if got := list(data, "csv"); !reflect.DeepEqual(got, []string{"x", "y"}) {
		t.Errorf("list(csv) = %v", got)
	}
}
