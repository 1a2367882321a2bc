package study

import (
	"testing"

	"github.com/localnerve/studyhub/internal/models"
)

func TestIndexGroupsAndProgress(t *testing.T) {
	subjects := []models.Subject{{ID: "s1", Name: "Physics"}, {ID: "s2", Name: "Empty"}}
	chapters := []models.Chapter{
		{ID: "c1", SubjectID: "s1", Name: "Waves", SortOrder: 0},
		{ID: "c2", SubjectID: "s1", Name: "Optics", SortOrder: 1},
	}
	parts := []models.Part{
		{ID: "p1", ChapterID: "c1", Name: "Theory", Status: models.StatusCompleted},
		{ID: "p2", ChapterID: "c1", Name: "Problems", ParentID: ptr("p1"), Status: models.StatusInProgress},
		{ID: "p3", ChapterID: "c1", Name: "Review", Status: models.StatusNotStarted},
		{ID: "p4", ChapterID: "c2", Name: "Lenses", Status: models.StatusCompleted},
	}

	h := Index(subjects, chapters, parts)

	if got := h.Chapters("s1"); len(got) != 2 || got[0].ID != "c1" || got[1].ID != "c2" {
		t.Errorf("unexpected chapters for s1: %+v", got)
	}
	if got := h.Chapters("s2"); got == nil || len(got) != 0 {
		t.Errorf("Expected an empty chapter list for s2, got %v", got)
	}
	if got := h.Chapters("unknown"); got == nil || len(got) != 0 {
		t.Errorf("Expected an empty chapter list for an unknown subject, got %v", got)
	}
	if got := h.Parts("c1"); len(got) != 3 {
		t.Errorf("Expected nested parts to be counted under c1, got %d", len(got))
	}

	// 1 of 3 -> 33, 1 of 1 -> 100, 2 of 4 -> 50
	if got := h.ChapterProgress["c1"]; got != 33 {
		t.Errorf("c1 progress = %d, want 33", got)
	}
	if got := h.ChapterProgress["c2"]; got != 100 {
		t.Errorf("c2 progress = %d, want 100", got)
	}
	if got := h.SubjectProgress["s1"]; got != 50 {
		t.Errorf("s1 progress = %d, want 50", got)
	}
	if got := h.SubjectProgress["s2"]; got != 0 {
		t.Errorf("s2 progress = %d, want 0", got)
	}
}

func TestIndexChapterWithoutParts(t *testing.T) {
	h := Index(nil, []models.Chapter{{ID: "c1", SubjectID: "s1"}}, nil)
	if got, ok := h.ChapterProgress["c1"]; !ok || got != 0 {
		t.Errorf("Expected progress 0 for an empty chapter, got %d (present=%v)", got, ok)
	}
}

func TestIndexProgressNeverDecreasesOnCompletion(t *testing.T) {
	chapters := []models.Chapter{{ID: "c1", SubjectID: "s1"}}
	parts := make([]models.Part, 7)
	for i := range parts {
		parts[i] = models.Part{ID: string(rune('a' + i)), ChapterID: "c1", Status: models.StatusNotStarted}
	}

	last := Index(nil, chapters, parts).ChapterProgress["c1"]
	for i := range parts {
		parts[i].Status = models.StatusCompleted
		got := Index(nil, chapters, parts).ChapterProgress["c1"]
		if got < last {
			t.Fatalf("progress dropped from %d to %d after completing part %d", last, got, i)
		}
		last = got
	}
	if last != 100 {
		t.Errorf("Expected 100 when every part is completed, got %d", last)
	}
}

func TestSummarize(t *testing.T) {
	parts := []models.Part{
		{Status: models.StatusCompleted},
		{Status: models.StatusCompleted},
		{Status: models.StatusInProgress},
	}
	got := Summarize(parts)
	want := Stats{TotalParts: 3, CompletedParts: 2, InProgressParts: 1, OverallProgress: 67}
	if got != want {
		t.Errorf("Summarize = %+v, want %+v", got, want)
	}

	if empty := Summarize(nil); empty != (Stats{}) {
		t.Errorf("Expected zero stats for no parts, got %+v", empty)
	}
}

func TestPercent(t *testing.T) {
	tests := []struct {
		done, total, want int
	}{
		{0, 0, 0},
		{1, 2, 50},
		{1, 3, 33},
		{2, 3, 67},
		{3, 3, 100},
	}
	for _, tt := range tests {
		if got := Percent(tt.done, tt.total); got != tt.want {
			t.Errorf("Percent(%d, %d) = %d, want %d", tt.done, tt.total, got, tt.want)
		}
	}
}
