package study

import (
	"testing"

	"github.com/localnerve/studyhub/internal/models"
)

func TestTree(t *testing.T) {
	parts := []models.Part{
		{ID: "a", Name: "A"},
		{ID: "a1", Name: "A1", ParentID: ptr("a")},
		{ID: "a1x", Name: "A1x", ParentID: ptr("a1")},
		{ID: "b", Name: "B"},
		{ID: "orphan", Name: "Orphan", ParentID: ptr("missing")},
	}

	roots := Tree(parts)
	if len(roots) != 3 {
		t.Fatalf("Expected 3 roots, got %d", len(roots))
	}
	if roots[0].ID != "a" || roots[1].ID != "b" || roots[2].ID != "orphan" {
		t.Errorf("unexpected root order: %s %s %s", roots[0].ID, roots[1].ID, roots[2].ID)
	}
	if len(roots[0].Children) != 1 || len(roots[0].Children[0].Children) != 1 {
		t.Errorf("Expected A -> A1 -> A1x nesting")
	}
}

func TestDescendants(t *testing.T) {
	parts := []models.Part{
		{ID: "a"},
		{ID: "a1", ParentID: ptr("a")},
		{ID: "a2", ParentID: ptr("a")},
		{ID: "a1x", ParentID: ptr("a1")},
		{ID: "b"},
	}

	got := Descendants(parts, "a")
	want := []string{"a1x", "a1", "a2"}
	if len(got) != len(want) {
		t.Fatalf("Descendants = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Descendants = %v, want %v", got, want)
			break
		}
	}

	if leaf := Descendants(parts, "b"); len(leaf) != 0 {
		t.Errorf("Expected no descendants for a leaf, got %v", leaf)
	}
}

func TestDescendantsSurvivesCycles(t *testing.T) {
	parts := []models.Part{
		{ID: "x", ParentID: ptr("y")},
		{ID: "y", ParentID: ptr("x")},
	}
	got := Descendants(parts, "x")
	if len(got) != 1 || got[0] != "y" {
		t.Errorf("Descendants = %v, want [y]", got)
	}
}
