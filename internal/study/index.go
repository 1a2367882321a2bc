package study

import (
	"math"

	"github.com/localnerve/studyhub/internal/models"
)

// Hierarchy is the derived view of one owner's study data
type Hierarchy struct {
	ChaptersBySubject map[string][]models.Chapter `json:"chaptersBySubject"`
	PartsByChapter    map[string][]models.Part    `json:"partsByChapter"`
	ChapterProgress   map[string]int              `json:"chapterProgress"`
	SubjectProgress   map[string]int              `json:"subjectProgress"`
}

// Stats are the aggregate part counters across every subject
type Stats struct {
	TotalParts      int `json:"totalParts"`
	CompletedParts  int `json:"completedParts"`
	InProgressParts int `json:"inProgressParts"`
	OverallProgress int `json:"overallProgress"`
}

// Index groups chapters by subject and parts by chapter, and derives progress.
// Input order is kept inside every group, so callers pass rows ordered by (sort_order, created_at).
// Chapter progress counts parts at every depth under the chapter.
func Index(subjects []models.Subject, chapters []models.Chapter, parts []models.Part) Hierarchy {
	h := Hierarchy{
		ChaptersBySubject: make(map[string][]models.Chapter, len(subjects)),
		PartsByChapter:    make(map[string][]models.Part, len(chapters)),
		ChapterProgress:   make(map[string]int, len(chapters)),
		SubjectProgress:   make(map[string]int, len(subjects)),
	}

	for _, s := range subjects {
		h.ChaptersBySubject[s.ID] = []models.Chapter{}
	}
	for _, c := range chapters {
		h.ChaptersBySubject[c.SubjectID] = append(h.ChaptersBySubject[c.SubjectID], c)
		if _, ok := h.PartsByChapter[c.ID]; !ok {
			h.PartsByChapter[c.ID] = []models.Part{}
		}
	}
	for _, p := range parts {
		h.PartsByChapter[p.ChapterID] = append(h.PartsByChapter[p.ChapterID], p)
	}

	for _, c := range chapters {
		done, total := countCompleted(h.PartsByChapter[c.ID])
		h.ChapterProgress[c.ID] = Percent(done, total)
	}
	for _, s := range subjects {
		var done, total int
		for _, c := range h.ChaptersBySubject[s.ID] {
			d, t := countCompleted(h.PartsByChapter[c.ID])
			done += d
			total += t
		}
		h.SubjectProgress[s.ID] = Percent(done, total)
	}

	return h
}

// Chapters returns the chapters of a subject, empty when unknown
func (h Hierarchy) Chapters(subjectID string) []models.Chapter {
	if cs, ok := h.ChaptersBySubject[subjectID]; ok {
		return cs
	}
	return []models.Chapter{}
}

// Parts returns the parts of a chapter, empty when unknown
func (h Hierarchy) Parts(chapterID string) []models.Part {
	if ps, ok := h.PartsByChapter[chapterID]; ok {
		return ps
	}
	return []models.Part{}
}

// Summarize counts parts by status across the whole set
func Summarize(parts []models.Part) Stats {
	var st Stats
	for _, p := range parts {
		switch p.Status {
		case models.StatusCompleted:
			st.CompletedParts++
		case models.StatusInProgress:
			st.InProgressParts++
		}
	}
	st.TotalParts = len(parts)
	st.OverallProgress = Percent(st.CompletedParts, st.TotalParts)
	return st
}

// Percent is round(100 * done / total), 0 when total is 0
func Percent(done, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(done) * 100 / float64(total)))
}

func countCompleted(parts []models.Part) (done, total int) {
	for _, p := range parts {
		if p.Status == models.StatusCompleted {
			done++
		}
	}
	return done, len(parts)
}
