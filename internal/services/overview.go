package services

import (
	"context"

	"github.com/localnerve/studyhub/internal/cache"
	"github.com/localnerve/studyhub/internal/models"
	"github.com/localnerve/studyhub/internal/observability"
	"github.com/localnerve/studyhub/internal/study"
	"gorm.io/gorm"
	"gorm.io/hints"
)

// Snapshot is every study record of one owner, in display order
type Snapshot struct {
	Subjects []models.Subject `json:"subjects"`
	Chapters []models.Chapter `json:"chapters"`
	Parts    []models.Part    `json:"parts"`
	Presets  []models.Preset  `json:"presets"`
}

// Overview is a snapshot with its derived hierarchy and aggregate stats
type Overview struct {
	Snapshot
	Hierarchy study.Hierarchy `json:"hierarchy"`
	Stats     study.Stats     `json:"stats"`
}

// snapshotQuery tags snapshot reads so they are easy to find in the database's query log
func snapshotQuery(ctx context.Context, db *gorm.DB) *gorm.DB {
	return db.WithContext(ctx).Clauses(hints.CommentBefore("select", "studyhub:snapshot"))
}

// LoadSnapshot reads the owner's records fresh from the database.
// Chapters and parts come back ordered by (sort_order, created_at).
func (s *StudyService) LoadSnapshot(ctx context.Context, ownerID string) (snap *Snapshot, err error) {
	if err = requireOwner(ownerID); err != nil {
		return nil, err
	}
	ctx, span := observability.StartSpan(ctx, "study.LoadSnapshot", ownerID)
	defer func() { observability.EndSpan(span, err) }()

	snap = &Snapshot{
		Subjects: []models.Subject{},
		Chapters: []models.Chapter{},
		Parts:    []models.Part{},
		Presets:  []models.Preset{},
	}

	if err = snapshotQuery(ctx, s.DB).
		Where("owner_id = ?", ownerID).
		Order("created_at ASC").Order("id ASC").
		Find(&snap.Subjects).Error; err != nil {
		return nil, err
	}
	if err = snapshotQuery(ctx, s.DB).
		Where("owner_id = ?", ownerID).
		Order("sort_order ASC").Order("created_at ASC").
		Find(&snap.Chapters).Error; err != nil {
		return nil, err
	}
	if err = snapshotQuery(ctx, s.DB).
		Where("owner_id = ?", ownerID).
		Order("sort_order ASC").Order("created_at ASC").
		Find(&snap.Parts).Error; err != nil {
		return nil, err
	}

	if len(snap.Subjects) > 0 {
		ids := make([]string, len(snap.Subjects))
		for i, subject := range snap.Subjects {
			ids[i] = subject.ID
		}
		if err = snapshotQuery(ctx, s.DB).
			Where("subject_id IN ?", ids).
			Order("created_at ASC").Order("id ASC").
			Find(&snap.Presets).Error; err != nil {
			return nil, err
		}
	}

	return snap, nil
}

// Overview returns the owner's snapshot with hierarchy and stats, served from the cache when present
func (s *StudyService) Overview(ctx context.Context, ownerID string) (*Overview, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}

	key := cache.OverviewKey(ownerID)
	var cached Overview
	found, err := s.Cache.Get(ctx, key, &cached)
	if err != nil {
		s.Log.Warn("overview cache read failed", "owner", ownerID, "error", err)
	}
	if found && err == nil {
		s.Metrics.CacheLookups.WithLabelValues("hit").Inc()
		return &cached, nil
	}
	s.Metrics.CacheLookups.WithLabelValues("miss").Inc()

	snap, err := s.LoadSnapshot(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	ov := BuildOverview(snap)

	if err := s.Cache.Set(ctx, key, ov); err != nil {
		s.Log.Warn("overview cache write failed", "owner", ownerID, "error", err)
	}
	return ov, nil
}

// BuildOverview derives the hierarchy and stats of a snapshot
func BuildOverview(snap *Snapshot) *Overview {
	return &Overview{
		Snapshot:  *snap,
		Hierarchy: study.Index(snap.Subjects, snap.Chapters, snap.Parts),
		Stats:     study.Summarize(snap.Parts),
	}
}

// ChapterTree returns the parts of a chapter nested under their parents
func (s *StudyService) ChapterTree(ctx context.Context, ownerID, chapterID string) (*models.Chapter, []*study.PartNode, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, nil, err
	}
	chapter, err := s.findChapter(ctx, s.DB, ownerID, chapterID)
	if err != nil {
		return nil, nil, err
	}
	parts, err := chapterParts(ctx, s.DB, chapterID)
	if err != nil {
		return nil, nil, err
	}
	return chapter, study.Tree(parts), nil
}
