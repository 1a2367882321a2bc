package testutil

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/localnerve/studyhub/internal/models"
	"gorm.io/gorm"
)

// base time for seeded rows; each seed call moves it forward so created_at order matches call order
var seedClock = time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

func nextSeedTime() time.Time {
	seedClock = seedClock.Add(time.Second)
	return seedClock
}

// SeedSubject inserts a subject for owner
func SeedSubject(t testing.TB, db *gorm.DB, ownerID, name string) models.Subject {
	t.Helper()
	s := models.Subject{ID: uuid.NewString(), OwnerID: ownerID, Name: name, CreatedAt: nextSeedTime()}
	if err := db.Create(&s).Error; err != nil {
		t.Fatalf("Failed to seed subject: %v", err)
	}
	return s
}

// SeedChapter inserts a chapter without planting any presets
func SeedChapter(t testing.TB, db *gorm.DB, subject models.Subject, name string, sortOrder int) models.Chapter {
	t.Helper()
	c := models.Chapter{
		ID:        uuid.NewString(),
		OwnerID:   subject.OwnerID,
		SubjectID: subject.ID,
		Name:      name,
		SortOrder: sortOrder,
		CreatedAt: nextSeedTime(),
	}
	if err := db.Create(&c).Error; err != nil {
		t.Fatalf("Failed to seed chapter: %v", err)
	}
	return c
}

// SeedPart inserts a not-started part. parent may be nil.
func SeedPart(t testing.TB, db *gorm.DB, chapter models.Chapter, name string, parent *models.Part, sortOrder int) models.Part {
	t.Helper()
	p := models.Part{
		ID:               uuid.NewString(),
		OwnerID:          chapter.OwnerID,
		ChapterID:        chapter.ID,
		Name:             name,
		Status:           models.StatusNotStarted,
		EstimatedMinutes: 30,
		SortOrder:        sortOrder,
		CreatedAt:        nextSeedTime(),
	}
	if parent != nil {
		p.ParentID = &parent.ID
	}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("Failed to seed part: %v", err)
	}
	return p
}

// SeedPreset inserts a preset. parent may be nil.
func SeedPreset(t testing.TB, db *gorm.DB, subject models.Subject, name string, minutes int, kind models.PresetType, parent *models.Preset) models.Preset {
	t.Helper()
	p := models.Preset{
		ID:               uuid.NewString(),
		SubjectID:        subject.ID,
		Name:             name,
		EstimatedMinutes: minutes,
		PresetType:       kind,
		CreatedAt:        nextSeedTime(),
	}
	if parent != nil {
		p.ParentID = &parent.ID
	}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("Failed to seed preset: %v", err)
	}
	return p
}

// CountRows counts the rows of model matching the condition
func CountRows(t testing.TB, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	if err := db.Model(model).Where(query, args...).Count(&n).Error; err != nil {
		t.Fatalf("Failed to count rows: %v", err)
	}
	return n
}
