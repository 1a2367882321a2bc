package models

import (
	"time"
)

// PartStatus is the lifecycle state of a Part
type PartStatus string

const (
	StatusNotStarted PartStatus = "not-started"
	StatusInProgress PartStatus = "in-progress"
	StatusCompleted  PartStatus = "completed"
)

// Valid reports whether s is one of the three known statuses
func (s PartStatus) Valid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// PresetType selects how a Preset is applied
type PresetType string

const (
	// PresetChapter presets are planted into every new chapter of their subject.
	PresetChapter PresetType = "chapter"
	// PresetPart presets are only applied on request.
	PresetPart PresetType = "part"
)

// Subject is the root of a study tree
type Subject struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	OwnerID    string    `gorm:"size:64;not null;index" json:"owner_id"`
	Name       string    `gorm:"size:255;not null" json:"name"`
	ColorIndex int       `gorm:"not null" json:"color_index"`
	CreatedAt  time.Time `json:"created_at"`
}

// Chapter is a unit of material within a Subject
type Chapter struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	OwnerID   string    `gorm:"size:64;not null;index" json:"owner_id"`
	SubjectID string    `gorm:"size:36;not null;index" json:"subject_id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	SortOrder int       `gorm:"not null" json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
}

// Part is a schedulable unit of work within a Chapter. ParentID, when set,
// names another Part of the same chapter.
type Part struct {
	ID               string     `gorm:"primaryKey;size:36" json:"id"`
	OwnerID          string     `gorm:"size:64;not null;index" json:"owner_id"`
	ChapterID        string     `gorm:"size:36;not null;index" json:"chapter_id"`
	ParentID         *string    `gorm:"size:36;index" json:"parent_id"`
	Name             string     `gorm:"size:255;not null" json:"name"`
	Status           PartStatus `gorm:"size:16;not null" json:"status"`
	EstimatedMinutes int        `gorm:"not null" json:"estimated_minutes"`
	ScheduledDate    *string    `gorm:"size:10" json:"scheduled_date,omitempty"`
	ScheduledTime    *string    `gorm:"size:8" json:"scheduled_time,omitempty"`
	Notes            *string    `gorm:"type:text" json:"notes,omitempty"`
	SortOrder        int        `gorm:"not null" json:"sort_order"`
	CreatedAt        time.Time  `json:"created_at"`
	CompletedAt      *time.Time `json:"completed_at"`
}

// Preset is a reusable part template belonging to a Subject. ParentID, when
// set, names another Preset of the same subject.
type Preset struct {
	ID               string     `gorm:"primaryKey;size:36" json:"id"`
	SubjectID        string     `gorm:"size:36;not null;index" json:"subject_id"`
	ParentID         *string    `gorm:"size:36;index" json:"parent_id"`
	Name             string     `gorm:"size:255;not null" json:"name"`
	EstimatedMinutes int        `gorm:"not null" json:"estimated_minutes"`
	PresetType       PresetType `gorm:"size:16" json:"preset_type"`
	CreatedAt        time.Time  `json:"created_at"`
}

// Type returns the preset type, reading rows stored before the column existed as chapter templates.
func (p Preset) Type() PresetType {
	if p.PresetType == "" {
		return PresetChapter
	}
	return p.PresetType
}

func (Subject) TableName() string {
	return "study_subjects"
}

func (Chapter) TableName() string {
	return "study_chapters"
}

func (Part) TableName() string {
	return "study_parts"
}

func (Preset) TableName() string {
	return "study_common_presets"
}
