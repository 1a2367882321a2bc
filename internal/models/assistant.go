package models

import "time"

// Outcomes recorded for an assistant action
const (
	OutcomeApplied = "applied"
	OutcomeNoop    = "no-op"
	OutcomeFailed  = "failed"
)

// AssistantAction is the log row written for every structured action the assistant executes
type AssistantAction struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	OwnerID   string    `gorm:"size:64;not null;index" json:"owner_id"`
	Action    string    `gorm:"size:64;not null" json:"action"`
	Payload   JSON      `json:"payload"`
	Outcome   string    `gorm:"size:16;not null" json:"outcome"`
	Error     string    `gorm:"type:text" json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (AssistantAction) TableName() string {
	return "assistant_actions"
}
