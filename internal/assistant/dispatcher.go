// dispatcher.go
//
// Executes structured assistant actions against the study hierarchy
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of studyhub.
// studyhub is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// studyhub is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with studyhub.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

// Package assistant executes the structured actions a chat assistant emits
// ({action, data}) as study operations, and keeps a log of every action run.
package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/localnerve/studyhub/internal/models"
	"github.com/localnerve/studyhub/internal/services"
	"github.com/localnerve/studyhub/internal/study"
)

// Supported actions
const (
	ActionAddSubject    = "ADD_STUDY_SUBJECT"
	ActionAddChapter    = "ADD_STUDY_CHAPTER"
	ActionDeleteChapter = "DELETE_STUDY_CHAPTER"
	ActionTogglePart    = "TOGGLE_STUDY_PART"
	ActionApplyPresets  = "APPLY_STUDY_PRESETS"
)

// DefaultSubject receives chapters added without a subject
const DefaultSubject = "General"

// Request is one structured action
type Request struct {
	Action string                 `json:"action" validate:"required"`
	Data   map[string]interface{} `json:"data"`
}

// Result reports what an action touched. Outcome is one of the models.Outcome values.
type Result struct {
	Action  string          `json:"action"`
	Outcome string          `json:"outcome"`
	Subject *models.Subject `json:"subject,omitempty"`
	Chapter *models.Chapter `json:"chapter,omitempty"`
	Part    *models.Part    `json:"part,omitempty"`
	Created []models.Part   `json:"created,omitempty"`
}

// Dispatcher runs assistant actions through the StudyService
type Dispatcher struct {
	Study *services.StudyService

	now   func() time.Time
	newID func() string
}

// NewDispatcher creates a Dispatcher over svc
func NewDispatcher(svc *services.StudyService) *Dispatcher {
	return &Dispatcher{
		Study: svc,
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
}

type handler func(ctx context.Context, ownerID string, data map[string]interface{}) (*Result, error)

func (d *Dispatcher) handlers() map[string]handler {
	return map[string]handler{
		ActionAddSubject:    d.addSubject,
		ActionAddChapter:    d.addChapter,
		ActionDeleteChapter: d.deleteChapter,
		ActionTogglePart:    d.togglePart,
		ActionApplyPresets:  d.applyPresets,
	}
}

// Actions lists the supported action names
func Actions() []string {
	return []string{ActionAddSubject, ActionAddChapter, ActionDeleteChapter, ActionTogglePart, ActionApplyPresets}
}

// Execute runs one action for ownerID and records it in the action log.
// A lookup that matches nothing is not an error; the result outcome is models.OutcomeNoop.
func (d *Dispatcher) Execute(ctx context.Context, ownerID string, req Request) (*Result, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, services.ErrNotAuthenticated
	}

	action := strings.ToUpper(strings.TrimSpace(req.Action))
	h, ok := d.handlers()[action]
	if !ok {
		return nil, fmt.Errorf("%w: unknown action %q", services.ErrInvalidInput, req.Action)
	}
	if req.Data == nil {
		req.Data = map[string]interface{}{}
	}

	result, err := h(ctx, ownerID, req.Data)
	outcome := models.OutcomeFailed
	if err == nil {
		result.Action = action
		outcome = result.Outcome
	}

	d.record(ctx, ownerID, action, req.Data, outcome, err)
	d.Study.Metrics.AssistantActions.WithLabelValues(action, outcome).Inc()
	return result, err
}

// record writes the action log row. Failing to log never fails the action.
func (d *Dispatcher) record(ctx context.Context, ownerID, action string, data map[string]interface{}, outcome string, actionErr error) {
	payload, err := models.NewJSON(data)
	if err != nil {
		d.Study.Log.Warn("assistant payload not encodable", "action", action, "error", err)
	}
	row := models.AssistantAction{
		ID:        d.newID(),
		OwnerID:   ownerID,
		Action:    action,
		Payload:   payload,
		Outcome:   outcome,
		CreatedAt: d.now(),
	}
	if actionErr != nil {
		row.Error = actionErr.Error()
	}
	if err := d.Study.DB.WithContext(ctx).Create(&row).Error; err != nil {
		d.Study.Log.Warn("assistant action log write failed", "action", action, "error", err)
	}
}

func (d *Dispatcher) addSubject(ctx context.Context, ownerID string, data map[string]interface{}) (*Result, error) {
	name := text(data, "subject", "name", "title")
	if name == "" {
		return nil, fmt.Errorf("%w: subject is required", services.ErrInvalidInput)
	}

	snap, err := d.Study.LoadSnapshot(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if existing := findSubject(snap.Subjects, name); existing != nil {
		return &Result{Outcome: models.OutcomeNoop, Subject: existing}, nil
	}

	subject, err := d.Study.CreateSubject(ctx, ownerID, name)
	if err != nil {
		return nil, err
	}
	return &Result{Outcome: models.OutcomeApplied, Subject: subject}, nil
}

func (d *Dispatcher) addChapter(ctx context.Context, ownerID string, data map[string]interface{}) (*Result, error) {
	chapterName := text(data, "chapter_name", "title", "name")
	if chapterName == "" {
		return nil, fmt.Errorf("%w: chapter_name is required", services.ErrInvalidInput)
	}
	subjectName := text(data, "subject")
	if subjectName == "" {
		subjectName = DefaultSubject
	}

	snap, err := d.Study.LoadSnapshot(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	subject := findSubject(snap.Subjects, subjectName)
	if subject == nil {
		if subject, err = d.Study.CreateSubject(ctx, ownerID, subjectName); err != nil {
			return nil, err
		}
	}

	chapter, created, err := d.Study.CreateChapter(ctx, ownerID, subject.ID, chapterName)
	if err != nil {
		return nil, err
	}
	return &Result{Outcome: models.OutcomeApplied, Subject: subject, Chapter: chapter, Created: created}, nil
}

func (d *Dispatcher) deleteChapter(ctx context.Context, ownerID string, data map[string]interface{}) (*Result, error) {
	snap, err := d.Study.LoadSnapshot(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	chapter, err := chapterFromData(snap, data)
	if err != nil || chapter == nil {
		return noop(err)
	}

	if err := d.Study.DeleteChapter(ctx, ownerID, chapter.ID); err != nil {
		return nil, err
	}
	return &Result{Outcome: models.OutcomeApplied, Chapter: chapter}, nil
}

func (d *Dispatcher) togglePart(ctx context.Context, ownerID string, data map[string]interface{}) (*Result, error) {
	term := strings.ToLower(text(data, "part_name", "title", "id"))
	if term == "" {
		return nil, fmt.Errorf("%w: part_name or id is required", services.ErrInvalidInput)
	}

	snap, err := d.Study.LoadSnapshot(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	scope := ""
	if text(data, "chapter_name", "chapter_id") != "" {
		chapter, err := chapterFromData(snap, map[string]interface{}{
			"chapter_name": text(data, "chapter_name"),
			"id":           text(data, "chapter_id"),
		})
		if err != nil || chapter == nil {
			return noop(err)
		}
		scope = chapter.ID
	}

	var match *models.Part
	for i := range snap.Parts {
		p := &snap.Parts[i]
		if scope != "" && p.ChapterID != scope {
			continue
		}
		if strings.ToLower(p.ID) == term || strings.Contains(strings.ToLower(p.Name), term) {
			match = p
			break
		}
	}
	if match == nil {
		return noop(nil)
	}

	part, err := d.Study.TogglePart(ctx, ownerID, match.ID)
	if err != nil {
		return nil, err
	}
	return &Result{Outcome: models.OutcomeApplied, Part: part}, nil
}

func (d *Dispatcher) applyPresets(ctx context.Context, ownerID string, data map[string]interface{}) (*Result, error) {
	wanted := list(data, "presets")
	if len(wanted) == 0 {
		return nil, fmt.Errorf("%w: presets are required", services.ErrInvalidInput)
	}

	snap, err := d.Study.LoadSnapshot(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	chapter, err := chapterFromData(snap, data)
	if err != nil || chapter == nil {
		return noop(err)
	}

	var presetIDs []string
	for _, p := range snap.Presets {
		if p.SubjectID != chapter.SubjectID {
			continue
		}
		for _, w := range wanted {
			if p.ID == w || strings.EqualFold(p.Name, w) {
				presetIDs = append(presetIDs, p.ID)
				break
			}
		}
	}
	if len(presetIDs) == 0 {
		return noop(nil)
	}

	target := ""
	switch t := strings.ToLower(text(data, "target")); t {
	case "", "chapter":
	case "all", study.AllParts:
		target = study.AllParts
	default:
		for _, p := range snap.Parts {
			if p.ChapterID == chapter.ID && (strings.ToLower(p.ID) == t || strings.EqualFold(p.Name, t)) {
				target = p.ID
				break
			}
		}
		if target == "" {
			return noop(nil)
		}
	}

	created, err := d.Study.ApplyPresets(ctx, ownerID, chapter.ID, presetIDs, target)
	if err != nil {
		return nil, err
	}
	outcome := models.OutcomeApplied
	if len(created) == 0 {
		outcome = models.OutcomeNoop
	}
	return &Result{Outcome: outcome, Chapter: chapter, Created: created}, nil
}

// chapterFromData finds the first chapter whose id equals the search term, or whose
// chapter or subject name contains it. An empty term is rejected rather than matching everything.
func chapterFromData(snap *services.Snapshot, data map[string]interface{}) (*models.Chapter, error) {
	term := strings.ToLower(text(data, "chapter_name", "title", "id"))
	if term == "" {
		return nil, fmt.Errorf("%w: chapter_name or id is required", services.ErrInvalidInput)
	}

	subjects := make(map[string]string, len(snap.Subjects))
	for _, s := range snap.Subjects {
		subjects[s.ID] = strings.ToLower(s.Name)
	}
	for i := range snap.Chapters {
		c := &snap.Chapters[i]
		if strings.ToLower(c.ID) == term {
			return c, nil
		}
	}
	for i := range snap.Chapters {
		c := &snap.Chapters[i]
		if strings.Contains(strings.ToLower(c.Name), term) || strings.Contains(subjects[c.SubjectID], term) {
			return c, nil
		}
	}
	return nil, nil
}

func findSubject(subjects []models.Subject, name string) *models.Subject {
	for i := range subjects {
		if strings.EqualFold(strings.TrimSpace(subjects[i].Name), strings.TrimSpace(name)) {
			return &subjects[i]
		}
	}
	return nil
}

func noop(err error) (*Result, error) {
	if err != nil {
		return nil, err
	}
	return &Result{Outcome: models.OutcomeNoop}, nil
}
