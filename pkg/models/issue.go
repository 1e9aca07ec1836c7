package models

import (
	"strings"
	"time"
)

// StatusCategory is the normalized three-way status bucket derived from the
// tracker's free-text status. The raw status string is kept alongside it;
// the category is what the reasoning engine keys on.
type StatusCategory string

const (
	// StatusCategoryTodo indicates work that has not started.
	StatusCategoryTodo StatusCategory = "todo"
	// StatusCategoryInProgress indicates work that is underway.
	StatusCategoryInProgress StatusCategory = "in-progress"
	// StatusCategoryDone indicates completed work.
	StatusCategoryDone StatusCategory = "done"
)

// Valid returns true if the category is a known value.
func (c StatusCategory) Valid() bool {
	switch c {
	case StatusCategoryTodo, StatusCategoryInProgress, StatusCategoryDone:
		return true
	default:
		return false
	}
}

// Assignee identifies the person an issue is assigned to in the tracker.
type Assignee struct {
	// AccountID is the tracker's opaque identifier, used for write operations.
	AccountID string `json:"account_id"`
	// DisplayName is the human-readable name.
	DisplayName string `json:"display_name"`
	// Email is the account email, if the tracker exposes it.
	Email string `json:"email,omitempty"`
}

// Issue is a read-only snapshot of one unit of tracked work. Issues are
// fetched fresh per request; the tracker remains the source of truth and
// nothing in this struct is mutated locally.
type Issue struct {
	// Key is the unique, stable issue key in PROJECT-NUMBER form.
	Key string `json:"key"`
	// Summary is the short issue title.
	Summary string `json:"summary"`
	// Description provides detailed information about the issue.
	Description string `json:"description,omitempty"`
	// Type is the tracker issue type (Task, Story, Bug, ...).
	Type string `json:"type"`
	// Status is the tracker's free-text status, kept verbatim.
	Status string `json:"status"`
	// StatusCategory is the normalized bucket derived from Status.
	StatusCategory StatusCategory `json:"status_category"`
	// Assignee is the current assignee, nil when unassigned.
	Assignee *Assignee `json:"assignee,omitempty"`
	// DueDate is the due date, nil when none is set.
	DueDate *time.Time `json:"due_date,omitempty"`
	// EstimatedHours is the effort estimate, nil when unestimated.
	EstimatedHours *float64 `json:"estimated_hours,omitempty"`
	// ParentKey is the key of the parent issue, empty for top-level issues.
	ParentKey string `json:"parent_key,omitempty"`
}

// Done reports whether the issue's normalized status is done.
func (i Issue) Done() bool {
	return i.StatusCategory == StatusCategoryDone
}

// AssignedTo reports whether the issue is assigned to the given member,
// preferring case-insensitive email equality and falling back to exact
// display-name equality when either side lacks an email.
func (i Issue) AssignedTo(m TeamMember) bool {
	if i.Assignee == nil {
		return false
	}
	if m.Email != "" && i.Assignee.Email != "" {
		return strings.EqualFold(i.Assignee.Email, m.Email)
	}
	return i.Assignee.DisplayName == m.Name
}
