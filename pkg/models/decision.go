package models

import "time"

// ConfidenceTier buckets an allocation confidence score for display.
type ConfidenceTier string

const (
	// ConfidenceHigh indicates a confidence score of 70 or above.
	ConfidenceHigh ConfidenceTier = "high"
	// ConfidenceMedium indicates a confidence score of 40 or above.
	ConfidenceMedium ConfidenceTier = "medium"
	// ConfidenceLow indicates a confidence score below 40.
	ConfidenceLow ConfidenceTier = "low"
)

// ConfidenceTierFor returns the tier for a 0-100 confidence score.
func ConfidenceTierFor(score float64) ConfidenceTier {
	switch {
	case score >= 70:
		return ConfidenceHigh
	case score >= 40:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// PendingDecision is an engine-proposed assignment awaiting human
// confirmation. It is never stored server-side: the engine serializes it
// into the response and the caller must echo it back unchanged on the
// following turn to redeem it. Redemption consumes the decision; a second
// redemption of the same decision is a no-op because the engine
// re-validates against live tracker data before writing.
type PendingDecision struct {
	// ID uniquely identifies this decision.
	ID string `json:"id"`
	// IssueKey is the issue the assignment applies to.
	IssueKey string `json:"issue_key"`
	// AssigneeID is the proposed assignee's account ID. It may carry the
	// raw user-supplied token when identity resolution was degraded.
	AssigneeID string `json:"assignee_id"`
	// AssigneeName is the proposed assignee's display name.
	AssigneeName string `json:"assignee_name"`
	// Confidence is the allocation confidence tier behind the proposal.
	Confidence ConfidenceTier `json:"confidence"`
	// Rationale is the human-readable reasoning behind the proposal.
	Rationale string `json:"rationale"`
	// CreatedAt is when the engine proposed the assignment.
	CreatedAt time.Time `json:"created_at"`
}
