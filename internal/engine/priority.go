package engine

import (
	"fmt"
	"math"
	"time"

	"github.com/projectnexus/taskpilot/pkg/models"
)

// PriorityTier buckets a priority score for display.
type PriorityTier string

const (
	// PriorityHigh is a score of 50 or above.
	PriorityHigh PriorityTier = "High"
	// PriorityMedium is a score of 30 or above.
	PriorityMedium PriorityTier = "Medium"
	// PriorityLow is everything below 30.
	PriorityLow PriorityTier = "Low"
)

// PriorityScore is the result of scoring one issue's urgency.
type PriorityScore struct {
	// Issue is the scored issue.
	Issue models.Issue `json:"issue"`
	// Score is the additive urgency score; larger means more urgent.
	Score int `json:"score"`
	// Tier is the display bucket for Score.
	Tier PriorityTier `json:"tier"`
	// Reasons lists the contributing terms in evaluation order:
	// due date, type, dependencies, effort. The order is fixed so the
	// rationale shown to users is deterministic.
	Reasons []string `json:"reasons"`
}

// CalculateTaskPriority derives an urgency score for one issue. The full
// issue list is only consulted for parent/child dependency lookups; the
// score for a given issue does not depend on list ordering. The reference
// time now anchors due-date proximity.
func CalculateTaskPriority(issue models.Issue, all []models.Issue, now time.Time) PriorityScore {
	score := 0
	var reasons []string

	// Due-date term: mutually exclusive bands, first match wins.
	if issue.DueDate != nil {
		days := DaysUntil(*issue.DueDate, now)
		switch {
		case days < 0:
			score += 50
			reasons = append(reasons, fmt.Sprintf("overdue by %d days", -days))
		case days <= 2:
			score += 40
			reasons = append(reasons, fmt.Sprintf("due in %d days", days))
		case days <= 7:
			score += 30
			reasons = append(reasons, "due within a week")
		case days <= 14:
			score += 20
			reasons = append(reasons, "due within two weeks")
		default:
			score += 10
			reasons = append(reasons, "due later")
		}
	} else {
		score += 5
		reasons = append(reasons, "no due date")
	}

	// Type term.
	switch issue.Type {
	case "Bug":
		score += 15
		reasons = append(reasons, "bug fix")
	case "Story":
		score += 10
		reasons = append(reasons, "story")
	}

	// Dependency terms are additive: an issue can both sit under an
	// incomplete parent and block open children of its own.
	if issue.ParentKey != "" {
		if parent, ok := findIssue(all, issue.ParentKey); ok && !parent.Done() {
			score += 15
			reasons = append(reasons, fmt.Sprintf("blocked by incomplete parent %s", parent.Key))
		}
	}
	if n := openChildren(all, issue.Key); n > 0 {
		score += 15
		reasons = append(reasons, fmt.Sprintf("blocks %d open subtasks", n))
	}

	// Effort term.
	if issue.EstimatedHours != nil {
		switch est := *issue.EstimatedHours; {
		case est > 20:
			score += 15
			reasons = append(reasons, fmt.Sprintf("large estimate (%.1fh)", est))
		case est > 8:
			score += 10
			reasons = append(reasons, fmt.Sprintf("sizeable estimate (%.1fh)", est))
		}
	}

	return PriorityScore{
		Issue:   issue,
		Score:   score,
		Tier:    priorityTierFor(score),
		Reasons: reasons,
	}
}

// PrioritizeIssues scores every issue in the snapshot, preserving input
// order. Callers that want a ranking sort the result themselves.
func PrioritizeIssues(issues []models.Issue, now time.Time) []PriorityScore {
	scores := make([]PriorityScore, 0, len(issues))
	for _, issue := range issues {
		scores = append(scores, CalculateTaskPriority(issue, issues, now))
	}
	return scores
}

// DaysUntil returns the whole days from now until the due date, rounding
// partial days up. A due date earlier than now yields a negative count.
func DaysUntil(due, now time.Time) int {
	return int(math.Ceil(due.Sub(now).Hours() / 24))
}

func priorityTierFor(score int) PriorityTier {
	switch {
	case score >= 50:
		return PriorityHigh
	case score >= 30:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

func findIssue(issues []models.Issue, key string) (models.Issue, bool) {
	for _, issue := range issues {
		if issue.Key == key {
			return issue, true
		}
	}
	return models.Issue{}, false
}

// openChildren counts non-done issues whose parent is the given key.
func openChildren(issues []models.Issue, key string) int {
	n := 0
	for _, issue := range issues {
		if issue.ParentKey == key && !issue.Done() {
			n++
		}
	}
	return n
}
