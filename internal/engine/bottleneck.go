package engine

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/projectnexus/taskpilot/pkg/models"
)

// RiskType classifies a detected bottleneck.
type RiskType string

const (
	// RiskResource flags an overloaded team member.
	RiskResource RiskType = "resource"
	// RiskDependency flags open work blocked behind an incomplete parent.
	RiskDependency RiskType = "dependency"
	// RiskDeadline flags an issue overdue or nearly due.
	RiskDeadline RiskType = "deadline"
)

// Severity ranks how urgent a bottleneck is.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// rank orders severities for sorting; higher sorts first.
func (s Severity) rank() int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// Bottleneck is one detected delivery risk.
type Bottleneck struct {
	// Type classifies the risk.
	Type RiskType `json:"type"`
	// Severity ranks its urgency.
	Severity Severity `json:"severity"`
	// Subject names what is at risk: a member name or an issue key.
	Subject string `json:"subject"`
	// Description explains the risk in one line.
	Description string `json:"description"`
	// Recommendation suggests a remediation.
	Recommendation string `json:"recommendation"`
}

// PredictBottlenecks runs the three risk detectors (resource overload,
// dependency blocking, deadline breach) over the current snapshot and
// returns their findings sorted by severity, stable on ties. Empty output
// means the project is healthy, never an error.
func PredictBottlenecks(workloads []WorkloadResult, issues []models.Issue, now time.Time) []Bottleneck {
	var risks []Bottleneck
	risks = append(risks, detectResourceRisks(workloads)...)
	risks = append(risks, detectDependencyRisks(issues)...)
	risks = append(risks, detectDeadlineRisks(issues, now)...)

	sort.SliceStable(risks, func(i, j int) bool {
		return risks[i].Severity.rank() > risks[j].Severity.rank()
	})

	return risks
}

// detectResourceRisks flags every overloaded member. Severity is high past
// 60 total hours, medium otherwise; the recommendation names the exact
// overflow beyond the weekly capacity.
func detectResourceRisks(workloads []WorkloadResult) []Bottleneck {
	var risks []Bottleneck
	for _, w := range workloads {
		if !w.Overloaded {
			continue
		}
		severity := SeverityMedium
		if w.TotalEstimatedHours > 60 {
			severity = SeverityHigh
		}
		overflow := math.Round(w.TotalEstimatedHours - WeeklyCapacityHours)
		risks = append(risks, Bottleneck{
			Type:     RiskResource,
			Severity: severity,
			Subject:  w.Member.Name,
			Description: fmt.Sprintf("%s carries %.1fh of active work against a %.0fh weekly capacity",
				w.Member.Name, w.TotalEstimatedHours, WeeklyCapacityHours),
			Recommendation: fmt.Sprintf("reassign about %.0f hours of work to other members", overflow),
		})
	}
	return risks
}

// detectDependencyRisks builds the parent→children adjacency and flags
// every incomplete parent with open children. Severity is high when four
// or more children are blocked.
func detectDependencyRisks(issues []models.Issue) []Bottleneck {
	children := make(map[string][]models.Issue)
	for _, issue := range issues {
		if issue.ParentKey != "" {
			children[issue.ParentKey] = append(children[issue.ParentKey], issue)
		}
	}

	var risks []Bottleneck
	for _, parent := range issues {
		if parent.Done() {
			continue
		}
		blocked := 0
		for _, child := range children[parent.Key] {
			if !child.Done() {
				blocked++
			}
		}
		if blocked == 0 {
			continue
		}
		severity := SeverityMedium
		if blocked >= 4 {
			severity = SeverityHigh
		}
		risks = append(risks, Bottleneck{
			Type:     RiskDependency,
			Severity: severity,
			Subject:  parent.Key,
			Description: fmt.Sprintf("%d open subtasks are blocked behind incomplete parent %s",
				blocked, parent.Key),
			Recommendation: fmt.Sprintf("prioritize finishing %s to unblock its subtasks", parent.Key),
		})
	}
	return risks
}

// detectDeadlineRisks flags non-done issues that are overdue (high) or due
// within three days (medium). Issues due further out produce no risk.
func detectDeadlineRisks(issues []models.Issue, now time.Time) []Bottleneck {
	var risks []Bottleneck
	for _, issue := range issues {
		if issue.Done() || issue.DueDate == nil {
			continue
		}
		days := DaysUntil(*issue.DueDate, now)
		switch {
		case days < 0:
			risks = append(risks, Bottleneck{
				Type:           RiskDeadline,
				Severity:       SeverityHigh,
				Subject:        issue.Key,
				Description:    fmt.Sprintf("%s is overdue by %d days", issue.Key, -days),
				Recommendation: fmt.Sprintf("re-plan or escalate %s immediately", issue.Key),
			})
		case days <= 3:
			risks = append(risks, Bottleneck{
				Type:           RiskDeadline,
				Severity:       SeverityMedium,
				Subject:        issue.Key,
				Description:    fmt.Sprintf("%s is due in %d days", issue.Key, days),
				Recommendation: fmt.Sprintf("confirm %s is on track before the deadline", issue.Key),
			})
		}
	}
	return risks
}
