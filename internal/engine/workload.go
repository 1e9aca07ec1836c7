// Package engine implements the task allocation and workload reasoning
// engine: workload capacity, skill matching, priority scoring, bottleneck
// detection, and candidate allocation. Every function in this package is
// pure and synchronous — it computes over the snapshot it is handed and
// performs no I/O, so callers may fan out freely.
package engine

import (
	"github.com/projectnexus/taskpilot/pkg/models"
)

// Capacity policy constants. These are fixed product policy, not tunables.
const (
	// HoursPerDay is the working hours assumed per day.
	HoursPerDay = 8
	// DaysPerWeek is the working days assumed per week.
	DaysPerWeek = 5
	// WeeklyCapacityHours is the weekly effort budget per member.
	WeeklyCapacityHours = float64(HoursPerDay * DaysPerWeek)

	// DefaultEstimateHours is charged for an issue with no estimate.
	// Unestimated work still consumes capacity; it is never counted as zero.
	DefaultEstimateHours = 4.0

	// overloadedRatio and atRiskRatio are the load/capacity thresholds for
	// the two risk flags. Overloaded implies at-risk.
	overloadedRatio = 0.90
	atRiskRatio     = 0.75
)

// WorkloadResult is the derived, per-request view of one member's load.
// It is computed fresh from the current issue snapshot and never persisted.
type WorkloadResult struct {
	// Member is the team member this result describes.
	Member models.TeamMember `json:"member"`
	// ActiveTasks counts assigned issues whose status category is not done.
	ActiveTasks int `json:"active_tasks"`
	// TotalEstimatedHours sums estimates across active tasks, charging
	// DefaultEstimateHours for unestimated issues.
	TotalEstimatedHours float64 `json:"total_estimated_hours"`
	// RemainingCapacity is WeeklyCapacityHours minus the total. It goes
	// negative for overbooked members.
	RemainingCapacity float64 `json:"remaining_capacity"`
	// Overloaded is set when load reaches 90% of weekly capacity.
	Overloaded bool `json:"overloaded"`
	// AtRisk is set when load reaches 75% of weekly capacity.
	AtRisk bool `json:"at_risk"`
}

// CalculateWorkload computes the member's current load from the issue
// snapshot. Issues count toward the member when assigned to them (email
// match preferred, exact display name as fallback) and not yet done.
// The result is independent of issue ordering.
func CalculateWorkload(member models.TeamMember, issues []models.Issue) WorkloadResult {
	result := WorkloadResult{Member: member}

	for _, issue := range issues {
		if issue.Done() || !issue.AssignedTo(member) {
			continue
		}
		result.ActiveTasks++
		if issue.EstimatedHours != nil {
			result.TotalEstimatedHours += *issue.EstimatedHours
		} else {
			result.TotalEstimatedHours += DefaultEstimateHours
		}
	}

	result.RemainingCapacity = WeeklyCapacityHours - result.TotalEstimatedHours
	result.Overloaded = result.TotalEstimatedHours >= WeeklyCapacityHours*overloadedRatio
	result.AtRisk = result.TotalEstimatedHours >= WeeklyCapacityHours*atRiskRatio

	return result
}

// CalculateTeamWorkloads computes workloads for every member, preserving
// roster order. An empty roster yields an empty result, not an error.
func CalculateTeamWorkloads(team []models.TeamMember, issues []models.Issue) []WorkloadResult {
	results := make([]WorkloadResult, 0, len(team))
	for _, member := range team {
		results = append(results, CalculateWorkload(member, issues))
	}
	return results
}
