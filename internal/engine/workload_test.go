package engine

import (
	"testing"

	"github.com/projectnexus/taskpilot/pkg/models"
)

func hoursPtr(h float64) *float64 { return &h }

func assignedIssue(key string, member models.TeamMember, category models.StatusCategory, hours *float64) models.Issue {
	return models.Issue{
		Key:            key,
		Summary:        key,
		Type:           "Task",
		StatusCategory: category,
		Assignee: &models.Assignee{
			AccountID:   member.ID,
			DisplayName: member.Name,
			Email:       member.Email,
		},
		EstimatedHours: hours,
	}
}

func TestCalculateWorkload_NoAssignments(t *testing.T) {
	member := models.TeamMember{ID: "u1", Name: "Daksh Mehta", Email: "daksh@example.com"}

	got := CalculateWorkload(member, nil)

	if got.ActiveTasks != 0 {
		t.Errorf("ActiveTasks = %d, want 0", got.ActiveTasks)
	}
	if got.RemainingCapacity != WeeklyCapacityHours {
		t.Errorf("RemainingCapacity = %v, want %v", got.RemainingCapacity, WeeklyCapacityHours)
	}
	if got.Overloaded || got.AtRisk {
		t.Errorf("Overloaded = %v, AtRisk = %v, want both false", got.Overloaded, got.AtRisk)
	}
}

func TestCalculateWorkload_OverloadedAtThreeLargeIssues(t *testing.T) {
	// 10 + 15 + 20 = 45h against a 40h capacity is 112.5% load.
	member := models.TeamMember{ID: "u1", Name: "Daksh Mehta", Email: "daksh@example.com"}
	issues := []models.Issue{
		assignedIssue("PN2-1", member, models.StatusCategoryTodo, hoursPtr(10)),
		assignedIssue("PN2-2", member, models.StatusCategoryInProgress, hoursPtr(15)),
		assignedIssue("PN2-3", member, models.StatusCategoryTodo, hoursPtr(20)),
	}

	got := CalculateWorkload(member, issues)

	if got.ActiveTasks != 3 {
		t.Errorf("ActiveTasks = %d, want 3", got.ActiveTasks)
	}
	if got.TotalEstimatedHours != 45 {
		t.Errorf("TotalEstimatedHours = %v, want 45", got.TotalEstimatedHours)
	}
	if !got.Overloaded {
		t.Error("Overloaded = false, want true")
	}
	if !got.AtRisk {
		t.Error("AtRisk = false, want true (overloaded implies at risk)")
	}
	if got.RemainingCapacity != -5 {
		t.Errorf("RemainingCapacity = %v, want -5", got.RemainingCapacity)
	}
}

func TestCalculateWorkload_DefaultEstimateForUnestimatedIssues(t *testing.T) {
	member := models.TeamMember{ID: "u1", Name: "Varad Parte", Email: "varad@example.com"}
	issues := []models.Issue{
		assignedIssue("PN2-4", member, models.StatusCategoryTodo, hoursPtr(10)),
	}

	before := CalculateWorkload(member, issues)
	issues = append(issues, assignedIssue("PN2-5", member, models.StatusCategoryTodo, nil))
	after := CalculateWorkload(member, issues)

	if diff := after.TotalEstimatedHours - before.TotalEstimatedHours; diff != DefaultEstimateHours {
		t.Errorf("unestimated issue contributed %v hours, want %v", diff, DefaultEstimateHours)
	}
}

func TestCalculateWorkload_IgnoresDoneAndUnassigned(t *testing.T) {
	member := models.TeamMember{ID: "u1", Name: "Varad Parte", Email: "varad@example.com"}
	other := models.TeamMember{ID: "u2", Name: "Daksh Mehta", Email: "daksh@example.com"}
	issues := []models.Issue{
		assignedIssue("PN2-6", member, models.StatusCategoryDone, hoursPtr(30)),
		assignedIssue("PN2-7", other, models.StatusCategoryTodo, hoursPtr(30)),
		{Key: "PN2-8", StatusCategory: models.StatusCategoryTodo, EstimatedHours: hoursPtr(30)},
	}

	got := CalculateWorkload(member, issues)

	if got.ActiveTasks != 0 || got.TotalEstimatedHours != 0 {
		t.Errorf("got %d tasks / %vh, want 0 / 0", got.ActiveTasks, got.TotalEstimatedHours)
	}
}

func TestCalculateWorkload_MatchesByEmailCaseInsensitive(t *testing.T) {
	member := models.TeamMember{ID: "u1", Name: "V. Parte", Email: "Varad@Example.com"}
	issues := []models.Issue{
		{
			Key:            "PN2-9",
			StatusCategory: models.StatusCategoryTodo,
			Assignee:       &models.Assignee{AccountID: "u1", DisplayName: "Varad Parte", Email: "varad@example.com"},
			EstimatedHours: hoursPtr(8),
		},
	}

	got := CalculateWorkload(member, issues)

	if got.ActiveTasks != 1 {
		t.Errorf("ActiveTasks = %d, want 1 (email match should ignore case and name mismatch)", got.ActiveTasks)
	}
}

func TestCalculateWorkload_FallsBackToDisplayName(t *testing.T) {
	// Without an email on the roster entry, only exact display-name
	// equality counts.
	member := models.TeamMember{ID: "u1", Name: "Varad Parte"}
	issues := []models.Issue{
		{
			Key:            "PN2-10",
			StatusCategory: models.StatusCategoryTodo,
			Assignee:       &models.Assignee{DisplayName: "Varad Parte"},
			EstimatedHours: hoursPtr(8),
		},
		{
			Key:            "PN2-11",
			StatusCategory: models.StatusCategoryTodo,
			Assignee:       &models.Assignee{DisplayName: "varad parte"},
			EstimatedHours: hoursPtr(8),
		},
	}

	got := CalculateWorkload(member, issues)

	if got.ActiveTasks != 1 {
		t.Errorf("ActiveTasks = %d, want 1 (name fallback is exact match only)", got.ActiveTasks)
	}
}

func TestCalculateWorkload_OrderIndependent(t *testing.T) {
	member := models.TeamMember{ID: "u1", Name: "Daksh Mehta", Email: "daksh@example.com"}
	issues := []models.Issue{
		assignedIssue("PN2-1", member, models.StatusCategoryTodo, hoursPtr(10)),
		assignedIssue("PN2-2", member, models.StatusCategoryTodo, nil),
		assignedIssue("PN2-3", member, models.StatusCategoryInProgress, hoursPtr(5)),
	}
	reversed := []models.Issue{issues[2], issues[1], issues[0]}

	a := CalculateWorkload(member, issues)
	b := CalculateWorkload(member, reversed)

	if a != b {
		t.Errorf("workload differs under reordering: %+v vs %+v", a, b)
	}
}

func TestCalculateTeamWorkloads_PreservesRosterOrder(t *testing.T) {
	team := []models.TeamMember{
		{ID: "u1", Name: "Daksh Mehta"},
		{ID: "u2", Name: "Varad Parte"},
	}

	got := CalculateTeamWorkloads(team, nil)

	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Member.ID != "u1" || got[1].Member.ID != "u2" {
		t.Errorf("roster order not preserved: %s, %s", got[0].Member.ID, got[1].Member.ID)
	}
}
