package engine

import (
	"testing"

	"github.com/projectnexus/taskpilot/pkg/models"
)

var skillTestTeam = []models.TeamMember{
	{ID: "u1", Name: "Daksh Mehta", Email: "daksh@example.com"},
	{ID: "u2", Name: "Varad Parte", Email: "varad@example.com"},
	{ID: "u3", Name: "Asha Rao", Email: "asha@example.com"},
}

var skillTestRoster = []models.Skill{
	{Name: "React", Category: "frontend", OwnerID: "u1", OwnerName: "Daksh Mehta"},
	{Name: "CSS", Category: "frontend", OwnerID: "u1", OwnerName: "Daksh Mehta"},
	{Name: "react", Category: "frontend", OwnerID: "u2", OwnerName: "Varad Parte"},
	{Name: "database", Category: "backend", OwnerID: "u3", OwnerName: "Asha Rao"},
}

func TestMatchSkills_EmptyRequiredSet(t *testing.T) {
	if got := MatchSkills(nil, skillTestRoster, skillTestTeam); got != nil {
		t.Errorf("MatchSkills(nil) = %v, want nil", got)
	}
}

func TestMatchSkills_ScoresOverlapRatio(t *testing.T) {
	got := MatchSkills([]string{"react", "css"}, skillTestRoster, skillTestTeam)

	if len(got) != 2 {
		t.Fatalf("len = %d, want 2 (u3 has no overlap and must be excluded)", len(got))
	}
	if got[0].Member.ID != "u1" || got[0].Score != 1.0 {
		t.Errorf("top match = %s score %v, want u1 score 1.0", got[0].Member.ID, got[0].Score)
	}
	if got[1].Member.ID != "u2" || got[1].Score != 0.5 {
		t.Errorf("second match = %s score %v, want u2 score 0.5", got[1].Member.ID, got[1].Score)
	}
}

func TestMatchSkills_CaseInsensitive(t *testing.T) {
	got := MatchSkills([]string{"REACT"}, skillTestRoster, skillTestTeam)

	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	for _, m := range got {
		if len(m.Matched) != 1 || m.Matched[0] != "react" {
			t.Errorf("Matched = %v, want [react] (case-folded)", m.Matched)
		}
	}
}

func TestMatchSkills_TiesKeepRosterOrder(t *testing.T) {
	got := MatchSkills([]string{"react"}, skillTestRoster, skillTestTeam)

	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Member.ID != "u1" || got[1].Member.ID != "u2" {
		t.Errorf("tie order = %s, %s; want u1, u2 (stable sort)", got[0].Member.ID, got[1].Member.ID)
	}
}

func TestMatchSkills_ExcludesZeroMatches(t *testing.T) {
	got := MatchSkills([]string{"kubernetes"}, skillTestRoster, skillTestTeam)

	if len(got) != 0 {
		t.Errorf("len = %d, want 0 (no member owns kubernetes)", len(got))
	}
}

func TestMatchSkills_IgnoresUnownedSkills(t *testing.T) {
	roster := append([]models.Skill{}, skillTestRoster...)
	roster = append(roster, models.Skill{Name: "go", Category: "backend"})

	got := MatchSkills([]string{"go"}, roster, skillTestTeam)

	if len(got) != 0 {
		t.Errorf("len = %d, want 0 (ownerless skills score for nobody)", len(got))
	}
}
