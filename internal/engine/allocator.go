package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/projectnexus/taskpilot/pkg/models"
)

// Confidence blend weights: skill fit dominates, spare capacity tempers it
// so near-saturated members rank below equally skilled idle ones.
const (
	skillWeight    = 0.7
	capacityWeight = 0.3
)

// skillBundle maps text cues (and optionally an issue type) to a fallback
// skill set used when an issue's text names no known skill directly.
// Bundles are evaluated in order; the first match wins.
type skillBundle struct {
	issueType string
	cues      []string
	skills    []string
}

var skillBundles = []skillBundle{
	{
		issueType: "Bug",
		cues:      []string{"bug", "fix", "error", "crash", "broken"},
		skills:    []string{"debugging", "testing"},
	},
	{
		cues:   []string{"frontend", "ui", "page", "screen", "component", "layout", "style"},
		skills: []string{"react", "javascript", "typescript", "html", "css"},
	},
	{
		cues:   []string{"backend", "api", "endpoint", "server", "database", "service"},
		skills: []string{"node.js", "express", "api", "database"},
	},
}

// Allocation is a ranked assignment recommendation for one issue.
type Allocation struct {
	// Issue is the issue being allocated.
	Issue models.Issue `json:"issue"`
	// Assignee is the recommended team member.
	Assignee models.TeamMember `json:"assignee"`
	// Confidence is the blended 0-100 score ranking this candidate.
	Confidence float64 `json:"confidence"`
	// SkillScore is the raw skill overlap ratio in (0, 1].
	SkillScore float64 `json:"skill_score"`
	// MatchedSkills lists the required skills the assignee owns.
	MatchedSkills []string `json:"matched_skills"`
	// RequiredSkills is the skill set derived from the issue.
	RequiredSkills []string `json:"required_skills"`
	// Workload is the assignee's workload at allocation time.
	Workload WorkloadResult `json:"workload"`
	// Rationale explains both sub-scores and any capacity caveat.
	Rationale string `json:"rationale"`
}

// DeriveRequiredSkills extracts the skill set an issue calls for. It first
// scans the issue text (summary plus description, case-folded) for literal
// occurrences of known skill names from the roster; when none appear it
// falls back to the fixed cue→bundle table. An empty result means no
// allocation is possible for the issue.
func DeriveRequiredSkills(issue models.Issue, roster []models.Skill) []string {
	text := strings.ToLower(issue.Summary + " " + issue.Description)

	var derived []string
	seen := make(map[string]bool)
	for _, skill := range roster {
		name := strings.ToLower(skill.Name)
		if name == "" || seen[name] {
			continue
		}
		if strings.Contains(text, name) {
			derived = append(derived, name)
			seen[name] = true
		}
	}
	if len(derived) > 0 {
		return derived
	}

	for _, bundle := range skillBundles {
		if bundle.matches(issue.Type, text) {
			return append([]string{}, bundle.skills...)
		}
	}
	return nil
}

func (b skillBundle) matches(issueType, text string) bool {
	if b.issueType != "" && strings.EqualFold(issueType, b.issueType) {
		return true
	}
	for _, cue := range b.cues {
		if strings.Contains(text, cue) {
			return true
		}
	}
	return false
}

// AllocateTask recommends the best assignee for one issue by blending
// skill fit (70%) with spare capacity (30%). It returns nil when no skill
// set can be derived or no member matches any required skill — "no
// allocation possible" is an outcome, not an error.
func AllocateTask(issue models.Issue, team []models.TeamMember, issues []models.Issue, roster []models.Skill) *Allocation {
	candidates := RankCandidates(issue, team, issues, roster)
	if len(candidates) == 0 {
		return nil
	}
	return &candidates[0]
}

// RankCandidates returns every matching candidate for the issue, ranked by
// descending confidence, stable on ties.
func RankCandidates(issue models.Issue, team []models.TeamMember, issues []models.Issue, roster []models.Skill) []Allocation {
	required := DeriveRequiredSkills(issue, roster)
	if len(required) == 0 {
		return nil
	}

	matches := MatchSkills(required, roster, team)
	if len(matches) == 0 {
		return nil
	}

	allocations := make([]Allocation, 0, len(matches))
	for _, match := range matches {
		workload := CalculateWorkload(match.Member, issues)

		spare := 1 - workload.TotalEstimatedHours/WeeklyCapacityHours
		if spare < 0 {
			spare = 0
		}
		confidence := skillWeight*match.Score*100 + capacityWeight*spare*100

		allocations = append(allocations, Allocation{
			Issue:          issue,
			Assignee:       match.Member,
			Confidence:     confidence,
			SkillScore:     match.Score,
			MatchedSkills:  match.Matched,
			RequiredSkills: required,
			Workload:       workload,
			Rationale:      allocationRationale(match, workload, confidence),
		})
	}

	sort.SliceStable(allocations, func(i, j int) bool {
		return allocations[i].Confidence > allocations[j].Confidence
	})

	return allocations
}

// allocationRationale renders both sub-scores plus any capacity caveat.
// Percentages are integers so the text is stable for golden tests.
func allocationRationale(match SkillMatch, workload WorkloadResult, confidence float64) string {
	spare := (workload.RemainingCapacity / WeeklyCapacityHours) * 100
	if spare < 0 {
		spare = 0
	}
	rationale := fmt.Sprintf("%s: %.0f%% skill match (%s), %.0f%% spare capacity; confidence %.0f%%",
		match.Member.Name, match.Score*100, strings.Join(match.Matched, ", "), spare, confidence)
	switch {
	case workload.Overloaded:
		rationale += " (currently overloaded)"
	case workload.AtRisk:
		rationale += " (approaching capacity)"
	}
	return rationale
}

// BatchAllocation pairs one issue with its allocation outcome; Allocation
// is nil when no allocation was possible.
type BatchAllocation struct {
	Issue      models.Issue `json:"issue"`
	Allocation *Allocation  `json:"allocation,omitempty"`
}

// AllocateBatch allocates each unassigned issue in input order. Every
// issue is scored against the original issue snapshot: allocations made
// earlier in the batch do not consume capacity for later ones.
func AllocateBatch(unassigned []models.Issue, team []models.TeamMember, issues []models.Issue, roster []models.Skill) []BatchAllocation {
	results := make([]BatchAllocation, 0, len(unassigned))
	for _, issue := range unassigned {
		results = append(results, BatchAllocation{
			Issue:      issue,
			Allocation: AllocateTask(issue, team, issues, roster),
		})
	}
	return results
}
