package engine

import (
	"sort"
	"strings"

	"github.com/projectnexus/taskpilot/pkg/models"
)

// SkillMatch scores one member's overlap with a required skill set.
type SkillMatch struct {
	// Member is the matched team member.
	Member models.TeamMember `json:"member"`
	// Matched lists the required skills the member owns, in required order.
	Matched []string `json:"matched"`
	// Score is |required ∩ owned| / |required|, in (0, 1].
	Score float64 `json:"score"`
}

// MatchSkills scores each member's overlap with the required skill names.
// Skill names are compared case-insensitively. Members with no overlap are
// excluded rather than scored at zero. Results are sorted by descending
// score; ties keep roster order.
//
// An empty required set yields nil; there is nothing to score against.
func MatchSkills(required []string, roster []models.Skill, team []models.TeamMember) []SkillMatch {
	if len(required) == 0 {
		return nil
	}

	owned := ownedSkillSets(roster)

	matches := make([]SkillMatch, 0, len(team))
	for _, member := range team {
		set := owned[member.ID]
		if set == nil {
			continue
		}
		var matched []string
		for _, name := range required {
			if set[strings.ToLower(name)] {
				matched = append(matched, strings.ToLower(name))
			}
		}
		if len(matched) == 0 {
			continue
		}
		matches = append(matches, SkillMatch{
			Member:  member,
			Matched: matched,
			Score:   float64(len(matched)) / float64(len(required)),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	return matches
}

// ownedSkillSets builds the owner ID → case-folded skill name set map.
// Skills without an owner are skipped; they belong to nobody's score.
func ownedSkillSets(roster []models.Skill) map[string]map[string]bool {
	owned := make(map[string]map[string]bool)
	for _, skill := range roster {
		if skill.OwnerID == "" {
			continue
		}
		set := owned[skill.OwnerID]
		if set == nil {
			set = make(map[string]bool)
			owned[skill.OwnerID] = set
		}
		set[strings.ToLower(skill.Name)] = true
	}
	return owned
}
