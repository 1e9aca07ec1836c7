package assistant

import (
	"strings"

	"github.com/projectnexus/taskpilot/pkg/models"
)

// Resolution is the outcome of resolving a user-supplied token to a team
// member. "Not found" and "ambiguous" are distinct outcomes, never errors.
type Resolution struct {
	// Member is the resolved member; zero-valued when Found is false.
	Member models.TeamMember
	// Found reports whether any member matched.
	Found bool
	// Ambiguous is set when a fuzzy name match hit more than one member.
	// The first roster-order match is kept; this is a documented heuristic,
	// not a guess the resolver refines further.
	Ambiguous bool
}

// ResolveMember resolves a token against the roster using the three
// addressing modes in preference order: exact ID match, exact email match
// (case-insensitive), then fuzzy name match (case-insensitive substring in
// either direction). Fuzzy ties resolve to the first roster entry.
func ResolveMember(token string, team []models.TeamMember) Resolution {
	token = strings.TrimSpace(token)
	if token == "" {
		return Resolution{}
	}

	for _, member := range team {
		if member.ID == token {
			return Resolution{Member: member, Found: true}
		}
	}

	for _, member := range team {
		if member.Email != "" && strings.EqualFold(member.Email, token) {
			return Resolution{Member: member, Found: true}
		}
	}

	lower := strings.ToLower(token)
	var resolution Resolution
	for _, member := range team {
		name := strings.ToLower(member.Name)
		if !strings.Contains(name, lower) && !strings.Contains(lower, name) {
			continue
		}
		if !resolution.Found {
			resolution = Resolution{Member: member, Found: true}
		} else {
			resolution.Ambiguous = true
		}
	}
	return resolution
}
