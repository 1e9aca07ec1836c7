package assistant

import (
	"testing"

	"github.com/projectnexus/taskpilot/pkg/models"
)

var resolveTeam = []models.TeamMember{
	{ID: "u-daksh", Name: "Daksh Mehta", Email: "daksh@example.com"},
	{ID: "u-varad", Name: "Varad Parte", Email: "varad@example.com"},
	{ID: "u-vana", Name: "Vana Iyer", Email: "vana@example.com"},
}

func TestResolveMember_PreferenceOrder(t *testing.T) {
	tests := []struct {
		name   string
		token  string
		wantID string
	}{
		{"exact id", "u-varad", "u-varad"},
		{"exact email", "varad@example.com", "u-varad"},
		{"email ignores case", "VARAD@Example.COM", "u-varad"},
		{"name substring", "Varad", "u-varad"},
		{"name substring ignores case", "varad parte", "u-varad"},
		{"token containing full name", "Varad Parte (frontend)", "u-varad"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveMember(tt.token, resolveTeam)
			if !got.Found {
				t.Fatalf("ResolveMember(%q) not found", tt.token)
			}
			if got.Member.ID != tt.wantID {
				t.Errorf("resolved %s, want %s", got.Member.ID, tt.wantID)
			}
		})
	}
}

func TestResolveMember_NotFound(t *testing.T) {
	got := ResolveMember("Quentin", resolveTeam)
	if got.Found {
		t.Errorf("ResolveMember(Quentin) = %+v, want not found", got)
	}

	if got := ResolveMember("", resolveTeam); got.Found {
		t.Error("empty token must not resolve")
	}
}

func TestResolveMember_AmbiguousKeepsFirstMatch(t *testing.T) {
	// "Va" is a substring of both "Varad Parte" and "Vana Iyer".
	got := ResolveMember("Va", resolveTeam)

	if !got.Found {
		t.Fatal("ResolveMember(Va) not found")
	}
	if !got.Ambiguous {
		t.Error("Ambiguous = false, want true")
	}
	if got.Member.ID != "u-varad" {
		t.Errorf("resolved %s, want u-varad (first roster-order match)", got.Member.ID)
	}
}
