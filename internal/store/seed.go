package store

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/projectnexus/taskpilot/pkg/models"
)

// seedFile is the YAML shape of a roster seed file:
//
//	team:
//	  - id: u-varad
//	    name: Varad Parte
//	    email: varad@example.com
//	skills:
//	  - name: react
//	    category: frontend
//	    owner: u-varad
type seedFile struct {
	Team []struct {
		ID    string `yaml:"id"`
		Name  string `yaml:"name"`
		Email string `yaml:"email"`
	} `yaml:"team"`
	Skills []struct {
		Name     string `yaml:"name"`
		Category string `yaml:"category"`
		Owner    string `yaml:"owner"`
	} `yaml:"skills"`
}

// SeedResult summarizes what a seed import changed.
type SeedResult struct {
	MembersUpserted int
	SkillsAdded     int
	SkillsSkipped   int
}

// SeedFromYAML imports team members and skills from a YAML file. Members
// are upserted; skills deduplicate on the case-insensitive
// (name, category, owner) triple, so re-running a seed is harmless.
func (s *Store) SeedFromYAML(ctx context.Context, path string) (SeedResult, error) {
	var result SeedResult

	data, err := os.ReadFile(path)
	if err != nil {
		return result, fmt.Errorf("read seed file: %w", err)
	}

	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return result, fmt.Errorf("parse seed file: %w", err)
	}

	memberNames := make(map[string]string, len(seed.Team))
	for _, entry := range seed.Team {
		member := models.TeamMember{ID: entry.ID, Name: entry.Name, Email: entry.Email}
		if err := s.UpsertMember(ctx, member); err != nil {
			return result, err
		}
		memberNames[entry.ID] = entry.Name
		result.MembersUpserted++
	}

	for _, entry := range seed.Skills {
		skill := models.Skill{
			Name:      entry.Name,
			Category:  entry.Category,
			OwnerID:   entry.Owner,
			OwnerName: memberNames[entry.Owner],
		}
		added, err := s.AddSkill(ctx, skill)
		if err != nil {
			return result, err
		}
		if added {
			result.SkillsAdded++
		} else {
			result.SkillsSkipped++
		}
	}

	return result, nil
}
