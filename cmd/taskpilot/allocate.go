package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/projectnexus/taskpilot/internal/engine"
	"github.com/projectnexus/taskpilot/pkg/models"
)

var allocateCmd = &cobra.Command{
	Use:   "allocate [ISSUE-KEY]",
	Short: "Suggest assignees for unassigned issues",
	Long: `Suggest assignees for unassigned issues.

Without arguments, every open unassigned issue gets a suggestion (or an
explicit "no allocation possible"). With an issue key, the full ranked
candidate list for that issue is shown. Suggestions are advisory; use
"taskpilot assign" or the chat to actually assign.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		collab, err := buildCollaborators()
		if err != nil {
			return err
		}
		defer collab.close()

		ctx := cmd.Context()
		issues, err := collab.tracker.ListIssues(ctx)
		if err != nil {
			return fmt.Errorf("list issues: %w", err)
		}
		team, err := collab.tracker.ListTeamMembers(ctx)
		if err != nil {
			return fmt.Errorf("list team members: %w", err)
		}
		skills, err := collab.store.ListSkills(ctx)
		if err != nil {
			return fmt.Errorf("list skills: %w", err)
		}

		if len(args) == 1 {
			return printCandidates(args[0], issues, team, skills)
		}

		var unassigned []models.Issue
		for _, issue := range issues {
			if issue.Assignee == nil && !issue.Done() {
				unassigned = append(unassigned, issue)
			}
		}

		results := engine.AllocateBatch(unassigned, team, issues, skills)

		header := color.New(color.Bold)
		header.Println("Allocation Suggestions")
		header.Println("======================")
		if len(results) == 0 {
			fmt.Println("No unassigned issues found.")
			return nil
		}

		for _, result := range results {
			if result.Allocation == nil {
				color.Yellow("%s: no allocation possible (no skills derivable)", result.Issue.Key)
				continue
			}
			color.Green("%s -> %s (%.0f%% confidence)",
				result.Issue.Key, result.Allocation.Assignee.Name, result.Allocation.Confidence)
			fmt.Printf("     %s\n", result.Allocation.Rationale)
		}
		return nil
	},
}

// printCandidates shows the full ranked candidate list for one issue.
func printCandidates(issueKey string, issues []models.Issue, team []models.TeamMember, skills []models.Skill) error {
	var issue models.Issue
	found := false
	for _, candidate := range issues {
		if candidate.Key == issueKey {
			issue = candidate
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("issue %s not found", issueKey)
	}

	candidates := engine.RankCandidates(issue, team, issues, skills)
	if len(candidates) == 0 {
		fmt.Printf("%s: no allocation possible (no skills derivable)\n", issueKey)
		return nil
	}

	header := color.New(color.Bold)
	header.Printf("Candidates for %s\n", issueKey)
	for i, candidate := range candidates {
		fmt.Printf("%d. %s (%.0f%% confidence)\n", i+1, candidate.Assignee.Name, candidate.Confidence)
		fmt.Printf("   %s\n", candidate.Rationale)
	}
	return nil
}
