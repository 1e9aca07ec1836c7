package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/projectnexus/taskpilot/internal/engine"
)

var priorityCmd = &cobra.Command{
	Use:   "priority",
	Short: "Rank open issues by urgency",
	RunE: func(cmd *cobra.Command, args []string) error {
		collab, err := buildCollaborators()
		if err != nil {
			return err
		}
		defer collab.close()

		issues, err := collab.tracker.ListIssues(cmd.Context())
		if err != nil {
			return fmt.Errorf("list issues: %w", err)
		}

		scores := engine.PrioritizeIssues(issues, time.Now())
		sort.SliceStable(scores, func(i, j int) bool {
			return scores[i].Score > scores[j].Score
		})

		header := color.New(color.Bold)
		header.Println("Task Priorities")
		header.Println("===============")
		if len(scores) == 0 {
			fmt.Println("No issues found.")
			return nil
		}

		for i, score := range scores {
			line := fmt.Sprintf("%d. %s [%s %d] %s", i+1, score.Issue.Key, score.Tier, score.Score, score.Issue.Summary)
			if len(score.Reasons) > 0 {
				line += " - " + strings.Join(score.Reasons, "; ")
			}
			switch score.Tier {
			case engine.PriorityHigh:
				color.Red("%s", line)
			case engine.PriorityMedium:
				color.Yellow("%s", line)
			default:
				fmt.Println(line)
			}
		}
		return nil
	},
}
