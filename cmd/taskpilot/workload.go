package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/projectnexus/taskpilot/internal/engine"
)

var workloadCmd = &cobra.Command{
	Use:   "workload",
	Short: "Show per-member workload against weekly capacity",
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

		workloads := engine.CalculateTeamWorkloads(team, issues)

		header := color.New(color.Bold)
		header.Println("Team Workload")
		header.Println("=============")
		if len(workloads) == 0 {
			fmt.Println("No team members found.")
			return nil
		}

		for _, w := range workloads {
			usedPct := w.TotalEstimatedHours / engine.WeeklyCapacityHours * 100
			line := fmt.Sprintf("%s: %d active, %.1fh of %.0fh (%.0f%% capacity)",
				w.Member.Name, w.ActiveTasks, w.TotalEstimatedHours, engine.WeeklyCapacityHours, usedPct)
			switch {
			case w.Overloaded:
				color.Red("%s OVERLOADED", line)
			case w.AtRisk:
				color.Yellow("%s AT RISK", line)
			default:
				fmt.Println(line)
			}
		}
		return nil
	},
}
