package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/projectnexus/taskpilot/internal/engine"
)

var bottlenecksCmd = &cobra.Command{
	Use:   "bottlenecks",
	Short: "Predict resource, dependency, and deadline risks",
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
		risks := engine.PredictBottlenecks(workloads, issues, time.Now())

		header := color.New(color.Bold)
		header.Println("Bottleneck Report")
		header.Println("=================")
		if len(risks) == 0 {
			color.Green("No bottlenecks detected.")
			return nil
		}

		for _, risk := range risks {
			line := fmt.Sprintf("[%s] %s: %s", risk.Severity, risk.Type, risk.Description)
			switch risk.Severity {
			case engine.SeverityHigh:
				color.Red("%s", line)
			case engine.SeverityMedium:
				color.Yellow("%s", line)
			default:
				fmt.Println(line)
			}
			fmt.Printf("     recommendation: %s\n", risk.Recommendation)
		}
		return nil
	},
}
