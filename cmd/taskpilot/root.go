package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "taskpilot",
	Short: "Task allocation & workload reasoning for your issue tracker",
	Long: `TaskPilot reads a live issue tracker snapshot and reasons about who
should do what: workload capacity per team member, urgency-ranked
priorities, delivery bottlenecks, and skill-matched assignment
suggestions.

With no arguments, launches the interactive chat where you can ask for
reports or say things like "assign PN2-7 to Varad". Assignments are
always proposed first and executed only after you confirm.

Core capabilities:
- Calculates per-member workload against a weekly capacity budget
- Scores and ranks issues by urgency with a human-readable rationale
- Predicts resource, dependency, and deadline bottlenecks
- Recommends assignees by skill fit and spare capacity
- Executes confirmed assignments against the tracker, at most once`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(workloadCmd)
	rootCmd.AddCommand(priorityCmd)
	rootCmd.AddCommand(bottlenecksCmd)
	rootCmd.AddCommand(allocateCmd)
	rootCmd.AddCommand(assignCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
