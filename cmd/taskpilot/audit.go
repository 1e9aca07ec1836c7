package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var auditLimit int

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Show the assignment audit log",
	Long: `Show recorded assignment attempts, newest first.

Every execution the assistant performs is recorded: successful writes,
failed writes, and safe no-ops where the tracker already held the value.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		collab, err := buildCollaborators()
		if err != nil {
			return err
		}
		defer collab.close()

		entries, err := collab.store.ListAuditEntries(cmd.Context(), auditLimit)
		if err != nil {
			return fmt.Errorf("list audit entries: %w", err)
		}

		if len(entries) == 0 {
			fmt.Println("No assignments recorded yet.")
			return nil
		}

		for _, entry := range entries {
			line := fmt.Sprintf("%s  %s -> %s  %s",
				entry.RecordedAt.Format("2006-01-02 15:04:05"), entry.IssueKey, entry.AssigneeID, entry.Outcome)
			if entry.Detail != "" {
				line += " (" + entry.Detail + ")"
			}
			switch entry.Outcome {
			case "failure":
				color.Red("%s", line)
			case "noop":
				color.Yellow("%s", line)
			default:
				fmt.Println(line)
			}
		}
		return nil
	},
}

func init() {
	auditCmd.Flags().IntVar(&auditLimit, "limit", 50, "Maximum number of entries to show")
}
