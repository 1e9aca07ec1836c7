package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/projectnexus/taskpilot/internal/assistant"
)

var assignYes bool

var assignCmd = &cobra.Command{
	Use:   "assign ISSUE-KEY ASSIGNEE",
	Short: "Assign an issue to a team member",
	Long: `Assign an issue to a team member.

ASSIGNEE may be an account ID, an email address, or a (partial) display
name; resolution tries them in that order. The assignment is shown for
confirmation before the tracker is written; pass --yes to skip the
prompt.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		collab, err := buildCollaborators()
		if err != nil {
			return err
		}
		defer collab.close()

		ctx := cmd.Context()
		issueKey := strings.ToUpper(args[0])

		issues, err := collab.tracker.ListIssues(ctx)
		if err != nil {
			return fmt.Errorf("list issues: %w", err)
		}
		found := false
		for _, issue := range issues {
			if issue.Key == issueKey {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("issue %s not found", issueKey)
		}

		team, err := collab.tracker.ListTeamMembers(ctx)
		if err != nil {
			return fmt.Errorf("list team members: %w", err)
		}

		resolution := assistant.ResolveMember(args[1], team)
		if !resolution.Found {
			return fmt.Errorf("no team member matches %q", args[1])
		}
		if resolution.Ambiguous {
			color.Yellow("%q matches more than one member; using %s", args[1], resolution.Member.Name)
		}

		if !assignYes {
			fmt.Printf("Assign %s to %s? [y/N] ", issueKey, resolution.Member.Name)
			reader := bufio.NewReader(os.Stdin)
			answer, _ := reader.ReadString('\n')
			answer = strings.ToLower(strings.TrimSpace(answer))
			if answer != "y" && answer != "yes" {
				fmt.Println("Aborted.")
				return nil
			}
		}

		if err := collab.tracker.Assign(ctx, issueKey, resolution.Member.ID); err != nil {
			collab.store.RecordAssignment(ctx, issueKey, resolution.Member.ID, "failure", err.Error())
			return fmt.Errorf("assign %s: %w", issueKey, err)
		}
		collab.store.RecordAssignment(ctx, issueKey, resolution.Member.ID, "success", "")

		color.Green("%s assigned to %s", issueKey, resolution.Member.Name)
		return nil
	},
}

func init() {
	assignCmd.Flags().BoolVarP(&assignYes, "yes", "y", false, "Skip the confirmation prompt")
}
