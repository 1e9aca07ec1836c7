package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/projectnexus/taskpilot/internal/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Open the interactive assistant chat",
	Long: `Open a terminal chat with the assignment assistant.

Ask for workload, priority, or bottleneck summaries, or request an
assignment ("assign PN2-7 to Varad", "whom should I assign PN2-7?").
Assignments are proposed first and executed only after you reply "yes".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat()
	},
}

func runChat() error {
	collab, err := buildCollaborators()
	if err != nil {
		return err
	}
	defer collab.close()

	p := tui.NewChatProgram(collab.conv)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat: %w", err)
	}
	return nil
}
