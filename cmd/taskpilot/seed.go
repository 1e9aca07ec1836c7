package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed FILE",
	Short: "Import team members and skills from a YAML file",
	Long: `Import team members and skills into the local roster store.

The file lists members under "team" and skills under "skills":

  team:
    - id: u-varad
      name: Varad Parte
      email: varad@example.com
  skills:
    - name: react
      category: frontend
      owner: u-varad

Members are upserted and duplicate skills are skipped, so re-running a
seed file is safe.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		collab, err := buildCollaborators()
		if err != nil {
			return err
		}
		defer collab.close()

		result, err := collab.store.SeedFromYAML(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("seed roster: %w", err)
		}

		color.Green("Imported %d members, %d skills (%d duplicates skipped)",
			result.MembersUpserted, result.SkillsAdded, result.SkillsSkipped)
		return nil
	},
}
