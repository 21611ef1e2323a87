package cli

import (
	"github.com/spf13/cobra"

	"github.com/mcoot/xctimer/internal/api/request"
	"github.com/mcoot/xctimer/internal/model"
)

func newRunnerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runner",
		Short: "Runner commands",
	}

	cmd.AddCommand(newRunnerAddCmd())
	cmd.AddCommand(newRunnerRemoveCmd())

	return cmd
}

func newRunnerAddCmd() *cobra.Command {
	var grade, team string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a runner",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result model.Runner

			req := request.AddRunnerRequest{Name: args[0], Grade: grade, TeamID: team}
			if err := client.Post(cmd.Context(), "/api/v1/session/runners", req, &result); err != nil {
				return err
			}

			newOutput(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&grade, "grade", "g", string(model.GradeFreshman), "Freshman, Sophomore, Junior or Senior")
	cmd.Flags().StringVarP(&team, "team", "t", "", "Team ID")

	return cmd
}

func newRunnerRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a runner and all of their times",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete(cmd.Context(), "/api/v1/session/runners/"+args[0]); err != nil {
				return err
			}

			newOutput(cmd).PrintMessage("Removed runner " + args[0])
			return nil
		},
	}
}
