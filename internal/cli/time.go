package cli

import (
	"github.com/spf13/cobra"

	"github.com/mcoot/xctimer/internal/api/request"
	"github.com/mcoot/xctimer/internal/model"
)

func newTimeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "time",
		Short: "Checkpoint time commands",
	}

	cmd.AddCommand(newTimeAddCmd())

	return cmd
}

func newTimeAddCmd() *cobra.Command {
	var race string

	cmd := &cobra.Command{
		Use:   "add <runner-id> <checkpoint> <M:SS>",
		Short: "Record a runner's time at a checkpoint",
		Long: `Record a runner's elapsed time at a checkpoint. A time already recorded
for the same runner and checkpoint is replaced.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result model.TimeEntry

			req := request.AddTimeRequest{
				RunnerID:   args[0],
				Checkpoint: args[1],
				Time:       args[2],
				RaceName:   race,
			}
			if err := client.Post(cmd.Context(), "/api/v1/session/times", req, &result); err != nil {
				return err
			}

			newOutput(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&race, "race", "", "Race name")

	return cmd
}
