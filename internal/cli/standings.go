package cli

import (
	"net/url"

	"github.com/spf13/cobra"

	"github.com/mcoot/xctimer/internal/model"
)

func newStandingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "standings <checkpoint>",
		Short: "Rank runners and score teams at a checkpoint",
		Long: `Rank every runner with a time at the checkpoint, fastest first, and score
the teams: the first five runners of a team score their team places, the
sixth and seventh only displace. Teams with fewer than five runners are not scored.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result model.Standings

			path := "/api/v1/session/standings/" + url.PathEscape(args[0])
			if err := client.Get(cmd.Context(), path, &result); err != nil {
				return err
			}

			newOutput(cmd).Print(result)
			return nil
		},
	}
}
