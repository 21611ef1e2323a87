package cli

import (
	"github.com/spf13/cobra"

	"github.com/mcoot/xctimer/internal/api/request"
	"github.com/mcoot/xctimer/internal/api/response"
)

func newScreenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "screen",
		Short: "Show or switch the active screen",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Show the active screen",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Screen

			if err := client.Get(cmd.Context(), "/api/v1/screen", &result); err != nil {
				return err
			}

			newOutput(cmd).Print(result)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:       "set <setup|timing|share|import>",
		Short:     "Switch the active screen",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"setup", "timing", "share", "import"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Screen

			req := request.SetScreenRequest{Screen: args[0]}
			if err := client.Put(cmd.Context(), "/api/v1/screen", req, &result); err != nil {
				return err
			}

			newOutput(cmd).Print(result)
			return nil
		},
	})

	return cmd
}
