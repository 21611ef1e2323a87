package cli

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mcoot/xctimer/internal/api/request"
	"github.com/mcoot/xctimer/internal/api/response"
	"github.com/mcoot/xctimer/internal/model"
)

func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Session commands",
	}

	cmd.AddCommand(newSessionShowCmd())
	cmd.AddCommand(newSessionResetCmd())
	cmd.AddCommand(newSessionUnitCmd())
	cmd.AddCommand(newSessionCheckpointsCmd())
	cmd.AddCommand(newSessionImportCmd())
	cmd.AddCommand(newSessionReplaceCmd())
	cmd.AddCommand(newSessionExportCmd())

	return cmd
}

func newSessionShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the session with all runners and times",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result model.Session

			if err := client.Get(cmd.Context(), "/api/v1/session", &result); err != nil {
				return err
			}

			newOutput(cmd).Print(result)
			return nil
		},
	}
}

func newSessionResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Discard the session and start a new one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result model.Session

			if err := client.Post(cmd.Context(), "/api/v1/session/reset", nil, &result); err != nil {
				return err
			}

			newOutput(cmd).Print(result)
			return nil
		},
	}
}

func newSessionUnitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unit <km|miles>",
		Short: "Set the distance unit (only before any time is recorded)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Checkpoints

			req := request.SetUnitRequest{Unit: args[0]}
			if err := client.Put(cmd.Context(), "/api/v1/session/unit", req, &result); err != nil {
				return err
			}

			newOutput(cmd).Print(result)
			return nil
		},
	}
}

func newSessionCheckpointsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checkpoints",
		Short: "List the checkpoints for the session's unit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Checkpoints

			if err := client.Get(cmd.Context(), "/api/v1/session/checkpoints", &result); err != nil {
				return err
			}

			newOutput(cmd).Print(result)
			return nil
		},
	}
}

func newSessionImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file|->",
		Short: "Merge the fields present in a JSON file into the session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return sendDocument(cmd, http.MethodPatch, args[0])
		},
	}
}

func newSessionReplaceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "replace <file|->",
		Short: "Replace the session with a saved document",
		Long: `Replace the whole session with a document previously written by
"session export". Documents from older versions are upgraded.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return sendDocument(cmd, http.MethodPut, args[0])
		},
	}
}

func sendDocument(cmd *cobra.Command, method, path string) error {
	data, err := readInput(cmd, path)
	if err != nil {
		return err
	}

	raw, err := client.DoRaw(cmd.Context(), method, "/api/v1/session", data)
	if err != nil {
		return err
	}

	var result model.Session
	if err := decodeJSON(raw.Body, &result); err != nil {
		return err
	}

	newOutput(cmd).Print(result)
	return nil
}

func newSessionExportCmd() *cobra.Command {
	var file string
	var download bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the session as JSON",
		Long: `Export the session as pretty-printed JSON. Writes to stdout unless
--file is given; --download saves under the server's suggested file name.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := client.DoRaw(cmd.Context(), http.MethodGet, "/api/v1/session/export", nil)
			if err != nil {
				return err
			}

			target := file
			if download {
				name, err := attachmentName(raw.Header.Get("Content-Disposition"))
				if err != nil {
					return err
				}
				target = filepath.Join(file, name)
			}

			if target == "" {
				_, err := cmd.OutOrStdout().Write(raw.Body)
				return err
			}

			if err := os.WriteFile(target, raw.Body, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", target, err)
			}
			newOutput(cmd).PrintMessage("Saved " + target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Output file (directory with --download)")
	cmd.Flags().BoolVar(&download, "download", false, "Use the server's suggested file name")

	return cmd
}

func attachmentName(disposition string) (string, error) {
	_, params, err := mime.ParseMediaType(disposition)
	if err != nil {
		return "", fmt.Errorf("bad Content-Disposition %q: %w", disposition, err)
	}
	name := filepath.Base(params["filename"])
	if name == "." || name == string(filepath.Separator) {
		return "", fmt.Errorf("no file name in Content-Disposition %q", disposition)
	}
	return name, nil
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}
