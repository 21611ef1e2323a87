package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/mcoot/xctimer/internal/model"
	"github.com/mcoot/xctimer/internal/services/sharing"
)

func newShareCmd() *cobra.Command {
	var qr, copyJSON bool
	var pngFile string

	cmd := &cobra.Command{
		Use:   "share",
		Short: "Share the session",
		Long: `Show the share payload for the session.

  --qr    draw the session as a QR code in the terminal
  --copy  write the session JSON to stdout, as a clipboard copy would
  --png   save the server-rendered QR code image to a file`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case qr:
				return printTerminalQR(cmd)
			case copyJSON:
				return copySession(cmd)
			case pngFile != "":
				return saveQRImage(cmd, pngFile)
			}

			var result sharing.SharePayload
			if err := client.Get(cmd.Context(), "/api/v1/session/share", &result); err != nil {
				return err
			}

			newOutput(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&qr, "qr", false, "Print a QR code of the session")
	cmd.Flags().BoolVar(&copyJSON, "copy", false, "Print the session JSON for copying")
	cmd.Flags().StringVar(&pngFile, "png", "", "Save the QR code image to this file")
	cmd.MarkFlagsMutuallyExclusive("qr", "copy", "png")

	return cmd
}

func fetchSession(cmd *cobra.Command) (model.Session, error) {
	var s model.Session
	err := client.Get(cmd.Context(), "/api/v1/session", &s)
	return s, err
}

func printTerminalQR(cmd *cobra.Command) error {
	s, err := fetchSession(cmd)
	if err != nil {
		return err
	}

	art, err := sharing.TerminalQR(s)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), art)
	return err
}

func copySession(cmd *cobra.Command) error {
	s, err := fetchSession(cmd)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))
	svc := sharing.NewService(logger)
	if !svc.Share(cmd.Context(), s, nil, sharing.NewWriterClipboard(cmd.OutOrStdout())) {
		return errors.New("could not copy session")
	}
	return nil
}

func saveQRImage(cmd *cobra.Command, path string) error {
	raw, err := client.DoRaw(cmd.Context(), http.MethodGet, "/api/v1/session/qr?format=png", nil)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, raw.Body, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	newOutput(cmd).PrintMessage("Saved " + path)
	return nil
}
