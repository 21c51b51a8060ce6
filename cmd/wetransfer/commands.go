package main

import (
	"fmt"
	"path/filepath"
	"time"

	units "github.com/docker/go-units"
	"github.com/spf13/cobra"

	"github.com/wetransfer/wetransfer-go"
)

func newAuthorizeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "authorize",
		Short: "Check the API key by obtaining a token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			if err := client.Authorize(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "authorized")
			return nil
		},
	}
}

func newSendCmd(a *app) *cobra.Command {
	var name, message string

	cmd := &cobra.Command{
		Use:   "send <file>...",
		Short: "Create a transfer with the given files and upload them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				name = filepath.Base(args[0])
			}

			// Progress lines are written inline so they are ordered
			// with the command's own output.
			client, err := a.newClient(wetransfer.WithCallbackExecutor(wetransfer.InlineExecutor))
			if err != nil {
				return err
			}
			defer client.Close()

			errOut := cmd.ErrOrStderr()
			start := time.Now()
			transfer, err := client.Send(cmd.Context(), name, message, args, func(p wetransfer.ProgressSnapshot) {
				fmt.Fprintf(errOut, "uploaded %s of %s (%.0f%%)\n",
					units.HumanSize(float64(p.BytesSent)),
					units.HumanSize(float64(p.TotalBytes)),
					p.Fraction()*100)
			})
			if err != nil {
				return err
			}

			a.logger.Info().
				Str("transfer", transfer.Identifier).
				Int("files", len(transfer.Files)).
				Str("size", units.HumanSize(float64(transfer.Size()))).
				Dur("elapsed", time.Since(start)).
				Msg("transfer sent")
			fmt.Fprintln(cmd.OutOrStdout(), transfer.ShortURL)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Transfer name (default: the first file's name)")
	cmd.Flags().StringVarP(&message, "message", "m", "", "Message shown to recipients")
	return cmd
}
