package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"pqchat/internal/app"
)

func fingerprintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fingerprint",
		Short: "Print identity fingerprint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return offline(cmd, func(a *app.ClientApp) error {
				fp, err := a.IDs.Fingerprint()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Fingerprint: %s\n", fp)
				return nil
			})
		},
	}
	return cmd
}
