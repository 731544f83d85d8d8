package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newResetCmd(rootFlags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restore the default design tokens",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext(cmd, rootFlags)
			if err != nil {
				return err
			}
			defer app.Close()

			app.store.Reset(app.ctx)
			fmt.Fprintln(cmd.OutOrStdout(), "Design tokens reset to defaults")
			return nil
		},
	}
}
