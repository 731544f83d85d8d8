package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

type cssOptions struct {
	head bool
}

func newCSSCmd(rootFlags *rootFlags) *cobra.Command {
	opts := &cssOptions{}

	cmd := &cobra.Command{
		Use:   "css",
		Short: "Print the styling variables for the current tokens",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext(cmd, rootFlags)
			if err != nil {
				return err
			}
			defer app.Close()

			if opts.head {
				fmt.Fprint(cmd.OutOrStdout(), app.sheet.HeadHTML())
			}
			fmt.Fprint(cmd.OutOrStdout(), app.sheet.CSS())
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.head, "head", false, "Also print the font <link> elements")

	return cmd
}
