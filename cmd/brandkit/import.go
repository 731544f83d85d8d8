package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newImportCmd(rootFlags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import a settings document produced by 'brandkit export'",
		Long: `Import a settings document produced by 'brandkit export'.

Only the fields present in the document are replaced. Use '-' to read stdin.
Catalog envelopes are imported with 'brandkit catalog import' instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return newCommandError("import", fmt.Sprintf("reading %s", args[0]), err, "Check the file path and permissions.")
			}

			app, err := newAppContext(cmd, rootFlags)
			if err != nil {
				return err
			}
			defer app.Close()

			if !app.store.ImportSettings(app.ctx, string(data)) {
				return newCommandError("import", fmt.Sprintf("parsing %s", args[0]), errors.New("invalid settings JSON"), "Export a fresh file with 'brandkit export'.")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Settings imported")
			return nil
		},
	}
}
