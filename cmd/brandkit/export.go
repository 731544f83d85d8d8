package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/brandkit/internal/codec"
)

type exportOptions struct {
	format   string
	envelope bool
	output   string
}

func newExportCmd(rootFlags *rootFlags) *cobra.Command {
	opts := &exportOptions{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the design tokens",
		Long: `Export the design tokens.

Without flags the settings document is written (the bundle plus exportedAt and
version), which 'brandkit import' reads back. --format renders the catalog
export in json, css, figma-tokens, storybook or yaml. --envelope writes a
catalog import envelope carrying the bundle as designTokens.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, rootFlags, opts)
		},
	}

	cmd.Flags().StringVar(&opts.format, "format", "", "Catalog export format: "+strings.Join(codec.Formats, ", "))
	cmd.Flags().BoolVar(&opts.envelope, "envelope", false, "Write a catalog import envelope")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Write to file instead of stdout")

	return cmd
}

func runExport(cmd *cobra.Command, rootFlags *rootFlags, opts *exportOptions) error {
	if opts.envelope && opts.format != "" {
		return newCommandError("export", "validating flags", errors.New("--envelope and --format are mutually exclusive"), "Pick one of --envelope or --format.")
	}

	app, err := newAppContext(cmd, rootFlags)
	if err != nil {
		return err
	}
	defer app.Close()

	var out string
	switch {
	case opts.envelope:
		env, err := codec.BuildEnvelope(app.store.Snapshot())
		if err != nil {
			return newCommandError("export", "building envelope", err, "Run 'brandkit reset' if the stored tokens are corrupt.")
		}
		data, err := json.MarshalIndent(env, "", "  ")
		if err != nil {
			return newCommandError("export", "encoding envelope", err, "Run 'brandkit reset' if the stored tokens are corrupt.")
		}
		out = string(data)
	case opts.format != "":
		format := codec.NormalizeFormat(opts.format)
		if format != strings.ToLower(strings.TrimSpace(opts.format)) {
			app.logger.Warn(app.ctx, "unknown export format; using json", "format", opts.format)
		}
		out, err = codec.Export(app.store.Snapshot(), format)
		if err != nil {
			return newCommandError("export", "rendering "+format, err, "Try --format json.")
		}
	default:
		out = app.store.ExportSettings(app.ctx)
	}

	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}

	if opts.output == "" {
		_, err = fmt.Fprint(cmd.OutOrStdout(), out)
		return err
	}
	if err := atomic.WriteFile(opts.output, bytes.NewReader([]byte(out))); err != nil {
		return newCommandError("export", fmt.Sprintf("writing %s", opts.output), err, "Check that the directory exists and is writable.")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", opts.output)
	return nil
}
