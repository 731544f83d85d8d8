package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/brandkit/internal/codec"
	"github.com/alexisbeaulieu97/brandkit/internal/infrastructure/logging"
	"github.com/alexisbeaulieu97/brandkit/internal/persistence"
	"github.com/alexisbeaulieu97/brandkit/internal/ports"
	"github.com/alexisbeaulieu97/brandkit/internal/store"
	"github.com/alexisbeaulieu97/brandkit/internal/tokens"
	"github.com/alexisbeaulieu97/brandkit/pkg/diff"
)

func newCatalogCmd(rootFlags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Validate and import catalog envelopes",
	}

	cmd.AddCommand(newCatalogValidateCmd())
	cmd.AddCommand(newCatalogImportCmd(rootFlags))

	return cmd
}

type catalogValidateOptions struct {
	jsonOutput bool
}

func newCatalogValidateCmd() *cobra.Command {
	opts := &catalogValidateOptions{}

	cmd := &cobra.Command{
		Use:   "validate FILE",
		Short: "Check a catalog envelope without importing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return newCommandError("validate catalog", fmt.Sprintf("reading %s", args[0]), err, "Check the file path and permissions.")
			}

			result := codec.Validate(string(data))
			if opts.jsonOutput {
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				if err := encoder.Encode(result); err != nil {
					return err
				}
			} else {
				renderValidation(cmd.OutOrStdout(), result)
			}

			if !result.Valid {
				return newCommandError("validate catalog", args[0], fmt.Errorf("%d validation error(s)", len(result.Errors)), "Fix the listed problems and validate again.")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output the result as JSON")

	return cmd
}

func renderValidation(w io.Writer, result codec.Result) {
	if result.Valid {
		fmt.Fprintln(w, "Valid catalog envelope")
	} else {
		fmt.Fprintln(w, "Invalid catalog envelope")
	}
	for _, e := range result.Errors {
		fmt.Fprintf(w, "  error:   %s\n", e)
	}
	for _, warning := range result.Warnings {
		fmt.Fprintf(w, "  warning: %s\n", warning)
	}
	if result.Stats != nil {
		fmt.Fprintf(w, "Categories: %d  Components: %d  Tokens: %d\n",
			result.Stats.Categories, result.Stats.Components, result.Stats.Tokens)
	}
}

type catalogImportOptions struct {
	showDiff bool
	dryRun   bool
}

func newCatalogImportCmd(rootFlags *rootFlags) *cobra.Command {
	opts := &catalogImportOptions{}

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Validate a catalog envelope and apply its design tokens",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalogImport(cmd, rootFlags, opts, args[0])
		},
	}

	cmd.Flags().BoolVar(&opts.showDiff, "diff", false, "Show how the stored tokens change")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Preview the change without applying it (implies --diff)")

	return cmd
}

func runCatalogImport(cmd *cobra.Command, rootFlags *rootFlags, opts *catalogImportOptions, path string) error {
	data, err := readInput(cmd, path)
	if err != nil {
		return newCommandError("import catalog", fmt.Sprintf("reading %s", path), err, "Check the file path and permissions.")
	}

	app, err := newAppContext(cmd, rootFlags)
	if err != nil {
		return err
	}
	defer app.Close()

	result := codec.Validate(string(data))
	if !result.Valid {
		renderValidation(cmd.OutOrStdout(), result)
		publish(app, ports.EventCatalogRejected, map[string]interface{}{"file": path, "errors": len(result.Errors)})
		return newCommandError("import catalog", path, fmt.Errorf("%d validation error(s)", len(result.Errors)), "Run 'brandkit catalog validate' and fix the listed problems.")
	}
	for _, warning := range result.Warnings {
		app.logger.Warn(app.ctx, "catalog warning", "file", path, "warning", warning)
	}

	envelope, err := codec.DecodeEnvelope(string(data))
	if err != nil {
		return newCommandError("import catalog", "decoding envelope", err, "Run 'brandkit catalog validate' for details.")
	}
	if len(envelope.DesignTokens) == 0 || string(envelope.DesignTokens) == "null" {
		fmt.Fprintf(cmd.OutOrStdout(), "No design tokens in %s; nothing to apply (%d categories, %d components)\n",
			path, result.Stats.Categories, result.Stats.Components)
		return nil
	}

	before := app.store.Snapshot()
	var after tokens.Bundle
	if opts.dryRun {
		after, err = previewDesignTokens(app.ctx, before, envelope.DesignTokens)
		if err != nil {
			return newCommandError("import catalog", "applying designTokens", err, "designTokens must be a JSON object of bundle fields.")
		}
	} else {
		if !app.store.ApplyDesignTokens(app.ctx, envelope.DesignTokens) {
			publish(app, ports.EventCatalogRejected, map[string]interface{}{"file": path, "reason": "designTokens is not an object"})
			return newCommandError("import catalog", "applying designTokens", errors.New("designTokens is not a JSON object"), "designTokens must be a JSON object of bundle fields.")
		}
		after = app.store.Snapshot()
	}

	if opts.showDiff || opts.dryRun {
		if err := renderBundleDiff(cmd.OutOrStdout(), before, after); err != nil {
			return err
		}
	}

	if opts.dryRun {
		fmt.Fprintln(cmd.OutOrStdout(), "Dry run: no changes applied")
		return nil
	}
	publish(app, ports.EventCatalogImported, map[string]interface{}{"file": path, "tokens": result.Stats.Tokens})
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d design token field(s) from %s\n", result.Stats.Tokens, path)
	return nil
}

// previewDesignTokens applies raw to a scratch store seeded with current.
func previewDesignTokens(ctx context.Context, current tokens.Bundle, raw json.RawMessage) (tokens.Bundle, error) {
	scratchKV := persistence.NewMemoryKV()
	gateway := persistence.NewGateway(scratchKV, logging.NewNoOpLogger())
	if err := gateway.Write(ctx, current); err != nil {
		return tokens.Bundle{}, err
	}
	scratch := store.New(ctx, store.Options{Persistence: gateway, Defer: func(fn func()) { fn() }})
	if !scratch.ApplyDesignTokens(ctx, raw) {
		return tokens.Bundle{}, errors.New("designTokens is not a JSON object")
	}
	return scratch.Snapshot(), nil
}

func renderBundleDiff(w io.Writer, before, after tokens.Bundle) error {
	b, err := json.MarshalIndent(before, "", "  ")
	if err != nil {
		return err
	}
	a, err := json.MarshalIndent(after, "", "  ")
	if err != nil {
		return err
	}

	summary := diff.Summarize(b, a)
	if summary.Added == 0 && summary.Removed == 0 {
		fmt.Fprintln(w, "No token changes")
		return nil
	}
	out := diff.Lines(b, a, "current", "imported")
	fmt.Fprint(w, out)
	if !strings.HasSuffix(out, "\n") {
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "%d line(s) added, %d line(s) removed\n", summary.Added, summary.Removed)
	return nil
}

func publish(app *appContext, eventType string, fields map[string]interface{}) {
	if err := app.notifier.Publish(app.ctx, ports.Notice{Type: eventType, Fields: fields}); err != nil {
		app.logger.Warn(app.ctx, "failed to publish notification", "event_type", eventType, "error", err)
	}
}
