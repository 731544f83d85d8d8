package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/brandkit/internal/color"
	"github.com/alexisbeaulieu97/brandkit/internal/tokens"
)

type showOptions struct {
	jsonOutput bool
}

func newShowCmd(rootFlags *rootFlags) *cobra.Command {
	opts := &showOptions{}

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the current design tokens",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd, rootFlags, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output the bundle as JSON")

	return cmd
}

func runShow(cmd *cobra.Command, rootFlags *rootFlags, opts *showOptions) error {
	app, err := newAppContext(cmd, rootFlags)
	if err != nil {
		return err
	}
	defer app.Close()

	bundle := app.store.Snapshot()
	if opts.jsonOutput {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(bundle)
	}

	renderShowTable(cmd.OutOrStdout(), bundle, app.store.State().String(), isTerminal(cmd.OutOrStdout()))
	return nil
}

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

func renderShowTable(w io.Writer, bundle tokens.Bundle, state string, swatches bool) {
	fmt.Fprintf(w, "Brand:    %s\n", valueOrFallback(bundle.BrandName, "(no name)"))
	fmt.Fprintf(w, "Logo:     %s\n", valueOrFallback(bundle.LogoURL, "(none)"))
	fmt.Fprintf(w, "Provider: %s (%s)\n", bundle.FontProvider.Name, bundle.FontProvider.ID)
	fmt.Fprintf(w, "Source:   %s\n", state)

	fmt.Fprintf(w, "\n%s\n", headingStyle.Render("Colors"))
	for _, key := range orderedKeys(bundle.ColorPalette, tokens.PaletteKeys) {
		renderColorRow(w, key, bundle.ColorPalette[key], swatches)
	}

	fmt.Fprintf(w, "\n%s\n", headingStyle.Render("Backgrounds"))
	for _, key := range orderedKeys(bundle.Backgrounds, tokens.BackgroundKeys) {
		renderColorRow(w, key, bundle.Backgrounds[key], swatches)
	}

	fmt.Fprintf(w, "\n%s\n", headingStyle.Render("Typography"))
	for _, name := range bundle.Typography.SlotNames() {
		slot := bundle.Typography[name]
		fmt.Fprintf(w, "  %-12s %s %s\n", name, slot.FamilyOrDefault(), mutedStyle.Render(strings.Join(slot.Weights, ", ")))
	}
}

func renderColorRow(w io.Writer, key, hex string, swatches bool) {
	triplet, err := color.ToHSLTriplet(hex)
	if err != nil {
		triplet = "invalid"
	}
	swatch := ""
	if swatches && err == nil {
		swatch = " " + lipgloss.NewStyle().Background(lipgloss.Color(normalizeHex(hex))).Render("    ")
	}
	fmt.Fprintf(w, "  %-12s %-8s %s%s\n", key, hex, mutedStyle.Render(triplet), swatch)
}

func normalizeHex(hex string) string {
	return "#" + strings.TrimPrefix(strings.TrimSpace(hex), "#")
}

func valueOrFallback(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func orderedKeys(values map[string]string, order []string) []string {
	keys := make([]string, 0, len(values))
	seen := make(map[string]bool, len(order))
	for _, k := range order {
		seen[k] = true
		if _, ok := values[k]; ok {
			keys = append(keys, k)
		}
	}
	var extra []string
	for k := range values {
		if !seen[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	return append(keys, extra...)
}
