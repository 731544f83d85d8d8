package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/brandkit/internal/color"
	"github.com/alexisbeaulieu97/brandkit/internal/fonts"
	"github.com/alexisbeaulieu97/brandkit/internal/store"
	"github.com/alexisbeaulieu97/brandkit/internal/tokens"
	"github.com/alexisbeaulieu97/brandkit/internal/tui/picker"
)

func newSetCmd(rootFlags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update design tokens",
	}

	cmd.AddCommand(newSetColorCmd(rootFlags))
	cmd.AddCommand(newSetBackgroundCmd(rootFlags))
	cmd.AddCommand(newSetTypographyCmd(rootFlags))
	cmd.AddCommand(newSetBrandingCmd(rootFlags))
	cmd.AddCommand(newSetProviderCmd(rootFlags))

	return cmd
}

func newSetColorCmd(rootFlags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "color KEY=#RRGGBB...",
		Short:   "Set one or more palette colors",
		Example: "  brandkit set color primary=#3b82f6 accent=#f59e0b",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			updates, err := parseColorAssignments(args, tokens.PaletteKeys)
			if err != nil {
				return newCommandError("set color", "parsing assignments", err, fmt.Sprintf("Use KEY=#RRGGBB with KEY one of: %s.", strings.Join(tokens.PaletteKeys, ", ")))
			}

			app, err := newAppContext(cmd, rootFlags)
			if err != nil {
				return err
			}
			defer app.Close()

			palette := app.store.Snapshot().ColorPalette
			if palette == nil {
				palette = tokens.ColorPalette{}
			}
			for k, v := range updates {
				palette[k] = v
			}
			app.store.UpdateColorPalette(app.ctx, palette)

			fmt.Fprintf(cmd.OutOrStdout(), "Updated %d color(s)\n", len(updates))
			return nil
		},
	}
}

func newSetBackgroundCmd(rootFlags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "background KEY=#RRGGBB...",
		Short: "Set one or more background colors",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			updates, err := parseColorAssignments(args, tokens.BackgroundKeys)
			if err != nil {
				return newCommandError("set background", "parsing assignments", err, fmt.Sprintf("Use KEY=#RRGGBB with KEY one of: %s.", strings.Join(tokens.BackgroundKeys, ", ")))
			}

			app, err := newAppContext(cmd, rootFlags)
			if err != nil {
				return err
			}
			defer app.Close()

			backgrounds := app.store.Snapshot().Backgrounds
			if backgrounds == nil {
				backgrounds = tokens.Backgrounds{}
			}
			for k, v := range updates {
				backgrounds[k] = v
			}
			app.store.UpdateBackgrounds(app.ctx, backgrounds)

			fmt.Fprintf(cmd.OutOrStdout(), "Updated %d background(s)\n", len(updates))
			return nil
		},
	}
}

// parseColorAssignments parses KEY=#RRGGBB pairs, restricted to allowed keys.
func parseColorAssignments(args []string, allowed []string) (map[string]string, error) {
	known := make(map[string]bool, len(allowed))
	for _, k := range allowed {
		known[k] = true
	}

	out := make(map[string]string, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("expected KEY=#RRGGBB, got %q", arg)
		}
		if !known[key] {
			return nil, fmt.Errorf("unknown key %q", key)
		}
		rgb, err := color.ParseHex(value)
		if err != nil {
			return nil, err
		}
		out[key] = fmt.Sprintf("#%02x%02x%02x", rgb.R, rgb.G, rgb.B)
	}
	return out, nil
}

type setTypographyOptions struct {
	slot    string
	family  string
	weights []string
}

func newSetTypographyCmd(rootFlags *rootFlags) *cobra.Command {
	opts := &setTypographyOptions{}

	cmd := &cobra.Command{
		Use:     "typography",
		Short:   "Set the family and weights of a typography slot",
		Example: "  brandkit set typography --slot primary --family \"Open Sans\" --weights 400,600",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetTypography(cmd, rootFlags, opts)
		},
	}

	cmd.Flags().StringVar(&opts.slot, "slot", tokens.SlotPrimary, "Typography slot to update")
	cmd.Flags().StringVar(&opts.family, "family", "", "Font family name")
	cmd.Flags().StringSliceVar(&opts.weights, "weights", nil, "Comma-separated font weights")

	return cmd
}

func runSetTypography(cmd *cobra.Command, rootFlags *rootFlags, opts *setTypographyOptions) error {
	slotName := strings.TrimSpace(opts.slot)
	if slotName == "" {
		return newCommandError("set typography", "validating slot", errors.New("slot cannot be empty"), "Pass --slot primary or --slot secondary.")
	}
	if strings.TrimSpace(opts.family) == "" && len(opts.weights) == 0 {
		return newCommandError("set typography", "validating flags", errors.New("nothing to update"), "Pass --family and/or --weights.")
	}

	app, err := newAppContext(cmd, rootFlags)
	if err != nil {
		return err
	}
	defer app.Close()

	typography := app.store.Snapshot().Typography
	if typography == nil {
		typography = tokens.Typography{}
	}
	slot := typography[slotName]
	if family := strings.TrimSpace(opts.family); family != "" {
		slot.Family = family
	}
	if len(opts.weights) > 0 {
		slot.Weights = opts.weights
	}

	slot.URLs = make(map[string]string, 2)
	for _, id := range []string{tokens.ProviderGoogle, tokens.ProviderBunny} {
		href, err := fonts.BuildURL(tokens.Providers[id], slot.FamilyOrDefault(), slot.Weights)
		if err != nil {
			return newCommandError("set typography", "building stylesheet URL", err, "Report this as a bug.")
		}
		slot.URLs[id] = href
	}
	typography[slotName] = slot
	app.store.UpdateTypography(app.ctx, typography)

	fmt.Fprintf(cmd.OutOrStdout(), "Updated %s typography: %s %s\n", slotName, slot.FamilyOrDefault(), strings.Join(slot.Weights, ","))
	return nil
}

type setBrandingOptions struct {
	name string
	logo string
}

func newSetBrandingCmd(rootFlags *rootFlags) *cobra.Command {
	opts := &setBrandingOptions{}

	cmd := &cobra.Command{
		Use:   "branding",
		Short: "Set the brand name and logo URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("name") && !cmd.Flags().Changed("logo") {
				return newCommandError("set branding", "validating flags", errors.New("nothing to update"), "Pass --name and/or --logo.")
			}

			app, err := newAppContext(cmd, rootFlags)
			if err != nil {
				return err
			}
			defer app.Close()

			current := app.store.Snapshot()
			branding := store.Branding{BrandName: current.BrandName, LogoURL: current.LogoURL}
			if cmd.Flags().Changed("name") {
				branding.BrandName = opts.name
			}
			if cmd.Flags().Changed("logo") {
				branding.LogoURL = opts.logo
			}
			app.store.UpdateBranding(app.ctx, branding)

			fmt.Fprintf(cmd.OutOrStdout(), "Updated branding: %s\n", valueOrFallback(branding.BrandName, "(no name)"))
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.name, "name", "", "Brand name")
	cmd.Flags().StringVar(&opts.logo, "logo", "", "Logo URL")

	return cmd
}

func newSetProviderCmd(rootFlags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "provider [google|bunny|local|system]",
		Short: "Set the font provider (interactive when no ID is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext(cmd, rootFlags)
			if err != nil {
				return err
			}
			defer app.Close()

			var provider tokens.FontProvider
			if len(args) == 1 {
				provider, err = tokens.LookupProvider(strings.ToLower(strings.TrimSpace(args[0])))
				if err != nil {
					return newCommandError("set provider", "looking up provider", err, "Use one of: google, bunny, local, system.")
				}
			} else {
				if !isTerminal(cmd.InOrStdin()) || !isTerminal(cmd.OutOrStdout()) {
					return newCommandError("set provider", "choosing provider", errors.New("no provider given and not running in a terminal"), "Pass the provider ID as an argument.")
				}
				chosen, ok, err := picker.Run(app.store.Snapshot().FontProvider.ID, os.Stdin, cmd.OutOrStdout())
				if err != nil {
					return newCommandError("set provider", "running picker", err, "Pass the provider ID as an argument.")
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "No changes made")
					return nil
				}
				provider = chosen
			}

			app.store.UpdateFontProvider(app.ctx, provider)
			app.store.Wait()

			fmt.Fprintf(cmd.OutOrStdout(), "Font provider set to %s\n", provider.Name)
			if provider.ID == tokens.ProviderLocal {
				fmt.Fprintln(cmd.OutOrStdout(), "Note: self-hosted fonts are not loaded automatically.")
			}
			return nil
		},
	}
}
