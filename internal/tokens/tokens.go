// Package tokens defines the design-token bundle shared by the store, the
// persistence gateway, the propagator and the codec.
package tokens

import (
	"errors"
	"fmt"
	"sort"
)

// Palette keys in propagation order.
const (
	ColorPrimary    = "primary"
	ColorSecondary  = "secondary"
	ColorAccent     = "accent"
	ColorNeutral    = "neutral"
	ColorBackground = "background"
	ColorText       = "text"
	ColorSuccess    = "success"
	ColorWarning    = "warning"
	ColorError      = "error"
	ColorBrand      = "brand"
)

// PaletteKeys lists the semantic colour names in a stable order.
var PaletteKeys = []string{
	ColorPrimary, ColorSecondary, ColorAccent, ColorNeutral, ColorBackground,
	ColorText, ColorSuccess, ColorWarning, ColorError, ColorBrand,
}

// BackgroundKeys lists the background names in a stable order.
var BackgroundKeys = []string{"light", "neutral", "cool"}

// Typography slot names.
const (
	SlotPrimary   = "primary"
	SlotSecondary = "secondary"
)

// DefaultFamily is used by any slot that has no family.
const DefaultFamily = "Inter"

// ColorPalette maps semantic colour names to #RRGGBB values.
type ColorPalette map[string]string

// Backgrounds maps background names to #RRGGBB values.
type Backgrounds map[string]string

// TypographySlot describes one font family and where each provider serves it.
type TypographySlot struct {
	Family  string            `json:"family" yaml:"family"`
	Weights []string          `json:"weights" yaml:"weights"`
	URLs    map[string]string `json:"urls,omitempty" yaml:"urls,omitempty"`
}

// FamilyOrDefault returns the slot family or DefaultFamily when unset.
func (s TypographySlot) FamilyOrDefault() string {
	if s.Family == "" {
		return DefaultFamily
	}
	return s.Family
}

// Typography maps slot names to their definition.
type Typography map[string]TypographySlot

// SlotNames returns primary, secondary, then any other slots sorted.
func (t Typography) SlotNames() []string {
	names := make([]string, 0, len(t))
	for _, fixed := range []string{SlotPrimary, SlotSecondary} {
		if _, ok := t[fixed]; ok {
			names = append(names, fixed)
		}
	}
	var rest []string
	for name := range t {
		if name != SlotPrimary && name != SlotSecondary {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(names, rest...)
}

// Bundle is the unit of persistence, export and import.
type Bundle struct {
	ColorPalette ColorPalette `json:"colorPalette"`
	Typography   Typography   `json:"typography"`
	BrandName    string       `json:"brandName"`
	LogoURL      string       `json:"logoUrl"`
	Backgrounds  Backgrounds  `json:"backgrounds"`
	FontProvider FontProvider `json:"fontProvider"`
}

// Defaults returns a fresh default bundle. Callers may mutate the result.
func Defaults() Bundle {
	return Bundle{
		ColorPalette: ColorPalette{
			ColorPrimary:    "#3b82f6",
			ColorSecondary:  "#64748b",
			ColorAccent:     "#f59e0b",
			ColorNeutral:    "#6b7280",
			ColorBackground: "#ffffff",
			ColorText:       "#0f172a",
			ColorSuccess:    "#22c55e",
			ColorWarning:    "#eab308",
			ColorError:      "#ef4444",
			ColorBrand:      "#6366f1",
		},
		Typography: Typography{
			SlotPrimary: {
				Family:  DefaultFamily,
				Weights: []string{"400", "500", "600", "700"},
				URLs: map[string]string{
					ProviderGoogle: "https://fonts.googleapis.com/css2?family=Inter:wght@400;500;600;700&display=swap",
					ProviderBunny:  "https://fonts.bunny.net/css?family=inter:400,500,600,700",
				},
			},
			SlotSecondary: {
				Family:  DefaultFamily,
				Weights: []string{"400", "600"},
				URLs: map[string]string{
					ProviderGoogle: "https://fonts.googleapis.com/css2?family=Inter:wght@400;600&display=swap",
					ProviderBunny:  "https://fonts.bunny.net/css?family=inter:400,600",
				},
			},
		},
		BrandName: "Brandkit",
		LogoURL:   "",
		Backgrounds: Backgrounds{
			"light":   "#f8fafc",
			"neutral": "#f4f4f5",
			"cool":    "#f0f9ff",
		},
		FontProvider: Providers[ProviderGoogle],
	}
}

// Clone deep-copies the bundle.
func (b Bundle) Clone() Bundle {
	out := b
	out.ColorPalette = cloneStrings(b.ColorPalette)
	out.Backgrounds = cloneStrings(b.Backgrounds)
	if b.Typography != nil {
		out.Typography = make(Typography, len(b.Typography))
		for name, slot := range b.Typography {
			out.Typography[name] = slot.clone()
		}
	}
	return out
}

func (s TypographySlot) clone() TypographySlot {
	out := s
	if s.Weights != nil {
		out.Weights = append([]string(nil), s.Weights...)
	}
	if s.URLs != nil {
		out.URLs = make(map[string]string, len(s.URLs))
		for k, v := range s.URLs {
			out.URLs[k] = v
		}
	}
	return out
}

func cloneStrings[M ~map[string]string](in M) M {
	if in == nil {
		return nil
	}
	out := make(M, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// MergeDefaults fills every field missing from b with the default value.
// Maps are merged key by key so a stored bundle written by an older build
// still resolves every palette and background name.
func MergeDefaults(b Bundle) Bundle {
	def := Defaults()
	out := b.Clone()

	out.ColorPalette = mergeStrings(def.ColorPalette, out.ColorPalette)
	out.Backgrounds = mergeStrings(def.Backgrounds, out.Backgrounds)

	if out.Typography == nil {
		out.Typography = def.Typography
	} else {
		for name, slot := range def.Typography {
			if _, ok := out.Typography[name]; !ok {
				out.Typography[name] = slot
			}
		}
	}
	if out.BrandName == "" {
		out.BrandName = def.BrandName
	}
	if _, err := LookupProvider(out.FontProvider.ID); err != nil {
		out.FontProvider = def.FontProvider
	}
	return out
}

func mergeStrings[M ~map[string]string](defaults, values M) M {
	out := make(M, len(defaults)+len(values))
	for k, v := range defaults {
		out[k] = v
	}
	for k, v := range values {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

// ErrUnknownProvider is returned by LookupProvider for ids outside the registry.
var ErrUnknownProvider = errors.New("unknown font provider")

// Provider ids.
const (
	ProviderGoogle = "google"
	ProviderBunny  = "bunny"
	ProviderLocal  = "local"
	ProviderSystem = "system"
)

// FontProvider identifies how font stylesheets are delivered.
type FontProvider struct {
	ID      string `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	BaseURL string `json:"baseUrl,omitempty" yaml:"baseUrl,omitempty"`
}

// Remote reports whether the provider serves stylesheets over the network.
func (p FontProvider) Remote() bool {
	return p.BaseURL != ""
}

// Providers is the closed set of supported font providers.
var Providers = map[string]FontProvider{
	ProviderGoogle: {ID: ProviderGoogle, Name: "Google Fonts", BaseURL: "https://fonts.googleapis.com/css2"},
	ProviderBunny:  {ID: ProviderBunny, Name: "Bunny Fonts", BaseURL: "https://fonts.bunny.net/css"},
	ProviderLocal:  {ID: ProviderLocal, Name: "Self-hosted"},
	ProviderSystem: {ID: ProviderSystem, Name: "System fonts"},
}

// ProviderIDs lists provider ids in display order.
var ProviderIDs = []string{ProviderGoogle, ProviderBunny, ProviderLocal, ProviderSystem}

// LookupProvider returns the registered provider for id.
func LookupProvider(id string) (FontProvider, error) {
	p, ok := Providers[id]
	if !ok {
		return FontProvider{}, fmt.Errorf("%w: %q", ErrUnknownProvider, id)
	}
	return p, nil
}
