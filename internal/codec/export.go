package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/alexisbeaulieu97/brandkit/internal/tokens"
)

// EnvelopeVersion is written into catalog exports and envelopes.
const EnvelopeVersion = "1.0"

// Export formats.
const (
	FormatJSON        = "json"
	FormatCSS         = "css"
	FormatFigmaTokens = "figma-tokens"
	FormatStorybook   = "storybook"
	FormatYAML        = "yaml"
)

// Formats lists the supported export formats.
var Formats = []string{FormatJSON, FormatCSS, FormatFigmaTokens, FormatStorybook, FormatYAML}

// SpacingStep is one entry of the spacing scale.
type SpacingStep struct {
	Name  string
	Value string
}

// SpacingScale is exported alongside the bundle.
var SpacingScale = []SpacingStep{
	{Name: "xs", Value: "0.25rem"},
	{Name: "sm", Value: "0.5rem"},
	{Name: "md", Value: "1rem"},
	{Name: "lg", Value: "1.5rem"},
	{Name: "xl", Value: "2rem"},
	{Name: "2xl", Value: "3rem"},
}

var now = time.Now

// CatalogExport is the catalog export document.
type CatalogExport struct {
	Version    string                    `json:"version" yaml:"version"`
	ExportedAt string                    `json:"exportedAt" yaml:"exportedAt"`
	Colors     map[string]string         `json:"colors" yaml:"colors"`
	Typography map[string]ExportTypeface `json:"typography" yaml:"typography"`
	Spacing    map[string]string         `json:"spacing" yaml:"spacing"`
	Metadata   ExportMetadata            `json:"metadata" yaml:"metadata"`
}

// ExportTypeface is a typography slot without provider URLs.
type ExportTypeface struct {
	Family  string   `json:"family" yaml:"family"`
	Weights []string `json:"weights" yaml:"weights"`
}

// ExportMetadata describes the export.
type ExportMetadata struct {
	BrandName  string `json:"brandName" yaml:"brandName"`
	ExportedAt string `json:"exportedAt" yaml:"exportedAt"`
	Version    string `json:"version" yaml:"version"`
}

// BuildCatalogExport assembles the export document for bundle.
func BuildCatalogExport(bundle tokens.Bundle) CatalogExport {
	ts := now().UTC().Format(time.RFC3339)

	colors := make(map[string]string, len(bundle.ColorPalette))
	for k, v := range bundle.ColorPalette {
		colors[k] = v
	}
	typography := make(map[string]ExportTypeface, len(bundle.Typography))
	for name, slot := range bundle.Typography {
		weights := slot.Weights
		if weights == nil {
			weights = []string{}
		}
		typography[name] = ExportTypeface{Family: slot.FamilyOrDefault(), Weights: weights}
	}
	spacing := make(map[string]string, len(SpacingScale))
	for _, step := range SpacingScale {
		spacing[step.Name] = step.Value
	}

	return CatalogExport{
		Version:    EnvelopeVersion,
		ExportedAt: ts,
		Colors:     colors,
		Typography: typography,
		Spacing:    spacing,
		Metadata:   ExportMetadata{BrandName: bundle.BrandName, ExportedAt: ts, Version: EnvelopeVersion},
	}
}

// NormalizeFormat returns format when supported and FormatJSON otherwise.
func NormalizeFormat(format string) string {
	f := strings.ToLower(strings.TrimSpace(format))
	for _, known := range Formats {
		if f == known {
			return f
		}
	}
	return FormatJSON
}

// Export renders bundle in format. Unknown formats render as json.
func Export(bundle tokens.Bundle, format string) (string, error) {
	doc := BuildCatalogExport(bundle)

	switch NormalizeFormat(format) {
	case FormatCSS:
		return renderCSS(bundle), nil
	case FormatFigmaTokens:
		return renderFigma(doc)
	case FormatStorybook:
		return renderStorybook(doc)
	case FormatYAML:
		return renderYAML(doc)
	default:
		return renderJSON(doc)
	}
}

func renderJSON(v interface{}) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode json export: %w", err)
	}
	return string(data), nil
}

func renderCSS(bundle tokens.Bundle) string {
	var b strings.Builder
	b.WriteString(":root {\n")
	for _, key := range orderedKeys(bundle.ColorPalette, tokens.PaletteKeys) {
		if v := bundle.ColorPalette[key]; v != "" {
			fmt.Fprintf(&b, "  --color-%s: %s;\n", key, v)
		}
	}
	for _, step := range SpacingScale {
		fmt.Fprintf(&b, "  --spacing-%s: %s;\n", step.Name, step.Value)
	}
	b.WriteString("}\n")
	return b.String()
}

type figmaToken struct {
	Value string `json:"value"`
	Type  string `json:"type"`
}

func renderFigma(doc CatalogExport) (string, error) {
	out := map[string]map[string]figmaToken{
		"colors":       {},
		"spacing":      {},
		"fontFamilies": {},
	}
	for k, v := range doc.Colors {
		out["colors"][k] = figmaToken{Value: v, Type: "color"}
	}
	for k, v := range doc.Spacing {
		out["spacing"][k] = figmaToken{Value: v, Type: "spacing"}
	}
	for k, v := range doc.Typography {
		out["fontFamilies"][k] = figmaToken{Value: v.Family, Type: "fontFamilies"}
	}
	return renderJSON(out)
}

func renderStorybook(doc CatalogExport) (string, error) {
	colors, err := json.MarshalIndent(doc.Colors, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode storybook colors: %w", err)
	}
	typography, err := json.MarshalIndent(doc.Typography, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode storybook typography: %w", err)
	}
	return fmt.Sprintf("export const colors = %s;\n\nexport const typography = %s;\n", colors, typography), nil
}

func renderYAML(doc CatalogExport) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return "", fmt.Errorf("encode yaml export: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encode yaml export: %w", err)
	}
	return buf.String(), nil
}

// BuildEnvelope wraps bundle as a catalog import envelope carrying only
// designTokens.
func BuildEnvelope(bundle tokens.Bundle) (tokens.ImportEnvelope, error) {
	raw, err := json.Marshal(bundle)
	if err != nil {
		return tokens.ImportEnvelope{}, fmt.Errorf("encode design tokens: %w", err)
	}
	return tokens.ImportEnvelope{
		Version:      EnvelopeVersion,
		ExportedAt:   now().UTC().Format(time.RFC3339),
		DesignTokens: raw,
	}, nil
}

func orderedKeys(values map[string]string, order []string) []string {
	keys := make([]string, 0, len(values))
	known := make(map[string]bool, len(order))
	for _, k := range order {
		known[k] = true
		if _, ok := values[k]; ok {
			keys = append(keys, k)
		}
	}
	var extra []string
	for k := range values {
		if !known[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	return append(keys, extra...)
}
