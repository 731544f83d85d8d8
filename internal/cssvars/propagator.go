// Package cssvars writes a token bundle into the live document as styling
// variables and refreshes the font links.
package cssvars

import (
	"context"
	"sort"

	"github.com/alexisbeaulieu97/brandkit/internal/color"
	"github.com/alexisbeaulieu97/brandkit/internal/document"
	"github.com/alexisbeaulieu97/brandkit/internal/ports"
	"github.com/alexisbeaulieu97/brandkit/internal/tokens"
)

// Variable names for the typography slots.
const (
	VarFontPrimary   = "--font-primary"
	VarFontSecondary = "--font-secondary"
)

// FontLoader refreshes font stylesheet links.
type FontLoader interface {
	Load(ctx context.Context, typography tokens.Typography, provider tokens.FontProvider) int
}

// Propagator applies bundles to a document. Apply is idempotent.
type Propagator struct {
	doc    document.Document
	fonts  FontLoader
	logger ports.Logger
}

// New creates a propagator.
func New(doc document.Document, fonts FontLoader, logger ports.Logger) *Propagator {
	return &Propagator{doc: doc, fonts: fonts, logger: logger.With("component", "propagator")}
}

// Apply writes every valid palette and background colour as --<key>, the
// primary and secondary font families, and reloads the font links.
func (p *Propagator) Apply(ctx context.Context, bundle tokens.Bundle) {
	if b, ok := p.doc.(document.Batcher); ok {
		b.Batch(func() { p.apply(ctx, bundle) })
		return
	}
	p.apply(ctx, bundle)
}

func (p *Propagator) apply(ctx context.Context, bundle tokens.Bundle) {
	written := p.writeColors(ctx, bundle.ColorPalette, tokens.PaletteKeys)
	written += p.writeColors(ctx, bundle.Backgrounds, tokens.BackgroundKeys)

	// --accent follows primary unless the palette carries a usable accent.
	if !color.IsHex(bundle.ColorPalette[tokens.ColorAccent]) {
		if triplet, err := color.ToHSLTriplet(bundle.ColorPalette[tokens.ColorPrimary]); err == nil {
			p.doc.SetVariable("--"+tokens.ColorAccent, triplet)
		}
	}

	p.doc.SetVariable(VarFontPrimary, bundle.Typography[tokens.SlotPrimary].FamilyOrDefault())
	p.doc.SetVariable(VarFontSecondary, bundle.Typography[tokens.SlotSecondary].FamilyOrDefault())

	if p.fonts != nil {
		p.fonts.Load(ctx, bundle.Typography, bundle.FontProvider)
	}
	p.logger.Debug(ctx, "tokens propagated", "variables", written, "provider", bundle.FontProvider.ID)
}

// writeColors writes known keys first in order, then any extra keys sorted.
func (p *Propagator) writeColors(ctx context.Context, values map[string]string, order []string) int {
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
	keys = append(keys, extra...)

	written := 0
	for _, key := range keys {
		value := values[key]
		if value == "" {
			continue
		}
		triplet, err := color.ToHSLTriplet(value)
		if err != nil {
			p.logger.Debug(ctx, "skipping colour", "key", key, "value", value, "error", err)
			continue
		}
		p.doc.SetVariable("--"+key, triplet)
		written++
	}
	return written
}
