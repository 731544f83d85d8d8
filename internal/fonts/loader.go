// Package fonts injects font stylesheet links into the live document for the
// active typography and provider.
package fonts

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/alexisbeaulieu97/brandkit/internal/document"
	"github.com/alexisbeaulieu97/brandkit/internal/ports"
	"github.com/alexisbeaulieu97/brandkit/internal/tokens"
)

// Marker tags every link the loader owns.
const Marker = "data-brandkit-font"

// Loader manages font stylesheet links on a document.
type Loader struct {
	doc    document.Document
	logger ports.Logger
}

// NewLoader creates a loader writing to doc.
func NewLoader(doc document.Document, logger ports.Logger) *Loader {
	return &Loader{doc: doc, logger: logger.With("component", "fonts")}
}

// Load replaces the loader's links with one stylesheet per slot that has a
// URL for provider, and returns how many links were injected. Load failures
// are reported through each link's OnError and only logged.
func (l *Loader) Load(ctx context.Context, typography tokens.Typography, provider tokens.FontProvider) int {
	removed := l.doc.RemoveLinks(Marker)
	if removed > 0 {
		l.logger.Debug(ctx, "removed font links", "count", removed)
	}

	switch provider.ID {
	case tokens.ProviderSystem:
		return 0
	case tokens.ProviderLocal:
		l.logger.Debug(ctx, "local font provider is not supported; no stylesheets injected")
		return 0
	case tokens.ProviderGoogle, tokens.ProviderBunny:
	default:
		l.logger.Warn(ctx, "unknown font provider; no stylesheets injected", "provider", provider.ID)
		return 0
	}

	injected := 0
	for _, slot := range typography.SlotNames() {
		href := typography[slot].URLs[provider.ID]
		if href == "" {
			continue
		}
		slotName, family := slot, typography[slot].FamilyOrDefault()
		l.doc.AppendLink(document.Link{
			Href:   href,
			Rel:    "stylesheet",
			Marker: Marker,
			OnError: func(err error) {
				l.logger.Warn(ctx, "font stylesheet failed to load",
					"slot", slotName, "family", family, "provider", provider.ID, "href", href, "error", err)
			},
		})
		injected++
	}
	l.logger.Debug(ctx, "font links injected", "provider", provider.ID, "count", injected)
	return injected
}

// ErrNoBaseURL is returned by BuildURL for providers that do not serve stylesheets.
var ErrNoBaseURL = errors.New("font provider has no stylesheet base URL")

// BuildURL derives a stylesheet URL for family and weights from the provider
// base URL. Weights are de-duplicated and sorted numerically.
func BuildURL(provider tokens.FontProvider, family string, weights []string) (string, error) {
	if !provider.Remote() {
		return "", fmt.Errorf("%w: %s", ErrNoBaseURL, provider.ID)
	}
	family = strings.TrimSpace(family)
	if family == "" {
		family = tokens.DefaultFamily
	}
	ws := normalizeWeights(weights)

	switch provider.ID {
	case tokens.ProviderBunny:
		name := strings.ToLower(strings.Join(strings.Fields(family), "-"))
		if len(ws) == 0 {
			return fmt.Sprintf("%s?family=%s", provider.BaseURL, name), nil
		}
		return fmt.Sprintf("%s?family=%s:%s", provider.BaseURL, name, strings.Join(ws, ",")), nil
	default:
		name := url.QueryEscape(family)
		if len(ws) == 0 {
			return fmt.Sprintf("%s?family=%s&display=swap", provider.BaseURL, name), nil
		}
		return fmt.Sprintf("%s?family=%s:wght@%s&display=swap", provider.BaseURL, name, strings.Join(ws, ";")), nil
	}
}

func normalizeWeights(weights []string) []string {
	seen := make(map[int]bool, len(weights))
	nums := make([]int, 0, len(weights))
	for _, w := range weights {
		n, err := strconv.Atoi(strings.TrimSpace(w))
		if err != nil || n <= 0 || seen[n] {
			continue
		}
		seen[n] = true
		nums = append(nums, n)
	}
	sort.Ints(nums)
	out := make([]string, len(nums))
	for i, n := range nums {
		out[i] = strconv.Itoa(n)
	}
	return out
}
