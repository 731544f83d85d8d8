package fonts

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/brandkit/internal/document"
	"github.com/alexisbeaulieu97/brandkit/internal/infrastructure/logging"
	"github.com/alexisbeaulieu97/brandkit/internal/tokens"
)

func newTestLoader(t *testing.T) (*Loader, *document.Sheet, *logging.Recorder) {
	t.Helper()
	sheet := document.NewSheet()
	rec := logging.NewRecorder(0)
	return NewLoader(sheet, rec.Logger()), sheet, rec
}

func TestLoadSystemInjectsNothing(t *testing.T) {
	loader, sheet, _ := newTestLoader(t)
	var changes int
	sheet.Subscribe(func(document.Change) { changes++ })

	n := loader.Load(context.Background(), tokens.Defaults().Typography, tokens.Providers[tokens.ProviderSystem])

	assert.Zero(t, n)
	assert.Empty(t, sheet.Links())
	assert.Zero(t, changes)
}

func TestLoadSystemClearsPreviousLinks(t *testing.T) {
	loader, sheet, _ := newTestLoader(t)
	typo := tokens.Defaults().Typography

	require.Equal(t, 2, loader.Load(context.Background(), typo, tokens.Providers[tokens.ProviderGoogle]))
	loader.Load(context.Background(), typo, tokens.Providers[tokens.ProviderSystem])

	assert.Empty(t, sheet.Links())
}

func TestLoadRemoteInjectsOneLinkPerSlotInOrder(t *testing.T) {
	loader, sheet, _ := newTestLoader(t)
	typo := tokens.Typography{
		"display":            {Family: "Playfair", URLs: map[string]string{tokens.ProviderBunny: "https://bunny/display"}},
		tokens.SlotSecondary: {Family: "Lato", URLs: map[string]string{tokens.ProviderBunny: "https://bunny/lato"}},
		tokens.SlotPrimary:   {Family: "Inter", URLs: map[string]string{tokens.ProviderBunny: "https://bunny/inter"}},
		"mono":               {Family: "Fira", URLs: map[string]string{tokens.ProviderGoogle: "https://google/fira"}},
	}

	n := loader.Load(context.Background(), typo, tokens.Providers[tokens.ProviderBunny])
	require.Equal(t, 3, n)

	links := sheet.Links()
	require.Len(t, links, 3)
	assert.Equal(t, "https://bunny/inter", links[0].Href)
	assert.Equal(t, "https://bunny/lato", links[1].Href)
	assert.Equal(t, "https://bunny/display", links[2].Href)
	for _, l := range links {
		assert.Equal(t, Marker, l.Marker)
		assert.Equal(t, "stylesheet", l.Rel)
	}
}

func TestLoadDoesNotAccumulate(t *testing.T) {
	loader, sheet, _ := newTestLoader(t)
	sheet.AppendLink(document.Link{Href: "https://unrelated", Marker: "data-other"})
	typo := tokens.Defaults().Typography

	for i := 0; i < 5; i++ {
		loader.Load(context.Background(), typo, tokens.Providers[tokens.ProviderGoogle])
	}

	links := sheet.Links()
	require.Len(t, links, 3)
	assert.Equal(t, "https://unrelated", links[0].Href)
}

func TestLoadLocalIsUnsupported(t *testing.T) {
	loader, sheet, rec := newTestLoader(t)

	n := loader.Load(context.Background(), tokens.Defaults().Typography, tokens.Providers[tokens.ProviderLocal])

	assert.Zero(t, n)
	assert.Empty(t, sheet.Links())
	assert.Len(t, rec.Find(logging.LevelDebug, "local font provider is not supported; no stylesheets injected"), 1)
}

func TestLinkErrorOnlyLogsWarning(t *testing.T) {
	loader, sheet, rec := newTestLoader(t)
	typo := tokens.Defaults().Typography
	loader.Load(context.Background(), typo, tokens.Providers[tokens.ProviderGoogle])

	href := typo[tokens.SlotPrimary].URLs[tokens.ProviderGoogle]
	require.True(t, sheet.ReportLinkError(href, errors.New("net::ERR_FAILED")))

	warnings := rec.Find(logging.LevelWarn, "font stylesheet failed to load")
	require.Len(t, warnings, 1)
	assert.Equal(t, "primary", warnings[0].Fields["slot"])
	assert.Equal(t, tokens.ProviderGoogle, warnings[0].Fields["provider"])
	assert.Len(t, sheet.Links(), 2)
}

func TestBuildURL(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		family   string
		weights  []string
		want     string
	}{
		{
			name:     "google matches default",
			provider: tokens.ProviderGoogle,
			family:   "Inter",
			weights:  []string{"700", "400", "600", "500", "400"},
			want:     "https://fonts.googleapis.com/css2?family=Inter:wght@400;500;600;700&display=swap",
		},
		{
			name:     "google escapes spaces",
			provider: tokens.ProviderGoogle,
			family:   "Open Sans",
			weights:  []string{"400"},
			want:     "https://fonts.googleapis.com/css2?family=Open+Sans:wght@400&display=swap",
		},
		{
			name:     "bunny matches default",
			provider: tokens.ProviderBunny,
			family:   "Inter",
			weights:  []string{"400", "500", "600", "700"},
			want:     "https://fonts.bunny.net/css?family=inter:400,500,600,700",
		},
		{
			name:     "bunny without weights",
			provider: tokens.ProviderBunny,
			family:   "Open Sans",
			want:     "https://fonts.bunny.net/css?family=open-sans",
		},
		{
			name:     "empty family uses default",
			provider: tokens.ProviderGoogle,
			weights:  []string{"bold", "400"},
			want:     "https://fonts.googleapis.com/css2?family=Inter:wght@400&display=swap",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildURL(tokens.Providers[tt.provider], tt.family, tt.weights)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := BuildURL(tokens.Providers[tokens.ProviderLocal], "Inter", nil)
	assert.ErrorIs(t, err, ErrNoBaseURL)
}
