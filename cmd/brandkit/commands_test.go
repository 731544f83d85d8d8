package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/brandkit/internal/persistence"
	"github.com/alexisbeaulieu97/brandkit/internal/tokens"
)

func TestVersionCommand(t *testing.T) {
	env := setupCLI(t)
	originalVersion, originalCommit, originalDate := version, commit, date
	t.Cleanup(func() {
		version, commit, date = originalVersion, originalCommit, originalDate
	})
	version, commit, date = "1.2.3", "abcdef1", "2026-10-01"

	stdout, _, err := env.run("version")
	require.NoError(t, err)
	require.Contains(t, stdout, "brandkit 1.2.3")
	require.Contains(t, stdout, "commit: abcdef1")
	require.Contains(t, stdout, "built: 2026-10-01")

	stdout, _, err = env.run("version", "--json")
	require.NoError(t, err)
	var info buildInfo
	require.NoError(t, json.Unmarshal([]byte(stdout), &info))
	require.Equal(t, "1.2.3", info.Version)
	require.NotEmpty(t, info.Go)
}

func TestShowCommand_Defaults(t *testing.T) {
	env := setupCLI(t)

	stdout, _, err := env.run("show")
	require.NoError(t, err)
	require.Contains(t, stdout, "Brand:    Brandkit")
	require.Contains(t, stdout, "Provider: Google Fonts (google)")
	require.Contains(t, stdout, "Source:   from-defaults")
	require.Contains(t, stdout, "#3b82f6")
}

func TestShowCommand_JSON(t *testing.T) {
	env := setupCLI(t)

	bundle := env.bundle(t)
	require.Equal(t, tokens.Defaults(), bundle)
}

func TestSetColorCommand_PersistsNormalizedHex(t *testing.T) {
	env := setupCLI(t)

	stdout, _, err := env.run("set", "color", "primary=#FF0000", "accent=00ff00")
	require.NoError(t, err)
	require.Contains(t, stdout, "Updated 2 color(s)")

	bundle := env.bundle(t)
	require.Equal(t, "#ff0000", bundle.ColorPalette["primary"])
	require.Equal(t, "#00ff00", bundle.ColorPalette["accent"])
	require.Equal(t, "#64748b", bundle.ColorPalette["secondary"])

	_, err = os.Stat(filepath.Join(env.dataDir, persistence.Key+".json"))
	require.NoError(t, err)
}

func TestSetColorCommand_RejectsUnknownKey(t *testing.T) {
	env := setupCLI(t)

	_, _, err := env.run("set", "color", "sparkle=#ff0000")
	require.Error(t, err)
	require.Contains(t, err.Error(), "Failed to set color")
	require.Contains(t, err.Error(), `unknown key "sparkle"`)
}

func TestSetColorCommand_RejectsBadHex(t *testing.T) {
	env := setupCLI(t)

	_, _, err := env.run("set", "color", "primary=#ggg")
	require.Error(t, err)
	require.Contains(t, err.Error(), "parsing assignments")
}

func TestSetBackgroundCommand(t *testing.T) {
	env := setupCLI(t)

	_, _, err := env.run("set", "background", "cool=#000000")
	require.NoError(t, err)

	bundle := env.bundle(t)
	require.Equal(t, "#000000", bundle.Backgrounds["cool"])
	require.Equal(t, "#f8fafc", bundle.Backgrounds["light"])

	_, _, err = env.run("set", "background", "primary=#000000")
	require.Error(t, err)
}

func TestSetTypographyCommand_BuildsProviderURLs(t *testing.T) {
	env := setupCLI(t)

	stdout, _, err := env.run("set", "typography", "--family", "Open Sans", "--weights", "600,400")
	require.NoError(t, err)
	require.Contains(t, stdout, "Updated primary typography: Open Sans")

	slot := env.bundle(t).Typography[tokens.SlotPrimary]
	require.Equal(t, "Open Sans", slot.Family)
	require.Equal(t, "https://fonts.googleapis.com/css2?family=Open+Sans:wght@400;600&display=swap", slot.URLs[tokens.ProviderGoogle])
	require.Equal(t, "https://fonts.bunny.net/css?family=open-sans:400,600", slot.URLs[tokens.ProviderBunny])
}

func TestSetTypographyCommand_RequiresChange(t *testing.T) {
	env := setupCLI(t)

	_, _, err := env.run("set", "typography")
	require.Error(t, err)
	require.Contains(t, err.Error(), "nothing to update")
}

func TestSetBrandingCommand(t *testing.T) {
	env := setupCLI(t)

	_, _, err := env.run("set", "branding", "--name", "Acme", "--logo", "https://acme.test/logo.svg")
	require.NoError(t, err)

	bundle := env.bundle(t)
	require.Equal(t, "Acme", bundle.BrandName)
	require.Equal(t, "https://acme.test/logo.svg", bundle.LogoURL)

	_, _, err = env.run("set", "branding", "--logo", "")
	require.NoError(t, err)

	bundle = env.bundle(t)
	require.Equal(t, "Acme", bundle.BrandName)
	require.Empty(t, bundle.LogoURL)
}

func TestSetProviderCommand(t *testing.T) {
	env := setupCLI(t)

	stdout, _, err := env.run("set", "provider", "Bunny")
	require.NoError(t, err)
	require.Contains(t, stdout, "Font provider set to Bunny Fonts")
	require.Equal(t, tokens.ProviderBunny, env.bundle(t).FontProvider.ID)

	stdout, _, err = env.run("css", "--head")
	require.NoError(t, err)
	require.Contains(t, stdout, "https://fonts.bunny.net/css")
	require.NotContains(t, stdout, "fonts.googleapis.com")
}

func TestSetProviderCommand_Local(t *testing.T) {
	env := setupCLI(t)

	stdout, _, err := env.run("set", "provider", "local")
	require.NoError(t, err)
	require.Contains(t, stdout, "self-hosted fonts are not loaded automatically")

	stdout, _, err = env.run("css", "--head")
	require.NoError(t, err)
	require.NotContains(t, stdout, "<link")
}

func TestSetProviderCommand_Errors(t *testing.T) {
	env := setupCLI(t)

	_, _, err := env.run("set", "provider", "adobe")
	require.Error(t, err)
	require.Contains(t, err.Error(), "looking up provider")

	_, _, err = env.run("set", "provider")
	require.Error(t, err)
	require.Contains(t, err.Error(), "not running in a terminal")
}

func TestResetCommand(t *testing.T) {
	env := setupCLI(t)

	_, _, err := env.run("set", "branding", "--name", "Acme")
	require.NoError(t, err)

	stdout, stderr, err := env.run("reset")
	require.NoError(t, err)
	require.Contains(t, stdout, "Design tokens reset to defaults")
	require.Contains(t, stderr, "settings reset to defaults")

	require.Equal(t, tokens.Defaults(), env.bundle(t))
}

func TestCSSCommand(t *testing.T) {
	env := setupCLI(t)

	stdout, _, err := env.run("css")
	require.NoError(t, err)
	require.Contains(t, stdout, ":root {")
	require.Contains(t, stdout, "--primary: 217 91% 60%;")
	require.Contains(t, stdout, "--error: 0 84% 60%;")
	require.NotContains(t, stdout, "<link")

	stdout, _, err = env.run("css", "--head")
	require.NoError(t, err)
	require.Contains(t, stdout, `<link rel="stylesheet" href="https://fonts.googleapis.com/css2`)
}

func TestSQLiteBackend(t *testing.T) {
	env := setupCLI(t)

	_, _, err := env.run("set", "branding", "--name", "Acme", "--backend", "sqlite")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(env.dataDir, persistence.SQLiteFile))
	require.NoError(t, err)

	require.Equal(t, "Acme", env.bundle(t, "--backend", "sqlite").BrandName)
	require.Equal(t, "Brandkit", env.bundle(t).BrandName)
}

func TestConfigFile_DefaultProviderSeedsFirstRun(t *testing.T) {
	env := setupCLI(t)
	configPath := writeTempFile(t, "config.yaml", "default_provider: system\n")

	bundle := env.bundle(t, "--config", configPath)
	require.Equal(t, tokens.ProviderSystem, bundle.FontProvider.ID)

	_, _, err := env.run("set", "provider", "google", "--config", configPath)
	require.NoError(t, err)
	require.Equal(t, tokens.ProviderGoogle, env.bundle(t, "--config", configPath).FontProvider.ID)
}

func TestConfigFile_InvalidValue(t *testing.T) {
	env := setupCLI(t)
	configPath := writeTempFile(t, "config.yaml", "backend: postgres\n")

	_, _, err := env.run("show", "--config", configPath)
	require.Error(t, err)
	require.Contains(t, err.Error(), "loading configuration")
}

func TestInvalidLogLevelFlag(t *testing.T) {
	env := setupCLI(t)

	_, _, err := env.run("show", "--log-level", "chatty")
	require.Error(t, err)
	require.Contains(t, err.Error(), "validating flags")
}

func TestLogFormats(t *testing.T) {
	env := setupCLI(t)

	_, stderr, err := env.run("show", "-v", "--log-format", "logfmt")
	require.NoError(t, err)
	require.Contains(t, stderr, `msg="store initialized"`)
	require.Contains(t, stderr, "component=store")
	require.Contains(t, stderr, `command="brandkit show"`)

	_, stderr, err = env.run("show", "-v", "--log-format", "json")
	require.NoError(t, err)
	require.Contains(t, stderr, `"component":"store"`)
	require.Contains(t, stderr, `"command":"brandkit show"`)

	_, _, err = env.run("show", "--log-format", "xml")
	require.Error(t, err)
	require.Contains(t, err.Error(), "validating flags")
}
