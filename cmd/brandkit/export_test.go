package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/alexisbeaulieu97/brandkit/internal/tokens"
)

func TestExportCommand_SettingsDocument(t *testing.T) {
	env := setupCLI(t)

	stdout, stderr, err := env.run("export")
	require.NoError(t, err)
	require.Contains(t, stderr, "settings exported (version=1.0)")

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
	require.Equal(t, "1.0", doc["version"])
	require.NotEmpty(t, doc["exportedAt"])
	require.Equal(t, "Brandkit", doc["brandName"])
	require.Contains(t, doc, "colorPalette")
	require.Contains(t, doc, "fontProvider")
}

func TestExportCommand_Formats(t *testing.T) {
	env := setupCLI(t)

	stdout, _, err := env.run("export", "--format", "css")
	require.NoError(t, err)
	require.Contains(t, stdout, "--color-primary: #3b82f6;")
	require.Contains(t, stdout, "--spacing-md: 1rem;")

	stdout, _, err = env.run("export", "--format", "yaml")
	require.NoError(t, err)
	var doc map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &doc))
	require.Contains(t, doc, "colors")
	require.Contains(t, doc, "spacing")

	stdout, _, err = env.run("export", "--format", "storybook")
	require.NoError(t, err)
	require.Contains(t, stdout, "export const colors = ")
	require.Contains(t, stdout, "export const typography = ")
}

func TestExportCommand_UnknownFormatFallsBackToJSON(t *testing.T) {
	env := setupCLI(t)

	stdout, stderr, err := env.run("export", "--format", "pdf")
	require.NoError(t, err)
	require.Contains(t, stderr, "unknown export format")

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
	require.Contains(t, doc, "colors")
}

func TestExportCommand_Envelope(t *testing.T) {
	env := setupCLI(t)

	stdout, _, err := env.run("export", "--envelope")
	require.NoError(t, err)

	var envelope tokens.ImportEnvelope
	require.NoError(t, json.Unmarshal([]byte(stdout), &envelope))
	require.Equal(t, "1.0", envelope.Version)

	var bundle tokens.Bundle
	require.NoError(t, json.Unmarshal(envelope.DesignTokens, &bundle))
	require.Equal(t, tokens.Defaults(), bundle)
}

func TestExportCommand_EnvelopeAndFormatConflict(t *testing.T) {
	env := setupCLI(t)

	_, _, err := env.run("export", "--envelope", "--format", "css")
	require.Error(t, err)
	require.Contains(t, err.Error(), "mutually exclusive")
}

func TestExportCommand_OutputFile(t *testing.T) {
	env := setupCLI(t)
	out := filepath.Join(t.TempDir(), "tokens.css")

	stdout, _, err := env.run("export", "--format", "css", "-o", out)
	require.NoError(t, err)
	require.Contains(t, stdout, "Exported to "+out)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Contains(t, string(data), "--color-primary")
}

func TestImportCommand_RoundTrip(t *testing.T) {
	env := setupCLI(t)

	_, _, err := env.run("set", "branding", "--name", "Acme")
	require.NoError(t, err)
	_, _, err = env.run("set", "color", "primary=#123456")
	require.NoError(t, err)

	saved := filepath.Join(t.TempDir(), "settings.json")
	_, _, err = env.run("export", "-o", saved)
	require.NoError(t, err)

	_, _, err = env.run("reset")
	require.NoError(t, err)
	require.Equal(t, "Brandkit", env.bundle(t).BrandName)

	stdout, stderr, err := env.run("import", saved)
	require.NoError(t, err)
	require.Contains(t, stdout, "Settings imported")
	require.Contains(t, stderr, "settings imported (fields=6)")

	bundle := env.bundle(t)
	require.Equal(t, "Acme", bundle.BrandName)
	require.Equal(t, "#123456", bundle.ColorPalette["primary"])
}

func TestImportCommand_PartialDocument(t *testing.T) {
	env := setupCLI(t)
	path := writeTempFile(t, "partial.json", `{"brandName":"Partial"}`)

	_, _, err := env.run("import", path)
	require.NoError(t, err)

	bundle := env.bundle(t)
	require.Equal(t, "Partial", bundle.BrandName)
	require.Equal(t, tokens.Defaults().ColorPalette, bundle.ColorPalette)
}

func TestImportCommand_InvalidJSON(t *testing.T) {
	env := setupCLI(t)
	path := writeTempFile(t, "broken.json", `{"brandName":`)

	_, stderr, err := env.run("import", path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid settings JSON")
	require.Contains(t, stderr, "settings import failed")

	require.Equal(t, tokens.Defaults(), env.bundle(t))
}

func TestImportCommand_MissingFile(t *testing.T) {
	env := setupCLI(t)

	_, _, err := env.run("import", filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "Failed to import")
}
