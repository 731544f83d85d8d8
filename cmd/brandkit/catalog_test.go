package main

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/brandkit/internal/codec"
	"github.com/alexisbeaulieu97/brandkit/internal/tokens"
)

const validCatalog = `{
  "version": "1.0",
  "categories": [{"name": "Buttons"}],
  "components": [{"name": "Button", "slug": "button"}],
  "designTokens": {"brandName": "Catalog Co", "logoUrl": "https://catalog.test/logo.png"}
}`

const invalidCatalog = `{
  "version": "1.0",
  "components": [{"name": "Button"}, {"slug": "card"}]
}`

func TestCatalogValidate_Valid(t *testing.T) {
	env := setupCLI(t)
	path := writeTempFile(t, "catalog.json", validCatalog)

	stdout, _, err := env.run("catalog", "validate", path)
	require.NoError(t, err)
	require.Contains(t, stdout, "Valid catalog envelope")
	require.Contains(t, stdout, "Categories: 1  Components: 1  Tokens: 2")
}

func TestCatalogValidate_InvalidReportsEveryComponent(t *testing.T) {
	env := setupCLI(t)
	path := writeTempFile(t, "catalog.json", invalidCatalog)

	stdout, _, err := env.run("catalog", "validate", path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "2 validation error(s)")
	require.Contains(t, stdout, "Component at index 0 is missing required fields: slug")
	require.Contains(t, stdout, "Component at index 1 is missing required fields: name")
}

func TestCatalogValidate_JSON(t *testing.T) {
	env := setupCLI(t)
	path := writeTempFile(t, "catalog.json", `{"components": [{"name": "A", "slug": "a"}]}`)

	stdout, _, err := env.run("catalog", "validate", "--json", path)
	require.NoError(t, err)

	var result codec.Result
	require.NoError(t, json.Unmarshal([]byte(stdout), &result))
	require.True(t, result.Valid)
	require.Equal(t, []string{codec.MsgMissingVersion}, result.Warnings)
	require.Equal(t, 1, result.Stats.Components)
}

func TestCatalogImport_AppliesDesignTokens(t *testing.T) {
	env := setupCLI(t)
	path := writeTempFile(t, "catalog.json", validCatalog)

	stdout, stderr, err := env.run("catalog", "import", path)
	require.NoError(t, err)
	require.Contains(t, stdout, "Imported 2 design token field(s)")
	require.Contains(t, stderr, "catalog imported")

	bundle := env.bundle(t)
	require.Equal(t, "Catalog Co", bundle.BrandName)
	require.Equal(t, "https://catalog.test/logo.png", bundle.LogoURL)
	require.Equal(t, tokens.Defaults().ColorPalette, bundle.ColorPalette)
}

func TestCatalogImport_DryRunLeavesStoreUntouched(t *testing.T) {
	env := setupCLI(t)
	path := writeTempFile(t, "catalog.json", validCatalog)

	stdout, _, err := env.run("catalog", "import", "--dry-run", path)
	require.NoError(t, err)
	require.Contains(t, stdout, "--- current")
	require.Contains(t, stdout, "+++ imported")
	require.Contains(t, stdout, `+  "brandName": "Catalog Co",`)
	require.Contains(t, stdout, "Dry run: no changes applied")

	require.Equal(t, tokens.Defaults(), env.bundle(t))
}

func TestCatalogImport_DiffAfterApply(t *testing.T) {
	env := setupCLI(t)
	path := writeTempFile(t, "catalog.json", validCatalog)

	stdout, _, err := env.run("catalog", "import", "--diff", path)
	require.NoError(t, err)
	require.Contains(t, stdout, `-  "brandName": "Brandkit",`)
	require.Contains(t, stdout, "line(s) added")

	stdout, _, err = env.run("catalog", "import", "--diff", path)
	require.NoError(t, err)
	require.Contains(t, stdout, "No token changes")
}

func TestCatalogImport_RejectsInvalidEnvelope(t *testing.T) {
	env := setupCLI(t)
	path := writeTempFile(t, "catalog.json", invalidCatalog)

	_, stderr, err := env.run("catalog", "import", path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "Failed to import catalog")
	require.Contains(t, stderr, "catalog rejected")

	require.Equal(t, tokens.Defaults(), env.bundle(t))
}

func TestCatalogImport_WithoutDesignTokens(t *testing.T) {
	env := setupCLI(t)
	path := writeTempFile(t, "catalog.json", `{"version": "1.0", "components": [{"name": "A", "slug": "a"}]}`)

	stdout, _, err := env.run("catalog", "import", path)
	require.NoError(t, err)
	require.Contains(t, stdout, "nothing to apply (0 categories, 1 components)")
	require.Equal(t, "from-defaults", showSource(t, env))
}

func TestCatalogImport_NonObjectDesignTokens(t *testing.T) {
	env := setupCLI(t)
	path := writeTempFile(t, "catalog.json", `{"version": "1.0", "designTokens": [1, 2]}`)

	_, _, err := env.run("catalog", "import", path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "designTokens is not a JSON object")
}

func showSource(t *testing.T, env cliEnv) string {
	t.Helper()
	stdout, _, err := env.run("show")
	require.NoError(t, err)
	for _, line := range strings.Split(stdout, "\n") {
		if state, ok := strings.CutPrefix(line, "Source:   "); ok {
			return state
		}
	}
	return ""
}
