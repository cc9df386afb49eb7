package grammar

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultAsset(t *testing.T) {
	g := Default()
	require.NotNil(t, g)
	assert.Equal(t, "1.1.0", g.Version())

	// Same shared instance on repeated calls.
	assert.Same(t, g, Default())
}

func TestDefaultVocabularies(t *testing.T) {
	g := Default()

	for _, sym := range []string{"=>", "<->", "--", "->", ".", "::", "/", "="} {
		assert.True(t, g.IsRelationshipSymbol(sym), "symbol %q", sym)
	}
	assert.False(t, g.IsRelationshipSymbol("<=>"))

	for _, m := range []string{"GET", "POST", "PUT", "DELETE", "PATCH"} {
		assert.True(t, g.IsHTTPMethod(m), "method %q", m)
	}
	assert.False(t, g.IsHTTPMethod("get"), "methods are case-sensitive")

	for _, v := range []string{"public", "private", "protected"} {
		assert.True(t, g.IsVisibility(v), "visibility %q", v)
	}

	for _, c := range []string{"required", "unique", "min", "max", "pattern", "foreign_key"} {
		assert.True(t, g.IsConstraintKeyword(c), "constraint %q", c)
	}
}

func TestComponentCategories(t *testing.T) {
	g := Default()

	tests := map[string]string{
		"Form":       CategoryBasic,
		"Page":       CategoryBasic,
		"Grid":       CategoryLayout,
		"Tabs":       CategoryLayout,
		"Navbar":     CategoryNavigation,
		"Breadcrumb": CategoryNavigation,
		"Input":      CategoryInput,
		"Button":     CategoryInput,
		"Chart":      CategoryDisplay,
		"Modal":      CategoryDisplay,
	}
	for name, category := range tests {
		got, exists := g.ComponentCategory(name)
		require.True(t, exists, "component %q", name)
		assert.Equal(t, category, got, "component %q", name)
	}

	_, exists := g.ComponentCategory("Widget")
	assert.False(t, exists)
	assert.Greater(t, g.Components(), 20)
}

func TestParseRejectsBrokenAssets(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		message string
	}{
		{
			"missing version",
			"relationship_symbols: ['->']\nhttp_methods: [GET]\ncomponents:\n  basic: [Form]\n",
			"missing version",
		},
		{
			"no relationship symbols",
			"version: '9.9.9'\nhttp_methods: [GET]\ncomponents:\n  basic: [Form]\n",
			"no relationship symbols",
		},
		{
			"no components",
			"version: '9.9.9'\nrelationship_symbols: ['->']\nhttp_methods: [GET]\n",
			"no UI components",
		},
		{
			"component in two families",
			"version: '9.9.9'\nrelationship_symbols: ['->']\nhttp_methods: [GET]\ncomponents:\n  basic: [Form]\n  input: [Form]\n",
			"declared in both",
		},
		{
			"not yaml",
			"{{{{",
			"invalid grammar asset",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dialect.yaml")
	data := `version: "2.0.0"
relationship_symbols: ["->"]
http_methods: [GET, POST]
visibility: [public]
constraint_keywords: [required]
components:
  basic: [Screen]
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	g, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "2.0.0", g.Version())
	assert.True(t, g.IsRelationshipSymbol("->"))
	assert.False(t, g.IsRelationshipSymbol("=>"), "dialect narrows the symbol set")
	assert.True(t, g.IsComponent("Screen"))
	assert.False(t, g.IsComponent("Form"))

	_, err = LoadFile(filepath.Join(dir, "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read grammar asset")
}
