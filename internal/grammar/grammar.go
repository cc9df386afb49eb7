// Package grammar holds the versioned grammar asset for the DomainForge DSL:
// the closed token vocabularies (relationship symbols, HTTP methods, UI
// component families, visibility modifiers, constraint keywords) that the
// lexer and transformer must agree on.
//
// The default asset is embedded and loaded once; a Grammar is immutable after
// load and safe to share across concurrent parses. Collaborators needing a
// custom dialect may load an alternate asset file, but the production
// structure the parser implements is fixed in code, so a dialect can only
// vary these vocabularies.
package grammar

import (
	_ "embed"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed grammar.yaml
var defaultAsset []byte

// Category names for UI component families.
const (
	CategoryBasic      = "basic"
	CategoryLayout     = "layout"
	CategoryNavigation = "navigation"
	CategoryInput      = "input"
	CategoryDisplay    = "display"
)

// Grammar is an immutable, loaded grammar asset.
type Grammar struct {
	version             string
	relationshipSymbols map[string]bool
	httpMethods         map[string]bool
	visibility          map[string]bool
	constraintKeywords  map[string]bool
	componentCategories map[string]string // component name -> category
}

// asset mirrors the YAML document shape.
type asset struct {
	Version             string   `yaml:"version"`
	RelationshipSymbols []string `yaml:"relationship_symbols"`
	HttpMethods         []string `yaml:"http_methods"`
	Visibility          []string `yaml:"visibility"`
	ConstraintKeywords  []string `yaml:"constraint_keywords"`
	Components          struct {
		Basic      []string `yaml:"basic"`
		Layout     []string `yaml:"layout"`
		Navigation []string `yaml:"navigation"`
		Input      []string `yaml:"input"`
		Display    []string `yaml:"display"`
	} `yaml:"components"`
}

var (
	defaultOnce    sync.Once
	defaultGrammar *Grammar
)

// Default returns the embedded grammar asset, loading it on first use.
// The returned Grammar is shared; it is never mutated after load. The
// embedded asset ships with the binary, so a load failure is a build
// defect and panics.
func Default() *Grammar {
	defaultOnce.Do(func() {
		g, err := Parse(defaultAsset)
		if err != nil {
			panic(fmt.Sprintf("embedded grammar asset: %v", err))
		}
		defaultGrammar = g
	})
	return defaultGrammar
}

// LoadFile loads a dialect grammar asset from a file.
func LoadFile(path string) (*Grammar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read grammar asset: %w", err)
	}
	g, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load grammar asset %s: %w", path, err)
	}
	return g, nil
}

// Parse decodes and checks a grammar asset document.
func Parse(data []byte) (*Grammar, error) {
	var a asset
	if err := yaml.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("invalid grammar asset: %w", err)
	}

	if a.Version == "" {
		return nil, fmt.Errorf("grammar asset missing version")
	}
	if len(a.RelationshipSymbols) == 0 {
		return nil, fmt.Errorf("grammar asset declares no relationship symbols")
	}
	if len(a.HttpMethods) == 0 {
		return nil, fmt.Errorf("grammar asset declares no HTTP methods")
	}

	g := &Grammar{
		version:             a.Version,
		relationshipSymbols: toSet(a.RelationshipSymbols),
		httpMethods:         toSet(a.HttpMethods),
		visibility:          toSet(a.Visibility),
		constraintKeywords:  toSet(a.ConstraintKeywords),
		componentCategories: make(map[string]string),
	}

	families := []struct {
		category string
		names    []string
	}{
		{CategoryBasic, a.Components.Basic},
		{CategoryLayout, a.Components.Layout},
		{CategoryNavigation, a.Components.Navigation},
		{CategoryInput, a.Components.Input},
		{CategoryDisplay, a.Components.Display},
	}
	for _, fam := range families {
		for _, name := range fam.names {
			if prev, exists := g.componentCategories[name]; exists {
				return nil, fmt.Errorf("component %s declared in both %s and %s", name, prev, fam.category)
			}
			g.componentCategories[name] = fam.category
		}
	}
	if len(g.componentCategories) == 0 {
		return nil, fmt.Errorf("grammar asset declares no UI components")
	}

	return g, nil
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}

// Version returns the asset version string.
func (g *Grammar) Version() string { return g.version }

// IsRelationshipSymbol reports whether s is a declared relationship symbol.
func (g *Grammar) IsRelationshipSymbol(s string) bool { return g.relationshipSymbols[s] }

// IsHTTPMethod reports whether s is a declared HTTP method keyword.
func (g *Grammar) IsHTTPMethod(s string) bool { return g.httpMethods[s] }

// IsVisibility reports whether s is a visibility modifier.
func (g *Grammar) IsVisibility(s string) bool { return g.visibility[s] }

// IsConstraintKeyword reports whether s heads a constraint clause.
func (g *Grammar) IsConstraintKeyword(s string) bool { return g.constraintKeywords[s] }

// IsComponent reports whether s is a UI component name in any family.
func (g *Grammar) IsComponent(s string) bool {
	_, exists := g.componentCategories[s]
	return exists
}

// ComponentCategory returns the family a UI component belongs to.
func (g *Grammar) ComponentCategory(s string) (string, bool) {
	category, exists := g.componentCategories[s]
	return category, exists
}

// Components returns the number of declared UI component names.
func (g *Grammar) Components() int { return len(g.componentCategories) }
