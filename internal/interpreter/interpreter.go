// Package interpreter runs the full DomainForge pipeline: lex, parse,
// transform, validate. It is the one entry point callers need; the stage
// packages stay usable on their own for tooling that wants partial results.
package interpreter

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"domainforge/internal/config"
	"domainforge/internal/grammar"
	"domainforge/internal/model"
	"domainforge/internal/parser"
	"domainforge/internal/transformer"
	"domainforge/internal/validator"
)

// Interpreter interprets DomainForge source into validated domain models.
// The grammar asset is shared across calls and immutable, so one
// Interpreter is safe for concurrent use; transformer and validator state
// is created per call.
type Interpreter struct {
	grammar *grammar.Grammar
	indent  string
}

// New creates an interpreter from the environment configuration. A dialect
// grammar file named by DOMAINFORGE_GRAMMAR replaces the built-in asset.
func New() (*Interpreter, error) {
	cfg := config.GetInterpreterConfig()
	g := grammar.Default()
	if cfg.GrammarPath != "" {
		loaded, err := grammar.LoadFile(cfg.GrammarPath)
		if err != nil {
			return nil, fmt.Errorf("load dialect grammar: %w", err)
		}
		g = loaded
	}
	return &Interpreter{grammar: g, indent: cfg.ExportIndent}, nil
}

// NewWithGrammar creates an interpreter bound to a specific grammar asset.
func NewWithGrammar(g *grammar.Grammar) *Interpreter {
	return &Interpreter{grammar: g, indent: "  "}
}

// Grammar returns the grammar asset this interpreter parses against.
func (in *Interpreter) Grammar() *grammar.Grammar {
	return in.grammar
}

// Interpret runs source through the full pipeline and returns the
// validated model. The error is one of *lexer.SyntaxError,
// *transformer.UnexpectedNodeError or *validator.Error.
func (in *Interpreter) Interpret(source string) (*model.DomainModel, error) {
	tree, err := parser.Parse(source, in.grammar)
	if err != nil {
		return nil, err
	}
	m, err := transformer.New(in.grammar).Transform(tree)
	if err != nil {
		return nil, err
	}
	if err := validator.New().Validate(m); err != nil {
		return nil, err
	}
	return m, nil
}

// InterpretFile reads a source file and interprets its contents.
func (in *Interpreter) InterpretFile(path string) (*model.DomainModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return in.Interpret(string(data))
}

// Export is the JSON envelope wrapping an exported model. Each export
// carries a fresh ID so downstream consumers can deduplicate deliveries.
type Export struct {
	ExportID       string             `json:"export_id"`
	GrammarVersion string             `json:"grammar_version"`
	GeneratedAt    time.Time          `json:"generated_at"`
	Model          *model.DomainModel `json:"model"`
}

// ExportModel serializes a model into the export envelope.
func (in *Interpreter) ExportModel(m *model.DomainModel) ([]byte, error) {
	env := Export{
		ExportID:       uuid.NewString(),
		GrammarVersion: in.grammar.Version(),
		GeneratedAt:    time.Now().UTC(),
		Model:          m,
	}
	data, err := json.MarshalIndent(env, "", in.indent)
	if err != nil {
		return nil, fmt.Errorf("marshal export: %w", err)
	}
	return data, nil
}
