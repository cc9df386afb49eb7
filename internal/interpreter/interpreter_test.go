package interpreter

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"domainforge/internal/grammar"
	"domainforge/internal/lexer"
	"domainforge/internal/validator"
)

const sampleSource = `
@ECommerce {
    #Product {
        name: String [required]
        price: Float = 0.0
        api: GET "/products": List<Product>
        ui: Card(selectable: true)
    }
    #Category {
        name: String
    }
    Product -> Category { "belongs to" }
    >>CatalogService {
        search(query: String): List<Product>
    }
    $ProductRepo {
        findById(id: Int): Product
    }
}`

func newInterpreter(t *testing.T) *Interpreter {
	t.Helper()
	in, err := New()
	require.NoError(t, err)
	return in
}

func TestInterpretValidSource(t *testing.T) {
	m, err := newInterpreter(t).Interpret(sampleSource)
	require.NoError(t, err)

	require.Len(t, m.BoundedContexts, 1)
	ctx := m.BoundedContexts[0]
	assert.Equal(t, "ECommerce", ctx.Name)
	assert.Len(t, ctx.Entities, 2)
	assert.Len(t, ctx.Services, 1)
	assert.Len(t, ctx.Repositories, 1)
	require.Len(t, ctx.Entities[0].Relationships, 1)
	assert.Equal(t, "Category", ctx.Entities[0].Relationships[0].TargetEntity)
}

func TestInterpretEmptySource(t *testing.T) {
	m, err := newInterpreter(t).Interpret("")
	require.NoError(t, err)
	assert.Empty(t, m.BoundedContexts)
}

func TestInterpretSyntaxError(t *testing.T) {
	_, err := newInterpreter(t).Interpret("@Broken { #Entity {")
	require.Error(t, err)

	var syntaxErr *lexer.SyntaxError
	require.ErrorAs(t, err, &syntaxErr)
	assert.Positive(t, syntaxErr.Line)
}

func TestInterpretValidationError(t *testing.T) {
	_, err := newInterpreter(t).Interpret(`
@Shop {
    #Product { id: Int }
    #Product { id: Int }
}`)
	require.Error(t, err)

	var validationErr *validator.Error
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Messages, "Duplicate entity name in context Shop: Product")

	var syntaxErr *lexer.SyntaxError
	assert.NotErrorAs(t, err, &syntaxErr, "validation failure is not a syntax error")
}

func TestInterpretFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shop.df")
	require.NoError(t, os.WriteFile(path, []byte(sampleSource), 0o644))

	in := newInterpreter(t)
	m, err := in.InterpretFile(path)
	require.NoError(t, err)
	assert.Len(t, m.BoundedContexts, 1)

	_, err = in.InterpretFile(filepath.Join(dir, "absent.df"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read")
}

func TestExportModel(t *testing.T) {
	in := newInterpreter(t)
	m, err := in.Interpret(sampleSource)
	require.NoError(t, err)

	data, err := in.ExportModel(m)
	require.NoError(t, err)

	var envelope struct {
		ExportID       string          `json:"export_id"`
		GrammarVersion string          `json:"grammar_version"`
		GeneratedAt    string          `json:"generated_at"`
		Model          json.RawMessage `json:"model"`
	}
	require.NoError(t, json.Unmarshal(data, &envelope))

	_, err = uuid.Parse(envelope.ExportID)
	assert.NoError(t, err, "export_id must be a valid UUID")
	assert.Equal(t, in.Grammar().Version(), envelope.GrammarVersion)
	assert.NotEmpty(t, envelope.GeneratedAt)
	assert.Contains(t, string(envelope.Model), `"bounded_contexts"`)

	// A second export gets a fresh ID.
	again, err := in.ExportModel(m)
	require.NoError(t, err)
	var envelope2 struct {
		ExportID string `json:"export_id"`
	}
	require.NoError(t, json.Unmarshal(again, &envelope2))
	assert.NotEqual(t, envelope.ExportID, envelope2.ExportID)
}

func TestInterpretIdempotent(t *testing.T) {
	in := newInterpreter(t)

	first, err := in.Interpret(sampleSource)
	require.NoError(t, err)
	second, err := in.Interpret(sampleSource)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestInterpretConcurrent(t *testing.T) {
	in := newInterpreter(t)

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := in.Interpret(sampleSource); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent interpretation failed: %v", err)
	}
}

func TestDialectGrammar(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dialect.yaml")
	data := `version: "2.0.0"
relationship_symbols: ["->"]
http_methods: [GET]
visibility: [public]
constraint_keywords: [required]
components:
  basic: [Card]
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	t.Setenv("DOMAINFORGE_GRAMMAR", path)

	in, err := New()
	require.NoError(t, err)
	assert.Equal(t, "2.0.0", in.Grammar().Version())

	// The narrowed dialect rejects symbols outside its declared set.
	_, err = in.Interpret("@C { A => B }")
	require.Error(t, err)
	var syntaxErr *lexer.SyntaxError
	require.ErrorAs(t, err, &syntaxErr)
	assert.Contains(t, err.Error(), "not declared by the grammar")

	_, err = in.Interpret("@C { #A { x: Int } #B { x: Int } A -> B }")
	assert.NoError(t, err)
}

func TestNewWithGrammar(t *testing.T) {
	in := NewWithGrammar(grammar.Default())
	m, err := in.Interpret(sampleSource)
	require.NoError(t, err)
	assert.Len(t, m.BoundedContexts, 1)
}
