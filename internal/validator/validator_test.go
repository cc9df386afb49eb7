package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"domainforge/internal/grammar"
	"domainforge/internal/model"
	"domainforge/internal/parser"
	"domainforge/internal/transformer"
)

func buildModel(t *testing.T, input string) *model.DomainModel {
	t.Helper()
	g := grammar.Default()
	tree, err := parser.Parse(input, g)
	require.NoError(t, err)
	m, err := transformer.New(g).Transform(tree)
	require.NoError(t, err)
	return m
}

func validationMessages(t *testing.T, input string) []string {
	t.Helper()
	err := New().Validate(buildModel(t, input))
	require.Error(t, err, "expected validation to fail")
	verr, ok := err.(*Error)
	require.True(t, ok, "expected *Error, got %T", err)
	return verr.Messages
}

func TestValidateCleanModel(t *testing.T) {
	m := buildModel(t, `
@Sales {
    #Order { id: Int }
    #Customer { id: Int }
    Order -> Customer
    >>OrderService { place(orderId: Int): Bool }
    $OrderRepo { find(id: Int): Order }
    %Money { amount: Float }
}`)

	assert.NoError(t, New().Validate(m))
}

func TestValidateEmptyModel(t *testing.T) {
	assert.NoError(t, New().Validate(&model.DomainModel{}))
}

func TestValidateDuplicateContexts(t *testing.T) {
	messages := validationMessages(t, `
@Sales { #Order { id: Int } }
@Sales { #Invoice { id: Int } }`)

	assert.Contains(t, messages, "Duplicate bounded context name: Sales")
}

func TestValidateDuplicateNames(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		message string
	}{
		{
			"entities",
			`@C { #Order { id: Int } #Order { id: Int } }`,
			"Duplicate entity name in context C: Order",
		},
		{
			"value objects",
			`@C { %Money { amount: Float } %Money { amount: Float } }`,
			"Duplicate value object name in context C: Money",
		},
		{
			"services",
			`@C { >>Svc { run(): Bool } >>Svc { run(): Bool } }`,
			"Duplicate service name in context C: Svc",
		},
		{
			"repositories",
			`@C { $Repo { all(): Int } $Repo { all(): Int } }`,
			"Duplicate repository name in context C: Repo",
		},
		{
			"properties",
			`@C { #Order { id: Int id: String } }`,
			"Duplicate property name in entity Order: id",
		},
		{
			"entity across contexts",
			`@A { #X { id: Int } } @B { #X { id: Int } }`,
			"Duplicate entity name in context B: X",
		},
		{
			"value object shadowing an entity",
			`@A { #X { id: Int } %X { id: Int } }`,
			"Duplicate value object name in context A: X",
		},
		{
			"service shadowing an entity across contexts",
			`@A { #X { id: Int } } @B { >>X { run(): Bool } }`,
			"Duplicate service name in context B: X",
		},
		{
			"entity shadowing a context name",
			`@A { } @B { #A { id: Int } }`,
			"Duplicate entity name in context B: A",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, validationMessages(t, tt.input), tt.message)
		})
	}
}

func TestValidateUnknownRelationshipTarget(t *testing.T) {
	messages := validationMessages(t, `
@Sales {
    #Order { id: Int }
    Order -> Customer
}`)

	assert.Equal(t, []string{"Unknown target entity in relationship: Customer"}, messages)
}

func TestValidateUnknownRelationshipSource(t *testing.T) {
	messages := validationMessages(t, `
@Sales {
    #Customer { id: Int }
    Ghost -> Customer
}`)

	assert.Equal(t, []string{"Unknown source entity in relationship: Ghost"}, messages)
}

func TestValidateUnknownSourceAndTarget(t *testing.T) {
	messages := validationMessages(t, `
@Sales {
    #Order { id: Int }
    Ghost -> Phantom
}`)

	assert.Contains(t, messages, "Unknown source entity in relationship: Ghost")
	assert.Contains(t, messages, "Unknown target entity in relationship: Phantom")
}

func TestValidateCrossContextRelationship(t *testing.T) {
	// A relationship target may be declared as an entity in any context.
	m := buildModel(t, `
@A {
    #X { id: Int }
    X -> Y
}
@B {
    #Y { id: Int }
}`)

	assert.NoError(t, New().Validate(m))
}

func TestValidateForwardReference(t *testing.T) {
	// A relationship may name an entity declared after it.
	m := buildModel(t, `
@Sales {
    #Order { id: Int }
    Order -> Customer
    #Customer { id: Int }
}`)

	assert.NoError(t, New().Validate(m))
}

func TestValidateBatchesAllProblems(t *testing.T) {
	messages := validationMessages(t, `
@Sales {
    #Order { id: Int id: String }
    #Order { id: Int }
    Order -> Nowhere
}`)

	assert.Len(t, messages, 3)
	assert.Contains(t, messages, "Duplicate property name in entity Order: id")
	assert.Contains(t, messages, "Duplicate entity name in context Sales: Order")
	assert.Contains(t, messages, "Unknown target entity in relationship: Nowhere")
}

func TestValidateErrorString(t *testing.T) {
	err := &Error{Messages: []string{"first problem", "second problem"}}
	assert.Equal(t, "model validation failed: first problem; second problem", err.Error())
}
