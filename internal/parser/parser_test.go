package parser

import (
	"errors"
	"strings"
	"testing"

	"domainforge/internal/grammar"
	"domainforge/internal/lexer"
)

func mustParse(t *testing.T, input string) *Node {
	t.Helper()
	tree, err := Parse(input, grammar.Default())
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return tree
}

// entity digs the first entity node out of the first context.
func entity(t *testing.T, tree *Node) *Node {
	t.Helper()
	if len(tree.Children) == 0 {
		t.Fatal("Expected at least one context")
	}
	body := tree.Children[0].Children[1]
	for _, child := range body.Children {
		if child.Kind == KindEntity {
			return child
		}
	}
	t.Fatal("Expected an entity in the first context")
	return nil
}

func TestParseEmptyInput(t *testing.T) {
	tree := mustParse(t, "")
	if tree.Kind != KindStart {
		t.Errorf("Expected start node, got %s", tree.Kind)
	}
	if len(tree.Children) != 0 {
		t.Errorf("Expected empty tree, got %d children", len(tree.Children))
	}
}

func TestParseSimpleEntity(t *testing.T) {
	tree := mustParse(t, `
@ECommerce {
    #Product {
        name: String
        price: Float = 0.0 [required min:0]
    }
}`)

	if len(tree.Children) != 1 {
		t.Fatalf("Expected 1 context, got %d", len(tree.Children))
	}
	ctx := tree.Children[0]
	if ctx.Kind != KindContext {
		t.Fatalf("Expected context node, got %s", ctx.Kind)
	}
	if ctx.Children[0].Value != "ECommerce" {
		t.Errorf("Expected context name ECommerce, got %q", ctx.Children[0].Value)
	}

	ent := entity(t, tree)
	if ent.Children[0].Value != "Product" {
		t.Errorf("Expected entity name Product, got %q", ent.Children[0].Value)
	}

	body := ent.Children[1]
	if body.Kind != KindEntityChildren || len(body.Children) != 2 {
		t.Fatalf("Expected 2 entity members, got %s with %d", body.Kind, len(body.Children))
	}

	name := body.Children[0]
	if name.Kind != KindProperty {
		t.Fatalf("Expected property, got %s", name.Kind)
	}
	if name.Children[0].Value != "name" || name.Children[1].Kind != KindSimpleType || name.Children[1].Value != "String" {
		t.Errorf("Unexpected name property shape: %s", name)
	}
	if len(name.Children) != 2 {
		t.Errorf("Expected no optional clauses on name, got %d children", len(name.Children))
	}

	price := body.Children[1]
	if len(price.Children) != 4 {
		t.Fatalf("Expected default and constraint clauses on price, got %d children", len(price.Children))
	}
	def := price.Children[2]
	if def.Kind != KindPropertyDefault || def.Children[0].Kind != KindFloat || def.Children[0].Value != "0.0" {
		t.Errorf("Unexpected default clause: %s", def)
	}
	constraints := price.Children[3]
	if constraints.Kind != KindPropertyConstraint || len(constraints.Children) != 2 {
		t.Fatalf("Expected 2 constraints, got %s", constraints)
	}
	if constraints.Children[0].Value != "required" || constraints.Children[1].Value != "min:0" {
		t.Errorf("Unexpected constraint rendering: %q, %q",
			constraints.Children[0].Value, constraints.Children[1].Value)
	}
}

func TestParseEntityInheritance(t *testing.T) {
	tree := mustParse(t, `@Auth { #Admin : User { level: Int } }`)
	ent := entity(t, tree)

	if len(ent.Children) != 3 {
		t.Fatalf("Expected name, inheritance and body, got %d children", len(ent.Children))
	}
	inh := ent.Children[1]
	if inh.Kind != KindInheritance || inh.Children[0].Value != "User" {
		t.Errorf("Unexpected inheritance node: %s", inh)
	}
}

func TestParseRelationships(t *testing.T) {
	symbols := []string{"=>", "<->", "--", "->", ".", "::", "/", "="}

	for _, sym := range symbols {
		t.Run(sym, func(t *testing.T) {
			tree := mustParse(t, "@Ctx { Order "+sym+" Customer }")
			rel := tree.Children[0].Children[1].Children[0]
			if rel.Kind != KindRelationship {
				t.Fatalf("Expected relationship, got %s", rel.Kind)
			}
			if rel.Value != sym {
				t.Errorf("Expected symbol %q, got %q", sym, rel.Value)
			}
			if rel.Children[0].Value != "Order" || rel.Children[1].Value != "Customer" {
				t.Errorf("Unexpected endpoints: %q, %q", rel.Children[0].Value, rel.Children[1].Value)
			}
		})
	}

	t.Run("with description", func(t *testing.T) {
		tree := mustParse(t, `@Ctx { Order -> Customer { "placed by" } }`)
		rel := tree.Children[0].Children[1].Children[0]
		if len(rel.Children) != 3 {
			t.Fatalf("Expected description body, got %d children", len(rel.Children))
		}
		body := rel.Children[2]
		if body.Kind != KindBody || body.Children[0].Value != "placed by" {
			t.Errorf("Unexpected description body: %s", body)
		}
	})
}

func TestParseServiceMethods(t *testing.T) {
	tree := mustParse(t, `
@Sales {
    >>OrderService {
        doSomething(param: String): Void
        private createOrder(items: List<OrderItem>, priority: Int = 1): Order { "Creates an order" }
    }
}`)

	svc := tree.Children[0].Children[1].Children[0]
	if svc.Kind != KindService || svc.Children[0].Value != "OrderService" {
		t.Fatalf("Unexpected service node: %s", svc)
	}

	body := svc.Children[1]
	if len(body.Children) != 2 {
		t.Fatalf("Expected 2 methods, got %d", len(body.Children))
	}

	first := body.Children[0]
	if first.Kind != KindMethod {
		t.Fatalf("Expected method, got %s", first.Kind)
	}
	// name, parameter list, return type
	if first.Children[0].Kind != KindIdent || first.Children[0].Value != "doSomething" {
		t.Errorf("Unexpected method name node: %s", first.Children[0])
	}
	if first.Children[1].Kind != KindParameterList || len(first.Children[1].Children) != 1 {
		t.Errorf("Unexpected parameter list: %s", first.Children[1])
	}
	ret := first.Children[2]
	if ret.Kind != KindReturnType || ret.Children[0].Value != "Void" {
		t.Errorf("Unexpected return type: %s", ret)
	}

	second := body.Children[1]
	if second.Children[0].Kind != KindVisibility || second.Children[0].Value != "private" {
		t.Errorf("Expected private visibility, got %s", second.Children[0])
	}
	params := second.Children[2]
	if len(params.Children) != 2 {
		t.Fatalf("Expected 2 parameters, got %d", len(params.Children))
	}
	priority := params.Children[1]
	if len(priority.Children) != 3 || priority.Children[2].Kind != KindParameterDefault {
		t.Errorf("Expected default on priority parameter: %s", priority)
	}
	bodyNode := second.Children[4]
	if bodyNode.Kind != KindBody || bodyNode.Children[0].Value != "Creates an order" {
		t.Errorf("Unexpected method description: %s", bodyNode)
	}
}

func TestParseApiDefinition(t *testing.T) {
	tree := mustParse(t, `
@Catalog {
    #Product {
        api: GET "/products/{id}" (id: Int): Product { "Fetch one product" }
        api: POST "/products"
    }
}`)

	ent := entity(t, tree)
	body := ent.Children[1]
	if len(body.Children) != 2 {
		t.Fatalf("Expected 2 api definitions, got %d", len(body.Children))
	}

	full := body.Children[0]
	if full.Kind != KindApi {
		t.Fatalf("Expected api node, got %s", full.Kind)
	}
	if full.Children[0].Kind != KindHTTPMethod || full.Children[0].Value != "GET" {
		t.Errorf("Unexpected HTTP method node: %s", full.Children[0])
	}
	if full.Children[1].Value != "/products/{id}" {
		t.Errorf("Unexpected path: %q", full.Children[1].Value)
	}
	if full.Children[2].Kind != KindApiParams {
		t.Errorf("Expected api params, got %s", full.Children[2].Kind)
	}
	if full.Children[3].Kind != KindReturnType || full.Children[4].Kind != KindBody {
		t.Errorf("Expected return type and description clauses")
	}

	bare := body.Children[1]
	if len(bare.Children) != 2 {
		t.Errorf("Expected method and path only, got %d children", len(bare.Children))
	}
}

func TestParseRepositoryAndModule(t *testing.T) {
	tree := mustParse(t, `
@Warehouse {
    $ProductRepo {
        findById(id: Int): Product
    }
    *Inventory {
        #StockItem { count: Int }
        %Sku { code: String }
        ^StockDepleted { sku: String }
        >>StockService { check(sku: String): Bool }
        $StockRepo { all(): List<StockItem> }
    }
    &Manager { clearance: Int }
}`)

	members := tree.Children[0].Children[1].Children
	if len(members) != 3 {
		t.Fatalf("Expected 3 context members, got %d", len(members))
	}

	repo := members[0]
	if repo.Kind != KindRepository || repo.Children[0].Value != "ProductRepo" {
		t.Errorf("Unexpected repository: %s", repo)
	}
	if repo.Children[1].Kind != KindMethod {
		t.Errorf("Expected method in repository, got %s", repo.Children[1].Kind)
	}

	mod := members[1]
	if mod.Kind != KindModule || mod.Children[0].Value != "Inventory" {
		t.Fatalf("Unexpected module: %s", mod)
	}
	kinds := []Kind{KindEntity, KindValueObject, KindEvent, KindService, KindRepository}
	modBody := mod.Children[1]
	if len(modBody.Children) != len(kinds) {
		t.Fatalf("Expected %d module members, got %d", len(kinds), len(modBody.Children))
	}
	for i, kind := range kinds {
		if modBody.Children[i].Kind != kind {
			t.Errorf("Module member %d: expected %s, got %s", i, kind, modBody.Children[i].Kind)
		}
	}

	role := members[2]
	if role.Kind != KindRole || role.Children[0].Value != "Manager" {
		t.Errorf("Unexpected role: %s", role)
	}
}

func TestParseNestedGenerics(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(t *testing.T, typ *Node)
	}{
		{
			name:  "list of list",
			input: "matrix: List<List<String>>",
			check: func(t *testing.T, typ *Node) {
				if typ.Kind != KindListType {
					t.Fatalf("Expected list type, got %s", typ.Kind)
				}
				inner := typ.Children[0]
				if inner.Kind != KindListType || inner.Children[0].Value != "String" {
					t.Errorf("Unexpected inner type: %s", inner)
				}
			},
		},
		{
			name:  "dict with generic value",
			input: "index: Dict<String:List<Int>>",
			check: func(t *testing.T, typ *Node) {
				if typ.Kind != KindDictType {
					t.Fatalf("Expected dict type, got %s", typ.Kind)
				}
				if typ.Children[0].Value != "String" {
					t.Errorf("Unexpected key type: %s", typ.Children[0])
				}
				if typ.Children[1].Kind != KindListType {
					t.Errorf("Unexpected value type: %s", typ.Children[1])
				}
			},
		},
		{
			name:  "custom generic",
			input: "ref: Optional<Customer>",
			check: func(t *testing.T, typ *Node) {
				if typ.Kind != KindGenericType || typ.Value != "Optional" {
					t.Fatalf("Expected generic type Optional, got %s", typ)
				}
				if typ.Children[0].Value != "Customer" {
					t.Errorf("Unexpected type argument: %s", typ.Children[0])
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := mustParse(t, "@Ctx { #E { "+tt.input+" } }")
			prop := entity(t, tree).Children[1].Children[0]
			tt.check(t, prop.Children[1])
		})
	}
}

func TestParseUiTree(t *testing.T) {
	tree := mustParse(t, `
@Shop {
    #Product {
        ui: Page(title: "Catalog", layout: { columns: 3 gap: 10 }) components: {
            ui: Grid components: {
                ui: Card(selectable: true) description: { "One product tile" }
            }
        } navigation: {
            onSelect -> ProductDetail("productId": 42, "mode": "view")
        }
    }
}`)

	ui := entity(t, tree).Children[1].Children[0]
	if ui.Kind != KindUi {
		t.Fatalf("Expected ui node, got %s", ui.Kind)
	}
	if ui.Children[0].Kind != KindComponent || ui.Children[0].Value != "Page" {
		t.Fatalf("Unexpected component: %s", ui.Children[0])
	}

	params := ui.Children[1]
	if params.Kind != KindUiParams || len(params.Children) != 2 {
		t.Fatalf("Expected title and layout entries, got %s", params)
	}
	if params.Children[0].Kind != KindUiParam || params.Children[0].Value != "title" {
		t.Errorf("Unexpected ui param: %s", params.Children[0])
	}
	layout := params.Children[1]
	if layout.Kind != KindLayoutParam || len(layout.Children) != 2 {
		t.Fatalf("Expected 2 layout properties, got %s", layout)
	}
	if layout.Children[0].Value != "columns" || layout.Children[1].Value != "gap" {
		t.Errorf("Unexpected layout property names: %q, %q",
			layout.Children[0].Value, layout.Children[1].Value)
	}

	components := ui.Children[2]
	if components.Kind != KindUiComponents || len(components.Children) != 1 {
		t.Fatalf("Expected nested components block, got %s", components)
	}
	grid := components.Children[0]
	if grid.Children[0].Value != "Grid" {
		t.Errorf("Expected Grid child, got %q", grid.Children[0].Value)
	}
	card := grid.Children[1].Children[0]
	if card.Children[0].Value != "Card" {
		t.Errorf("Expected Card grandchild, got %q", card.Children[0].Value)
	}
	cardDesc := card.Children[2]
	if cardDesc.Kind != KindUiDescription || cardDesc.Children[0].Value != "One product tile" {
		t.Errorf("Unexpected card description: %s", cardDesc)
	}

	nav := ui.Children[3]
	if nav.Kind != KindUiNavigation || len(nav.Children) != 1 {
		t.Fatalf("Expected navigation block, got %s", nav)
	}
	rule := nav.Children[0]
	if rule.Kind != KindNavRule || rule.Value != "onSelect" {
		t.Fatalf("Unexpected nav rule: %s", rule)
	}
	if rule.Children[0].Value != "ProductDetail" {
		t.Errorf("Unexpected nav target: %q", rule.Children[0].Value)
	}
	if len(rule.Children) != 3 {
		t.Fatalf("Expected 2 nav params, got %d", len(rule.Children)-1)
	}
	if rule.Children[1].Value != "productId" || rule.Children[2].Value != "mode" {
		t.Errorf("Unexpected nav param names: %q, %q",
			rule.Children[1].Value, rule.Children[2].Value)
	}
}

func TestParseKeywordsAsNames(t *testing.T) {
	// Vocabulary keywords stay usable as plain identifiers.
	tree := mustParse(t, `
@Ctx {
    #Form {
        List: String
        GET(page: Int): List<Form>
    }
}`)

	ent := entity(t, tree)
	if ent.Children[0].Value != "Form" {
		t.Errorf("Expected entity named Form, got %q", ent.Children[0].Value)
	}
	body := ent.Children[1]
	if body.Children[0].Kind != KindProperty || body.Children[0].Children[0].Value != "List" {
		t.Errorf("Expected property named List, got %s", body.Children[0])
	}
	if body.Children[1].Kind != KindMethod || body.Children[1].Children[0].Value != "GET" {
		t.Errorf("Expected method named GET, got %s", body.Children[1])
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		message string
	}{
		{"unclosed context", "@Shop { #Product { name: String }", "'}' to close context definition"},
		{"missing context name", "@{ }", "context name"},
		{"missing property type", "@C { #E { name: } }", "type name"},
		{"unknown constraint", "@C { #E { name: String [frobnicate] } }", `unknown constraint "frobnicate"`},
		{"api without method", `@C { #E { api: "/x" } }`, "type name"},
		{"stray token in context", "@C { ( }", "definition or relationship"},
		{"missing relationship target", "@C { Order -> }", "target entity name"},
		{"empty constraint block", "@C { #E { name: String [] } }", "at least one constraint"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input, grammar.Default())
			if err == nil {
				t.Fatalf("Expected parse error for %q", tt.input)
			}
			var syntaxErr *lexer.SyntaxError
			if !errors.As(err, &syntaxErr) {
				t.Fatalf("Expected *lexer.SyntaxError, got %T: %v", err, err)
			}
			if !strings.Contains(err.Error(), tt.message) {
				t.Errorf("Expected message containing %q, got %q", tt.message, err.Error())
			}
		})
	}
}
