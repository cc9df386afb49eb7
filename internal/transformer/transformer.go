// Package transformer converts DomainForge parse trees into the typed
// domain model.
//
// Each grammar production maps to exactly one model node. Because the
// grammar is permissive — most clauses are optional and presence is encoded
// purely by which production tag appears at which child index — every
// transform method scans its children left to right, matching each against
// the next expected optional clause before falling through to the body.
// A child whose tag fits no expected position is a defect signal and fails
// the transform with an UnexpectedNodeError rather than being skipped.
package transformer

import (
	"fmt"
	"strconv"
	"strings"

	"domainforge/internal/grammar"
	"domainforge/internal/model"
	"domainforge/internal/parser"
)

// UnexpectedNodeError reports a parse-tree shape the transformer did not
// anticipate: the text was grammatically valid but a production tag
// appeared where it cannot be consumed.
type UnexpectedNodeError struct {
	Production string // enclosing production
	Found      string // offending child's production tag
	Line       int
	Column     int
}

// Error implements the error interface.
func (e *UnexpectedNodeError) Error() string {
	return fmt.Sprintf("transform error at line %d, column %d: unexpected %s node in %s",
		e.Line, e.Column, e.Found, e.Production)
}

// Transformer walks a parse tree bottom-up and assembles the domain model.
// A Transformer holds no state between calls; the same instance may be
// reused, but each Transform builds an entirely fresh model.
type Transformer struct {
	grammar *grammar.Grammar
}

// New creates a transformer bound to a grammar asset. The asset supplies
// the UI component families used to categorize components.
func New(g *grammar.Grammar) *Transformer {
	return &Transformer{grammar: g}
}

// Transform converts a start node into a DomainModel.
func (t *Transformer) Transform(root *parser.Node) (*model.DomainModel, error) {
	if root.Kind != parser.KindStart {
		return nil, unexpected("start", root)
	}
	m := &model.DomainModel{BoundedContexts: []model.BoundedContext{}}
	for _, child := range root.Children {
		if child.Kind != parser.KindContext {
			return nil, unexpected("start", child)
		}
		ctx, err := t.contextDefinition(child)
		if err != nil {
			return nil, err
		}
		m.BoundedContexts = append(m.BoundedContexts, ctx)
	}
	return m, nil
}

// contextDefinition transforms a context definition. Relationships declared
// at context scope are attached to the entity whose name matches their
// source; relationships with no matching entity are retained on the context
// for the validator to reject.
func (t *Transformer) contextDefinition(node *parser.Node) (model.BoundedContext, error) {
	ctx := model.BoundedContext{
		Entities:     []model.Entity{},
		ValueObjects: []model.ValueObject{},
		Events:       []model.Event{},
		Services:     []model.Service{},
		Repositories: []model.Repository{},
		Modules:      []model.Module{},
		Roles:        []model.Role{},
	}

	name, err := identChild(node, 0, "context_definition")
	if err != nil {
		return ctx, err
	}
	ctx.Name = name

	if len(node.Children) < 2 || node.Children[1].Kind != parser.KindContextChildren {
		return ctx, unexpected("context_definition", node)
	}

	var relationships []model.Relationship
	for _, item := range node.Children[1].Children {
		switch item.Kind {
		case parser.KindEntity:
			entity, err := t.entityDefinition(item)
			if err != nil {
				return ctx, err
			}
			ctx.Entities = append(ctx.Entities, entity)
		case parser.KindValueObject:
			vo, err := t.propertyBlock(item)
			if err != nil {
				return ctx, err
			}
			ctx.ValueObjects = append(ctx.ValueObjects, model.ValueObject(vo))
		case parser.KindEvent:
			ev, err := t.propertyBlock(item)
			if err != nil {
				return ctx, err
			}
			ctx.Events = append(ctx.Events, model.Event(ev))
		case parser.KindService:
			svc, err := t.serviceDefinition(item)
			if err != nil {
				return ctx, err
			}
			ctx.Services = append(ctx.Services, svc)
		case parser.KindRepository:
			repo, err := t.repositoryDefinition(item)
			if err != nil {
				return ctx, err
			}
			ctx.Repositories = append(ctx.Repositories, repo)
		case parser.KindModule:
			mod, err := t.moduleDefinition(item)
			if err != nil {
				return ctx, err
			}
			ctx.Modules = append(ctx.Modules, mod)
		case parser.KindRole:
			role, err := t.propertyBlock(item)
			if err != nil {
				return ctx, err
			}
			ctx.Roles = append(ctx.Roles, model.Role(role))
		case parser.KindRelationship:
			rel, err := t.relationshipDefinition(item)
			if err != nil {
				return ctx, err
			}
			relationships = append(relationships, rel)
		default:
			return ctx, unexpected("context_children", item)
		}
	}

	// Attach relationships to their source entities, first match wins.
	for _, rel := range relationships {
		attached := false
		for i := range ctx.Entities {
			if ctx.Entities[i].Name == rel.SourceEntity {
				ctx.Entities[i].Relationships = append(ctx.Entities[i].Relationships, rel)
				attached = true
				break
			}
		}
		if !attached {
			ctx.UnattachedRelationships = append(ctx.UnattachedRelationships, rel)
		}
	}

	return ctx, nil
}

// entityDefinition transforms an entity. The inheritance clause is
// optional, so the child after the name is either the inheritance node or
// already the body container.
func (t *Transformer) entityDefinition(node *parser.Node) (model.Entity, error) {
	entity := model.Entity{
		Properties:    []model.Property{},
		Methods:       []model.Method{},
		Apis:          []model.ApiEndpoint{},
		Uis:           []model.UiComponent{},
		Relationships: []model.Relationship{},
	}

	name, err := identChild(node, 0, "entity_definition")
	if err != nil {
		return entity, err
	}
	entity.Name = name

	i := 1
	if i < len(node.Children) && node.Children[i].Kind == parser.KindInheritance {
		parent, err := identChild(node.Children[i], 0, "entity_inheritance")
		if err != nil {
			return entity, err
		}
		entity.Parent = parent
		i++
	}

	if i >= len(node.Children) || node.Children[i].Kind != parser.KindEntityChildren {
		return entity, unexpected("entity_definition", node)
	}

	for _, item := range node.Children[i].Children {
		switch item.Kind {
		case parser.KindProperty:
			prop, err := t.propertyDefinition(item)
			if err != nil {
				return entity, err
			}
			entity.Properties = append(entity.Properties, prop)
		case parser.KindMethod:
			method, err := t.methodDefinition(item)
			if err != nil {
				return entity, err
			}
			entity.Methods = append(entity.Methods, method)
		case parser.KindApi:
			api, err := t.apiDefinition(item)
			if err != nil {
				return entity, err
			}
			entity.Apis = append(entity.Apis, api)
		case parser.KindUi:
			ui, err := t.uiDefinition(item)
			if err != nil {
				return entity, err
			}
			entity.Uis = append(entity.Uis, ui)
		default:
			return entity, unexpected("entity_children", item)
		}
	}

	return entity, nil
}

// propertyBag is the shared shape of value objects, events and roles.
type propertyBag struct {
	Name       string
	Properties []model.Property
}

// propertyBlock transforms the shared name-plus-properties shape of value
// objects, events and roles. Properties nest directly, without a body
// container.
func (t *Transformer) propertyBlock(node *parser.Node) (propertyBag, error) {
	bag := propertyBag{Properties: []model.Property{}}
	name, err := identChild(node, 0, node.Kind.String())
	if err != nil {
		return bag, err
	}
	bag.Name = name

	for _, item := range node.Children[1:] {
		if item.Kind != parser.KindProperty {
			return bag, unexpected(node.Kind.String(), item)
		}
		prop, err := t.propertyDefinition(item)
		if err != nil {
			return bag, err
		}
		bag.Properties = append(bag.Properties, prop)
	}
	return bag, nil
}

// serviceDefinition transforms a service: methods and API endpoints inside
// a body container, no inheritance.
func (t *Transformer) serviceDefinition(node *parser.Node) (model.Service, error) {
	svc := model.Service{
		Methods: []model.Method{},
		Apis:    []model.ApiEndpoint{},
	}

	name, err := identChild(node, 0, "service_definition")
	if err != nil {
		return svc, err
	}
	svc.Name = name

	if len(node.Children) < 2 || node.Children[1].Kind != parser.KindServiceChildren {
		return svc, unexpected("service_definition", node)
	}
	for _, item := range node.Children[1].Children {
		switch item.Kind {
		case parser.KindMethod:
			method, err := t.methodDefinition(item)
			if err != nil {
				return svc, err
			}
			svc.Methods = append(svc.Methods, method)
		case parser.KindApi:
			api, err := t.apiDefinition(item)
			if err != nil {
				return svc, err
			}
			svc.Apis = append(svc.Apis, api)
		default:
			return svc, unexpected("service_children", item)
		}
	}
	return svc, nil
}

// repositoryDefinition transforms a repository: methods nest directly.
func (t *Transformer) repositoryDefinition(node *parser.Node) (model.Repository, error) {
	repo := model.Repository{Methods: []model.Method{}}

	name, err := identChild(node, 0, "repository_definition")
	if err != nil {
		return repo, err
	}
	repo.Name = name

	for _, item := range node.Children[1:] {
		if item.Kind != parser.KindMethod {
			return repo, unexpected("repository_definition", item)
		}
		method, err := t.methodDefinition(item)
		if err != nil {
			return repo, err
		}
		repo.Methods = append(repo.Methods, method)
	}
	return repo, nil
}

// moduleDefinition transforms a module grouping.
func (t *Transformer) moduleDefinition(node *parser.Node) (model.Module, error) {
	mod := model.Module{
		Entities:     []model.Entity{},
		ValueObjects: []model.ValueObject{},
		Events:       []model.Event{},
		Services:     []model.Service{},
		Repositories: []model.Repository{},
	}

	name, err := identChild(node, 0, "module_definition")
	if err != nil {
		return mod, err
	}
	mod.Name = name

	if len(node.Children) < 2 || node.Children[1].Kind != parser.KindModuleChildren {
		return mod, unexpected("module_definition", node)
	}
	for _, item := range node.Children[1].Children {
		switch item.Kind {
		case parser.KindEntity:
			entity, err := t.entityDefinition(item)
			if err != nil {
				return mod, err
			}
			mod.Entities = append(mod.Entities, entity)
		case parser.KindValueObject:
			vo, err := t.propertyBlock(item)
			if err != nil {
				return mod, err
			}
			mod.ValueObjects = append(mod.ValueObjects, model.ValueObject(vo))
		case parser.KindEvent:
			ev, err := t.propertyBlock(item)
			if err != nil {
				return mod, err
			}
			mod.Events = append(mod.Events, model.Event(ev))
		case parser.KindService:
			svc, err := t.serviceDefinition(item)
			if err != nil {
				return mod, err
			}
			mod.Services = append(mod.Services, svc)
		case parser.KindRepository:
			repo, err := t.repositoryDefinition(item)
			if err != nil {
				return mod, err
			}
			mod.Repositories = append(mod.Repositories, repo)
		default:
			return mod, unexpected("module_children", item)
		}
	}
	return mod, nil
}

// propertyDefinition transforms a property: name, type, then two optional
// clauses in fixed order.
func (t *Transformer) propertyDefinition(node *parser.Node) (model.Property, error) {
	prop := model.Property{Constraints: []string{}}

	name, err := identChild(node, 0, "property_definition")
	if err != nil {
		return prop, err
	}
	prop.Name = name

	if len(node.Children) < 2 {
		return prop, unexpected("property_definition", node)
	}
	typ, err := renderType(node.Children[1])
	if err != nil {
		return prop, err
	}
	prop.Type = typ

	i := 2
	if i < len(node.Children) && node.Children[i].Kind == parser.KindPropertyDefault {
		value, err := t.value(node.Children[i].Children[0])
		if err != nil {
			return prop, err
		}
		prop.DefaultValue = &value
		i++
	}
	if i < len(node.Children) && node.Children[i].Kind == parser.KindPropertyConstraint {
		for _, c := range node.Children[i].Children {
			if c.Kind != parser.KindConstraint {
				return prop, unexpected("property_constraint", c)
			}
			prop.Constraints = append(prop.Constraints, c.Value)
		}
		i++
	}
	if i != len(node.Children) {
		return prop, unexpected("property_definition", node.Children[i])
	}
	return prop, nil
}

// methodDefinition transforms a method. Every clause after the name is
// optional; each is gated by its production tag.
func (t *Transformer) methodDefinition(node *parser.Node) (model.Method, error) {
	method := model.Method{
		Visibility: "public",
		Parameters: []model.Parameter{},
	}

	i := 0
	if i < len(node.Children) && node.Children[i].Kind == parser.KindVisibility {
		method.Visibility = node.Children[i].Value
		i++
	}

	name, err := identChild(node, i, "method_definition")
	if err != nil {
		return method, err
	}
	method.Name = name
	i++

	if i < len(node.Children) && node.Children[i].Kind == parser.KindParameterList {
		params, err := t.parameterList(node.Children[i])
		if err != nil {
			return method, err
		}
		method.Parameters = params
		i++
	}
	if i < len(node.Children) && node.Children[i].Kind == parser.KindReturnType {
		ret, err := renderType(node.Children[i].Children[0])
		if err != nil {
			return method, err
		}
		method.ReturnType = ret
		i++
	}
	if i < len(node.Children) && node.Children[i].Kind == parser.KindBody {
		method.Description = description(node.Children[i])
		i++
	}
	if i != len(node.Children) {
		return method, unexpected("method_definition", node.Children[i])
	}
	return method, nil
}

// parameterList transforms a parameter list node.
func (t *Transformer) parameterList(node *parser.Node) ([]model.Parameter, error) {
	params := make([]model.Parameter, 0, len(node.Children))
	for _, item := range node.Children {
		if item.Kind != parser.KindParameter {
			return nil, unexpected("parameter_list", item)
		}
		param, err := t.parameter(item)
		if err != nil {
			return nil, err
		}
		params = append(params, param)
	}
	return params, nil
}

// parameter transforms one typed parameter with an optional default.
func (t *Transformer) parameter(node *parser.Node) (model.Parameter, error) {
	var param model.Parameter

	name, err := identChild(node, 0, "parameter")
	if err != nil {
		return param, err
	}
	param.Name = name

	if len(node.Children) < 2 {
		return param, unexpected("parameter", node)
	}
	typ, err := renderType(node.Children[1])
	if err != nil {
		return param, err
	}
	param.Type = typ

	if len(node.Children) > 2 {
		if node.Children[2].Kind != parser.KindParameterDefault {
			return param, unexpected("parameter", node.Children[2])
		}
		value, err := t.value(node.Children[2].Children[0])
		if err != nil {
			return param, err
		}
		param.DefaultValue = &value
	}
	return param, nil
}

// apiDefinition transforms an API endpoint: method and path, then three
// optional clauses in fixed order.
func (t *Transformer) apiDefinition(node *parser.Node) (model.ApiEndpoint, error) {
	api := model.ApiEndpoint{Parameters: []model.Parameter{}}

	if len(node.Children) < 2 || node.Children[0].Kind != parser.KindHTTPMethod || node.Children[1].Kind != parser.KindString {
		return api, unexpected("api_definition", node)
	}
	api.HttpMethod = node.Children[0].Value
	api.Path = node.Children[1].Value

	i := 2
	if i < len(node.Children) && node.Children[i].Kind == parser.KindApiParams {
		block := node.Children[i]
		if len(block.Children) > 0 {
			if block.Children[0].Kind != parser.KindParameterList {
				return api, unexpected("api_params", block.Children[0])
			}
			params, err := t.parameterList(block.Children[0])
			if err != nil {
				return api, err
			}
			api.Parameters = params
		}
		i++
	}
	if i < len(node.Children) && node.Children[i].Kind == parser.KindReturnType {
		ret, err := renderType(node.Children[i].Children[0])
		if err != nil {
			return api, err
		}
		api.ReturnType = ret
		i++
	}
	if i < len(node.Children) && node.Children[i].Kind == parser.KindBody {
		api.Description = description(node.Children[i])
		i++
	}
	if i != len(node.Children) {
		return api, unexpected("api_definition", node.Children[i])
	}
	return api, nil
}

// relationshipDefinition transforms a relationship. The symbol is the node
// value, carried through verbatim.
func (t *Transformer) relationshipDefinition(node *parser.Node) (model.Relationship, error) {
	var rel model.Relationship

	source, err := identChild(node, 0, "relationship_definition")
	if err != nil {
		return rel, err
	}
	target, err := identChild(node, 1, "relationship_definition")
	if err != nil {
		return rel, err
	}
	rel.SourceEntity = source
	rel.TargetEntity = target
	rel.RelationshipType = node.Value

	if len(node.Children) > 2 {
		if node.Children[2].Kind != parser.KindBody {
			return rel, unexpected("relationship_definition", node.Children[2])
		}
		rel.Description = description(node.Children[2])
	}
	return rel, nil
}

// uiDefinition transforms a UI component definition, recursing into nested
// component blocks before reading description and navigation metadata so
// rules always attach to a fully built subtree.
func (t *Transformer) uiDefinition(node *parser.Node) (model.UiComponent, error) {
	ui := model.UiComponent{Parameters: []model.Parameter{}}

	if len(node.Children) == 0 || node.Children[0].Kind != parser.KindComponent {
		return ui, unexpected("ui_definition", node)
	}
	ui.ComponentType = node.Children[0].Value
	if category, exists := t.grammar.ComponentCategory(ui.ComponentType); exists {
		ui.Category = category
	}

	i := 1
	if i < len(node.Children) && node.Children[i].Kind == parser.KindUiParams {
		if err := t.uiParams(node.Children[i], &ui); err != nil {
			return ui, err
		}
		i++
	}
	if i < len(node.Children) && node.Children[i].Kind == parser.KindUiComponents {
		for _, item := range node.Children[i].Children {
			if item.Kind != parser.KindUi {
				return ui, unexpected("ui_components", item)
			}
			child, err := t.uiDefinition(item)
			if err != nil {
				return ui, err
			}
			ui.Children = append(ui.Children, child)
		}
		i++
	}
	if i < len(node.Children) && node.Children[i].Kind == parser.KindUiDescription {
		block := node.Children[i]
		if len(block.Children) > 0 && block.Children[0].Kind == parser.KindString {
			ui.Description = block.Children[0].Value
		}
		i++
	}
	if i < len(node.Children) && node.Children[i].Kind == parser.KindUiNavigation {
		for _, item := range node.Children[i].Children {
			rule, err := t.navRule(item)
			if err != nil {
				return ui, err
			}
			ui.Navigation = append(ui.Navigation, rule)
		}
		i++
	}
	if i != len(node.Children) {
		return ui, unexpected("ui_definition", node.Children[i])
	}
	return ui, nil
}

// uiParams fills a component's parameter list and layout bag from its
// mixed parameter block.
func (t *Transformer) uiParams(node *parser.Node, ui *model.UiComponent) error {
	for _, item := range node.Children {
		switch item.Kind {
		case parser.KindUiParam:
			value, err := t.value(item.Children[0])
			if err != nil {
				return err
			}
			v := value
			ui.Parameters = append(ui.Parameters, model.Parameter{
				Name:         item.Value,
				Type:         valueTypeName(value),
				DefaultValue: &v,
			})
		case parser.KindLayoutParam:
			for _, prop := range item.Children {
				if prop.Kind != parser.KindLayoutProperty {
					return unexpected("layout_param", prop)
				}
				value, err := t.value(prop.Children[0])
				if err != nil {
					return err
				}
				ui.Layout = append(ui.Layout, model.LayoutProperty{
					Name:  prop.Value,
					Value: value,
				})
			}
		default:
			return unexpected("ui_params", item)
		}
	}
	return nil
}

// navRule transforms one navigation rule.
func (t *Transformer) navRule(node *parser.Node) (model.NavigationRule, error) {
	var rule model.NavigationRule
	if node.Kind != parser.KindNavRule {
		return rule, unexpected("ui_navigation", node)
	}

	target, err := identChild(node, 0, "nav_rule")
	if err != nil {
		return rule, err
	}
	rule.Event = node.Value
	rule.Target = target

	for _, item := range node.Children[1:] {
		if item.Kind != parser.KindNavParam {
			return rule, unexpected("nav_rule", item)
		}
		value, err := t.value(item.Children[0])
		if err != nil {
			return rule, err
		}
		rule.Params = append(rule.Params, model.NavParam{Name: item.Value, Value: value})
	}
	return rule, nil
}

// value classifies a scalar or list literal leaf into a model value.
// Booleans and nulls arrive as identifiers and are recognized
// case-insensitively; any other identifier passes through verbatim.
func (t *Transformer) value(node *parser.Node) (model.Value, error) {
	switch node.Kind {
	case parser.KindInt:
		n, err := strconv.ParseInt(node.Value, 10, 64)
		if err != nil {
			return model.Value{}, fmt.Errorf("invalid integer literal %q at line %d: %w", node.Value, node.Line, err)
		}
		return model.Int64(n), nil
	case parser.KindFloat:
		f, err := strconv.ParseFloat(node.Value, 64)
		if err != nil {
			return model.Value{}, fmt.Errorf("invalid float literal %q at line %d: %w", node.Value, node.Line, err)
		}
		return model.Float64(f), nil
	case parser.KindString:
		return model.Str(node.Value), nil
	case parser.KindIdent:
		switch strings.ToLower(node.Value) {
		case "true":
			return model.Boolean(true), nil
		case "false":
			return model.Boolean(false), nil
		case "null":
			return model.Null(), nil
		default:
			return model.Ident(node.Value), nil
		}
	case parser.KindList:
		elems := make([]model.Value, 0, len(node.Children))
		for _, child := range node.Children {
			elem, err := t.value(child)
			if err != nil {
				return model.Value{}, err
			}
			elems = append(elems, elem)
		}
		return model.ListOf(elems...), nil
	default:
		return model.Value{}, unexpected("value", node)
	}
}

// renderType renders a type node into its canonical string form:
// String, List<String>, Dict<String:Int>, Custom<Inner>.
func renderType(node *parser.Node) (string, error) {
	switch node.Kind {
	case parser.KindSimpleType:
		return node.Value, nil
	case parser.KindGenericType:
		inner, err := identChild(node, 0, "generic_type")
		if err != nil {
			return "", err
		}
		return node.Value + "<" + inner + ">", nil
	case parser.KindListType:
		inner, err := renderType(node.Children[0])
		if err != nil {
			return "", err
		}
		return "List<" + inner + ">", nil
	case parser.KindDictType:
		key, err := renderType(node.Children[0])
		if err != nil {
			return "", err
		}
		value, err := renderType(node.Children[1])
		if err != nil {
			return "", err
		}
		return "Dict<" + key + ":" + value + ">", nil
	default:
		return "", unexpected("type_definition", node)
	}
}

// valueTypeName names the DSL type a literal UI parameter value carries.
func valueTypeName(v model.Value) string {
	switch v.Kind {
	case model.IntValue:
		return "Int"
	case model.FloatValue:
		return "Float"
	case model.StringValue:
		return "String"
	case model.BoolValue:
		return "Bool"
	case model.ListValue:
		return "List"
	default:
		return "Any"
	}
}

// description extracts the optional string from a body block.
func description(node *parser.Node) string {
	if len(node.Children) > 0 && node.Children[0].Kind == parser.KindString {
		return node.Children[0].Value
	}
	return ""
}

// identChild reads the identifier leaf at child index i.
func identChild(node *parser.Node, i int, production string) (string, error) {
	if i >= len(node.Children) || node.Children[i].Kind != parser.KindIdent {
		return "", unexpected(production, node)
	}
	return node.Children[i].Value, nil
}

// unexpected builds an UnexpectedNodeError for a child that fits no
// expected position of its production.
func unexpected(production string, node *parser.Node) error {
	return &UnexpectedNodeError{
		Production: production,
		Found:      node.Kind.String(),
		Line:       node.Line,
		Column:     node.Column,
	}
}
