package parser

import (
	"fmt"
	"strings"
)

// Kind is the production tag of a parse-tree node. The transformer
// dispatches on these tags, so they must stay in lockstep with the
// productions the parser builds.
type Kind int

const (
	// KindStart is the root node holding context definitions.
	KindStart Kind = iota
	// KindContext is a bounded-context definition.
	KindContext
	// KindContextChildren is the body container of a context.
	KindContextChildren
	// KindEntity is an entity definition.
	KindEntity
	// KindInheritance is the optional parent clause of an entity.
	KindInheritance
	// KindEntityChildren is the body container of an entity.
	KindEntityChildren
	// KindValueObject is a value-object definition.
	KindValueObject
	// KindEvent is an event definition.
	KindEvent
	// KindService is a service definition.
	KindService
	// KindServiceChildren is the body container of a service.
	KindServiceChildren
	// KindRepository is a repository definition.
	KindRepository
	// KindModule is a module definition.
	KindModule
	// KindModuleChildren is the body container of a module.
	KindModuleChildren
	// KindRole is a role definition.
	KindRole
	// KindProperty is a property definition.
	KindProperty
	// KindPropertyDefault is the optional default-value clause of a property.
	KindPropertyDefault
	// KindPropertyConstraint is the optional constraint block of a property.
	KindPropertyConstraint
	// KindConstraint is one rendered constraint (for example "min:3").
	KindConstraint
	// KindSimpleType is a bare type identifier.
	KindSimpleType
	// KindGenericType is Outer<Inner>; Value is the outer name.
	KindGenericType
	// KindListType is List<T>.
	KindListType
	// KindDictType is Dict<K:V>.
	KindDictType
	// KindMethod is a method definition.
	KindMethod
	// KindVisibility is the optional visibility prefix of a method.
	KindVisibility
	// KindParameterList is a comma-separated parameter list.
	KindParameterList
	// KindParameter is one typed parameter; its first child is the name.
	KindParameter
	// KindParameterDefault is the optional default clause of a parameter.
	KindParameterDefault
	// KindReturnType is the optional return-type clause.
	KindReturnType
	// KindBody is an optional braced description block.
	KindBody
	// KindRelationship is a relationship definition; Value is the symbol.
	KindRelationship
	// KindApi is an API endpoint definition.
	KindApi
	// KindApiParams is the optional parameter block of an API definition.
	KindApiParams
	// KindUi is a UI component definition.
	KindUi
	// KindUiParams is the optional parameter block of a UI definition.
	KindUiParams
	// KindUiParam is one name:value UI parameter; Value is the name.
	KindUiParam
	// KindLayoutParam is the layout:{...} entry of a UI parameter block.
	KindLayoutParam
	// KindLayoutProperty is one entry of a layout bag; Value is the name.
	KindLayoutProperty
	// KindUiComponents is the components:{...} block holding nested UIs.
	KindUiComponents
	// KindUiDescription is the description:{...} block of a UI definition.
	KindUiDescription
	// KindUiNavigation is the navigation:{...} block of a UI definition.
	KindUiNavigation
	// KindNavRule is one navigation rule; Value is the event name.
	KindNavRule
	// KindNavParam is one navigation-rule argument; Value is the name.
	KindNavParam

	// Terminal leaves.

	// KindIdent is an identifier leaf.
	KindIdent
	// KindString is a string leaf (quotes already stripped).
	KindString
	// KindInt is an integer literal leaf.
	KindInt
	// KindFloat is a float literal leaf.
	KindFloat
	// KindHTTPMethod is an HTTP method keyword leaf.
	KindHTTPMethod
	// KindComponent is a UI component name leaf.
	KindComponent
	// KindList is a list literal.
	KindList
)

// String returns the production-tag name of a Kind.
func (k Kind) String() string {
	switch k {
	case KindStart:
		return "start"
	case KindContext:
		return "context_definition"
	case KindContextChildren:
		return "context_children"
	case KindEntity:
		return "entity_definition"
	case KindInheritance:
		return "entity_inheritance"
	case KindEntityChildren:
		return "entity_children"
	case KindValueObject:
		return "value_object_definition"
	case KindEvent:
		return "event_definition"
	case KindService:
		return "service_definition"
	case KindServiceChildren:
		return "service_children"
	case KindRepository:
		return "repository_definition"
	case KindModule:
		return "module_definition"
	case KindModuleChildren:
		return "module_children"
	case KindRole:
		return "role_definition"
	case KindProperty:
		return "property_definition"
	case KindPropertyDefault:
		return "property_default"
	case KindPropertyConstraint:
		return "property_constraint"
	case KindConstraint:
		return "constraint"
	case KindSimpleType:
		return "simple_type"
	case KindGenericType:
		return "generic_type"
	case KindListType:
		return "list_type"
	case KindDictType:
		return "dict_type"
	case KindMethod:
		return "method_definition"
	case KindVisibility:
		return "visibility"
	case KindParameterList:
		return "parameter_list"
	case KindParameter:
		return "parameter"
	case KindParameterDefault:
		return "parameter_default"
	case KindReturnType:
		return "return_type"
	case KindBody:
		return "body"
	case KindRelationship:
		return "relationship_definition"
	case KindApi:
		return "api_definition"
	case KindApiParams:
		return "api_params"
	case KindUi:
		return "ui_definition"
	case KindUiParams:
		return "ui_params"
	case KindUiParam:
		return "ui_param"
	case KindLayoutParam:
		return "layout_param"
	case KindLayoutProperty:
		return "layout_property"
	case KindUiComponents:
		return "ui_components"
	case KindUiDescription:
		return "ui_description"
	case KindUiNavigation:
		return "ui_navigation"
	case KindNavRule:
		return "nav_rule"
	case KindNavParam:
		return "nav_param"
	case KindIdent:
		return "IDENTIFIER"
	case KindString:
		return "STRING"
	case KindInt:
		return "INT"
	case KindFloat:
		return "FLOAT"
	case KindHTTPMethod:
		return "HTTP_METHOD"
	case KindComponent:
		return "UI_COMPONENT"
	case KindList:
		return "list_value"
	default:
		return "unknown"
	}
}

// Node is one parse-tree node. Leaves carry their token text in Value;
// definition nodes carry their name leaf as the first child and any
// optional clauses after it, in grammar order.
type Node struct {
	Kind     Kind
	Value    string
	Children []*Node
	Line     int
	Column   int
}

// String renders the subtree for debugging.
func (n *Node) String() string {
	var sb strings.Builder
	n.print(&sb, 0)
	return sb.String()
}

func (n *Node) print(sb *strings.Builder, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(sb, "%s%s: %q\n", indent, n.Kind, n.Value)
	for _, child := range n.Children {
		child.print(sb, depth+1)
	}
}
