// Package parser turns DomainForge DSL source into a concrete parse tree.
//
// The parser is a single-pass recursive descent over the token stream with
// one token of lookahead, plus bounded peeking where the grammar gates an
// optional clause behind a distinct leading terminal (':' inheritance, '='
// defaults, '[' constraints, keyword-prefixed UI blocks). There is no
// backtracking: every decision point is resolvable from the upcoming token
// kinds alone.
//
// The tree mirrors the grammar productions one-to-one so the transformer
// can dispatch purely on production tags.
package parser

import (
	"fmt"

	"domainforge/internal/grammar"
	"domainforge/internal/lexer"
)

// Parser consumes a token stream and produces a parse tree. A Parser is
// single-use; construct a fresh one per parse.
type Parser struct {
	tokens  []lexer.Token
	pos     int
	grammar *grammar.Grammar
}

// Parse tokenizes and parses DSL source into a parse tree rooted at a
// start node. Lexical and grammatical failures both surface as
// *lexer.SyntaxError with line/column positions.
func Parse(input string, g *grammar.Grammar) (*Node, error) {
	tokens, err := lexer.Tokenize(input, g)
	if err != nil {
		return nil, err
	}
	p := &Parser{tokens: tokens, grammar: g}
	return p.parseStart()
}

// parseStart parses zero or more context definitions. Empty input is a
// valid (empty) model.
func (p *Parser) parseStart() (*Node, error) {
	root := &Node{Kind: KindStart, Line: 1, Column: 1}
	for p.cur().Kind != lexer.TokenEOF {
		if p.cur().Kind != lexer.TokenAt {
			return nil, p.errExpected("'@' to begin a context definition")
		}
		ctx, err := p.parseContext()
		if err != nil {
			return nil, err
		}
		root.Children = append(root.Children, ctx)
	}
	return root, nil
}

// parseContext parses: "@" IDENT "{" context_children "}"
func (p *Parser) parseContext() (*Node, error) {
	at := p.advance() // consume '@'
	name, err := p.expectName("context name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenLBrace, "'{'"); err != nil {
		return nil, err
	}

	children := &Node{Kind: KindContextChildren, Line: name.Line, Column: name.Column}
	for p.cur().Kind != lexer.TokenRBrace {
		child, err := p.parseContextChild()
		if err != nil {
			return nil, err
		}
		children.Children = append(children.Children, child)
	}
	p.advance() // consume '}'

	return &Node{
		Kind:     KindContext,
		Line:     at.Line,
		Column:   at.Column,
		Children: []*Node{identLeaf(name), children},
	}, nil
}

// parseContextChild dispatches one context-body member on its leading
// token: a structural marker starts a definition, a bare identifier starts
// a relationship.
func (p *Parser) parseContextChild() (*Node, error) {
	switch tok := p.cur(); tok.Kind {
	case lexer.TokenHash:
		return p.parseEntity()
	case lexer.TokenPercent:
		return p.parsePropertyBlock(KindValueObject, "value object name")
	case lexer.TokenCaret:
		return p.parsePropertyBlock(KindEvent, "event name")
	case lexer.TokenService:
		return p.parseService()
	case lexer.TokenDollar:
		return p.parseRepository()
	case lexer.TokenStar:
		return p.parseModule()
	case lexer.TokenAmp:
		return p.parsePropertyBlock(KindRole, "role name")
	case lexer.TokenEOF:
		return nil, p.errExpected("'}' to close context definition")
	default:
		if tok.IsNameLike() {
			return p.parseRelationship()
		}
		return nil, p.errExpected("definition or relationship")
	}
}

// parseEntity parses: "#" IDENT (":" IDENT)? "{" entity_children "}"
func (p *Parser) parseEntity() (*Node, error) {
	hash := p.advance() // consume '#'
	name, err := p.expectName("entity name")
	if err != nil {
		return nil, err
	}

	node := &Node{Kind: KindEntity, Line: hash.Line, Column: hash.Column}
	node.Children = append(node.Children, identLeaf(name))

	// Optional inheritance clause, gated by ':'.
	if p.cur().Kind == lexer.TokenColon {
		colon := p.advance()
		parent, err := p.expectName("parent entity name")
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, &Node{
			Kind:     KindInheritance,
			Line:     colon.Line,
			Column:   colon.Column,
			Children: []*Node{identLeaf(parent)},
		})
	}

	if _, err := p.expect(lexer.TokenLBrace, "'{'"); err != nil {
		return nil, err
	}
	body := &Node{Kind: KindEntityChildren, Line: name.Line, Column: name.Column}
	for p.cur().Kind != lexer.TokenRBrace {
		child, err := p.parseEntityChild()
		if err != nil {
			return nil, err
		}
		body.Children = append(body.Children, child)
	}
	p.advance() // consume '}'
	node.Children = append(node.Children, body)
	return node, nil
}

// parseEntityChild dispatches one entity-body member. Properties, methods,
// api and ui definitions all begin with a name-like token; the next token
// (and for api/ui the one after) disambiguates.
func (p *Parser) parseEntityChild() (*Node, error) {
	tok := p.cur()
	if tok.Kind == lexer.TokenVisibility {
		return p.parseMethod()
	}
	if !tok.IsNameLike() {
		return nil, p.errExpected("property, method, api or ui definition")
	}

	switch {
	case tok.Value == "api" && p.peekAt(1).Kind == lexer.TokenColon && p.peekAt(2).Kind == lexer.TokenHTTPMethod:
		return p.parseApi()
	case tok.Value == "ui" && p.peekAt(1).Kind == lexer.TokenColon && p.peekAt(2).Kind == lexer.TokenUIComponent:
		return p.parseUi()
	case p.peekAt(1).Kind == lexer.TokenLParen:
		return p.parseMethod()
	case p.peekAt(1).Kind == lexer.TokenColon:
		return p.parseProperty()
	default:
		return nil, p.errExpected("property, method, api or ui definition")
	}
}

// parsePropertyBlock parses the shared shape of value objects, events and
// roles: MARKER IDENT "{" property* "}". The marker token has already been
// matched by the caller's dispatch.
func (p *Parser) parsePropertyBlock(kind Kind, what string) (*Node, error) {
	marker := p.advance()
	name, err := p.expectName(what)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenLBrace, "'{'"); err != nil {
		return nil, err
	}

	node := &Node{Kind: kind, Line: marker.Line, Column: marker.Column}
	node.Children = append(node.Children, identLeaf(name))
	for p.cur().Kind != lexer.TokenRBrace {
		if !p.cur().IsNameLike() {
			return nil, p.errExpected("property definition")
		}
		prop, err := p.parseProperty()
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, prop)
	}
	p.advance() // consume '}'
	return node, nil
}

// parseService parses: ">>" IDENT "{" (method | api)* "}"
func (p *Parser) parseService() (*Node, error) {
	marker := p.advance() // consume '>>'
	name, err := p.expectName("service name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenLBrace, "'{'"); err != nil {
		return nil, err
	}

	body := &Node{Kind: KindServiceChildren, Line: name.Line, Column: name.Column}
	for p.cur().Kind != lexer.TokenRBrace {
		tok := p.cur()
		var child *Node
		var err error
		switch {
		case tok.Kind == lexer.TokenVisibility:
			child, err = p.parseMethod()
		case tok.IsNameLike() && tok.Value == "api" && p.peekAt(1).Kind == lexer.TokenColon && p.peekAt(2).Kind == lexer.TokenHTTPMethod:
			child, err = p.parseApi()
		case tok.IsNameLike() && p.peekAt(1).Kind == lexer.TokenLParen:
			child, err = p.parseMethod()
		default:
			return nil, p.errExpected("method or api definition")
		}
		if err != nil {
			return nil, err
		}
		body.Children = append(body.Children, child)
	}
	p.advance() // consume '}'

	return &Node{
		Kind:     KindService,
		Line:     marker.Line,
		Column:   marker.Column,
		Children: []*Node{identLeaf(name), body},
	}, nil
}

// parseRepository parses: "$" IDENT "{" method* "}"
func (p *Parser) parseRepository() (*Node, error) {
	marker := p.advance() // consume '$'
	name, err := p.expectName("repository name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenLBrace, "'{'"); err != nil {
		return nil, err
	}

	node := &Node{Kind: KindRepository, Line: marker.Line, Column: marker.Column}
	node.Children = append(node.Children, identLeaf(name))
	for p.cur().Kind != lexer.TokenRBrace {
		tok := p.cur()
		if tok.Kind != lexer.TokenVisibility && !tok.IsNameLike() {
			return nil, p.errExpected("method definition")
		}
		method, err := p.parseMethod()
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, method)
	}
	p.advance() // consume '}'
	return node, nil
}

// parseModule parses: "*" IDENT "{" (entity | value_object | event |
// service | repository)* "}"
func (p *Parser) parseModule() (*Node, error) {
	marker := p.advance() // consume '*'
	name, err := p.expectName("module name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenLBrace, "'{'"); err != nil {
		return nil, err
	}

	body := &Node{Kind: KindModuleChildren, Line: name.Line, Column: name.Column}
	for p.cur().Kind != lexer.TokenRBrace {
		var child *Node
		var err error
		switch p.cur().Kind {
		case lexer.TokenHash:
			child, err = p.parseEntity()
		case lexer.TokenPercent:
			child, err = p.parsePropertyBlock(KindValueObject, "value object name")
		case lexer.TokenCaret:
			child, err = p.parsePropertyBlock(KindEvent, "event name")
		case lexer.TokenService:
			child, err = p.parseService()
		case lexer.TokenDollar:
			child, err = p.parseRepository()
		default:
			return nil, p.errExpected("entity, value object, event, service or repository definition")
		}
		if err != nil {
			return nil, err
		}
		body.Children = append(body.Children, child)
	}
	p.advance() // consume '}'

	return &Node{
		Kind:     KindModule,
		Line:     marker.Line,
		Column:   marker.Column,
		Children: []*Node{identLeaf(name), body},
	}, nil
}

// parseProperty parses: IDENT ":" type ("=" value)? ("[" constraint+ "]")?
func (p *Parser) parseProperty() (*Node, error) {
	name, err := p.expectName("property name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenColon, "':'"); err != nil {
		return nil, err
	}
	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}

	node := &Node{Kind: KindProperty, Line: name.Line, Column: name.Column}
	node.Children = append(node.Children, identLeaf(name), typ)

	// Optional default, gated by '='.
	if p.cur().Kind == lexer.TokenEquals {
		eq := p.advance()
		value, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, &Node{
			Kind:     KindPropertyDefault,
			Line:     eq.Line,
			Column:   eq.Column,
			Children: []*Node{value},
		})
	}

	// Optional constraint block, gated by '['.
	if p.cur().Kind == lexer.TokenLBracket {
		lb := p.advance()
		block := &Node{Kind: KindPropertyConstraint, Line: lb.Line, Column: lb.Column}
		for p.cur().Kind != lexer.TokenRBracket {
			constraint, err := p.parseConstraint()
			if err != nil {
				return nil, err
			}
			block.Children = append(block.Children, constraint)
		}
		if len(block.Children) == 0 {
			return nil, p.errExpected("at least one constraint")
		}
		p.advance() // consume ']'
		node.Children = append(node.Children, block)
	}

	return node, nil
}

// parseConstraint parses one constraint and renders it into its canonical
// string form (required, unique, min:N, max:N, pattern:S, foreign_key:Name).
func (p *Parser) parseConstraint() (*Node, error) {
	tok, err := p.expectName("constraint keyword")
	if err != nil {
		return nil, err
	}
	if !p.grammar.IsConstraintKeyword(tok.Value) {
		return nil, &lexer.SyntaxError{
			Line:    tok.Line,
			Column:  tok.Column,
			Message: fmt.Sprintf("unknown constraint %q", tok.Value),
		}
	}

	leaf := func(rendered string) *Node {
		return &Node{Kind: KindConstraint, Value: rendered, Line: tok.Line, Column: tok.Column}
	}

	switch tok.Value {
	case "required", "unique":
		return leaf(tok.Value), nil
	case "min", "max":
		if _, err := p.expect(lexer.TokenColon, "':'"); err != nil {
			return nil, err
		}
		n, err := p.expect(lexer.TokenInt, "integer")
		if err != nil {
			return nil, err
		}
		return leaf(tok.Value + ":" + n.Value), nil
	case "pattern":
		if _, err := p.expect(lexer.TokenColon, "':'"); err != nil {
			return nil, err
		}
		s, err := p.expect(lexer.TokenString, "string")
		if err != nil {
			return nil, err
		}
		return leaf("pattern:" + s.Value), nil
	case "foreign_key":
		if _, err := p.expect(lexer.TokenColon, "':'"); err != nil {
			return nil, err
		}
		name, err := p.expectName("entity name")
		if err != nil {
			return nil, err
		}
		return leaf("foreign_key:" + name.Value), nil
	default:
		return nil, &lexer.SyntaxError{
			Line:    tok.Line,
			Column:  tok.Column,
			Message: fmt.Sprintf("constraint %q declared in grammar but not implemented", tok.Value),
		}
	}
}

// parseType parses a type expression: List<T>, Dict<K:V>, Outer<Inner> or a
// bare identifier.
func (p *Parser) parseType() (*Node, error) {
	tok, err := p.expectName("type name")
	if err != nil {
		return nil, err
	}

	switch {
	case tok.Value == "List" && p.cur().Kind == lexer.TokenLt:
		p.advance() // consume '<'
		inner, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if err := p.expectGt(); err != nil {
			return nil, err
		}
		return &Node{Kind: KindListType, Line: tok.Line, Column: tok.Column, Children: []*Node{inner}}, nil

	case tok.Value == "Dict" && p.cur().Kind == lexer.TokenLt:
		p.advance() // consume '<'
		key, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokenColon, "':'"); err != nil {
			return nil, err
		}
		value, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if err := p.expectGt(); err != nil {
			return nil, err
		}
		return &Node{Kind: KindDictType, Line: tok.Line, Column: tok.Column, Children: []*Node{key, value}}, nil

	case p.cur().Kind == lexer.TokenLt:
		p.advance() // consume '<'
		inner, err := p.expectName("type argument")
		if err != nil {
			return nil, err
		}
		if err := p.expectGt(); err != nil {
			return nil, err
		}
		return &Node{
			Kind:     KindGenericType,
			Value:    tok.Value,
			Line:     tok.Line,
			Column:   tok.Column,
			Children: []*Node{identLeaf(inner)},
		}, nil

	default:
		return &Node{Kind: KindSimpleType, Value: tok.Value, Line: tok.Line, Column: tok.Column}, nil
	}
}

// expectGt consumes one '>' closing a generic. A '>>' token here is two
// nested closers, so it is split: one is consumed, one is left for the
// enclosing type.
func (p *Parser) expectGt() error {
	tok := p.cur()
	switch tok.Kind {
	case lexer.TokenGt:
		p.advance()
		return nil
	case lexer.TokenService:
		p.tokens[p.pos] = lexer.Token{Kind: lexer.TokenGt, Value: ">", Line: tok.Line, Column: tok.Column + 1}
		return nil
	default:
		return p.errExpected("'>'")
	}
}

// parseMethod parses: VISIBILITY? IDENT "(" parameter_list? ")" (":" type)?
// ("{" STRING? "}")?
func (p *Parser) parseMethod() (*Node, error) {
	node := &Node{Kind: KindMethod, Line: p.cur().Line, Column: p.cur().Column}

	if p.cur().Kind == lexer.TokenVisibility {
		vis := p.advance()
		node.Children = append(node.Children, &Node{
			Kind:   KindVisibility,
			Value:  vis.Value,
			Line:   vis.Line,
			Column: vis.Column,
		})
	}

	name, err := p.expectName("method name")
	if err != nil {
		return nil, err
	}
	node.Children = append(node.Children, identLeaf(name))

	if _, err := p.expect(lexer.TokenLParen, "'('"); err != nil {
		return nil, err
	}
	if p.cur().Kind != lexer.TokenRParen {
		params, err := p.parseParameterList()
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, params)
	}
	if _, err := p.expect(lexer.TokenRParen, "')'"); err != nil {
		return nil, err
	}

	// Optional return type, gated by ':'.
	if p.cur().Kind == lexer.TokenColon {
		colon := p.advance()
		typ, err := p.parseType()
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, &Node{
			Kind:     KindReturnType,
			Line:     colon.Line,
			Column:   colon.Column,
			Children: []*Node{typ},
		})
	}

	// Optional description body, gated by '{'.
	if p.cur().Kind == lexer.TokenLBrace {
		body, err := p.parseBody()
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, body)
	}

	return node, nil
}

// parseBody parses a braced optional description: "{" STRING? "}"
func (p *Parser) parseBody() (*Node, error) {
	lb := p.advance() // consume '{'
	node := &Node{Kind: KindBody, Line: lb.Line, Column: lb.Column}
	if p.cur().Kind == lexer.TokenString {
		s := p.advance()
		node.Children = append(node.Children, stringLeaf(s))
	}
	if _, err := p.expect(lexer.TokenRBrace, "'}'"); err != nil {
		return nil, err
	}
	return node, nil
}

// parseParameterList parses: parameter ("," parameter)*
func (p *Parser) parseParameterList() (*Node, error) {
	list := &Node{Kind: KindParameterList, Line: p.cur().Line, Column: p.cur().Column}
	for {
		param, err := p.parseParameter()
		if err != nil {
			return nil, err
		}
		list.Children = append(list.Children, param)
		if p.cur().Kind != lexer.TokenComma {
			return list, nil
		}
		p.advance() // consume ','
	}
}

// parseParameter parses: IDENT ":" type ("=" value)?
func (p *Parser) parseParameter() (*Node, error) {
	name, err := p.expectName("parameter name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenColon, "':'"); err != nil {
		return nil, err
	}
	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}

	node := &Node{Kind: KindParameter, Line: name.Line, Column: name.Column}
	node.Children = append(node.Children, identLeaf(name), typ)

	if p.cur().Kind == lexer.TokenEquals {
		eq := p.advance()
		value, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, &Node{
			Kind:     KindParameterDefault,
			Line:     eq.Line,
			Column:   eq.Column,
			Children: []*Node{value},
		})
	}
	return node, nil
}

// parseValue parses a scalar or list literal. Booleans and nulls lex as
// identifiers; the transformer classifies them.
func (p *Parser) parseValue() (*Node, error) {
	tok := p.cur()
	switch {
	case tok.Kind == lexer.TokenInt:
		p.advance()
		return &Node{Kind: KindInt, Value: tok.Value, Line: tok.Line, Column: tok.Column}, nil
	case tok.Kind == lexer.TokenFloat:
		p.advance()
		return &Node{Kind: KindFloat, Value: tok.Value, Line: tok.Line, Column: tok.Column}, nil
	case tok.Kind == lexer.TokenString:
		p.advance()
		return stringLeaf(tok), nil
	case tok.Kind == lexer.TokenLBracket:
		p.advance()
		list := &Node{Kind: KindList, Line: tok.Line, Column: tok.Column}
		if p.cur().Kind != lexer.TokenRBracket {
			for {
				elem, err := p.parseValue()
				if err != nil {
					return nil, err
				}
				list.Children = append(list.Children, elem)
				if p.cur().Kind != lexer.TokenComma {
					break
				}
				p.advance() // consume ','
			}
		}
		if _, err := p.expect(lexer.TokenRBracket, "']'"); err != nil {
			return nil, err
		}
		return list, nil
	case tok.IsNameLike():
		p.advance()
		return &Node{Kind: KindIdent, Value: tok.Value, Line: tok.Line, Column: tok.Column}, nil
	default:
		return nil, p.errExpected("value")
	}
}

// parseRelationship parses: IDENT REL_SYMBOL IDENT ("{" STRING? "}")?
// The symbol is carried verbatim in the node value.
func (p *Parser) parseRelationship() (*Node, error) {
	source, err := p.expectName("source entity name")
	if err != nil {
		return nil, err
	}

	sym := p.cur()
	if !sym.IsRelationshipSymbol() {
		return nil, p.errExpected("relationship symbol")
	}
	if !p.grammar.IsRelationshipSymbol(sym.Value) {
		return nil, &lexer.SyntaxError{
			Line:    sym.Line,
			Column:  sym.Column,
			Message: fmt.Sprintf("relationship symbol %q not declared by the grammar", sym.Value),
		}
	}
	p.advance()

	target, err := p.expectName("target entity name")
	if err != nil {
		return nil, err
	}

	node := &Node{
		Kind:     KindRelationship,
		Value:    sym.Value,
		Line:     source.Line,
		Column:   source.Column,
		Children: []*Node{identLeaf(source), identLeaf(target)},
	}

	if p.cur().Kind == lexer.TokenLBrace {
		body, err := p.parseBody()
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, body)
	}
	return node, nil
}

// parseApi parses: "api" ":" HTTP_METHOD STRING ("(" parameter_list? ")")?
// (":" type)? ("{" STRING? "}")?
func (p *Parser) parseApi() (*Node, error) {
	kw := p.advance() // consume 'api'
	if _, err := p.expect(lexer.TokenColon, "':'"); err != nil {
		return nil, err
	}
	method, err := p.expect(lexer.TokenHTTPMethod, "HTTP method")
	if err != nil {
		return nil, err
	}
	path, err := p.expect(lexer.TokenString, "path string")
	if err != nil {
		return nil, err
	}

	node := &Node{Kind: KindApi, Line: kw.Line, Column: kw.Column}
	node.Children = append(node.Children,
		&Node{Kind: KindHTTPMethod, Value: method.Value, Line: method.Line, Column: method.Column},
		stringLeaf(path),
	)

	// Optional parameter block, gated by '('.
	if p.cur().Kind == lexer.TokenLParen {
		lp := p.advance()
		params := &Node{Kind: KindApiParams, Line: lp.Line, Column: lp.Column}
		if p.cur().Kind != lexer.TokenRParen {
			list, err := p.parseParameterList()
			if err != nil {
				return nil, err
			}
			params.Children = append(params.Children, list)
		}
		if _, err := p.expect(lexer.TokenRParen, "')'"); err != nil {
			return nil, err
		}
		node.Children = append(node.Children, params)
	}

	// Optional return type, gated by ':'.
	if p.cur().Kind == lexer.TokenColon {
		colon := p.advance()
		typ, err := p.parseType()
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, &Node{
			Kind:     KindReturnType,
			Line:     colon.Line,
			Column:   colon.Column,
			Children: []*Node{typ},
		})
	}

	// Optional description, gated by '{'.
	if p.cur().Kind == lexer.TokenLBrace {
		body, err := p.parseBody()
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, body)
	}

	return node, nil
}

// parseUi parses:
//
//	"ui" ":" UI_COMPONENT ("(" ui_param_list ")")?
//	  ("components" ":" "{" ui* "}")?
//	  ("description" ":" "{" STRING? "}")?
//	  ("navigation" ":" "{" nav_rule* "}")?
func (p *Parser) parseUi() (*Node, error) {
	kw := p.advance() // consume 'ui'
	if _, err := p.expect(lexer.TokenColon, "':'"); err != nil {
		return nil, err
	}
	comp, err := p.expect(lexer.TokenUIComponent, "UI component name")
	if err != nil {
		return nil, err
	}

	node := &Node{Kind: KindUi, Line: kw.Line, Column: kw.Column}
	node.Children = append(node.Children, &Node{
		Kind:   KindComponent,
		Value:  comp.Value,
		Line:   comp.Line,
		Column: comp.Column,
	})

	if p.cur().Kind == lexer.TokenLParen {
		params, err := p.parseUiParams()
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, params)
	}

	if p.atBlockKeyword("components") {
		block, err := p.parseUiComponents()
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, block)
	}

	if p.atBlockKeyword("description") {
		kw := p.advance() // consume 'description'
		p.advance()       // consume ':'
		if _, err := p.expect(lexer.TokenLBrace, "'{'"); err != nil {
			return nil, err
		}
		desc := &Node{Kind: KindUiDescription, Line: kw.Line, Column: kw.Column}
		if p.cur().Kind == lexer.TokenString {
			s := p.advance()
			desc.Children = append(desc.Children, stringLeaf(s))
		}
		if _, err := p.expect(lexer.TokenRBrace, "'}'"); err != nil {
			return nil, err
		}
		node.Children = append(node.Children, desc)
	}

	if p.atBlockKeyword("navigation") {
		block, err := p.parseUiNavigation()
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, block)
	}

	return node, nil
}

// atBlockKeyword reports whether the upcoming tokens open the named
// keyword-prefixed block (for example "components" ":").
func (p *Parser) atBlockKeyword(word string) bool {
	tok := p.cur()
	return tok.IsNameLike() && tok.Value == word && p.peekAt(1).Kind == lexer.TokenColon
}

// parseUiParams parses the mixed UI parameter block: "(" entries ")" where
// each entry is either "layout" ":" "{" layout properties "}" or a plain
// name ":" value pair, comma separated.
func (p *Parser) parseUiParams() (*Node, error) {
	lp := p.advance() // consume '('
	params := &Node{Kind: KindUiParams, Line: lp.Line, Column: lp.Column}

	for p.cur().Kind != lexer.TokenRParen {
		name, err := p.expectName("parameter name")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokenColon, "':'"); err != nil {
			return nil, err
		}

		if name.Value == "layout" && p.cur().Kind == lexer.TokenLBrace {
			layout, err := p.parseLayoutObject(name)
			if err != nil {
				return nil, err
			}
			params.Children = append(params.Children, layout)
		} else {
			value, err := p.parseValue()
			if err != nil {
				return nil, err
			}
			params.Children = append(params.Children, &Node{
				Kind:     KindUiParam,
				Value:    name.Value,
				Line:     name.Line,
				Column:   name.Column,
				Children: []*Node{value},
			})
		}

		if p.cur().Kind != lexer.TokenComma {
			break
		}
		p.advance() // consume ','
	}

	if _, err := p.expect(lexer.TokenRParen, "')'"); err != nil {
		return nil, err
	}
	return params, nil
}

// parseLayoutObject parses: "{" (IDENT ":" value)* "}". Entries are not
// comma separated.
func (p *Parser) parseLayoutObject(kw lexer.Token) (*Node, error) {
	p.advance() // consume '{'
	layout := &Node{Kind: KindLayoutParam, Line: kw.Line, Column: kw.Column}
	for p.cur().Kind != lexer.TokenRBrace {
		name, err := p.expectName("layout property name")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokenColon, "':'"); err != nil {
			return nil, err
		}
		value, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		layout.Children = append(layout.Children, &Node{
			Kind:     KindLayoutProperty,
			Value:    name.Value,
			Line:     name.Line,
			Column:   name.Column,
			Children: []*Node{value},
		})
	}
	p.advance() // consume '}'
	return layout, nil
}

// parseUiComponents parses: "components" ":" "{" ui* "}"
func (p *Parser) parseUiComponents() (*Node, error) {
	kw := p.advance() // consume 'components'
	p.advance()       // consume ':'
	if _, err := p.expect(lexer.TokenLBrace, "'{'"); err != nil {
		return nil, err
	}

	block := &Node{Kind: KindUiComponents, Line: kw.Line, Column: kw.Column}
	for p.cur().Kind != lexer.TokenRBrace {
		tok := p.cur()
		if !tok.IsNameLike() || tok.Value != "ui" {
			return nil, p.errExpected("nested ui definition")
		}
		child, err := p.parseUi()
		if err != nil {
			return nil, err
		}
		block.Children = append(block.Children, child)
	}
	p.advance() // consume '}'
	return block, nil
}

// parseUiNavigation parses: "navigation" ":" "{" nav_rule* "}"
func (p *Parser) parseUiNavigation() (*Node, error) {
	kw := p.advance() // consume 'navigation'
	p.advance()       // consume ':'
	if _, err := p.expect(lexer.TokenLBrace, "'{'"); err != nil {
		return nil, err
	}

	block := &Node{Kind: KindUiNavigation, Line: kw.Line, Column: kw.Column}
	for p.cur().Kind != lexer.TokenRBrace {
		rule, err := p.parseNavRule()
		if err != nil {
			return nil, err
		}
		block.Children = append(block.Children, rule)
	}
	p.advance() // consume '}'
	return block, nil
}

// parseNavRule parses: IDENT "->" IDENT ("(" STRING ":" value ("," STRING
// ":" value)* ")")?
func (p *Parser) parseNavRule() (*Node, error) {
	event, err := p.expectName("event name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenArrow, "'->'"); err != nil {
		return nil, err
	}
	target, err := p.expectName("navigation target")
	if err != nil {
		return nil, err
	}

	rule := &Node{
		Kind:     KindNavRule,
		Value:    event.Value,
		Line:     event.Line,
		Column:   event.Column,
		Children: []*Node{identLeaf(target)},
	}

	if p.cur().Kind == lexer.TokenLParen {
		p.advance() // consume '('
		for p.cur().Kind != lexer.TokenRParen {
			name, err := p.expect(lexer.TokenString, "parameter name string")
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.TokenColon, "':'"); err != nil {
				return nil, err
			}
			value, err := p.parseValue()
			if err != nil {
				return nil, err
			}
			rule.Children = append(rule.Children, &Node{
				Kind:     KindNavParam,
				Value:    name.Value,
				Line:     name.Line,
				Column:   name.Column,
				Children: []*Node{value},
			})
			if p.cur().Kind != lexer.TokenComma {
				break
			}
			p.advance() // consume ','
		}
		if _, err := p.expect(lexer.TokenRParen, "')'"); err != nil {
			return nil, err
		}
	}

	return rule, nil
}

// cur returns the current token without consuming it.
func (p *Parser) cur() lexer.Token {
	return p.peekAt(0)
}

// peekAt returns the token n positions ahead; past the end it returns the
// trailing EOF token.
func (p *Parser) peekAt(n int) lexer.Token {
	if p.pos+n >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos+n]
}

// advance consumes and returns the current token.
func (p *Parser) advance() lexer.Token {
	tok := p.cur()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

// expect consumes a token of the given kind or fails with a positioned
// syntax error.
func (p *Parser) expect(kind lexer.TokenKind, what string) (lexer.Token, error) {
	tok := p.cur()
	if tok.Kind != kind {
		return lexer.Token{}, p.errExpected(what)
	}
	return p.advance(), nil
}

// expectName consumes a name-like token (identifier or keyword-class token
// standing in identifier position).
func (p *Parser) expectName(what string) (lexer.Token, error) {
	tok := p.cur()
	if !tok.IsNameLike() {
		return lexer.Token{}, p.errExpected(what)
	}
	return p.advance(), nil
}

// errExpected builds a syntax error at the current token.
func (p *Parser) errExpected(what string) error {
	tok := p.cur()
	return &lexer.SyntaxError{
		Line:    tok.Line,
		Column:  tok.Column,
		Message: fmt.Sprintf("expected %s, found %s", what, describe(tok)),
	}
}

// describe renders a token for error messages.
func describe(tok lexer.Token) string {
	switch tok.Kind {
	case lexer.TokenEOF:
		return "end of input"
	case lexer.TokenIdent, lexer.TokenHTTPMethod, lexer.TokenUIComponent, lexer.TokenVisibility:
		return fmt.Sprintf("%s %q", tok.Kind, tok.Value)
	case lexer.TokenString:
		return fmt.Sprintf("string %q", tok.Value)
	case lexer.TokenInt, lexer.TokenFloat:
		return fmt.Sprintf("number %s", tok.Value)
	default:
		return tok.Kind.String()
	}
}

// identLeaf builds an identifier leaf from a token.
func identLeaf(tok lexer.Token) *Node {
	return &Node{Kind: KindIdent, Value: tok.Value, Line: tok.Line, Column: tok.Column}
}

// stringLeaf builds a string leaf from a token.
func stringLeaf(tok lexer.Token) *Node {
	return &Node{Kind: KindString, Value: tok.Value, Line: tok.Line, Column: tok.Column}
}
