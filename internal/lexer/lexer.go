// Package lexer tokenizes DomainForge DSL source text.
//
// The scanner is hand-written with one character of lookahead (two for the
// compound symbols), tracks line and column for error reporting, and skips
// whitespace plus both comment styles (// and /* */). Keyword
// classification (HTTP methods, UI components, visibility) is driven by the
// loaded grammar asset so the lexer and transformer stay in lockstep.
package lexer

import (
	"fmt"
	"strings"
	"unicode"

	"domainforge/internal/grammar"
)

// Lexer scans DSL input into a token stream.
type Lexer struct {
	input   string
	grammar *grammar.Grammar
	pos     int
	line    int
	column  int
}

// New creates a lexer over the given input using the given grammar asset.
func New(input string, g *grammar.Grammar) *Lexer {
	return &Lexer{
		input:   input,
		grammar: g,
		pos:     0,
		line:    1,
		column:  1,
	}
}

// Tokenize scans the whole input and returns the token stream, terminated
// by a TokenEOF entry. The first lexical failure aborts the scan.
func Tokenize(input string, g *grammar.Grammar) ([]Token, error) {
	return New(input, g).Tokenize()
}

// Tokenize scans the whole input.
func (l *Lexer) Tokenize() ([]Token, error) {
	tokens := make([]Token, 0, 64)
	for {
		if err := l.skipWhitespaceAndComments(); err != nil {
			return nil, err
		}
		if l.isEOF() {
			tokens = append(tokens, Token{Kind: TokenEOF, Line: l.line, Column: l.column})
			return tokens, nil
		}
		tok, err := l.scanToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
	}
}

// scanToken scans a single token. Callers must have skipped whitespace.
func (l *Lexer) scanToken() (Token, error) {
	line, column := l.line, l.column
	r := l.peek()

	switch {
	case isIdentStart(r):
		return l.scanIdentifier(line, column), nil
	case isDigit(r):
		return l.scanNumber(line, column)
	case r == '"':
		return l.scanString(line, column)
	}

	// Single- and multi-rune symbols, longest match first.
	tok := func(kind TokenKind, value string) Token {
		return Token{Kind: kind, Value: value, Line: line, Column: column}
	}

	switch r {
	case '@':
		l.advance()
		return tok(TokenAt, "@"), nil
	case '#':
		l.advance()
		return tok(TokenHash, "#"), nil
	case '%':
		l.advance()
		return tok(TokenPercent, "%"), nil
	case '^':
		l.advance()
		return tok(TokenCaret, "^"), nil
	case '$':
		l.advance()
		return tok(TokenDollar, "$"), nil
	case '*':
		l.advance()
		return tok(TokenStar, "*"), nil
	case '&':
		l.advance()
		return tok(TokenAmp, "&"), nil
	case '{':
		l.advance()
		return tok(TokenLBrace, "{"), nil
	case '}':
		l.advance()
		return tok(TokenRBrace, "}"), nil
	case '(':
		l.advance()
		return tok(TokenLParen, "("), nil
	case ')':
		l.advance()
		return tok(TokenRParen, ")"), nil
	case '[':
		l.advance()
		return tok(TokenLBracket, "["), nil
	case ']':
		l.advance()
		return tok(TokenRBracket, "]"), nil
	case ',':
		l.advance()
		return tok(TokenComma, ","), nil
	case '.':
		l.advance()
		return tok(TokenDot, "."), nil
	case '/':
		// Comments were consumed already, so a lone slash is the
		// relationship symbol.
		l.advance()
		return tok(TokenSlash, "/"), nil
	case ':':
		l.advance()
		if l.peek() == ':' {
			l.advance()
			return tok(TokenDoubleColon, "::"), nil
		}
		return tok(TokenColon, ":"), nil
	case '=':
		l.advance()
		if l.peek() == '>' {
			l.advance()
			return tok(TokenFatArrow, "=>"), nil
		}
		return tok(TokenEquals, "="), nil
	case '-':
		l.advance()
		switch l.peek() {
		case '>':
			l.advance()
			return tok(TokenArrow, "->"), nil
		case '-':
			l.advance()
			return tok(TokenDashDash, "--"), nil
		}
		return Token{}, l.errorf(line, column, "unexpected '-'")
	case '<':
		if l.peekAt(1) == '-' && l.peekAt(2) == '>' {
			l.advance()
			l.advance()
			l.advance()
			return tok(TokenBiArrow, "<->"), nil
		}
		l.advance()
		return tok(TokenLt, "<"), nil
	case '>':
		l.advance()
		if l.peek() == '>' {
			l.advance()
			return tok(TokenService, ">>"), nil
		}
		return tok(TokenGt, ">"), nil
	}

	return Token{}, l.errorf(line, column, fmt.Sprintf("unexpected character %q", r))
}

// scanIdentifier reads an identifier and classifies it against the grammar
// vocabularies.
func (l *Lexer) scanIdentifier(line, column int) Token {
	start := l.pos
	for !l.isEOF() && isIdentChar(l.peek()) {
		l.advance()
	}
	value := l.input[start:l.pos]

	kind := TokenIdent
	switch {
	case l.grammar.IsHTTPMethod(value):
		kind = TokenHTTPMethod
	case l.grammar.IsVisibility(value):
		kind = TokenVisibility
	case l.grammar.IsComponent(value):
		kind = TokenUIComponent
	}

	return Token{Kind: kind, Value: value, Line: line, Column: column}
}

// scanNumber reads an unsigned INT or FLOAT literal.
func (l *Lexer) scanNumber(line, column int) (Token, error) {
	start := l.pos
	for !l.isEOF() && isDigit(l.peek()) {
		l.advance()
	}

	kind := TokenInt
	if l.peek() == '.' && isDigit(l.peekAt(1)) {
		kind = TokenFloat
		l.advance() // consume '.'
		for !l.isEOF() && isDigit(l.peek()) {
			l.advance()
		}
	}

	return Token{Kind: kind, Value: l.input[start:l.pos], Line: line, Column: column}, nil
}

// scanString reads a double-quoted string. No escape processing: the token
// value is the raw text between the quotes.
func (l *Lexer) scanString(line, column int) (Token, error) {
	l.advance() // consume opening quote
	var sb strings.Builder
	for !l.isEOF() && l.peek() != '"' {
		sb.WriteByte(l.input[l.pos])
		l.advance()
	}
	if l.isEOF() {
		return Token{}, l.errorf(line, column, "unterminated string literal")
	}
	l.advance() // consume closing quote
	return Token{Kind: TokenString, Value: sb.String(), Line: line, Column: column}, nil
}

// skipWhitespaceAndComments skips whitespace, // line comments and /* */
// block comments.
func (l *Lexer) skipWhitespaceAndComments() error {
	for !l.isEOF() {
		r := l.peek()
		switch {
		case unicode.IsSpace(r):
			l.advance()
		case r == '/' && l.peekAt(1) == '/':
			for !l.isEOF() && l.peek() != '\n' {
				l.advance()
			}
		case r == '/' && l.peekAt(1) == '*':
			line, column := l.line, l.column
			l.advance()
			l.advance()
			for {
				if l.isEOF() {
					return l.errorf(line, column, "unterminated block comment")
				}
				if l.peek() == '*' && l.peekAt(1) == '/' {
					l.advance()
					l.advance()
					break
				}
				l.advance()
			}
		default:
			return nil
		}
	}
	return nil
}

// peek returns the current rune without advancing, or 0 at EOF.
func (l *Lexer) peek() rune {
	return l.peekAt(0)
}

// peekAt returns the rune n bytes ahead, or 0 past EOF. The DSL's terminals
// are all ASCII, so byte offsets are rune offsets for everything the scanner
// dispatches on.
func (l *Lexer) peekAt(n int) rune {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return rune(l.input[l.pos+n])
}

// advance moves past the current rune, maintaining line/column.
func (l *Lexer) advance() {
	if l.isEOF() {
		return
	}
	if l.input[l.pos] == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	l.pos++
}

// isEOF reports whether the scanner is at end of input.
func (l *Lexer) isEOF() bool {
	return l.pos >= len(l.input)
}

// errorf creates a SyntaxError at the given position.
func (l *Lexer) errorf(line, column int, message string) error {
	return &SyntaxError{Line: line, Column: column, Message: message}
}

func isIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentChar(r rune) bool {
	return isIdentStart(r) || isDigit(r)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
