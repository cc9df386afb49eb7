package lexer

import "fmt"

// TokenKind represents the terminal class of a token.
type TokenKind int

const (
	// TokenEOF marks the end of input.
	TokenEOF TokenKind = iota
	// TokenIdent is an identifier: [a-zA-Z_][a-zA-Z0-9_]*
	TokenIdent
	// TokenString is a double-quoted string (quotes stripped, no escapes).
	TokenString
	// TokenInt is an unsigned integer literal.
	TokenInt
	// TokenFloat is an unsigned floating-point literal.
	TokenFloat
	// TokenHTTPMethod is one of the HTTP method keywords (GET, POST, ...).
	TokenHTTPMethod
	// TokenUIComponent is a UI component name from the grammar vocabulary.
	TokenUIComponent
	// TokenVisibility is public, private or protected.
	TokenVisibility

	// Structural markers for definition kinds.
	TokenAt      // @ bounded context
	TokenHash    // # entity
	TokenPercent // % value object
	TokenCaret   // ^ event
	TokenService // >> service
	TokenDollar  // $ repository
	TokenStar    // * module
	TokenAmp     // & role

	// Punctuation.
	TokenLBrace   // {
	TokenRBrace   // }
	TokenLParen   // (
	TokenRParen   // )
	TokenLBracket // [
	TokenRBracket // ]
	TokenColon    // :
	TokenComma    // ,
	TokenLt       // <
	TokenGt       // >

	// Relationship symbols. Dot, slash, equals and double-colon double as
	// structural tokens in other productions; the parser decides by
	// position.
	TokenFatArrow    // =>
	TokenBiArrow     // <->
	TokenDashDash    // --
	TokenArrow       // ->
	TokenDot         // .
	TokenDoubleColon // ::
	TokenSlash       // /
	TokenEquals      // =
)

// String returns the display name of a TokenKind.
func (k TokenKind) String() string {
	switch k {
	case TokenEOF:
		return "EOF"
	case TokenIdent:
		return "IDENTIFIER"
	case TokenString:
		return "STRING"
	case TokenInt:
		return "INT"
	case TokenFloat:
		return "FLOAT"
	case TokenHTTPMethod:
		return "HTTP_METHOD"
	case TokenUIComponent:
		return "UI_COMPONENT"
	case TokenVisibility:
		return "VISIBILITY"
	case TokenAt:
		return "'@'"
	case TokenHash:
		return "'#'"
	case TokenPercent:
		return "'%'"
	case TokenCaret:
		return "'^'"
	case TokenService:
		return "'>>'"
	case TokenDollar:
		return "'$'"
	case TokenStar:
		return "'*'"
	case TokenAmp:
		return "'&'"
	case TokenLBrace:
		return "'{'"
	case TokenRBrace:
		return "'}'"
	case TokenLParen:
		return "'('"
	case TokenRParen:
		return "')'"
	case TokenLBracket:
		return "'['"
	case TokenRBracket:
		return "']'"
	case TokenColon:
		return "':'"
	case TokenComma:
		return "','"
	case TokenLt:
		return "'<'"
	case TokenGt:
		return "'>'"
	case TokenFatArrow:
		return "'=>'"
	case TokenBiArrow:
		return "'<->'"
	case TokenDashDash:
		return "'--'"
	case TokenArrow:
		return "'->'"
	case TokenDot:
		return "'.'"
	case TokenDoubleColon:
		return "'::'"
	case TokenSlash:
		return "'/'"
	case TokenEquals:
		return "'='"
	default:
		return "UNKNOWN"
	}
}

// Token is one lexed terminal with its source position.
type Token struct {
	Kind   TokenKind
	Value  string
	Line   int
	Column int
}

// IsRelationshipSymbol reports whether the token can serve as a
// relationship-type symbol.
func (t Token) IsRelationshipSymbol() bool {
	switch t.Kind {
	case TokenFatArrow, TokenBiArrow, TokenDashDash, TokenArrow,
		TokenDot, TokenDoubleColon, TokenSlash, TokenEquals:
		return true
	default:
		return false
	}
}

// IsNameLike reports whether the token may stand where the grammar expects
// a plain identifier. Keyword classes (HTTP methods, UI components,
// visibility) remain usable as ordinary names outside their keyword
// positions, matching a contextual lexer's behavior.
func (t Token) IsNameLike() bool {
	switch t.Kind {
	case TokenIdent, TokenHTTPMethod, TokenUIComponent, TokenVisibility:
		return true
	default:
		return false
	}
}

// SyntaxError is a tokenization or grammar-production failure with its
// best-effort source position.
type SyntaxError struct {
	Line    int
	Column  int
	Message string
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at line %d, column %d: %s", e.Line, e.Column, e.Message)
}
