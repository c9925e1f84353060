package expr

import "fmt"

// TokenType identifies the lexical class of a Token.
type TokenType int

const (
	TokenError TokenType = iota
	TokenEOF
	TokenNumber
	TokenIdent
	TokenPlaceholder // #3, Value holds the digits
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenCaret
	TokenLParen
	TokenRParen
	TokenLBracket
	TokenRBracket
	TokenComma
	TokenSemicolon
	TokenAssign
)

var tokenNames = map[TokenType]string{
	TokenError:       "error",
	TokenEOF:         "end of input",
	TokenNumber:      "number",
	TokenIdent:       "identifier",
	TokenPlaceholder: "placeholder",
	TokenPlus:        "'+'",
	TokenMinus:       "'-'",
	TokenStar:        "'*'",
	TokenSlash:       "'/'",
	TokenCaret:       "'^'",
	TokenLParen:      "'('",
	TokenRParen:      "')'",
	TokenLBracket:    "'['",
	TokenRBracket:    "']'",
	TokenComma:       "','",
	TokenSemicolon:   "';'",
	TokenAssign:      "'='",
}

func (t TokenType) String() string {
	if s, ok := tokenNames[t]; ok {
		return s
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

var symbols = map[rune]TokenType{
	'+': TokenPlus,
	'-': TokenMinus,
	'*': TokenStar,
	'/': TokenSlash,
	'^': TokenCaret,
	'(': TokenLParen,
	')': TokenRParen,
	'[': TokenLBracket,
	']': TokenRBracket,
	',': TokenComma,
	';': TokenSemicolon,
	'=': TokenAssign,
}

// Token is a single lexeme with its byte offset in the source.
type Token struct {
	Type  TokenType
	Value string
	Pos   int
}

func (t Token) String() string {
	switch t.Type {
	case TokenEOF:
		return "EOF"
	case TokenPlaceholder:
		return "#" + t.Value
	}
	return t.Value
}
