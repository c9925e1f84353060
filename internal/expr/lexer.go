package expr

import (
	"unicode"
	"unicode/utf8"
)

const eof = -1

// Lexer splits template text into tokens using the state-function-free
// variant of the scanner described in "Lexical Scanning in Go".
type Lexer struct {
	input   string
	start   int // start of the current token
	current int // current read offset
	width   int // width of the last rune read
}

// NewLexer returns a lexer over input. Tokens are produced by Next.
func NewLexer(input string) *Lexer {
	return &Lexer{input: input}
}

// Next returns the next token. Once the input is exhausted every call
// returns a TokenEOF.
func (l *Lexer) Next() Token {
	l.skipWhitespace()

	ch := l.nextRune()
	switch {
	case ch == eof:
		return Token{Type: TokenEOF, Pos: l.current}
	case ch == '#':
		l.ignore()
		if !l.acceptAll(isDigit) {
			return l.errorf("placeholder must be '#' followed by an integer")
		}
		return l.newToken(TokenPlaceholder)
	case isDigit(ch) || ch == '.':
		l.backup()
		return l.scanNumber()
	case isIdentStart(ch):
		l.acceptAll(isIdentPart)
		return l.newToken(TokenIdent)
	}

	if tt, ok := symbols[ch]; ok {
		return l.newToken(tt)
	}
	return l.errorf("unexpected character")
}

// Tokens drains the lexer. The final token is either TokenEOF or the first
// TokenError encountered.
func (l *Lexer) Tokens() []Token {
	var toks []Token
	for {
		t := l.Next()
		toks = append(toks, t)
		if t.Type == TokenEOF || t.Type == TokenError {
			return toks
		}
	}
}

func (l *Lexer) scanNumber() Token {
	digits := l.acceptAll(isDigit)
	if l.acceptRune('.') {
		if l.acceptAll(isDigit) {
			digits = true
		}
	}
	if !digits {
		return l.errorf("malformed number")
	}
	if l.acceptRune('e') || l.acceptRune('E') {
		if !l.acceptRune('+') {
			l.acceptRune('-')
		}
		if !l.acceptAll(isDigit) {
			return l.errorf("malformed exponent")
		}
	}
	if r := l.peek(); isIdentStart(r) || r == '.' {
		l.nextRune()
		return l.errorf("malformed number")
	}
	return l.newToken(TokenNumber)
}

func (l *Lexer) newToken(tt TokenType) Token {
	t := Token{Type: tt, Value: l.input[l.start:l.current], Pos: l.start}
	if tt == TokenPlaceholder {
		t.Pos = l.start - 1
	}
	l.start = l.current
	return t
}

func (l *Lexer) errorf(message string) Token {
	t := Token{Type: TokenError, Value: message, Pos: l.start}
	l.start = l.current
	return t
}

func (l *Lexer) nextRune() rune {
	if l.current >= len(l.input) {
		l.width = 0
		return eof
	}
	r, w := utf8.DecodeRuneInString(l.input[l.current:])
	l.width = w
	l.current += w
	return r
}

func (l *Lexer) peek() rune {
	r := l.nextRune()
	l.backup()
	return r
}

func (l *Lexer) backup() {
	l.current -= l.width
}

func (l *Lexer) ignore() {
	l.start = l.current
}

func (l *Lexer) acceptRune(r rune) bool {
	if l.nextRune() == r {
		return true
	}
	l.backup()
	return false
}

func (l *Lexer) acceptAll(isValid func(rune) bool) bool {
	var ok bool
	for isValid(l.nextRune()) {
		ok = true
	}
	l.backup()
	return ok
}

func (l *Lexer) skipWhitespace() {
	l.acceptAll(unicode.IsSpace)
	l.ignore()
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isIdentStart(r rune) bool { return r == '_' || unicode.IsLetter(r) }

func isIdentPart(r rune) bool { return isIdentStart(r) || unicode.IsDigit(r) }
