package expr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ParseOption configures Parse.
type ParseOption func(*parseConfig)

type parseConfig struct {
	slots      map[string]bool
	outputName string
}

// WithSlots declares sub-expression slot names that may be called like
// functions with any number of arguments, as in f0(x0, x1).
func WithSlots(names ...string) ParseOption {
	return func(c *parseConfig) {
		for _, n := range names {
			c.slots[n] = true
		}
	}
}

// WithOutputName sets the symbol name given to the bare output expression.
func WithOutputName(name string) ParseOption {
	return func(c *parseConfig) {
		if name != "" {
			c.outputName = name
		}
	}
}

// Parse parses template text into a SymbolTable. It reports the first
// problem found as a *SyntaxError.
func Parse(text string, opts ...ParseOption) (*SymbolTable, error) {
	p, err := newParser(text, opts)
	if err != nil {
		return nil, err
	}

	st := NewSymbolTable()
	for {
		for p.accept(TokenSemicolon) {
		}
		if p.peek().Type == TokenEOF {
			break
		}
		if err := p.statement(st); err != nil {
			return nil, err
		}
		if t := p.peek(); t.Type != TokenSemicolon && t.Type != TokenEOF {
			return nil, p.unexpected(t, "expected ';' or end of input")
		}
	}
	return st, nil
}

// newParser tokenizes text. A lexing failure is reported against the whole
// rune at the failing offset.
func newParser(text string, opts []ParseOption) (*parser, error) {
	cfg := parseConfig{slots: make(map[string]bool), outputName: DefaultOutputName}
	for _, opt := range opts {
		opt(&cfg)
	}
	p := &parser{cfg: cfg, toks: NewLexer(text).Tokens()}
	if last := p.toks[len(p.toks)-1]; last.Type == TokenError {
		tok := ""
		if last.Pos < len(text) {
			_, size := utf8.DecodeRuneInString(text[last.Pos:])
			tok = text[last.Pos : last.Pos+size]
		}
		return nil, &SyntaxError{Pos: last.Pos, Token: tok, Message: last.Value}
	}
	return p, nil
}

// ParseExpr parses a single expression with no statements.
func ParseExpr(text string, opts ...ParseOption) (Node, error) {
	p, err := newParser(text, opts)
	if err != nil {
		return nil, err
	}
	n, err := p.expr()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.Type != TokenEOF {
		return nil, p.unexpected(t, "expected end of input")
	}
	return n, nil
}

type parser struct {
	cfg  parseConfig
	toks []Token
	pos  int
}

func (p *parser) peek() Token { return p.toks[p.pos] }

func (p *parser) peekAt(k int) Token {
	if p.pos+k >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+k]
}

func (p *parser) advance() Token {
	t := p.toks[p.pos]
	if t.Type != TokenEOF {
		p.pos++
	}
	return t
}

func (p *parser) accept(tt TokenType) bool {
	if p.peek().Type == tt {
		p.advance()
		return true
	}
	return false
}

func (p *parser) expect(tt TokenType) (Token, error) {
	t := p.peek()
	if t.Type != tt {
		return t, p.unexpected(t, "expected "+tt.String())
	}
	return p.advance(), nil
}

func (p *parser) unexpected(t Token, msg string) error {
	if t.Type == TokenEOF {
		return &SyntaxError{Pos: t.Pos, Message: "unexpected end of input, " + msg}
	}
	return &SyntaxError{Pos: t.Pos, Token: t.String(), Message: msg}
}

// statement := IDENT '=' (expr | array) | expr
func (p *parser) statement(st *SymbolTable) error {
	start := p.peek()
	if start.Type == TokenIdent && p.peekAt(1).Type == TokenAssign {
		p.advance()
		p.advance()
		if p.peek().Type == TokenLBracket {
			vals, err := p.array()
			if err != nil {
				return err
			}
			return withPos(st.DefineParameters(start.Value, vals), start.Pos)
		}
		n, err := p.expr()
		if err != nil {
			return err
		}
		return withPos(st.Define(start.Value, n), start.Pos)
	}

	n, err := p.expr()
	if err != nil {
		return err
	}
	if st.output != "" {
		return &SyntaxError{Pos: start.Pos, Token: start.String(), Message: "more than one bare output expression"}
	}
	if err := withPos(st.Define(p.cfg.outputName, n), start.Pos); err != nil {
		return err
	}
	st.output = p.cfg.outputName
	return nil
}

func withPos(err error, pos int) error {
	var se *SyntaxError
	if errors.As(err, &se) {
		se.Pos = pos
	}
	return err
}

// array := '[' [signed (',' signed)*] ']'
func (p *parser) array() ([]float64, error) {
	if _, err := p.expect(TokenLBracket); err != nil {
		return nil, err
	}
	vals := []float64{}
	if p.accept(TokenRBracket) {
		return vals, nil
	}
	for {
		neg := false
		if p.accept(TokenMinus) {
			neg = true
		} else {
			p.accept(TokenPlus)
		}
		t, err := p.expect(TokenNumber)
		if err != nil {
			return nil, err
		}
		v, err := p.number(t)
		if err != nil {
			return nil, err
		}
		if neg {
			v = -v
		}
		vals = append(vals, v)
		if p.accept(TokenRBracket) {
			return vals, nil
		}
		if _, err := p.expect(TokenComma); err != nil {
			return nil, err
		}
	}
}

// expr := term (('+' | '-') term)*
func (p *parser) expr() (Node, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}
	for {
		var op Op
		switch p.peek().Type {
		case TokenPlus:
			op = OpAdd
		case TokenMinus:
			op = OpSub
		default:
			return left, nil
		}
		p.advance()
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		left = Bin(op, left, right)
	}
}

// term := power (('*' | '/') power)*
func (p *parser) term() (Node, error) {
	left, err := p.power()
	if err != nil {
		return nil, err
	}
	for {
		var op Op
		switch p.peek().Type {
		case TokenStar:
			op = OpMul
		case TokenSlash:
			op = OpDiv
		default:
			return left, nil
		}
		p.advance()
		right, err := p.power()
		if err != nil {
			return nil, err
		}
		left = Bin(op, left, right)
	}
}

// power := unary ['^' power]
func (p *parser) power() (Node, error) {
	base, err := p.unary()
	if err != nil {
		return nil, err
	}
	if !p.accept(TokenCaret) {
		return base, nil
	}
	exp, err := p.power()
	if err != nil {
		return nil, err
	}
	return Bin(OpPow, base, exp), nil
}

// unary := ('-' | '+') unary | primary
//
// A minus directly followed by a number literal folds into a negative
// literal so that printed trees parse back unchanged.
func (p *parser) unary() (Node, error) {
	switch p.peek().Type {
	case TokenMinus:
		p.advance()
		if t := p.peek(); t.Type == TokenNumber {
			p.advance()
			v, err := p.number(t)
			if err != nil {
				return nil, err
			}
			return Num(-v), nil
		}
		x, err := p.unary()
		if err != nil {
			return nil, err
		}
		return Neg(x), nil
	case TokenPlus:
		p.advance()
		return p.unary()
	}
	return p.primary()
}

// primary := NUMBER | PLACEHOLDER | IDENT ['[' INT ']' | '(' args ')'] | '(' expr ')'
func (p *parser) primary() (Node, error) {
	t := p.peek()
	switch t.Type {
	case TokenNumber:
		p.advance()
		v, err := p.number(t)
		if err != nil {
			return nil, err
		}
		return Num(v), nil

	case TokenPlaceholder:
		p.advance()
		idx, err := strconv.Atoi(t.Value)
		if err != nil {
			return nil, &SyntaxError{Pos: t.Pos, Token: t.String(), Message: "placeholder index is not an integer"}
		}
		return &Placeholder{Index: idx}, nil

	case TokenIdent:
		p.advance()
		switch p.peek().Type {
		case TokenLBracket:
			return p.paramRef(t)
		case TokenLParen:
			return p.call(t)
		}
		return Var(t.Value), nil

	case TokenLParen:
		p.advance()
		n, err := p.expr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenRParen); err != nil {
			return nil, err
		}
		return n, nil
	}
	return nil, p.unexpected(t, "expected an operand")
}

func (p *parser) paramRef(group Token) (Node, error) {
	p.advance()
	t, err := p.expect(TokenNumber)
	if err != nil {
		return nil, err
	}
	idx, err := strconv.Atoi(t.Value)
	if err != nil {
		return nil, &SyntaxError{Pos: t.Pos, Token: t.Value, Message: fmt.Sprintf("index of %s must be an integer literal", group.Value)}
	}
	if _, err := p.expect(TokenRBracket); err != nil {
		return nil, err
	}
	return &ParamRef{Group: group.Value, Index: idx}, nil
}

func (p *parser) call(fn Token) (Node, error) {
	builtin := IsBuiltin(fn.Value)
	if !builtin && !p.cfg.slots[fn.Value] {
		return nil, &SyntaxError{Pos: fn.Pos, Token: fn.Value, Message: fmt.Sprintf("unknown function, want a slot or one of %s", strings.Join(Builtins(), ", "))}
	}
	p.advance()

	var args []Node
	if !p.accept(TokenRParen) {
		for {
			a, err := p.expr()
			if err != nil {
				return nil, err
			}
			args = append(args, a)
			if p.accept(TokenRParen) {
				break
			}
			if _, err := p.expect(TokenComma); err != nil {
				return nil, err
			}
		}
	}
	if builtin && len(args) != 1 {
		return nil, &SyntaxError{Pos: fn.Pos, Token: fn.Value, Message: fmt.Sprintf("function takes 1 argument, got %d", len(args))}
	}
	return &Call{Func: fn.Value, Args: args}, nil
}

func (p *parser) number(t Token) (float64, error) {
	v, err := strconv.ParseFloat(t.Value, 64)
	if err != nil {
		return 0, &SyntaxError{Pos: t.Pos, Token: t.Value, Message: "number out of range"}
	}
	return v, nil
}
