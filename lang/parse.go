package lang

import (
	"context"
	"io"
	"log/slog"
	"strconv"

	"github.com/klauspost/readahead"
)

// binaryLevel lists binary operators by precedence, loosest first.
// Every level associates left except exponentiation.
var binaryLevel = []map[string]Op{
	{"||": OpOr},
	{"&&": OpAnd},
	{"|": OpBitOr},
	{"^": OpBitXor},
	{"&": OpBitAnd},
	{"==": OpEq, "!=": OpNe},
	{"<": OpLt, "<=": OpLe, ">": OpGt, ">=": OpGe},
	{"<<": OpShl, ">>": OpShr},
	{"+": OpAdd, "-": OpSub},
	{"*": OpMul, "/": OpDiv, "%": OpMod},
	{"**": OpPow},
}

// powLevel is the index of exponentiation in binaryLevel.
var powLevel = len(binaryLevel) - 1

var unaryOps = map[string]Op{
	"-": OpNeg,
	"+": OpPlus,
	"!": OpNot,
	"~": OpBitNot,
}

// Parse parses a single expression.
//
// Malformed input fails with a *ParseError carrying the position of the
// offending token.
func Parse(text string, opts ...Option) (*Expression, error) {
	o := makeOptions(opts...)

	return parse(o.context(), text, o)
}

// ParseReader parses a single expression read from r.
func ParseReader(r io.Reader, opts ...Option) (*Expression, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err)
	}

	return Parse(string(data), opts...)
}

func parse(ctx context.Context, text string, o options) (*Expression, error) {
	p := &parser{lex: newLexer(text)}

	if err := p.advance(); err != nil {
		return nil, err
	}

	root, err := p.parseTernary()
	if err != nil {
		return nil, err
	}

	if p.tok.Type != tokenEOF {
		return nil, p.unexpected()
	}

	o.logger.TraceContext(ctx, "parse complete",
		slog.String("source", text),
		slog.String("tree", root.String()))

	return &Expression{source: text, root: root}, nil
}

// parser is a recursive descent parser with one token of lookahead.
type parser struct {
	lex *lexer
	tok token
}

func (p *parser) advance() error {
	tok, err := p.lex.next()
	if err != nil {
		return err
	}

	p.tok = tok

	return nil
}

func (p *parser) errorf(pos Position, msg string) *ParseError {
	return p.lex.errorf(pos, msg)
}

func (p *parser) unexpected() *ParseError {
	if p.tok.Type == tokenEOF {
		return p.errorf(p.tok.Pos, "unexpected end of expression")
	}

	return p.errorf(p.tok.Pos, "unexpected "+p.tok.Type.String()+" "+
		strconv.Quote(p.tok.Text))
}

// parseTernary parses: binary [ '?' ternary ':' ternary ].
func (p *parser) parseTernary() (Node, error) {
	cond, err := p.parseBinary(0)
	if err != nil {
		return nil, err
	}

	if p.tok.Type != tokenQuestion {
		return cond, nil
	}

	at := p.tok.Pos

	if err := p.advance(); err != nil {
		return nil, err
	}

	then, err := p.parseTernary()
	if err != nil {
		return nil, err
	}

	if p.tok.Type != tokenColon {
		return nil, p.errorf(p.tok.Pos, "expected ':' in conditional expression")
	}

	if err := p.advance(); err != nil {
		return nil, err
	}

	els, err := p.parseTernary()
	if err != nil {
		return nil, err
	}

	return &Ternary{Cond: cond, Then: then, Else: els, At: at}, nil
}

// parseBinary parses operators at binaryLevel[level] and tighter.
func (p *parser) parseBinary(level int) (Node, error) {
	if level > powLevel {
		return p.parseUnary()
	}

	left, err := p.parseBinary(level + 1)
	if err != nil {
		return nil, err
	}

	for p.tok.Type == tokenOperator {
		op, ok := binaryLevel[level][p.tok.Text]
		if !ok {
			break
		}

		at := p.tok.Pos

		if err := p.advance(); err != nil {
			return nil, err
		}

		var right Node

		if level == powLevel {
			// Right-associative: 2 ** 3 ** 2 is 2 ** (3 ** 2).
			right, err = p.parseBinary(level)
		} else {
			right, err = p.parseBinary(level + 1)
		}

		if err != nil {
			return nil, err
		}

		left = &Binary{Op: op, Left: left, Right: right, At: at}

		if level == powLevel {
			break
		}
	}

	return left, nil
}

// parseUnary parses: ( '-' | '+' | '!' | '~' ) unary | primary.
func (p *parser) parseUnary() (Node, error) {
	if p.tok.Type == tokenOperator {
		if op, ok := unaryOps[p.tok.Text]; ok {
			at := p.tok.Pos

			if err := p.advance(); err != nil {
				return nil, err
			}

			if lit, ok := p.negatedMinInt(op, at); ok {
				return lit, p.advance()
			}

			operand, err := p.parseUnary()
			if err != nil {
				return nil, err
			}

			return &Unary{Op: op, Operand: operand, At: at}, nil
		}
	}

	return p.parsePrimary()
}

// negatedMinInt folds '-' into an integer literal that only fits in 64 bits
// when negated, so that -9223372036854775808 stays an Integer.
func (p *parser) negatedMinInt(op Op, at Position) (Node, bool) {
	if op != OpNeg || p.tok.Type != tokenInteger {
		return nil, false
	}

	if _, err := strconv.ParseInt(p.tok.Text, 10, 64); err == nil {
		return nil, false
	}

	i, err := strconv.ParseInt("-"+p.tok.Text, 10, 64)
	if err != nil {
		return nil, false
	}

	return &Literal{Value: NewInteger(i), At: at}, true
}

// parsePrimary parses literals, identifiers, calls and parenthesized
// expressions.
func (p *parser) parsePrimary() (Node, error) {
	tok := p.tok

	switch tok.Type {
	case tokenInteger, tokenReal:
		if err := p.advance(); err != nil {
			return nil, err
		}

		v, err := numberLiteral(tok)
		if err != nil {
			return nil, err
		}

		return &Literal{Value: v, At: tok.Pos}, nil

	case tokenString:
		if err := p.advance(); err != nil {
			return nil, err
		}

		return &Literal{Value: NewString(tok.Text), At: tok.Pos}, nil

	case tokenTrue, tokenFalse:
		if err := p.advance(); err != nil {
			return nil, err
		}

		return &Literal{Value: NewBoolean(tok.Type == tokenTrue), At: tok.Pos}, nil

	case tokenNull:
		if err := p.advance(); err != nil {
			return nil, err
		}

		return &Literal{Value: Null(), At: tok.Pos}, nil

	case tokenIdentifier:
		if err := p.advance(); err != nil {
			return nil, err
		}

		if p.tok.Type == tokenLParen {
			return p.parseCall(tok)
		}

		return &Identifier{Name: tok.Text, At: tok.Pos}, nil

	case tokenLParen:
		if err := p.advance(); err != nil {
			return nil, err
		}

		inner, err := p.parseTernary()
		if err != nil {
			return nil, err
		}

		if p.tok.Type != tokenRParen {
			return nil, p.errorf(p.tok.Pos, "expected ')' to close '(' at "+
				tok.Pos.String())
		}

		if err := p.advance(); err != nil {
			return nil, err
		}

		return inner, nil
	}

	return nil, p.unexpected()
}

// parseCall parses the argument list of a call whose name was just consumed.
// The current token is the opening parenthesis.
func (p *parser) parseCall(name token) (Node, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}

	call := &Call{Name: name.Text, At: name.Pos}

	if p.tok.Type == tokenRParen {
		return call, p.advance()
	}

	for {
		arg, err := p.parseTernary()
		if err != nil {
			return nil, err
		}

		call.Args = append(call.Args, arg)

		switch p.tok.Type {
		case tokenComma:
			if err := p.advance(); err != nil {
				return nil, err
			}

		case tokenRParen:
			return call, p.advance()

		default:
			return nil, p.errorf(p.tok.Pos, "expected ',' or ')' in call to "+
				name.Text)
		}
	}
}

// numberLiteral converts a numeric token to an Integer when it has no
// fraction or exponent and fits in 64 bits, and to a Real otherwise.
func numberLiteral(tok token) (Value, error) {
	if tok.Type == tokenInteger {
		if i, err := strconv.ParseInt(tok.Text, 10, 64); err == nil {
			return NewInteger(i), nil
		}
	}

	f, err := strconv.ParseFloat(tok.Text, 64)
	if err != nil && !isRangeErr(err) {
		return Value{}, &ParseError{
			Pos: tok.Pos, Msg: "invalid numeric literal " + quote(tok.Text),
		}
	}

	return NewReal(f), nil
}

func isRangeErr(err error) bool {
	ne, ok := err.(*strconv.NumError)

	return ok && ne.Err == strconv.ErrRange
}
