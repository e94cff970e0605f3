package lang

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// tokenType classifies lexical tokens.
type tokenType int

const (
	tokenEOF tokenType = iota
	tokenInteger
	tokenReal
	tokenString
	tokenIdentifier
	tokenTrue
	tokenFalse
	tokenNull
	tokenOperator
	tokenLParen
	tokenRParen
	tokenComma
	tokenQuestion
	tokenColon
)

func (t tokenType) String() string {
	switch t {
	case tokenEOF:
		return "end of expression"

	case tokenInteger, tokenReal:
		return "number"

	case tokenString:
		return "string"

	case tokenIdentifier:
		return "identifier"

	case tokenTrue, tokenFalse:
		return "boolean"

	case tokenNull:
		return "null"

	case tokenOperator:
		return "operator"

	case tokenLParen:
		return "'('"

	case tokenRParen:
		return "')'"

	case tokenComma:
		return "','"

	case tokenQuestion:
		return "'?'"

	case tokenColon:
		return "':'"

	default:
		return "token"
	}
}

// token is one lexeme. Text holds the literal characters for numbers and
// operators, the unquoted content for strings, and the name for identifiers.
type token struct {
	Type tokenType
	Text string
	Pos  Position
}

// operators lists every operator spelling, longest first so that "**" wins
// over "*" and "<=" over "<".
var operators = []string{
	"**", "<<", ">>", "<=", ">=", "==", "!=", "&&", "||",
	"+", "-", "*", "/", "%", "<", ">", "!", "~", "&", "|", "^",
}

// lexer scans expression source into tokens.
type lexer struct {
	input string
	pos   int
	line  int
	col   int
}

func newLexer(input string) *lexer {
	return &lexer{input: input, line: 1, col: 1}
}

func (l *lexer) eof() bool { return l.pos >= len(l.input) }

func (l *lexer) peek() rune {
	if l.eof() {
		return 0
	}

	r, _ := utf8.DecodeRuneInString(l.input[l.pos:])

	return r
}

func (l *lexer) peekAt(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}

	return l.input[l.pos+n]
}

func (l *lexer) advance() rune {
	if l.eof() {
		return 0
	}

	r, size := utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += size

	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}

	return r
}

func (l *lexer) position() Position {
	return Position{Offset: l.pos, Line: l.line, Column: l.col}
}

func (l *lexer) errorf(pos Position, msg string) *ParseError {
	return &ParseError{Pos: pos, Msg: msg, Source: l.input}
}

func (l *lexer) skipWhitespace() {
	for !l.eof() {
		switch l.peek() {
		case ' ', '\t', '\r', '\n':
			l.advance()

		default:
			return
		}
	}
}

// next returns the next token, or a ParseError for malformed input.
func (l *lexer) next() (token, error) {
	l.skipWhitespace()

	pos := l.position()

	if l.eof() {
		return token{Type: tokenEOF, Pos: pos}, nil
	}

	r := l.peek()

	switch {
	case isDigit(r), r == '.' && isDigit(rune(l.peekAt(1))):
		return l.number(pos)

	case r == '\'' || r == '"':
		return l.quoted(pos)

	case r == '[':
		return l.bracketed(pos)

	case isIdentStart(r):
		return l.identifier(pos), nil
	}

	switch r {
	case '(':
		l.advance()

		return token{Type: tokenLParen, Text: "(", Pos: pos}, nil

	case ')':
		l.advance()

		return token{Type: tokenRParen, Text: ")", Pos: pos}, nil

	case ',':
		l.advance()

		return token{Type: tokenComma, Text: ",", Pos: pos}, nil

	case '?':
		l.advance()

		return token{Type: tokenQuestion, Text: "?", Pos: pos}, nil

	case ':':
		l.advance()

		return token{Type: tokenColon, Text: ":", Pos: pos}, nil
	}

	rest := l.input[l.pos:]
	for _, op := range operators {
		if strings.HasPrefix(rest, op) {
			for range len(op) {
				l.advance()
			}

			return token{Type: tokenOperator, Text: op, Pos: pos}, nil
		}
	}

	return token{}, l.errorf(pos, "unexpected character "+quoteRune(r))
}

// number scans digits [ '.' digits ] [ ('e'|'E') ['+'|'-'] digits ].
func (l *lexer) number(pos Position) (token, error) {
	start := l.pos
	typ := tokenInteger

	l.digits()

	if l.peek() == '.' {
		typ = tokenReal

		l.advance()

		if !isDigit(l.peek()) {
			return token{}, l.errorf(pos, "invalid numeric literal "+
				quote(l.input[start:l.pos]))
		}

		l.digits()
	}

	if c := l.peek(); c == 'e' || c == 'E' {
		typ = tokenReal

		l.advance()

		if c := l.peek(); c == '+' || c == '-' {
			l.advance()
		}

		if !isDigit(l.peek()) {
			return token{}, l.errorf(pos, "invalid numeric literal "+
				quote(l.input[start:l.pos]))
		}

		l.digits()
	}

	return token{Type: typ, Text: l.input[start:l.pos], Pos: pos}, nil
}

func (l *lexer) digits() {
	for isDigit(l.peek()) {
		l.advance()
	}
}

// quoted scans a string literal delimited by matching single or double
// quotes. There are no escape sequences.
func (l *lexer) quoted(pos Position) (token, error) {
	q := l.advance()
	start := l.pos

	for !l.eof() {
		if l.peek() == q {
			text := l.input[start:l.pos]
			l.advance()

			return token{Type: tokenString, Text: text, Pos: pos}, nil
		}

		l.advance()
	}

	return token{}, l.errorf(pos, "unterminated string literal")
}

// bracketed scans an identifier written as [any text].
func (l *lexer) bracketed(pos Position) (token, error) {
	l.advance()
	start := l.pos

	for !l.eof() {
		if l.peek() == ']' {
			name := l.input[start:l.pos]
			l.advance()

			if strings.TrimSpace(name) == "" {
				return token{}, l.errorf(pos, "empty bracketed identifier")
			}

			return token{Type: tokenIdentifier, Text: name, Pos: pos}, nil
		}

		l.advance()
	}

	return token{}, l.errorf(pos, "unterminated bracketed identifier")
}

// identifier scans a name and classifies the keywords true, false and null
// (case-insensitive).
func (l *lexer) identifier(pos Position) token {
	start := l.pos

	for !l.eof() && isIdentPart(l.peek()) {
		l.advance()
	}

	text := l.input[start:l.pos]

	switch strings.ToLower(text) {
	case "true":
		return token{Type: tokenTrue, Text: text, Pos: pos}

	case "false":
		return token{Type: tokenFalse, Text: text, Pos: pos}

	case "null":
		return token{Type: tokenNull, Text: text, Pos: pos}
	}

	return token{Type: tokenIdentifier, Text: text, Pos: pos}
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func quote(s string) string { return "\"" + s + "\"" }

func quoteRune(r rune) string { return "'" + string(r) + "'" }
