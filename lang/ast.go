package lang

import (
	"strconv"
	"strings"
)

// Node is one vertex of a parsed expression tree. The set of node types is
// closed: *Literal, *Identifier, *Unary, *Binary, *Ternary and *Call.
type Node interface {
	// Pos returns the position of the node's first token.
	Pos() Position
	// String renders the node as fully parenthesized source text.
	String() string

	node()
}

// Literal is a constant value written in the source.
type Literal struct {
	Value Value
	At    Position
}

// Identifier references a parameter by case-sensitive name.
type Identifier struct {
	Name string
	At   Position
}

// Unary applies a prefix operator: -, +, ! or ~.
type Unary struct {
	Op      Op
	Operand Node
	At      Position
}

// Binary applies an infix operator.
type Binary struct {
	Op    Op
	Left  Node
	Right Node
	At    Position
}

// Ternary selects Then or Else by the boolean value of Cond.
type Ternary struct {
	Cond Node
	Then Node
	Else Node
	At   Position
}

// Call invokes a built-in function. Name keeps the spelling of the source.
type Call struct {
	Name string
	Args []Node
	At   Position
}

func (n *Literal) Pos() Position    { return n.At }
func (n *Identifier) Pos() Position { return n.At }
func (n *Unary) Pos() Position      { return n.At }
func (n *Binary) Pos() Position     { return n.At }
func (n *Ternary) Pos() Position    { return n.At }
func (n *Call) Pos() Position       { return n.At }

func (*Literal) node()    {}
func (*Identifier) node() {}
func (*Unary) node()      {}
func (*Binary) node()     {}
func (*Ternary) node()    {}
func (*Call) node()       {}

func (n *Literal) String() string {
	if n.Value.Kind() == KindString {
		// Literals cannot escape their delimiter; content holding a single
		// quote was necessarily written with double quotes.
		if s := n.Value.String(); strings.ContainsRune(s, '\'') {
			return "\"" + s + "\""
		}

		return "'" + n.Value.String() + "'"
	}

	if n.Value.IsNull() {
		return "null"
	}

	return n.Value.String()
}

func (n *Identifier) String() string { return identText(n.Name) }

// identText returns name as written in source, bracketed when it is not a
// plain identifier or would read as a keyword.
func identText(name string) string {
	switch strings.ToLower(name) {
	case "true", "false", "null":
		return "[" + name + "]"
	}

	for i, r := range name {
		if !(isIdentPart(r) && (i > 0 || isIdentStart(r))) {
			return "[" + name + "]"
		}
	}

	return name
}

func (n *Unary) String() string {
	return "(" + n.Op.String() + n.Operand.String() + ")"
}

func (n *Binary) String() string {
	return "(" + n.Left.String() + " " + n.Op.String() + " " +
		n.Right.String() + ")"
}

func (n *Ternary) String() string {
	return "(" + n.Cond.String() + " ? " + n.Then.String() + " : " +
		n.Else.String() + ")"
}

func (n *Call) String() string {
	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		args[i] = a.String()
	}

	return identText(n.Name) + "(" + strings.Join(args, ", ") + ")"
}

// Op identifies a unary or binary operator.
type Op int

const (
	OpInvalid Op = iota

	OpOr     // ||
	OpAnd    // &&
	OpBitOr  // |
	OpBitXor // ^
	OpBitAnd // &
	OpEq     // ==
	OpNe     // !=
	OpLt     // <
	OpLe     // <=
	OpGt     // >
	OpGe     // >=
	OpShl    // <<
	OpShr    // >>
	OpAdd    // +
	OpSub    // -
	OpMul    // *
	OpDiv    // /
	OpMod    // %
	OpPow    // **

	OpNeg    // unary -
	OpPlus   // unary +
	OpNot    // !
	OpBitNot // ~
)

var opText = map[Op]string{
	OpOr: "||", OpAnd: "&&",
	OpBitOr: "|", OpBitXor: "^", OpBitAnd: "&",
	OpEq: "==", OpNe: "!=",
	OpLt: "<", OpLe: "<=", OpGt: ">", OpGe: ">=",
	OpShl: "<<", OpShr: ">>",
	OpAdd: "+", OpSub: "-",
	OpMul: "*", OpDiv: "/", OpMod: "%",
	OpPow: "**",
	OpNeg: "-", OpPlus: "+", OpNot: "!", OpBitNot: "~",
}

// String returns the operator's source spelling.
func (o Op) String() string {
	if s, ok := opText[o]; ok {
		return s
	}

	return "op(" + strconv.Itoa(int(o)) + ")"
}

// Expression is a parsed, immutable expression. It holds no reference to any
// parameter environment and may be evaluated concurrently.
type Expression struct {
	source string
	root   Node
}

// Source returns the text the expression was parsed from.
func (e *Expression) Source() string { return e.source }

// Root returns the root node of the syntax tree. Callers must not modify it.
func (e *Expression) Root() Node { return e.root }

// String renders the expression fully parenthesized.
func (e *Expression) String() string { return e.root.String() }
