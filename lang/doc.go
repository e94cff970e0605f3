// Package lang implements the expression language of report templates and
// the placeholder renderer that drives it.
//
// # Expressions
//
// An expression is a single side-effect-free formula evaluated against a set
// of named parameters:
//
//	ROUND(Total * (1 + TaxRate), 2)
//	IF(Qty > 10, 'bulk', 'retail')
//	CustomerName + ' (' + TOSTRING(Id) + ')'
//	Score >= 90 ? 'A' : Score >= 80 ? 'B' : 'C'
//
// Operators, loosest first:
//
//	?:                  conditional (right-associative)
//	||                  logical or
//	&&                  logical and
//	|  ^  &             bitwise or, xor, and
//	==  !=              equality
//	<  <=  >  >=        relational
//	<<  >>              shift
//	+  -                additive (+ concatenates when either side is a string)
//	*  /  %             multiplicative
//	**                  power (right-associative)
//	-  +  !  ~          unary prefix
//
// Literals are numbers (42, 3.5, .5, 1e3), strings in single or double
// quotes without escapes, and the case-insensitive keywords true, false and
// null. Parameter names are case-sensitive; a name containing spaces is
// written in brackets, as in [Unit Price]. Function names are matched
// case-insensitively; see [Functions] for the library.
//
// # Values
//
// A [Value] is one of null, Integer (int64), Real (float64), Decimal (exact
// base-10 with 34 significant digits), Boolean, String or DateTime.
// Arithmetic promotes both operands along Integer < Real < Decimal and is
// carried out in Decimal precision, so 0.1 + 0.2 is exactly 0.3. Dividing two
// Integers yields the truncated exact quotient: 7 / 2 is 3 and -7 / 2 is -3.
// The power operator is computed in floating point and truncated when both
// operands are Integers.
//
// # Templates
//
// [Render] replaces each {{ expression }} span of a template with the text
// of its value. A placeholder that fails to parse or evaluate is left
// verbatim, so one bad placeholder never spoils the rest of the document.
// [RenderReport] additionally returns the outcome of every placeholder.
//
// Parsed expressions are immutable and safe for concurrent use. [Evaluate]
// and [Render] cache them by source text.
package lang
