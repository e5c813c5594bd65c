// Package symbolic differentiates and simplifies scalar algebraic expressions.
//
// An expression is a tree of constants, named constants like pi, monomials of
// one variable such as 3 x^2, the four binary arithmetic operations, and the
// functions sin and cos. Derive computes a partial derivative and normalizes
// the result with Simplify, which rewrites a tree until no rule applies.
//
// Expressions can be built directly from the variant types or parsed from
// text like "3 x^2 + sin(y) * 2 y". The syntax follows what you'd write in
// your notes: "2 x" is a multiplication, and "-x^2" is "-(x^2)". A Context
// evaluates an expression at a point with arbitrary precision.
package symbolic
