// Package mathparser implements a small formula language over exact rational
// numbers.
//
// Expressions are written the way you would type them in a chat message:
// "2*x + 1", "f(3, y) % 7", "if x < 0 then -x else x". Integer literals and
// the operators + - * / % work on arbitrary-precision rationals, so 1/3 + 1/3
// is exactly 2/3 and nothing ever overflows or rounds.
//
// A command is an expression or a single comparison of two expressions. An
// equation like "f(x, y) = x*y + 1" can be turned into a function definition
// with DefineFunc and bound into a Context, after which other expressions can
// call it. Function bodies see only their own parameters.
//
// Every node of a parsed tree records the byte range of the source it came
// from, and every error from parsing or evaluation can be converted with
// AsMathError into a message for users along with the range to point at.
package mathparser
