// Package placeholder expands @Name(args) placeholders into generated
// values.
//
// A placeholder is '@' followed by a name of letters, digits and
// underscores, optionally followed by a parenthesised argument list:
//
//	@FIRST @LAST lives in @CITY
//	@NATURAL(1, 100)
//	@PICK("red, green", blue)
//	@UPPER(@WORD)
//
// Names are case-insensitive. Quoted arguments are taken literally; unquoted
// arguments are expanded first, so placeholders nest. "\@" is a literal '@'.
//
// A name is looked up among generators added with Register or
// RegisterExpr, then the built-in generators, and finally the categories of
// the locale data pool, where a random candidate is picked. This makes any
// data category usable as a placeholder: @CITY, @COMPANY, @PROFESSION.
//
// Generators draw randomness from the *rng.Rand in the Env, so a seeded
// source gives reproducible output.
package placeholder
