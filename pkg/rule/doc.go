// Package rule parses the generation rules embedded in template keys.
//
// A ruled key has the form "name" or "name|suffix". The suffix grammar is
// deliberately small:
//
//	+step          increment, e.g. "id|+1"
//	min-max.d      decimal range, e.g. "score|1-100.2"
//	min-max.d1-d2  decimal range with a random number of places, e.g. "price|1-10.1-3"
//	min-max        range, e.g. "tags|2-5" or "temp|-10-40"
//	n              exact count, e.g. "items|3"
//
// Forms are tried in that order and the first match wins. Parse only
// produces syntactic rules (Count, Range, Increment). The template engine
// calls ForShape to specialize a rule for the value it governs, which turns
// a Count into a Repeat for strings, a Probability for booleans, and so on.
//
// Basic usage:
//
//	name, r, err := rule.Parse("tags|2-5")
//	// name == "tags", r == rule.IntRange(2, 5)
//
//	r, ok := rule.ForShape(r, rule.ShapeArray)
//	// r == rule.Count{Min: 2, Max: 5}
package rule
