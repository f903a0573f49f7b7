// Package template renders declarative data templates into values.
//
// A template is a tree of objects, arrays and scalars. Object keys may carry
// a rule after a '|' that controls how the value under the key is
// generated:
//
//	{
//	  "users|2-5": [{
//	    "id|+1": 100,
//	    "name": "@FIRST @LAST",
//	    "score|1-100.2": 0,
//	    "active|1": true,
//	    "tags|1-3": ["@WORD"],
//	    "stars|1-5": "*"
//	  }]
//	}
//
// Arrays take a count (the example elements are cycled), numbers a range or
// an increment, booleans a probability, and strings a repeat count. Strings
// containing @Name placeholders are expanded by the placeholder package.
// Increments count per key path within one Render call, so all users above
// share one id sequence that starts over on the next call.
//
// Objects come back as *Map, which keeps the key order of the template and
// encodes to ordered JSON and YAML. Decode reads JSON or YAML templates
// into the same form.
package template
