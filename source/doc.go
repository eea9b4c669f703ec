// Package source parses textual templates.
//
// A template is literal text with placeholders:
//
//	#!/usr/bin/env python
//	print({{ greeting + ", " + name }})
//
// Each placeholder holds an expr-lang expression evaluated against the
// values given to [Source.Values]. A placeholder ends at the first closing
// delimiter; use [WithDelims] when an expression must contain it.
// Expressions may also call
//
//	raw(x)        insert x without conversion
//	include(path) insert the contents of a file
//	symbol(s)     a symbol named s
//	env(name)     an environment variable
package source
