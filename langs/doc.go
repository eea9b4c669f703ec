// Package langs defines the built-in script types.
//
// Each [Type] pairs a [lang.Definition] with the [runner.Config] of its
// interpreter:
//
//	sh, bash        shell words, name=value declarations
//	python, py      Python literals, snake_case declarations
//	node, js        JavaScript literals, camelCase const declarations
//
// [Register] defines all of them in a [registry.Registry] and makes sh the
// default.
package langs
