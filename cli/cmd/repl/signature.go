package repl

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
)

// signature describes the parameters of a function callable from
// expressions.
type signature struct {
	params []string
	doc    string
}

// functions are the expr builtins most useful in templates plus the
// functions added for templates.
var functions = map[string]signature{
	"raw":     {[]string{"value"}, "insert value verbatim"},
	"include": {[]string{"path"}, "insert the content of a file"},
	"symbol":  {[]string{"name"}, "refer to a script identifier"},
	"env":     {[]string{"name"}, "value of an environment variable"},

	"len":       {[]string{"v"}, ""},
	"all":       {[]string{"array", "predicate"}, ""},
	"any":       {[]string{"array", "predicate"}, ""},
	"one":       {[]string{"array", "predicate"}, ""},
	"none":      {[]string{"array", "predicate"}, ""},
	"map":       {[]string{"array", "mapper"}, ""},
	"filter":    {[]string{"array", "predicate"}, ""},
	"find":      {[]string{"array", "predicate"}, ""},
	"findIndex": {[]string{"array", "predicate"}, ""},
	"groupBy":   {[]string{"array", "mapper"}, ""},
	"sortBy":    {[]string{"array", "mapper"}, ""},
	"count":     {[]string{"array", "predicate"}, ""},
	"sum":       {[]string{"array"}, ""},
	"min":       {[]string{"array"}, ""},
	"max":       {[]string{"array"}, ""},
	"keys":      {[]string{"map"}, ""},
	"values":    {[]string{"map"}, ""},
	"join":      {[]string{"array", "separator"}, ""},
	"split":     {[]string{"string", "separator"}, ""},
	"replace":   {[]string{"string", "old", "new"}, ""},
	"trim":      {[]string{"string"}, ""},
	"upper":     {[]string{"string"}, ""},
	"lower":     {[]string{"string"}, ""},
	"hasPrefix": {[]string{"string", "prefix"}, ""},
	"hasSuffix": {[]string{"string", "suffix"}, ""},
	"int":       {[]string{"v"}, ""},
	"float":     {[]string{"v"}, ""},
	"string":    {[]string{"v"}, ""},
	"toJSON":    {[]string{"v"}, ""},
	"fromJSON":  {[]string{"string"}, ""},
	"type":      {[]string{"v"}, ""},
}

var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
)

// functionCall is the innermost call enclosing the cursor.
type functionCall struct {
	name     string
	argIndex int
	inCall   bool
}

// detectFunctionCall finds the call whose argument list contains cursor and
// the index of the argument being typed.
func detectFunctionCall(input string, cursor int) functionCall {
	cursor = min(cursor, len(input))

	open := -1

	for i, depth := cursor, 0; i > 0 && open < 0; {
		r, size := utf8.DecodeLastRuneInString(input[:i])
		i -= size

		switch r {
		case ')':
			depth++
		case '(':
			if depth == 0 {
				open = i
			}

			depth--
		}
	}

	if open < 0 {
		return functionCall{}
	}

	start := open
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if !isIdentRune(r) && r != '.' {
			break
		}

		start -= size
	}

	name := input[start:open]
	if name == "" {
		return functionCall{}
	}

	call := functionCall{name: name, inCall: true}

	depth := 0
	for _, r := range input[open+1 : cursor] {
		switch r {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				call.argIndex++
			}
		}
	}

	return call
}

func isIdentRune(r rune) bool {
	return r == '_' || r == '$' ||
		(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// renderSignatureHint renders the signature of the function called name
// with the parameter at index arg highlighted. It is empty for unknown
// functions.
func renderSignatureHint(name string, arg int) string {
	sig, ok := functions[name]
	if !ok {
		return ""
	}

	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(name))
	b.WriteString(signatureStyle.Render("("))

	for i, p := range sig.params {
		if i > 0 {
			b.WriteString(signatureStyle.Render(", "))
		}

		if i == arg {
			b.WriteString(currentParamStyle.Render(p))
		} else {
			b.WriteString(signatureStyle.Render(p))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	if sig.doc != "" {
		b.WriteString(signatureStyle.Render("  " + sig.doc))
	}

	return b.String()
}
