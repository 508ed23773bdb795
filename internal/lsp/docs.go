package lsp

import (
	"sort"

	"glide/internal/stackops"
	"glide/internal/token"
)

var keywordDocs = map[string]string{
	"print":   "print <expr>: write the value of a stack expression on its own line.",
	"make":    "make [global] [frozen] name[: type] [= expr]: declare a variable in the current scope.",
	"free":    "free name: remove a variable.",
	"loop":    "loop <count> [with i] { ... } repeats a block; loop when <cond> { ... } repeats while the condition is nonzero.",
	"when":    "when <cond> { ... } [else ...]: run a block when the condition is nonzero.",
	"if":      "Alias of when.",
	"else":    "Alternative branch of when; may chain another when.",
	"exit":    "exit leaves the innermost loop; exit <expr> returns a value from the function.",
	"next":    "Skip to the next iteration of the innermost loop.",
	"def":     "def name(params)[: type] { ... }: define a function at the top level.",
	"use":     "use module: load a module once and run it in the current scope.",
	"replace": "replace name = items: define an operator standing for literals, operators and fences.",
	"with":    "Names the counter of a counted loop.",
	"global":  "Declare the variable at the top level scope.",
	"frozen":  "The variable cannot be reassigned.",
	"true":    "The integer 1.",
	"false":   "The integer 0.",
}

var typeDocs = map[string]string{
	"void":  "No value.",
	"int":   "64-bit signed integer.",
	"float": "64-bit floating point number.",
	"bin":   "Arbitrary precision binary number, written b101.",
	"str":   "Text.",
	"list":  "Ordered values; write [t] for a list of t.",
	"obj":   "String keyed map.",
	"dec":   "int|float",
	"num":   "int|float|bin",
	"any":   "Every type except void.",
}

var instanceDocs = map[string]string{
	"time":  "Milliseconds since the program started (read-only).",
	"input": "Reads one line of input as str (read-only).",
}

// isWord reports whether tok is something hover and definition can explain.
func isWord(tok token.Token) bool {
	switch tok.Type {
	case token.IDENT, token.TYPE, token.OPERATOR, token.INSTANCE:
		return true
	}
	return token.IsKeyword(tok.Type)
}

// docFor returns the built-in documentation of word, if any.
func docFor(word string) (string, string, bool) {
	if doc, ok := keywordDocs[word]; ok {
		return "keyword", doc, true
	}
	if doc, ok := typeDocs[word]; ok {
		if op, ok := stackops.Lookup(word); ok {
			doc += "\n\nAs an operator: " + op.Doc + "."
		}
		return "type", doc, true
	}
	if doc, ok := instanceDocs[word]; ok {
		return "instance", doc, true
	}
	if op, ok := stackops.Lookup(word); ok {
		return "operator", op.Doc, true
	}
	return "", "", false
}

func sortedKeys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
