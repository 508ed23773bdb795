package lsp

import (
	"fmt"
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"glide/internal/stackops"
	"glide/internal/token"
)

type completionCandidate struct {
	label  string
	kind   protocol.CompletionItemKind
	detail string
	group  int
}

// CompletionItems offers the document's own names first, then keywords,
// instances, types and operators, filtered by the word being typed.
func CompletionItems(text string, pos protocol.Position) []protocol.CompletionItem {
	p, ok := positionToByte(text, pos)
	if !ok {
		return nil
	}
	an := Analyze(text)
	prefix := prefixAt(text, p)

	seen := map[string]bool{}
	var items []completionCandidate
	add := func(c completionCandidate) {
		if seen[c.label] || !strings.HasPrefix(c.label, prefix) {
			return
		}
		seen[c.label] = true
		items = append(items, c)
	}

	for i := len(an.Symbols) - 1; i >= 0; i-- {
		s := an.Symbols[i]
		if an.Resolve(s.Name, p) != s {
			continue
		}
		add(completionCandidate{label: s.Name, kind: completionItemKind(s.Kind), detail: s.Detail, group: 0})
	}
	for _, k := range sortedKeys(keywordDocs) {
		add(completionCandidate{label: k, kind: protocol.CompletionItemKindKeyword, detail: keywordDocs[k], group: 1})
	}
	for _, k := range sortedKeys(instanceDocs) {
		add(completionCandidate{label: k, kind: protocol.CompletionItemKindVariable, detail: instanceDocs[k], group: 2})
	}
	for _, k := range sortedKeys(typeDocs) {
		add(completionCandidate{label: k, kind: protocol.CompletionItemKindTypeParameter, detail: typeDocs[k], group: 3})
	}
	for _, name := range stackops.Names() {
		op, _ := stackops.Lookup(name)
		add(completionCandidate{label: name, kind: protocol.CompletionItemKindOperator, detail: op.Doc, group: 4})
	}
	return buildCompletionItems(items)
}

func buildCompletionItems(items []completionCandidate) []protocol.CompletionItem {
	out := make([]protocol.CompletionItem, 0, len(items))
	for i, c := range items {
		kind := c.kind
		detail := c.detail
		sortText := fmt.Sprintf("%d-%04d", c.group, i)
		out = append(out, protocol.CompletionItem{
			Label:    c.label,
			Kind:     &kind,
			Detail:   &detail,
			SortText: &sortText,
		})
	}
	return out
}

func completionItemKind(kind SymbolKind) protocol.CompletionItemKind {
	switch kind {
	case SymFunc:
		return protocol.CompletionItemKindFunction
	case SymAlias:
		return protocol.CompletionItemKindOperator
	}
	return protocol.CompletionItemKindVariable
}

// HoverAt explains the word under pos: a declaration from the document or a
// built-in keyword, type, instance or operator.
func HoverAt(text string, pos protocol.Position) (*protocol.Hover, error) {
	p, ok := positionToByte(text, pos)
	if !ok {
		return nil, nil
	}
	an := Analyze(text)
	tok, ok := an.TokenAt(p)
	if !ok || !isWord(tok) {
		return nil, nil
	}

	var value string
	if tok.Type == token.IDENT {
		sym := an.Resolve(tok.Literal, p)
		if sym == nil {
			return nil, nil
		}
		value = "```glide\n" + sym.Detail + "\n```"
	} else {
		kind, doc, ok := docFor(tok.Literal)
		if !ok {
			return nil, nil
		}
		value = fmt.Sprintf("**%s** (%s)\n\n%s", tok.Literal, kind, doc)
	}

	r := rangeFromPosLenUTF16(text, tok.Line, tok.Col, tok.Literal)
	return &protocol.Hover{
		Contents: protocol.MarkupContent{Kind: protocol.MarkupKindMarkdown, Value: value},
		Range:    &r,
	}, nil
}

// DefinitionAt jumps from a name to its declaration in the same document.
func DefinitionAt(uri string, text string, pos protocol.Position) []protocol.Location {
	p, ok := positionToByte(text, pos)
	if !ok {
		return nil
	}
	an := Analyze(text)
	tok, ok := an.TokenAt(p)
	if !ok || tok.Type != token.IDENT {
		return nil
	}
	sym := an.Resolve(tok.Literal, p)
	if sym == nil {
		return nil
	}
	return []protocol.Location{{
		URI:   protocol.DocumentUri(uri),
		Range: rangeFromPosLenUTF16(text, sym.Line, sym.Col, sym.Name),
	}}
}

// DocumentSymbols lists the functions, operators and variables declared
// outside function bodies; parameters and locals nest under their function.
func DocumentSymbols(text string) []protocol.DocumentSymbol {
	an := Analyze(text)
	out := []protocol.DocumentSymbol{}
	index := map[*Symbol]int{}
	for _, s := range an.Symbols {
		ds := documentSymbol(text, s)
		if s.Owner != nil {
			if i, ok := index[s.Owner]; ok {
				out[i].Children = append(out[i].Children, ds)
			}
			continue
		}
		index[s] = len(out)
		out = append(out, ds)
	}
	return out
}

func documentSymbol(text string, s *Symbol) protocol.DocumentSymbol {
	kind := protocol.SymbolKindVariable
	switch s.Kind {
	case SymFunc:
		kind = protocol.SymbolKindFunction
	case SymAlias:
		kind = protocol.SymbolKindOperator
	}
	detail := s.Detail
	r := rangeFromPosLenUTF16(text, s.Line, s.Col, s.Name)
	return protocol.DocumentSymbol{
		Name:           s.Name,
		Detail:         &detail,
		Kind:           kind,
		Range:          r,
		SelectionRange: r,
	}
}
