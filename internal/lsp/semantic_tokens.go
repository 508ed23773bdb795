package lsp

import "sort"

// SemanticTokensForText returns unencoded semantic tokens for the given
// source text. Names are coloured by the declaration they resolve to.
func SemanticTokensForText(text string) []SemTok {
	an := Analyze(text)
	decls := make(map[Pos]*Symbol, len(an.Symbols))
	for _, s := range an.Symbols {
		decls[Pos{Line: s.Line, Col: s.Col}] = s
	}

	sem := make([]SemTok, 0, len(an.Tokens))
	for _, tok := range an.Tokens {
		tt, mods, ok := Classify(tok)
		if !ok {
			continue
		}
		at := Pos{Line: tok.Line, Col: tok.Col}
		if s, ok := decls[at]; ok {
			tt, mods = symbolTokenType(s), modDecl
		} else if tok.Literal != "" && tt == ttVariable && mods == 0 {
			if s := an.Resolve(tok.Literal, at); s != nil {
				tt = symbolTokenType(s)
			}
		}
		sem = append(sem, SemTok{
			Line:   tok.Line,
			Col:    tok.Col,
			Length: max(1, tokenLength(tok)),
			Type:   tt,
			Mods:   mods,
		})
	}
	return sem
}

func symbolTokenType(s *Symbol) int {
	switch s.Kind {
	case SymFunc:
		return ttFunction
	case SymParam:
		return ttParameter
	case SymAlias:
		return ttOperator
	}
	return ttVariable
}

// EncodeSemanticTokens produces the relative encoding LSP expects.
func EncodeSemanticTokens(toks []SemTok) []uint32 {
	sort.Slice(toks, func(i, j int) bool {
		if toks[i].Line != toks[j].Line {
			return toks[i].Line < toks[j].Line
		}
		return toks[i].Col < toks[j].Col
	})

	data := make([]uint32, 0, len(toks)*5)
	prevLine, prevCol := 1, 1
	for _, t := range toks {
		if t.Length <= 0 {
			continue
		}
		deltaLine := t.Line - prevLine
		deltaStart := t.Col - 1
		if deltaLine == 0 {
			deltaStart = t.Col - prevCol
		}
		data = append(data, uint32(deltaLine), uint32(deltaStart), uint32(t.Length), uint32(t.Type), uint32(t.Mods))
		prevLine, prevCol = t.Line, t.Col
	}
	return data
}
