package lsp

import "testing"

func TestSemanticTokensResolveDeclarations(t *testing.T) {
	text := `def grow(n: int): int {
  make step = 2
  exit n step +
}
make n = grow(1)
print n time
`
	toks := SemanticTokensForText(text)

	tests := []struct {
		line, col, typ, mods int
	}{
		{1, 1, ttKeyword, 0},
		{1, 5, ttFunction, modDecl},
		{1, 10, ttParameter, modDecl},
		{1, 13, ttType, 0},
		{2, 8, ttVariable, modDecl},
		{3, 8, ttParameter, 0},
		{3, 10, ttVariable, 0},
		{3, 15, ttOperator, 0},
		{5, 6, ttVariable, modDecl},
		{5, 10, ttFunction, 0},
		{5, 15, ttNumber, 0},
		{6, 7, ttVariable, 0},
		{6, 9, ttVariable, modReadonly},
	}
	for i, tt := range tests {
		if !hasToken(toks, tt.line, tt.col, tt.typ, tt.mods) {
			t.Fatalf("tests[%d]: expected type %d mods %d at %d:%d, got %+v", i, tt.typ, tt.mods, tt.line, tt.col, toks)
		}
	}
}

func TestSemanticTokensAliasAndString(t *testing.T) {
	text := "replace sq = dup *\nprint \"x\" sq"
	toks := SemanticTokensForText(text)
	if !hasToken(toks, 1, 9, ttOperator, modDecl) {
		t.Fatalf("expected alias declaration at 1:9")
	}
	if !hasToken(toks, 2, 7, ttString, 0) {
		t.Fatalf("expected string at 2:7")
	}
}

func TestEncodeSemanticTokens(t *testing.T) {
	data := EncodeSemanticTokens([]SemTok{
		{Line: 2, Col: 3, Length: 4, Type: ttVariable},
		{Line: 1, Col: 1, Length: 5, Type: ttKeyword},
		{Line: 2, Col: 9, Length: 1, Type: ttNumber},
	})
	want := []uint32{
		0, 0, 5, ttKeyword, 0,
		1, 2, 4, ttVariable, 0,
		0, 6, 1, ttNumber, 0,
	}
	if len(data) != len(want) {
		t.Fatalf("expected %v, got %v", want, data)
	}
	for i := range want {
		if data[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, data)
		}
	}
}

func hasToken(toks []SemTok, line, col, typ, mods int) bool {
	for _, tok := range toks {
		if tok.Line == line && tok.Col == col && tok.Type == typ && tok.Mods == mods {
			return true
		}
	}
	return false
}
