package lsp

import (
	"fmt"
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"glide/internal/diag"
)

func lineLengths(text string) []int {
	lines := strings.Split(text, "\n")
	lengths := make([]int, 0, len(lines))
	for _, line := range lines {
		lengths = append(lengths, len(line))
	}
	return lengths
}

// CodeActions offers quick fixes for the warnings in ds.
func CodeActions(uri string, text string, ds []protocol.Diagnostic) []protocol.CodeAction {
	actions := make([]protocol.CodeAction, 0)
	for _, d := range ds {
		switch diagnosticCode(d) {
		case diag.CodeGlobal:
			if action, ok := MakeRemoveWordAction(uri, text, d.Range, "Remove redundant global"); ok {
				actions = append(actions, action)
			}
		case diag.CodeReimport:
			if action, ok := MakeRemoveLineAction(uri, text, d.Range, "Remove repeated use"); ok {
				actions = append(actions, action)
			}
		}
	}
	return actions
}

func diagnosticCode(d protocol.Diagnostic) string {
	if d.Code == nil {
		return ""
	}
	switch v := d.Code.Value.(type) {
	case string:
		return v
	case protocol.Integer:
		return fmt.Sprintf("%d", v)
	}
	return ""
}

func quickFix(uri string, title string, edit protocol.TextEdit) protocol.CodeAction {
	kind := protocol.CodeActionKindQuickFix
	return protocol.CodeAction{
		Title: title,
		Kind:  &kind,
		Edit: &protocol.WorkspaceEdit{
			Changes: map[protocol.DocumentUri][]protocol.TextEdit{
				protocol.DocumentUri(uri): {edit},
			},
		},
	}
}

func MakeRemoveLineAction(uri string, text string, r protocol.Range, title string) (protocol.CodeAction, bool) {
	startLine := int(r.Start.Line)
	lengths := lineLengths(text)
	if startLine < 0 || startLine >= len(lengths) {
		return protocol.CodeAction{}, false
	}

	endLine := startLine
	endChar := uint32(lengths[startLine])
	if startLine+1 < len(lengths) {
		endLine = startLine + 1
		endChar = 0
	}

	return quickFix(uri, title, protocol.TextEdit{
		Range: protocol.Range{
			Start: protocol.Position{Line: uint32(startLine), Character: 0},
			End:   protocol.Position{Line: uint32(endLine), Character: endChar},
		},
	}), true
}

// MakeRemoveWordAction deletes the text under r together with the spaces
// that follow it.
func MakeRemoveWordAction(uri string, text string, r protocol.Range, title string) (protocol.CodeAction, bool) {
	lines := splitLines(text)
	line := int(r.Start.Line)
	if line < 0 || line >= len(lines) || r.End.Line != r.Start.Line {
		return protocol.CodeAction{}, false
	}
	lineText := lines[line]
	start := utf16ColToByte(lineText, int(r.Start.Character)) - 1
	end := utf16ColToByte(lineText, int(r.End.Character)) - 1
	if end <= start {
		return protocol.CodeAction{}, false
	}
	for end < len(lineText) && lineText[end] == ' ' {
		end++
	}

	return quickFix(uri, title, protocol.TextEdit{
		Range: protocol.Range{
			Start: r.Start,
			End:   protocol.Position{Line: r.Start.Line, Character: byteColToUTF16(lineText, end+1)},
		},
	}), true
}
