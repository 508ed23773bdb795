package lsp

// prefixAt is the identifier fragment just before p, used to filter
// completions.
func prefixAt(text string, p Pos) string {
	lines := splitLines(text)
	if p.Line < 1 || p.Line > len(lines) {
		return ""
	}
	line := lines[p.Line-1]
	end := min(p.Col-1, len(line))
	start := end
	for start > 0 && isIdentByte(line[start-1]) {
		start--
	}
	return line[start:end]
}

func isIdentByte(ch byte) bool {
	return ch == '_' || ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z') || ('0' <= ch && ch <= '9')
}
