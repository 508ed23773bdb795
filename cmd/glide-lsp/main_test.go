package main

import (
	"testing"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

func TestIsSource(t *testing.T) {
	tests := []struct {
		uri  string
		want bool
	}{
		{"file:///tmp/main.glide", true},
		{"file:///tmp/MAIN.GLIDE", true},
		{"file:///tmp/notes.txt", false},
		{"untitled:Untitled-1", false},
	}
	for _, tt := range tests {
		if got := isSource(tt.uri); got != tt.want {
			t.Fatalf("isSource(%q) = %v, want %v", tt.uri, got, tt.want)
		}
	}
}

func TestExtractFullText(t *testing.T) {
	text, ok := extractFullText(protocol.TextDocumentContentChangeEventWhole{Text: "print 1"})
	if !ok || text != "print 1" {
		t.Fatalf("expected whole-document text, got %q %v", text, ok)
	}
	if _, ok := extractFullText("not a change"); ok {
		t.Fatalf("expected unknown change types to be ignored")
	}
}
