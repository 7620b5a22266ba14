package semtok_test

import (
	"testing"

	"github.com/jxoesneon/ferrotex/internal/cst"
	"github.com/jxoesneon/ferrotex/internal/semtok"
)

func TestEncodeCommandAndGroup(t *testing.T) {
	src := []byte(`\section{Intro}`)
	tree := cst.Parse(src)
	tokens := semtok.Encode(tree, semtok.LineStarts(src))

	var sawMacro, sawString bool
	for _, tok := range tokens {
		switch tok.TokenType {
		case semtok.TypeMacro:
			sawMacro = true
		case semtok.TypeString:
			sawString = true
		}
	}
	if !sawMacro {
		t.Fatal("expected a MACRO token for \\section")
	}
	if !sawString {
		t.Fatal("expected a STRING token for the {Intro} group")
	}
}

func TestEncodeSkipsMultilineNodes(t *testing.T) {
	src := []byte("\\begin{a}\nbody\n\\end{a}\n")
	tree := cst.Parse(src)
	tokens := semtok.Encode(tree, semtok.LineStarts(src))

	for _, tok := range tokens {
		if tok.TokenType == semtok.TypeKeyword {
			t.Fatal("expected the multi-line environment node itself to be skipped")
		}
	}
}

func TestEncodeDeltasAreRelative(t *testing.T) {
	src := []byte(`\foo \bar`)
	tree := cst.Parse(src)
	tokens := semtok.Encode(tree, semtok.LineStarts(src))
	if len(tokens) < 2 {
		t.Fatalf("expected at least 2 tokens, got %d", len(tokens))
	}
	if tokens[0].DeltaLine != 0 || tokens[0].DeltaStartChar != 0 {
		t.Fatalf("expected first token at (0,0) delta, got %+v", tokens[0])
	}
}
