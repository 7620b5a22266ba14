package cst_test

import (
	"testing"

	"github.com/jxoesneon/ferrotex/internal/cst"
)

func leafTexts(t *cst.Tree) []byte {
	var out []byte
	t.Walk(0, func(id cst.NodeID) bool {
		n := t.Node(id)
		if n.IsLeaf() {
			out = append(out, t.Text(id)...)
		}
		return true
	})
	return out
}

func TestLosslessRoundTrip(t *testing.T) {
	inputs := []string{
		`\section{Introduction}`,
		"{ \\cmd",
		`\begin{itemize} \item A \end{itemize}`,
		`\begin{a} { \begin{b} \end{b} } \end{a}`,
		"",
		"plain text, no markup at all",
	}
	for _, in := range inputs {
		tree := cst.Parse([]byte(in))
		if got := string(leafTexts(tree)); got != in {
			t.Errorf("lossless violation for %q: got %q", in, got)
		}
	}
}

func TestEmptyDocument(t *testing.T) {
	tree := cst.Parse(nil)
	root := tree.Root()
	if root.Kind != cst.KindRoot {
		t.Fatalf("expected Root, got %v", root.Kind)
	}
	if len(root.Children) != 0 {
		t.Fatalf("expected zero children, got %d", len(root.Children))
	}
	if len(tree.Errors) != 0 {
		t.Fatalf("expected no errors, got %v", tree.Errors)
	}
}

func TestParseGroup(t *testing.T) {
	tree := cst.Parse([]byte(`{ \cmd }`))
	root := tree.Root()
	if len(root.Children) != 1 {
		t.Fatalf("expected 1 child, got %d", len(root.Children))
	}
	if tree.Node(root.Children[0]).Kind != cst.KindGroup {
		t.Fatalf("expected Group, got %v", tree.Node(root.Children[0]).Kind)
	}
}

func TestParseEnvironment(t *testing.T) {
	tree := cst.Parse([]byte(`\begin{itemize} \item A \end{itemize}`))
	root := tree.Root()
	env := tree.Node(root.Children[0])
	if env.Kind != cst.KindEnvironment {
		t.Fatalf("expected Environment, got %v", env.Kind)
	}
	if env.Name != "itemize" {
		t.Fatalf("expected name %q, got %q", "itemize", env.Name)
	}
}

func TestNestedEnvironmentNoErrors(t *testing.T) {
	tree := cst.Parse([]byte(`\begin{a} { \begin{b} \end{b} } \end{a}`))
	if len(tree.Errors) != 0 {
		t.Fatalf("expected no errors, got %v", tree.Errors)
	}
}

func TestMissingCloseBraceRecordsErrorAtEOF(t *testing.T) {
	src := "{ \\cmd"
	tree := cst.Parse([]byte(src))
	if len(tree.Errors) == 0 {
		t.Fatal("expected at least one error")
	}
	if tree.Errors[0].Message != "Expected '}'" {
		t.Fatalf("expected 'Expected '}'', got %q", tree.Errors[0].Message)
	}
	if tree.Errors[0].Range.Start != len(src) {
		t.Fatalf("expected error at offset %d (EOF), got %d", len(src), tree.Errors[0].Range.Start)
	}
}

func TestSectionGroupChild(t *testing.T) {
	tree := cst.Parse([]byte(`\section{Introduction}`))
	root := tree.Root()
	sec := tree.Node(root.Children[0])
	if sec.Kind != cst.KindSection {
		t.Fatalf("expected Section, got %v", sec.Kind)
	}
	if sec.Name != "Introduction" {
		t.Fatalf("expected name %q, got %q", "Introduction", sec.Name)
	}
}

func TestIncludeCommands(t *testing.T) {
	for _, in := range []string{`\input{chapters/intro}`, `\include{chapters/concl}`} {
		tree := cst.Parse([]byte(in))
		inc := tree.Node(tree.Root().Children[0])
		if inc.Kind != cst.KindInclude {
			t.Fatalf("%s: expected Include, got %v", in, inc.Kind)
		}
	}
}

func TestLabelsAndRefs(t *testing.T) {
	tree := cst.Parse([]byte(`\section{A} \label{sec:a} \ref{sec:a}`))
	root := tree.Root()
	var kinds []cst.Kind
	for _, c := range root.Children {
		k := tree.Node(c).Kind
		if k == cst.KindSection || k == cst.KindLabelDefinition || k == cst.KindLabelReference {
			kinds = append(kinds, k)
		}
	}
	want := []cst.Kind{cst.KindSection, cst.KindLabelDefinition, cst.KindLabelReference}
	if len(kinds) != len(want) {
		t.Fatalf("expected %v, got %v", want, kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, kinds)
		}
	}
}

func TestUnmatchedClosingBrace(t *testing.T) {
	tree := cst.Parse([]byte(`a } b`))
	if len(tree.Errors) != 1 || tree.Errors[0].Message != "Unmatched '}'" {
		t.Fatalf("expected single Unmatched '}' error, got %v", tree.Errors)
	}
}

func TestRangesEncompassDescendants(t *testing.T) {
	tree := cst.Parse([]byte(`\begin{a} \section{X} \end{a}`))
	var check func(id cst.NodeID)
	check = func(id cst.NodeID) {
		n := tree.Node(id)
		for _, c := range n.Children {
			cn := tree.Node(c)
			if cn.Range.Start < n.Range.Start || cn.Range.End > n.Range.End {
				t.Fatalf("child range %v escapes parent range %v", cn.Range, n.Range)
			}
			check(c)
		}
	}
	check(0)
}

func FuzzParseNeverPanics(f *testing.F) {
	f.Add(`\section{Hello}`)
	f.Add("{ \\cmd")
	f.Add(`\begin{a} \end{b}`)
	f.Fuzz(func(t *testing.T, s string) {
		tree := cst.Parse([]byte(s))
		if got := string(leafTexts(tree)); got != s {
			t.Fatalf("lossless violation for %q: got %q", s, got)
		}
	})
}
