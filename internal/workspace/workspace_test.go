package workspace_test

import (
	"testing"

	"github.com/jxoesneon/ferrotex/internal/workspace"
)

func TestUpdateExtractsSymbols(t *testing.T) {
	idx := workspace.New()
	idx.Update("file:///a.tex", `\section{Introduction} \section{Methods}`, 1)
	syms := idx.QuerySymbols("")
	if len(syms) != 2 {
		t.Fatalf("expected 2 symbols, got %d: %+v", len(syms), syms)
	}
}

func TestQuerySymbolsPrefix(t *testing.T) {
	idx := workspace.New()
	idx.Update("file:///a.tex", `\section{Alpha} \section{Beta}`, 1)
	syms := idx.QuerySymbols("Al")
	if len(syms) != 1 || syms[0].Name != "Alpha" {
		t.Fatalf("expected [Alpha], got %+v", syms)
	}
}

func TestValidateLabelsUndefined(t *testing.T) {
	idx := workspace.New()
	idx.Update("file:///a.tex", `\ref{missing}`, 1)
	diags := idx.ValidateLabels()
	if len(diags) != 1 || diags[0].Message != "Undefined label `missing`" {
		t.Fatalf("unexpected diagnostics: %+v", diags)
	}
}

func TestValidateLabelsDuplicate(t *testing.T) {
	idx := workspace.New()
	idx.Update("file:///a.tex", `\label{x} \label{x}`, 1)
	diags := idx.ValidateLabels()
	if len(diags) != 2 {
		t.Fatalf("expected 2 duplicate diagnostics, got %+v", diags)
	}
	for _, d := range diags {
		if d.Message != "Duplicate label `x`" {
			t.Fatalf("unexpected message: %s", d.Message)
		}
	}
}

func TestValidateLabelsSatisfied(t *testing.T) {
	idx := workspace.New()
	idx.Update("file:///a.tex", `\label{x} \ref{x}`, 1)
	if diags := idx.ValidateLabels(); len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %+v", diags)
	}
}

func TestDetectCyclesDirect(t *testing.T) {
	idx := workspace.New()
	idx.Update("file:///a.tex", `\input{b}`, 1)
	idx.Update("file:///b.tex", `\input{a}`, 1)

	cycles := idx.DetectCycles()
	if len(cycles) == 0 {
		t.Fatal("expected at least one cycle")
	}
}

func TestDetectCyclesReportsBothDirections(t *testing.T) {
	idx := workspace.New()
	idx.Update("file:///a.tex", `\input{b}`, 1)
	idx.Update("file:///b.tex", `\input{a}`, 1)

	cycles := idx.DetectCycles()
	byURI := make(map[string]bool)
	for _, c := range cycles {
		byURI[c.URI] = true
	}
	if !byURI["file:///a.tex"] || !byURI["file:///b.tex"] {
		t.Fatalf("expected a cycle diagnostic starting from both a.tex and b.tex, got %+v", cycles)
	}
}

func TestDetectCyclesNoFalsePositive(t *testing.T) {
	idx := workspace.New()
	idx.Update("file:///a.tex", `\input{b} \input{c}`, 1)
	idx.Update("file:///b.tex", `plain text`, 1)
	idx.Update("file:///c.tex", `plain text`, 1)

	if cycles := idx.DetectCycles(); len(cycles) != 0 {
		t.Fatalf("expected no cycles, got %+v", cycles)
	}
}

func TestRemoveDropsSnapshot(t *testing.T) {
	idx := workspace.New()
	idx.Update("file:///a.tex", `\section{X}`, 1)
	idx.Remove("file:///a.tex")
	if _, ok := idx.Get("file:///a.tex"); ok {
		t.Fatal("expected snapshot to be gone after Remove")
	}
}

func TestLineIndexPosition(t *testing.T) {
	li := workspace.NewLineIndex("ab\ncd\nef")
	line, col := li.Position(4) // 'd' in "cd"
	if line != 1 || col != 1 {
		t.Fatalf("expected (1,1), got (%d,%d)", line, col)
	}
}
