package mathcheck_test

import (
	"strings"
	"testing"

	"github.com/jxoesneon/ferrotex/internal/cst"
	"github.com/jxoesneon/ferrotex/internal/mathcheck"
)

func TestBalancedDelimitersNoErrors(t *testing.T) {
	errs := mathcheck.CheckDelimiters(`\left( x + y \right)`)
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestUnmatchedLeft(t *testing.T) {
	errs := mathcheck.CheckDelimiters(`\left( x + y`)
	if len(errs) == 0 {
		t.Fatal("expected an error for unmatched \\left")
	}
}

func TestUnmatchedLeftWithNoBrackets(t *testing.T) {
	// No parens/brackets/braces at all, so only the \left/\right
	// counters (not the separate bracket-balance pass) can catch this.
	errs := mathcheck.CheckDelimiters(`\left\alpha`)
	if len(errs) == 0 {
		t.Fatal("expected an error for surplus \\left with no matching \\right")
	}
}

func TestUnmatchedRight(t *testing.T) {
	errs := mathcheck.CheckDelimiters(`x + y \right)`)
	if len(errs) == 0 {
		t.Fatal("expected an error for unmatched \\right")
	}
}

func TestMismatchedDelimiters(t *testing.T) {
	for _, in := range []string{"( ]", "[ }", "{ )"} {
		errs := mathcheck.CheckDelimiters(in)
		found := false
		for _, e := range errs {
			if strings.Contains(e.Message, "Mismatched delimiter") {
				found = true
			}
		}
		if !found {
			t.Errorf("expected a mismatched-delimiter error for %q, got %v", in, errs)
		}
	}
}

func TestUnclosedDelimiter(t *testing.T) {
	errs := mathcheck.CheckDelimiters("(")
	found := false
	for _, e := range errs {
		if strings.Contains(e.Message, "Unclosed delimiter") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an unclosed-delimiter error, got %v", errs)
	}
}

func TestMatrixShapeRectangular(t *testing.T) {
	tree := cst.Parse([]byte(`\begin{pmatrix} 1 & 0 \\ 0 & 1 \end{pmatrix}`))
	env := tree.Root().Children[0]
	shape := mathcheck.InferMatrixShape(tree, env)
	if shape.Invalid != "" {
		t.Fatalf("expected valid shape, got invalid: %s", shape.Invalid)
	}
	if shape.Rows != 2 || shape.Cols != 2 {
		t.Fatalf("expected 2x2, got %dx%d", shape.Rows, shape.Cols)
	}
}

func TestMatrixShapeJagged(t *testing.T) {
	tree := cst.Parse([]byte(`\begin{pmatrix} 1 & 0 \\ 1 & 2 & 3 \end{pmatrix}`))
	env := tree.Root().Children[0]
	shape := mathcheck.InferMatrixShape(tree, env)
	if shape.Invalid == "" {
		t.Fatal("expected jagged matrix to be invalid")
	}
	if !strings.Contains(shape.Invalid, "row 1 has 2 columns, but row 2 has 3") {
		t.Fatalf("unexpected message: %s", shape.Invalid)
	}
}

func TestMatrixShapeSingleRowTrailingBackslash(t *testing.T) {
	tree := cst.Parse([]byte(`\begin{matrix} 1 & 2 \\ \end{matrix}`))
	env := tree.Root().Children[0]
	shape := mathcheck.InferMatrixShape(tree, env)
	if shape.Invalid != "" {
		t.Fatalf("expected valid shape despite trailing \\\\, got invalid: %s", shape.Invalid)
	}
	if shape.Rows != 1 || shape.Cols != 2 {
		t.Fatalf("expected 1x2, got %dx%d", shape.Rows, shape.Cols)
	}
}

func TestShapeAlgebra(t *testing.T) {
	m2x3 := mathcheck.Dimension{Rows: 2, Cols: 3}
	m3x2 := mathcheck.Dimension{Rows: 3, Cols: 2}
	scalar := mathcheck.Dimension{Rows: 1, Cols: 1}
	vec3 := mathcheck.Dimension{IsVector: true, Length: 3}

	if !mathcheck.IsCompatibleMul(m2x3, m3x2) {
		t.Error("2x3 * 3x2 should be compatible")
	}
	if mathcheck.IsCompatibleMul(m2x3, m2x3) {
		t.Error("2x3 * 2x3 should not be compatible")
	}
	if !mathcheck.IsCompatibleMul(scalar, m2x3) {
		t.Error("scalar * matrix should always be compatible")
	}
	if !mathcheck.IsCompatibleMul(m2x3, vec3) {
		t.Error("2x3 * vec(3) should be compatible")
	}
	if !mathcheck.IsCompatibleAdd(m2x3, m2x3) {
		t.Error("2x3 + 2x3 should be compatible")
	}
	if mathcheck.IsCompatibleAdd(m2x3, m3x2) {
		t.Error("2x3 + 3x2 should not be compatible")
	}
}
