package mathcheck

import (
	"fmt"
	"strings"

	"github.com/jxoesneon/ferrotex/internal/cst"
)

// Shape is the inferred dimensions of a matrix-like environment, or
// the reason inference failed.
type Shape struct {
	Rows, Cols int
	Invalid    string // non-empty means inference failed; Rows/Cols are meaningless
}

// InferMatrixShape walks an Environment node whose name contains
// "matrix" (pmatrix, bmatrix, matrix, vmatrix, ...), counting '&' per
// row and splitting rows on \\ commands. A row whose column count
// disagrees with the first row's produces an Invalid shape describing
// the jagged rows.
func InferMatrixShape(t *cst.Tree, env cst.NodeID) Shape {
	n := t.Node(env)
	if n.Kind != cst.KindEnvironment || !strings.Contains(n.Name, "matrix") {
		return Shape{Invalid: "not a matrix environment"}
	}

	// The environment's own \begin{name} and \end{name} markers are not cell content.
	skip := make(map[cst.NodeID]bool)
	for i, c := range n.Children {
		if text := string(t.Node(c).Token.Text); t.Node(c).IsLeaf() && (text == `\begin` || text == `\end`) {
			skip[c] = true
			if i+1 < len(n.Children) && t.Node(n.Children[i+1]).Kind == cst.KindGroup {
				skip[n.Children[i+1]] = true
			}
		}
	}

	rowCols := []int{0}
	rowHasContent := []bool{false}
	t.Walk(env, func(id cst.NodeID) bool {
		if id == env {
			return true
		}
		if skip[id] {
			return false
		}
		leaf := t.Node(id)
		if !leaf.IsLeaf() {
			return true
		}
		text := string(leaf.Token.Text)
		last := len(rowCols) - 1
		switch {
		case text == `\\`:
			rowCols = append(rowCols, 0)
			rowHasContent = append(rowHasContent, false)
		case strings.TrimSpace(text) == "":
			// whitespace between cells doesn't count as content
		case strings.Contains(text, "&"):
			rowCols[last] += strings.Count(text, "&")
			rowHasContent[last] = true
		default:
			rowHasContent[last] = true
		}
		return true
	})

	// A trailing "\\" with nothing after it produces an empty final
	// row; drop it, matching how LaTeX itself treats a final row
	// terminator as not starting a new row.
	if len(rowCols) > 1 && !rowHasContent[len(rowCols)-1] {
		rowCols = rowCols[:len(rowCols)-1]
	}

	cols := make([]int, len(rowCols))
	for i, amps := range rowCols {
		cols[i] = amps + 1
	}

	if len(cols) == 0 {
		return Shape{Rows: 0, Cols: 0}
	}
	want := cols[0]
	for i, c := range cols {
		if c != want {
			return Shape{Invalid: fmt.Sprintf("Jagged matrix: row 1 has %d columns, but row %d has %d", want, i+1, c)}
		}
	}
	return Shape{Rows: len(cols), Cols: want}
}
