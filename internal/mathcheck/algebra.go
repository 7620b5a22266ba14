package mathcheck

// Dimension describes an operand to the shape-algebra checks: either
// a matrix with fixed rows/cols, or a vector of a given length. These
// are used by higher-level checks (e.g. a future "multiply these two
// expressions" completion), not by the LSP diagnostics path directly.
type Dimension struct {
	IsVector bool
	Rows     int
	Cols     int // meaningless when IsVector
	Length   int // meaningless unless IsVector
}

// IsCompatibleAdd reports whether a and b can be added: they must be
// the same variant (matrix with matrix, vector with vector) and the
// same dimensions.
func IsCompatibleAdd(a, b Dimension) bool {
	if a.IsVector != b.IsVector {
		return false
	}
	if a.IsVector {
		return a.Length == b.Length
	}
	return a.Rows == b.Rows && a.Cols == b.Cols
}

// IsCompatibleMul reports whether a*b is a valid product: a scalar
// (represented as a 1x1 matrix) on either side is always compatible;
// matrix*matrix requires a's column count to equal b's row count;
// matrix*vector requires a's column count to equal the vector length.
func IsCompatibleMul(a, b Dimension) bool {
	if isScalar(a) || isScalar(b) {
		return true
	}
	switch {
	case !a.IsVector && !b.IsVector:
		return a.Cols == b.Rows
	case !a.IsVector && b.IsVector:
		return a.Cols == b.Length
	default:
		return false
	}
}

func isScalar(d Dimension) bool {
	return !d.IsVector && d.Rows == 1 && d.Cols == 1
}
