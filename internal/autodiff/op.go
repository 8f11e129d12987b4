package autodiff

import (
	"strconv"

	"github.com/born-ml/antorch/internal/tensor"
)

// OpKind identifies the operator that produced a node.
type OpKind uint8

// Operator kinds.
const (
	OpLeaf OpKind = iota
	OpAdd
	OpMul
	OpMatMul
	OpPow
	OpExp
	OpLog
	OpWhere
	OpSum
	OpMean
	OpReshape
)

// String returns the operator's symbol.
func (k OpKind) String() string {
	switch k {
	case OpLeaf:
		return ""
	case OpAdd:
		return "+"
	case OpMul:
		return "*"
	case OpMatMul:
		return "@"
	case OpPow:
		return "**"
	case OpExp:
		return "exp"
	case OpLog:
		return "log"
	case OpWhere:
		return "where"
	case OpSum:
		return "sum"
	case OpMean:
		return "mean"
	case OpReshape:
		return "reshape"
	default:
		return "unknown"
	}
}

// op is the backward rule of one node: its kind, operand ids, and the
// scalar or mask parameters the rule needs.
//
//	OpAdd, OpMul, OpMatMul: a, b
//	OpPow:                  a, exponent
//	OpWhere:                a (true branch), b (false branch), mask
//	OpExp, OpLog, OpSum, OpMean, OpReshape: a
type op struct {
	kind     OpKind
	a, b     NodeID
	exponent float32
	mask     *tensor.Mask
}

// operands returns the de-duplicated parent ids.
func (o op) operands() []NodeID {
	switch o.kind {
	case OpLeaf:
		return nil
	case OpAdd, OpMul, OpMatMul, OpWhere:
		if o.a == o.b {
			return []NodeID{o.a}
		}
		return []NodeID{o.a, o.b}
	default:
		return []NodeID{o.a}
	}
}

// tag is the diagnostic label, e.g. "**2".
func (o op) tag() string {
	if o.kind == OpPow {
		return o.kind.String() + strconv.FormatFloat(float64(o.exponent), 'g', -1, 32)
	}
	return o.kind.String()
}
