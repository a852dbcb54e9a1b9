package vector

// OpKind is the closed set of binary operators the engine evaluates.
type OpKind int

const (
	OpAdd OpKind = iota
	OpSub
	OpMul
	OpDiv
	OpFloorDiv
	OpMod
	OpPow
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpAnd
	OpOr
	OpXor
)

// Op is an operator kind plus a reversed flag. Reversed ops apply the
// operand roles swapped (b op a); the flag is resolved once at the
// dispatch boundary instead of being re-derived downstream.
type Op struct {
	Kind     OpKind
	Reversed bool
}

// Convenience values for the forward operators.
var (
	Add      = Op{Kind: OpAdd}
	Sub      = Op{Kind: OpSub}
	Mul      = Op{Kind: OpMul}
	Div      = Op{Kind: OpDiv}
	FloorDiv = Op{Kind: OpFloorDiv}
	Mod      = Op{Kind: OpMod}
	Pow      = Op{Kind: OpPow}
	Eq       = Op{Kind: OpEq}
	Ne       = Op{Kind: OpNe}
	Lt       = Op{Kind: OpLt}
	Le       = Op{Kind: OpLe}
	Gt       = Op{Kind: OpGt}
	Ge       = Op{Kind: OpGe}
	And      = Op{Kind: OpAnd}
	Or       = Op{Kind: OpOr}
	Xor      = Op{Kind: OpXor}
)

// Reverse returns the op with operand roles flipped.
func (o Op) Reverse() Op {
	o.Reversed = !o.Reversed
	return o
}

// IsArithmetic reports whether the op produces a numeric result.
func (o Op) IsArithmetic() bool {
	switch o.Kind {
	case OpAdd, OpSub, OpMul, OpDiv, OpFloorDiv, OpMod, OpPow:
		return true
	}
	return false
}

// IsComparison reports whether the op produces a boolean result.
func (o Op) IsComparison() bool {
	switch o.Kind {
	case OpEq, OpNe, OpLt, OpLe, OpGt, OpGe:
		return true
	}
	return false
}

// IsLogical reports whether the op is a boolean combinator.
func (o Op) IsLogical() bool {
	switch o.Kind {
	case OpAnd, OpOr, OpXor:
		return true
	}
	return false
}

// Commutative reports whether operand order is irrelevant.
func (o Op) Commutative() bool {
	switch o.Kind {
	case OpAdd, OpMul, OpEq, OpNe, OpAnd, OpOr, OpXor:
		return true
	}
	return false
}

func (o Op) String() string {
	var s string
	switch o.Kind {
	case OpAdd:
		s = "add"
	case OpSub:
		s = "sub"
	case OpMul:
		s = "mul"
	case OpDiv:
		s = "div"
	case OpFloorDiv:
		s = "floordiv"
	case OpMod:
		s = "mod"
	case OpPow:
		s = "pow"
	case OpEq:
		s = "eq"
	case OpNe:
		s = "ne"
	case OpLt:
		s = "lt"
	case OpLe:
		s = "le"
	case OpGt:
		s = "gt"
	case OpGe:
		s = "ge"
	case OpAnd:
		s = "and"
	case OpOr:
		s = "or"
	case OpXor:
		s = "xor"
	default:
		s = "unknown"
	}
	if o.Reversed {
		return "r" + s
	}
	return s
}
