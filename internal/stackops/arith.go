package stackops

import (
	"math"
	"math/big"
	"strings"
	"unicode/utf8"

	"glide/internal/object"
	"glide/internal/types"
)

const maxShift = 1 << 16

// toBig returns the integer value of an int or bin.
func toBig(o object.Object) (*big.Int, bool) {
	switch v := o.(type) {
	case *object.Integer:
		return big.NewInt(v.Value), true
	case *object.Binary:
		return v.Value, true
	}
	return nil, false
}

// fromBig keeps bin results as bin; int results must fit in 64 bits.
func fromBig(op string, v *big.Int, asBin bool) (object.Object, error) {
	if asBin {
		return &object.Binary{Value: v}, nil
	}
	if !v.IsInt64() {
		return nil, opErrorf(op, "integer overflow in %s", op)
	}
	return &object.Integer{Value: v.Int64()}, nil
}

func checkFloat(op string, a, b object.Object, f float64) (object.Object, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, impossible(op, a, b)
	}
	return &object.Float{Value: f}, nil
}

func arith(op string, a, b object.Object) (object.Object, error) {
	as, aStr := a.(*object.String)
	bs, bStr := b.(*object.String)
	if aStr || bStr {
		if op == "+" && aStr && bStr {
			return &object.String{Value: as.Value + bs.Value}, nil
		}
		return nil, opErrorf(op, "operator %s cannot combine %s and %s", op, types.Of(a), types.Of(b))
	}

	ai, aInt := toBig(a)
	bi, bInt := toBig(b)
	if aInt && bInt {
		_, aBin := a.(*object.Binary)
		_, bBin := b.(*object.Binary)
		return intArith(op, a, b, ai, bi, aBin && bBin)
	}

	af, _ := object.ToFloat(a)
	bf, _ := object.ToFloat(b)
	switch op {
	case "+":
		return checkFloat(op, a, b, af+bf)
	case "-":
		return checkFloat(op, a, b, af-bf)
	case "*":
		return checkFloat(op, a, b, af*bf)
	case "/":
		if bf == 0 {
			return nil, impossible(op, a, b)
		}
		return checkFloat(op, a, b, af/bf)
	case "%":
		if bf == 0 {
			return nil, impossible(op, a, b)
		}
		return checkFloat(op, a, b, math.Mod(af, bf))
	case "^":
		return checkFloat(op, a, b, math.Pow(af, bf))
	}
	return nil, opErrorf(op, "unknown arithmetic operator %s", op)
}

func intArith(op string, a, b object.Object, x, y *big.Int, asBin bool) (object.Object, error) {
	z := new(big.Int)
	switch op {
	case "+":
		return fromBig(op, z.Add(x, y), asBin)
	case "-":
		return fromBig(op, z.Sub(x, y), asBin)
	case "*":
		return fromBig(op, z.Mul(x, y), asBin)
	case "/":
		if y.Sign() == 0 {
			return nil, impossible(op, a, b)
		}
		q, r := new(big.Int).QuoRem(x, y, new(big.Int))
		if r.Sign() == 0 {
			return fromBig(op, q, asBin)
		}
		xf, _ := object.ToFloat(a)
		yf, _ := object.ToFloat(b)
		return checkFloat(op, a, b, xf/yf)
	case "%":
		if y.Sign() == 0 {
			return nil, impossible(op, a, b)
		}
		return fromBig(op, z.Rem(x, y), asBin)
	case "^":
		if y.Sign() < 0 {
			xf, _ := object.ToFloat(a)
			yf, _ := object.ToFloat(b)
			return checkFloat(op, a, b, math.Pow(xf, yf))
		}
		if y.Cmp(big.NewInt(maxShift)) > 0 {
			return nil, opErrorf(op, "exponent %s is too large", y)
		}
		return fromBig(op, z.Exp(x, y, nil), asBin)
	}
	return nil, opErrorf(op, "unknown arithmetic operator %s", op)
}

func compare(op string, a, b object.Object) (object.Object, error) {
	var c int
	as, aStr := a.(*object.String)
	bs, bStr := b.(*object.String)
	switch {
	case aStr && bStr:
		c = strings.Compare(as.Value, bs.Value)
	case aStr || bStr:
		return nil, opErrorf(op, "operator %s cannot compare %s and %s", op, types.Of(a), types.Of(b))
	default:
		ai, aInt := toBig(a)
		bi, bInt := toBig(b)
		if aInt && bInt {
			c = ai.Cmp(bi)
		} else {
			af, _ := object.ToFloat(a)
			bf, _ := object.ToFloat(b)
			switch {
			case af < bf:
				c = -1
			case af > bf:
				c = 1
			}
		}
	}
	switch op {
	case "<":
		return object.Bool(c < 0), nil
	case ">":
		return object.Bool(c > 0), nil
	case "<=":
		return object.Bool(c <= 0), nil
	default:
		return object.Bool(c >= 0), nil
	}
}

func shift(op string, a, b object.Object) (object.Object, error) {
	x, ok := toBig(a)
	if !ok {
		return nil, opErrorf(op, "operator %s expects %s, got %s", op, intBinType, types.Of(a))
	}
	n, ok := b.(*object.Integer)
	if !ok {
		return nil, opErrorf(op, "operator %s expects an int shift count, got %s", op, types.Of(b))
	}
	if n.Value < 0 || n.Value > maxShift {
		return nil, opErrorf(op, "shift count %d out of range", n.Value)
	}
	_, isBin := a.(*object.Binary)
	z := new(big.Int)
	if op == "<<" {
		z.Lsh(x, uint(n.Value))
	} else {
		z.Rsh(x, uint(n.Value))
	}
	return fromBig(op, z, isBin)
}

func negate(a object.Object) (object.Object, error) {
	switch v := a.(type) {
	case *object.Integer:
		return &object.Integer{Value: -v.Value}, nil
	case *object.Float:
		return &object.Float{Value: -v.Value}, nil
	case *object.Binary:
		return &object.Binary{Value: new(big.Int).Neg(v.Value)}, nil
	}
	return nil, opErrorf("neg", "neg expects num, got %s", types.Of(a))
}

func absolute(a object.Object) (object.Object, error) {
	switch v := a.(type) {
	case *object.Integer:
		if v.Value < 0 {
			return &object.Integer{Value: -v.Value}, nil
		}
		return v, nil
	case *object.Float:
		return &object.Float{Value: math.Abs(v.Value)}, nil
	case *object.Binary:
		return &object.Binary{Value: new(big.Int).Abs(v.Value)}, nil
	}
	return nil, opErrorf("abs", "abs expects num, got %s", types.Of(a))
}

func length(a object.Object) (object.Object, error) {
	switch v := a.(type) {
	case *object.String:
		return &object.Integer{Value: int64(utf8.RuneCountInString(v.Value))}, nil
	case *object.List:
		return &object.Integer{Value: int64(len(v.Elements))}, nil
	case *object.Dict:
		return &object.Integer{Value: int64(len(v.Pairs))}, nil
	}
	return nil, opErrorf("len", "len expects str|list|obj, got %s", types.Of(a))
}
