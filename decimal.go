package vector

import (
	"encoding/binary"
	"math/big"
)

// decimalLayout describes how one of Drill's multi word decimal types sits in
// a fixed byte slot. A slot holds words 32-bit words of nine decimal digits
// each, with the sign in the top bit of the first word.
type decimalLayout struct {
	words        int
	maxPrecision int
	// sparse slots are little endian and pad the last word of the
	// fraction to nine digits, dense slots are big endian
	sparse bool
}

var decimalLayouts = map[MinorType]decimalLayout{
	MinorTypeDecimal28Dense:  {words: 3, maxPrecision: 28},
	MinorTypeDecimal38Dense:  {words: 4, maxPrecision: 38},
	MinorTypeDecimal28Sparse: {words: 5, maxPrecision: 28, sparse: true},
	MinorTypeDecimal38Sparse: {words: 6, maxPrecision: 38, sparse: true},
}

const (
	decimalWordDigits = 9
	decimalWordWidth  = 4
	decimalSignBit    = 1 << 31
)

var (
	decimalWordBase = big.NewInt(1e9)
	bigTen          = big.NewInt(10)
)

func (l decimalLayout) width() int { return l.words * decimalWordWidth }

func (l decimalLayout) order() binary.ByteOrder {
	if l.sparse {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

// unscaled returns the slot's digits as one signed integer.
func (l decimalLayout) unscaled(slot []byte) *big.Int {
	order := l.order()
	head := order.Uint32(slot)

	n := new(big.Int).SetUint64(uint64(head &^ decimalSignBit))
	word := new(big.Int)
	for off := decimalWordWidth; off < l.width(); off += decimalWordWidth {
		n.Mul(n, decimalWordBase)
		n.Add(n, word.SetUint64(uint64(order.Uint32(slot[off:]))))
	}
	if head&decimalSignBit != 0 {
		n.Neg(n)
	}
	return n
}

// exponent is the power of ten the unscaled value is divided by.
func (l decimalLayout) exponent(scale int) int {
	if pad := scale % decimalWordDigits; l.sparse && scale > 0 && pad != 0 {
		return scale + decimalWordDigits - pad
	}
	return scale
}

func (l decimalLayout) decode(slot []byte, scale int) *big.Float {
	val := new(big.Float).SetInt(l.unscaled(slot))

	exp := l.exponent(scale)
	neg := exp < 0
	if neg {
		exp = -exp
	}
	pow := new(big.Float).SetInt(new(big.Int).Exp(bigTen, big.NewInt(int64(exp)), nil))
	if neg {
		return val.Mul(val, pow)
	}
	return val.Quo(val, pow)
}

// object returns the Object conversion for a column with the given scale.
func (l decimalLayout) object(scale int) func([]byte) interface{} {
	return func(slot []byte) interface{} {
		return l.decode(slot, scale)
	}
}
