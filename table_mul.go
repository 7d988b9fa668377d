package shamir

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Multiply returns `a * P + b * Q`, using only table lookups and
// doublings.  Both scalars are processed as fixed-width ScalarBits
// values, one `w`-bit window at a time, most significant first.
//
// This is variable time, and is intended as a reference for checking
// independent implementations that consume the serialized table.
func (tbl *Table) Multiply(a, b *Scalar) Point {
	c, w := tbl.curve, tbl.w

	n := ScalarBits / w
	v := tbl.entries[tbl.index(a, b, 0)]
	for it := 1; it < n; it++ {
		for i := 0; i < w; i++ {
			v = c.Double(v)
		}
		v = c.Add(v, tbl.entries[tbl.index(a, b, it)])
	}

	return v
}

// MultiplyCoordinates returns the big-endian affine coordinates of
// `a * P + b * Q`.  The point at infinity is returned as `(0, 0)`.
func (tbl *Table) MultiplyCoordinates(a, b *Scalar) (x, y *[CoordSize]byte) {
	return tbl.Multiply(a, b).Coordinates()
}

// index returns the table index for window `it` of `a` and `b`.
func (tbl *Table) index(a, b *Scalar, it int) int {
	w := tbl.w

	aBits, bBits := a.window(it, w), b.window(it, w)
	idx := int(aBits<<w | bBits)

	if ce := tbl.logger.Check(zapcore.DebugLevel, "table lookup"); ce != nil {
		ce.Write(
			zap.Int("window", it),
			zap.Uint64("a_bits", aBits),
			zap.Uint64("b_bits", bBits),
			zap.Int("index", idx),
		)
	}

	return idx
}
