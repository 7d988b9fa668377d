package shamir

import (
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

const secp256k1Name = "secp256k1"

var curveSecp256k1 = &secp256k1Curve{}

// Secp256k1 returns the secp256k1 curve.
func Secp256k1() Curve {
	return curveSecp256k1
}

type secp256k1Curve struct{}

// secp256k1Point is a point in affine coordinates.  The point at
// infinity is represented by the zero value.
type secp256k1Point struct {
	x, y       secp256k1.FieldVal
	isIdentity bool
}

func (pt *secp256k1Point) IsIdentity() bool {
	return pt.isIdentity
}

func (pt *secp256k1Point) Coordinates() (*[CoordSize]byte, *[CoordSize]byte) {
	var x, y [CoordSize]byte
	if !pt.isIdentity {
		pt.x.PutBytes(&x)
		pt.y.PutBytes(&y)
	}
	return &x, &y
}

func (pt *secp256k1Point) jacobian() *secp256k1.JacobianPoint {
	var j secp256k1.JacobianPoint
	if !pt.isIdentity {
		j.X.Set(&pt.x)
		j.Y.Set(&pt.y)
		j.Z.SetInt(1)
	}
	return &j
}

func newSecp256k1PointFromJacobian(j *secp256k1.JacobianPoint) *secp256k1Point {
	j.X.Normalize()
	j.Y.Normalize()
	j.Z.Normalize()

	// The library represents infinity with Z = 0 (and uses the
	// all-zero point as the canonical form).
	if j.Z.IsZero() || (j.X.IsZero() && j.Y.IsZero()) {
		return &secp256k1Point{isIdentity: true}
	}

	j.ToAffine()

	var pt secp256k1Point
	pt.x.Set(&j.X)
	pt.y.Set(&j.Y)
	return &pt
}

func (c *secp256k1Curve) Name() string {
	return secp256k1Name
}

func (c *secp256k1Curve) Generator() Point {
	var (
		one secp256k1.ModNScalar
		g   secp256k1.JacobianPoint
	)
	one.SetInt(1)
	secp256k1.ScalarBaseMultNonConst(&one, &g)

	return newSecp256k1PointFromJacobian(&g)
}

func (c *secp256k1Curve) Identity() Point {
	return &secp256k1Point{isIdentity: true}
}

func (c *secp256k1Curve) NewPoint(x, y []byte) (Point, error) {
	if len(x) != CoordSize || len(y) != CoordSize {
		return nil, ErrInvalidPoint
	}

	buf := make([]byte, 0, secp256k1.PubKeyBytesLenUncompressed)
	buf = append(buf, secp256k1.PubKeyFormatUncompressed)
	buf = append(buf, x...)
	buf = append(buf, y...)

	// ParsePubKey rejects coordinates >= p and off-curve points.
	pk, err := secp256k1.ParsePubKey(buf)
	if err != nil {
		return nil, ErrInvalidPoint
	}

	var j secp256k1.JacobianPoint
	pk.AsJacobian(&j)
	return newSecp256k1PointFromJacobian(&j), nil
}

func (c *secp256k1Curve) Add(p, q Point) Point {
	var r secp256k1.JacobianPoint
	secp256k1.AddNonConst(c.unwrap(p).jacobian(), c.unwrap(q).jacobian(), &r)
	return newSecp256k1PointFromJacobian(&r)
}

func (c *secp256k1Curve) Double(p Point) Point {
	var r secp256k1.JacobianPoint
	secp256k1.DoubleNonConst(c.unwrap(p).jacobian(), &r)
	return newSecp256k1PointFromJacobian(&r)
}

func (c *secp256k1Curve) ScalarMult(p Point, s *Scalar) Point {
	var (
		k secp256k1.ModNScalar
		r secp256k1.JacobianPoint
	)
	pt := c.unwrap(p)
	if pt.isIdentity {
		return c.Identity()
	}

	b := [ScalarSize]byte(*s)
	k.SetBytes(&b) // Reduction mod n is fine, n * P = Inf.

	secp256k1.ScalarMultNonConst(&k, pt.jacobian(), &r)
	return newSecp256k1PointFromJacobian(&r)
}

func (c *secp256k1Curve) unwrap(p Point) *secp256k1Point {
	pt, ok := p.(*secp256k1Point)
	if !ok || pt == nil {
		panicWrongCurve(c)
	}
	return pt
}
