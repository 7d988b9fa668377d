package shamir

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fp"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

const bn254Name = "bn254"

var curveBN254 = &bn254Curve{
	p: fp.Modulus(),
	r: fr.Modulus(),
}

// BN254 returns the G1 group of the BN254 (alt_bn128) pairing-friendly
// curve, as used by the EVM's `ecAdd`/`ecMul` precompiles.
func BN254() Curve {
	return curveBN254
}

type bn254Curve struct {
	p, r *big.Int
}

// bn254Point is a G1 point in affine coordinates.  Like the EVM
// precompiles, the library represents infinity as `(0, 0)`.
type bn254Point struct {
	a bn254.G1Affine
}

func (pt *bn254Point) IsIdentity() bool {
	return pt.a.IsInfinity()
}

func (pt *bn254Point) Coordinates() (*[CoordSize]byte, *[CoordSize]byte) {
	x, y := pt.a.X.Bytes(), pt.a.Y.Bytes()
	return &x, &y
}

func newBN254PointFromJacobian(j *bn254.G1Jac) *bn254Point {
	var pt bn254Point
	pt.a.FromJacobian(j)
	return &pt
}

func (c *bn254Curve) Name() string {
	return bn254Name
}

func (c *bn254Curve) Generator() Point {
	_, _, g1, _ := bn254.Generators()
	return &bn254Point{g1}
}

func (c *bn254Curve) Identity() Point {
	return &bn254Point{}
}

func (c *bn254Curve) NewPoint(x, y []byte) (Point, error) {
	if len(x) != CoordSize || len(y) != CoordSize {
		return nil, ErrInvalidPoint
	}

	// fp.Element.SetBytes silently reduces, so check for canonical
	// encodings first.
	bx, by := new(big.Int).SetBytes(x), new(big.Int).SetBytes(y)
	if bx.Cmp(c.p) >= 0 || by.Cmp(c.p) >= 0 {
		return nil, ErrInvalidPoint
	}

	var pt bn254Point
	pt.a.X.SetBigInt(bx)
	pt.a.Y.SetBigInt(by)

	// G1 has a cofactor of 1, so being on the curve is sufficient.
	if pt.a.IsInfinity() || !pt.a.IsOnCurve() {
		return nil, ErrInvalidPoint
	}
	return &pt, nil
}

func (c *bn254Curve) Add(p, q Point) Point {
	var a, b bn254.G1Jac
	a.FromAffine(&c.unwrap(p).a)
	b.FromAffine(&c.unwrap(q).a)
	return newBN254PointFromJacobian(a.AddAssign(&b))
}

func (c *bn254Curve) Double(p Point) Point {
	var a bn254.G1Jac
	a.FromAffine(&c.unwrap(p).a)
	return newBN254PointFromJacobian(a.DoubleAssign())
}

func (c *bn254Curve) ScalarMult(p Point, s *Scalar) Point {
	var a, r bn254.G1Jac
	a.FromAffine(&c.unwrap(p).a)

	k := s.BigInt()
	k.Mod(k, c.r) // r * P = Inf.

	return newBN254PointFromJacobian(r.ScalarMultiplication(&a, k))
}

func (c *bn254Curve) unwrap(p Point) *bn254Point {
	pt, ok := p.(*bn254Point)
	if !ok || pt == nil {
		panicWrongCurve(c)
	}
	return pt
}
