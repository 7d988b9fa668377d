package shamir

import (
	"filippo.io/nistec"
)

const p256Name = "p256"

var curveP256 = &p256Curve{}

// P256 returns the NIST P-256 (secp256r1) curve.
func P256() Curve {
	return curveP256
}

type p256Curve struct{}

// p256Point wraps a nistec point.  The wrapped point is never mutated
// after construction.
type p256Point struct {
	p *nistec.P256Point
}

func (pt *p256Point) IsIdentity() bool {
	// The SEC 1 encoding of the point at infinity is a lone 0x00.
	return len(pt.p.Bytes()) == 1
}

func (pt *p256Point) Coordinates() (*[CoordSize]byte, *[CoordSize]byte) {
	var x, y [CoordSize]byte

	// 0x04 || X || Y, or 0x00 for the point at infinity.
	if b := pt.p.Bytes(); len(b) == 1+2*CoordSize {
		copy(x[:], b[1:1+CoordSize])
		copy(y[:], b[1+CoordSize:])
	}
	return &x, &y
}

func (c *p256Curve) Name() string {
	return p256Name
}

func (c *p256Curve) Generator() Point {
	return &p256Point{nistec.NewP256Point().SetGenerator()}
}

func (c *p256Curve) Identity() Point {
	return &p256Point{nistec.NewP256Point()}
}

func (c *p256Curve) NewPoint(x, y []byte) (Point, error) {
	if len(x) != CoordSize || len(y) != CoordSize {
		return nil, ErrInvalidPoint
	}

	buf := make([]byte, 0, 1+2*CoordSize)
	buf = append(buf, 0x04)
	buf = append(buf, x...)
	buf = append(buf, y...)

	// SetBytes rejects non-canonical coordinates and off-curve points.
	p, err := nistec.NewP256Point().SetBytes(buf)
	if err != nil {
		return nil, ErrInvalidPoint
	}
	return &p256Point{p}, nil
}

func (c *p256Curve) Add(p, q Point) Point {
	return &p256Point{nistec.NewP256Point().Add(c.unwrap(p), c.unwrap(q))}
}

func (c *p256Curve) Double(p Point) Point {
	return &p256Point{nistec.NewP256Point().Double(c.unwrap(p))}
}

func (c *p256Curve) ScalarMult(p Point, s *Scalar) Point {
	r, err := nistec.NewP256Point().ScalarMult(c.unwrap(p), s[:])
	if err != nil {
		// Only possible with a scalar that is not 32-bytes.
		panic("shamir/p256: failed scalar multiply: " + err.Error())
	}
	return &p256Point{r}
}

func (c *p256Curve) unwrap(p Point) *nistec.P256Point {
	pt, ok := p.(*p256Point)
	if !ok || pt == nil {
		panicWrongCurve(c)
	}
	return pt.p
}
