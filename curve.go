// Package shamir implements fixed-base dual-scalar multiplication
// tables (Shamir's trick with a combined table), for computing
// `a * P + b * Q` with a handful of doublings and table lookups, and
// the canonical fixed-width serialization of said tables.
package shamir

import (
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// CoordSize is the size of a single affine coordinate in bytes.
const CoordSize = 32

var (
	// ErrInvalidPoint is the error returned when a point is malformed,
	// not on the curve, or belongs to a different curve.
	ErrInvalidPoint = errors.New("shamir: invalid point")

	// ErrAmbiguousIdentity is the error returned when a curve accepts
	// `(0, 0)` as a finite point, which would collide with the encoding
	// of the point at infinity.
	ErrAmbiguousIdentity = errors.New("shamir: curve admits (0, 0) as a finite point")

	errUnknownCurve = errors.New("shamir: unknown curve")
)

// Point is a point on an elliptic curve.  Points are immutable, and
// are only ever created by the Curve that they belong to.
type Point interface {
	// IsIdentity returns true iff the point is the point at infinity.
	IsIdentity() bool

	// Coordinates returns the big-endian affine coordinates of the
	// point.  The point at infinity returns all-zero coordinates.
	Coordinates() (x, y *[CoordSize]byte)
}

// Curve is the group arithmetic that tables are built with.  Passing
// a Point created by a different Curve to any of the arithmetic
// methods is a programming error, and will panic.
type Curve interface {
	// Name returns the canonical name of the curve.
	Name() string

	// Generator returns the curve's standard generator.
	Generator() Point

	// Identity returns the point at infinity.
	Identity() Point

	// NewPoint returns the finite point with the big-endian affine
	// coordinates `(x, y)`, or ErrInvalidPoint if the coordinates are
	// not canonical, or the point is not on the curve.
	NewPoint(x, y []byte) (Point, error)

	// Add returns `p + q`.
	Add(p, q Point) Point

	// Double returns `p + p`.
	Double(p Point) Point

	// ScalarMult returns `s * p`.
	ScalarMult(p Point, s *Scalar) Point
}

// CurveByName returns the Curve registered under `name`.  Names are
// case-insensitive.
func CurveByName(name string) (Curve, error) {
	switch strings.ToLower(name) {
	case "p256", "p-256", "secp256r1", "prime256v1":
		return P256(), nil
	case "secp256k1", "k256":
		return Secp256k1(), nil
	case "bn254", "bn256", "alt_bn128":
		return BN254(), nil
	}
	return nil, errors.Wrapf(errUnknownCurve, "'%s'", name)
}

// Equal returns true iff `p` and `q` are the same point.
func Equal(p, q Point) bool {
	if p.IsIdentity() || q.IsIdentity() {
		return p.IsIdentity() == q.IsIdentity()
	}

	px, py := p.Coordinates()
	qx, qy := q.Coordinates()
	return *px == *qx && *py == *qy
}

var identityChecks sync.Map // curve name -> error

// checkIdentityEncoding ensures that the all-zero coordinate pair is
// not a finite point on `c`, so that it can unambiguously encode the
// point at infinity.
func checkIdentityEncoding(c Curve) error {
	if v, ok := identityChecks.Load(c.Name()); ok {
		if v == nil {
			return nil
		}
		return v.(error)
	}

	var (
		zero [CoordSize]byte
		err  error
	)
	if _, pErr := c.NewPoint(zero[:], zero[:]); pErr == nil {
		err = errors.Wrapf(ErrAmbiguousIdentity, "curve '%s'", c.Name())
	}

	if err == nil {
		identityChecks.Store(c.Name(), nil)
	} else {
		identityChecks.Store(c.Name(), err)
	}

	return err
}

func panicWrongCurve(c Curve) {
	panic("shamir/" + c.Name() + ": point belongs to a different curve")
}
