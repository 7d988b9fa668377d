package shamir

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"gitlab.com/yawning/shamir-voi/internal/helpers"
)

var testCurves = []Curve{P256(), Secp256k1(), BN254()}

func TestCurve(t *testing.T) {
	for _, c := range testCurves {
		t.Run(c.Name(), func(t *testing.T) {
			testCurveGroupLaw(t, c)
			testCurveNewPoint(t, c)
		})
	}

	t.Run("Generator/KAT", func(t *testing.T) {
		for _, tc := range []struct {
			c    Curve
			x, y string
		}{
			{
				P256(),
				"6b17d1f2e12c4247f8bce6e563a440f277037d812deb33a0f4a13945d898c296",
				"4fe342e2fe1a7f9b8ee7eb4a7c0f9e162bce33576b315ececbb6406837bf51f5",
			},
			{
				Secp256k1(),
				"79be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798",
				"483ada7726a3c4655da4fbfc0e1108a8fd17b448a68554199c47d08ffb10d4b8",
			},
			{
				BN254(),
				"0000000000000000000000000000000000000000000000000000000000000001",
				"0000000000000000000000000000000000000000000000000000000000000002",
			},
		} {
			x, y := tc.c.Generator().Coordinates()
			require.Equal(t, helpers.MustBytesFromHex(tc.x), x[:], "%s: G.x", tc.c.Name())
			require.Equal(t, helpers.MustBytesFromHex(tc.y), y[:], "%s: G.y", tc.c.Name())
		}
	})

	t.Run("CurveByName", func(t *testing.T) {
		for name, expected := range map[string]Curve{
			"p256":      P256(),
			"P-256":     P256(),
			"secp256r1": P256(),
			"secp256k1": Secp256k1(),
			"bn254":     BN254(),
			"alt_bn128": BN254(),
		} {
			c, err := CurveByName(name)
			require.NoError(t, err, "CurveByName(%s)", name)
			require.Equal(t, expected.Name(), c.Name(), "CurveByName(%s)", name)
		}

		_, err := CurveByName("curve25519")
		require.Error(t, err, "CurveByName(curve25519)")
	})

	t.Run("WrongCurve", func(t *testing.T) {
		g := Secp256k1().Generator()
		require.Panics(t, func() { P256().Double(g) }, "p256 Double(secp256k1 point)")
		require.Panics(t, func() { BN254().Add(g, g) }, "bn254 Add(secp256k1 point)")
		require.Panics(t, func() { Secp256k1().ScalarMult(P256().Generator(), &Scalar{}) }, "secp256k1 ScalarMult(p256 point)")
	})
}

func testCurveGroupLaw(t *testing.T, c Curve) {
	g, id := c.Generator(), c.Identity()

	require.False(t, g.IsIdentity(), "G != id")
	require.True(t, id.IsIdentity(), "id == id")

	x, y := id.Coordinates()
	require.Equal(t, [CoordSize]byte{}, *x, "id.x == 0")
	require.Equal(t, [CoordSize]byte{}, *y, "id.y == 0")

	requirePointEquals(t, g, c.Add(g, id), "G + id = G")
	requirePointEquals(t, g, c.Add(id, g), "id + G = G")
	requirePointEquals(t, id, c.Double(id), "2 * id = id")

	g2 := c.Double(g)
	requirePointEquals(t, g2, c.Add(g, g), "2 * G = G + G")
	requirePointEquals(t, g2, c.ScalarMult(g, scalarFromUint64(2)), "2 * G = G.mul(2)")
	requirePointEquals(t, c.Add(g2, g), c.ScalarMult(g, scalarFromUint64(3)), "2 * G + G = G.mul(3)")

	require.True(t, c.ScalarMult(g, &Scalar{}).IsIdentity(), "0 * G = id")
	require.True(t, c.ScalarMult(id, mustRandomScalar()).IsIdentity(), "s * id = id")

	// (s1 + s2) * G = s1 * G + s2 * G, with small enough scalars that
	// the sum does not wrap.
	s1, s2 := mustRandomScalar(), mustRandomScalar()
	s1[0], s2[0] = 0, 0
	sum, err := NewScalarFromBigInt(s1.BigInt().Add(s1.BigInt(), s2.BigInt()))
	require.NoError(t, err, "NewScalarFromBigInt(s1 + s2)")
	requirePointEquals(t,
		c.ScalarMult(g, sum),
		c.Add(c.ScalarMult(g, s1), c.ScalarMult(g, s2)),
		"(s1 + s2) * G = s1 * G + s2 * G",
	)
}

func testCurveNewPoint(t *testing.T, c Curve) {
	p := c.ScalarMult(c.Generator(), mustRandomScalar())
	x, y := p.Coordinates()

	q, err := c.NewPoint(x[:], y[:])
	require.NoError(t, err, "NewPoint(p.Coordinates())")
	requirePointEquals(t, p, q, "NewPoint(p.Coordinates()) = p")

	// Off-curve.
	yBad := *y
	yBad[CoordSize-1] ^= 1
	_, err = c.NewPoint(x[:], yBad[:])
	require.ErrorIs(t, err, ErrInvalidPoint, "NewPoint(off-curve)")

	// Non-canonical.
	var ff [CoordSize]byte
	for i := range ff {
		ff[i] = 0xff
	}
	_, err = c.NewPoint(ff[:], y[:])
	require.ErrorIs(t, err, ErrInvalidPoint, "NewPoint(x >= p)")

	// Truncated.
	_, err = c.NewPoint(x[1:], y[:])
	require.ErrorIs(t, err, ErrInvalidPoint, "NewPoint(short x)")

	// The all-zero pair is reserved for the point at infinity.
	var zero [CoordSize]byte
	_, err = c.NewPoint(zero[:], zero[:])
	require.ErrorIs(t, err, ErrInvalidPoint, "NewPoint(0, 0)")
	require.NoError(t, checkIdentityEncoding(c), "checkIdentityEncoding")
}

// zeroAcceptingCurve is a broken curve that accepts `(0, 0)` as a
// finite point.
type zeroAcceptingCurve struct {
	Curve
}

func (c *zeroAcceptingCurve) Name() string {
	return "zero-accepting"
}

func (c *zeroAcceptingCurve) NewPoint(x, y []byte) (Point, error) {
	if isAllZero(x) && isAllZero(y) {
		return c.Identity(), nil
	}
	return c.Curve.NewPoint(x, y)
}

func requirePointEquals(t *testing.T, expected, actual Point, descr string) {
	require.NotNil(t, expected, descr)
	require.NotNil(t, actual, descr)

	ex, ey := expected.Coordinates()
	ax, ay := actual.Coordinates()
	require.Equal(t, expected.IsIdentity(), actual.IsIdentity(), "%s: IsIdentity", descr)
	require.Equal(t, ex[:], ax[:], "%s: X", descr)
	require.Equal(t, ey[:], ay[:], "%s: Y", descr)
	require.True(t, Equal(expected, actual), descr) // For good measure.
}

func scalarFromUint64(v uint64) *Scalar {
	var s Scalar
	for i := ScalarSize - 1; v != 0; i-- {
		s[i] = byte(v)
		v >>= 8
	}
	return &s
}

func mustRandomScalar() *Scalar {
	var s Scalar
	if _, err := rand.Read(s[:]); err != nil {
		panic("shamir: entropy source failure")
	}
	return &s
}
