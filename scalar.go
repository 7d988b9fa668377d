package shamir

import (
	"encoding/hex"
	"math/big"
	"strings"

	"github.com/pkg/errors"
)

// ScalarSize is the size of a scalar in bytes.
const ScalarSize = 32

// ScalarBits is the fixed bit-length of a scalar.
const ScalarBits = ScalarSize * 8

var errInvalidScalar = errors.New("shamir: invalid scalar")

// Scalar is a fixed-width 256-bit unsigned integer, stored big-endian.
// Scalars are deliberately NOT reduced modulo any group order, and are
// always treated as exactly ScalarBits wide.  The zero value is a valid
// zero scalar.
type Scalar [ScalarSize]byte

// NewScalarFromBytes returns the scalar with the big-endian encoding
// `src`, which MUST be at most ScalarSize bytes long.  Shorter inputs
// are left-padded with zeros.
func NewScalarFromBytes(src []byte) (*Scalar, error) {
	if len(src) > ScalarSize {
		return nil, errors.Wrapf(errInvalidScalar, "%d bytes is too long", len(src))
	}

	var s Scalar
	copy(s[ScalarSize-len(src):], src)
	return &s, nil
}

// NewScalarFromBigInt returns the scalar equal to `z`, which MUST be
// in the range `[0, 2^256)`.
func NewScalarFromBigInt(z *big.Int) (*Scalar, error) {
	if z.Sign() < 0 || z.BitLen() > ScalarBits {
		return nil, errors.Wrapf(errInvalidScalar, "%s is out of range", z.Text(16))
	}

	var s Scalar
	z.FillBytes(s[:])
	return &s, nil
}

// NewScalarFromHex returns the scalar with the big-endian hexadecimal
// encoding `src`, with an optional `0x` prefix.  Odd-length inputs are
// accepted.
func NewScalarFromHex(src string) (*Scalar, error) {
	src = strings.TrimPrefix(strings.TrimPrefix(src, "0x"), "0X")
	if len(src)%2 != 0 {
		src = "0" + src
	}

	b, err := hex.DecodeString(src)
	if err != nil {
		return nil, errors.Wrap(errInvalidScalar, err.Error())
	}
	return NewScalarFromBytes(b)
}

// Bytes returns a copy of the big-endian encoding of `s`.
func (s *Scalar) Bytes() []byte {
	return append([]byte{}, s[:]...)
}

// BigInt returns `s` as a big.Int.
func (s *Scalar) BigInt() *big.Int {
	return new(big.Int).SetBytes(s[:])
}

// String returns the hexadecimal encoding of `s`.
func (s *Scalar) String() string {
	return hex.EncodeToString(s[:])
}

// window returns the `w` bits of `s` that make up window `it`, where
// window 0 is the most significant.  `w` MUST divide ScalarBits.
func (s *Scalar) window(it, w int) uint64 {
	n := ScalarBits / w
	lo := (n - it - 1) * w // Least significant bit of the window.

	var v uint64
	for bit := lo + w - 1; bit >= lo; bit-- {
		// Bit 0 is the LSB of the last byte.
		b := s[ScalarSize-1-bit/8] >> (bit % 8) & 1
		v = v<<1 | uint64(b)
	}
	return v
}
