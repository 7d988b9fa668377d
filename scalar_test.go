package shamir

import (
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScalar(t *testing.T) {
	t.Run("NewScalarFromHex", func(t *testing.T) {
		s, err := NewScalarFromHex("0x1654571b36d1b8964f9e7079e4adb4a9e4ae9e631bc6dcfeeec92a7d8f2e2207")
		require.NoError(t, err, "NewScalarFromHex")
		require.Equal(t, "1654571b36d1b8964f9e7079e4adb4a9e4ae9e631bc6dcfeeec92a7d8f2e2207", s.String())

		s, err = NewScalarFromHex("abc")
		require.NoError(t, err, "NewScalarFromHex(odd length)")
		require.EqualValues(t, 0xabc, s.BigInt().Uint64())

		_, err = NewScalarFromHex("0x" + "00" + s.String())
		require.Error(t, err, "NewScalarFromHex(33 bytes)")

		_, err = NewScalarFromHex("xyz")
		require.Error(t, err, "NewScalarFromHex(garbage)")
	})
	t.Run("NewScalarFromBigInt", func(t *testing.T) {
		top := new(big.Int).Lsh(big.NewInt(1), ScalarBits)
		top.Sub(top, big.NewInt(1))

		s, err := NewScalarFromBigInt(top)
		require.NoError(t, err, "NewScalarFromBigInt(2^256 - 1)")
		require.Equal(t, 0, top.Cmp(s.BigInt()), "2^256 - 1 round trip")

		_, err = NewScalarFromBigInt(new(big.Int).Add(top, big.NewInt(1)))
		require.Error(t, err, "NewScalarFromBigInt(2^256)")

		_, err = NewScalarFromBigInt(big.NewInt(-1))
		require.Error(t, err, "NewScalarFromBigInt(-1)")
	})
	t.Run("NewScalarFromBytes", func(t *testing.T) {
		s, err := NewScalarFromBytes([]byte{0x01, 0x02})
		require.NoError(t, err, "NewScalarFromBytes(short)")
		require.EqualValues(t, 0x0102, s.BigInt().Uint64())
		require.Len(t, s.Bytes(), ScalarSize, "Bytes() is fixed width")

		_, err = NewScalarFromBytes(make([]byte, ScalarSize+1))
		require.Error(t, err, "NewScalarFromBytes(long)")
	})
	t.Run("Window", func(t *testing.T) {
		s, err := NewScalarFromHex("f1" + strings.Repeat("0", 58) + "a5c3")
		require.NoError(t, err, "NewScalarFromHex")

		// w = 4: first window is the high nibble, last is the low nibble.
		require.EqualValues(t, 0xf, s.window(0, 4), "w=4 window 0")
		require.EqualValues(t, 0x1, s.window(1, 4), "w=4 window 1")
		require.EqualValues(t, 0x3, s.window(63, 4), "w=4 window 63")
		require.EqualValues(t, 0xc, s.window(62, 4), "w=4 window 62")

		// w = 8 is byte aligned.
		require.EqualValues(t, 0xf1, s.window(0, 8), "w=8 window 0")
		require.EqualValues(t, 0xc3, s.window(31, 8), "w=8 window 31")
		require.EqualValues(t, 0xa5, s.window(30, 8), "w=8 window 30")

		// w = 2, w = 1.
		require.EqualValues(t, 0x3, s.window(0, 2), "w=2 window 0")
		require.EqualValues(t, 0x3, s.window(127, 2), "w=2 window 127")
		require.EqualValues(t, 0x0, s.window(126, 2), "w=2 window 126")
		require.EqualValues(t, 1, s.window(0, 1), "w=1 window 0")
		require.EqualValues(t, 1, s.window(255, 1), "w=1 window 255")
		require.EqualValues(t, 0, s.window(253, 1), "w=1 window 253")

		// Reassembling the windows yields the scalar, for every width.
		for _, w := range []int{1, 2, 4, 8} {
			r := mustRandomScalar()
			acc := new(big.Int)
			for it := 0; it < ScalarBits/w; it++ {
				acc.Lsh(acc, uint(w))
				acc.Or(acc, new(big.Int).SetUint64(r.window(it, w)))
			}
			require.Equal(t, 0, acc.Cmp(r.BigInt()), "w=%d: windows reassemble to the scalar", w)
		}
	})
}
