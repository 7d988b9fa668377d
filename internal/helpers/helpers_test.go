package helpers

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeHex(t *testing.T) {
	for _, tc := range []struct {
		in       string
		expected []byte
	}{
		{"", []byte{}},
		{"00", []byte{0x00}},
		{"0xdeadbeef", []byte{0xde, 0xad, 0xbe, 0xef}},
		{"0XDEADBEEF", []byte{0xde, 0xad, 0xbe, 0xef}},
		{"  6080\n", []byte{0x60, 0x80}},
	} {
		b, err := DecodeHex(tc.in)
		require.NoError(t, err, "DecodeHex(%q)", tc.in)
		require.Equal(t, tc.expected, b, "DecodeHex(%q)", tc.in)
	}

	_, err := DecodeHex("0x123")
	require.Error(t, err, "DecodeHex(odd length)")

	_, err = DecodeHex("0xzz")
	require.Error(t, err, "DecodeHex(non-hex)")
}

func TestMustBytesFromHex(t *testing.T) {
	require.Equal(t, []byte{0x01, 0x02}, MustBytesFromHex("0x0102"))
	require.Panics(t, func() { MustBytesFromHex("nope") })
}

func TestEncodeHex(t *testing.T) {
	require.Equal(t, "0x", EncodeHex(nil))
	require.Equal(t, "0x00ff", EncodeHex([]byte{0x00, 0xff}))
}
