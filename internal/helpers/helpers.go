// Package helpers provides miscellaneous helpers shared by the rest of
// the module.
package helpers

import (
	"encoding/hex"
	"strings"
)

// DecodeHex decodes a hexadecimal string, tolerating an optional `0x`
// prefix and surrounding whitespace, as found in EVM tooling output.
func DecodeHex(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	return hex.DecodeString(s)
}

// MustBytesFromHex decodes a hexadecimal string, and panics on failure.
func MustBytesFromHex(s string) []byte {
	b, err := DecodeHex(s)
	if err != nil {
		panic("helpers: invalid hex string: " + err.Error())
	}
	return b
}

// EncodeHex returns the `0x`-prefixed hexadecimal encoding of `b`.
func EncodeHex(b []byte) string {
	return "0x" + hex.EncodeToString(b)
}
