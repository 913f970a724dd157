// Package helpers provides small shared utility routines.
package helpers

import "encoding/hex"

// MustBytesFromHex decodes the hex-encoded string, or panics.  It is
// intended for initializing hard-coded constants and test vectors.
func MustBytesFromHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic("internal/helpers: invalid constant: " + err.Error())
	}
	return b
}
