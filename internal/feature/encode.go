package feature

import (
	"crypto/md5"

	"golang.org/x/text/unicode/norm"
)

// Encode maps a categorical string to a stable integer in
// [0, EncodingModulus). The value is NFC-normalized, MD5-hashed, and the
// full digest reduced modulo EncodingModulus, so the same attribute encodes
// identically across processes and machines, unlike a runtime's randomized
// object hash. Collisions are acceptable: the encoding is lossy. The empty
// string means an absent attribute and encodes to 0.
//
// The digest algorithm and modulus are part of every trained model's
// schema; changing either is a model-breaking change.
func Encode(value string) float64 {
	if value == "" {
		return 0
	}
	sum := md5.Sum([]byte(norm.NFC.String(value)))

	// Big-endian reduction of the 128-bit digest.
	acc := 0
	for _, b := range sum {
		acc = (acc*256 + int(b)) % EncodingModulus
	}
	return float64(acc)
}
