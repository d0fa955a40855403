// Package memzero wipes key material that is no longer needed.
package memzero

import "crypto/subtle"

// Zero overwrites b with zeros. ConstantTimeCopy keeps the compiler from
// dropping the write as dead.
func Zero(b []byte) {
	if len(b) == 0 {
		return
	}
	subtle.ConstantTimeCopy(1, b, make([]byte, len(b)))
}

// ZeroAll zeroes every slice in bs.
func ZeroAll(bs ...[]byte) {
	for _, b := range bs {
		Zero(b)
	}
}
