// Package safeconv holds checked integer conversions for values crossing the
// cgo boundary, where C-sized types meet Go ints.
package safeconv

// MaxInt is the largest value an int holds on this platform.
const MaxInt = int(^uint(0) >> 1)

// MustUintToInt converts v to int, panicking on overflow. Meant for values
// with a small known range, like a commit's parent count.
func MustUintToInt(v uint) int {
	if v > uint(MaxInt) {
		panic("safeconv: uint to int overflow")
	}

	return int(v)
}

// MustIntToUint converts v to uint, panicking when v is negative. Meant for
// indexes the caller has already range-checked.
func MustIntToUint(v int) uint {
	if v < 0 {
		panic("safeconv: negative int to uint conversion")
	}

	return uint(v)
}
