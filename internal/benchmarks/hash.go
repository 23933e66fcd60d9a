package benchmarks

import "unicode/utf16"

const (
	fnvOffset uint32 = 2166136261
	fnvPrime  uint32 = 16777619
)

// hash is 32-bit FNV-1a over the UTF-16 code units of s, so values match
// those computed by browser clients for the same strings.
func hash(s string) uint32 {
	h := fnvOffset
	for _, unit := range utf16.Encode([]rune(s)) {
		h ^= uint32(unit)
		h *= fnvPrime
	}
	return h
}

// unitInterval maps s onto [0, 1)
func unitInterval(s string) float64 {
	return float64(hash(s)) / 4294967296.0
}
