// Package seed derives stable 32-bit seeds from text and owns the policy that
// chooses between an explicit seed and the text-derived fallback.
package seed

import (
	"math/rand/v2"
	"strings"
	"unicode/utf16"
)

const (
	offsetBasis = 2166136261
	prime       = 16777619

	// MaxRandom bounds seeds produced by Random.
	MaxRandom = 1 << 31
)

// Hash is a 32-bit FNV-1a hash over the UTF-16 code units of text, with the
// sign of the 32-bit result discarded. The empty string hashes to the offset
// basis itself; the sign fold applies only once a code unit has been mixed in.
func Hash(text string) uint32 {
	units := utf16.Encode([]rune(text))
	if len(units) == 0 {
		return offsetBasis
	}
	h := uint32(offsetBasis)
	for _, unit := range units {
		h = (h ^ uint32(unit)) * prime
	}
	if v := int32(h); v < 0 {
		return uint32(-int64(v))
	}
	return h
}

// Hue reduces the hash of text to an angle in [0, 360).
func Hue(text string) int {
	return int(Hash(text) % 360)
}

// Resolve returns explicit when it is set and Hash(mood) otherwise. Zero is
// treated as unset, so the same mood text always reaches the same fallback.
// The palette hue of unknown moods is derived from the same hash; keeping both
// uses behind this function is what couples them.
func Resolve(mood string, explicit uint32) uint32 {
	if explicit != 0 {
		return explicit
	}
	return Hash(mood)
}

// Parse reads the leading decimal integer of raw, after an optional sign, and
// ignores whatever follows it ("42abc" and "42.9" both give 42). Values
// outside 32 bits wrap. Input with no leading digits yields 0 (unset).
func Parse(raw string) uint32 {
	raw = strings.TrimSpace(raw)
	neg := false
	if raw != "" && (raw[0] == '+' || raw[0] == '-') {
		neg = raw[0] == '-'
		raw = raw[1:]
	}
	end := 0
	for end < len(raw) && raw[end] >= '0' && raw[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	var v uint32
	for _, d := range raw[:end] {
		v = v*10 + uint32(d-'0')
	}
	if neg {
		return -v
	}
	return v
}

// Random returns a fresh non-zero seed in [1, MaxRandom).
func Random() uint32 {
	return uint32(1 + rand.IntN(MaxRandom-1))
}
