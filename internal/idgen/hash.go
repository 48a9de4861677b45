// Package idgen generates deterministic decision identifiers.
package idgen

import (
	"crypto/sha256"
	"encoding/binary"
	"strings"
)

// base36Alphabet is the character set for base36 encoding (0-9, a-z).
const base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

const (
	minHashLen = 3
	maxHashLen = 6
)

// EncodeBase36 renders n in base36 with no padding. Zero encodes as "0".
func EncodeBase36(n uint32) string {
	if n == 0 {
		return "0"
	}
	var chars [7]byte // 2^32 needs at most 7 base36 digits
	i := len(chars)
	for n > 0 {
		i--
		chars[i] = base36Alphabet[n%36]
		n /= 36
	}
	return string(chars[i:])
}

// Generate creates the ID for a decision with the given title created at createdAt.
// The digest covers title and createdAt concatenated with no separator; its first
// 32 bits are rendered in base36, zero-padded to 3 and cut to the 6 most
// significant digits. Identical inputs always produce the identical ID.
func Generate(prefix, title, createdAt string) string {
	hash := sha256.Sum256([]byte(title + createdAt))
	short := EncodeBase36(binary.BigEndian.Uint32(hash[:4]))

	if len(short) < minHashLen {
		short = strings.Repeat("0", minHashLen-len(short)) + short
	}
	if len(short) > maxHashLen {
		short = short[:maxHashLen]
	}
	return prefix + "-" + short
}
