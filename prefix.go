package blockindex

import "encoding/binary"

// CommonPrefixLen returns the largest i such that a[:i] equals b[:i].
func CommonPrefixLen(a, b []byte) int {
	i, n := 0, len(a)
	if n > len(b) {
		n = len(b)
	}
	for i < n-7 && binary.LittleEndian.Uint64(a[i:]) == binary.LittleEndian.Uint64(b[i:]) {
		i += 8
	}
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}

// MinimalSeparator returns the shortest prefix of next which still sorts after
// prev, that is next[:CommonPrefixLen(prev, next)+1]. If next is a prefix of
// prev (or equal to it), next is returned in full.
// The result shares memory with next.
func MinimalSeparator(prev, next []byte) []byte {
	n := CommonPrefixLen(prev, next) + 1
	if n > len(next) {
		n = len(next)
	}
	return next[:n]
}
