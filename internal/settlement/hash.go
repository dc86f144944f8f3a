// Deterministic hashing helpers. Every stochastic-looking decision in the
// engine is a pure function of the world seed string and a textual key, so
// two independent computations of the same entity roll identically.
package settlement

import (
	"hash/fnv"
	"strconv"
)

// hashKey folds the seed and key parts into a 64-bit FNV-1a hash.
func hashKey(seed string, parts ...string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(seed))
	for _, p := range parts {
		h.Write([]byte{'|'})
		h.Write([]byte(p))
	}
	return h.Sum64()
}

// roll returns a deterministic value in [0, 1) for the seed and key parts.
func roll(seed string, parts ...string) float64 {
	// Top 53 bits give a uniform float64 in [0, 1).
	return float64(hashKey(seed, parts...)>>11) / float64(1<<53)
}

// rollSign returns +1 or -1 for the seed and key parts.
func rollSign(seed string, parts ...string) float64 {
	if hashKey(seed, parts...)&1 == 0 {
		return 1
	}
	return -1
}

func itoa(v int) string { return strconv.Itoa(v) }
