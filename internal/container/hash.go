package container

// FNV-1a constants for 32-bit hash.
const (
	fnvBasis32 uint32 = 2166136261
	fnvPrime32 uint32 = 16777619
)

// Hasher maps a key to a 32-bit bucket hash.
type Hasher[K comparable] func(K) uint32

// StringHash is the FNV-1a hash of s.
func StringHash(s string) uint32 {
	h := fnvBasis32
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= fnvPrime32
	}
	return h
}

// BytesHash is the FNV-1a hash of b; BytesHash(b) == StringHash(string(b)).
func BytesHash(b []byte) uint32 {
	h := fnvBasis32
	for _, c := range b {
		h ^= uint32(c)
		h *= fnvPrime32
	}
	return h
}

// Uint64Hash folds a 64-bit integer key (typically a stored pointer value)
// into 32 bits. Stored addresses are aligned, so the low bits carry little
// entropy on their own and are mixed with the high half first.
func Uint64Hash(v uint64) uint32 {
	v ^= v >> 33
	v *= 0xff51afd7ed558ccd
	v ^= v >> 33
	return uint32(v)
}

// Uint32Hash is the identity hash for keys that are already hashes.
func Uint32Hash(v uint32) uint32 { return v }

// IdentityHash hashes a pointer-sized identity.
func IdentityHash(p uintptr) uint32 {
	return Uint64Hash(uint64(p))
}
