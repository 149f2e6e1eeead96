package xxh3

import (
	"encoding/binary"
	"math/bits"
)

// avalanche is the standard XXH3 output mixer.
func avalanche(h uint64) uint64 {
	h ^= h >> 37
	h *= 0x165667919E3779F9
	h ^= h >> 32
	return h
}

// xxh64Avalanche is the classic XXH64 finalizer, kept for the 0-3 byte tiers.
func xxh64Avalanche(h uint64) uint64 {
	h ^= h >> 33
	h *= prime64_2
	h ^= h >> 29
	h *= prime64_3
	h ^= h >> 32
	return h
}

// rrmxmx mixes h for the 4-8 byte tier, keyed by the input length.
func rrmxmx(h, n uint64) uint64 {
	h ^= bits.RotateLeft64(h, 49) ^ bits.RotateLeft64(h, 24)
	h *= 0x9FB21C651E98DF25
	h ^= (h >> 35) + n
	h *= 0x9FB21C651E98DF25
	return h ^ h>>28
}

// mul128Fold64 returns the low 64 bits of the full 128-bit product of a and b
// XORed with the high 64 bits. bits.Mul64 compiles to a single widening
// multiply on 64-bit targets.
func mul128Fold64(a, b uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	return lo ^ hi
}

// mul128Fold64Portable computes the same fold from four 32x32 partial
// products. Must agree with mul128Fold64 on every operand pair.
func mul128Fold64Portable(a, b uint64) uint64 {
	loLo := (a & 0xFFFFFFFF) * (b & 0xFFFFFFFF)
	hiLo := (a >> 32) * (b & 0xFFFFFFFF)
	loHi := (a & 0xFFFFFFFF) * (b >> 32)
	hiHi := (a >> 32) * (b >> 32)
	cross := (loLo >> 32) + (hiLo & 0xFFFFFFFF) + loHi
	hi := (hiLo >> 32) + (cross >> 32) + hiHi
	lo := cross<<32 | loLo&0xFFFFFFFF
	return lo ^ hi
}

// mix16B folds 16 bytes of input against 16 bytes of seed-adjusted secret.
// Shared by the 17-128 and 129-240 byte tiers.
func mix16B(data, secret []byte, seed uint64) uint64 {
	lo := le64(data) ^ (le64(secret) + seed)
	hi := le64(data[8:]) ^ (le64(secret[8:]) - seed)
	return mul128Fold64(lo, hi)
}

func le32(b []byte) uint32 { return binary.LittleEndian.Uint32(b) }

func le64(b []byte) uint64 { return binary.LittleEndian.Uint64(b) }
