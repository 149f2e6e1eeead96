// Package xxh3 implements the 64-bit variant of the XXH3 hash algorithm.
//
// XXH3 is the latest generation of the xxHash family of non-cryptographic
// hash functions, superseding XXH64 (github.com/cespare/xxhash) with better
// short-input dispersion and higher throughput across the board. Output is
// bit-exact with the reference xxHash implementation.
//
// Keying comes in four flavours: unkeyed, seeded (a 64-bit seed), keyed by a
// caller-supplied secret of at least 136 bytes, and seeded+keyed. The one-shot
// functions and the streaming Hasher always produce the same digest for the
// same byte sequence, no matter how the input is chunked.
package xxh3

import "math/bits"

const (
	// stripeLen is the unit of input consumed by one accumulate step.
	stripeLen = 64
	// accNB is the number of 64-bit accumulator lanes (one stripe's worth).
	accNB = stripeLen / 8

	// secretConsumeRate is how far the secret window advances per stripe.
	secretConsumeRate = 8
	// secretLastAccStart backs the secret off for the final stripe.
	secretLastAccStart = 7
	// secretMergeAccsStart is the secret offset used by the final merge.
	secretMergeAccsStart = 11

	// midsizeMax is the largest input handled by a closed-form formula.
	// Anything longer goes through the stripe accumulation engine.
	midsizeMax         = 240
	midsizeStartOffset = 3
	midsizeLastOffset  = 17
)

const (
	prime32_1 = 2654435761
	prime32_2 = 2246822519
	prime32_3 = 3266489917

	prime64_1 = 0x9E3779B185EBCA87
	prime64_2 = 0xC2B2AE3D27D4EB4F
	prime64_3 = 0x165667B19E3779F9
	prime64_4 = 0x85EBCA77C2B2AE63
	prime64_5 = 0x27D4EB2F165667C5
)

// Hash returns the 64-bit XXH3 digest of data. Zero heap allocations.
func Hash(data []byte) uint64 {
	if len(data) <= midsizeMax {
		return hashSmall(data, kSecret[:], 0)
	}
	return hashLong(data, kSecret[:])
}

// HashString returns the 64-bit XXH3 digest of s.
func HashString(s string) uint64 {
	return Hash([]byte(s))
}

// HashSeed returns the digest of data keyed by seed. Seed 0 is equivalent to
// Hash.
func HashSeed(data []byte, seed uint64) uint64 {
	if len(data) <= midsizeMax {
		return hashSmall(data, kSecret[:], seed)
	}
	if seed == 0 {
		return hashLong(data, kSecret[:])
	}
	secret := deriveSecret(seed)
	return hashLong(data, secret[:])
}

// HashSecret returns the digest of data keyed by a caller-supplied secret.
// The secret must be at least SecretMinLen bytes or ErrShortSecret is
// returned.
func HashSecret(data, secret []byte) (uint64, error) {
	if err := checkSecret(secret); err != nil {
		return 0, err
	}
	if len(data) <= midsizeMax {
		return hashSmall(data, secret, 0), nil
	}
	return hashLong(data, secret), nil
}

// HashSecretSeed returns the digest of data keyed by both a secret and a
// seed. Per the reference algorithm, inputs up to 240 bytes are hashed with
// the default secret plus the seed; only longer inputs use the supplied
// secret.
func HashSecretSeed(data, secret []byte, seed uint64) (uint64, error) {
	if err := checkSecret(secret); err != nil {
		return 0, err
	}
	if len(data) <= midsizeMax {
		return hashSmall(data, kSecret[:], seed), nil
	}
	return hashLong(data, secret), nil
}

// hashSmall dispatches inputs of up to 240 bytes to their size tier.
// Each tier is a distinct closed-form formula over the input and fixed
// slices of the secret.
func hashSmall(data, secret []byte, seed uint64) uint64 {
	switch {
	case len(data) > 128:
		return hashLen129to240(data, secret, seed)
	case len(data) > 16:
		return hashLen17to128(data, secret, seed)
	case len(data) > 8:
		return hashLen9to16(data, secret, seed)
	case len(data) >= 4:
		return hashLen4to8(data, secret, seed)
	case len(data) > 0:
		return hashLen1to3(data, secret, seed)
	default:
		return xxh64Avalanche(seed ^ le64(secret[56:]) ^ le64(secret[64:]))
	}
}

func hashLen1to3(data, secret []byte, seed uint64) uint64 {
	// Pack first, middle and last byte plus the length into 32 bits, so all
	// three lengths produce distinct patterns.
	c1 := uint32(data[0])
	c2 := uint32(data[len(data)>>1])
	c3 := uint32(data[len(data)-1])
	combined := c1<<16 | c2<<24 | c3 | uint32(len(data))<<8
	bitflip := uint64(le32(secret)^le32(secret[4:])) + seed
	return xxh64Avalanche(uint64(combined) ^ bitflip)
}

func hashLen4to8(data, secret []byte, seed uint64) uint64 {
	seed ^= uint64(bits.ReverseBytes32(uint32(seed))) << 32
	in1 := le32(data)
	in2 := le32(data[len(data)-4:]) // overlaps in1 when len < 8
	bitflip := (le64(secret[8:]) ^ le64(secret[16:])) - seed
	input64 := uint64(in2) + uint64(in1)<<32
	return rrmxmx(input64^bitflip, uint64(len(data)))
}

func hashLen9to16(data, secret []byte, seed uint64) uint64 {
	bitflip1 := (le64(secret[24:]) ^ le64(secret[32:])) + seed
	bitflip2 := (le64(secret[40:]) ^ le64(secret[48:])) - seed
	inLo := le64(data) ^ bitflip1
	inHi := le64(data[len(data)-8:]) ^ bitflip2 // overlaps inLo when len < 16
	acc := uint64(len(data)) + bits.ReverseBytes64(inLo) + inHi + mul128Fold64(inLo, inHi)
	return avalanche(acc)
}

func hashLen17to128(data, secret []byte, seed uint64) uint64 {
	acc := uint64(len(data)) * prime64_1
	n := len(data)
	if n > 32 {
		if n > 64 {
			if n > 96 {
				acc += mix16B(data[48:], secret[96:], seed)
				acc += mix16B(data[n-64:], secret[112:], seed)
			}
			acc += mix16B(data[32:], secret[64:], seed)
			acc += mix16B(data[n-48:], secret[80:], seed)
		}
		acc += mix16B(data[16:], secret[32:], seed)
		acc += mix16B(data[n-32:], secret[48:], seed)
	}
	acc += mix16B(data, secret, seed)
	acc += mix16B(data[n-16:], secret[16:], seed)
	return avalanche(acc)
}

func hashLen129to240(data, secret []byte, seed uint64) uint64 {
	acc := uint64(len(data)) * prime64_1
	for i := 0; i < 8; i++ {
		acc += mix16B(data[16*i:], secret[16*i:], seed)
	}
	acc = avalanche(acc)
	for i := 8; i < len(data)/16; i++ {
		acc += mix16B(data[16*i:], secret[16*(i-8)+midsizeStartOffset:], seed)
	}
	acc += mix16B(data[len(data)-16:], secret[SecretMinLen-midsizeLastOffset:], seed)
	return avalanche(acc)
}
