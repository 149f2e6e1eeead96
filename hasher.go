package xxh3

import "hash"

const (
	// internalBufLen is the staging buffer size: four stripes. Inputs that
	// never exceed it are replayed through the small-input dispatch at digest
	// time, which keeps streaming and one-shot results identical by
	// construction.
	internalBufLen     = 256
	internalBufStripes = internalBufLen / stripeLen
)

// Hasher is a streaming XXH3-64 hasher. It implements hash.Hash64.
//
// A Hasher is not safe for concurrent use; give each goroutine its own.
type Hasher struct {
	acc [accNB]uint64

	// buf stages input until a full 256 bytes can be absorbed. Its tail also
	// retains the 64 bytes preceding the current partial stripe, which the
	// final-stripe rule needs at digest time.
	buf      [internalBufLen]byte
	buffered int
	totalLen uint64

	stripesSoFar    int
	stripesPerBlock int

	secret  []byte
	seed    uint64
	useSeed bool

	custom [secretDefaultLen]byte
}

var _ hash.Hash64 = (*Hasher)(nil)

// New returns a Hasher using the default secret and no seed.
// Equivalent one-shot: Hash.
func New() *Hasher {
	h := &Hasher{}
	h.init(kSecret[:], 0, false)
	return h
}

// NewSeed returns a Hasher keyed by seed. Equivalent one-shot: HashSeed.
func NewSeed(seed uint64) *Hasher {
	h := &Hasher{}
	if seed == 0 {
		h.init(kSecret[:], 0, false)
		return h
	}
	h.custom = deriveSecret(seed)
	h.init(h.custom[:], seed, true)
	return h
}

// NewSecret returns a Hasher keyed by a caller-supplied secret of at least
// SecretMinLen bytes. The secret is copied, so the caller may reuse its
// buffer. Equivalent one-shot: HashSecret.
func NewSecret(secret []byte) (*Hasher, error) {
	if err := checkSecret(secret); err != nil {
		return nil, err
	}
	h := &Hasher{}
	h.init(append([]byte(nil), secret...), 0, false)
	return h, nil
}

// NewSecretSeed returns a Hasher keyed by both a secret and a seed.
// Equivalent one-shot: HashSecretSeed.
func NewSecretSeed(secret []byte, seed uint64) (*Hasher, error) {
	if err := checkSecret(secret); err != nil {
		return nil, err
	}
	h := &Hasher{}
	h.init(append([]byte(nil), secret...), seed, true)
	return h, nil
}

func (h *Hasher) init(secret []byte, seed uint64, useSeed bool) {
	h.secret = secret
	h.seed = seed
	h.useSeed = useSeed
	h.stripesPerBlock = (len(secret) - stripeLen) / secretConsumeRate
	h.Reset()
}

// Reset returns the Hasher to its freshly constructed state, keeping its
// seed/secret configuration.
func (h *Hasher) Reset() {
	h.acc = accInit
	h.buffered = 0
	h.totalLen = 0
	h.stripesSoFar = 0
}

// Size returns 8, the digest size in bytes.
func (h *Hasher) Size() int { return 8 }

// BlockSize returns the stripe length.
func (h *Hasher) BlockSize() int { return stripeLen }

// Write absorbs p into the running hash. The returned error is always nil;
// the signature exists to satisfy io.Writer.
func (h *Hasher) Write(p []byte) (int, error) {
	n := len(p)
	if n == 0 {
		return 0, nil
	}
	h.totalLen += uint64(n)

	// Fast path: everything fits in the staging buffer.
	if h.buffered+len(p) <= internalBufLen {
		copy(h.buf[h.buffered:], p)
		h.buffered += len(p)
		return n, nil
	}

	// Top the staging buffer off to exactly 256 bytes and absorb it as four
	// stripes, respecting block boundaries.
	if h.buffered > 0 {
		load := internalBufLen - h.buffered
		copy(h.buf[h.buffered:], p[:load])
		p = p[load:]
		h.stripesSoFar = consumeStripes(&h.acc, h.stripesSoFar, h.stripesPerBlock, h.buf[:], h.secret, internalBufStripes)
		h.buffered = 0
	}

	if len(p) > h.stripesPerBlock*stripeLen {
		// More than a block's worth: absorb whole blocks directly. All but
		// the final partial stripe gets consumed; (len-1)/64 keeps at least
		// one byte back for the staging buffer.
		nbStripes := (len(p) - 1) / stripeLen
		pos := 0

		toEnd := h.stripesPerBlock - h.stripesSoFar
		accumulate(&h.acc, p, h.secret[h.stripesSoFar*secretConsumeRate:], toEnd)
		scrambleAcc(&h.acc, h.secret[len(h.secret)-stripeLen:])
		pos += toEnd * stripeLen
		nbStripes -= toEnd

		for nbStripes >= h.stripesPerBlock {
			accumulate(&h.acc, p[pos:], h.secret, h.stripesPerBlock)
			scrambleAcc(&h.acc, h.secret[len(h.secret)-stripeLen:])
			pos += h.stripesPerBlock * stripeLen
			nbStripes -= h.stripesPerBlock
		}

		accumulate(&h.acc, p[pos:], h.secret, nbStripes)
		pos += nbStripes * stripeLen
		h.stripesSoFar = nbStripes

		// Retain the predecessor of the final partial stripe.
		copy(h.buf[internalBufLen-stripeLen:], p[pos-stripeLen:pos])
		p = p[pos:]
	} else if len(p) > internalBufLen {
		// Within one block: absorb staging-buffer-sized groups directly.
		pos := 0
		for len(p)-pos > internalBufLen {
			h.stripesSoFar = consumeStripes(&h.acc, h.stripesSoFar, h.stripesPerBlock, p[pos:], h.secret, internalBufStripes)
			pos += internalBufLen
		}
		copy(h.buf[internalBufLen-stripeLen:], p[pos-stripeLen:pos])
		p = p[pos:]
	}

	// Some input always remains here; buffer it.
	copy(h.buf[:], p)
	h.buffered = len(p)
	return n, nil
}

// Sum64 returns the digest of all bytes written so far. It never mutates the
// Hasher: finalization runs on a copy of the accumulator, so Sum64 may be
// called repeatedly and interleaved with further Writes.
func (h *Hasher) Sum64() uint64 {
	if h.totalLen > midsizeMax {
		acc := h.acc
		h.digestLong(&acc)
		return mergeAccs(&acc, h.secret[secretMergeAccsStart:], h.totalLen*prime64_1)
	}
	// The staging buffer still holds the entire input; replay it through the
	// immediate dispatch so both paths agree by construction.
	if h.useSeed {
		return hashSmall(h.buf[:h.totalLen], kSecret[:], h.seed)
	}
	return hashSmall(h.buf[:h.totalLen], h.secret, 0)
}

// Sum appends the big-endian digest to b and returns the resulting slice.
func (h *Hasher) Sum(b []byte) []byte {
	s := h.Sum64()
	return append(b,
		byte(s>>56), byte(s>>48), byte(s>>40), byte(s>>32),
		byte(s>>24), byte(s>>16), byte(s>>8), byte(s))
}

// digestLong finishes a >240-byte stream on a copied accumulator: absorb the
// staged whole stripes, then one final stripe drawn from the last 64 bytes
// seen, reassembled from the staging buffer's tail when fewer than 64 bytes
// are staged.
func (h *Hasher) digestLong(acc *[accNB]uint64) {
	var stripe []byte
	if h.buffered >= stripeLen {
		nbStripes := (h.buffered - 1) / stripeLen
		consumeStripes(acc, h.stripesSoFar, h.stripesPerBlock, h.buf[:], h.secret, nbStripes)
		stripe = h.buf[h.buffered-stripeLen : h.buffered]
	} else {
		// totalLen > 240 guarantees Write retained the preceding bytes in
		// the buffer tail.
		var last [stripeLen]byte
		catchup := stripeLen - h.buffered
		copy(last[:], h.buf[internalBufLen-catchup:])
		copy(last[catchup:], h.buf[:h.buffered])
		stripe = last[:]
	}
	accumulate512(acc, stripe, h.secret[len(h.secret)-stripeLen-secretLastAccStart:])
}
