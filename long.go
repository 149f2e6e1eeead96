package xxh3

// The long-input engine consumes 64-byte stripes into an 8-lane accumulator.
// A block is stripesPerBlock consecutive stripes, each keyed by a secret
// window that slides 8 bytes per stripe; the block ends when the window runs
// out of secret, at which point the lanes are scrambled and the window
// rewinds.

// accInit is the fresh accumulator state for every long hash.
var accInit = [accNB]uint64{
	prime32_3, prime64_1, prime64_2, prime64_3,
	prime64_4, prime32_2, prime64_5, prime32_1,
}

// accumulate512 absorbs one 64-byte stripe. Each lane's raw data word feeds
// the opposite lane of its pair; the cross-lane add is load-bearing, not
// arbitrary.
func accumulate512(acc *[accNB]uint64, stripe, secret []byte) {
	_ = stripe[63]
	_ = secret[63]
	for i := 0; i < accNB; i++ {
		dataVal := le64(stripe[8*i:])
		dataKey := dataVal ^ le64(secret[8*i:])
		acc[i^1] += dataVal
		acc[i] += (dataKey & 0xFFFFFFFF) * (dataKey >> 32)
	}
}

// scrambleAcc mixes the lanes down at each block boundary, keyed by the
// trailing 64 bytes of the secret.
func scrambleAcc(acc *[accNB]uint64, secret []byte) {
	_ = secret[63]
	for i := 0; i < accNB; i++ {
		a := acc[i]
		a ^= a >> 47
		a ^= le64(secret[8*i:])
		a *= prime32_1
		acc[i] = a
	}
}

// accumulate absorbs nbStripes consecutive stripes, sliding the secret
// window by secretConsumeRate per stripe. Never crosses a block boundary.
func accumulate(acc *[accNB]uint64, data, secret []byte, nbStripes int) {
	for n := 0; n < nbStripes; n++ {
		accumulate512(acc, data[n*stripeLen:], secret[n*secretConsumeRate:])
	}
}

// consumeStripes absorbs nbStripes stripes from data, scrambling at every
// block boundary crossed. stripesSoFar is the stripe position within the
// current block; the updated position is returned. Shared by the streaming
// Write fast path and digest.
func consumeStripes(acc *[accNB]uint64, stripesSoFar, stripesPerBlock int, data, secret []byte, nbStripes int) int {
	if nbStripes >= stripesPerBlock-stripesSoFar {
		// Finish the current block, then any whole blocks that follow.
		thisIter := stripesPerBlock - stripesSoFar
		window := secret[stripesSoFar*secretConsumeRate:]
		for {
			accumulate(acc, data, window, thisIter)
			scrambleAcc(acc, secret[len(secret)-stripeLen:])
			data = data[thisIter*stripeLen:]
			nbStripes -= thisIter
			if nbStripes < stripesPerBlock {
				break
			}
			thisIter = stripesPerBlock
			window = secret
		}
		accumulate(acc, data, secret, nbStripes)
		return nbStripes
	}
	accumulate(acc, data, secret[stripesSoFar*secretConsumeRate:], nbStripes)
	return stripesSoFar + nbStripes
}

// hashLong is the >240-byte path: whole blocks with a scramble after each,
// the last partial block's whole stripes, then one final stripe taken from
// the last 64 bytes of input (intentionally overlapping bytes already
// absorbed), followed by the merge.
func hashLong(data, secret []byte) uint64 {
	acc := accInit
	stripesPerBlock := (len(secret) - stripeLen) / secretConsumeRate
	blockLen := stripeLen * stripesPerBlock
	nbBlocks := (len(data) - 1) / blockLen

	for n := 0; n < nbBlocks; n++ {
		accumulate(&acc, data[n*blockLen:], secret, stripesPerBlock)
		scrambleAcc(&acc, secret[len(secret)-stripeLen:])
	}

	nbStripes := (len(data) - 1 - nbBlocks*blockLen) / stripeLen
	accumulate(&acc, data[nbBlocks*blockLen:], secret, nbStripes)

	accumulate512(&acc, data[len(data)-stripeLen:], secret[len(secret)-stripeLen-secretLastAccStart:])

	return mergeAccs(&acc, secret[secretMergeAccsStart:], uint64(len(data))*prime64_1)
}

func mix2Accs(lo, hi uint64, secret []byte) uint64 {
	return mul128Fold64(lo^le64(secret), hi^le64(secret[8:]))
}

// mergeAccs folds the 8 lanes pairwise into the final 64-bit digest. The
// long immediate path and the streaming digest both finish here.
func mergeAccs(acc *[accNB]uint64, secret []byte, start uint64) uint64 {
	result := start
	for i := 0; i < 4; i++ {
		result += mix2Accs(acc[2*i], acc[2*i+1], secret[16*i:])
	}
	return avalanche(result)
}
