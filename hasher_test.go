package xxh3

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// writeChunks feeds data to h in chunks of the given size.
func writeChunks(h *Hasher, data []byte, chunk int) {
	for i := 0; i < len(data); i += chunk {
		end := i + chunk
		if end > len(data) {
			end = len(data)
		}
		h.Write(data[i:end])
	}
}

// Chunk sizes straddling every interesting boundary: single bytes, stripe
// (64), staging buffer (256) and block (1024 with the default secret), each
// one off in both directions.
var chunkSizes = []int{1, 3, 7, 37, 63, 64, 65, 255, 256, 257, 511, 1023, 1024, 1025, 4096}

func TestChunkInvariance(t *testing.T) {
	data := pattern(100000)
	want := Hash(data)
	for _, chunk := range chunkSizes {
		h := New()
		writeChunks(h, data, chunk)
		if got := h.Sum64(); got != want {
			t.Errorf("chunk=%d: Sum64 = %#x, one-shot = %#x", chunk, got, want)
		}
	}
}

func TestChunkInvarianceAtTierBoundaries(t *testing.T) {
	for _, n := range tierLengths {
		data := pattern(n)
		want := Hash(data)
		for _, chunk := range []int{1, 37, 64, 256} {
			h := New()
			writeChunks(h, data, chunk)
			if got := h.Sum64(); got != want {
				t.Errorf("len=%d chunk=%d: Sum64 = %#x, one-shot = %#x", n, chunk, got, want)
			}
		}
	}
}

func TestHasherSeed(t *testing.T) {
	const seed = uint64(0xbad5eed)
	for _, n := range []int{0, 16, 100, 240, 241, 500, 2500} {
		data := pattern(n)
		want := HashSeed(data, seed)
		for _, chunk := range []int{1, 63, 256} {
			h := NewSeed(seed)
			writeChunks(h, data, chunk)
			if got := h.Sum64(); got != want {
				t.Errorf("len=%d chunk=%d: Sum64 = %#x, HashSeed = %#x", n, chunk, got, want)
			}
		}
	}
}

func TestHasherSecret(t *testing.T) {
	for _, secretLen := range []int{SecretMinLen, secretDefaultLen, 300} {
		secret := pattern(secretLen)
		for i := range secret {
			secret[i] ^= 0x5a
		}
		for _, n := range []int{0, 16, 100, 240, 241, 500, 5000} {
			data := pattern(n)
			want, err := HashSecret(data, secret)
			if err != nil {
				t.Fatalf("HashSecret: %v", err)
			}
			for _, chunk := range []int{1, 64, 257} {
				h, err := NewSecret(secret)
				if err != nil {
					t.Fatalf("NewSecret: %v", err)
				}
				writeChunks(h, data, chunk)
				if got := h.Sum64(); got != want {
					t.Errorf("secretLen=%d len=%d chunk=%d: Sum64 = %#x, HashSecret = %#x",
						secretLen, n, chunk, got, want)
				}
			}
		}
	}
}

func TestHasherSecretSeed(t *testing.T) {
	secret := pattern(SecretMinLen)
	const seed = uint64(99)
	for _, n := range []int{0, 100, 240, 241, 5000} {
		data := pattern(n)
		want, err := HashSecretSeed(data, secret, seed)
		if err != nil {
			t.Fatalf("HashSecretSeed: %v", err)
		}
		for _, chunk := range []int{1, 200} {
			h, err := NewSecretSeed(secret, seed)
			if err != nil {
				t.Fatalf("NewSecretSeed: %v", err)
			}
			writeChunks(h, data, chunk)
			if got := h.Sum64(); got != want {
				t.Errorf("len=%d chunk=%d: Sum64 = %#x, HashSecretSeed = %#x", n, chunk, got, want)
			}
		}
	}
}

func TestHasherSecretCopied(t *testing.T) {
	secret := pattern(SecretMinLen)
	h, err := NewSecret(secret)
	if err != nil {
		t.Fatalf("NewSecret: %v", err)
	}
	data := pattern(500)
	want, err := HashSecret(data, secret)
	if err != nil {
		t.Fatalf("HashSecret: %v", err)
	}
	// Clobbering the caller's buffer must not affect the hasher.
	for i := range secret {
		secret[i] = 0xff
	}
	h.Write(data)
	if got := h.Sum64(); got != want {
		t.Fatalf("Sum64 after clobbering caller secret = %#x, want %#x", got, want)
	}
}

func TestSum64DoesNotMutate(t *testing.T) {
	for _, n := range []int{10, 240, 241, 300, 5000} {
		data := pattern(n)
		h := New()
		h.Write(data)
		first := h.Sum64()
		for i := 0; i < 3; i++ {
			if got := h.Sum64(); got != first {
				t.Fatalf("len=%d: repeated Sum64 = %#x, first = %#x", n, got, first)
			}
		}
		// Writing after a digest continues the same stream.
		h.Write(data)
		doubled := append(append([]byte(nil), data...), data...)
		if got, want := h.Sum64(), Hash(doubled); got != want {
			t.Fatalf("len=%d: Sum64 after more writes = %#x, one-shot = %#x", n, got, want)
		}
	}
}

func TestHasherReset(t *testing.T) {
	h := NewSeed(123)
	h.Write(pattern(5000))
	h.Reset()
	h.Write(pattern(300))
	if got, want := h.Sum64(), HashSeed(pattern(300), 123); got != want {
		t.Fatalf("Sum64 after Reset = %#x, want %#x", got, want)
	}
}

func TestEmptyWrites(t *testing.T) {
	data := pattern(1000)
	h := New()
	h.Write(nil)
	h.Write(data[:500])
	h.Write([]byte{})
	h.Write(data[500:])
	h.Write(nil)
	if got, want := h.Sum64(), Hash(data); got != want {
		t.Fatalf("Sum64 with empty writes = %#x, one-shot = %#x", got, want)
	}
}

func TestHashInterface(t *testing.T) {
	h := New()
	if got := h.Size(); got != 8 {
		t.Fatalf("Size = %d, want 8", got)
	}
	if got := h.BlockSize(); got != stripeLen {
		t.Fatalf("BlockSize = %d, want %d", got, stripeLen)
	}
	h.Write([]byte("abc"))
	var want [8]byte
	binary.BigEndian.PutUint64(want[:], h.Sum64())
	if got := h.Sum(nil); !bytes.Equal(got, want[:]) {
		t.Fatalf("Sum = %x, want %x", got, want)
	}
	prefix := []byte("prefix")
	if got := h.Sum(prefix); !bytes.Equal(got, append(prefix, want[:]...)) {
		t.Fatalf("Sum with prefix = %x", got)
	}
}
