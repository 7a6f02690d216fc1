package order

import (
	"errors"
	"math/rand/v2"
)

// ErrEntropyExhausted is returned by an Entropy source that ran out of bytes.
var ErrEntropyExhausted = errors.New("entropy source exhausted")

// Rand is the randomness boundary of the ordering strategies. IntN returns a
// value in [0, n) for n > 0. Errors are passed through to the caller of
// Network.Peek unchanged.
type Rand interface {
	IntN(n int) (int, error)
}

type stdRand struct {
	r *rand.Rand
}

func (s stdRand) IntN(n int) (int, error) {
	return s.r.IntN(n), nil
}

// NewSeeded returns a deterministic source backed by a PCG generator.
func NewSeeded(seed uint64) Rand {
	return stdRand{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// FromRand adapts an existing *rand.Rand. It never fails.
func FromRand(r *rand.Rand) Rand {
	return stdRand{r: r}
}

// Entropy replays a fixed byte sequence. Each draw consumes the minimal number
// of big-endian bytes able to represent n-1; a draw with n == 1 consumes
// nothing. Once the bytes run out every draw fails with ErrEntropyExhausted.
type Entropy struct {
	buf []byte
}

// NewEntropy returns a scripted source over a copy of buf.
func NewEntropy(buf []byte) *Entropy {
	return &Entropy{buf: append([]byte(nil), buf...)}
}

// Remaining returns how many unread bytes are left.
func (e *Entropy) Remaining() int {
	return len(e.buf)
}

func (e *Entropy) IntN(n int) (int, error) {
	if n <= 0 {
		panic("order: IntN called with non-positive n")
	}
	if n == 1 {
		return 0, nil
	}
	width := 0
	for rest := uint64(n - 1); rest > 0; rest >>= 8 {
		width++
	}
	if len(e.buf) < width {
		return 0, ErrEntropyExhausted
	}
	var v uint64
	for _, b := range e.buf[:width] {
		v = v<<8 | uint64(b)
	}
	e.buf = e.buf[width:]
	return int(v % uint64(n)), nil
}
