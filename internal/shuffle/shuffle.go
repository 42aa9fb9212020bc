// Package shuffle provides the deterministic permutation used to randomize
// the right-hand column of matching questions per quiz session. The same
// seed always yields the same order, so a student sees a stable layout
// across reloads of one attempt while other sessions see different orders.
// It is an anti-copying measure, not a security boundary.
package shuffle

const (
	lcgMultiplier = 1664525
	lcgIncrement  = 1013904223
)

// rng is a 32-bit linear congruential generator. The multiplier, increment
// and modulus must not change: stored sessions rely on reproducing the
// exact permutation for their seed.
type rng struct {
	state uint32
}

func (r *rng) next() float64 {
	r.state = r.state*lcgMultiplier + lcgIncrement // wraps mod 2^32
	return float64(r.state) / (1 << 32)
}

// SeedString hashes an arbitrary string seed (typically a session id or a
// "userID_quizID" fallback) to the generator's 32-bit state using a rolling
// multiply-add hash with wrapping overflow.
func SeedString(seed string) uint32 {
	var h uint32
	for _, c := range []byte(seed) {
		h = h*31 + uint32(c)
	}
	return h
}

// Slice returns a new slice with the elements of items permuted by the
// numeric seed, using a Fisher-Yates pass driven by the LCG. The input is
// never mutated.
func Slice[T any](items []T, seed uint32) []T {
	out := make([]T, len(items))
	copy(out, items)

	r := rng{state: seed}
	for i := len(out) - 1; i > 0; i-- {
		j := int(r.next() * float64(i+1))
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// SliceSeeded is Slice with a string seed.
func SliceSeeded[T any](items []T, seed string) []T {
	return Slice(items, SeedString(seed))
}
