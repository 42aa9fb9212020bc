package shuffle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSliceDeterministic(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e", "f", "g", "h"}

	first := Slice(items, 42)
	second := Slice(items, 42)
	assert.Equal(t, first, second, "same seed must give same order")

	other := Slice(items, 43)
	assert.NotEqual(t, first, other, "neighbour seeds should diverge on 8 items")
}

func TestSliceIsPermutation(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	out := Slice(items, 7)
	assert.ElementsMatch(t, items, out)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, items, "input must be untouched")
}

func TestSliceSmallInputs(t *testing.T) {
	assert.Empty(t, Slice([]string{}, 1))
	assert.Equal(t, []string{"only"}, Slice([]string{"only"}, 99))
}

func TestSeedString(t *testing.T) {
	require.Equal(t, SeedString("abc"), SeedString("abc"))
	assert.NotEqual(t, SeedString("abc"), SeedString("acb"))
	assert.Equal(t, uint32(0), SeedString(""))
}

func TestSliceSeeded(t *testing.T) {
	items := []string{"w", "x", "y", "z", "q", "p"}
	sessionA := "7b2c1f4e-aaaa-bbbb-cccc-000000000001"
	sessionB := "7b2c1f4e-aaaa-bbbb-cccc-000000000002"

	assert.Equal(t, SliceSeeded(items, sessionA), SliceSeeded(items, sessionA))
	assert.NotEqual(t, SliceSeeded(items, sessionA), SliceSeeded(items, sessionB))
}

func TestRNGSequence(t *testing.T) {
	// The generator is a fixed LCG; a shifted seed must not replay the
	// same draw sequence.
	a := rng{state: 1}
	b := rng{state: 2}
	var same int
	for i := 0; i < 16; i++ {
		if a.next() == b.next() {
			same++
		}
	}
	assert.Zero(t, same)
}
