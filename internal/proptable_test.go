package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundupDoublingBelowLotsa(t *testing.T) {
	assert.Equal(t, 4, roundup(0, 1))
	assert.Equal(t, 8, roundup(4, 5))
	assert.Equal(t, 16, roundup(8, 9))
}

func TestRoundupAmortizedAboveLotsa(t *testing.T) {
	got := roundup(lotsa, lotsa+1)
	assert.GreaterOrEqual(t, got, lotsa+growthRound)
	assert.Equal(t, got, roundup(lotsa, got))
}

func TestRoundupNoShrink(t *testing.T) {
	assert.Equal(t, 32, roundup(32, 10))
}

func TestPropertyTableGrowPreservesSlots(t *testing.T) {
	pt := newPropertyTable(4)
	in := NewInterner()
	pt.Slots[0].Name = ShortName(in, "a")
	pt.grow(10)
	assert.GreaterOrEqual(t, pt.Size, 10)
	assert.Equal(t, "a", pt.Slots[0].Name.TextString())
	assert.True(t, pt.Slots[9].isEmpty())
}

func TestLookupLinearUnqualified(t *testing.T) {
	in := NewInterner()
	pt := newPropertyTable(3)
	pt.Slots[0].Name = ShortName(in, "a")
	pt.Slots[1].Name = ShortName(in, "b")
	pt.Slots[2].Name = ShortName(in, "c")

	assert.Equal(t, 1, pt.lookup(3, ShortName(in, "b")))
	assert.Equal(t, notFound, pt.lookup(3, ShortName(in, "z")))
}

func TestLookupLinearAmbiguousWithoutNamespace(t *testing.T) {
	in := NewInterner()
	pt := newPropertyTable(2)
	pt.Slots[0].Name = NewName(in, "ns1", "x")
	pt.Slots[1].Name = NewName(in, "ns2", "x")

	assert.Equal(t, ambiguous, pt.lookup(2, ShortName(in, "x")))
	assert.Equal(t, 0, pt.lookup(2, NewName(in, "ns1", "x")))
	assert.Equal(t, 1, pt.lookup(2, NewName(in, "ns2", "x")))
}

func TestLookupHashedMatchesLinearAboveThreshold(t *testing.T) {
	in := NewInterner()
	n := minHashThreshold + 5
	pt := newPropertyTable(n)
	for i := 0; i < n; i++ {
		pt.Slots[i].Name = ShortName(in, string(rune('a'+i)))
	}
	pt.indexProperties()
	require.NotNil(t, pt.Hash)

	for i := 0; i < n; i++ {
		want := i
		got := pt.lookup(n, ShortName(in, string(rune('a'+i))))
		assert.Equal(t, want, got)
	}
	assert.Equal(t, notFound, pt.lookup(n, ShortName(in, "zzzzz")))
}

func TestInsertHashNoDuplicateChaining(t *testing.T) {
	in := NewInterner()
	n := minHashThreshold + 2
	pt := newPropertyTable(n)
	for i := 0; i < n; i++ {
		pt.Slots[i].Name = ShortName(in, string(rune('a'+i)))
	}
	pt.indexProperties()

	// Re-inserting the same name at the same slot must be a no-op, not a
	// second chain entry.
	pt.insertHash(0)
	assert.Equal(t, 0, pt.lookup(n, ShortName(in, "a")))
}

func TestRemoveHashThenLookupMisses(t *testing.T) {
	in := NewInterner()
	n := minHashThreshold + 2
	pt := newPropertyTable(n)
	for i := 0; i < n; i++ {
		pt.Slots[i].Name = ShortName(in, string(rune('a'+i)))
	}
	pt.indexProperties()

	pt.removeHash(1)
	pt.Slots[1].tombstone()
	assert.Equal(t, notFound, pt.lookup(n, ShortName(in, "b")))
}

func TestCompactDropsUndefinedAndRepacks(t *testing.T) {
	in := NewInterner()
	pt := newPropertyTable(3)
	pt.Slots[0].Name = ShortName(in, "a")
	pt.Slots[0].Value = &sentinel{name: "1"}
	pt.Slots[1].Name = ShortName(in, "b")
	pt.Slots[1].Value = Undefined
	pt.Slots[2].Name = ShortName(in, "c")
	pt.Slots[2].Value = &sentinel{name: "3"}

	n := pt.compact(3)
	require.Equal(t, 2, n)
	assert.Equal(t, "a", pt.Slots[0].Name.TextString())
	assert.Equal(t, "c", pt.Slots[1].Name.TextString())
}

func TestInsertSlotsShiftsAndZeroes(t *testing.T) {
	in := NewInterner()
	pt := newPropertyTable(4)
	pt.Slots[0].Name = ShortName(in, "a")
	pt.Slots[1].Name = ShortName(in, "b")

	pt.insertSlots(2, 1, 2)
	assert.Equal(t, "a", pt.Slots[0].Name.TextString())
	assert.True(t, pt.Slots[1].isEmpty())
	assert.True(t, pt.Slots[2].isEmpty())
	assert.Equal(t, "b", pt.Slots[3].Name.TextString())
}

func TestRemoveSlotAtShiftsDown(t *testing.T) {
	in := NewInterner()
	pt := newPropertyTable(3)
	pt.Slots[0].Name = ShortName(in, "a")
	pt.Slots[1].Name = ShortName(in, "b")
	pt.Slots[2].Name = ShortName(in, "c")

	pt.removeSlotAt(3, 1)
	assert.Equal(t, "a", pt.Slots[0].Name.TextString())
	assert.Equal(t, "c", pt.Slots[1].Name.TextString())
	assert.True(t, pt.Slots[2].isEmpty())
}

func TestCloneResetsHashChains(t *testing.T) {
	in := NewInterner()
	pt := newPropertyTable(2)
	pt.Slots[0].Name = ShortName(in, "a")
	pt.Slots[0].HashChain = 7
	clone := pt.clone(2)
	assert.Equal(t, noChain, clone.Slots[0].HashChain)
	assert.Equal(t, "a", clone.Slots[0].Name.TextString())
}
