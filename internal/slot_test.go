package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlotZero(t *testing.T) {
	var s Slot
	s.Name = ShortName(NewInterner(), "x")
	s.HashChain = 5
	s.zero()
	assert.True(t, s.isEmpty())
	assert.True(t, IsUndefined(s.Value))
	assert.Equal(t, noChain, s.HashChain)
}

func TestSlotTombstoneKeepsName(t *testing.T) {
	in := NewInterner()
	var s Slot
	s.Name = ShortName(in, "x")
	s.Trait.DeclaredType = Create(nil, 0)
	s.tombstone()
	assert.False(t, s.isEmpty(), "tombstone keeps the name; the index is never reused")
	assert.True(t, IsUndefined(s.Value))
	assert.Nil(t, s.Trait.DeclaredType)
	assert.True(t, s.Trait.Attributes.Has(Deleted|Hidden))
	assert.Equal(t, noChain, s.HashChain)
}

func TestChainEndsTreatsLegacyMarkerAsEquivalent(t *testing.T) {
	assert.True(t, chainEnds(noChain))
	assert.True(t, chainEnds(legacyNoChain))
	assert.False(t, chainEnds(0))
}
