package internal

// noChain marks the end of a hash chain. The original implementation this
// core is modeled on also emits -2 for some tail writes; this package only
// ever writes -1 but treats -2 as an equivalent "end of chain" marker
// wherever a chain is walked, per spec's note that the distinction is not
// load-bearing.
const noChain int32 = -1

const legacyNoChain int32 = -2

func chainEnds(v int32) bool {
	return v == noChain || v == legacyNoChain
}

// Slot is one addressable property cell: a qualified name, its trait
// metadata, its value, and the link to the next slot sharing its hash
// bucket.
type Slot struct {
	Name      Name
	Trait     Trait
	Value     ValueRef
	HashChain int32
}

// isEmpty reports whether this slot has never held a name, as opposed to
// having been deleted (which keeps the name but tombstones the trait).
func (s *Slot) isEmpty() bool {
	return s.Name.Empty()
}

// tombstone turns s into a deleted slot: value cleared to Undefined, no
// declared type, Deleted|Hidden set. The name and numeric index are left
// untouched, per spec 4.4 ("the slot index is NOT reused").
func (s *Slot) tombstone() {
	s.Value = Undefined
	s.Trait.DeclaredType = nil
	s.Trait.Attributes |= Deleted | Hidden
	s.HashChain = noChain
}

// zero resets s to the empty state used for newly grown slots.
func (s *Slot) zero() {
	*s = Slot{Value: Undefined, HashChain: noChain}
}
