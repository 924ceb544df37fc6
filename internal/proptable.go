package internal

// lotsa is the slot count past which growth switches from doubling to an
// amortized round-unit increment.
const lotsa = 256

// maxTableSize bounds any single growth request. A real allocation
// failure past this size would panic inside make([]Slot, n); spec 7
// requires MemoryError to surface rather than be swallowed, so growth
// requests are checked against this ceiling before the allocation is
// attempted.
const maxTableSize = 1 << 24

// checkGrowthBound rejects a growth target that is negative or
// unreasonably large, the two ways a corrupted slot count or a runaway
// Insert/Grow call would otherwise drive make([]Slot, n) into a panic
// instead of a reported MemoryError.
func checkGrowthBound(n int) error {
	if n < 0 || n > maxTableSize {
		return memoryErrorf("cannot grow property table to %d slots", n)
	}
	return nil
}

// growthRound is the unit growth is rounded up to once past lotsa.
const growthRound = 16

// Hash is the open-addressing-by-chaining index over a PropertyTable's
// slots. buckets[i] == -1 means the bucket is empty; otherwise it is the
// index of the first slot in the chain, continued via Slot.HashChain.
type Hash struct {
	Buckets []int32
	Size    int
}

// PropertyTable is the vector of slots plus its optional hash index. It
// doubles as an ordered sequence (iteration order is slot order) and a
// hash-indexed map once the table grows past minHashThreshold slots.
type PropertyTable struct {
	Slots []Slot
	Size  int
	Hash  *Hash
}

// newPropertyTable allocates a table with capacity for n slots, all zeroed.
func newPropertyTable(n int) *PropertyTable {
	t := &PropertyTable{Slots: make([]Slot, n), Size: n}
	for i := range t.Slots {
		t.Slots[i].zero()
	}
	return t
}

// roundup computes the grown capacity for a table that needs to hold
// required slots, given its current size: doubling below lotsa, then an
// amortized round-unit increment above it.
func roundup(size, required int) int {
	if required <= size {
		return size
	}
	n := size
	if n == 0 {
		n = 4
	}
	for n < required {
		if n < lotsa {
			n *= 2
		} else {
			step := n / 4
			if step < growthRound {
				step = growthRound
			}
			n += step
		}
	}
	return n
}

// grow ensures the table has capacity for at least required slots,
// extending Slots with zeroed entries as needed. Existing slot indices
// remain valid; growth never reduces Size.
func (t *PropertyTable) grow(required int) {
	if required <= t.Size {
		return
	}
	newSize := roundup(t.Size, required)
	grown := make([]Slot, newSize)
	copy(grown, t.Slots)
	for i := t.Size; i < newSize; i++ {
		grown[i].zero()
	}
	t.Slots = grown
	t.Size = newSize
}

// indexProperties rebuilds the hash index from scratch over every named,
// non-deleted slot in the table: allocate hash_size(n) buckets set to -1,
// where n is one past the last named slot, reset every slot's hash chain
// to -1, then prepend each such slot onto its bucket's chain. Bucket heads end up pointing at the most recently
// inserted slot for a given name; older collisions are reachable by
// walking HashChain.
func (t *PropertyTable) indexProperties() {
	n := 0
	for i := range t.Slots {
		if !t.Slots[i].isEmpty() {
			n = i + 1
		}
	}
	size := hashSize(n)
	buckets := make([]int32, size)
	for i := range buckets {
		buckets[i] = noChain
	}
	for i := range t.Slots {
		t.Slots[i].HashChain = noChain
	}
	h := &Hash{Buckets: buckets, Size: size}
	for i := range t.Slots {
		s := &t.Slots[i]
		if s.isEmpty() || s.Trait.Attributes.Has(Deleted) {
			continue
		}
		b := bucketFor(s.Name.TextString(), size)
		s.HashChain = buckets[b]
		buckets[b] = int32(i)
	}
	t.Hash = h
}

// maybeIndex rebuilds the hash once numProps crosses minHashThreshold, or
// keeps an already-built index current by doing nothing (callers that
// structurally change the table call indexProperties/insertHash/
// removeHash directly; this only covers the threshold crossing).
func (t *PropertyTable) maybeIndex(numProps int) {
	if t.Hash == nil && numProps > minHashThreshold {
		t.indexProperties()
	}
}

// insertHash attaches slot index i (whose Name is already set) onto its
// bucket's chain, no-op if an equal qualified name is already chained.
func (t *PropertyTable) insertHash(i int) {
	if t.Hash == nil {
		return
	}
	name := t.Slots[i].Name
	b := bucketFor(name.TextString(), t.Hash.Size)
	chain := t.Hash.Buckets[b]
	for chain >= 0 {
		if t.Slots[chain].Name.QualifiedEqual(name) {
			return
		}
		chain = t.Slots[chain].HashChain
	}
	t.Slots[i].HashChain = t.Hash.Buckets[b]
	t.Hash.Buckets[b] = int32(i)
}

// removeHash detaches slot index i from its bucket's chain by name,
// clearing its hash chain link.
func (t *PropertyTable) removeHash(i int) {
	if t.Hash == nil {
		return
	}
	name := t.Slots[i].Name
	b := bucketFor(name.TextString(), t.Hash.Size)
	prev := int32(-1)
	cur := t.Hash.Buckets[b]
	for cur >= 0 {
		if int(cur) == i {
			if prev >= 0 {
				t.Slots[prev].HashChain = t.Slots[cur].HashChain
			} else {
				t.Hash.Buckets[b] = t.Slots[cur].HashChain
			}
			t.Slots[cur].HashChain = noChain
			return
		}
		prev = cur
		cur = t.Slots[cur].HashChain
	}
}

// notFound is the sentinel slot index returned by Lookup and friends.
const notFound = -1

// ambiguous is returned by lookup when an unqualified short name matches
// more than one slot; the caller cannot disambiguate without a namespace.
const ambiguous = -1

// lookup resolves name against the first numProps slots of t, per spec
// 4.2: linear scan below the hash threshold, hash-chain walk above it.
// A query with no namespace succeeds only if the short name is unique
// among live slots; collisions report notFound (ambiguous), forcing the
// caller to qualify.
func (t *PropertyTable) lookup(numProps int, name Name) int {
	if numProps == 0 {
		return notFound
	}
	if t.Hash == nil {
		return t.lookupLinear(numProps, name)
	}
	return t.lookupHashed(name)
}

func (t *PropertyTable) lookupLinear(numProps int, name Name) int {
	if name.HasSpace() {
		for i := 0; i < numProps; i++ {
			if t.Slots[i].Trait.Attributes.Has(Deleted) {
				continue
			}
			if t.Slots[i].Name.QualifiedEqual(name) {
				return i
			}
		}
		return notFound
	}
	found := notFound
	for i := 0; i < numProps; i++ {
		if t.Slots[i].isEmpty() || t.Slots[i].Trait.Attributes.Has(Deleted) {
			continue
		}
		if t.Slots[i].Name.ShortEqual(name) {
			if found != notFound {
				return ambiguous
			}
			found = i
		}
	}
	return found
}

func (t *PropertyTable) lookupHashed(name Name) int {
	b := bucketFor(name.TextString(), t.Hash.Size)
	chain := t.Hash.Buckets[b]
	if name.HasSpace() {
		for chain >= 0 {
			if t.Slots[chain].Name.QualifiedEqual(name) {
				return int(chain)
			}
			chain = t.Slots[chain].HashChain
		}
		return notFound
	}
	for chain >= 0 {
		s := &t.Slots[chain]
		if s.Name.ShortEqual(name) {
			for next := s.HashChain; next >= 0; next = t.Slots[next].HashChain {
				if t.Slots[next].Name.ShortEqual(name) {
					return ambiguous
				}
			}
			return int(chain)
		}
		chain = t.Slots[chain].HashChain
	}
	return notFound
}

// compact drops every slot among the first numProps whose value is the
// Undefined sentinel, re-packs the rest contiguously, and rebuilds the
// hash. Returns the new live slot count.
func (t *PropertyTable) compact(numProps int) int {
	kept := t.Slots[:0:0]
	for i := 0; i < numProps; i++ {
		if IsUndefined(t.Slots[i].Value) {
			continue
		}
		kept = append(kept, t.Slots[i])
	}
	n := len(kept)
	for i := range kept {
		kept[i].HashChain = noChain
	}
	copy(t.Slots, kept)
	for i := n; i < t.Size; i++ {
		t.Slots[i].zero()
	}
	if n > minHashThreshold {
		// temporarily narrow to n slots worth of index input
		t.indexPropertiesUpTo(n)
	} else {
		t.Hash = nil
	}
	return n
}

// indexPropertiesUpTo rebuilds the hash considering only the first n
// slots, used by compact after slots have been re-packed.
func (t *PropertyTable) indexPropertiesUpTo(n int) {
	size := hashSize(n)
	buckets := make([]int32, size)
	for i := range buckets {
		buckets[i] = noChain
	}
	for i := 0; i < n; i++ {
		t.Slots[i].HashChain = noChain
	}
	h := &Hash{Buckets: buckets, Size: size}
	for i := 0; i < n; i++ {
		s := &t.Slots[i]
		if s.isEmpty() {
			continue
		}
		b := bucketFor(s.Name.TextString(), size)
		s.HashChain = buckets[b]
		buckets[b] = int32(i)
	}
	t.Hash = h
}

// insertSlots grows by incr slots at offset off, shifting any existing
// slots at or after off up by incr and zeroing the gap. Compile-time
// only: slot numbers at or after off are not stable across this call.
func (t *PropertyTable) insertSlots(numProps, off, incr int) {
	t.grow(numProps + incr)
	copy(t.Slots[off+incr:numProps+incr], t.Slots[off:numProps])
	for i := off; i < off+incr; i++ {
		t.Slots[i].zero()
	}
}

// removeSlotAt physically drops slot i, shifting slots i+1..numProps down
// by one. Compile-time only: unsafe once any slot index has been bound
// into compiled code.
func (t *PropertyTable) removeSlotAt(numProps, i int) {
	copy(t.Slots[i:numProps-1], t.Slots[i+1:numProps])
	t.Slots[numProps-1].zero()
}

// clone produces a shallow copy of the first numProps slots: every hash
// chain link is reset to -1 and the hash is rebuilt only if the caller
// requests it via indexProperties afterward (Operations.Clone does so
// when the threshold is crossed).
func (t *PropertyTable) clone(numProps int) *PropertyTable {
	nt := newPropertyTable(numProps)
	copy(nt.Slots, t.Slots[:numProps])
	for i := range nt.Slots {
		nt.Slots[i].HashChain = noChain
	}
	return nt
}
