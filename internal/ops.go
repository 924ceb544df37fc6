package internal

// Iterator walks an object's slots in index order, skipping names and
// values the enumeration filter excludes. NextName and NextValue return
// StopIteration at the end; a finished Iterator is not restartable — callers must obtain a
// fresh one to enumerate again.
type Iterator struct {
	obj        *PropertyObject
	pos        int
	includeHidden bool
}

// Iterate returns a fresh Iterator over o's slots. includeHidden opts
// into slots whose trait or value carries a hidden flag, which the
// default iteration filter excludes.
func (o *PropertyObject) Iterate(includeHidden bool) *Iterator {
	return &Iterator{obj: o, includeHidden: includeHidden}
}

// skip reports whether slot i should be excluded from enumeration.
func (o *PropertyObject) skip(i int, includeHidden bool) bool {
	s := &o.Table.Slots[i]
	if s.isEmpty() {
		return true
	}
	if includeHidden {
		return s.Trait.skipOwnPropertyNames()
	}
	return s.Trait.skipEnumeration() || valueHidden(s.Value)
}

// NextName advances the iterator and returns the next slot's name, or
// StopIteration when exhausted.
func (it *Iterator) NextName() (Name, error) {
	slot, err := it.advance()
	if err != nil {
		return Name{}, err
	}
	it.obj.Lock()
	name := it.obj.Table.Slots[slot].Name
	it.obj.Unlock()
	return name, nil
}

// NextValue advances the iterator and returns the next slot's value, or
// StopIteration when exhausted.
func (it *Iterator) NextValue() (ValueRef, error) {
	slot, err := it.advance()
	if err != nil {
		return nil, err
	}
	it.obj.Lock()
	v := it.obj.Table.Slots[slot].Value
	it.obj.Unlock()
	return v, nil
}

func (it *Iterator) advance() (int, error) {
	o := it.obj
	o.Lock()
	defer o.Unlock()
	for it.pos < o.NumProps {
		i := it.pos
		it.pos++
		if !o.skip(i, it.includeHidden) {
			return i, nil
		}
	}
	return 0, stopIteration
}

// Count returns the object's live slot count.
func (o *PropertyObject) Count() int {
	o.Lock()
	defer o.Unlock()
	return o.NumProps
}

// ownTable marks o's table as privately owned (SeparateSlots), cloning it
// first if some earlier step left the bit unset. Every object already
// has its own table from construction onward, so in practice this is a
// no-op past the first call; it exists so a future inline-storage
// optimization has a single place to hook a real first-write copy.
// Callers must hold o.mu.
func (o *PropertyObject) ownTable() {
	if o.Flags.Has(SeparateSlots) {
		return
	}
	o.Table = o.Table.clone(o.NumProps)
	if o.NumProps > minHashThreshold {
		o.Table.indexProperties()
		o.Flags |= SeparateHash
	}
	o.Flags |= SeparateSlots
}

// Get returns the value stored at slot, or a ReferenceError if slot is
// out of range.
func (o *PropertyObject) Get(slot int) (ValueRef, error) {
	o.Lock()
	defer o.Unlock()
	if slot < 0 || slot >= o.NumProps {
		return nil, referenceErrorf("slot %d out of range", slot)
	}
	return o.Table.Slots[slot].Value, nil
}

// GetName returns the qualified name stored at slot.
func (o *PropertyObject) GetName(slot int) (Name, error) {
	o.Lock()
	defer o.Unlock()
	if slot < 0 || slot >= o.NumProps {
		return Name{}, referenceErrorf("slot %d out of range", slot)
	}
	return o.Table.Slots[slot].Name, nil
}

// GetTrait returns the trait stored at slot.
func (o *PropertyObject) GetTrait(slot int) (Trait, error) {
	o.Lock()
	defer o.Unlock()
	if slot < 0 || slot >= o.NumProps {
		return Trait{}, referenceErrorf("slot %d out of range", slot)
	}
	return o.Table.Slots[slot].Trait, nil
}

// ensureSlot validates (or allocates, for a dynamic object) the slot to
// write to. slot == -1 appends on a Dynamic object, growing as needed;
// on a non-Dynamic object -1 fails, distinguishing the three cases the
// specification names: a nil receiver is "object is null", a
// constructed-but-tableless receiver is "object is undefined", and a
// non-dynamic object out of room is "object is not extendable".
func (o *PropertyObject) ensureSlot(slot int) (int, error) {
	if o == nil {
		return 0, referenceErrorf("object is null")
	}
	if o.Value == nil && o.Table == nil {
		return 0, referenceErrorf("object is undefined")
	}
	if slot == -1 {
		if !o.Flags.Has(Dynamic) {
			return 0, referenceErrorf("object is not extendable")
		}
		slot = o.NumProps
	}
	if slot >= o.NumProps {
		if !o.Flags.Has(Dynamic) {
			return 0, referenceErrorf("object is not extendable")
		}
		if err := checkGrowthBound(slot + 1); err != nil {
			return 0, err
		}
		o.ownTable()
		o.Table.grow(slot + 1)
		o.NumProps = slot + 1
	}
	return slot, nil
}

// Set writes value at slot, per the external slot-indexed API's set.
func (o *PropertyObject) Set(slot int, value ValueRef) (int, error) {
	if o == nil {
		return 0, referenceErrorf("object is null")
	}
	o.Lock()
	defer o.Unlock()
	slot, err := o.ensureSlot(slot)
	if err != nil {
		return 0, err
	}
	o.ownTable()
	o.Table.Slots[slot].Value = value
	return slot, nil
}

// SetName installs name at slot, removing any previous hash entry for the
// slot's old name and (re)inserting the new one if the table is indexed
// or the hash threshold is now crossed.
func (o *PropertyObject) SetName(slot int, name Name) (int, error) {
	if o == nil {
		return 0, referenceErrorf("object is null")
	}
	o.Lock()
	defer o.Unlock()
	slot, err := o.ensureSlot(slot)
	if err != nil {
		return 0, err
	}
	o.ownTable()
	s := &o.Table.Slots[slot]
	if !s.isEmpty() {
		o.Table.removeHash(slot)
	}
	s.Name = name
	o.Table.maybeIndex(o.NumProps)
	if o.Table.Hash != nil {
		o.Table.insertHash(slot)
	}
	return slot, nil
}

// SetTrait installs typ and attrs as the trait at slot.
func (o *PropertyObject) SetTrait(slot int, typ TypeRef, attrs Attr) (int, error) {
	if o == nil {
		return 0, referenceErrorf("object is null")
	}
	o.Lock()
	defer o.Unlock()
	slot, err := o.ensureSlot(slot)
	if err != nil {
		return 0, err
	}
	o.ownTable()
	o.Table.Slots[slot].Trait = Trait{DeclaredType: typ, Attributes: attrs}
	return slot, nil
}

// Lookup resolves name to a slot index, or notFound/ambiguous (both -1;
// the specification does not distinguish them at this layer).
func (o *PropertyObject) Lookup(name Name) int {
	o.Lock()
	defer o.Unlock()
	if o.Table == nil {
		return notFound
	}
	return o.Table.lookup(o.NumProps, name)
}

// Grow ensures the object's table has room for at least n slots. Only
// meaningful on Dynamic objects; see ensureSlot for the non-dynamic
// rejection path used by Set/Define.
func (o *PropertyObject) Grow(n int) error {
	o.Lock()
	defer o.Unlock()
	if !o.Flags.Has(Dynamic) {
		return referenceErrorf("object is not extendable")
	}
	if err := checkGrowthBound(n); err != nil {
		return err
	}
	o.ownTable()
	o.Table.grow(n)
	return nil
}

// accessorMerge merges accessor attribute bits for Define: adding a setter
// keeps the slot's existing Getter and Setter bits and adds Setter; adding
// a getter to a slot that already has Setter keeps the Setter bit. Only
// the bits are merged: a slot holds a single value, so the new function
// replaces the previous one, and no no-op getter is synthesized.
func accessorMerge(existing Slot, attrs Attr, value ValueRef) (Attr, ValueRef) {
	wantGetter := attrs.Has(Getter)
	wantSetter := attrs.Has(Setter)
	switch {
	case wantSetter && !wantGetter:
		if existing.Trait.Attributes.Has(Getter) || !existing.isEmpty() {
			attrs |= existing.Trait.Attributes & (Getter | Setter)
		}
		attrs |= Setter
	case wantGetter && existing.Trait.Attributes.Has(Setter):
		attrs |= Setter
	}
	return attrs, value
}

// Define installs a named property at slot (or -1 to append), per spec
// 4.3: fails with TypeError if Getter/Setter is requested without a
// function value; reuses an existing slot with the same qualified name;
// otherwise appends, failing with ReferenceError on a non-dynamic object
// past NumProps. Name, then trait, then value are written in that order
// so an early failure leaves the object consistent.
func (o *PropertyObject) Define(slot int, name Name, typ TypeRef, attrs Attr, value ValueRef) (int, error) {
	if attrs.Any(Getter | Setter) {
		fn, ok := value.(Function)
		if !ok || !fn.IsFunction() {
			return 0, typeErrorf("accessor for %q must be a function", name.TextString())
		}
	}
	o.Lock()
	defer o.Unlock()
	if existing := o.Table.lookupIfPresent(o.NumProps, name); existing >= 0 && o.Table.Slots[existing].Name.QualifiedEqual(name) {
		slot = existing
	} else if slot < 0 {
		slot = o.NumProps
	}
	if slot >= o.NumProps && !o.Flags.Has(Dynamic) {
		return 0, referenceErrorf("object is not extendable")
	}
	if slot >= o.NumProps {
		if err := checkGrowthBound(slot + 1); err != nil {
			return 0, err
		}
		o.ownTable()
		o.Table.grow(slot + 1)
		o.NumProps = slot + 1
	} else {
		o.ownTable()
	}
	s := &o.Table.Slots[slot]
	if !s.isEmpty() && !s.Name.QualifiedEqual(name) {
		o.Table.removeHash(slot)
	}
	s.Name = name
	o.Table.maybeIndex(o.NumProps)
	if o.Table.Hash != nil {
		o.Table.insertHash(slot)
	}
	mergedAttrs, mergedValue := attrs, value
	if attrs.Any(Getter | Setter) {
		mergedAttrs, mergedValue = accessorMerge(*s, attrs, value)
	}
	s.Trait = Trait{DeclaredType: typ, Attributes: mergedAttrs}
	if mergedValue == nil {
		mergedValue = Null
	}
	s.Value = mergedValue
	return slot, nil
}

// lookupIfPresent is Lookup without acquiring the table lock, for use by
// callers that already hold it (Define).
func (t *PropertyTable) lookupIfPresent(numProps int, name Name) int {
	if t == nil || numProps == 0 {
		return notFound
	}
	if t.Hash == nil {
		return t.lookupLinear(numProps, name)
	}
	return t.lookupHashed(name)
}

// Delete tombstones slot: requires the slot in range and its trait's
// Fixed bit clear, else TypeError. Writes Undefined, clears the declared
// type, sets Deleted|Hidden, and removes the hash entry. The slot index
// is never reused.
func (o *PropertyObject) Delete(slot int) error {
	o.Lock()
	defer o.Unlock()
	if slot < 0 || slot >= o.NumProps {
		return referenceErrorf("slot %d out of range", slot)
	}
	o.ownTable()
	s := &o.Table.Slots[slot]
	if s.Trait.Attributes.Has(Fixed) {
		return typeErrorf("slot is not configurable")
	}
	o.Table.removeHash(slot)
	s.tombstone()
	return nil
}

// DeleteByName resolves name via Lookup and deletes that slot, raising
// ReferenceError if name is not found.
func (o *PropertyObject) DeleteByName(name Name) error {
	slot := o.Lookup(name)
	if slot < 0 {
		return referenceErrorf("property %q not found", name.TextString())
	}
	return o.Delete(slot)
}

// Insert grows by incr slots at offset off, shifting slots off..NumProps
// up by incr and zeroing the gap, then rebuilding the hash. Compile-time
// only: panics if the object has been sealed by finalizeLayout, and does
// not guarantee slot numbers at or after off remain stable.
func (o *PropertyObject) Insert(off, incr int) error {
	o.Lock()
	defer o.Unlock()
	if o.sealed {
		panic("pot: Insert called on a finalized object")
	}
	if err := checkGrowthBound(o.NumProps + incr); err != nil {
		return err
	}
	o.ownTable()
	o.Table.insertSlots(o.NumProps, off, incr)
	o.NumProps += incr
	o.Table.maybeIndex(o.NumProps)
	if o.Table.Hash != nil {
		o.Table.indexProperties()
	}
	return nil
}

// Remove physically drops slot i, shifting later slots down by one and
// rebuilding the hash. Compile-time only: panics once the object is
// sealed, since removal invalidates any slot index bound into compiled
// code at or after i.
func (o *PropertyObject) Remove(i int) error {
	o.Lock()
	defer o.Unlock()
	if o.sealed {
		panic("pot: Remove called on a finalized object")
	}
	if i < 0 || i >= o.NumProps {
		return referenceErrorf("slot %d out of range", i)
	}
	o.ownTable()
	o.Table.removeSlotAt(o.NumProps, i)
	o.NumProps--
	if o.Table.Hash != nil {
		o.Table.indexProperties()
	}
	return nil
}

// Compact drops every slot whose value is Undefined, re-packs the rest
// contiguously, and rebuilds the hash.
func (o *PropertyObject) Compact() {
	o.Lock()
	defer o.Unlock()
	o.ownTable()
	o.NumProps = o.Table.compact(o.NumProps)
}

// Clone allocates a new object of the same type with NumProps slots,
// copying every slot (shallow: name, trait, value reference), resetting
// hash chains, rebuilding the hash if the threshold is crossed, and
// propagating flag bits. If deep is true, every slot whose value opts
// into deep cloning (spec 4.5) is recursively cloned instead of shared;
// cycles are broken via the Visited flag.
func (o *PropertyObject) Clone(deep bool) *PropertyObject {
	o.Lock()
	clone := &PropertyObject{
		Type:     o.Type,
		NumProps: o.NumProps,
		Flags:    o.Flags &^ Visited,
		Table:    o.Table.clone(o.NumProps),
		Helpers:  o.Helpers,
		Value:    o.Value,
	}
	if clone.NumProps > minHashThreshold {
		clone.Table.indexProperties()
		clone.Flags |= SeparateHash
	}
	clone.Flags |= SeparateSlots
	o.Unlock()
	clone.fixTraits(o)

	if deep {
		o.Lock()
		o.Flags |= Visited
		o.Unlock()
		defer func() {
			o.Lock()
			o.Flags &^= Visited
			o.Unlock()
		}()
		for i := 0; i < clone.NumProps; i++ {
			v := clone.Table.Slots[i].Value
			inner, ok := v.(*PropertyObject)
			if !ok || !wantsDeepClone(v) {
				continue
			}
			if inner == o {
				// Self-cycle: point the clone at itself, not a fresh
				// recursive clone of the original.
				clone.Table.Slots[i].Value = clone
				continue
			}
			if inner.Flags.Has(Visited) {
				// inner is already being cloned further up this call
				// stack; share the original rather than recurse.
				continue
			}
			clone.Table.Slots[i].Value = inner.Clone(true)
		}
	}
	return clone
}
