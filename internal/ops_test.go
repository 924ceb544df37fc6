package internal

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFunction struct {
	Opaque
}

func (fakeFunction) IsFunction() bool { return true }

func newDynamicObject() (*PropertyObject, *Interner) {
	in := NewInterner()
	obj := Create(nil, 0)
	obj.Flags |= Dynamic
	return obj, in
}

func TestDefineAppendsAndLooksUp(t *testing.T) {
	obj, in := newDynamicObject()
	slot, err := obj.Define(-1, ShortName(in, "x"), nil, 0, &sentinel{name: "1"})
	require.NoError(t, err)
	assert.Equal(t, 0, slot)
	assert.Equal(t, 0, obj.Lookup(ShortName(in, "x")))

	v, err := obj.Get(slot)
	require.NoError(t, err)
	assert.Equal(t, "1", v.(*sentinel).name)
}

func TestDefineRejectsAccessorWithoutFunction(t *testing.T) {
	obj, in := newDynamicObject()
	_, err := obj.Define(-1, ShortName(in, "x"), nil, Setter, &sentinel{name: "not a function"})
	require.Error(t, err)
	var exc *Exception
	require.True(t, errors.As(err, &exc))
	assert.Equal(t, TypeErrorKind, exc.Kind)
}

func TestDefineRejectsAccessorWithNilValue(t *testing.T) {
	obj, in := newDynamicObject()
	_, err := obj.Define(-1, ShortName(in, "x"), nil, Getter|Setter, nil)
	require.Error(t, err)
	var exc *Exception
	require.True(t, errors.As(err, &exc))
	assert.Equal(t, TypeErrorKind, exc.Kind)
}

func TestDefineSetterAdoptsExistingFunctionAsGetter(t *testing.T) {
	obj, in := newDynamicObject()
	getter := fakeFunction{}
	slot, err := obj.Define(-1, ShortName(in, "prop"), nil, Getter, getter)
	require.NoError(t, err)

	setter := fakeFunction{}
	_, err = obj.Define(slot, ShortName(in, "prop"), nil, Setter, setter)
	require.NoError(t, err)

	trait, err := obj.GetTrait(slot)
	require.NoError(t, err)
	assert.True(t, trait.Attributes.Has(Getter))
	assert.True(t, trait.Attributes.Has(Setter))
}

func TestDefineOnNonDynamicPastBoundsFails(t *testing.T) {
	in := NewInterner()
	obj := Create(nil, 0)
	_, err := obj.Define(-1, ShortName(in, "x"), nil, 0, Undefined)
	require.Error(t, err)
	var exc *Exception
	require.True(t, errors.As(err, &exc))
	assert.Equal(t, ReferenceErrorKind, exc.Kind)
}

func TestDeleteTombstonesAndRejectsFixed(t *testing.T) {
	obj, in := newDynamicObject()
	slot, err := obj.Define(-1, ShortName(in, "x"), nil, Fixed, &sentinel{name: "1"})
	require.NoError(t, err)
	require.Error(t, obj.Delete(slot))

	slot2, err := obj.Define(-1, ShortName(in, "y"), nil, 0, &sentinel{name: "2"})
	require.NoError(t, err)
	require.NoError(t, obj.Delete(slot2))

	v, err := obj.Get(slot2)
	require.NoError(t, err)
	assert.True(t, IsUndefined(v))

	// The index is never reused: a fresh Define appends past it.
	slot3, err := obj.Define(-1, ShortName(in, "z"), nil, 0, &sentinel{name: "3"})
	require.NoError(t, err)
	assert.Equal(t, slot2+1, slot3)
}

func TestDeleteByNameMissingIsReferenceError(t *testing.T) {
	obj, in := newDynamicObject()
	err := obj.DeleteByName(ShortName(in, "nope"))
	require.Error(t, err)
	var exc *Exception
	require.True(t, errors.As(err, &exc))
	assert.Equal(t, ReferenceErrorKind, exc.Kind)
}

func TestIterateSkipsHiddenAndTombstoned(t *testing.T) {
	obj, in := newDynamicObject()
	_, err := obj.Define(-1, ShortName(in, "a"), nil, 0, &sentinel{name: "a"})
	require.NoError(t, err)
	_, err = obj.Define(-1, ShortName(in, "b"), nil, Hidden, &sentinel{name: "b"})
	require.NoError(t, err)
	cSlot, err := obj.Define(-1, ShortName(in, "c"), nil, 0, &sentinel{name: "c"})
	require.NoError(t, err)
	require.NoError(t, obj.Delete(cSlot))
	_, err = obj.Define(-1, ShortName(in, "d"), nil, 0, &sentinel{name: "d"})
	require.NoError(t, err)

	var names []string
	it := obj.Iterate(false)
	for {
		name, err := it.NextName()
		if IsStopIteration(err) {
			break
		}
		require.NoError(t, err)
		names = append(names, name.TextString())
	}
	assert.Equal(t, []string{"a", "d"}, names)
}

func TestIterateIncludeHiddenRevealsHiddenButNotTombstoned(t *testing.T) {
	obj, in := newDynamicObject()
	_, err := obj.Define(-1, ShortName(in, "a"), nil, Hidden, &sentinel{name: "a"})
	require.NoError(t, err)
	bSlot, err := obj.Define(-1, ShortName(in, "b"), nil, 0, &sentinel{name: "b"})
	require.NoError(t, err)
	require.NoError(t, obj.Delete(bSlot))

	it := obj.Iterate(true)
	name, err := it.NextName()
	require.NoError(t, err)
	assert.Equal(t, "a", name.TextString())

	_, err = it.NextName()
	assert.True(t, IsStopIteration(err))
}

func TestCloneShallowSharesNestedObject(t *testing.T) {
	obj, in := newDynamicObject()
	inner, _ := newDynamicObject()
	_, err := obj.Define(-1, ShortName(in, "inner"), nil, 0, inner)
	require.NoError(t, err)

	clone := obj.Clone(false)
	v, err := clone.Get(0)
	require.NoError(t, err)
	assert.Same(t, inner, v.(*PropertyObject))
}

func TestCloneDeepRecursesMutableValues(t *testing.T) {
	obj, in := newDynamicObject()
	inner, innerIn := newDynamicObject()
	_, err := inner.Define(-1, ShortName(innerIn, "leaf"), nil, 0, &sentinel{name: "leaf"})
	require.NoError(t, err)
	_, err = obj.Define(-1, ShortName(in, "inner"), nil, 0, inner)
	require.NoError(t, err)

	clone := obj.Clone(true)
	v, err := clone.Get(0)
	require.NoError(t, err)
	clonedInner := v.(*PropertyObject)
	assert.NotSame(t, inner, clonedInner)
	assert.False(t, clonedInner.Flags.Has(Visited))
	assert.False(t, obj.Flags.Has(Visited), "Visited must be cleared after Clone returns even though traversal touched it")
}

func TestCloneDeepBreaksDirectCycle(t *testing.T) {
	obj, in := newDynamicObject()
	_, err := obj.Define(-1, ShortName(in, "self"), nil, 0, obj)
	require.NoError(t, err)

	clone := obj.Clone(true)
	v, err := clone.Get(0)
	require.NoError(t, err)
	assert.Same(t, clone, v.(*PropertyObject), "a self-cycle must point the clone at itself, not a fresh recursive clone")
}

func TestCloneDeepBreaksIndirectCycle(t *testing.T) {
	a, ain := newDynamicObject()
	b, bin := newDynamicObject()
	_, err := a.Define(-1, ShortName(ain, "b"), nil, 0, b)
	require.NoError(t, err)
	_, err = b.Define(-1, ShortName(bin, "a"), nil, 0, a)
	require.NoError(t, err)

	clone := a.Clone(true)
	require.NotNil(t, clone)
	assert.False(t, a.Flags.Has(Visited))
	assert.False(t, b.Flags.Has(Visited))
}

func TestCloneDeepSharesFunctionValues(t *testing.T) {
	obj, in := newDynamicObject()
	fn := fakeFunction{}
	_, err := obj.Define(-1, ShortName(in, "method"), nil, 0, fn)
	require.NoError(t, err)

	clone := obj.Clone(true)
	v, err := clone.Get(0)
	require.NoError(t, err)
	assert.Equal(t, fn, v)
}

func TestGrowRejectsNonDynamic(t *testing.T) {
	obj := Create(nil, 0)
	err := obj.Grow(10)
	require.Error(t, err)
}

func TestGrowRejectsUnreasonableSizeAsMemoryError(t *testing.T) {
	obj, _ := newDynamicObject()
	err := obj.Grow(1 << 30)
	require.Error(t, err)
	var exc *Exception
	require.True(t, errors.As(err, &exc))
	assert.Equal(t, MemoryErrorKind, exc.Kind)
}

func TestInsertAndRemovePanicAfterFinalize(t *testing.T) {
	obj, in := newDynamicObject()
	_, err := obj.Define(-1, ShortName(in, "x"), nil, 0, Undefined)
	require.NoError(t, err)
	obj.FinalizeLayout()
	assert.True(t, obj.IsFinalized())

	assert.Panics(t, func() { _ = obj.Insert(0, 1) })
	assert.Panics(t, func() { _ = obj.Remove(0) })
}

func TestSetOnNilObjectIsReferenceError(t *testing.T) {
	var obj *PropertyObject
	_, err := obj.Set(0, Undefined)
	require.Error(t, err)
	var exc *Exception
	require.True(t, errors.As(err, &exc))
	assert.Equal(t, ReferenceErrorKind, exc.Kind)
}

func TestCompactDropsUndefinedSlots(t *testing.T) {
	obj, in := newDynamicObject()
	slot, err := obj.Define(-1, ShortName(in, "a"), nil, 0, &sentinel{name: "a"})
	require.NoError(t, err)
	_, err = obj.Define(-1, ShortName(in, "b"), nil, 0, &sentinel{name: "b"})
	require.NoError(t, err)
	require.NoError(t, obj.Delete(1))

	obj.Compact()
	assert.Equal(t, 1, obj.Count())
	name, err := obj.GetName(slot)
	require.NoError(t, err)
	assert.Equal(t, "a", name.TextString())
}
