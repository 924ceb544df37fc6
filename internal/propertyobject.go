package internal

import (
	"sync"
	"unsafe"
)

// Flags is the bit set carried on every PropertyObject header.
type Flags uint32

const (
	// Dynamic marks an object as extensible by adding new slots after
	// creation. Non-dynamic objects have a NumProps fixed at creation.
	Dynamic Flags = 1 << iota
	Block
	Frame
	FunctionObject
	Prototype
	TypeFlag
	ShortScope
	// SeparateSlots is set once an object's slot vector lives in its own
	// heap allocation rather than (in a future inline-small-object
	// optimization) embedded directly in the PropertyObject itself.
	// Every object built via Create already owns a private table, so
	// this currently tracks a distinction this core doesn't yet
	// exploit rather than gating any copy-on-write behavior.
	SeparateSlots
	// SeparateHash is set once the table's hash index is an allocation
	// separate from the slot vector.
	SeparateHash
	// Visited is the per-object cycle-breaking marker used by deep Clone.
	// Set on entry and cleared on exit; callers must clear it even if a
	// traversal step panics.
	Visited
)

// Has reports whether f carries every bit in want.
func (f Flags) Has(want Flags) bool {
	return f&want == want
}

// TypeRef points to an object acting as a type: a type is an ordinary
// PropertyObject with TypeFlag set, so the type system and the instance
// system share one representation and one property table implementation.
type TypeRef = *PropertyObject

// TypeHelpers is the capability record a type supplies for its instances:
// cast, operator dispatch, and mark, the dynamic-dispatch table that
// behaviorally identical type variants share a single record for.
// Nil entries fall back to the default Operations behavior.
type TypeHelpers struct {
	Cast     func(obj *PropertyObject, target TypeRef) (ValueRef, error)
	Operator func(lhs *PropertyObject, op string, rhs ValueRef) (ValueRef, error)
	Mark     func(obj *PropertyObject, visit func(ValueRef))
}

// PropertyObject is the header every script-visible object shares: a type
// pointer, a live slot count, flag bits, and a property table. Create
// gives every object its own table; no object aliases its type's table.
type PropertyObject struct {
	mu sync.Mutex

	Type     TypeRef
	NumProps int
	Flags    Flags
	Table    *PropertyTable
	Helpers  *TypeHelpers

	// Value carries an opaque host payload for objects wrapping a
	// primitive (string, number, array, function). The core never
	// interprets it.
	Value ValueRef

	// sealed gates Insert and Remove, the two operations reserved for
	// the compiler front end while an object's slot layout is still
	// free to move; finalizeLayout sets it once that window closes.
	sealed bool
}

// Lock acquires the object's mutation lock. Every Operations method that
// touches Table or NumProps holds it for the duration of the mutation.
func (o *PropertyObject) Lock() { o.mu.Lock() }

// Unlock releases the object's mutation lock.
func (o *PropertyObject) Unlock() { o.mu.Unlock() }

func (*PropertyObject) potValue() {}

// IsFunction reports whether o represents a callable, satisfying Function
// so Define's accessor validation and the deep-clone mutability rule can
// ask without depending on a concrete callable type.
func (o *PropertyObject) IsFunction() bool {
	return o.Flags.Has(FunctionObject)
}

// IsType reports whether o is acting as a type (TypeFlag set) rather than
// a plain instance.
func (o *PropertyObject) IsType() bool {
	return o.Flags.Has(TypeFlag)
}

// Create allocates a new object of the given type with initialNumProps
// slots, implementing the lifecycle named create(type, initial_num_props):
// if typ declares instance variables, slots 0..typ.NumProps are
// copy-initialized from the prototype's table and the tail is
// zero-initialized; otherwise every slot starts zeroed. A nil typ produces
// a type-less object, used for bootstrapping the first type itself.
func Create(typ TypeRef, initialNumProps int) *PropertyObject {
	obj := &PropertyObject{
		Type:     typ,
		NumProps: initialNumProps,
		Table:    newPropertyTable(initialNumProps),
	}
	seeded := 0
	if typ != nil && typ.Table != nil {
		typ.Lock()
		seeded = typ.NumProps
		if seeded > initialNumProps {
			seeded = initialNumProps
		}
		for i := 0; i < seeded; i++ {
			obj.Table.Slots[i] = typ.Table.Slots[i]
			obj.Table.Slots[i].HashChain = noChain
		}
		typ.Unlock()
		if seeded > 0 {
			obj.Flags |= SeparateSlots
		}
	}
	for i := seeded; i < initialNumProps; i++ {
		obj.Table.Slots[i].zero()
	}
	if initialNumProps > minHashThreshold {
		obj.Table.indexProperties()
		obj.Flags |= SeparateHash
	}
	return obj
}

// finalizeLayout seals the object against Insert and Remove. Call once a
// type's slot layout is bound into compiled code and slot numbers can no
// longer move.
func (o *PropertyObject) finalizeLayout() {
	o.Lock()
	o.sealed = true
	o.Unlock()
}

// FinalizeLayout is the exported entry point for finalizeLayout: a
// compiler front end calls it once a type's slot numbers are bound into
// compiled code, after which Insert and Remove panic on that object.
func (o *PropertyObject) FinalizeLayout() {
	o.finalizeLayout()
}

// IsFinalized reports whether FinalizeLayout has been called on o.
func (o *PropertyObject) IsFinalized() bool {
	o.Lock()
	defer o.Unlock()
	return o.sealed
}

// objectID gives o a stable integer key for the lifetime of the process,
// for use with contains.Set (keyed on uint64) in cycle-safe type-chain
// traversal. A *PropertyObject's address never moves once allocated.
func objectID(o *PropertyObject) uint64 {
	return uint64(uintptr(unsafe.Pointer(o)))
}

// fixTraits is the post-clone fixup hook run after a shallow clone: it
// gives accessor slots on the clone a chance to rebind closures captured
// over src rather than the clone itself. The default is a no-op; a type's
// Helpers may override behavior by re-Defining the affected slots after
// Clone returns.
func (o *PropertyObject) fixTraits(src *PropertyObject) {}

// Mark is the GC collaborator hook: it reports every reference o owns to
// visit — the type pointer, the Value payload, and every live slot's
// value and declared type. The caller supplies visit; this core never
// finalizes anything itself.
func (o *PropertyObject) Mark(visit func(ValueRef)) {
	if o.Helpers != nil && o.Helpers.Mark != nil {
		o.Helpers.Mark(o, visit)
		return
	}
	if o.Type != nil {
		visit(o.Type)
	}
	if o.Value != nil {
		visit(o.Value)
	}
	if o.Table == nil {
		return
	}
	for i := 0; i < o.NumProps; i++ {
		s := &o.Table.Slots[i]
		if s.isEmpty() {
			continue
		}
		if s.Value != nil {
			visit(s.Value)
		}
		if s.Trait.DeclaredType != nil {
			visit(s.Trait.DeclaredType)
		}
	}
}
