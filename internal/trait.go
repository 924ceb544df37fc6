package internal

// Attr is a single slot attribute bit.
type Attr uint32

// Slot attribute bits. These mirror the flags a property cell can carry
// independently of its name or value.
const (
	Getter Attr = 1 << iota
	Setter
	Readonly          // value cannot be overwritten
	Fixed             // slot cannot be reconfigured or deleted
	Hidden            // excluded from default enumeration
	Deleted           // tombstone: slot exists but value is undefined
	Initializer       // compiler-generated entry, excluded from enumeration
	ModuleInitializer // compiler-generated entry, excluded from enumeration
	Constructor
	StaticMethod
	NativeFunction
)

// Has reports whether a holds every bit in want.
func (a Attr) Has(want Attr) bool {
	return a&want == want
}

// Any reports whether a has at least one bit of want set.
func (a Attr) Any(want Attr) bool {
	return a&want != 0
}

// Trait is the metadata attached to a slot: an optional declared type and an
// attribute bitset. The value itself lives on the Slot, not the Trait.
type Trait struct {
	// DeclaredType is the slot's static type, or nil if untyped.
	DeclaredType TypeRef
	Attributes   Attr
}

// skipEnumeration reports whether a slot with this trait is skipped by the
// name/value iterators of Iterate when hidden slots are not requested
// (spec 4.6), which is a
// stricter filter than the one used by GetOwnPropertyNames (spec 4.7).
func (t Trait) skipEnumeration() bool {
	return t.Attributes.Any(Hidden | Deleted | Initializer | ModuleInitializer)
}

// skipOwnPropertyNames reports whether a slot with this trait is omitted
// from getOwnPropertyNames, which keeps Hidden slots but still drops
// tombstones and compiler-only entries.
func (t Trait) skipOwnPropertyNames() bool {
	return t.Attributes.Any(Deleted | Initializer | ModuleInitializer)
}
