package internal

// ValueRef is the minimal shape this core requires of a script value. The
// bytecode VM, garbage collector, and primitive string/array/number types
// that actually implement script values are external collaborators (spec
// §1 Out of scope); this core only ever stores and compares references.
type ValueRef interface {
	// potValue is unexported so only this package's sentinels and PropertyObject
	// satisfy ValueRef directly; host embedders implement it by embedding
	// Opaque.
	potValue()
}

// Opaque lets a host type satisfy ValueRef without this package knowing
// anything else about it. Embed it in any Go type used as a script value.
type Opaque struct{}

func (Opaque) potValue() {}

// Function is implemented by values that behave as callables: CFunction-like
// slots, blocks, methods. Define's accessor validation (spec 4.3) and the
// deep-clone mutability rule (spec 4.5) both need to ask "is this value a
// function" without depending on a concrete callable type.
type Function interface {
	ValueRef
	IsFunction() bool
}

// sentinel backs the two canonical values named in
// spec §3 ("value holds either a direct reference or the canonical
// undefined/null sentinel").
type sentinel struct {
	Opaque
	name string
}

func (s *sentinel) String() string { return s.name }

// Undefined is the canonical "no value" sentinel. A freshly grown slot and
// a deleted slot both hold Undefined; Define with no value stores Null.
var Undefined ValueRef = &sentinel{name: "undefined"}

// Null is the canonical "explicit absence of an object" sentinel, distinct
// from Undefined for the equality-coercion rules of spec 4.9.
var Null ValueRef = &sentinel{name: "null"}

// IsUndefined reports whether v is the Undefined sentinel, treating a nil
// interface as undefined too.
func IsUndefined(v ValueRef) bool {
	return v == nil || v == Undefined
}

// IsNull reports whether v is the Null sentinel.
func IsNull(v ValueRef) bool {
	return v == Null
}

// Hideable is implemented by values that can independently opt out of
// enumeration regardless of the slot's own trait, e.g. an object with its
// own "hidden" property. Iterate (spec 4.6) checks this in addition to
// the slot's Hidden trait bit.
type Hideable interface {
	ValueRef
	Hidden() bool
}

func valueHidden(v ValueRef) bool {
	h, ok := v.(Hideable)
	return ok && h.Hidden()
}

// mutableValue is implemented by values that opt into deep cloning (spec
// 4.5: "types marked mutable or whose type has mutable_instances"). Values
// that don't implement this are treated as immutable and shared by deep
// clones, matching the function-sharing rule.
type mutableValue interface {
	ValueRef
	// DeepClonable reports whether this particular value should be
	// recursively cloned by Operations.Clone(deep=true).
	DeepClonable() bool
}

// wantsDeepClone applies the spec 4.5 mutability rule: functions that are
// not themselves types are shared, not cloned; everything else defers to
// mutableValue if implemented, and is otherwise treated as an opaque leaf
// that is copied by reference.
func wantsDeepClone(v ValueRef) bool {
	if IsUndefined(v) || IsNull(v) {
		return false
	}
	if fn, ok := v.(Function); ok && fn.IsFunction() {
		if o, isObject := v.(*PropertyObject); !isObject || !o.IsType() {
			return false
		}
	}
	if m, ok := v.(mutableValue); ok {
		return m.DeepClonable()
	}
	_, isObject := v.(*PropertyObject)
	return isObject
}
