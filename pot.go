/*
Package pot implements the object/property core of a dynamic scripting
runtime: the slot table, the name/trait/slot/object data model, property
operations (get, set, define, delete, insert, remove, compact, clone,
iterate), a reflection surface, a JSON serializer, and the equality/coercion
rules a host language builds its object model on top of.

This is a library, not a language. The bytecode interpreter, garbage
collector, compiler, and primitive string/array/number types are external
collaborators; this package only stores and compares references to them
through the opaque ValueRef interface.

Object model

Every script-visible object is a PropertyObject: a type pointer, a live slot
count, a flag bitset, and a property table. A type is itself a
PropertyObject with the TypeFlag bit set, so one representation serves both
the type system and the instance system. Creating a non-dynamic instance
copy-initializes its leading slots from its type's table up front (the
tail, if any, is zero-initialized); there is no later aliasing to undo.

	vm := pot.NewVM()
	point := vm.NewObject(vm.ObjectType, 0)
	point.Flags |= pot.Dynamic
	slot, _ := point.Define(-1, pot.ShortName(vm.Names, "x"), nil, 0, nil)
	point.Set(slot, myNumberValue)

Properties carry a Trait (declared type plus attribute bits: Getter, Setter,
Readonly, Fixed, Hidden, and more) alongside their Name and Value. Lookup
resolves a namespace-qualified Name to a slot index via either a linear scan
(small objects) or an open-addressed hash index built once a table crosses
the hash threshold.

Concurrency

A PropertyObject's mutation methods are internally synchronized, but the
object model is designed around a single executor owning an object graph at
a time — independent interpreters each get their own VM and disjoint object
universe; there is no cross-VM sharing.
*/
package pot

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kodelang/pot/internal"
)

// A VM owns one interpreter's object universe: the name interner, the
// built-in type registry, and the ambient logging/metrics collaborators.
type VM = internal.VM

// Config bundles the knobs an embedder can set when constructing a VM.
type Config = internal.Config

// Option configures a VM at construction time.
type Option = internal.Option

// PropertyObject is the header every script-visible object shares: a type
// pointer, a live slot count, flag bits, and a property table.
//
// Always use a VM's NewObject, or Create for bootstrapping the first type
// itself, to obtain new objects; constructing one directly produces an
// object with no property table.
type PropertyObject = internal.PropertyObject

// TypeRef points to an object acting as a type: a type is an ordinary
// PropertyObject with TypeFlag set.
type TypeRef = internal.TypeRef

// TypeHelpers is the capability record a type supplies for its instances:
// cast, operator dispatch, and mark.
type TypeHelpers = internal.TypeHelpers

// TypeRegistry names the built-in Boolean, Number, String, and global types
// the coercion and cast rules recognize by identity.
type TypeRegistry = internal.TypeRegistry

// Flags is the bit set carried on every PropertyObject header.
type Flags = internal.Flags

// Flag bits for PropertyObject.Flags.
const (
	Dynamic        = internal.Dynamic
	Block          = internal.Block
	Frame          = internal.Frame
	FunctionObject = internal.FunctionObject
	Prototype      = internal.Prototype
	TypeFlag       = internal.TypeFlag
	ShortScope     = internal.ShortScope
)

// Name is a namespace-qualified identifier: a short name plus an optional
// namespace qualifier.
type Name = internal.Name

// Interner assigns a single stable handle to each distinct string it sees,
// letting Name comparisons use pointer identity as the fast path.
type Interner = internal.Interner

// Attr is a single slot attribute bit.
type Attr = internal.Attr

// Slot attribute bits.
const (
	Getter            = internal.Getter
	Setter            = internal.Setter
	Readonly          = internal.Readonly
	Fixed             = internal.Fixed
	Hidden            = internal.Hidden
	Deleted           = internal.Deleted
	Initializer       = internal.Initializer
	ModuleInitializer = internal.ModuleInitializer
	Constructor       = internal.Constructor
	StaticMethod      = internal.StaticMethod
	NativeFunction    = internal.NativeFunction
)

// Trait is the metadata attached to a slot: an optional declared type and
// an attribute bitset.
type Trait = internal.Trait

// Slot is one addressable property cell.
type Slot = internal.Slot

// ValueRef is the minimal shape this core requires of a script value.
type ValueRef = internal.ValueRef

// Opaque lets a host type satisfy ValueRef without this package knowing
// anything else about it. Embed it in any Go type used as a script value.
type Opaque = internal.Opaque

// Function is implemented by values that behave as callables.
type Function = internal.Function

// Hideable is implemented by values that can independently opt out of
// enumeration regardless of the slot's own trait.
type Hideable = internal.Hideable

// Numeric is implemented by opaque host values that behave as the script
// Number type.
type Numeric = internal.Numeric

// Stringish is implemented by opaque host values that behave as the script
// String type.
type Stringish = internal.Stringish

// JSONArray is implemented by opaque host values that behave as the script
// Array type.
type JSONArray = internal.JSONArray

// JSONOptions mirrors the recognized toJSON option keys.
type JSONOptions = internal.JSONOptions

// Descriptor is the plain-object shape Describe/DefineProperty use.
type Descriptor = internal.Descriptor

// DefineOptions mirrors the recognized defineProperty option keys.
type DefineOptions = internal.DefineOptions

// Iterator walks an object's slots in index order.
type Iterator = internal.Iterator

// Kind identifies one of the five error kinds Operations can raise.
type Kind = internal.Kind

// Error kinds.
const (
	TypeErrorKind      = internal.TypeErrorKind
	ReferenceErrorKind = internal.ReferenceErrorKind
	ArgErrorKind       = internal.ArgErrorKind
	MemoryErrorKind    = internal.MemoryErrorKind
	StopIterationKind  = internal.StopIterationKind
)

// Exception wraps one of the five error kinds with a message.
type Exception = internal.Exception

// Undefined is the canonical "no value" sentinel.
var Undefined = internal.Undefined

// Null is the canonical "explicit absence of an object" sentinel.
var Null = internal.Null

// ManageFlag mirrors the two-phase callback a foreign collector invokes on
// a managed allocation.
type ManageFlag = internal.ManageFlag

// ManageMark requests that an object report every reference it owns.
const ManageMark = internal.ManageMark

// NewVM constructs a VM with its root object type and the built-in
// Boolean, Number, String, and global types registered.
func NewVM(opts ...Option) *VM {
	return internal.NewVM(opts...)
}

// WithLogger plugs a structured logger into a VM for diagnostic events.
func WithLogger(l *zap.Logger) Option {
	return internal.WithLogger(l)
}

// WithMetrics registers Prometheus counters and gauges for table growth,
// hash rebuild count, and live object count.
func WithMetrics(reg prometheus.Registerer) Option {
	return internal.WithMetrics(reg)
}

// WithDefaultJSONDepth overrides the default recursion cap ToJSON uses.
func WithDefaultJSONDepth(n int) Option {
	return internal.WithDefaultJSONDepth(n)
}

// NewName builds a Name from raw strings, interning both parts with in.
func NewName(in *Interner, space, text string) Name {
	return internal.NewName(in, space, text)
}

// ShortName builds an unqualified Name, equivalent to NewName(in, "", text).
func ShortName(in *Interner, text string) Name {
	return internal.ShortName(in, text)
}

// NewInterner creates an empty Interner.
func NewInterner() *Interner {
	return internal.NewInterner()
}

// Create allocates a new object of the given type with initialNumProps
// slots. Most callers should prefer a VM's NewObject; Create exists for
// bootstrapping the first type before any VM is constructed.
func Create(typ TypeRef, initialNumProps int) *PropertyObject {
	return internal.Create(typ, initialNumProps)
}

// Manage is the manage(obj, flag) hook a foreign collector calls during a
// mark pass.
func Manage(obj *PropertyObject, flag ManageFlag, visit func(ValueRef)) {
	internal.Manage(obj, flag, visit)
}

// Operator applies the coercion rule table for binary and unary operators
// against lhs, threading reg so the built-in Number/String targets can be
// recognized by identity.
func Operator(reg *TypeRegistry, lhs *PropertyObject, op string, rhs ValueRef) (ValueRef, error) {
	return internal.Operator(reg, lhs, op, rhs)
}

// Cast converts obj to target per the cast rule table.
func Cast(reg *TypeRegistry, obj *PropertyObject, target TypeRef) (ValueRef, error) {
	return internal.Cast(reg, obj, target)
}

// ToJSON serializes obj per the JSON option table.
func ToJSON(obj *PropertyObject, opts JSONOptions) string {
	return internal.ToJSON(obj, opts)
}

// IsUndefined reports whether v is the Undefined sentinel.
func IsUndefined(v ValueRef) bool {
	return internal.IsUndefined(v)
}

// IsNull reports whether v is the Null sentinel.
func IsNull(v ValueRef) bool {
	return internal.IsNull(v)
}

// IsStopIteration reports whether err is the StopIteration signal an
// Iterator raises at the end of a sequence.
func IsStopIteration(err error) bool {
	return internal.IsStopIteration(err)
}

// IsPrototypeOf reports whether obj is an instance of the type typ.
func IsPrototypeOf(typ TypeRef, obj *PropertyObject) bool {
	return internal.IsPrototypeOf(typ, obj)
}
