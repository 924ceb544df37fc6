package internal

import "github.com/zephyrtronium/contains"

// Descriptor is the plain-object shape describe/getOwnPropertyDescriptor
// materializes: value (or get/set when the trait carries an accessor),
// configurable, enumerable, namespace, type, and writable.
type Descriptor struct {
	Value        ValueRef
	Get          ValueRef
	Set          ValueRef
	Configurable bool
	Enumerable   bool
	Namespace    string
	Type         TypeRef
	Writable     bool
}

// Describe resolves name by lookup and materializes its descriptor, or
// reports found=false if no such property exists.
func (o *PropertyObject) Describe(name Name) (desc Descriptor, found bool) {
	slot := o.Lookup(name)
	if slot < 0 {
		return Descriptor{}, false
	}
	o.Lock()
	defer o.Unlock()
	s := o.Table.Slots[slot]
	desc = Descriptor{
		Configurable: !s.Trait.Attributes.Has(Fixed),
		Enumerable:   !s.Trait.Attributes.Has(Hidden),
		Namespace:    s.Name.SpaceString(),
		Type:         s.Trait.DeclaredType,
		Writable:     !s.Trait.Attributes.Has(Readonly),
	}
	switch {
	case s.Trait.Attributes.Has(Getter) && s.Trait.Attributes.Has(Setter):
		desc.Get, desc.Set = s.Value, s.Value
	case s.Trait.Attributes.Has(Setter):
		desc.Set = s.Value
	case s.Trait.Attributes.Has(Getter):
		desc.Get = s.Value
	default:
		desc.Value = s.Value
	}
	return desc, true
}

// DefineOptions mirrors the recognized defineProperty option keys (spec
// 4.7). A nil field means that key was not supplied.
type DefineOptions struct {
	Namespace    *string
	Type         TypeRef
	Configurable *bool
	Enumerable   *bool
	Writable     *bool
	Value        ValueRef
	Get          ValueRef
	Set          ValueRef
}

// DefineProperty applies options to the named property on o, creating it
// if absent. value is mutually exclusive with get/set (ArgError); get/set
// must be functions (ArgError); redefining a Fixed property is a
// TypeError ("not configurable"); a PropertyObject value that is not an
// instance of the requested type is an ArgError. Opaque host values carry
// no type and are not checked.
func (o *PropertyObject) DefineProperty(in *Interner, nameText string, opts DefineOptions) (int, error) {
	if opts.Value != nil && (opts.Get != nil || opts.Set != nil) {
		return 0, argErrorf("defineProperty: value is incompatible with get/set")
	}
	if inst, ok := opts.Value.(*PropertyObject); ok && opts.Type != nil && !IsPrototypeOf(opts.Type, inst) {
		return 0, argErrorf("defineProperty: value is not an instance of the declared type")
	}
	if opts.Get != nil {
		if fn, ok := opts.Get.(Function); !ok || !fn.IsFunction() {
			return 0, argErrorf("defineProperty: get must be a function")
		}
	}
	if opts.Set != nil {
		if fn, ok := opts.Set.(Function); !ok || !fn.IsFunction() {
			return 0, argErrorf("defineProperty: set must be a function")
		}
	}
	space := ""
	if opts.Namespace != nil {
		space = *opts.Namespace
	}
	name := NewName(in, space, nameText)

	existing := o.Lookup(name)
	if existing >= 0 {
		trait, _ := o.GetTrait(existing)
		if trait.Attributes.Has(Fixed) {
			return 0, typeErrorf("property %q is not configurable", nameText)
		}
	}

	var attrs Attr
	var value ValueRef
	switch {
	case opts.Set != nil && opts.Get != nil:
		attrs = Getter | Setter
		value = opts.Get
	case opts.Set != nil:
		attrs = Setter
		value = opts.Set
		if existing >= 0 {
			if v, err := o.Get(existing); err == nil {
				value = v
			}
		}
	case opts.Get != nil:
		attrs = Getter
		value = opts.Get
	default:
		value = opts.Value
	}
	if opts.Configurable != nil && !*opts.Configurable {
		attrs |= Fixed
	}
	if opts.Enumerable != nil && !*opts.Enumerable {
		attrs |= Hidden
	}
	if opts.Writable != nil && !*opts.Writable {
		attrs |= Readonly
	}
	return o.Define(existing, name, opts.Type, attrs, value)
}

// Freeze sets Readonly|Fixed on every slot and clears Dynamic. If obj is
// acting as a type, its prototype's slots are frozen too.
func (o *PropertyObject) Freeze() {
	o.Lock()
	o.ownTable()
	for i := 0; i < o.NumProps; i++ {
		o.Table.Slots[i].Trait.Attributes |= Readonly | Fixed
	}
	o.Flags &^= Dynamic
	proto := o.Type
	o.Unlock()
	if o.Flags.Has(TypeFlag) && proto != nil {
		proto.Freeze()
	}
}

// Seal sets Fixed on every slot and clears Dynamic.
func (o *PropertyObject) Seal() {
	o.Lock()
	defer o.Unlock()
	o.ownTable()
	for i := 0; i < o.NumProps; i++ {
		o.Table.Slots[i].Trait.Attributes |= Fixed
	}
	o.Flags &^= Dynamic
}

// PreventExtensions clears Dynamic without touching any slot's trait.
func (o *PropertyObject) PreventExtensions() {
	o.Lock()
	defer o.Unlock()
	o.Flags &^= Dynamic
}

// IsFrozen reports whether every slot has both Readonly and Fixed and
// Dynamic is clear.
func (o *PropertyObject) IsFrozen() bool {
	o.Lock()
	defer o.Unlock()
	if o.Flags.Has(Dynamic) {
		return false
	}
	for i := 0; i < o.NumProps; i++ {
		if o.Table.Slots[i].isEmpty() {
			continue
		}
		if !o.Table.Slots[i].Trait.Attributes.Has(Readonly | Fixed) {
			return false
		}
	}
	return true
}

// IsSealed reports whether every slot has Fixed and Dynamic is clear.
func (o *PropertyObject) IsSealed() bool {
	o.Lock()
	defer o.Unlock()
	if o.Flags.Has(Dynamic) {
		return false
	}
	for i := 0; i < o.NumProps; i++ {
		if o.Table.Slots[i].isEmpty() {
			continue
		}
		if !o.Table.Slots[i].Trait.Attributes.Has(Fixed) {
			return false
		}
	}
	return true
}

// IsExtensible reports the Dynamic flag.
func (o *PropertyObject) IsExtensible() bool {
	o.Lock()
	defer o.Unlock()
	return o.Flags.Has(Dynamic)
}

// GetOwnPropertyNames returns the ordered sequence of non-empty names,
// excluding Deleted, Initializer, and ModuleInitializer. Unlike Iterate,
// Hidden slots ARE included.
func (o *PropertyObject) GetOwnPropertyNames() []Name {
	o.Lock()
	defer o.Unlock()
	names := make([]Name, 0, o.NumProps)
	for i := 0; i < o.NumProps; i++ {
		s := &o.Table.Slots[i]
		if s.isEmpty() || s.Trait.skipOwnPropertyNames() {
			continue
		}
		names = append(names, s.Name)
	}
	return names
}

// HasOwnProperty reports whether name resolves to a slot on o.
func (o *PropertyObject) HasOwnProperty(name Name) bool {
	return o.Lookup(name) >= 0
}

// PropertyIsEnumerable reports whether name resolves to a slot and that
// slot's Hidden bit is clear.
func (o *PropertyObject) PropertyIsEnumerable(name Name) bool {
	slot := o.Lookup(name)
	if slot < 0 {
		return false
	}
	trait, _ := o.GetTrait(slot)
	return !trait.Attributes.Has(Hidden)
}

// GetOwnPrototypeOf returns o's type pointer.
func (o *PropertyObject) GetOwnPrototypeOf() TypeRef {
	o.Lock()
	defer o.Unlock()
	return o.Type
}

// IsPrototypeOf reports whether obj is an instance of the type typ,
// walking the type chain via Type pointers. A type chain can cycle
// (prototype and constructor referencing each other), so the walk tracks
// visited types in a contains.Set and stops rather than looping forever
// once it revisits one.
func IsPrototypeOf(typ TypeRef, obj *PropertyObject) bool {
	visited := contains.Set{}
	for t := obj.GetOwnPrototypeOf(); t != nil; t = t.GetOwnPrototypeOf() {
		if t == typ {
			return true
		}
		if !visited.Add(objectID(t)) {
			return false
		}
	}
	return false
}
