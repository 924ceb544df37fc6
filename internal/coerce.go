package internal

import (
	"fmt"
	"strconv"
)

// TypeRegistry names the few built-in types the coercion and cast rules
// need to recognize by identity: Boolean, Number, String, and the global
// object. The VM populates this once at bootstrap and threads it through
// every Operator/Cast call; the core does not implement these types
// itself (spec 1: "the core treats them as opaque references").
type TypeRegistry struct {
	Boolean TypeRef
	Number  TypeRef
	String  TypeRef
	Global  TypeRef
}

// Numeric is implemented by opaque host values that behave as the script
// Number type: the coercion rules need to read and produce numeric
// values without the core depending on a concrete Number implementation.
type Numeric interface {
	ValueRef
	Float() float64
}

// Stringish is implemented by opaque host values that behave as the
// script String type.
type Stringish interface {
	ValueRef
	fmt.Stringer
}

// unwrap returns the value a PropertyObject wraps, for objects that hold
// an opaque host payload (e.g. a boxed string or number); other values
// pass through unchanged.
func unwrap(v ValueRef) ValueRef {
	if o, ok := v.(*PropertyObject); ok && o.Value != nil {
		return o.Value
	}
	return v
}

// numberOf reports v's float64 value if it (or the object it wraps)
// implements Numeric.
func numberOf(v ValueRef) (float64, bool) {
	n, ok := unwrap(v).(Numeric)
	if !ok {
		return 0, false
	}
	return n.Float(), true
}

// stringOf reports v's string value if it (or the object it wraps)
// implements Stringish.
func stringOf(v ValueRef) (string, bool) {
	s, ok := unwrap(v).(Stringish)
	if !ok {
		return "", false
	}
	return s.String(), true
}

// typeOf reports the TypeRef of v, if v is a PropertyObject.
func typeOf(v ValueRef) TypeRef {
	if o, ok := v.(*PropertyObject); ok {
		return o.Type
	}
	return nil
}

// One is the canonical sentinel produced by the logical-NOT,
// bitwise-NOT, and negate fallbacks below, standing in for the boxed
// numeric literal 1 a concrete Number type would produce.
var One ValueRef = &sentinel{name: "1"}

// Operator applies the coercion rule table of spec 4.9. If lhs's type
// supplies a Helpers.Operator, the call is dispatched to it. Otherwise
// the coercion is applied whatever the operand types: == and != and the
// ordering operators compare numeric forms when rhs is of the registry's
// Number type and string forms otherwise, and + concatenates string forms.
// Two distinct objects of the same type are therefore equal under == when
// those forms match; only === and !== compare by identity.
func Operator(reg *TypeRegistry, lhs *PropertyObject, op string, rhs ValueRef) (ValueRef, error) {
	if lhs != nil && lhs.Type != nil && lhs.Type.Helpers != nil && lhs.Type.Helpers.Operator != nil {
		return lhs.Type.Helpers.Operator(lhs, op, rhs)
	}
	switch op {
	case "==", "!=":
		return equalityOperator(reg, lhs, op, rhs)
	case "<", "<=", ">=", ">":
		return orderingOperator(reg, lhs, op, rhs)
	case "+":
		return concatOperator(lhs, rhs)
	case "===":
		return boolValue(identical(lhs, rhs)), nil
	case "!==":
		return boolValue(!identical(lhs, rhs)), nil
	case "!", "~", "neg":
		return One, nil
	default:
		return nil, typeErrorf("unsupported operator %q for %s", op, qualifiedTypeName(lhs.Type))
	}
}

func equalityOperator(reg *TypeRegistry, lhs *PropertyObject, op string, rhs ValueRef) (ValueRef, error) {
	if IsNull(rhs) || IsUndefined(rhs) {
		return boolValue(op == "!="), nil
	}
	if reg != nil && typeOf(rhs) == reg.Number {
		ln, lok := numberOf(lhs)
		rn, rok := numberOf(rhs)
		if lok && rok {
			eq := ln == rn
			return boolValue(eq == (op == "==")), nil
		}
	}
	ls, _ := stringOf(lhs)
	rs, _ := stringOf(rhs)
	eq := ls == rs
	return boolValue(eq == (op == "==")), nil
}

func orderingOperator(reg *TypeRegistry, lhs *PropertyObject, op string, rhs ValueRef) (ValueRef, error) {
	var less, equal bool
	if reg != nil && typeOf(rhs) == reg.Number {
		ln, lok := numberOf(lhs)
		rn, rok := numberOf(rhs)
		if lok && rok {
			less, equal = ln < rn, ln == rn
		}
	} else {
		ls, _ := stringOf(lhs)
		rs, _ := stringOf(rhs)
		less, equal = ls < rs, ls == rs
	}
	switch op {
	case "<":
		return boolValue(less), nil
	case "<=":
		return boolValue(less || equal), nil
	case ">=":
		return boolValue(!less), nil
	case ">":
		return boolValue(!less && !equal), nil
	}
	panic("unreachable")
}

func concatOperator(lhs *PropertyObject, rhs ValueRef) (ValueRef, error) {
	ls, _ := stringOf(lhs)
	rs, _ := stringOf(rhs)
	return &sentinel{name: ls + rs}, nil
}

func identical(lhs *PropertyObject, rhs ValueRef) bool {
	o, ok := rhs.(*PropertyObject)
	return ok && o == lhs
}

func boolValue(b bool) ValueRef {
	if b {
		return trueSentinel
	}
	return falseSentinel
}

var (
	trueSentinel  ValueRef = &sentinel{name: "true"}
	falseSentinel ValueRef = &sentinel{name: "false"}
)

// qualifiedTypeName reads the conventional "name" property off typ, or
// "Object" if unavailable. Used only to build error messages.
func qualifiedTypeName(typ TypeRef) string {
	if typ == nil {
		return "Object"
	}
	slot := typ.Lookup(ShortName(nil, "name"))
	if slot < 0 {
		return "Object"
	}
	v, err := typ.Get(slot)
	if err != nil {
		return "Object"
	}
	if s, ok := stringOf(v); ok {
		return s
	}
	return "Object"
}

// Cast converts obj to target, per spec 4.9: delegates to target's
// Helpers.Cast if defined; otherwise Boolean yields true, Number parses
// obj's string form, String invokes obj's own toString if overridden (an
// opaque value implementing Stringish) or synthesizes
// "[object <typeName>]", global yields "[object global]", and any other
// target succeeds iff obj is an instance of it, else TypeError.
func Cast(reg *TypeRegistry, obj *PropertyObject, target TypeRef) (ValueRef, error) {
	if target != nil && target.Helpers != nil && target.Helpers.Cast != nil {
		return target.Helpers.Cast(obj, target)
	}
	if reg != nil {
		switch target {
		case reg.Boolean:
			return trueSentinel, nil
		case reg.Number:
			s, _ := stringOf(obj)
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, typeErrorf("cannot cast %s to Number", qualifiedTypeName(obj.Type))
			}
			return numberSentinel(f), nil
		case reg.String:
			if s, ok := stringOf(obj); ok {
				return &sentinel{name: s}, nil
			}
			return &sentinel{name: fmt.Sprintf("[object %s]", qualifiedTypeName(obj.Type))}, nil
		case reg.Global:
			return &sentinel{name: "[object global]"}, nil
		}
	}
	if IsPrototypeOf(target, obj) || obj.Type == target {
		return obj, nil
	}
	return nil, typeErrorf("cannot cast %s to %s", qualifiedTypeName(obj.Type), qualifiedTypeName(target))
}

// numberSentinel boxes a float64 as an opaque Numeric sentinel, used only
// by Cast's Number target where no concrete Number type is available.
type numberLit struct {
	Opaque
	v float64
}

func (n *numberLit) Float() float64  { return n.v }
func (n *numberLit) String() string  { return strconv.FormatFloat(n.v, 'g', -1, 64) }

func numberSentinel(f float64) ValueRef {
	return &numberLit{v: f}
}
