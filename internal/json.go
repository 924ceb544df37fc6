package internal

import (
	"strconv"
	"strings"
)

// JSONOptions mirrors the recognized option keys of spec 4.8.
type JSONOptions struct {
	// Depth caps recursion; 0 means "use the default of 99".
	Depth int
	// Indent is either a literal indent string, or left empty with
	// IndentWidth set to mean "N spaces".
	Indent      string
	IndentWidth int
	Pretty      bool
	Hidden      bool
	Namespaces  bool
	BaseClasses bool
	// Replacer, if set, is called with each key and its already-serialized
	// value and may substitute a different serialized form.
	Replacer func(key, serialized string) string
}

func (o JSONOptions) depth() int {
	if o.Depth <= 0 {
		return 99
	}
	return o.Depth
}

func (o JSONOptions) indentUnit() string {
	if o.Indent != "" {
		return o.Indent
	}
	if o.IndentWidth > 0 {
		return strings.Repeat(" ", o.IndentWidth)
	}
	if o.Pretty {
		return "  "
	}
	return ""
}

// JSONArray is implemented by opaque host values that behave as the
// script Array type, letting the serializer emit `[...]` instead of
// `{...}` without this core depending on a concrete array type.
type JSONArray interface {
	ValueRef
	Elements() []ValueRef
}

// ToJSON serializes obj per spec 4.8. depth is tracked across the
// recursion and capped by opts.Depth (default 99); once exceeded, a
// value's string form is emitted instead of recursing, which is also
// what makes cyclic graphs terminate.
func ToJSON(obj *PropertyObject, opts JSONOptions) string {
	var b strings.Builder
	writeJSON(&b, obj, opts, 0)
	return b.String()
}

func writeJSON(b *strings.Builder, v ValueRef, opts JSONOptions, depth int) {
	if IsUndefined(v) || v == nil {
		b.WriteString("null")
		return
	}
	if IsNull(v) {
		b.WriteString("null")
		return
	}
	_, isArray := v.(JSONArray)
	obj, isObj := v.(*PropertyObject)
	if (isArray || isObj) && depth >= opts.depth() {
		b.WriteString(quoteJSON(toStringFallback(v)))
		return
	}
	if isArray {
		writeJSONArray(b, v.(JSONArray).Elements(), opts, depth)
		return
	}
	if !isObj {
		if s, ok := stringOf(v); ok {
			b.WriteString(quoteJSON(s))
			return
		}
		if n, ok := numberOf(v); ok {
			b.WriteString(strconv.FormatFloat(n, 'g', -1, 64))
			return
		}
		b.WriteString(quoteJSON(toStringFallback(v)))
		return
	}
	writeJSONObject(b, obj, opts, depth)
}

func writeJSONArray(b *strings.Builder, elems []ValueRef, opts JSONOptions, depth int) {
	unit := opts.indentUnit()
	pretty := unit != ""
	b.WriteByte('[')
	if pretty && len(elems) > 0 {
		b.WriteByte('\n')
	}
	for i, e := range elems {
		if pretty {
			b.WriteString(strings.Repeat(unit, depth+1))
		}
		writeJSON(b, e, opts, depth+1)
		if i < len(elems)-1 {
			b.WriteByte(',')
		}
		if pretty {
			b.WriteByte('\n')
		}
	}
	if pretty && len(elems) > 0 {
		b.WriteString(strings.Repeat(unit, depth))
	}
	b.WriteByte(']')
}

func writeJSONObject(b *strings.Builder, obj *PropertyObject, opts JSONOptions, depth int) {
	unit := opts.indentUnit()
	pretty := unit != ""

	type entry struct {
		key  string
		slot int
	}
	var entries []entry
	obj.Lock()
	for i := 0; i < obj.NumProps; i++ {
		s := &obj.Table.Slots[i]
		if s.isEmpty() || s.Trait.Attributes.Any(Deleted|Initializer|ModuleInitializer) {
			continue
		}
		if !opts.Hidden && (s.Trait.Attributes.Has(Hidden) || valueHidden(s.Value)) {
			continue
		}
		key := s.Name.TextString()
		if opts.Namespaces && s.Name.HasSpace() {
			key = `"` + s.Name.SpaceString() + `"::` + key
		}
		entries = append(entries, entry{key: key, slot: i})
	}
	obj.Unlock()

	b.WriteByte('{')
	if pretty && len(entries) > 0 {
		b.WriteByte('\n')
	}
	for i, e := range entries {
		if pretty {
			b.WriteString(strings.Repeat(unit, depth+1))
		}
		b.WriteString(quoteJSON(e.key))
		b.WriteByte(':')
		if pretty {
			b.WriteByte(' ')
		}
		v, _ := obj.Get(e.slot)
		if opts.Replacer != nil {
			var inner strings.Builder
			writeJSON(&inner, v, opts, depth+1)
			b.WriteString(opts.Replacer(e.key, inner.String()))
		} else {
			writeJSON(b, v, opts, depth+1)
		}
		if i < len(entries)-1 {
			b.WriteByte(',')
		}
		if pretty {
			b.WriteByte('\n')
		}
	}
	if pretty && len(entries) > 0 {
		b.WriteString(strings.Repeat(unit, depth))
	}
	b.WriteByte('}')
}

// toStringFallback produces the depth-exceeded / non-representable
// fallback text: a Stringish value's own String(), or the canonical
// "[object <typeName>]" form for a plain object.
func toStringFallback(v ValueRef) string {
	if s, ok := stringOf(v); ok {
		return s
	}
	if o, ok := v.(*PropertyObject); ok {
		return "[object " + qualifiedTypeName(o.Type) + "]"
	}
	return "[object Object]"
}

func quoteJSON(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
