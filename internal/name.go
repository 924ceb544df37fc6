package internal

import "sync"

// Interner assigns a single stable handle to each distinct string it sees.
// Two strings that compare interned have identical handles, so Name
// comparisons can use pointer identity as the fast path and fall back to a
// byte comparison only when two interners disagree about a string's
// identity (for example, a Name built from a literal not yet registered with
// this interner).
//
// An Interner is safe for concurrent use, though per the single-executor
// concurrency model in the VM, contention is not expected in practice.
type Interner struct {
	mu      sync.Mutex
	handles map[string]*string
}

// NewInterner creates an empty Interner.
func NewInterner() *Interner {
	return &Interner{handles: make(map[string]*string)}
}

// Intern returns the canonical handle for s, registering it if this is the
// first time s has been seen.
func (in *Interner) Intern(s string) *string {
	in.mu.Lock()
	defer in.mu.Unlock()
	if h, ok := in.handles[s]; ok {
		return h
	}
	h := new(string)
	*h = s
	in.handles[s] = h
	return h
}

// defaultSpace is the handle used for names with no namespace qualifier.
var defaultSpace = new(string)

// Name is a namespace-qualified identifier: a short name plus an optional
// namespace qualifier. Hashing always uses only Text; Space participates
// only in equality comparisons (spec: "Hash of a Name uses ONLY name.name").
type Name struct {
	Space *string
	Text  *string
}

// NewName builds a Name from raw strings, interning both parts with in. A
// nil Interner falls back to per-call allocation, which is correct but
// forgoes the pointer-identity fast path.
func NewName(in *Interner, space, text string) Name {
	var sp, tx *string
	if space == "" {
		sp = defaultSpace
	} else if in != nil {
		sp = in.Intern(space)
	} else {
		sp = &space
	}
	if in != nil {
		tx = in.Intern(text)
	} else {
		tx = &text
	}
	return Name{Space: sp, Text: tx}
}

// ShortName builds an unqualified Name, equivalent to NewName(in, "", text).
func ShortName(in *Interner, text string) Name {
	return NewName(in, "", text)
}

// HasSpace reports whether n carries an explicit namespace qualifier.
func (n Name) HasSpace() bool {
	return n.Space != nil && n.Space != defaultSpace && *n.Space != ""
}

// TextString returns the short name as a plain string.
func (n Name) TextString() string {
	if n.Text == nil {
		return ""
	}
	return *n.Text
}

// SpaceString returns the namespace qualifier as a plain string, or "" if
// there is none.
func (n Name) SpaceString() string {
	if n.Space == nil {
		return ""
	}
	return *n.Space
}

// equalHandles compares two handles, falling back to a byte comparison when
// the pointers differ (the interners disagreed, or one side was built
// without an Interner).
func equalHandles(a, b *string) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}

// QualifiedEqual reports whether both the space and the short name of n and
// m are equal. Two empty spaces are always equal regardless of which
// sentinel produced them.
func (n Name) QualifiedEqual(m Name) bool {
	if !equalHandles(n.Text, m.Text) {
		return false
	}
	return n.SpaceString() == m.SpaceString()
}

// ShortEqual reports whether n and m have the same short name, ignoring
// namespace.
func (n Name) ShortEqual(m Name) bool {
	return equalHandles(n.Text, m.Text)
}

// Empty reports whether n has no short name, the state used by tombstoned
// or never-assigned slots.
func (n Name) Empty() bool {
	return n.Text == nil || *n.Text == ""
}
