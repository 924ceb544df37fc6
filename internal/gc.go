package internal

// ManageFlag mirrors the two-phase callback a foreign collector invokes
// on a managed allocation: a mark pass to report live references, and
// (separately, by convention) a free pass with no callback obligation —
// the core never finalizes anything itself, per spec 5.
type ManageFlag int

const (
	// ManageMark requests that obj report every reference it owns via
	// visit.
	ManageMark ManageFlag = iota
)

// Manage is the manage(obj, flag) hook named in spec 5: on ManageMark it
// delegates to obj.Mark, which reports the type pointer, the Value
// payload, and every live slot's value and declared type. visit is
// supplied by the foreign collector; Manage and Mark never free or
// finalize anything.
func Manage(obj *PropertyObject, flag ManageFlag, visit func(ValueRef)) {
	if obj == nil {
		return
	}
	switch flag {
	case ManageMark:
		obj.Mark(visit)
	}
}
