package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestManageMarkDelegatesToObjectMark(t *testing.T) {
	typ := Create(nil, 0)
	obj := Create(typ, 0)
	obj.Value = &sentinel{name: "payload"}

	var visited []ValueRef
	Manage(obj, ManageMark, func(v ValueRef) { visited = append(visited, v) })

	assert.Contains(t, visited, ValueRef(typ))
	assert.Contains(t, visited, obj.Value)
}

func TestManageNilObjectIsNoop(t *testing.T) {
	assert.NotPanics(t, func() {
		Manage(nil, ManageMark, func(ValueRef) {})
	})
}
