package internal

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVMRegistersBuiltinTypes(t *testing.T) {
	vm := NewVM()
	require.NotNil(t, vm.ObjectType)
	require.NotNil(t, vm.Types)
	assert.True(t, vm.ObjectType.Flags.Has(TypeFlag | Dynamic))
	assert.True(t, vm.Types.Boolean.Flags.Has(TypeFlag))
	assert.True(t, vm.Types.Number.Flags.Has(TypeFlag))
	assert.True(t, vm.Types.String.Flags.Has(TypeFlag))
	assert.True(t, vm.Types.Global.Flags.Has(TypeFlag))
}

func TestNewVMBuiltinTypesAreNamed(t *testing.T) {
	vm := NewVM()
	slot := vm.Types.Number.Lookup(ShortName(vm.Names, "name"))
	require.GreaterOrEqual(t, slot, 0)
	v, err := vm.Types.Number.Get(slot)
	require.NoError(t, err)
	assert.Equal(t, "Number", v.(*sentinel).name)
}

func TestNewObjectCountsLiveObjects(t *testing.T) {
	reg := prometheus.NewRegistry()
	vm := NewVM(WithMetrics(reg))
	obj := vm.NewObject(vm.ObjectType, 0)
	require.NotNil(t, obj)
}

func TestVMOperatorAndCastDelegate(t *testing.T) {
	vm := NewVM()
	a := Create(vm.Types.Number, 0)
	a.Value = testNumber{n: 1}
	b := Create(vm.Types.Number, 0)
	b.Value = testNumber{n: 1}

	v, err := vm.Operator(a, "==", b)
	require.NoError(t, err)
	assert.Same(t, trueSentinel, v)

	v, err = vm.Cast(a, vm.Types.Boolean)
	require.NoError(t, err)
	assert.Same(t, trueSentinel, v)
}

func TestVMToJSONUsesDefaultDepth(t *testing.T) {
	vm := NewVM(WithDefaultJSONDepth(1))
	outer := vm.NewObject(vm.ObjectType, 0)
	outer.Flags |= Dynamic
	inner := vm.NewObject(vm.ObjectType, 0)
	_, err := outer.Define(-1, ShortName(vm.Names, "a"), nil, 0, inner)
	require.NoError(t, err)

	got := vm.ToJSON(outer, JSONOptions{Pretty: true})
	assert.Equal(t, "{\n  \"a\": \"[object Object]\"\n}", got)
}

func TestVMGrowAndInsertDelegate(t *testing.T) {
	vm := NewVM()
	obj := vm.NewObject(vm.ObjectType, 0)
	obj.Flags |= Dynamic
	require.NoError(t, vm.Grow(obj, 20))
	assert.GreaterOrEqual(t, obj.Table.Size, 20)

	require.NoError(t, vm.Insert(obj, 0, 2))
	assert.Equal(t, 2, obj.NumProps)
}
