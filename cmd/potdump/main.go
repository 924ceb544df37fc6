// Command potdump builds a small object graph against the property core
// and prints its reflection surface and JSON serialization. It exists to
// exercise the public API end to end, not to interpret any script source.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/kodelang/pot"
)

// number is a minimal Numeric value standing in for the host language's
// real Number type, which this core treats as opaque. It deliberately
// does not also implement Stringish: the JSON writer tries Stringish
// before Numeric, so a dual-interface value here would render as a
// quoted string instead of a JSON number.
type number struct {
	pot.Opaque
	v float64
}

func (n number) Float() float64 { return n.v }

// str is a minimal Stringish value standing in for the host language's
// real String type.
type str struct {
	pot.Opaque
	s string
}

func (s str) String() string { return s.s }

func main() {
	pretty := pflag.BoolP("pretty", "p", true, "pretty-print the JSON output")
	depth := pflag.IntP("depth", "d", 0, "JSON recursion cap (0 uses the VM default)")
	hidden := pflag.Bool("hidden", false, "include hidden properties in the JSON output")
	verbose := pflag.BoolP("verbose", "v", false, "log structural VM events at debug level")
	pflag.Parse()

	var logger *zap.Logger
	if *verbose {
		logger, _ = zap.NewDevelopment()
	} else {
		logger = zap.NewNop()
	}

	vm := pot.NewVM(pot.WithLogger(logger))

	pointType := vm.NewObject(vm.ObjectType, 0)
	pointType.Flags |= pot.TypeFlag | pot.Dynamic
	if _, err := pointType.Define(-1, pot.ShortName(vm.Names, "kind"), nil, pot.Readonly|pot.Fixed, str{s: "Point"}); err != nil {
		fail(err)
	}

	origin := vm.NewObject(pointType, 0)
	origin.Flags |= pot.Dynamic
	if _, err := origin.Define(-1, pot.ShortName(vm.Names, "x"), nil, 0, number{v: 0}); err != nil {
		fail(err)
	}
	if _, err := origin.Define(-1, pot.ShortName(vm.Names, "y"), nil, 0, number{v: 0}); err != nil {
		fail(err)
	}

	child := vm.NewObject(pointType, 0)
	child.Flags |= pot.Dynamic
	if _, err := child.Define(-1, pot.ShortName(vm.Names, "x"), nil, 0, number{v: 3}); err != nil {
		fail(err)
	}
	if _, err := child.Define(-1, pot.ShortName(vm.Names, "y"), nil, 0, number{v: 4}); err != nil {
		fail(err)
	}
	if _, err := child.Define(-1, pot.ShortName(vm.Names, "origin"), nil, 0, origin); err != nil {
		fail(err)
	}

	fmt.Println("own properties:")
	for _, name := range child.GetOwnPropertyNames() {
		desc, _ := child.Describe(name)
		fmt.Printf("  %s: writable=%v enumerable=%v configurable=%v\n",
			name.TextString(), desc.Writable, desc.Enumerable, desc.Configurable)
	}

	fmt.Println("iteration:")
	it := child.Iterate(*hidden)
	for {
		name, err := it.NextName()
		if pot.IsStopIteration(err) {
			break
		}
		if err != nil {
			fail(err)
		}
		fmt.Printf("  %s\n", name.TextString())
	}

	clone := child.Clone(true)
	same := clone.Lookup(pot.ShortName(vm.Names, "origin")) == child.Lookup(pot.ShortName(vm.Names, "origin"))
	fmt.Printf("deep clone shares origin slot index: %v\n", same)

	opts := pot.JSONOptions{Pretty: *pretty, Depth: *depth, Hidden: *hidden}
	fmt.Println(vm.ToJSON(child, opts))
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "potdump:", err)
	os.Exit(1)
}
