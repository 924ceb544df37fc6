package internal

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Config bundles the knobs an embedder can set when constructing a VM.
// This core is an embedded library, not a standalone service, so there
// is no on-disk config format — just small functional options, the way
// this corpus wires optional collaborators into a constructor.
type Config struct {
	logger       *zap.Logger
	registerer   prometheus.Registerer
	defaultDepth int
}

// Option configures a VM at construction time.
type Option func(*Config)

// WithLogger plugs a structured logger for diagnostic events: VM start,
// hash indexes built by NewObject, and table growth through Grow and
// Insert. GC mark/manage calls are not logged. The VM never logs on
// the Get/Set/Lookup hot path, only on structural operations. The
// default is a no-op logger, so a VM built with no options is silent.
func WithLogger(l *zap.Logger) Option {
	return func(c *Config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics registers Prometheus counters and gauges for table growth,
// hash rebuild count, and live object count against reg. Without this
// option metrics are a no-op sink that costs nothing on the hot path.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(c *Config) {
		c.registerer = reg
	}
}

// WithDefaultJSONDepth overrides the default recursion cap ToJSON uses
// when a caller's JSONOptions.Depth is left unset. The specification
// default is 99.
func WithDefaultJSONDepth(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.defaultDepth = n
		}
	}
}

func defaultConfig() *Config {
	return &Config{
		logger:       zap.NewNop(),
		defaultDepth: 99,
	}
}

// VM owns one interpreter's object universe: the name interner and the
// built-in type registry the coercion rules consult, plus the ambient
// logging and metrics collaborators. Per the concurrency model, no
// operation on a VM's object graph may be invoked concurrently with
// another on the same VM; embedders wanting parallelism construct
// independent VMs, each with a disjoint object universe.
type VM struct {
	// Names interns the (space, name) pairs every Name uses, so equality
	// can take the pointer-identity fast path.
	Names *Interner
	// Types holds the built-in Boolean/Number/String/global type
	// identities the coercion and cast rules recognize.
	Types *TypeRegistry
	// ObjectType is the root type every plain object's Type chain
	// eventually reaches.
	ObjectType TypeRef

	logger    *zap.Logger
	metrics   metricsSink
	jsonDepth int

	StartTime time.Time
}

// NewVM constructs a VM with its root object type and the built-in
// Boolean, Number, String, and global types registered, ready for script
// values to be created against it.
func NewVM(opts ...Option) *VM {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	sink := metricsSink(noopSink{})
	if cfg.registerer != nil {
		sink = newPromSink(cfg.registerer)
	}

	vm := &VM{
		Names:     NewInterner(),
		logger:    cfg.logger,
		metrics:   sink,
		jsonDepth: cfg.defaultDepth,
		StartTime: time.Now(),
	}

	vm.ObjectType = Create(nil, 0)
	vm.ObjectType.Flags |= TypeFlag | Dynamic

	vm.Types = &TypeRegistry{
		Boolean: vm.newBuiltinType("Boolean"),
		Number:  vm.newBuiltinType("Number"),
		String:  vm.newBuiltinType("String"),
		Global:  vm.newBuiltinType("global"),
	}
	vm.logger.Debug("vm initialized", zap.Time("start", vm.StartTime))
	return vm
}

// newBuiltinType allocates a type object descending from ObjectType and
// names it, so qualifiedTypeName and script-visible type introspection
// can read it back.
func (vm *VM) newBuiltinType(name string) TypeRef {
	t := Create(vm.ObjectType, 1)
	t.Flags |= TypeFlag
	_, err := t.Define(0, ShortName(vm.Names, "name"), nil, Readonly|Fixed, &sentinel{name: name})
	if err != nil {
		vm.logger.Debug("failed to name builtin type", zap.String("name", name), zap.Error(err))
	}
	return t
}

// NewObject creates a plain instance of typ (ObjectType if nil) with
// initialNumProps slots, per the create(type, initial_num_props)
// lifecycle, observing the growth/GC-relevant events the ambient stack
// tracks.
func (vm *VM) NewObject(typ TypeRef, initialNumProps int) *PropertyObject {
	if typ == nil {
		typ = vm.ObjectType
	}
	obj := Create(typ, initialNumProps)
	vm.metrics.liveObjects(1)
	if initialNumProps > minHashThreshold {
		vm.logger.Debug("hash index built at creation", zap.Int("numProps", initialNumProps))
		vm.metrics.hashRebuild()
	}
	return obj
}

// Operator dispatches through vm.Types, which Operator needs in order to
// recognize the built-in Number/String targets by identity.
func (vm *VM) Operator(lhs *PropertyObject, op string, rhs ValueRef) (ValueRef, error) {
	return Operator(vm.Types, lhs, op, rhs)
}

// Cast dispatches through vm.Types for the same reason.
func (vm *VM) Cast(obj *PropertyObject, target TypeRef) (ValueRef, error) {
	return Cast(vm.Types, obj, target)
}

// ToJSON serializes obj, filling in opts.Depth from the VM's configured
// default when the caller left it unset.
func (vm *VM) ToJSON(obj *PropertyObject, opts JSONOptions) string {
	if opts.Depth <= 0 {
		opts.Depth = vm.jsonDepth
	}
	return ToJSON(obj, opts)
}

// Grow ensures obj has room for at least n slots, logging and counting
// the resize so the ambient stack observes structural changes the bare
// Operations call would make silently.
func (vm *VM) Grow(obj *PropertyObject, n int) error {
	before := obj.Count()
	if err := obj.Grow(n); err != nil {
		return err
	}
	if n > before {
		vm.metrics.tableGrowth()
		vm.logger.Debug("table grown", zap.Int("requested", n), zap.Int("from", before))
	}
	return nil
}

// Insert grows obj by incr slots at offset off, logging and counting the
// resize the same way Grow does.
func (vm *VM) Insert(obj *PropertyObject, off, incr int) error {
	if err := obj.Insert(off, incr); err != nil {
		return err
	}
	vm.metrics.tableGrowth()
	vm.logger.Debug("slots inserted", zap.Int("offset", off), zap.Int("count", incr))
	return nil
}
