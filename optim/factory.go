package optim

import (
	"fmt"
	"sort"
	"sync"
)

// Names of the built-in algorithms.
const (
	NameGaussNewton        = "gn_dense"
	NameLevenbergMarquardt = "lm_dense"
)

// Constructor builds a fresh Algorithm instance.
type Constructor func() Algorithm

// Factory maps algorithm names to constructors. Safe for concurrent use.
type Factory struct {
	mu    sync.RWMutex
	ctors map[string]Constructor
}

// NewFactory returns an empty Factory.
func NewFactory() *Factory {
	return &Factory{ctors: make(map[string]Constructor)}
}

// DefaultFactory knows "gn_dense" and "lm_dense".
var DefaultFactory = newDefaultFactory()

func newDefaultFactory() *Factory {
	f := NewFactory()
	_ = f.Register(NameGaussNewton, func() Algorithm { return NewGaussNewton() })
	_ = f.Register(NameLevenbergMarquardt, func() Algorithm { return NewLevenbergMarquardt() })

	return f
}

// Register adds a constructor under name. Panics on an empty name or a nil
// constructor (programmer error).
//
// Errors:
//   - ErrDuplicateAlgorithm if name is already registered.
func (f *Factory) Register(name string, c Constructor) error {
	if name == "" {
		panic("optim: Factory.Register(\"\")")
	}
	if c == nil {
		panic("optim: Factory.Register(nil)")
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, dup := f.ctors[name]; dup {
		return optimErrorf(opRegister, fmt.Errorf("%w: %q", ErrDuplicateAlgorithm, name))
	}
	f.ctors[name] = c

	return nil
}

// Construct builds a new instance of the named algorithm.
//
// Errors:
//   - ErrUnknownAlgorithm if name is not registered.
func (f *Factory) Construct(name string) (Algorithm, error) {
	f.mu.RLock()
	c, ok := f.ctors[name]
	f.mu.RUnlock()
	if !ok {
		return nil, optimErrorf(opConstruct, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name))
	}

	return c(), nil
}

// Names returns the registered names in sorted order.
func (f *Factory) Names() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	names := make([]string, 0, len(f.ctors))
	for n := range f.ctors {
		names = append(names, n)
	}
	sort.Strings(names)

	return names
}

// Construct builds the named algorithm from DefaultFactory.
func Construct(name string) (Algorithm, error) {
	return DefaultFactory.Construct(name)
}
