package step

import (
	"fmt"
	"sort"
	"sync"

	"github.com/anthony-okoye/vestro"
)

// Registry holds the step catalog: one processor per step number. The
// catalog is supplied by registration, never discovered. It is safe for
// concurrent use.
type Registry struct {
	mu    sync.RWMutex
	procs map[int]Processor
}

// NewRegistry creates an empty step registry.
func NewRegistry() *Registry {
	return &Registry{
		procs: make(map[int]Processor),
	}
}

// Register adds a processor under its declared step number. Registering a
// number twice fails with vestro.ErrDuplicateStep.
func (r *Registry) Register(p Processor) error {
	if p == nil {
		return fmt.Errorf("step: register nil processor")
	}

	def := p.Definition()
	if def.Number < 1 {
		return fmt.Errorf("step: invalid step number %d for %q", def.Number, def.Label)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.procs[def.Number]; exists {
		return fmt.Errorf("%w: step %d", vestro.ErrDuplicateStep, def.Number)
	}
	r.procs[def.Number] = p

	return nil
}

// MustRegister is like Register but panics on error. Use during host
// application startup where a bad catalog is a programming error.
func (r *Registry) MustRegister(p Processor) {
	if err := r.Register(p); err != nil {
		panic(err)
	}
}

// Get returns the processor registered for a step number.
func (r *Registry) Get(stepNumber int) (Processor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.procs[stepNumber]
	return p, ok
}

// Definition returns the static definition for a step number.
func (r *Registry) Definition(stepNumber int) (Definition, bool) {
	p, ok := r.Get(stepNumber)
	if !ok {
		return Definition{}, false
	}
	return p.Definition(), true
}

// Definitions returns the full catalog ordered by step number.
func (r *Registry) Definitions() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]Definition, 0, len(r.procs))
	for _, p := range r.procs {
		defs = append(defs, p.Definition())
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Number < defs[j].Number })

	return defs
}

// Total returns the number of registered steps.
func (r *Registry) Total() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.procs)
}

// Complete verifies the catalog covers a contiguous 1..N range. It
// returns an error wrapping vestro.ErrUnregisteredStep naming every
// missing number, so a misassembled host fails fast instead of failing on
// the first session that reaches the gap.
func (r *Registry) Complete() error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := len(r.procs)
	if total == 0 {
		return fmt.Errorf("%w: empty catalog", vestro.ErrUnregisteredStep)
	}

	var missing []int
	for n := 1; n <= total; n++ {
		if _, ok := r.procs[n]; !ok {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: catalog of %d steps is missing %v", vestro.ErrUnregisteredStep, total, missing)
	}

	return nil
}
