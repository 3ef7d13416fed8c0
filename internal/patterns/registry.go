// Package patterns owns every regular expression used by the analysis
// pipeline. Expressions are registered in a single catalogue, compiled exactly
// once under a process-wide registry, and looked up by dotted name.
//
// Criticality: a small set of names is marked critical. For those, the
// registry guarantees a usable compiled pattern no matter what — if the
// primary expression fails to compile or fails the structural safety check,
// the bundled fallback is compiled instead and a bootstrap warning is
// recorded. Lookups of critical names never return an error.
//
// Concurrency: initialisation runs once under sync.Once; all post-init access
// is read-only, so the registry is safe for concurrent use without locking.
package patterns

import (
	"regexp"
	"sync"

	"github.com/rs/zerolog"

	"kokugo/internal/logger"
)

// Stats reports registry bootstrap counts.
type Stats struct {
	// Definitions is the number of registered pattern definitions.
	Definitions int
	// Compiled is the number of successfully compiled patterns (including
	// fallbacks substituted for broken primaries).
	Compiled int
}

// Registry is the compiled pattern catalogue. Obtain the process-wide
// instance with Default; direct construction is only for tests.
type Registry struct {
	defs     map[string]Definition
	compiled map[string]*regexp.Regexp
	warnings []string
	log      zerolog.Logger
}

var (
	defaultRegistry *Registry
	registryOnce    sync.Once
)

// Default returns the process-wide registry, building it on first call.
// Concurrent first callers observe the same fully-populated instance.
func Default() *Registry {
	registryOnce.Do(func() {
		defaultRegistry = newRegistry(catalogue)
	})
	return defaultRegistry
}

func newRegistry(defs []Definition) *Registry {
	r := &Registry{
		defs:     make(map[string]Definition, len(defs)),
		compiled: make(map[string]*regexp.Regexp, len(defs)),
		log:      logger.WithComponent("patterns"),
	}
	for _, d := range defs {
		r.defs[d.Name] = d
		r.compile(d)
	}
	r.log.Debug().
		Int("definitions", len(r.defs)).
		Int("compiled", len(r.compiled)).
		Int("warnings", len(r.warnings)).
		Msg("Pattern registry initialised")
	return r
}

func (r *Registry) compile(d Definition) {
	expr := d.Expr
	if d.Flags != "" {
		expr = "(?" + d.Flags + ")" + expr
	}

	if err := checkLinear(d.Expr); err != nil {
		r.warn(d.Name, "primary expression rejected by safety check")
		expr = d.Fallback
	}

	if expr != "" {
		if re, err := regexp.Compile(expr); err == nil {
			r.compiled[d.Name] = re
			return
		}
		r.warn(d.Name, "primary expression failed to compile")
	}

	// Primary is unusable; fall back if we can.
	if d.Fallback == "" {
		return
	}
	if re, err := regexp.Compile(d.Fallback); err == nil {
		r.compiled[d.Name] = re
		return
	}
	r.warn(d.Name, "fallback expression failed to compile")
}

func (r *Registry) warn(name, msg string) {
	r.warnings = append(r.warnings, name+": "+msg)
	r.log.Warn().Str("pattern", name).Msg(msg)
}

// Get returns the compiled pattern for name. Unknown or uncompilable
// non-critical names return ErrPatternNotFound; critical names always
// resolve to at least their fallback.
func (r *Registry) Get(name string) (*regexp.Regexp, error) {
	if re, ok := r.compiled[name]; ok {
		return re, nil
	}
	return nil, &PatternError{Name: name, Err: ErrPatternNotFound}
}

// MustGet returns the compiled pattern for a name known to exist in the
// catalogue. It panics on lookup failure, which can only happen on a
// catalogue programming error, never on user input.
func (r *Registry) MustGet(name string) *regexp.Regexp {
	re, err := r.Get(name)
	if err != nil {
		panic(err)
	}
	return re
}

// FindAll runs the named pattern over text and returns all submatch index
// slices, as regexp's FindAllStringSubmatchIndex does.
func (r *Registry) FindAll(name, text string) ([][]int, error) {
	re, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	return re.FindAllStringSubmatchIndex(text, -1), nil
}

// ByFamily returns the definitions registered under family, in catalogue
// order.
func (r *Registry) ByFamily(f Family) []Definition {
	var out []Definition
	for _, d := range catalogue {
		if d.Family == f {
			if _, ok := r.defs[d.Name]; ok {
				out = append(out, d)
			}
		}
	}
	return out
}

// Stats returns bootstrap counts.
func (r *Registry) Stats() Stats {
	return Stats{Definitions: len(r.defs), Compiled: len(r.compiled)}
}

// BootstrapWarnings returns warnings recorded while compiling the catalogue,
// in emission order. Empty on a healthy catalogue.
func (r *Registry) BootstrapWarnings() []string {
	return r.warnings
}

// checkLinear rejects expressions whose structure could exhibit catastrophic
// backtracking on a backtracking engine: an unbounded quantifier applied to a
// group that itself contains an unbounded quantifier, e.g. (a+)+. Go's RE2
// engine is linear-time regardless; this guards the catalogue against edits
// that would break a port to another engine.
func checkLinear(expr string) error {
	type group struct{ hasQuant bool }
	var stack []group
	runes := []rune(expr)
	inClass := false
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '\\':
			i++ // skip escaped rune
		case inClass:
			if r == ']' {
				inClass = false
			}
		case r == '[':
			inClass = true
		case r == '(':
			stack = append(stack, group{})
		case r == ')':
			if len(stack) == 0 {
				continue
			}
			inner := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if inner.hasQuant && followedByUnbounded(runes, i+1) {
				return ErrUnsafeExpression
			}
			if inner.hasQuant && len(stack) > 0 {
				stack[len(stack)-1].hasQuant = true
			}
		case r == '*' || r == '+':
			if len(stack) > 0 {
				stack[len(stack)-1].hasQuant = true
			}
		case r == '{':
			if unboundedRepeat(runes, i) && len(stack) > 0 {
				stack[len(stack)-1].hasQuant = true
			}
		}
	}
	return nil
}

func followedByUnbounded(runes []rune, i int) bool {
	if i >= len(runes) {
		return false
	}
	if runes[i] == '*' || runes[i] == '+' {
		return true
	}
	return runes[i] == '{' && unboundedRepeat(runes, i)
}

// unboundedRepeat reports whether the {...} starting at i has no upper bound,
// i.e. {n,} as opposed to {n} or {n,m}.
func unboundedRepeat(runes []rune, i int) bool {
	for j := i + 1; j < len(runes) && j < i+12; j++ {
		if runes[j] == '}' {
			return runes[j-1] == ','
		}
	}
	return false
}
