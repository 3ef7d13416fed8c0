package patterns

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConcurrent(t *testing.T) {
	const goroutines = 16
	regs := make([]*Registry, goroutines)

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			regs[i] = Default()
		}(i)
	}
	wg.Wait()

	for i := 1; i < goroutines; i++ {
		assert.Same(t, regs[0], regs[i], "all callers must observe one registry")
	}
}

func TestGetReturnsSameCompiledObject(t *testing.T) {
	r := Default()
	a, err := r.Get("section.kanji_comma_next")
	require.NoError(t, err)
	b, err := r.Get("section.kanji_comma_next")
	require.NoError(t, err)
	assert.Same(t, a, b)
}

func TestGetUnknownName(t *testing.T) {
	_, err := Default().Get("no.such_pattern")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPatternNotFound)

	var perr *PatternError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "no.such_pattern", perr.Name)
}

func TestCatalogueCompilesClean(t *testing.T) {
	r := Default()
	stats := r.Stats()
	assert.Equal(t, len(catalogue), stats.Definitions)
	assert.Equal(t, stats.Definitions, stats.Compiled, "every catalogue pattern must compile")
	assert.Empty(t, r.BootstrapWarnings())
}

func TestCriticalFallback(t *testing.T) {
	defs := []Definition{
		{
			Name:     "test.broken",
			Family:   FamilySection,
			Expr:     "([一二三)", // unterminated class
			Critical: true,
			Fallback: "([一二三四五六七八九十]+)、",
		},
	}
	r := newRegistry(defs)

	re, err := r.Get("test.broken")
	require.NoError(t, err, "critical names must always resolve")
	assert.True(t, re.MatchString("二、次の文章"))
	require.Len(t, r.BootstrapWarnings(), 1)
	assert.Contains(t, r.BootstrapWarnings()[0], "test.broken")
}

func TestNonCriticalBrokenPattern(t *testing.T) {
	defs := []Definition{
		{Name: "test.hopeless", Family: FamilyNoise, Expr: "(["},
	}
	r := newRegistry(defs)

	_, err := r.Get("test.hopeless")
	assert.ErrorIs(t, err, ErrPatternNotFound)
	assert.NotEmpty(t, r.BootstrapWarnings())
}

func TestCheckLinear(t *testing.T) {
	tests := []struct {
		expr   string
		unsafe bool
	}{
		{"(a+)+", true},
		{"(a*)*", true},
		{"(a+){2,}", true},
		{"(\\d+)+", true},
		{"(a+)", false},
		{"(a+)b+", false},
		{"(abc)+", false},
		{"[一二三]+、", false},
		{"(a+){2,4}", false},
		{"\\(+", false},
		{"[(]+)+", false}, // quantifier inside a class is literal
	}
	for _, tt := range tests {
		err := checkLinear(tt.expr)
		if tt.unsafe {
			assert.True(t, errors.Is(err, ErrUnsafeExpression), tt.expr)
		} else {
			assert.NoError(t, err, tt.expr)
		}
	}
}

func TestByFamily(t *testing.T) {
	r := Default()
	for _, f := range []Family{FamilyYear, FamilySection, FamilyQuestion, FamilySource, FamilyNoise, FamilyMisc} {
		assert.NotEmpty(t, r.ByFamily(f), "family %s must have registered patterns", f)
	}
}

func TestMustGetPanicsOnUnknown(t *testing.T) {
	assert.Panics(t, func() { Default().MustGet("no.such_pattern") })
}
