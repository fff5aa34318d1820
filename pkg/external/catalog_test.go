package external

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPackage struct{}

func (stubPackage) Operations() []Operation {
	return []Operation{Function(func() string { return "ok" }).As("ok")}
}

func stubFactory() (Package, error) { return stubPackage{}, nil }

func TestCatalogRegister(t *testing.T) {
	c := NewCatalog()

	require.NoError(t, c.Register("com.example.B", stubFactory))
	require.NoError(t, c.Register("com.example.A", stubFactory))

	f, ok := c.Lookup("com.example.A")
	require.True(t, ok)
	pkg, err := f()
	require.NoError(t, err)
	assert.Len(t, pkg.Operations(), 1)

	_, ok = c.Lookup("com.example.Missing")
	assert.False(t, ok)

	assert.Equal(t, []string{"com.example.A", "com.example.B"}, c.Identifiers())
}

func TestCatalogRegisterRejects(t *testing.T) {
	c := NewCatalog()

	err := c.Register("", stubFactory)
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	err = c.Register("com.example.A", nil)
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	require.NoError(t, c.Register("com.example.A", stubFactory))
	assert.Error(t, c.Register("com.example.A", stubFactory))
}

func TestRegisterPanicsOnDuplicate(t *testing.T) {
	Register("com.example.externaltest.Dup", stubFactory)
	assert.Panics(t, func() {
		Register("com.example.externaltest.Dup", stubFactory)
	})
}

func TestOperationAs(t *testing.T) {
	op := Command(func() {})
	aliased := op.As("doIt")

	assert.Equal(t, "", op.Alias)
	assert.Equal(t, "doIt", aliased.Alias)
	assert.Equal(t, KindCommand, aliased.Kind)
	assert.Equal(t, "command", aliased.Kind.String())
}

func TestOrderedMapKeepsInsertionOrder(t *testing.T) {
	m := NewOrderedMap()
	m.Set("zeta", Bytes("1"))
	m.Set("alpha", Bytes("2"))
	m.Set("mid", Bytes("3"))
	m.Set("zeta", Bytes("4"))

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, m.Keys())
	v, ok := m.Get("zeta")
	require.True(t, ok)
	assert.Equal(t, "4", v.String())

	m.Delete("alpha")
	assert.Equal(t, []string{"zeta", "mid"}, m.Keys())
	assert.Equal(t, 2, m.Len())

	clone := m.Clone()
	clone.Set("new", Bytes("x"))
	assert.Equal(t, 2, m.Len())
	assert.Equal(t, 3, clone.Len())
}

func TestParseSearchModifier(t *testing.T) {
	tests := []struct {
		in   string
		want SearchModifier
		err  bool
	}{
		{"", SearchNone, false},
		{"none", SearchNone, false},
		{"card", SearchCard, false},
		{"bg", SearchBackground, false},
		{"stack", SearchNone, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSearchModifier(tt.in)
			if tt.err {
				assert.ErrorIs(t, err, ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEngineErrorIs(t *testing.T) {
	err := error(&EngineError{Op: "field", Target: "name", Reason: "no such field"})
	assert.True(t, errors.Is(err, ErrEngine))
	assert.False(t, errors.Is(err, ErrInvalidArgument))
	assert.Equal(t, `field "name": no such field`, err.Error())
}
