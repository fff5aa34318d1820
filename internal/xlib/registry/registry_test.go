package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/xhost/internal/xlib"
)

func constant(s string) xlib.Invoker {
	return func([]string) (string, error) { return s, nil }
}

func bundle(name, pkg string, functions ...string) *xlib.Bundle {
	p := &xlib.Package{Identifier: pkg}
	for _, f := range functions {
		p.Functions = append(p.Functions, xlib.NewFunction(f, pkg, xlib.ParamsNone, constant(name+":"+f)))
	}
	p.Commands = append(p.Commands, xlib.NewCommand("cmd_"+name, pkg, xlib.ParamsNone, xlib.ReturnVoid, constant("")))
	return &xlib.Bundle{Name: name, Path: "/libs/" + name, Packages: []*xlib.Package{p}}
}

func call(t *testing.T, s *Snapshot, name string) string {
	t.Helper()
	f, ok := s.Function(name)
	require.True(t, ok, name)
	out, err := f.Invoke(nil)
	require.NoError(t, err)
	return out
}

func TestLastLoadedWins(t *testing.T) {
	a := bundle("a.xlib", "com.a.P", "foo", "onlyA")
	b := bundle("b.xlib", "com.b.P", "foo", "onlyB")

	s := Build([]*xlib.Bundle{a, b})
	assert.Equal(t, "b.xlib:foo", call(t, s, "foo"))
	assert.Equal(t, "a.xlib:onlyA", call(t, s, "onlyA"))

	// Dropping b reveals a's registration again.
	s = Build([]*xlib.Bundle{a})
	assert.Equal(t, "a.xlib:foo", call(t, s, "foo"))
	_, ok := s.Function("onlyB")
	assert.False(t, ok)
}

func TestPackageCollision(t *testing.T) {
	a := bundle("a.xlib", "com.shared.P", "x")
	b := bundle("b.xlib", "com.shared.P", "y")

	s := Build([]*xlib.Bundle{a, b})
	p, ok := s.Package("com.shared.P")
	require.True(t, ok)
	assert.Same(t, b.Packages[0], p)
}

func TestListings(t *testing.T) {
	s := Build([]*xlib.Bundle{
		bundle("zeta.xlib", "com.z.P", "zf"),
		bundle("alpha.xlib", "com.a.P", "af"),
	})

	assert.Equal(t, []string{"zeta.xlib", "alpha.xlib"}, s.BundleNames())
	assert.Equal(t, []string{"com.a.P", "com.z.P"}, s.PackageNames())
	assert.Equal(t, []string{"af", "zf"}, s.FunctionNames())
	assert.Equal(t, []string{"cmd_alpha.xlib", "cmd_zeta.xlib"}, s.CommandNames())
	assert.Equal(t, Stats{Libraries: 2, Packages: 2, Commands: 2, Functions: 2}, s.Stats())

	b, ok := s.BundleByPath("/libs/alpha.xlib")
	require.True(t, ok)
	assert.Equal(t, "alpha.xlib", b.Name)
	_, ok = s.Bundle("zeta.xlib")
	assert.True(t, ok)
}

func TestBuildIsolatesInput(t *testing.T) {
	bundles := []*xlib.Bundle{bundle("a.xlib", "com.a.P", "f")}
	s := Build(bundles)
	bundles[0] = bundle("b.xlib", "com.b.P", "g")

	assert.Equal(t, []string{"a.xlib"}, s.BundleNames())

	out := s.Bundles()
	out[0] = nil
	assert.NotNil(t, s.Bundles()[0])
}

func TestEmpty(t *testing.T) {
	s := Empty()
	assert.Empty(t, s.BundleNames())
	assert.Empty(t, s.CommandNames())
	assert.Equal(t, Stats{}, s.Stats())
}
