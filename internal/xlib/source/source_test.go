package source

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/xhost/internal/testutil"
	"github.com/GriffinCanCode/xhost/internal/xlib"
	"github.com/GriffinCanCode/xhost/internal/xlib/descriptor"
	"github.com/GriffinCanCode/xhost/pkg/external"
)

type native struct{}

func (native) Operations() []external.Operation {
	return []external.Operation{external.Function(func() string { return "native" }).As("who")}
}

func newCatalog(t *testing.T) *external.Catalog {
	t.Helper()
	c := external.NewCatalog()
	require.NoError(t, c.Register("com.example.Native", func() (external.Package, error) { return native{}, nil }))
	require.NoError(t, c.Register("com.example.Broken", func() (external.Package, error) { return nil, errors.New("no config") }))
	return c
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteBundle(t, dir, "lib.xlib", testutil.Bundle{
		Packages: []string{"com.example.Native", "com.example.Script"},
		Files: map[string]string{
			"com/example/Script.js": `xpackage.function(function who() { return "script"; });`,
			"com/example/Native.js": `xpackage.function(function who() { return "shadowed"; });`,
			"com/example/Bad.js":    `this is not javascript`,
		},
	})

	src, err := Open(path, Options{Catalog: newCatalog(t)})
	require.NoError(t, err)
	defer src.Close()

	assert.NotEmpty(t, src.ID())

	ids, err := descriptor.Read(src.Files())
	require.NoError(t, err)
	assert.Equal(t, []string{"com.example.Native", "com.example.Script"}, ids)

	t.Run("catalog wins", func(t *testing.T) {
		pkg, err := src.Resolve("com.example.Native")
		require.NoError(t, err)
		assert.IsType(t, native{}, pkg)
	})

	t.Run("script", func(t *testing.T) {
		pkg, err := src.Resolve("com.example.Script")
		require.NoError(t, err)
		assert.Len(t, pkg.Operations(), 1)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := src.Resolve("com.example.Missing")
		assert.ErrorIs(t, err, xlib.ErrPackageNotFound)
	})

	t.Run("factory error", func(t *testing.T) {
		_, err := src.Resolve("com.example.Broken")
		assert.ErrorIs(t, err, xlib.ErrPackageNotInstantiable)
		assert.Contains(t, err.Error(), "no config")
	})

	t.Run("script syntax error", func(t *testing.T) {
		_, err := src.Resolve("com.example.Bad")
		assert.ErrorIs(t, err, xlib.ErrPackageNotInstantiable)
	})
}

func TestOpenRejectsNonArchives(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		path string
	}{
		{"text file", testutil.WriteFile(t, dir, "notes.xlib", []byte("just some text"))},
		{"empty file", testutil.WriteFile(t, dir, "empty.xlib", nil)},
		{"missing", dir + "/missing.xlib"},
		{"directory", dir},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Open(tt.path, Options{})
			assert.ErrorIs(t, err, xlib.ErrInvalidBundleFile)
		})
	}
}

func TestCloseRemovesFetchedArchive(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteBundle(t, dir, "cached.xlib", testutil.Bundle{Packages: []string{"com.example.Native"}})

	src, err := Open(path, Options{RemoveOnClose: true})
	require.NoError(t, err)
	require.NoError(t, src.Close())

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	assert.Nil(t, src.Files())
}

func TestCloseKeepsLocalArchive(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteBundle(t, dir, "local.xlib", testutil.Bundle{
		Packages: []string{"com.example.Script"},
		Files:    map[string]string{"com/example/Script.js": `xpackage.function(function f() { return ""; });`},
	})

	src, err := Open(path, Options{})
	require.NoError(t, err)
	_, err = src.Resolve("com.example.Script")
	require.NoError(t, err)
	require.NoError(t, src.Close())

	_, err = os.Stat(path)
	assert.NoError(t, err)
}
