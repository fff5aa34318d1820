package introspect

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/xhost/internal/testutil"
	"github.com/GriffinCanCode/xhost/internal/xlib"
	"github.com/GriffinCanCode/xhost/pkg/external"
)

type opsPackage []external.Operation

func (p opsPackage) Operations() []external.Operation { return p }

type resolverFunc func(identifier string) (external.Package, error)

func (f resolverFunc) Resolve(identifier string) (external.Package, error) { return f(identifier) }

func resolveTo(p external.Package) Resolver {
	return resolverFunc(func(string) (external.Package, error) { return p, nil })
}

type sample struct {
	engine   external.Engine
	disposed bool
}

func (s *sample) Init(e external.Engine) error { s.engine = e; return e.SetGlobal("gReady", "true") }
func (s *sample) Dispose()                      { s.disposed = true }
func (s *sample) EtHello() string               { return "Hello, world" }
func (s *sample) EtJoin(args []string) (string, error) {
	if len(args) == 0 {
		return "", errors.New("need arguments")
	}
	return fmt.Sprint(args), nil
}
func (s *sample) EtReset() {}

func (s *sample) Operations() []external.Operation {
	return []external.Operation{
		external.Init(s.Init),
		external.Dispose(s.Dispose),
		external.Function(s.EtHello),
		external.Function(s.EtJoin).As("etJoinAll"),
		external.Command(s.EtReset),
		external.Command(s.EtJoin),
	}
}

func TestInspect(t *testing.T) {
	engine := testutil.NewMockEngine(t)
	obj := &sample{}

	pkg, err := Inspect("com.example.Sample", resolveTo(obj), engine)
	require.NoError(t, err)

	assert.Equal(t, "com.example.Sample", pkg.Identifier)
	assert.Same(t, engine, obj.engine)
	engine.AssertCalled(t, "SetGlobal", "gReady", "true")

	require.Len(t, pkg.Functions, 2)
	assert.Equal(t, "etHello", pkg.Functions[0].Name)
	assert.Equal(t, xlib.ParamsNone, pkg.Functions[0].Params)
	assert.Equal(t, "etJoinAll", pkg.Functions[1].Name)
	assert.Equal(t, xlib.ParamsArray, pkg.Functions[1].Params)

	require.Len(t, pkg.Commands, 2)
	assert.Equal(t, "etReset", pkg.Commands[0].Name)
	assert.Equal(t, xlib.ReturnVoid, pkg.Commands[0].Returns)
	assert.Equal(t, "etJoin", pkg.Commands[1].Name)
	assert.Equal(t, xlib.ReturnString, pkg.Commands[1].Returns)

	out, err := pkg.Functions[0].Invoke(nil)
	require.NoError(t, err)
	assert.Equal(t, "Hello, world", out)

	_, err = pkg.Functions[1].Invoke(nil)
	assert.ErrorIs(t, err, xlib.ErrInvocationFailed)

	require.NoError(t, pkg.RunDispose())
	assert.True(t, obj.disposed)
}

func TestClassifySignatures(t *testing.T) {
	tests := []struct {
		name    string
		ops     opsPackage
		wantErr error
	}{
		{"function returning int", opsPackage{external.Function(func() int { return 1 })}, xlib.ErrInvalidFunctionSignature},
		{"function returning nothing", opsPackage{external.Function(func() {}).As("f")}, xlib.ErrInvalidFunctionSignature},
		{"function returning error only", opsPackage{external.Function(func() error { return nil }).As("f")}, xlib.ErrInvalidFunctionSignature},
		{"function with int param", opsPackage{external.Function(func(int) string { return "" }).As("f")}, xlib.ErrInvalidFunctionSignature},
		{"function variadic", opsPackage{external.Function(func(...string) string { return "" }).As("f")}, xlib.ErrInvalidFunctionSignature},
		{"function two params", opsPackage{external.Function(func([]string, []string) string { return "" }).As("f")}, xlib.ErrInvalidFunctionSignature},
		{"function not a func", opsPackage{external.Function("hello").As("f")}, xlib.ErrInvalidFunctionSignature},
		{"function nil", opsPackage{external.Function(nil).As("f")}, xlib.ErrInvalidFunctionSignature},
		{"function bad alias", opsPackage{external.Function(func() string { return "" }).As("no spaces")}, xlib.ErrInvalidFunctionSignature},
		{"unnamed function literal", opsPackage{external.Function(func() string { return "a" }), external.Function(func() string { return "b" })}, xlib.ErrInvalidFunctionSignature},
		{"unnamed command literal", opsPackage{external.Command(func() {})}, xlib.ErrInvalidCommandSignature},
		{"command returning int", opsPackage{external.Command(func() int { return 1 }).As("c")}, xlib.ErrInvalidCommandSignature},
		{"command returning (error, string)", opsPackage{external.Command(func() (error, string) { return nil, "" }).As("c")}, xlib.ErrInvalidCommandSignature},
		{"command with map param", opsPackage{external.Command(func(map[string]string) {}).As("c")}, xlib.ErrInvalidCommandSignature},
		{"init wrong param", opsPackage{external.Init(func(string) {}), external.Function(func() string { return "" }).As("f")}, xlib.ErrInvalidInitSignature},
		{"init twice", opsPackage{external.Init(func(external.Engine) {}), external.Init(func(external.Engine) {}), external.Function(func() string { return "" }).As("f")}, xlib.ErrInvalidInitSignature},
		{"dispose with param", opsPackage{external.Dispose(func(int) {}), external.Function(func() string { return "" }).As("f")}, xlib.ErrInvalidDisposeSignature},
		{"dispose returning string", opsPackage{external.Dispose(func() string { return "" }), external.Function(func() string { return "" }).As("f")}, xlib.ErrInvalidDisposeSignature},
		{"dispose twice", opsPackage{external.Dispose(func() {}), external.Dispose(func() {}), external.Function(func() string { return "" }).As("f")}, xlib.ErrInvalidDisposeSignature},
		{"empty package", opsPackage{external.Init(func(external.Engine) {})}, xlib.ErrPackageEmpty},
		{"unknown kind", opsPackage{{Kind: 99, Fn: func() {}}}, xlib.ErrPackageNotInstantiable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pkg, err := Classify("com.example.Bad", tt.ops)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, pkg)
		})
	}
}

func TestClassifyAcceptedShapes(t *testing.T) {
	ops := opsPackage{
		external.Init(func(external.Engine) error { return nil }),
		external.Dispose(func() error { return nil }),
		external.Command(func() {}).As("c0"),
		external.Command(func() error { return nil }).As("c1"),
		external.Command(func() string { return "" }).As("c2"),
		external.Command(func([]string) (string, error) { return "", nil }).As("c3"),
		external.Function(func([]string) string { return "" }).As("f0"),
		external.Function(func() (string, error) { return "", nil }).As("f1"),
	}

	pkg, err := Classify("com.example.Shapes", ops)
	require.NoError(t, err)
	assert.NotNil(t, pkg.Init)
	assert.NotNil(t, pkg.Dispose)

	returns := map[string]xlib.ReturnKind{}
	for _, c := range pkg.Commands {
		returns[c.Name] = c.Returns
		assert.Equal(t, "com.example.Shapes", c.Package)
	}
	assert.Equal(t, map[string]xlib.ReturnKind{
		"c0": xlib.ReturnVoid,
		"c1": xlib.ReturnVoid,
		"c2": xlib.ReturnString,
		"c3": xlib.ReturnString,
	}, returns)
	assert.Len(t, pkg.Functions, 2)
}

func TestInspectInitFailure(t *testing.T) {
	engine := testutil.NewMockEngine(t)
	boom := errors.New("no license")

	ops := opsPackage{
		external.Init(func(external.Engine) error { return boom }),
		external.Function(func() string { return "" }).As("f"),
	}
	_, err := Inspect("com.example.Init", resolveTo(ops), engine)
	assert.ErrorIs(t, err, xlib.ErrPackageInitFailed)
	assert.ErrorIs(t, err, boom)

	panicky := opsPackage{
		external.Init(func(external.Engine) { panic("bad state") }),
		external.Function(func() string { return "" }).As("f"),
	}
	_, err = Inspect("com.example.Init", resolveTo(panicky), engine)
	assert.ErrorIs(t, err, xlib.ErrPackageInitFailed)
	assert.Contains(t, err.Error(), "bad state")
}

func TestInspectSkipsInitWhenInvalid(t *testing.T) {
	engine := new(testutil.MockEngine)
	initRan := false

	ops := opsPackage{
		external.Init(func(external.Engine) { initRan = true }),
		external.Function(func() int { return 0 }).As("bad"),
	}
	_, err := Inspect("com.example.Bad", resolveTo(ops), engine)
	assert.ErrorIs(t, err, xlib.ErrInvalidFunctionSignature)
	assert.False(t, initRan)
	engine.AssertNotCalled(t, "SetGlobal", mock.Anything, mock.Anything)
}

func TestInspectResolveFailures(t *testing.T) {
	engine := testutil.NewMockEngine(t)

	notFound := resolverFunc(func(id string) (external.Package, error) {
		return nil, fmt.Errorf("%w: %s", xlib.ErrPackageNotFound, id)
	})
	_, err := Inspect("com.example.Missing", notFound, engine)
	assert.ErrorIs(t, err, xlib.ErrPackageNotFound)

	nilPkg := resolverFunc(func(string) (external.Package, error) { return nil, nil })
	_, err = Inspect("com.example.Nil", nilPkg, engine)
	assert.ErrorIs(t, err, xlib.ErrPackageNotInstantiable)

	panics := resolverFunc(func(string) (external.Package, error) { panic("ctor") })
	_, err = Inspect("com.example.Panic", panics, engine)
	assert.ErrorIs(t, err, xlib.ErrPackageNotInstantiable)
}

func hello() string { return "" }

func TestSymbolName(t *testing.T) {
	s := &sample{}
	assert.Equal(t, "etHello", symbolName(s.EtHello))
	assert.Equal(t, "etReset", symbolName(s.EtReset))
	assert.Equal(t, "hello", symbolName(hello))

	assert.Empty(t, symbolName(func() string { return "" }))
	nested := func() func() {
		return func() {}
	}
	assert.Empty(t, symbolName(nested()))
}
