package greeter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/xhost/internal/engine"
	"github.com/GriffinCanCode/xhost/internal/testutil"
	"github.com/GriffinCanCode/xhost/internal/xlib"
	"github.com/GriffinCanCode/xhost/internal/xlib/loader"
	"github.com/GriffinCanCode/xhost/pkg/external"
)

func load(t *testing.T) (*loader.Loader, *engine.Memory) {
	t.Helper()

	mem := engine.NewMemory()
	l := loader.New(loader.Options{Engine: mem})
	t.Cleanup(func() { _ = l.Close() })

	path := testutil.WriteBundle(t, t.TempDir(), "examples.xlib", testutil.Bundle{
		Packages: []string{Identifier},
	})
	_, err := l.Load(context.Background(), path)
	require.NoError(t, err)
	return l, mem
}

func TestRegisteredInDefaultCatalog(t *testing.T) {
	_, ok := external.Default().Lookup(Identifier)
	assert.True(t, ok)
}

func TestHello(t *testing.T) {
	l, mem := load(t)

	out, err := l.CallFunction("etHello", nil)
	require.NoError(t, err)
	assert.Equal(t, "Hello, world", out)

	out, err = l.CallFunction("etHelloVar", []string{"tWho"})
	require.NoError(t, err)
	assert.Equal(t, "Hello, stranger", out)

	require.NoError(t, mem.SetVariable("tWho", "Ada"))
	out, err = l.CallFunction("etHelloVar", []string{"tWho"})
	require.NoError(t, err)
	assert.Equal(t, "Hello, Ada", out)

	out, err = l.CallFunction("etHelloArrVar", []string{"tPerson"})
	require.NoError(t, err)
	assert.Equal(t, "Howdy, stranger", out)

	require.NoError(t, mem.SetVariableBytes("tPerson", "name", external.Bytes("Bo")))
	out, err = l.CallFunction("etHelloArrVar", []string{"tPerson"})
	require.NoError(t, err)
	assert.Equal(t, "Howdy, (length: 2 | first byte: 66 | content: Bo)", out)

	out, err = l.CallFunction("etHelloMapVar", []string{"tPerson"})
	require.NoError(t, err)
	assert.Equal(t, "Yello, (length: 2 | first byte: 66 | content: Bo)", out)

	for _, name := range []string{"etLoadDatetime", "etInstDatetime", "etInitDatetime"} {
		out, err = l.CallFunction(name, nil)
		require.NoError(t, err)
		assert.NotEmpty(t, out, name)
	}
}

func TestGlobalsAndVariables(t *testing.T) {
	l, mem := load(t)

	out, err := l.CallCommand("etSetGlobal", nil)
	require.NoError(t, err)
	assert.Empty(t, out)

	v, err := mem.Global(GlobalName)
	require.NoError(t, err)
	assert.Equal(t, "value set by the etSetGlobal command", v)

	_, err = l.CallCommand("etSetGlobal", []string{"custom"})
	require.NoError(t, err)
	out, err = l.CallFunction("etGetGlobal", nil)
	require.NoError(t, err)
	assert.Equal(t, "custom", out)

	_, err = l.CallFunction("etGetVariable", nil)
	assert.ErrorIs(t, err, xlib.ErrInvocationFailed, "reading a missing variable fails")
	assert.ErrorIs(t, err, external.ErrEngine)

	_, err = l.CallCommand("etSetVariable", nil)
	require.NoError(t, err)
	out, err = l.CallFunction("etGetVariable", nil)
	require.NoError(t, err)
	assert.Equal(t, "value set by the etSetVariable command", out)

	_, err = l.CallCommand("etSetVariableBytes", nil)
	require.NoError(t, err)
	out, err = l.CallFunction("etGetVariableBytes", nil)
	require.NoError(t, err)
	assert.Contains(t, out, "first byte: 118")

	_, err = l.CallCommand("etSetVariableMap", nil)
	require.NoError(t, err)
	out, err = l.CallFunction("etGetVariableMap", nil)
	require.NoError(t, err)
	assert.Equal(t, "Variable name: tJVMlocalA\n"+
		"  'name' => (length: 47 | first byte: 102 | content: first value set by the etSetVariableMap command)\n"+
		"  'data' => (length: 48 | first byte: 115 | content: second value set by the etSetVariableMap command)", out)

	_, err = l.CallCommand("etSetVariableElement", nil)
	require.NoError(t, err)
	out, err = l.CallFunction("etGetVariableElement", nil)
	require.NoError(t, err)
	assert.Contains(t, out, "etSetVariableElement")
}

func TestFieldsAndImages(t *testing.T) {
	l, mem := load(t)
	mem.AddField(external.SearchCard, "Other", "one")
	mem.AddField(external.SearchCard, FieldName, "two")

	out, err := l.CallFunction("etGetFieldByName", nil)
	require.NoError(t, err)
	assert.Equal(t, "two", out)

	out, err = l.CallFunction("etGetFieldByNumber", nil)
	require.NoError(t, err)
	assert.Equal(t, "two", out)

	_, err = l.CallCommand("etSetFieldByNumber", nil)
	require.NoError(t, err)
	text, err := mem.FieldTextByName(external.SearchCard, FieldName)
	require.NoError(t, err)
	assert.Equal(t, "reset by etSetFieldByNumber", text)

	_, err = l.CallFunction("etGetFieldByID", nil)
	assert.ErrorIs(t, err, external.ErrEngine)

	img := mem.AddImage(external.SearchBackground, "Logo")
	_, err = l.CallCommand("etRepaint", []string{"Logo", "background"})
	require.NoError(t, err)
	assert.Equal(t, 1, mem.Repaints(img))

	_, err = l.CallCommand("etRepaint", []string{"Logo", "card"})
	assert.ErrorIs(t, err, external.ErrEngine)
	_, err = l.CallCommand("etRepaint", nil)
	assert.ErrorIs(t, err, external.ErrInvalidArgument)
}

func TestCallbacks(t *testing.T) {
	var got []string
	mem := engine.NewMemory(
		engine.WithMessageHandler(func(msg string) error { got = append(got, msg); return nil }),
		engine.WithEvaluator(func(expr string) (string, error) { return "evaluated " + expr, nil }),
	)
	l := loader.New(loader.Options{Engine: mem})
	t.Cleanup(func() { _ = l.Close() })

	path := testutil.WriteBundle(t, t.TempDir(), "examples.xlib", testutil.Bundle{Packages: []string{Identifier}})
	require.NoError(t, l.LoadLibrary(path))

	_, err := l.CallCommand("etSendCardMessage", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"xhost_callbackcommand 1"}, got)

	out, err := l.CallFunction("etEvaluateExpression", nil)
	require.NoError(t, err)
	assert.Equal(t, "evaluated xhost_callbackfunction(1)", out)
}
