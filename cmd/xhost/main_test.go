package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/xhost/internal/examples/greeter"
	"github.com/GriffinCanCode/xhost/internal/testutil"
)

func runArgs(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	t.Setenv("XHOST_FETCH_DIR", t.TempDir())
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func greeterBundle(t *testing.T) string {
	return testutil.WriteBundle(t, t.TempDir(), "examples.xlib", testutil.Bundle{
		Packages: []string{greeter.Identifier},
	})
}

func TestFunction(t *testing.T) {
	code, out, errOut := runArgs(t, "-lib", greeterBundle(t), "function", "etHello")
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, "Hello, world\n", out)
}

func TestCommandWithDump(t *testing.T) {
	code, out, errOut := runArgs(t,
		"-lib", greeterBundle(t),
		"-set", "gOther=1",
		"-dump",
		"command", "etSetGlobal", "from the cli",
	)
	require.Equal(t, 0, code, errOut)

	var state struct {
		Globals map[string]string `json:"globals"`
	}
	require.NoError(t, sonic.Unmarshal([]byte(out), &state), out)
	assert.Equal(t, "from the cli", state.Globals[greeter.GlobalName])
	assert.Equal(t, "1", state.Globals["gOther"])
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteBundle(t, filepath.Join(dir, "a"), "one.xlib", testutil.Bundle{Packages: []string{greeter.Identifier}})

	code, out, errOut := runArgs(t, "-dir", dir, "list")
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, "one.xlib\n", out)

	code, out, _ = runArgs(t, "-dir", dir, "list", "packages")
	require.Equal(t, 0, code)
	assert.Equal(t, greeter.Identifier+"\n", out)

	code, _, _ = runArgs(t, "-dir", dir, "list", "everything")
	assert.Equal(t, 2, code)
}

func TestErrors(t *testing.T) {
	code, _, _ := runArgs(t)
	assert.Equal(t, 2, code)

	code, _, _ = runArgs(t, "dance")
	assert.Equal(t, 2, code)

	code, _, _ = runArgs(t, "-set", "novalue", "list")
	assert.Equal(t, 2, code)

	code, _, errOut := runArgs(t, "function", "etMissing")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "unknown function")

	code, _, errOut = runArgs(t, "-lib", filepath.Join(t.TempDir(), "absent.xlib"), "list")
	assert.Equal(t, 0, code, "autoload failures are reported but do not stop the command")
	assert.Contains(t, errOut, "could not be loaded")
}
