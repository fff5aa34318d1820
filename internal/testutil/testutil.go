// Package testutil provides testing utilities and helpers for xhost tests.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/xhost/internal/xlib/descriptor"
	"github.com/GriffinCanCode/xhost/pkg/external"
)

// MockEngine is a mock implementation of external.Engine for testing.
type MockEngine struct {
	mock.Mock
}

// NewMockEngine creates a mock engine that accepts every call. Tests add
// their own expectations with On before calling.
func NewMockEngine(t *testing.T) *MockEngine {
	t.Helper()
	m := new(MockEngine)

	m.On("SendMessage", mock.Anything).Return(nil).Maybe()
	m.On("SetGlobal", mock.Anything, mock.Anything).Return(nil).Maybe()
	m.On("Global", mock.Anything).Return("", nil).Maybe()

	return m
}

func (m *MockEngine) SendMessage(message string) error {
	return m.Called(message).Error(0)
}

func (m *MockEngine) EvaluateExpression(expression string) (string, error) {
	args := m.Called(expression)
	return args.String(0), args.Error(1)
}

func (m *MockEngine) Global(name string) (string, error) {
	args := m.Called(name)
	return args.String(0), args.Error(1)
}

func (m *MockEngine) SetGlobal(name, value string) error {
	return m.Called(name, value).Error(0)
}

func (m *MockEngine) Variable(name string) (string, error) {
	args := m.Called(name)
	return args.String(0), args.Error(1)
}

func (m *MockEngine) SetVariable(name, value string) error {
	return m.Called(name, value).Error(0)
}

func (m *MockEngine) VariableBytes(name, key string) (external.Bytes, error) {
	args := m.Called(name, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(external.Bytes), args.Error(1)
}

func (m *MockEngine) SetVariableBytes(name, key string, value external.Bytes) error {
	return m.Called(name, key, value).Error(0)
}

func (m *MockEngine) VariableMap(name string) (*external.OrderedMap, error) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*external.OrderedMap), args.Error(1)
}

func (m *MockEngine) SetVariableMap(name string, value *external.OrderedMap) error {
	return m.Called(name, value).Error(0)
}

func (m *MockEngine) FieldTextByName(mod external.SearchModifier, name string) (string, error) {
	args := m.Called(mod, name)
	return args.String(0), args.Error(1)
}

func (m *MockEngine) FieldTextByNumber(mod external.SearchModifier, number int) (string, error) {
	args := m.Called(mod, number)
	return args.String(0), args.Error(1)
}

func (m *MockEngine) FieldTextByID(mod external.SearchModifier, id int64) (string, error) {
	args := m.Called(mod, id)
	return args.String(0), args.Error(1)
}

func (m *MockEngine) SetFieldTextByName(mod external.SearchModifier, name, text string) error {
	return m.Called(mod, name, text).Error(0)
}

func (m *MockEngine) SetFieldTextByNumber(mod external.SearchModifier, number int, text string) error {
	return m.Called(mod, number, text).Error(0)
}

func (m *MockEngine) SetFieldTextByID(mod external.SearchModifier, id int64, text string) error {
	return m.Called(mod, id, text).Error(0)
}

func (m *MockEngine) RepaintImageByName(mod external.SearchModifier, name string) error {
	return m.Called(mod, name).Error(0)
}

func (m *MockEngine) RepaintImageByNumber(mod external.SearchModifier, number int) error {
	return m.Called(mod, number).Error(0)
}

func (m *MockEngine) RepaintImageByID(mod external.SearchModifier, id int64) error {
	return m.Called(mod, id).Error(0)
}

// Bundle describes a library archive to write.
type Bundle struct {
	// Packages go into META-INF/xlibrary.xml in order. Leave nil and set
	// Descriptor to write raw XML, or set NoDescriptor to omit it.
	Packages     []string
	Descriptor   string
	NoDescriptor bool

	// Files are extra entries, e.g. "com/example/Tool.js".
	Files map[string]string
}

// ZipBytes renders b as a zip archive.
func ZipBytes(t *testing.T, b Bundle) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	write := func(name string, body []byte) {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write(body)
		require.NoError(t, err)
	}

	if !b.NoDescriptor {
		doc := []byte(b.Descriptor)
		if b.Descriptor == "" {
			doc = descriptor.Render(b.Packages...)
		}
		write(descriptor.EntryPath, doc)
	}

	names := make([]string, 0, len(b.Files))
	for name := range b.Files {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		write(name, []byte(b.Files[name]))
	}

	// Zip sniffing needs at least one entry.
	if b.NoDescriptor && len(b.Files) == 0 {
		write("README", []byte("empty"))
	}

	require.NoError(t, w.Close())
	return buf.Bytes()
}

// WriteBundle writes b to dir/name and returns the path.
func WriteBundle(t *testing.T, dir, name string, b Bundle) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, ZipBytes(t, b), 0o644))
	return path
}

// WriteFile writes raw bytes to dir/name and returns the path.
func WriteFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}
