package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const helloSHA256 = "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"

func TestHash(t *testing.T) {
	h := DefaultHasher()
	assert.Equal(t, helloSHA256, h.Hash([]byte("hello")))

	sum, err := h.HashReader(strings.NewReader("hello"))
	require.NoError(t, err)
	assert.Equal(t, helloSHA256, sum)
}

func TestHashFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lib.xlib")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	sum, err := DefaultHasher().HashFile(path)
	require.NoError(t, err)
	assert.Equal(t, "sha256:"+helloSHA256, sum)

	_, err = DefaultHasher().HashFile(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestUnknownAlgorithmFallsBack(t *testing.T) {
	assert.Equal(t, helloSHA256, NewHasher("md4").Hash([]byte("hello")))
}
