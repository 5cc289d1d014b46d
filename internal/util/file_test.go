package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadFloatFromFile(t *testing.T) {
	// GIVEN
	path := filepath.Join(t.TempDir(), "value")
	err := os.WriteFile(path, []byte("123.5\n"), 0644)
	assert.NoError(t, err)

	// WHEN
	value, err := ReadFloatFromFile(path)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, 123.5, value)
}

func TestReadFloatFromFileEmpty(t *testing.T) {
	// GIVEN
	path := filepath.Join(t.TempDir(), "value")
	err := os.WriteFile(path, []byte(""), 0644)
	assert.NoError(t, err)

	// WHEN
	_, err = ReadFloatFromFile(path)

	// THEN
	assert.Error(t, err)
}

func TestWriteFloatToFileAtomic(t *testing.T) {
	// GIVEN
	path := filepath.Join(t.TempDir(), "value")

	// WHEN
	err := WriteFloatToFileAtomic(0.75, path)

	// THEN
	assert.NoError(t, err)
	value, err := ReadFloatFromFile(path)
	assert.NoError(t, err)
	assert.Equal(t, 0.75, value)
}
