package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadEncoder(t *testing.T) {
	dir := t.TempDir()

	tcs := map[string]string{
		"array":  `["Arecanut", "Banana", "Rice"]`,
		"object": `{"classes": ["Arecanut", "Banana", "Rice"]}`,
	}

	for name, content := range tcs {
		t.Run(name, func(t *testing.T) {
			enc, err := LoadEncoder(writeFile(t, dir, name+".json", content))
			require.NoError(t, err)

			code, err := enc.Transform("Banana")
			require.NoError(t, err)
			assert.Equal(t, 1, code)
			assert.Equal(t, []string{"Arecanut", "Banana", "Rice"}, enc.Classes())
		})
	}
}

func TestLoadEncoderErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadEncoder(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	_, err = LoadEncoder(writeFile(t, dir, "bad.json", `{not json`))
	assert.Error(t, err)

	_, err = LoadEncoder(writeFile(t, dir, "empty.json", `[]`))
	assert.Error(t, err)
}

func TestEncoderTransform(t *testing.T) {
	enc := NewEncoder([]string{"Kharif     ", "Rabi       ", "Whole Year "})

	_, err := enc.Transform("Summer")
	assert.ErrorIs(t, err, ErrUnknownLabel)

	enc = NewEncoder([]string{"Assam", "Karnataka"})
	code, err := enc.Transform("  Karnataka ")
	require.NoError(t, err)
	assert.Equal(t, 1, code)

	_, err = enc.Transform("karnataka")
	assert.ErrorIs(t, err, ErrUnknownLabel)
}
