package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultPath)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultPath)

	cfg, err := Load(path, false)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = Load(path, true)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
output: $FILE_gen
verbose: true
async: false
debounce: 2s
docs:
  is: "{{.Name}} 判断变体"
`)

	cfg, err := Load(path, true)
	require.NoError(t, err)
	assert.Equal(t, "$FILE_gen", cfg.Output)
	assert.True(t, cfg.Verbose)
	assert.False(t, cfg.Async)
	assert.Equal(t, 2*time.Second, cfg.Debounce)
	assert.Equal(t, map[string]string{"is": "{{.Name}} 判断变体"}, cfg.Docs)
}

func TestLoadKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "verbose: true\n")

	cfg, err := Load(path, true)
	require.NoError(t, err)
	assert.True(t, cfg.Async)
	assert.Equal(t, 500*time.Millisecond, cfg.Debounce)
}

func TestLoadEmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""), true)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"unknown field", "outptu: x\n", "outptu"},
		{"bad duration", "debounce: soon\n", "解析配置"},
		{"negative debounce", "debounce: -1s\n", "debounce"},
		{"empty doc", "docs:\n  is: \"\"\n", "is"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content), true)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
