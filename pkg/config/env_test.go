package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnvFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadEnvFiles(t *testing.T) {
	dir := t.TempDir()
	first := writeEnvFile(t, dir, "first.env", "GENAI_TEST_SHARED=first\nGENAI_TEST_ONLY_FIRST=one\n")
	second := writeEnvFile(t, dir, "second.env", "GENAI_TEST_SHARED=second\nGENAI_TEST_ONLY_SECOND=two\n")
	missing := filepath.Join(dir, "missing.env")

	t.Setenv("GENAI_TEST_PRESET", "from-env")
	third := writeEnvFile(t, dir, "third.env", "GENAI_TEST_PRESET=from-file\n")

	for _, name := range []string{"GENAI_TEST_SHARED", "GENAI_TEST_ONLY_FIRST", "GENAI_TEST_ONLY_SECOND"} {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}

	loaded := LoadEnvFiles(context.Background(), first, missing, second, third)
	assert.Equal(t, []string{first, second, third}, loaded)

	assert.Equal(t, "first", os.Getenv("GENAI_TEST_SHARED"))
	assert.Equal(t, "one", os.Getenv("GENAI_TEST_ONLY_FIRST"))
	assert.Equal(t, "two", os.Getenv("GENAI_TEST_ONLY_SECOND"))
	assert.Equal(t, "from-env", os.Getenv("GENAI_TEST_PRESET"))
}

func TestLoadEnvFiles_SkipsDirectories(t *testing.T) {
	loaded := LoadEnvFiles(context.Background(), t.TempDir())
	assert.Empty(t, loaded)
}

func TestLoadEnvFiles_SkipsMalformedFiles(t *testing.T) {
	dir := t.TempDir()
	broken := writeEnvFile(t, dir, "broken.env", "GENAI_TEST_BROKEN=x\nthis line is not an assignment\n")
	good := writeEnvFile(t, dir, "good.env", "GENAI_TEST_AFTER_BROKEN=loaded\n")

	for _, name := range []string{"GENAI_TEST_BROKEN", "GENAI_TEST_AFTER_BROKEN"} {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}

	loaded := LoadEnvFiles(context.Background(), broken, good)
	assert.Equal(t, []string{good}, loaded)
	assert.Equal(t, "loaded", os.Getenv("GENAI_TEST_AFTER_BROKEN"))
	_, set := os.LookupEnv("GENAI_TEST_BROKEN")
	assert.False(t, set)
}

func TestDefaultEnvFiles(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(EnvFileVar, "/tmp/extra.env")

	assert.Equal(t, []string{
		".env",
		filepath.Join(home, "GenAI", ".env"),
		"/tmp/extra.env",
	}, DefaultEnvFiles())
}
