package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSkill(t *testing.T) {
	root := t.TempDir()
	c := newTestConfig(t, root)

	path, err := createSkill(c, "summarize", "Summarize a file")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "summarize", "SKILL.md"), path)

	count, err := validateSkillsDir(root, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = createSkill(c, "summarize", "again")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestCreateSkill_DefaultDirectory(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	c := newTestConfig(t, "")

	path, err := createSkill(c, "first", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "GenAI", "skills", "first", "SKILL.md"), path)
}

func TestCreateSkill_InvalidName(t *testing.T) {
	c := newTestConfig(t, t.TempDir())

	_, err := createSkill(c, "Bad Name", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid skill name")
}
