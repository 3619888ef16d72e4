package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShowSkill(t *testing.T) {
	root := newTestSkillsDir(t)
	c := newTestConfig(t, root)

	var out bytes.Buffer
	require.NoError(t, showSkill(context.Background(), c, "echo", &out))

	for _, want := range []string{
		"Description: repeat the request",
		"Version:     1.0.0",
		"Tags:        echo",
		"ID   TYPE",
		"say  output",
		"Frontmatter keys: capabilities, category, description",
		"echo\n",
	} {
		assert.Contains(t, out.String(), want)
	}
}

func TestShowSkill_NotFound(t *testing.T) {
	c := newTestConfig(t, newTestSkillsDir(t))

	err := showSkill(context.Background(), c, "missing", &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "skill not found: missing")
}
