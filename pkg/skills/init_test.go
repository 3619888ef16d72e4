package skills

import (
	"context"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialize(t *testing.T) {
	root := t.TempDir()
	writeSkill(t, root, "auto-commit-msg", autoCommitDoc)
	writeSkill(t, root, "notes", skillDoc("notes", "Take notes", "docs", nil,
		"id: done\ntype: output\ntemplate: ok"))

	t.Run("all skills", func(t *testing.T) {
		skills, err := Initialize(context.Background(), []string{root}, nil)
		require.NoError(t, err)
		assert.Len(t, skills, 2)
	})

	t.Run("allowlist", func(t *testing.T) {
		skills, err := Initialize(context.Background(), []string{root}, []string{"auto-*"})
		require.NoError(t, err)
		require.Len(t, skills, 1)
		assert.Equal(t, "auto-commit-msg", skills[0].Name())
	})
}

func TestInitializeRejectsInvalidSkill(t *testing.T) {
	root := t.TempDir()
	writeSkill(t, root, "ok", skillDoc("ok", "fine", "misc", nil))
	writeSkill(t, root, "dup", skillDoc("dup", "broken", "misc", nil,
		"id: a\ntype: output\ntemplate: one",
		"id: a\ntype: output\ntemplate: two"))

	_, err := Initialize(context.Background(), []string{root}, nil)
	require.Error(t, err)
	assert.True(t, IsValidationKind(err, ValidationDuplicateStepID))
	assert.Contains(t, err.Error(), "invalid skill at")
}

func TestValidateAll(t *testing.T) {
	good := mustParse(t, autoCommitDoc)

	badName := mustParse(t, skillDoc("x", "d", "c", nil))
	badName.Metadata.Name = ""

	badRunner := mustParse(t, autoCommitDoc)
	badRunner.Steps[0].Runner = "zsh"

	assert.NoError(t, ValidateAll([]*Skill{good}))

	err := ValidateAll([]*Skill{badName, good, badRunner})
	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	assert.Len(t, merr.Errors, 2)
	assert.True(t, IsValidationKind(merr.Errors[0], ValidationEmptyName))
	assert.True(t, IsValidationKind(merr.Errors[1], ValidationPermissionDenied))
}
