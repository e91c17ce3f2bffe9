package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/necolo/rulink/internal/errors"
)

const styleRule = `---
description: TypeScript style rules
globs: "*.ts, *.tsx"
alwaysApply: false
---
Use strict mode.
`

func TestLocalProvider_Validate(t *testing.T) {
	t.Run("root rule", func(t *testing.T) {
		dir := t.TempDir()
		writeRule(t, dir, "general.mdc", "x")
		assert.True(t, NewLocalProvider(dir).Validate(t.Context()).Valid)
	})

	t.Run("nested one level", func(t *testing.T) {
		dir := t.TempDir()
		writeRule(t, dir, "typescript/style.mdc", "x")
		assert.True(t, NewLocalProvider(dir).Validate(t.Context()).Valid)
	})

	t.Run("nested too deep", func(t *testing.T) {
		dir := t.TempDir()
		writeRule(t, dir, "a/b/deep.mdc", "x")
		res := NewLocalProvider(dir).Validate(t.Context())
		assert.False(t, res.Valid)
		assert.Contains(t, res.Error, "no .mdc files found")
		assert.NotEmpty(t, res.Suggestions)
	})

	t.Run("missing", func(t *testing.T) {
		res := NewLocalProvider(filepath.Join(t.TempDir(), "nope")).Validate(t.Context())
		assert.False(t, res.Valid)
		assert.Contains(t, res.Error, "cannot access path")
	})

	t.Run("file not directory", func(t *testing.T) {
		path := writeRule(t, t.TempDir(), "single.mdc", "x")
		res := NewLocalProvider(path).Validate(t.Context())
		assert.False(t, res.Valid)
		assert.Contains(t, res.Error, "not a directory")
	})
}

func TestLocalProvider_ListRules(t *testing.T) {
	dir := t.TempDir()
	writeRule(t, dir, "general.mdc", "no header")
	writeRule(t, dir, "typescript/style.mdc", styleRule)
	writeRule(t, dir, "typescript/notes.txt", "ignored")
	writeRule(t, dir, "typescript/deeper/hidden.mdc", "ignored")
	writeRule(t, dir, ".git/config.mdc", "ignored")

	rules, err := NewLocalProvider(dir).ListRules(t.Context())
	require.NoError(t, err)
	require.Len(t, rules, 2)

	assert.Equal(t, DefaultCategory, rules[0].Category)
	assert.Equal(t, "general", rules[0].Name)
	assert.Equal(t, "general.mdc", rules[0].CanonicalPath())
	assert.Equal(t, filepath.Join(dir, "general.mdc"), rules[0].AbsolutePath)

	style := rules[1]
	assert.Equal(t, "typescript", style.Category)
	assert.Equal(t, "style", style.Name)
	assert.Equal(t, "typescript/style.mdc", style.CanonicalPath())
	assert.Equal(t, "TypeScript style rules", style.Description)
	assert.Equal(t, []string{"*.ts", "*.tsx"}, style.Globs)
	require.NotNil(t, style.AlwaysApply)
	assert.False(t, *style.AlwaysApply)
}

func TestLocalProvider_TransientOmitsAbsolutePath(t *testing.T) {
	dir := t.TempDir()
	writeRule(t, dir, "general.mdc", "x")

	rules, err := newTransientLocal(dir).ListRules(t.Context())
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Empty(t, rules[0].AbsolutePath)
}

func TestLocalProvider_GetRuleContent(t *testing.T) {
	dir := t.TempDir()
	writeRule(t, dir, "typescript/style.mdc", styleRule)
	p := NewLocalProvider(dir)

	got, err := p.GetRuleContent(t.Context(), "typescript/style.mdc")
	require.NoError(t, err)
	assert.Equal(t, styleRule, got)

	_, err = p.GetRuleContent(t.Context(), "typescript/missing.mdc")
	assert.True(t, errors.Is(err, errors.ErrNotFound))

	_, err = p.GetRuleContent(t.Context(), "typescript")
	assert.True(t, errors.Is(err, errors.ErrPathFormat))

	_, err = p.GetRuleContent(t.Context(), "../outside.mdc")
	assert.True(t, errors.Is(err, errors.ErrPathFormat))
}

func TestLocalProvider_FollowsSymlinks(t *testing.T) {
	target := writeRule(t, t.TempDir(), "shared.mdc", "x")
	dir := t.TempDir()
	if err := os.Symlink(target, filepath.Join(dir, "shared.mdc")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	rules, err := NewLocalProvider(dir).ListRules(t.Context())
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, "shared", rules[0].Name)
}
