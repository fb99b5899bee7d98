package reportlog_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suderio/arcanum/internal/reportlog"
	"github.com/suderio/arcanum/internal/resolver"
)

func TestAppendAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports.jsonl")

	store, err := reportlog.NewStore(path)
	require.NoError(t, err)
	defer store.Close()

	ok := &resolver.Report{Component: "health", Resolved: true}
	rejected := &resolver.Report{
		Component: "skill",
		Issues: []resolver.Issue{{
			Code:        resolver.IssueRequirementUnmet,
			Path:        "skill.perception.ranks",
			Diagnostics: "required field is missing and no fallback is declared",
		}},
	}

	require.NoError(t, store.Append("d20", ok))
	require.NoError(t, store.Append("d20", rejected))

	entries, err := store.Load()
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "health", entries[0].Component)
	assert.True(t, entries[0].Resolved)
	assert.Empty(t, entries[0].Issues)

	assert.Equal(t, "skill", entries[1].Component)
	assert.False(t, entries[1].Resolved)
	require.Len(t, entries[1].Issues, 1)
	assert.Equal(t, resolver.IssueRequirementUnmet, entries[1].Issues[0].Code)
}

func TestReopenKeepsHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports.jsonl")

	store, err := reportlog.NewStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Append("d20", &resolver.Report{Component: "health", Resolved: true}))
	require.NoError(t, store.Close())

	store, err = reportlog.NewStore(path)
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.Append("d20", &resolver.Report{Component: "ability", Resolved: true}))

	entries, err := store.Load()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "health", entries[0].Component)
	assert.Equal(t, "ability", entries[1].Component)
}
