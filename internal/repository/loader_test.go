package repository_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suderio/arcanum/internal/registry"
	"github.com/suderio/arcanum/internal/repository"
	"github.com/suderio/arcanum/internal/resolver"
	"github.com/suderio/arcanum/internal/schema"
)

func TestLoadComponent(t *testing.T) {
	loader := repository.NewLoader([]string{"testdata"})

	doc, err := loader.LoadComponent("d20", "ability")
	require.NoError(t, err)
	score := doc.Get("ability").Get("constitution").Get("score")
	require.NotNil(t, score)
	assert.Equal(t, int64(14), score.Value)

	_, err = loader.LoadComponent("d20", "missing")
	assert.Error(t, err)
}

func TestLoadTemplateAndRequirements(t *testing.T) {
	loader := repository.NewLoader([]string{"testdata"})

	tmpl, err := loader.LoadTemplate("d20", "health")
	require.NoError(t, err)
	require.NotNil(t, tmpl)
	hp := tmpl.Get("health").Get("maximum").Get("hit-points")
	require.NotNil(t, hp)
	assert.Equal(t, schema.TagPseudo, hp.Tag)

	reqs, err := loader.LoadRequirements("d20", "health")
	require.NoError(t, err)
	require.NotNil(t, reqs)
	unconscious := reqs.Child("health").Child("unconscious").Child("hit-points")
	require.NotNil(t, unconscious)
	assert.Equal(t, "ability", unconscious.Requires)

	// Records the system never shipped are simply absent.
	tmpl, err = loader.LoadTemplate("d20", "ability")
	require.NoError(t, err)
	assert.Nil(t, tmpl)

	reqs, err = loader.LoadRequirements("d20", "ability")
	require.NoError(t, err)
	assert.Nil(t, reqs)
}

func TestLoadFunctions(t *testing.T) {
	loader := repository.NewLoader([]string{"testdata"})

	defs, err := loader.LoadFunctions("d20")
	require.NoError(t, err)
	require.Contains(t, defs, "half")

	r := registry.New()
	require.NoError(t, registry.RegisterCEL(r, defs))
	got, err := r.Apply("half", []float64{9})
	require.NoError(t, err)
	assert.Equal(t, 4.5, got)
}

func TestComponentsExcludesAuxiliaryRecords(t *testing.T) {
	loader := repository.NewLoader([]string{"testdata"})

	names, err := loader.Components("d20")
	require.NoError(t, err)
	assert.Equal(t, []string{"ability", "health"}, names)

	_, err = loader.Components("gurps")
	assert.Error(t, err)
}

func TestDataDirOrderWins(t *testing.T) {
	loader := repository.NewLoader([]string{"testdata/override", "testdata"})

	doc, err := loader.LoadComponent("d20", "ability")
	require.NoError(t, err)
	score := doc.Get("ability").Get("constitution").Get("score")
	require.NotNil(t, score)
	assert.Equal(t, int64(18), score.Value, "the first data directory shadows later ones")

	// health only exists in the fallback directory.
	_, err = loader.LoadComponent("d20", "health")
	require.NoError(t, err)
}

func TestLoadSetAndResolve(t *testing.T) {
	loader := repository.NewLoader([]string{"testdata"})

	set, err := loader.LoadSet("d20")
	require.NoError(t, err)
	assert.Equal(t, []string{"ability", "health"}, set.Names())

	instance, err := loader.LoadComponent("d20", "health")
	require.NoError(t, err)
	tmpl, err := loader.LoadTemplate("d20", "health")
	require.NoError(t, err)
	reqs, err := loader.LoadRequirements("d20", "health")
	require.NoError(t, err)

	report := resolver.Resolve(instance, tmpl, reqs, resolver.Options{
		Component: "health",
		Host:      set,
	})
	require.True(t, report.Resolved, "issues: %v", report.Issues)

	hp := report.Document.Get("health").Get("maximum").Get("hit-points")
	require.NotNil(t, hp)
	assert.Equal(t, int64(35), hp.Value)
}
