package catalog_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tutu-network/kudos/internal/domain"
	"github.com/tutu-network/kudos/internal/infra/catalog"
)

func TestDefaultCoversEveryTrigger(t *testing.T) {
	c := catalog.Default()
	assert.Equal(t, "builtin", c.Source())

	for _, trigger := range []string{
		"karma_growth", "helpful_answers", "helpful_answers_but_no_tag_match",
		"quizzes_attempted", "upvotes", "consecutive_active_days", "profile_completeness",
	} {
		e, ok := c.Lookup(domain.KindCompliment, trigger)
		require.True(t, ok, trigger)
		assert.NotEmpty(t, e.Templates, trigger)
		assert.NotEmpty(t, e.Emojis, trigger)
	}
	for _, trigger := range []string{"last_interaction_days", "karma_drop", "score", "quizzes_attempted"} {
		e, ok := c.Lookup(domain.KindNudge, trigger)
		require.True(t, ok, trigger)
		for _, text := range e.Templates {
			assert.Contains(t, text, "{buddy_id}", trigger)
		}
	}

	e, _ := c.Lookup(domain.KindCompliment, "helpful_answers")
	for _, text := range e.Templates {
		assert.Contains(t, text, "{tag}")
	}
}

func TestLookupSeparatesKinds(t *testing.T) {
	c := catalog.Default()

	comp, ok := c.Lookup(domain.KindCompliment, "quizzes_attempted")
	require.True(t, ok)
	nudge, ok := c.Lookup(domain.KindNudge, "quizzes_attempted")
	require.True(t, ok)
	assert.Equal(t, domain.KindCompliment, comp.Kind)
	assert.Equal(t, domain.KindNudge, nudge.Kind)

	_, ok = c.Lookup(domain.KindNudge, "upvotes")
	assert.False(t, ok)
	_, ok = c.Lookup(domain.KindCompliment, "no_such_trigger")
	assert.False(t, ok)
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "templates.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`[
		{"trigger": "upvotes", "template": ["Nice!"], "emojis": ["👍"]}
	]`), 0o644))
	c, err := catalog.Load(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())

	// An entry without a kind serves both engines.
	_, ok := c.Lookup(domain.KindCompliment, "upvotes")
	assert.True(t, ok)
	_, ok = c.Lookup(domain.KindNudge, "upvotes")
	assert.True(t, ok)

	yamlPath := filepath.Join(dir, "templates.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(strings.TrimSpace(`
- trigger: score
  kind: nudge
  template:
    - "Ping {buddy_id}!"
`)), 0o644))
	c, err = catalog.Load(yamlPath)
	require.NoError(t, err)
	e, ok := c.Lookup(domain.KindNudge, "score")
	require.True(t, ok)
	assert.Equal(t, []string{"Ping {buddy_id}!"}, e.Templates)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
		return p
	}

	_, err := catalog.Load(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, domain.ErrConfigMissing)

	_, err = catalog.Load(write("empty.json", "[]"))
	assert.ErrorIs(t, err, domain.ErrTemplatesEmpty)

	_, err = catalog.Load(write("bad.json", "{"))
	assert.ErrorIs(t, err, domain.ErrConfigMalformed)

	_, err = catalog.Load(write("kind.json", `[{"trigger":"x","kind":"banner","template":["a"]}]`))
	assert.ErrorIs(t, err, domain.ErrConfigMalformed)

	_, err = catalog.Load(write("templates.txt", "x"))
	assert.ErrorIs(t, err, domain.ErrConfigMalformed)
}
