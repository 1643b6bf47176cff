package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tutu-network/kudos/internal/domain"
)

func TestParseTagPairs(t *testing.T) {
	got, err := parseTagPairs([]string{"python=12", " go =7"})
	require.NoError(t, err)
	assert.Equal(t, domain.PopularTags{"python": 12, "go": 7}, got)

	for _, bad := range []string{"python", "=3", "go=many"} {
		_, err := parseTagPairs([]string{bad})
		assert.Error(t, err, bad)
	}
}

func TestSortedTags(t *testing.T) {
	got := sortedTags(domain.PopularTags{"b": 5, "a": 5, "c": 9})
	assert.Equal(t, []string{"c", "a", "b"}, got)
}

// setupHome points KUDOS_HOME at a temp copy of the example configs.
func setupHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	for _, name := range []string{"tuning.json", "model.toml", "request.json"} {
		data, err := os.ReadFile(filepath.Join("..", "..", "configs", name))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(home, name), data, 0o644))
	}
	t.Setenv("KUDOS_HOME", home)
	t.Setenv("KUDOS_LOG_LEVEL", "error")
	return home
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	// Flags are package state; reset what earlier runs may have set.
	evalFile, evalToday, evalSeed, configPath = "-", "", 0, ""
	tagsHistoryLimit = 10

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestEvaluateCommand(t *testing.T) {
	home := setupHome(t)

	out, err := execute(t, "evaluate", "-f", filepath.Join(home, "request.json"), "--today", "2024-06-10", "--seed", "3")
	require.NoError(t, err)

	var resp domain.SocialNudgeResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	assert.Equal(t, "learner-42", resp.UserID)
	assert.Equal(t, "generated", resp.Status)
	require.Len(t, resp.BuddyNudges, 1)
	assert.Equal(t, "ana", resp.BuddyNudges[0].BuddyID)
}

func TestEvaluateCommand_InvalidRequest(t *testing.T) {
	home := setupHome(t)
	path := filepath.Join(home, "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"user_id": ""}`), 0o644))

	_, err := execute(t, "evaluate", "-f", path)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = execute(t, "evaluate", "-f", filepath.Join(home, "request.json"), "--today", "June 10")
	assert.Error(t, err)
}

func TestTagsCommands(t *testing.T) {
	setupHome(t)

	out, err := execute(t, "tags", "set", "rust=4", "go=9")
	require.NoError(t, err)
	assert.Contains(t, out, "3 -> 2 entries")

	out, err = execute(t, "tags", "show")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "go"), out)
	assert.True(t, strings.HasPrefix(lines[2], "rust"), out)

	out, err = execute(t, "tags", "history", "--limit", "5")
	require.NoError(t, err)
	assert.Equal(t, 2, len(strings.Split(strings.TrimSpace(out), "\n")), out)
}
