package daemon

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tutu-network/kudos/internal/domain"
)

func copyFile(t *testing.T, src, dst string) {
	t.Helper()
	data, err := os.ReadFile(src)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(dst, data, 0o644))
}

func testConfig(t *testing.T) Config {
	t.Helper()
	home := t.TempDir()
	t.Setenv("KUDOS_HOME", home)
	copyFile(t, filepath.Join("..", "..", "configs", "tuning.json"), filepath.Join(home, "tuning.json"))
	copyFile(t, filepath.Join("..", "..", "configs", "model.toml"), filepath.Join(home, "model.toml"))

	cfg := DefaultConfig()
	cfg.Logging.Level = "error"
	cfg.Engine.Seed = 1
	return cfg
}

func TestNewWithConfig_Wires(t *testing.T) {
	d, err := NewWithConfig(testConfig(t), "1.2.3")
	require.NoError(t, err)
	defer d.Close()

	assert.NotNil(t, d.DB)
	assert.Equal(t, "2024-06-01", d.Model.Version())
	assert.Equal(t, "builtin", d.Templates.Source())

	w := httptest.NewRecorder()
	d.Server.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/version", nil))
	assert.JSONEq(t, `{"model_version":"2024-06-01","service_version":"1.2.3"}`, w.Body.String())

	w = httptest.NewRecorder()
	d.Server.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestNewWithConfig_EvaluateWithClock(t *testing.T) {
	d, err := NewWithConfig(testConfig(t), "dev")
	require.NoError(t, err)
	defer d.Close()

	d.SetClock(func() time.Time { return time.Date(2024, 6, 10, 12, 0, 0, 0, time.Local) })
	resp := d.Evaluator.Evaluate(domain.SocialNudgeRequest{
		UserID:  "u1",
		Buddies: []domain.BuddyMetrics{{BuddyID: "b1", LastInteractionDays: 30}},
		History: domain.History{LastBuddyNudge: "2024-06-09"},
	})
	assert.Empty(t, resp.BuddyNudges, "nudge cooldown applies with the pinned clock")
}

func TestNewWithConfig_Errors(t *testing.T) {
	cfg := testConfig(t)
	cfg.Paths.Tuning = filepath.Join(t.TempDir(), "absent.json")
	_, err := NewWithConfig(cfg, "dev")
	assert.ErrorIs(t, err, domain.ErrConfigMissing)

	cfg = testConfig(t)
	cfg.Paths.Model = filepath.Join(t.TempDir(), "absent.toml")
	_, err = NewWithConfig(cfg, "dev")
	assert.ErrorIs(t, err, domain.ErrModelInvalid)

	cfg = testConfig(t)
	cfg.Paths.Templates = filepath.Join(t.TempDir(), "absent.yaml")
	_, err = NewWithConfig(cfg, "dev")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "load templates"))
}

func TestNewWithConfig_NoDataDir(t *testing.T) {
	cfg := testConfig(t)
	cfg.Paths.DataDir = ""
	d, err := NewWithConfig(cfg, "dev")
	require.NoError(t, err)
	defer d.Close()

	assert.Nil(t, d.DB)
	hist, err := d.Tags.History(10)
	require.NoError(t, err)
	assert.Empty(t, hist)
}
