package podds

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvProxy, EnvUserAgent, EnvBaseURL, EnvTimeout, EnvLedger, EnvLogFile} {
		t.Setenv(k, "")
	}
	// LoadConfig reads .env from the working directory
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultPoddsConfig()
	require.NoError(t, ValidateConfig(cfg))
	assert.Equal(t, "https://api.sofascore.com/api/v1", cfg.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 5, cfg.TopScoreCount)
	assert.Equal(t, 1.0, cfg.NeutralStrength)
	assert.Empty(t, cfg.LedgerPath)
}

func TestValidateConfigRejects(t *testing.T) {
	mutations := map[string]func(*PoddsConfig){
		"empty base url":   func(c *PoddsConfig) { c.BaseURL = " " },
		"negative timeout": func(c *PoddsConfig) { c.RequestTimeout = -time.Second },
		"zero top scores":  func(c *PoddsConfig) { c.TopScoreCount = 0 },
		"nil location":     func(c *PoddsConfig) { c.Location = nil },
		"zero neutral":     func(c *PoddsConfig) { c.NeutralStrength = 0 },
		"negative over":    func(c *PoddsConfig) { c.Over2p5GoalsThreshold = -1 },
	}
	for name, mutate := range mutations {
		cfg := DefaultPoddsConfig()
		mutate(cfg)
		assert.Error(t, ValidateConfig(cfg), name)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultPoddsConfig().BaseURL, cfg.BaseURL)
}

func TestLoadConfigFromYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "sofabet.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
base_url: http://localhost:9999/api/v1
timeout: 15s
location: Europe/Paris
ledger: /tmp/ledger.db
top_scores: 3
headers:
  Referer: https://www.sofascore.com/
`), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9999/api/v1", cfg.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "Europe/Paris", cfg.Location.String())
	assert.Equal(t, "/tmp/ledger.db", cfg.LedgerPath)
	assert.Equal(t, 3, cfg.TopScoreCount)
	assert.Equal(t, "https://www.sofascore.com/", cfg.Headers["Referer"])
}

func TestLoadConfigEnvironmentWins(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "sofabet.yaml")
	require.NoError(t, os.WriteFile(path, []byte("timeout: 15s\nproxy: http://file-proxy:3128\n"), 0644))

	t.Setenv(EnvTimeout, "5")
	t.Setenv(EnvProxy, "http://env-proxy:3128")
	t.Setenv(EnvUserAgent, "sofabet/1.0")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "http://env-proxy:3128", cfg.ProxyURL)
	assert.Equal(t, "sofabet/1.0", cfg.Headers["User-Agent"])
}

func TestLoadConfigDotEnv(t *testing.T) {
	clearEnv(t)
	// godotenv never overrides a variable that is already set, even to ""
	os.Unsetenv(EnvLedger)
	require.NoError(t, os.WriteFile(".env", []byte("SOFABET_LEDGER=/tmp/from-dotenv.db\n"), 0644))
	t.Cleanup(func() { os.Unsetenv(EnvLedger) })

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/from-dotenv.db", cfg.LedgerPath)
}

func TestLoadConfigErrors(t *testing.T) {
	clearEnv(t)
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("location: Mars/Olympus\n"), 0644))
	_, err = LoadConfig(bad)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(bad, []byte("timeout: soon\n"), 0644))
	_, err = LoadConfig(bad)
	assert.Error(t, err)

	t.Setenv(EnvTimeout, "-3s")
	_, err = LoadConfig("")
	assert.Error(t, err)
}

func TestParseTimeout(t *testing.T) {
	d, err := parseTimeout("20")
	require.NoError(t, err)
	assert.Equal(t, 20*time.Second, d)

	d, err = parseTimeout(" 1m30s ")
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, d)

	_, err = parseTimeout("never")
	assert.Error(t, err)
}
