package podds

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// PoddsConfig contains everything that can be tuned without touching code
// The 0..5 goal truncation of the scoreline grid is deliberately not here, see MaxGoals
type PoddsConfig struct {
	// === DATA PROVIDER ===
	BaseURL        string            // SofaScore API root (default: https://api.sofascore.com/api/v1)
	Headers        map[string]string // extra request headers, e.g. a different User-Agent
	ProxyURL       string            // outbound proxy, empty means HTTPS_PROXY and friends
	CABundlePath   string            // PEM bundle appended to the system roots
	RequestTimeout time.Duration     // per request timeout (default: 30s, 0 disables)

	// === OUTPUT ===
	LedgerPath string         // sqlite ledger of analysed fixtures, empty disables it
	LogFile    string         // file used by the 'f' and 'b' log outputs
	Location   *time.Location // zone in which "today" is evaluated (default: local)

	// === MODEL ===
	NeutralStrength       float64 // strength used when the league average is zero (default: 1.0)
	TopScoreCount         int     // number of exact scores reported (default: 5)
	Over1p5GoalsThreshold float64 // Threshold for over 1.5 goals (default: 1.5)
	Over2p5GoalsThreshold float64 // Threshold for over 2.5 goals (default: 2.5)
}

// DefaultPoddsConfig returns the default configuration with all standard values
func DefaultPoddsConfig() *PoddsConfig {
	return &PoddsConfig{
		BaseURL:        "https://api.sofascore.com/api/v1",
		Headers:        map[string]string{},
		RequestTimeout: 30 * time.Second,

		LogFile:  "/tmp/sofabet.log",
		Location: time.Local,

		NeutralStrength:       1.0,
		TopScoreCount:         5,
		Over1p5GoalsThreshold: 1.5,
		Over2p5GoalsThreshold: 2.5,
	}
}

// Global configuration instance
var Config *PoddsConfig

// init initializes the global configuration with default values
func init() {
	Config = DefaultPoddsConfig()
}

// UpdateConfig allows updating the global configuration
func UpdateConfig(newConfig *PoddsConfig) {
	if newConfig.Headers == nil {
		newConfig.Headers = map[string]string{}
	}
	if newConfig.Location == nil {
		newConfig.Location = time.Local
	}
	Config = newConfig
}

// === CONFIGURATION VALIDATION ===

// ValidateConfig ensures all configuration values are within reasonable ranges
func ValidateConfig(config *PoddsConfig) error {
	if strings.TrimSpace(config.BaseURL) == "" {
		return fmt.Errorf("BaseURL must not be empty")
	}

	if config.RequestTimeout < 0 {
		return fmt.Errorf("RequestTimeout must not be negative, got: %s", config.RequestTimeout)
	}

	if config.TopScoreCount <= 0 {
		return fmt.Errorf("TopScoreCount must be positive, got: %d", config.TopScoreCount)
	}

	if config.Location == nil {
		return fmt.Errorf("Location must be set")
	}

	if config.NeutralStrength <= 0 {
		return fmt.Errorf("NeutralStrength must be positive, got: %f", config.NeutralStrength)
	}

	if config.Over1p5GoalsThreshold < 0 || config.Over2p5GoalsThreshold < 0 {
		return fmt.Errorf("goal thresholds must not be negative, got: %f and %f",
			config.Over1p5GoalsThreshold, config.Over2p5GoalsThreshold)
	}

	return nil
}

// === HELPER FUNCTIONS FOR EASY ACCESS ===

// GetNeutralStrength returns the strength substituted for a zero league average
func GetNeutralStrength() float64 {
	return Config.NeutralStrength
}

// GetLocation returns the zone used to decide which fixtures are today's
func GetLocation() *time.Location {
	if Config.Location == nil {
		return time.Local
	}
	return Config.Location
}

/////////////////////////////////////////////////////////////////////////
////// Loading
/////////////////////////////////////////////////////////////////////////

// fileConfig is the on-disk YAML shape, every field optional
type fileConfig struct {
	BaseURL         string            `yaml:"base_url"`
	Headers         map[string]string `yaml:"headers"`
	Proxy           string            `yaml:"proxy"`
	CABundle        string            `yaml:"ca_bundle"`
	Timeout         string            `yaml:"timeout"`
	Ledger          string            `yaml:"ledger"`
	LogFile         string            `yaml:"log_file"`
	Location        string            `yaml:"location"`
	NeutralStrength *float64          `yaml:"neutral_strength"`
	TopScores       *int              `yaml:"top_scores"`
	Over1p5         *float64          `yaml:"over_1p5_threshold"`
	Over2p5         *float64          `yaml:"over_2p5_threshold"`
}

// Environment variables read by LoadConfig
const (
	EnvProxy     = "SOFABET_PROXY"
	EnvUserAgent = "SOFABET_USER_AGENT"
	EnvBaseURL   = "SOFABET_BASE_URL"
	EnvTimeout   = "SOFABET_TIMEOUT"
	EnvLedger    = "SOFABET_LEDGER"
	EnvLogFile   = "SOFABET_LOG_FILE"
)

// LoadConfig builds a configuration from the defaults, an optional YAML file, a .env file and the environment
// in that order of precedence, later sources winning
// An empty path skips the YAML step, a missing .env is ignored
func LoadConfig(path string) (*PoddsConfig, error) {
	cfg := DefaultPoddsConfig()

	if path != "" {
		if err := applyFile(cfg, path); err != nil {
			return nil, err
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyFile(cfg *PoddsConfig, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if fc.BaseURL != "" {
		cfg.BaseURL = fc.BaseURL
	}
	for k, v := range fc.Headers {
		cfg.Headers[k] = v
	}
	if fc.Proxy != "" {
		cfg.ProxyURL = fc.Proxy
	}
	if fc.CABundle != "" {
		cfg.CABundlePath = fc.CABundle
	}
	if fc.Timeout != "" {
		d, err := parseTimeout(fc.Timeout)
		if err != nil {
			return fmt.Errorf("config %s: %w", path, err)
		}
		cfg.RequestTimeout = d
	}
	if fc.Ledger != "" {
		cfg.LedgerPath = fc.Ledger
	}
	if fc.LogFile != "" {
		cfg.LogFile = fc.LogFile
	}
	if fc.Location != "" {
		loc, err := time.LoadLocation(fc.Location)
		if err != nil {
			return fmt.Errorf("config %s: unknown location %q: %w", path, fc.Location, err)
		}
		cfg.Location = loc
	}
	if fc.NeutralStrength != nil {
		cfg.NeutralStrength = *fc.NeutralStrength
	}
	if fc.TopScores != nil {
		cfg.TopScoreCount = *fc.TopScores
	}
	if fc.Over1p5 != nil {
		cfg.Over1p5GoalsThreshold = *fc.Over1p5
	}
	if fc.Over2p5 != nil {
		cfg.Over2p5GoalsThreshold = *fc.Over2p5
	}
	return nil
}

func applyEnv(cfg *PoddsConfig) error {
	if v := os.Getenv(EnvBaseURL); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv(EnvProxy); v != "" {
		cfg.ProxyURL = v
	}
	if v := os.Getenv(EnvUserAgent); v != "" {
		cfg.Headers["User-Agent"] = v
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		d, err := parseTimeout(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvTimeout, err)
		}
		cfg.RequestTimeout = d
	}
	if v := os.Getenv(EnvLedger); v != "" {
		cfg.LedgerPath = v
	}
	if v := os.Getenv(EnvLogFile); v != "" {
		cfg.LogFile = v
	}
	return nil
}

// parseTimeout accepts a Go duration ("15s") or a bare number of seconds ("15")
func parseTimeout(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if secs, err := strconv.Atoi(s); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q", s)
	}
	return d, nil
}
