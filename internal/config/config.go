package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	APIBaseURL         string
	TokenFile          string
	HTTPTimeoutSecs    int
	ChargingRevertSecs int
	DefaultAsset       string

	SSHBind        string
	SSHPort        int
	SSHHostKeyPath string

	MockAPIBind   string
	MockAPIPort   int
	JWTSecret     string
	TokenTTLHours int
}

// fileConfig is the optional YAML overlay pointed to by PANEL_CONFIG.
// Environment variables win over the file.
type fileConfig struct {
	APIBaseURL         string `yaml:"api_base_url"`
	TokenFile          string `yaml:"token_file"`
	HTTPTimeoutSecs    int    `yaml:"http_timeout_secs"`
	ChargingRevertSecs int    `yaml:"charging_revert_secs"`
	DefaultAsset       string `yaml:"default_asset"`
	SSHBind            string `yaml:"ssh_bind"`
	SSHPort            int    `yaml:"ssh_port"`
	SSHHostKeyPath     string `yaml:"ssh_host_key"`
	MockAPIBind        string `yaml:"mockapi_bind"`
	MockAPIPort        int    `yaml:"mockapi_port"`
	JWTSecret          string `yaml:"jwt_secret"`
	TokenTTLHours      int    `yaml:"token_ttl_hours"`
}

func Load() *Config {
	cfg := &Config{
		APIBaseURL:         "http://localhost:8000",
		TokenFile:          defaultTokenFile(),
		HTTPTimeoutSecs:    10,
		ChargingRevertSecs: 60,
		DefaultAsset:       "EUR/USD",
		SSHBind:            "127.0.0.1",
		SSHPort:            2222,
		SSHHostKeyPath:     ".ssh/pocket_panel_ed25519",
		MockAPIBind:        "127.0.0.1",
		MockAPIPort:        8000,
		JWTSecret:          os.Getenv("PANEL_JWT_SECRET"),
		TokenTTLHours:      24,
	}

	if path := strings.TrimSpace(os.Getenv("PANEL_CONFIG")); path != "" {
		applyFile(cfg, path)
	}

	if v := strings.TrimSpace(os.Getenv("PANEL_API_URL")); v != "" {
		cfg.APIBaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("PANEL_TOKEN_FILE")); v != "" {
		cfg.TokenFile = v
	}
	if v := os.Getenv("PANEL_HTTP_TIMEOUT_SECS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.HTTPTimeoutSecs = n
		}
	}
	if v := os.Getenv("PANEL_CHARGING_REVERT_SECS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.ChargingRevertSecs = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("PANEL_DEFAULT_ASSET")); v != "" {
		cfg.DefaultAsset = v
	}
	if v := strings.TrimSpace(os.Getenv("PANEL_SSH_BIND")); v != "" {
		cfg.SSHBind = v
	}
	if v := os.Getenv("PANEL_SSH_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SSHPort = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("PANEL_SSH_HOST_KEY")); v != "" {
		cfg.SSHHostKeyPath = v
	}
	if v := strings.TrimSpace(os.Getenv("MOCKAPI_BIND")); v != "" {
		cfg.MockAPIBind = v
	}
	if v := os.Getenv("MOCKAPI_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MockAPIPort = n
		}
	}
	if v := os.Getenv("MOCKAPI_TOKEN_TTL_HOURS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TokenTTLHours = n
		}
	}

	if cfg.JWTSecret == "" {
		log.Println("Warning: PANEL_JWT_SECRET not set, mockapi will use a development secret")
		cfg.JWTSecret = "dev-secret-change-me"
	}

	return cfg
}

func applyFile(cfg *Config, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("Warning: could not read config file %s: %v", path, err)
		return
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		log.Printf("Warning: could not parse config file %s: %v", path, err)
		return
	}

	if fc.APIBaseURL != "" {
		cfg.APIBaseURL = fc.APIBaseURL
	}
	if fc.TokenFile != "" {
		cfg.TokenFile = fc.TokenFile
	}
	if fc.HTTPTimeoutSecs > 0 {
		cfg.HTTPTimeoutSecs = fc.HTTPTimeoutSecs
	}
	if fc.ChargingRevertSecs > 0 {
		cfg.ChargingRevertSecs = fc.ChargingRevertSecs
	}
	if fc.DefaultAsset != "" {
		cfg.DefaultAsset = fc.DefaultAsset
	}
	if fc.SSHBind != "" {
		cfg.SSHBind = fc.SSHBind
	}
	if fc.SSHPort > 0 {
		cfg.SSHPort = fc.SSHPort
	}
	if fc.SSHHostKeyPath != "" {
		cfg.SSHHostKeyPath = fc.SSHHostKeyPath
	}
	if fc.MockAPIBind != "" {
		cfg.MockAPIBind = fc.MockAPIBind
	}
	if fc.MockAPIPort > 0 {
		cfg.MockAPIPort = fc.MockAPIPort
	}
	if fc.JWTSecret != "" {
		cfg.JWTSecret = fc.JWTSecret
	}
	if fc.TokenTTLHours > 0 {
		cfg.TokenTTLHours = fc.TokenTTLHours
	}
}

func defaultTokenFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".pocket-panel-token"
	}
	return filepath.Join(dir, "pocket-panel", "token")
}
