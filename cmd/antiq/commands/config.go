package commands

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/antiq-app/antiq/internal/api"
)

const (
	configFileName   = ".antiq.yaml"
	defaultServerURL = "http://localhost:8080"
)

// cliConfig is persisted as YAML in the user's home directory.
type cliConfig struct {
	ServerURL string `yaml:"server_url"`
	Token     string `yaml:"token,omitempty"`
}

func configPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, configFileName), nil
}

func loadConfig() (*cliConfig, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &cliConfig{ServerURL: defaultServerURL}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg cliConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.ServerURL == "" {
		cfg.ServerURL = defaultServerURL
	}
	return &cfg, nil
}

func saveConfig(cfg *cliConfig) error {
	path, err := configPath()
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	// The file holds a session token, keep it private
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func newClient(cfg *cliConfig) *api.HTTPClient {
	client := api.NewHTTPClient(cfg.ServerURL, &http.Client{Timeout: 30 * time.Second})
	if cfg.Token != "" {
		client.SetToken(cfg.Token)
	}
	return client
}

// requireSession loads the config and fails early when no token is stored,
// which reads better than the 401 the server would return.
func requireSession() (*cliConfig, *api.HTTPClient, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	if cfg.Token == "" {
		return nil, nil, fmt.Errorf("not logged in, run 'antiq login' first")
	}
	return cfg, newClient(cfg), nil
}
