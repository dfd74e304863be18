package global

import (
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

const configTOMLFileName = "config.toml"

// NotifyConfig holds the notification provider identifiers. They are
// configuration, not secrets, but dispatch still goes through the app; the
// web UI never holds them.
type NotifyConfig struct {
	BaseURL    string `json:"base_url,omitempty" toml:"base_url,omitempty"`
	ServiceID  string `json:"service_id" toml:"service_id"`
	TemplateID string `json:"template_id" toml:"template_id"`
	PublicKey  string `json:"public_key" toml:"public_key"`
}

type GlobalConfig struct {
	APIBaseURL string       `json:"api_base_url" toml:"api_base_url"`
	LocalPort  int          `json:"local_port" toml:"local_port"`
	Notify     NotifyConfig `json:"notify" toml:"notify"`
}

type ConfigStore struct {
	dir string
}

func NewConfigStore(dir string) *ConfigStore {
	return &ConfigStore{dir: dir}
}

func (s *ConfigStore) LoadOrInit() (GlobalConfig, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return GlobalConfig{}, err
	}

	path := filepath.Join(s.dir, configTOMLFileName)
	if b, err := os.ReadFile(path); err == nil {
		var cfg GlobalConfig
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return GlobalConfig{}, err
		}
		return normalizeConfig(cfg), nil
	} else if !os.IsNotExist(err) {
		return GlobalConfig{}, err
	}

	cfg := normalizeConfig(GlobalConfig{})
	if err := writeTOMLAtomically(path, cfg); err != nil {
		return GlobalConfig{}, err
	}
	return cfg, nil
}

func (s *ConfigStore) Save(cfg GlobalConfig) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	return writeTOMLAtomically(filepath.Join(s.dir, configTOMLFileName), normalizeConfig(cfg))
}

func normalizeConfig(cfg GlobalConfig) GlobalConfig {
	if strings.TrimSpace(cfg.APIBaseURL) == "" {
		cfg.APIBaseURL = "http://localhost:8000"
	}
	cfg.APIBaseURL = strings.TrimRight(strings.TrimSpace(cfg.APIBaseURL), "/")
	if cfg.LocalPort <= 0 {
		cfg.LocalPort = 4820
	}
	cfg.Notify.ServiceID = strings.TrimSpace(cfg.Notify.ServiceID)
	cfg.Notify.TemplateID = strings.TrimSpace(cfg.Notify.TemplateID)
	cfg.Notify.PublicKey = strings.TrimSpace(cfg.Notify.PublicKey)
	return cfg
}

func writeTOMLAtomically(path string, cfg GlobalConfig) error {
	b, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
