package global

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigStore_LoadOrInitWritesDefaults(t *testing.T) {
	dir := t.TempDir()
	s := NewConfigStore(dir)

	cfg, err := s.LoadOrInit()
	if err != nil {
		t.Fatalf("load or init: %v", err)
	}
	if cfg.APIBaseURL != "http://localhost:8000" {
		t.Fatalf("unexpected default api base: %s", cfg.APIBaseURL)
	}
	if cfg.LocalPort != 4820 {
		t.Fatalf("unexpected default port: %d", cfg.LocalPort)
	}

	b, err := os.ReadFile(filepath.Join(dir, configTOMLFileName))
	if err != nil {
		t.Fatalf("config file missing: %v", err)
	}
	if !strings.Contains(string(b), "api_base_url") {
		t.Fatalf("config file missing keys: %s", b)
	}
}

func TestConfigStore_SaveRoundtrip(t *testing.T) {
	dir := t.TempDir()
	s := NewConfigStore(dir)

	in := GlobalConfig{
		APIBaseURL: "https://api.example.com/",
		LocalPort:  9100,
		Notify: NotifyConfig{
			ServiceID:  " service_a ",
			TemplateID: "template_b",
			PublicKey:  "pk_c",
		},
	}
	if err := s.Save(in); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.LoadOrInit()
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.APIBaseURL != "https://api.example.com" {
		t.Fatalf("trailing slash should be trimmed, got %s", got.APIBaseURL)
	}
	if got.LocalPort != 9100 {
		t.Fatalf("unexpected port: %d", got.LocalPort)
	}
	if got.Notify.ServiceID != "service_a" {
		t.Fatalf("service id should be trimmed, got %q", got.Notify.ServiceID)
	}
}

func TestDefaultConfigDir_Override(t *testing.T) {
	t.Setenv("DEVEVENT_CONFIG_DIR", "/tmp/custom-devevent")
	dir, err := DefaultConfigDir()
	if err != nil {
		t.Fatalf("default config dir: %v", err)
	}
	if dir != "/tmp/custom-devevent" {
		t.Fatalf("override not honored: %s", dir)
	}
}
