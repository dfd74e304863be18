package config

import (
	"os"
	"path/filepath"
	"sync"
	"time"
)

type Config struct {
	APIBaseURL       string
	ListenLogLevel   string
	LocalHost        string
	LocalPort        int
	DataDir          string
	WebUIMode        string
	WebUIDevProxyURL string
	WebUIDistDir     string
	NotifyBaseURL    string
	NotifyServiceID  string
	NotifyTemplateID string
	NotifyPublicKey  string
}

var (
	cacheTTL   = 10 * time.Second
	nowFunc    = time.Now
	cacheMu    sync.RWMutex
	cachedCfg  Config
	cachedAt   time.Time
	cacheValid bool
)

func LoadConfig() Config {
	cfg := loadFromEnv()
	cacheMu.Lock()
	cachedCfg = cfg
	cachedAt = nowFunc()
	cacheValid = true
	cacheMu.Unlock()
	return cfg
}

func GetConfig() *Config {
	now := nowFunc()
	cacheMu.RLock()
	valid := cacheValid && now.Sub(cachedAt) < cacheTTL
	if valid {
		out := cachedCfg
		cacheMu.RUnlock()
		return &out
	}
	cacheMu.RUnlock()

	cfg := loadFromEnv()
	cacheMu.Lock()
	cachedCfg = cfg
	cachedAt = now
	cacheValid = true
	cacheMu.Unlock()

	out := cfg
	return &out
}

func loadFromEnv() Config {
	base := os.Getenv("DEVEVENT_API_BASE_URL")
	if base == "" {
		base = "http://localhost:8000"
	}

	level := os.Getenv("DEVEVENT_LOG_LEVEL")
	if level == "" {
		level = "info"
	}

	localHost := os.Getenv("DEVEVENT_LOCAL_HOST")
	if localHost == "" {
		localHost = "127.0.0.1"
	}
	localPort := 4820
	if p := os.Getenv("DEVEVENT_LOCAL_PORT"); p != "" {
		// Keep parsing strict but fallback to default on malformed values.
		if n := atoiOrDefault(p, 4820); n > 0 {
			localPort = n
		}
	}

	dataDir := os.Getenv("DEVEVENT_DATA_DIR")
	if dataDir == "" {
		dataDir = defaultDataDir()
	}

	webUIMode := os.Getenv("DEVEVENT_WEBUI_MODE")
	if webUIMode == "" {
		webUIMode = "dev"
	}
	webUIDevProxyURL := os.Getenv("DEVEVENT_WEBUI_DEV_PROXY_URL")
	if webUIDevProxyURL == "" {
		webUIDevProxyURL = "http://127.0.0.1:5173"
	}
	webUIDistDir := os.Getenv("DEVEVENT_WEBUI_DIST_DIR")
	if webUIDistDir == "" {
		webUIDistDir = defaultWebUIDistDir()
	}

	notifyBase := os.Getenv("DEVEVENT_NOTIFY_BASE_URL")
	if notifyBase == "" {
		notifyBase = "https://api.emailjs.com"
	}

	return Config{
		APIBaseURL:       base,
		ListenLogLevel:   level,
		LocalHost:        localHost,
		LocalPort:        localPort,
		DataDir:          dataDir,
		WebUIMode:        webUIMode,
		WebUIDevProxyURL: webUIDevProxyURL,
		WebUIDistDir:     webUIDistDir,
		NotifyBaseURL:    notifyBase,
		NotifyServiceID:  os.Getenv("DEVEVENT_NOTIFY_SERVICE_ID"),
		NotifyTemplateID: os.Getenv("DEVEVENT_NOTIFY_TEMPLATE_ID"),
		NotifyPublicKey:  os.Getenv("DEVEVENT_NOTIFY_PUBLIC_KEY"),
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Clean(".devevent")
	}
	return filepath.Join(home, ".local", "share", "devevent")
}

func defaultWebUIDistDir() string {
	execPath, err := os.Executable()
	if err != nil || execPath == "" {
		return filepath.Clean("../webui/dist")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(execPath), "..", "webui", "dist"))
}

func atoiOrDefault(v string, fallback int) int {
	n := 0
	for i := 0; i < len(v); i++ {
		if v[i] < '0' || v[i] > '9' {
			return fallback
		}
		n = n*10 + int(v[i]-'0')
	}
	if n == 0 {
		return fallback
	}
	return n
}
