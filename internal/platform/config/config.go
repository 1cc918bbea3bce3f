package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultBaseURL        = "http://127.0.0.1:5000"
	DefaultParsePath      = "/api/parse_url_list"
	DefaultUploadPath     = "/api/upload_url_list"
	DefaultStartCrawlPath = "/api/start_crawl"
	DefaultTimeout        = 30 * time.Second
)

type Server struct {
	BaseURL        string        `yaml:"base_url"`
	ParsePath      string        `yaml:"parse_path"`
	UploadPath     string        `yaml:"upload_path"`
	StartCrawlPath string        `yaml:"start_crawl_path"`
	Timeout        time.Duration `yaml:"timeout"`
}

type Config struct {
	WorkDir   string `yaml:"-"`
	DataDir   string `yaml:"-"`
	StatePath string `yaml:"-"`
	DBPath    string `yaml:"-"`
	LogPath   string `yaml:"-"`
	Server    Server `yaml:"server"`
	LogLevel  string `yaml:"log_level"`
}

// New builds the configuration rooted at workDir. An optional
// <workDir>/.crawlprep/config.yaml overrides defaults, and the
// CRAWLPREP_SERVER_URL / CRAWLPREP_LOG_LEVEL environment variables win over both.
func New(workDir string) (Config, error) {
	if strings.TrimSpace(workDir) == "" {
		return Config{}, fmt.Errorf("work dir is required")
	}
	dataDir := filepath.Join(workDir, ".crawlprep")
	cfg := Config{
		WorkDir:   workDir,
		DataDir:   dataDir,
		StatePath: filepath.Join(dataDir, "state.json"),
		DBPath:    filepath.Join(dataDir, "crawlprep.db"),
		LogPath:   filepath.Join(dataDir, "crawlprep.log"),
		Server: Server{
			BaseURL:        DefaultBaseURL,
			ParsePath:      DefaultParsePath,
			UploadPath:     DefaultUploadPath,
			StartCrawlPath: DefaultStartCrawlPath,
			Timeout:        DefaultTimeout,
		},
		LogLevel: "info",
	}
	if err := cfg.loadFile(filepath.Join(dataDir, "config.yaml")); err != nil {
		return Config{}, err
	}
	if v := strings.TrimSpace(os.Getenv("CRAWLPREP_SERVER_URL")); v != "" {
		cfg.Server.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("CRAWLPREP_LOG_LEVEL")); v != "" {
		cfg.LogLevel = v
	}
	cfg.Server.BaseURL = strings.TrimRight(cfg.Server.BaseURL, "/")
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	var file Config
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	if file.Server.BaseURL != "" {
		c.Server.BaseURL = file.Server.BaseURL
	}
	if file.Server.ParsePath != "" {
		c.Server.ParsePath = file.Server.ParsePath
	}
	if file.Server.UploadPath != "" {
		c.Server.UploadPath = file.Server.UploadPath
	}
	if file.Server.StartCrawlPath != "" {
		c.Server.StartCrawlPath = file.Server.StartCrawlPath
	}
	if file.Server.Timeout > 0 {
		c.Server.Timeout = file.Server.Timeout
	}
	if file.LogLevel != "" {
		c.LogLevel = file.LogLevel
	}
	return nil
}

// Endpoint joins the configured base URL with one of the server paths.
func (c Config) Endpoint(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.Server.BaseURL + path
}
