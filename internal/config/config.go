package config

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"

	serrors "git.home.luguber.info/inful/mdsite/internal/errors"
)

// DefaultPath is the configuration file looked up when --config is not given.
const DefaultPath = "mdsite.yaml"

// Config represents the application configuration
type Config struct {
	ContentDir string      `yaml:"content_dir"`
	StaticDir  string      `yaml:"static_dir"`
	PublicDir  string      `yaml:"public_dir"`
	Template   string      `yaml:"template"`
	Build      BuildConfig `yaml:"build"`
	Serve      ServeConfig `yaml:"serve"`
	Log        LogConfig   `yaml:"log"`
}

// BuildConfig controls page generation.
type BuildConfig struct {
	Engine      string `yaml:"engine"`  // builtin | goldmark
	Workers     int    `yaml:"workers"` // 0 = NumCPU
	Clean       *bool  `yaml:"clean,omitempty"`
	Incremental bool   `yaml:"incremental"`
	StatePath   string `yaml:"state_path"`
	CheckLinks  bool   `yaml:"check_links"`
	SkipDrafts  *bool  `yaml:"skip_drafts,omitempty"`
}

// ServeConfig controls the preview server.
type ServeConfig struct {
	Port            int           `yaml:"port"`
	Metrics         bool          `yaml:"metrics"`
	RebuildInterval time.Duration `yaml:"rebuild_interval"`
}

// LogConfig controls slog output.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// CleanOutput reports whether the public directory is reset before a build.
// Incremental builds never clean, otherwise every page would be rewritten.
func (b BuildConfig) CleanOutput() bool {
	if b.Incremental {
		return false
	}
	return b.Clean == nil || *b.Clean
}

// ShouldSkipDrafts reports whether pages marked draft are left out.
func (b BuildConfig) ShouldSkipDrafts() bool {
	return b.SkipDrafts == nil || *b.SkipDrafts
}

// WorkerCount resolves the configured worker count.
func (b BuildConfig) WorkerCount() int {
	if b.Workers > 0 {
		return b.Workers
	}
	return runtime.NumCPU()
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from the specified file
func Load(configPath string) (*Config, error) {
	// .env is optional; a missing file is not an error.
	_ = loadEnvFile()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, serrors.ConfigNotFound(configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, serrors.ConfigInvalid(configPath, fmt.Errorf("read config file: %w", err))
	}

	cfg, err := Parse(data)
	if err != nil {
		// Validation errors keep their own category and exit code.
		if se, ok := serrors.As(err); ok {
			return nil, se.WithContext("config", configPath)
		}
		return nil, serrors.ConfigInvalid(configPath, err)
	}
	return cfg, nil
}

// Parse decodes YAML configuration, expanding ${VAR} references first.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.ContentDir == "" {
		c.ContentDir = "./content"
	}
	if c.StaticDir == "" {
		c.StaticDir = "./static"
	}
	if c.PublicDir == "" {
		c.PublicDir = "./public"
	}
	if c.Template == "" {
		c.Template = "./template.html"
	}
	if c.Build.Engine == "" {
		c.Build.Engine = EngineBuiltin
	}
	if c.Build.StatePath == "" {
		c.Build.StatePath = ".mdsite/state.db"
	}
	if c.Serve.Port == 0 {
		c.Serve.Port = 8080
	}
	c.Log.Level = string(NormalizeLogLevel(c.Log.Level))
	c.Log.Format = string(NormalizeLogFormat(c.Log.Format))
}

// Init creates a new configuration file with example content
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return serrors.ValidationFailed("config", fmt.Sprintf("configuration file already exists: %s (use --force to overwrite)", configPath))
	}

	clean := true
	skipDrafts := true
	example := Config{
		ContentDir: "./content",
		StaticDir:  "./static",
		PublicDir:  "./public",
		Template:   "./template.html",
		Build: BuildConfig{
			Engine:     EngineBuiltin,
			Clean:      &clean,
			StatePath:  ".mdsite/state.db",
			SkipDrafts: &skipDrafts,
		},
		Serve: ServeConfig{Port: 8080},
		Log:   LogConfig{Level: string(LogLevelInfo), Format: string(LogFormatText)},
	}

	data, err := yaml.Marshal(&example)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return serrors.FileSystemError("write", configPath, err)
	}
	return nil
}
