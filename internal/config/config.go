// Package config loads runtime settings from defaults, an optional TOML file
// and YALLA_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	DefaultBaseURL     = "https://generativelanguage.googleapis.com"
	DefaultTextModel   = "gemini-3-flash-preview"
	DefaultTTSModel    = "gemini-2.5-flash-preview-tts"
	DefaultVoice       = "Kore"
	DefaultSampleRate  = 24000
	DefaultIconURL     = "https://cdn-icons-png.flaticon.com/512/2098/2098402.png"
	DefaultMaxFileSize = 20 << 20
)

// Duration decodes TOML strings such as "10s" or "25ms".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return fmt.Errorf("config: invalid duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

type Config struct {
	Storage   StorageConfig   `toml:"storage"`
	Reminders RemindersConfig `toml:"reminders"`
	AI        AIConfig        `toml:"ai"`
	Audio     AudioConfig     `toml:"audio"`
	Tools     ToolsConfig     `toml:"tools"`
	Install   InstallConfig   `toml:"install"`
	Assets    AssetsConfig    `toml:"assets"`
	UI        UIConfig        `toml:"ui"`
	Log       LogConfig       `toml:"log"`
}

type StorageConfig struct {
	Backend  string `toml:"backend"`
	Path     string `toml:"path"`
	RedisURL string `toml:"redis_url"`
	Prefix   string `toml:"prefix"`
}

type RemindersConfig struct {
	Interval             Duration `toml:"interval"`
	DesktopNotifications bool     `toml:"desktop_notifications"`
	Buffer               int      `toml:"buffer"`
}

type AIConfig struct {
	APIKey    string   `toml:"api_key"`
	BaseURL   string   `toml:"base_url"`
	TextModel string   `toml:"text_model"`
	TTSModel  string   `toml:"tts_model"`
	Voice     string   `toml:"voice"`
	Language  string   `toml:"language"`
	Timeout   Duration `toml:"timeout"`
}

type AudioConfig struct {
	SampleRate int    `toml:"sample_rate"`
	Player     string `toml:"player"`
}

type ToolsConfig struct {
	MaxFileBytes int64 `toml:"max_file_bytes"`
}

type InstallConfig struct {
	LauncherDir string `toml:"launcher_dir"`
}

type AssetsConfig struct {
	CacheDir string `toml:"cache_dir"`
	IconURL  string `toml:"icon_url"`
}

type UIConfig struct {
	DefaultCategory string   `toml:"default_category"`
	DefaultTime     string   `toml:"default_time"`
	RevealInterval  Duration `toml:"reveal_interval"`
}

type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

func Default() Config {
	data := dataDir()
	return Config{
		Storage: StorageConfig{
			Backend: "sqlite",
			Path:    filepath.Join(data, "yalla.db"),
			Prefix:  "yalla:",
		},
		Reminders: RemindersConfig{
			Interval:             Duration{10 * time.Second},
			DesktopNotifications: true,
			Buffer:               64,
		},
		AI: AIConfig{
			BaseURL:   DefaultBaseURL,
			TextModel: DefaultTextModel,
			TTSModel:  DefaultTTSModel,
			Voice:     DefaultVoice,
			Language:  "English",
		},
		Audio: AudioConfig{
			SampleRate: DefaultSampleRate,
		},
		Tools: ToolsConfig{
			MaxFileBytes: DefaultMaxFileSize,
		},
		Install: InstallConfig{
			LauncherDir: applicationsDir(),
		},
		Assets: AssetsConfig{
			CacheDir: filepath.Join(data, "assets"),
			IconURL:  DefaultIconURL,
		},
		UI: UIConfig{
			DefaultCategory: "General",
			DefaultTime:     "09:00",
			RevealInterval:  Duration{25 * time.Millisecond},
		},
		Log: LogConfig{
			Level: "info",
			File:  filepath.Join(data, "yalla.log"),
		},
	}
}

// Load applies the TOML file at path over the defaults. A missing file is not
// an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("stat config: %w", err)
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("decode config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch c.Storage.Backend {
	case "sqlite", "redis", "memory":
	default:
		return fmt.Errorf("config: unknown storage backend %q", c.Storage.Backend)
	}
	if c.Storage.Backend == "redis" && strings.TrimSpace(c.Storage.RedisURL) == "" {
		return errors.New("config: storage.redis_url is required for the redis backend")
	}
	if c.Reminders.Interval.Duration <= 0 {
		return errors.New("config: reminders.interval must be positive")
	}
	if c.Audio.SampleRate <= 0 {
		return errors.New("config: audio.sample_rate must be positive")
	}
	if c.AI.Timeout.Duration < 0 {
		return errors.New("config: ai.timeout must not be negative")
	}
	return nil
}

// DefaultPath is where the config file lives when -config is not given.
func DefaultPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "yalla", "config.toml")
	}
	return "yalla.toml"
}

func dataDir() string {
	if v := strings.TrimSpace(os.Getenv("XDG_DATA_HOME")); v != "" {
		return filepath.Join(v, "yalla")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "yalla")
	}
	return ".yalla"
}

func applicationsDir() string {
	if v := strings.TrimSpace(os.Getenv("XDG_DATA_HOME")); v != "" {
		return filepath.Join(v, "applications")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "applications")
	}
	return ""
}
