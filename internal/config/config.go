package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/Makepad-fr/tada/internal/api"
	"github.com/Makepad-fr/tada/internal/auth"
	"github.com/Makepad-fr/tada/internal/ui"
)

const (
	DefaultTheme          = "classic"
	DefaultLogLevel       = "warn"
	DefaultTimeoutSeconds = 10
	userConfigName        = "config.toml"
)

// ErrNoUserID means no owner is configured; the client has nothing to show.
var ErrNoUserID = errors.New("user id is not configured: set TADA_USER_ID, pass -user, or add user_id to ~/.tada/config.toml")

type Config struct {
	APIURL         string `toml:"api_url"`
	UserID         int    `toml:"user_id"`
	Theme          string `toml:"theme"`
	LogFile        string `toml:"log_file"`
	LogLevel       string `toml:"log_level"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	Group          bool   `toml:"group"`

	// Set from flags only.
	Plain bool `toml:"-"`
}

// Timeout is the per-request HTTP timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// FileBackend reports whether APIURL selects the local JSON file store,
// and returns its path.
func (c *Config) FileBackend() (string, bool) {
	path, ok := strings.CutPrefix(c.APIURL, "file:")
	if !ok {
		return "", false
	}
	return expandPath(strings.TrimPrefix(path, "//")), true
}

// Validate checks what every subcommand needs.
func (c *Config) Validate() error {
	if c.UserID <= 0 {
		return ErrNoUserID
	}
	return nil
}

func setDefaults(cfg *Config) {
	cfg.APIURL = api.DefaultBaseURL
	cfg.Theme = DefaultTheme
	cfg.LogLevel = DefaultLogLevel
	cfg.TimeoutSeconds = DefaultTimeoutSeconds
}

// Load applies every source in priority order. fs receives the root
// flags and is parsed with args; the remaining arguments are left in fs.Args().
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := &Config{}
	setDefaults(cfg)

	if p := findUserConfigFile(); p != "" {
		if err := loadConfigFile(cfg, p); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", p, err)
		}
	}
	if p := findProjectConfigFile(); p != "" {
		if err := loadConfigFile(cfg, p); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", p, err)
		}
	}

	if err := loadFromEnv(cfg); err != nil {
		return nil, err
	}

	if fs != nil {
		registerFlags(cfg, fs)
		if err := fs.Parse(args); err != nil {
			return nil, fmt.Errorf("parsing flags: %w", err)
		}
	}

	if !slices.Contains(ui.Themes, strings.ToLower(cfg.Theme)) {
		return nil, fmt.Errorf("unknown theme %q: want one of %s", cfg.Theme, strings.Join(ui.Themes, ", "))
	}
	cfg.LogFile = expandPath(cfg.LogFile)
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = DefaultTimeoutSeconds
	}
	return cfg, nil
}

func loadConfigFile(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown keys: %v", undecoded)
	}
	return nil
}

func loadFromEnv(cfg *Config) error {
	if v := os.Getenv("TADA_API_URL"); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv("TADA_USER_ID"); v != "" {
		id, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("TADA_USER_ID: not a number: %q", v)
		}
		cfg.UserID = id
	}
	if v := os.Getenv("TADA_THEME"); v != "" {
		cfg.Theme = v
	}
	if v := os.Getenv("TADA_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv("TADA_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("TADA_TIMEOUT"); v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("TADA_TIMEOUT: not a number of seconds: %q", v)
		}
		cfg.TimeoutSeconds = n
	}
	return nil
}

// registerFlags binds the root flags with the current values as defaults,
// so an unset flag keeps what the files and environment produced.
func registerFlags(cfg *Config, fs *flag.FlagSet) {
	fs.StringVar(&cfg.APIURL, "api", cfg.APIURL, "todo API base URL (or file:<path> for a local JSON file)")
	fs.IntVar(&cfg.UserID, "user", cfg.UserID, "owner user id")
	fs.StringVar(&cfg.Theme, "theme", cfg.Theme, "color theme: classic, neon or mono")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "write logs to this file")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	fs.IntVar(&cfg.TimeoutSeconds, "timeout", cfg.TimeoutSeconds, "per-request timeout in seconds")
	fs.BoolVar(&cfg.Group, "group", cfg.Group, "group plain output by pending/done")
	fs.BoolVar(&cfg.Plain, "plain", cfg.Plain, "never start the interactive UI")
}

func findUserConfigFile() string {
	dir, err := auth.Dir()
	if err != nil {
		return ""
	}
	return existing(filepath.Join(dir, userConfigName))
}

func findProjectConfigFile() string {
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	for _, name := range []string{"tada.toml", ".tada.toml"} {
		if p := existing(filepath.Join(wd, name)); p != "" {
			return p
		}
	}
	return ""
}

func existing(path string) string {
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		return path
	}
	return ""
}

// expandPath expands ~ and environment variables.
func expandPath(p string) string {
	if p == "" {
		return p
	}
	p = os.ExpandEnv(p)
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return p
		}
		return filepath.Join(home, p[1:])
	}
	return p
}
