package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"gardenreach/internal/domain"
)

const defaultConfigFileName = "config.yaml"

type rawConfig struct {
	SelectionOpenKey string        `mapstructure:"selectionOpenKey" yaml:"selectionOpenKey"`
	WateringCan      rawToolConfig `mapstructure:"wateringCan" yaml:"wateringCan"`
	Hoe              rawToolConfig `mapstructure:"hoe" yaml:"hoe"`
}

type rawToolConfig struct {
	Enabled           bool `mapstructure:"enabled" yaml:"enabled"`
	AlwaysHighest     bool `mapstructure:"alwaysHighest" yaml:"alwaysHighest"`
	SelectTemporary   bool `mapstructure:"selectTemporary" yaml:"selectTemporary"`
	TimerStart        int  `mapstructure:"timerStart" yaml:"timerStart"`
	TimerStartSeconds *int `mapstructure:"timerStartSeconds" yaml:"timerStartSeconds,omitempty"`
}

func newConfigViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("selectionOpenKey", domain.DefaultSelectionOpenKey)
	for _, kind := range domain.ToolKinds() {
		prefix := string(kind) + "."
		v.SetDefault(prefix+"enabled", domain.DefaultToolEnabled)
		v.SetDefault(prefix+"alwaysHighest", domain.DefaultAlwaysHighest)
		v.SetDefault(prefix+"selectTemporary", domain.DefaultSelectTemporary)
		v.SetDefault(prefix+"timerStart", domain.DefaultTimerStart)
	}
}

// Loader reads the settings file.
type Loader struct {
	logger *zap.Logger
}

func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		return &Loader{logger: zap.NewNop()}
	}
	return &Loader{logger: logger.Named("config")}
}

// Load reads, expands, decodes and validates the settings at path.
func (l *Loader) Load(ctx context.Context, path string) (domain.Config, error) {
	if strings.TrimSpace(path) == "" {
		return domain.Config{}, errors.New("config path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return domain.Config{}, err
	}
	return l.Parse(data, path)
}

// LoadOrDefault behaves like Load but returns defaults when path does not exist.
func (l *Loader) LoadOrDefault(ctx context.Context, path string) (domain.Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		l.logger.Info("config file not found; using defaults", zap.String("path", path))
		return domain.DefaultConfig(), nil
	}
	return l.Load(ctx, path)
}

// Parse decodes settings from raw YAML; source only labels log lines.
func (l *Loader) Parse(data []byte, source string) (domain.Config, error) {
	expanded, missing, err := expandEnv(data)
	if err != nil {
		return domain.Config{}, err
	}
	if len(missing) > 0 {
		l.logger.Warn("missing environment variables in config", zap.String("path", source), zap.Strings("missing", missing))
	}

	v := newConfigViper()
	if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
		return domain.Config{}, fmt.Errorf("parse config: %w", err)
	}
	var raw rawConfig
	if err := v.Unmarshal(&raw); err != nil {
		return domain.Config{}, fmt.Errorf("decode config: %w", err)
	}

	cfg, errs := normalize(raw)
	if len(errs) > 0 {
		return domain.Config{}, errors.New(strings.Join(errs, "; "))
	}
	return cfg, nil
}

func normalize(raw rawConfig) (domain.Config, []string) {
	var errs []string
	key := strings.TrimSpace(raw.SelectionOpenKey)
	if key == "" {
		errs = append(errs, "selectionOpenKey must not be empty")
	}
	cfg := domain.Config{
		SelectionOpenKey: key,
		Tools:            make(map[domain.ToolKind]domain.ToolConfig, 2),
	}
	sections := map[domain.ToolKind]rawToolConfig{
		domain.ToolWateringCan: raw.WateringCan,
		domain.ToolHoe:         raw.Hoe,
	}
	for _, kind := range domain.ToolKinds() {
		tool, toolErrs := normalizeTool(string(kind), sections[kind])
		errs = append(errs, toolErrs...)
		cfg.Tools[kind] = tool
	}
	return cfg, errs
}

func normalizeTool(name string, raw rawToolConfig) (domain.ToolConfig, []string) {
	var errs []string
	timerStart := raw.TimerStart
	if raw.TimerStartSeconds != nil {
		seconds := *raw.TimerStartSeconds
		if seconds < domain.MinTimerStartSeconds || seconds > domain.MaxTimerStartSeconds {
			errs = append(errs, fmt.Sprintf("%s.timerStartSeconds must be between %d and %d", name, domain.MinTimerStartSeconds, domain.MaxTimerStartSeconds))
		}
		timerStart = domain.TimerStartFromSeconds(seconds)
	}
	if timerStart < 0 {
		errs = append(errs, fmt.Sprintf("%s.timerStart must be >= 0", name))
	}
	return domain.ToolConfig{
		Enabled:         raw.Enabled,
		AlwaysHighest:   raw.AlwaysHighest,
		SelectTemporary: raw.SelectTemporary,
		TimerStart:      timerStart,
	}, errs
}

// Encode renders cfg as a settings file.
func Encode(cfg domain.Config) ([]byte, error) {
	raw := rawConfig{
		SelectionOpenKey: cfg.SelectionOpenKey,
		WateringCan:      encodeTool(cfg.Tool(domain.ToolWateringCan)),
		Hoe:              encodeTool(cfg.Tool(domain.ToolHoe)),
	}
	return yaml.Marshal(raw)
}

func encodeTool(tool domain.ToolConfig) rawToolConfig {
	return rawToolConfig{
		Enabled:         tool.Enabled,
		AlwaysHighest:   tool.AlwaysHighest,
		SelectTemporary: tool.SelectTemporary,
		TimerStart:      tool.TimerStart,
	}
}

// EnsureFile writes a default settings file when path does not exist yet.
func EnsureFile(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("config path is required")
	}
	info, err := os.Stat(path)
	if err == nil {
		if info.IsDir() {
			return errors.New("config path must be a file")
		}
		return nil
	}
	if !os.IsNotExist(err) {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	payload, err := Encode(domain.DefaultConfig())
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o644)
}

// ResolveDefaultPath returns the default settings location.
func ResolveDefaultPath() string {
	base := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME"))
	if base == "" {
		if dir, err := os.UserConfigDir(); err == nil && strings.TrimSpace(dir) != "" {
			base = dir
		}
	}
	if base == "" {
		base = "."
	}
	return filepath.Join(base, "gardenreach", defaultConfigFileName)
}
