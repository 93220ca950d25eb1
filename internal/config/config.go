package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// envPrefix is stripped from environment variables before they are merged:
// FLASHDECK_EXPORT_DIR overrides export_dir, and a double underscore descends
// into nested keys (FLASHDECK_SINGLE__OPTIONS -> single.options).
const envPrefix = "FLASHDECK_"

// Difficulty is one quiz preset: how many questions to pool and how many
// options to show per question. Options are labelled a-z, so 26 is the most
// a preset may ask for.
type Difficulty struct {
	Questions int `koanf:"questions" validate:"gt=0"`
	Options   int `koanf:"options" validate:"gte=1,lte=26"`
}

// Config carries every tunable of the application. It is built once in main
// and passed down explicitly; nothing reads it as ambient state.
type Config struct {
	QuestionsDir string `koanf:"questions_dir" validate:"required"`
	LogDir       string `koanf:"log_dir" validate:"required"`
	ExportDir    string `koanf:"export_dir" validate:"required"`
	HistoryDB    string `koanf:"history_db" validate:"required"`

	ClearScreen bool `koanf:"clear_screen"`
	Debug       bool `koanf:"debug"`

	// SyncRemote is an optional git URL holding bank files to mirror into
	// the question directory.
	SyncRemote string `koanf:"sync_remote"`
	// SyncCacheDir is where remote checkouts are kept between runs.
	SyncCacheDir string `koanf:"sync_cache_dir" validate:"required"`

	// Single and All are the default presets for playing one bank and all
	// banks; Difficulties are the named presets offered in the menu.
	Single       Difficulty            `koanf:"single"`
	All          Difficulty            `koanf:"all"`
	Difficulties map[string]Difficulty `koanf:"difficulties" validate:"dive"`

	// GroupKeywords cluster semantically related questions so distractors
	// come from the same topic. BoolKeywords mark true/false questions.
	// Both are substring-matched case-insensitively against question text.
	GroupKeywords []string `koanf:"group_keywords"`
	BoolKeywords  []string `koanf:"bool_keywords"`
	TrueToken     string   `koanf:"true_token" validate:"required"`
	FalseToken    string   `koanf:"false_token" validate:"required"`
}

// Default returns the built-in configuration, mirroring the values the
// application shipped with.
func Default() Config {
	return Config{
		QuestionsDir: "questions",
		LogDir:       "logs",
		ExportDir:    "exports",
		HistoryDB:    "flashdeck.db",
		SyncCacheDir: "repos",
		ClearScreen:  true,
		Single:       Difficulty{Questions: 20, Options: 4},
		All:          Difficulty{Questions: 15, Options: 8},
		Difficulties: map[string]Difficulty{
			"easy":     {Questions: 10, Options: 2},
			"medium":   {Questions: 20, Options: 4},
			"hard":     {Questions: 50, Options: 6},
			"hardcore": {Questions: 100, Options: 8},
		},
		GroupKeywords: []string{
			"là gì",
			"ở đâu", "kết nối đến đâu",
			"loại nào", "tầng nào", "thiết bị nào", "cổng nào", "lớp nào",
			"mô hình mạng nào", "thành phần nào", "cáp nào",
			"ở điểm nào", "thông tin nào", "hướng nào", "phạm vi nào", "yếu tố nào",
			"bao gồm gì", "vai trò gì", "gọi là gì", "làm gì", "chức năng chính là gì",
			"chức năng gì", "tác dụng gì", "ngăn gì", "điều gì", "trách nhiệm gì",
			"kết nối gì", "giúp ích gì", "nhiệm vụ gì",
			"điểm khác biệt", "lợi ích", "chia thành mấy", "tô-pô nào", "bao nhiêu",
		},
		BoolKeywords: []string{"đúng hay sai", "đúng/sai"},
		TrueToken:    "Đúng",
		FalseToken:   "Sai",
	}
}

// Load builds the effective configuration: defaults, then the optional YAML
// file at path, then FLASHDECK_* environment variables, then command-line
// flags. Any of path and flags may be empty/nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
			}
		}
	}

	err := k.Load(env.ProviderWithValue(envPrefix, ".", func(key, value string) (string, interface{}) {
		key = strings.TrimPrefix(key, envPrefix)
		key = strings.ReplaceAll(strings.ToLower(key), "__", ".")
		return key, value
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load environment config: %w", err)
	}

	if flags != nil {
		// Flag names use dashes (--questions-dir); config keys use
		// underscores.
		provider := posflag.ProviderWithValue(flags, ".", k, func(key, value string) (string, any) {
			return strings.ReplaceAll(key, "-", "_"), value
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, fmt.Errorf("failed to load flag config: %w", err)
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}
