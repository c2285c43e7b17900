package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/viper"
)

const (
	// DefaultConfigPath は --config 未指定時に読む設定ファイルです。
	DefaultConfigPath = "config.yml"
	// EnvPrefix が付いた環境変数は設定ファイルの値を上書きします (例: STUDYBUDDY_ADDR)。
	EnvPrefix = "STUDYBUDDY"

	defaultAddr        = ":8501"
	defaultModel       = "gemini-1.5-flash"
	defaultSecretsFile = "secrets.toml"
	defaultEnvFile     = ".env"
	defaultLogLevel    = "info"
)

// Config はアプリケーションの設定を保持します。起動時に一度だけ読み込み、以後は変更しません。
type Config struct {
	Addr           string   `mapstructure:"addr"`
	Model          string   `mapstructure:"model"`
	SecretsFile    string   `mapstructure:"secrets_file"`
	EnvFile        string   `mapstructure:"env_file"`
	LogLevel       string   `mapstructure:"log_level"`
	Dev            bool     `mapstructure:"dev"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Load は設定ファイルと環境変数から設定を読み込みます。
// path が空、またはファイルが存在しない場合はデフォルト値と環境変数のみを使います。
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetDefault("addr", defaultAddr)
	v.SetDefault("model", defaultModel)
	v.SetDefault("secrets_file", defaultSecretsFile)
	v.SetDefault("env_file", defaultEnvFile)
	v.SetDefault("log_level", defaultLogLevel)
	v.SetDefault("dev", false)
	v.SetDefault("allowed_origins", []string{})

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if path != "" {
		_, err := os.Stat(path)
		switch {
		case err == nil:
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
			}
		case !errors.Is(err, fs.ErrNotExist):
			return Config{}, fmt.Errorf("failed to stat config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Addr == "" {
		cfg.Addr = defaultAddr
	}
	return cfg, nil
}
