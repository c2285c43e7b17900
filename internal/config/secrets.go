package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"
)

// APIKeyName はシークレットファイルと環境変数の両方で使うキー名です。
const APIKeyName = "GEMINI_API_KEY"

// ErrAPIKeyMissing はどの設定ソースにも API キーが無いことを表します。セッション全体で致命的です。
var ErrAPIKeyMissing = errors.New("Gemini API key not found. Please add it to the secrets file or the environment as " + APIKeyName)

// Credentials は解決済みの API キーを保持します。値として渡し、変更しません。
type Credentials struct {
	apiKey string
}

// NewCredentials は与えられたキーで Credentials を作成します。
func NewCredentials(apiKey string) Credentials {
	return Credentials{apiKey: strings.TrimSpace(apiKey)}
}

// APIKey は解決済みのキーを返します。
func (c Credentials) APIKey() string { return c.apiKey }

// Empty はキーを保持していないかを返します。
func (c Credentials) Empty() bool { return c.apiKey == "" }

type secretStore struct {
	GeminiAPIKey string `toml:"GEMINI_API_KEY"`
}

// ResolveAPIKey は API キーを次の順で探します。
//  1. secretsFile (TOML のシークレットファイル)
//  2. プロセスの環境変数 GEMINI_API_KEY
//  3. envFile (.env 形式。実際の環境変数が優先)
//
// 最初に見つかった空でない値を返し、どこにも無ければ ErrAPIKeyMissing を返します。
func ResolveAPIKey(secretsFile, envFile string) (Credentials, error) {
	key, err := readSecretFile(secretsFile)
	if err != nil {
		return Credentials{}, err
	}
	if key != "" {
		return NewCredentials(key), nil
	}

	if key := strings.TrimSpace(os.Getenv(APIKeyName)); key != "" {
		return NewCredentials(key), nil
	}

	key, err = readEnvFile(envFile)
	if err != nil {
		return Credentials{}, err
	}
	if key != "" {
		return NewCredentials(key), nil
	}
	return Credentials{}, ErrAPIKeyMissing
}

func readSecretFile(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	var store secretStore
	if _, err := toml.DecodeFile(path, &store); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read secrets file %s: %w", path, err)
	}
	return strings.TrimSpace(store.GeminiAPIKey), nil
}

func readEnvFile(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("failed to stat env file %s: %w", path, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		return "", fmt.Errorf("failed to read env file %s: %w", path, err)
	}
	return strings.TrimSpace(v.GetString(APIKeyName)), nil
}
