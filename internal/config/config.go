package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"korean_news_vn/internal/catalog"

	"github.com/joho/godotenv"
)

// APIKeyEnv names the environment variable holding the translation API key.
const APIKeyEnv = "TRANSLATOR_API_KEY"

// Translator настраивает внешний сервис перевода. Пустые Endpoint и Model
// означают значения по умолчанию выбранного провайдера.
type Translator struct {
	Provider       string `json:"provider"`
	Endpoint       string `json:"endpoint"`
	Model          string `json:"model"`
	MaxTokens      int    `json:"max_tokens"`
	TimeoutSeconds int    `json:"timeout_seconds"`
	APIKey         string `json:"-"`
}

// Config хранит настройки виджета.
type Config struct {
	ListenAddr          string     `json:"listen_addr"`
	RefreshDelayMS      int        `json:"refresh_delay_ms"`
	AutoRefreshInterval int        `json:"auto_refresh_interval"`
	AutoRefresh         bool       `json:"auto_refresh"`
	DefaultSource       string     `json:"default_source"`
	Translator          Translator `json:"translator"`
}

// Default возвращает стандартные значения виджета.
func Default() *Config {
	return &Config{
		ListenAddr:          ":8080",
		RefreshDelayMS:      800,
		AutoRefreshInterval: 60,
		AutoRefresh:         true,
		DefaultSource:       "all",
		Translator: Translator{
			Provider:       "anthropic",
			MaxTokens:      1000,
			TimeoutSeconds: 30,
		},
	}
}

// Validate проверяет интервалы, источник по умолчанию и настройки перевода.
func (cfg *Config) Validate() error {
	if cfg.AutoRefreshInterval < 5 {
		return errors.New("auto refresh interval must be ≥ 5 seconds")
	}
	if cfg.RefreshDelayMS < 0 {
		return errors.New("refresh delay must not be negative")
	}
	if !catalog.Valid(cfg.DefaultSource) {
		return fmt.Errorf("unknown default source: %s", cfg.DefaultSource)
	}
	switch cfg.Translator.Provider {
	case "anthropic", "openai":
	default:
		return fmt.Errorf("unknown translator provider: %s", cfg.Translator.Provider)
	}
	if cfg.Translator.Endpoint != "" {
		if _, err := url.ParseRequestURI(cfg.Translator.Endpoint); err != nil {
			return fmt.Errorf("invalid translator endpoint: %s", cfg.Translator.Endpoint)
		}
	}
	if cfg.Translator.MaxTokens < 0 {
		return errors.New("max tokens must not be negative")
	}
	if cfg.Translator.TimeoutSeconds < 0 {
		return errors.New("translator timeout must not be negative")
	}
	return nil
}

func (cfg *Config) RefreshDelay() time.Duration {
	return time.Duration(cfg.RefreshDelayMS) * time.Millisecond
}

func (cfg *Config) Interval() time.Duration {
	return time.Duration(cfg.AutoRefreshInterval) * time.Second
}

func (t Translator) Timeout() time.Duration {
	return time.Duration(t.TimeoutSeconds) * time.Second
}

// LoadConfig читает JSON-файл по пути path поверх значений Default.
func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	cfg := Default()
	if err := json.NewDecoder(file).Decode(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load загружает .env (если есть), затем файл path. Отсутствующий файл
// конфигурации не ошибка: используются значения по умолчанию.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg, err := LoadConfig(path)
	if errors.Is(err, os.ErrNotExist) {
		cfg, err = Default(), nil
	}
	if err != nil {
		return nil, err
	}

	cfg.Translator.APIKey = os.Getenv(APIKeyEnv)
	return cfg, cfg.Validate()
}
