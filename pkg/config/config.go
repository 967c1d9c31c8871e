package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Переменные окружения, из которых собирается конфигурация без config.yaml.
const (
	EnvRakutenAppID  = "RAKUTEN_APP_ID"
	EnvOpenAIAPIKey  = "OPENAI_API_KEY"
	EnvOpenAIBaseURL = "OPENAI_BASE_URL"
)

// DefaultRequest — запрос пользователя, с которым агент стартует по умолчанию.
const DefaultRequest = "一人暮らしの狭い部屋にも置けるおしゃれなソファを探しています。"

// AppConfig — корневая структура конфигурации.
// Она зеркалит структуру config.yaml.
type AppConfig struct {
	Models  ModelsConfig  `yaml:"models"`
	Rakuten RakutenConfig `yaml:"rakuten"`
	Tracing TracingConfig `yaml:"tracing"`
	Agent   AgentConfig   `yaml:"agent"`
	App     AppSpecific   `yaml:"app"`
}

// RakutenConfig — настройки Rakuten Ichiba Item Search API.
type RakutenConfig struct {
	AppID      string  `yaml:"app_id"`      // Поддерживает ${VAR}; локально не валидируется
	BaseURL    string  `yaml:"base_url"`    // Полный URL endpoint поиска
	Timeout    string  `yaml:"timeout"`     // Timeout HTTP запроса (например, "30s")
	RateLimit  float64 `yaml:"rate_limit"`  // Запросов в секунду (пейсинг, не обработка 429)
	BurstLimit int     `yaml:"burst_limit"` // Burst для rate limiter

	// Окно выдачи: если товаров больше WindowThreshold, первые WindowOffset отбрасываются.
	WindowThreshold *int `yaml:"window_threshold"`
	WindowOffset    *int `yaml:"window_offset"`
}

// Значения окна выдачи по умолчанию.
const (
	DefaultWindowThreshold = 5
	DefaultWindowOffset    = 4
)

// GetDefaults возвращает дефолтные значения для незаполненных полей.
func (c *RakutenConfig) GetDefaults() RakutenConfig {
	result := *c

	if result.BaseURL == "" {
		result.BaseURL = "https://app.rakuten.co.jp/services/api/IchibaItem/Search/20220601"
	}
	if result.Timeout == "" {
		result.Timeout = "30s"
	}
	if result.RateLimit == 0 {
		result.RateLimit = 1 // Rakuten допускает ~1 запрос в секунду на applicationId
	}
	if result.BurstLimit == 0 {
		result.BurstLimit = 1
	}
	if result.WindowThreshold == nil {
		v := DefaultWindowThreshold
		result.WindowThreshold = &v
	}
	if result.WindowOffset == nil {
		v := DefaultWindowOffset
		result.WindowOffset = &v
	}

	return result
}

// ModelsConfig — настройки AI моделей.
type ModelsConfig struct {
	DefaultChat string              `yaml:"default_chat"` // Алиас модели для агента (например, "gpt-4o-mini")
	Definitions map[string]ModelDef `yaml:"definitions"`  // Словарь определений моделей
}

// ModelDef — параметры конкретной модели.
type ModelDef struct {
	Provider    string        `yaml:"provider"`   // "openai", "zai", "deepseek"
	ModelName   string        `yaml:"model_name"` // Реальное имя в API
	APIKey      string        `yaml:"api_key"`    // Поддерживает ${VAR}
	MaxTokens   int           `yaml:"max_tokens"`
	Temperature float64       `yaml:"temperature"`
	Timeout     time.Duration `yaml:"timeout"`
	BaseURL     string        `yaml:"base_url"`
}

// TracingConfig — настройки трейсинга вызовов модели и инструментов.
type TracingConfig struct {
	Enabled        bool     `yaml:"enabled"`
	ServiceName    string   `yaml:"service_name"`
	Tags           []string `yaml:"tags"`
	JaegerEndpoint string   `yaml:"jaeger_endpoint"` // Пусто — спаны не экспортируются
}

// AgentConfig — поведение конвейера агента.
type AgentConfig struct {
	Request        string `yaml:"request"`         // Запрос по умолчанию для команды recommend
	SearchDispatch string `yaml:"search_dispatch"` // "first" | "all"
	EntryDispatch  string `yaml:"entry_dispatch"`  // "first" | "all"
	ToolChoice     string `yaml:"tool_choice"`     // "auto" | "required"
}

// AppSpecific — общие настройки приложения.
type AppSpecific struct {
	Debug     bool   `yaml:"debug"`
	LogLevel  string `yaml:"log_level"`
	LogsDir   string `yaml:"logs_dir"`
	LogFormat string `yaml:"log_format"` // "console" | "json"
}

// Default возвращает конфигурацию, собранную только из переменных окружения.
//
// Модель и её параметры совпадают с исходным сценарием: gpt-4o-mini, temperature 0.
func Default() *AppConfig {
	cfg := &AppConfig{
		Models: ModelsConfig{
			DefaultChat: "gpt-4o-mini",
			Definitions: map[string]ModelDef{
				"gpt-4o-mini": {
					Provider:    "openai",
					ModelName:   "gpt-4o-mini",
					APIKey:      os.Getenv(EnvOpenAIAPIKey),
					BaseURL:     os.Getenv(EnvOpenAIBaseURL),
					Temperature: 0,
					Timeout:     60 * time.Second,
				},
			},
		},
		Rakuten: RakutenConfig{
			AppID: os.Getenv(EnvRakutenAppID),
		},
		Tracing: TracingConfig{
			Enabled:     true,
			ServiceName: "rakuten-agent",
			Tags:        []string{"function-calling"},
		},
	}
	cfg.applyDefaults()
	return cfg
}

// LoadDotEnv подгружает .env файлы в окружение процесса.
//
// Отсутствие файла не ошибка: переменные могут прийти из окружения.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// Load читает YAML файл, подставляет ENV переменные и возвращает готовую структуру.
func Load(path string) (*AppConfig, error) {
	// 1. Проверяем существование файла
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found at: %s", path)
	}

	// 2. Читаем файл целиком
	rawBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(rawBytes)
}

// LoadOrDefault читает config.yaml если он есть, иначе возвращает Default().
func LoadOrDefault(path string) (*AppConfig, error) {
	if path == "" {
		return Default(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

// Parse разбирает содержимое config.yaml.
func Parse(raw []byte) (*AppConfig, error) {
	// os.ExpandEnv заменяет ${VAR} или $VAR на значение из системы.
	contentWithEnv := os.ExpandEnv(string(raw))

	var cfg AppConfig
	if err := yaml.Unmarshal([]byte(contentWithEnv), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func (c *AppConfig) applyDefaults() {
	c.Rakuten = c.Rakuten.GetDefaults()

	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = "rakuten-agent"
	}
	if len(c.Tracing.Tags) == 0 {
		c.Tracing.Tags = []string{"function-calling"}
	}
	if c.Agent.Request == "" {
		c.Agent.Request = DefaultRequest
	}
	if c.Agent.SearchDispatch == "" {
		c.Agent.SearchDispatch = "first"
	}
	if c.Agent.EntryDispatch == "" {
		c.Agent.EntryDispatch = "all"
	}
	if c.Agent.ToolChoice == "" {
		c.Agent.ToolChoice = "auto"
	}
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.App.LogFormat == "" {
		c.App.LogFormat = "console"
	}
}

// validate проверяет обязательные поля.
//
// rakuten.app_id намеренно не проверяется: отсутствие ключа проявится
// как ошибка авторизации от API.
func (c *AppConfig) validate() error {
	if c.Models.DefaultChat == "" {
		return fmt.Errorf("models.default_chat is required")
	}
	if _, ok := c.Models.Definitions[c.Models.DefaultChat]; !ok {
		return fmt.Errorf("default_chat model '%s' is not defined in definitions", c.Models.DefaultChat)
	}
	for name, v := range map[string]string{
		"agent.search_dispatch": c.Agent.SearchDispatch,
		"agent.entry_dispatch":  c.Agent.EntryDispatch,
	} {
		if v != "first" && v != "all" {
			return fmt.Errorf("%s must be 'first' or 'all', got '%s'", name, v)
		}
	}
	if c.Agent.ToolChoice != "auto" && c.Agent.ToolChoice != "required" {
		return fmt.Errorf("agent.tool_choice must be 'auto' or 'required', got '%s'", c.Agent.ToolChoice)
	}
	if c.App.LogFormat != "console" && c.App.LogFormat != "json" {
		return fmt.Errorf("app.log_format must be 'console' or 'json', got '%s'", c.App.LogFormat)
	}
	if _, err := time.ParseDuration(c.Rakuten.Timeout); err != nil {
		return fmt.Errorf("invalid rakuten.timeout format: %w", err)
	}
	if *c.Rakuten.WindowOffset < 0 || *c.Rakuten.WindowThreshold < 0 {
		return fmt.Errorf("rakuten window values must not be negative")
	}
	return nil
}

// GetChatModel возвращает конфигурацию модели по имени или модели по умолчанию.
func (c *AppConfig) GetChatModel(name string) (ModelDef, bool) {
	if name == "" {
		name = c.Models.DefaultChat
	}
	m, ok := c.Models.Definitions[name]
	return m, ok
}
