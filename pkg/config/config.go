package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	NATS      NATSConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Log       LogConfig
	AI        AIConfig
	Scheduler SchedulerConfig
	CORS      CORSConfig
}

type AppConfig struct {
	Name string
	Port string
	Env  string
}

type DatabaseConfig struct {
	Driver   string // postgres, sqlite
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	Path     string // sqlite file path
	LogLevel string
}

// RedisConfig สำหรับ analysis cache และ dedupe ของ deadline notifications
type RedisConfig struct {
	URL         string // redis://localhost:6379
	Password    string
	DB          int
	AnalysisTTL time.Duration
}

// NATSConfig configuration สำหรับ task events
type NATSConfig struct {
	URL     string // nats://localhost:4222
	Enabled bool
}

type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

type LogConfig struct {
	Level      string // debug, info, warn, error
	Format     string // json, text
	Output     string // stdout, file, both
	FilePath   string // logs/app.log
	MaxSize    int    // MB
	MaxBackups int    // จำนวน backup files
	MaxAge     int    // วัน
	Compress   bool   // บีบอัด backup
}

// ProviderSpec หนึ่งรายการใน cascade เช่น gemini:gemini-2.5-flash
type ProviderSpec struct {
	Kind  string
	Model string
}

func (p ProviderSpec) String() string {
	return p.Kind + ":" + p.Model
}

type AIConfig struct {
	GeminiAPIKey    string
	OpenAIAPIKey    string
	OpenAIBaseURL   string
	Providers       []ProviderSpec // ลำดับที่ลอง
	Timeout         time.Duration  // ต่อ provider หนึ่งตัว
	Temperature     float32
	MaxOutputTokens int32
}

type SchedulerConfig struct {
	DeadlineCheckCron string        // cron expression หรือ "@every 5m"
	DeadlineWindow    time.Duration // แจ้งเตือน task ที่ deadline อยู่ในช่วงนี้
}

type CORSConfig struct {
	AllowOrigins string
}

const DefaultAIProviders = "gemini:gemini-2.5-flash,gemini:gemini-2.0-flash,gemini:gemini-flash-latest"

func LoadConfig() (*Config, error) {
	// ไม่ error ถ้าไม่มี .env file (ใช้ environment variables แทน)
	_ = godotenv.Load()

	logMaxSize, _ := strconv.Atoi(getEnv("LOG_MAX_SIZE", "100"))
	logMaxBackups, _ := strconv.Atoi(getEnv("LOG_MAX_BACKUPS", "5"))
	logMaxAge, _ := strconv.Atoi(getEnv("LOG_MAX_AGE", "30"))
	logCompress := getEnv("LOG_COMPRESS", "true") == "true"

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))

	analysisTTL, err := parseDuration("ANALYSIS_CACHE_TTL", "10m")
	if err != nil {
		return nil, err
	}
	jwtTTL, err := parseDuration("JWT_TTL", "168h")
	if err != nil {
		return nil, err
	}
	aiTimeout, err := parseDuration("AI_PROVIDER_TIMEOUT", "20s")
	if err != nil {
		return nil, err
	}
	deadlineWindow, err := parseDuration("DEADLINE_WINDOW", "1h")
	if err != nil {
		return nil, err
	}

	temperature, err := strconv.ParseFloat(getEnv("AI_TEMPERATURE", "0.4"), 32)
	if err != nil {
		return nil, fmt.Errorf("invalid AI_TEMPERATURE: %w", err)
	}
	maxTokens, err := strconv.ParseInt(getEnv("AI_MAX_OUTPUT_TOKENS", "2048"), 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid AI_MAX_OUTPUT_TOKENS: %w", err)
	}

	providers, err := ParseProviderSpecs(getEnv("AI_PROVIDERS", DefaultAIProviders))
	if err != nil {
		return nil, err
	}

	config := &Config{
		App: AppConfig{
			Name: getEnv("APP_NAME", "TodoAI"),
			Port: getEnv("APP_PORT", "5000"),
			Env:  getEnv("APP_ENV", "development"),
		},
		Database: DatabaseConfig{
			Driver:   getEnv("DB_DRIVER", "postgres"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "todoai"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
			Path:     getEnv("DB_PATH", "todoai.db"),
			LogLevel: getEnv("DB_LOG_LEVEL", "warn"),
		},
		NATS: NATSConfig{
			URL:     getEnv("NATS_URL", "nats://localhost:4222"),
			Enabled: getEnv("NATS_ENABLED", "true") == "true",
		},
		Redis: RedisConfig{
			URL:         getEnv("REDIS_URL", "redis://localhost:6379"),
			Password:    getEnv("REDIS_PASSWORD", ""),
			DB:          redisDB,
			AnalysisTTL: analysisTTL,
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "your-secret-key"),
			TTL:    jwtTTL,
		},
		Log: LogConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Format:     getEnv("LOG_FORMAT", "json"),
			Output:     getEnv("LOG_OUTPUT", "both"),
			FilePath:   getEnv("LOG_FILE", "logs/app.log"),
			MaxSize:    logMaxSize,
			MaxBackups: logMaxBackups,
			MaxAge:     logMaxAge,
			Compress:   logCompress,
		},
		AI: AIConfig{
			GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
			OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
			OpenAIBaseURL:   getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Providers:       providers,
			Timeout:         aiTimeout,
			Temperature:     float32(temperature),
			MaxOutputTokens: int32(maxTokens),
		},
		Scheduler: SchedulerConfig{
			DeadlineCheckCron: getEnv("DEADLINE_CHECK_CRON", "@every 5m"),
			DeadlineWindow:    deadlineWindow,
		},
		CORS: CORSConfig{
			AllowOrigins: getEnv("CORS_ALLOW_ORIGINS", "*"),
		},
	}

	return config, nil
}

// ParseProviderSpecs แปลง "gemini:gemini-2.5-flash,openai:gpt-4o-mini" เป็น slice ตามลำดับ
// ถ้าไม่ระบุ kind (เช่น "gemini-2.0-flash") ถือว่าเป็น gemini
func ParseProviderSpecs(s string) ([]ProviderSpec, error) {
	var specs []ProviderSpec
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		kind, model, found := strings.Cut(part, ":")
		if !found {
			kind, model = "gemini", part
		}
		kind = strings.ToLower(strings.TrimSpace(kind))
		model = strings.TrimSpace(model)

		switch kind {
		case "gemini", "openai":
		default:
			return nil, fmt.Errorf("invalid AI_PROVIDERS entry %q: unknown provider kind %q", part, kind)
		}
		if model == "" {
			return nil, fmt.Errorf("invalid AI_PROVIDERS entry %q: missing model name", part)
		}
		specs = append(specs, ProviderSpec{Kind: kind, Model: model})
	}
	return specs, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func parseDuration(key, defaultValue string) (time.Duration, error) {
	d, err := time.ParseDuration(getEnv(key, defaultValue))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

// IsDevelopment ตรวจสอบว่าเป็น development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// IsProduction ตรวจสอบว่าเป็น production mode
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
