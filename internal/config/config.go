package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Движки и бэкенды, допустимые в конфигурации
const (
	OCREngineTesseract = "tesseract"
	OCREngineOllama    = "ollama"

	PDFEngineFitz   = "fitz"
	PDFEngineNative = "native"

	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
)

type Config struct {
	Server   ServerConfig
	Telegram TelegramConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Queue    QueueConfig
	OCR      OCRConfig
	Ollama   OllamaConfig
	PDF      PDFConfig
	Export   ExportConfig
	Session  SessionConfig
	Limits   LimitsConfig
	Storage  StorageConfig
	Log      LogConfig
}

type ServerConfig struct {
	Host            string        `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Port            int           `env:"SERVER_PORT" envDefault:"8080"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"30s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"2m"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type TelegramConfig struct {
	Token         string        `env:"TELEGRAM_TOKEN"`
	APIEndpoint   string        `env:"TELEGRAM_API_ENDPOINT" envDefault:"https://api.telegram.org/bot%s/%s"`
	WebhookSecret string        `env:"TELEGRAM_WEBHOOK_SECRET" envDefault:""`
	PollTimeout   int           `env:"TELEGRAM_POLL_TIMEOUT" envDefault:"60"`
	HTTPTimeout   time.Duration `env:"TELEGRAM_HTTP_TIMEOUT" envDefault:"90s"`
	Debug         bool          `env:"TELEGRAM_DEBUG" envDefault:"false"`
	// Сколько обновлений обрабатывается одновременно в режиме long polling
	Workers int `env:"TELEGRAM_WORKERS" envDefault:"8"`
}

type DatabaseConfig struct {
	// Журнал заданий выключен по умолчанию
	Enabled         bool          `env:"DB_ENABLED" envDefault:"false"`
	Host            string        `env:"DB_HOST" envDefault:"localhost"`
	Port            int           `env:"DB_PORT" envDefault:"5432"`
	User            string        `env:"DB_USER" envDefault:"doctext"`
	Password        string        `env:"DB_PASSWORD" envDefault:"secret"`
	Name            string        `env:"DB_NAME" envDefault:"doctext"`
	SSLMode         string        `env:"DB_SSLMODE" envDefault:"disable"`
	MaxConns        int           `env:"DB_MAX_CONNS" envDefault:"10"`
	MinConns        int           `env:"DB_MIN_CONNS" envDefault:"2"`
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

type RedisConfig struct {
	Host     string `env:"REDIS_HOST" envDefault:"localhost"`
	Port     int    `env:"REDIS_PORT" envDefault:"6379"`
	Password string `env:"REDIS_PASSWORD" envDefault:""`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type QueueConfig struct {
	// true: webhook кладёт обновления в очередь, обрабатывает cmd/worker
	Enabled     bool          `env:"QUEUE_ENABLED" envDefault:"false"`
	Name        string        `env:"QUEUE_NAME" envDefault:"updates"`
	Concurrency int           `env:"QUEUE_CONCURRENCY" envDefault:"4"`
	TaskTimeout time.Duration `env:"QUEUE_TASK_TIMEOUT" envDefault:"3m"`
}

type OCRConfig struct {
	Engine    string   `env:"OCR_ENGINE" envDefault:"tesseract"`
	Languages []string `env:"OCR_LANGUAGES" envSeparator:"+" envDefault:"rus+eng"`
}

type OllamaConfig struct {
	Host           string        `env:"OLLAMA_HOST" envDefault:"http://localhost:11434"`
	Model          string        `env:"OLLAMA_MODEL" envDefault:"qwen3-vl"`
	RequestTimeout time.Duration `env:"OLLAMA_REQUEST_TIMEOUT" envDefault:"5m"`
}

type PDFConfig struct {
	Engine string `env:"PDF_ENGINE" envDefault:"fitz"`
}

type ExportConfig struct {
	// UTF-8 TTF шрифт для кириллицы; без файла используется встроенный Helvetica
	FontPath    string  `env:"EXPORT_FONT_PATH" envDefault:"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf"`
	PageSize    string  `env:"EXPORT_PAGE_SIZE" envDefault:"Letter"`
	FontSize    float64 `env:"EXPORT_FONT_SIZE" envDefault:"11"`
	PDFCompress bool    `env:"EXPORT_PDF_COMPRESS" envDefault:"true"`
}

type SessionConfig struct {
	Backend          string        `env:"SESSION_BACKEND" envDefault:"memory"`
	TTL              time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	SweepInterval    time.Duration `env:"SESSION_SWEEP_INTERVAL" envDefault:"10m"`
	ClearAfterExport bool          `env:"SESSION_CLEAR_AFTER_EXPORT" envDefault:"false"`
}

type LimitsConfig struct {
	ExtractTimeout time.Duration `env:"EXTRACT_TIMEOUT" envDefault:"60s"`
	ExportTimeout  time.Duration `env:"EXPORT_TIMEOUT" envDefault:"30s"`
	// Bot API отдаёт файлы не больше 20 MB
	MaxFileSize int64 `env:"MAX_FILE_SIZE" envDefault:"20971520"`
}

type StorageConfig struct {
	// Пустое значение: системный временный каталог
	TempDir string `env:"TEMP_DIR" envDefault:""`
}

type LogConfig struct {
	Level string `env:"LOG_LEVEL" envDefault:"info"`
	// json или console
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

// Load загружает конфигурацию из переменных окружения
func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate проверяет согласованность настроек
func (c *Config) Validate() error {
	var errs []error

	if c.Telegram.Token == "" {
		errs = append(errs, errors.New("TELEGRAM_TOKEN is required"))
	}

	switch c.OCR.Engine {
	case OCREngineTesseract, OCREngineOllama:
	default:
		errs = append(errs, fmt.Errorf("unknown OCR_ENGINE %q", c.OCR.Engine))
	}
	if len(c.OCR.Languages) == 0 {
		errs = append(errs, errors.New("OCR_LANGUAGES cannot be empty"))
	}

	switch c.PDF.Engine {
	case PDFEngineFitz, PDFEngineNative:
	default:
		errs = append(errs, fmt.Errorf("unknown PDF_ENGINE %q", c.PDF.Engine))
	}

	switch c.Session.Backend {
	case SessionBackendMemory, SessionBackendRedis:
	default:
		errs = append(errs, fmt.Errorf("unknown SESSION_BACKEND %q", c.Session.Backend))
	}
	if c.Session.TTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}
	if c.Session.Backend == SessionBackendMemory && c.Session.SweepInterval <= 0 {
		errs = append(errs, errors.New("SESSION_SWEEP_INTERVAL must be positive"))
	}

	if c.Limits.ExtractTimeout <= 0 || c.Limits.ExportTimeout <= 0 {
		errs = append(errs, errors.New("EXTRACT_TIMEOUT and EXPORT_TIMEOUT must be positive"))
	}
	if c.Limits.MaxFileSize <= 0 {
		errs = append(errs, errors.New("MAX_FILE_SIZE must be positive"))
	}

	return errors.Join(errs...)
}
