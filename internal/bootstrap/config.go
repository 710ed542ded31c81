package bootstrap

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

// DefaultSecretKey 仅用于本地开发，生产环境必须通过 SECRET_KEY 覆盖
const DefaultSecretKey = "dev-secret-key-change-in-production"

// Config 保存从环境变量 (以及可选的 .env 文件) 加载的配置
type Config struct {
	DatabaseURL     string        `envconfig:"DATABASE_URL" default:"sqlite://voting.db"`
	SecretKey       string        `envconfig:"SECRET_KEY" default:"dev-secret-key-change-in-production"`
	ServerPort      string        `envconfig:"SERVER_PORT" default:"5000"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	AppEnv          string        `envconfig:"APP_ENV" default:"development"` // development / production
	RedisAddr       string        `envconfig:"REDIS_ADDR"`                    // 为空时使用内存会话存储，并禁用后台任务
	RedisPassword   string        `envconfig:"REDIS_PASSWORD"`
	RedisDB         int           `envconfig:"REDIS_DB" default:"0"`
	KeyPrefix       string        `envconfig:"REDIS_KEY_PREFIX" default:"vote:"`
	SessionTTL      time.Duration `envconfig:"SESSION_TTL" default:"24h"`
	RateLimitMax    int           `envconfig:"RATE_LIMIT_MAX" default:"100"`
	RateLimitWindow time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1s"`
	SeedOnStart     bool          `envconfig:"SEED_ON_START" default:"true"`
	AuditSchedule   string        `envconfig:"AUDIT_SCHEDULE" default:"@every 5m"`
}

// Production 报告是否运行在生产环境
func (c *Config) Production() bool { return c.AppEnv == "production" }

// LoadConfig 加载 .env (如果存在) 后解析环境变量
func LoadConfig() (*Config, error) {
	_ = godotenv.Load() // 忽略错误，允许只使用环境变量

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.SecretKey == "" {
		return fmt.Errorf("environment variable SECRET_KEY must not be empty")
	}
	if c.Production() && c.SecretKey == DefaultSecretKey {
		return fmt.Errorf("SECRET_KEY must be set in production")
	}
	if c.RateLimitMax <= 0 || c.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_MAX and RATE_LIMIT_WINDOW must be positive")
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		logrus.Warnf("Invalid LOG_LEVEL '%s', using default 'info'", c.LogLevel)
		c.LogLevel = "info"
	}
	return nil
}

// NewLogger 按配置创建 logger：生产环境 JSON，其余环境彩色文本
func NewLogger(cfg *Config) *logrus.Logger {
	log := logrus.New()
	if cfg.Production() {
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, _ := logrus.ParseLevel(cfg.LogLevel) // 已在 validate 中校验
	log.SetLevel(level)

	// 服务层使用包级 logrus，保持一致的格式与级别
	logrus.SetFormatter(log.Formatter)
	logrus.SetLevel(level)
	return log
}
