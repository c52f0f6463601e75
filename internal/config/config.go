package config

import (
	"errors"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Server      struct {
		Port            string `env:"PORT" envDefault:"3000"`
		ReadTimeout     int    `env:"READ_TIMEOUT" envDefault:"10"`
		WriteTimeout    int    `env:"WRITE_TIMEOUT" envDefault:"15"`
		IdleTimeout     int    `env:"IDLE_TIMEOUT" envDefault:"60"`
		ShutdownTimeout int    `env:"SHUTDOWN_TIMEOUT" envDefault:"10"`
		MaxUploadSize   int64  `env:"MAX_UPLOAD_SIZE" envDefault:"10485760"` // 10 MiB
	} `envPrefix:"SERVER_"`
	Rostering struct {
		BaseURL        string `env:"BASE_URL,required,notEmpty"`
		APIToken       string `env:"API_TOKEN"`
		RequestTimeout int    `env:"REQUEST_TIMEOUT" envDefault:"10"`
	} `envPrefix:"ROSTERING_"`
	Calendar struct {
		Timezone  string `env:"TIMEZONE" envDefault:"Local"`
		WeekStart int    `env:"WEEK_START" envDefault:"0"` // 0 表示周日
	} `envPrefix:"CALENDAR_"`
	JWT struct {
		Secret string `env:"SECRET,required,notEmpty"`
	} `envPrefix:"JWT_"`
	Email struct {
		AlertRecipients []string `env:"ALERT_RECIPIENTS" envSeparator:","`
		SMTP            struct {
			Username    string `env:"USERNAME"`
			Password    string `env:"PASSWORD"`
			Host        string `env:"HOST"`
			Port        int    `env:"PORT" envDefault:"465"`
			DialTimeout int    `env:"DIAL_TIMEOUT" envDefault:"10"`
		} `envPrefix:"SMTP_"`
	} `envPrefix:"EMAIL_"`
	RabbitMQ struct {
		DSN            string `env:"DSN"`
		Queue          string `env:"QUEUE" envDefault:"email_queue"`
		PublishTimeout int    `env:"PUBLISH_TIMEOUT" envDefault:"10"`
	} `envPrefix:"RABBITMQ_"`
	Redis struct {
		Host             string `env:"HOST" envDefault:"localhost"`
		Port             int    `env:"PORT" envDefault:"6379"`
		Password         string `env:"PASSWORD"`
		OperationTimeout int    `env:"OPERATION_TIMEOUT" envDefault:"5"`
		RosterCacheTTL   int    `env:"ROSTER_CACHE_TTL" envDefault:"300"`
		AlertFeedSize    int64  `env:"ALERT_FEED_SIZE" envDefault:"50"`
	} `envPrefix:"REDIS_"`
	Seed struct {
		RatePerSecond float64 `env:"RATE_PER_SECOND" envDefault:"5"`
	} `envPrefix:"SEED_"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		aggErr := env.AggregateError{}
		if ok := errors.As(err, &aggErr); ok {
			// 只返回第一个错误使得日志更清晰
			return nil, aggErr.Errors[0]
		}
		return nil, err
	}

	return cfg, nil
}

// Location 返回日历时区，无法识别时退回本地时区
func (c *Config) Location() *time.Location {
	if c.Calendar.Timezone == "" || c.Calendar.Timezone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Calendar.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func (c *Config) WeekStart() time.Weekday {
	if c.Calendar.WeekStart < 0 || c.Calendar.WeekStart > 6 {
		return time.Sunday
	}
	return time.Weekday(c.Calendar.WeekStart)
}

func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Rostering.RequestTimeout) * time.Second
}
