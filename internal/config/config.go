package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	LogPath string // access log to monitor (positional)
	OutDir  string // directory for report files (positional)

	TopHosts      int           `env:"LOGMON_TOP_HOSTS" env-default:"10"`
	TopHours      int           `env:"LOGMON_TOP_HOURS" env-default:"10"`
	PollInterval  time.Duration `env:"LOGMON_POLL_INTERVAL" env-default:"10ms"`
	Follow        bool          `env:"LOGMON_FOLLOW" env-default:"true"`
	HTTPPort      int           `env:"LOGMON_HTTP_PORT" env-default:"0"`
	RedisAddr     string        `env:"LOGMON_REDIS_ADDR"`
	RedisPassword string        `env:"LOGMON_REDIS_PASSWORD"`
	LogLevel      string        `env:"LOGMON_LOG_LEVEL" env-default:"warn"`
	StampCache    int           `env:"LOGMON_STAMP_CACHE" env-default:"4096"`
}

// ParseFlags loads configuration from .env / environment and command line.
// Flags take precedence over environment values.
func ParseFlags() (*Config, error) {
	return Load(nil)
}

// Load parses the given argument list (os.Args[1:] when args is nil).
func Load(args []string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	fs := flag.NewFlagSet("logmon", flag.ContinueOnError)
	fs.IntVar(&cfg.TopHosts, "top-hosts", cfg.TopHosts, "number of hosts reported in hosts.txt")
	fs.IntVar(&cfg.TopHours, "top-hours", cfg.TopHours, "number of window entries reported in hours.txt")
	fs.DurationVar(&cfg.PollInterval, "poll-interval", cfg.PollInterval, "idle wait between polls for new log data")
	fs.BoolVar(&cfg.Follow, "follow", cfg.Follow, "keep tailing after end of input (daemon mode)")
	fs.IntVar(&cfg.HTTPPort, "http-port", cfg.HTTPPort, "stats API port (0 disables the API)")
	fs.StringVar(&cfg.RedisAddr, "redis-addr", cfg.RedisAddr, "Redis address for the activity mirror (empty disables)")
	fs.StringVar(&cfg.RedisPassword, "redis-password", cfg.RedisPassword, "Redis password")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "diagnostic log level (debug, info, warn, error)")

	if args == nil {
		args = argsFromOS()
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	rest := fs.Args()
	if len(rest) != 2 {
		return nil, fmt.Errorf("usage: logmon [flags] <logfile> <outdir>")
	}
	cfg.LogPath = rest[0]
	cfg.OutDir = rest[1]

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func argsFromOS() []string {
	return os.Args[1:]
}

func (c *Config) Validate() error {
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %v", c.PollInterval)
	}
	if c.StampCache < 1 {
		return fmt.Errorf("stamp cache size must be at least 1, got %d", c.StampCache)
	}
	return nil
}

func (c *Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
