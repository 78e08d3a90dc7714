package logger

import (
	"log"
	"log/slog"
	"strings"

	"github.com/joeshaw/envdecode"
)

type Conf struct {
	LogDir   string `env:"ITEMO_LOG_DIR"`
	LogLevel string `env:"ITEMO_LOG_LEVEL,default=info"`
}

func LogConfig() *Conf {
	configs := new(Conf)

	if err := envdecode.Decode(configs); err != nil && err != envdecode.ErrNoTargetFieldsAreSet {
		log.Fatalf("failed to decode log config: %s", err)
	}
	if configs.LogLevel == "" {
		configs.LogLevel = "info"
	}

	return configs
}

func (c *Conf) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

var logCfg = LogConfig()
