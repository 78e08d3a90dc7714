package server

import (
	"time"

	"github.com/itemo/config"
)

type Conf struct {
	Addr         string
	TimeoutRead  time.Duration
	TimeoutWrite time.Duration
	TimeoutIdle  time.Duration
	CorsOrigins  []string
}

// ServerConfigs fills unset values of cfg. The write timeout must outlive
// the longest chat stream.
func ServerConfigs(cfg config.Server) *Conf {
	c := &Conf{
		Addr:         cfg.Addr,
		TimeoutRead:  cfg.TimeoutRead,
		TimeoutWrite: cfg.TimeoutWrite,
		TimeoutIdle:  cfg.TimeoutIdle,
		CorsOrigins:  cfg.CorsOrigins,
	}
	if c.Addr == "" {
		c.Addr = ":9090"
	}
	if c.TimeoutRead == 0 {
		c.TimeoutRead = time.Second * 30
	}
	if c.TimeoutWrite == 0 {
		c.TimeoutWrite = time.Minute * 5
	}
	if c.TimeoutIdle == 0 {
		c.TimeoutIdle = time.Second * 60
	}
	if len(c.CorsOrigins) == 0 {
		c.CorsOrigins = []string{"*"}
	}
	return c
}
