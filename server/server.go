package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/itemo/logger"
)

const shutdownGrace = 10 * time.Second

type Server struct {
	StartTime time.Time
	Svr       *http.Server
	log       *logger.Logger
}

func NewServer(conf *Conf, handler http.Handler) *Server {
	return &Server{
		StartTime: time.Now().UTC(),
		log:       logger.NewLogger("server", uuid.NewString()),
		Svr: &http.Server{
			Handler:      handler,
			Addr:         conf.Addr,
			ReadTimeout:  conf.TimeoutRead,
			WriteTimeout: conf.TimeoutWrite,
			IdleTimeout:  conf.TimeoutIdle,
		},
	}
}

func secondsToTimeStr(seconds float64) string {
	duration := time.Duration(int64(seconds)) * time.Second
	timeValue := time.Time{}.Add(duration)
	return timeValue.Format("15:04:05")
}

// returns the current run time of the server
// as a HH:MM:SS formatted string.
func (s *Server) RunTime() string {
	return secondsToTimeStr(time.Since(s.StartTime).Seconds())
}

// forcibly shuts down server and returns total run time.
func (s *Server) Shutdown() (string, error) {
	if err := s.Svr.Close(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return "0", fmt.Errorf("server shutdown failed: %w", err)
	}
	return s.RunTime(), nil
}

// Run serves until ctx is done, then drains open requests for up to ten
// seconds before closing what is left.
func (s *Server) Run(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		s.log.Info("starting server", "addr", s.Svr.Addr)
		if err := s.Svr.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	if err := s.Svr.Shutdown(shutdownCtx); err != nil {
		s.log.Warn("shutdown timed out, forcing exit", "error", err)
		if _, err := s.Shutdown(); err != nil {
			return err
		}
	}
	s.log.Info("server stopped", "run_time", s.RunTime())
	return <-errc
}
