package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tableflip.dev/todo/pkg/app"
	"tableflip.dev/todo/pkg/config"
	"tableflip.dev/todo/pkg/gateway"
)

// session is what one command invocation needs: the resolved config, a
// logger and a task service over the configured backend.
type session struct {
	Config  *config.Config
	Logger  *slog.Logger
	Service *app.Service

	metrics  *http.Server
	closeLog func() error
}

// openSession resolves config and opens the backend. Logs go to logOut
// unless log.file is set.
func openSession(logOut io.Writer) (*session, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	logger, closeLog, err := cfg.NewLogger(logOut)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	g, err := gateway.Open(cfg, gateway.Options{Logger: logger, Registerer: reg})
	if err != nil {
		_ = closeLog()
		return nil, err
	}

	s := &session{
		Config: cfg,
		Logger: logger,
		Service: app.New(g, app.Options{
			Logger:         logger,
			AppearDelay:    cfg.UI.AppearDelay,
			DisappearDelay: cfg.UI.DisappearDelay,
		}),
		closeLog: closeLog,
	}

	if cfg.Metrics.Addr != "" {
		if err := s.serveMetrics(cfg.Metrics.Addr, reg); err != nil {
			_ = s.Close()
			return nil, err
		}
	}
	return s, nil
}

func (s *session) serveMetrics(addr string, reg *prometheus.Registry) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("metrics listen on %s: %w", addr, err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	s.metrics = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	s.Logger.Info("serving metrics", slog.String("addr", ln.Addr().String()))
	go func() {
		if err := s.metrics.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.Logger.Error("metrics server stopped", slog.String("error", err.Error()))
		}
	}()
	return nil
}

// Close applies pending delayed removals, stops the metrics server and
// releases the log file.
func (s *session) Close() error {
	if s.Service != nil {
		s.Service.Close()
	}
	var errs []error
	if s.metrics != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		errs = append(errs, s.metrics.Shutdown(ctx))
	}
	if s.closeLog != nil {
		errs = append(errs, s.closeLog())
	}
	return errors.Join(errs...)
}

// withSession opens a session for the duration of fn.
func withSession(logOut io.Writer, fn func(*session) error) (err error) {
	s, err := openSession(logOut)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); err == nil {
			err = cerr
		}
	}()
	return fn(s)
}
