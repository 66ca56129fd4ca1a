package gateway

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"tableflip.dev/todo/pkg/config"
)

// Options carries the process-level collaborators for Open.
type Options struct {
	Logger     *slog.Logger
	Registerer prometheus.Registerer
	HTTPClient *http.Client
}

// Open builds the backend selected by cfg, bounded by the configured timeout
// and instrumented when a registerer is given. It is called once per process.
func Open(cfg *config.Config, o Options) (Gateway, error) {
	if cfg == nil {
		return nil, fmt.Errorf("gateway: config required")
	}
	logger := o.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var g Gateway
	switch cfg.Backend {
	case config.BackendLocal:
		local, err := NewLocal(cfg.Local.Path, cfg.Local.Latency, logger)
		if err != nil {
			return nil, err
		}
		g = local
	case config.BackendRemote:
		g = NewRemote(cfg.Remote.URL, WithHTTPClient(o.HTTPClient), WithRemoteLogger(logger))
	default:
		return nil, fmt.Errorf("gateway: unknown backend %q", cfg.Backend)
	}

	g = WithTimeout(g, cfg.Remote.Timeout)

	if o.Registerer != nil {
		m, err := NewMetrics(o.Registerer)
		if err != nil {
			return nil, fmt.Errorf("gateway: register metrics: %w", err)
		}
		g = Instrument(g, m)
	}

	logger.Debug("gateway opened", slog.String("backend", string(cfg.Backend)))
	return g, nil
}
