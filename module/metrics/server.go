package metrics

import (
	"context"
	"errors"
	"net/http"
	_ "net/http/pprof"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/stalkchat/stalk/module"
)

const shutdownTimeout = 5 * time.Second

var _ module.ReadyDoneAware = (*Server)(nil)

// Server is the http server that serves the /metrics request for prometheus, from the given gatherer.
type Server struct {
	server    *http.Server
	log       zerolog.Logger
	startOnce sync.Once
	stopOnce  sync.Once
	ready     chan struct{}
	done      chan struct{}
}

// NewServer creates a new server that will start on the specified port,
// and responds to only the `/metrics` endpoint (plus `/debug/pprof/` when the profiler is enabled).
func NewServer(log zerolog.Logger, port uint, enableProfilerEndpoint bool, gatherer prometheus.Gatherer) *Server {
	addr := ":" + strconv.Itoa(int(port))

	mux := http.NewServeMux()
	endpoint := "/metrics"
	mux.Handle(endpoint, promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	if enableProfilerEndpoint {
		mux.Handle("/debug/pprof/", http.DefaultServeMux)
	}

	return &Server{
		server: &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second},
		log:    log.With().Str("component", "metrics_server").Str("address", addr).Str("endpoint", endpoint).Logger(),
		ready:  make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Ready starts serving and returns a channel that is closed once the server has been launched.
func (m *Server) Ready() <-chan struct{} {
	m.startOnce.Do(func() {
		go func() {
			m.log.Info().Msg("metrics server started")
			if err := m.server.ListenAndServe(); err != nil {
				// http.ErrServerClosed is returned when Close or Shutdown is called
				// we don't consider this an error, so print this with debug level instead
				if errors.Is(err, http.ErrServerClosed) {
					m.log.Debug().Err(err).Msg("metrics server shutdown")
				} else {
					m.log.Err(err).Msg("error shutting down metrics server")
				}
			}
		}()
		close(m.ready)
	})
	return m.ready
}

// Done shuts the server down and returns a channel that is closed once shutdown is complete.
func (m *Server) Done() <-chan struct{} {
	m.stopOnce.Do(func() {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			_ = m.server.Shutdown(ctx)
			cancel()
			close(m.done)
		}()
	})
	return m.done
}
