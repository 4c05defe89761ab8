// Package metrics instruments tool invocations for both hosts.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "agent_tools"

// Endpoint is the path the registry is served under.
const Endpoint = "/metrics"

// Host labels.
const (
	HostMCP   = "mcp"
	HostAgent = "agent"
)

// Recorder owns a private Prometheus registry. A nil *Recorder is valid and
// records nothing.
type Recorder struct {
	registry   *prometheus.Registry
	toolCalls  *prometheus.CounterVec
	toolTime   *prometheus.HistogramVec
	agentRuns  *prometheus.CounterVec
	iterations prometheus.Histogram
}

// New creates a Recorder with Go runtime and process collectors registered.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		toolCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tool_calls_total",
			Help:      "Tool invocations by host, tool and outcome.",
		}, []string{"host", "tool", "outcome"}),
		toolTime: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tool_call_duration_seconds",
			Help:      "Tool invocation latency.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 10),
		}, []string{"host", "tool"}),
		agentRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "agent_runs_total",
			Help:      "Agent runs by outcome.",
		}, []string{"outcome"}),
		iterations: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "agent_iterations",
			Help:      "Model round trips per agent run.",
			Buckets:   prometheus.LinearBuckets(1, 5, 10),
		}),
	}
}

// ObserveToolCall records one tool invocation.
func (r *Recorder) ObserveToolCall(host, tool string, failed bool, d time.Duration) {
	if r == nil {
		return
	}
	outcome := "success"
	if failed {
		outcome = "error"
	}
	r.toolCalls.WithLabelValues(host, tool, outcome).Inc()
	r.toolTime.WithLabelValues(host, tool).Observe(d.Seconds())
}

// ObserveAgentRun records a finished agent run.
func (r *Recorder) ObserveAgentRun(iterations int, outcome string) {
	if r == nil {
		return
	}
	r.agentRuns.WithLabelValues(outcome).Inc()
	r.iterations.Observe(float64(iterations))
}

// Gatherer exposes the underlying registry.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	if r == nil {
		return prometheus.NewRegistry()
	}
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.Gatherer(), promhttp.HandlerOpts{})
}

// Server exposes a Recorder over HTTP for the lifetime of a process.
type Server struct {
	httpServer *http.Server
	listener   net.Listener
}

// Listen binds addr and serves the registry under Endpoint in the background.
// Bind errors are returned immediately.
func (r *Recorder) Listen(addr string) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle(Endpoint, r.Handler())

	s := &Server{
		httpServer: &http.Server{
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
		listener: ln,
	}

	go func() {
		slog.Info("Metrics server starting", "listen_addr", s.Addr(), "endpoint", Endpoint)
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Metrics server error", "error", err)
		}
	}()
	return s, nil
}

// Addr is the bound address, useful when listening on port 0.
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
