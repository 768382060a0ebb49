// Package metrics exposes Prometheus counters for the network layer.
//
// All methods are safe on a nil *Metrics so components can be built without
// instrumentation in tests.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "netpong"

// Connect attempt results.
const (
	ResultOK                 = "ok"
	ResultRefused            = "refused"
	ResultTimeout            = "timeout"
	ResultHandshakeMalformed = "handshake_malformed"
)

// Metrics holds the client counters. A nil *Metrics is valid and records
// nothing, so callers never need to check.
type Metrics struct {
	connectAttempts *prometheus.CounterVec
	snapshots       *prometheus.CounterVec
	decodeErrors    prometheus.Counter
	disconnects     prometheus.Counter
	commandsSent    *prometheus.CounterVec
	sendErrors      prometheus.Counter
	bytesReceived   prometheus.Counter
}

// New registers the collectors with reg. A nil reg uses a private registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		connectAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connect_attempts_total",
			Help:      "Connection attempts by result",
		}, []string{"result"}),

		snapshots: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshots_decoded_total",
			Help:      "Snapshots decoded from the server stream by phase",
		}, []string{"phase"}),

		decodeErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decode_errors_total",
			Help:      "Records dropped because they could not be decoded",
		}),

		disconnects: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "disconnects_total",
			Help:      "Sessions lost to a stream error or peer close before the match ended",
		}),

		commandsSent: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_sent_total",
			Help:      "Paddle commands written to the server",
		}, []string{"command"}),

		sendErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "send_errors_total",
			Help:      "Failed command writes",
		}),

		bytesReceived: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "received_bytes_total",
			Help:      "Bytes read from the snapshot stream",
		}),
	}
}

// ConnectAttempt counts one attempt under its result label.
func (m *Metrics) ConnectAttempt(result string) {
	if m == nil {
		return
	}
	m.connectAttempts.WithLabelValues(result).Inc()
}

// Snapshot counts a decoded snapshot by phase.
func (m *Metrics) Snapshot(phase string) {
	if m == nil {
		return
	}
	m.snapshots.WithLabelValues(phase).Inc()
}

// DecodeError counts a dropped record.
func (m *Metrics) DecodeError() {
	if m == nil {
		return
	}
	m.decodeErrors.Inc()
}

// Disconnect counts a session lost before the match ended.
func (m *Metrics) Disconnect() {
	if m == nil {
		return
	}
	m.disconnects.Inc()
}

// CommandSent counts a paddle command written to the server.
func (m *Metrics) CommandSent(cmd string) {
	if m == nil {
		return
	}
	m.commandsSent.WithLabelValues(cmd).Inc()
}

// SendError counts a failed command write.
func (m *Metrics) SendError() {
	if m == nil {
		return
	}
	m.sendErrors.Inc()
}

// BytesReceived adds n bytes read from the stream.
func (m *Metrics) BytesReceived(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.bytesReceived.Add(float64(n))
}

// Handler serves /metrics for g and a trivial /healthz.
func Handler(g prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	return r
}

// Serve runs the metrics endpoint on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, g prometheus.Gatherer) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           Handler(g),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
