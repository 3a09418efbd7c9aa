// Package metrics exposes the bridge's Prometheus collectors, grounded on
// the teacher's prometheus.go (a struct of promauto-registered collectors
// built once in a constructor, served over promhttp).
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every collector the bridge reports, labeled by device
// ("amp" or "tuner") where more than one device shares a metric.
type Metrics struct {
	queueOverflows  *prometheus.CounterVec
	parseErrors     *prometheus.CounterVec
	clientsCurrent  *prometheus.GaugeVec
	devicePowered   *prometheus.GaugeVec
	driverState     *prometheus.GaugeVec
	commandsQueued  *prometheus.CounterVec
	repliesObserved *prometheus.CounterVec
}

// New creates and registers the bridge's collectors against the default
// registry.
func New() *Metrics {
	return &Metrics{
		queueOverflows: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bridge_queue_overflow_total",
				Help: "Commands dropped because a device's command queue was full.",
			},
			[]string{"device"},
		),
		parseErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bridge_parse_errors_total",
				Help: "Device replies that failed to parse.",
			},
			[]string{"device"},
		),
		clientsCurrent: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "bridge_clients_connected",
				Help: "Currently connected remote protocol clients.",
			},
			[]string{"device"},
		),
		devicePowered: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "bridge_device_power",
				Help: "1 if the device is powered on, 0 otherwise.",
			},
			[]string{"device"},
		),
		driverState: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "bridge_driver_state",
				Help: "Driver state machine value (0=unknown, 1=probing, 2=connected_off, 3=connected_on).",
			},
			[]string{"device"},
		),
		commandsQueued: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bridge_commands_queued_total",
				Help: "Commands enqueued to a device's command queue.",
			},
			[]string{"device"},
		),
		repliesObserved: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bridge_replies_total",
				Help: "Device replies received and parsed.",
			},
			[]string{"device"},
		),
	}
}

// QueueOverflow records a dropped command for device.
func (m *Metrics) QueueOverflow(device string) { m.queueOverflows.WithLabelValues(device).Inc() }

// ParseError records a reply that failed to parse for device.
func (m *Metrics) ParseError(device string) { m.parseErrors.WithLabelValues(device).Inc() }

// SetClientsConnected sets the current client count for device.
func (m *Metrics) SetClientsConnected(device string, n int) {
	m.clientsCurrent.WithLabelValues(device).Set(float64(n))
}

// SetDevicePower records whether device is currently powered on.
func (m *Metrics) SetDevicePower(device string, on bool) {
	v := 0.0
	if on {
		v = 1.0
	}
	m.devicePowered.WithLabelValues(device).Set(v)
}

// SetDriverState records the driver's current state machine value.
func (m *Metrics) SetDriverState(device string, state int) {
	m.driverState.WithLabelValues(device).Set(float64(state))
}

// CommandQueued records one command enqueued for device.
func (m *Metrics) CommandQueued(device string) { m.commandsQueued.WithLabelValues(device).Inc() }

// ReplyObserved records one parsed reply for device.
func (m *Metrics) ReplyObserved(device string) { m.repliesObserved.WithLabelValues(device).Inc() }

// ListenAndServe exposes the registered collectors over HTTP at /metrics,
// blocking until the listener errors.
func ListenAndServe(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(addr, mux)
}
