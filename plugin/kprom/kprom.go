// Package kprom binds kgo's Hook system to github.com/prometheus/client_golang.
package kprom

import (
	"net"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/platformatic/kgo"
)

// Metrics is a kgo.Hook implementing every BrokerXHook sub-interface,
// recording connect/write/read/disconnect/throttle activity as Prometheus
// collectors. The zero value is not usable; construct with NewMetrics.
var _ kgo.Hook = (*Metrics)(nil)

type Metrics struct {
	connectsTotal    *prometheus.CounterVec
	connectErrsTotal *prometheus.CounterVec
	connectSeconds   *prometheus.HistogramVec

	writeBytesTotal *prometheus.CounterVec
	writeErrsTotal  *prometheus.CounterVec
	writeSeconds    *prometheus.HistogramVec

	readBytesTotal *prometheus.CounterVec
	readErrsTotal  *prometheus.CounterVec
	readSeconds    *prometheus.HistogramVec

	disconnectsTotal *prometheus.CounterVec
	reauthsTotal     *prometheus.CounterVec
}

// NewMetrics constructs a Metrics and registers every collector under reg.
// namespace prefixes every metric name (e.g. "kafka" -> kafka_connects_total).
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	labels := []string{"host", "port"}
	m := &Metrics{
		connectsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "connects_total", Help: "Total connection attempts.",
		}, labels),
		connectErrsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "connect_errors_total", Help: "Total failed connection attempts.",
		}, labels),
		connectSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "connect_seconds", Help: "Dial latency.",
		}, labels),
		writeBytesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "write_bytes_total", Help: "Total bytes written.",
		}, labels),
		writeErrsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "write_errors_total", Help: "Total failed writes.",
		}, labels),
		writeSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "write_seconds", Help: "Time spent writing a frame, once admitted to the wire.",
		}, labels),
		readBytesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "read_bytes_total", Help: "Total bytes read.",
		}, labels),
		readErrsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "read_errors_total", Help: "Total failed reads.",
		}, labels),
		readSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "read_wait_seconds", Help: "Time from request submission to response delivery.",
		}, labels),
		disconnectsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "disconnects_total", Help: "Total connection teardowns.",
		}, labels),
		reauthsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "reauthentications_total", Help: "Total proactive re-authentications started.",
		}, labels),
	}
	for _, c := range []prometheus.Collector{
		m.connectsTotal, m.connectErrsTotal, m.connectSeconds,
		m.writeBytesTotal, m.writeErrsTotal, m.writeSeconds,
		m.readBytesTotal, m.readErrsTotal, m.readSeconds,
		m.disconnectsTotal, m.reauthsTotal,
	} {
		reg.MustRegister(c)
	}
	return m
}

func labelValues(host string, port int) []string {
	return []string{host, strconv.Itoa(port)}
}

func (m *Metrics) OnConnect(host string, port int, dialDur time.Duration, err error) {
	lv := labelValues(host, port)
	m.connectsTotal.WithLabelValues(lv...).Inc()
	m.connectSeconds.WithLabelValues(lv...).Observe(dialDur.Seconds())
	if err != nil {
		m.connectErrsTotal.WithLabelValues(lv...).Inc()
	}
}

func (m *Metrics) OnWrite(host string, port int, apiKey int16, bytesWritten int, writeWait, timeToWrite time.Duration, err error) {
	lv := labelValues(host, port)
	m.writeBytesTotal.WithLabelValues(lv...).Add(float64(bytesWritten))
	m.writeSeconds.WithLabelValues(lv...).Observe(timeToWrite.Seconds())
	if err != nil {
		m.writeErrsTotal.WithLabelValues(lv...).Inc()
	}
}

func (m *Metrics) OnRead(host string, port int, apiKey int16, bytesRead int, readWait, timeToRead time.Duration, err error) {
	lv := labelValues(host, port)
	m.readBytesTotal.WithLabelValues(lv...).Add(float64(bytesRead))
	m.readSeconds.WithLabelValues(lv...).Observe(readWait.Seconds())
	if err != nil {
		m.readErrsTotal.WithLabelValues(lv...).Inc()
	}
}

func (m *Metrics) OnDisconnect(host string, port int, conn net.Conn) {
	m.disconnectsTotal.WithLabelValues(labelValues(host, port)...).Inc()
}

// OnThrottle fires once per proactive re-authentication, with
// afterResponse=false (kgo's only current call site); the guard is kept so
// a future "throttle imposed after a response" signal doesn't double-count.
func (m *Metrics) OnThrottle(host string, port int, dur time.Duration, afterResponse bool) {
	if afterResponse {
		return
	}
	m.reauthsTotal.WithLabelValues(labelValues(host, port)...).Inc()
}
