// Copyright 2024 The tawhiri authors.
// SPDX-License-Identifier: Apache-2.0

// Package prometheus provides a StatsClient backed by Prometheus metrics
// registered on the default registerer.
package prometheus

import (
	"sort"
	"strings"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	tawhiri "github.com/KerlinMichel/tawhiri"
	"github.com/KerlinMichel/tawhiri/logger"
)

// namespace prefixes every metric this client registers.
const namespace = "tawhiri"

// Ensure prometheusClient implements interface.
var _ tawhiri.StatsClient = &prometheusClient{}

// prometheusClient represents a StatsClient writing to Prometheus.
type prometheusClient struct {
	mu         sync.Mutex
	counters   map[string]prom.Counter
	gauges     map[string]prom.Gauge
	histograms map[string]prom.Histogram
	tags       []string
	logger     logger.Logger
}

// NewPrometheusClient returns a new instance of a Prometheus-backed
// StatsClient.
func NewPrometheusClient(log logger.Logger) *prometheusClient {
	if log == nil {
		log = logger.NopLogger
	}
	return &prometheusClient{
		counters:   make(map[string]prom.Counter),
		gauges:     make(map[string]prom.Gauge),
		histograms: make(map[string]prom.Histogram),
		logger:     log,
	}
}

// Tags returns a sorted list of tags on the client.
func (c *prometheusClient) Tags() []string {
	return c.tags
}

// WithTags returns a new client with additional tags appended. Tags become
// constant labels on metrics registered through the returned client.
func (c *prometheusClient) WithTags(tags ...string) tawhiri.StatsClient {
	merged := append(append([]string{}, c.tags...), tags...)
	sort.Strings(merged)
	n := &prometheusClient{
		counters:   make(map[string]prom.Counter),
		gauges:     make(map[string]prom.Gauge),
		histograms: make(map[string]prom.Histogram),
		tags:       merged,
		logger:     c.logger,
	}
	return n
}

// Count tracks the number of times something occurs.
func (c *prometheusClient) Count(name string, value int64, rate float64) {
	c.mu.Lock()
	counter, ok := c.counters[name]
	if !ok {
		counter = prom.NewCounter(prom.CounterOpts{
			Namespace:   namespace,
			Name:        sanitize(name),
			ConstLabels: c.constLabels(),
		})
		if err := prom.Register(counter); err != nil {
			if are, ok := err.(prom.AlreadyRegisteredError); ok {
				counter = are.ExistingCollector.(prom.Counter)
			} else {
				c.logger.Errorf("registering counter %s: %v", name, err)
				c.mu.Unlock()
				return
			}
		}
		c.counters[name] = counter
	}
	c.mu.Unlock()
	counter.Add(float64(value))
}

// Gauge sets the value of a metric.
func (c *prometheusClient) Gauge(name string, value float64, rate float64) {
	c.mu.Lock()
	gauge, ok := c.gauges[name]
	if !ok {
		gauge = prom.NewGauge(prom.GaugeOpts{
			Namespace:   namespace,
			Name:        sanitize(name),
			ConstLabels: c.constLabels(),
		})
		if err := prom.Register(gauge); err != nil {
			if are, ok := err.(prom.AlreadyRegisteredError); ok {
				gauge = are.ExistingCollector.(prom.Gauge)
			} else {
				c.logger.Errorf("registering gauge %s: %v", name, err)
				c.mu.Unlock()
				return
			}
		}
		c.gauges[name] = gauge
	}
	c.mu.Unlock()
	gauge.Set(value)
}

// Timing tracks timing information for a metric as a histogram of seconds.
func (c *prometheusClient) Timing(name string, value time.Duration, rate float64) {
	c.mu.Lock()
	histogram, ok := c.histograms[name]
	if !ok {
		histogram = prom.NewHistogram(prom.HistogramOpts{
			Namespace:   namespace,
			Name:        sanitize(name) + "_seconds",
			ConstLabels: c.constLabels(),
		})
		if err := prom.Register(histogram); err != nil {
			if are, ok := err.(prom.AlreadyRegisteredError); ok {
				histogram = are.ExistingCollector.(prom.Histogram)
			} else {
				c.logger.Errorf("registering histogram %s: %v", name, err)
				c.mu.Unlock()
				return
			}
		}
		c.histograms[name] = histogram
	}
	c.mu.Unlock()
	histogram.Observe(value.Seconds())
}

// Open is a no-op; metrics are exposed by whatever HTTP handler the caller
// wires up.
func (c *prometheusClient) Open() {}

// Close is a no-op for the Prometheus client.
func (c *prometheusClient) Close() error { return nil }

func (c *prometheusClient) constLabels() prom.Labels {
	if len(c.tags) == 0 {
		return nil
	}
	labels := prom.Labels{}
	for _, tag := range c.tags {
		if k, v, ok := strings.Cut(tag, ":"); ok {
			labels[sanitize(k)] = v
		}
	}
	if len(labels) == 0 {
		return nil
	}
	return labels
}

// sanitize converts a stats name into a legal Prometheus metric name.
func sanitize(name string) string {
	var b strings.Builder
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9' && i > 0, r == '_':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			// camelCase stats names become snake_case metric names.
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
