// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package metrics defines the Prometheus collectors exported at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts HTTP requests by route pattern.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "thumbcraft",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// RequestDuration tracks HTTP latency by route pattern.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "thumbcraft",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"method", "route"},
	)

	// GenerationsTotal counts generated thumbnails by source
	// (provider name or "placeholder") and mode ("submit" or "live").
	GenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "thumbcraft",
			Subsystem: "generator",
			Name:      "generations_total",
			Help:      "Total thumbnail generations",
		},
		[]string{"source", "mode"},
	)

	// ProviderFailuresTotal counts provider calls that fell back to the placeholder.
	ProviderFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "thumbcraft",
			Subsystem: "generator",
			Name:      "provider_failures_total",
			Help:      "Provider calls that failed and fell back to a placeholder",
		},
	)

	// ProviderDuration tracks image provider latency.
	ProviderDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "thumbcraft",
			Subsystem: "generator",
			Name:      "provider_duration_seconds",
			Help:      "Image provider call duration in seconds",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 40, 60},
		},
	)

	// LiveSupersededTotal counts live requests whose result was discarded.
	LiveSupersededTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "thumbcraft",
			Subsystem: "generator",
			Name:      "live_superseded_total",
			Help:      "Live-mode generations discarded because a newer request arrived",
		},
	)

	// DownloadsTotal counts prepared downloads by outcome
	// ("blob", "direct" or "fallback").
	DownloadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "thumbcraft",
			Subsystem: "downloads",
			Name:      "prepared_total",
			Help:      "Total prepared downloads",
		},
		[]string{"format", "outcome"},
	)

	// BlobBytesTotal counts bytes written to the blob store.
	BlobBytesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "thumbcraft",
			Subsystem: "downloads",
			Name:      "blob_bytes_total",
			Help:      "Total bytes written to the download blob store",
		},
		[]string{"store"},
	)
)

// RecordRequest records an HTTP request.
func RecordRequest(method, route, status string, durationSec float64) {
	RequestsTotal.WithLabelValues(method, route, status).Inc()
	RequestDuration.WithLabelValues(method, route).Observe(durationSec)
}

// RecordGeneration records a finished generation.
func RecordGeneration(source string, live bool) {
	mode := "submit"
	if live {
		mode = "live"
	}
	GenerationsTotal.WithLabelValues(source, mode).Inc()
}

// RecordProvider records one provider call.
func RecordProvider(durationSec float64, failed bool) {
	ProviderDuration.Observe(durationSec)
	if failed {
		ProviderFailuresTotal.Inc()
	}
}

// RecordSuperseded records a discarded live result.
func RecordSuperseded() {
	LiveSupersededTotal.Inc()
}

// RecordDownload records a prepared download.
func RecordDownload(format, outcome string) {
	DownloadsTotal.WithLabelValues(format, outcome).Inc()
}

// RecordBlob records bytes written to a blob store.
func RecordBlob(store string, bytes int) {
	BlobBytesTotal.WithLabelValues(store).Add(float64(bytes))
}
