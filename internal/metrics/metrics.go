/*
Copyright 2025 The resistor-search Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package metrics defines the Prometheus instrumentation of the service on a
// private registry.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	versioncollector "github.com/prometheus/client_golang/prometheus/collectors/version"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "resistor_search"

// Outcome label values of the searches counter.
const (
	OutcomeOK      = "ok"
	OutcomeInvalid = "invalid"
)

// Metrics holds every instrument of the service.
type Metrics struct {
	registry *prometheus.Registry

	// SearchesTotal counts search executions by mode and outcome.
	SearchesTotal *prometheus.CounterVec

	// SearchDuration observes wall-clock seconds per search by mode.
	SearchDuration *prometheus.HistogramVec

	// ResultsReturned observes the size of the complete result list per
	// search by mode, before any pagination.
	ResultsReturned *prometheus.HistogramVec

	// CacheHits and CacheMisses count lookups in the result cache.
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter
}

// New builds the instruments on a fresh private registry, alongside the Go
// runtime and build info collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	m := &Metrics{
		registry: reg,
		SearchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Number of combination searches executed, by mode and outcome.",
		}, []string{"mode", "outcome"}),
		SearchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Wall-clock duration of combination searches.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"mode"}),
		ResultsReturned: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "results_returned",
			Help:      "Number of matches found per search, before pagination.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}, []string{"mode"}),
		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Number of searches served from the result cache.",
		}),
		CacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Number of searches that missed the result cache.",
		}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		versioncollector.NewCollector("resistor_search"),
	)
	return m
}

// Registry exposes the private registry for gathering in tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
