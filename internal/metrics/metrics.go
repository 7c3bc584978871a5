package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Suggestion metrics
	SuggestionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pantrymatch_suggestions_total",
			Help: "Total number of suggestion requests served",
		},
		[]string{"allow_subst"},
	)

	SuggestionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pantrymatch_suggestion_duration_seconds",
			Help:    "Time spent computing suggestions, cache lookups included",
			Buckets: prometheus.DefBuckets,
		},
	)

	SuggestionResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pantrymatch_suggestion_results",
			Help:    "Number of results returned per suggestion request",
			Buckets: []float64{0, 1, 5, 10, 20, 50, 100},
		},
	)

	// Suggestion cache metrics
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pantrymatch_suggestion_cache_hits_total",
			Help: "Total number of suggestion cache hits",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pantrymatch_suggestion_cache_misses_total",
			Help: "Total number of suggestion cache misses",
		},
	)

	CacheErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pantrymatch_suggestion_cache_errors_total",
			Help: "Total number of failed suggestion cache reads or writes",
		},
	)

	// Corpus metrics
	CorpusReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pantrymatch_corpus_reloads_total",
			Help: "Total number of corpus snapshot loads",
		},
		[]string{"status"}, // "success", "error"
	)

	CorpusRecipes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pantrymatch_corpus_recipes",
			Help: "Number of recipes in the current corpus snapshot",
		},
	)

	CorpusIngredients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pantrymatch_corpus_ingredients",
			Help: "Number of canonical ingredients in the current corpus snapshot",
		},
	)

	// API metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pantrymatch_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pantrymatch_api_request_duration_seconds",
			Help:    "API request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	RateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pantrymatch_rate_limited_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
	)
)

// RecordAPIRequest records one finished HTTP request.
func RecordAPIRequest(method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	APIRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordSuggestion records one suggestion call.
func RecordSuggestion(allowSubst bool, results int, duration time.Duration) {
	SuggestionsTotal.WithLabelValues(strconv.FormatBool(allowSubst)).Inc()
	SuggestionResults.Observe(float64(results))
	SuggestionDuration.Observe(duration.Seconds())
}

// RecordCorpusLoad records the outcome of a corpus load and, on success, the
// snapshot size.
func RecordCorpusLoad(recipes, ingredients int, err error) {
	if err != nil {
		CorpusReloads.WithLabelValues("error").Inc()
		return
	}
	CorpusReloads.WithLabelValues("success").Inc()
	CorpusRecipes.Set(float64(recipes))
	CorpusIngredients.Set(float64(ingredients))
}
