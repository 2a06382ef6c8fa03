package observability

import (
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"reviewledger/internal/domain"
)

var (
	InstructionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "reviewledger", Name: "instructions_total", Help: "Processed instructions."},
		[]string{"kind", "outcome"}, // outcome: ok|<taxonomy label>
	)
	InstructionLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "reviewledger", Name: "instruction_duration_seconds",
			Help:    "Instruction handling duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)
	LedgerOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "reviewledger", Name: "ledger_ops_total", Help: "Ledger operations."},
		[]string{"backend", "op"}, // op: exists|create|read|write
	)
	CacheEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "reviewledger", Name: "cache_events_total", Help: "Cache hits/misses/sets/dels."},
		[]string{"cache", "event"}, // event: hit|miss|set|del
	)
)

func Serve() {
	addr := os.Getenv("METRICS_ADDR")
	if addr == "" {
		return // disabled
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	go func() {
		srv := &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		log.Info().Str("addr", addr).Msg("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()
}

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(InstructionsTotal, InstructionLatency, LedgerOps, CacheEvents)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveInstruction(kind string, err error, dur time.Duration) {
	InstructionsTotal.WithLabelValues(kind, LabelErr(err)).Inc()
	InstructionLatency.WithLabelValues(kind).Observe(dur.Seconds())
}

func ObserveLedger(backend, op string) { // op: exists|create|read|write
	LedgerOps.WithLabelValues(backend, op).Inc()
}

func ObserveCache(cache, event string) { // event: hit|miss|set|del
	CacheEvents.WithLabelValues(cache, event).Inc()
}

var errLabels = []struct {
	err   error
	label string
}{
	{domain.ErrMissingSignature, "missing_signature"},
	{domain.ErrAddressMismatch, "address_mismatch"},
	{domain.ErrSizeExceeded, "size_exceeded"},
	{domain.ErrInvalidRating, "invalid_rating"},
	{domain.ErrAlreadyInitialized, "already_initialized"},
	{domain.ErrNotInitialized, "not_initialized"},
	{domain.ErrIllegalOwner, "illegal_owner"},
	{domain.ErrAllocationFailed, "allocation_failed"},
	{domain.ErrMalformedInstruction, "malformed_instruction"},
	{domain.ErrAddressSpaceExhausted, "address_space_exhausted"},
	{domain.ErrIncorrectCollaborator, "incorrect_collaborator"},
}

// LabelErr maps an error onto its taxonomy name for metric labels.
func LabelErr(err error) string {
	if err == nil {
		return "ok"
	}
	for _, e := range errLabels {
		if errors.Is(err, e.err) {
			return e.label
		}
	}
	return "other"
}
