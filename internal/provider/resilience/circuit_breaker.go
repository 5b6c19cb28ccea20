// Package resilience wraps outbound provider calls (geocoding, recommendation
// submissions) with circuit breaking, retries and per-call deadlines.
package resilience

import (
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"
)

// CircuitBreakerConfig tunes the breaker in front of one provider.
type CircuitBreakerConfig struct {
	// Name labels the breaker in health reports and state-change logs.
	Name string

	// MaxRequests is how many trial calls pass while half-open. Default: 1
	MaxRequests uint32

	// Interval clears the closed-state counts periodically. Zero never clears.
	Interval time.Duration

	// Timeout is how long the breaker stays open before a trial call.
	// Default: 60 seconds
	Timeout time.Duration

	// ReadyToTrip decides when accumulated failures open the breaker.
	ReadyToTrip func(counts gobreaker.Counts) bool

	// IsSuccessful classifies a call's error for the counts. Nil counts every
	// non-nil error as a failure.
	IsSuccessful func(err error) bool

	// OnStateChange observes transitions.
	OnStateChange func(name string, from gobreaker.State, to gobreaker.State)
}

// DefaultCircuitBreakerConfig suits idempotent lookups that retry on 5xx:
// a provider answering with server errors is treated as down.
func DefaultCircuitBreakerConfig(name string) CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:        name,
		MaxRequests: 1,
		Timeout:     60 * time.Second,
		ReadyToTrip: DefaultReadyToTrip,
	}
}

// SubmissionCircuitBreakerConfig suits single-shot submissions whose status
// codes are reported to the caller verbatim. Only transport failures count,
// and the breaker opens after TransportFailureThreshold of them in a row.
func SubmissionCircuitBreakerConfig(name string) CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:         name,
		MaxRequests:  1,
		Timeout:      30 * time.Second,
		ReadyToTrip:  ConsecutiveTransportFailures,
		IsSuccessful: IgnoreServerErrors,
	}
}

// TransportFailureThreshold is the streak that ConsecutiveTransportFailures trips on.
const TransportFailureThreshold = 3

// DefaultReadyToTrip opens the breaker once at least 5 calls were counted and
// half or more of them failed.
func DefaultReadyToTrip(counts gobreaker.Counts) bool {
	if counts.Requests < 5 {
		return false
	}
	return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.5
}

// ConsecutiveTransportFailures opens the breaker after an unbroken run of
// failures. Pair it with IgnoreServerErrors so an HTTP answer breaks the run.
func ConsecutiveTransportFailures(counts gobreaker.Counts) bool {
	return counts.ConsecutiveFailures >= TransportFailureThreshold
}

// IgnoreServerErrors treats a 5xx answer as a healthy round trip. The
// provider was reached; what it said is the caller's business.
func IgnoreServerErrors(err error) bool {
	var serverErr *ServerError
	return err == nil || errors.As(err, &serverErr)
}

// NewCircuitBreaker builds a typed gobreaker from cfg.
func NewCircuitBreaker[T any](cfg CircuitBreakerConfig) *gobreaker.CircuitBreaker[T] {
	settings := gobreaker.Settings{
		Name:          cfg.Name,
		MaxRequests:   cfg.MaxRequests,
		Interval:      cfg.Interval,
		Timeout:       cfg.Timeout,
		ReadyToTrip:   cfg.ReadyToTrip,
		IsSuccessful:  cfg.IsSuccessful,
		OnStateChange: cfg.OnStateChange,
	}
	return gobreaker.NewCircuitBreaker[T](settings)
}
