package source

import (
	crerr "github.com/cockroachdb/errors"
)

// Sentinel failure classes. Adapters wrap their errors with one of these so
// the orchestrator can classify without knowing transport details.
var (
	// ErrNotFound: the source was reachable but the player is absent.
	// Treated like a transient error for fallback purposes.
	ErrNotFound = crerr.New("player not found at source")

	// ErrAuthRejected: credentials were rejected. Permanent for the
	// affected adapter within a query; never retried against it.
	ErrAuthRejected = crerr.New("source rejected credentials")

	// ErrRateLimited: the source throttled us. Retryable with backoff
	// inside the adapter, transient for the chain.
	ErrRateLimited = crerr.New("source rate limited the request")

	// ErrUnreachable: timeout, connection refused, malformed response.
	ErrUnreachable = crerr.New("source unreachable")

	// ErrNoPlayerMarkers: a scrape response carried no recognizable
	// player markers. Soft failure; the adapter tries its next candidate
	// URL before surfacing this.
	ErrNoPlayerMarkers = crerr.New("no recognizable player markers in response")
)

// FailureReason is the coarse classification reported per attempt.
type FailureReason string

const (
	ReasonNotFound    FailureReason = "not_found"
	ReasonAuth        FailureReason = "auth_rejected"
	ReasonRateLimited FailureReason = "rate_limited"
	ReasonUnreachable FailureReason = "unreachable"
	ReasonParse       FailureReason = "parse_failure"
)

// Classify buckets an adapter error into a FailureReason.
func Classify(err error) FailureReason {
	switch {
	case crerr.Is(err, ErrNotFound):
		return ReasonNotFound
	case crerr.Is(err, ErrAuthRejected):
		return ReasonAuth
	case crerr.Is(err, ErrRateLimited):
		return ReasonRateLimited
	case crerr.Is(err, ErrNoPlayerMarkers):
		return ReasonParse
	case crerr.Is(err, ErrUnreachable):
		return ReasonUnreachable
	default:
		return ReasonParse
	}
}
