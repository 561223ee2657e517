// ABOUTME: Sentinel errors for the upstream catalog integration layer
// ABOUTME: Distinguishes auth failures from recoverable upstream conditions

package models

import "errors"

// ErrAuthUnavailable means the back-office login could not be completed.
// It is the only error the catalog pipeline surfaces to callers, and only
// for feeds that strictly require authentication.
var ErrAuthUnavailable = errors.New("back-office authentication unavailable")

// ErrUpstreamUnavailable covers timeouts, network errors, non-2xx statuses
// and malformed bodies. Always absorbed into the synthetic fallback.
var ErrUpstreamUnavailable = errors.New("upstream unavailable")

// ErrEmptyResult means the upstream answered with a well-formed but empty
// list. Treated the same as ErrUpstreamUnavailable for fallback purposes.
var ErrEmptyResult = errors.New("upstream returned no items")
