// Package retry retries operations with exponential backoff.
//
// [WithExponentialBackoff] wraps Hetzner Cloud API calls that may fail
// transiently (locked resources, conflicts, rate limits). Errors wrapped
// with [Fatal] stop the loop immediately.
package retry
