// Package common contains shared constants and sentinel errors used across
// the feedback service components.
package common

// RequestIDHeaderName is the HTTP header carrying the per-request correlation id.
const RequestIDHeaderName = "X-Request-ID"
