// Package avatar generates avatar images through an OpenAI-compatible image
// generation API.
//
// The upstream is severely rate limited, so a generation call is shaped by
// two settings: at most MaxRequests concurrent requests, each asking for at
// most MaxImagesPerBatch images. When a selection holds more shapes than
// that, fewer images come back and the run reuses them in order.
//
// Failures carry upstream error codes from pkg/errors:
//
//	500  UPSTREAM_SERVER
//	429  RATE_LIMITED
//	401  UNAUTHORIZED
//	else UPSTREAM_UNKNOWN
package avatar
