// Package httputil provides retry with exponential backoff for upstream
// HTTP calls.
//
// Only failures wrapped with [Retryable] are attempted again; everything
// else (4xx responses, decode errors) returns immediately:
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    styles, err = figma.FileStyles(ctx, fileKey)
//	    return err
//	})
//
// The style library fetch uses the default backoff of 3 attempts starting
// at one second. Avatar generation is never retried: a failed batch fails
// the whole run.
package httputil
