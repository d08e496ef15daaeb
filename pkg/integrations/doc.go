// Package integrations provides the shared HTTP client for upstream APIs.
//
// # Overview
//
// Each upstream has its own subpackage built on [Client]:
//
//   - [figma]: the shared style library (file styles)
//
// The avatar generation adapter in pkg/avatar also uses [Client] for its
// POST requests.
//
// # Client Pattern
//
//	c := integrations.NewClient(map[string]string{"X-FIGMA-TOKEN": token})
//	var file fileResponse
//	err := c.Get(ctx, url, &file)
//
// [Client] handles default headers, JSON request and response bodies, and
// status classification: 5xx responses and network failures are wrapped as
// [httputil.RetryableError]; every non-2xx response is a [StatusError].
// Every request is reported to the registered observability HTTP hooks.
//
// [figma]: github.com/matzehuels/avatarshuffle/pkg/integrations/figma
// [httputil.RetryableError]: github.com/matzehuels/avatarshuffle/pkg/httputil.RetryableError
package integrations
