// Package storage provides the persisted key/value store behind the style
// catalog copy and the prompt history.
//
// # Backends
//
//   - [FileStore]: one JSON file per entry under the user cache directory
//     (~/.cache/avatarshuffle). The CLI default.
//   - [MemoryStore]: process memory, for tests and --no-cache runs.
//   - [RedisStore]: shared Redis instance for service deployments.
//   - [MongoStore]: durable shared store with server-side expiry.
//
// All backends implement [Store]. [GetJSON] and [SetJSON] add JSON
// encoding on top; [Open] selects a backend from [Options].
//
// # Usage
//
//	s, err := storage.Open(ctx, storage.Options{Backend: storage.BackendRedis, RedisAddr: "localhost:6379"})
//	defer s.Close()
//
//	var styles []style.Style
//	ok, err := storage.GetJSON(ctx, s, "fetchedStyles", &styles)
package storage
