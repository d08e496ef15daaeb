// Package server is the HTTP front end of avatarshuffle.
//
// Routes:
//
//	POST /v1/avatars      {"prompt": "...", "count": 4} -> {"images": [...]}
//	GET  /v1/styles       ?category=People
//	GET  /v1/suggestions  ?key=useSpecificCategory&q=pe
//	GET  /healthz
//	GET  /metrics         (when Server.Metrics is set)
//
// Errors are answered as {"error": {"code": ..., "message": ...}} with the
// status from errors.HTTPStatus.
package server
