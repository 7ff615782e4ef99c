// Package server exposes the OKmusi demo over a JSON HTTP API built on gin.
//
// # Devices
//
// Each client is identified by the okmusi_device cookie, a UUID issued on first contact.
// [DeviceMiddleware] wraps the shared [models.Store] in a [repositories.ScopedStore] for
// that device, so a device only ever sees its own session record, the way a browser only
// sees its own local storage.
//
// # Middleware
//
// Requests pass through, in order: panic recovery, [RequestIDMiddleware],
// [LoggingMiddleware], CORS, [RateLimitMiddleware], and [DeviceMiddleware].
// Protected routes add [SessionGateMiddleware], which redirects HTML clients to the login
// page and answers everyone else with 401.
//
// # Routes
//
//	GET  /health             storage status
//	GET  /api/home           landing data
//	POST /api/auth/login     simulated login
//	POST /api/auth/signup    simulated signup
//	POST /api/auth/logout    clear the session record
//	GET  /api/session        current session (gated)
//	GET  /api/dashboard      dashboard data (gated)
//	GET  /api/search?q=      mock catalog search
//	GET  /api/player         now-playing record from the player hand-off query
package server
