// Package services implements an HTTP client for a running okmusi server.
//
// [APIService] offers raw Get and Post calls for ad-hoc requests (used by `okmusi api`)
// and typed calls for every route of the JSON API. The default client keeps a cookie
// jar, so the device cookie issued on the first response carries the session across
// later calls just as a browser would.
//
// # Error Handling
//
// Non-2xx responses from typed calls are returned as [*APIError], which matches:
//   - [shared.ErrAPIRequest] : any failed call
//   - [shared.ErrNotAuthenticated] : a 401 from a gated route
package services
