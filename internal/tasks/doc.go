// Package tasks runs the simulated network calls behind login, signup, and search.
//
// # Futures
//
// [Go] starts a function in its own goroutine and returns a [Task]. Callers wait with
// [Task.Await], select on [Task.Done], or poll [Task.Result]. Every task honors context
// cancellation: cancelling the context passed to [Go] (or calling [Task.Cancel]) ends the
// simulated delay early with the context's error.
//
// # Latency
//
// [Simulate] is a cancellable fixed delay standing in for a network round trip.
//
// # Search
//
// [SearchEngine] drives one search through the states idle, loading, results, empty,
// and error. Each state change is reported on an optional progress channel as a
// [SearchUpdate]. Sends never block, so a slow reader misses intermediate updates but
// always receives the final one from the return value.
package tasks
