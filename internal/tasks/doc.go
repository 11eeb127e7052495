// package tasks implements library aggregation against a music service.
//
// The core abstraction is LibraryEngine, which walks paginated endpoints to
// collect a user's full playlist and saved track library. Runs validate the
// session once up front, pace page requests with a rate limiter, and emit
// progress updates via channels for non-blocking status reporting to CLI/UI
// layers.
package tasks
