// Package watcher turns filesystem notifications for the source stats file
// into debounced sync triggers. Emulators write stats several times within a
// few milliseconds of an unlock; the rate limiter collapses each burst into a
// single handler invocation.
package watcher
