// Package preflight provides readiness checks for the paths and transports
// the daemon depends on. The daemon runs them at startup and the status
// command surfaces them so a misconfigured path shows up before anyone
// wonders why no notifications arrive.
package preflight
