// Package ipc exposes the daemon over JSON-RPC Unix sockets and ships the
// matching client used by the CLI.
//
// It owns socket lifecycle management and the request/response DTOs. The
// server embeds the daemon while the client maps dial failures to a
// daemon-not-running error so commands fail fast with a useful hint.
package ipc
