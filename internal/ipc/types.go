package ipc

import (
	"time"

	"github.com/pytatbro/metaltrophysolidv/internal/preflight"
	"github.com/pytatbro/metaltrophysolidv/internal/syncer"
)

// StatusRequest fetches daemon status.
type StatusRequest struct{}

// StatusResponse represents a daemon status snapshot.
type StatusResponse struct {
	Running     bool               `json:"running"`
	PID         int                `json:"pid"`
	StartedAt   time.Time          `json:"started_at"`
	WatchedPath string             `json:"watched_path"`
	TargetPath  string             `json:"target_path"`
	Passes      int                `json:"passes"`
	LastPass    *syncer.PassResult `json:"last_pass,omitempty"`
	LastPassAt  time.Time          `json:"last_pass_at"`
	LastError   string             `json:"last_error"`
	KnownCount  int                `json:"known_count"`
	SinkName    string             `json:"sink_name"`
	JournalPath string             `json:"journal_path"`
	LockPath    string             `json:"lock_path"`
	SocketPath  string             `json:"socket_path"`
	Checks      []preflight.Result `json:"checks"`
}

// SyncRequest triggers one sync pass.
type SyncRequest struct{}

// SyncResponse carries the pass outcome. Pass failures travel in Error so
// the caller still sees partial counts.
type SyncResponse struct {
	Result *syncer.PassResult `json:"result"`
	Error  string             `json:"error,omitempty"`
}

// StopRequest asks the daemon to shut down.
type StopRequest struct{}

// StopResponse indicates stop result.
type StopResponse struct {
	Stopped bool `json:"stopped"`
}

// TestNotificationRequest pushes a test message through the daemon's sink.
type TestNotificationRequest struct{}

// TestNotificationResponse reports delivery outcome.
type TestNotificationResponse struct {
	Sent   bool   `json:"sent"`
	Detail string `json:"detail"`
}

// HistoryRequest fetches recent unlock journal rows.
type HistoryRequest struct {
	Limit int `json:"limit"`
}

// HistoryEntry is the wire form of one unlock journal row.
type HistoryEntry struct {
	TrophyID   string    `json:"trophy_id"`
	Title      string    `json:"title"`
	Achieved   bool      `json:"achieved"`
	UnlockTime uint32    `json:"unlock_time"`
	DetectedAt time.Time `json:"detected_at"`
	PassID     string    `json:"pass_id"`
}

// HistoryResponse contains unlock rows, newest first.
type HistoryResponse struct {
	Entries []HistoryEntry `json:"entries"`
}
