package runlock

import (
	"fmt"
	"time"
)

// LockInfo is the content of the run lock file
type LockInfo struct {
	RunID   string    `json:"run_id"`
	PID     int       `json:"pid"`
	SinceTS time.Time `json:"since_ts"`
}

// HeldError reports a lock owned by another, still live, run
type HeldError struct {
	Holder LockInfo
	Age    time.Duration
}

func (e *HeldError) Error() string {
	return fmt.Sprintf("another installation is running: run %s (pid %d) acquired the lock %s ago",
		e.Holder.RunID, e.Holder.PID, e.Age.Round(time.Second))
}
