package audit

import (
	"errors"
	"time"
)

// #region entry
// Source tags which surface produced a decision.
const (
	SourceCLI = "cli"
	SourceRPC = "rpc"
)

// Entry is a single row in the decision_log table. CMV and FUV are stored as
// fifteen-character strings of 1s and 0s, condition 0 first.
type Entry struct {
	RunID     string
	Source    string
	NumPoints int
	CMV       string
	FUV       string
	Launch    bool
	InputJSON string
	CreatedAt time.Time
}

// Answer renders the logged decision as YES or NO.
func (e Entry) Answer() string {
	if e.Launch {
		return "YES"
	}
	return "NO"
}

// ErrNotFound is returned by Get for an unknown run id.
var ErrNotFound = errors.New("audit entry not found")

// #endregion entry
