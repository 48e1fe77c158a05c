package sync

import "time"

// ChecklistItem is one tracked sub-task in a worker's payroll-readiness
// sequence.
type ChecklistItem struct {
	ID        string    `json:"id"`
	WorkerID  string    `json:"workerId"`
	Key       string    `json:"key"`
	Label     string    `json:"label"`
	Done      bool      `json:"done"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Issue is a flagged anomaly tied to one contractor. Once created it is
// immutable except through Resolve.
type Issue struct {
	ID          string     `json:"id"`
	WorkerID    string     `json:"workerId"`
	Type        string     `json:"type"`
	Severity    string     `json:"severity"`
	Description string     `json:"description,omitempty"`
	Resolved    bool       `json:"resolved"`
	CreatedAt   time.Time  `json:"createdAt"`
	ResolvedAt  *time.Time `json:"resolvedAt,omitempty"`
}
