package domain

import (
	"encoding/json"
	"time"
)

// AuditLog records who ran a pipeline operation and what it touched.
type AuditLog struct {
	ID           string
	Actor        string // Who performed the action (posted_by / reversal actor / system)
	Action       string // What action (journal.post, journal.reverse, ...)
	ResourceType string // Type of resource (journal_entry, candidate_entry, batch)
	ResourceID   string // ID of the resource, empty for batch operations
	Detail       JSON   // Operation detail (counts, reason, filters)
	Status       string // success, failure, error
	ErrorMessage string // If status=error, the error message
	CreatedAt    time.Time
}

// JSON is a type alias for JSON data
type JSON map[string]any

// Auditable actions.
const (
	AuditActionStagingImport = "staging.import"
	AuditActionStagingAssign = "staging.assign"

	AuditActionTrialBuild    = "trial.build"
	AuditActionTrialValidate = "trial.validate"
	AuditActionTrialMatch    = "trial.match_transfers"

	AuditActionJournalPost    = "journal.post"
	AuditActionJournalReverse = "journal.reverse"
)

// AuditStatus represents the status of an audited action
type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusError   AuditStatus = "error"
)

// MarshalState converts a domain object to JSON for audit logging
func MarshalState(v any) JSON {
	if v == nil {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return JSON{"error": "failed to marshal state"}
	}

	var result JSON
	if err := json.Unmarshal(data, &result); err != nil {
		return JSON{"error": "failed to unmarshal state"}
	}

	return result
}

// AuditFilter defines filters for querying audit logs
type AuditFilter struct {
	Actor        string
	Action       string
	ResourceType string
	ResourceID   string
	StartDate    *time.Time
	EndDate      *time.Time
	Limit        int
	Offset       int
}
