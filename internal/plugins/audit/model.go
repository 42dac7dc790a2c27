// Package audit records wiki lifecycle events (created, set private, set
// public) to the mw_log table and serves them back per wiki. It only
// observes changes made by other plugins.
package audit

import "time"

// Each action follows the pattern "resource.verb".
const (
	// ActionWikiCreated is logged after a new wiki has been seeded.
	ActionWikiCreated = "wiki.created"

	// ActionWikiPrivate is logged after a wiki received the private defaults.
	ActionWikiPrivate = "wiki.private"

	// ActionWikiPublic is logged after a wiki's private group was dropped.
	ActionWikiPublic = "wiki.public"
)

// LogEntry is one recorded lifecycle event. Details holds action-specific
// metadata such as the private flag or the seeded namespace count.
type LogEntry struct {
	ID        int64          `json:"id"`
	Wiki      string         `json:"wiki"`
	Action    string         `json:"action"`
	Details   map[string]any `json:"details,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

// LogPage is one page of a wiki's log, most recent first.
type LogPage struct {
	Entries []LogEntry `json:"entries"`
	Total   int        `json:"total"`
	Page    int        `json:"page"`
	PerPage int        `json:"perPage"`
}
